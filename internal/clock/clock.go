// Package clock derives everything the clock face shows from an instant and
// a place: digital time, hand angles, offset text, localized date.
package clock

import (
	"fmt"
	"time"

	"worldclock/internal/models"
)

// Hands holds analog hand angles in degrees, clockwise from twelve.
type Hands struct {
	Hour   float64
	Minute float64
	Second float64
}

// HandAngles computes the hand positions for the wall time of t.
func HandAngles(t time.Time) Hands {
	h, m, s := t.Clock()
	return Hands{
		Hour:   (float64(h%12) + float64(m)/60 + float64(s)/3600) * 30,
		Minute: (float64(m) + float64(s)/60) * 6,
		Second: float64(s) * 6,
	}
}

// FormatHHMMSS renders t in loc as a 24-hour HH:MM:SS string.
func FormatHHMMSS(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("15:04:05")
}

// OffsetMinutes is loc's UTC offset at t.
func OffsetMinutes(t time.Time, loc *time.Location) int {
	_, off := t.In(loc).Zone()
	return off / 60
}

// FormatOffsetDiff describes a target-minus-local offset difference.
func FormatOffsetDiff(diffMin int) string {
	if diffMin == 0 {
		return "Eyni vaxt"
	}
	abs := diffMin
	if abs < 0 {
		abs = -abs
	}
	h, m := abs/60, abs%60
	hm := fmt.Sprintf("%d saat", h)
	if m != 0 {
		hm = fmt.Sprintf("%d saat %d dəqiqə", h, m)
	}
	if diffMin > 0 {
		return "Sizdən " + hm + " irəlidə"
	}
	return "Sizdən " + hm + " geridə"
}

var weekdays = [...]string{
	time.Sunday:    "bazar",
	time.Monday:    "bazar ertəsi",
	time.Tuesday:   "çərşənbə axşamı",
	time.Wednesday: "çərşənbə",
	time.Thursday:  "cümə axşamı",
	time.Friday:    "cümə",
	time.Saturday:  "şənbə",
}

// Weekday returns the Azerbaijani weekday name.
func Weekday(d time.Weekday) string {
	return weekdays[d]
}

// FormatDate renders the calendar date of t as "DD.MM.YYYY, weekday".
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006") + ", " + Weekday(t.Weekday())
}

// FormatCoordinates prints lat/lon with five decimals.
func FormatCoordinates(lat, lon float64) string {
	return fmt.Sprintf("%.5f, %.5f", lat, lon)
}

// IsNight reports whether hour falls in the night window [18, 6).
func IsNight(t time.Time) bool {
	h := t.Hour()
	return h >= 18 || h < 6
}

// ZoneID is loc's IANA name, or "Lokal" for the anonymous local zone.
func ZoneID(loc *time.Location) string {
	if loc == nil || loc.String() == "" || loc.String() == "Local" {
		return "Lokal"
	}
	return loc.String()
}

// Frame is one refresh of the selected place's clock.
type Frame struct {
	Time        string
	Hands       Hands
	City        string
	Region      string
	TZ          string
	OffsetDiff  string
	Date        string
	Coordinates string
	LocalTZ     string
}

// FrameIn renders place at now in its loaded zone loc. local is the
// viewer's zone.
func FrameIn(now time.Time, place models.Place, loc, local *time.Location) Frame {
	if local == nil {
		local = time.Local
	}
	at := now.In(loc)

	region := place.Region()
	if region == "" {
		region = "—"
	}
	city := place.City
	if city == "" {
		city = place.Label
	}

	return Frame{
		Time:        at.Format("15:04:05"),
		Hands:       HandAngles(at),
		City:        city,
		Region:      region,
		TZ:          place.TZ,
		OffsetDiff:  FormatOffsetDiff(OffsetMinutes(now, loc) - OffsetMinutes(now, local)),
		Date:        FormatDate(at),
		Coordinates: FormatCoordinates(place.Lat, place.Lon),
		LocalTZ:     ZoneID(local),
	}
}

// LocalFrame is the viewer's own clock line.
type LocalFrame struct {
	Time  string
	Zone  string
	Night bool
}

func Local(now time.Time, local *time.Location) LocalFrame {
	if local == nil {
		local = time.Local
	}
	at := now.In(local)
	abbr, _ := at.Zone()
	zone := ZoneID(local)
	if abbr != "" && abbr != zone {
		zone = fmt.Sprintf("%s (%s)", zone, abbr)
	}
	return LocalFrame{
		Time:  at.Format("15:04:05"),
		Zone:  zone,
		Night: IsNight(at),
	}
}
