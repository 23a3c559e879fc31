package models

import (
	"fmt"
	"math"
)

// Coordinates is a WGS84 position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Finite reports whether both components are usable numbers.
func (c Coordinates) Finite() bool {
	return isFinite(c.Lat) && isFinite(c.Lon)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Place is a resolved location candidate. Two places with the same Key are
// the same place. TZ is empty until the time zone has been resolved.
type Place struct {
	Key     string  `json:"key"`
	City    string  `json:"city"`
	Admin   string  `json:"admin"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Label   string  `json:"label"`
	TZ      string  `json:"tz,omitempty"`
}

// Coordinates returns the place position.
func (p Place) Coordinates() Coordinates {
	return Coordinates{Lat: p.Lat, Lon: p.Lon}
}

// Usable reports whether the place can drive a live clock.
func (p Place) Usable() bool {
	return p.TZ != ""
}

// WithTZ returns a copy of p carrying the given zone.
func (p Place) WithTZ(tz string) Place {
	p.TZ = tz
	return p
}

// CacheKey identifies the place in session caches, falling back to the
// label for records without a key.
func (p Place) CacheKey() string {
	if p.Key != "" {
		return p.Key
	}
	return p.Label
}

// DisplayName is the short "city, country" form used in lists.
func (p Place) DisplayName() string {
	if p.City == "" {
		return p.Label
	}
	if p.Country == "" {
		return p.City
	}
	return fmt.Sprintf("%s, %s", p.City, p.Country)
}

// Region joins country and admin with a bullet, skipping empty parts.
func (p Place) Region() string {
	switch {
	case p.Country != "" && p.Admin != "":
		return p.Country + " • " + p.Admin
	case p.Country != "":
		return p.Country
	default:
		return p.Admin
	}
}
