package location

import (
	"fmt"
	"strconv"
	"strings"

	"worldclock/internal/models"
)

// PlaceholderLabel is shown when a record carries no usable name at all.
const PlaceholderLabel = "Məkan"

// MapPlace converts a raw record into a Place. Records without finite
// coordinates are rejected.
func MapPlace(p NominatimPlace) (models.Place, bool) {
	lat, lon, err := p.Coordinates()
	if err != nil || !(models.Coordinates{Lat: lat, Lon: lon}).Finite() {
		return models.Place{}, false
	}

	addr := p.Address
	city := firstNonEmpty(
		addr.City,
		addr.Town,
		addr.Village,
		addr.Municipality,
		addr.County,
		p.NameDetails["name"],
		p.NameDetails["name:az"],
		p.Name,
	)
	admin := firstNonEmpty(addr.State, addr.Region, addr.County, addr.Province)
	country := addr.Country

	key := compositeKey(lat, lon, country, city)
	if p.PlaceID != 0 {
		key = strconv.FormatInt(p.PlaceID, 10)
	}

	label := BuildLabel(city, admin, country, p.DisplayName)
	if city == "" {
		city = label
	}

	return models.Place{
		Key:     key,
		City:    city,
		Admin:   admin,
		Country: country,
		Lat:     lat,
		Lon:     lon,
		Label:   label,
	}, true
}

// MapPlaces maps every record, dropping the unusable ones.
func MapPlaces(raw []NominatimPlace) []models.Place {
	out := make([]models.Place, 0, len(raw))
	for _, r := range raw {
		if p, ok := MapPlace(r); ok {
			out = append(out, p)
		}
	}
	return out
}

// BuildLabel joins city, admin and country, skipping a component equal to
// the one before it. It falls back to the raw display name, then to
// PlaceholderLabel.
func BuildLabel(city, admin, country, displayName string) string {
	var parts []string
	if city != "" {
		parts = append(parts, city)
	}
	if admin != "" && admin != city {
		parts = append(parts, admin)
	}
	if country != "" && country != admin {
		parts = append(parts, country)
	}
	if out := strings.TrimSpace(strings.Join(parts, ", ")); out != "" {
		return out
	}
	if displayName != "" {
		return displayName
	}
	return PlaceholderLabel
}

func compositeKey(lat, lon float64, country, city string) string {
	return fmt.Sprintf("%.5f,%.5f:%s:%s", lat, lon, country, city)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
