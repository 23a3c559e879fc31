package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawPlace(id int64, lat, lon string) NominatimPlace {
	return NominatimPlace{PlaceID: id, Lat: lat, Lon: lon}
}

func TestMapPlace_RejectsNonFiniteCoordinates(t *testing.T) {
	cases := []struct {
		name     string
		lat, lon string
	}{
		{"missing lat", "", "49.8"},
		{"garbage lon", "40.4", "east"},
		{"NaN", "NaN", "49.8"},
		{"infinite", "40.4", "+Inf"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := MapPlace(rawPlace(1, tc.lat, tc.lon))
			assert.False(t, ok)
		})
	}
}

func TestMapPlace_CityWaterfall(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(p *NominatimPlace)
		city   string
	}{
		{"city wins", func(p *NominatimPlace) { p.Address.City = "Baku"; p.Address.Town = "T" }, "Baku"},
		{"town", func(p *NominatimPlace) { p.Address.Town = "Xirdalan"; p.Address.Village = "V" }, "Xirdalan"},
		{"village", func(p *NominatimPlace) { p.Address.Village = "Lahic" }, "Lahic"},
		{"municipality", func(p *NominatimPlace) { p.Address.Municipality = "M" }, "M"},
		{"county", func(p *NominatimPlace) { p.Address.County = "C" }, "C"},
		{"namedetails name", func(p *NominatimPlace) { p.NameDetails = map[string]string{"name": "N", "name:az": "NA"} }, "N"},
		{"namedetails name:az", func(p *NominatimPlace) { p.NameDetails = map[string]string{"name:az": "NA"} }, "NA"},
		{"record name", func(p *NominatimPlace) { p.Name = "Raw" }, "Raw"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := rawPlace(1, "40", "49")
			tc.mutate(&p)
			got, ok := MapPlace(p)
			require.True(t, ok)
			assert.Equal(t, tc.city, got.City)
		})
	}
}

func TestMapPlace_AdminWaterfall(t *testing.T) {
	p := rawPlace(1, "40", "49")
	p.Address.Region = "Region"
	p.Address.Province = "Province"
	got, _ := MapPlace(p)
	assert.Equal(t, "Region", got.Admin)

	p.Address.State = "State"
	got, _ = MapPlace(p)
	assert.Equal(t, "State", got.Admin)
}

func TestMapPlace_Key(t *testing.T) {
	p := rawPlace(123, "40.409264", "49.867092")
	got, _ := MapPlace(p)
	assert.Equal(t, "123", got.Key)

	p = rawPlace(0, "40.409264", "49.867092")
	p.Address.City = "Baku"
	p.Address.Country = "Azerbaijan"
	got, _ = MapPlace(p)
	assert.Equal(t, "40.40926,49.86709:Azerbaijan:Baku", got.Key)
}

func TestMapPlace_EmptyCityFallsBackToLabel(t *testing.T) {
	p := rawPlace(1, "0", "0")
	p.DisplayName = "Null Island"
	got, ok := MapPlace(p)
	require.True(t, ok)
	assert.Equal(t, "Null Island", got.Label)
	assert.Equal(t, "Null Island", got.City)
	assert.Empty(t, got.TZ)
}

func TestBuildLabel(t *testing.T) {
	cases := []struct {
		name                 string
		city, admin, country string
		display              string
		expected             string
	}{
		{"all parts", "Gədəbəy", "Gədəbəy rayonu", "Azərbaycan", "", "Gədəbəy, Gədəbəy rayonu, Azərbaycan"},
		{"admin equal to city", "Baku", "Baku", "Azerbaijan", "", "Baku, Azerbaijan"},
		{"country equal to admin", "Monaco", "Monaco", "Monaco", "", "Monaco"},
		{"display fallback", "", "", "", "Somewhere, Earth", "Somewhere, Earth"},
		{"placeholder", "", "", "", "", PlaceholderLabel},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, BuildLabel(tc.city, tc.admin, tc.country, tc.display))
		})
	}
}
