package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theophile-senechal/unlock-app/internal/spatial"
)

func TestMultipointWKT(t *testing.T) {
	wkt := multipointWKT([]spatial.Point{
		{Lat: 48.86, Lon: 2.35},
		{Lat: -33.87, Lon: 151.21},
	})

	assert.Equal(t, "MULTIPOINT((2.35 48.86),(151.21 -33.87))", wkt)
}

func TestMultipointWKTSinglePoint(t *testing.T) {
	assert.Equal(t, "MULTIPOINT((0 0))", multipointWKT([]spatial.Point{{}}))
}

func TestParseOutlinePolygon(t *testing.T) {
	raw := `{"type":"Polygon","coordinates":[[[2.30,48.80],[2.40,48.80],[2.40,48.90],[2.30,48.90],[2.30,48.80]]]}`

	ring, err := parseOutline(raw)
	require.NoError(t, err)
	require.Len(t, ring, 5)
	assert.Equal(t, spatial.Point{Lat: 48.80, Lon: 2.30}, ring[0])
	assert.Equal(t, spatial.Point{Lat: 48.90, Lon: 2.40}, ring[2])
}

func TestParseOutlineMultiPolygonUsesFirstOuterRing(t *testing.T) {
	raw := `{"type":"MultiPolygon","coordinates":[
		[[[0,0],[1,0],[1,1],[0,1],[0,0]],[[0.2,0.2],[0.8,0.2],[0.8,0.8],[0.2,0.8],[0.2,0.2]]],
		[[[5,5],[6,5],[6,6],[5,6],[5,5]]]
	]}`

	ring, err := parseOutline(raw)
	require.NoError(t, err)
	require.Len(t, ring, 5)
	assert.Equal(t, spatial.Point{Lat: 0, Lon: 0}, ring[0])
	assert.Equal(t, spatial.Point{Lat: 0, Lon: 1}, ring[1], "lon/lat pairs are inverted")
}

func TestParseOutlineRejectsBadGeometry(t *testing.T) {
	cases := map[string]string{
		"not json":         `{`,
		"unsupported type": `{"type":"Point","coordinates":[2.35,48.86]}`,
		"empty polygon":    `{"type":"Polygon","coordinates":[]}`,
		"short pair":       `{"type":"Polygon","coordinates":[[[2.35]]]}`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseOutline(raw)
			assert.Error(t, err)
		})
	}
}
