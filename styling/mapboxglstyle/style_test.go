package mapboxglstyle

import (
	"encoding/json"
	"image/color"
	"testing"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStyle = `{
	"version": 8,
	"name": "test",
	"sprite": "mapbox://sprites/mapbox/bright-v8",
	"glyphs": "mapbox://fonts/mapbox/{fontstack}/{range}.pbf",
	"sources": {
		"satellite": {"type": "raster", "url": "mapbox://mapbox.satellite", "tileSize": 256},
		"streets": {"type": "vector", "tiles": ["https://example.com/{z}/{x}/{y}.pbf"]},
		"points": {"type": "geojson", "data": "file:///data/points.geojson"},
		"inline": {"type": "geojson", "data": {"type": "FeatureCollection", "features": []}}
	},
	"layers": [
		{"id": "background", "type": "background", "paint": {"background-color": "#eeeeee", "background-opacity": 0.5}},
		{"id": "satellite", "type": "raster", "source": "satellite", "maxzoom": 10},
		{"id": "roads", "type": "line", "source": "streets", "source-layer": "road", "minzoom": 5, "paint": {"line-width": 2}},
		{"id": "labels", "type": "symbol", "source": "points", "layout": {"text-field": "{name}", "text-font": ["Open Sans Bold"], "visibility": "none"}}
	]
}`

func TestParse(t *testing.T) {
	style, err := Parse([]byte(testStyle))
	require.Nil(t, err)

	assert.Equal(t, 8, style.Version)
	assert.Equal(t, "mapbox://sprites/mapbox/bright-v8", style.Sprite)
	require.Len(t, style.Layers, 4)
	require.Len(t, style.Sources, 4)

	assert.Equal(t, 256, style.Sources["satellite"].GetTileSize())
	assert.Equal(t, 512, style.Sources["streets"].GetTileSize())
	assert.True(t, style.Sources["streets"].IsTiled())
	assert.False(t, style.Sources["points"].IsTiled())

	dataURL, ok := style.Sources["points"].DataURL()
	assert.True(t, ok)
	assert.Equal(t, "file:///data/points.geojson", dataURL)

	_, ok = style.Sources["inline"].DataURL()
	assert.False(t, ok)
	inline, ok := style.Sources["inline"].InlineData()
	assert.True(t, ok)
	assert.Contains(t, string(inline), "FeatureCollection")

	background := style.Layers[0]
	assert.Equal(t, color.NRGBA{0xee, 0xee, 0xee, 0x80}, background.GetBackgroundColor(0))

	satellite := style.Layers[1]
	assert.True(t, satellite.IsVisibleAtZoom(9.9))
	assert.False(t, satellite.IsVisibleAtZoom(10))

	roads := style.Layers[2]
	assert.False(t, roads.IsVisibleAtZoom(4))
	assert.Equal(t, float64(2), roads.GetLineStyle(6).Width)
	assert.Equal(t, color.Black, roads.GetLineStyle(6).Color)

	labels := style.Layers[3]
	assert.False(t, labels.IsVisibleAtZoom(10))
	assert.True(t, labels.Layout.HasText())
	assert.Equal(t, "Open Sans Bold", labels.Layout.FontStack())
}

func TestParse_syntaxError(t *testing.T) {
	_, err := Parse([]byte(`{"version": 8,`))
	require.NotNil(t, err)

	_, ok := errorsx.Cause(err).(*json.SyntaxError)
	assert.True(t, ok)
}

func TestParse_invalid(t *testing.T) {
	tests := []struct {
		name  string
		style string
	}{
		{"wrong version", `{"version": 7, "sources": {}, "layers": []}`},
		{"unknown source", `{"version": 8, "sources": {}, "layers": [{"id": "a", "type": "fill", "source": "nope"}]}`},
		{"duplicate layer", `{"version": 8, "layers": [{"id": "a", "type": "background"}, {"id": "a", "type": "background"}]}`},
		{"missing source", `{"version": 8, "layers": [{"id": "a", "type": "fill"}]}`},
		{"bad zoom range", `{"version": 8, "layers": [{"id": "a", "type": "background", "minzoom": 10, "maxzoom": 5}]}`},
		{"zoom out of range", `{"version": 8, "layers": [{"id": "a", "type": "background", "maxzoom": 30}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.style))
			assert.NotNil(t, err)
		})
	}
}

func TestLayout_defaults(t *testing.T) {
	var layout *Layout
	assert.Equal(t, "Open Sans Regular,Arial Unicode MS Regular", layout.FontStack())
	assert.False(t, layout.HasText())
}
