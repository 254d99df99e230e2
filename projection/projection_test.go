package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const delta = 0.00001

func TestWGS84FromMercator(t *testing.T) {
	tests := []struct {
		name string
		pos  Mercator
		want WGS84
	}{
		{"zeros", Mercator{0, 0}, WGS84{0, 0}},
		{"positive values", Mercator{1252344, 6105178}, WGS84{11.249999999999993, 47.989921667414194}},
		{"negative values", Mercator{-7604567, -7330617}, WGS84{-68.31298828125001, -54.838663612975104}},
		{"projected bounds", Mercator{-20037508.342789, 20037508.342789}, WGS84{-180, 85.051129}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WGS84FromMercator(tt.pos)
			assert.InDelta(t, tt.want.Lng, got.Lng, delta)
			assert.InDelta(t, tt.want.Lat, got.Lat, delta)
		})
	}
}

func TestMercatorFromPixels(t *testing.T) {
	tests := []struct {
		name string
		pos  Vector
		zoom float64
		want Mercator
	}{
		{"null island", Vector{256, 256}, 1, Mercator{0, 0}},
		{"top left", Vector{0, 0}, 1, Mercator{-20037508.342789, 20037508.342789}},
		{"zoom 14", Vector{1301248, 2864384}, 14, Mercator{-7604567.070035616, -7330616.760661542}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MercatorFromPixels(tt.pos, tt.zoom, DefaultTileSize)
			assert.InDelta(t, tt.want.X, got.X, delta)
			assert.InDelta(t, tt.want.Y, got.Y, delta)
		})
	}
}

func TestMercatorTileBounds(t *testing.T) {
	bounds := MercatorTileBounds(Vector{0, 0}, 1, DefaultTileSize)
	assert.InDelta(t, -20037508.342789, bounds.LeftBottom.X, delta)
	assert.InDelta(t, 0, bounds.LeftBottom.Y, delta)
	assert.InDelta(t, 0, bounds.RightTop.X, delta)
	assert.InDelta(t, 20037508.342789, bounds.RightTop.Y, delta)

	bounds = MercatorTileBounds(Vector{5083, 11188}, 14, DefaultTileSize)
	assert.InDelta(t, -7604567.070035616, bounds.LeftBottom.X, delta)
	assert.InDelta(t, -7330616.760661542, bounds.LeftBottom.Y, delta)
	assert.InDelta(t, -7602121.08513049, bounds.RightTop.X, delta)
	assert.InDelta(t, -7328170.775756419, bounds.RightTop.Y, delta)
}

func TestWGS84TileBounds(t *testing.T) {
	tests := []struct {
		name string
		tile Vector
		zoom float64
		want WGS84BoundingBox
	}{
		{"zoom 1", Vector{0, 0}, 1, WGS84BoundingBox{WGS84{-180, 0}, WGS84{0, 85.051129}}},
		{"zoom 9", Vector{272, 177}, 9, WGS84BoundingBox{WGS84{11.25, 47.98992189}, WGS84{11.95312466, 48.45835188}}},
		{"zoom 13", Vector{4383, 2854}, 13, WGS84BoundingBox{WGS84{12.61230469, 47.78363486}, WGS84{12.65624966, 47.81315452}}},
		{"zoom 10 near the pole", Vector{5, 10}, 10, WGS84BoundingBox{WGS84{-178.242187, 84.706049}, WGS84{-177.890625, 84.738387}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WGS84TileBounds(tt.tile, tt.zoom, DefaultTileSize)
			assert.InDelta(t, tt.want.LeftBottom.Lng, got.LeftBottom.Lng, delta)
			assert.InDelta(t, tt.want.LeftBottom.Lat, got.LeftBottom.Lat, delta)
			assert.InDelta(t, tt.want.RightTop.Lng, got.RightTop.Lng, delta)
			assert.InDelta(t, tt.want.RightTop.Lat, got.RightTop.Lat, delta)
		})
	}
}

func TestWGS84TileCenter(t *testing.T) {
	center := WGS84TileCenter(Vector{0, 0}, 0, DefaultTileSize)
	assert.InDelta(t, 0, center.Lng, delta)
	assert.InDelta(t, 0, center.Lat, delta)

	center = WGS84TileCenter(Vector{4383, 2854}, 13, DefaultTileSize)
	assert.InDelta(t, 12.63427717, center.Lng, delta)
	assert.InDelta(t, 47.79839469, center.Lat, delta)
}

func TestLngLatToWorldPixel(t *testing.T) {
	center := LngLatToWorldPixel(0, 0, 512)
	assert.InDelta(t, 256, center.X, delta)
	assert.InDelta(t, 256, center.Y, delta)

	topLeft := LngLatToWorldPixel(-180, 90, 512)
	assert.InDelta(t, 0, topLeft.X, delta)
	assert.InDelta(t, 0, topLeft.Y, 0.001)
}

func TestViewportZoomForTile(t *testing.T) {
	assert.Equal(t, float64(-1), ViewportZoomForTile(0, 256))
	assert.Equal(t, float64(11), ViewportZoomForTile(11, 512))
	assert.Equal(t, float64(10), ViewportZoomForTile(11, 256))
}
