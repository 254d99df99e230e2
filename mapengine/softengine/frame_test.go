package softengine

import (
	"image"
	"testing"

	"github.com/jamesrr39/ownmap-render/mapengine"
	"github.com/jamesrr39/ownmap-render/projection"
	"github.com/stretchr/testify/assert"
)

func TestFrame_coveringTiles(t *testing.T) {
	f := newFrame(mapengine.Viewport{Zoom: 0, Width: 256, Height: 256}, 1)

	placements := f.coveringTiles(1)
	assert.Equal(t, []tilePlacement{
		{projection.TileCoord{X: 0, Y: 0, Z: 1}, image.Rect(-128, -128, 128, 128)},
		{projection.TileCoord{X: 1, Y: 0, Z: 1}, image.Rect(128, -128, 384, 128)},
		{projection.TileCoord{X: 0, Y: 1, Z: 1}, image.Rect(-128, 128, 128, 384)},
		{projection.TileCoord{X: 1, Y: 1, Z: 1}, image.Rect(128, 128, 384, 384)},
	}, placements)
}

func TestFrame_coveringTiles_wrapsAroundTheWorld(t *testing.T) {
	f := newFrame(mapengine.Viewport{Zoom: 0, Width: 1024, Height: 256}, 1)

	placements := f.coveringTiles(0)
	assert.Len(t, placements, 3)
	for _, placement := range placements {
		assert.Equal(t, projection.TileCoord{X: 0, Y: 0, Z: 0}, placement.coord)
	}
	assert.Equal(t, image.Rect(-256, -128, 256, 384), placements[0].rect)
	assert.Equal(t, image.Rect(768, -128, 1280, 384), placements[2].rect)
}

func TestFrame_coveringZoom(t *testing.T) {
	f := newFrame(mapengine.Viewport{Zoom: 2.6, Width: 256, Height: 256}, 1)

	assert.Equal(t, 4, f.coveringZoom(256, true, 0, 22))
	assert.Equal(t, 3, f.coveringZoom(256, false, 0, 22))
	assert.Equal(t, 2, f.coveringZoom(512, false, 0, 22))
	assert.Equal(t, 3, f.coveringZoom(256, true, 0, 3))
	assert.Equal(t, 5, f.coveringZoom(256, true, 5, 22))
}

func TestFrame_toScreen(t *testing.T) {
	f := newFrame(mapengine.Viewport{Zoom: 1, Width: 200, Height: 100, Center: [2]float64{0, 0}}, 2)

	x, y := f.toScreen(0, 0)
	assert.InDelta(t, 200, x, 0.0001)
	assert.InDelta(t, 100, y, 0.0001)
}

func Test_tileURL(t *testing.T) {
	coord := projection.TileCoord{X: 3, Y: 1, Z: 2}

	assert.Equal(t, "https://a.example.com/2/3/1.png", tileURL("https://a.example.com/{z}/{x}/{y}.png", coord, "", 1))
	assert.Equal(t, "https://a.example.com/2/3/2@2x.png", tileURL("https://a.example.com/{z}/{x}/{y}{ratio}.png", coord, "tms", 2))
	assert.Equal(t, "https://a.example.com/31/2/3/1.png", tileURL("https://a.example.com/{prefix}/{z}/{x}/{y}.png", coord, "xyz", 1))
}
