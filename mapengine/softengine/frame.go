package softengine

import (
	"image"
	"math"

	"github.com/jamesrr39/ownmap-render/mapengine"
	"github.com/jamesrr39/ownmap-render/projection"
)

// worldTileSize is the size in pixels of the whole world at zoom 0.
const worldTileSize = 512

// frame maps between geographic coordinates and pixels of the image being rendered.
type frame struct {
	viewport  mapengine.Viewport
	width     int
	height    int
	ratio     float64
	worldSize float64
	topLeft   projection.Vector
}

func newFrame(viewport mapengine.Viewport, ratio float64) *frame {
	width, height := viewport.PixelSize(ratio)
	worldSize := worldTileSize * math.Pow(2, viewport.Zoom) * ratio

	center := projection.LngLatToWorldPixel(viewport.Center[0], viewport.Center[1], worldSize)

	return &frame{
		viewport:  viewport,
		width:     width,
		height:    height,
		ratio:     ratio,
		worldSize: worldSize,
		topLeft: projection.Vector{
			X: center.X - float64(width)/2,
			Y: center.Y - float64(height)/2,
		},
	}
}

func (f *frame) bounds() image.Rectangle {
	return image.Rect(0, 0, f.width, f.height)
}

// toScreen gives the pixel position of a point.
func (f *frame) toScreen(lng, lat float64) (float64, float64) {
	worldPixel := projection.LngLatToWorldPixel(lng, lat, f.worldSize)
	return worldPixel.X - f.topLeft.X, worldPixel.Y - f.topLeft.Y
}

type tilePlacement struct {
	// coord is the tile to fetch, with x wrapped into the world.
	coord projection.TileCoord
	// rect is where the tile lands on screen, which may be on a copy of the world either side.
	rect image.Rectangle
}

// coveringZoom picks the integer tile zoom for a source's tiles at the frame's zoom.
func (f *frame) coveringZoom(tileSize int, round bool, minZoom, maxZoom float64) int {
	zoom := f.viewport.Zoom + math.Log2(float64(worldTileSize)/float64(tileSize))
	if round {
		zoom = math.Round(zoom)
	} else {
		zoom = math.Floor(zoom)
	}

	return int(math.Max(minZoom, math.Min(maxZoom, zoom)))
}

// coveringTiles lists the tiles at zoom that are visible in the frame.
func (f *frame) coveringTiles(zoom int) []tilePlacement {
	tileCount := 1 << uint(zoom)
	tileScreenSize := f.worldSize / float64(tileCount)

	minX := int(math.Floor(f.topLeft.X / tileScreenSize))
	maxX := int(math.Floor((f.topLeft.X + float64(f.width) - 1) / tileScreenSize))
	minY := int(math.Max(0, math.Floor(f.topLeft.Y/tileScreenSize)))
	maxY := int(math.Min(float64(tileCount-1), math.Floor((f.topLeft.Y+float64(f.height)-1)/tileScreenSize)))

	var placements []tilePlacement
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			wrappedX := ((x % tileCount) + tileCount) % tileCount

			left := float64(x)*tileScreenSize - f.topLeft.X
			top := float64(y)*tileScreenSize - f.topLeft.Y

			placements = append(placements, tilePlacement{
				coord: projection.TileCoord{X: wrappedX, Y: y, Z: zoom},
				rect: image.Rect(
					int(math.Round(left)),
					int(math.Round(top)),
					int(math.Round(left+tileScreenSize)),
					int(math.Round(top+tileScreenSize)),
				),
			})
		}
	}

	return placements
}
