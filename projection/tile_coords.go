package projection

import (
	"fmt"
	"math"

	"github.com/paulmach/osm"
)

const MaxZoomLevel = 24

type TileCoord struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

func (tc TileCoord) String() string {
	return fmt.Sprintf("%d/%d/%d", tc.Z, tc.X, tc.Y)
}

// Vector returns the x/y part of the tile coordinate, for the pixel and bounds helpers
func (tc TileCoord) Vector() Vector {
	return Vector{X: float64(tc.X), Y: float64(tc.Y)}
}

// ParseTileCoord parses a tile in the form "z/x/y"
func ParseTileCoord(s string) (TileCoord, error) {
	var tc TileCoord
	_, err := fmt.Sscanf(s, "%d/%d/%d", &tc.Z, &tc.X, &tc.Y)
	if err != nil {
		return TileCoord{}, fmt.Errorf("couldn't parse tile coordinate %q (expected z/x/y): %s", s, err)
	}

	err = tc.Validate()
	if err != nil {
		return TileCoord{}, err
	}

	return tc, nil
}

func (tc TileCoord) Validate() error {
	if tc.Z < 0 || tc.Z > MaxZoomLevel {
		return fmt.Errorf("zoom level of tile %q must be between 0 and %d", tc, MaxZoomLevel)
	}

	maxIndex := 1 << uint(tc.Z)
	if tc.X < 0 || tc.Y < 0 || tc.X >= maxIndex || tc.Y >= maxIndex {
		return fmt.Errorf("tile coordinate %q is out of range", tc)
	}

	return nil
}

// TilePyramid lists the tile itself and every tile up to depth levels below it
func TilePyramid(tile TileCoord, depth int) []TileCoord {
	if depth < 0 {
		depth = 0
	}

	var list []TileCoord
	for zoom := 0; zoom <= depth; zoom++ {
		factor := 1 << uint(zoom)
		for y := tile.Y * factor; y < (tile.Y+1)*factor; y++ {
			for x := tile.X * factor; x < (tile.X+1)*factor; x++ {
				list = append(list, TileCoord{X: x, Y: y, Z: tile.Z + zoom})
			}
		}
	}

	return list
}

func XYZToBounds(x, y, zoomLevel int) osm.Bounds {
	n := math.Pow(2, float64(zoomLevel))
	longitudeMin := float64(x)/n*360 - 180
	latRad := math.Atan(math.Sinh(math.Pi * (1 - 2*float64(y)/n)))
	latitudeMin := latRad * 180 / math.Pi

	longitudeMax := float64(x+1)/n*360 - 180
	latRad = math.Atan(math.Sinh(math.Pi * (1 - 2*float64(y+1)/n)))
	latitudeMax := latRad * 180 / math.Pi

	return osm.Bounds{
		MinLat: latitudeMax,
		MaxLat: latitudeMin,
		MinLon: longitudeMin,
		MaxLon: longitudeMax,
	}
}
