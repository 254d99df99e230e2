package projection

import (
	"math"
)

const (
	DefaultTileSize = 256

	earthRadiusMetres = 6378137
	// originShift is half the circumference of the earth in Pseudo-Mercator metres
	originShift = 2 * math.Pi * earthRadiusMetres / 2.0
)

type WGS84 struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

type Mercator struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vector is a pixel or tile position. Origin is top-left.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type WGS84BoundingBox struct {
	LeftBottom WGS84 `json:"leftbottom"`
	RightTop   WGS84 `json:"righttop"`
}

type MercatorBoundingBox struct {
	LeftBottom Mercator `json:"leftbottom"`
	RightTop   Mercator `json:"righttop"`
}

// WGS84FromMercator converts a Pseudo-Mercator (EPSG:3857) point to WGS84 (EPSG:4326)
func WGS84FromMercator(pos Mercator) WGS84 {
	lng := (pos.X / originShift) * 180.0
	lat := (pos.Y / originShift) * 180.0
	lat = 180 / math.Pi * (2*math.Atan(math.Exp(lat*math.Pi/180.0)) - math.Pi/2.0)

	return WGS84{Lng: lng, Lat: lat}
}

// MercatorFromPixels converts pixel coordinates at the given zoom level of the tile pyramid to EPSG:3857
func MercatorFromPixels(pos Vector, zoom float64, tileSize int) Mercator {
	res := 2 * math.Pi * earthRadiusMetres / float64(tileSize) / math.Pow(2, zoom)

	return Mercator{
		X: pos.X*res - originShift,
		Y: originShift - pos.Y*res,
	}
}

func MercatorTileBounds(tile Vector, zoom float64, tileSize int) MercatorBoundingBox {
	size := float64(tileSize)
	leftBottom := MercatorFromPixels(Vector{X: tile.X * size, Y: (tile.Y + 1) * size}, zoom, tileSize)
	rightTop := MercatorFromPixels(Vector{X: (tile.X + 1) * size, Y: tile.Y * size}, zoom, tileSize)

	return MercatorBoundingBox{leftBottom, rightTop}
}

func WGS84TileBounds(tile Vector, zoom float64, tileSize int) WGS84BoundingBox {
	bounds := MercatorTileBounds(tile, zoom, tileSize)

	return WGS84BoundingBox{
		LeftBottom: WGS84FromMercator(bounds.LeftBottom),
		RightTop:   WGS84FromMercator(bounds.RightTop),
	}
}

func WGS84TileCenter(tile Vector, zoom float64, tileSize int) WGS84 {
	bounds := WGS84TileBounds(tile, zoom, tileSize)

	return WGS84{
		Lng: (bounds.RightTop.Lng + bounds.LeftBottom.Lng) / 2,
		Lat: (bounds.RightTop.Lat + bounds.LeftBottom.Lat) / 2,
	}
}

// LngLatToWorldPixel projects a coordinate onto a square Web Mercator world worldSize pixels wide.
// Latitudes are clamped to the Mercator limits.
func LngLatToWorldPixel(lng, lat, worldSize float64) Vector {
	lat = math.Max(math.Min(lat, MaxMercatorLatitude), -MaxMercatorLatitude)
	latRad := lat * math.Pi / 180

	x := (lng + 180) / 360 * worldSize
	y := (1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2 * worldSize

	return Vector{X: x, Y: y}
}

// MaxMercatorLatitude is the latitude at which the Web Mercator world becomes square
const MaxMercatorLatitude = 85.0511287798066

// ViewportZoomForTile gives the viewport zoom that renders tile zoom level z at tileSize pixels,
// given an engine whose zoom 0 world is 512 pixels wide.
func ViewportZoomForTile(z int, tileSize int) float64 {
	return float64(z) + math.Log2(float64(tileSize)/512)
}
