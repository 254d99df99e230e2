package mapengine

import (
	"context"
	"fmt"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-render/mapresource"
)

const BytesPerPixel = 4

// Zoom levels below 0 give worlds narrower than 512 pixels, for 256 and 128 pixel tiles at tile zoom 0.
const (
	MinZoom = -2
	MaxZoom = 24
)

// RequestFunc is how an engine asks for the resources a style references.
// It returns exactly one of a response or an error.
type RequestFunc func(ctx context.Context, req *mapresource.ResourceRequest) (*mapresource.ResourceResponse, errorsx.Error)

type Options struct {
	Request RequestFunc
	Ratio   float64
}

type Viewport struct {
	Zoom    float64
	Width   int
	Height  int
	Center  [2]float64 // lng, lat
	Bearing float64
	Pitch   float64
}

func (v Viewport) Validate() errorsx.Error {
	if v.Width <= 0 || v.Height <= 0 {
		return errorsx.Errorf("viewport dimensions must be positive but were %dx%d", v.Width, v.Height)
	}

	if v.Zoom < MinZoom || v.Zoom > MaxZoom {
		return errorsx.Errorf("zoom must be between %d and %d (inclusive) but was %f", MinZoom, MaxZoom, v.Zoom)
	}

	lng, lat := v.Center[0], v.Center[1]
	if lng < -180 || lng > 180 || lat < -90 || lat > 90 {
		return errorsx.Errorf("center out of range: [%f, %f]", lng, lat)
	}

	if v.Pitch < 0 || v.Pitch > 60 {
		return errorsx.Errorf("pitch must be between 0 and 60 (inclusive) but was %f", v.Pitch)
	}

	return nil
}

// PixelSize is the size of the frame an engine produces for the viewport at the given ratio.
func (v Viewport) PixelSize(ratio float64) (width, height int) {
	return int(float64(v.Width) * ratio), int(float64(v.Height) * ratio)
}

// Engine renders one frame at a time: Load, then Render, then Release.
type Engine interface {
	// Load parses a style document. A malformed document gives a *StyleParseError.
	Load(styleDocument string) errorsx.Error
	// Render produces premultiplied RGBA bytes sized width*ratio x height*ratio x 4.
	Render(ctx context.Context, viewport Viewport) ([]byte, errorsx.Error)
	Release()
}

type Factory func(options Options) (Engine, errorsx.Error)

type StyleParseError struct {
	Message string
}

func NewStyleParseError(offset int64, reason string) *StyleParseError {
	return &StyleParseError{
		Message: fmt.Sprintf("Failed to parse style: %d - %s", offset, reason),
	}
}

func (e *StyleParseError) Error() string {
	return e.Message
}
