// Package softengine is a small pure Go rendering engine. It draws north-up frames from background,
// raster, and geojson fill, line and circle layers. Vector tiles and glyphs are requested like a full
// engine would, but not decoded.
package softengine

import (
	"context"
	"encoding/json"
	"fmt"
	"image/color"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-render/mapengine"
	"github.com/jamesrr39/ownmap-render/styling/mapboxglstyle"
)

type Engine struct {
	options  mapengine.Options
	style    *mapboxglstyle.Style
	released bool
}

func NewEngine(options mapengine.Options) (*Engine, errorsx.Error) {
	if options.Request == nil {
		return nil, errorsx.Errorf("no request function supplied")
	}

	if options.Ratio <= 0 {
		return nil, errorsx.Errorf("ratio must be greater than 0 but was %f", options.Ratio)
	}

	return &Engine{options: options}, nil
}

// Factory creates engines for a rendering session.
func Factory(options mapengine.Options) (mapengine.Engine, errorsx.Error) {
	engine, err := NewEngine(options)
	if err != nil {
		return nil, err
	}

	return engine, nil
}

func (e *Engine) Load(styleDocument string) errorsx.Error {
	if e.released {
		return errorsx.Errorf("engine has been released")
	}

	style, err := mapboxglstyle.Parse([]byte(styleDocument))
	if err != nil {
		return errorsx.Wrap(toStyleParseError(err))
	}

	e.style = style
	return nil
}

func toStyleParseError(err errorsx.Error) *mapengine.StyleParseError {
	switch cause := errorsx.Cause(err).(type) {
	case *json.SyntaxError:
		if cause.Offset == 0 {
			return mapengine.NewStyleParseError(0, "Invalid value.")
		}
		return mapengine.NewStyleParseError(cause.Offset, cause.Error())
	case *json.UnmarshalTypeError:
		return mapengine.NewStyleParseError(cause.Offset, cause.Error())
	default:
		return &mapengine.StyleParseError{
			Message: fmt.Sprintf("Failed to parse style: %s", cause.Error()),
		}
	}
}

func (e *Engine) Render(ctx context.Context, viewport mapengine.Viewport) ([]byte, errorsx.Error) {
	if e.released {
		return nil, errorsx.Errorf("engine has been released")
	}

	if e.style == nil {
		return nil, errorsx.Errorf("no style loaded")
	}

	err := viewport.Validate()
	if err != nil {
		return nil, err
	}

	f := newFrame(viewport, e.options.Ratio)

	resources, err := e.fetchResources(ctx, f)
	if err != nil {
		return nil, err
	}

	img := NewImageWithBackground(f.bounds(), color.Transparent)

	err = e.drawLayers(img, f, resources)
	if err != nil {
		return nil, err
	}

	return img.Pix, nil
}

func (e *Engine) Release() {
	e.released = true
	e.style = nil
}
