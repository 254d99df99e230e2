package mapboxglstyle

import (
	"bytes"
	"encoding/json"
	"image/color"
	"math"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/lucasb-eyer/go-colorful"
)

type Paint struct {
	BackgroundColor   *ColorOrFunctionWrapperType  `json:"background-color"`
	BackgroundOpacity *NumberOrFunctionWrapperType `json:"background-opacity"`
	FillColor         *ColorOrFunctionWrapperType  `json:"fill-color"`
	FillOpacity       *NumberOrFunctionWrapperType `json:"fill-opacity"`
	FillOutlineColor  *ColorOrFunctionWrapperType  `json:"fill-outline-color"`
	LineColor         *ColorOrFunctionWrapperType  `json:"line-color"`
	LineWidth         *NumberOrFunctionWrapperType `json:"line-width"`
	LineOpacity       *NumberOrFunctionWrapperType `json:"line-opacity"`
	LineDashArray     []float64                    `json:"line-dasharray"`
	CircleColor       *ColorOrFunctionWrapperType  `json:"circle-color"`
	CircleRadius      *NumberOrFunctionWrapperType `json:"circle-radius"`
	CircleOpacity     *NumberOrFunctionWrapperType `json:"circle-opacity"`
	RasterOpacity     *NumberOrFunctionWrapperType `json:"raster-opacity"`
	TextColor         *ColorOrFunctionWrapperType  `json:"text-color"`
}

// NumberOrFunctionWrapperType is a number, or a zoom function:
// {"base": 1.4, "stops": [[10, 8], [20, 14]]}.
// Expressions are not evaluated and leave the value unset.
type NumberOrFunctionWrapperType struct {
	Value *float64
	Base  float64
	Stops [][2]float64
}

func (n *NumberOrFunctionWrapperType) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) || data[0] == '[' {
		return nil
	}

	if data[0] == '{' {
		var function struct {
			Base  *float64     `json:"base"`
			Stops [][2]float64 `json:"stops"`
		}
		err := json.Unmarshal(data, &function)
		if err != nil {
			return errorsx.Wrap(err)
		}

		n.Base = 1
		if function.Base != nil {
			n.Base = *function.Base
		}
		n.Stops = function.Stops
		return nil
	}

	var value float64
	err := json.Unmarshal(data, &value)
	if err != nil {
		return errorsx.Wrap(err)
	}

	n.Value = &value
	return nil
}

// GetValueAtZoomLevel evaluates the value at zoom. An unset value gives fallback.
func (n *NumberOrFunctionWrapperType) GetValueAtZoomLevel(zoom, fallback float64) float64 {
	if n == nil {
		return fallback
	}

	if n.Value != nil {
		return *n.Value
	}

	if len(n.Stops) == 0 {
		return fallback
	}

	lowerIndex, upperIndex := stopIndexes(len(n.Stops), zoom, func(i int) float64 {
		return n.Stops[i][0]
	})
	if lowerIndex == upperIndex {
		return n.Stops[lowerIndex][1]
	}

	lower, upper := n.Stops[lowerIndex], n.Stops[upperIndex]
	t := interpolationFactor(n.Base, zoom, lower[0], upper[0])
	return lower[1] + (upper[1]-lower[1])*t
}

type ColorStop struct {
	Zoom  float64
	Color color.NRGBA
}

// ColorOrFunctionWrapperType is a color string, or a zoom function with color stops.
type ColorOrFunctionWrapperType struct {
	Color *color.NRGBA
	Base  float64
	Stops []ColorStop
}

func (c *ColorOrFunctionWrapperType) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) || data[0] == '[' {
		return nil
	}

	if data[0] == '{' {
		var function struct {
			Base  *float64            `json:"base"`
			Stops [][]json.RawMessage `json:"stops"`
		}
		err := json.Unmarshal(data, &function)
		if err != nil {
			return errorsx.Wrap(err)
		}

		c.Base = 1
		if function.Base != nil {
			c.Base = *function.Base
		}

		for _, rawStop := range function.Stops {
			if len(rawStop) != 2 {
				return errorsx.Errorf("color stop must have 2 elements but had %d", len(rawStop))
			}

			var stop ColorStop
			err = json.Unmarshal(rawStop[0], &stop.Zoom)
			if err != nil {
				return errorsx.Wrap(err)
			}

			var colorString string
			err = json.Unmarshal(rawStop[1], &colorString)
			if err != nil {
				return errorsx.Wrap(err)
			}

			var parseErr errorsx.Error
			stop.Color, parseErr = ParseColor(colorString)
			if parseErr != nil {
				return parseErr
			}

			c.Stops = append(c.Stops, stop)
		}
		return nil
	}

	var colorString string
	err := json.Unmarshal(data, &colorString)
	if err != nil {
		return errorsx.Wrap(err)
	}

	parsed, parseErr := ParseColor(colorString)
	if parseErr != nil {
		return parseErr
	}

	c.Color = &parsed
	return nil
}

// GetColorAtZoomLevel evaluates the color at zoom. It returns nil if no color is set.
func (c *ColorOrFunctionWrapperType) GetColorAtZoomLevel(zoom float64) color.Color {
	if c == nil {
		return nil
	}

	if c.Color != nil {
		return *c.Color
	}

	if len(c.Stops) == 0 {
		return nil
	}

	lowerIndex, upperIndex := stopIndexes(len(c.Stops), zoom, func(i int) float64 {
		return c.Stops[i].Zoom
	})
	if lowerIndex == upperIndex {
		return c.Stops[lowerIndex].Color
	}

	lower, upper := c.Stops[lowerIndex], c.Stops[upperIndex]
	t := interpolationFactor(c.Base, zoom, lower.Zoom, upper.Zoom)

	lowerColor, _ := colorful.MakeColor(opaque(lower.Color))
	upperColor, _ := colorful.MakeColor(opaque(upper.Color))
	r, g, b := lowerColor.BlendRgb(upperColor, t).Clamped().RGB255()
	alpha := float64(lower.Color.A) + (float64(upper.Color.A)-float64(lower.Color.A))*t

	return color.NRGBA{r, g, b, uint8(alpha + 0.5)}
}

func opaque(c color.NRGBA) color.NRGBA {
	c.A = 0xff
	return c
}

// stopIndexes finds the stops either side of zoom. Outside the range of the stops, both indexes
// point at the nearest stop.
func stopIndexes(count int, zoom float64, stopZoom func(i int) float64) (int, int) {
	if zoom <= stopZoom(0) {
		return 0, 0
	}

	for i := 1; i < count; i++ {
		if zoom < stopZoom(i) {
			return i - 1, i
		}
	}

	return count - 1, count - 1
}

func interpolationFactor(base, zoom, lowerZoom, upperZoom float64) float64 {
	difference := upperZoom - lowerZoom
	progress := zoom - lowerZoom
	if difference == 0 {
		return 0
	}

	if base == 1 {
		return progress / difference
	}

	return (math.Pow(base, progress) - 1) / (math.Pow(base, difference) - 1)
}
