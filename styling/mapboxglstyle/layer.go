package mapboxglstyle

import (
	"image/color"

	"github.com/jamesrr39/goutil/errorsx"
)

type LayerType string

const (
	LayerTypeBackground    LayerType = "background"
	LayerTypeFill          LayerType = "fill"
	LayerTypeLine          LayerType = "line"
	LayerTypeSymbol        LayerType = "symbol"
	LayerTypeRaster        LayerType = "raster"
	LayerTypeCircle        LayerType = "circle"
	LayerTypeFillExtrusion LayerType = "fill-extrusion"
	LayerTypeHeatmap       LayerType = "heatmap"
	LayerTypeHillshade     LayerType = "hillshade"
)

const VisibilityNone = "none"

type Metadata map[string]interface{}

type Layer struct {
	Filter      Filter    `json:"filter"`
	ID          string    `json:"id"`
	Layout      *Layout   `json:"layout"`
	MaxZoom     *float64  `json:"maxzoom"`
	Metadata    Metadata  `json:"metadata"`
	MinZoom     *float64  `json:"minzoom"`
	Paint       *Paint    `json:"paint"`
	Source      string    `json:"source"`
	SourceLayer string    `json:"source-layer"`
	Type        LayerType `json:"type"`
}

func (l *Layer) Validate() errorsx.Error {
	if l.ID == "" {
		return errorsx.Errorf("layer has no id")
	}

	if l.Type == "" {
		return errorsx.Errorf("layer %q has no type", l.ID)
	}

	if l.MaxZoom != nil && l.MinZoom != nil {
		if *l.MaxZoom < *l.MinZoom {
			return errorsx.Errorf("layer %q: max zoom is smaller than min zoom", l.ID)
		}
	}

	if l.MaxZoom != nil && (*l.MaxZoom < 0 || *l.MaxZoom > 24) {
		return errorsx.Errorf("layer %q: max zoom must be between 0 and 24 (inclusive) but was %f", l.ID, *l.MaxZoom)
	}

	if l.MinZoom != nil && (*l.MinZoom < 0 || *l.MinZoom > 24) {
		return errorsx.Errorf("layer %q: min zoom must be between 0 and 24 (inclusive) but was %f", l.ID, *l.MinZoom)
	}

	if l.Type != LayerTypeBackground && l.Source == "" {
		return errorsx.Errorf("layer %q of type %q has no source", l.ID, l.Type)
	}

	return nil
}

// IsVisibleAtZoom reports whether the layer is drawn at zoom. minzoom is inclusive, maxzoom exclusive.
func (l *Layer) IsVisibleAtZoom(zoom float64) bool {
	if l.Layout != nil && l.Layout.Visibility == VisibilityNone {
		return false
	}

	if l.MinZoom != nil && zoom < *l.MinZoom {
		return false
	}

	if l.MaxZoom != nil && zoom >= *l.MaxZoom {
		return false
	}

	return true
}

// ShowsFeature evaluates the layer's filter against a feature.
func (l *Layer) ShowsFeature(properties map[string]interface{}, geometryType string) bool {
	return isObjectShown(l.Filter, properties, geometryType)
}

func (l *Layer) paint() *Paint {
	if l.Paint == nil {
		return &Paint{}
	}
	return l.Paint
}

type LineStyle struct {
	Color     color.Color
	Width     float64
	Opacity   float64
	DashArray []float64
}

// GetLineStyle gives the line style at zoom, or nil if nothing is drawn.
func (l *Layer) GetLineStyle(zoom float64) *LineStyle {
	paint := l.paint()

	lineColor := paint.LineColor.GetColorAtZoomLevel(zoom)
	if lineColor == nil {
		lineColor = color.Black
	}
	lineWidth := paint.LineWidth.GetValueAtZoomLevel(zoom, 1)

	if lineWidth == 0 {
		return nil
	}

	return &LineStyle{
		Color:     lineColor,
		Width:     lineWidth,
		Opacity:   paint.LineOpacity.GetValueAtZoomLevel(zoom, 1),
		DashArray: paint.LineDashArray,
	}
}

type FillStyle struct {
	Color        color.Color
	OutlineColor color.Color
	Opacity      float64
}

func (l *Layer) GetFillStyle(zoom float64) *FillStyle {
	paint := l.paint()

	fillColor := paint.FillColor.GetColorAtZoomLevel(zoom)
	if fillColor == nil {
		fillColor = color.Black
	}

	return &FillStyle{
		Color:        fillColor,
		OutlineColor: paint.FillOutlineColor.GetColorAtZoomLevel(zoom),
		Opacity:      paint.FillOpacity.GetValueAtZoomLevel(zoom, 1),
	}
}

type CircleStyle struct {
	Color   color.Color
	Radius  float64
	Opacity float64
}

func (l *Layer) GetCircleStyle(zoom float64) *CircleStyle {
	paint := l.paint()

	circleColor := paint.CircleColor.GetColorAtZoomLevel(zoom)
	if circleColor == nil {
		circleColor = color.Black
	}

	return &CircleStyle{
		Color:   circleColor,
		Radius:  paint.CircleRadius.GetValueAtZoomLevel(zoom, 5),
		Opacity: paint.CircleOpacity.GetValueAtZoomLevel(zoom, 1),
	}
}

// GetBackgroundColor gives the background color at zoom, with the layer opacity applied.
func (l *Layer) GetBackgroundColor(zoom float64) color.Color {
	paint := l.paint()

	backgroundColor := paint.BackgroundColor.GetColorAtZoomLevel(zoom)
	if backgroundColor == nil {
		backgroundColor = color.Black
	}

	return WithOpacity(backgroundColor, paint.BackgroundOpacity.GetValueAtZoomLevel(zoom, 1))
}

func (l *Layer) GetRasterOpacity(zoom float64) float64 {
	return l.paint().RasterOpacity.GetValueAtZoomLevel(zoom, 1)
}

// WithOpacity scales the alpha of c by opacity.
func WithOpacity(c color.Color, opacity float64) color.Color {
	nrgba := color.NRGBAModel.Convert(c).(color.NRGBA)
	nrgba.A = uint8(float64(nrgba.A)*clamp(opacity, 0, 1) + 0.5)
	return nrgba
}

type Light struct {
	Anchor    string    `json:"anchor"`
	Color     string    `json:"color"`
	Intensity float64   `json:"intensity"`
	Position  []float64 `json:"position"`
}

type Transition struct {
	Delay    int `json:"delay"`    // milliseconds
	Duration int `json:"duration"` // milliseconds
}
