package softengine

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-render/styling/mapboxglstyle"
	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

func NewImageWithBackground(r image.Rectangle, c color.Color) *image.RGBA {
	img := image.NewRGBA(r)

	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)

	return img
}

func (e *Engine) drawLayers(img *image.RGBA, f *frame, resources *renderResources) errorsx.Error {
	zoom := f.viewport.Zoom

	for _, layer := range e.style.Layers {
		if !layer.IsVisibleAtZoom(zoom) {
			continue
		}

		var err errorsx.Error
		switch layer.Type {
		case mapboxglstyle.LayerTypeBackground:
			draw.Draw(img, img.Bounds(), image.NewUniform(layer.GetBackgroundColor(zoom)), image.Point{}, draw.Over)
		case mapboxglstyle.LayerTypeRaster:
			err = drawRasterTiles(img, resources.tiles[layer.Source], layer.GetRasterOpacity(zoom))
		case mapboxglstyle.LayerTypeFill, mapboxglstyle.LayerTypeLine, mapboxglstyle.LayerTypeCircle:
			featureCollection := resources.geoJSONs[layer.Source]
			if featureCollection == nil {
				// vector tile sources are fetched but not decoded
				continue
			}
			drawFeatures(img, f, layer, featureCollection)
		}
		if err != nil {
			return errorsx.Wrap(err, "layer", layer.ID)
		}
	}

	return nil
}

func drawRasterTiles(img *image.RGBA, tiles []*fetchedTile, opacity float64) errorsx.Error {
	var options *xdraw.Options
	if opacity < 1 {
		options = &xdraw.Options{
			DstMask: image.NewUniform(color.Alpha{A: uint8(opacity*0xff + 0.5)}),
		}
	}

	for _, tile := range tiles {
		tileImg, _, err := image.Decode(bytes.NewReader(tile.data))
		if err != nil {
			return errorsx.Wrap(err, "tile", tile.placement.coord.String())
		}

		xdraw.BiLinear.Scale(img, tile.placement.rect, tileImg, tileImg.Bounds(), xdraw.Over, options)
	}

	return nil
}

// geometryFilterType gives the geometry type name used by style filters.
func geometryFilterType(geometry orb.Geometry) string {
	switch geometry.(type) {
	case orb.Point, orb.MultiPoint:
		return mapboxglstyle.FilterThingTypePoint
	case orb.LineString, orb.MultiLineString:
		return mapboxglstyle.FilterThingTypeLineString
	case orb.Polygon, orb.MultiPolygon, orb.Ring, orb.Bound:
		return mapboxglstyle.FilterThingTypePolygon
	default:
		return ""
	}
}

func drawFeatures(img *image.RGBA, f *frame, layer *mapboxglstyle.Layer, featureCollection *geojson.FeatureCollection) {
	gc := draw2dimg.NewGraphicContext(img)

	for _, feature := range featureCollection.Features {
		drawGeometry(gc, f, layer, feature.Geometry, feature.Properties)
	}
}

func drawGeometry(gc *draw2dimg.GraphicContext, f *frame, layer *mapboxglstyle.Layer, geometry orb.Geometry, properties geojson.Properties) {
	if geometry == nil {
		return
	}

	collection, ok := geometry.(orb.Collection)
	if ok {
		for _, child := range collection {
			drawGeometry(gc, f, layer, child, properties)
		}
		return
	}

	if !layer.ShowsFeature(properties, geometryFilterType(geometry)) {
		return
	}

	zoom := f.viewport.Zoom

	switch layer.Type {
	case mapboxglstyle.LayerTypeFill:
		for _, polygon := range polygons(geometry) {
			drawPolygon(gc, f, polygon, layer.GetFillStyle(zoom))
		}
	case mapboxglstyle.LayerTypeLine:
		lineStyle := layer.GetLineStyle(zoom)
		if lineStyle == nil {
			return
		}
		for _, line := range lines(geometry) {
			drawLine(gc, f, line, lineStyle)
		}
	case mapboxglstyle.LayerTypeCircle:
		for _, point := range points(geometry) {
			drawCircle(gc, f, point, layer.GetCircleStyle(zoom))
		}
	}
}

func polygons(geometry orb.Geometry) []orb.Polygon {
	switch g := geometry.(type) {
	case orb.Polygon:
		return []orb.Polygon{g}
	case orb.MultiPolygon:
		return g
	case orb.Ring:
		return []orb.Polygon{{g}}
	case orb.Bound:
		return []orb.Polygon{g.ToPolygon()}
	default:
		return nil
	}
}

// lines gives the lines a line layer strokes. Polygon rings are stroked as their outlines.
func lines(geometry orb.Geometry) []orb.LineString {
	switch g := geometry.(type) {
	case orb.LineString:
		return []orb.LineString{g}
	case orb.MultiLineString:
		return g
	default:
		var outlines []orb.LineString
		for _, polygon := range polygons(geometry) {
			for _, ring := range polygon {
				outlines = append(outlines, orb.LineString(ring))
			}
		}
		return outlines
	}
}

func points(geometry orb.Geometry) []orb.Point {
	switch g := geometry.(type) {
	case orb.Point:
		return []orb.Point{g}
	case orb.MultiPoint:
		return g
	default:
		return nil
	}
}

func tracePath(gc *draw2dimg.GraphicContext, f *frame, points []orb.Point) {
	for i, point := range points {
		x, y := f.toScreen(point.Lon(), point.Lat())
		if i == 0 {
			gc.MoveTo(x, y)
		} else {
			gc.LineTo(x, y)
		}
	}
}

func drawPolygon(gc *draw2dimg.GraphicContext, f *frame, polygon orb.Polygon, fillStyle *mapboxglstyle.FillStyle) {
	gc.SetFillRule(draw2d.FillRuleEvenOdd)
	gc.SetFillColor(mapboxglstyle.WithOpacity(fillStyle.Color, fillStyle.Opacity))
	gc.BeginPath()
	for _, ring := range polygon {
		tracePath(gc, f, ring)
		gc.Close()
	}

	if fillStyle.OutlineColor == nil {
		gc.Fill()
		return
	}

	gc.SetStrokeColor(mapboxglstyle.WithOpacity(fillStyle.OutlineColor, fillStyle.Opacity))
	gc.SetLineWidth(f.ratio)
	gc.SetLineDash(nil, 0)
	gc.FillStroke()
}

func drawLine(gc *draw2dimg.GraphicContext, f *frame, line orb.LineString, lineStyle *mapboxglstyle.LineStyle) {
	lineWidth := lineStyle.Width * f.ratio

	gc.SetStrokeColor(mapboxglstyle.WithOpacity(lineStyle.Color, lineStyle.Opacity))
	gc.SetLineWidth(lineWidth)
	gc.SetLineCap(draw2d.ButtCap)
	gc.SetLineJoin(draw2d.MiterJoin)

	// dash lengths are in line widths
	var dash []float64
	for _, length := range lineStyle.DashArray {
		dash = append(dash, length*lineWidth)
	}
	gc.SetLineDash(dash, 0)

	gc.BeginPath()
	tracePath(gc, f, line)
	gc.Stroke()
}

func drawCircle(gc *draw2dimg.GraphicContext, f *frame, point orb.Point, circleStyle *mapboxglstyle.CircleStyle) {
	x, y := f.toScreen(point.Lon(), point.Lat())

	gc.SetFillColor(mapboxglstyle.WithOpacity(circleStyle.Color, circleStyle.Opacity))
	gc.BeginPath()
	draw2dkit.Circle(gc, x, y, circleStyle.Radius*f.ratio)
	gc.Fill()
}
