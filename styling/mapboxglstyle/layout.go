package mapboxglstyle

import "strings"

type Layout struct {
	Visibility            string                       `json:"visibility"`
	LineCap               string                       `json:"line-cap"`
	LineJoin              string                       `json:"line-join"`
	TextField             interface{}                  `json:"text-field"`
	TextFont              []string                     `json:"text-font"`
	TextSize              *NumberOrFunctionWrapperType `json:"text-size"` // float64 or {"base": 1.4, "stops": [[10, 8], [20, 14]]}
	SymbolPlacement       string                       `json:"symbol-placement"`
	TextRotationAlignment string                       `json:"text-rotation-alignment"`
	TextTransform         string                       `json:"text-transform"`
	TextAnchor            string                       `json:"text-anchor"`
	IconImage             interface{}                  `json:"icon-image"`
}

// DefaultFontStack is used for symbol layers that name no font.
var DefaultFontStack = []string{"Open Sans Regular", "Arial Unicode MS Regular"}

// FontStack gives the comma separated font stack name, as used in glyph URLs.
func (l *Layout) FontStack() string {
	if l == nil || len(l.TextFont) == 0 {
		return strings.Join(DefaultFontStack, ",")
	}

	return strings.Join(l.TextFont, ",")
}

// HasText reports whether a symbol layer places text, and so needs glyphs.
func (l *Layout) HasText() bool {
	if l == nil || l.TextField == nil {
		return false
	}

	text, ok := l.TextField.(string)
	return !ok || text != ""
}
