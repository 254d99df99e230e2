package mapboxglstyle

import (
	"bytes"
	"encoding/json"

	"github.com/jamesrr39/goutil/errorsx"
)

const (
	SourceTypeVector    = "vector"
	SourceTypeRaster    = "raster"
	SourceTypeRasterDEM = "raster-dem"
	SourceTypeGeoJSON   = "geojson"
	SourceTypeImage     = "image"
	SourceTypeVideo     = "video"
)

type Source struct {
	Type     string          `json:"type"`
	URL      string          `json:"url"`
	Tiles    []string        `json:"tiles"`
	TileSize int             `json:"tileSize"`
	MinZoom  *float64        `json:"minzoom"`
	MaxZoom  *float64        `json:"maxzoom"`
	Scheme   string          `json:"scheme"`
	Data     json.RawMessage `json:"data"`
}

type Sources map[string]*Source

// DataURL returns the URL of a geojson source whose data is a URL rather than inline.
func (s *Source) DataURL() (string, bool) {
	if len(s.Data) == 0 || s.Data[0] != '"' {
		return "", false
	}

	var dataURL string
	err := json.Unmarshal(s.Data, &dataURL)
	if err != nil {
		return "", false
	}

	return dataURL, dataURL != ""
}

// InlineData returns geojson data embedded in the style document.
func (s *Source) InlineData() ([]byte, bool) {
	data := bytes.TrimSpace(s.Data)
	if len(data) == 0 || data[0] != '{' {
		return nil, false
	}

	return data, true
}

func (s *Source) IsTiled() bool {
	switch s.Type {
	case SourceTypeVector, SourceTypeRaster, SourceTypeRasterDEM:
		return true
	default:
		return false
	}
}

// GetTileSize gives the tile size in pixels, 512 for vector sources and 256 otherwise unless set.
func (s *Source) GetTileSize() int {
	if s.TileSize > 0 {
		return s.TileSize
	}

	if s.Type == SourceTypeVector {
		return 512
	}
	return 256
}

// TileJSON is the document a source url points at. Only the fields used for tile URLs are kept.
type TileJSON struct {
	TileJSON string   `json:"tilejson"`
	Tiles    []string `json:"tiles"`
	MinZoom  *float64 `json:"minzoom"`
	MaxZoom  *float64 `json:"maxzoom"`
	Scheme   string   `json:"scheme"`
}

func ParseTileJSON(data []byte) (*TileJSON, errorsx.Error) {
	tileJSON := new(TileJSON)
	err := json.Unmarshal(data, tileJSON)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return tileJSON, nil
}

type Style struct {
	Version    int         `json:"version"`
	Name       string      `json:"name"`
	Metadata   Metadata    `json:"metadata"`
	Center     []float64   `json:"center"`
	Zoom       *float64    `json:"zoom"`
	Bearing    float64     `json:"bearing"`
	Pitch      float64     `json:"pitch"`
	Light      *Light      `json:"light"`
	Sources    Sources     `json:"sources"`
	Sprite     string      `json:"sprite"`
	Glyphs     string      `json:"glyphs"`
	Transition *Transition `json:"transition"`
	Layers     []*Layer    `json:"layers"`
}

// Parse decodes and validates a style document.
// JSON syntax errors are returned as the *json.SyntaxError cause so callers can report the offset.
func Parse(data []byte) (*Style, errorsx.Error) {
	style := new(Style)
	err := json.Unmarshal(data, style)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	validationErr := style.Validate()
	if validationErr != nil {
		return nil, validationErr
	}

	return style, nil
}

func (s *Style) Validate() errorsx.Error {
	if s.Version != 8 {
		return errorsx.Errorf("style version must be 8 but was %d", s.Version)
	}

	layerIDs := make(map[string]bool)
	for _, layer := range s.Layers {
		if layer == nil {
			return errorsx.Errorf("null layer")
		}

		err := layer.Validate()
		if err != nil {
			return err
		}

		if layerIDs[layer.ID] {
			return errorsx.Errorf("duplicate layer id: %q", layer.ID)
		}
		layerIDs[layer.ID] = true

		if layer.Source == "" {
			continue
		}

		source, ok := s.Sources[layer.Source]
		if !ok || source == nil {
			return errorsx.Errorf("layer %q references unknown source %q", layer.ID, layer.Source)
		}
	}

	return nil
}
