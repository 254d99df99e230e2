package mapresource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want URLCategory
	}{
		{"tile reference", "mapbox://tiles/mapbox.satellite/1/0/0.png", URLCategoryMapboxTileReference},
		{"font reference", "mapbox://fonts/mapbox/Open Sans Regular/0-255.pbf", URLCategoryMapboxFontReference},
		{"sprite reference", "mapbox://sprites/mapbox/bright-v8@2x.png", URLCategoryMapboxSpriteReference},
		{"bare style reference", "mapbox://mapbox.satellite", URLCategoryMapboxStyleReference},
		{"bare style reference with mapbox owner", "mapbox://mapbox.mapbox-streets-v8", URLCategoryMapboxStyleReference},
		{"other mapbox sub path", "mapbox://styles/mapbox/streets-v11", URLCategoryMapboxStyleReference},
		{"http", "http://example.com/tiles/0/0/0.png", URLCategoryRemoteHTTP},
		{"https", "https://example.com/style.json", URLCategoryRemoteHTTP},
		{"local file", "file:///tmp/x.json", URLCategoryLocalFile},
		{"relative local file", "file://data/x.json", URLCategoryLocalFile},
		{"ftp", "ftp://example.com/x", URLCategoryUnknown},
		{"bare path", "/tmp/x.json", URLCategoryUnknown},
		{"empty", "", URLCategoryUnknown},
		{"mapbox without slashes", "mapbox:tiles", URLCategoryUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.url)
			assert.Equal(t, tt.want, got)

			// no hidden state: the same input gives the same answer
			assert.Equal(t, got, Classify(tt.url))
		})
	}
}

func TestClassify_specificMapboxNamespacesNeverGeneric(t *testing.T) {
	for _, prefix := range []string{"mapbox://tiles", "mapbox://fonts", "mapbox://sprites"} {
		for _, suffix := range []string{"", "/", "/a/b/c", "/x@2x.png", "?foo=bar"} {
			category := Classify(prefix + suffix)
			assert.NotEqual(t, URLCategoryMapboxStyleReference, category, prefix+suffix)
			assert.True(t, category.IsMapbox(), prefix+suffix)
		}
	}
}

func TestURLCategory_String(t *testing.T) {
	assert.Equal(t, "RemoteHTTP", URLCategoryRemoteHTTP.String())
	assert.Equal(t, "Unknown", URLCategory(99).String())
	assert.Equal(t, "SpriteJSON", ResourceKindSpriteJSON.String())
	assert.Equal(t, "Unknown", ResourceKind(-1).String())
}
