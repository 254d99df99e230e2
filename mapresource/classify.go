package mapresource

import (
	"strings"
)

type URLCategory int

const (
	URLCategoryUnknown URLCategory = iota
	URLCategoryMapboxStyleReference
	URLCategoryMapboxTileReference
	URLCategoryMapboxFontReference
	URLCategoryMapboxSpriteReference
	URLCategoryLocalFile
	URLCategoryRemoteHTTP
)

var urlCategoryNames = []string{
	"Unknown",
	"MapboxStyleReference",
	"MapboxTileReference",
	"MapboxFontReference",
	"MapboxSpriteReference",
	"LocalFile",
	"RemoteHTTP",
}

func (c URLCategory) String() string {
	if c < 0 || int(c) >= len(urlCategoryNames) {
		return urlCategoryNames[URLCategoryUnknown]
	}
	return urlCategoryNames[c]
}

// IsMapbox reports whether the category is one of the mapbox:// namespaces
func (c URLCategory) IsMapbox() bool {
	switch c {
	case URLCategoryMapboxStyleReference,
		URLCategoryMapboxTileReference,
		URLCategoryMapboxFontReference,
		URLCategoryMapboxSpriteReference:
		return true
	}
	return false
}

type urlPrefixRule struct {
	prefix   string
	category URLCategory
}

// urlPrefixRules is evaluated top to bottom and the first match wins.
// The specific mapbox:// namespaces must come before the bare "mapbox://" rule,
// and all of them before "http".
var urlPrefixRules = []urlPrefixRule{
	{"mapbox://tiles", URLCategoryMapboxTileReference},
	{"mapbox://fonts", URLCategoryMapboxFontReference},
	{"mapbox://sprites", URLCategoryMapboxSpriteReference},
	{"mapbox://", URLCategoryMapboxStyleReference},
	{"http", URLCategoryRemoteHTTP},
	{"file://", URLCategoryLocalFile},
}

// Classify maps a resource URL to its category. Unrecognised URLs are URLCategoryUnknown.
func Classify(url string) URLCategory {
	for _, rule := range urlPrefixRules {
		if strings.HasPrefix(url, rule.prefix) {
			return rule.category
		}
	}

	return URLCategoryUnknown
}
