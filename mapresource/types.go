package mapresource

import (
	"time"
)

// ResourceKind is the kind of resource the rendering engine is asking for.
// The values follow the order the engine uses on the wire.
type ResourceKind int

const (
	ResourceKindUnknown ResourceKind = iota
	ResourceKindStyle
	ResourceKindSource
	ResourceKindTile
	ResourceKindGlyphs
	ResourceKindSpriteImage
	ResourceKindSpriteJSON
)

var resourceKindNames = []string{
	"Unknown",
	"Style",
	"Source",
	"Tile",
	"Glyphs",
	"SpriteImage",
	"SpriteJSON",
}

func (k ResourceKind) String() string {
	if k < 0 || int(k) >= len(resourceKindNames) {
		return resourceKindNames[ResourceKindUnknown]
	}
	return resourceKindNames[k]
}

// ResourceRequest is issued by the rendering engine, once per resource it needs.
type ResourceRequest struct {
	URL  string
	Kind ResourceKind
}

// ResourceResponse is the normalised result of a successful fetch.
// Ownership of Data passes to whoever receives the response.
type ResourceResponse struct {
	Data     []byte
	Modified *time.Time
	Expires  *time.Time
	ETag     *string
}

// Credentials are shared read-only by every request of a render session.
type Credentials struct {
	AccessToken string
}

// ResolvedTarget is where a resource will actually be fetched from.
// Target is a local path for LocalFile, a full URL for RemoteHTTP,
// and empty when the URL could not be resolved.
type ResolvedTarget struct {
	Category URLCategory
	Target   string
}
