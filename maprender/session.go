package maprender

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/httpextra"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-render/mapengine"
	"github.com/jamesrr39/ownmap-render/mapresource"
	"github.com/jamesrr39/ownmap-render/rasterimage"
)

// Session renders frames of one style. Each frame gets its own engine, so frames can be rendered concurrently.
type Session struct {
	logger  *logpkg.Logger
	fs      gofs.Fs
	bridge  *mapresource.Bridge
	factory mapengine.Factory
	options Options

	mu            sync.RWMutex
	styleDocument string
}

func NewSession(logger *logpkg.Logger, fs gofs.Fs, doer httpextra.Doer, factory mapengine.Factory, options Options) (*Session, errorsx.Error) {
	options = options.WithDefaults()
	err := options.Validate()
	if err != nil {
		return nil, err
	}

	if factory == nil {
		return nil, errorsx.Errorf("no engine factory supplied")
	}

	if fs == nil {
		fs = gofs.NewOsFs()
	}

	fetcher := mapresource.NewFetcher(fs, doer)
	bridge := mapresource.NewBridge(logger, mapresource.Credentials{AccessToken: options.AccessToken}, fetcher, options.Debug)

	return &Session{
		logger:  logger,
		fs:      fs,
		bridge:  bridge,
		factory: factory,
		options: options,
	}, nil
}

func (s *Session) Options() Options {
	return s.options
}

// LoadStyle reads a style document and checks the engine accepts it. An empty path loads Options.StyleURL.
// URLs (mapbox://, http(s)://, file://) go through the resource bridge, anything else is read as a local path.
func (s *Session) LoadStyle(ctx context.Context, path string) errorsx.Error {
	styleURL := path
	if styleURL == "" {
		styleURL = s.options.StyleURL
	}

	if styleURL == "" {
		return errorsx.Errorf("no style URL or path given")
	}

	document, err := s.readStyle(ctx, styleURL)
	if err != nil {
		return err
	}

	return s.LoadStyleDocument(document)
}

func (s *Session) readStyle(ctx context.Context, styleURL string) (string, errorsx.Error) {
	if isURL(styleURL) {
		response, err := s.bridge.Request(ctx, &mapresource.ResourceRequest{URL: styleURL, Kind: mapresource.ResourceKindStyle})
		if err != nil {
			return "", err
		}

		return string(response.Data), nil
	}

	data, err := s.fs.ReadFile(styleURL)
	if err != nil {
		return "", errorsx.Wrap(err, "path", styleURL)
	}

	return string(data), nil
}

// isURL reports whether a style location has a scheme (mapbox://, https://, file://...).
// Anything else is a path on the session's filesystem, even when it starts with "http".
func isURL(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}

	return u.Scheme != "" && strings.HasPrefix(location, u.Scheme+"://")
}

// LoadStyleDocument checks the engine accepts the document, then keeps it for future renders.
func (s *Session) LoadStyleDocument(document string) errorsx.Error {
	engine, err := s.acquireEngine()
	if err != nil {
		return err
	}
	defer engine.Release()

	err = engine.Load(document)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.styleDocument = document

	return nil
}

func (s *Session) acquireEngine() (mapengine.Engine, errorsx.Error) {
	return s.factory(mapengine.Options{
		Request: s.bridge.Request,
		Ratio:   s.options.Ratio,
	})
}

func (s *Session) getStyleDocument() (string, errorsx.Error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.styleDocument == "" {
		return "", errorsx.Errorf("no style loaded")
	}

	return s.styleDocument, nil
}

// RenderToImage renders one frame: acquire an engine, load the style, render, release.
func (s *Session) RenderToImage(ctx context.Context, viewport mapengine.Viewport) (*rasterimage.RawImage, errorsx.Error) {
	document, err := s.getStyleDocument()
	if err != nil {
		return nil, err
	}

	engine, err := s.acquireEngine()
	if err != nil {
		return nil, err
	}
	defer engine.Release()

	err = engine.Load(document)
	if err != nil {
		return nil, err
	}

	data, err := engine.Render(ctx, viewport)
	if err != nil {
		return nil, err
	}

	width, height := viewport.PixelSize(s.options.Ratio)
	return rasterimage.NewRawImage(data, width, height)
}

// RenderToFile renders one frame and writes it in the format given by the output path's extension.
func (s *Session) RenderToFile(ctx context.Context, viewport mapengine.Viewport, outputPath string) errorsx.Error {
	rawImage, err := s.RenderToImage(ctx, viewport)
	if err != nil {
		return err
	}

	err = rawImage.WriteFile(s.fs, outputPath)
	if err != nil {
		return err
	}

	s.logger.Debug("wrote %dx%d frame to %q", rawImage.Width, rawImage.Height, outputPath)

	return nil
}
