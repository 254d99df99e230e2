package webservices

import (
	"image"
	"image/png"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi"
	tracing "github.com/jamesrr39/go-tracing"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-render/fonts"
	"github.com/jamesrr39/ownmap-render/mapengine"
	"github.com/jamesrr39/ownmap-render/mapresource"
	"github.com/jamesrr39/ownmap-render/projection"
	"github.com/jamesrr39/semaphore"
	"github.com/pkg/profile"
)

const noDataText = "(no data found)"

type TileService struct {
	logger        *logpkg.Logger
	styleSessions *StyleSessions
	sema          *semaphore.Semaphore
	shouldProfile bool
	profileMu     sync.Mutex
	chi.Router
}

func NewTileService(logger *logpkg.Logger, styleSessions *StyleSessions, shouldProfile bool) *TileService {
	ts := &TileService{
		logger:        logger,
		styleSessions: styleSessions,
		sema:          semaphore.NewSemaphore(4),
		shouldProfile: shouldProfile,
		Router:        chi.NewRouter(),
	}

	ts.Get("/raster/{z}/{x}/{y}", ts.handleGetTile)

	return ts
}

func (ts *TileService) handleGetTile(w http.ResponseWriter, r *http.Request) {
	if ts.shouldProfile {
		// only one profile can run at a time
		ts.profileMu.Lock()
		defer ts.profileMu.Unlock()
		defer profile.Start(profile.Quiet).Stop()
	}

	x := chi.URLParam(r, "x")
	y := chi.URLParam(r, "y")
	zStr := chi.URLParam(r, "z")
	styleID := r.URL.Query().Get("styleId")

	ints, err := stringsToInts(x, y, zStr)
	if err != nil {
		errorsx.HTTPError(w, ts.logger, errorsx.Wrap(err), http.StatusBadRequest)
		return
	}

	tile := projection.TileCoord{X: ints[0], Y: ints[1], Z: ints[2]}
	err = tile.Validate()
	if err != nil {
		errorsx.HTTPError(w, ts.logger, errorsx.Wrap(err), http.StatusBadRequest)
		return
	}

	session, err := ts.styleSessions.Get(styleID)
	if err != nil {
		errorsx.HTTPError(w, ts.logger, errorsx.Wrap(err), http.StatusBadRequest)
		return
	}

	tileSize := session.Options().TileSize

	bounds := projection.XYZToBounds(tile.X, tile.Y, tile.Z)
	ts.logger.Debug("serving tile %s. Bounds (NW, SE): [%f %f, %f %f]", tile, bounds.MaxLat, bounds.MinLon, bounds.MinLat, bounds.MaxLon)

	center := projection.WGS84TileCenter(tile.Vector(), float64(tile.Z), tileSize)
	viewport := mapengine.Viewport{
		Zoom:   projection.ViewportZoomForTile(tile.Z, tileSize),
		Width:  tileSize,
		Height: tileSize,
		Center: [2]float64{center.Lng, center.Lat},
	}

	ts.sema.Add()
	defer ts.sema.Done()

	span := tracing.StartSpan(r.Context(), "render tile "+tile.String())
	rawImage, err := session.RenderToImage(r.Context(), viewport)
	span.End(r.Context())

	var img image.Image
	switch {
	case err == nil:
		img = rawImage.Image()
	case isNoDataError(err):
		ts.logger.Info("no data found for tile %s: %s", tile, err)
		width, height := viewport.PixelSize(session.Options().Ratio)
		img, err = renderNoDataTile(image.Rect(0, 0, width, height))
		if err != nil {
			errorsx.HTTPError(w, ts.logger, errorsx.Wrap(err), http.StatusInternalServerError)
			return
		}
	default:
		errorsx.HTTPError(w, ts.logger, errorsx.Wrap(err, "tile", tile.String()), http.StatusInternalServerError)
		return
	}

	writePNG(w, ts.logger, img)
}

// isNoDataError reports whether rendering failed because an upstream server had nothing for the area.
func isNoDataError(err error) bool {
	statusErr, ok := errorsx.Cause(err).(*mapresource.HTTPStatusError)
	return ok && statusErr.StatusCode == http.StatusNotFound
}

func renderNoDataTile(size image.Rectangle) (*image.RGBA, errorsx.Error) {
	font, err := fonts.DefaultFont()
	if err != nil {
		return nil, err
	}

	return fonts.RenderTextTile(font, size, noDataText)
}

func writePNG(w http.ResponseWriter, logger *logpkg.Logger, img image.Image) {
	w.Header().Set("Content-Type", "image/png")

	err := png.Encode(w, img)
	if err != nil {
		switch err.(type) {
		case *net.OpError:
			// broken pipe (request cancelled). Do nothing
		default:
			errorsx.HTTPError(w, logger, errorsx.Wrap(err), http.StatusInternalServerError)
		}
		return
	}
}

func stringsToInts(s ...string) ([]int, error) {
	var ints []int
	for _, str := range s {
		i, err := strconv.Atoi(str)
		if err != nil {
			return nil, err
		}
		ints = append(ints, i)
	}

	return ints, nil
}
