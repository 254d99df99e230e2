package webservices

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi"
	tracing "github.com/jamesrr39/go-tracing"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-render/mapengine"
	"github.com/jamesrr39/semaphore"
)

const (
	defaultStaticImageSize = 512
	maxStaticImageSize     = 2048
)

// StaticService renders a single image for an arbitrary viewport.
type StaticService struct {
	logger        *logpkg.Logger
	styleSessions *StyleSessions
	sema          *semaphore.Semaphore
	chi.Router
}

func NewStaticService(logger *logpkg.Logger, styleSessions *StyleSessions) *StaticService {
	ss := &StaticService{logger, styleSessions, semaphore.NewSemaphore(2), chi.NewRouter()}

	ss.Get("/", ss.handleGet)

	return ss
}

func (ss *StaticService) handleGet(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	viewport, err := viewportFromQuery(query)
	if err != nil {
		errorsx.HTTPError(w, ss.logger, err, http.StatusBadRequest)
		return
	}

	session, err := ss.styleSessions.Get(query.Get("styleId"))
	if err != nil {
		errorsx.HTTPError(w, ss.logger, err, http.StatusBadRequest)
		return
	}

	ss.sema.Add()
	defer ss.sema.Done()

	span := tracing.StartSpan(r.Context(), "render static image")
	rawImage, err := session.RenderToImage(r.Context(), viewport)
	span.End(r.Context())
	if err != nil {
		errorsx.HTTPError(w, ss.logger, err, http.StatusInternalServerError)
		return
	}

	writePNG(w, ss.logger, rawImage.Image())
}

func viewportFromQuery(query url.Values) (mapengine.Viewport, errorsx.Error) {
	var err error
	viewport := mapengine.Viewport{
		Width:  defaultStaticImageSize,
		Height: defaultStaticImageSize,
	}

	floatParams := []struct {
		name   string
		target *float64
	}{
		{"lng", &viewport.Center[0]},
		{"lat", &viewport.Center[1]},
		{"zoom", &viewport.Zoom},
		{"bearing", &viewport.Bearing},
		{"pitch", &viewport.Pitch},
	}

	for _, param := range floatParams {
		value := query.Get(param.name)
		if value == "" {
			continue
		}

		*param.target, err = strconv.ParseFloat(value, 64)
		if err != nil {
			return mapengine.Viewport{}, errorsx.Wrap(err, "param", param.name)
		}
	}

	intParams := []struct {
		name   string
		target *int
	}{
		{"width", &viewport.Width},
		{"height", &viewport.Height},
	}

	for _, param := range intParams {
		value := query.Get(param.name)
		if value == "" {
			continue
		}

		*param.target, err = strconv.Atoi(value)
		if err != nil {
			return mapengine.Viewport{}, errorsx.Wrap(err, "param", param.name)
		}

		if *param.target > maxStaticImageSize {
			return mapengine.Viewport{}, errorsx.Errorf("%s must be at most %d but was %d", param.name, maxStaticImageSize, *param.target)
		}
	}

	validationErr := viewport.Validate()
	if validationErr != nil {
		return mapengine.Viewport{}, validationErr
	}

	return viewport, nil
}
