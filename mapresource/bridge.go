package mapresource

import (
	"context"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
)

// CompleteFunc receives the outcome of a single resource request.
// Exactly one of response and err is non-nil.
type CompleteFunc func(response *ResourceResponse, err errorsx.Error)

// Bridge is what the rendering engine calls for every resource it needs during a render.
// It only holds values that don't change for the lifetime of a session, so one Bridge
// can serve any number of concurrent requests.
type Bridge struct {
	logger      *logpkg.Logger
	credentials Credentials
	fetcher     *Fetcher
	debug       bool
}

func NewBridge(logger *logpkg.Logger, credentials Credentials, fetcher *Fetcher, debug bool) *Bridge {
	return &Bridge{logger, credentials, fetcher, debug}
}

// Request resolves and fetches one resource.
func (b *Bridge) Request(ctx context.Context, req *ResourceRequest) (*ResourceResponse, errorsx.Error) {
	resolved := Resolve(req.URL, b.credentials)
	b.debugf("%s %s\n => %s %s", req.Kind, req.URL, resolved.Category, resolved.Target)

	if resolved.Target == "" {
		b.debugf("unknown URL: %s", req.URL)
		return nil, errorsx.Wrap(&UnresolvedURLError{URL: req.URL}, "kind", req.Kind.String())
	}

	switch resolved.Category {
	case URLCategoryLocalFile, URLCategoryRemoteHTTP:
		response, err := b.fetcher.Fetch(ctx, resolved)
		if err != nil {
			b.debugf("error reading %s: %s", resolved.Target, err.Error())
			return nil, errorsx.Wrap(err, "kind", req.Kind.String())
		}

		b.debugf("done reading %s (%d bytes)", resolved.Target, len(response.Data))
		return response, nil
	default:
		return nil, errorsx.Wrap(&UnresolvedURLError{URL: req.URL}, "kind", req.Kind.String(), "category", resolved.Category.String())
	}
}

// Handle is the callback form of Request. complete is called exactly once,
// including when resolving or fetching panics.
func (b *Bridge) Handle(ctx context.Context, req *ResourceRequest, complete CompleteFunc) {
	response, err := b.requestRecovered(ctx, req)
	if err != nil {
		complete(nil, err)
		return
	}

	complete(response, nil)
}

func (b *Bridge) requestRecovered(ctx context.Context, req *ResourceRequest) (response *ResourceResponse, err errorsx.Error) {
	var requestURL string
	if req != nil {
		requestURL = req.URL
	}

	defer func() {
		if r := recover(); r != nil {
			response = nil
			err = errorsx.Errorf("panic while handling resource request for %q: %v", requestURL, r)
		}
	}()

	if req == nil {
		return nil, errorsx.Errorf("no resource request given")
	}

	return b.Request(ctx, req)
}

func (b *Bridge) debugf(message string, args ...interface{}) {
	if !b.debug {
		return
	}
	b.logger.Debug(message, args...)
}
