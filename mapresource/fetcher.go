package mapresource

import (
	"context"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/httpextra"
)

const DefaultRemoteFetchTimeout = time.Second * 5

// NewDefaultHTTPClient returns the client used for remote fetches when none is supplied.
func NewDefaultHTTPClient() *http.Client {
	return &http.Client{
		Timeout: DefaultRemoteFetchTimeout,
	}
}

// Fetcher reads the bytes behind a ResolvedTarget, from disk or over HTTP.
type Fetcher struct {
	fs     gofs.Fs
	client httpextra.Doer
}

func NewFetcher(fs gofs.Fs, client httpextra.Doer) *Fetcher {
	if fs == nil {
		fs = gofs.NewOsFs()
	}
	if client == nil {
		client = NewDefaultHTTPClient()
	}
	return &Fetcher{fs, client}
}

func (f *Fetcher) Fetch(ctx context.Context, resolved ResolvedTarget) (*ResourceResponse, errorsx.Error) {
	if resolved.Target == "" {
		return nil, errorsx.Wrap(&UnresolvedURLError{URL: resolved.Target}, "category", resolved.Category.String())
	}

	switch resolved.Category {
	case URLCategoryRemoteHTTP:
		return f.fetchRemote(ctx, resolved.Target)
	case URLCategoryLocalFile:
		return f.fetchLocal(resolved.Target)
	default:
		return nil, errorsx.Wrap(&UnresolvedURLError{URL: resolved.Target}, "category", resolved.Category.String())
	}
}

func (f *Fetcher) fetchLocal(filePath string) (*ResourceResponse, errorsx.Error) {
	data, err := f.fs.ReadFile(filePath)
	if err != nil {
		return nil, errorsx.Wrap(err, "path", filePath)
	}

	return &ResourceResponse{
		Data: data,
	}, nil
}

func (f *Fetcher) fetchRemote(ctx context.Context, targetURL string) (*ResourceResponse, errorsx.Error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, errorsx.Wrap(err, "url", targetURL)
	}
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errorsx.Wrap(newTransportError(targetURL, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errorsx.Wrap(&HTTPStatusError{
			StatusCode:    resp.StatusCode,
			StatusMessage: statusMessage(resp),
			URL:           targetURL,
		})
	}

	body, err := httpextra.RemoveGzip(resp)
	if err != nil {
		return nil, errorsx.Wrap(err, "url", targetURL)
	}
	defer body.Close()

	data, err := ioutil.ReadAll(body)
	if err != nil {
		return nil, errorsx.Wrap(newTransportError(targetURL, err))
	}

	return &ResourceResponse{
		Data:     data,
		Modified: headerTime(resp.Header, "Last-Modified"),
		Expires:  headerTime(resp.Header, "Expires"),
		ETag:     headerString(resp.Header, "ETag"),
	}, nil
}

// statusMessage gives the reason phrase of the response, e.g. "Unauthorized"
func statusMessage(resp *http.Response) string {
	text := http.StatusText(resp.StatusCode)
	if text != "" {
		return text
	}
	return resp.Status
}

func headerTime(header http.Header, key string) *time.Time {
	value := header.Get(key)
	if value == "" {
		return nil
	}

	t, err := http.ParseTime(value)
	if err != nil {
		// e.g. "Expires: 0", which means "already expired" but isn't a date
		return nil
	}

	return &t
}

func headerString(header http.Header, key string) *string {
	value := header.Get(key)
	if value == "" {
		return nil
	}

	return &value
}
