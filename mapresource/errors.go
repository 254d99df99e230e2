package mapresource

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
)

// UnresolvedURLError is returned when a URL doesn't map to any transport we know about.
type UnresolvedURLError struct {
	URL string
}

func (e *UnresolvedURLError) Error() string {
	return fmt.Sprintf("unresolved URL: %q", e.URL)
}

// HTTPStatusError is returned when a remote fetch came back with anything but 200.
type HTTPStatusError struct {
	StatusCode    int
	StatusMessage string
	URL           string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%d - %s: %s", e.StatusCode, e.StatusMessage, e.URL)
}

const (
	TransportCodeConnectionRefused = "ECONNREFUSED"
	TransportCodeConnectionReset   = "ECONNRESET"
	TransportCodeNotFound          = "ENOTFOUND"
	TransportCodeTimedOut          = "ETIMEDOUT"
	TransportCodeUnknown           = "EUNKNOWN"
)

// TransportError is returned when a remote fetch didn't get as far as an HTTP response.
type TransportError struct {
	Op   string
	URL  string
	Code string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s - %s: %s", e.Op, e.URL, e.Code)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the fetch gave up waiting. The caller may retry these.
func (e *TransportError) Timeout() bool {
	return e.Code == TransportCodeTimedOut
}

func newTransportError(targetURL string, err error) *TransportError {
	op := "request"
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		op = opErr.Op
	}

	return &TransportError{
		Op:   op,
		URL:  targetURL,
		Code: transportErrorCode(err),
		Err:  err,
	}
}

func transportErrorCode(err error) string {
	var dnsErr *net.DNSError
	var netErr net.Error

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded):
		return TransportCodeTimedOut
	case errors.As(err, &dnsErr):
		if dnsErr.IsTimeout {
			return TransportCodeTimedOut
		}
		return TransportCodeNotFound
	case errors.Is(err, syscall.ECONNREFUSED):
		return TransportCodeConnectionRefused
	case errors.Is(err, syscall.ECONNRESET):
		return TransportCodeConnectionReset
	case errors.As(err, &netErr) && netErr.Timeout():
		return TransportCodeTimedOut
	}

	return TransportCodeUnknown
}
