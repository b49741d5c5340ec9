package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// FetchErrorKind says which step of acquisition failed.
type FetchErrorKind string

const (
	FetchTimeout    FetchErrorKind = "timeout"
	FetchConnection FetchErrorKind = "connection"
	FetchRead       FetchErrorKind = "read"
	FetchDecode     FetchErrorKind = "decode"
	FetchParse      FetchErrorKind = "parse"
	FetchTooLarge   FetchErrorKind = "too_large"
)

var (
	// ErrNoData is returned when a chart is requested for an empty series.
	ErrNoData = errors.New("no frequency data to visualize")

	// ErrInvalidRequest wraps parameter problems found at the HTTP/CLI boundary.
	ErrInvalidRequest = errors.New("invalid request")
)

// FetchError is fatal for the request that produced it. No text is available
// and the pipeline stops before segmentation.
type FetchError struct {
	URL   string
	Kind  FetchErrorKind
	Cause error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Cause)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

func newFetchError(rawURL string, kind FetchErrorKind, cause error) *FetchError {
	return &FetchError{URL: rawURL, Kind: kind, Cause: cause}
}

// classifyTransportError maps an error from the HTTP client or browser to a kind.
func classifyTransportError(err error) FetchErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return FetchTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FetchTimeout
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return FetchTimeout
	}
	return FetchConnection
}
