package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	defaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultFetchTimeout = 10 * time.Second
	maxBodyBytes        = 10 << 20
)

// Fetcher retrieves the raw page for a URL in a single attempt.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, diag *Diagnostics) ([]byte, error)
	Name() string
}

// HTTPFetcher issues one GET with a browser user agent and a bounded timeout.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

func NewHTTPFetcher(timeout time.Duration, userAgent string) *HTTPFetcher {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		maxBytes:  maxBodyBytes,
	}
}

func (f *HTTPFetcher) Name() string { return "http" }

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string, diag *Diagnostics) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, newFetchError(rawURL, FetchConnection, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, newFetchError(rawURL, classifyTransportError(err), err)
	}
	defer resp.Body.Close()

	// non-2xx bodies are still parsed
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		diag.Warn(FetchStatusWarning, fmt.Sprintf("%s answered %s", rawURL, resp.Status))
	}

	// one byte past the limit tells a full body from a truncated one
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		kind := classifyTransportError(err)
		if kind == FetchConnection {
			kind = FetchRead
		}
		return nil, newFetchError(rawURL, kind, err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, newFetchError(rawURL, FetchTooLarge, fmt.Errorf("body exceeds %d bytes", f.maxBytes))
	}
	return body, nil
}

// TextAcquirer turns a URL into NormalizedText: fetch, decode, extract the
// visible body text, then normalize.
type TextAcquirer struct {
	fetcher Fetcher
	logger  *zap.Logger
	metrics *Metrics
}

func NewTextAcquirer(fetcher Fetcher, logger *zap.Logger, metrics *Metrics) *TextAcquirer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TextAcquirer{fetcher: fetcher, logger: logger, metrics: metrics}
}

func (a *TextAcquirer) FetchAndClean(ctx context.Context, rawURL string, diag *Diagnostics) (string, error) {
	start := time.Now()
	text, err := a.fetchAndClean(ctx, rawURL, diag)
	a.metrics.ObserveFetch(a.fetcher.Name(), err, time.Since(start))
	if err != nil {
		diag.Error(FetchFailure, err.Error())
		return "", err
	}
	a.logger.Debug("document acquired",
		zap.String("url", rawURL),
		zap.String("backend", a.fetcher.Name()),
		zap.Int("chars", utf8.RuneCountInString(text)),
		zap.Duration("elapsed", time.Since(start)))
	return text, nil
}

func (a *TextAcquirer) fetchAndClean(ctx context.Context, rawURL string, diag *Diagnostics) (string, error) {
	body, err := a.fetcher.Fetch(ctx, rawURL, diag)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			return "", fe
		}
		return "", newFetchError(rawURL, classifyTransportError(err), err)
	}

	if !utf8.Valid(body) {
		return "", newFetchError(rawURL, FetchDecode, errors.New("response body is not valid UTF-8"))
	}

	visible, err := visibleText(body)
	if err != nil {
		return "", newFetchError(rawURL, FetchParse, err)
	}
	return normalizeText(visible), nil
}
