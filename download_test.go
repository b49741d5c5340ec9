package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------------------------------------
// TestHTTPFetcher
// -------------------------------------------------------
func TestHTTPFetcher(t *testing.T) {
	wantBody := []byte(`<html><body><p>数据分析</p></body></html>`)

	var gotUA atomic.Value
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA.Store(r.Header.Get("User-Agent"))
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
		}
		w.Write(wantBody)
	}))
	defer ts.Close()

	tests := []struct {
		name        string
		path        string
		wantWarning bool
	}{
		{name: "ok", path: "/"},
		{name: "non-2xx still returns the body", path: "/missing", wantWarning: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			diag := NewDiagnostics(nil)
			got, err := NewHTTPFetcher(time.Second, "").Fetch(context.Background(), ts.URL+tc.path, diag)
			require.NoError(t, err)
			assert.Equal(t, wantBody, got)
			assert.Equal(t, defaultUserAgent, gotUA.Load())
			assert.Equal(t, tc.wantWarning, diag.Has(FetchStatusWarning))
		})
	}
}

func TestHTTPFetcherErrors(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name     string
		url      string
		wantKind FetchErrorKind
	}{
		{name: "timeout", url: slow.URL, wantKind: FetchTimeout},
		{name: "connection refused", url: closedURL, wantKind: FetchConnection},
		{name: "malformed url", url: "http://[::1", wantKind: FetchConnection},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewHTTPFetcher(100*time.Millisecond, "test-agent").Fetch(context.Background(), tc.url, NewDiagnostics(nil))
			var fe *FetchError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, tc.wantKind, fe.Kind)
			assert.Equal(t, tc.url, fe.URL)
		})
	}
}

type stubFetcher struct {
	body  []byte
	err   error
	calls atomic.Int32
}

func (f *stubFetcher) Name() string { return "stub" }

func (f *stubFetcher) Fetch(ctx context.Context, rawURL string, diag *Diagnostics) ([]byte, error) {
	f.calls.Add(1)
	return f.body, f.err
}

// -------------------------------------------------------
// TestFetchAndClean
// -------------------------------------------------------
func TestFetchAndClean(t *testing.T) {
	tests := []struct {
		name     string
		fetcher  *stubFetcher
		want     string
		wantKind FetchErrorKind
	}{
		{
			name: "visible text only",
			fetcher: &stubFetcher{body: []byte(`<html><head><title>标题</title></head>
				<body><p>Hello, 世界！</p><script>var x = "脚本";</script><style>p { color: red }</style>
				<div>数据<b>分析</b> 2024</div></body></html>`)},
			want: "Hello 世界 数据 分析 2024",
		},
		{
			name:     "invalid utf-8",
			fetcher:  &stubFetcher{body: []byte{0xff, 0xfe, 'a', 'b'}},
			wantKind: FetchDecode,
		},
		{
			name:     "fetcher failure passes its kind through",
			fetcher:  &stubFetcher{err: newFetchError("http://example.test", FetchTimeout, context.DeadlineExceeded)},
			wantKind: FetchTimeout,
		},
		{
			name:     "plain error is classified",
			fetcher:  &stubFetcher{err: errors.New("net::ERR_NAME_NOT_RESOLVED")},
			wantKind: FetchConnection,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			metrics := NewMetrics("test")
			diag := NewDiagnostics(nil)
			got, err := NewTextAcquirer(tc.fetcher, nil, metrics).FetchAndClean(context.Background(), "http://example.test", diag)

			if tc.wantKind == "" {
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
				assert.Empty(t, diag.Records())
				return
			}

			var fe *FetchError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, tc.wantKind, fe.Kind)
			assert.Empty(t, got)
			assert.True(t, diag.Has(FetchFailure))
		})
	}
}

func TestClassifyTransportError(t *testing.T) {
	assert.Equal(t, FetchTimeout, classifyTransportError(context.DeadlineExceeded))
	assert.Equal(t, FetchTimeout, classifyTransportError(newFetchError("u", FetchConnection, context.DeadlineExceeded)))
	assert.Equal(t, FetchConnection, classifyTransportError(errors.New("connection reset")))
}

func TestHTTPFetcherBodyLimit(t *testing.T) {
	// 6 runes of 3 bytes each
	page := []byte("数据分析人工")

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(page)
	}))
	defer ts.Close()

	tests := []struct {
		name     string
		maxBytes int64
		wantKind FetchErrorKind
	}{
		{name: "body exactly at the limit", maxBytes: int64(len(page))},
		{name: "limit past the body", maxBytes: 1 << 10},
		{name: "limit inside a rune", maxBytes: 16, wantKind: FetchTooLarge},
		{name: "limit on a rune boundary", maxBytes: 15, wantKind: FetchTooLarge},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := NewHTTPFetcher(time.Second, "")
			f.maxBytes = tc.maxBytes
			diag := NewDiagnostics(nil)
			text, err := NewTextAcquirer(f, nil, nil).FetchAndClean(context.Background(), ts.URL, diag)

			if tc.wantKind == "" {
				require.NoError(t, err)
				assert.Equal(t, "数据分析人工", text)
				return
			}
			var fe *FetchError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, tc.wantKind, fe.Kind, "oversized bodies are not a decode problem")
			assert.Empty(t, text)
			assert.True(t, diag.Has(FetchFailure))
		})
	}
}

func TestNewHTTPFetcherLimit(t *testing.T) {
	assert.Equal(t, int64(maxBodyBytes), NewHTTPFetcher(0, "").maxBytes)
}
