package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChromeFetcherDefaults(t *testing.T) {
	f := NewChromeFetcher(0, "", nil)
	assert.Equal(t, "chrome", f.Name())
	assert.Equal(t, defaultFetchTimeout, f.timeout)
	assert.Equal(t, defaultUserAgent, f.userAgent)
	assert.Greater(t, len(f.allocatorOptions()), 5)
}

func TestChromeFetcher(t *testing.T) {
	if testing.Short() {
		t.Skip("starts a browser")
	}
	found := false
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			found = true
			break
		}
	}
	if !found {
		t.Skip("no Chrome binary on PATH")
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div id="x"></div>
			<script>document.getElementById("x").textContent = "脚本 生成 内容";</script></body></html>`))
	}))
	defer ts.Close()

	acq := NewTextAcquirer(NewChromeFetcher(20*time.Second, "", nil), nil, nil)
	text, err := acq.FetchAndClean(context.Background(), ts.URL, NewDiagnostics(nil))
	require.NoError(t, err)
	assert.Equal(t, "脚本 生成 内容", text)
}
