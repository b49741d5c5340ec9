package main

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ChromeFetcher loads the page in headless Chrome and returns the rendered
// document, for sites that build their body with JavaScript. Like the HTTP
// backend it makes one attempt bounded by timeout.
type ChromeFetcher struct {
	timeout   time.Duration
	userAgent string
	logger    *zap.Logger
}

func NewChromeFetcher(timeout time.Duration, userAgent string, logger *zap.Logger) *ChromeFetcher {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChromeFetcher{timeout: timeout, userAgent: userAgent, logger: logger}
}

func (f *ChromeFetcher) Name() string { return "chrome" }

func (f *ChromeFetcher) allocatorOptions() []chromedp.ExecAllocatorOption {
	return append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(f.userAgent),
	)
}

func (f *ChromeFetcher) Fetch(ctx context.Context, rawURL string, diag *Diagnostics) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, f.allocatorOptions()...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx, chromedp.WithLogf(f.logger.Sugar().Debugf))
	defer cancelTask()

	if err := chromedp.Run(taskCtx, chromedp.Navigate(rawURL)); err != nil {
		return nil, newFetchError(rawURL, classifyTransportError(err), err)
	}

	var content string
	err := chromedp.Run(taskCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		node, err := dom.GetDocument().Do(ctx)
		if err != nil {
			return err
		}
		content, err = dom.GetOuterHTML().WithNodeID(node.NodeID).Do(ctx)
		return err
	}))
	if err != nil {
		kind := classifyTransportError(err)
		if kind == FetchConnection {
			kind = FetchRead
		}
		return nil, newFetchError(rawURL, kind, err)
	}
	return []byte(content), nil
}
