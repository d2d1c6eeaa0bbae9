package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/jmylchreest/recipescan/internal/logger"
)

// DynamicFetcher uses chromedp for JavaScript-rendered pages.
type DynamicFetcher struct {
	config    Config
	allocCtx  context.Context
	cancelCtx context.CancelFunc
}

// NewDynamic creates a dynamic fetcher backed by a headless browser. The
// browser is started lazily on the first Fetch.
func NewDynamic(cfg Config) (*DynamicFetcher, error) {
	cfg = withDefaults(cfg)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(cfg.UserAgent),
	)

	// chromedp's default lookup misses some install locations
	if chromePath := FindChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	logger.Debug("dynamic fetcher created", "timeout", cfg.Timeout)

	return &DynamicFetcher{
		config:    cfg,
		allocCtx:  allocCtx,
		cancelCtx: cancelAlloc,
	}, nil
}

// Fetch renders targetURL in a fresh browser tab and returns the final DOM.
func (f *DynamicFetcher) Fetch(ctx context.Context, targetURL string) (Content, error) {
	logger.Debug("dynamic fetch starting", "url", targetURL)

	result := Content{
		URL:       targetURL,
		FetchedAt: time.Now(),
	}

	browserCtx, cancelBrowser := chromedp.NewContext(f.allocCtx)
	defer cancelBrowser()

	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, f.config.Timeout)
	defer cancelTimeout()

	// Stop the browser when the caller gives up.
	stop := context.AfterFunc(ctx, cancelTimeout)
	defer stop()

	waitSelector := "body"
	if f.config.WaitForSelector != "" {
		waitSelector = f.config.WaitForSelector
	}

	actions := []chromedp.Action{
		chromedp.Navigate(targetURL),
		chromedp.WaitReady(waitSelector),
	}
	if f.config.WaitDuration > 0 {
		actions = append(actions, chromedp.Sleep(f.config.WaitDuration))
	}

	var html, location string
	actions = append(actions,
		chromedp.OuterHTML("html", &html),
		chromedp.Location(&location),
	)

	logger.Debug("dynamic fetch executing browser actions",
		"selector", waitSelector,
		"action_count", len(actions))
	if err := chromedp.Run(timeoutCtx, actions...); err != nil {
		logger.Debug("dynamic fetch browser automation failed", "url", targetURL, "error", err)
		return result, fmt.Errorf("browser automation failed: %w", err)
	}

	result.HTML = html
	result.StatusCode = 200 // chromedp doesn't easily expose status codes
	if location != "" {
		result.URL = location
	}

	logger.Debug("dynamic fetch complete", "url", result.URL, "html_size", len(html))
	return result, nil
}

// Close releases browser resources.
func (f *DynamicFetcher) Close() error {
	if f.cancelCtx != nil {
		f.cancelCtx()
	}
	return nil
}

// Type returns the fetcher type.
func (f *DynamicFetcher) Type() string {
	return string(ModeDynamic)
}
