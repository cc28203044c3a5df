// Package fetch - browser.go renders pages in a headless browser when plain HTTP is not enough.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// DefaultBrowserTimeout bounds a full browser render.
const DefaultBrowserTimeout = 30 * time.Second

// DefaultWaitSelector is the element the categories page must contain before it is captured.
const DefaultWaitSelector = "table"

// WithBrowser renders a page in a headless browser and returns the rendered HTML once
// waitSelector is visible. Requires Chrome/Chromium to be installed on the system.
func WithBrowser(ctx context.Context, url, waitSelector string, timeout time.Duration) (string, error) {
	if waitSelector == "" {
		waitSelector = DefaultWaitSelector
	}
	if timeout <= 0 {
		timeout = DefaultBrowserTimeout
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("ignore-certificate-errors", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.WaitVisible(waitSelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &Error{URL: url, Message: "browser rendering failed", Cause: err}
	}
	if html == "" {
		return "", &Error{URL: url, Message: fmt.Sprintf("browser returned empty document waiting for %q", waitSelector)}
	}

	return html, nil
}
