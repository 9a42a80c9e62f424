package fetch

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the threshold below which extracted text is treated
// as a sign the page is rendered client-side and needs a real browser.
const MinContentLength = 500

// BrowserOptions configures headless browser fetching.
type BrowserOptions struct {
	Timeout  time.Duration
	WaitTime time.Duration
	Headless bool
}

// DefaultBrowserOptions returns sensible defaults for browser-based fetching.
func DefaultBrowserOptions() *BrowserOptions {
	return &BrowserOptions{
		Timeout:  60 * time.Second,
		WaitTime: 3 * time.Second,
		Headless: true,
	}
}

// WithBrowser fetches a URL using a headless Chrome browser. This handles
// JavaScript-rendered pages that plain HTTP fetching cannot.
func WithBrowser(ctx context.Context, urlStr string, opts *BrowserOptions) (*Result, error) {
	if opts == nil {
		opts = DefaultBrowserOptions()
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent(DefaultUserAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, opts.Timeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(timeoutCtx,
		chromedp.Navigate(urlStr),
		chromedp.Sleep(opts.WaitTime),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "browser fetch failed",
			Cause:   err,
		}
	}

	return &Result{
		URL:        urlStr,
		HTML:       html,
		StatusCode: 200,
	}, nil
}

// ShouldUseBrowser reports whether the plain-HTTP extraction looks too thin
// to be a real posting, suggesting the page needs JavaScript rendering.
func ShouldUseBrowser(extractedText string) bool {
	return len(extractedText) < MinContentLength
}
