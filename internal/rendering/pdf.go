package rendering

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/cv-agent/internal/types"
)

// pdfTimeout bounds one Chrome print run.
const pdfTimeout = 60 * time.Second

// A4 paper size in inches.
const (
	paperWidthIn  = 8.27
	paperHeightIn = 11.69
)

// PDFRenderer prints HTML pages to PDF through headless Chrome.
type PDFRenderer struct {
	// ChromePath overrides Chrome binary discovery, for containers where
	// the binary lives outside PATH.
	ChromePath string
}

// NewPDFRenderer creates a PDFRenderer. The CHROME_PATH environment
// variable, when set, selects the browser binary.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{ChromePath: os.Getenv("CHROME_PATH")}
}

// RenderHTML prints an HTML page to PDF bytes.
func (r *PDFRenderer) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.ChromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, pdfTimeout)
	defer cancelTimeout()

	tmpDir, err := os.MkdirTemp("", "cv-agent-render-")
	if err != nil {
		return nil, &RenderError{Message: "failed to create temp directory", Cause: err}
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return nil, &RenderError{Message: "failed to write page", Cause: err}
	}

	var pdf []byte
	err = chromedp.Run(timeoutCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var printErr error
			pdf, _, printErr = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidthIn).
				WithPaperHeight(paperHeightIn).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return printErr
		}),
	)
	if err != nil {
		return nil, &RenderError{Message: "headless Chrome print failed", Cause: err}
	}
	return pdf, nil
}

// RenderCV renders the CV document to PDF bytes.
func (r *PDFRenderer) RenderCV(ctx context.Context, cv *types.CVDocument, design map[string]string) ([]byte, error) {
	html, err := CVHTML(cv, design)
	if err != nil {
		return nil, err
	}
	return r.RenderHTML(ctx, html)
}

// RenderLetter renders the cover letter to PDF bytes.
func (r *PDFRenderer) RenderLetter(ctx context.Context, letter *types.CoverLetter) ([]byte, error) {
	html, err := LetterHTML(letter)
	if err != nil {
		return nil, err
	}
	return r.RenderHTML(ctx, html)
}
