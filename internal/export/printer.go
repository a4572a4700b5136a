package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"

	"github.com/jonathan/resume-assistant/internal/logger"
)

// DefaultSettleDelay is how long the printer waits after the page reports
// ready, so late style and font work settles before capture.
const DefaultSettleDelay = 500 * time.Millisecond

// DefaultPrintTimeout bounds a single print run end to end.
const DefaultPrintTimeout = 60 * time.Second

// BrowserPrinter prints HTML to PDF via a headless Chrome instance.
// Requires Chrome/Chromium to be installed on the system.
type BrowserPrinter struct {
	SettleDelay time.Duration
	Timeout     time.Duration
}

// NewBrowserPrinter creates a printer with the default settle delay and
// timeout.
func NewBrowserPrinter() *BrowserPrinter {
	return &BrowserPrinter{
		SettleDelay: DefaultSettleDelay,
		Timeout:     DefaultPrintTimeout,
	}
}

// Print writes the HTML to a temp file, loads it in a headless browser,
// waits for the page to settle and captures it to PDF at outputPath. The
// browser and the temp file are torn down on every path.
func (p *BrowserPrinter) Print(ctx context.Context, html string, outputPath string) error {
	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("resume-export-%s.html", uuid.NewString()))
	if err := os.WriteFile(tempPath, []byte(html), 0o600); err != nil {
		return &PrintError{Message: "failed to stage HTML", Cause: err}
	}
	defer func() {
		if err := os.Remove(tempPath); err != nil {
			logger.Warn("failed to remove staged HTML %s: %v", tempPath, err)
		}
	}()

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, p.Timeout)
	defer cancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+tempPath),
		chromedp.WaitReady("body"),
		chromedp.Sleep(p.SettleDelay),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return &PrintError{Message: "browser print failed", Cause: err}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return &PrintError{Message: "failed to create output directory", Cause: err}
	}
	if err := os.WriteFile(outputPath, pdf, 0o644); err != nil {
		return &PrintError{Message: "failed to write PDF", Cause: err}
	}

	logger.Debug("printed %d bytes of PDF to %s", len(pdf), outputPath)
	return nil
}
