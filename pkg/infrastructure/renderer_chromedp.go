package infrastructure

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// A4 width in CSS pixels at 96 DPI, and the matching height.
const (
	a4WidthPx  = 794
	a4HeightPx = 1123
	// captureScale is the device pixel ratio used for the capture.
	captureScale = 2
)

// ChromedpRasterizer captures rendered HTML as a PNG image using headless
// Chrome. The page may only load data: URLs and assets from the template
// hosts; every other request is failed before it leaves the browser.
type ChromedpRasterizer struct {
	chromePath string
	allowed    map[string]bool
	timeout    time.Duration
}

// NewChromedpRasterizer allows subresources from the registrable domains in
// assetHosts. With no hosts only inline data is loaded.
func NewChromedpRasterizer(chromePath string, assetHosts []string) *ChromedpRasterizer {
	return &ChromedpRasterizer{
		chromePath: chromePath,
		allowed:    domainSet(assetHosts),
		timeout:    60 * time.Second,
	}
}

// CapturePNG loads html into a blank page with an A4-width viewport and
// returns a full-page screenshot at twice the device scale.
func (r *ChromedpRasterizer) CapturePNG(ctx context.Context, html string) ([]byte, error) {
	if html == "" {
		return nil, errors.New("nothing to capture")
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	runCtx, cancelRun := context.WithTimeout(cctx, r.timeout)
	defer cancelRun()

	chromedp.ListenTarget(cctx, func(ev interface{}) {
		if e, ok := ev.(*fetch.EventRequestPaused); ok {
			go r.decide(cctx, e)
		}
	})

	var png []byte
	err := chromedp.Run(runCtx,
		fetch.Enable(),
		chromedp.EmulateViewport(a4WidthPx, a4HeightPx, chromedp.EmulateScale(captureScale)),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.FullScreenshot(&png, 100),
	)
	if err != nil {
		return nil, err
	}
	return png, nil
}

// decide continues or fails one paused request. Event handlers must not
// block, so it runs on its own goroutine.
func (r *ChromedpRasterizer) decide(ctx context.Context, e *fetch.EventRequestPaused) {
	c := chromedp.FromContext(ctx)
	if c == nil || c.Target == nil {
		return
	}
	ectx := cdp.WithExecutor(ctx, c.Target)

	var err error
	if r.allowRequest(e.Request.URL) {
		err = fetch.ContinueRequest(e.RequestID).Do(ectx)
	} else {
		slog.Warn("rasterizer blocked request", "url", e.Request.URL)
		err = fetch.FailRequest(e.RequestID, network.ErrorReasonBlockedByClient).Do(ectx)
	}
	if err != nil && ctx.Err() == nil {
		slog.Debug("rasterizer request decision failed", "url", e.Request.URL, "error", err)
	}
}

func (r *ChromedpRasterizer) allowRequest(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "data", "about":
		return true
	case "https", "http":
		return len(r.allowed) > 0 && r.allowed[registrableDomain(u.Hostname())]
	}
	return false
}
