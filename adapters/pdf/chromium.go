package exportpdf

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const (
	// captureWidth is the fixed layout width for captures. The document
	// stylesheet targets this width.
	captureWidth = 1024

	// captureScale doubles the device pixel ratio so text stays sharp after
	// the screenshot is scaled down to page width.
	captureScale = 2.0

	defaultCaptureTimeout = 45 * time.Second
	imageSettleTimeout    = 10 * time.Second
)

// imagesSettledExpr is polled until every image in the document has either
// loaded or errored out.
const imagesSettledExpr = `Array.from(document.images).every((img) => img.complete)`

// ChromiumEngine captures page screenshots using a shared headless Chromium
// instance. The browser starts lazily on first capture and is reused across
// captures until Close.
type ChromiumEngine struct {
	BrowserPath string
	Headless    bool
	Timeout     time.Duration
	Args        []string

	initOnce      sync.Once
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// Capture loads the document into a fresh tab and screenshots the full page
// as PNG at double resolution on a white background.
func (e *ChromiumEngine) Capture(ctx context.Context, document []byte) ([]byte, error) {
	if e == nil {
		return nil, errors.New("chromium engine is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if err := e.ensureBrowser(); err != nil {
		return nil, err
	}

	tabCtx, cancel := chromedp.NewContext(e.browserCtx)
	defer cancel()

	execCtx, cancelReq := context.WithCancel(tabCtx)
	defer cancelReq()
	go func() {
		select {
		case <-ctx.Done():
			cancelReq()
		case <-execCtx.Done():
		}
	}()

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = defaultCaptureTimeout
	}
	execCtx, cancelTimeout := context.WithTimeout(execCtx, timeout)
	defer cancelTimeout()

	var shot []byte
	actions := []chromedp.Action{
		emulation.SetDeviceMetricsOverride(captureWidth, 0, captureScale, false),
		emulation.SetDefaultBackgroundColorOverride().
			WithColor(&cdp.RGBA{R: 255, G: 255, B: 255, A: 1}),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(document)).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		waitForImages(),
		chromedp.FullScreenshot(&shot, 100),
	}

	if err := chromedp.Run(execCtx, actions...); err != nil {
		return nil, err
	}
	return shot, nil
}

// waitForImages blocks until every image settles. Stalled images only delay
// the capture; they never fail it.
func waitForImages() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var settled bool
		err := chromedp.Poll(imagesSettledExpr, &settled,
			chromedp.WithPollingInterval(100*time.Millisecond),
			chromedp.WithPollingTimeout(imageSettleTimeout),
		).Do(ctx)
		if errors.Is(err, chromedp.ErrPollingTimeout) {
			return nil
		}
		return err
	})
}

// Close releases Chromium resources if they have been initialized.
func (e *ChromiumEngine) Close() error {
	if e == nil {
		return nil
	}
	if e.browserCancel != nil {
		e.browserCancel()
	}
	if e.allocCancel != nil {
		e.allocCancel()
	}
	return nil
}

func (e *ChromiumEngine) ensureBrowser() error {
	e.initOnce.Do(func() {
		options := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
		if e.BrowserPath != "" {
			options = append(options, chromedp.ExecPath(e.BrowserPath))
		}
		options = append(options, chromedp.Flag("headless", e.Headless))
		options = append(options, allocatorOptionsFromArgs(e.Args)...)

		e.allocCtx, e.allocCancel = chromedp.NewExecAllocator(context.Background(), options...)
		e.browserCtx, e.browserCancel = chromedp.NewContext(e.allocCtx)
	})
	if e.allocCtx == nil || e.browserCtx == nil {
		return errors.New("chromium allocator unavailable")
	}
	return nil
}

func allocatorOptionsFromArgs(args []string) []chromedp.ExecAllocatorOption {
	options := make([]chromedp.ExecAllocatorOption, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		arg = strings.TrimPrefix(arg, "--")
		if arg == "" {
			continue
		}
		if name, value, ok := strings.Cut(arg, "="); ok {
			options = append(options, chromedp.Flag(name, value))
			continue
		}
		options = append(options, chromedp.Flag(arg, true))
	}
	return options
}
