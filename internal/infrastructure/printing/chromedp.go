package printing

import (
	"context"
	"fmt"
	"io"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ChromedpConfig contains configuration for the headless Chrome engine
type ChromedpConfig struct {
	// RemoteURL points at a running Chrome DevTools endpoint. When empty a
	// local browser is launched.
	RemoteURL string
	// NoSandbox is required when running as root inside containers
	NoSandbox bool
	Logger    *zap.Logger
}

// ChromedpEngine prints HTML with headless Chrome
type ChromedpEngine struct {
	config      *ChromedpConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpEngine creates the browser allocator. The browser itself starts
// lazily on the first Write.
func NewChromedpEngine(config *ChromedpConfig) *ChromedpEngine {
	if config == nil {
		config = &ChromedpConfig{}
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &ChromedpEngine{config: config, logger: logger}
	if config.RemoteURL != "" {
		e.allocCtx, e.allocCancel = chromedp.NewRemoteAllocator(context.Background(), config.RemoteURL)
		return e
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	e.allocCtx, e.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return e
}

// Name returns the engine name
func (e *ChromedpEngine) Name() string { return "chromedp" }

// Write loads html into a fresh tab and copies the printed PDF to w
func (e *ChromedpEngine) Write(ctx context.Context, html string, setup PageSetup, w io.Writer) error {
	tabCtx, cancelTab := chromedp.NewContext(e.allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			e.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer cancelTab()

	// tie the tab to the request deadline
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	params := printParamsFor(setup)
	var pdf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := params.Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		if ctx.Err() != nil {
			return NewRenderError(StageTimeout, "chromedp print aborted", ctx.Err())
		}
		return NewRenderError(StageWrite, "chromedp print failed", err)
	}

	if _, err := w.Write(pdf); err != nil {
		return NewRenderError(StageWrite, "failed to write PDF", err)
	}
	return nil
}

func printParamsFor(setup PageSetup) *page.PrintToPDFParams {
	margin := mmToInches(setup.MarginMM)
	return page.PrintToPDF().
		WithPrintBackground(true).
		WithPaperWidth(mmToInches(setup.WidthMM)).
		WithPaperHeight(mmToInches(setup.HeightMM)).
		WithMarginTop(margin).
		WithMarginRight(margin).
		WithMarginBottom(margin).
		WithMarginLeft(margin).
		WithLandscape(setup.Landscape)
}

// Close shuts down the browser allocator
func (e *ChromedpEngine) Close() error {
	if e.allocCancel != nil {
		e.allocCancel()
	}
	return nil
}

func mmToInches(mm float64) float64 {
	return mm / 25.4
}

var _ Engine = (*ChromedpEngine)(nil)
