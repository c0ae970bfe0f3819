package printing

import (
	"context"
	"fmt"
	"io"

	"github.com/ever-co/invoicing/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Engine converts a complete HTML page to PDF and streams the result into w
type Engine interface {
	Name() string
	Write(ctx context.Context, html string, setup PageSetup, w io.Writer) error
	Close() error
}

// PageSetup describes the paper in millimeters
type PageSetup struct {
	WidthMM   float64
	HeightMM  float64
	MarginMM  float64
	Landscape bool
}

// A4 returns a portrait A4 page with 12mm margins
func A4() PageSetup {
	return PageSetup{WidthMM: 210, HeightMM: 297, MarginMM: 12}
}

// NewEngine builds the engine selected by cfg.Engine
func NewEngine(cfg config.PrintingConfig, logger *zap.Logger) (Engine, error) {
	switch cfg.Engine {
	case "", "chromedp":
		return NewChromedpEngine(&ChromedpConfig{
			RemoteURL: cfg.ChromeRemoteURL,
			NoSandbox: true,
			Logger:    logger,
		}), nil
	case "wkhtmltopdf":
		engine, err := NewWkhtmltopdfEngine(&WkhtmltopdfConfig{
			BinaryPath: cfg.WkhtmltopdfPath,
			Logger:     logger,
		})
		if err != nil {
			return nil, err
		}
		return engine, nil
	default:
		return nil, NewRenderError(StageEngine, fmt.Sprintf("unknown printing engine %q", cfg.Engine), nil)
	}
}

// UnavailableEngine returns an Engine whose every write fails with cause.
// The server uses it when the configured engine cannot be constructed so
// that only document downloads fail.
func UnavailableEngine(cause error) Engine {
	return unavailableEngine{cause: cause}
}

type unavailableEngine struct {
	cause error
}

func (e unavailableEngine) Name() string { return "unavailable" }

func (e unavailableEngine) Write(context.Context, string, PageSetup, io.Writer) error {
	return NewRenderError(StageEngine, "printing engine unavailable", e.cause)
}

func (e unavailableEngine) Close() error { return nil }
