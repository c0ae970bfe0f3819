package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const tempSuffix = ".pdf"

// RenderObserver is notified after every render attempt
type RenderObserver interface {
	ObserveRender(ctx context.Context, engine string, size int, elapsed time.Duration, err error)
}

// RendererConfig configures a Renderer
type RendererConfig struct {
	// OutputDir holds temporary files while a render is in flight
	OutputDir   string
	Timeout     time.Duration
	DefaultFont string
	Page        PageSetup
}

// RendererOption customizes a Renderer
type RendererOption func(*Renderer)

// WithObserver registers a RenderObserver
func WithObserver(o RenderObserver) RendererOption {
	return func(r *Renderer) { r.observer = o }
}

// Renderer produces PDF bytes from a Document
type Renderer struct {
	engine   Engine
	config   RendererConfig
	logger   *zap.Logger
	observer RenderObserver
}

// NewRenderer creates a Renderer writing through engine
func NewRenderer(engine Engine, cfg RendererConfig, logger *zap.Logger, opts ...RendererOption) (*Renderer, error) {
	if engine == nil {
		return nil, errors.New("printing engine is required")
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Join(os.TempDir(), "invoicing-pdf")
	}
	if cfg.Page.WidthMM == 0 || cfg.Page.HeightMM == 0 {
		cfg.Page = A4()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Renderer{engine: engine, config: cfg, logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Render writes doc through the engine into <OutputDir>/<filename>.pdf and a
// memory buffer at the same time, removes the file and returns the buffer.
// Callers pass a fresh uuid as filename so concurrent renders never share a path.
func (r *Renderer) Render(ctx context.Context, doc *Document, filename string) (pdf []byte, err error) {
	ctx, span := otel.Tracer("invoicing/printing").Start(ctx, "printing.Render")
	defer span.End()
	span.SetAttributes(attribute.String("printing.engine", r.engine.Name()))

	start := time.Now()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		if r.observer != nil {
			r.observer.ObserveRender(ctx, r.engine.Name(), len(pdf), time.Since(start), err)
		}
	}()

	if doc == nil {
		return nil, NewRenderError(StageTemplate, "document is nil", nil)
	}
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return nil, NewRenderError(StageTempFile, fmt.Sprintf("invalid file name %q", filename), nil)
	}

	if err := os.MkdirAll(r.config.OutputDir, 0o750); err != nil {
		return nil, NewRenderError(StageTempFile, "failed to create output directory", err)
	}

	html, err := BuildHTML(doc, r.config.DefaultFont)
	if err != nil {
		return nil, NewRenderError(StageTemplate, "failed to build document HTML", err)
	}

	path := filepath.Join(r.config.OutputDir, filename+tempSuffix)
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, NewRenderError(StageTempFile, "failed to create temporary file", err)
	}
	defer r.remove(path)

	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	var buf bytes.Buffer
	writeErr := r.engine.Write(ctx, html, r.config.Page, io.MultiWriter(file, &buf))
	closeErr := file.Close()

	if writeErr != nil {
		var renderErr *RenderError
		if errors.As(writeErr, &renderErr) {
			return nil, renderErr
		}
		return nil, NewRenderError(StageWrite, "engine failed", writeErr)
	}
	if closeErr != nil {
		return nil, NewRenderError(StageTempFile, "failed to close temporary file", closeErr)
	}
	if buf.Len() == 0 {
		return nil, NewRenderError(StageEmpty, "engine produced no output", nil)
	}

	span.SetAttributes(attribute.Int("printing.bytes", buf.Len()))
	return buf.Bytes(), nil
}

func (r *Renderer) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		r.logger.Warn("failed to remove temporary PDF", zap.String("path", path), zap.Error(err))
	}
}

// Sweep deletes temporary files older than age, left behind when the process
// died mid-render. It returns the number of files removed.
func (r *Renderer) Sweep(age time.Duration) (int, error) {
	entries, err := os.ReadDir(r.config.OutputDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read output directory: %w", err)
	}

	cutoff := time.Now().Add(-age)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), tempSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(r.config.OutputDir, entry.Name())); err == nil {
			removed++
		}
	}
	if removed > 0 {
		r.logger.Info("removed stale temporary PDFs", zap.Int("count", removed))
	}
	return removed, nil
}

// EngineName returns the configured engine name
func (r *Renderer) EngineName() string {
	return r.engine.Name()
}

// Close releases the engine
func (r *Renderer) Close() error {
	return r.engine.Close()
}
