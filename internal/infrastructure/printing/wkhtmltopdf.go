package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const defaultWkhtmltopdfBinary = "wkhtmltopdf"

// WkhtmltopdfConfig contains configuration for the wkhtmltopdf engine
type WkhtmltopdfConfig struct {
	// BinaryPath is an absolute path or a name looked up in PATH
	BinaryPath string
	Logger     *zap.Logger
}

// WkhtmltopdfEngine pipes HTML through the wkhtmltopdf binary
type WkhtmltopdfEngine struct {
	binary string
	logger *zap.Logger
}

// NewWkhtmltopdfEngine resolves the binary up front so a missing install is
// reported at startup
func NewWkhtmltopdfEngine(config *WkhtmltopdfConfig) (*WkhtmltopdfEngine, error) {
	if config == nil {
		config = &WkhtmltopdfConfig{}
	}
	path := config.BinaryPath
	if path == "" {
		path = defaultWkhtmltopdfBinary
	}

	binary, err := resolveBinaryPath(path)
	if err != nil {
		return nil, NewRenderError(StageEngine, fmt.Sprintf("wkhtmltopdf binary not found: %s", path), err)
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WkhtmltopdfEngine{binary: binary, logger: logger}, nil
}

func resolveBinaryPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			return "", err
		}
		return path, nil
	}
	return exec.LookPath(path)
}

// Name returns the engine name
func (e *WkhtmltopdfEngine) Name() string { return "wkhtmltopdf" }

// Write reads html from stdin and streams stdout straight into w
func (e *WkhtmltopdfEngine) Write(ctx context.Context, html string, setup PageSetup, w io.Writer) error {
	args := wkhtmltopdfArgs(setup)
	e.logger.Debug("executing wkhtmltopdf", zap.String("binary", e.binary), zap.Strings("args", args))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.binary, args...)
	cmd.Stdin = strings.NewReader(html)
	cmd.Stdout = w
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(ctx.Err(), context.Canceled) {
			return NewRenderError(StageTimeout, "wkhtmltopdf aborted", ctx.Err())
		}
		e.logger.Error("wkhtmltopdf failed", zap.Error(err), zap.String("stderr", stderr.String()))
		return NewRenderError(StageWrite, "wkhtmltopdf execution failed", err)
	}
	return nil
}

func wkhtmltopdfArgs(setup PageSetup) []string {
	margin := fmt.Sprintf("%gmm", setup.MarginMM)
	orientation := "Portrait"
	if setup.Landscape {
		orientation = "Landscape"
	}
	return []string{
		"--quiet",
		"--encoding", "UTF-8",
		"--page-width", fmt.Sprintf("%gmm", setup.WidthMM),
		"--page-height", fmt.Sprintf("%gmm", setup.HeightMM),
		"--orientation", orientation,
		"--margin-top", margin,
		"--margin-right", margin,
		"--margin-bottom", margin,
		"--margin-left", margin,
		"--disable-javascript",
		"--disable-local-file-access",
		"-", "-",
	}
}

// Close is a no-op; every Write runs its own process
func (e *WkhtmltopdfEngine) Close() error {
	return nil
}

var _ Engine = (*WkhtmltopdfEngine)(nil)
