package printing

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ever-co/invoicing/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine(config.PrintingConfig{Engine: "chromedp"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "chromedp", engine.Name())
	assert.NoError(t, engine.Close())

	_, err = NewEngine(config.PrintingConfig{Engine: "laser"}, nil)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, StageEngine, renderErr.Stage)

	_, err = NewEngine(config.PrintingConfig{Engine: "wkhtmltopdf", WkhtmltopdfPath: "/nonexistent/wkhtmltopdf"}, nil)
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodePdfGenerationFailed, renderErr.Code)
}

func TestPrintParamsFor(t *testing.T) {
	params := printParamsFor(A4())

	assert.InDelta(t, mmToInches(210), params.PaperWidth, 0.001)
	assert.InDelta(t, mmToInches(297), params.PaperHeight, 0.001)
	assert.InDelta(t, mmToInches(12), params.MarginTop, 0.001)
	assert.True(t, params.PrintBackground)
	assert.False(t, params.Landscape)
}

func TestWkhtmltopdfArgs(t *testing.T) {
	args := wkhtmltopdfArgs(PageSetup{WidthMM: 210, HeightMM: 297, MarginMM: 12.5, Landscape: true})

	assert.Contains(t, args, "210mm")
	assert.Contains(t, args, "12.5mm")
	assert.Contains(t, args, "Landscape")
	assert.Contains(t, args, "--disable-javascript")
	assert.Equal(t, []string{"-", "-"}, args[len(args)-2:])
}

// fakeWkhtmltopdf installs a script that copies stdin to stdout
func fakeWkhtmltopdf(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script engine stub")
	}
	path := filepath.Join(t.TempDir(), "wkhtmltopdf")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestWkhtmltopdfEngine_StreamsStdout(t *testing.T) {
	engine, err := NewWkhtmltopdfEngine(&WkhtmltopdfConfig{BinaryPath: fakeWkhtmltopdf(t, "cat")})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, engine.Write(context.Background(), "<html>pdf</html>", A4(), &out))
	assert.Equal(t, "<html>pdf</html>", out.String())
}

func TestWkhtmltopdfEngine_Failure(t *testing.T) {
	engine, err := NewWkhtmltopdfEngine(&WkhtmltopdfConfig{BinaryPath: fakeWkhtmltopdf(t, "echo broken >&2; exit 3")})
	require.NoError(t, err)

	err = engine.Write(context.Background(), "<html></html>", A4(), &bytes.Buffer{})
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, StageWrite, renderErr.Stage)
}

func TestWkhtmltopdfEngine_Cancelled(t *testing.T) {
	engine, err := NewWkhtmltopdfEngine(&WkhtmltopdfConfig{BinaryPath: fakeWkhtmltopdf(t, "sleep 5")})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = engine.Write(ctx, "<html></html>", A4(), &bytes.Buffer{})
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, StageTimeout, renderErr.Stage)
}
