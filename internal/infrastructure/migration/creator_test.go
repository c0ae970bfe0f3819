package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add invoice tags", "add_invoice_tags"},
		{"Add-Invoice-Tags", "add_invoice_tags"},
		{"ADD__INVOICE__TAGS", "add_invoice_tags"},
		{"estimate emails 2", "estimate_emails_2"},
		{"   spaces   ", "spaces"},
		{"drop!@#$token", "droptoken"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "add invoice tags", "Free-form labels on invoices")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, "000001_add_invoice_tags.up.sql", filepath.Base(first.UpPath))
	assert.Equal(t, "000001_add_invoice_tags.down.sql", filepath.Base(first.DownPath))

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add_invoice_tags")
	assert.Contains(t, string(up), "Free-form labels on invoices")

	down, err := os.ReadFile(first.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(Rollback)")

	second, err := CreateMigration(dir, "Payments", "")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)

	up, err = os.ReadFile(second.UpPath)
	require.NoError(t, err)
	assert.NotContains(t, string(up), "Description")
}

func TestCreateMigration_InvalidName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		files, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("sorted by version, ignores strays", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{
			"000010_payments.up.sql",
			"000010_payments.down.sql",
			"000002_invoices.up.sql",
			"000002_invoices.down.sql",
			"README.md",
			"notaversion_x.up.sql",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
		}
		require.NoError(t, os.Mkdir(filepath.Join(dir, "000003_dir.up.sql"), 0o755))

		files, err := ListMigrations(dir)
		require.NoError(t, err)
		require.Len(t, files, 2)
		assert.Equal(t, uint(2), files[0].Version)
		assert.Equal(t, "invoices", files[0].Name)
		assert.Equal(t, uint(10), files[1].Version)
		assert.Equal(t, "000010_payments", files[1].BaseName())
	})

	t.Run("repository migrations", func(t *testing.T) {
		files, err := ListMigrations(filepath.Join("..", "..", "..", "migrations"))
		require.NoError(t, err)
		require.NotEmpty(t, files)
		assert.Equal(t, uint(1), files[0].Version)
		_, err = os.Stat(files[0].DownPath)
		assert.NoError(t, err)
	})
}
