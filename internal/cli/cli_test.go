package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"texsense/internal/catalog/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "texsense "+Version))
}

func TestLint(t *testing.T) {
	dir := t.TempDir()
	clean := writeFile(t, dir, "clean.tex", "\\begin{document}\n\\label{a}\\ref{a}\n\\end{document}\n")
	broken := writeFile(t, dir, "broken.tex", "x\n\\ref{nowhere}\n")

	t.Run("clean", func(t *testing.T) {
		out, err := run(t, "lint", clean)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("findings", func(t *testing.T) {
		out, err := run(t, "lint", clean, broken)
		assert.ErrorIs(t, err, errFindings)
		assert.Equal(t, broken+":2:1: warning: Reference to undefined label: nowhere\n", out)
	})

	t.Run("directory", func(t *testing.T) {
		out, err := run(t, "lint", dir)
		assert.ErrorIs(t, err, errFindings)
		assert.Equal(t, broken+":2:1: warning: Reference to undefined label: nowhere\n", out)
	})

	t.Run("exclude", func(t *testing.T) {
		out, err := run(t, "lint", "--exclude", "broken.*", dir)
		require.NoError(t, err)
		assert.Empty(t, out)

		_, err = run(t, "lint", "--exclude", "[", dir)
		assert.ErrorContains(t, err, "invalid exclude pattern")
	})

	t.Run("disabled by config", func(t *testing.T) {
		cfg := writeFile(t, dir, "texsense.yaml", "lint:\n  check_missing_references: false\n")
		out, err := run(t, "lint", "--config", cfg, broken)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := run(t, "lint", filepath.Join(dir, "nope.tex"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, errFindings)
	})
}

func TestCatalog(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "sub", "catalog.db")

	out, err := run(t, "catalog", "init", db)
	require.NoError(t, err)
	assert.Contains(t, out, db)

	file := writeFile(t, dir, "extra.yaml", `
- kind: command
  name: \qty
  description: A physical quantity.
  syntax: \qty{number}{unit}
  package: siunitx
- kind: environment
  name: tikzpicture
`)
	out, err = run(t, "catalog", "import", file, db)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 entries")

	out, err = run(t, "catalog", "list", db)
	require.NoError(t, err)
	assert.Contains(t, out, `\qty`)
	assert.Contains(t, out, "A physical quantity.")
	assert.Contains(t, out, "tikzpicture")
	assert.Contains(t, out, "itemize")

	t.Run("invalid entry", func(t *testing.T) {
		bad := writeFile(t, dir, "bad.yaml", "- kind: command\n  name: qty\n")
		_, err := run(t, "catalog", "import", bad, db)
		assert.ErrorIs(t, err, sqlite.ErrInvalidEntry)
	})

	t.Run("list without database", func(t *testing.T) {
		_, err := run(t, "catalog", "list", filepath.Join(dir, "missing.db"))
		assert.Error(t, err)
	})
}

func TestServeRejectsUnknownTransport(t *testing.T) {
	_, err := run(t, "serve", "--transport", "carrier-pigeon")
	assert.ErrorContains(t, err, "unknown transport")
}
