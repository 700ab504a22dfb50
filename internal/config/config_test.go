package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"texsense/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("nil keeps defaults", func(t *testing.T) {
		cfg, err := config.Load(nil)
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	})

	t.Run("partial overlay", func(t *testing.T) {
		cfg, err := config.Load(map[string]any{
			"auto_close_brackets": false,
			"indent_unit":         "\t",
			"lint":                map[string]any{"check_missing_references": false},
		})
		require.NoError(t, err)
		assert.False(t, cfg.AutoCloseBrackets)
		assert.True(t, cfg.AutoCloseTags)
		assert.Equal(t, "\t", cfg.IndentUnit)
		assert.False(t, cfg.Lint.CheckMissingReferences)
		assert.True(t, cfg.Lint.CheckUnmatchedEnvironments)
	})

	t.Run("invalid indent", func(t *testing.T) {
		_, err := config.Load(map[string]any{"indent_unit": "ab"})
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := config.Load(map[string]any{"enable_linting": "yes"})
		assert.Error(t, err)
	})
}

func TestOverlay(t *testing.T) {
	base, err := config.LoadFromJSON(strings.NewReader(`{"indent_unit": "\t", "lint_delay_ms": 0}`))
	require.NoError(t, err)

	cfg, err := base.Overlay(map[string]any{"enable_linting": false})
	require.NoError(t, err)
	assert.Equal(t, "\t", cfg.IndentUnit)
	assert.Zero(t, cfg.LintDelayMS)
	assert.False(t, cfg.EnableLinting)

	_, err = base.Overlay(map[string]any{"lint_delay_ms": -5})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestLoadFromJSON(t *testing.T) {
	cfg, err := config.LoadFromJSON(strings.NewReader(`{"enable_tooltips": false}`))
	require.NoError(t, err)
	assert.False(t, cfg.EnableTooltips)
	assert.Equal(t, "  ", cfg.IndentUnit)

	_, err = config.LoadFromJSON(strings.NewReader(`{"indent_unit": ""}`))
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "texsense.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(
		"enable_autocomplete: false\n"+
			"indent_unit: \"    \"\n"+
			"catalog_path: /tmp/catalog.db\n"+
			"lint:\n"+
			"  check_missing_document_env: false\n"), 0o644))

	cfg, err := config.LoadFile(yamlPath)
	require.NoError(t, err)
	assert.False(t, cfg.EnableAutocomplete)
	assert.Equal(t, "    ", cfg.IndentUnit)
	assert.Equal(t, "/tmp/catalog.db", cfg.CatalogPath)
	assert.False(t, cfg.Lint.CheckMissingDocumentEnv)
	assert.True(t, cfg.Lint.CheckMissingReferences)

	emptyPath := filepath.Join(dir, "empty.yml")
	require.NoError(t, os.WriteFile(emptyPath, nil, 0o644))
	cfg, err = config.LoadFile(emptyPath)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	jsonPath := filepath.Join(dir, "texsense.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"auto_close_tags": false}`), 0o644))
	cfg, err = config.LoadFile(jsonPath)
	require.NoError(t, err)
	assert.False(t, cfg.AutoCloseTags)

	_, err = config.LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
