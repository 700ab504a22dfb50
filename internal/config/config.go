package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"texsense/internal/lint"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	// Feature flags. They only decide which components the server wires.
	AutoCloseTags      bool `json:"auto_close_tags" yaml:"auto_close_tags"`
	AutoCloseBrackets  bool `json:"auto_close_brackets" yaml:"auto_close_brackets"`
	EnableLinting      bool `json:"enable_linting" yaml:"enable_linting"`
	EnableTooltips     bool `json:"enable_tooltips" yaml:"enable_tooltips"`
	EnableAutocomplete bool `json:"enable_autocomplete" yaml:"enable_autocomplete"`

	IndentUnit  string       `json:"indent_unit" yaml:"indent_unit"`
	Lint        lint.Options `json:"lint" yaml:"lint"`
	LintDelayMS int          `json:"lint_delay_ms" yaml:"lint_delay_ms"` // 0 publishes synchronously
	CatalogPath string       `json:"catalog_path" yaml:"catalog_path"`   // optional SQLite catalog
}

var defaultConfig = Config{
	AutoCloseTags:      true,
	AutoCloseBrackets:  true,
	EnableLinting:      true,
	EnableTooltips:     true,
	EnableAutocomplete: true,
	IndentUnit:         "  ",
	Lint:               lint.DefaultOptions(),
	LintDelayMS:        150,
}

// Default returns the built-in configuration.
func Default() Config { return defaultConfig }

// Load overlays v, typically the LSP initialization options, on the
// defaults. Only fields present in v overwrite.
func Load(v any) (Config, error) {
	return defaultConfig.Overlay(v)
}

// Overlay is Load with c instead of the defaults as the base.
func (c Config) Overlay(v any) (Config, error) {
	cfg := c
	if v == nil {
		return cfg, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return Config{}, fmt.Errorf("failed to marshal source: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal into Config: %w", err)
	}

	return cfg, cfg.Validate()
}

// LoadFromJSON reads JSON from r into a Config.
func LoadFromJSON(r io.Reader) (Config, error) {
	cfg := defaultConfig

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

// LoadFromYAML reads YAML from r into a Config.
func LoadFromYAML(r io.Reader) (Config, error) {
	cfg := defaultConfig

	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to decode yaml: %w", err)
	}

	return cfg, cfg.Validate()
}

// LoadFile reads a YAML or JSON file, chosen by extension.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	if strings.HasSuffix(path, ".json") {
		cfg, err := LoadFromJSON(f)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
		return cfg, nil
	}
	cfg, err := LoadFromYAML(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.IndentUnit == "" {
		return fmt.Errorf("%w: indent_unit must not be empty", ErrInvalidConfig)
	}
	if strings.Trim(c.IndentUnit, " \t") != "" {
		return fmt.Errorf("%w: indent_unit %q may only contain spaces and tabs", ErrInvalidConfig, c.IndentUnit)
	}
	if c.LintDelayMS < 0 {
		return fmt.Errorf("%w: lint_delay_ms must not be negative", ErrInvalidConfig)
	}
	return nil
}
