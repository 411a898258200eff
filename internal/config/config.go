package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/alnah/go-mathdoc/internal/dateutil"
	"github.com/alnah/go-mathdoc/internal/fileutil"
	"github.com/alnah/go-mathdoc/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength        = 4096
	MaxStyleLength       = 4096 // name, path or inline CSS
	MaxDateLength        = 30   // "2025-12-31" or "auto:DD/MM/YYYY"
	MaxTextLength        = 500  // footer free-form text
	MaxPageSizeLength    = 10   // "letter", "a4", "legal"
	MaxOrientationLength = 10   // "portrait", "landscape"
	MaxSelectorLength    = 200  // one avoidBreakInside selector
	MaxSelectors         = 50
)

// Allowed enum values.
var (
	InputTypes   = []string{"markdown", "latex", "plain", "html"}
	OutputFormat = []string{"docx", "pdf", "html"}
	Engines      = []string{"chrome", "basic"}
	LogLevels    = []string{"debug", "info", "warn", "error"}
	LogFormats   = []string{"text", "json"}
	Positions    = []string{"left", "center", "right"}
)

// Config holds all configuration for document generation.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	CSS      CSSConfig      `yaml:"css"`
	Assets   AssetsConfig   `yaml:"assets"`
	Page     PageConfig     `yaml:"page"`
	Footer   FooterConfig   `yaml:"footer"`
	Renderer RendererConfig `yaml:"renderer"`
	Log      LogConfig      `yaml:"log"`
}

// InputConfig defines input source options.
type InputConfig struct {
	Type       string `yaml:"type"`       // "markdown" (default), "latex", "plain", "html"
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
	Format     string `yaml:"format"`     // "docx" (default), "pdf", "html"
}

// CSSConfig defines CSS styling options for the page outputs.
type CSSConfig struct {
	Style string `yaml:"style"` // Style name, file path or inline CSS
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// PageConfig defines page settings for PDF output.
type PageConfig struct {
	Size             string   `yaml:"size"`             // "letter", "a4", "legal" (default: "a4")
	Orientation      string   `yaml:"orientation"`      // "portrait", "landscape"
	Margin           float64  `yaml:"margin"`           // inches (default: 0.5)
	Scale            float64  `yaml:"scale"`            // 0.1 to 2 (default: 1)
	AvoidBreakInside []string `yaml:"avoidBreakInside"` // CSS selectors kept on one page
}

// FooterConfig defines page footer options.
type FooterConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Position       string `yaml:"position"` // "left", "center", "right" (default: "right")
	ShowPageNumber bool   `yaml:"showPageNumber"`
	Date           string `yaml:"date"` // Optional, "auto" or "auto:FORMAT" resolved at runtime
	Text           string `yaml:"text"` // Optional free-form text
}

// RendererConfig selects the PDF rasterizer.
type RendererConfig struct {
	Engine  string `yaml:"engine"`  // "chrome" (default) or "basic"
	Timeout string `yaml:"timeout"` // Go duration, e.g. "45s"
}

// LogConfig defines CLI logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn" (default), "error"
	Format string `yaml:"format"` // "text" (default) or "json"
}

// TimeoutDuration parses the renderer timeout. Zero means unset.
func (r RendererConfig) TimeoutDuration() (time.Duration, error) {
	if r.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: renderer.timeout %q: %v", ErrInvalidValue, r.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: renderer.timeout must be positive, got %s", ErrInvalidValue, d)
	}
	return d, nil
}

// Validate checks enum values and field lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateEnum("input.type", c.Input.Type, InputTypes); err != nil {
		return err
	}
	if err := validateFieldLength("input.defaultDir", c.Input.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateEnum("output.format", c.Output.Format, OutputFormat); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("css.style", c.CSS.Style, MaxStyleLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}

	// Page fields; size, orientation and margin bounds are checked by the
	// library when the layout is applied
	if err := validateFieldLength("page.size", c.Page.Size, MaxPageSizeLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.orientation", c.Page.Orientation, MaxOrientationLength); err != nil {
		return err
	}
	if len(c.Page.AvoidBreakInside) > MaxSelectors {
		return fmt.Errorf("%w: page.avoidBreakInside (%d selectors, max %d)", ErrFieldTooLong, len(c.Page.AvoidBreakInside), MaxSelectors)
	}
	for i, sel := range c.Page.AvoidBreakInside {
		if err := validateFieldLength(fmt.Sprintf("page.avoidBreakInside[%d]", i), sel, MaxSelectorLength); err != nil {
			return err
		}
	}

	if err := validateEnum("footer.position", c.Footer.Position, Positions); err != nil {
		return err
	}
	if err := validateFieldLength("footer.date", c.Footer.Date, MaxDateLength); err != nil {
		return err
	}
	if err := dateutil.Validate(c.Footer.Date); err != nil {
		return fmt.Errorf("%w: footer.date: %w", ErrInvalidValue, err)
	}
	if err := validateFieldLength("footer.text", c.Footer.Text, MaxTextLength); err != nil {
		return err
	}

	if err := validateEnum("renderer.engine", c.Renderer.Engine, Engines); err != nil {
		return err
	}
	if _, err := c.Renderer.TimeoutDuration(); err != nil {
		return err
	}

	if err := validateEnum("log.level", c.Log.Level, LogLevels); err != nil {
		return err
	}
	return validateEnum("log.format", c.Log.Format, LogFormats)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateEnum accepts an empty value or one of allowed, case-insensitively.
func validateEnum(fieldName, value string, allowed []string) error {
	if value == "" || slices.Contains(allowed, strings.ToLower(value)) {
		return nil
	}
	return fmt.Errorf("%w: %s %q (must be one of %s)", ErrInvalidValue, fieldName, value, strings.Join(allowed, ", "))
}

// DefaultConfig returns a neutral configuration; empty fields mean
// "library default".
func DefaultConfig() *Config {
	return &Config{
		Input:    InputConfig{Type: "markdown"},
		Output:   OutputConfig{Format: "docx"},
		Footer:   FooterConfig{Enabled: false},
		Renderer: RendererConfig{Engine: "chrome"},
		Log:      LogConfig{Level: "warn", Format: "text"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-mathdoc/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-mathdoc", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
