package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-mathdoc/internal/config"
)

// envPrefix namespaces every environment variable the CLI reads.
const envPrefix = "MATHDOC_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string        // MATHDOC_CONFIG: config file name or path
	Style      string        // MATHDOC_STYLE: CSS style name or path
	Timeout    time.Duration // MATHDOC_TIMEOUT: PDF page load timeout

	// Tier 2 - I/O
	InputType string // MATHDOC_INPUT_TYPE: markdown, latex, plain, html
	InputDir  string // MATHDOC_INPUT_DIR: default input directory
	OutputDir string // MATHDOC_OUTPUT_DIR: default output directory
	Format    string // MATHDOC_FORMAT: docx, pdf, html

	// Tier 3 - Extended
	PageSize string // MATHDOC_PAGE_SIZE: a4, letter, legal
	Engine   string // MATHDOC_ENGINE: chrome, basic
	Workers  int    // MATHDOC_WORKERS: parallel workers
	LogLevel string // MATHDOC_LOG_LEVEL: debug, info, warn, error
}

// knownEnvVars lists valid MATHDOC_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"MATHDOC_CONFIG":  true,
	"MATHDOC_STYLE":   true,
	"MATHDOC_TIMEOUT": true,
	// Tier 2 - I/O
	"MATHDOC_INPUT_TYPE": true,
	"MATHDOC_INPUT_DIR":  true,
	"MATHDOC_OUTPUT_DIR": true,
	"MATHDOC_FORMAT":     true,
	// Tier 3 - Extended
	"MATHDOC_PAGE_SIZE": true,
	"MATHDOC_ENGINE":    true,
	"MATHDOC_WORKERS":   true,
	"MATHDOC_LOG_LEVEL": true,
	// Read by doctor
	"MATHDOC_CONTAINER": true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed durations and worker counts are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("MATHDOC_CONFIG"),
		Style:      getenv("MATHDOC_STYLE"),
		InputType:  getenv("MATHDOC_INPUT_TYPE"),
		InputDir:   getenv("MATHDOC_INPUT_DIR"),
		OutputDir:  getenv("MATHDOC_OUTPUT_DIR"),
		Format:     getenv("MATHDOC_FORMAT"),
		PageSize:   getenv("MATHDOC_PAGE_SIZE"),
		Engine:     getenv("MATHDOC_ENGINE"),
		LogLevel:   getenv("MATHDOC_LOG_LEVEL"),
	}

	if timeout := getenv("MATHDOC_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := getenv("MATHDOC_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars writes a warning for each unrecognized MATHDOC_* variable.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) && !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overwrites config values with every environment variable
// that is set. CLI flags are applied afterwards, giving
// flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Style != "" {
		cfg.CSS.Style = env.Style
	}
	if env.Timeout > 0 {
		cfg.Renderer.Timeout = env.Timeout.String()
	}
	if env.InputType != "" {
		cfg.Input.Type = env.InputType
	}
	if env.InputDir != "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Format != "" {
		cfg.Output.Format = env.Format
	}
	if env.PageSize != "" {
		cfg.Page.Size = env.PageSize
	}
	if env.Engine != "" {
		cfg.Renderer.Engine = env.Engine
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
}
