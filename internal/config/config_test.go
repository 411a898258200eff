package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-mathdoc/internal/dateutil"
	"github.com/alnah/go-mathdoc/internal/yamlutil"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Input.Type != "markdown" {
		t.Errorf("Input.Type = %q, want %q", cfg.Input.Type, "markdown")
	}
	if cfg.Output.Format != "docx" {
		t.Errorf("Output.Format = %q, want %q", cfg.Output.Format, "docx")
	}
	if cfg.Renderer.Engine != "chrome" {
		t.Errorf("Renderer.Engine = %q, want %q", cfg.Renderer.Engine, "chrome")
	}
	if cfg.Footer.Enabled {
		t.Error("Footer.Enabled = true, want false")
	}
	if cfg.Assets.BasePath != "" {
		t.Errorf("Assets.BasePath = %q, want empty", cfg.Assets.BasePath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{"empty value is valid", "", 10, false},
		{"value at limit is valid", "1234567890", 10, false},
		{"value under limit is valid", "12345", 10, false},
		{"value over limit returns error", "12345678901", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateFieldLength("test.field", tt.value, tt.maxLength)
			if tt.wantErr {
				if !errors.Is(err, ErrFieldTooLong) {
					t.Errorf("error = %v, want ErrFieldTooLong", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
		wantMsg string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name: "known values in any case are valid",
			mutate: func(c *Config) {
				c.Input.Type = "LaTeX"
				c.Output.Format = "PDF"
				c.Renderer.Engine = "basic"
				c.Footer.Position = "Center"
				c.Log.Level = "debug"
				c.Log.Format = "json"
			},
		},
		{
			name:    "unknown input type",
			mutate:  func(c *Config) { c.Input.Type = "rtf" },
			wantErr: ErrInvalidValue,
			wantMsg: "input.type",
		},
		{
			name:    "unknown output format",
			mutate:  func(c *Config) { c.Output.Format = "odt" },
			wantErr: ErrInvalidValue,
			wantMsg: "output.format",
		},
		{
			name:    "unknown engine",
			mutate:  func(c *Config) { c.Renderer.Engine = "wkhtml" },
			wantErr: ErrInvalidValue,
			wantMsg: "renderer.engine",
		},
		{
			name:    "unparseable timeout",
			mutate:  func(c *Config) { c.Renderer.Timeout = "soon" },
			wantErr: ErrInvalidValue,
			wantMsg: "renderer.timeout",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Renderer.Timeout = "-5s" },
			wantErr: ErrInvalidValue,
			wantMsg: "renderer.timeout",
		},
		{
			name:    "unknown footer position",
			mutate:  func(c *Config) { c.Footer.Position = "top" },
			wantErr: ErrInvalidValue,
			wantMsg: "footer.position",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Log.Level = "trace" },
			wantErr: ErrInvalidValue,
			wantMsg: "log.level",
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: ErrInvalidValue,
			wantMsg: "log.format",
		},
		{
			name:    "footer text too long",
			mutate:  func(c *Config) { c.Footer.Text = strings.Repeat("x", MaxTextLength+1) },
			wantErr: ErrFieldTooLong,
			wantMsg: "footer.text",
		},
		{
			name:    "footer date too long",
			mutate:  func(c *Config) { c.Footer.Date = strings.Repeat("x", MaxDateLength+1) },
			wantErr: ErrFieldTooLong,
			wantMsg: "footer.date",
		},
		{
			name:   "auto footer date with pattern",
			mutate: func(c *Config) { c.Footer.Date = "auto:[Draft] D MMMM YYYY" },
		},
		{
			name:    "auto footer date with unclosed bracket",
			mutate:  func(c *Config) { c.Footer.Date = "auto:[Draft YYYY" },
			wantErr: dateutil.ErrInvalidDateFormat,
			wantMsg: "footer.date",
		},
		{
			name:    "auto footer date without pattern",
			mutate:  func(c *Config) { c.Footer.Date = "auto:" },
			wantErr: ErrInvalidValue,
			wantMsg: "footer.date",
		},
		{
			name:    "page size too long",
			mutate:  func(c *Config) { c.Page.Size = "extra-large-paper" },
			wantErr: ErrFieldTooLong,
			wantMsg: "page.size",
		},
		{
			name: "too many selectors",
			mutate: func(c *Config) {
				c.Page.AvoidBreakInside = make([]string, MaxSelectors+1)
			},
			wantErr: ErrFieldTooLong,
			wantMsg: "page.avoidBreakInside",
		},
		{
			name: "selector too long",
			mutate: func(c *Config) {
				c.Page.AvoidBreakInside = []string{"pre", strings.Repeat("x", MaxSelectorLength+1)}
			},
			wantErr: ErrFieldTooLong,
			wantMsg: "page.avoidBreakInside[1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Validate() error = %q, want mention of %q", err, tt.wantMsg)
			}
		})
	}
}

func TestRendererConfig_TimeoutDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		timeout string
		want    time.Duration
		wantErr bool
	}{
		{"unset", "", 0, false},
		{"seconds", "45s", 45 * time.Second, false},
		{"minutes", "2m", 2 * time.Minute, false},
		{"zero", "0s", 0, true},
		{"garbage", "fast", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := RendererConfig{Timeout: tt.timeout}.TimeoutDuration()
			if (err != nil) != tt.wantErr {
				t.Fatalf("TimeoutDuration() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("TimeoutDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("full file loads every section", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `input:
  type: latex
  defaultDir: "/notes"
output:
  defaultDir: "/out"
  format: pdf
css:
  style: academic
assets:
  basePath: "/assets"
page:
  size: a4
  orientation: landscape
  margin: 0.75
  scale: 0.9
  avoidBreakInside:
    - ".math-display"
    - "figure"
footer:
  enabled: true
  position: center
  showPageNumber: true
  date: auto
  text: "Lecture 3"
renderer:
  engine: basic
  timeout: 90s
log:
  level: debug
  format: json
`)

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Input.Type != "latex" || cfg.Input.DefaultDir != "/notes" {
			t.Errorf("Input = %+v", cfg.Input)
		}
		if cfg.Output.Format != "pdf" || cfg.Output.DefaultDir != "/out" {
			t.Errorf("Output = %+v", cfg.Output)
		}
		if cfg.CSS.Style != "academic" {
			t.Errorf("CSS.Style = %q, want %q", cfg.CSS.Style, "academic")
		}
		if cfg.Page.Size != "a4" || cfg.Page.Orientation != "landscape" || cfg.Page.Margin != 0.75 || cfg.Page.Scale != 0.9 {
			t.Errorf("Page = %+v", cfg.Page)
		}
		if len(cfg.Page.AvoidBreakInside) != 2 || cfg.Page.AvoidBreakInside[1] != "figure" {
			t.Errorf("Page.AvoidBreakInside = %v", cfg.Page.AvoidBreakInside)
		}
		if !cfg.Footer.Enabled || !cfg.Footer.ShowPageNumber || cfg.Footer.Position != "center" {
			t.Errorf("Footer = %+v", cfg.Footer)
		}
		if cfg.Renderer.Engine != "basic" || cfg.Renderer.Timeout != "90s" {
			t.Errorf("Renderer = %+v", cfg.Renderer)
		}
		if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
			t.Errorf("Log = %+v", cfg.Log)
		}
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "css:\n  style: academic\n")

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Output.Format != "docx" {
			t.Errorf("Output.Format = %q, want default %q", cfg.Output.Format, "docx")
		}
		if cfg.Renderer.Engine != "chrome" {
			t.Errorf("Renderer.Engine = %q, want default %q", cfg.Renderer.Engine, "chrome")
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "css: [unclosed")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("syntax error names the file and wraps ErrDecode", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "output:\n  format: [docx\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) || !errors.Is(err, yamlutil.ErrDecode) {
			t.Fatalf("error = %v, want ErrConfigParse and yamlutil.ErrDecode", err)
		}
		if !strings.Contains(err.Error(), path) {
			t.Errorf("error = %q, want config path %q", err, path)
		}
	})

	t.Run("empty file returns ErrConfigParse", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) || !errors.Is(err, yamlutil.ErrEmptyDocument) {
			t.Errorf("error = %v, want ErrConfigParse and yamlutil.ErrEmptyDocument", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "watermark:\n  text: DRAFT\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value is rejected after parsing", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "output:\n  format: odt\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})
}

func TestLoadConfig_ByName(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))

	if err := os.WriteFile("lecture.yml", []byte("output:\n  format: html\n"), 0600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	cfg, err := LoadConfig("lecture")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Output.Format != "html" {
		t.Errorf("Output.Format = %q, want %q", cfg.Output.Format, "html")
	}

	_, err = LoadConfig("missing")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("error = %v, want ErrConfigNotFound", err)
	}
	if !strings.Contains(err.Error(), "go-mathdoc") {
		t.Errorf("error = %q, want searched user config path", err)
	}
}
