package main

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	flag "github.com/spf13/pflag"

	mathdoc "github.com/alnah/go-mathdoc"
	"github.com/alnah/go-mathdoc/internal/config"
	"github.com/alnah/go-mathdoc/internal/dateutil"
)

// parseConvert parses args into a fresh convert flag set.
func parseConvert(t *testing.T, args ...string) (*flag.FlagSet, *convertFlags) {
	t.Helper()
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	f := &convertFlags{}
	addConvertFlags(fs, f)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse(%v): %v", args, err)
	}
	return fs, f
}

// ---------------------------------------------------------------------------
// TestMergeFlags - Flag overrides
// ---------------------------------------------------------------------------

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	t.Run("unset flags keep config", func(t *testing.T) {
		t.Parallel()
		cfg := config.DefaultConfig()
		cfg.Page.Size = "letter"
		cfg.Footer.Enabled = true

		fs, f := parseConvert(t)
		got := mergeFlags(fs, f, cfg)

		if got.Page.Size != "letter" {
			t.Errorf("Page.Size = %q, want letter", got.Page.Size)
		}
		if !got.Footer.Enabled {
			t.Error("Footer.Enabled = false, want true")
		}
	})

	t.Run("set flags override config", func(t *testing.T) {
		t.Parallel()
		cfg := config.DefaultConfig()
		cfg.Page.Size = "letter"

		fs, f := parseConvert(t,
			"--to", "pdf", "--type", "latex", "--style", "academic", "--asset-path", "/assets",
			"-p", "legal", "--orientation", "landscape", "--margin", "1", "--scale", "0.8",
			"--engine", "basic", "-t", "90s",
		)
		got := mergeFlags(fs, f, cfg)

		checks := []struct{ field, got, want string }{
			{"output.format", got.Output.Format, "pdf"},
			{"input.type", got.Input.Type, "latex"},
			{"css.style", got.CSS.Style, "academic"},
			{"assets.basePath", got.Assets.BasePath, "/assets"},
			{"page.size", got.Page.Size, "legal"},
			{"page.orientation", got.Page.Orientation, "landscape"},
			{"renderer.engine", got.Renderer.Engine, "basic"},
			{"renderer.timeout", got.Renderer.Timeout, "1m30s"},
		}
		for _, c := range checks {
			if c.got != c.want {
				t.Errorf("%s = %q, want %q", c.field, c.got, c.want)
			}
		}
		if got.Page.Margin != 1 || got.Page.Scale != 0.8 {
			t.Errorf("margin/scale = %v/%v, want 1/0.8", got.Page.Margin, got.Page.Scale)
		}
		if cfg.Page.Size != "letter" {
			t.Errorf("input config mutated: Page.Size = %q", cfg.Page.Size)
		}
	})

	t.Run("footer settings enable footer", func(t *testing.T) {
		t.Parallel()
		fs, f := parseConvert(t, "--footer-text", "Draft")
		got := mergeFlags(fs, f, config.DefaultConfig())
		if !got.Footer.Enabled || got.Footer.Text != "Draft" {
			t.Errorf("Footer = %+v, want enabled with text Draft", got.Footer)
		}
	})

	t.Run("no-footer wins", func(t *testing.T) {
		t.Parallel()
		fs, f := parseConvert(t, "--footer-page-number", "--no-footer")
		got := mergeFlags(fs, f, config.DefaultConfig())
		if got.Footer.Enabled {
			t.Error("Footer.Enabled = true, want false")
		}
	})
}

// ---------------------------------------------------------------------------
// TestBuildParams - Parameter derivation
// ---------------------------------------------------------------------------

func TestBuildParams(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		_, f := parseConvert(t)
		params, err := buildParams(config.DefaultConfig(), f, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if params.format != formatDocx {
			t.Errorf("format = %q, want docx", params.format)
		}
		if params.inputType != mathdoc.InputMarkdown {
			t.Errorf("inputType = %q, want markdown", params.inputType)
		}
		if params.footer != nil {
			t.Errorf("footer = %+v, want nil", params.footer)
		}
		if params.layout.Size != mathdoc.PageSizeA4 || params.layout.Margin != mathdoc.DefaultMargin {
			t.Errorf("layout = %+v, want A4 with default margin", params.layout)
		}
	})

	t.Run("footer date resolved once", func(t *testing.T) {
		t.Parallel()
		cfg := config.DefaultConfig()
		cfg.Footer = config.FooterConfig{Enabled: true, Date: "auto", ShowPageNumber: true}
		_, f := parseConvert(t)

		params, err := buildParams(cfg, f, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if params.footer == nil || params.footer.Date != "2026-03-14" {
			t.Errorf("footer = %+v, want date 2026-03-14", params.footer)
		}
	})

	t.Run("html written only for pdf", func(t *testing.T) {
		t.Parallel()
		for format, want := range map[string]bool{formatPDF: true, formatDocx: false, formatHTML: false} {
			cfg := config.DefaultConfig()
			cfg.Output.Format = format
			_, f := parseConvert(t, "--html")
			params, err := buildParams(cfg, f, now)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", format, err)
			}
			if params.writeHTML != want {
				t.Errorf("%s: writeHTML = %v, want %v", format, params.writeHTML, want)
			}
		}
	})

	t.Run("extra css is read", func(t *testing.T) {
		t.Parallel()
		css := writeFile(t, t.TempDir(), "extra.css", "p { color: red; }")
		_, f := parseConvert(t, "--css", css)
		params, err := buildParams(config.DefaultConfig(), f, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if params.css != "p { color: red; }" {
			t.Errorf("css = %q", params.css)
		}
	})

	errTests := []struct {
		name   string
		mutate func(*config.Config)
		args   []string
		want   error
	}{
		{"unknown format", func(c *config.Config) { c.Output.Format = "odt" }, nil, ErrInvalidFormat},
		{"unknown input type", func(c *config.Config) { c.Input.Type = "rtf" }, nil, config.ErrInvalidValue},
		{"bad page size", func(c *config.Config) { c.Page.Size = "a3" }, nil, mathdoc.ErrInvalidPageSize},
		{"bad margin", func(c *config.Config) { c.Page.Margin = 9 }, nil, mathdoc.ErrInvalidMargin},
		{"bad date", func(c *config.Config) { c.Footer = config.FooterConfig{Enabled: true, Date: "auto:"} }, nil, dateutil.ErrInvalidDateFormat},
		{"missing css", func(*config.Config) {}, []string{"--css", filepath.Join("no", "such.css")}, ErrReadCSS},
	}
	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.DefaultConfig()
			tt.mutate(cfg)
			_, f := parseConvert(t, tt.args...)
			_, err := buildParams(cfg, f, now)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestResolveFormat / TestConverterOptions
// ---------------------------------------------------------------------------

func TestResolveFormat(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", formatDocx, false},
		{"docx", formatDocx, false},
		{"PDF", formatPDF, false},
		{"html", formatHTML, false},
		{"epub", "", true},
	}
	for _, tt := range tests {
		got, err := resolveFormat(tt.in)
		if tt.wantErr != (err != nil) || got != tt.want {
			t.Errorf("resolveFormat(%q) = %q, %v; want %q, wantErr %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestConverterOptions(t *testing.T) {
	t.Parallel()
	logger := newTestEnv(t).Logger

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		opts, err := converterOptions(config.DefaultConfig(), logger)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(opts) != 1 {
			t.Errorf("len(opts) = %d, want 1 (logger only)", len(opts))
		}
	})

	t.Run("every setting", func(t *testing.T) {
		t.Parallel()
		cfg := config.DefaultConfig()
		cfg.CSS.Style = "academic"
		cfg.Assets.BasePath = t.TempDir()
		cfg.Renderer = config.RendererConfig{Engine: "basic", Timeout: "10s"}

		opts, err := converterOptions(cfg, logger)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(opts) != 5 {
			t.Errorf("len(opts) = %d, want 5", len(opts))
		}

		conv, err := mathdoc.NewConverter(opts...)
		if err != nil {
			t.Fatalf("NewConverter: %v", err)
		}
		_ = conv.Close()
	})

	t.Run("bad timeout", func(t *testing.T) {
		t.Parallel()
		cfg := config.DefaultConfig()
		cfg.Renderer.Timeout = "forever"
		if _, err := converterOptions(cfg, logger); !errors.Is(err, config.ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})
}
