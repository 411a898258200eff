package mathdoc

import (
	"log/slog"
	"time"
)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout       time.Duration
	styleInput    string // name, path or CSS content from WithStyle
	resolvedStyle string // CSS content after resolution
	assetPath     string
	codeStyle     string
	basic         bool
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the page rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mathdoc: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithLogger sets the logger that receives per-formula and per-element
// degradation warnings. A nil logger keeps the default, which discards.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStyle sets the page stylesheet: a built-in style name ("default",
// "academic"), a path to a CSS file, or CSS content.
func WithStyle(style string) Option {
	return func(c *Converter) {
		c.cfg.styleInput = style
	}
}

// WithAssetPath sets a directory whose styles/ subdirectory overrides the
// built-in styles.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithCodeStyle sets the chroma style used to colour code blocks in both
// outputs. Unknown names fall back to chroma's default.
func WithCodeStyle(name string) Option {
	return func(c *Converter) {
		c.cfg.codeStyle = name
	}
}

// WithRasterizer replaces the page rasterizer. The Converter takes
// ownership and closes it in Close.
func WithRasterizer(r Rasterizer) Option {
	return func(c *Converter) {
		if r != nil {
			c.rasterizer = r
		}
	}
}

// WithBasicRasterizer renders PDF without a browser. Formulas print as
// their TeX source.
func WithBasicRasterizer() Option {
	return func(c *Converter) {
		c.cfg.basic = true
	}
}

// WithMathRenderer replaces the built-in TeX renderer.
func WithMathRenderer(r MathRenderer) Option {
	return func(c *Converter) {
		if r != nil {
			c.math = r
		}
	}
}
