package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	mathdoc "github.com/alnah/go-mathdoc"
	"github.com/alnah/go-mathdoc/internal/config"
	"github.com/alnah/go-mathdoc/internal/dateutil"
)

// Output formats.
const (
	formatDocx = "docx"
	formatPDF  = "pdf"
	formatHTML = "html"
)

// Sentinel errors for conversion parameters.
var (
	ErrInvalidFormat = errors.New("invalid output format")
	ErrReadCSS       = errors.New("failed to read CSS file")
)

// conversionParams holds the per-file settings shared by a batch.
type conversionParams struct {
	format    string
	inputType mathdoc.InputType // for files whose extension says nothing
	title     string
	css       string
	layout    *mathdoc.Layout
	footer    *mathdoc.Footer // nil = no footer; date already resolved
	writeHTML bool
}

// mergeFlags returns a copy of cfg with every flag the user set applied.
// Unset flags leave the config value alone.
func mergeFlags(fs *flag.FlagSet, f *convertFlags, cfg *config.Config) *config.Config {
	out := *cfg
	out.Page.AvoidBreakInside = append([]string(nil), cfg.Page.AvoidBreakInside...)

	changed := fs.Changed

	// Input and output
	if changed("type") {
		out.Input.Type = f.input.inputType
	}
	if changed("to") {
		out.Output.Format = f.output.format
	}

	// Style
	if changed("style") {
		out.CSS.Style = f.style.style
	}
	if changed("asset-path") {
		out.Assets.BasePath = f.style.assetPath
	}

	// Page
	if changed("page-size") {
		out.Page.Size = f.page.size
	}
	if changed("orientation") {
		out.Page.Orientation = f.page.orientation
	}
	if changed("margin") {
		out.Page.Margin = f.page.margin
	}
	if changed("scale") {
		out.Page.Scale = f.page.scale
	}

	// Footer: any footer setting enables it, --no-footer wins
	if changed("footer") {
		out.Footer.Enabled = f.footer.enabled
	}
	if changed("footer-position") {
		out.Footer.Position = f.footer.position
		out.Footer.Enabled = true
	}
	if changed("footer-text") {
		out.Footer.Text = f.footer.text
		out.Footer.Enabled = true
	}
	if changed("footer-date") {
		out.Footer.Date = f.footer.date
		out.Footer.Enabled = true
	}
	if changed("footer-page-number") {
		out.Footer.ShowPageNumber = f.footer.pageNumber
		out.Footer.Enabled = true
	}
	if f.footer.disabled {
		out.Footer.Enabled = false
	}

	// Renderer
	if changed("engine") {
		out.Renderer.Engine = f.renderer.engine
	}
	if changed("timeout") {
		out.Renderer.Timeout = f.renderer.timeout.String()
	}

	return &out
}

// buildParams derives the conversion parameters from the merged config and
// normalizes cfg.Output.Format in place.
// now resolves "auto" footer dates once for the whole batch.
func buildParams(cfg *config.Config, f *convertFlags, now time.Time) (*conversionParams, error) {
	format, err := resolveFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	cfg.Output.Format = format
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	inputType, err := mathdoc.ParseInputType(cfg.Input.Type)
	if err != nil {
		return nil, err
	}

	params := &conversionParams{
		format:    format,
		inputType: inputType,
		title:     f.input.title,
		writeHTML: f.output.html && format == formatPDF,
		layout: &mathdoc.Layout{
			Size:             cfg.Page.Size,
			Orientation:      cfg.Page.Orientation,
			Margin:           cfg.Page.Margin,
			Scale:            cfg.Page.Scale,
			AvoidBreakInside: cfg.Page.AvoidBreakInside,
		},
	}
	defaults := mathdoc.DefaultLayout()
	if params.layout.Size == "" {
		params.layout.Size = defaults.Size
	}
	if params.layout.Orientation == "" {
		params.layout.Orientation = defaults.Orientation
	}
	if params.layout.Margin == 0 {
		params.layout.Margin = defaults.Margin
	}
	if err := params.layout.Validate(); err != nil {
		return nil, err
	}

	if cfg.Footer.Enabled {
		date, err := dateutil.ResolveDate(cfg.Footer.Date, now)
		if err != nil {
			return nil, err
		}
		params.footer = &mathdoc.Footer{
			Position:       cfg.Footer.Position,
			ShowPageNumber: cfg.Footer.ShowPageNumber,
			Date:           date,
			Text:           cfg.Footer.Text,
		}
		if err := params.footer.Validate(); err != nil {
			return nil, err
		}
	}

	if f.style.css != "" {
		data, err := os.ReadFile(f.style.css) // #nosec G304 -- user-provided path
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadCSS, err)
		}
		params.css = string(data)
	}

	return params, nil
}

// resolveFormat checks an output format name. Empty means docx.
func resolveFormat(format string) (string, error) {
	switch f := strings.ToLower(format); f {
	case "":
		return formatDocx, nil
	case formatDocx, formatPDF, formatHTML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (must be docx, pdf, or html)", ErrInvalidFormat, format)
	}
}

// converterOptions translates config into converter options.
func converterOptions(cfg *config.Config, logger *slog.Logger) ([]mathdoc.Option, error) {
	opts := []mathdoc.Option{mathdoc.WithLogger(logger)}

	if cfg.CSS.Style != "" {
		opts = append(opts, mathdoc.WithStyle(cfg.CSS.Style))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, mathdoc.WithAssetPath(cfg.Assets.BasePath))
	}

	timeout, err := cfg.Renderer.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		opts = append(opts, mathdoc.WithTimeout(timeout))
	}

	if cfg.Renderer.Engine == "basic" {
		opts = append(opts, mathdoc.WithBasicRasterizer())
	}

	return opts, nil
}
