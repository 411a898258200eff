package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// htmlTemplate wraps Goldmark's fragment output in a complete HTML5 document.
// PostProcess replaces the title.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Document</title>
</head>
<body>
<main class="mathdoc">
%s
</main>
</body>
</html>`

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// GoldmarkConverter converts Markdown to HTML using goldmark.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// Option configures a GoldmarkConverter.
type Option func(*converterOptions)

type converterOptions struct {
	codeStyle string
	hardWraps bool
}

// WithCodeStyle selects the chroma style for fenced code. Empty keeps CSS
// classes so a stylesheet controls colours.
func WithCodeStyle(name string) Option {
	return func(o *converterOptions) { o.codeStyle = name }
}

// WithHardWraps renders single newlines as <br>.
func WithHardWraps(enabled bool) Option {
	return func(o *converterOptions) { o.hardWraps = enabled }
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions and
// syntax highlighting.
func NewGoldmarkConverter(opts ...Option) *GoldmarkConverter {
	o := converterOptions{hardWraps: true}
	for _, opt := range opts {
		opt(&o)
	}

	hl := []highlighting.Option{
		highlighting.WithFormatOptions(chromahtml.WithClasses(o.codeStyle == "")),
	}
	if o.codeStyle != "" {
		hl = append(hl, highlighting.WithStyle(o.codeStyle))
	}

	htmlOpts := []renderer.Option{html.WithXHTML()}
	if o.hardWraps {
		htmlOpts = append(htmlOpts, html.WithHardWraps())
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(hl...),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		// WithUnsafe stays off: formulas and highlights travel as
		// placeholders and are spliced in after conversion.
		goldmark.WithRendererOptions(htmlOpts...),
	)
	return &GoldmarkConverter{md: md}
}

// ToHTML converts Markdown content to a standalone HTML5 document.
// Goldmark has no context support, so conversion runs in a goroutine and the
// caller stops waiting on cancellation.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: fmt.Sprintf(htmlTemplate, buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
