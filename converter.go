package mathdoc

import (
	"context"
	"fmt"
	"html"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/alnah/go-mathdoc/internal/assets"
	"github.com/alnah/go-mathdoc/internal/block"
	"github.com/alnah/go-mathdoc/internal/build"
	"github.com/alnah/go-mathdoc/internal/document"
	"github.com/alnah/go-mathdoc/internal/docx"
	"github.com/alnah/go-mathdoc/internal/fileutil"
	"github.com/alnah/go-mathdoc/internal/normalize"
	"github.com/alnah/go-mathdoc/internal/pipeline"
	"github.com/alnah/go-mathdoc/internal/texmath"
	"github.com/alnah/go-mathdoc/internal/token"
)

// MathRenderer renders a TeX formula body to browser markup (MathML) and to
// native document markup (OMML). Implementations must be safe for
// concurrent use.
type MathRenderer interface {
	VisualMarkup(src string, display bool) (string, error)
	NativeMarkup(src string, display bool) (string, error)
}

// Compile-time interface implementation checks.
var (
	_ MathRenderer                  = texmath.Renderer{}
	_ build.MathRenderer            = (MathRenderer)(nil)
	_ pipeline.MathRenderer         = (*normalizingRenderer)(nil)
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.StyleInjector        = (*pipeline.StyleInjection)(nil)
)

// fallbackTitle names documents with neither a title nor a heading.
const fallbackTitle = "document"

// maxFilenameLength caps the slug in suggested file names.
const maxFilenameLength = 64

// Converter turns mathematical documents into docx, HTML and PDF.
// Create with NewConverter and call Close when done. A Converter may be used
// by one goroutine at a time; use ConverterPool for parallel batches.
type Converter struct {
	cfg           converterConfig
	logger        *slog.Logger
	assetLoader   assets.AssetLoader
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter pipeline.HTMLConverter
	styleInjector pipeline.StyleInjector
	lexer         *token.Lexer
	math          MathRenderer
	rasterizer    Rasterizer
}

// NewConverter creates a Converter. Options are applied in order.
// Returns an error if the asset path or the style cannot be resolved.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:   defaultTimeout,
			codeStyle: build.DefaultCodeStyle,
		},
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		assetLoader:   assets.NewEmbeddedLoader(),
		preprocessor:  &pipeline.CommonMarkPreprocessor{},
		styleInjector: &pipeline.StyleInjection{},
		lexer:         token.NewLexer(),
		math:          texmath.Renderer{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.assetLoader = resolver
	}

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}

	c.htmlConverter = pipeline.NewGoldmarkConverter(pipeline.WithCodeStyle(c.cfg.codeStyle))

	if c.rasterizer == nil {
		if c.cfg.basic {
			c.rasterizer = newBasicRasterizer()
		} else {
			c.rasterizer = newRodRasterizer(c.cfg.timeout)
		}
	}

	return c, nil
}

// resolveStyle turns the style input (name, path or CSS content) into CSS.
func (c *Converter) resolveStyle() error {
	input := c.cfg.styleInput
	if input == "" {
		input = assets.DefaultStyleName
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		c.cfg.resolvedStyle = string(content)
		return nil
	}

	if fileutil.IsCSS(input) {
		c.cfg.resolvedStyle = input
		return nil
	}

	css, err := c.assetLoader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrStyleNotFound, input, err)
	}
	c.cfg.resolvedStyle = css
	return nil
}

// ToDocx converts in to a word-processing document with native equations.
// Formulas that fail to render are kept as literal text and counted in
// Result.Warnings.
func (c *Converter) ToDocx(ctx context.Context, in Input) (res *Result, err error) {
	defer recoverInto("docx", &err)

	elems, skipped, err := c.elements(ctx, in)
	if err != nil {
		return nil, wrapError("docx", err)
	}

	out, err := build.Build(ctx, elems, build.NewNative(c.math, c.cfg.codeStyle), c.logger)
	if err != nil {
		return nil, wrapError("docx", err)
	}

	title := documentTitle(in.Title, elems)
	data, err := docx.Bytes(&docx.Document{
		Title:   title,
		Creator: "go-mathdoc",
		Blocks:  out.Items,
	})
	if err != nil {
		return nil, wrapError("docx", fmt.Errorf("%w: %w", ErrSerialization, err))
	}

	return &Result{
		Data:     data,
		Filename: SuggestFilename(title, ".docx"),
		Warnings: skipped + out.Warnings(),
	}, nil
}

// ToHTML renders in as a standalone styled HTML page.
func (c *Converter) ToHTML(ctx context.Context, in Input) (res *Result, err error) {
	defer recoverInto("html", &err)

	pg, err := c.page(ctx, in)
	if err != nil {
		return nil, wrapError("html", err)
	}
	return &Result{
		Data:     []byte(pg.html),
		Filename: SuggestFilename(pg.title, ".html"),
		HTML:     []byte(pg.html),
		Warnings: pg.warnings,
	}, nil
}

// ToPDF renders in as a styled page and rasterizes it.
func (c *Converter) ToPDF(ctx context.Context, in Input) (res *Result, err error) {
	defer recoverInto("pdf", &err)

	pg, err := c.page(ctx, in)
	if err != nil {
		return nil, wrapError("pdf", err)
	}

	layout := in.Layout
	if layout == nil {
		layout = DefaultLayout()
	}
	var footer *Footer
	if in.Footer != nil {
		f := *in.Footer
		f.Date, err = ResolveDate(f.Date, time.Now())
		if err != nil {
			return nil, wrapError("pdf", err)
		}
		footer = &f
	}

	data, err := c.rasterizer.Rasterize(ctx, pg.html, &PageOptions{
		Layout: layout,
		Footer: footer,
		Title:  pg.title,
	})
	if err != nil {
		return nil, wrapError("pdf", fmt.Errorf("%w: %w", ErrSerialization, err))
	}

	return &Result{
		Data:     data,
		Filename: SuggestFilename(pg.title, ".pdf"),
		HTML:     []byte(pg.html),
		Warnings: pg.warnings,
	}, nil
}

// Preview renders the element sequence of in as an HTML fragment, one node
// per element. It shows what the docx output will contain.
func (c *Converter) Preview(ctx context.Context, in Input) (out string, err error) {
	defer recoverInto("preview", &err)

	elems, _, err := c.elements(ctx, in)
	if err != nil {
		return "", wrapError("preview", err)
	}
	built, err := build.Build(ctx, elems, build.NewVisual(c.math), c.logger)
	if err != nil {
		return "", wrapError("preview", err)
	}
	out, err = build.Render(built.Items)
	if err != nil {
		return "", wrapError("preview", fmt.Errorf("%w: %w", ErrSerialization, err))
	}
	return out, nil
}

// Elements returns the parsed element sequence of in as JSON.
func (c *Converter) Elements(ctx context.Context, in Input) (data []byte, err error) {
	defer recoverInto("elements", &err)

	elems, _, err := c.elements(ctx, in)
	if err != nil {
		return nil, wrapError("elements", err)
	}
	data, err = document.MarshalElements(elems)
	if err != nil {
		return nil, wrapError("elements", fmt.Errorf("%w: %w", ErrSerialization, err))
	}
	return data, nil
}

// Close releases the rasterizer.
func (c *Converter) Close() error {
	if c.rasterizer != nil {
		return c.rasterizer.Close()
	}
	return nil
}

// elements runs the element path: protect, tokenize, parse. Formulas are
// restored and normalized per text run by the block parser. The int is the
// number of skipped tokens.
func (c *Converter) elements(ctx context.Context, in Input) ([]document.Element, int, error) {
	src, err := c.source(in)
	if err != nil {
		return nil, 0, err
	}

	protected, table := pipeline.ProtectFormulas(src)
	tokens, err := c.lexer.Lex(ctx, protected)
	if err != nil {
		return nil, 0, err
	}

	parser := block.NewParser(block.WithRestore(table.Restore), block.WithLogger(c.logger))
	elems, skipped := parser.ParseCounting(tokens)
	return elems, skipped, nil
}

// renderedPage is the output of the page path.
type renderedPage struct {
	html     string
	title    string
	warnings int
}

// page runs the page path: protect, Markdown to HTML, splice formulas,
// style, post-process.
func (c *Converter) page(ctx context.Context, in Input) (*renderedPage, error) {
	if err := in.Layout.Validate(); err != nil {
		return nil, err
	}
	if err := in.Footer.Validate(); err != nil {
		return nil, err
	}

	src, err := c.source(in)
	if err != nil {
		return nil, err
	}

	protected, table := pipeline.ProtectFormulas(src)
	md := c.preprocessor.PreprocessMarkdown(ctx, protected)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	htmlContent, err := c.htmlConverter.ToHTML(ctx, md)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHTMLConversion, err)
	}

	title := in.Title
	if title == "" {
		title = table.Restore(pipeline.FirstHeading(htmlContent))
	}
	if title == "" {
		title = fallbackTitle
	}

	htmlContent, failures := pipeline.RenderFormulas(htmlContent, table, &normalizingRenderer{r: c.math})
	for _, f := range failures {
		c.logger.Warn("formula rendered as literal text", "formula", f.Formula.Source(), "err", f.Err)
	}

	htmlContent = c.styleInjector.InjectStyles(ctx, htmlContent, buildPageBreaksCSS(), c.cfg.resolvedStyle, in.CSS)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	htmlContent, err = pipeline.PostProcess(ctx, htmlContent, pipeline.PostProcessOptions{
		Title:            title,
		BaseDir:          in.BaseDir,
		AvoidBreakInside: in.Layout.avoidBreakSelectors(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHTMLConversion, err)
	}

	return &renderedPage{html: htmlContent, title: title, warnings: len(failures)}, nil
}

// source validates in and returns its content as line-normalized
// Markdown. HTML input is converted to Markdown with formulas kept verbatim.
func (c *Converter) source(in Input) (string, error) {
	if strings.TrimSpace(in.Content) == "" {
		return "", ErrEmptyInput
	}
	typ, err := ParseInputType(string(in.Type))
	if err != nil {
		return "", err
	}

	content := pipeline.NormalizeLineEndings(in.Content)
	if typ != InputHTML {
		return content, nil
	}

	// The converter would escape TeX, so formulas travel as placeholders.
	protected, table := pipeline.ProtectText(content)
	for i := range table {
		table[i].Inner = html.UnescapeString(table[i].Inner)
	}
	md, err := htmltomarkdown.ConvertString(protected)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHTMLConversion, err)
	}
	return table.Restore(md), nil
}

// normalizingRenderer normalizes each formula body before rendering it.
type normalizingRenderer struct {
	r MathRenderer
}

func (n *normalizingRenderer) VisualMarkup(src string, display bool) (string, error) {
	return n.r.VisualMarkup(normalize.Formula(src), display)
}

// documentTitle picks the explicit title, else the first heading.
func documentTitle(title string, elems []document.Element) string {
	if title != "" {
		return title
	}
	for _, e := range elems {
		if h, ok := e.(document.Heading); ok {
			if t := strings.TrimSpace(document.PlainText(h.Content)); t != "" {
				return t
			}
		}
	}
	return fallbackTitle
}

// SuggestFilename turns a title into a file name with the given extension.
// Letters and digits are kept lowercase; every other run becomes one dash.
func SuggestFilename(title, ext string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			dash = false
			sb.WriteRune(r)
			continue
		}
		dash = true
	}

	slug := []rune(sb.String())
	if len(slug) > maxFilenameLength {
		slug = []rune(strings.TrimRight(string(slug[:maxFilenameLength]), "-"))
	}
	if len(slug) == 0 {
		return fallbackTitle + ext
	}
	return string(slug) + ext
}

// recoverInto turns a panic in an entry point into a ConversionError.
func recoverInto(op string, err *error) {
	if r := recover(); r != nil {
		*err = &ConversionError{Kind: KindUnknown, Op: op, Err: fmt.Errorf("internal error: %v", r)}
	}
}
