package mathdoc

import (
	"context"
	"fmt"
	"html"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mathdoc/internal/fileutil"
	"github.com/alnah/go-mathdoc/internal/process"
)

// Rasterizer turns a complete HTML document into paginated PDF bytes.
type Rasterizer interface {
	Rasterize(ctx context.Context, htmlContent string, opts *PageOptions) ([]byte, error)
	Close() error
}

// PageOptions carries the per-conversion page settings to a Rasterizer.
type PageOptions struct {
	Layout *Layout // never nil when passed by Converter
	Footer *Footer // nil = no footer; Date already resolved
	Title  string
}

// pageRenderer renders a local HTML file to PDF. It lets tests replace the
// browser.
type pageRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts *PageOptions) ([]byte, error)
	Close() error
}

// Compile-time interface checks
var (
	_ Rasterizer   = (*rodRasterizer)(nil)
	_ pageRenderer = (*rodRenderer)(nil)
)

// Paper dimensions in inches, portrait.
var paperSizes = map[string][2]float64{
	PageSizeLetter: {8.5, 11},
	PageSizeA4:     {8.27, 11.69},
	PageSizeLegal:  {8.5, 14},
}

// marginBottomFooterExtra is added to the bottom margin when a footer is shown.
const marginBottomFooterExtra = 0.25

// rodRenderer implements pageRenderer using go-rod.
// Rod downloads Chromium on first run if no browser is found.
type rodRenderer struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
}

// newRodRenderer creates a rodRenderer with the given page load timeout.
func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		r.kill(l)
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.browser = browser
	r.launcher = l
	return nil
}

// kill terminates the launched browser and its child processes.
func (r *rodRenderer) kill(l *launcher.Launcher) {
	if l == nil {
		return
	}
	if pid := l.PID(); pid > 0 {
		process.KillProcessGroup(pid)
	}
	l.Kill()
}

// Close releases browser resources.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	r.kill(r.launcher)
	r.launcher = nil
	return err
}

// RenderFromFile opens a local HTML file in headless Chrome and prints it.
// Browser failures are returned as errors, never panics.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts *PageOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	// Deadline from context wins over the configured timeout
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Context(ctx).Timeout(timeout).WaitLoad(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	reader, err := page.Context(ctx).PDF(buildPDFOptions(opts))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	return pdfBuf, nil
}

// paperDimensions returns width and height in inches for a layout.
func paperDimensions(l *Layout) (width, height float64) {
	dims, ok := paperSizes[strings.ToLower(l.Size)]
	if !ok {
		dims = paperSizes[PageSizeA4]
	}
	width, height = dims[0], dims[1]
	if strings.EqualFold(l.Orientation, OrientationLandscape) {
		width, height = height, width
	}
	return width, height
}

// buildPDFOptions constructs proto.PagePrintToPDF from the page options.
func buildPDFOptions(opts *PageOptions) *proto.PagePrintToPDF {
	layout := DefaultLayout()
	var footer *Footer
	if opts != nil {
		if opts.Layout != nil {
			layout = opts.Layout
		}
		footer = opts.Footer
	}

	width, height := paperDimensions(layout)
	margin := layout.Margin
	if margin == 0 {
		margin = DefaultMargin
	}
	scale := layout.Scale
	if scale == 0 {
		scale = DefaultScale
	}
	marginBottom := margin
	if footer != nil {
		marginBottom += marginBottomFooterExtra
	}

	pdfOpts := &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(width),
		PaperHeight:     floatPtr(height),
		MarginTop:       floatPtr(margin),
		MarginBottom:    floatPtr(marginBottom),
		MarginLeft:      floatPtr(margin),
		MarginRight:     floatPtr(margin),
		Scale:           floatPtr(scale),
		PrintBackground: true,
	}

	if footer != nil {
		pdfOpts.DisplayHeaderFooter = true
		pdfOpts.HeaderTemplate = "<span></span>" // Empty header
		pdfOpts.FooterTemplate = buildFooterTemplate(footer)
	}

	return pdfOpts
}

// buildFooterTemplate generates an HTML template for Chrome's native footer.
// Page numbers use Chrome's pageNumber and totalPages classes.
func buildFooterTemplate(f *Footer) string {
	if f == nil {
		return "<span></span>"
	}

	var parts []string

	if f.ShowPageNumber {
		parts = append(parts, `<span class="pageNumber"></span>/<span class="totalPages"></span>`)
	}
	if f.Date != "" {
		parts = append(parts, html.EscapeString(f.Date))
	}
	if f.Text != "" {
		parts = append(parts, html.EscapeString(f.Text))
	}

	if len(parts) == 0 {
		return "<span></span>"
	}

	content := strings.Join(parts, " - ")

	textAlign := "right"
	switch strings.ToLower(f.Position) {
	case "left":
		textAlign = "left"
	case "center":
		textAlign = "center"
	}

	return fmt.Sprintf(`<div style="font-size: 10px; font-family: %s; color: #aaa; width: 100%%; text-align: %s; padding: 0 0.5in;">%s</div>`, defaultFontFamily, textAlign, content)
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// rodRasterizer rasterizes HTML with headless Chrome via go-rod.
type rodRasterizer struct {
	renderer pageRenderer
}

// newRodRasterizer creates a rodRasterizer with the production renderer.
func newRodRasterizer(timeout time.Duration) *rodRasterizer {
	return &rodRasterizer{renderer: newRodRenderer(timeout)}
}

// Rasterize writes the HTML to a temporary file so relative file:// assets
// resolve, then prints it.
func (c *rodRasterizer) Rasterize(ctx context.Context, htmlContent string, opts *PageOptions) ([]byte, error) {
	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return c.renderer.RenderFromFile(ctx, tmpPath, opts)
}

// Close releases browser resources.
func (c *rodRasterizer) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}
