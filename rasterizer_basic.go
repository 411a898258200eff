package mathdoc

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-mathdoc/internal/texmath"
)

// Compile-time interface check
var _ Rasterizer = (*basicRasterizer)(nil)

// gofpdf page size names by layout size.
var basicPageSizes = map[string]string{
	PageSizeLetter: "Letter",
	PageSizeA4:     "A4",
	PageSizeLegal:  "Legal",
}

// Font sizes in points.
const (
	basicBodySize   = 11.0
	basicCodeSize   = 9.0
	basicFooterSize = 8.0
	mmPerInch       = 25.4
)

var basicHeadingSizes = [...]float64{18, 15, 13, 12, 11, 10}

// basicRasterizer prints HTML with gofpdf's core fonts, without a browser.
// Block structure is kept; CSS is ignored and formulas print as TeX source.
// Characters outside cp1252 are lost.
type basicRasterizer struct{}

func newBasicRasterizer() *basicRasterizer {
	return &basicRasterizer{}
}

// Close is a no-op.
func (b *basicRasterizer) Close() error { return nil }

// Rasterize parses the document and writes one PDF block per HTML block.
func (b *basicRasterizer) Rasterize(ctx context.Context, htmlContent string, opts *PageOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	layout := DefaultLayout()
	var footer *Footer
	title := ""
	if opts != nil {
		if opts.Layout != nil {
			layout = opts.Layout
		}
		footer = opts.Footer
		title = opts.Title
	}

	w := newBasicWriter(layout, footer, title)
	w.walk(ctx, findBody(root))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := w.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	return buf.Bytes(), nil
}

// basicWriter carries the gofpdf document through the tree walk.
type basicWriter struct {
	pdf  *gofpdf.Fpdf
	tr   func(string) string
	line float64 // body line height in mm
}

func newBasicWriter(layout *Layout, footer *Footer, title string) *basicWriter {
	orientation := "P"
	if strings.EqualFold(layout.Orientation, OrientationLandscape) {
		orientation = "L"
	}
	size, ok := basicPageSizes[strings.ToLower(layout.Size)]
	if !ok {
		size = "A4"
	}
	margin := layout.Margin
	if margin == 0 {
		margin = DefaultMargin
	}
	marginMM := margin * mmPerInch

	pdf := gofpdf.New(orientation, "mm", size, "")
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(true, marginMM)
	w := &basicWriter{
		pdf:  pdf,
		tr:   pdf.UnicodeTranslatorFromDescriptor(""),
		line: 5.5,
	}
	if title != "" {
		pdf.SetTitle(title, true)
	}
	pdf.SetCreator("go-mathdoc", true)

	if footer != nil {
		pdf.AliasNbPages("")
		pdf.SetFooterFunc(func() { w.footer(footer, marginMM) })
	}
	pdf.AddPage()
	return w
}

// footer draws the footer line on the current page.
func (w *basicWriter) footer(f *Footer, marginMM float64) {
	var parts []string
	if f.ShowPageNumber {
		parts = append(parts, strconv.Itoa(w.pdf.PageNo())+"/{nb}")
	}
	if f.Date != "" {
		parts = append(parts, f.Date)
	}
	if f.Text != "" {
		parts = append(parts, f.Text)
	}
	if len(parts) == 0 {
		return
	}
	align := "R"
	switch strings.ToLower(f.Position) {
	case "left":
		align = "L"
	case "center":
		align = "C"
	}
	w.pdf.SetY(-marginMM * 0.75)
	w.pdf.SetFont("Helvetica", "I", basicFooterSize)
	w.pdf.SetTextColor(150, 150, 150)
	w.pdf.CellFormat(0, 4, w.tr(strings.Join(parts, " - ")), "", 0, align, false, 0, "")
	w.pdf.SetTextColor(0, 0, 0)
}

// walk renders the block children of n.
func (w *basicWriter) walk(ctx context.Context, n *html.Node) {
	if n == nil {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if ctx.Err() != nil {
			return
		}
		w.block(ctx, c)
	}
}

// block renders one node at block level.
func (w *basicWriter) block(ctx context.Context, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if text := collapseSpace(n.Data); text != "" {
			w.paragraph(text, "")
		}
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level := int(n.Data[1] - '0')
		size := basicHeadingSizes[level-1]
		w.pdf.Ln(3)
		w.pdf.SetFont("Helvetica", "B", size)
		w.pdf.MultiCell(0, size*0.5, w.tr(inlineText(n)), "", "L", false)
		w.pdf.Ln(2)
	case atom.P:
		w.paragraph(inlineText(n), "")
	case atom.Ul, atom.Ol:
		w.list(n)
	case atom.Pre:
		w.code(textContent(n))
	case atom.Hr:
		w.pdf.Ln(2)
		y := w.pdf.GetY()
		pageW, _ := w.pdf.GetPageSize()
		left, _, right, _ := w.pdf.GetMargins()
		w.pdf.Line(left, y, pageW-right, y)
		w.pdf.Ln(4)
	case atom.Br:
		w.pdf.Ln(w.line)
	case atom.Table:
		w.table(n)
	case atom.Div:
		if hasClass(n, "math-display") || hasClass(n, "math-fallback") {
			w.paragraph(inlineText(n), "C")
			return
		}
		w.walk(ctx, n)
	case atom.Style, atom.Script, atom.Head, atom.Title:
	default:
		w.walk(ctx, n)
	}
}

// paragraph writes wrapped body text.
func (w *basicWriter) paragraph(text, align string) {
	if text == "" {
		return
	}
	if align == "" {
		align = "L"
	}
	w.pdf.SetFont("Helvetica", "", basicBodySize)
	w.pdf.MultiCell(0, w.line, w.tr(text), "", align, false)
	w.pdf.Ln(2)
}

// list writes one bullet or numbered line per item, indenting nested lists.
func (w *basicWriter) list(n *html.Node) {
	ordered := n.DataAtom == atom.Ol
	left, _, _, _ := w.pdf.GetMargins()
	depth := listDepth(n)
	i := 0
	for li := n.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.DataAtom != atom.Li {
			continue
		}
		i++
		marker := "• "
		if ordered {
			marker = strconv.Itoa(i) + ". "
		}
		w.pdf.SetFont("Helvetica", "", basicBodySize)
		w.pdf.SetX(left + float64(depth)*6)
		w.pdf.MultiCell(0, w.line, w.tr(marker+inlineText(li)), "", "L", false)
		for c := li.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.DataAtom == atom.Ul || c.DataAtom == atom.Ol) {
				w.list(c)
			}
		}
	}
	w.pdf.Ln(2)
}

// code writes a shaded monospace block.
func (w *basicWriter) code(text string) {
	w.pdf.SetFont("Courier", "", basicCodeSize)
	w.pdf.SetFillColor(245, 245, 245)
	w.pdf.MultiCell(0, 4.5, w.tr(strings.TrimRight(text, "\n")), "", "L", true)
	w.pdf.Ln(2)
}

// table writes each row as cells joined by " | ".
func (w *basicWriter) table(n *html.Node) {
	w.pdf.SetFont("Helvetica", "", basicBodySize-1)
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if c.DataAtom == atom.Tr {
				var cells []string
				for cell := c.FirstChild; cell != nil; cell = cell.NextSibling {
					if cell.Type == html.ElementNode && (cell.DataAtom == atom.Td || cell.DataAtom == atom.Th) {
						cells = append(cells, inlineText(cell))
					}
				}
				w.pdf.MultiCell(0, w.line, w.tr(strings.Join(cells, " | ")), "", "L", false)
				continue
			}
			visit(c)
		}
	}
	visit(n)
	w.pdf.Ln(2)
}

// inlineText flattens inline content. MathML prints its TeX annotation in
// the original delimiters; nested lists are skipped.
func inlineText(n *html.Node) string {
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			return
		case html.ElementNode:
		default:
			return
		}
		switch {
		case n.DataAtom == atom.Math:
			sb.WriteString(mathSource(n))
			return
		case n.DataAtom == atom.Ul || n.DataAtom == atom.Ol:
			return
		case n.DataAtom == atom.Br:
			sb.WriteByte(' ')
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		visit(c)
	}
	return collapseSpace(sb.String())
}

// mathSource returns the delimited TeX source of a math element.
func mathSource(n *html.Node) string {
	display := false
	for _, a := range n.Attr {
		if a.Key == "display" && a.Val == "block" {
			display = true
		}
	}
	src := ""
	var find func(*html.Node) bool
	find = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "annotation" {
			for _, a := range n.Attr {
				if a.Key == "encoding" && a.Val == texmath.TeXAnnotation {
					src = textContent(n)
					return true
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if find(c) {
				return true
			}
		}
		return false
	}
	if !find(n) {
		return textContent(n)
	}
	if display {
		return "$$" + src + "$$"
	}
	return "$" + src + "$"
}

// textContent concatenates all descendant text verbatim.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return sb.String()
}

// findBody returns the body element, or root when there is none.
func findBody(root *html.Node) *html.Node {
	var found *html.Node
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Body {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(root)
	if found == nil {
		return root
	}
	return found
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" && strings.Contains(" "+a.Val+" ", " "+class+" ") {
			return true
		}
	}
	return false
}

// listDepth counts list ancestors of a list element.
func listDepth(n *html.Node) int {
	depth := 0
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && (p.DataAtom == atom.Ul || p.DataAtom == atom.Ol) {
			depth++
		}
	}
	return depth
}

// collapseSpace trims and collapses whitespace runs to one space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
