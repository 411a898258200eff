package build

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-mathdoc/internal/document"
)

// Class names used on visual nodes.
const (
	ClassMathDisplay  = "math-display"
	ClassMathInline   = "math-inline"
	ClassMathFallback = "math-fallback"
)

// Visual builds HTML nodes with MathML math.
type Visual struct {
	renderer MathRenderer
}

var _ Strategy[*html.Node] = (*Visual)(nil)

// NewVisual returns a Visual strategy.
func NewVisual(r MathRenderer) *Visual {
	return &Visual{renderer: r}
}

// Name implements Strategy.
func (v *Visual) Name() string { return "visual" }

// Element implements Strategy.
func (v *Visual) Element(e document.Element) ([]*html.Node, []FormulaFailure, error) {
	switch el := e.(type) {
	case document.Heading:
		level := min(max(el.Level, 1), 6)
		h := newElement(headingAtoms[level-1])
		failures, err := v.fill(h, el.Content)
		return []*html.Node{h}, failures, err
	case document.Paragraph:
		p := newElement(atom.P)
		failures, err := v.fill(p, el.Content)
		return []*html.Node{p}, failures, err
	case document.ListItem:
		ul := newElement(atom.Ul)
		if el.Depth > 0 {
			ul.Attr = append(ul.Attr, html.Attribute{Key: "data-depth", Val: strconv.Itoa(el.Depth)})
		}
		li := newElement(atom.Li)
		ul.AppendChild(li)
		failures, err := v.fill(li, el.Content)
		return []*html.Node{ul}, failures, err
	case document.Code:
		pre := newElement(atom.Pre)
		code := newElement(atom.Code)
		if el.Language != "" {
			code.Attr = append(code.Attr, html.Attribute{Key: "class", Val: "language-" + el.Language})
		}
		code.AppendChild(newText(el.Text))
		pre.AppendChild(code)
		return []*html.Node{pre}, nil, nil
	case document.Rule:
		return []*html.Node{newElement(atom.Hr)}, nil, nil
	case document.EmptyLine:
		return []*html.Node{newElement(atom.Br)}, nil, nil
	}
	return nil, nil, fmt.Errorf("%w: unsupported element %T", ErrElementBuild, e)
}

var headingAtoms = [6]atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

// fill appends the fragments of a block to parent.
func (v *Visual) fill(parent *html.Node, frags []document.Fragment) ([]FormulaFailure, error) {
	var failures []FormulaFailure
	for i, f := range frags {
		if i > 0 {
			if sep := document.Separator(frags[i-1], f); sep != "" {
				parent.AppendChild(newText(sep))
			}
		}
		if f.Kind != document.Formula {
			parent.AppendChild(newText(f.Text))
			continue
		}
		wrapper, err := v.formula(f)
		if err != nil {
			failures = append(failures, FormulaFailure{Fragment: f, Err: err})
			span := newElement(atom.Span, html.Attribute{Key: "class", Val: ClassMathFallback})
			span.AppendChild(newText(f.Literal()))
			parent.AppendChild(span)
			continue
		}
		parent.AppendChild(wrapper)
	}
	return failures, nil
}

func (v *Visual) formula(f document.Fragment) (*html.Node, error) {
	markup, err := safeRender(v.renderer.VisualMarkup, f.Text, f.Display)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormulaRender, err)
	}
	class := ClassMathInline
	if f.Display {
		class = ClassMathDisplay
	}
	span := newElement(atom.Span, html.Attribute{Key: "class", Val: class})
	nodes, err := html.ParseFragment(strings.NewReader(markup), span)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormulaRender, err)
	}
	for _, n := range nodes {
		span.AppendChild(n)
	}
	return span, nil
}

// Render serializes nodes as an HTML fragment.
func Render(nodes []*html.Node) (string, error) {
	var sb strings.Builder
	for _, n := range nodes {
		if err := html.Render(&sb, n); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

func newElement(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func newText(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
