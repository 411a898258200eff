// Package block turns a Markdown token tree into document elements.
//
// Every text-bearing token is flattened to plain text, normalized and split
// into fragments. A failure on one token is logged and only that token is
// skipped.
package block

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alnah/go-mathdoc/internal/document"
	"github.com/alnah/go-mathdoc/internal/extract"
	"github.com/alnah/go-mathdoc/internal/normalize"
	"github.com/alnah/go-mathdoc/internal/token"
)

// ErrElementBuild indicates one token could not be turned into an element.
var ErrElementBuild = errors.New("element build failed")

// cellSeparator joins table cells flattened into one paragraph.
const cellSeparator = " | "

// Parser converts tokens into elements.
type Parser struct {
	extractor *extract.Extractor
	restore   func(string) string
	normalize func(string) string
	logger    *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithExtractor sets the fragment extractor.
func WithExtractor(e *extract.Extractor) Option {
	return func(p *Parser) {
		if e != nil {
			p.extractor = e
		}
	}
}

// WithRestore sets a function applied to flattened text before
// normalization, typically one that puts protected formulas back.
func WithRestore(fn func(string) string) Option {
	return func(p *Parser) {
		if fn != nil {
			p.restore = fn
		}
	}
}

// WithLogger sets the logger used to report skipped tokens.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewParser returns a Parser with the default extractor.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		extractor: extract.New(),
		restore:   func(s string) string { return s },
		normalize: normalize.Normalize,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse walks tokens in order and returns the resulting elements.
func (p *Parser) Parse(tokens []*token.Token) []document.Element {
	elems, _ := p.ParseCounting(tokens)
	return elems
}

// ParseCounting is Parse that also reports how many tokens were skipped.
func (p *Parser) ParseCounting(tokens []*token.Token) ([]document.Element, int) {
	var (
		out     []document.Element
		skipped int
	)
	for i, tok := range tokens {
		elems, err := p.safeToken(tok)
		if err != nil {
			skipped++
			p.logger.Warn("skipping token", "index", i, "err", err)
			continue
		}
		out = append(out, elems...)
	}
	return out, skipped
}

// safeToken converts one token, turning a panic into ErrElementBuild.
func (p *Parser) safeToken(tok *token.Token) (elems []document.Element, err error) {
	defer func() {
		if r := recover(); r != nil {
			elems = nil
			err = fmt.Errorf("%w: %v", ErrElementBuild, r)
		}
	}()
	if tok == nil {
		return nil, fmt.Errorf("%w: nil token", ErrElementBuild)
	}
	return p.token(tok), nil
}

func (p *Parser) token(tok *token.Token) []document.Element {
	switch tok.Kind {
	case token.Heading:
		return []document.Element{document.Heading{Level: tok.Depth, Content: p.fragments(tok.Inline)}}
	case token.Paragraph, token.Text:
		return p.paragraph(tok.Inline)
	case token.Code:
		return []document.Element{document.Code{Text: p.restore(tok.Text), Language: tok.Lang}}
	case token.List:
		return p.list(tok, 0)
	case token.HR:
		return []document.Element{document.Rule{}}
	case token.Space:
		return []document.Element{document.EmptyLine{}}
	}

	if len(tok.Inline) > 0 {
		return p.paragraph(tok.Inline)
	}
	if isRow(tok) {
		return p.row(tok)
	}
	var out []document.Element
	for _, child := range tok.Blocks {
		out = append(out, p.token(child)...)
	}
	return out
}

func (p *Parser) paragraph(inline []*token.Token) []document.Element {
	frags := p.fragments(inline)
	if len(frags) == 0 {
		return nil
	}
	return []document.Element{document.Paragraph{Content: frags}}
}

// list emits one ListItem per item. Nested lists become sibling items with
// a larger depth.
func (p *Parser) list(tok *token.Token, depth int) []document.Element {
	var out []document.Element
	for _, item := range tok.Blocks {
		var (
			text   []string
			nested []document.Element
		)
		for _, child := range item.Blocks {
			switch {
			case child.Kind == token.List:
				nested = append(nested, p.list(child, depth+1)...)
			case len(child.Inline) > 0:
				text = append(text, Flatten(child.Inline))
			case child.Kind == token.Code:
				nested = append(nested, p.token(child)...)
			}
		}
		joined := strings.TrimSpace(strings.Join(text, " "))
		if joined != "" || len(nested) == 0 {
			out = append(out, document.ListItem{Content: p.extract(joined), Depth: depth})
		}
		out = append(out, nested...)
	}
	return out
}

// isRow reports whether every child is an inline-only container, as for a
// table row made of cells.
func isRow(tok *token.Token) bool {
	if len(tok.Blocks) == 0 {
		return false
	}
	for _, c := range tok.Blocks {
		if c.Kind != token.Other || len(c.Blocks) > 0 {
			return false
		}
	}
	return true
}

func (p *Parser) row(tok *token.Token) []document.Element {
	cells := make([]string, len(tok.Blocks))
	for i, c := range tok.Blocks {
		cells[i] = strings.TrimSpace(Flatten(c.Inline))
	}
	frags := p.extract(strings.Join(cells, cellSeparator))
	if len(frags) == 0 {
		return nil
	}
	return []document.Element{document.Paragraph{Content: frags}}
}

func (p *Parser) fragments(inline []*token.Token) []document.Fragment {
	return p.extract(Flatten(inline))
}

func (p *Parser) extract(text string) []document.Fragment {
	return p.extractor.Extract(p.normalize(p.restore(text)))
}

// Flatten concatenates the plain text of inline tokens. Emphasis and links
// keep only their nested text, images contribute their alt text and line
// breaks a single space.
func Flatten(inline []*token.Token) string {
	var sb strings.Builder
	for _, t := range inline {
		sb.WriteString(flattenOne(t))
	}
	return sb.String()
}

func flattenOne(t *token.Token) string {
	if t == nil {
		return ""
	}
	switch t.Kind {
	case token.Strong, token.Em, token.Link:
		return Flatten(t.Inline)
	case token.Image:
		return t.Text
	case token.Br:
		return " "
	case token.Text, token.Escape, token.HTML, token.CodeSpan:
		return t.Text
	}
	if len(t.Inline) > 0 {
		return Flatten(t.Inline)
	}
	return t.Text
}
