package token

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// ErrLex indicates the Markdown source could not be tokenized.
var ErrLex = errors.New("markdown tokenization failed")

// minSpaceBlankLines is the number of blank lines between two blocks that
// produces an explicit Space token.
const minSpaceBlankLines = 2

// Lexer tokenizes Markdown with Goldmark's CommonMark parser plus GFM.
type Lexer struct {
	md goldmark.Markdown
}

// NewLexer creates a Lexer.
func NewLexer() *Lexer {
	return &Lexer{md: goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote),
	)}
}

// Lex parses src into top-level block tokens.
// Supports context cancellation via goroutine + select since Goldmark does
// not accept a context.
func (l *Lexer) Lex(ctx context.Context, src string) ([]*Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		tokens []*Token
		err    error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: %v", ErrLex, r)}
			}
		}()
		source := []byte(src)
		doc := l.md.Parser().Parse(text.NewReader(source))
		w := &walker{source: source}
		done <- result{tokens: w.blocks(doc, true)}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.tokens, r.err
	}
}

type walker struct {
	source []byte
}

// blocks converts the block children of parent. Space tokens are only
// synthesized between top-level blocks.
func (w *walker) blocks(parent ast.Node, top bool) []*Token {
	var out []*Token
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if top && len(out) > 0 {
			if start := w.firstStart(n); start >= 0 && w.blankLinesBefore(start) >= minSpaceBlankLines {
				out = append(out, &Token{Kind: Space})
			}
		}
		if tok := w.block(n); tok != nil {
			out = append(out, tok)
		}
	}
	return out
}

func (w *walker) block(n ast.Node) *Token {
	switch v := n.(type) {
	case *ast.Heading:
		return &Token{Kind: Heading, Depth: v.Level, Inline: w.inlines(v)}
	case *ast.Paragraph:
		return &Token{Kind: Paragraph, Inline: w.inlines(v)}
	case *ast.TextBlock:
		return &Token{Kind: Text, Inline: w.inlines(v)}
	case *ast.FencedCodeBlock:
		return &Token{Kind: Code, Text: w.lines(v), Lang: string(v.Language(w.source))}
	case *ast.CodeBlock:
		return &Token{Kind: Code, Text: w.lines(v)}
	case *ast.List:
		return &Token{Kind: List, Blocks: w.blocks(v, false)}
	case *ast.ListItem:
		return &Token{Kind: ListItem, Blocks: w.blocks(v, false)}
	case *ast.ThematicBreak:
		return &Token{Kind: HR}
	case *ast.HTMLBlock:
		raw := w.lines(v)
		if v.HasClosure() {
			raw += string(v.ClosureLine.Value(w.source))
		}
		return &Token{Kind: Other, Inline: []*Token{{Kind: HTML, Text: strings.TrimSpace(raw)}}}
	}

	// Tables, quotes, footnote lists and other containers.
	if n.Type() == ast.TypeInline || hasInlineChildren(n) {
		return &Token{Kind: Other, Inline: w.inlines(n)}
	}
	if n.HasChildren() {
		return &Token{Kind: Other, Blocks: w.blocks(n, false)}
	}
	return &Token{Kind: Other}
}

func hasInlineChildren(n ast.Node) bool {
	c := n.FirstChild()
	return c != nil && c.Type() == ast.TypeInline
}

// inlines converts the inline children of parent.
func (w *walker) inlines(parent ast.Node) []*Token {
	var out []*Token
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		out = append(out, w.inline(n)...)
	}
	return out
}

func (w *walker) inline(n ast.Node) []*Token {
	switch v := n.(type) {
	case *ast.Text:
		out := w.text(v.Segment.Value(w.source))
		if v.HardLineBreak() {
			out = append(out, &Token{Kind: Br})
		} else if v.SoftLineBreak() {
			out = append(out, &Token{Kind: Text, Text: " "})
		}
		return out
	case *ast.String:
		return []*Token{{Kind: Text, Text: string(v.Value)}}
	case *ast.Emphasis:
		kind := Em
		if v.Level >= 2 {
			kind = Strong
		}
		return []*Token{{Kind: kind, Inline: w.inlines(v)}}
	case *ast.Link:
		return []*Token{{Kind: Link, Inline: w.inlines(v)}}
	case *ast.AutoLink:
		return []*Token{{Kind: Link, Inline: []*Token{{Kind: Text, Text: string(v.Label(w.source))}}}}
	case *ast.Image:
		return []*Token{{Kind: Image, Text: w.plain(v)}}
	case *ast.CodeSpan:
		return []*Token{{Kind: CodeSpan, Text: w.plain(v)}}
	case *ast.RawHTML:
		var sb strings.Builder
		for i := 0; i < v.Segments.Len(); i++ {
			seg := v.Segments.At(i)
			sb.Write(seg.Value(w.source))
		}
		return []*Token{{Kind: HTML, Text: sb.String()}}
	}
	if n.HasChildren() {
		return []*Token{{Kind: Other, Inline: w.inlines(n)}}
	}
	return nil
}

// text splits a raw text segment into text and escape tokens.
func (w *walker) text(raw []byte) []*Token {
	var out []*Token
	start := 0
	for i := 0; i < len(raw)-1; i++ {
		if raw[i] == '\\' && util.IsPunct(raw[i+1]) {
			if i > start {
				out = append(out, &Token{Kind: Text, Text: resolve(raw[start:i])})
			}
			out = append(out, &Token{Kind: Escape, Text: string(raw[i+1])})
			i++
			start = i + 1
		}
	}
	if start < len(raw) {
		out = append(out, &Token{Kind: Text, Text: resolve(raw[start:])})
	}
	return out
}

func resolve(b []byte) string {
	return string(util.ResolveNumericReferences(util.ResolveEntityNames(b)))
}

// plain concatenates the text of every descendant of n.
func (w *walker) plain(n ast.Node) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := c.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(w.source))
		case *ast.String:
			sb.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// lines joins the raw source lines of a block node.
func (w *walker) lines(n ast.Node) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(w.source))
	}
	return sb.String()
}

// blankLinesBefore counts the consecutive whitespace-only lines directly
// above the line holding offset start.
func (w *walker) blankLinesBefore(start int) int {
	if start > len(w.source) {
		return 0
	}
	for start > 0 && w.source[start-1] != '\n' {
		start--
	}
	count := 0
	end := start - 1 // newline terminating the previous line
	for end > 0 {
		lineStart := bytes.LastIndexByte(w.source[:end], '\n') + 1
		if len(bytes.TrimSpace(w.source[lineStart:end])) > 0 {
			break
		}
		count++
		end = lineStart - 1
	}
	return count
}

// firstStart returns the offset of the first source line of n or one of
// its descendants, or -1. Fenced blocks start at their opening fence.
func (w *walker) firstStart(n ast.Node) int {
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		start := n.Lines().At(0).Start
		if _, fenced := n.(*ast.FencedCodeBlock); fenced {
			start = bytes.LastIndexByte(w.source[:start], '\n')
		}
		return start
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Type() != ast.TypeBlock {
			continue
		}
		if s := w.firstStart(c); s >= 0 {
			return s
		}
	}
	return -1
}
