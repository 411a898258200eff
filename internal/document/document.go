// Package document defines the typed fragments and block elements shared by
// the parsing and building stages.
package document

import "strings"

// FragmentKind tags a Fragment as prose or math.
type FragmentKind int

// Fragment kinds.
const (
	Text FragmentKind = iota
	Formula
)

// String returns "text" or "formula".
func (k FragmentKind) String() string {
	if k == Formula {
		return "formula"
	}
	return "text"
}

// Fragment is a run of plain text or a formula body without its delimiters.
type Fragment struct {
	Kind    FragmentKind
	Text    string
	Display bool
}

// NewText returns a Text fragment.
func NewText(s string) Fragment { return Fragment{Kind: Text, Text: s} }

// NewFormula returns a Formula fragment.
func NewFormula(s string, display bool) Fragment {
	return Fragment{Kind: Formula, Text: s, Display: display}
}

// Literal returns the fragment as source text. Formulas are wrapped in $ or
// $$ depending on display mode.
func (f Fragment) Literal() string {
	if f.Kind != Formula {
		return f.Text
	}
	if f.Display {
		return "$$" + f.Text + "$$"
	}
	return "$" + f.Text + "$"
}

// PlainText joins fragments as source text using Separator between them.
func PlainText(frags []Fragment) string {
	var sb strings.Builder
	for i, f := range frags {
		if i > 0 {
			sb.WriteString(Separator(frags[i-1], f))
		}
		sb.WriteString(f.Literal())
	}
	return sb.String()
}

// Separator returns what goes between two adjacent fragments when they are
// laid out in a line: nothing before closing punctuation or after an
// opening bracket, a single space otherwise.
func Separator(prev, next Fragment) string {
	if next.Kind == Text && next.Text != "" && strings.IndexByte(".,;:!?)]}", next.Text[0]) >= 0 {
		return ""
	}
	if prev.Kind == Text && prev.Text != "" && strings.IndexByte("([{", prev.Text[len(prev.Text)-1]) >= 0 {
		return ""
	}
	return " "
}

// Element is one block of a document. The concrete types are Heading,
// Paragraph, ListItem, Code, Rule and EmptyLine.
type Element interface {
	// Kind returns a stable lowercase name for the element type.
	Kind() string
	element()
}

// Heading is a section title. Level ranges from 1 to 6.
type Heading struct {
	Level   int
	Content []Fragment
}

// Paragraph is a block of running text.
type Paragraph struct {
	Content []Fragment
}

// ListItem is one bullet. Depth is 0 for top level items; nested items are
// emitted as siblings carrying a larger depth.
type ListItem struct {
	Content []Fragment
	Depth   int
}

// Code is a verbatim code block.
type Code struct {
	Text     string
	Language string
}

// Rule is a thematic break.
type Rule struct{}

// EmptyLine is an explicit vertical gap.
type EmptyLine struct{}

func (Heading) Kind() string   { return "heading" }
func (Paragraph) Kind() string { return "paragraph" }
func (ListItem) Kind() string  { return "list_item" }
func (Code) Kind() string      { return "code" }
func (Rule) Kind() string      { return "rule" }
func (EmptyLine) Kind() string { return "empty_line" }

func (Heading) element()   {}
func (Paragraph) element() {}
func (ListItem) element()  {}
func (Code) element()      {}
func (Rule) element()      {}
func (EmptyLine) element() {}

// Content returns the fragments of e, or nil for elements without prose.
func Content(e Element) []Fragment {
	switch v := e.(type) {
	case Heading:
		return v.Content
	case Paragraph:
		return v.Content
	case ListItem:
		return v.Content
	default:
		return nil
	}
}
