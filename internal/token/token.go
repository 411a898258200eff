// Package token converts Markdown into a small generic block and inline
// token tree.
//
// The tree is produced from a Goldmark AST. Block tokens carry either
// inline children (headings, paragraphs) or block children (lists, list
// items, quotes); code tokens carry their verbatim text.
package token

// Kind tags a token.
type Kind string

// Block token kinds.
const (
	Heading   Kind = "heading"
	Paragraph Kind = "paragraph"
	Code      Kind = "code"
	List      Kind = "list"
	ListItem  Kind = "list_item"
	HR        Kind = "hr"
	Space     Kind = "space"
	Text      Kind = "text"
	Other     Kind = "other"
)

// Inline token kinds. Text is shared with block tokens.
const (
	Strong   Kind = "strong"
	Em       Kind = "em"
	Escape   Kind = "escape"
	HTML     Kind = "html"
	Link     Kind = "link"
	Image    Kind = "image"
	Br       Kind = "br"
	CodeSpan Kind = "codespan"
)

// Token is one node of the tree.
type Token struct {
	Kind Kind
	// Depth is the heading level for headings.
	Depth int
	// Text holds literal content for text, code, escape, html and codespan
	// tokens, and the alt text for images.
	Text   string
	Lang   string
	Inline []*Token
	Blocks []*Token
}
