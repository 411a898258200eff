// Package docx writes minimal Office Open XML word processing packages.
//
// A Document is a flat list of paragraph Blocks made of Runs. A run carries
// either text or a ready-made OMML fragment (m:oMath or m:oMathPara), which
// is embedded verbatim.
package docx

import "errors"

// Errors returned by Write. ErrMalformedMath and ErrUnexpectedElement are
// always wrapped together with ErrSerialize.
var (
	ErrSerialize         = errors.New("docx serialization failed")
	ErrMalformedMath     = errors.New("malformed math")
	ErrUnexpectedElement = errors.New("unexpected math element")
)

// Style names a paragraph style defined in styles.xml.
type Style string

// Paragraph styles.
const (
	StyleNormal     Style = "Normal"
	StyleTitle      Style = "Title"
	StyleHeading1   Style = "Heading1"
	StyleHeading2   Style = "Heading2"
	StyleHeading3   Style = "Heading3"
	StyleHeading4   Style = "Heading4"
	StyleCode       Style = "Code"
	StyleListBullet Style = "ListBullet"
)

// HeadingStyle returns the style for a heading level, clamped to 1..4.
func HeadingStyle(level int) Style {
	switch {
	case level <= 1:
		return StyleHeading1
	case level == 2:
		return StyleHeading2
	case level == 3:
		return StyleHeading3
	default:
		return StyleHeading4
	}
}

// Alignment is a paragraph justification.
type Alignment string

// Alignments. The empty value inherits from the style.
const (
	AlignDefault Alignment = ""
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
)

// Run is a stretch of uniformly formatted content.
type Run struct {
	Text      string
	Math      string // OMML markup; when set, Text and formatting are ignored
	Bold      bool
	Italic    bool
	Monospace bool
	Color     string // RRGGBB hex, empty for automatic
}

// Block is one paragraph.
type Block struct {
	Style Style
	Align Alignment
	Runs  []Run
}

// Document is the content and metadata of a package.
type Document struct {
	Title   string
	Creator string
	Blocks  []Block
}
