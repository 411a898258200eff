package mathdoc

import (
	"fmt"
	"strings"
)

// InputType tells the converter how to read Input.Content.
type InputType string

// Input types. Latex and plain text go through the same block parser as
// Markdown; HTML is converted to Markdown first.
const (
	InputMarkdown InputType = "markdown"
	InputLatex    InputType = "latex"
	InputPlain    InputType = "plain"
	InputHTML     InputType = "html"
)

// ParseInputType parses a case-insensitive input type name.
// The empty string means Markdown.
func ParseInputType(s string) (InputType, error) {
	switch t := InputType(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return InputMarkdown, nil
	case InputMarkdown, InputLatex, InputPlain, InputHTML:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q (must be markdown, latex, plain, or html)", ErrInvalidInput, s)
	}
}

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// Scale bounds accepted by Chrome's print API.
const (
	MinScale     = 0.1
	MaxScale     = 2.0
	DefaultScale = 1.0
)

// DefaultAvoidBreakInside lists the selectors kept on one page when
// Layout.AvoidBreakInside is empty.
var DefaultAvoidBreakInside = []string{".math-display", "h1", "h2", "h3", "h4", "h5", "h6", "pre", "table"}

// Layout configures paginated output.
type Layout struct {
	Size             string   // "letter", "a4", "legal"
	Orientation      string   // "portrait", "landscape"
	Margin           float64  // inches, applied to all sides
	Scale            float64  // 0 means DefaultScale
	AvoidBreakInside []string // CSS selectors; nil means DefaultAvoidBreakInside
}

// DefaultLayout returns layout settings with default values.
func DefaultLayout() *Layout {
	return &Layout{
		Size:        PageSizeA4,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
		Scale:       DefaultScale,
	}
}

// Validate checks that layout settings are valid.
// Returns nil if l is nil (nil means use defaults).
func (l *Layout) Validate() error {
	if l == nil {
		return nil
	}

	if !isValidPageSize(l.Size) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, l.Size)
	}

	if !isValidOrientation(l.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, l.Orientation)
	}

	if l.Margin < MinMargin || l.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, l.Margin, MinMargin, MaxMargin)
	}

	if l.Scale != 0 && (l.Scale < MinScale || l.Scale > MaxScale) {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidScale, l.Scale, MinScale, MaxScale)
	}

	return nil
}

// avoidBreakSelectors returns the effective page-break avoidance selectors.
func (l *Layout) avoidBreakSelectors() []string {
	if l == nil || l.AvoidBreakInside == nil {
		return DefaultAvoidBreakInside
	}
	return l.AvoidBreakInside
}

// isValidPageSize checks if size is a known page size (case-insensitive).
func isValidPageSize(size string) bool {
	switch strings.ToLower(size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
		return true
	}
	return false
}

// isValidOrientation checks if orientation is valid (case-insensitive).
func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// Footer configures the PDF footer.
type Footer struct {
	Position       string // "left", "center", "right" (default: "right")
	ShowPageNumber bool
	Date           string // literal, or "auto" / "auto:FORMAT" (see ResolveDate)
	Text           string
}

// Validate checks that footer settings are valid.
// Returns nil if f is nil (nil means no footer).
func (f *Footer) Validate() error {
	if f == nil {
		return nil
	}
	switch strings.ToLower(f.Position) {
	case "", "left", "center", "right":
		return nil
	default:
		return fmt.Errorf("%w: %q (must be left, center, or right)", ErrInvalidFooterPosition, f.Position)
	}
}

// Input contains conversion parameters.
type Input struct {
	Content string    // Document source (required)
	Type    InputType // Empty means InputMarkdown
	Title   string    // Document title; defaults to the first heading
	CSS     string    // Extra CSS appended after the converter style (page outputs)
	BaseDir string    // Directory relative image and link paths resolve against
	Layout  *Layout   // Page layout (PDF), nil = defaults
	Footer  *Footer   // PDF footer, nil = none
}

// Result is the artifact of one conversion.
type Result struct {
	Data     []byte // docx, pdf or html bytes
	Filename string // suggested file name, e.g. "calculus.pdf"
	HTML     []byte // intermediate HTML for page outputs, nil for docx
	Warnings int    // formulas kept as literal text plus dropped elements
}
