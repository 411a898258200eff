package pipeline

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strconv"

	"github.com/alnah/go-mathdoc/internal/document"
)

// Class names on formula wrappers. Stylesheets and the page-break rules
// select on these.
const (
	ClassMathDisplay  = "math-display"
	ClassMathInline   = "math-inline"
	ClassMathFallback = "math-fallback"
)

// MathRenderer renders a formula source to browser markup.
type MathRenderer interface {
	VisualMarkup(src string, display bool) (string, error)
}

// FormulaFailure records a formula that fell back to its literal text.
type FormulaFailure struct {
	Formula ProtectedFormula
	Err     error
}

// lonePlaceholder matches a paragraph holding nothing but one placeholder.
var lonePlaceholder = regexp.MustCompile(`<p>` + FormulaStartPlaceholder + `\d+` + FormulaEndPlaceholder + `</p>`)

// RenderFormulas replaces formula placeholders in rendered HTML with math
// markup. A display formula alone in its paragraph becomes a block. A
// formula that fails to render is kept as escaped delimited text and
// reported in the returned failures.
func RenderFormulas(htmlContent string, table FormulaTable, r MathRenderer) (string, []FormulaFailure) {
	if len(table) == 0 {
		return htmlContent, nil
	}

	var failures []FormulaFailure
	render := func(f ProtectedFormula, block bool) string {
		if f.Literal != "" {
			return f.Literal
		}
		class := ClassMathInline
		if f.Display {
			class = ClassMathDisplay
		}
		tag := "span"
		if block {
			tag = "div"
		}
		markup, err := safeMarkup(r, f)
		if err != nil {
			failures = append(failures, FormulaFailure{Formula: f, Err: err})
			literal := document.NewFormula(f.Inner, f.Display).Literal()
			return "<" + tag + ` class="` + ClassMathFallback + `">` + html.EscapeString(literal) + "</" + tag + ">"
		}
		return "<" + tag + ` class="` + class + `">` + markup + "</" + tag + ">"
	}

	htmlContent = lonePlaceholder.ReplaceAllStringFunc(htmlContent, func(m string) string {
		digits := m[len("<p>"+FormulaStartPlaceholder) : len(m)-len(FormulaEndPlaceholder+"</p>")]
		idx, err := strconv.Atoi(digits)
		if err != nil || idx >= len(table) || !table[idx].Display {
			return m
		}
		return render(table[idx], true)
	})

	out := table.replace(htmlContent, func(f ProtectedFormula) string { return render(f, false) })
	return out, failures
}

// ErrRendererPanic marks a formula whose renderer panicked.
var ErrRendererPanic = errors.New("math renderer panicked")

// safeMarkup calls the renderer and turns a panic into an error so the
// formula falls back to its literal text.
func safeMarkup(r MathRenderer, f ProtectedFormula) (markup string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			markup, err = "", fmt.Errorf("%w: %v", ErrRendererPanic, rec)
		}
	}()
	return r.VisualMarkup(f.Inner, f.Display)
}
