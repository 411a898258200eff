// Package build turns document elements into output-format structures.
//
// Build drives a Strategy over the element list in order. A formula that
// cannot be rendered degrades to its literal text and is logged; an element
// that fails outright is dropped and logged. Neither stops the walk.
package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/alnah/go-mathdoc/internal/document"
)

// Sentinel errors reported through Output counters and logs.
var (
	ErrFormulaRender = errors.New("formula rendering failed")
	ErrElementBuild  = errors.New("element build failed")
	ErrRendererPanic = errors.New("math renderer panicked")
)

// MathRenderer renders formula sources. Implementations must be safe for
// concurrent use.
type MathRenderer interface {
	VisualMarkup(src string, display bool) (string, error)
	NativeMarkup(src string, display bool) (string, error)
}

// FormulaFailure is a formula that fell back to its literal text.
type FormulaFailure struct {
	Fragment document.Fragment
	Err      error
}

// Strategy converts single elements to items of type T.
type Strategy[T any] interface {
	// Name identifies the strategy in logs.
	Name() string
	// Element converts one element. Formula failures are reported, not
	// returned as errors.
	Element(e document.Element) ([]T, []FormulaFailure, error)
}

// Output is the result of a Build.
type Output[T any] struct {
	Items           []T
	FormulaFailures int
	ElementFailures int
}

// Warnings returns the number of degradations.
func (o *Output[T]) Warnings() int {
	return o.FormulaFailures + o.ElementFailures
}

// Build runs s over elems in order. It only fails when ctx is done.
func Build[T any](ctx context.Context, elems []document.Element, s Strategy[T], logger *slog.Logger) (*Output[T], error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	out := &Output[T]{}
	for i, e := range elems {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		items, failures, err := safeElement(s, e)
		for _, f := range failures {
			out.FormulaFailures++
			logger.Warn("formula rendered as literal text",
				"strategy", s.Name(),
				"display", f.Fragment.Display,
				"formula", f.Fragment.Text,
				"err", f.Err)
		}
		if err != nil {
			out.ElementFailures++
			logger.Warn("element dropped",
				"strategy", s.Name(),
				"index", i,
				"kind", kindOf(e),
				"err", err)
			continue
		}
		out.Items = append(out.Items, items...)
	}
	return out, nil
}

func safeElement[T any](s Strategy[T], e document.Element) (items []T, failures []FormulaFailure, err error) {
	defer func() {
		if r := recover(); r != nil {
			items, failures = nil, nil
			err = fmt.Errorf("%w: %v", ErrElementBuild, r)
		}
	}()
	if e == nil {
		return nil, nil, fmt.Errorf("%w: nil element", ErrElementBuild)
	}
	return s.Element(e)
}

// safeRender calls render and turns a panic into an error, so only the
// formula being rendered degrades.
func safeRender(render func(string, bool) (string, error), src string, display bool) (markup string, err error) {
	defer func() {
		if r := recover(); r != nil {
			markup, err = "", fmt.Errorf("%w: %v", ErrRendererPanic, r)
		}
	}()
	return render(src, display)
}

func kindOf(e document.Element) string {
	if e == nil {
		return "nil"
	}
	return e.Kind()
}
