package main

import (
	"context"
	"errors"
	"strings"

	mathdoc "github.com/alnah/go-mathdoc"
	"github.com/alnah/go-mathdoc/internal/assets"
	"github.com/alnah/go-mathdoc/internal/config"
	"github.com/alnah/go-mathdoc/internal/hints"
)

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, mathdoc.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, mathdoc.ErrPageLoad):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(triedPaths(err))
	case errors.Is(err, mathdoc.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.StyleNames())
	case errors.Is(err, mathdoc.ErrEmptyInput):
		return hints.ForEmptyInput()
	case errors.Is(err, mathdoc.ErrInvalidSyntax), errors.Is(err, mathdoc.ErrUnexpectedChar):
		return hints.ForFormulaSyntax()
	default:
		return ""
	}
}

// triedPaths extracts the searched locations from a config lookup error
// ("... tried a.yaml, b.yaml").
func triedPaths(err error) []string {
	_, list, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(list, ", ")
}
