package main

import (
	"errors"
	"os"

	mathdoc "github.com/alnah/go-mathdoc"
	"github.com/alnah/go-mathdoc/internal/config"
	"github.com/alnah/go-mathdoc/internal/dateutil"
)

// Exit codes for the mathdoc CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// ErrUsage marks command-line syntax errors reported by cobra.
var ErrUsage = errors.New("invalid usage")

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, mathdoc.ErrBrowserConnect) ||
		errors.Is(err, mathdoc.ErrPageCreate) ||
		errors.Is(err, mathdoc.ErrPageLoad) ||
		errors.Is(err, mathdoc.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoFiles) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, mathdoc.ErrEmptyInput) ||
		errors.Is(err, mathdoc.ErrInvalidInput) ||
		errors.Is(err, mathdoc.ErrInvalidPageSize) ||
		errors.Is(err, mathdoc.ErrInvalidOrientation) ||
		errors.Is(err, mathdoc.ErrInvalidMargin) ||
		errors.Is(err, mathdoc.ErrInvalidScale) ||
		errors.Is(err, mathdoc.ErrInvalidFooterPosition) ||
		errors.Is(err, mathdoc.ErrStyleNotFound) ||
		errors.Is(err, mathdoc.ErrInvalidAssetPath) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidFormat) {
		return ExitUsage
	}

	return ExitGeneral
}
