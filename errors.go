package mathdoc

import (
	"errors"
	"fmt"

	"github.com/alnah/go-mathdoc/internal/build"
	"github.com/alnah/go-mathdoc/internal/docx"
	"github.com/alnah/go-mathdoc/internal/texmath"
)

// Sentinel errors for library operations.
var (
	ErrEmptyInput     = errors.New("input content cannot be empty")
	ErrInvalidInput   = errors.New("invalid input type")
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrSerialization  = errors.New("document serialization failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPoolClosed     = errors.New("converter pool is closed")

	// Degradations. Both are logged and counted, never returned from a
	// conversion.
	ErrFormulaRender = build.ErrFormulaRender
	ErrElementBuild  = build.ErrElementBuild

	// Formula syntax errors surfaced by the math renderer.
	ErrInvalidSyntax  = texmath.ErrSyntax
	ErrUnexpectedChar = texmath.ErrUnexpectedChar

	// Layout validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")
	ErrInvalidScale       = errors.New("invalid scale")

	// Footer validation errors.
	ErrInvalidFooterPosition = errors.New("invalid footer position")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)

// FailureKind classifies a failed conversion.
type FailureKind string

// Failure kinds.
const (
	KindEmptyInput          FailureKind = "empty-input"
	KindInvalidSyntax       FailureKind = "invalid-syntax"
	KindUnexpectedCharacter FailureKind = "unexpected-character"
	KindUnknown             FailureKind = "unknown"
)

// Classify maps an error to its FailureKind.
func Classify(err error) FailureKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyInput):
		return KindEmptyInput
	case errors.Is(err, ErrUnexpectedChar), errors.Is(err, docx.ErrUnexpectedElement):
		return KindUnexpectedCharacter
	case errors.Is(err, ErrInvalidSyntax), errors.Is(err, docx.ErrMalformedMath):
		return KindInvalidSyntax
	default:
		return KindUnknown
	}
}

// ConversionError is returned by every Converter entry point on failure.
// Use errors.Is on it to test for the wrapped sentinel.
type ConversionError struct {
	Kind FailureKind
	Op   string // "docx", "pdf", "html", "preview", "elements"
	Err  error
}

func (e *ConversionError) Error() string {
	switch e.Kind {
	case KindEmptyInput:
		return fmt.Sprintf("%s: nothing to convert: %v", e.Op, e.Err)
	case KindInvalidSyntax:
		return fmt.Sprintf("%s: the input contains invalid syntax: %v", e.Op, e.Err)
	case KindUnexpectedCharacter:
		return fmt.Sprintf("%s: the input contains an unexpected character: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: conversion failed: %v", e.Op, e.Err)
	}
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// wrapError turns err into a *ConversionError.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *ConversionError
	if errors.As(err, &ce) {
		return err
	}
	return &ConversionError{Kind: Classify(err), Op: op, Err: err}
}
