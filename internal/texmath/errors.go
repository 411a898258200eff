package texmath

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by SyntaxError.
var (
	ErrSyntax         = errors.New("invalid syntax")
	ErrUnexpectedChar = errors.New("unexpected character")
)

// SyntaxError reports where and why a formula was rejected.
type SyntaxError struct {
	Pos int // rune offset into the source
	Msg string
	Err error // ErrSyntax or ErrUnexpectedChar
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v at position %d: %s", e.Err, e.Pos, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
