// Package yamlutil reads and writes configuration documents.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxDocumentSize bounds a configuration document.
const MaxDocumentSize = 256 << 10

var (
	ErrEmptyDocument    = errors.New("empty document")
	ErrDocumentTooLarge = errors.New("document too large")
	ErrDecode           = errors.New("malformed document")
	ErrEncode           = errors.New("cannot encode document")
)

// Decode parses data into v, rejecting keys v does not declare.
// Syntax errors carry the offending line of the source.
func Decode(data []byte, v any) error {
	if len(data) == 0 {
		return ErrEmptyDocument
	}
	if len(data) > MaxDocumentSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrDocumentTooLarge, len(data), MaxDocumentSize)
	}
	if v == nil {
		return fmt.Errorf("%w: nil destination", ErrDecode)
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("%w: %s", ErrDecode, yaml.FormatError(err, false, true))
	}
	return nil
}

// Encode renders v with two-space indentation and indented sequences.
func Encode(v any) ([]byte, error) {
	data, err := yaml.MarshalWithOptions(v, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return data, nil
}
