// Package dateutil resolves the footer date of generated documents.
//
// A footer date is either a literal string, printed as written, or an
// "auto" value resolved against the conversion time:
//
//	auto               2026-10-14
//	auto:academic      14 October 2026
//	auto:[Compiled] D MMM YY
package dateutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an auto date whose pattern cannot be compiled.
var ErrInvalidDateFormat = errors.New("invalid date format")

// maxPatternLength bounds the pattern after "auto:".
const maxPatternLength = 50

const autoPrefix = "auto"

// Presets maps the named patterns accepted after "auto:".
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"academic": "D MMMM YYYY",
}

// defaultPattern is used for a bare "auto".
const defaultPattern = "YYYY-MM-DD"

// element writes one piece of a formatted date.
type element func(b *strings.Builder, t time.Time)

// tokens is ordered longest first so "MMMM" wins over "MM".
var tokens = []struct {
	name string
	emit element
}{
	{"YYYY", func(b *strings.Builder, t time.Time) { b.WriteString(strconv.Itoa(t.Year())) }},
	{"MMMM", func(b *strings.Builder, t time.Time) { b.WriteString(t.Month().String()) }},
	{"MMM", func(b *strings.Builder, t time.Time) { b.WriteString(t.Month().String()[:3]) }},
	{"YY", func(b *strings.Builder, t time.Time) { fmt.Fprintf(b, "%02d", t.Year()%100) }},
	{"MM", func(b *strings.Builder, t time.Time) { fmt.Fprintf(b, "%02d", int(t.Month())) }},
	{"DD", func(b *strings.Builder, t time.Time) { fmt.Fprintf(b, "%02d", t.Day()) }},
	{"M", func(b *strings.Builder, t time.Time) { b.WriteString(strconv.Itoa(int(t.Month()))) }},
	{"D", func(b *strings.Builder, t time.Time) { b.WriteString(strconv.Itoa(t.Day())) }},
}

// Pattern is a compiled date pattern.
type Pattern struct {
	elements []element
}

// Compile parses a pattern built from YYYY, YY, MMMM, MMM, MM, M, DD and D.
// Text in square brackets is kept literally, as is any other character.
// Preset names are accepted case-insensitively.
func Compile(pattern string) (*Pattern, error) {
	if preset, ok := Presets[strings.ToLower(pattern)]; ok {
		pattern = preset
	}
	if pattern == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrInvalidDateFormat)
	}
	if len(pattern) > maxPatternLength {
		return nil, fmt.Errorf("%w: pattern exceeds %d characters", ErrInvalidDateFormat, maxPatternLength)
	}

	p := &Pattern{}
	for i := 0; i < len(pattern); {
		if pattern[i] == '[' {
			end := strings.IndexByte(pattern[i+1:], ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			p.literal(pattern[i+1 : i+1+end])
			i += end + 2
			continue
		}
		if tok, ok := matchToken(pattern[i:]); ok {
			p.elements = append(p.elements, tokens[tok].emit)
			i += len(tokens[tok].name)
			continue
		}
		p.literal(pattern[i : i+1])
		i++
	}
	return p, nil
}

func matchToken(s string) (int, bool) {
	for i, tok := range tokens {
		if strings.HasPrefix(s, tok.name) {
			return i, true
		}
	}
	return 0, false
}

func (p *Pattern) literal(s string) {
	if s == "" {
		return
	}
	p.elements = append(p.elements, func(b *strings.Builder, _ time.Time) { b.WriteString(s) })
}

// Format renders t with the pattern.
func (p *Pattern) Format(t time.Time) string {
	var b strings.Builder
	for _, emit := range p.elements {
		emit(&b, t)
	}
	return b.String()
}

// ResolveDate returns the footer text for value at time now.
// Values not starting with "auto" are returned unchanged.
func ResolveDate(value string, now time.Time) (string, error) {
	pattern, auto, err := split(value)
	if err != nil {
		return "", err
	}
	if !auto {
		return value, nil
	}
	p, err := Compile(pattern)
	if err != nil {
		return "", err
	}
	return p.Format(now), nil
}

// Validate reports whether value would resolve, without needing a time.
func Validate(value string) error {
	pattern, auto, err := split(value)
	if err != nil || !auto {
		return err
	}
	_, err = Compile(pattern)
	return err
}

// split separates an auto value from its pattern.
func split(value string) (pattern string, auto bool, err error) {
	lower := strings.ToLower(value)
	if !strings.HasPrefix(lower, autoPrefix) {
		return "", false, nil
	}
	rest := value[len(autoPrefix):]
	switch {
	case rest == "":
		return defaultPattern, true, nil
	case rest[0] != ':':
		return "", false, fmt.Errorf("%w: %q, use \"auto\" or \"auto:PATTERN\"", ErrInvalidDateFormat, value)
	case len(rest) == 1:
		return "", false, fmt.Errorf("%w: empty pattern after \"auto:\"", ErrInvalidDateFormat)
	}
	return rest[1:], true, nil
}
