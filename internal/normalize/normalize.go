// Package normalize canonicalizes loosely written math inside formula spans.
//
// Only the interiors of delimited spans are rewritten. Prose outside every
// span is returned byte for byte, except for the final NFC composition which
// runs over the whole buffer once at least one span was found.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/alnah/go-mathdoc/internal/scan"
)

var (
	triplePrime = regexp.MustCompile(`([A-Za-z])'''`)
	doublePrime = regexp.MustCompile(`([A-Za-z])''`)

	// Chained forms are rewritten before the generic form so the generic
	// rule never sees a half-rewritten fraction.
	secondDerivYX = regexp.MustCompile(`\bd\^2y/dx\^2\b`)
	secondDerivXY = regexp.MustCompile(`\bd\^2x/dy\^2\b`)
	firstDerivYX  = regexp.MustCompile(`\bdy/dx\b`)
	firstDerivXY  = regexp.MustCompile(`\bdx/dy\b`)
	genericDeriv  = regexp.MustCompile(`\bd(\w+)/d(\w+)\b`)

	doubleEscapedArrow = regexp.MustCompile(`\\\\to\b`)
)

// Normalize rewrites every formula span of text into canonical command form.
// It is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	matches := scan.Scan(text)
	if len(matches) == 0 {
		return text
	}

	var buf strings.Builder
	buf.Grow(len(text) + len(text)/4)
	last := 0
	for _, m := range matches {
		buf.WriteString(text[last:m.Start])
		buf.WriteString(m.Wrap(Formula(m.Inner)))
		last = m.End
	}
	buf.WriteString(text[last:])

	return norm.NFC.String(buf.String())
}

// maxPasses bounds the rewrite loop in Formula. Rewrites only ever add
// backslashes and braces, so real input settles after two passes.
const maxPasses = 8

// Formula applies the per-span rewrite sequence to a bare formula body until
// it no longer changes. A later step can expose work for an earlier one, as
// when an arrow glyph becomes \to right before a pair of primes, so a single
// pass is not enough for Formula(Formula(s)) == Formula(s).
func Formula(s string) string {
	s = norm.NFC.String(s)
	for range maxPasses {
		next := norm.NFC.String(rewrite(s))
		if next == s {
			break
		}
		s = next
	}
	return s
}

// rewrite runs the steps once. They run in a fixed order; reordering them
// changes output for inputs that mix derivative shorthand with Greek letters
// or arrows.
func rewrite(s string) string {
	s = escapeNames(s, commandNames)
	s = braceSubscripts(s)
	s = rewriteDerivatives(s)
	s = replaceGreek(s)
	s = replaceArrows(s)
	s = escapeNames(s, limitNames)
	return s
}

// escapeNames inserts a backslash before every maximal ASCII letter run found
// in names that does not already carry one. A bare subscript takes only its
// first letter, the same split braceSubscripts makes, so _ksin splits into k
// and sin.
func escapeNames(s string, names map[string]struct{}) string {
	var buf strings.Builder
	last := 0
	for i := 0; i < len(s); {
		if !isLetter(s[i]) {
			i++
			continue
		}
		j := i + 1
		if !bareSubscript(s, i) {
			for j < len(s) && isLetter(s[j]) {
				j++
			}
		}
		if _, ok := names[s[i:j]]; ok && (i == 0 || s[i-1] != '\\') {
			buf.WriteString(s[last:i])
			buf.WriteByte('\\')
			last = i
		}
		i = j
	}
	if last == 0 && buf.Len() == 0 {
		return s
	}
	buf.WriteString(s[last:])
	return buf.String()
}

// bareSubscript reports whether s[i] directly follows an unescaped _.
func bareSubscript(s string, i int) bool {
	return i > 0 && s[i-1] == '_' && (i == 1 || s[i-2] != '\\')
}

// braceSubscripts turns a bare single-character subscript _x into _{x}.
// Superscripts are left as written.
func braceSubscripts(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	var buf strings.Builder
	buf.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' && (i == 0 || s[i-1] != '\\') && i+1 < len(s) && isAlnum(s[i+1]) {
			buf.WriteString("_{")
			buf.WriteByte(s[i+1])
			buf.WriteByte('}')
			i++
			continue
		}
		buf.WriteByte(c)
	}
	return buf.String()
}

// rewriteDerivatives expands prime and Leibniz shorthand.
func rewriteDerivatives(s string) string {
	if strings.Contains(s, "''") {
		s = triplePrime.ReplaceAllString(s, `${1}^{\prime\prime\prime}`)
		s = doublePrime.ReplaceAllString(s, `${1}^{\prime\prime}`)
	}
	if !strings.Contains(s, "/") {
		return s
	}
	s = secondDerivYX.ReplaceAllLiteralString(s, `\frac{d^2y}{dx^2}`)
	s = secondDerivXY.ReplaceAllLiteralString(s, `\frac{d^2x}{dy^2}`)
	s = firstDerivYX.ReplaceAllLiteralString(s, `\frac{dy}{dx}`)
	s = firstDerivXY.ReplaceAllLiteralString(s, `\frac{dx}{dy}`)
	s = genericDeriv.ReplaceAllString(s, `\frac{d${1}}{d${2}}`)
	return s
}

// replaceGreek substitutes Unicode Greek letters rune by rune. A space
// separates the command from a following ASCII letter.
func replaceGreek(s string) string {
	return substituteRunes(s, func(r rune) (string, bool) {
		cmd, ok := greekCommands[r]
		return cmd, ok
	})
}

// replaceArrows rewrites the arrow glyph and the bare word "to" as \to.
func replaceArrows(s string) string {
	s = substituteRunes(s, func(r rune) (string, bool) {
		if r == '→' {
			return `\to`, true
		}
		return "", false
	})
	s = escapeNames(s, arrowNames)
	if strings.Contains(s, `\\to`) {
		s = doubleEscapedArrow.ReplaceAllLiteralString(s, `\to`)
	}
	return s
}

var arrowNames = toSet("to")

func substituteRunes(s string, lookup func(rune) (string, bool)) string {
	var buf strings.Builder
	changed := false
	runes := []rune(s)
	for i, r := range runes {
		cmd, ok := lookup(r)
		if !ok {
			buf.WriteRune(r)
			continue
		}
		changed = true
		buf.WriteString(cmd)
		if i+1 < len(runes) && runes[i+1] < 0x80 && isLetter(byte(runes[i+1])) {
			buf.WriteByte(' ')
		}
	}
	if !changed {
		return s
	}
	return buf.String()
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9')
}
