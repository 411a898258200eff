// Package scan locates formula delimiter pairs in a text buffer.
//
// Four delimiter styles are recognized: \[...\] and $$...$$ (display),
// \(...\) and $...$ (inline). Each style is scanned independently with a
// non-greedy pattern, then the candidates are merged into a single
// non-overlapping, start-ordered list.
package scan

import (
	"regexp"
	"sort"
)

// Kind identifies a delimiter style.
type Kind int

// Delimiter kinds in registration order. When two candidates start at the
// same offset, the one registered first wins.
const (
	BlockBrackets Kind = iota // \[ ... \]
	BlockDollars              // $$ ... $$
	InlineParens              // \( ... \)
	InlineDollars             // $ ... $
)

var kindNames = [...]string{"block-brackets", "block-dollars", "inline-parens", "inline-dollars"}

// String returns a short name for the kind.
func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Open returns the opening delimiter for the kind.
func (k Kind) Open() string {
	switch k {
	case BlockBrackets:
		return `\[`
	case BlockDollars:
		return "$$"
	case InlineParens:
		return `\(`
	default:
		return "$"
	}
}

// Close returns the closing delimiter for the kind.
func (k Kind) Close() string {
	switch k {
	case BlockBrackets:
		return `\]`
	case BlockDollars:
		return "$$"
	case InlineParens:
		return `\)`
	default:
		return "$"
	}
}

// Display reports whether the kind denotes a display (block) formula.
func (k Kind) Display() bool {
	return k == BlockBrackets || k == BlockDollars
}

// Match is one located formula span. Start and End are byte offsets into the
// scanned buffer, with End exclusive and covering the closing delimiter.
type Match struct {
	Start   int
	End     int
	Inner   string
	Display bool
	Kind    Kind
}

// Wrap returns inner surrounded by the match's original delimiter pair.
func (m Match) Wrap(inner string) string {
	return m.Kind.Open() + inner + m.Kind.Close()
}

// patterns are registered in priority order. Interiors may span newlines.
var patterns = []struct {
	kind Kind
	re   *regexp.Regexp
}{
	{BlockBrackets, regexp.MustCompile(`(?s)\\\[(.*?)\\\]`)},
	{BlockDollars, regexp.MustCompile(`(?s)\$\$(.*?)\$\$`)},
	{InlineParens, regexp.MustCompile(`(?s)\\\((.*?)\\\)`)},
	{InlineDollars, regexp.MustCompile(`(?s)\$(.*?)\$`)},
}

// Scan returns the accepted formula spans of buf, sorted by Start and
// pairwise disjoint. A candidate is accepted only if it starts at or after
// the end of the previously accepted one.
func Scan(buf string) []Match {
	var candidates []Match
	for _, p := range patterns {
		for _, loc := range p.re.FindAllStringSubmatchIndex(buf, -1) {
			candidates = append(candidates, Match{
				Start:   loc[0],
				End:     loc[1],
				Inner:   buf[loc[2]:loc[3]],
				Display: p.kind.Display(),
				Kind:    p.kind,
			})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Start < candidates[j].Start
	})

	accepted := candidates[:0]
	lastEnd := 0
	for _, m := range candidates {
		if m.Start < lastEnd {
			continue
		}
		accepted = append(accepted, m)
		lastEnd = m.End
	}
	return accepted
}
