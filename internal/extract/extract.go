// Package extract splits mixed prose and math into ordered fragments.
package extract

import (
	"sort"
	"strings"

	"github.com/alnah/go-mathdoc/internal/document"
	"github.com/alnah/go-mathdoc/internal/scan"
)

// Extractor turns a text run into document fragments. Delimited spans become
// formulas; the text between them is handed to a Detector.
type Extractor struct {
	detector Detector
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithDetector replaces the default rule-based detector.
func WithDetector(d Detector) Option {
	return func(e *Extractor) {
		if d != nil {
			e.detector = d
		}
	}
}

// New returns an Extractor using a RuleDetector unless overridden.
func New(opts ...Option) *Extractor {
	e := &Extractor{detector: NewRuleDetector()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the fragments of text in source order. Text fragments are
// trimmed and empty ones are dropped.
func (e *Extractor) Extract(text string) []document.Fragment {
	var frags []document.Fragment
	last := 0
	for _, m := range scan.Scan(text) {
		frags = e.appendUndelimited(frags, text[last:m.Start])
		frags = append(frags, document.NewFormula(m.Inner, m.Display))
		last = m.End
	}
	return e.appendUndelimited(frags, text[last:])
}

// appendUndelimited classifies a gap between delimited spans.
func (e *Extractor) appendUndelimited(frags []document.Fragment, gap string) []document.Fragment {
	if strings.TrimSpace(gap) == "" {
		return frags
	}

	spans := validSpans(e.detector.Detect(gap), len(gap))
	pos := 0
	for _, s := range spans {
		frags = appendText(frags, gap[pos:s.Start])
		if body := strings.TrimSpace(gap[s.Start:s.End]); body != "" {
			frags = append(frags, document.NewFormula(body, false))
		}
		pos = s.End
	}
	return appendText(frags, gap[pos:])
}

func appendText(frags []document.Fragment, s string) []document.Fragment {
	if t := strings.TrimSpace(s); t != "" {
		frags = append(frags, document.NewText(t))
	}
	return frags
}

// validSpans sorts spans and drops those out of range or overlapping a
// previous one, so a misbehaving Detector cannot duplicate text.
func validSpans(spans []Span, n int) []Span {
	if len(spans) == 0 {
		return nil
	}
	sorted := make([]Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	out := sorted[:0]
	last := 0
	for _, s := range sorted {
		if s.Start < last || s.End > n || s.Start >= s.End {
			continue
		}
		out = append(out, s)
		last = s.End
	}
	return out
}
