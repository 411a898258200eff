package extract

import "strings"

// Span is a byte range [Start, End) of undelimited text judged to be math.
type Span struct {
	Start int
	End   int
}

// Detector finds math in text that carries no delimiters.
type Detector interface {
	Detect(text string) []Span
}

// defaultKeywords are the operator names whose presence marks a whole run
// of undelimited text as a formula.
var defaultKeywords = []string{
	"lim", "frac", "sqrt", "int", "sum", "prod",
	"sin", "cos", "tan", "log", "ln", "exp",
}

// RuleDetector classifies a whole run as one inline formula when the run
// contains any keyword, ignoring case. Keywords match anywhere, including
// inside longer words: "costs" contains "cos".
type RuleDetector struct {
	keywords []string
}

// Compile-time interface check.
var _ Detector = (*RuleDetector)(nil)

// NewRuleDetector returns a RuleDetector for keywords. With no keywords the
// default operator list is used.
func NewRuleDetector(keywords ...string) *RuleDetector {
	if len(keywords) == 0 {
		keywords = defaultKeywords
	}
	lower := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k != "" {
			lower = append(lower, strings.ToLower(k))
		}
	}
	return &RuleDetector{keywords: lower}
}

// Detect returns a single span covering text, or nil. The span is never
// narrowed to the math-like part of the run.
func (d *RuleDetector) Detect(text string) []Span {
	lower := strings.ToLower(text)
	for _, k := range d.keywords {
		if strings.Contains(lower, k) {
			return []Span{{Start: 0, End: len(text)}}
		}
	}
	return nil
}
