package extract

import (
	"strings"
	"testing"
	"unicode"

	"github.com/alnah/go-mathdoc/internal/document"
	"github.com/alnah/go-mathdoc/internal/scan"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []document.Fragment
	}{
		{
			name:  "plain prose",
			input: "Just words here.",
			want:  []document.Fragment{document.NewText("Just words here.")},
		},
		{
			name:  "undelimited operator becomes whole-run formula",
			input: "frac{1}{2}",
			want:  []document.Fragment{document.NewFormula("frac{1}{2}", false)},
		},
		{
			name:  "keyword match ignores case",
			input: "Take the LOG of both sides",
			want:  []document.Fragment{document.NewFormula("Take the LOG of both sides", false)},
		},
		{
			name:  "keyword inside a longer word still marks the run",
			input: "a sincere cost estimate",
			want:  []document.Fragment{document.NewFormula("a sincere cost estimate", false)},
		},
		{
			name:  "delimited inline formula",
			input: `$\frac{1}{2}$`,
			want:  []document.Fragment{document.NewFormula(`\frac{1}{2}`, false)},
		},
		{
			name:  "text formula text",
			input: "Para with $x^2$.",
			want: []document.Fragment{
				document.NewText("Para with"),
				document.NewFormula("x^2", false),
				document.NewText("."),
			},
		},
		{
			name:  "display formulas",
			input: `\[a\] then $$b$$`,
			want: []document.Fragment{
				document.NewFormula("a", true),
				document.NewText("then"),
				document.NewFormula("b", true),
			},
		},
		{
			name:  "gap with keyword before delimited math",
			input: "sum over i: $x_i$",
			want: []document.Fragment{
				document.NewFormula("sum over i:", false),
				document.NewFormula("x_i", false),
			},
		},
		{
			name:  "whitespace gaps dropped",
			input: "  $a$   $b$  ",
			want: []document.Fragment{
				document.NewFormula("a", false),
				document.NewFormula("b", false),
			},
		},
		{
			name:  "empty formula kept",
			input: "$$$$",
			want:  []document.Fragment{document.NewFormula("", true)},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
	}

	ex := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ex.Extract(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("Extract(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Extract(%q)[%d] = %+v, want %+v", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExtract_Coverage(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Para with $x^2$.",
		`Let \(a\) and \[b\] be $$c$$ values $d$`,
		"the sin of $x$ is small",
		"unclosed $ dollar stays text",
		`\(a$\)b$ tail`,
		"  padded   text  ",
	}

	ex := New()
	for _, input := range inputs {
		var want strings.Builder
		last := 0
		for _, m := range scan.Scan(input) {
			want.WriteString(input[last:m.Start])
			want.WriteString(m.Inner)
			last = m.End
		}
		want.WriteString(input[last:])

		var got strings.Builder
		for _, f := range ex.Extract(input) {
			got.WriteString(f.Text)
		}
		if nonSpace(got.String()) != nonSpace(want.String()) {
			t.Errorf("coverage broken for %q: got %q, want %q", input, got.String(), want.String())
		}
	}
}

func nonSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

type fixedDetector struct{ spans []Span }

func (d fixedDetector) Detect(string) []Span { return d.spans }

func TestExtract_WithDetector(t *testing.T) {
	t.Parallel()

	t.Run("partial span", func(t *testing.T) {
		t.Parallel()

		ex := New(WithDetector(fixedDetector{spans: []Span{{Start: 4, End: 9}}}))
		got := ex.Extract("let x + y be")
		want := []document.Fragment{
			document.NewText("let"),
			document.NewFormula("x + y", false),
			document.NewText("be"),
		}
		if len(got) != len(want) {
			t.Fatalf("Extract() = %+v, want %+v", got, want)
		}
		for i := range got {
			if got[i] != want[i] {
				t.Errorf("fragment %d = %+v, want %+v", i, got[i], want[i])
			}
		}
	})

	t.Run("invalid spans ignored", func(t *testing.T) {
		t.Parallel()

		ex := New(WithDetector(fixedDetector{spans: []Span{{Start: 0, End: 99}, {Start: 3, End: 2}}}))
		got := ex.Extract("abc")
		if len(got) != 1 || got[0] != document.NewText("abc") {
			t.Errorf("Extract() = %+v, want single text fragment", got)
		}
	})

	t.Run("nil detector keeps default", func(t *testing.T) {
		t.Parallel()

		ex := New(WithDetector(nil))
		got := ex.Extract("sqrt 2")
		if len(got) != 1 || got[0].Kind != document.Formula {
			t.Errorf("Extract() = %+v, want one formula", got)
		}
	})
}

func TestRuleDetector(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		keywords []string
		input    string
		want     bool
	}{
		{"default keyword", nil, "exp(x)", true},
		{"no keyword", nil, "hello world", false},
		{"custom keywords", []string{"det"}, "det A", true},
		{"custom keywords replace defaults", []string{"det"}, "sin x", false},
		{"keyword between digits", nil, "2sin3", true},
		{"keyword inside a word", nil, "the costs rose", true},
		{"upper case keyword", nil, "SQRT two", true},
		{"empty custom keyword ignored", []string{""}, "anything", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			spans := NewRuleDetector(tt.keywords...).Detect(tt.input)
			if got := len(spans) == 1; got != tt.want {
				t.Errorf("Detect(%q) = %v, want match %v", tt.input, spans, tt.want)
			}
			if len(spans) == 1 && (spans[0].Start != 0 || spans[0].End != len(tt.input)) {
				t.Errorf("Detect(%q) span = %+v, want whole run", tt.input, spans[0])
			}
		})
	}
}
