package pipeline

import (
	"strings"
	"testing"
)

func TestProtectFormulas(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantCount int
		wantKept  []string
	}{
		{
			name:      "inline and display",
			input:     "Let $a_1$ and $$b*c$$ hold.",
			wantCount: 2,
			wantKept:  []string{"Let ", " and ", " hold."},
		},
		{
			name:      "inline code untouched",
			input:     "use `$x$` or $y$",
			wantCount: 1,
			wantKept:  []string{"`$x$`"},
		},
		{
			name:      "double backtick span untouched",
			input:     "``a `$x$` b`` $y$",
			wantCount: 1,
			wantKept:  []string{"``a `$x$` b``"},
		},
		{
			name:      "fenced block untouched",
			input:     "```\necho $HOME $PATH\n```\n$z$",
			wantCount: 1,
			wantKept:  []string{"echo $HOME $PATH"},
		},
		{
			name:      "tilde fence untouched",
			input:     "~~~\n$a$\n~~~\n",
			wantCount: 0,
			wantKept:  []string{"$a$"},
		},
		{
			name:      "unterminated fence covers rest",
			input:     "```\n$a$\n",
			wantCount: 0,
			wantKept:  []string{"$a$"},
		},
		{
			name:      "multiline display",
			input:     "$$\na\n+b\n$$",
			wantCount: 1,
		},
		{
			name:      "dollar does not pair across paragraphs",
			input:     "It costs $5.\n\nWe computed $x^2$ here.",
			wantCount: 1,
			wantKept:  []string{"It costs $5.\n\nWe computed "},
		},
		{
			name:      "dollar does not pair across a heading",
			input:     "It costs $5.\n# Results\nthen $y$",
			wantCount: 1,
			wantKept:  []string{"It costs $5.\n# Results\nthen "},
		},
		{
			name:      "list items pair separately",
			input:     "- a $b\n- c$ d\n",
			wantCount: 0,
		},
		{
			name:      "table cells",
			input:     "| a | b |\n|---|---|\n| $x$ | $y$ |\n",
			wantCount: 2,
			wantKept:  []string{"| a | b |"},
		},
		{
			name:      "indented code untouched",
			input:     "text $a$\n\n    $b$\n",
			wantCount: 1,
			wantKept:  []string{"    $b$"},
		},
		{
			name:      "no formulas",
			input:     "plain",
			wantCount: 0,
			wantKept:  []string{"plain"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, table := ProtectFormulas(tt.input)
			if len(table) != tt.wantCount {
				t.Fatalf("ProtectFormulas(%q) protected %d formulas, want %d", tt.input, len(table), tt.wantCount)
			}
			for _, kept := range tt.wantKept {
				if !strings.Contains(got, kept) {
					t.Errorf("ProtectFormulas(%q) = %q, missing %q", tt.input, got, kept)
				}
			}
			if restored := table.Restore(got); restored != tt.input {
				t.Errorf("Restore() = %q, want %q", restored, tt.input)
			}
		})
	}
}

func TestProtectFormulas_ExistingMarkers(t *testing.T) {
	t.Parallel()

	input := "keep " + placeholder(0) + " and $b$"

	got, table := ProtectFormulas(input)
	if n := strings.Count(got, FormulaStartPlaceholder); n != len(table) {
		t.Fatalf("got %d markers for %d entries in %q", n, len(table), got)
	}
	if restored := table.Restore(got); restored != input {
		t.Errorf("Restore() = %q, want %q", restored, input)
	}

	page, failures := RenderFormulas("<p>"+got+"</p>", table, fakeRenderer{})
	if len(failures) != 0 {
		t.Fatalf("RenderFormulas() failures = %v, want none", failures)
	}
	if !strings.Contains(page, "keep "+placeholder(0)+" and ") {
		t.Errorf("literal marker not kept in %q", page)
	}
	if strings.Count(page, "<math>") != 1 {
		t.Errorf("want exactly one rendered formula in %q", page)
	}
}

func TestProtectText(t *testing.T) {
	t.Parallel()

	input := "<p>cost $5</p>\n\n<p>and $x$ `$y$`</p>"
	got, table := ProtectText(input)
	if len(table) != 1 {
		t.Fatalf("ProtectText() protected %d formulas, want 1", len(table))
	}
	if table[0].Inner != "5</p>\n\n<p>and " {
		t.Errorf("Inner = %q, want the single-run pairing", table[0].Inner)
	}
	if restored := table.Restore(got); restored != input {
		t.Errorf("Restore() = %q, want %q", restored, input)
	}
}

func TestFormulaTable_Restore(t *testing.T) {
	t.Parallel()

	_, table := ProtectFormulas(`\(a\) $$b$$`)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"known indexes", placeholder(1) + " " + placeholder(0), `$$b$$ \(a\)`},
		{"out of range index kept", placeholder(5), placeholder(5)},
		{"non numeric kept", FormulaStartPlaceholder + "x" + FormulaEndPlaceholder, FormulaStartPlaceholder + "x" + FormulaEndPlaceholder},
		{"unterminated kept", FormulaStartPlaceholder + "0", FormulaStartPlaceholder + "0"},
		{"no placeholder", "abc", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := table.Restore(tt.input); got != tt.expected {
				t.Errorf("Restore(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
