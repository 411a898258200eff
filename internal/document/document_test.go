package document

import (
	"encoding/json"
	"testing"
)

func TestFragment_Literal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		frag     Fragment
		expected string
	}{
		{"text", NewText("hello"), "hello"},
		{"inline formula", NewFormula("x^2", false), "$x^2$"},
		{"display formula", NewFormula(`\sum_i`, true), `$$\sum_i$$`},
		{"empty formula", NewFormula("", true), "$$$$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.frag.Literal(); got != tt.expected {
				t.Errorf("Literal() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestPlainText(t *testing.T) {
	t.Parallel()

	got := PlainText([]Fragment{NewText("Area"), NewFormula(`\pi r^2`, false)})
	if got != `Area $\pi r^2$` {
		t.Errorf("PlainText() = %q", got)
	}
}

func TestSeparator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		prev, next Fragment
		want       string
	}{
		{"text then formula", NewText("Let"), NewFormula("x", false), " "},
		{"formula then period", NewFormula("x", false), NewText("."), ""},
		{"formula then comma", NewFormula("x", false), NewText(", so"), ""},
		{"open paren then formula", NewText("value ("), NewFormula("x", false), ""},
		{"formula then words", NewFormula("x", false), NewText("holds"), " "},
		{"two formulas", NewFormula("x", false), NewFormula("y", true), " "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Separator(tt.prev, tt.next); got != tt.want {
				t.Errorf("Separator() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContent(t *testing.T) {
	t.Parallel()

	frags := []Fragment{NewText("a")}
	tests := []struct {
		elem Element
		want int
	}{
		{Heading{Level: 1, Content: frags}, 1},
		{Paragraph{Content: frags}, 1},
		{ListItem{Content: frags}, 1},
		{Code{Text: "x"}, 0},
		{Rule{}, 0},
		{EmptyLine{}, 0},
	}

	for _, tt := range tests {
		if got := len(Content(tt.elem)); got != tt.want {
			t.Errorf("Content(%s) has %d fragments, want %d", tt.elem.Kind(), got, tt.want)
		}
	}
}

func TestMarshalElements(t *testing.T) {
	t.Parallel()

	elems := []Element{
		Heading{Level: 2, Content: []Fragment{NewText("Title")}},
		Paragraph{Content: []Fragment{NewText("a"), NewFormula("x", true)}},
		Code{Text: "fmt.Println()", Language: "go"},
		Rule{},
	}

	data, err := MarshalElements(elems)
	if err != nil {
		t.Fatalf("MarshalElements() error = %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 4 {
		t.Fatalf("got %d elements, want 4", len(decoded))
	}
	if decoded[0]["kind"] != "heading" || decoded[0]["level"] != float64(2) {
		t.Errorf("heading encoded as %v", decoded[0])
	}
	content := decoded[1]["content"].([]any)
	second := content[1].(map[string]any)
	if second["kind"] != "formula" || second["display"] != true {
		t.Errorf("formula fragment encoded as %v", second)
	}
	if decoded[2]["language"] != "go" {
		t.Errorf("code encoded as %v", decoded[2])
	}
	if decoded[3]["kind"] != "rule" {
		t.Errorf("rule encoded as %v", decoded[3])
	}
}
