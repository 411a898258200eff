package mathdoc

import (
	"strings"
	"testing"

	"github.com/alnah/go-mathdoc/internal/pipeline"
)

func TestBuildPageBreaksCSS(t *testing.T) {
	t.Parallel()

	css := buildPageBreaksCSS()

	tests := []struct {
		name     string
		contains string
	}{
		{name: "headings avoid break after", contains: "break-after: avoid"},
		{name: "orphans", contains: "orphans: 2"},
		{name: "widows", contains: "widows: 2"},
		{name: "avoid break class", contains: "." + pipeline.ClassAvoidBreak + " {"},
		{name: "break inside avoid", contains: "break-inside: avoid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if !strings.Contains(css, tt.contains) {
				t.Errorf("buildPageBreaksCSS() missing %q\n%s", tt.contains, css)
			}
		})
	}
}

func TestBuildPageBreaksCSS_Balanced(t *testing.T) {
	t.Parallel()

	css := buildPageBreaksCSS()
	if open, closed := strings.Count(css, "{"), strings.Count(css, "}"); open != closed {
		t.Errorf("unbalanced braces: %d open, %d closed", open, closed)
	}
}
