package main

import (
	"path/filepath"
	"strings"
	"testing"

	mathdoc "github.com/alnah/go-mathdoc"
)

func TestElementsCommand(t *testing.T) {
	t.Parallel()

	t.Run("json to stdout", func(t *testing.T) {
		t.Parallel()
		te := newTestEnv(t)
		src := writeFile(t, t.TempDir(), "a.tex", `\(x\)`)

		if code := te.run("elements", src); code != ExitSuccess {
			t.Fatalf("exit = %d, stderr = %s", code, te.stderr)
		}
		want := `[{"kind":"paragraph","type":"latex"}]` + "\n"
		if got := te.stdout.String(); got != want {
			t.Errorf("stdout = %q, want %q", got, want)
		}
	})

	t.Run("type flag applies to unknown extension", func(t *testing.T) {
		t.Parallel()
		te := newTestEnv(t)
		src := writeFile(t, t.TempDir(), "a.note", "x")

		if code := te.run("elements", src, "--type", "plain"); code != ExitSuccess {
			t.Fatalf("exit = %d, stderr = %s", code, te.stderr)
		}
		if !strings.Contains(te.stdout.String(), `"type":"plain"`) {
			t.Errorf("stdout = %q, want plain type", te.stdout)
		}
	})

	t.Run("preview to file", func(t *testing.T) {
		t.Parallel()
		te := newTestEnv(t)
		dir := t.TempDir()
		src := writeFile(t, dir, "a.md", "hello")
		out := filepath.Join(dir, "preview.html")

		if code := te.run("elements", src, "--preview", "-o", out); code != ExitSuccess {
			t.Fatalf("exit = %d, stderr = %s", code, te.stderr)
		}
		if got := readFile(t, out); got != "<p>hello</p>\n" {
			t.Errorf("preview = %q", got)
		}
		if te.stdout.Len() != 0 {
			t.Errorf("stdout = %q, want empty", te.stdout)
		}
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name string
			args func(t *testing.T, te *testEnv) []string
			want int
		}{
			{"missing file", func(t *testing.T, _ *testEnv) []string {
				return []string{"elements", filepath.Join(t.TempDir(), "x.md")}
			}, ExitIO},
			{"bad type", func(t *testing.T, _ *testEnv) []string {
				return []string{"elements", writeFile(t, t.TempDir(), "a.md", "a"), "--type", "rtf"}
			}, ExitUsage},
			{"conversion failure", func(t *testing.T, te *testEnv) []string {
				te.conv.err = &mathdoc.ConversionError{Kind: mathdoc.KindEmptyInput, Op: "elements", Err: mathdoc.ErrEmptyInput}
				return []string{"elements", writeFile(t, t.TempDir(), "a.md", " ")}
			}, ExitUsage},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				te := newTestEnv(t)
				if code := te.run(tt.args(t, te)...); code != tt.want {
					t.Errorf("exit = %d, want %d; stderr = %s", code, tt.want, te.stderr)
				}
			})
		}
	})
}

// TestElementsCommand_RealConverter runs the production converter end to end.
func TestElementsCommand_RealConverter(t *testing.T) {
	t.Parallel()
	te := newTestEnv(t)
	te.NewConverter = newConverter
	src := writeFile(t, t.TempDir(), "a.md", "# Title\n\nLet $x^2$ be given.\n")

	if code := te.run("elements", src); code != ExitSuccess {
		t.Fatalf("exit = %d, stderr = %s", code, te.stderr)
	}
	out := te.stdout.String()
	for _, want := range []string{`"kind": "heading"`, `"kind": "paragraph"`, `x^2`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
