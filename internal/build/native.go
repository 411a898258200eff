package build

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/alnah/go-mathdoc/internal/docx"
	"github.com/alnah/go-mathdoc/internal/document"
)

// DefaultCodeStyle is the chroma style used to colour code runs.
const DefaultCodeStyle = "github"

// Native builds word processor paragraphs with OMML math.
type Native struct {
	renderer  MathRenderer
	codeStyle *chroma.Style
}

var _ Strategy[docx.Block] = (*Native)(nil)

// NewNative returns a Native strategy. An unknown codeStyle falls back to
// chroma's default style.
func NewNative(r MathRenderer, codeStyle string) *Native {
	if codeStyle == "" {
		codeStyle = DefaultCodeStyle
	}
	return &Native{renderer: r, codeStyle: styles.Get(codeStyle)}
}

// Name implements Strategy.
func (n *Native) Name() string { return "native" }

// Element implements Strategy.
func (n *Native) Element(e document.Element) ([]docx.Block, []FormulaFailure, error) {
	switch v := e.(type) {
	case document.Heading:
		runs, failures := n.runs(v.Content)
		return []docx.Block{{Style: docx.HeadingStyle(v.Level), Runs: runs}}, failures, nil
	case document.Paragraph:
		runs, failures := n.runs(v.Content)
		return []docx.Block{{Style: docx.StyleNormal, Runs: runs}}, failures, nil
	case document.ListItem:
		runs, failures := n.runs(v.Content)
		return []docx.Block{{Style: docx.StyleListBullet, Runs: runs}}, failures, nil
	case document.Code:
		return []docx.Block{{Style: docx.StyleCode, Runs: n.codeRuns(v)}}, nil, nil
	case document.Rule:
		return []docx.Block{{}, {}}, nil, nil
	case document.EmptyLine:
		return []docx.Block{{}}, nil, nil
	}
	return nil, nil, fmt.Errorf("%w: unsupported element %T", ErrElementBuild, e)
}

func (n *Native) runs(frags []document.Fragment) ([]docx.Run, []FormulaFailure) {
	var (
		runs     []docx.Run
		failures []FormulaFailure
	)
	for i, f := range frags {
		if i > 0 {
			if sep := document.Separator(frags[i-1], f); sep != "" {
				runs = append(runs, docx.Run{Text: sep})
			}
		}
		if f.Kind != document.Formula {
			runs = append(runs, docx.Run{Text: f.Text})
			continue
		}
		markup, err := safeRender(n.renderer.NativeMarkup, f.Text, f.Display)
		if err != nil {
			failures = append(failures, FormulaFailure{Fragment: f, Err: fmt.Errorf("%w: %w", ErrFormulaRender, err)})
			runs = append(runs, docx.Run{Text: f.Literal()})
			continue
		}
		runs = append(runs, docx.Run{Math: markup})
	}
	return runs, failures
}

// codeRuns splits code into monospace runs coloured by the chroma style.
func (n *Native) codeRuns(c document.Code) []docx.Run {
	text := strings.TrimRight(c.Text, "\n")
	lexer := lexers.Get(c.Language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, text)
	if err != nil {
		return []docx.Run{{Text: text, Monospace: true}}
	}

	var runs []docx.Run
	for _, tok := range it.Tokens() {
		entry := n.codeStyle.Get(tok.Type)
		run := docx.Run{Text: tok.Value, Monospace: true, Bold: entry.Bold == chroma.Yes}
		if entry.Colour.IsSet() {
			run.Color = entry.Colour.String()
		}
		runs = append(runs, run)
	}
	if len(runs) > 0 {
		last := &runs[len(runs)-1]
		last.Text = strings.TrimRight(last.Text, "\n")
	}
	return runs
}
