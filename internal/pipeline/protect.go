package pipeline

import (
	"sort"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-mathdoc/internal/scan"
)

// Formula placeholders use Private Use Area characters so that Goldmark
// neither escapes nor re-parses formula bodies. The index between the
// markers points into the FormulaTable.
const (
	FormulaStartPlaceholder = "\uE002" // U+E002: formula start
	FormulaEndPlaceholder   = "\uE003" // U+E003: formula end
)

// ProtectedFormula is one formula lifted out of the source. Entries with
// Literal set stand for a marker character that was already present in the
// input; they restore to that character and are never rendered as math.
type ProtectedFormula struct {
	Inner   string
	Display bool
	Kind    scan.Kind
	Literal string
}

// Source returns the formula wrapped in its original delimiters.
func (f ProtectedFormula) Source() string {
	if f.Literal != "" {
		return f.Literal
	}
	return f.Kind.Open() + f.Inner + f.Kind.Close()
}

// FormulaTable holds the formulas replaced by placeholders, by index.
type FormulaTable []ProtectedFormula

// blockParser finds block boundaries only; its output is never rendered.
var blockParser = goldmark.New(goldmark.WithExtensions(extension.GFM, extension.Footnote)).Parser()

// ProtectFormulas replaces every delimited formula in Markdown content with
// a placeholder. Delimiters are paired within one block at a time, so a
// stray $ never swallows the headings and paragraphs that follow it. Code
// blocks and inline code spans are left intact.
func ProtectFormulas(content string) (string, FormulaTable) {
	p := &protector{}
	p.buf.Grow(len(content))

	last := 0
	for _, r := range proseRanges([]byte(content)) {
		p.literal(content[last:r.start])
		p.prose(content[r.start:r.stop])
		last = r.stop
	}
	p.literal(content[last:])
	return p.buf.String(), p.table
}

// ProtectText replaces every delimited formula outside code with a
// placeholder, scanning content as a single run. It suits sources such as
// HTML that carry no Markdown block structure.
func ProtectText(content string) (string, FormulaTable) {
	p := &protector{}
	p.buf.Grow(len(content))
	for _, seg := range splitCode(content) {
		if seg.code {
			p.literal(seg.text)
			continue
		}
		p.prose(seg.text)
	}
	return p.buf.String(), p.table
}

// protector accumulates protected output and its table.
type protector struct {
	buf   strings.Builder
	table FormulaTable
}

// prose protects the formulas of one run of non-code text. Inline code
// spans inside the run are kept.
func (p *protector) prose(s string) {
	for _, seg := range splitInlineCode(s) {
		if seg.code {
			p.literal(seg.text)
			continue
		}
		last := 0
		for _, m := range scan.Scan(seg.text) {
			p.literal(seg.text[last:m.Start])
			p.add(ProtectedFormula{Inner: m.Inner, Display: m.Display, Kind: m.Kind})
			last = m.End
		}
		p.literal(seg.text[last:])
	}
}

// literal copies s, turning any start marker already present into its own
// placeholder so that a later Restore cannot mistake it for a formula.
func (p *protector) literal(s string) {
	for {
		i := strings.Index(s, FormulaStartPlaceholder)
		if i < 0 {
			p.buf.WriteString(s)
			return
		}
		p.buf.WriteString(s[:i])
		p.add(ProtectedFormula{Literal: FormulaStartPlaceholder})
		s = s[i+len(FormulaStartPlaceholder):]
	}
}

func (p *protector) add(f ProtectedFormula) {
	p.buf.WriteString(placeholder(len(p.table)))
	p.table = append(p.table, f)
}

// byteRange is a [start, stop) slice of the source.
type byteRange struct {
	start, stop int
}

// proseRanges returns the source ranges of the leaf blocks that may hold
// formulas, in order and disjoint. Code blocks are excluded.
func proseRanges(source []byte) []byteRange {
	doc := blockParser.Parse(text.NewReader(source))

	var out []byteRange
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Type() != ast.TypeBlock {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			return ast.WalkSkipChildren, nil
		}
		if lines := n.Lines(); lines.Len() > 0 {
			out = append(out, byteRange{start: lines.At(0).Start, stop: lines.At(lines.Len() - 1).Stop})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	sort.Slice(out, func(i, j int) bool { return out[i].start < out[j].start })
	merged := out[:0]
	for _, r := range out {
		if r.stop > len(source) {
			r.stop = len(source)
		}
		if n := len(merged); n > 0 && r.start < merged[n-1].stop {
			if r.stop > merged[n-1].stop {
				merged[n-1].stop = r.stop
			}
			continue
		}
		if r.start < r.stop {
			merged = append(merged, r)
		}
	}
	return merged
}

// Restore puts the original delimited formulas back in place of their
// placeholders. Unknown indexes are left untouched.
func (t FormulaTable) Restore(s string) string {
	return t.replace(s, func(f ProtectedFormula) string { return f.Source() })
}

// replace substitutes every well formed placeholder with fn's result.
func (t FormulaTable) replace(s string, fn func(ProtectedFormula) string) string {
	if len(t) == 0 || !strings.Contains(s, FormulaStartPlaceholder) {
		return s
	}
	var buf strings.Builder
	buf.Grow(len(s))
	for {
		start := strings.Index(s, FormulaStartPlaceholder)
		if start < 0 {
			break
		}
		rest := s[start+len(FormulaStartPlaceholder):]
		end := strings.Index(rest, FormulaEndPlaceholder)
		if end < 0 {
			break
		}
		idx, err := strconv.Atoi(rest[:end])
		if err != nil || idx < 0 || idx >= len(t) {
			buf.WriteString(s[:start+len(FormulaStartPlaceholder)])
			s = rest
			continue
		}
		buf.WriteString(s[:start])
		buf.WriteString(fn(t[idx]))
		s = rest[end+len(FormulaEndPlaceholder):]
	}
	buf.WriteString(s)
	return buf.String()
}

func placeholder(idx int) string {
	return FormulaStartPlaceholder + strconv.Itoa(idx) + FormulaEndPlaceholder
}

// segment is a slice of source that is either code or prose.
type segment struct {
	text string
	code bool
}

// splitCode cuts content into alternating prose and code segments. Code is
// a fenced block (``` or ~~~) or an inline backtick span.
func splitCode(content string) []segment {
	var (
		segs  []segment
		prose strings.Builder
	)
	flushProse := func() {
		if prose.Len() > 0 {
			segs = append(segs, splitInlineCode(prose.String())...)
			prose.Reset()
		}
	}

	lines := strings.SplitAfter(content, "\n")
	for i := 0; i < len(lines); i++ {
		fence, ok := openingFence(lines[i])
		if !ok {
			prose.WriteString(lines[i])
			continue
		}
		flushProse()
		var code strings.Builder
		code.WriteString(lines[i])
		for i+1 < len(lines) {
			i++
			code.WriteString(lines[i])
			if isClosingFence(lines[i], fence) {
				break
			}
		}
		segs = append(segs, segment{text: code.String(), code: true})
	}
	flushProse()
	return segs
}

// openingFence reports the fence marker opening a code block on line.
func openingFence(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return "", false
	}
	for _, ch := range []byte{'`', '~'} {
		n := 0
		for n < len(trimmed) && trimmed[n] == ch {
			n++
		}
		if n >= 3 {
			if ch == '`' && strings.Contains(trimmed[n:], "`") {
				return "", false
			}
			return trimmed[:n], true
		}
	}
	return "", false
}

func isClosingFence(line, fence string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, fence) {
		return false
	}
	return strings.Trim(trimmed, fence[:1]) == ""
}

// splitInlineCode separates backtick code spans from prose. An opening run
// of n backticks is closed by the next run of exactly n backticks.
func splitInlineCode(s string) []segment {
	var segs []segment
	last := 0
	for i := 0; i < len(s); {
		if s[i] != '`' {
			i++
			continue
		}
		n := runLength(s, i, '`')
		closeAt := findRun(s, i+n, n)
		if closeAt < 0 {
			i += n
			continue
		}
		if i > last {
			segs = append(segs, segment{text: s[last:i]})
		}
		end := closeAt + n
		segs = append(segs, segment{text: s[i:end], code: true})
		last = end
		i = end
	}
	if last < len(s) {
		segs = append(segs, segment{text: s[last:]})
	}
	return segs
}

func runLength(s string, i int, ch byte) int {
	n := 0
	for i+n < len(s) && s[i+n] == ch {
		n++
	}
	return n
}

// findRun returns the offset of the next backtick run of exactly n at or
// after from, or -1.
func findRun(s string, from, n int) int {
	for i := from; i < len(s); {
		if s[i] != '`' {
			i++
			continue
		}
		m := runLength(s, i, '`')
		if m == n {
			return i
		}
		i += m
	}
	return -1
}
