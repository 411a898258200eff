package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Highlight placeholders use Private Use Area characters, which pass through
// Goldmark unchanged. PostProcess turns them into <mark> tags.
const (
	MarkStartPlaceholder = "\uE000" // U+E000: highlight start
	MarkEndPlaceholder   = "\uE001" // U+E001: highlight end
)

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	highlightPattern   = regexp.MustCompile(`==(.*?)==`)
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// CommonMarkPreprocessor prepares protected Markdown for the page path.
// Run it after ProtectFormulas: ==text== inside a formula is not a highlight.
type CommonMarkPreprocessor struct{}

// PreprocessMarkdown normalizes line endings, converts ==highlights== and
// compresses runs of blank lines.
func (p *CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}
	content = NormalizeLineEndings(content)
	content = convertHighlights(content)
	return compressBlankLines(content)
}

// NormalizeLineEndings converts \r\n and \r to \n.
func NormalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// compressBlankLines limits consecutive blank lines to one.
func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

func convertHighlights(content string) string {
	segs := splitCode(content)
	var buf strings.Builder
	buf.Grow(len(content))
	for _, seg := range segs {
		if seg.code {
			buf.WriteString(seg.text)
			continue
		}
		buf.WriteString(highlightPattern.ReplaceAllString(seg.text, MarkStartPlaceholder+"$1"+MarkEndPlaceholder))
	}
	return buf.String()
}

// ConvertMarkPlaceholders converts highlight placeholders to <mark> tags.
func ConvertMarkPlaceholders(content string) string {
	return strings.ReplaceAll(
		strings.ReplaceAll(content, MarkStartPlaceholder, "<mark>"),
		MarkEndPlaceholder, "</mark>",
	)
}
