package mathdoc

import (
	"fmt"
	"strings"

	"github.com/alnah/go-mathdoc/internal/pipeline"
)

// defaultFontFamily is used for the browser footer.
const defaultFontFamily = "sans-serif"

// Orphan and widow line counts for paragraphs and list items.
const (
	defaultOrphans = 2
	defaultWidows  = 2
)

// buildPageBreaksCSS generates CSS for page break control.
// Headings never end a page; elements tagged by post-processing with
// pipeline.ClassAvoidBreak are kept whole.
func buildPageBreaksCSS() string {
	var buf strings.Builder

	buf.WriteString(`
/* Page breaks: prevent heading alone at page bottom */
h1, h2, h3, h4, h5, h6 {
  break-after: avoid;
  page-break-after: avoid;
}
`)

	fmt.Fprintf(&buf, `
/* Page breaks: orphan/widow control */
p, li, dd, dt, blockquote {
  orphans: %d;
  widows: %d;
}
`, defaultOrphans, defaultWidows)

	fmt.Fprintf(&buf, `
/* Page breaks: keep formulas, code and tables whole */
.%s {
  break-inside: avoid;
  page-break-inside: avoid;
}
`, pipeline.ClassAvoidBreak)

	return buf.String()
}
