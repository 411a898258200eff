package texmath

import "strings"

// OMMLNamespace is the Office Math namespace URI bound to the m prefix.
const OMMLNamespace = "http://schemas.openxmlformats.org/officeDocument/2006/math"

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
)

// unicodeSpaces approximates em widths with Unicode space characters.
var unicodeSpaces = map[string]string{
	"0.1667em": "\u2009", "0.2222em": "\u205f", "0.2778em": "\u2004",
	"0.25em": "\u00a0", "0.5em": "\u2002", "1em": "\u2003", "2em": "\u2003\u2003",
}

type ommlWriter struct {
	sb      strings.Builder
	display bool
}

// OMML renders root as an m:oMath element, wrapped in m:oMathPara for
// display formulas. The m prefix must be bound by the enclosing document.
func OMML(root *Node, display bool) string {
	w := &ommlWriter{display: display}
	if display {
		w.sb.WriteString("<m:oMathPara>")
	}
	w.sb.WriteString("<m:oMath>")
	w.content(root, "")
	w.sb.WriteString("</m:oMath>")
	if display {
		w.sb.WriteString("</m:oMathPara>")
	}
	return w.sb.String()
}

func (w *ommlWriter) write(s ...string) {
	for _, part := range s {
		w.sb.WriteString(part)
	}
}

// run writes a math run. Upright runs carry the plain style.
func (w *ommlWriter) run(text string, upright, normalText bool) {
	w.sb.WriteString("<m:r>")
	switch {
	case normalText:
		w.sb.WriteString("<m:rPr><m:nor/></m:rPr>")
	case upright:
		w.sb.WriteString(`<m:rPr><m:sty m:val="p"/></m:rPr>`)
	}
	w.write(`<m:t xml:space="preserve">`, xmlEscaper.Replace(text), "</m:t></m:r>")
}

// wrap writes n inside the named container element, which OMML requires
// even when empty.
func (w *ommlWriter) wrap(tag string, n *Node, variant string) {
	if n.isEmpty() {
		w.write("<", tag, "/>")
		return
	}
	w.write("<", tag, ">")
	w.content(n, variant)
	w.write("</", tag, ">")
}

func (w *ommlWriter) chr(tag, v string) {
	w.write("<", tag, ` m:val="`, xmlEscaper.Replace(v), `"/>`)
}

// content writes n, expanding rows so that n-ary operators and functions
// can take the following sibling as their operand.
func (w *ommlWriter) content(n *Node, variant string) {
	if n == nil {
		return
	}
	if n.Kind != KindRow {
		w.node(n, variant)
		return
	}
	kids := n.Children
	for i := 0; i < len(kids); i++ {
		var next *Node
		if i+1 < len(kids) {
			next = kids[i+1]
		}
		switch {
		case isNary(kids[i]):
			w.nary(kids[i], next, variant)
			if next != nil {
				i++
			}
		case kids[i].Kind == KindFunc && !kids[i].Limits && isOperand(next):
			w.sb.WriteString("<m:func><m:fName>")
			w.run(kids[i].Value, true, false)
			w.sb.WriteString("</m:fName>")
			w.wrap("m:e", next, variant)
			w.sb.WriteString("</m:func>")
			i++
		default:
			w.node(kids[i], variant)
		}
	}
}

func isNary(n *Node) bool {
	if n == nil {
		return false
	}
	if n.Kind == KindBigOp {
		return true
	}
	return n.Kind == KindScripts && n.child(0) != nil && n.child(0).Kind == KindBigOp
}

func isOperand(n *Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case KindIdent, KindNumber, KindFenced, KindRow, KindScripts, KindStyled, KindAccent:
		return true
	}
	return false
}

func (w *ommlWriter) node(n *Node, variant string) {
	switch n.Kind {
	case KindRow:
		w.content(n, variant)
	case KindIdent, KindNumber:
		if variant == VariantNormal {
			w.run(n.Value, true, false)
			return
		}
		w.run(styleText(variant, n.Value), n.Kind == KindNumber, false)
	case KindOperator:
		w.run(n.Value, true, false)
	case KindText:
		w.run(n.Value, false, true)
	case KindSpace:
		if s, ok := unicodeSpaces[n.Value]; ok {
			w.run(s, true, false)
		}
	case KindFunc:
		w.run(n.Value, true, false)
	case KindBigOp:
		w.nary(n, nil, variant)
	case KindFrac:
		w.sb.WriteString("<m:f>")
		if n.Value == "binom" {
			w.sb.WriteString(`<m:fPr><m:type m:val="noBar"/></m:fPr>`)
		}
		w.wrap("m:num", n.child(0), variant)
		w.wrap("m:den", n.child(1), variant)
		w.sb.WriteString("</m:f>")
	case KindSqrt:
		w.sb.WriteString("<m:rad>")
		if idx := n.child(1); idx != nil {
			w.wrap("m:deg", idx, variant)
		} else {
			w.sb.WriteString(`<m:radPr><m:degHide m:val="1"/></m:radPr><m:deg/>`)
		}
		w.wrap("m:e", n.child(0), variant)
		w.sb.WriteString("</m:rad>")
	case KindScripts:
		w.scripts(n, variant)
	case KindFenced:
		w.delimited(n.Open, n.Close, func() { w.wrap("m:e", n.child(0), variant) })
	case KindAccent:
		w.accent(n, variant)
	case KindStyled:
		w.content(n.child(0), n.Value)
	case KindMatrix:
		w.delimited(n.Open, n.Close, func() {
			if n.Open == "" && n.Close == "" {
				w.matrix(n, variant)
				return
			}
			w.sb.WriteString("<m:e>")
			w.matrix(n, variant)
			w.sb.WriteString("</m:e>")
		})
	case KindStack:
		base, over, under := n.child(0), n.child(1), n.child(2)
		switch {
		case over != nil:
			w.sb.WriteString("<m:limUpp>")
			w.wrap("m:e", base, variant)
			w.wrap("m:lim", over, variant)
			w.sb.WriteString("</m:limUpp>")
		case under != nil:
			w.sb.WriteString("<m:limLow>")
			w.wrap("m:e", base, variant)
			w.wrap("m:lim", under, variant)
			w.sb.WriteString("</m:limLow>")
		default:
			w.content(base, variant)
		}
	}
}

// delimited writes an m:d around body, or body alone when both fences are
// empty.
func (w *ommlWriter) delimited(open, closing string, body func()) {
	if open == "" && closing == "" {
		body()
		return
	}
	w.sb.WriteString("<m:d><m:dPr>")
	w.chr("m:begChr", open)
	w.chr("m:endChr", closing)
	w.sb.WriteString("</m:dPr>")
	body()
	w.sb.WriteString("</m:d>")
}

func (w *ommlWriter) nary(n, operand *Node, variant string) {
	op, sub, sup := n, (*Node)(nil), (*Node)(nil)
	limits := n.Limits
	if n.Kind == KindScripts {
		op, sub, sup = n.child(0), n.child(1), n.child(2)
	}
	loc := "subSup"
	if limits && w.display {
		loc = "undOvr"
	}
	w.sb.WriteString("<m:nary><m:naryPr>")
	w.chr("m:chr", op.Value)
	w.chr("m:limLoc", loc)
	if sub == nil {
		w.sb.WriteString(`<m:subHide m:val="1"/>`)
	}
	if sup == nil {
		w.sb.WriteString(`<m:supHide m:val="1"/>`)
	}
	w.sb.WriteString("</m:naryPr>")
	w.wrap("m:sub", sub, variant)
	w.wrap("m:sup", sup, variant)
	w.wrap("m:e", operand, variant)
	w.sb.WriteString("</m:nary>")
}

func (w *ommlWriter) scripts(n *Node, variant string) {
	base, sub, sup := n.child(0), n.child(1), n.child(2)
	if base != nil && base.Kind == KindFunc && base.Limits {
		w.limitFunc(base, sub, sup, variant)
		return
	}
	switch {
	case sub != nil && sup != nil:
		w.sb.WriteString("<m:sSubSup>")
		w.wrap("m:e", base, variant)
		w.wrap("m:sub", sub, variant)
		w.wrap("m:sup", sup, variant)
		w.sb.WriteString("</m:sSubSup>")
	case sub != nil:
		w.sb.WriteString("<m:sSub>")
		w.wrap("m:e", base, variant)
		w.wrap("m:sub", sub, variant)
		w.sb.WriteString("</m:sSub>")
	default:
		w.sb.WriteString("<m:sSup>")
		w.wrap("m:e", base, variant)
		w.wrap("m:sup", sup, variant)
		w.sb.WriteString("</m:sSup>")
	}
}

// limitFunc writes lim-like names with their scripts below and above.
func (w *ommlWriter) limitFunc(fn, sub, sup *Node, variant string) {
	if sup != nil {
		w.sb.WriteString("<m:limUpp><m:e>")
	}
	if sub != nil {
		w.sb.WriteString("<m:limLow><m:e>")
		w.run(fn.Value, true, false)
		w.sb.WriteString("</m:e>")
		w.wrap("m:lim", sub, variant)
		w.sb.WriteString("</m:limLow>")
	} else {
		w.run(fn.Value, true, false)
	}
	if sup != nil {
		w.sb.WriteString("</m:e>")
		w.wrap("m:lim", sup, variant)
		w.sb.WriteString("</m:limUpp>")
	}
}

func (w *ommlWriter) accent(n *Node, variant string) {
	a := accents[n.Value]
	body := n.child(0)
	switch n.Value {
	case "overline", "underline":
		pos := "top"
		if a.under {
			pos = "bot"
		}
		w.write(`<m:bar><m:barPr><m:pos m:val="`, pos, `"/></m:barPr>`)
		w.wrap("m:e", body, variant)
		w.sb.WriteString("</m:bar>")
	case "overbrace", "underbrace":
		pos := "top"
		if a.under {
			pos = "bot"
		}
		w.sb.WriteString("<m:groupChr><m:groupChrPr>")
		w.chr("m:chr", a.comb)
		w.write(`<m:pos m:val="`, pos, `"/></m:groupChrPr>`)
		w.wrap("m:e", body, variant)
		w.sb.WriteString("</m:groupChr>")
	default:
		w.sb.WriteString("<m:acc><m:accPr>")
		w.chr("m:chr", a.comb)
		w.sb.WriteString("</m:accPr>")
		w.wrap("m:e", body, variant)
		w.sb.WriteString("</m:acc>")
	}
}

func (w *ommlWriter) matrix(n *Node, variant string) {
	switch n.Value {
	case "cases", "aligned", "align", "align*", "gathered", "split":
		// one equation per row; cells are joined
		w.sb.WriteString("<m:eqArr>")
		for _, row := range n.Rows {
			w.sb.WriteString("<m:e>")
			for _, cell := range row {
				w.content(cell, variant)
			}
			w.sb.WriteString("</m:e>")
		}
		w.sb.WriteString("</m:eqArr>")
		return
	}
	w.sb.WriteString("<m:m>")
	for _, row := range n.Rows {
		w.sb.WriteString("<m:mr>")
		for _, cell := range row {
			w.wrap("m:e", cell, variant)
		}
		w.sb.WriteString("</m:mr>")
	}
	w.sb.WriteString("</m:m>")
}
