package texmath

import (
	"html"
	"strings"
)

// MathMLNamespace is the MathML namespace URI.
const MathMLNamespace = "http://www.w3.org/1998/Math/MathML"

// TeXAnnotation is the annotation encoding carrying the formula source.
const TeXAnnotation = "application/x-tex"

type mathmlWriter struct {
	sb      strings.Builder
	display bool
}

// MathML renders root as a <math> element. The source is kept in a TeX
// annotation so that non-MathML consumers can fall back to it.
func MathML(root *Node, src string, display bool) string {
	w := &mathmlWriter{display: display}
	w.sb.WriteString(`<math xmlns="` + MathMLNamespace + `"`)
	if display {
		w.sb.WriteString(` display="block"`)
	}
	w.sb.WriteString(`><semantics>`)
	w.arg(root, "")
	w.sb.WriteString(`<annotation encoding="` + TeXAnnotation + `">`)
	w.sb.WriteString(html.EscapeString(src))
	w.sb.WriteString(`</annotation></semantics></math>`)
	return w.sb.String()
}

func (w *mathmlWriter) write(s ...string) {
	for _, part := range s {
		w.sb.WriteString(part)
	}
}

// arg renders n as exactly one MathML element.
func (w *mathmlWriter) arg(n *Node, variant string) {
	if n == nil || n.Kind == KindRow && len(n.Children) != 1 {
		w.sb.WriteString("<mrow>")
		if n != nil {
			for _, c := range n.Children {
				w.node(c, variant)
			}
		}
		w.sb.WriteString("</mrow>")
		return
	}
	w.node(n, variant)
}

func (w *mathmlWriter) leaf(tag, value, variant string) {
	if variant == VariantNormal && tag == "mi" {
		w.write(`<mi mathvariant="normal">`, html.EscapeString(value), "</mi>")
		return
	}
	w.write("<", tag, ">", html.EscapeString(styleText(variant, value)), "</", tag, ">")
}

func (w *mathmlWriter) node(n *Node, variant string) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindRow:
		if len(n.Children) == 1 {
			w.node(n.Children[0], variant)
			return
		}
		w.arg(n, variant)
	case KindIdent:
		w.leaf("mi", n.Value, variant)
	case KindNumber:
		w.leaf("mn", n.Value, variant)
	case KindOperator:
		w.write("<mo>", html.EscapeString(n.Value), "</mo>")
	case KindText:
		w.write("<mtext>", html.EscapeString(n.Value), "</mtext>")
	case KindSpace:
		w.write(`<mspace width="`, n.Value, `"/>`)
	case KindFunc:
		w.write("<mi>", html.EscapeString(n.Value), "</mi>")
		if !n.Limits {
			w.sb.WriteString("<mo>\u2061</mo>")
		}
	case KindBigOp:
		w.write(`<mo largeop="true">`, n.Value, "</mo>")
	case KindFrac:
		if n.Value == "binom" {
			w.sb.WriteString(`<mfrac linethickness="0">`)
		} else {
			w.sb.WriteString("<mfrac>")
		}
		w.arg(n.child(0), variant)
		w.arg(n.child(1), variant)
		w.sb.WriteString("</mfrac>")
	case KindSqrt:
		if idx := n.child(1); idx != nil {
			w.sb.WriteString("<mroot>")
			w.arg(n.child(0), variant)
			w.arg(idx, variant)
			w.sb.WriteString("</mroot>")
			return
		}
		w.sb.WriteString("<msqrt>")
		w.arg(n.child(0), variant)
		w.sb.WriteString("</msqrt>")
	case KindScripts:
		w.scripts(n, variant)
	case KindFenced:
		w.sb.WriteString("<mrow>")
		w.fence(n.Open)
		w.arg(n.child(0), variant)
		w.fence(n.Close)
		w.sb.WriteString("</mrow>")
	case KindAccent:
		a := accents[n.Value]
		if a.under {
			w.sb.WriteString(`<munder accentunder="true">`)
		} else {
			w.sb.WriteString(`<mover accent="true">`)
		}
		w.arg(n.child(0), variant)
		w.write(`<mo stretchy="true">`, html.EscapeString(a.char), "</mo>")
		if a.under {
			w.sb.WriteString("</munder>")
		} else {
			w.sb.WriteString("</mover>")
		}
	case KindStyled:
		w.arg(n.child(0), n.Value)
	case KindMatrix:
		w.matrix(n, variant)
	case KindStack:
		base, over, under := n.child(0), n.child(1), n.child(2)
		switch {
		case over != nil:
			w.sb.WriteString("<mover>")
			w.arg(base, variant)
			w.arg(over, variant)
			w.sb.WriteString("</mover>")
		case under != nil:
			w.sb.WriteString("<munder>")
			w.arg(base, variant)
			w.arg(under, variant)
			w.sb.WriteString("</munder>")
		default:
			w.arg(base, variant)
		}
	}
}

func (w *mathmlWriter) fence(d string) {
	if d == "" {
		return
	}
	w.write(`<mo fence="true" stretchy="true">`, html.EscapeString(d), "</mo>")
}

func (w *mathmlWriter) scripts(n *Node, variant string) {
	base, sub, sup := n.child(0), n.child(1), n.child(2)
	tag := ""
	under := n.Limits && w.display
	switch {
	case sub != nil && sup != nil && under:
		tag = "munderover"
	case sub != nil && sup != nil:
		tag = "msubsup"
	case sub != nil && under:
		tag = "munder"
	case sub != nil:
		tag = "msub"
	case under:
		tag = "mover"
	default:
		tag = "msup"
	}
	w.write("<", tag, ">")
	if base != nil && base.Kind == KindFunc {
		w.write("<mi>", html.EscapeString(base.Value), "</mi>")
	} else {
		w.arg(base, variant)
	}
	if sub != nil {
		w.arg(sub, variant)
	}
	if sup != nil {
		w.arg(sup, variant)
	}
	w.write("</", tag, ">")
}

func (w *mathmlWriter) matrix(n *Node, variant string) {
	align := ""
	switch n.Value {
	case "cases":
		align = ` columnalign="left left"`
	case "aligned", "align", "align*", "split":
		align = ` columnalign="right left"`
	}
	fenced := n.Open != "" || n.Close != ""
	if fenced {
		w.sb.WriteString("<mrow>")
		w.fence(n.Open)
	}
	w.write("<mtable", align, ">")
	for _, row := range n.Rows {
		w.sb.WriteString("<mtr>")
		for _, cell := range row {
			w.sb.WriteString("<mtd>")
			w.arg(cell, variant)
			w.sb.WriteString("</mtd>")
		}
		w.sb.WriteString("</mtr>")
	}
	w.sb.WriteString("</mtable>")
	if fenced {
		w.fence(n.Close)
		w.sb.WriteString("</mrow>")
	}
}
