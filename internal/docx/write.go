package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Bytes returns the package for doc.
func Bytes(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write streams the package for doc to w. Math runs are checked for well
// formedness first so that a broken fragment cannot produce a package Word
// refuses to open.
func Write(w io.Writer, doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: nil document", ErrSerialize)
	}
	body, err := documentXML(doc)
	if err != nil {
		return err
	}

	parts := []struct{ name, content string }{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"word/document.xml", body},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/styles.xml", stylesXML},
		{"word/numbering.xml", numberingXML},
		{"docProps/core.xml", corePropsXML(doc)},
	}

	zw := zip.NewWriter(w)
	for _, p := range parts {
		f, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: zip.Deflate})
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrSerialize, p.name, err)
		}
		if _, err := io.WriteString(f, p.content); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrSerialize, p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	return nil
}

func documentXML(doc *Document) (string, error) {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<w:document xmlns:w="` + nsW + `" xmlns:r="` + nsR + `" xmlns:m="` + nsM + `"><w:body>`)
	for i, b := range doc.Blocks {
		if err := writeBlock(&sb, b); err != nil {
			return "", fmt.Errorf("%w: block %d: %w", ErrSerialize, i, err)
		}
	}
	// A4 with 2.54cm margins
	sb.WriteString(`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/>` +
		`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="708" w:footer="708" w:gutter="0"/>` +
		`</w:sectPr></w:body></w:document>`)
	return sb.String(), nil
}

func writeBlock(sb *strings.Builder, b Block) error {
	sb.WriteString("<w:p>")
	if (b.Style != "" && b.Style != StyleNormal) || b.Align != AlignDefault {
		sb.WriteString("<w:pPr>")
		if b.Style != "" && b.Style != StyleNormal {
			sb.WriteString(`<w:pStyle w:val="` + escapeAttr(string(b.Style)) + `"/>`)
		}
		if b.Align != AlignDefault {
			sb.WriteString(`<w:jc w:val="` + escapeAttr(string(b.Align)) + `"/>`)
		}
		sb.WriteString("</w:pPr>")
	}
	for _, r := range b.Runs {
		if r.Math != "" {
			if err := checkMath(r.Math); err != nil {
				return err
			}
			sb.WriteString(r.Math)
			continue
		}
		writeRun(sb, r)
	}
	sb.WriteString("</w:p>")
	return nil
}

func writeRun(sb *strings.Builder, r Run) {
	sb.WriteString("<w:r>")
	color := validColor(r.Color)
	if r.Monospace || r.Bold || r.Italic || color != "" {
		sb.WriteString("<w:rPr>")
		if r.Monospace {
			sb.WriteString(`<w:rFonts w:ascii="Consolas" w:hAnsi="Consolas" w:cs="Consolas"/>`)
		}
		if r.Bold {
			sb.WriteString("<w:b/>")
		}
		if r.Italic {
			sb.WriteString("<w:i/>")
		}
		if color != "" {
			sb.WriteString(`<w:color w:val="` + color + `"/>`)
		}
		sb.WriteString("</w:rPr>")
	}
	for i, line := range strings.Split(r.Text, "\n") {
		if i > 0 {
			sb.WriteString("<w:br/>")
		}
		for j, cell := range strings.Split(line, "\t") {
			if j > 0 {
				sb.WriteString("<w:tab/>")
			}
			if cell == "" {
				continue
			}
			sb.WriteString(`<w:t xml:space="preserve">`)
			writeEscaped(sb, cell)
			sb.WriteString("</w:t>")
		}
	}
	sb.WriteString("</w:r>")
}

// checkMath verifies that an OMML fragment is well formed XML whose
// top-level elements are m:oMath or m:oMathPara.
func checkMath(fragment string) error {
	d := xml.NewDecoder(strings.NewReader(`<root xmlns:m="` + nsM + `">` + fragment + `</root>`))
	depth := 0
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedMath, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 && (t.Name.Space != nsM || t.Name.Local != "oMath" && t.Name.Local != "oMathPara") {
				return fmt.Errorf("%w <%s>", ErrUnexpectedElement, t.Name.Local)
			}
		case xml.EndElement:
			depth--
		}
	}
}

func corePropsXML(doc *Document) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<cp:coreProperties xmlns:cp="` + nsCP + `" xmlns:dc="` + nsDC + `">`)
	if doc.Title != "" {
		sb.WriteString("<dc:title>")
		writeEscaped(&sb, doc.Title)
		sb.WriteString("</dc:title>")
	}
	if doc.Creator != "" {
		sb.WriteString("<dc:creator>")
		writeEscaped(&sb, doc.Creator)
		sb.WriteString("</dc:creator>")
	}
	sb.WriteString("</cp:coreProperties>")
	return sb.String()
}

func writeEscaped(sb *strings.Builder, s string) {
	// strings.Builder never fails
	_ = xml.EscapeText(sb, []byte(s))
}

func escapeAttr(s string) string {
	var sb strings.Builder
	writeEscaped(&sb, s)
	return sb.String()
}

// validColor returns c in upper case if it is six hex digits, else "".
func validColor(c string) string {
	c = strings.TrimPrefix(c, "#")
	if len(c) != 6 {
		return ""
	}
	for _, r := range c {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return ""
		}
	}
	return strings.ToUpper(c)
}
