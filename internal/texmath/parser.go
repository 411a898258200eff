package texmath

import (
	"fmt"
	"strings"
	"unicode"
)

// maxDepth bounds group nesting.
const maxDepth = 200

// stop lists the terminators a row may end on.
type stop struct {
	brace   bool // }
	bracket bool // ] of an optional argument
	env     bool // & \\ \end
	right   bool // \right
}

type parser struct {
	src   []rune
	pos   int
	depth int
}

// Parse parses src into a row node.
func Parse(src string) (*Node, error) {
	p := &parser{src: []rune(src)}
	return p.parseRow(stop{})
}

func (p *parser) errorf(kind error, format string, args ...any) error {
	return &SyntaxError{Pos: p.pos, Msg: fmt.Sprintf(format, args...), Err: kind}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for !p.eof() && unicode.IsSpace(p.src[p.pos]) {
		p.pos++
	}
}

// peekCommand returns the command name at the cursor without consuming it.
func (p *parser) peekCommand() (string, int) {
	if p.peek() != '\\' || p.pos+1 >= len(p.src) {
		return "", 0
	}
	i := p.pos + 1
	if !isASCIILetter(p.src[i]) {
		return string(p.src[i]), 2
	}
	for i < len(p.src) && isASCIILetter(p.src[i]) {
		i++
	}
	// starred forms such as align* and operatorname*
	if i < len(p.src) && p.src[i] == '*' {
		switch string(p.src[p.pos+1 : i]) {
		case "operatorname", "hspace":
			i++
		}
	}
	return string(p.src[p.pos+1 : i]), i - p.pos
}

func (p *parser) parseRow(s stop) (*Node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		return nil, p.errorf(ErrSyntax, "formula nested too deeply")
	}

	row := &Node{Kind: KindRow}
	for {
		p.skipSpace()
		if p.eof() {
			switch {
			case s.brace:
				return nil, p.errorf(ErrSyntax, "missing }")
			case s.bracket:
				return nil, p.errorf(ErrSyntax, "missing ]")
			case s.env:
				return nil, p.errorf(ErrSyntax, `missing \end`)
			case s.right:
				return nil, p.errorf(ErrSyntax, `missing \right`)
			}
			return row, nil
		}

		switch r := p.peek(); {
		case r == '}':
			if s.brace {
				return row, nil
			}
			return nil, p.errorf(ErrSyntax, "unmatched }")
		case r == ']' && s.bracket:
			return row, nil
		case r == '&':
			if s.env {
				return row, nil
			}
			return nil, p.errorf(ErrSyntax, "misplaced &")
		case r == '\\':
			name, _ := p.peekCommand()
			switch name {
			case `\`:
				if s.env {
					return row, nil
				}
				p.pos += 2 // line break outside an environment
				continue
			case "end":
				if s.env {
					return row, nil
				}
				return nil, p.errorf(ErrSyntax, `unexpected \end`)
			case "right":
				if s.right {
					return row, nil
				}
				return nil, p.errorf(ErrSyntax, `unexpected \right`)
			}
		}

		n, err := p.parseScripted()
		if err != nil {
			return nil, err
		}
		if n != nil {
			row.Children = append(row.Children, n)
		}
	}
}

// parseScripted parses an atom followed by any ^, _ and prime scripts.
func (p *parser) parseScripted() (*Node, error) {
	var base *Node
	if r := p.peek(); r != '^' && r != '_' && r != '\'' {
		var err error
		base, err = p.parseAtom()
		if err != nil {
			return nil, err
		}
	}

	var sub, sup *Node
	limits := base != nil && base.Limits
	scripted := false
	for {
		p.skipSpace()
		if name, n := p.peekCommand(); name == "limits" || name == "nolimits" {
			p.pos += n
			limits = name == "limits"
			continue
		}
		switch p.peek() {
		case '^':
			if sup != nil {
				return nil, p.errorf(ErrSyntax, "double superscript")
			}
			p.pos++
			arg, err := p.parseArg()
			if err != nil {
				return nil, err
			}
			sup = arg
		case '_':
			if sub != nil {
				return nil, p.errorf(ErrSyntax, "double subscript")
			}
			p.pos++
			arg, err := p.parseArg()
			if err != nil {
				return nil, err
			}
			sub = arg
		case '\'':
			if sup != nil {
				return nil, p.errorf(ErrSyntax, "double superscript")
			}
			var primes strings.Builder
			for p.peek() == '\'' {
				primes.WriteString("′")
				p.pos++
			}
			sup = &Node{Kind: KindOperator, Value: primes.String()}
			if p.peek() == '^' {
				p.pos++
				arg, err := p.parseArg()
				if err != nil {
					return nil, err
				}
				sup = &Node{Kind: KindRow, Children: []*Node{sup, arg}}
			}
		default:
			if !scripted {
				return base, nil
			}
			if base == nil {
				base = &Node{Kind: KindRow}
			}
			return &Node{Kind: KindScripts, Children: []*Node{base, sub, sup}, Limits: limits}, nil
		}
		scripted = true
	}
}

// parseArg parses one macro argument: a braced group or a single token.
func (p *parser) parseArg() (*Node, error) {
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf(ErrSyntax, "missing argument")
	}
	switch r := p.peek(); {
	case r == '{':
		return p.parseGroup()
	case r == '}' || r == '&' || r == '^' || r == '_':
		return nil, p.errorf(ErrSyntax, "missing argument")
	case isDigit(r):
		p.pos++
		return &Node{Kind: KindNumber, Value: string(r)}, nil
	}
	n, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if n == nil {
		return &Node{Kind: KindRow}, nil
	}
	return n, nil
}

func (p *parser) parseGroup() (*Node, error) {
	if p.peek() != '{' {
		return nil, p.errorf(ErrSyntax, "expected {")
	}
	p.pos++
	row, err := p.parseRow(stop{brace: true})
	if err != nil {
		return nil, err
	}
	p.pos++ // }
	return row, nil
}

// parseAtom parses a single atom. It returns nil for commands that
// produce no output.
func (p *parser) parseAtom() (*Node, error) {
	p.skipSpace()
	r := p.peek()
	switch {
	case r == '{':
		return p.parseGroup()
	case r == '\\':
		return p.parseCommand()
	case isDigit(r):
		return p.parseNumber(), nil
	case r == '~':
		p.pos++
		return &Node{Kind: KindSpace, Value: "0.25em"}, nil
	case strings.ContainsRune(singleCharOps, r):
		p.pos++
		if g, ok := operatorGlyph[r]; ok {
			return &Node{Kind: KindOperator, Value: g}, nil
		}
		return &Node{Kind: KindOperator, Value: string(r)}, nil
	case unicode.IsLetter(r) || unicode.IsMark(r):
		p.pos++
		return &Node{Kind: KindIdent, Value: string(r)}, nil
	case r >= 0x80 && (unicode.IsSymbol(r) || unicode.IsPunct(r)):
		p.pos++
		return &Node{Kind: KindOperator, Value: string(r)}, nil
	}
	return nil, p.errorf(ErrUnexpectedChar, "%q", r)
}

func (p *parser) parseNumber() *Node {
	start := p.pos
	for !p.eof() {
		r := p.peek()
		if isDigit(r) || r == '.' && p.pos+1 < len(p.src) && isDigit(p.src[p.pos+1]) && p.pos > start {
			p.pos++
			continue
		}
		break
	}
	return &Node{Kind: KindNumber, Value: string(p.src[start:p.pos])}
}

func (p *parser) parseCommand() (*Node, error) {
	start := p.pos
	name, n := p.peekCommand()
	if n == 0 {
		return nil, p.errorf(ErrSyntax, `lone \`)
	}
	p.pos += n

	if w, ok := spaces[name]; ok {
		return &Node{Kind: KindSpace, Value: w}, nil
	}
	if len(name) == 1 && !isASCIILetter(rune(name[0])) {
		switch name {
		case "{", "}", "|", "%", "#", "&", "_", "$":
			v := name
			if name == "|" {
				v = "‖"
			}
			return &Node{Kind: KindOperator, Value: v}, nil
		}
		p.pos = start
		return nil, p.errorf(ErrSyntax, `undefined control sequence \%s`, name)
	}

	if v, ok := greek[name]; ok {
		return &Node{Kind: KindIdent, Value: v}, nil
	}
	if v, ok := identSymbols[name]; ok {
		return &Node{Kind: KindIdent, Value: v}, nil
	}
	if v, ok := opSymbols[name]; ok {
		return &Node{Kind: KindOperator, Value: v}, nil
	}
	if v, ok := functions[name]; ok {
		return &Node{Kind: KindFunc, Value: v}, nil
	}
	if v, ok := limitFunctions[name]; ok {
		return &Node{Kind: KindFunc, Value: v, Limits: true}, nil
	}
	if op, ok := bigOperators[name]; ok {
		return &Node{Kind: KindBigOp, Value: op.symbol, Limits: op.limits}, nil
	}
	if _, ok := accents[name]; ok {
		body, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: KindAccent, Value: name, Children: []*Node{body}}, nil
	}
	if v, ok := fonts[name]; ok {
		body, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: KindStyled, Value: v, Children: []*Node{body}}, nil
	}
	if textCommands[name] {
		txt, err := p.rawGroup()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: KindText, Value: txt}, nil
	}
	if ignored[name] {
		return nil, nil
	}
	if sizedDelimiters[name] {
		d, err := p.parseDelimiter()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: KindOperator, Value: d}, nil
	}

	switch name {
	case "frac", "dfrac", "tfrac", "cfrac", "binom", "dbinom", "tbinom":
		num, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		den, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		frac := &Node{Kind: KindFrac, Children: []*Node{num, den}}
		if strings.HasSuffix(name, "binom") {
			frac.Value = "binom"
			return &Node{Kind: KindFenced, Open: "(", Close: ")", Children: []*Node{frac}}, nil
		}
		return frac, nil
	case "sqrt":
		return p.parseSqrt()
	case "left":
		return p.parseFenced()
	case "begin":
		return p.parseEnvironment()
	case "operatorname", "operatorname*":
		txt, err := p.rawGroup()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: KindFunc, Value: strings.TrimSpace(txt), Limits: name == "operatorname*"}, nil
	case "not":
		target, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		if target == nil || target.Kind != KindOperator && target.Kind != KindIdent {
			return nil, p.errorf(ErrSyntax, `\not must precede a symbol`)
		}
		return &Node{Kind: KindOperator, Value: negate(target.Value)}, nil
	case "stackrel", "overset", "underset":
		first, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		base, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		if name == "underset" {
			return &Node{Kind: KindStack, Children: []*Node{base, nil, first}}, nil
		}
		return &Node{Kind: KindStack, Children: []*Node{base, first, nil}}, nil
	case "mod", "bmod":
		return &Node{Kind: KindFunc, Value: "mod"}, nil
	case "pmod":
		arg, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		body := &Node{Kind: KindRow, Children: []*Node{{Kind: KindFunc, Value: "mod"}, arg}}
		return &Node{Kind: KindFenced, Open: "(", Close: ")", Children: []*Node{body}}, nil
	case "hspace", "hspace*":
		if _, err := p.rawGroup(); err != nil {
			return nil, err
		}
		return &Node{Kind: KindSpace, Value: "1em"}, nil
	}

	p.pos = start
	return nil, p.errorf(ErrSyntax, `undefined control sequence \%s`, name)
}

func (p *parser) parseSqrt() (*Node, error) {
	p.skipSpace()
	var index *Node
	if p.peek() == '[' {
		p.pos++
		var err error
		index, err = p.parseRow(stop{bracket: true})
		if err != nil {
			return nil, err
		}
		p.pos++ // ]
	}
	body, err := p.parseArg()
	if err != nil {
		return nil, err
	}
	if index != nil {
		return &Node{Kind: KindSqrt, Children: []*Node{body, index}}, nil
	}
	return &Node{Kind: KindSqrt, Children: []*Node{body}}, nil
}

func (p *parser) parseFenced() (*Node, error) {
	open, err := p.parseDelimiter()
	if err != nil {
		return nil, err
	}
	body, err := p.parseRow(stop{right: true})
	if err != nil {
		return nil, err
	}
	_, n := p.peekCommand()
	p.pos += n // \right
	closing, err := p.parseDelimiter()
	if err != nil {
		return nil, err
	}
	return &Node{Kind: KindFenced, Open: open, Close: closing, Children: []*Node{body}}, nil
}

// parseDelimiter reads the delimiter following \left, \right or \big.
// A period denotes an invisible delimiter.
func (p *parser) parseDelimiter() (string, error) {
	p.skipSpace()
	if p.eof() {
		return "", p.errorf(ErrSyntax, "missing delimiter")
	}
	r := p.peek()
	switch r {
	case '.':
		p.pos++
		return "", nil
	case '(', ')', '[', ']', '|', '/':
		p.pos++
		return string(r), nil
	case '<':
		p.pos++
		return "⟨", nil
	case '>':
		p.pos++
		return "⟩", nil
	case '\\':
		name, n := p.peekCommand()
		var d string
		switch name {
		case "{", "lbrace":
			d = "{"
		case "}", "rbrace":
			d = "}"
		case "|", "Vert", "lVert", "rVert":
			d = "‖"
		case "vert", "lvert", "rvert":
			d = "|"
		case "langle", "rangle", "lfloor", "rfloor", "lceil", "rceil", "uparrow", "downarrow":
			d = opSymbols[name]
		default:
			return "", p.errorf(ErrSyntax, `invalid delimiter \%s`, name)
		}
		p.pos += n
		return d, nil
	}
	return "", p.errorf(ErrSyntax, "invalid delimiter %q", r)
}

func (p *parser) parseEnvironment() (*Node, error) {
	name, err := p.rawGroup()
	if err != nil {
		return nil, err
	}
	fences, ok := environments[name]
	if !ok {
		return nil, p.errorf(ErrSyntax, "unknown environment %q", name)
	}
	if name == "array" {
		if _, err := p.rawGroup(); err != nil {
			return nil, err
		}
	}

	var (
		rows [][]*Node
		row  []*Node
	)
	for {
		cell, err := p.parseRow(stop{env: true})
		if err != nil {
			return nil, err
		}
		row = append(row, cell)

		if p.peek() == '&' {
			p.pos++
			continue
		}
		cmd, n := p.peekCommand()
		p.pos += n
		if cmd == `\` {
			rows = append(rows, row)
			row = nil
			continue
		}
		// \end
		endName, err := p.rawGroup()
		if err != nil {
			return nil, err
		}
		if endName != name {
			return nil, p.errorf(ErrSyntax, `\begin{%s} closed by \end{%s}`, name, endName)
		}
		if !(len(row) == 1 && row[0].isEmpty() && len(rows) > 0) {
			rows = append(rows, row)
		}
		return &Node{Kind: KindMatrix, Value: name, Rows: rows, Open: fences[0], Close: fences[1]}, nil
	}
}

// rawGroup reads a braced argument verbatim, honouring nested braces.
func (p *parser) rawGroup() (string, error) {
	p.skipSpace()
	if p.peek() != '{' {
		return "", p.errorf(ErrSyntax, "expected {")
	}
	p.pos++
	start := p.pos
	depth := 1
	for !p.eof() {
		switch p.src[p.pos] {
		case '\\':
			p.pos++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				s := string(p.src[start:p.pos])
				p.pos++
				return s, nil
			}
		}
		p.pos++
	}
	return "", p.errorf(ErrSyntax, "missing }")
}

// negate overlays a combining long solidus, using precomposed forms where
// Unicode has them.
func negate(s string) string {
	switch s {
	case "=":
		return "≠"
	case "∈":
		return "∉"
	case "≡":
		return "≢"
	case "⊂":
		return "⊄"
	case "⊆":
		return "⊈"
	case "<":
		return "≮"
	case ">":
		return "≯"
	case "≤":
		return "≰"
	case "≥":
		return "≱"
	case "∼":
		return "≁"
	case "≈":
		return "≉"
	}
	return s + "\u0338"
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
