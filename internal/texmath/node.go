package texmath

// Kind tags a Node.
type Kind int

// Node kinds.
const (
	KindRow       Kind = iota // Children in sequence
	KindIdent                 // Value: identifier text
	KindNumber                // Value: digits
	KindOperator              // Value: operator glyph
	KindText                  // Value: literal text
	KindSpace                 // Value: em width
	KindFunc                  // Value: function name; Limits for lim-like names
	KindBigOp                 // Value: operator glyph; Limits for sum-like operators
	KindFrac                  // Children: numerator, denominator; Value "binom" hides the bar
	KindSqrt                  // Children: radicand and optional index
	KindScripts               // Children: base, sub, sup; sub or sup may be nil
	KindFenced                // Open, Close; Children: body
	KindAccent                // Value: accent name; Children: body
	KindStyled                // Value: font variant; Children: body
	KindMatrix                // Rows of cells; Value: environment; Open, Close
	KindStack                 // Children: base, over, under; over or under may be nil
)

// Node is one element of a parsed formula.
type Node struct {
	Kind     Kind
	Value    string
	Children []*Node
	Rows     [][]*Node
	Open     string
	Close    string
	Limits   bool
}

// child returns the i-th child or nil.
func (n *Node) child(i int) *Node {
	if n == nil || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// isEmpty reports whether n renders nothing.
func (n *Node) isEmpty() bool {
	return n == nil || n.Kind == KindRow && len(n.Children) == 0
}
