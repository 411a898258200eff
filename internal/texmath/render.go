package texmath

import "fmt"

// Renderer converts TeX formula sources into MathML for browsers and OMML
// for word processors. The zero value is ready to use and safe for
// concurrent use.
type Renderer struct{}

// VisualMarkup returns the MathML rendering of src.
func (Renderer) VisualMarkup(src string, display bool) (out string, err error) {
	defer guard(&err)
	root, err := Parse(src)
	if err != nil {
		return "", err
	}
	return MathML(root, src, display), nil
}

// NativeMarkup returns the OMML rendering of src.
func (Renderer) NativeMarkup(src string, display bool) (out string, err error) {
	defer guard(&err)
	root, err := Parse(src)
	if err != nil {
		return "", err
	}
	return OMML(root, display), nil
}

// guard converts a panic during rendering into a syntax error.
func guard(err *error) {
	if r := recover(); r != nil {
		*err = &SyntaxError{Msg: fmt.Sprint(r), Err: ErrSyntax}
	}
}
