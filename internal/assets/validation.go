package assets

import "fmt"

// maxStyleNameLength bounds a style name; longer values are paths or CSS.
const maxStyleNameLength = 64

// ValidateStyleName accepts names made of ASCII letters, digits, '-' and
// '_', starting with a letter or digit. Anything else could address a file
// outside the styles directory.
func ValidateStyleName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if len(name) > maxStyleNameLength {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInvalidAssetName, len(name), maxStyleNameLength)
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case (c == '-' || c == '_') && i > 0:
		default:
			return fmt.Errorf("%w: %q (byte %d)", ErrInvalidAssetName, name, i)
		}
	}
	return nil
}
