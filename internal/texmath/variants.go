package texmath

import "strings"

// alphabet locates a styled Unicode alphabet. Zero offsets mean the
// variant has no styled form for that class.
type alphabet struct {
	upper, lower, digit rune
	holes               map[rune]rune
}

// Mathematical Alphanumeric Symbols block, with the letters encoded
// elsewhere listed as holes.
var alphabets = map[string]alphabet{
	VariantBold:       {upper: 0x1D400, lower: 0x1D41A, digit: 0x1D7CE},
	VariantItalic:     {upper: 0x1D434, lower: 0x1D44E, holes: map[rune]rune{'h': 'ℎ'}},
	VariantBoldItalic: {upper: 0x1D468, lower: 0x1D482},
	VariantScript: {upper: 0x1D49C, lower: 0x1D4B6, holes: map[rune]rune{
		'B': 'ℬ', 'E': 'ℰ', 'F': 'ℱ', 'H': 'ℋ', 'I': 'ℐ', 'L': 'ℒ', 'M': 'ℳ', 'R': 'ℛ',
		'e': 'ℯ', 'g': 'ℊ', 'o': 'ℴ',
	}},
	VariantFraktur: {upper: 0x1D504, lower: 0x1D51E, holes: map[rune]rune{
		'C': 'ℭ', 'H': 'ℌ', 'I': 'ℑ', 'R': 'ℜ', 'Z': 'ℨ',
	}},
	VariantDoubleStruck: {upper: 0x1D538, lower: 0x1D552, digit: 0x1D7D8, holes: map[rune]rune{
		'C': 'ℂ', 'H': 'ℍ', 'N': 'ℕ', 'P': 'ℙ', 'Q': 'ℚ', 'R': 'ℝ', 'Z': 'ℤ',
	}},
	VariantSansSerif: {upper: 0x1D5A0, lower: 0x1D5BA, digit: 0x1D7E2},
	VariantMonospace: {upper: 0x1D670, lower: 0x1D68A, digit: 0x1D7F6},
}

// styleText maps ASCII letters and digits of s into the variant's alphabet.
// Characters without a styled form are kept.
func styleText(variant, s string) string {
	a, ok := alphabets[variant]
	if !ok {
		return s
	}
	var sb strings.Builder
	for _, r := range s {
		if h, ok := a.holes[r]; ok {
			sb.WriteRune(h)
			continue
		}
		switch {
		case r >= 'A' && r <= 'Z' && a.upper != 0:
			sb.WriteRune(a.upper + r - 'A')
		case r >= 'a' && r <= 'z' && a.lower != 0:
			sb.WriteRune(a.lower + r - 'a')
		case r >= '0' && r <= '9' && a.digit != 0:
			sb.WriteRune(a.digit + r - '0')
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
