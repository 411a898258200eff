// Package texmath parses a practical subset of TeX math and renders it as
// MathML for browsers or Office Math (OMML) for Word documents.
//
// The supported subset covers groups, scripts, fractions, roots, Greek
// letters, operator and relation symbols, function names, big operators,
// \left...\right fences, accents, font commands, \text, spacing commands
// and the matrix, cases and aligned environments. Anything outside it is
// reported as a *SyntaxError instead of being rendered approximately.
package texmath
