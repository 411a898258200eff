// Package pipeline implements the page path: Markdown with formulas to a
// styled HTML document ready for rasterizing.
//
// The stages, in order:
//   - ProtectFormulas swaps delimited formulas for placeholders
//   - CommonMarkPreprocessor normalizes line endings and highlights
//   - GoldmarkConverter renders Markdown to HTML
//   - RenderFormulas splices MathML (or literal fallbacks) into the HTML
//   - StyleInjection adds the stylesheets
//   - PostProcess sets the title, resolves relative paths and tags
//     elements that must not break across pages
//
// PDF generation is handled by the root package.
package pipeline
