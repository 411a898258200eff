// Package mathdoc converts documents that mix prose with TeX formulas into
// word-processing documents with native equations, standalone HTML pages,
// and PDF.
//
// # Quick Start
//
// Create a converter, convert, and close when done:
//
//	conv, err := mathdoc.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.ToDocx(ctx, mathdoc.Input{
//	    Content: "# Derivatives\n\nFor $f(x) = x^2$ we get $$f'(x) = 2x$$",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(result.Filename, result.Data, 0644)
//
// # Formulas
//
// Formulas are recognised in four delimiter forms: $...$ and \(...\) inline,
// $$...$$ and \[...\] display. Each body is normalized first: bare function
// names gain a backslash, multi-character subscripts are braced, derivative
// shorthand such as dy/dx becomes a fraction, and Unicode Greek letters and
// arrows become commands. Undelimited formulas in prose, like "x^2 + 1",
// are detected heuristically for the docx output.
//
// A formula that fails to render never fails the conversion. It is kept as
// its delimited source text, logged, and counted in Result.Warnings.
//
// # Outputs
//
// The docx path parses the source into an element sequence (headings,
// paragraphs, list items, code blocks, rules) and writes one native block
// per element. Elements returns that sequence as JSON; Preview renders it
// as an HTML fragment.
//
// The page path renders the whole document through Goldmark with formulas
// spliced in as MathML, applies a stylesheet, and, for ToPDF, rasterizes
// the page with headless Chrome. WithBasicRasterizer prints PDF without a
// browser by using gofpdf, with formulas shown as TeX.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := mathdoc.NewConverter(
//	    mathdoc.WithTimeout(2 * time.Minute),
//	    mathdoc.WithStyle("academic"),
//	    mathdoc.WithLogger(slog.Default()),
//	)
//
// Per-conversion options are passed via Input:
//
//	result, err := conv.ToPDF(ctx, mathdoc.Input{
//	    Content: content,
//	    BaseDir: "/path/to/notes", // for relative image paths
//	    Layout:  &mathdoc.Layout{Size: "letter", Orientation: "portrait", Margin: 1},
//	    Footer:  &mathdoc.Footer{ShowPageNumber: true, Date: "auto"},
//	})
//
// # Parallel Processing
//
// For batch conversion, use ConverterPool:
//
//	pool := mathdoc.NewConverterPool(mathdoc.ResolvePoolSize(0))
//	defer pool.Close()
//
//	conv, err := pool.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(conv)
//
// # Errors
//
// Every entry point returns a *ConversionError whose Kind classifies the
// failure (empty-input, invalid-syntax, unexpected-character, unknown).
// The wrapped sentinel errors can be tested with errors.Is.
package mathdoc
