package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	mathdoc "github.com/alnah/go-mathdoc"
	"github.com/alnah/go-mathdoc/internal/fileutil"
	"github.com/alnah/go-mathdoc/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrNoInput       = errors.New("no input specified")
	ErrReadInput     = errors.New("failed to read input file")
	ErrWriteOutput   = errors.New("failed to write output file")
	ErrConverterInit = errors.New("failed to initialize converter")
	ErrBatchFailed   = errors.New("some conversions failed")
)

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	HTMLPath   string // intermediate HTML, when written
	Warnings   int
	Err        error
	Duration   time.Duration
}

// convertBatch processes files concurrently using the converter pool.
// Results are in the order of files.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv, err := pool.Acquire()
			if err != nil {
				// Converter creation failed, mark this worker's jobs as failed
				for idx := range jobs {
					results[idx] = ConversionResult{InputPath: files[idx].InputPath, Err: err}
				}
				return
			}
			defer pool.Release(conv)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{InputPath: files[idx].InputPath, Err: ctx.Err()}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile converts one file and writes its output.
func convertFile(ctx context.Context, conv CLIConverter, f FileToConvert, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{InputPath: f.InputPath, OutputPath: f.OutputPath}

	res, err := convertSource(ctx, conv, f, params)
	if err == nil {
		result.Warnings = res.Warnings
		result.HTMLPath, err = writeOutputs(f, res, params)
	}
	result.Err = err
	result.Duration = time.Since(start)
	return result
}

// convertSource reads f and converts it without writing anything.
func convertSource(ctx context.Context, conv CLIConverter, f FileToConvert, params *conversionParams) (*mathdoc.Result, error) {
	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
	}

	return convertContent(ctx, conv, params, mathdoc.Input{
		Content: string(content),
		Type:    f.Type,
		Title:   params.title,
		CSS:     params.css,
		BaseDir: absDir(f.InputPath),
		Layout:  params.layout,
		Footer:  params.footer,
	})
}

// writeOutputs writes the converted document and, when requested, its
// intermediate HTML. Returns the HTML path if one was written.
func writeOutputs(f FileToConvert, res *mathdoc.Result, params *conversionParams) (string, error) {
	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return "", fmt.Errorf("%w: creating output directory: %v%s", ErrWriteOutput, err, hints.ForOutputDirectory())
	}

	// #nosec G306 -- documents are meant to be readable
	if err := os.WriteFile(f.OutputPath, res.Data, filePermissions); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	if !params.writeHTML || res.HTML == nil {
		return "", nil
	}
	htmlPath := fileutil.ReplaceExt(f.OutputPath, ".html")
	// #nosec G306 -- HTML files are meant to be readable
	if err := os.WriteFile(htmlPath, res.HTML, filePermissions); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return htmlPath, nil
}

// convertContent dispatches to the converter entry point for params.format.
func convertContent(ctx context.Context, conv CLIConverter, params *conversionParams, in mathdoc.Input) (*mathdoc.Result, error) {
	switch params.format {
	case formatPDF:
		return conv.ToPDF(ctx, in)
	case formatHTML:
		return conv.ToHTML(ctx, in)
	default:
		return conv.ToDocx(ctx, in)
	}
}

// absDir returns the absolute directory of path, or its plain directory
// when the working directory is unknown.
func absDir(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Dir(path)
	}
	return filepath.Dir(abs)
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
	Warnings  int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
			continue
		}
		summary.Succeeded++
		summary.Warnings += r.Warnings
	}
	return summary
}

// printResults outputs conversion results and returns an error wrapping
// the first failure, or nil.
func printResults(results []ConversionResult, quiet, verbose bool, env *Environment) error {
	summary := countResults(results)
	var first error

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err))
			if first == nil {
				first = r.Err
			}
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
		if r.HTMLPath != "" {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.HTMLPath)
		}
		if r.Warnings > 0 {
			fmt.Fprintf(env.Stderr, "warning: %s: %d formula(s) or element(s) kept as text%s\n", r.InputPath, r.Warnings, hints.ForFormulaSyntax())
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	if first == nil {
		return nil
	}
	if summary.Failed == 1 && len(results) == 1 {
		return errReported{first}
	}
	return errReported{fmt.Errorf("%w: %d of %d: %w", ErrBatchFailed, summary.Failed, len(results), first)}
}
