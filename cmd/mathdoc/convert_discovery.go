package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	mathdoc "github.com/alnah/go-mathdoc"
)

// Sentinel errors for file discovery.
var (
	ErrNoFiles            = errors.New("no convertible files found")
	ErrInvalidExtension   = errors.New("output extension does not match format")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// sourceTypes maps source file extensions to input types. Directory walks
// only pick up these extensions.
var sourceTypes = map[string]mathdoc.InputType{
	".md":       mathdoc.InputMarkdown,
	".markdown": mathdoc.InputMarkdown,
	".tex":      mathdoc.InputLatex,
	".latex":    mathdoc.InputLatex,
	".txt":      mathdoc.InputPlain,
	".html":     mathdoc.InputHTML,
	".htm":      mathdoc.InputHTML,
}

// outputExts lists the extensions that mark an output path as a file.
var outputExts = map[string]string{
	".docx": formatDocx,
	".pdf":  formatPDF,
	".html": formatHTML,
}

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
	Type       mathdoc.InputType
}

// discoverFiles expands inputs into files to convert. A file input is taken
// whatever its extension, with fallback as its type when the extension is
// unknown. A directory input is walked for known source extensions.
// output is a directory, a single output file, or empty for "next to the
// source".
func discoverFiles(inputs []string, output, format string, fallback mathdoc.InputType) ([]FileToConvert, error) {
	ext := "." + format
	var files []FileToConvert

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			files = append(files, FileToConvert{
				InputPath:  input,
				OutputPath: resolveOutputPath(input, output, "", ext),
				Type:       sourceType(input, fallback),
			})
			continue
		}

		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if d.IsDir() {
				return nil
			}
			t, ok := sourceTypes[strings.ToLower(filepath.Ext(path))]
			if !ok {
				return nil
			}
			// HTML outputs written next to their sources are not sources
			if t == mathdoc.InputHTML && format == formatHTML {
				return nil
			}
			files = append(files, FileToConvert{
				InputPath:  path,
				OutputPath: resolveOutputPath(path, output, input, ext),
				Type:       t,
			})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFiles, strings.Join(inputs, ", "))
	}
	if len(files) > 1 && isOutputFile(output) {
		return nil, fmt.Errorf("%w: output %s is a file but %d inputs were found", ErrUsage, output, len(files))
	}
	return files, nil
}

// sourceType returns the input type implied by path's extension, or fallback.
func sourceType(path string, fallback mathdoc.InputType) mathdoc.InputType {
	if t, ok := sourceTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return t
	}
	return fallback
}

// resolveOutputPath determines the output path for a source file.
func resolveOutputPath(inputPath, output, baseInputDir, ext string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	if output == "" {
		return filepath.Join(filepath.Dir(inputPath), base+ext)
	}

	if isOutputFile(output) {
		return output
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(output, filepath.Dir(relPath), base+ext)
		}
	}

	return filepath.Join(output, base+ext)
}

// isOutputFile reports whether output names a file rather than a directory.
func isOutputFile(output string) bool {
	_, ok := outputExts[strings.ToLower(filepath.Ext(output))]
	return ok
}

// validateOutputExtension checks that an output file path agrees with the
// output format. Directories and empty paths always pass.
func validateOutputExtension(output, format string) error {
	f, ok := outputExts[strings.ToLower(filepath.Ext(output))]
	if !ok || f == format {
		return nil
	}
	return fmt.Errorf("%w: %s for format %s", ErrInvalidExtension, output, format)
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > mathdoc.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, mathdoc.MaxPoolSize)
	}
	return nil
}
