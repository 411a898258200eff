// Package fileutil holds path helpers shared by the converter, the CLI and
// configuration lookup.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrBadExtension indicates a temp file extension that could escape the
// temp directory or is empty.
var ErrBadExtension = errors.New("invalid temp file extension")

// WriteTempFile stores content in a new "mathdoc-*.<ext>" file under the
// system temp directory. The caller must run cleanup once done with path.
func WriteTempFile(content, ext string) (path string, cleanup func(), err error) {
	if ext == "" || strings.ContainsAny(ext, "/\\\x00") {
		return "", nil, fmt.Errorf("%w: %q", ErrBadExtension, ext)
	}

	f, err := os.CreateTemp("", "mathdoc-*."+ext)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	path = f.Name()
	cleanup = func() { _ = os.Remove(path) }

	_, err = f.WriteString(content)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", err)
	}
	return path, cleanup, nil
}

// FileExists reports whether path names a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// IsFilePath reports whether s is a path rather than a bare name such as a
// style or config name. Any separator makes it a path.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsCSS reports whether s is inline CSS rather than a name or path.
func IsCSS(s string) bool {
	return strings.Contains(s, "{")
}

// ReplaceExt swaps the extension of path for ext, which includes the dot.
// A path without extension gets ext appended.
func ReplaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
