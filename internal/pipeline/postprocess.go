package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrPostProcess indicates the HTML document could not be rewritten.
var ErrPostProcess = errors.New("HTML post-processing failed")

// ClassAvoidBreak marks elements that must not be split across pages.
const ClassAvoidBreak = "avoid-break"

// PostProcessOptions controls the final rewrite of a rendered document.
type PostProcessOptions struct {
	Title            string   // document title; empty keeps the template title
	BaseDir          string   // directory relative image and link paths resolve against
	AvoidBreakInside []string // CSS selectors tagged with ClassAvoidBreak
}

// PostProcess rewrites a complete HTML document: it sets the title, resolves
// relative img and a paths to file:// URLs under BaseDir, and tags
// AvoidBreakInside matches. Highlight placeholders become <mark> tags.
func PostProcess(ctx context.Context, htmlContent string, opts PostProcessOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(ConvertMarkPlaceholders(htmlContent)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPostProcess, err)
	}

	if opts.Title != "" {
		doc.Find("title").SetText(opts.Title)
	}

	if opts.BaseDir != "" {
		absDir, err := filepath.Abs(opts.BaseDir)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrPostProcess, err)
		}
		doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
			rewriteAttr(s, "src", absDir)
		})
		doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
			rewriteAttr(s, "href", absDir)
		})
	}

	for _, sel := range opts.AvoidBreakInside {
		if strings.TrimSpace(sel) == "" {
			continue
		}
		doc.Find(sel).AddClass(ClassAvoidBreak)
	}

	out, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPostProcess, err)
	}
	return out, nil
}

// rewriteAttr replaces a relative path attribute with a file:// URL. Paths
// escaping dir are left alone.
func rewriteAttr(s *goquery.Selection, attr, dir string) {
	val, ok := s.Attr(attr)
	if !ok || !isRelativePath(val) {
		return
	}
	absPath := filepath.Join(dir, val)
	if !isPathUnderDir(absPath, dir) {
		return
	}
	s.SetAttr(attr, pathToFileURL(absPath))
}

// isRelativePath reports whether path is a local relative reference.
func isRelativePath(path string) bool {
	if path == "" || strings.HasPrefix(path, "#") || strings.HasPrefix(path, "//") {
		return false
	}
	for _, scheme := range []string{"http://", "https://", "file://", "data:", "mailto:"} {
		if strings.HasPrefix(path, scheme) {
			return false
		}
	}
	return !filepath.IsAbs(path)
}

func isPathUnderDir(absPath, dir string) bool {
	cleanDir := filepath.Clean(dir)
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(filepath.Clean(absPath)+string(filepath.Separator), cleanDir)
}

func pathToFileURL(absPath string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}
	return u.String()
}

// FirstHeading returns the trimmed text of the first h1..h6 element, or ""
// when there is none.
func FirstHeading(htmlContent string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("h1, h2, h3, h4, h5, h6").First().Text())
}
