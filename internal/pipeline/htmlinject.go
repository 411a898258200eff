package pipeline

import (
	"context"
	"strings"
)

// StyleInjector inserts stylesheets into an HTML document.
type StyleInjector interface {
	InjectStyles(ctx context.Context, htmlContent string, sheets ...string) string
}

// StyleInjection injects each stylesheet as its own <style> block, in order.
type StyleInjection struct{}

// InjectStyles inserts one <style> block per non-empty sheet. Blocks go
// before </head>, else right after <body>, else in front of the content.
// Sheets are sanitized so they cannot close the style element.
func (s *StyleInjection) InjectStyles(ctx context.Context, htmlContent string, sheets ...string) string {
	if ctx.Err() != nil {
		return htmlContent
	}

	var blocks strings.Builder
	for _, css := range sheets {
		if strings.TrimSpace(css) == "" {
			continue
		}
		blocks.WriteString("<style>")
		blocks.WriteString(sanitizeCSS(css))
		blocks.WriteString("</style>")
	}
	if blocks.Len() == 0 {
		return htmlContent
	}
	styles := blocks.String()
	lower := strings.ToLower(htmlContent)

	if idx := strings.Index(lower, "</head>"); idx != -1 {
		return htmlContent[:idx] + styles + htmlContent[idx:]
	}
	if idx := strings.Index(lower, "<body"); idx != -1 {
		if end := strings.Index(htmlContent[idx:], ">"); end != -1 {
			at := idx + end + 1
			return htmlContent[:at] + styles + htmlContent[at:]
		}
	}
	return styles + htmlContent
}

// sanitizeCSS escapes "</" so a sheet cannot terminate its <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
