package report

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"solar_payback/pkg/core/payback"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderHTML converts report markdown into a standalone HTML page.
func RenderHTML(markdown, title string) (string, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("REPORT_RENDER_FAILED: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html lang=\"pt-BR\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString(title))
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.String(), nil
}

// Render builds the markdown report for res and returns it as HTML.
func Render(res *payback.PaybackResult, opts Options) (string, error) {
	title := opts.Title
	if title == "" {
		title = "Análise de Payback Solar"
	}
	return RenderHTML(BuildMarkdown(res, opts), title)
}
