package utils

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// CleanMarkdown strips outer code fences that models like to wrap answers in.
func CleanMarkdown(input string) string {
	cleaned := strings.TrimSpace(input)

	if !strings.HasPrefix(cleaned, "```") || !strings.HasSuffix(cleaned, "```") || len(cleaned) < 6 {
		return cleaned
	}

	// Drop the opening fence line, including any info string (```markdown, ```md)
	body := strings.TrimSuffix(cleaned, "```")
	if nl := strings.Index(body, "\n"); nl >= 0 {
		body = body[nl+1:]
	} else {
		body = strings.TrimPrefix(body, "```")
	}
	return strings.TrimSpace(body)
}

// ValidateMarkdown parses input with goldmark and rejects documents that are
// empty or that still contain code blocks or raw HTML.
func ValidateMarkdown(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("MARKDOWN_EMPTY: document has no content")
	}

	source := []byte(input)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))
	if doc == nil || doc.ChildCount() == 0 {
		return fmt.Errorf("MARKDOWN_EMPTY: document has no blocks")
	}

	var offending string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindFencedCodeBlock, ast.KindCodeBlock, ast.KindHTMLBlock, ast.KindRawHTML:
			offending = n.Kind().String()
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	if offending != "" {
		return fmt.Errorf("MARKDOWN_INVALID: unexpected %s", offending)
	}
	return nil
}
