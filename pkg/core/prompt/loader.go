package prompt

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"solar_payback/pkg/core/utils"
)

var promptExts = map[string]bool{".yaml": true, ".yml": true, ".hjson": true, ".json": true}

// LoadFromDirectory registers every prompt file under dir.
// Expected structure:
//
//	dir/
//	  narrative/
//	    explain.yaml   -> "narrative.explain"
func LoadFromDirectory(r *Registry, dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("prompts directory not found: %s", dir)
	}

	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !promptExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		var pt PromptTemplate
		if err := utils.DecodeConfigFile(path, &pt); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}

		// Auto-generate ID from path if not specified
		if pt.ID == "" {
			pt.ID = generateIDFromPath(path, dir)
		}
		if pt.Category == "" {
			pt.Category = detectCategory(path, dir)
		}

		if err := r.Register(&pt); err != nil {
			return fmt.Errorf("failed to register %s: %w", pt.ID, err)
		}
		return nil
	})
}

// generateIDFromPath creates a prompt ID from the file path
// e.g., "prompts/narrative/explain.yaml" -> "narrative.explain"
func generateIDFromPath(path string, baseDir string) string {
	relPath, _ := filepath.Rel(baseDir, path)
	relPath = strings.TrimSuffix(relPath, filepath.Ext(relPath))
	return strings.ReplaceAll(relPath, string(filepath.Separator), ".")
}

// detectCategory extracts the category from the folder structure
func detectCategory(path string, baseDir string) string {
	relPath, _ := filepath.Rel(baseDir, path)
	parts := strings.Split(relPath, string(filepath.Separator))
	if len(parts) > 1 {
		return parts[0]
	}
	return "default"
}

// Parse compiles the user prompt template with funcs available to it.
func Parse(pt *PromptTemplate, funcs template.FuncMap) (*template.Template, error) {
	if strings.TrimSpace(pt.UserPromptTmpl) == "" {
		return nil, fmt.Errorf("prompt %s has no user_prompt_template", pt.ID)
	}
	tmpl, err := template.New(pt.ID).Funcs(funcs).Parse(pt.UserPromptTmpl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return tmpl, nil
}

// Execute renders tmpl with data.
func Execute(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}
