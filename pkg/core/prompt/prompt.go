// Package prompt provides a centralized prompt library for LLM interactions.
// Prompts are defined in YAML, HJSON or JSON files and loaded at runtime,
// so wording can change without a rebuild.
package prompt

// PromptTemplate represents a reusable prompt with metadata
type PromptTemplate struct {
	ID             string `json:"id" yaml:"id"`                                     // e.g. "narrative.explain"
	Name           string `json:"name" yaml:"name"`                                 // Human-readable name
	Category       string `json:"category" yaml:"category"`                         // Folder name when empty
	Description    string `json:"description" yaml:"description"`                   // Description of prompt purpose
	SystemPrompt   string `json:"system_prompt" yaml:"system_prompt"`               // The system prompt content
	UserPromptTmpl string `json:"user_prompt_template" yaml:"user_prompt_template"` // Go template for user prompt
	Version        string `json:"version" yaml:"version"`
}
