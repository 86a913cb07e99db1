package internal

import "strings"

const (
	InputPlaceholder     = "{{input}}"
	ReferencePlaceholder = "{{reference}}"
)

const DefaultSystemRole = "You are a JSON answer bot. Don't answer other words."

const DefaultPromptTemplate = `Classify this content:
"""
{{input}}
"""
Answer format is JSON {reliability:0~1, outputs:[tag1,tag2,...]}.
Even if you are unsure, qualify the reliability and select the best matches.
Output tags must be from these options:

{{reference}}
`

const DefaultPromptTemplateWithoutReferences = `Classify this content:
"""
{{input}}
"""
Answer format is JSON {reliability:0~1, outputs:[tag1,tag2,...]}.
Even if you are unsure, qualify the reliability and suggest new tags that fit the content.
`

// RenderPrompt substitutes the first {{input}} and the first {{reference}}
// token of template. References are joined with a comma.
func RenderPrompt(template, input string, references []string) string {
	out := strings.Replace(template, InputPlaceholder, input, 1)
	out = strings.Replace(out, ReferencePlaceholder, strings.Join(references, ","), 1)
	return out
}

// promptFor returns the system role and template to use. Without a custom
// prompt the default template is picked by whether references are in use.
func promptFor(cfg GenerativeConfig, useReferences bool) (string, string) {
	role := DefaultSystemRole
	template := DefaultPromptTemplate
	if !useReferences {
		template = DefaultPromptTemplateWithoutReferences
	}

	if !cfg.UseCustomPrompt {
		return role, template
	}
	if cfg.SystemRole != "" {
		role = cfg.SystemRole
	}
	if cfg.PromptTemplate != "" {
		template = cfg.PromptTemplate
	}
	return role, template
}
