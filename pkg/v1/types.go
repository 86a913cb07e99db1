package v1

// Input selects the part of a note sent for classification.
type Input string

const (
	InputSelection   Input = "selection"
	InputTitle       Input = "title"
	InputFrontMatter Input = "frontmatter"
	InputContent     Input = "content"
)

// ClassifyRequest describes one classification of a note.
type ClassifyRequest struct {
	Path      string `json:"path"`
	Input     Input  `json:"input"`
	Selection string `json:"selection,omitempty"`
	DryRun    bool   `json:"dry_run,omitempty"`
}

// ClassifyResult reports the labels written into a note.
type ClassifyResult struct {
	RunID      string   `json:"run_id"`
	Engine     string   `json:"engine"`
	Labels     []string `json:"labels"`
	Path       string   `json:"path"`
	TokensUsed int      `json:"tokens_used,omitempty"`
	Diff       string   `json:"diff,omitempty"`
}

// FilenameSuggestion is a proposed new path for a note.
type FilenameSuggestion struct {
	From      string `json:"from"`
	Path      string `json:"path"`
	Sanitized string `json:"sanitized"`
}
