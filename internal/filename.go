package internal

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	MaxFilenameLength   = 60
	filenameBodyExcerpt = 2000
	filenameMaxTokens   = 50
)

var (
	filenameTemperature float32 = 0.2
	filenameTopP        float32 = 0.95

	fencedBlock      = regexp.MustCompile("(?s)^```[^\\n]*\\n(.*?)\\n?```$")
	filenameReplacer = strings.NewReplacer(
		"`", "", `"`, "", "/", "", "<", "", ">", "", ":", "",
		`\`, "", "|", "", "?", "", "*", "",
		"\r", " ", "\n", " ", "\t", " ",
	)
)

const filenamePrompt = `Suggest a concise, descriptive file name for the following note.
Answer with the file name only, without extension, quotes or explanation.

Current title: %s

Content:
"""
%s
"""
`

// SanitizeFilename strips code fences and path-unsafe characters from a
// model suggestion and truncates it to MaxFilenameLength characters.
// Applying it to its own output is a no-op.
func SanitizeFilename(raw string) string {
	s := strings.TrimSpace(raw)
	if m := fencedBlock.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	s = filenameReplacer.Replace(s)
	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > MaxFilenameLength {
		s = strings.TrimSpace(string(runes[:MaxFilenameLength]))
	}
	return s
}

// ResolveUniquePath returns the first free path for name in dir, trying
// "name.md", then "name 2.md", "name 3.md" and so on. The note's current
// path counts as free. Existence is re-checked for every candidate.
func ResolveUniquePath(exists func(string) bool, dir, name, current string) string {
	candidate := path.Join(dir, name+".md")
	for i := 2; candidate != current && exists(candidate); i++ {
		candidate = path.Join(dir, fmt.Sprintf("%s %d.md", name, i))
	}
	return candidate
}

func bodyExcerpt(body string) string {
	runes := []rune(body)
	if len(runes) > filenameBodyExcerpt {
		return string(runes[:filenameBodyExcerpt])
	}
	return body
}

type SuggestFilenameInput struct {
	Config Config
	Note   *Note
	Exists func(path string) bool
}

type SuggestFilenameOutput struct {
	RunID     string
	Raw       string
	Sanitized string
	Path      string
}

type SuggestFilenameUseCase struct {
	doer   HTTPDoer
	logger zerolog.Logger
}

func NewSuggestFilenameUseCase(doer HTTPDoer, logger zerolog.Logger) *SuggestFilenameUseCase {
	return &SuggestFilenameUseCase{doer: doer, logger: logger}
}

// Execute asks the engine for a file name and resolves it against the
// note's directory. It does not rename anything.
func (uc *SuggestFilenameUseCase) Execute(ctx context.Context, input SuggestFilenameInput) (*SuggestFilenameOutput, error) {
	cfg := input.Config
	runID := uuid.NewString()
	log := uc.logger.With().Str("run_id", runID).Str("note", input.Note.Path).Logger()

	engine, err := NewEngine(cfg, uc.doer)
	if err != nil {
		return nil, err
	}
	completer, ok := engine.(Completer)
	if !ok {
		return nil, fmt.Errorf("suggest filename with %s: %w", engine.Name(), ErrUnsupported)
	}

	if err := checkCredentials(cfg); err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(filenamePrompt, input.Note.Title, bodyExcerpt(input.Note.Body))
	raw, err := completer.Complete(ctx, CompletionRequest{
		Prompt:      prompt,
		MaxTokens:   filenameMaxTokens,
		Temperature: &filenameTemperature,
		TopP:        &filenameTopP,
	})
	if err != nil {
		log.Error().Err(err).Msg("filename request failed")
		return nil, err
	}

	sanitized := SanitizeFilename(raw)
	if sanitized == "" {
		log.Error().Str("raw", raw).Msg("empty filename after sanitizing")
		return nil, ErrNoFilename
	}

	dir := path.Dir(input.Note.Path)
	target := ResolveUniquePath(input.Exists, dir, sanitized, input.Note.Path)
	log.Debug().Str("raw", raw).Str("path", target).Msg("filename suggested")

	return &SuggestFilenameOutput{
		RunID:     runID,
		Raw:       raw,
		Sanitized: sanitized,
		Path:      target,
	}, nil
}
