package v1

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rtuszik/auto-classifier/internal"
)

// Client provides programmatic access to note classification.
type Client struct {
	notes *internal.NoteService
	cfg   *clientConfig
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(cfg)
	}

	var doer internal.HTTPDoer
	if cfg.httpClient != nil {
		doer = cfg.httpClient
	}

	resolver := internal.NewScopeResolver()

	configFor := func(scope internal.Scope) (*internal.Config, error) {
		return internal.LoadConfig(scope)
	}
	vaultFor := func(scope internal.Scope) (*internal.Vault, error) {
		return internal.OpenVault(scope)
	}

	notes := internal.NewNoteService(
		resolver,
		configFor,
		vaultFor,
		nil,
		internal.NewClassifyUseCase(doer, cfg.logger),
		internal.NewSuggestFilenameUseCase(doer, cfg.logger),
		internal.NewProbeEngineUseCase(doer, cfg.logger),
	)

	return &Client{notes: notes, cfg: cfg}, nil
}

func (c *Client) configure(cfg *internal.Config) {
	if c.cfg.engine != "" {
		cfg.Engine = internal.EngineKind(c.cfg.engine)
	}
	if c.cfg.maxSuggestions != 0 {
		cfg.MaxSuggestions = c.cfg.maxSuggestions
	}
}

// Classify classifies a note and writes the labels into it.
func (c *Client) Classify(ctx context.Context, req ClassifyRequest) (*ClassifyResult, error) {
	input := req.Input
	if input == "" {
		input = InputContent
	}
	kind, err := internal.ParseInputKind(string(input))
	if err != nil {
		return nil, err
	}

	result, err := c.notes.Classify(ctx, internal.ClassifyNoteRequest{
		Path:      req.Path,
		Kind:      kind,
		Selection: req.Selection,
		Scope:     c.cfg.scope,
		DryRun:    req.DryRun,
		Configure: c.configure,
	})
	if result == nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	out := &ClassifyResult{
		RunID:  result.RunID,
		Engine: result.Engine,
		Labels: result.Labels[:result.LabelsApplied],
		Path:   result.Path,
		Diff:   result.Diff,
	}
	if result.Usage != nil {
		out.TokensUsed = result.Usage.TotalTokens
	}
	if err != nil {
		return out, fmt.Errorf("classify: %w", err)
	}
	return out, nil
}

// SuggestFilename proposes a new name for a note and, unless dryRun is
// set, renames it.
func (c *Client) SuggestFilename(ctx context.Context, path string, dryRun bool) (*FilenameSuggestion, error) {
	result, err := c.notes.SuggestName(ctx, internal.SuggestNameRequest{
		Path:      path,
		Scope:     c.cfg.scope,
		DryRun:    dryRun,
		Configure: c.configure,
	})
	if err != nil {
		return nil, fmt.Errorf("suggest filename: %w", err)
	}

	return &FilenameSuggestion{
		From:      result.From,
		Path:      result.Path,
		Sanitized: result.Sanitized,
	}, nil
}

// KnownLabels lists the labels used across the vault. An empty filter
// returns all of them.
func (c *Client) KnownLabels(ctx context.Context, filter string) ([]string, error) {
	labels, err := c.notes.KnownLabels(ctx, c.cfg.scope, filter)
	if err != nil {
		return nil, fmt.Errorf("known labels: %w", err)
	}
	return labels, nil
}

// Close releases any resources held by the client.
func (c *Client) Close() error {
	return nil
}
