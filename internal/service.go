package internal

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

type ClassifyNoteRequest struct {
	Path      string
	Kind      InputKind
	FromLine  int // 1-based, selection input only
	ToLine    int
	Selection string // explicit selection text, wins over the line range
	Scope     string
	DryRun    bool
	Commit    bool
	Configure func(*Config)
}

type ClassifyNoteResult struct {
	*ClassifyOutput
	Path   string
	Diff   string
	Commit *Commit
}

type SuggestNameRequest struct {
	Path      string
	Scope     string
	DryRun    bool
	Commit    bool
	Configure func(*Config)
}

type SuggestNameResult struct {
	*SuggestFilenameOutput
	From   string
	Commit *Commit
}

// NoteService runs the use cases against notes stored in a vault.
type NoteService struct {
	resolver   *ScopeResolver
	configFor  func(Scope) (*Config, error)
	vaultFor   func(Scope) (*Vault, error)
	historyFor func(Scope) (*History, error)
	classify   *ClassifyUseCase
	suggest    *SuggestFilenameUseCase
	probe      *ProbeEngineUseCase
}

func NewNoteService(
	resolver *ScopeResolver,
	configFor func(Scope) (*Config, error),
	vaultFor func(Scope) (*Vault, error),
	historyFor func(Scope) (*History, error),
	classify *ClassifyUseCase,
	suggest *SuggestFilenameUseCase,
	probe *ProbeEngineUseCase,
) *NoteService {
	return &NoteService{
		resolver:   resolver,
		configFor:  configFor,
		vaultFor:   vaultFor,
		historyFor: historyFor,
		classify:   classify,
		suggest:    suggest,
		probe:      probe,
	}
}

// config loads a fresh snapshot for one invocation.
func (s *NoteService) config(scope Scope, configure func(*Config)) (Config, error) {
	cfg, err := s.configFor(scope)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if configure != nil {
		configure(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return *cfg, nil
}

func (s *NoteService) open(scopeHint, notePath string) (*Vault, *Note, error) {
	vault, err := s.vaultFor(s.resolver.Resolve(scopeHint))
	if err != nil {
		return nil, nil, fmt.Errorf("open vault: %w", err)
	}

	rel, err := vault.Rel(notePath)
	if err != nil {
		return nil, nil, err
	}

	note, err := vault.Load(rel)
	if err != nil {
		return nil, nil, err
	}
	return vault, note, nil
}

func (s *NoteService) Classify(ctx context.Context, req ClassifyNoteRequest) (*ClassifyNoteResult, error) {
	scope := s.resolver.Resolve(req.Scope)
	cfg, err := s.config(scope, req.Configure)
	if err != nil {
		return nil, err
	}

	vault, note, err := s.open(req.Scope, req.Path)
	if err != nil {
		return nil, err
	}

	if req.Kind == InputSelection {
		switch {
		case req.Selection != "":
			if !note.SelectText(req.Selection) {
				return nil, fmt.Errorf("%w: selection not found in %s", ErrInputMissing, note.Path)
			}
		case req.FromLine > 0:
			if err := note.SelectLines(req.FromLine, req.ToLine); err != nil {
				return nil, err
			}
		}
	}

	before := string(note.Render())
	oldPath := note.Path

	out, classifyErr := s.classify.Execute(ctx, ClassifyInput{
		Config: cfg,
		Kind:   req.Kind,
		Source: note,
		Placer: NewNotePlacer(note),
	})
	if out == nil || out.LabelsApplied == 0 {
		return nil, classifyErr
	}

	result := &ClassifyNoteResult{ClassifyOutput: out, Path: oldPath}
	if req.DryRun {
		result.Path = vault.Target(note)
		result.Diff = NoteDiff(oldPath, result.Path, before, string(note.Render()))
		return result, classifyErr
	}

	touched, err := vault.Save(note)
	if err != nil {
		return nil, errors.Join(classifyErr, err)
	}
	result.Path = note.Path

	if req.Commit {
		msg := fmt.Sprintf("autoclass: tag %s with %s", note.Path, strings.Join(out.Labels[:out.LabelsApplied], ", "))
		commit, err := s.commit(ctx, scope, vault, msg, touched)
		if err != nil {
			return result, errors.Join(classifyErr, err)
		}
		result.Commit = commit
	}

	return result, classifyErr
}

func (s *NoteService) SuggestName(ctx context.Context, req SuggestNameRequest) (*SuggestNameResult, error) {
	scope := s.resolver.Resolve(req.Scope)
	cfg, err := s.config(scope, req.Configure)
	if err != nil {
		return nil, err
	}

	vault, note, err := s.open(req.Scope, req.Path)
	if err != nil {
		return nil, err
	}

	out, err := s.suggest.Execute(ctx, SuggestFilenameInput{
		Config: cfg,
		Note:   note,
		Exists: vault.Exists,
	})
	if err != nil {
		return nil, err
	}

	result := &SuggestNameResult{SuggestFilenameOutput: out, From: note.Path}
	if req.DryRun || out.Path == note.Path {
		return result, nil
	}

	if err := vault.Rename(note.Path, out.Path); err != nil {
		return nil, err
	}

	if req.Commit {
		msg := fmt.Sprintf("autoclass: rename %s to %s", note.Path, out.Path)
		commit, err := s.commit(ctx, scope, vault, msg, []string{note.Path, out.Path})
		if err != nil {
			return result, err
		}
		result.Commit = commit
	}

	return result, nil
}

func (s *NoteService) commit(ctx context.Context, scope Scope, vault *Vault, message string, paths []string) (*Commit, error) {
	if s.historyFor == nil {
		return nil, ErrNoRepository
	}
	history, err := s.historyFor(scope)
	if err != nil {
		return nil, err
	}

	abs := make([]string, 0, len(paths))
	for _, p := range paths {
		abs = append(abs, filepath.Join(vault.Root(), filepath.FromSlash(p)))
	}
	return history.Commit(ctx, message, abs)
}

// Ignored reports whether the ignore rules of the vault exclude notePath.
func (s *NoteService) Ignored(scopeHint, notePath string) (bool, error) {
	vault, err := s.vaultFor(s.resolver.Resolve(scopeHint))
	if err != nil {
		return false, fmt.Errorf("open vault: %w", err)
	}

	rel, err := vault.Rel(notePath)
	if err != nil {
		return false, err
	}
	return vault.Ignored(rel), nil
}

// KnownLabels lists the labels used across the vault, optionally filtered
// by a regular expression.
func (s *NoteService) KnownLabels(ctx context.Context, scopeHint, filter string) ([]string, error) {
	vault, err := s.vaultFor(s.resolver.Resolve(scopeHint))
	if err != nil {
		return nil, fmt.Errorf("open vault: %w", err)
	}

	refs := ReferencesConfig{Source: ReferenceAll}
	if filter != "" {
		refs = ReferencesConfig{Source: ReferenceFilter, Filter: filter}
	}
	return ResolveReferences(refs, vault)
}

// RefreshReferences resolves the configured reference source and stores
// the result in the scope config.
func (s *NoteService) RefreshReferences(ctx context.Context, scopeHint string) ([]string, error) {
	scope := s.resolver.Resolve(scopeHint)
	cfg, err := LoadConfigFile(scope)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	vault, err := s.vaultFor(scope)
	if err != nil {
		return nil, fmt.Errorf("open vault: %w", err)
	}

	labels, err := ResolveReferences(cfg.References, vault)
	if err != nil {
		return nil, err
	}

	cfg.References.Labels = labels
	if err := SaveConfig(scope, cfg); err != nil {
		return nil, err
	}
	return labels, nil
}

func (s *NoteService) ProbeEngine(ctx context.Context, scopeHint string, configure func(*Config)) (*ProbeEngineOutput, error) {
	cfg, err := s.config(s.resolver.Resolve(scopeHint), configure)
	if err != nil {
		return nil, err
	}
	return s.probe.Execute(ctx, ProbeEngineInput{Config: cfg})
}

// Log lists the commits autoclass made in the repository enclosing the
// vault, newest first. A limit of 0 lists all of them.
func (s *NoteService) Log(ctx context.Context, scopeHint string, limit int) ([]*Commit, error) {
	if s.historyFor == nil {
		return nil, ErrNoRepository
	}
	history, err := s.historyFor(s.resolver.Resolve(scopeHint))
	if err != nil {
		return nil, err
	}

	all, err := history.Log(ctx, 0)
	if err != nil {
		return nil, err
	}

	var commits []*Commit
	for _, c := range all {
		if c.Author != DefaultAuthor {
			continue
		}
		commits = append(commits, c)
		if limit > 0 && len(commits) == limit {
			break
		}
	}
	return commits, nil
}
