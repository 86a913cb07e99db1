package internal

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ClassifyInput struct {
	Config Config // snapshot taken by the caller
	Kind   InputKind
	Source InputSource
	Placer Placer
}

type ClassifyOutput struct {
	RunID         string
	Engine        string
	Labels        []string
	LabelsApplied int
	Usage         *Usage
}

// Notice is the one-line summary shown to the user after a run.
func (o *ClassifyOutput) Notice() string {
	notice := fmt.Sprintf("classified with %d tags using %s", o.LabelsApplied, o.Engine)
	if o.Usage != nil {
		notice += fmt.Sprintf(" (%d tokens used)", o.Usage.TotalTokens)
	}
	return notice
}

type ClassifyUseCase struct {
	doer   HTTPDoer
	logger zerolog.Logger
}

func NewClassifyUseCase(doer HTTPDoer, logger zerolog.Logger) *ClassifyUseCase {
	return &ClassifyUseCase{doer: doer, logger: logger}
}

// Execute runs one classification: precondition gates, one engine call,
// truncation, then one placement per surviving label in rank order.
// Labels placed before a placement error stay placed.
func (uc *ClassifyUseCase) Execute(ctx context.Context, input ClassifyInput) (*ClassifyOutput, error) {
	cfg := input.Config
	runID := uuid.NewString()
	log := uc.logger.With().
		Str("run_id", runID).
		Str("engine", string(cfg.Engine)).
		Str("input", string(input.Kind)).
		Logger()

	if err := checkCredentials(cfg); err != nil {
		log.Error().Err(err).Msg("precondition failed")
		return nil, err
	}

	refs := cfg.References.Labels
	if len(refs) == 0 && (cfg.References.Use || cfg.Engine == EngineZeroShot) {
		log.Error().Err(ErrReferenceMissing).Msg("precondition failed")
		return nil, ErrReferenceMissing
	}
	if cfg.Engine == EngineZeroShot && len(refs) > ZeroShotLabelLimit {
		err := &ReferenceCountError{Count: len(refs), Limit: ZeroShotLabelLimit}
		log.Error().Err(err).Msg("precondition failed")
		return nil, err
	}

	text := input.Source.InputText(input.Kind)
	if text == "" {
		log.Error().Err(ErrInputMissing).Msg("precondition failed")
		return nil, ErrInputMissing
	}

	engine, err := NewEngine(cfg, uc.doer)
	if err != nil {
		return nil, err
	}

	req := ClassificationRequest{
		InputText:     text,
		UseReferences: cfg.References.Use,
	}
	if cfg.References.Use || cfg.Engine == EngineZeroShot {
		req.ReferenceLabels = refs
	}

	log.Debug().Int("references", len(req.ReferenceLabels)).Msg("classifying")
	result, err := engine.Classify(ctx, req)
	if err != nil {
		uc.logFailure(log, err)
		return nil, err
	}

	labels := result.Labels
	if len(labels) > cfg.MaxSuggestions {
		labels = labels[:cfg.MaxSuggestions]
	}
	if len(labels) == 0 {
		log.Error().Err(ErrNoLabels).Msg("classification produced nothing")
		return nil, ErrNoLabels
	}

	out := &ClassifyOutput{
		RunID:  runID,
		Engine: engine.Name(),
		Labels: labels,
		Usage:  result.Usage,
	}

	directive := cfg.Placement()
	for _, label := range labels {
		if err := input.Placer.Place(label, directive); err != nil {
			log.Error().Err(err).Str("label", label).Int("placed", out.LabelsApplied).Msg("placement failed")
			return out, fmt.Errorf("place %q: %w", label, err)
		}
		out.LabelsApplied++
	}

	log.Info().Strs("labels", labels).Msg(out.Notice())
	return out, nil
}

func (uc *ClassifyUseCase) logFailure(log zerolog.Logger, err error) {
	var httpErr *HTTPError
	var relErr *ReliabilityError
	switch {
	case errors.As(err, &httpErr):
		log.Error().Int("status", httpErr.Status).Str("body", httpErr.Body).Msg("backend request failed")
	case errors.As(err, &relErr):
		log.Error().Float64("reliability", relErr.Score).Msg("response rejected")
	default:
		log.Error().Err(err).Msg("classification failed")
	}
}
