package internal

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

type ProbeEngineInput struct {
	Config Config
}

type ProbeEngineOutput struct {
	Engine string
	Reply  string
	Usage  *Usage
}

// ProbeEngineUseCase checks that the configured backend answers with the
// current credentials.
type ProbeEngineUseCase struct {
	doer   HTTPDoer
	logger zerolog.Logger
}

func NewProbeEngineUseCase(doer HTTPDoer, logger zerolog.Logger) *ProbeEngineUseCase {
	return &ProbeEngineUseCase{doer: doer, logger: logger}
}

func (uc *ProbeEngineUseCase) Execute(ctx context.Context, input ProbeEngineInput) (*ProbeEngineOutput, error) {
	cfg := input.Config
	if err := checkCredentials(cfg); err != nil {
		return nil, err
	}

	switch cfg.Engine {
	case EngineGenerative:
		engine := NewGenerativeEngine(cfg.Generative, uc.doer)
		resp, err := engine.Call(ctx, CompletionRequest{Prompt: "test", MaxTokens: cfg.Generative.MaxTokens})
		if err != nil {
			uc.logger.Error().Err(err).Str("engine", engine.Name()).Msg("probe failed")
			return nil, err
		}
		return &ProbeEngineOutput{Engine: engine.Name(), Reply: resp.Text, Usage: resp.Usage}, nil

	case EngineZeroShot:
		engine := NewZeroShotEngine(cfg.ZeroShot, uc.doer)
		resp, err := engine.Call(ctx, []string{"test"}, []string{"test"})
		if err != nil {
			uc.logger.Error().Err(err).Str("engine", engine.Name()).Msg("probe failed")
			return nil, err
		}
		out := &ProbeEngineOutput{Engine: engine.Name()}
		if resp.Usage.TotalTokens > 0 {
			out.Usage = &Usage{TotalTokens: resp.Usage.TotalTokens}
		}
		if len(resp.Data) > 0 {
			out.Reply = resp.Data[0].Prediction
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unknown engine: %q", cfg.Engine)
	}
}
