package internal

import (
	"context"
	"fmt"
	"net/http"
)

// HTTPDoer is the transport both engine adapters send through.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClassificationRequest struct {
	InputText       string
	ReferenceLabels []string
	UseReferences   bool
}

type Usage struct {
	TotalTokens int
}

type ClassificationResult struct {
	Labels []string // ranked best-first
	Usage  *Usage
}

// Engine is a classification backend: it turns a request into a wire call
// and normalizes the answer into ranked labels.
type Engine interface {
	Name() string
	Classify(ctx context.Context, req ClassificationRequest) (*ClassificationResult, error)
}

type CompletionRequest struct {
	SystemRole       string
	Prompt           string
	MaxTokens        int
	Temperature      *float32
	TopP             *float32
	FrequencyPenalty *float32
	PresencePenalty  *float32
}

// Completer is implemented by engines that can produce free text.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// NewEngine selects the backend named by cfg.Engine.
func NewEngine(cfg Config, doer HTTPDoer) (Engine, error) {
	if doer == nil {
		doer = http.DefaultClient
	}

	switch cfg.Engine {
	case EngineGenerative:
		return NewGenerativeEngine(cfg.Generative, doer), nil
	case EngineZeroShot:
		return NewZeroShotEngine(cfg.ZeroShot, doer), nil
	default:
		return nil, fmt.Errorf("unknown engine: %q", cfg.Engine)
	}
}

func checkCredentials(cfg Config) error {
	switch cfg.Engine {
	case EngineGenerative:
		if cfg.Generative.APIKey == "" && !IsLocalAddress(cfg.Generative.BaseURL) {
			return fmt.Errorf("%w: required for most cloud APIs", ErrCredentialMissing)
		}
	case EngineZeroShot:
		if cfg.ZeroShot.APIKey == "" {
			return fmt.Errorf("%w: zero-shot engine requires its own key", ErrCredentialMissing)
		}
	}
	return nil
}
