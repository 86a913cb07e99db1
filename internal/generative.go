package internal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

var _ Engine = (*GenerativeEngine)(nil)
var _ Completer = (*GenerativeEngine)(nil)

// GenerativeEngine classifies through an OpenAI-compatible chat completion
// endpoint and trusts the ranking of the model's structured answer.
type GenerativeEngine struct {
	cfg  GenerativeConfig
	doer HTTPDoer
}

type GenerativeResponse struct {
	Text  string
	Usage *Usage
}

func NewGenerativeEngine(cfg GenerativeConfig, doer HTTPDoer) *GenerativeEngine {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &GenerativeEngine{cfg: cfg, doer: doer}
}

func (e *GenerativeEngine) Name() string {
	return "OpenAI-compatible API"
}

func (e *GenerativeEngine) Classify(ctx context.Context, req ClassificationRequest) (*ClassificationResult, error) {
	role, template := promptFor(e.cfg, req.UseReferences)

	resp, err := e.Call(ctx, CompletionRequest{
		SystemRole:       role,
		Prompt:           RenderPrompt(template, req.InputText, req.ReferenceLabels),
		MaxTokens:        e.cfg.MaxTokens,
		Temperature:      e.cfg.Temperature,
		TopP:             e.cfg.TopP,
		FrequencyPenalty: e.cfg.FrequencyPenalty,
		PresencePenalty:  e.cfg.PresencePenalty,
	})
	if err != nil {
		return nil, err
	}

	labels, err := ValidateResponse(resp.Text, req.UseReferences)
	if err != nil {
		return nil, err
	}

	return &ClassificationResult{Labels: labels, Usage: resp.Usage}, nil
}

func (e *GenerativeEngine) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	resp, err := e.Call(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Call issues one chat completion and returns the raw text of the first
// choice. Non-success statuses come back as *HTTPError carrying the body.
func (e *GenerativeEngine) Call(ctx context.Context, req CompletionRequest) (*GenerativeResponse, error) {
	recorder := &statusRecorder{doer: e.doer}

	clientConfig := openai.DefaultConfig(e.cfg.APIKey)
	clientConfig.BaseURL = strings.TrimRight(e.cfg.BaseURL, "/")
	clientConfig.HTTPClient = recorder
	client := openai.NewClientWithConfig(clientConfig)

	var messages []openai.ChatCompletionMessage
	if req.SystemRole != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemRole,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	chatReq := openai.ChatCompletionRequest{
		Model:    e.cfg.Model,
		Messages: messages,
	}
	// Reasoning models take max_completion_tokens and reject sampling
	// parameters other than their defaults.
	reasoning := isMaxCompletionTokensModel(e.cfg.Model)
	if req.MaxTokens > 0 {
		if reasoning {
			chatReq.MaxCompletionTokens = req.MaxTokens
		} else {
			chatReq.MaxTokens = req.MaxTokens
		}
	}
	if !reasoning {
		applySampling(&chatReq, req)
	}

	resp, err := client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		if recorder.failed() {
			return nil, &HTTPError{Status: recorder.status, Body: recorder.body}
		}
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: response has no choices", ErrParseFailed)
	}

	out := &GenerativeResponse{Text: resp.Choices[0].Message.Content}
	if resp.Usage.TotalTokens > 0 {
		out.Usage = &Usage{TotalTokens: resp.Usage.TotalTokens}
	}
	return out, nil
}

func applySampling(chatReq *openai.ChatCompletionRequest, req CompletionRequest) {
	if req.Temperature != nil {
		chatReq.Temperature = *req.Temperature
	}
	if req.TopP != nil {
		chatReq.TopP = *req.TopP
	}
	if req.FrequencyPenalty != nil {
		chatReq.FrequencyPenalty = *req.FrequencyPenalty
	}
	if req.PresencePenalty != nil {
		chatReq.PresencePenalty = *req.PresencePenalty
	}
}

// statusRecorder keeps the status and body of an unsuccessful response so
// the error handed to callers can carry them.
type statusRecorder struct {
	doer   HTTPDoer
	status int
	body   string
}

func (r *statusRecorder) Do(req *http.Request) (*http.Response, error) {
	resp, err := r.doer.Do(req)
	if err != nil {
		return nil, err
	}

	r.status = resp.StatusCode
	if !r.failed() {
		return resp, nil
	}

	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read error body: %w", err)
	}
	r.body = string(data)
	resp.Body = io.NopCloser(bytes.NewReader(data))
	return resp, nil
}

func (r *statusRecorder) failed() bool {
	return r.status != 0 && (r.status < http.StatusOK || r.status >= http.StatusMultipleChoices)
}

var maxCompletionTokensPrefixes = []string{"o1", "o3", "o4", "gpt-5"}

func isMaxCompletionTokensModel(model string) bool {
	for _, prefix := range maxCompletionTokensPrefixes {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}
