package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ZeroShotLabelLimit is the most candidate classes the zero-shot backend
// accepts in one request.
const ZeroShotLabelLimit = 256

var _ Engine = (*ZeroShotEngine)(nil)

// ZeroShotEngine classifies through a Jina-style /classify endpoint that
// scores every candidate label.
type ZeroShotEngine struct {
	cfg  ZeroShotConfig
	doer HTTPDoer
}

type zeroShotInput struct {
	Text string `json:"text"`
}

type zeroShotRequest struct {
	Model  string          `json:"model"`
	Input  []zeroShotInput `json:"input"`
	Labels []string        `json:"labels"`
}

type ZeroShotItem struct {
	Object      string       `json:"object"`
	Index       int          `json:"index"`
	Prediction  string       `json:"prediction"`
	Score       float64      `json:"score"`
	Predictions []Prediction `json:"predictions"`
}

type ZeroShotResponse struct {
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
	Data []ZeroShotItem `json:"data"`
}

func NewZeroShotEngine(cfg ZeroShotConfig, doer HTTPDoer) *ZeroShotEngine {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &ZeroShotEngine{cfg: cfg, doer: doer}
}

func (e *ZeroShotEngine) Name() string {
	return "Jina AI"
}

func (e *ZeroShotEngine) Classify(ctx context.Context, req ClassificationRequest) (*ClassificationResult, error) {
	resp, err := e.Call(ctx, []string{req.InputText}, req.ReferenceLabels)
	if err != nil {
		return nil, err
	}

	result := &ClassificationResult{}
	if resp.Usage.TotalTokens > 0 {
		result.Usage = &Usage{TotalTokens: resp.Usage.TotalTokens}
	}
	if len(resp.Data) > 0 {
		result.Labels = RankPredictions(resp.Data[0].Predictions)
	}
	return result, nil
}

// Call sends one batched classification request. Items in the response keep
// the order of inputs.
func (e *ZeroShotEngine) Call(ctx context.Context, inputs, labels []string) (*ZeroShotResponse, error) {
	body := zeroShotRequest{
		Model:  e.cfg.Model,
		Input:  make([]zeroShotInput, 0, len(inputs)),
		Labels: labels,
	}
	for _, text := range inputs {
		body.Input = append(body.Input, zeroShotInput{Text: text})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(e.cfg.BaseURL, "/") + "/classify"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)

	httpResp, err := e.doer.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, &HTTPError{Status: httpResp.StatusCode, Body: errorDetails(data)}
	}

	var resp ZeroShotResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}
	return &resp, nil
}

// errorDetails extracts the "detail" field of a structured error body,
// falling back to the compact JSON or the raw text.
func errorDetails(body []byte) string {
	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return string(body)
	}

	if detail, ok := parsed["detail"]; ok && detail != nil {
		if s, ok := detail.(string); ok {
			if s != "" {
				return s
			}
		} else if encoded, err := json.Marshal(detail); err == nil {
			return string(encoded)
		}
	}

	encoded, err := json.Marshal(parsed)
	if err != nil {
		return string(body)
	}
	return string(encoded)
}
