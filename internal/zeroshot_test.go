package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type zeroShotCapture struct {
	Path   string
	Auth   string
	Body   zeroShotRequest
	Called int
}

func newZeroShotServer(t *testing.T, status int, body string) (*httptest.Server, *zeroShotCapture) {
	t.Helper()
	capture := &zeroShotCapture{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capture.Called++
		capture.Path = r.URL.Path
		capture.Auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&capture.Body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, capture
}

const sentimentResponse = `{
  "usage": {"total_tokens": 12},
  "data": [{
    "object": "classification",
    "index": 0,
    "prediction": "positive",
    "score": 0.95,
    "predictions": [
      {"label": "negative", "score": 0.05},
      {"label": "positive", "score": 0.95}
    ]
  }]
}`

func testZeroShotConfig(baseURL string) ZeroShotConfig {
	return ZeroShotConfig{APIKey: "jina-test", BaseURL: baseURL, Model: "jina-embeddings-v3"}
}

func TestZeroShotEngineClassify(t *testing.T) {
	srv, capture := newZeroShotServer(t, http.StatusOK, sentimentResponse)
	engine := NewZeroShotEngine(testZeroShotConfig(srv.URL+"/v1"), srv.Client())

	result, err := engine.Classify(context.Background(), ClassificationRequest{
		InputText:       "I love this!",
		ReferenceLabels: []string{"positive", "negative"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"positive", "negative"}, result.Labels)
	require.NotNil(t, result.Usage)
	assert.Equal(t, 12, result.Usage.TotalTokens)

	assert.Equal(t, "/v1/classify", capture.Path)
	assert.Equal(t, "Bearer jina-test", capture.Auth)
	assert.Equal(t, "jina-embeddings-v3", capture.Body.Model)
	assert.Equal(t, []zeroShotInput{{Text: "I love this!"}}, capture.Body.Input)
	assert.Equal(t, []string{"positive", "negative"}, capture.Body.Labels)
}

func TestZeroShotEngineBatch(t *testing.T) {
	srv, capture := newZeroShotServer(t, http.StatusOK, `{"usage":{"total_tokens":3},"data":[
	  {"index":0,"prediction":"a","score":0.6,"predictions":[{"label":"a","score":0.6}]},
	  {"index":1,"prediction":"b","score":0.7,"predictions":[{"label":"b","score":0.7}]}
	]}`)
	engine := NewZeroShotEngine(testZeroShotConfig(srv.URL), srv.Client())

	resp, err := engine.Call(context.Background(), []string{"first", "second"}, []string{"a", "b"})
	require.NoError(t, err)

	require.Len(t, capture.Body.Input, 2)
	assert.Equal(t, "second", capture.Body.Input[1].Text)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, 0, resp.Data[0].Index)
	assert.Equal(t, "b", resp.Data[1].Prediction)
}

func TestZeroShotEngineNoData(t *testing.T) {
	srv, _ := newZeroShotServer(t, http.StatusOK, `{"usage":{"total_tokens":0},"data":[]}`)
	engine := NewZeroShotEngine(testZeroShotConfig(srv.URL), srv.Client())

	result, err := engine.Classify(context.Background(), ClassificationRequest{InputText: "x", ReferenceLabels: []string{"a"}})
	require.NoError(t, err)
	assert.Empty(t, result.Labels)
	assert.Nil(t, result.Usage)
}

func TestZeroShotEngineErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"detail string", http.StatusUnprocessableEntity, `{"detail":"labels must not be empty"}`, "labels must not be empty"},
		{"detail object", http.StatusBadRequest, `{"detail":[{"msg":"bad"}]}`, `[{"msg":"bad"}]`},
		{"no detail", http.StatusTooManyRequests, `{"error": "slow down"}`, `{"error":"slow down"}`},
		{"empty detail", http.StatusBadRequest, `{"detail":""}`, `{"detail":""}`},
		{"plain text", http.StatusBadGateway, "upstream unavailable", "upstream unavailable"},
		{"non 200 success", http.StatusCreated, `{"data":[]}`, `{"data":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newZeroShotServer(t, tt.status, tt.body)
			engine := NewZeroShotEngine(testZeroShotConfig(srv.URL), srv.Client())

			_, err := engine.Classify(context.Background(), ClassificationRequest{InputText: "x", ReferenceLabels: []string{"a"}})

			var httpErr *HTTPError
			require.True(t, errors.As(err, &httpErr), "got %v", err)
			assert.Equal(t, tt.status, httpErr.Status)
			assert.Equal(t, tt.want, httpErr.Body)
		})
	}
}

func TestZeroShotEngineMalformedBody(t *testing.T) {
	srv, _ := newZeroShotServer(t, http.StatusOK, "<html>")
	engine := NewZeroShotEngine(testZeroShotConfig(srv.URL), srv.Client())

	_, err := engine.Classify(context.Background(), ClassificationRequest{InputText: "x", ReferenceLabels: []string{"a"}})
	assert.ErrorIs(t, err, ErrParseFailed)
}

func TestNewEngine(t *testing.T) {
	cfg := *DefaultConfig()

	engine, err := NewEngine(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "OpenAI-compatible API", engine.Name())
	_, isCompleter := engine.(Completer)
	assert.True(t, isCompleter)

	cfg.Engine = EngineZeroShot
	engine, err = NewEngine(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "Jina AI", engine.Name())
	_, isCompleter = engine.(Completer)
	assert.False(t, isCompleter)

	cfg.Engine = "bert"
	_, err = NewEngine(cfg, nil)
	assert.Error(t, err)
}
