package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rtuszik/auto-classifier/internal"
)

// newChatBackend answers every chat completion with content.
func newChatBackend(t *testing.T, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1,
			"model":   internal.DefaultModel,
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"total_tokens": 5},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// setupVault initializes a project scope in a temp dir, writes files into
// it and points the generative engine at srv.
func setupVault(t *testing.T, srv *httptest.Server, files map[string]string) (string, func() *internal.NoteService) {
	t.Helper()
	for _, env := range []string{internal.EnvEngine, internal.EnvAPIKey, internal.EnvBaseURL, internal.EnvModel, internal.EnvZeroShotAPIKey} {
		t.Setenv(env, "")
	}

	dir := t.TempDir()
	t.Chdir(dir)

	scope := internal.Scope{
		Type:     internal.ScopeProject,
		Path:     dir,
		DataPath: filepath.Join(dir, internal.ScopeDirName),
	}
	if err := os.MkdirAll(scope.DataPath, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cfg := internal.DefaultConfig()
	cfg.Generative.APIKey = "sk-test"
	cfg.Generative.BaseURL = srv.URL
	cfg.References.Labels = []string{"animals", "plants"}
	if err := internal.SaveConfig(scope, cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}

	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	logger := zerolog.Nop()
	svc := internal.NewNoteService(
		internal.NewScopeResolver(),
		internal.LoadConfig,
		internal.OpenVault,
		func(s internal.Scope) (*internal.History, error) { return internal.OpenHistory(s.Path) },
		internal.NewClassifyUseCase(srv.Client(), logger),
		internal.NewSuggestFilenameUseCase(srv.Client(), logger),
		internal.NewProbeEngineUseCase(srv.Client(), logger),
	)
	return dir, func() *internal.NoteService { return svc }
}

func readNote(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}
