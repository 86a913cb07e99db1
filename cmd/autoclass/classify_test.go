package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestClassifyCmd(t *testing.T) {
	srv := newChatBackend(t, `{"reliability":0.9,"outputs":["animals"]}`)
	dir, notes := setupVault(t, srv, map[string]string{"Cats.md": "Cats are independent pets."})

	cmd := NewClassifyCmd(notes)
	cmd.SetArgs([]string{"Cats.md"})
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	want := "classified with 1 tags using OpenAI-compatible API (5 tokens used)\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}

	if got := readNote(t, dir, "Cats.md"); got != "Cats are independent pets.\n#animals " {
		t.Errorf("note = %q", got)
	}
}

func TestClassifyCmdDryRun(t *testing.T) {
	srv := newChatBackend(t, `{"reliability":0.9,"outputs":["animals"]}`)
	dir, notes := setupVault(t, srv, map[string]string{"Cats.md": "Cats\n"})

	cmd := NewClassifyCmd(notes)
	cmd.SetArgs([]string{"Cats.md", "--dry-run"})
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if !strings.Contains(out.String(), "+#animals ") {
		t.Errorf("expected diff in output, got %q", out.String())
	}
	if got := readNote(t, dir, "Cats.md"); got != "Cats\n" {
		t.Errorf("dry run modified note: %q", got)
	}
}

func TestClassifyCmdJSON(t *testing.T) {
	srv := newChatBackend(t, `{"reliability":0.9,"outputs":["animals","plants"]}`)
	_, notes := setupVault(t, srv, map[string]string{"Cats.md": "Cats"})

	root := NewRootCmd("test", nil)
	root.AddCommand(NewClassifyCmd(notes))
	root.SetArgs([]string{"classify", "Cats.md", "--json", "--max", "1"})
	var out bytes.Buffer
	root.SetOut(&out)

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var got struct {
		RunID  string   `json:"run_id"`
		Engine string   `json:"engine"`
		Labels []string `json:"labels"`
		Path   string   `json:"path"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode %q: %v", out.String(), err)
	}

	if len(got.Labels) != 1 || got.Labels[0] != "animals" {
		t.Errorf("labels = %v, want [animals]", got.Labels)
	}
	if got.Path != "Cats.md" || got.RunID == "" {
		t.Errorf("unexpected result %+v", got)
	}
}

func TestClassifyCmdLowReliability(t *testing.T) {
	srv := newChatBackend(t, `{"reliability":0.1,"outputs":["animals"]}`)
	dir, notes := setupVault(t, srv, map[string]string{"Cats.md": "Cats"})

	cmd := NewClassifyCmd(notes)
	cmd.SetArgs([]string{"Cats.md"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected reliability error")
	}
	if got := readNote(t, dir, "Cats.md"); got != "Cats" {
		t.Errorf("note changed on rejected response: %q", got)
	}
}

func TestClassifyCmdInvalidMax(t *testing.T) {
	srv := newChatBackend(t, `{"reliability":0.9,"outputs":["animals"]}`)
	_, notes := setupVault(t, srv, map[string]string{"Cats.md": "Cats"})

	cmd := NewClassifyCmd(notes)
	cmd.SetArgs([]string{"Cats.md", "--max", "11"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "max_suggestions") {
		t.Errorf("expected max_suggestions error, got %v", err)
	}
}

func TestParseLineRange(t *testing.T) {
	tests := []struct {
		in       string
		from, to int
		wantErr  bool
	}{
		{"3:7", 3, 7, false},
		{"4", 4, 4, false},
		{" 2 : 5 ", 2, 5, false},
		{"a:3", 0, 0, true},
		{"3:b", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			from, to, err := parseLineRange(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLineRange(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if from != tt.from || to != tt.to {
				t.Errorf("parseLineRange(%q) = %d, %d, want %d, %d", tt.in, from, to, tt.from, tt.to)
			}
		})
	}
}
