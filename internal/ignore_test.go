package internal

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
)

func newIgnoreMatcher(t *testing.T, rules string) *IgnoreMatcher {
	t.Helper()
	fs := memfs.New()
	if rules != "" {
		if err := util.WriteFile(fs, IgnoreFilename, []byte(rules), 0644); err != nil {
			t.Fatalf("write ignore file: %v", err)
		}
	}

	m, err := NewIgnoreMatcher(fs)
	if err != nil {
		t.Fatalf("new matcher: %v", err)
	}
	return m
}

func TestIgnoreMatcherEmpty(t *testing.T) {
	m := newIgnoreMatcher(t, "")

	if m.Match("anything/goes.md", false) {
		t.Error("empty ignore should not match anything")
	}
}

func TestIgnoreMatcherExactPattern(t *testing.T) {
	m := newIgnoreMatcher(t, "secret.md\n")

	if !m.Match("secret.md", false) {
		t.Error("expected 'secret.md' to be ignored")
	}
	if m.Match("public.md", false) {
		t.Error("expected 'public.md' to not be ignored")
	}
}

func TestIgnoreMatcherGlobPattern(t *testing.T) {
	m := newIgnoreMatcher(t, "# drafts never get tagged\n*.draft.md\n")

	if !m.Match("ideas/plan.draft.md", false) {
		t.Error("expected glob to match nested draft")
	}
	if m.Match("ideas/plan.md", false) {
		t.Error("expected plain note to not be ignored")
	}
}

func TestIgnoreMatcherDirectoryPattern(t *testing.T) {
	m := newIgnoreMatcher(t, "templates/\n")

	if !m.Match("templates", true) {
		t.Error("expected templates dir to be ignored")
	}
	if m.Match("templates", false) {
		t.Error("directory pattern should not match a file named templates")
	}
}

func TestIgnoreMatcherDotDirectories(t *testing.T) {
	m := newIgnoreMatcher(t, "")

	for _, p := range []string{".obsidian/workspace.md", ".autoclass/notes.md", ".git/HEAD"} {
		if !m.Match(p, false) {
			t.Errorf("expected %q to be ignored", p)
		}
	}
	if !m.Match(".trash", true) {
		t.Error("expected dot directory to be ignored")
	}
	if m.Match(".hidden.md", false) {
		t.Error("dot files at the root are regular notes")
	}
}

func TestIgnoreMatcherNegation(t *testing.T) {
	m := newIgnoreMatcher(t, "drafts/\n!drafts/keep.md\n")

	if !m.Match("drafts/wip.md", false) {
		t.Error("expected 'drafts/wip.md' to be ignored")
	}
	if m.Match("drafts/keep.md", false) {
		t.Error("expected negated 'drafts/keep.md' to be kept")
	}
}
