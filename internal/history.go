package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	DefaultAuthor = "autoclass"
	DefaultEmail  = "autoclass@local"
)

type Commit struct {
	Hash      string
	Message   string
	Author    string
	Timestamp time.Time
}

// History records note changes in the git repository enclosing a vault.
type History struct {
	repo     *git.Repository
	worktree *git.Worktree
	rootPath string
}

// FindGitDir walks up from dir looking for a .git directory.
func FindGitDir(dir string) (string, error) {
	for {
		gitDir := filepath.Join(dir, ".git")
		info, err := os.Stat(gitDir)
		if err == nil && info.IsDir() {
			return gitDir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w above %s", ErrNoRepository, dir)
		}
		dir = parent
	}
}

// OpenHistory opens the repository containing dir.
func OpenHistory(dir string) (*History, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	gitDir, err := FindGitDir(abs)
	if err != nil {
		return nil, err
	}

	repo, err := git.PlainOpen(filepath.Dir(gitDir))
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%w: %s", ErrNoRepository, gitDir)
	}
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("get worktree: %w", err)
	}

	return &History{
		repo:     repo,
		worktree: worktree,
		rootPath: worktree.Filesystem.Root(),
	}, nil
}

// Commit stages the given absolute paths and commits them. Paths without
// changes are skipped; nothing staged means no commit.
func (h *History) Commit(ctx context.Context, message string, paths []string) (*Commit, error) {
	status, err := h.worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}

	staged := 0
	for _, p := range paths {
		rel, err := filepath.Rel(h.rootPath, p)
		if err != nil || strings.HasPrefix(rel, "..") {
			return nil, fmt.Errorf("%s is outside the repository", p)
		}
		rel = filepath.ToSlash(rel)

		s, ok := status[rel]
		if !ok || s.Worktree == git.Unmodified {
			continue
		}
		if s.Worktree == git.Deleted {
			if _, err := h.worktree.Remove(rel); err != nil {
				return nil, fmt.Errorf("stage removal of %s: %w", rel, err)
			}
		} else if _, err := h.worktree.Add(rel); err != nil {
			return nil, fmt.Errorf("stage %s: %w", rel, err)
		}
		staged++
	}

	if staged == 0 {
		return nil, nil
	}

	hash, err := h.worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  DefaultAuthor,
			Email: DefaultEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	commit, err := h.repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("get commit: %w", err)
	}

	return toCommit(commit), nil
}

// Log returns the latest commits, newest first.
func (h *History) Log(ctx context.Context, limit int) ([]*Commit, error) {
	iter, err := h.repo.Log(&git.LogOptions{})
	if err != nil {
		return nil, fmt.Errorf("get log: %w", err)
	}
	defer iter.Close()

	var commits []*Commit
	for limit <= 0 || len(commits) < limit {
		c, err := iter.Next()
		if err != nil {
			break
		}
		commits = append(commits, toCommit(c))
	}
	return commits, nil
}

func toCommit(c *object.Commit) *Commit {
	return &Commit{
		Hash:      c.Hash.String(),
		Message:   strings.TrimSpace(c.Message),
		Author:    c.Author.Name,
		Timestamp: c.Author.When,
	}
}
