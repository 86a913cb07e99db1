package internal

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

const IgnoreFilename = ".autoclassignore"

// IgnoreMatcher decides which vault paths are skipped when scanning notes.
// Dot directories (.git, .obsidian, .autoclass) are always skipped.
type IgnoreMatcher struct {
	matcher gitignore.Matcher
}

func NewIgnoreMatcher(fs billy.Filesystem) (*IgnoreMatcher, error) {
	m := &IgnoreMatcher{}

	patterns, err := parseIgnoreFile(fs, IgnoreFilename)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	m.matcher = gitignore.NewMatcher(patterns)
	return m, nil
}

// Match reports whether the vault-relative path is ignored.
func (m *IgnoreMatcher) Match(relPath string, isDir bool) bool {
	relPath = filepath.ToSlash(path.Clean(filepath.ToSlash(relPath)))
	if relPath == "." || relPath == "" {
		return false
	}

	parts := strings.Split(relPath, "/")
	for _, part := range parts[:len(parts)-1] {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	if isDir && strings.HasPrefix(parts[len(parts)-1], ".") {
		return true
	}

	if m == nil || m.matcher == nil {
		return false
	}
	return m.matcher.Match(parts, isDir)
}

func parseIgnoreFile(fs billy.Filesystem, name string) ([]gitignore.Pattern, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []gitignore.Pattern
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return patterns, nil
}
