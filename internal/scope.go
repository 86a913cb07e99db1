package internal

import (
	"os"
	"path/filepath"
)

const ScopeDirName = ".autoclass"

type ScopeType string

const (
	ScopeGlobal  ScopeType = "global"
	ScopeProject ScopeType = "project"
)

type Scope struct {
	Type     ScopeType
	Path     string // vault root
	DataPath string // .autoclass directory path
}

func (s Scope) ConfigPath() string {
	return filepath.Join(s.DataPath, "config.yaml")
}

func (s Scope) IgnorePath() string {
	return filepath.Join(s.Path, IgnoreFilename)
}

type ScopeResolver struct {
	homeDir string
}

func NewScopeResolver() *ScopeResolver {
	home, _ := os.UserHomeDir()
	return &ScopeResolver{homeDir: home}
}

func (r *ScopeResolver) Global() Scope {
	return Scope{
		Type:     ScopeGlobal,
		Path:     r.homeDir,
		DataPath: filepath.Join(r.homeDir, ScopeDirName),
	}
}

func (r *ScopeResolver) Project() (Scope, bool) {
	cwd, err := os.Getwd()
	if err != nil {
		return Scope{}, false
	}
	return r.findProjectScope(cwd)
}

func (r *ScopeResolver) findProjectScope(dir string) (Scope, bool) {
	for {
		dataPath := filepath.Join(dir, ScopeDirName)
		info, err := os.Stat(dataPath)
		if err == nil && info.IsDir() && dataPath != r.Global().DataPath {
			return Scope{Type: ScopeProject, Path: dir, DataPath: dataPath}, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Scope{}, false
		}
		dir = parent
	}
}

// Resolve picks the global scope when asked explicitly, otherwise the
// nearest project scope, falling back to global.
func (r *ScopeResolver) Resolve(explicit string) Scope {
	if explicit == string(ScopeGlobal) {
		return r.Global()
	}
	if scope, ok := r.Project(); ok {
		return scope
	}
	return r.Global()
}
