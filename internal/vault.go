package internal

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// Vault is the directory tree of markdown notes rooted at the scope path.
type Vault struct {
	fs     billy.Filesystem
	ignore *IgnoreMatcher
}

func NewVault(fs billy.Filesystem) (*Vault, error) {
	ignore, err := NewIgnoreMatcher(fs)
	if err != nil {
		return nil, fmt.Errorf("load ignore rules: %w", err)
	}
	return &Vault{fs: fs, ignore: ignore}, nil
}

// OpenVault opens the vault on disk for scope.
func OpenVault(scope Scope) (*Vault, error) {
	if _, err := os.Stat(scope.Path); err != nil {
		return nil, fmt.Errorf("open vault: %w", err)
	}
	return NewVault(osfs.New(scope.Path))
}

// Root returns the on-disk root of the vault, or "" for in-memory vaults.
func (v *Vault) Root() string {
	return v.fs.Root()
}

// Rel turns an absolute or working-directory relative path into a
// vault-relative slash path.
func (v *Vault) Rel(p string) (string, error) {
	if root := v.fs.Root(); root != "" && root != "/" {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", p, err)
		}
		rel, err := filepath.Rel(root, abs)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", p, err)
		}
		if strings.HasPrefix(rel, "..") {
			return "", fmt.Errorf("%s is outside the vault %s", p, root)
		}
		p = rel
	}
	return strings.TrimPrefix(path.Clean(filepath.ToSlash(p)), "/"), nil
}

func (v *Vault) Load(notePath string) (*Note, error) {
	data, err := util.ReadFile(v.fs, notePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoteNotFound, notePath)
	}
	if err != nil {
		return nil, fmt.Errorf("read note: %w", err)
	}
	return ParseNote(notePath, data)
}

func (v *Vault) Exists(notePath string) bool {
	_, err := v.fs.Stat(notePath)
	return err == nil
}

func (v *Vault) Rename(from, to string) error {
	if dir := path.Dir(to); dir != "." {
		if err := v.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	if err := v.fs.Rename(from, to); err != nil {
		return fmt.Errorf("rename note: %w", err)
	}
	return nil
}

// Target returns the path the note will be written to: its current path,
// or a free path derived from its title when the title changed.
func (v *Vault) Target(note *Note) string {
	if !note.Renamed() {
		return note.Path
	}
	return ResolveUniquePath(v.Exists, path.Dir(note.Path), note.Title, note.Path)
}

// Save writes the note and renames it when its title changed. It returns
// the paths touched, the final path last.
func (v *Vault) Save(note *Note) ([]string, error) {
	if err := util.WriteFile(v.fs, note.Path, note.Render(), 0644); err != nil {
		return nil, fmt.Errorf("write note: %w", err)
	}

	touched := []string{note.Path}
	target := v.Target(note)
	if target == note.Path {
		return touched, nil
	}

	if err := v.Rename(note.Path, target); err != nil {
		return nil, err
	}
	note.Path = target
	note.Title = titleFromPath(target)
	return append(touched, target), nil
}

// Notes lists every markdown note not excluded by the ignore rules.
func (v *Vault) Notes() ([]string, error) {
	var notes []string
	err := util.Walk(v.fs, "/", func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}

		rel := strings.TrimPrefix(filepath.ToSlash(p), "/")
		if info.IsDir() {
			if v.ignore.Match(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(rel, ".md") || v.ignore.Match(rel, false) {
			return nil
		}
		notes = append(notes, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk vault: %w", err)
	}

	sort.Strings(notes)
	return notes, nil
}

func (v *Vault) Ignored(notePath string) bool {
	return v.ignore.Match(notePath, false)
}
