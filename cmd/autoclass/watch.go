package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rtuszik/auto-classifier/internal"
	"github.com/spf13/cobra"
)

func NewWatchCmd(notes func() *internal.NoteService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Classify new notes as they appear",
		Long:  `Watch the vault for newly created markdown notes and classify each one.`,
		RunE:  makeWatchRunner(notes),
	}

	cmd.Flags().Duration("debounce", 500*time.Millisecond, "Wait this long after the last event before classifying")
	cmd.Flags().StringP("input", "i", string(internal.InputContent), "Input to classify (title|frontmatter|content)")
	cmd.Flags().Bool("commit", false, "Commit every classified note")
	return cmd
}

func makeWatchRunner(notes func() *internal.NoteService) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		scopeHint, _ := cmd.Flags().GetString("scope")
		debounce, _ := cmd.Flags().GetDuration("debounce")
		inputFlag, _ := cmd.Flags().GetString("input")
		commit, _ := cmd.Flags().GetBool("commit")

		kind, err := internal.ParseInputKind(inputFlag)
		if err != nil {
			return err
		}
		if kind == internal.InputSelection {
			return fmt.Errorf("watch cannot classify a selection")
		}

		resolver := internal.NewScopeResolver()
		scope := resolver.Resolve(scopeHint)

		if _, err := os.Stat(scope.DataPath); os.IsNotExist(err) {
			return fmt.Errorf("not initialized: %s", scope.DataPath)
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer watcher.Close()

		if err := addWatchDirs(watcher, scope.Path); err != nil {
			return fmt.Errorf("add watch dirs: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for new notes...\n", scope.Path)

		timer := time.NewTimer(0)
		if !timer.Stop() {
			<-timer.C
		}
		pending := make(map[string]struct{})
		written := make(map[string]struct{})

		for {
			select {
			case <-cmd.Context().Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if event.Op&fsnotify.Create != 0 && isDir(event.Name) {
					_ = addWatchDirs(watcher, event.Name)
					continue
				}
				if !shouldHandleEvent(event, scope.DataPath) {
					continue
				}
				if _, ok := written[event.Name]; ok {
					delete(written, event.Name)
					continue
				}
				pending[event.Name] = struct{}{}
				timer.Reset(debounce)
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
			case <-timer.C:
				for path := range pending {
					delete(pending, path)
					if !isFile(path) {
						continue
					}

					renamed := classifyCreated(cmd, notes(), scope.Path, path, internal.ClassifyNoteRequest{
						Kind:   kind,
						Scope:  scopeHint,
						Commit: commit,
					})
					if renamed != "" {
						written[renamed] = struct{}{}
					}
				}
			}
		}
	}
}

// classifyCreated classifies one new note unless the ignore rules exclude
// it. It returns the absolute path the note was renamed to, or "" when the
// note stayed in place or was skipped.
func classifyCreated(cmd *cobra.Command, svc *internal.NoteService, root, path string, req internal.ClassifyNoteRequest) string {
	ignored, err := svc.Ignored(req.Scope, path)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
		return ""
	}
	if ignored {
		return ""
	}

	req.Path = path
	result, err := svc.Classify(cmd.Context(), req)
	if result == nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
		return ""
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", result.Path, result.Notice())
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
	}

	final := filepath.Join(root, filepath.FromSlash(result.Path))
	if final == filepath.Clean(path) {
		return ""
	}
	return final
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}

		if info.IsDir() {
			base := filepath.Base(path)
			if strings.HasPrefix(base, ".") && path != root {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}

// shouldHandleEvent keeps creations of markdown notes outside the data
// directory.
func shouldHandleEvent(event fsnotify.Event, dataPath string) bool {
	if strings.HasPrefix(event.Name, dataPath) {
		return false
	}
	if event.Op&fsnotify.Create == 0 {
		return false
	}
	return strings.HasSuffix(event.Name, ".md")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
