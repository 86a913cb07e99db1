package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rtuszik/auto-classifier/internal"
	"github.com/spf13/cobra"
)

func NewClassifyCmd(notes func() *internal.NoteService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <note>",
		Short: "Classify a note and write the labels into it",
		Long: `Send part of a note to the configured engine and place the returned labels
as tags, wikilinks, a frontmatter list or the note title.`,
		Args: cobra.ExactArgs(1),
		RunE: makeClassifyRunner(notes),
	}

	cmd.Flags().StringP("input", "i", string(internal.InputContent), "Input to classify (selection|title|frontmatter|content)")
	cmd.Flags().String("lines", "", "Selected line range for --input selection, e.g. 3:7")
	cmd.Flags().String("text", "", "Selected text for --input selection")
	cmd.Flags().String("engine", "", "Override the engine (generative|zeroshot)")
	cmd.Flags().Int("max", 0, "Override the maximum number of suggestions")
	cmd.Flags().Bool("dry-run", false, "Print the resulting diff without writing")
	cmd.Flags().Bool("commit", false, "Commit the changed note to the enclosing git repository")
	return cmd
}

func makeClassifyRunner(notes func() *internal.NoteService) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		scopeHint, _ := cmd.Flags().GetString("scope")
		asJSON, _ := cmd.Flags().GetBool("json")
		inputFlag, _ := cmd.Flags().GetString("input")
		lines, _ := cmd.Flags().GetString("lines")
		text, _ := cmd.Flags().GetString("text")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		commit, _ := cmd.Flags().GetBool("commit")

		kind, err := internal.ParseInputKind(inputFlag)
		if err != nil {
			return err
		}

		req := internal.ClassifyNoteRequest{
			Path:      args[0],
			Kind:      kind,
			Selection: text,
			Scope:     scopeHint,
			DryRun:    dryRun,
			Commit:    commit,
			Configure: overrides(cmd),
		}
		if lines != "" {
			req.FromLine, req.ToLine, err = parseLineRange(lines)
			if err != nil {
				return err
			}
		}

		result, err := notes().Classify(cmd.Context(), req)
		if result == nil {
			return fmt.Errorf("classify: %w", err)
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if encErr := enc.Encode(map[string]any{
				"run_id": result.RunID,
				"engine": result.Engine,
				"labels": result.Labels[:result.LabelsApplied],
				"path":   result.Path,
				"usage":  result.Usage,
			}); encErr != nil {
				return encErr
			}
		} else {
			if dryRun {
				fmt.Fprint(cmd.OutOrStdout(), result.Diff)
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Notice())
			if result.Commit != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", result.Commit.Hash[:7], result.Commit.Message)
			}
		}

		if err != nil {
			return fmt.Errorf("classify: %w", err)
		}
		return nil
	}
}

// overrides applies the per-invocation engine flags to the loaded config.
func overrides(cmd *cobra.Command) func(*internal.Config) {
	engine, _ := cmd.Flags().GetString("engine")
	maxSuggestions, _ := cmd.Flags().GetInt("max")

	return func(cfg *internal.Config) {
		if engine != "" {
			cfg.Engine = internal.EngineKind(engine)
		}
		if maxSuggestions != 0 {
			cfg.MaxSuggestions = maxSuggestions
		}
	}
}

func parseLineRange(s string) (int, int, error) {
	fromStr, toStr, found := strings.Cut(s, ":")
	from, err := strconv.Atoi(strings.TrimSpace(fromStr))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid line range %q", s)
	}
	if !found {
		return from, from, nil
	}

	to, err := strconv.Atoi(strings.TrimSpace(toStr))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid line range %q", s)
	}
	return from, to, nil
}
