package main

import (
	"fmt"

	"github.com/rtuszik/auto-classifier/internal"
	"github.com/spf13/cobra"
)

func NewSuggestNameCmd(notes func() *internal.NoteService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest-name <note>",
		Short: "Rename a note to a model-suggested file name",
		Args:  cobra.ExactArgs(1),
		RunE:  makeSuggestNameRunner(notes),
	}

	cmd.Flags().Bool("dry-run", false, "Print the suggested path without renaming")
	cmd.Flags().Bool("commit", false, "Commit the rename to the enclosing git repository")
	return cmd
}

func makeSuggestNameRunner(notes func() *internal.NoteService) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		scopeHint, _ := cmd.Flags().GetString("scope")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		commit, _ := cmd.Flags().GetBool("commit")

		result, err := notes().SuggestName(cmd.Context(), internal.SuggestNameRequest{
			Path:   args[0],
			Scope:  scopeHint,
			DryRun: dryRun,
			Commit: commit,
		})
		if result == nil {
			return fmt.Errorf("suggest name: %w", err)
		}

		switch {
		case result.Path == result.From:
			fmt.Fprintf(cmd.OutOrStdout(), "%s already has the suggested name\n", result.From)
		case dryRun:
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (dry run)\n", result.From, result.Path)
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", result.From, result.Path)
		}
		if result.Commit != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", result.Commit.Hash[:7], result.Commit.Message)
		}

		if err != nil {
			return fmt.Errorf("suggest name: %w", err)
		}
		return nil
	}
}
