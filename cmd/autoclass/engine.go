package main

import (
	"fmt"

	"github.com/rtuszik/auto-classifier/internal"
	"github.com/spf13/cobra"
)

func NewEngineCmd(notes func() *internal.NoteService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "engine",
		Short: "Inspect the classification engine",
	}

	test := &cobra.Command{
		Use:   "test",
		Short: "Send a test request to the configured engine",
		Args:  cobra.NoArgs,
		RunE:  makeEngineTestRunner(notes),
	}
	test.Flags().String("engine", "", "Override the engine (generative|zeroshot)")

	cmd.AddCommand(test)
	return cmd
}

func makeEngineTestRunner(notes func() *internal.NoteService) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		scopeHint, _ := cmd.Flags().GetString("scope")

		out, err := notes().ProbeEngine(cmd.Context(), scopeHint, overrides(cmd))
		if err != nil {
			return fmt.Errorf("engine test: %w", err)
		}

		msg := fmt.Sprintf("%s is reachable", out.Engine)
		if out.Usage != nil {
			msg += fmt.Sprintf(" (%d tokens used)", out.Usage.TotalTokens)
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	}
}
