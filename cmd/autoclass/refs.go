package main

import (
	"encoding/json"
	"fmt"

	"github.com/rtuszik/auto-classifier/internal"
	"github.com/spf13/cobra"
)

func NewRefsCmd(notes func() *internal.NoteService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refs",
		Short: "Manage reference labels",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List labels already used in the vault",
		Args:  cobra.NoArgs,
		RunE:  makeRefsListRunner(notes),
	}
	list.Flags().String("filter", "", "Only list labels matching this regular expression")

	refresh := &cobra.Command{
		Use:   "refresh",
		Short: "Store the configured reference labels in the config",
		Args:  cobra.NoArgs,
		RunE:  makeRefsRefreshRunner(notes),
	}

	cmd.AddCommand(list, refresh)
	return cmd
}

func makeRefsListRunner(notes func() *internal.NoteService) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		scopeHint, _ := cmd.Flags().GetString("scope")
		asJSON, _ := cmd.Flags().GetBool("json")
		filter, _ := cmd.Flags().GetString("filter")

		labels, err := notes().KnownLabels(cmd.Context(), scopeHint, filter)
		if err != nil {
			return fmt.Errorf("list labels: %w", err)
		}

		if asJSON {
			if labels == nil {
				labels = []string{}
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(labels)
		}
		for _, label := range labels {
			fmt.Fprintln(cmd.OutOrStdout(), label)
		}
		return nil
	}
}

func makeRefsRefreshRunner(notes func() *internal.NoteService) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		scopeHint, _ := cmd.Flags().GetString("scope")

		labels, err := notes().RefreshReferences(cmd.Context(), scopeHint)
		if err != nil {
			return fmt.Errorf("refresh references: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Stored %d reference labels\n", len(labels))
		return nil
	}
}
