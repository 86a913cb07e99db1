package main

import (
	"github.com/rtuszik/auto-classifier/internal"
	"github.com/spf13/cobra"
)

func NewRootCmd(version string, a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "autoclass",
		Short:         "Classify markdown notes with language models",
		Long:          `Suggest tags, links and file names for markdown notes using an OpenAI-compatible chat model or a zero-shot classifier.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	addPersistentFlags(rootCmd)

	if a != nil {
		rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
			scopeHint, _ := cmd.Flags().GetString("scope")
			verbose, _ := cmd.Flags().GetBool("verbose")
			a.setup(scopeHint, verbose)
		}
		addSubcommands(rootCmd, a)
	}

	return rootCmd
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("scope", "", "Target scope (global|project)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
}

func addSubcommands(root *cobra.Command, a *app) {
	notes := func() *internal.NoteService { return a.notes }

	root.AddCommand(
		NewInitCmd(),
		NewClassifyCmd(notes),
		NewSuggestNameCmd(notes),
		NewRefsCmd(notes),
		NewEngineCmd(notes),
		NewWatchCmd(notes),
		NewLogCmd(notes),
	)
}
