package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rtuszik/auto-classifier/internal"
	"github.com/spf13/cobra"
)

const defaultIgnore = `# Paths skipped when collecting known tags and watching for notes.
templates/
`

func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize autoclass in a vault",
		Long:  `Create a .autoclass directory holding the default configuration.`,
		RunE:  runInit,
	}

	cmd.Flags().Bool("global", false, "Initialize global scope (~/.autoclass)")
	return cmd
}

func runInit(cmd *cobra.Command, _ []string) error {
	isGlobal, _ := cmd.Flags().GetBool("global")

	resolver := internal.NewScopeResolver()

	var scope internal.Scope
	if isGlobal {
		scope = resolver.Global()
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		scope = internal.Scope{
			Type:     internal.ScopeProject,
			Path:     cwd,
			DataPath: filepath.Join(cwd, internal.ScopeDirName),
		}
	}

	if _, err := os.Stat(scope.DataPath); err == nil {
		return fmt.Errorf("already initialized at %s", scope.DataPath)
	}

	if err := os.MkdirAll(scope.DataPath, 0755); err != nil {
		return fmt.Errorf("create %s directory: %w", internal.ScopeDirName, err)
	}

	cfg := internal.DefaultConfig()
	if err := internal.SaveConfig(scope, cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	if !isGlobal {
		if _, err := os.Stat(scope.IgnorePath()); os.IsNotExist(err) {
			if err := os.WriteFile(scope.IgnorePath(), []byte(defaultIgnore), 0644); err != nil {
				return fmt.Errorf("write %s: %w", internal.IgnoreFilename, err)
			}
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized autoclass at %s\n", scope.DataPath)
	return nil
}
