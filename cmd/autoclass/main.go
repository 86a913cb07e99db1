package main

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rtuszik/auto-classifier/internal"
)

// version is set via ldflags at build time
var version = "dev"

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	ctx := context.Background()

	app := newApp(os.Stderr)
	rootCmd := NewRootCmd(version, app)
	if err := fang.Execute(ctx, rootCmd); err != nil {
		os.Exit(1)
	}
}

type app struct {
	logOut io.Writer
	logger zerolog.Logger
	notes  *internal.NoteService
}

func newApp(logOut io.Writer) *app {
	return &app{logOut: logOut, logger: zerolog.Nop()}
}

// setup builds the services once flags are parsed.
func (a *app) setup(scopeHint string, verbose bool) {
	resolver := internal.NewScopeResolver()

	level := "info"
	if cfg, err := internal.LoadConfig(resolver.Resolve(scopeHint)); err == nil {
		level = cfg.Log.Level
	}
	if verbose {
		level = zerolog.LevelDebugValue
	}
	a.logger = internal.NewLogger(a.logOut, level)

	configFor := func(scope internal.Scope) (*internal.Config, error) {
		return internal.LoadConfig(scope)
	}
	vaultFor := func(scope internal.Scope) (*internal.Vault, error) {
		return internal.OpenVault(scope)
	}
	historyFor := func(scope internal.Scope) (*internal.History, error) {
		return internal.OpenHistory(scope.Path)
	}

	a.notes = internal.NewNoteService(
		resolver,
		configFor,
		vaultFor,
		historyFor,
		internal.NewClassifyUseCase(nil, a.logger),
		internal.NewSuggestFilenameUseCase(nil, a.logger),
		internal.NewProbeEngineUseCase(nil, a.logger),
	)
}
