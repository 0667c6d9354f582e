package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/loomchat/loom/conversation"
)

var (
	configFile   string
	backendURL   string
	statePath    string
	stateBackend string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "loom",
	Short: "Multi-session chat with a remote conversational AI",
	Long: `loom keeps several independent conversation threads with a remote
conversational AI, each durably backed by the server-side store. Local state
(the session directory and the active session pointer) lives on this machine
and survives restarts.

Quick start:
  loom chat                      # resume the active session, or start fresh
  loom sessions list             # list known sessions
  loom sessions switch <id>      # make another session active
  loom export <id> --format md   # export a transcript`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", "", "Local state path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&stateBackend, "state-backend", "", `Local state backend: "file" or "sqlite" (overrides config)`)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// buildConfig resolves the effective configuration: defaults, then the
// config file, then flag overrides.
func buildConfig() (*conversation.Config, error) {
	cfg := conversation.DefaultConfig()

	if configFile != "" {
		loaded, err := conversation.LoadConfig(configFile)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	if backendURL != "" {
		cfg.Backend.BaseURL = backendURL
	}
	if statePath != "" {
		cfg.Store.Path = statePath
	}
	if stateBackend != "" {
		cfg.Store.Backend = stateBackend
	}

	if cfg.Store.Path == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("cannot locate a default state directory: %w", err)
		}
		cfg.Store.Path = filepath.Join(base, "loom", "state")
	}

	return &cfg, nil
}

func newCore() (*conversation.Coordinator, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}
	return conversation.New(cfg)
}
