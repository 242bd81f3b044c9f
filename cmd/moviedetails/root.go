package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/blakestevenson/moviedetails/internal/app"
	"github.com/blakestevenson/moviedetails/internal/config"
	"github.com/blakestevenson/moviedetails/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newRootCommand creates a fresh command tree so tests do not share flag state
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "moviedetails",
		Short: "Insert OMDb movie details at the top of a markdown note",
		Long: `moviedetails looks a movie up on OMDb and inserts its year, genres,
director, IMDb ID, rating and poster as front matter at the top of a note.

Examples:
   moviedetails settings set-key abc123
   moviedetails title "The Shawshank Redemption.md"
   moviedetails id notes/heat.md tt0113277`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("vault", "", "Vault directory (default $VAULT_DIR or ./vault)")
	cmd.PersistentFlags().String("settings", "", "Settings file (default $SETTINGS_PATH or ./data.json)")
	cmd.PersistentFlags().String("log-level", "warn", "Set log level (debug|info|warn|error)")

	cmd.AddCommand(newTitleCommand(), newIDCommand(), newSettingsCommand())

	return cmd
}

// loadApp builds the plugin host from env config overridden by flags
func loadApp(cmd *cobra.Command) (*app.App, *zap.Logger, error) {
	return openWith(cmd, app.New)
}

// loadSettings opens just the settings store; no vault is required
func loadSettings(cmd *cobra.Command) (*app.App, *zap.Logger, error) {
	return openWith(cmd, app.OpenSettings)
}

func openWith(cmd *cobra.Command, open func(context.Context, *config.Config, *zap.Logger) (*app.App, error)) (*app.App, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	if v, _ := cmd.Flags().GetString("vault"); v != "" {
		cfg.VaultDir = v
	}
	if s, _ := cmd.Flags().GetString("settings"); s != "" {
		cfg.SettingsBackend = config.SettingsBackendFile
		cfg.SettingsPath = s
	}

	level, _ := cmd.Flags().GetString("log-level")
	logger, err := logging.NewLoggerWithLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	a, err := open(cmd.Context(), cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}

	return a, logger, nil
}

// runOnNote opens note in the vault, runs a plugin command on it and prints
// the notices it produced
func runOnNote(cmd *cobra.Command, note, commandID string, args map[string]string) error {
	if filepath.IsAbs(note) && !cmd.Flags().Changed("vault") {
		if err := cmd.Flags().Set("vault", filepath.Dir(note)); err != nil {
			return err
		}
		note = filepath.Base(note)
	}

	a, logger, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	defer a.Close()

	if _, err := a.Vault.OpenDocument(note); err != nil {
		return err
	}

	runErr := a.Manager.Execute(cmd.Context(), commandID, args)

	for _, n := range a.Vault.Notices() {
		fmt.Fprintln(cmd.ErrOrStderr(), n.Message)
	}

	return runErr
}
