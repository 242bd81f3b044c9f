// Package app wires the plugin, its host and its settings store together.
package app

import (
	"context"
	"fmt"

	"github.com/blakestevenson/moviedetails/internal/config"
	"github.com/blakestevenson/moviedetails/internal/configstore"
	"github.com/blakestevenson/moviedetails/internal/db"
	"github.com/blakestevenson/moviedetails/internal/moviedetails"
	"github.com/blakestevenson/moviedetails/internal/omdb"
	"github.com/blakestevenson/moviedetails/internal/plugins"
	"github.com/blakestevenson/moviedetails/internal/vault"
	"go.uber.org/zap"
)

// App is a loaded plugin host
type App struct {
	Vault   *vault.Vault
	Store   *configstore.Store
	Plugin  *moviedetails.Plugin
	Manager *plugins.PluginManager

	closers []func()
}

// New opens the vault and settings store, then loads the plugin
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{}

	v, err := vault.Open(cfg.VaultDir, logger)
	if err != nil {
		return nil, err
	}
	a.Vault = v

	store, err := a.openStore(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Store = store

	a.Plugin = newPlugin(cfg, logger)
	a.Manager = plugins.NewPluginManager(store, v, logger)

	if err := a.Manager.Load(ctx, a.Plugin); err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, a.Manager.Shutdown)

	return a, nil
}

// OpenSettings opens only the settings store and reads the plugin's
// settings from it. No vault is opened and no commands are registered.
func OpenSettings(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{}

	store, err := a.openStore(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Store = store

	a.Plugin = newPlugin(cfg, logger)
	if err := a.Plugin.LoadSettings(ctx, store); err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

func newPlugin(cfg *config.Config, logger *zap.Logger) *moviedetails.Plugin {
	client := omdb.NewClient(cfg.OMDbBaseURL, logger, omdb.WithTimeout(cfg.OMDbTimeout))
	return moviedetails.New(client, cfg.OMDbAPIKey, logger)
}

// Close unloads plugins and releases the settings store
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*configstore.Store, error) {
	switch cfg.SettingsBackend {
	case config.SettingsBackendPostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)

		if err := db.EnsureSchema(ctx, pool); err != nil {
			return nil, err
		}

		logger.Info("Using postgres settings store")
		return configstore.New(configstore.NewPostgresBackend(pool)), nil

	case config.SettingsBackendFile:
		logger.Info("Using file settings store", zap.String("path", cfg.SettingsPath))
		return configstore.New(configstore.NewFileBackend(cfg.SettingsPath)), nil

	default:
		return nil, fmt.Errorf("unknown settings backend %q", cfg.SettingsBackend)
	}
}
