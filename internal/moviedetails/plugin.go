// Package moviedetails is the plugin that inserts OMDb metadata into notes.
package moviedetails

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/blakestevenson/moviedetails/internal/frontmatter"
	"github.com/blakestevenson/moviedetails/internal/movie"
	"github.com/blakestevenson/moviedetails/internal/plugins"
	"go.uber.org/zap"
)

const (
	// PluginID identifies the plugin
	PluginID = "movie-details"

	// APIKeySetting is the settings key holding the OMDb API key
	APIKeySetting = "plugins.moviedetails.api_key"

	// DefaultAPIKey is the placeholder stored until the user sets a key
	DefaultAPIKey = "default"

	CommandFetchByTitle = "fetch-by-title"
	CommandFetchByID    = "fetch-by-id"

	// ArgIdentifier is the fetch-by-id argument name
	ArgIdentifier = "identifier"
)

// ErrAPIKeyNotConfigured is returned while the API key is empty or the placeholder
var ErrAPIKeyNotConfigured = errors.New("OMDb API key not configured")

// Fetcher looks up movie records. *omdb.Client implements it.
type Fetcher interface {
	FetchByTitle(ctx context.Context, key, apiKey string) (*movie.Record, error)
	FetchByID(ctx context.Context, id, apiKey string) (*movie.Record, error)
}

// Settings is the plugin's persisted configuration
type Settings struct {
	APIKey string `json:"api_key"`
}

// Configured reports whether the API key has been replaced by the user
func (s Settings) Configured() bool {
	key := strings.TrimSpace(s.APIKey)
	return key != "" && key != DefaultAPIKey
}

// Plugin fetches movie details and inserts them at the top of the active note
type Plugin struct {
	fetcher   Fetcher
	logger    *zap.Logger
	seedKey   string
	editor    plugins.Editor
	store     plugins.SettingsStore
	settingMu sync.RWMutex
	settings  Settings
}

// New creates the plugin. seedAPIKey, when non-empty, is used if the
// settings store has no key yet.
func New(fetcher Fetcher, seedAPIKey string, logger *zap.Logger) *Plugin {
	return &Plugin{
		fetcher:  fetcher,
		logger:   logger.With(zap.String("component", "plugin"), zap.String("plugin_id", PluginID)),
		seedKey:  seedAPIKey,
		settings: Settings{APIKey: DefaultAPIKey},
	}
}

// Metadata returns plugin metadata
func (p *Plugin) Metadata() plugins.PluginMetadata {
	return plugins.PluginMetadata{
		ID:          PluginID,
		Name:        "Movie Details",
		Version:     "1.0.0",
		Description: "Fetches movie metadata from OMDb and inserts it as front matter at the top of the active note",
	}
}

// OnLoad loads the API key and registers both commands
func (p *Plugin) OnLoad(ctx context.Context, host plugins.Host) error {
	p.editor = host.Editor

	if err := p.LoadSettings(ctx, host.Settings); err != nil {
		return err
	}

	commands := []plugins.Command{
		{
			ID:   CommandFetchByTitle,
			Name: "Fetch movie details by title",
			Run: func(ctx context.Context, _ map[string]string) error {
				return p.FetchByTitle(ctx)
			},
		},
		{
			ID:   CommandFetchByID,
			Name: "Fetch movie details by IMDb ID",
			Args: []string{ArgIdentifier},
			Run: func(ctx context.Context, args map[string]string) error {
				return p.FetchByID(ctx, args[ArgIdentifier])
			},
		},
	}

	for _, cmd := range commands {
		if err := host.Commands.AddCommand(cmd); err != nil {
			return err
		}
	}

	return nil
}

// OnUnload is a no-op; settings are saved as they change
func (p *Plugin) OnUnload() {}

// Settings returns a copy of the current settings
func (p *Plugin) Settings() Settings {
	p.settingMu.RLock()
	defer p.settingMu.RUnlock()
	return p.settings
}

// UpdateAPIKey changes and persists the API key
func (p *Plugin) UpdateAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)

	p.settingMu.Lock()
	defer p.settingMu.Unlock()

	if err := p.store.SetString(ctx, APIKeySetting, key); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	p.settings.APIKey = key

	p.logger.Info("API key updated", zap.Bool("configured", p.settings.Configured()))
	return nil
}

// FetchByTitle looks up the active note's name and inserts the result
func (p *Plugin) FetchByTitle(ctx context.Context) error {
	doc, ok := p.activeDocument(ctx)
	if !ok {
		return plugins.ErrNoActiveDocument
	}

	key := movie.LookupKey(doc.BaseName())
	return p.run(ctx, doc, func(apiKey string) (*movie.Record, error) {
		return p.fetcher.FetchByTitle(ctx, key, apiKey)
	})
}

// FetchByID looks up an IMDb identifier and inserts the result
func (p *Plugin) FetchByID(ctx context.Context, id string) error {
	doc, ok := p.activeDocument(ctx)
	if !ok {
		return plugins.ErrNoActiveDocument
	}

	id = strings.TrimSpace(id)
	if id == "" {
		plugins.Notify(ctx, p.editor, "An IMDb ID is required")
		return fmt.Errorf("%w: %s", plugins.ErrMissingArgument, ArgIdentifier)
	}

	return p.run(ctx, doc, func(apiKey string) (*movie.Record, error) {
		return p.fetcher.FetchByID(ctx, id, apiKey)
	})
}

func (p *Plugin) activeDocument(ctx context.Context) (plugins.Document, bool) {
	doc, ok := p.editor.ActiveDocument()
	if !ok {
		plugins.Notify(ctx, p.editor, "No active document")
	}
	return doc, ok
}

// run fetches with the current API key and inserts the formatted block at
// the start of doc. doc is left untouched on any failure.
func (p *Plugin) run(ctx context.Context, doc plugins.Document, fetch func(apiKey string) (*movie.Record, error)) error {
	settings := p.Settings()
	if !settings.Configured() {
		plugins.Notify(ctx, p.editor, "Set your OMDb API key in the plugin settings first")
		return ErrAPIKeyNotConfigured
	}

	record, err := fetch(settings.APIKey)
	if err != nil {
		p.logger.Warn("Failed to fetch movie details",
			zap.String("document", doc.BaseName()),
			zap.Error(err))
		plugins.Notify(ctx, p.editor, fmt.Sprintf("Failed to fetch movie details: %v", err))
		return err
	}

	// The block ends on its closing delimiter; the newline keeps the
	// note's first line below it.
	block := frontmatter.Format(*record) + "\n"

	start := plugins.Position{Line: 0, Ch: 0}
	doc.SetCursor(start)
	if err := doc.InsertAt(block, doc.Cursor()); err != nil {
		plugins.Notify(ctx, p.editor, fmt.Sprintf("Failed to insert movie details: %v", err))
		return fmt.Errorf("failed to insert movie details: %w", err)
	}

	p.logger.Info("Inserted movie details",
		zap.String("document", doc.BaseName()),
		zap.String("imdb_id", record.IMDbID))
	plugins.Notify(ctx, p.editor, "Movie details inserted")

	return nil
}

// LoadSettings binds the plugin to store and reads the API key from it.
// OnLoad calls it; hosts that only edit settings call it without loading
// the plugin's commands.
func (p *Plugin) LoadSettings(ctx context.Context, store plugins.SettingsStore) error {
	p.store = store

	key, err := store.GetString(ctx, APIKeySetting)
	switch {
	case errors.Is(err, plugins.ErrSettingNotFound):
		key = DefaultAPIKey
		if p.seedKey != "" {
			key = p.seedKey
		}
	case err != nil:
		return fmt.Errorf("failed to load settings: %w", err)
	}

	settings := Settings{APIKey: key}

	p.settingMu.Lock()
	p.settings = settings
	p.settingMu.Unlock()

	p.logger.Info("Settings loaded", zap.Bool("api_key_configured", settings.Configured()))
	return nil
}
