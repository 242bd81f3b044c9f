package plugins

import (
	"context"
)

// PluginMetadata contains basic information about a plugin
type PluginMetadata struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// Command is a named action the user can invoke
type Command struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Args lists the argument names the command reads, if any
	Args []string `json:"args,omitempty"`

	Run func(ctx context.Context, args map[string]string) error `json:"-"`
}

// Position is a zero-based line/column location in a document. Ch counts
// characters (runes), not bytes.
type Position struct {
	Line int `json:"line"`
	Ch   int `json:"ch"`
}

// Document is an open note the host lets plugins edit
type Document interface {
	// BaseName is the file name without directory or extension
	BaseName() string
	Cursor() Position
	SetCursor(pos Position)
	// InsertAt inserts text at pos, pushing existing content down
	InsertAt(text string, pos Position) error
}

// Editor is the host's view of the open workspace
type Editor interface {
	ActiveDocument() (Document, bool)
	// Notify shows a transient user-facing message
	Notify(msg string)
}

// CommandRegistry registers user-invocable actions
type CommandRegistry interface {
	AddCommand(cmd Command) error
}

// SettingsStore is a host-persisted key-value store for plugin settings
type SettingsStore interface {
	GetString(ctx context.Context, key string) (string, error)
	SetString(ctx context.Context, key, value string) error
}

// Host bundles the capabilities handed to a plugin when it loads
type Host struct {
	Commands CommandRegistry
	Settings SettingsStore
	Editor   Editor
}

// Plugin is the interface every plugin implements
type Plugin interface {
	Metadata() PluginMetadata
	// OnLoad loads settings and registers commands
	OnLoad(ctx context.Context, host Host) error
	OnUnload()
}
