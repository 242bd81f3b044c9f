package plugins

import "errors"

var (
	// ErrCommandNotFound is returned when executing an unknown command
	ErrCommandNotFound = errors.New("command not found")

	// ErrDuplicateCommand is returned when a command ID is registered twice
	ErrDuplicateCommand = errors.New("command already registered")

	// ErrDuplicatePlugin is returned when a plugin ID is loaded twice
	ErrDuplicatePlugin = errors.New("plugin already loaded")

	// ErrNoActiveDocument is returned by commands that need an open document
	ErrNoActiveDocument = errors.New("no active document")

	// ErrSettingNotFound is returned by settings stores for unknown keys
	ErrSettingNotFound = errors.New("setting not found")

	// ErrMissingArgument is returned when a command argument is absent
	ErrMissingArgument = errors.New("missing command argument")
)
