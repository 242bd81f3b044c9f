package plugins

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// LoadedPlugin represents a plugin that has been loaded
type LoadedPlugin struct {
	Meta     PluginMetadata
	Commands []string
	Impl     Plugin
}

// PluginManager manages plugin lifecycle and owns the command registry
type PluginManager struct {
	settings SettingsStore
	editor   Editor
	logger   *zap.Logger

	mu       sync.RWMutex
	plugins  map[string]*LoadedPlugin
	order    []string
	commands map[string]Command
}

// NewPluginManager creates a new plugin manager
func NewPluginManager(settings SettingsStore, editor Editor, logger *zap.Logger) *PluginManager {
	return &PluginManager{
		settings: settings,
		editor:   editor,
		logger:   logger.With(zap.String("component", "plugin-manager")),
		plugins:  make(map[string]*LoadedPlugin),
		commands: make(map[string]Command),
	}
}

// Load runs a plugin's OnLoad and records the commands it registered
func (pm *PluginManager) Load(ctx context.Context, p Plugin) error {
	meta := p.Metadata()

	pm.mu.RLock()
	_, exists := pm.plugins[meta.ID]
	pm.mu.RUnlock()
	if exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePlugin, meta.ID)
	}

	reg := &pluginRegistry{pm: pm, pluginID: meta.ID}
	host := Host{
		Commands: reg,
		Settings: pm.settings,
		Editor:   pm.editor,
	}

	if err := p.OnLoad(ctx, host); err != nil {
		pm.removeCommands(reg.ids)
		return fmt.Errorf("failed to load plugin %s: %w", meta.ID, err)
	}

	pm.mu.Lock()
	pm.plugins[meta.ID] = &LoadedPlugin{
		Meta:     meta,
		Commands: reg.ids,
		Impl:     p,
	}
	pm.order = append(pm.order, meta.ID)
	pm.mu.Unlock()

	pm.logger.Info("Plugin loaded successfully",
		zap.String("plugin_id", meta.ID),
		zap.String("plugin_name", meta.Name),
		zap.String("version", meta.Version),
		zap.Int("commands", len(reg.ids)))

	return nil
}

// Shutdown unloads all plugins in reverse load order
func (pm *PluginManager) Shutdown() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.logger.Info("Shutting down plugin manager")

	for i := len(pm.order) - 1; i >= 0; i-- {
		id := pm.order[i]
		pm.logger.Info("Unloading plugin", zap.String("plugin_id", id))
		pm.plugins[id].Impl.OnUnload()
	}

	pm.plugins = make(map[string]*LoadedPlugin)
	pm.order = nil
	pm.commands = make(map[string]Command)
}

// ListPlugins returns loaded plugins in load order
func (pm *PluginManager) ListPlugins() []*LoadedPlugin {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	plugins := make([]*LoadedPlugin, 0, len(pm.order))
	for _, id := range pm.order {
		plugins = append(plugins, pm.plugins[id])
	}

	return plugins
}

// Commands returns all registered commands sorted by ID
func (pm *PluginManager) Commands() []Command {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	cmds := make([]Command, 0, len(pm.commands))
	for _, c := range pm.commands {
		cmds = append(cmds, c)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].ID < cmds[j].ID })

	return cmds
}

// Execute runs a registered command
func (pm *PluginManager) Execute(ctx context.Context, id string, args map[string]string) error {
	pm.mu.RLock()
	cmd, ok := pm.commands[id]
	pm.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrCommandNotFound, id)
	}

	if args == nil {
		args = map[string]string{}
	}

	pm.logger.Info("Executing command", zap.String("command_id", id))

	if err := cmd.Run(ctx, args); err != nil {
		pm.logger.Warn("Command failed", zap.String("command_id", id), zap.Error(err))
		return err
	}

	return nil
}

func (pm *PluginManager) addCommand(pluginID string, cmd Command) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if _, ok := pm.commands[cmd.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, cmd.ID)
	}
	pm.commands[cmd.ID] = cmd

	pm.logger.Debug("Registered command",
		zap.String("plugin_id", pluginID),
		zap.String("command_id", cmd.ID))

	return nil
}

func (pm *PluginManager) removeCommands(ids []string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	for _, id := range ids {
		delete(pm.commands, id)
	}
}

// pluginRegistry is the CommandRegistry handed to a single plugin
type pluginRegistry struct {
	pm       *PluginManager
	pluginID string
	ids      []string
}

func (r *pluginRegistry) AddCommand(cmd Command) error {
	if cmd.ID == "" || cmd.Run == nil {
		return fmt.Errorf("command requires an ID and a Run func")
	}
	if err := r.pm.addCommand(r.pluginID, cmd); err != nil {
		return err
	}
	r.ids = append(r.ids, cmd.ID)
	return nil
}
