package plugins

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPlugin struct {
	id       string
	commands []Command
	loadErr  error
	unloaded bool
}

func (p *stubPlugin) Metadata() PluginMetadata {
	return PluginMetadata{ID: p.id, Name: p.id, Version: "0.0.1"}
}

func (p *stubPlugin) OnLoad(ctx context.Context, host Host) error {
	for _, c := range p.commands {
		if err := host.Commands.AddCommand(c); err != nil {
			return err
		}
	}
	return p.loadErr
}

func (p *stubPlugin) OnUnload() { p.unloaded = true }

func noop(context.Context, map[string]string) error { return nil }

func TestExecuteRunsCommandWithArgs(t *testing.T) {
	pm := NewPluginManager(nil, nil, zap.NewNop())

	var got map[string]string
	p := &stubPlugin{id: "a", commands: []Command{{
		ID: "echo",
		Run: func(_ context.Context, args map[string]string) error {
			got = args
			return nil
		},
	}}}
	require.NoError(t, pm.Load(context.Background(), p))

	require.NoError(t, pm.Execute(context.Background(), "echo", map[string]string{"x": "1"}))
	assert.Equal(t, map[string]string{"x": "1"}, got)

	require.NoError(t, pm.Execute(context.Background(), "echo", nil))
	assert.NotNil(t, got)

	err := pm.Execute(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, ErrCommandNotFound)
}

func TestDuplicateCommandRejected(t *testing.T) {
	pm := NewPluginManager(nil, nil, zap.NewNop())

	require.NoError(t, pm.Load(context.Background(), &stubPlugin{id: "a", commands: []Command{{ID: "x", Run: noop}}}))

	err := pm.Load(context.Background(), &stubPlugin{id: "b", commands: []Command{{ID: "x", Run: noop}}})
	assert.ErrorIs(t, err, ErrDuplicateCommand)
	assert.Len(t, pm.ListPlugins(), 1)
}

func TestDuplicatePluginRejected(t *testing.T) {
	pm := NewPluginManager(nil, nil, zap.NewNop())

	require.NoError(t, pm.Load(context.Background(), &stubPlugin{id: "a"}))
	assert.ErrorIs(t, pm.Load(context.Background(), &stubPlugin{id: "a"}), ErrDuplicatePlugin)
}

func TestFailedLoadRemovesItsCommands(t *testing.T) {
	pm := NewPluginManager(nil, nil, zap.NewNop())

	p := &stubPlugin{id: "a", commands: []Command{{ID: "x", Run: noop}}, loadErr: errors.New("boom")}
	require.Error(t, pm.Load(context.Background(), p))

	assert.Empty(t, pm.Commands())
	assert.Empty(t, pm.ListPlugins())
}

func TestShutdownUnloadsPlugins(t *testing.T) {
	pm := NewPluginManager(nil, nil, zap.NewNop())

	p := &stubPlugin{id: "a", commands: []Command{{ID: "x", Run: noop}}}
	require.NoError(t, pm.Load(context.Background(), p))

	pm.Shutdown()

	assert.True(t, p.unloaded)
	assert.Empty(t, pm.Commands())
	assert.Empty(t, pm.ListPlugins())
}

func TestCommandValidation(t *testing.T) {
	pm := NewPluginManager(nil, nil, zap.NewNop())

	err := pm.Load(context.Background(), &stubPlugin{id: "a", commands: []Command{{ID: "no-run"}}})
	assert.Error(t, err)
}
