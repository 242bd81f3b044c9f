package configstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/blakestevenson/moviedetails/internal/fsutil"
	"github.com/blakestevenson/moviedetails/internal/plugins"
)

// FileBackend keeps settings in a single JSON object file, the way editors
// keep per-plugin data files
type FileBackend struct {
	path string

	mu sync.Mutex
}

// NewFileBackend returns a backend over path. The file is created on first
// write.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (b *FileBackend) Get(ctx context.Context, key string) (json.RawMessage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	values, err := b.load()
	if err != nil {
		return nil, err
	}

	value, ok := values[key]
	if !ok {
		return nil, plugins.ErrSettingNotFound
	}
	return value, nil
}

func (b *FileBackend) Put(ctx context.Context, key string, value json.RawMessage) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	values, err := b.load()
	if err != nil {
		return err
	}
	values[key] = value

	return b.save(values)
}

func (b *FileBackend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	values, err := b.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return plugins.ErrSettingNotFound
	}
	delete(values, key)

	return b.save(values)
}

func (b *FileBackend) GetAll(ctx context.Context) (map[string]json.RawMessage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.load()
}

func (b *FileBackend) load() (map[string]json.RawMessage, error) {
	values := make(map[string]json.RawMessage)

	data, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	if len(data) == 0 {
		return values, nil
	}

	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", b.path, err)
	}
	return values, nil
}

func (b *FileBackend) save(values map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	if err := fsutil.WriteFileAtomic(b.path, append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}
