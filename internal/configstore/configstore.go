// Package configstore persists plugin settings as JSON values keyed by name.
package configstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/blakestevenson/moviedetails/internal/plugins"
)

// Backend stores raw JSON values
type Backend interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Put(ctx context.Context, key string, value json.RawMessage) error
	Delete(ctx context.Context, key string) error
	GetAll(ctx context.Context) (map[string]json.RawMessage, error)
}

// Store provides typed access on top of a backend
type Store struct {
	backend Backend
}

// New creates a new config store
func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// Get retrieves a configuration value as raw JSON. Missing keys return
// plugins.ErrSettingNotFound.
func (s *Store) Get(ctx context.Context, key string) (json.RawMessage, error) {
	value, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get config %s: %w", key, err)
	}
	return value, nil
}

// Set stores a configuration value
func (s *Store) Set(ctx context.Context, key string, value any) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal config value: %w", err)
	}

	if err := s.backend.Put(ctx, key, jsonValue); err != nil {
		return fmt.Errorf("failed to set config %s: %w", key, err)
	}

	return nil
}

// Delete removes a configuration value
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.backend.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete config %s: %w", key, err)
	}
	return nil
}

// GetAll retrieves all configuration values
func (s *Store) GetAll(ctx context.Context) (map[string]json.RawMessage, error) {
	values, err := s.backend.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all config: %w", err)
	}
	return values, nil
}

// GetString retrieves a string configuration value
func (s *Store) GetString(ctx context.Context, key string) (string, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return "", err
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", fmt.Errorf("failed to unmarshal string config %s: %w", key, err)
	}

	return value, nil
}

// SetString stores a string configuration value
func (s *Store) SetString(ctx context.Context, key, value string) error {
	return s.Set(ctx, key, value)
}

// GetOrDefault retrieves a string value or returns a default when the key
// is missing
func (s *Store) GetOrDefault(ctx context.Context, key, defaultValue string) (string, error) {
	value, err := s.GetString(ctx, key)
	if errors.Is(err, plugins.ErrSettingNotFound) {
		return defaultValue, nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

var _ plugins.SettingsStore = (*Store)(nil)
