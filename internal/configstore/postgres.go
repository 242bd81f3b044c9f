package configstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/blakestevenson/moviedetails/internal/plugins"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool the backend needs
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresBackend keeps settings in the config table
type PostgresBackend struct {
	db DB
}

// NewPostgresBackend creates a backend over db. The config table must exist
// (see db.EnsureSchema).
func NewPostgresBackend(db DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

func (b *PostgresBackend) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var value []byte
	err := b.db.QueryRow(ctx, `SELECT value FROM config WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, plugins.ErrSettingNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (b *PostgresBackend) Put(ctx context.Context, key string, value json.RawMessage) error {
	_, err := b.db.Exec(ctx, `
		INSERT INTO config (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, []byte(value))
	return err
}

func (b *PostgresBackend) Delete(ctx context.Context, key string) error {
	tag, err := b.db.Exec(ctx, `DELETE FROM config WHERE key = $1`, key)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return plugins.ErrSettingNotFound
	}
	return nil
}

func (b *PostgresBackend) GetAll(ctx context.Context) (map[string]json.RawMessage, error) {
	rows, err := b.db.Query(ctx, `SELECT key, value FROM config ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]json.RawMessage)
	for rows.Next() {
		var (
			key   string
			value []byte
		)
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan config row: %w", err)
		}
		result[key] = value
	}

	return result, rows.Err()
}
