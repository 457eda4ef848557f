package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

const (
	tablePrefix = "shop_"
)

type PostgresStore struct {
	db  *sql.DB
	ctx context.Context
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{
		db:  db,
		ctx: ctx,
	}

	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) migrate() error {
	migrations := []string{
		// Key-value store, one row per cart
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %skv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`, tablePrefix),
	}

	for _, migration := range migrations {
		if _, err := s.db.ExecContext(s.ctx, migration); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Helper methods for key-value store

func (s *PostgresStore) setValue(key, value string) error {
	query := fmt.Sprintf(`
		INSERT INTO %skv (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = NOW()
	`, tablePrefix)
	_, err := s.db.ExecContext(s.ctx, query, key, value)
	return err
}

// getValue reports ok=false for a missing key
func (s *PostgresStore) getValue(key string) (string, bool, error) {
	var value string
	query := fmt.Sprintf("SELECT value FROM %skv WHERE key = $1", tablePrefix)
	err := s.db.QueryRowContext(s.ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return value, true, nil
}

func (s *PostgresStore) deleteValue(key string) error {
	query := fmt.Sprintf("DELETE FROM %skv WHERE key = $1", tablePrefix)
	_, err := s.db.ExecContext(s.ctx, query, key)
	return err
}

func (s *PostgresStore) GetCart(session string) ([]CartEntry, error) {
	val, ok, err := s.getValue(cartKey(session))
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if !ok {
		return []CartEntry{}, nil
	}

	var entries []CartEntry
	if err := json.Unmarshal([]byte(val), &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	if entries == nil {
		entries = []CartEntry{}
	}

	return entries, nil
}

func (s *PostgresStore) SetCart(session string, entries []CartEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}

	return s.setValue(cartKey(session), string(data))
}

func (s *PostgresStore) ClearCart(session string) error {
	return s.deleteValue(cartKey(session))
}
