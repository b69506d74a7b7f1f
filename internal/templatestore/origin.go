package templatestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// OriginStore est le magasin partagé, cloisonné par origine de page
// (scheme://host), dans une base sqlite.
type OriginStore struct {
	db *sql.DB
}

// OpenOriginStore ouvre (ou crée) la base sqlite.
func OpenOriginStore(path string) (*OriginStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("origin store: mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("origin store: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer
	if err := migrateOriginStore(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &OriginStore{db: db}, nil
}

func migrateOriginStore(db *sql.DB) error {
	statements := []string{
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS origin_storage (
			origin     TEXT NOT NULL,
			key        TEXT NOT NULL,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (origin, key)
		);`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("origin store migration failed: %w", err)
		}
	}
	return nil
}

func (s *OriginStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Scope renvoie le Backend d'une origine donnée.
func (s *OriginStore) Scope(origin string) Backend {
	return &originScope{store: s, origin: origin}
}

type originScope struct {
	store  *OriginStore
	origin string
}

func (o *originScope) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := o.store.db.QueryRowContext(ctx,
		`SELECT value FROM origin_storage WHERE origin = ? AND key = ?`, o.origin, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("origin store: get %s: %w", key, err)
	}
	return v, true, nil
}

func (o *originScope) Set(ctx context.Context, key, value string) error {
	_, err := o.store.db.ExecContext(ctx, `INSERT INTO origin_storage (origin, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(origin, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		o.origin, key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("origin store: set %s: %w", key, err)
	}
	return nil
}
