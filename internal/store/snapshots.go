package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/Simplici0/tourpricing/internal/snapshot"
)

// DefaultStorageKey is the key the current form snapshot is stored under.
const DefaultStorageKey = "mk_trip_pricing_counts_v2"

// Store persists raw input snapshots and saved scenarios in sqlite.
type Store struct {
	db *sql.DB
}

// New returns a Store backed by a migrated database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// SaveSnapshot writes the snapshot under key, replacing any previous one.
func (s *Store) SaveSnapshot(ctx context.Context, key string, snap snapshot.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (storage_key, data_json)
		VALUES (?, ?)
		ON CONFLICT(storage_key) DO UPDATE SET
			data_json = excluded.data_json,
			updated_at = CURRENT_TIMESTAMP
	`, key, string(data))
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the snapshot stored under key. ok is false when nothing
// is stored or the stored record cannot be decoded; a corrupt record is not
// reported as an error.
func (s *Store) LoadSnapshot(ctx context.Context, key string) (snapshot.Snapshot, bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data_json FROM snapshots WHERE storage_key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query snapshot: %w", err)
	}

	snap, err := snapshot.FromJSON([]byte(data))
	if err != nil {
		log.Printf("warning: ignoring corrupt snapshot %q: %v", key, err)
		return nil, false, nil
	}
	return snap, true, nil
}

// DeleteSnapshot removes the snapshot stored under key, if any.
func (s *Store) DeleteSnapshot(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE storage_key = ?`, key); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

// Current returns the stored snapshot merged over defaults, so every field has a value.
func (s *Store) Current(ctx context.Context, key string, defaults snapshot.Snapshot) (snapshot.Snapshot, error) {
	stored, ok, err := s.LoadSnapshot(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return defaults.Clone(), nil
	}
	return snapshot.Merge(defaults, stored), nil
}
