package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/GunioRobot/feedify"
)

// Compile-time interface verification.
var _ feedify.Store = (*Store)(nil)

// Store implements feedify.Store on the feed_cache table.
type Store struct {
	db *DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewStore creates a new Store.
func NewStore(db *DB) *Store {
	return &Store{db: db, Now: time.Now}
}

// Entry is a cached resolution.
type Entry struct {
	Key       string
	Value     string
	ExpiresAt time.Time
	UpdatedAt time.Time
}

// Get returns the unexpired value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		value     string
		expiresAt int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT value, expires_at
		FROM feed_cache
		WHERE key = ?
	`, key).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	} else if err != nil {
		return "", false, err
	}

	if expiresAt <= s.Now().UnixMilli() {
		return "", false, nil
	}
	return value, true, nil
}

// Set stores value under key until ttl has passed, replacing any
// existing entry.
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if key == "" {
		return feedify.Errorf(feedify.EINVALID, "cache key required")
	}
	now := s.Now()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feed_cache (key, value, expires_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
	`, key, value, now.Add(ttl).UnixMilli(), now.UnixMilli())

	return err
}

// Delete removes the entry for key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM feed_cache WHERE key = ?`, key)
	return err
}

// Purge removes expired entries and returns how many were removed.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM feed_cache WHERE expires_at <= ?`, s.Now().UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// FindEntries lists unexpired entries, most recently updated first. A limit
// of zero or less returns every entry after offset.
func (s *Store) FindEntries(ctx context.Context, limit, offset int) ([]*Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT key, value, expires_at, updated_at
		FROM feed_cache
		WHERE expires_at > ?
		ORDER BY updated_at DESC, key ASC
		LIMIT ? OFFSET ?
	`, s.Now().UnixMilli(), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*Entry{}
	for rows.Next() {
		var (
			e                    Entry
			expiresAt, updatedAt int64
		)
		if err := rows.Scan(&e.Key, &e.Value, &expiresAt, &updatedAt); err != nil {
			return nil, err
		}
		e.ExpiresAt = time.UnixMilli(expiresAt).UTC()
		e.UpdatedAt = time.UnixMilli(updatedAt).UTC()
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
