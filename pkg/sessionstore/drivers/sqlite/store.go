// Package sqlite stores the session record in a SQLite table so several
// tools on one machine can share it.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/shiftboard/pkg/sessionstore"
	_ "modernc.org/sqlite"
)

type Store struct {
	db  *sql.DB
	key string
}

var _ sessionstore.Store = (*Store)(nil)

// NewStore opens dsn. Call ApplyMigrations before first use. An empty key
// uses sessionstore.DefaultKey.
func NewStore(dsn, key string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One writer keeps in-memory databases coherent and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	if key == "" {
		key = sessionstore.DefaultKey
	}
	return &Store{db: db, key: key}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Load(ctx context.Context) (sessionstore.Record, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM session_records WHERE key = ?`, s.key,
	).Scan(&payload)
	if err != nil {
		return sessionstore.Record{}, mapNotFound(err)
	}
	return sessionstore.Decode(payload)
}

func (s *Store) Save(ctx context.Context, r sessionstore.Record) error {
	payload, err := sessionstore.Encode(r)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO session_records (key, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		s.key, payload, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save session: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session_records WHERE key = ?`, s.key); err != nil {
		return fmt.Errorf("sqlite: clear session: %w", err)
	}
	return nil
}

// UpdatedAt reports when the record was last saved.
func (s *Store) UpdatedAt(ctx context.Context) (time.Time, error) {
	var at time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT updated_at FROM session_records WHERE key = ?`, s.key,
	).Scan(&at)
	if err != nil {
		return time.Time{}, mapNotFound(err)
	}
	return at, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sessionstore.ErrNotFound
	}
	return err
}
