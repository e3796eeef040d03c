// Package file stores the session record as a JSON file.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aussiebroadwan/shiftboard/pkg/sessionstore"
)

const (
	dirPerm  = 0o700
	filePerm = 0o600
)

// Store writes the record atomically (temp file + rename) so readers in
// other processes never observe a partial file.
type Store struct {
	path string
	mu   sync.Mutex
}

var _ sessionstore.Store = (*Store)(nil)

// DefaultPath returns <user config dir>/shiftboard/session.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("file: locate config dir: %w", err)
	}
	return filepath.Join(dir, "shiftboard", "session.json"), nil
}

// New returns a Store at path, creating the parent directory.
func New(path string) (*Store, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return nil, fmt.Errorf("file: create session dir: %w", err)
	}
	return &Store{path: path}, nil
}

// Path is the file backing the store.
func (s *Store) Path() string { return s.path }

func (s *Store) Load(_ context.Context) (sessionstore.Record, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return sessionstore.Record{}, sessionstore.ErrNotFound
	}
	if err != nil {
		return sessionstore.Record{}, fmt.Errorf("file: read session: %w", err)
	}
	return sessionstore.Decode(b)
}

func (s *Store) Save(_ context.Context, r sessionstore.Record) error {
	b, err := sessionstore.Encode(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("file: create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() // no-op after a successful rename

	if err := tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file: chmod temp: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file: sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file: close temp: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("file: replace session: %w", err)
	}
	return nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("file: remove session: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return nil }
