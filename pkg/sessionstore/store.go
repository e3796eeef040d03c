// Package sessionstore persists the dashboard session record between runs.
//
// A store holds exactly one record under a fixed key. Writes are
// last-writer-wins; there are no transactions. Drivers live under drivers/.
package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/shiftboard/pkg/timex"
)

// DefaultKey is the storage key every driver uses unless told otherwise.
const DefaultKey = "shiftboard.session"

var (
	ErrNotFound = errors.New("sessionstore: no session stored")
	ErrCorrupt  = errors.New("sessionstore: stored session is unreadable")
)

// Store is implemented by every driver.
type Store interface {
	// Load returns the stored record or ErrNotFound.
	Load(ctx context.Context) (Record, error)

	// Save replaces the stored record.
	Save(ctx context.Context, r Record) error

	// Clear removes the stored record. Clearing an empty store is not an error.
	Clear(ctx context.Context) error

	Close() error
}

// User is the profile persisted alongside the tokens.
type User struct {
	ID             string `json:"id,omitempty"`
	Email          string `json:"email"`
	Name           string `json:"name,omitempty"`
	Role           string `json:"role"`
	BusinessUnitID string `json:"businessUnitId,omitempty"`
}

// Record is the persisted session: {user, token, refreshToken, expiresAt}.
// expiresAt is written as epoch milliseconds and read in any shape timex
// understands.
type Record struct {
	User         User            `json:"user"`
	Token        string          `json:"token"`
	RefreshToken string          `json:"refreshToken,omitempty"`
	ExpiresAt    timex.EpochTime `json:"expiresAt"`
}

// Validate reports whether r is usable as a session.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Token) == "" {
		return fmt.Errorf("%w: missing token", ErrCorrupt)
	}
	if r.ExpiresAt.IsZero() {
		return fmt.Errorf("%w: missing expiresAt", ErrCorrupt)
	}
	return nil
}

// Expired reports whether the access token has expired at now.
func (r Record) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt.Time)
}

// Encode serializes r for drivers that store opaque payloads.
func Encode(r Record) ([]byte, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("sessionstore: encode: %w", err)
	}
	return b, nil
}

// Decode parses a payload written by Encode (or by older clients) and
// validates it.
func Decode(b []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(b, &r); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}
