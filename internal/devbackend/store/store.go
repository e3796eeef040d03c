package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/shiftboard/internal/devbackend/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. It exposes sub-repositories so a
// transaction can only be opened from the root.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens
	Shifts() Shifts
	ConsumptionItems() ConsumptionItems

	ApplyMigrations() error

	// WithTx runs fn in a transaction, committing when fn returns nil.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped Store.
type Tx interface {
	Users() Users
	RefreshTokens() RefreshTokens
	Shifts() Shifts
	ConsumptionItems() ConsumptionItems
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail matches case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	UpdateRole(ctx context.Context, userID, role string) error

	ListUsers(ctx context.Context) ([]domain.User, error)

	IsEmpty(ctx context.Context) (bool, error)
}

type RefreshTokens interface {
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByHash returns the token by fingerprint.
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// RevokeRefreshToken returns ErrNotFound unless an unrevoked token was flipped.
	RevokeRefreshToken(ctx context.Context, hash string) error

	// DeleteExpiredRefreshTokens removes tokens expired or revoked before
	// now and returns how many went.
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}

type Shifts interface {
	CreateShift(ctx context.Context, s domain.Shift) error

	// ListShifts returns shifts starting in [from, to), ordered by start.
	// Zero bounds are open.
	ListShifts(ctx context.Context, from, to time.Time) ([]domain.Shift, error)
}

type ConsumptionItems interface {
	CreateItem(ctx context.Context, it domain.ConsumptionItem) error
	ListItems(ctx context.Context) ([]domain.ConsumptionItem, error)
}
