package database

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a lookup matches no row
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when registering an email that exists
	ErrDuplicateEmail = errors.New("email already registered")
)

const (
	DefaultTrendLimit = 10
	MaxTrendLimit     = 100
)

// Store is the persistence boundary used by the API. Implementations must be
// safe for concurrent use.
type Store interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)

	CreateRecord(ctx context.Context, record *Record) error
	// LatestRecord returns the most recent record for userID or ErrNotFound
	LatestRecord(ctx context.Context, userID string) (*Record, error)
	// TrendRecords returns up to limit of the most recent records for userID,
	// oldest first
	TrendRecords(ctx context.Context, userID string, limit int) ([]TrendPoint, error)

	Ping(ctx context.Context) error
	Stats() map[string]interface{}
	Close() error
}

// ClampTrendLimit maps a requested trend size onto [1, MaxTrendLimit],
// using DefaultTrendLimit for non-positive values.
func ClampTrendLimit(limit int) int {
	if limit <= 0 {
		return DefaultTrendLimit
	}
	if limit > MaxTrendLimit {
		return MaxTrendLimit
	}
	return limit
}

// Open returns a postgres store when databaseURL is set and a sqlite store
// under dataDir otherwise.
func Open(ctx context.Context, dataDir, databaseURL string) (Store, error) {
	if databaseURL != "" {
		store, err := NewPostgresStore(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	db, err := NewDB(dataDir)
	if err != nil {
		return nil, err
	}
	return NewRepository(db), nil
}
