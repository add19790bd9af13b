package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Record is a stored session keyed by its dashboard session id.
type Record struct {
	ID        string
	Snapshot  Snapshot
	ExpiresAt time.Time
}

func (r Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// Repository persists sessions between requests and process restarts.
type Repository interface {
	Save(ctx context.Context, rec Record) error
	// Find returns ErrNotFound for unknown or expired sessions
	Find(ctx context.Context, id string) (Record, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
