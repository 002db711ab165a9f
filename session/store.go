package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when the requested session id or user has no
// record in the store. It covers both never-issued and already-deleted ids.
var ErrNotFound = errors.New("session not found")

// ErrStorageUnavailable wraps every I/O failure from the underlying backend.
// Callers surface a generic retry message rather than storage internals.
var ErrStorageUnavailable = errors.New("session storage unavailable")

// ErrDataIntegrity is returned when the store observes a state that violates
// the single-active-session invariant, e.g. more than one record for a user.
// It is logged at the point of detection and never silently resolved.
var ErrDataIntegrity = errors.New("session data integrity violation")

// Store is durable keyed storage for session records and the single source
// of truth shared across threads and processes. Implementations must be safe
// for concurrent use from the foreground path and the background sweeper;
// each concurrent actor should treat every call as one atomic storage round
// trip.
//
// Stores do not filter on expiry: GetByID and GetByUser return expired
// records as-is, leaving the expiry decision to the session manager so the
// store contract stays simple and independently testable.
type Store interface {
	// Put inserts or overwrites a record keyed by its session id. A put
	// that collides with an existing record for the same user supersedes
	// it: last put wins.
	Put(ctx context.Context, sess *Session) error

	// GetByID fetches a record by token. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, sessionID string) (*Session, error)

	// GetByUser fetches the record owned by a user. At most one record
	// exists per user; observing more is reported as ErrDataIntegrity.
	GetByUser(ctx context.Context, userID string) (*Session, error)

	// Delete removes a record. Deleting an absent id is not an error.
	Delete(ctx context.Context, sessionID string) error

	// DeleteExpired bulk-deletes every record expired at the given
	// instant and returns the number removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	// Ping verifies backend availability.
	Ping(ctx context.Context) error

	// Close releases the backend handle.
	Close() error
}
