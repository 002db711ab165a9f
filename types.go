package authcore

import (
	"context"
	"time"

	"github.com/caretrack/authcore/permission"
)

// UserProvider is the interface callers implement to integrate the engine
// with their account database. userstore.SQLiteStore is the bundled
// implementation.
type UserProvider interface {
	// FindUserByUsername returns the account for a login attempt, or
	// ErrUserNotFound.
	FindUserByUsername(ctx context.Context, username string) (*UserRecord, error)

	// TouchLastLogin records a successful login. Failures are logged by
	// the engine but never fail the login.
	TouchLastLogin(ctx context.Context, userID string) error
}

// PasswordUpdater is optionally implemented by a UserProvider that supports
// transparent hash upgrades on login.
type PasswordUpdater interface {
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error
}

// UserRecord is the account record returned by a UserProvider.
type UserRecord struct {
	UserID       string
	Username     string
	PasswordHash string
	Role         string
}

// Identity describes an authenticated session, returned by Validate and
// Login. Permissions is derived from the role name at validation time, so a
// catalog change takes effect on the next Validate without re-login.
type Identity struct {
	SessionID   string
	UserID      string
	Role        string
	ExpiresAt   time.Time
	Permissions permission.Set
}
