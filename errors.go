package authcore

import "errors"

var (
	// ErrInvalidCredentials is returned by Login for any credential
	// failure, wrong password and unknown username alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned by user lookups for absent accounts.
	ErrUserNotFound = errors.New("user not found")
	// ErrTokenMalformed is returned when a presented token is not a
	// well-formed session token.
	ErrTokenMalformed = errors.New("malformed session token")
	// ErrSessionNotFound is returned by Validate when no record exists
	// for the token.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned by Validate when the record exists
	// but its lifetime has elapsed.
	ErrSessionExpired = errors.New("session expired")
	// ErrNoSession is returned by Authorize when the caller holds no
	// usable session, whatever the underlying reason.
	ErrNoSession = errors.New("no active session")
	// ErrUnknownRole is returned by Authorize when the stored role name
	// is not in the permission catalog.
	ErrUnknownRole = errors.New("unknown role")
	// ErrPermissionDenied is returned by Authorize when the session's
	// role does not grant the requested permission.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrStorageUnavailable is returned when the session store cannot be
	// reached.
	ErrStorageUnavailable = errors.New("session storage unavailable")
	// ErrEngineNotReady is returned when an Engine method is called on a
	// partially constructed engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
