package authcore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/caretrack/authcore/permission"
	"github.com/caretrack/authcore/session"
)

// CreateSession issues a fresh session for the user and returns its token.
// A user holds at most one session: any existing session for the same user
// is superseded atomically by the new one.
//
// The role is recorded as given; it is interpreted against the permission
// catalog at authorization time, not here, so issuing a session for an
// unrecognized role succeeds but grants nothing.
func (e *Engine) CreateSession(ctx context.Context, userID, role string) (string, error) {
	if e == nil || e.store == nil {
		return "", ErrEngineNotReady
	}
	if userID == "" {
		return "", errors.New("user id required")
	}

	superseded := false
	if prev, err := e.store.GetByUser(ctx, userID); err == nil && !prev.Expired(e.now()) {
		superseded = true
	}

	token, err := session.NewToken()
	if err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}

	sess := &session.Session{
		ID:        token.String(),
		UserID:    userID,
		Role:      role,
		CreatedAt: e.now(),
		TTL:       e.config.Session.TTL,
	}

	if err := e.store.Put(ctx, sess); err != nil {
		return "", mapStoreErr(err)
	}

	e.metricInc(MetricSessionCreated)
	if superseded {
		e.metricInc(MetricSessionSuperseded)
		e.emitAudit(ctx, auditEventSessionSuperseded, true, userID, sess.ID, nil, nil)
	}
	e.emitAudit(ctx, auditEventSessionCreated, true, userID, sess.ID, nil, func() map[string]string {
		return map[string]string{"role": role}
	})

	return sess.ID, nil
}

// Validate resolves a token to its session. Expiry is decided here, on
// every call, from the record's creation time and lifetime; a session whose
// lifetime has elapsed is reported as ErrSessionExpired and deleted.
func (e *Engine) Validate(ctx context.Context, token string) (*Identity, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}
	if e.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() { e.metrics.Observe(MetricValidateLatency, time.Since(start)) }()
	}

	if _, err := session.ParseToken(token); err != nil {
		e.metricInc(MetricValidateNotFound)
		return nil, ErrTokenMalformed
	}

	sess, err := e.store.GetByID(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			e.metricInc(MetricValidateNotFound)
			return nil, ErrSessionNotFound
		}
		return nil, mapStoreErr(err)
	}

	if sess.Expired(e.now()) {
		// Lazy cleanup: the record is gone whether or not the sweep has
		// run. Deletion failure is tolerable, the sweep will retry it.
		_ = e.store.Delete(ctx, sess.ID)
		e.metricInc(MetricValidateExpired)
		e.emitAudit(ctx, auditEventSessionExpired, false, sess.UserID, sess.ID, ErrSessionExpired, nil)
		return nil, ErrSessionExpired
	}

	e.metricInc(MetricValidateOk)

	return &Identity{
		SessionID:   sess.ID,
		UserID:      sess.UserID,
		Role:        sess.Role,
		ExpiresAt:   sess.ExpiresAt(),
		Permissions: permission.PermissionsFor(sess.Role),
	}, nil
}

// Logout removes the token's session. Logging out a token that no longer
// resolves to a session is not an error; malformed tokens are.
func (e *Engine) Logout(ctx context.Context, token string) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}
	if _, err := session.ParseToken(token); err != nil {
		return ErrTokenMalformed
	}

	if err := e.store.Delete(ctx, token); err != nil {
		e.emitAudit(ctx, auditEventLogout, false, "", token, mapStoreErr(err), nil)
		return mapStoreErr(err)
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, "", token, nil, nil)
	return nil
}

// mapStoreErr translates session store sentinels into engine sentinels so
// callers only depend on this package's errors.
func mapStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, session.ErrNotFound):
		return ErrSessionNotFound
	case errors.Is(err, session.ErrStorageUnavailable), errors.Is(err, session.ErrDataIntegrity):
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	default:
		return err
	}
}
