package authcore

import (
	"context"
	"log"
)

// Login authenticates a username and password against the user provider and
// issues a session for the account's role. Every credential failure maps to
// ErrInvalidCredentials so callers cannot distinguish a wrong password from
// an unknown username.
func (e *Engine) Login(ctx context.Context, username, passwd string) (string, error) {
	if e == nil || e.store == nil || e.hasher == nil {
		return "", ErrEngineNotReady
	}
	if e.userProvider == nil {
		return "", ErrEngineNotReady
	}
	if username == "" || passwd == "" {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, "", "", ErrInvalidCredentials, func() map[string]string {
			return map[string]string{"identifier": username, "reason": "empty_input"}
		})
		return "", ErrInvalidCredentials
	}

	user, err := e.userProvider.FindUserByUsername(ctx, username)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, "", "", ErrInvalidCredentials, func() map[string]string {
			return map[string]string{"identifier": username, "reason": "user_not_found"}
		})
		return "", ErrInvalidCredentials
	}

	ok, err := e.hasher.Verify(passwd, user.PasswordHash)
	if err != nil || !ok {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, user.UserID, "", ErrInvalidCredentials, func() map[string]string {
			return map[string]string{"identifier": username, "reason": "password_mismatch"}
		})
		return "", ErrInvalidCredentials
	}

	if e.config.Password.UpgradeOnLogin {
		e.maybeUpgradeHash(ctx, user, passwd)
	}
	passwd = ""

	token, err := e.CreateSession(ctx, user.UserID, user.Role)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, user.UserID, "", err, func() map[string]string {
			return map[string]string{"identifier": username, "reason": "session_create_failed"}
		})
		return "", err
	}

	// Last-login bookkeeping is best-effort and must not fail the login.
	if err := e.userProvider.TouchLastLogin(ctx, user.UserID); err != nil {
		log.Print("authcore: last login update failed")
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, user.UserID, token, nil, func() map[string]string {
		return map[string]string{"identifier": username, "role": user.Role}
	})

	return token, nil
}

// maybeUpgradeHash re-hashes the password under current parameters when the
// stored hash is weaker. Best-effort: any failure leaves the old hash in
// place and the login proceeds.
func (e *Engine) maybeUpgradeHash(ctx context.Context, user *UserRecord, passwd string) {
	updater, ok := e.userProvider.(PasswordUpdater)
	if !ok {
		return
	}

	needs, err := e.hasher.NeedsRehash(user.PasswordHash)
	if err != nil || !needs {
		return
	}

	upgraded, err := e.hasher.Hash(passwd)
	if err != nil {
		log.Print("authcore: password hash upgrade generation failed")
		return
	}
	if err := updater.UpdatePasswordHash(ctx, user.UserID, upgraded); err != nil {
		log.Print("authcore: password hash upgrade update failed")
	}
}
