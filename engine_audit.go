package authcore

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventLoginSuccess      = "login_success"
	auditEventLoginFailure      = "login_failure"
	auditEventSessionCreated    = "session_created"
	auditEventSessionSuperseded = "session_superseded"
	auditEventSessionExpired    = "session_expired"
	auditEventLogout            = "logout"
	auditEventAuthorizeDenied   = "authorize_denied"
	auditEventUnknownRole       = "unknown_role"
	auditEventSweepCompleted    = "sweep_completed"
	auditEventSweepFailed       = "sweep_failed"
)

type auditErrCode string

const (
	auditErrInvalidCredentials auditErrCode = "invalid_credentials"
	auditErrUserNotFound       auditErrCode = "user_not_found"
	auditErrTokenMalformed     auditErrCode = "token_malformed"
	auditErrSessionNotFound    auditErrCode = "session_not_found"
	auditErrSessionExpired     auditErrCode = "session_expired"
	auditErrNoSession          auditErrCode = "no_session"
	auditErrUnknownRole        auditErrCode = "unknown_role"
	auditErrPermissionDenied   auditErrCode = "permission_denied"
	auditErrUnavailable        auditErrCode = "storage_unavailable"
	auditErrInternal           auditErrCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID string,
	sessionID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		SessionID: sessionID,
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) auditErrCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrUserNotFound):
		return auditErrUserNotFound
	case errors.Is(err, ErrTokenMalformed):
		return auditErrTokenMalformed
	case errors.Is(err, ErrSessionNotFound):
		return auditErrSessionNotFound
	case errors.Is(err, ErrSessionExpired):
		return auditErrSessionExpired
	case errors.Is(err, ErrNoSession):
		return auditErrNoSession
	case errors.Is(err, ErrUnknownRole):
		return auditErrUnknownRole
	case errors.Is(err, ErrPermissionDenied):
		return auditErrPermissionDenied
	case errors.Is(err, ErrStorageUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
