package authcore

import (
	"context"
	"errors"
	"log"

	"github.com/caretrack/authcore/permission"
)

// Authorize checks that the token resolves to a live session whose role
// grants the permission. The decision is fail-closed at every step:
//
//   - malformed, unknown, or expired tokens → ErrNoSession
//   - a stored role the catalog does not recognize → ErrUnknownRole
//   - a recognized role without the permission → ErrPermissionDenied
//
// The role is re-read from storage and re-interpreted on every call, so a
// catalog change applies to existing sessions immediately.
func (e *Engine) Authorize(ctx context.Context, token string, perm permission.Permission) error {
	ident, err := e.Validate(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenMalformed),
			errors.Is(err, ErrSessionNotFound),
			errors.Is(err, ErrSessionExpired):
			return ErrNoSession
		default:
			return err
		}
	}

	role := permission.NewRole(ident.Role, ident.UserID)
	if !role.Recognized() {
		log.Printf("authcore: session %s carries unrecognized role %q", ident.SessionID, ident.Role)
		e.metricInc(MetricUnknownRole)
		e.emitAudit(ctx, auditEventUnknownRole, false, ident.UserID, ident.SessionID, ErrUnknownRole, func() map[string]string {
			return map[string]string{"role": ident.Role}
		})
		return ErrUnknownRole
	}

	if !role.HasPermission(perm) {
		e.metricInc(MetricAuthorizeDenied)
		e.emitAudit(ctx, auditEventAuthorizeDenied, false, ident.UserID, ident.SessionID, ErrPermissionDenied, func() map[string]string {
			return map[string]string{"role": ident.Role, "permission": perm.String()}
		})
		return ErrPermissionDenied
	}

	e.metricInc(MetricAuthorizeAllowed)
	return nil
}

// HasPermission reports whether a role name grants a permission, without
// touching any session. Unknown role names grant nothing.
func (e *Engine) HasPermission(roleName string, perm permission.Permission) bool {
	return permission.PermissionsFor(roleName).Has(perm)
}
