package session

import "time"

// Session is one persisted session record. Instances returned by a Store are
// snapshots: the durable row may be deleted by a sweep or a rival login at
// any moment after the read, so callers must treat every snapshot as stale
// and re-validate before each privileged action.
type Session struct {
	// ID is the opaque session token: 128 bits of CSPRNG output rendered
	// as a fixed-length hex string. See NewToken.
	ID string

	UserID string

	// Role is the catalog role name recorded at issuance. Authorization
	// decisions rebuild the permission set from this stored value only,
	// never from anything supplied alongside a request.
	Role string

	// CreatedAt is wall-clock time at issuance. TTL is fixed at issuance
	// and never mutated afterwards.
	CreatedAt time.Time
	TTL       time.Duration
}

// Expired reports whether the record is past its lifetime at the given
// instant. The predicate is pure and is recomputed on every access; expiry
// is never cached. A record is expired for every elapsed duration >= TTL.
func (s *Session) Expired(now time.Time) bool {
	return now.Sub(s.CreatedAt) >= s.TTL
}

// ExpiresAt returns the instant at which the record expires.
func (s *Session) ExpiresAt() time.Time {
	return s.CreatedAt.Add(s.TTL)
}
