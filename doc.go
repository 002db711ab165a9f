// Package authcore manages session lifecycle and role-based authorization
// for multi-role clinical applications: it issues opaque session tokens,
// validates and expires them, and answers permission checks against a fixed
// role catalog.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authcore is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (Identity, MetricsSnapshot, AuditEvent). Session
// persistence lives in the session sub-package, the role catalog in
// permission, credential hashing in password, and account storage in
// userstore.
//
// # Security posture
//
// Authorization is fail-closed: a token that does not resolve to a live
// session yields ErrNoSession, and a stored role the catalog does not
// recognize yields ErrUnknownRole, never a partial grant. Login failures
// are uniform — callers cannot tell a wrong password from an unknown
// username.
//
// # Expiry model
//
// Sessions have an absolute lifetime; access never extends it. Expiry is
// enforced on every Validate from the stored creation time, with a
// background sweep deleting expired records on a fixed interval as storage
// hygiene. Correctness never depends on the sweep having run.
package authcore
