// Package session provides the session record model, secure token
// generation, and durable session persistence.
//
// # Storage backends
//
// [Store] is the persistence contract; [SQLiteStore] is the file-backed
// implementation used when sessions must survive restarts and be shared by
// every actor using one storage file, and [RedisStore] serves deployments
// that already run Redis. Stores return records as-is: the expiry decision
// belongs to the session manager, which recomputes the pure [Session.Expired]
// predicate on every access.
//
// # What this package must NOT do
//
//   - Import the root package or permission (no upward imports).
//   - Perform authorization decisions or filter records on expiry.
//   - Derive tokens from anything but crypto/rand.
package session
