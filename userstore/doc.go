// Package userstore persists user accounts in SQLite and implements the
// user lookup contract the session manager needs for login.
//
// The account schema is deliberately small: id, username, stored password
// hash, role name, and timestamps. Role names are plain strings here; the
// permission catalog interprets them, and an account created with a name the
// catalog does not know simply holds no permissions.
package userstore
