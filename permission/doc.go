// Package permission holds the closed capability catalog of the clinical
// application and the static mapping from role names to capability sets.
//
// # Architecture boundaries
//
// This package is a pure in-memory data structure with no I/O beyond a
// diagnostic log line for unrecognized role names. Roles and permissions are
// a closed tagged set fixed at compile time, not runtime registrations.
//
// # Fail-closed contract
//
// An unrecognized role name resolves to the empty set, so every membership
// query against it answers false. Absence of catalog data is always denial.
package permission
