package permission

// Role is a value object: a role name resolved against the catalog at
// construction time. Roles carry no identity beyond their fields and are
// rebuilt on demand from the role name stored in a session record.
type Role struct {
	// Name is the catalog role name ("admin", "clinician", ...).
	Name string
	// ID is the owning principal's identifier. It may be empty when the
	// role is reconstructed from a trusted session record.
	ID string

	perms Set
}

// NewRole builds a Role from the catalog immediately; there is no deferred
// loading. An unknown name produces a Role with an empty permission set.
func NewRole(name, id string) Role {
	return Role{
		Name:  name,
		ID:    id,
		perms: PermissionsFor(name),
	}
}

// HasPermission reports whether the role holds the permission. A Role built
// from an unrecognized name answers false to every query.
func (r Role) HasPermission(p Permission) bool {
	return r.perms.Has(p)
}

// Recognized reports whether the role name resolved to a non-empty
// permission set. Every catalog role grants at least one permission, so an
// empty set always means the name was not in the catalog.
func (r Role) Recognized() bool {
	return !r.perms.Empty()
}

// Permissions returns the role's permission set.
func (r Role) Permissions() Set {
	return r.perms
}
