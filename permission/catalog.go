package permission

import "log"

// Permission is one capability in the closed catalog. Permissions are
// compared by identity only and gate exactly one class of privileged action.
type Permission uint8

const (
	// ViewPatient allows reading a patient's demographic and care record.
	ViewPatient Permission = iota
	// CreateClinicianAccount allows provisioning a new clinician login.
	CreateClinicianAccount
	// CreatePatientAccount allows provisioning a new patient login.
	CreatePatientAccount
	// CreateCaretakerLink allows binding a caretaker to a patient's care team.
	CreateCaretakerLink
	// UpdatePatient allows editing a patient's thresholds and dosage limits.
	UpdatePatient
	// ViewGlucose allows reading glucose history.
	ViewGlucose
	// AddGlucose allows recording a new glucose reading.
	AddGlucose

	permissionCount
)

var permissionNames = [permissionCount]string{
	ViewPatient:            "view_patient",
	CreateClinicianAccount: "create_clinician_account",
	CreatePatientAccount:   "create_patient_account",
	CreateCaretakerLink:    "create_caretaker_link",
	UpdatePatient:          "update_patient",
	ViewGlucose:            "view_glucose",
	AddGlucose:             "add_glucose",
}

// String returns the stable wire name of the permission.
func (p Permission) String() string {
	if p >= permissionCount {
		return "unknown"
	}
	return permissionNames[p]
}

// Set is a bitmask over the catalog. The zero value is the empty set.
type Set uint64

// NewSet builds a Set containing the given permissions.
func NewSet(perms ...Permission) Set {
	var s Set
	for _, p := range perms {
		s.Add(p)
	}
	return s
}

// Add inserts a permission into the set.
func (s *Set) Add(p Permission) {
	if p >= permissionCount {
		return
	}
	*s |= 1 << p
}

// Has reports whether the set contains the permission.
func (s Set) Has(p Permission) bool {
	if p >= permissionCount {
		return false
	}
	return s&(1<<p) != 0
}

// Empty reports whether the set holds no permissions.
func (s Set) Empty() bool {
	return s == 0
}

// List returns the permissions in the set in catalog order.
func (s Set) List() []Permission {
	var perms []Permission
	for p := Permission(0); p < permissionCount; p++ {
		if s.Has(p) {
			perms = append(perms, p)
		}
	}
	return perms
}

// Role names recognized by the catalog.
const (
	RoleAdmin     = "admin"
	RoleClinician = "clinician"
	RolePatient   = "patient"
	RoleCaretaker = "caretaker"
)

// roleTable is the static role to permission-set mapping. It is the single
// source of authority for what a role may do; sessions store only the role
// name and the set is rebuilt from this table on every authorization check.
// Provisioning clinician logins is reserved to admin; clinicians hold every
// other capability.
var roleTable = map[string]Set{
	RoleAdmin: NewSet(
		CreateClinicianAccount,
	),
	RoleClinician: NewSet(
		ViewPatient,
		CreatePatientAccount,
		CreateCaretakerLink,
		UpdatePatient,
		ViewGlucose,
		AddGlucose,
	),
	RolePatient: NewSet(
		ViewPatient,
		ViewGlucose,
		AddGlucose,
		CreateCaretakerLink,
	),
	RoleCaretaker: NewSet(
		ViewPatient,
		ViewGlucose,
	),
}

// PermissionsFor resolves a role name to its permission set. An unknown name
// yields the empty set: callers observing an empty set must deny, never
// default-allow. The lookup is pure apart from the diagnostic log line.
func PermissionsFor(roleName string) Set {
	s, ok := roleTable[roleName]
	if !ok {
		log.Print("authcore: role name not in permission catalog: " + roleName)
		return 0
	}
	return s
}

// KnownRole reports whether the catalog has an entry for the role name.
func KnownRole(roleName string) bool {
	_, ok := roleTable[roleName]
	return ok
}

// Count returns the number of permissions in the catalog.
func Count() int {
	return int(permissionCount)
}
