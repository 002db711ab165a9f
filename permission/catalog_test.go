package permission

import "testing"

func TestRoleTableContents(t *testing.T) {
	cases := []struct {
		role    string
		granted []Permission
		denied  []Permission
	}{
		{
			role:    RoleAdmin,
			granted: []Permission{CreateClinicianAccount},
			denied:  []Permission{ViewPatient, CreatePatientAccount, UpdatePatient, ViewGlucose, AddGlucose, CreateCaretakerLink},
		},
		{
			role: RoleClinician,
			granted: []Permission{
				ViewPatient, CreatePatientAccount, CreateCaretakerLink,
				UpdatePatient, ViewGlucose, AddGlucose,
			},
			denied: []Permission{CreateClinicianAccount},
		},
		{
			role:    RolePatient,
			granted: []Permission{ViewPatient, ViewGlucose, AddGlucose, CreateCaretakerLink},
			denied:  []Permission{CreateClinicianAccount, CreatePatientAccount, UpdatePatient},
		},
		{
			role:    RoleCaretaker,
			granted: []Permission{ViewPatient, ViewGlucose},
			denied:  []Permission{AddGlucose, UpdatePatient, CreateClinicianAccount, CreatePatientAccount, CreateCaretakerLink},
		},
	}

	for _, tc := range cases {
		set := PermissionsFor(tc.role)
		for _, p := range tc.granted {
			if !set.Has(p) {
				t.Errorf("%s: expected %s granted", tc.role, p)
			}
		}
		for _, p := range tc.denied {
			if set.Has(p) {
				t.Errorf("%s: expected %s denied", tc.role, p)
			}
		}
	}
}

func TestUnknownRoleEmptySet(t *testing.T) {
	set := PermissionsFor("superuser")
	if !set.Empty() {
		t.Fatalf("unknown role must resolve to the empty set, got %v", set.List())
	}

	for p := Permission(0); p < permissionCount; p++ {
		if set.Has(p) {
			t.Errorf("empty set must not contain %s", p)
		}
	}
}

func TestKnownRole(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleClinician, RolePatient, RoleCaretaker} {
		if !KnownRole(role) {
			t.Errorf("KnownRole(%q) = false", role)
		}
	}
	if KnownRole("") || KnownRole("root") {
		t.Error("unexpected role recognized")
	}
}

func TestSetOperations(t *testing.T) {
	var s Set
	if !s.Empty() {
		t.Fatal("zero Set must be empty")
	}

	s.Add(ViewGlucose)
	s.Add(AddGlucose)
	if s.Empty() {
		t.Fatal("Set with members reported empty")
	}
	if !s.Has(ViewGlucose) || !s.Has(AddGlucose) {
		t.Fatal("added permissions missing")
	}
	if s.Has(UpdatePatient) {
		t.Fatal("Has reported a permission that was never added")
	}

	list := s.List()
	if len(list) != 2 {
		t.Fatalf("List returned %d entries, want 2", len(list))
	}

	// Out-of-range permissions are ignored, never stored.
	s.Add(Permission(63))
	if s.Has(Permission(63)) {
		t.Fatal("out-of-range permission must not be stored")
	}
}
