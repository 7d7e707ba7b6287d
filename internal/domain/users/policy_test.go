package users

import "testing"

func TestPermitted_Matrix(t *testing.T) {
	cases := []struct {
		role   Role
		action Action
		want   bool
	}{
		{RoleAdmin, ActionManageUsers, true},
		{RoleAdmin, ActionDeactivateRecord, true},
		{RoleAdmin, ActionEditOtherUser, true},

		{RoleManager, ActionDeactivateRecord, true},
		{RoleManager, ActionWriteRecords, true},
		{RoleManager, ActionManageUsers, false},
		{RoleManager, ActionEditOtherUser, false},

		{RoleOperator, ActionWriteRecords, true},
		{RoleOperator, ActionEditOwnProfile, true},
		{RoleOperator, ActionDeactivateRecord, false},
		{RoleOperator, ActionManageUsers, false},
	}

	for _, c := range cases {
		if got := Permitted(c.role, c.action); got != c.want {
			t.Errorf("Permitted(%s, %s) = %v, want %v", c.role, c.action, got, c.want)
		}
	}
}

func TestPermitted_UnknownRole_DeniesEverything(t *testing.T) {
	if Permitted(Role("visitante"), ActionWriteRecords) {
		t.Fatalf("unknown role should be denied")
	}
	if Permitted("", ActionEditOwnProfile) {
		t.Fatalf("empty role should be denied")
	}
}

func TestValidRole(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleManager, RoleOperator} {
		if !ValidRole(r) {
			t.Errorf("expected %s to be valid", r)
		}
	}
	if ValidRole("visitante") {
		t.Fatalf("unknown role should be invalid")
	}
}
