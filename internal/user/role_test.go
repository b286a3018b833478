package user

import "testing"

func TestCan(t *testing.T) {
	cases := []struct {
		role string
		cap  Capability
		want bool
	}{
		{RoleBuyer, CapPlaceOrders, true},
		{RoleBuyer, CapManageOrders, false},
		{RoleBuyer, CapManageUsers, false},
		{RoleFarmer, CapManageProducts, true},
		{RoleFarmer, CapManageOrders, true},
		{RoleFarmer, CapViewAllOrders, false},
		{RoleAdmin, CapManageOrders, true},
		{RoleAdmin, CapViewAllOrders, true},
		{RoleAdmin, CapManageUsers, true},
		{"ghost", CapPlaceOrders, false},
	}
	for _, tc := range cases {
		if got := Can(tc.role, tc.cap); got != tc.want {
			t.Errorf("Can(%q, %q) = %v, want %v", tc.role, tc.cap, got, tc.want)
		}
	}
}

func TestCapabilities_UnknownRoleIsEmpty(t *testing.T) {
	if caps := Capabilities("ghost"); len(caps) != 0 {
		t.Errorf("expected no capabilities, got %v", caps)
	}
}

func TestValidRole_AdminNotSelfServe(t *testing.T) {
	if !ValidRole(RoleBuyer) || !ValidRole(RoleFarmer) {
		t.Error("buyer and farmer must be registrable")
	}
	if ValidRole(RoleAdmin) {
		t.Error("admin must not be registrable")
	}
	if ValidRole("ghost") {
		t.Error("unknown roles must be rejected")
	}
}
