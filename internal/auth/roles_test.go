package auth

import "testing"

func TestNormalizeRole(t *testing.T) {
	for _, valid := range []string{"viewer", "operator", "admin"} {
		role, ok := NormalizeRole(valid)
		if !ok || string(role) != valid {
			t.Fatalf("NormalizeRole(%q) = %q, %v", valid, role, ok)
		}
	}
	for _, invalid := range []string{"", "root", "Viewer", "ADMIN"} {
		if _, ok := NormalizeRole(invalid); ok {
			t.Fatalf("NormalizeRole(%q) unexpectedly valid", invalid)
		}
	}
}

func TestRoleAtLeast_Ordering(t *testing.T) {
	if !RoleAtLeast(RoleAdmin, RoleOperator) || !RoleAtLeast(RoleOperator, RoleViewer) {
		t.Fatal("higher roles must satisfy lower requirements")
	}
	if RoleAtLeast(RoleViewer, RoleOperator) || RoleAtLeast(RoleOperator, RoleAdmin) {
		t.Fatal("lower roles must not satisfy higher requirements")
	}
	if !RoleAtLeast(RoleViewer, RoleViewer) {
		t.Fatal("a role satisfies itself")
	}
	if RoleAtLeast(Role("unknown"), RoleViewer) {
		t.Fatal("unknown roles rank below every real role")
	}
}
