package domain

import (
	"testing"
	"time"
)

func TestRoleRankOrdering(t *testing.T) {
	ordered := []Role{RoleUser, RoleModerator, RoleAdmin, RoleSuperAdmin}
	for i := 1; i < len(ordered); i++ {
		if ordered[i].Rank() <= ordered[i-1].Rank() {
			t.Fatalf("expected %s to outrank %s", ordered[i], ordered[i-1])
		}
	}
	if Role("intern").Rank() != -1 {
		t.Fatalf("unknown role should rank below every known role")
	}
}

func TestRoleAtLeast(t *testing.T) {
	cases := []struct {
		role Role
		min  Role
		want bool
	}{
		{RoleUser, RoleUser, true},
		{RoleUser, RoleModerator, false},
		{RoleModerator, RoleModerator, true},
		{RoleModerator, RoleAdmin, false},
		{RoleAdmin, RoleModerator, true},
		{RoleSuperAdmin, RoleAdmin, true},
		{Role("intern"), RoleUser, false},
	}
	for _, tc := range cases {
		if got := tc.role.AtLeast(tc.min); got != tc.want {
			t.Fatalf("%s.AtLeast(%s) = %v, want %v", tc.role, tc.min, got, tc.want)
		}
	}
}

func TestRoleCanModerate(t *testing.T) {
	if RoleAdmin.CanModerate(RoleAdmin) {
		t.Fatalf("equal ranks must not moderate each other")
	}
	if !RoleAdmin.CanModerate(RoleModerator) {
		t.Fatalf("admin should moderate moderator")
	}
	if RoleModerator.CanModerate(RoleAdmin) {
		t.Fatalf("moderator must not moderate admin")
	}
	if !RoleSuperAdmin.CanModerate(RoleAdmin) {
		t.Fatalf("superadmin should moderate admin")
	}
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole("moderator")
	if !ok || role != RoleModerator {
		t.Fatalf("expected moderator, got %q ok=%v", role, ok)
	}
	if _, ok := ParseRole("root"); ok {
		t.Fatalf("expected unknown role to be rejected")
	}
}

func TestUserIsBlocked(t *testing.T) {
	now := time.Now().UTC()
	u := User{Blocked: true}
	if !u.IsBlocked(now) {
		t.Fatalf("permanently blocked user should be blocked")
	}
	past := now.Add(-time.Hour)
	u.BlockedUntil = &past
	if u.IsBlocked(now) {
		t.Fatalf("expired temporary block should not block")
	}
	future := now.Add(time.Hour)
	u.BlockedUntil = &future
	if !u.IsBlocked(now) {
		t.Fatalf("active temporary block should block")
	}
	if (User{}).IsBlocked(now) {
		t.Fatalf("unblocked user should not be blocked")
	}
}
