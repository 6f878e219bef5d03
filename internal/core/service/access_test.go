package service

import (
	"testing"

	"tailordesk/internal/core/domain"
)

func testResolver() *RoleResolver {
	return NewRoleResolver(map[domain.Role][]string{
		domain.RoleManager: {"+15550100"},
		domain.RoleSales:   {"+15550101", "whatsapp:+15550105"},
		domain.RoleTailor1: {"whatsapp:+15550102"},
	})
}

func TestResolve_PrefixStripped(t *testing.T) {
	r := testResolver()

	if got := r.Resolve("whatsapp:+15550100"); got != domain.RoleManager {
		t.Errorf("expected MANAGER, got %s", got)
	}
	if got := r.Resolve("+15550102"); got != domain.RoleTailor1 {
		t.Errorf("expected TAILOR_1, got %s", got)
	}
}

func TestResolve_MultipleIdentitiesPerRole(t *testing.T) {
	r := testResolver()

	for _, id := range []string{"+15550101", "+15550105"} {
		if got := r.Resolve(id); got != domain.RoleSales {
			t.Errorf("Resolve(%q) = %s, want SALES", id, got)
		}
	}
}

func TestResolve_UnknownIsGuest(t *testing.T) {
	r := testResolver()

	for _, id := range []string{"+19990000", "", "whatsapp:"} {
		got := r.Resolve(id)
		if got != domain.RoleGuest {
			t.Errorf("Resolve(%q) = %s, want GUEST", id, got)
		}
		if got.Authenticated() {
			t.Errorf("guest must not be authenticated")
		}
	}
}
