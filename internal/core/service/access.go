package service

import (
	"strings"

	"tailordesk/internal/core/domain"
)

// identityPrefixes are transport channel markers stripped before identities
// are compared.
var identityPrefixes = []string{"whatsapp:", "sms:", "tel:"}

// NormalizeIdentity strips transport prefixes and surrounding whitespace so
// "whatsapp:+15550100" and "+15550100" resolve identically.
func NormalizeIdentity(identity string) string {
	id := strings.TrimSpace(identity)
	for _, p := range identityPrefixes {
		id = strings.TrimPrefix(id, p)
	}
	return id
}

// RoleResolver maps sender identities to roles. It is built once at startup
// from the resolved configuration and is read-only afterwards.
type RoleResolver struct {
	byIdentity map[string]domain.Role
}

// NewRoleResolver indexes the bindings. A role may bind several identities;
// empty identities are ignored.
func NewRoleResolver(bindings map[domain.Role][]string) *RoleResolver {
	byIdentity := make(map[string]domain.Role)
	for role, identities := range bindings {
		for _, id := range identities {
			if norm := NormalizeIdentity(id); norm != "" {
				byIdentity[norm] = role
			}
		}
	}
	return &RoleResolver{byIdentity: byIdentity}
}

// Resolve returns the role bound to the identity, or GUEST.
func (r *RoleResolver) Resolve(identity string) domain.Role {
	if role, ok := r.byIdentity[NormalizeIdentity(identity)]; ok {
		return role
	}
	return domain.RoleGuest
}
