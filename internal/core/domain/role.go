package domain

type Role string

const (
	RoleManager Role = "MANAGER"
	RoleSales   Role = "SALES"
	RoleTailor1 Role = "TAILOR_1"
	RoleTailor2 Role = "TAILOR_2"
	RoleGuest   Role = "GUEST"
)

// Roles lists every assignable role. GUEST is the unauthenticated default
// and is never bound to an identity.
var Roles = []Role{RoleManager, RoleSales, RoleTailor1, RoleTailor2}

func (r Role) IsTailor() bool {
	return r == RoleTailor1 || r == RoleTailor2
}

// Authenticated reports whether the role may issue commands at all.
func (r Role) Authenticated() bool {
	return r != RoleGuest && r != ""
}
