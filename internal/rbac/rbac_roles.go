package rbac

const (
	RoleAdmin    = "admin"
	RoleHR       = "hr"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

var knownRoles = map[string]struct{}{
	RoleAdmin:    {},
	RoleHR:       {},
	RoleManager:  {},
	RoleEmployee: {},
}

func IsKnownRole(role string) bool {
	_, ok := knownRoles[role]
	return ok
}
