package user

type Role string

const (
	RoleEmployee Role = "employee" // Caregiver, requests absences
	RoleEmployer Role = "employer" // Private employer, decides on absences
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleEmployer:
		return true
	default:
		return false
	}
}

// Identity is the caller as read from the access token.
type Identity struct {
	UserID string
	Role   Role
}

// IsEmployer checks if the caller decides on absences
func (i Identity) IsEmployer() bool {
	return i.Role == RoleEmployer
}

// IsEmployee checks if the caller is a caregiver
func (i Identity) IsEmployee() bool {
	return i.Role == RoleEmployee
}
