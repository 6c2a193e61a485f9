package auth

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

var Roles = []string{RoleAdmin, RoleEmployee}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEmployee
}

// Principal is the authenticated actor a request runs as. EmployeeID links
// an employee-role account to its Employee record.
type Principal struct {
	UserID     string `json:"userId"`
	Role       string `json:"role"`
	EmployeeID string `json:"employeeId,omitempty"`
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
