package core

import "hrdesk/internal/domain/auth"

// FilterEmployeeFields trims an employee record to what the viewer may see.
// Admins see everything; an employee viewing their own profile loses the
// internal HR notes.
func FilterEmployeeFields(emp *Employee, principal auth.Principal) {
	if emp == nil || principal.IsAdmin() {
		return
	}
	emp.Notes = ""
}
