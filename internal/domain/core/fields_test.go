package core

import (
	"testing"

	"hrdesk/internal/domain/auth"
)

func sampleEmployee() *Employee {
	return &Employee{
		ID:     "e1",
		Salary: 120000,
		Notes:  "performance plan pending",
	}
}

func TestFilterEmployeeFieldsAdmin(t *testing.T) {
	emp := sampleEmployee()

	FilterEmployeeFields(emp, auth.Principal{Role: auth.RoleAdmin})

	if emp.Notes == "" || emp.Salary == 0 {
		t.Fatal("admin should retain every field")
	}
}

func TestFilterEmployeeFieldsSelf(t *testing.T) {
	emp := sampleEmployee()

	FilterEmployeeFields(emp, auth.Principal{Role: auth.RoleEmployee, EmployeeID: "e1"})

	if emp.Notes != "" {
		t.Fatal("employee should not see internal notes")
	}
	if emp.Salary != 120000 {
		t.Fatal("employee should still see their salary")
	}
}
