package core

import (
	"strings"
	"time"

	"hrdesk/internal/platform/optional"
)

const (
	EmployeeActive     = "active"
	EmployeeInactive   = "inactive"
	EmployeeTerminated = "terminated"

	DepartmentActive   = "active"
	DepartmentInactive = "inactive"
)

var (
	EmployeeStatuses   = []string{EmployeeActive, EmployeeInactive, EmployeeTerminated}
	DepartmentStatuses = []string{DepartmentActive, DepartmentInactive}

	// DepartmentCodes is the set the front end offers for Employee.department.
	// It is seeded as Department records but never enforced on employees.
	DepartmentCodes = []string{"CSE", "CSM", "CIC", "AIML", "AIDS", "CIVIL", "MEC", "ECE"}
)

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type EmergencyContact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
}

type Employee struct {
	ID               string           `json:"id"`
	FirstName        string           `json:"firstName"`
	LastName         string           `json:"lastName"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	Position         string           `json:"position"`
	Department       string           `json:"department"`
	Salary           float64          `json:"salary"`
	HireDate         time.Time        `json:"hireDate"`
	Address          Address          `json:"address"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
	Skills           []string         `json:"skills"`
	Status           string           `json:"status"`
	Notes            string           `json:"notes,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Snapshot is the denormalized identity copied onto attendance, leave and
// payroll records when they are created.
type Snapshot struct {
	EmployeeID   string
	EmployeeName string
	Department   string
	Email        string
}

func (e Employee) Snapshot() Snapshot {
	return Snapshot{EmployeeID: e.ID, EmployeeName: e.FullName(), Department: e.Department, Email: e.Email}
}

type ManagerRef struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type Department struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	ManagerID       *string     `json:"managerId"`
	Manager         *ManagerRef `json:"manager,omitempty"`
	Budget          *float64    `json:"budget"`
	Location        string      `json:"location"`
	EstablishedDate time.Time   `json:"establishedDate"`
	Status          string      `json:"status"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

type EmployeeFilter struct {
	Search     string
	Department string
	Status     string
}

type DepartmentCount struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

type EmployeeStats struct {
	TotalEmployees  int               `json:"totalEmployees"`
	ActiveEmployees int               `json:"activeEmployees"`
	DepartmentStats []DepartmentCount `json:"departmentStats"`
	AvgSalary       float64           `json:"avgSalary"`
}

type EmployeeInput struct {
	FirstName        string            `json:"firstName"`
	LastName         string            `json:"lastName"`
	Email            string            `json:"email"`
	Phone            string            `json:"phone"`
	Position         string            `json:"position"`
	Department       string            `json:"department"`
	Salary           *float64          `json:"salary"`
	HireDate         string            `json:"hireDate"`
	Address          *Address          `json:"address"`
	EmergencyContact *EmergencyContact `json:"emergencyContact"`
	Skills           []string          `json:"skills"`
	Status           string            `json:"status"`
	Notes            string            `json:"notes"`
}

type EmployeeUpdate struct {
	FirstName        optional.Field[string]           `json:"firstName"`
	LastName         optional.Field[string]           `json:"lastName"`
	Email            optional.Field[string]           `json:"email"`
	Phone            optional.Field[string]           `json:"phone"`
	Position         optional.Field[string]           `json:"position"`
	Department       optional.Field[string]           `json:"department"`
	Salary           optional.Field[float64]          `json:"salary"`
	HireDate         optional.Field[string]           `json:"hireDate"`
	Address          optional.Field[Address]          `json:"address"`
	EmergencyContact optional.Field[EmergencyContact] `json:"emergencyContact"`
	Skills           optional.Field[[]string]         `json:"skills"`
	Status           optional.Field[string]           `json:"status"`
	Notes            optional.Field[string]           `json:"notes"`
}

type DepartmentInput struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Manager         string   `json:"manager"`
	Budget          *float64 `json:"budget"`
	Location        string   `json:"location"`
	EstablishedDate string   `json:"establishedDate"`
	Status          string   `json:"status"`
}

type DepartmentUpdate struct {
	Name            optional.Field[string]  `json:"name"`
	Description     optional.Field[string]  `json:"description"`
	Manager         optional.Field[string]  `json:"manager"`
	Budget          optional.Field[float64] `json:"budget"`
	Location        optional.Field[string]  `json:"location"`
	EstablishedDate optional.Field[string]  `json:"establishedDate"`
	Status          optional.Field[string]  `json:"status"`
}

const (
	msgEmailTaken          = "Employee with this email already exists"
	msgDepartmentNameTaken = "Department with this name already exists"
	msgDepartmentHasStaff  = "Cannot delete department with employees. Please reassign employees first."
)
