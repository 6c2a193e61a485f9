package payroll

import (
	"time"

	"hrdesk/internal/platform/optional"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusPaid       = "paid"
	StatusFailed     = "failed"
)

var Statuses = []string{StatusPending, StatusProcessing, StatusPaid, StatusFailed}

type Payroll struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	Department   string    `json:"department"`
	BasicSalary  float64   `json:"basicSalary"`
	Allowances   float64   `json:"allowances"`
	Deductions   float64   `json:"deductions"`
	NetSalary    float64   `json:"netSalary"`
	PayDate      time.Time `json:"payDate"`
	Status       string    `json:"status"`
	BankAccount  string    `json:"bankAccount,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Filter struct {
	Search string
	Status string
	// Month restricts payDate to a calendar month, as YYYY-MM.
	Month string
}

type CreateInput struct {
	EmployeeID  string   `json:"employeeId"`
	BasicSalary *float64 `json:"basicSalary"`
	Allowances  *float64 `json:"allowances"`
	Deductions  *float64 `json:"deductions"`
	PayDate     string   `json:"payDate"`
	Status      string   `json:"status"`
	BankAccount string   `json:"bankAccount"`
}

type UpdateInput struct {
	BasicSalary optional.Field[float64] `json:"basicSalary"`
	Allowances  optional.Field[float64] `json:"allowances"`
	Deductions  optional.Field[float64] `json:"deductions"`
	PayDate     optional.Field[string]  `json:"payDate"`
	Status      optional.Field[string]  `json:"status"`
	BankAccount optional.Field[string]  `json:"bankAccount"`
}

const reasonStatus = "must be one of pending, processing, paid, failed"
