package leave

import (
	"time"

	"hrdesk/internal/platform/optional"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusApproved   = "approved"
	StatusRejected   = "rejected"
)

var Statuses = []string{StatusPending, StatusProcessing, StatusApproved, StatusRejected}

var Types = []string{
	"Annual Leave",
	"Sick Leave",
	"Personal Leave",
	"Maternity Leave",
	"Paternity Leave",
	"Emergency Leave",
}

type Leave struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	Department   string    `json:"department"`
	LeaveType    string    `json:"leaveType"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	Days         int       `json:"days"`
	Reason       string    `json:"reason"`
	Status       string    `json:"status"`
	AppliedDate  time.Time `json:"appliedDate"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Filter struct {
	EmployeeID string
	Search     string
	Status     string
	LeaveType  string
}

type CreateInput struct {
	EmployeeID string `json:"employeeId"`
	LeaveType  string `json:"leaveType"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Reason     string `json:"reason"`
	Status     string `json:"status"`
}

type UpdateInput struct {
	LeaveType optional.Field[string] `json:"leaveType"`
	StartDate optional.Field[string] `json:"startDate"`
	EndDate   optional.Field[string] `json:"endDate"`
	Reason    optional.Field[string] `json:"reason"`
	Status    optional.Field[string] `json:"status"`
}

const (
	reasonStatus = "must be one of pending, processing, approved, rejected"
	reasonType   = "must be a supported leave type"
)
