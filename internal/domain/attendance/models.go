package attendance

import (
	"time"

	"hrdesk/internal/platform/optional"
)

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
	StatusHalfDay = "halfDay"
)

var Statuses = []string{StatusPresent, StatusAbsent, StatusLate, StatusHalfDay}

type Attendance struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	Department   string    `json:"department"`
	Date         time.Time `json:"date"`
	CheckIn      *string   `json:"checkIn"`
	CheckOut     *string   `json:"checkOut"`
	Hours        float64   `json:"hours"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Filter struct {
	EmployeeID string
	Search     string
	Status     string
	Date       *time.Time
}

type CreateInput struct {
	EmployeeID string `json:"employeeId"`
	Date       string `json:"date"`
	CheckIn    string `json:"checkIn"`
	CheckOut   string `json:"checkOut"`
	Status     string `json:"status"`
	Notes      string `json:"notes"`
}

type UpdateInput struct {
	Date     optional.Field[string] `json:"date"`
	CheckIn  optional.Field[string] `json:"checkIn"`
	CheckOut optional.Field[string] `json:"checkOut"`
	Status   optional.Field[string] `json:"status"`
	Notes    optional.Field[string] `json:"notes"`
}

const msgDuplicate = "Attendance record already exists for this employee and date"
