package reports

import (
	"time"

	"hrdesk/internal/domain/core"
)

type AttendanceSummary struct {
	Date    time.Time `json:"date"`
	Present int       `json:"present"`
	Total   int       `json:"total"`
}

type PayrollSummary struct {
	Month    string  `json:"month"`
	Records  int     `json:"records"`
	NetTotal float64 `json:"netTotal"`
}

type Dashboard struct {
	Employees       core.EmployeeStats `json:"employees"`
	AttendanceToday AttendanceSummary  `json:"attendanceToday"`
	PendingLeaves   int                `json:"pendingLeaves"`
	Payroll         PayrollSummary     `json:"payroll"`
	GeneratedAt     time.Time          `json:"generatedAt"`
}
