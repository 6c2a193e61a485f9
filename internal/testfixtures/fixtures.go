package testfixtures

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"hrdesk/internal/domain/attendance"
	"hrdesk/internal/domain/auth"
	"hrdesk/internal/domain/core"
	"hrdesk/internal/domain/leave"
	"hrdesk/internal/domain/payroll"
	"hrdesk/internal/domain/reports"
)

const TokenSecret = "fixture-secret-with-enough-length-0123"

// Env wires every domain service over in-memory stores sharing one clock.
type Env struct {
	Clock *Clock

	Users           *UserStore
	Core            *CoreStore
	AttendanceStore *AttendanceStore
	LeaveStore      *LeaveStore
	PayrollStore    *PayrollStore

	Auth       *auth.Service
	Employees  *core.Service
	Attendance *attendance.Service
	Leave      *leave.Service
	Payroll    *payroll.Service
	Reports    *reports.Service
}

// NewEnv builds an Env with self-signup enabled.
func NewEnv() *Env {
	clock := NewClock(time.Time{})
	env := &Env{
		Clock:           clock,
		Users:           NewUserStore(clock),
		Core:            NewCoreStore(clock),
		AttendanceStore: NewAttendanceStore(clock),
		LeaveStore:      NewLeaveStore(clock),
		PayrollStore:    NewPayrollStore(clock),
	}

	env.Employees = core.NewService(env.Core)
	env.Employees.Now = clock.Now
	env.Auth = auth.NewService(env.Users, env.Employees, TokenSecret, time.Hour, true)
	env.Auth.Now = clock.Now
	env.Attendance = attendance.NewService(env.AttendanceStore, env.Employees)
	env.Leave = leave.NewService(env.LeaveStore, env.Employees)
	env.Leave.Now = clock.Now
	env.Payroll = payroll.NewService(env.PayrollStore, env.Employees, "", nil)
	env.Reports = reports.NewService(&ReportsStore{
		Attendance: env.AttendanceStore,
		Leaves:     env.LeaveStore,
		Payroll:    env.PayrollStore,
	}, env.Core)
	env.Reports.Now = clock.Now
	return env
}

// Admin is a principal with an administrator account that has no employee link.
func Admin() auth.Principal {
	return auth.Principal{UserID: uuid.NewString(), Role: auth.RoleAdmin}
}

// EmployeePrincipal acts as the account linked to emp.
func EmployeePrincipal(emp core.Employee) auth.Principal {
	return auth.Principal{UserID: uuid.NewString(), Role: auth.RoleEmployee, EmployeeID: emp.ID}
}

// SeedEmployee stores an active employee straight into the core store.
// Options may adjust the record before it is saved.
func (e *Env) SeedEmployee(t testing.TB, first, last, department string, opts ...func(*core.Employee)) core.Employee {
	t.Helper()
	emp := core.Employee{
		FirstName:  first,
		LastName:   last,
		Email:      first + "." + last + "@example.com",
		Phone:      "555-0100",
		Position:   "Engineer",
		Department: department,
		Salary:     50000,
		HireDate:   time.Date(2022, time.January, 10, 0, 0, 0, 0, time.UTC),
		Status:     core.EmployeeActive,
	}
	for _, opt := range opts {
		opt(&emp)
	}
	out, err := e.Core.CreateEmployee(context.Background(), emp)
	require.NoError(t, err)
	return out
}

// SeedAccount registers a user through the auth service and returns the
// session principal.
func (e *Env) SeedAccount(t testing.TB, email, password string, role string, employeeID string) auth.Session {
	t.Helper()
	var actor *auth.Principal
	if role == auth.RoleAdmin {
		admin := Admin()
		actor = &admin
	}
	session, err := e.Auth.SignUp(context.Background(), actor, auth.SignUpInput{
		Email:      email,
		Password:   password,
		Role:       role,
		EmployeeID: employeeID,
	})
	require.NoError(t, err)
	return session
}
