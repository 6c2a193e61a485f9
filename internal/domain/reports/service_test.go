package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdesk/internal/domain/apperr"
	"hrdesk/internal/domain/attendance"
	"hrdesk/internal/domain/leave"
	"hrdesk/internal/domain/payroll"
	"hrdesk/internal/testfixtures"
)

func amount(v float64) *float64 { return &v }

func TestDashboardAggregates(t *testing.T) {
	env := testfixtures.NewEnv()
	ctx := context.Background()
	admin := testfixtures.Admin()
	env.Clock.Set(time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC))

	ada := env.SeedEmployee(t, "Ada", "Lovelace", "CSE")
	alan := env.SeedEmployee(t, "Alan", "Turing", "ECE")

	_, err := env.Attendance.Create(ctx, admin, attendance.CreateInput{EmployeeID: ada.ID, Date: "2024-03-15", Status: attendance.StatusLate})
	require.NoError(t, err)
	_, err = env.Attendance.Create(ctx, admin, attendance.CreateInput{EmployeeID: alan.ID, Date: "2024-03-15", Status: attendance.StatusAbsent})
	require.NoError(t, err)
	_, err = env.Attendance.Create(ctx, admin, attendance.CreateInput{EmployeeID: alan.ID, Date: "2024-03-14"})
	require.NoError(t, err)

	_, err = env.Leave.Create(ctx, testfixtures.EmployeePrincipal(ada), leave.CreateInput{
		LeaveType: "Annual Leave", StartDate: "2024-04-01", EndDate: "2024-04-02", Reason: "trip",
	})
	require.NoError(t, err)

	for _, in := range []payroll.CreateInput{
		{EmployeeID: ada.ID, BasicSalary: amount(1000.10), PayDate: "2024-03-31"},
		{EmployeeID: alan.ID, BasicSalary: amount(2000.20), PayDate: "2024-03-01"},
		{EmployeeID: alan.ID, BasicSalary: amount(9999), PayDate: "2024-02-28"},
	} {
		_, err := env.Payroll.Create(ctx, admin, in)
		require.NoError(t, err)
	}

	dash, err := env.Reports.Dashboard(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 2, dash.Employees.TotalEmployees)
	assert.Equal(t, 1, dash.AttendanceToday.Present)
	assert.Equal(t, 2, dash.AttendanceToday.Total)
	assert.Equal(t, 1, dash.PendingLeaves)
	assert.Equal(t, "2024-03", dash.Payroll.Month)
	assert.Equal(t, 2, dash.Payroll.Records)
	assert.Equal(t, 3000.3, dash.Payroll.NetTotal)
}

func TestDashboardEmptyHasNoNilSlices(t *testing.T) {
	env := testfixtures.NewEnv()
	dash, err := env.Reports.Dashboard(context.Background(), testfixtures.Admin())
	require.NoError(t, err)
	assert.NotNil(t, dash.Employees.DepartmentStats)
	assert.Zero(t, dash.Payroll.NetTotal)
}

func TestDashboardIsAdminOnly(t *testing.T) {
	env := testfixtures.NewEnv()
	emp := env.SeedEmployee(t, "Ada", "Lovelace", "CSE")
	_, err := env.Reports.Dashboard(context.Background(), testfixtures.EmployeePrincipal(emp))
	require.ErrorIs(t, err, apperr.ErrForbidden)
}
