package payroll_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdesk/internal/domain/apperr"
	"hrdesk/internal/domain/listing"
	"hrdesk/internal/domain/payroll"
	"hrdesk/internal/platform/crypto"
	"hrdesk/internal/platform/optional"
	"hrdesk/internal/testfixtures"
)

func amount(v float64) *float64 { return &v }

func TestCreateComputesNetSalary(t *testing.T) {
	env := testfixtures.NewEnv()
	emp := env.SeedEmployee(t, "Ada", "Lovelace", "CSE")

	rec, err := env.Payroll.Create(context.Background(), testfixtures.Admin(), payroll.CreateInput{
		EmployeeID:  emp.ID,
		BasicSalary: amount(5000.10),
		Allowances:  amount(250.20),
		Deductions:  amount(400.05),
		PayDate:     "2024-03-31",
		BankAccount: " DE89370400440532013000 ",
	})
	require.NoError(t, err)
	assert.Equal(t, 4850.25, rec.NetSalary)
	assert.Equal(t, payroll.StatusPending, rec.Status)
	assert.Equal(t, "Ada Lovelace", rec.EmployeeName)
	assert.Equal(t, "DE89370400440532013000", rec.BankAccount)
}

func TestCreateRequiresBasicSalaryAndRejectsNegatives(t *testing.T) {
	env := testfixtures.NewEnv()
	emp := env.SeedEmployee(t, "Ada", "Lovelace", "CSE")

	_, err := env.Payroll.Create(context.Background(), testfixtures.Admin(), payroll.CreateInput{
		EmployeeID: emp.ID,
		Deductions: amount(-1),
		PayDate:    "2024-03-31",
	})
	require.ErrorIs(t, err, apperr.ErrValidation)
	fields := map[string]bool{}
	for _, issue := range apperr.Issues(err) {
		fields[issue.Field] = true
	}
	assert.True(t, fields["basicSalary"])
	assert.True(t, fields["deductions"])
}

func TestUpdateRecomputesNet(t *testing.T) {
	env := testfixtures.NewEnv()
	ctx := context.Background()
	admin := testfixtures.Admin()
	emp := env.SeedEmployee(t, "Ada", "Lovelace", "CSE")
	rec, err := env.Payroll.Create(ctx, admin, payroll.CreateInput{
		EmployeeID: emp.ID, BasicSalary: amount(3000), Allowances: amount(100), PayDate: "2024-03-31",
	})
	require.NoError(t, err)

	updated, err := env.Payroll.Update(ctx, admin, rec.ID, payroll.UpdateInput{
		Allowances: optional.Null[float64](),
		Deductions: optional.Of(500.0),
	})
	require.NoError(t, err)
	assert.Equal(t, 2500.0, updated.NetSalary)
}

func TestAmountsBeyondCentsAreRejected(t *testing.T) {
	env := testfixtures.NewEnv()
	ctx := context.Background()
	admin := testfixtures.Admin()
	emp := env.SeedEmployee(t, "Ada", "Lovelace", "CSE")

	_, err := env.Payroll.Create(ctx, admin, payroll.CreateInput{
		EmployeeID:  emp.ID,
		BasicSalary: amount(1000.004),
		Allowances:  amount(0.004),
		PayDate:     "2024-03-31",
	})
	require.ErrorIs(t, err, apperr.ErrValidation)
	fields := map[string]bool{}
	for _, issue := range apperr.Issues(err) {
		fields[issue.Field] = true
	}
	assert.True(t, fields["basicSalary"])
	assert.True(t, fields["allowances"])

	rec, err := env.Payroll.Create(ctx, admin, payroll.CreateInput{
		EmployeeID:  emp.ID,
		BasicSalary: amount(1000.01),
		Allowances:  amount(0.09),
		Deductions:  amount(0.05),
		PayDate:     "2024-03-31",
	})
	require.NoError(t, err)
	assert.Equal(t, 1000.05, rec.NetSalary)

	_, err = env.Payroll.Update(ctx, admin, rec.ID, payroll.UpdateInput{Deductions: optional.Of(0.005)})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "deductions", apperr.Issues(err)[0].Field)

	stored, err := env.Payroll.Get(ctx, admin, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.ComputeNetSalary(stored.BasicSalary, stored.Allowances, stored.Deductions), stored.NetSalary)
}

func TestPayrollIsAdminOnly(t *testing.T) {
	env := testfixtures.NewEnv()
	emp := env.SeedEmployee(t, "Ada", "Lovelace", "CSE")
	self := testfixtures.EmployeePrincipal(emp)

	_, err := env.Payroll.List(context.Background(), self, payroll.Filter{}, listing.NewPage(1, 10))
	require.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = env.Payroll.Create(context.Background(), self, payroll.CreateInput{EmployeeID: emp.ID})
	require.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestListByMonth(t *testing.T) {
	env := testfixtures.NewEnv()
	ctx := context.Background()
	admin := testfixtures.Admin()
	emp := env.SeedEmployee(t, "Ada", "Lovelace", "CSE")
	for _, day := range []string{"2024-02-29", "2024-03-01", "2024-03-31", "2024-04-01"} {
		_, err := env.Payroll.Create(ctx, admin, payroll.CreateInput{EmployeeID: emp.ID, BasicSalary: amount(1000), PayDate: day})
		require.NoError(t, err)
	}

	res, err := env.Payroll.List(ctx, admin, payroll.Filter{Month: "2024-03"}, listing.NewPage(1, 10))
	require.NoError(t, err)
	require.Equal(t, 2, res.Total)
	assert.Equal(t, 31, res.Items[0].PayDate.Day())

	_, err = env.Payroll.List(ctx, admin, payroll.Filter{Month: "March"}, listing.NewPage(1, 10))
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestTransitionStatus(t *testing.T) {
	env := testfixtures.NewEnv()
	ctx := context.Background()
	admin := testfixtures.Admin()
	emp := env.SeedEmployee(t, "Ada", "Lovelace", "CSE")
	rec, err := env.Payroll.Create(ctx, admin, payroll.CreateInput{EmployeeID: emp.ID, BasicSalary: amount(1000), PayDate: "2024-03-31"})
	require.NoError(t, err)

	paid, err := env.Payroll.TransitionStatus(ctx, admin, rec.ID, payroll.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, payroll.StatusPaid, paid.Status)

	_, err = env.Payroll.TransitionStatus(ctx, admin, rec.ID, "refunded")
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestPayslipArchivesSealedCopy(t *testing.T) {
	env := testfixtures.NewEnv()
	ctx := context.Background()
	admin := testfixtures.Admin()
	dir := t.TempDir()
	cipher, err := crypto.New("000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	require.NoError(t, err)
	env.Payroll.ArchiveDir = dir
	env.Payroll.Cipher = cipher

	emp := env.SeedEmployee(t, "Ada", "Lovelace", "CSE")
	rec, err := env.Payroll.Create(ctx, admin, payroll.CreateInput{EmployeeID: emp.ID, BasicSalary: amount(1000), PayDate: "2024-03-31"})
	require.NoError(t, err)

	data, got, err := env.Payroll.Payslip(ctx, admin, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	sealed, err := os.ReadFile(filepath.Join(dir, rec.ID+".pdf"))
	require.NoError(t, err)
	opened, err := cipher.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, data, opened)
}
