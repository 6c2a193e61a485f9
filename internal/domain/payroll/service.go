package payroll

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"hrdesk/internal/domain/apperr"
	"hrdesk/internal/domain/auth"
	"hrdesk/internal/domain/listing"
	"hrdesk/internal/platform/crypto"
)

type Service struct {
	Store     StoreAPI
	Employees EmployeeDirectory
	// ArchiveDir, when set, receives a copy of every rendered payslip,
	// sealed with Cipher when one is configured.
	ArchiveDir string
	Cipher     *crypto.Cipher
}

func NewService(store StoreAPI, employees EmployeeDirectory, archiveDir string, cipher *crypto.Cipher) *Service {
	return &Service{Store: store, Employees: employees, ArchiveDir: archiveDir, Cipher: cipher}
}

func (s *Service) List(ctx context.Context, p auth.Principal, filter Filter, page listing.Page) (listing.Result[Payroll], error) {
	decision := s.decide(p, auth.OpList)
	if err := decision.Err(); err != nil {
		return listing.Result[Payroll]{}, err
	}
	if !decision.Scope.AllowSearch {
		filter.Search = ""
	}
	if filter.Month != "" {
		if _, _, err := MonthRange(filter.Month); err != nil {
			return listing.Result[Payroll]{}, apperr.Invalid("month", "must be in YYYY-MM format")
		}
	}
	items, total, err := s.Store.List(ctx, filter, page)
	if err != nil {
		return listing.Result[Payroll]{}, err
	}
	return listing.NewResult(items, total, page), nil
}

func (s *Service) Get(ctx context.Context, p auth.Principal, id string) (Payroll, error) {
	if err := s.decide(p, auth.OpRead).Err(); err != nil {
		return Payroll{}, err
	}
	return s.Store.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, p auth.Principal, in CreateInput) (Payroll, error) {
	if err := s.decide(p, auth.OpCreate).Err(); err != nil {
		return Payroll{}, err
	}

	v := apperr.NewValidator()
	if v.Required("employeeId", in.EmployeeID, "employee id is required") {
		v.UUID("employeeId", in.EmployeeID)
	}
	var rec Payroll
	if in.BasicSalary == nil {
		v.Add("basicSalary", "basic salary is required")
	} else {
		rec.BasicSalary = *in.BasicSalary
		v.NonNegative("basicSalary", rec.BasicSalary)
		v.Cents("basicSalary", rec.BasicSalary)
	}
	if in.Allowances != nil {
		rec.Allowances = *in.Allowances
		v.NonNegative("allowances", rec.Allowances)
		v.Cents("allowances", rec.Allowances)
	}
	if in.Deductions != nil {
		rec.Deductions = *in.Deductions
		v.NonNegative("deductions", rec.Deductions)
		v.Cents("deductions", rec.Deductions)
	}
	if v.Required("payDate", in.PayDate, "pay date is required") {
		rec.PayDate, _ = v.Date("payDate", in.PayDate)
	}
	rec.Status = StatusPending
	if strings.TrimSpace(in.Status) != "" {
		rec.Status = strings.TrimSpace(in.Status)
	}
	v.Enum("status", rec.Status, Statuses, reasonStatus)
	if err := v.Err(); err != nil {
		return Payroll{}, err
	}

	snap, err := s.Employees.Snapshot(ctx, in.EmployeeID)
	if err != nil {
		return Payroll{}, err
	}
	rec.EmployeeID = snap.EmployeeID
	rec.EmployeeName = snap.EmployeeName
	rec.Department = snap.Department
	rec.BankAccount = strings.TrimSpace(in.BankAccount)
	rec.NetSalary = ComputeNetSalary(rec.BasicSalary, rec.Allowances, rec.Deductions)
	return s.Store.Create(ctx, rec)
}

func (s *Service) Update(ctx context.Context, p auth.Principal, id string, in UpdateInput) (Payroll, error) {
	if err := s.decide(p, auth.OpUpdate).Err(); err != nil {
		return Payroll{}, err
	}
	rec, err := s.Store.Get(ctx, id)
	if err != nil {
		return Payroll{}, err
	}

	v := apperr.NewValidator()
	if apperr.Apply(v, "basicSalary", in.BasicSalary, &rec.BasicSalary, true) {
		v.NonNegative("basicSalary", rec.BasicSalary)
		v.Cents("basicSalary", rec.BasicSalary)
	}
	if apperr.Apply(v, "allowances", in.Allowances, &rec.Allowances, false) {
		v.NonNegative("allowances", rec.Allowances)
		v.Cents("allowances", rec.Allowances)
	}
	if apperr.Apply(v, "deductions", in.Deductions, &rec.Deductions, false) {
		v.NonNegative("deductions", rec.Deductions)
		v.Cents("deductions", rec.Deductions)
	}
	var payDate string
	if apperr.Apply(v, "payDate", in.PayDate, &payDate, true) {
		if parsed, ok := v.Date("payDate", payDate); ok {
			rec.PayDate = parsed
		}
	}
	if apperr.Apply(v, "status", in.Status, &rec.Status, true) {
		rec.Status = strings.TrimSpace(rec.Status)
		v.Required("status", rec.Status, "status is required")
		v.Enum("status", rec.Status, Statuses, reasonStatus)
	}
	if apperr.Apply(v, "bankAccount", in.BankAccount, &rec.BankAccount, false) {
		rec.BankAccount = strings.TrimSpace(rec.BankAccount)
	}
	if err := v.Err(); err != nil {
		return Payroll{}, err
	}
	rec.NetSalary = ComputeNetSalary(rec.BasicSalary, rec.Allowances, rec.Deductions)
	return s.Store.Update(ctx, rec)
}

func (s *Service) Delete(ctx context.Context, p auth.Principal, id string) (Payroll, error) {
	if err := s.decide(p, auth.OpDelete).Err(); err != nil {
		return Payroll{}, err
	}
	rec, err := s.Store.Get(ctx, id)
	if err != nil {
		return Payroll{}, err
	}
	if err := s.Store.Delete(ctx, id); err != nil {
		return Payroll{}, err
	}
	return rec, nil
}

// TransitionStatus sets any enum status; no transition table is enforced.
func (s *Service) TransitionStatus(ctx context.Context, p auth.Principal, id, status string) (Payroll, error) {
	if err := s.decide(p, auth.OpTransition).Err(); err != nil {
		return Payroll{}, err
	}
	rec, err := s.Store.Get(ctx, id)
	if err != nil {
		return Payroll{}, err
	}
	status = strings.TrimSpace(status)
	v := apperr.NewValidator()
	if v.Required("status", status, "status is required") {
		v.Enum("status", status, Statuses, reasonStatus)
	}
	if err := v.Err(); err != nil {
		return Payroll{}, err
	}
	rec.Status = status
	return s.Store.Update(ctx, rec)
}

// Payslip renders the PDF payslip for a payroll record.
func (s *Service) Payslip(ctx context.Context, p auth.Principal, id string) ([]byte, Payroll, error) {
	rec, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, Payroll{}, err
	}
	data, err := renderPayslipBytes(rec)
	if err != nil {
		return nil, Payroll{}, err
	}
	if s.ArchiveDir != "" {
		if err := s.archive(rec.ID, data); err != nil {
			slog.Warn("payslip archive failed", "payrollId", rec.ID, "err", err)
		}
	}
	return data, rec, nil
}

func (s *Service) archive(id string, data []byte) error {
	if err := os.MkdirAll(s.ArchiveDir, 0o755); err != nil {
		return err
	}
	sealed, err := s.Cipher.Seal(data)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.ArchiveDir, id+".pdf"), sealed, 0o600)
}

func (s *Service) decide(p auth.Principal, op auth.Operation) auth.Decision {
	return auth.Decide(auth.Request{Principal: p, Record: auth.RecordPayroll, Operation: op})
}
