package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"hrdesk/internal/domain/apperr"
	"hrdesk/internal/domain/auth"
	"hrdesk/internal/domain/core"
)

type Service struct {
	Store     StoreAPI
	Employees EmployeeStatsSource
	Now       func() time.Time
}

func NewService(store StoreAPI, employees EmployeeStatsSource) *Service {
	return &Service{Store: store, Employees: employees, Now: time.Now}
}

// Dashboard gathers the admin overview. The four aggregates are independent
// and run concurrently; the first failure cancels the rest.
func (s *Service) Dashboard(ctx context.Context, p auth.Principal) (Dashboard, error) {
	if err := auth.Decide(auth.Request{Principal: p, Record: auth.RecordReport, Operation: auth.OpRead}).Err(); err != nil {
		return Dashboard{}, err
	}

	now := s.now()
	today := apperr.Day(now)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	out := Dashboard{
		AttendanceToday: AttendanceSummary{Date: today},
		Payroll:         PayrollSummary{Month: monthStart.Format("2006-01")},
		GeneratedAt:     now.UTC(),
	}
	var net decimal.Decimal

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.Employees.EmployeeStats(gctx)
		out.Employees = stats
		return err
	})
	g.Go(func() error {
		present, total, err := s.Store.AttendanceOn(gctx, today)
		out.AttendanceToday.Present = present
		out.AttendanceToday.Total = total
		return err
	})
	g.Go(func() error {
		pending, err := s.Store.PendingLeaves(gctx)
		out.PendingLeaves = pending
		return err
	})
	g.Go(func() error {
		records, sum, err := s.Store.PayrollBetween(gctx, monthStart, monthStart.AddDate(0, 1, 0))
		out.Payroll.Records = records
		net = sum
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	out.Payroll.NetTotal = net.Round(2).InexactFloat64()
	if out.Employees.DepartmentStats == nil {
		out.Employees.DepartmentStats = []core.DepartmentCount{}
	}
	return out, nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
