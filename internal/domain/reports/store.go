package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"hrdesk/internal/domain/core"
	"hrdesk/internal/platform/querier"
)

type StoreAPI interface {
	AttendanceOn(ctx context.Context, day time.Time) (present, total int, err error)
	PendingLeaves(ctx context.Context) (int, error)
	PayrollBetween(ctx context.Context, from, to time.Time) (records int, net decimal.Decimal, err error)
}

// EmployeeStatsSource is satisfied by core.Store.
type EmployeeStatsSource interface {
	EmployeeStats(ctx context.Context) (core.EmployeeStats, error)
}

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) AttendanceOn(ctx context.Context, day time.Time) (int, int, error) {
	var present, total int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FILTER (WHERE status IN ('present', 'late', 'halfDay')), COUNT(1)
    FROM attendance
    WHERE date = $1
  `, day).Scan(&present, &total)
	return present, total, err
}

func (s *Store) PendingLeaves(ctx context.Context) (int, error) {
	var pending int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM leaves WHERE status = 'pending'").Scan(&pending)
	return pending, err
}

func (s *Store) PayrollBetween(ctx context.Context, from, to time.Time) (int, decimal.Decimal, error) {
	var records int
	var net decimal.Decimal
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1), COALESCE(SUM(net_salary), 0)
    FROM payroll
    WHERE pay_date >= $1 AND pay_date < $2
  `, from, to).Scan(&records, &net)
	return records, net, err
}
