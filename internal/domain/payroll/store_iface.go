package payroll

import (
	"context"

	"hrdesk/internal/domain/core"
	"hrdesk/internal/domain/listing"
)

type StoreAPI interface {
	List(ctx context.Context, filter Filter, page listing.Page) ([]Payroll, int, error)
	Get(ctx context.Context, id string) (Payroll, error)
	Create(ctx context.Context, rec Payroll) (Payroll, error)
	Update(ctx context.Context, rec Payroll) (Payroll, error)
	Delete(ctx context.Context, id string) error
}

type EmployeeDirectory interface {
	Snapshot(ctx context.Context, employeeID string) (core.Snapshot, error)
}
