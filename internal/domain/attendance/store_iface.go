package attendance

import (
	"context"
	"time"

	"hrdesk/internal/domain/core"
	"hrdesk/internal/domain/listing"
)

type StoreAPI interface {
	List(ctx context.Context, filter Filter, page listing.Page) ([]Attendance, int, error)
	Get(ctx context.Context, id string) (Attendance, error)
	ExistsForDay(ctx context.Context, employeeID string, day time.Time) (bool, error)
	Create(ctx context.Context, rec Attendance) (Attendance, error)
	Update(ctx context.Context, rec Attendance) (Attendance, error)
	Delete(ctx context.Context, id string) error
}

// EmployeeDirectory resolves the identity snapshot stored on each record.
type EmployeeDirectory interface {
	Snapshot(ctx context.Context, employeeID string) (core.Snapshot, error)
}
