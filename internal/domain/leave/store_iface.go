package leave

import (
	"context"

	"hrdesk/internal/domain/core"
	"hrdesk/internal/domain/listing"
)

type StoreAPI interface {
	List(ctx context.Context, filter Filter, page listing.Page) ([]Leave, int, error)
	Get(ctx context.Context, id string) (Leave, error)
	Create(ctx context.Context, rec Leave) (Leave, error)
	Update(ctx context.Context, rec Leave) (Leave, error)
	Delete(ctx context.Context, id string) error
}

type EmployeeDirectory interface {
	Snapshot(ctx context.Context, employeeID string) (core.Snapshot, error)
}

// Notifier hears about status decisions on leave requests. Implementations
// must not block the caller.
type Notifier interface {
	LeaveDecided(ctx context.Context, rec Leave, to string)
}
