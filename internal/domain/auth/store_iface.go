package auth

import "context"

type StoreAPI interface {
	FindByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, user User) (User, error)
	EmployeeLinked(ctx context.Context, employeeID string) (bool, error)
	UpdateLastLogin(ctx context.Context, id string) error
}

// EmployeeDirectory answers whether an Employee record exists.
type EmployeeDirectory interface {
	EmployeeExists(ctx context.Context, employeeID string) (bool, error)
}
