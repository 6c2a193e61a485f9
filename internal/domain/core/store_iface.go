package core

import (
	"context"

	"hrdesk/internal/domain/listing"
)

type StoreAPI interface {
	ListEmployees(ctx context.Context, filter EmployeeFilter, page listing.Page) ([]Employee, int, error)
	GetEmployee(ctx context.Context, id string) (Employee, error)
	CreateEmployee(ctx context.Context, emp Employee) (Employee, error)
	UpdateEmployee(ctx context.Context, emp Employee) (Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
	EmployeeStats(ctx context.Context) (EmployeeStats, error)
	EmployeesInDepartment(ctx context.Context, name string) ([]Employee, error)
	CountInDepartment(ctx context.Context, name string) (int, error)

	ListDepartments(ctx context.Context) ([]Department, error)
	GetDepartment(ctx context.Context, id string) (Department, error)
	CreateDepartment(ctx context.Context, dep Department) (Department, error)
	UpdateDepartment(ctx context.Context, dep Department) (Department, error)
	DeleteDepartment(ctx context.Context, id string) error
}
