package core

import (
	"context"
	"strings"

	"hrdesk/internal/domain/apperr"
	"hrdesk/internal/domain/auth"
)

func (s *Service) ListDepartments(ctx context.Context, p auth.Principal) ([]Department, error) {
	if err := s.allowDepartment(p, auth.OpList); err != nil {
		return nil, err
	}
	deps, err := s.Store.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}
	if deps == nil {
		deps = []Department{}
	}
	return deps, nil
}

func (s *Service) GetDepartment(ctx context.Context, p auth.Principal, id string) (Department, error) {
	if err := s.allowDepartment(p, auth.OpRead); err != nil {
		return Department{}, err
	}
	return s.Store.GetDepartment(ctx, id)
}

func (s *Service) CreateDepartment(ctx context.Context, p auth.Principal, in DepartmentInput) (Department, error) {
	if err := s.allowDepartment(p, auth.OpCreate); err != nil {
		return Department{}, err
	}

	v := apperr.NewValidator()
	v.Required("name", in.Name, "department name is required")
	v.UUID("manager", in.Manager)
	if in.Budget != nil {
		v.NonNegative("budget", *in.Budget)
	}
	established := s.today()
	if strings.TrimSpace(in.EstablishedDate) != "" {
		established, _ = v.Date("establishedDate", in.EstablishedDate)
	}
	status := defaultString(in.Status, DepartmentActive)
	v.Enum("status", status, DepartmentStatuses, "must be active or inactive")
	if err := v.Err(); err != nil {
		return Department{}, err
	}

	dep := Department{
		Name:            strings.TrimSpace(in.Name),
		Description:     in.Description,
		Budget:          in.Budget,
		Location:        strings.TrimSpace(in.Location),
		EstablishedDate: established,
		Status:          status,
	}
	if manager := strings.TrimSpace(in.Manager); manager != "" {
		if err := s.requireManager(ctx, manager); err != nil {
			return Department{}, err
		}
		dep.ManagerID = &manager
	}
	return s.Store.CreateDepartment(ctx, dep)
}

func (s *Service) UpdateDepartment(ctx context.Context, p auth.Principal, id string, in DepartmentUpdate) (Department, error) {
	if err := s.allowDepartment(p, auth.OpUpdate); err != nil {
		return Department{}, err
	}
	dep, err := s.Store.GetDepartment(ctx, id)
	if err != nil {
		return Department{}, err
	}

	v := apperr.NewValidator()
	if apperr.Apply(v, "name", in.Name, &dep.Name, true) {
		dep.Name = strings.TrimSpace(dep.Name)
		v.Required("name", dep.Name, "department name is required")
	}
	apperr.Apply(v, "description", in.Description, &dep.Description, false)
	apperr.Apply(v, "location", in.Location, &dep.Location, false)
	if in.Budget.Set {
		if in.Budget.Null {
			dep.Budget = nil
		} else {
			v.NonNegative("budget", in.Budget.Value)
			budget := in.Budget.Value
			dep.Budget = &budget
		}
	}
	var established string
	if apperr.Apply(v, "establishedDate", in.EstablishedDate, &established, true) {
		if parsed, ok := v.Date("establishedDate", established); ok {
			dep.EstablishedDate = parsed
		}
	}
	if apperr.Apply(v, "status", in.Status, &dep.Status, true) {
		v.Required("status", dep.Status, "status is required")
		v.Enum("status", dep.Status, DepartmentStatuses, "must be active or inactive")
	}
	var manager string
	if in.Manager.Set {
		apperr.Apply(v, "manager", in.Manager, &manager, false)
		manager = strings.TrimSpace(manager)
		v.UUID("manager", manager)
	}
	if err := v.Err(); err != nil {
		return Department{}, err
	}

	if in.Manager.Set {
		if manager == "" {
			dep.ManagerID = nil
		} else {
			if err := s.requireManager(ctx, manager); err != nil {
				return Department{}, err
			}
			dep.ManagerID = &manager
		}
	}
	return s.Store.UpdateDepartment(ctx, dep)
}

// DeleteDepartment refuses while any employee still names the department.
func (s *Service) DeleteDepartment(ctx context.Context, p auth.Principal, id string) (Department, error) {
	if err := s.allowDepartment(p, auth.OpDelete); err != nil {
		return Department{}, err
	}
	dep, err := s.Store.GetDepartment(ctx, id)
	if err != nil {
		return Department{}, err
	}
	members, err := s.Store.CountInDepartment(ctx, dep.Name)
	if err != nil {
		return Department{}, err
	}
	if members > 0 {
		return Department{}, apperr.Conflict(msgDepartmentHasStaff)
	}
	if err := s.Store.DeleteDepartment(ctx, id); err != nil {
		return Department{}, err
	}
	return dep, nil
}

// DepartmentMembers resolves the by-name relation from a department to the
// employees whose department field matches its name.
func (s *Service) DepartmentMembers(ctx context.Context, p auth.Principal, id string) ([]Employee, error) {
	if err := s.allowDepartment(p, auth.OpRead); err != nil {
		return nil, err
	}
	dep, err := s.Store.GetDepartment(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := s.Store.EmployeesInDepartment(ctx, dep.Name)
	if err != nil {
		return nil, err
	}
	if members == nil {
		members = []Employee{}
	}
	return members, nil
}

func (s *Service) allowDepartment(p auth.Principal, op auth.Operation) error {
	return auth.Decide(auth.Request{Principal: p, Record: auth.RecordDepartment, Operation: op}).Err()
}

func (s *Service) requireManager(ctx context.Context, managerID string) error {
	_, err := s.Store.GetEmployee(ctx, managerID)
	return err
}
