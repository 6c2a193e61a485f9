package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"hrdesk/internal/domain/apperr"
	"hrdesk/internal/domain/auth"
	"hrdesk/internal/domain/listing"
)

type Service struct {
	Store StoreAPI
	Now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store, Now: time.Now}
}

func (s *Service) ListEmployees(ctx context.Context, p auth.Principal, filter EmployeeFilter, page listing.Page) (listing.Result[Employee], error) {
	if err := auth.Decide(auth.Request{Principal: p, Record: auth.RecordEmployee, Operation: auth.OpList}).Err(); err != nil {
		return listing.Result[Employee]{}, err
	}
	items, total, err := s.Store.ListEmployees(ctx, filter, page)
	if err != nil {
		return listing.Result[Employee]{}, err
	}
	return listing.NewResult(items, total, page), nil
}

func (s *Service) GetEmployee(ctx context.Context, p auth.Principal, id string) (Employee, error) {
	// Ownership is decided on the id alone so a non-admin never learns
	// whether someone else's record exists.
	if err := auth.Decide(auth.Request{Principal: p, Record: auth.RecordEmployee, Operation: auth.OpRead, OwnerID: id}).Err(); err != nil {
		return Employee{}, err
	}
	emp, err := s.Store.GetEmployee(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	FilterEmployeeFields(&emp, p)
	return emp, nil
}

func (s *Service) CreateEmployee(ctx context.Context, p auth.Principal, in EmployeeInput) (Employee, error) {
	if err := auth.Decide(auth.Request{Principal: p, Record: auth.RecordEmployee, Operation: auth.OpCreate}).Err(); err != nil {
		return Employee{}, err
	}

	v := apperr.NewValidator()
	v.Required("firstName", in.FirstName, "first name is required")
	v.Required("lastName", in.LastName, "last name is required")
	v.Required("email", in.Email, "email is required")
	v.Email("email", in.Email)
	v.Required("phone", in.Phone, "phone is required")
	v.Required("department", in.Department, "department is required")
	if in.Salary == nil {
		v.Add("salary", "salary is required")
	} else {
		v.NonNegative("salary", *in.Salary)
	}
	hireDate := s.today()
	if strings.TrimSpace(in.HireDate) != "" {
		hireDate, _ = v.Date("hireDate", in.HireDate)
	}
	status := defaultString(in.Status, EmployeeActive)
	v.Enum("status", status, EmployeeStatuses, "must be one of active, inactive, terminated")
	if err := v.Err(); err != nil {
		return Employee{}, err
	}

	emp := Employee{
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		Email:      strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:      strings.TrimSpace(in.Phone),
		Position:   strings.TrimSpace(in.Position),
		Department: strings.TrimSpace(in.Department),
		Salary:     *in.Salary,
		HireDate:   hireDate,
		Skills:     cleanSkills(in.Skills),
		Status:     status,
		Notes:      in.Notes,
	}
	if in.Address != nil {
		emp.Address = *in.Address
	}
	if in.EmergencyContact != nil {
		emp.EmergencyContact = *in.EmergencyContact
	}
	return s.Store.CreateEmployee(ctx, emp)
}

func (s *Service) UpdateEmployee(ctx context.Context, p auth.Principal, id string, in EmployeeUpdate) (Employee, error) {
	if err := auth.Decide(auth.Request{Principal: p, Record: auth.RecordEmployee, Operation: auth.OpUpdate, OwnerID: id}).Err(); err != nil {
		return Employee{}, err
	}
	emp, err := s.Store.GetEmployee(ctx, id)
	if err != nil {
		return Employee{}, err
	}

	v := apperr.NewValidator()
	if apperr.Apply(v, "firstName", in.FirstName, &emp.FirstName, true) {
		v.Required("firstName", emp.FirstName, "first name is required")
	}
	if apperr.Apply(v, "lastName", in.LastName, &emp.LastName, true) {
		v.Required("lastName", emp.LastName, "last name is required")
	}
	if apperr.Apply(v, "email", in.Email, &emp.Email, true) {
		emp.Email = strings.ToLower(strings.TrimSpace(emp.Email))
		v.Required("email", emp.Email, "email is required")
		v.Email("email", emp.Email)
	}
	if apperr.Apply(v, "phone", in.Phone, &emp.Phone, true) {
		v.Required("phone", emp.Phone, "phone is required")
	}
	apperr.Apply(v, "position", in.Position, &emp.Position, false)
	if apperr.Apply(v, "department", in.Department, &emp.Department, true) {
		v.Required("department", emp.Department, "department is required")
	}
	if apperr.Apply(v, "salary", in.Salary, &emp.Salary, true) {
		v.NonNegative("salary", emp.Salary)
	}
	var hireDate string
	if apperr.Apply(v, "hireDate", in.HireDate, &hireDate, true) {
		if parsed, ok := v.Date("hireDate", hireDate); ok {
			emp.HireDate = parsed
		}
	}
	apperr.Apply(v, "address", in.Address, &emp.Address, false)
	apperr.Apply(v, "emergencyContact", in.EmergencyContact, &emp.EmergencyContact, false)
	if apperr.Apply(v, "skills", in.Skills, &emp.Skills, false) {
		emp.Skills = cleanSkills(emp.Skills)
	}
	if apperr.Apply(v, "status", in.Status, &emp.Status, true) {
		v.Required("status", emp.Status, "status is required")
		v.Enum("status", emp.Status, EmployeeStatuses, "must be one of active, inactive, terminated")
	}
	apperr.Apply(v, "notes", in.Notes, &emp.Notes, false)
	if err := v.Err(); err != nil {
		return Employee{}, err
	}
	return s.Store.UpdateEmployee(ctx, emp)
}

func (s *Service) DeleteEmployee(ctx context.Context, p auth.Principal, id string) (Employee, error) {
	if err := auth.Decide(auth.Request{Principal: p, Record: auth.RecordEmployee, Operation: auth.OpDelete, OwnerID: id}).Err(); err != nil {
		return Employee{}, err
	}
	emp, err := s.Store.GetEmployee(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	if err := s.Store.DeleteEmployee(ctx, id); err != nil {
		return Employee{}, err
	}
	return emp, nil
}

func (s *Service) EmployeeStats(ctx context.Context, p auth.Principal) (EmployeeStats, error) {
	if err := auth.Decide(auth.Request{Principal: p, Record: auth.RecordEmployee, Operation: auth.OpList}).Err(); err != nil {
		return EmployeeStats{}, err
	}
	return s.Store.EmployeeStats(ctx)
}

// Snapshot resolves the identity fields copied onto dependent records.
func (s *Service) Snapshot(ctx context.Context, employeeID string) (Snapshot, error) {
	emp, err := s.Store.GetEmployee(ctx, employeeID)
	if err != nil {
		return Snapshot{}, err
	}
	return emp.Snapshot(), nil
}

func (s *Service) EmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	_, err := s.Store.GetEmployee(ctx, employeeID)
	if errors.Is(err, apperr.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Profile returns the employee record linked to p, or nil when p has none.
func (s *Service) Profile(ctx context.Context, p auth.Principal) (*Employee, error) {
	if p.EmployeeID == "" {
		return nil, nil
	}
	emp, err := s.Store.GetEmployee(ctx, p.EmployeeID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	FilterEmployeeFields(&emp, p)
	return &emp, nil
}

func (s *Service) today() time.Time {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return apperr.Day(now())
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}

func cleanSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, skill := range skills {
		if trimmed := strings.TrimSpace(skill); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
