package testfixtures

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"hrdesk/internal/domain/apperr"
	"hrdesk/internal/domain/core"
	"hrdesk/internal/domain/listing"
)

// CoreStore keeps employees and departments in memory with the ordering,
// uniqueness and foreign-key behaviour of the Postgres store.
type CoreStore struct {
	mu          sync.Mutex
	clock       *Clock
	employees   map[string]core.Employee
	departments map[string]core.Department
}

func NewCoreStore(clock *Clock) *CoreStore {
	return &CoreStore{
		clock:       clock,
		employees:   map[string]core.Employee{},
		departments: map[string]core.Department{},
	}
}

func (s *CoreStore) ListEmployees(_ context.Context, filter core.EmployeeFilter, page listing.Page) ([]core.Employee, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	search := strings.TrimSpace(filter.Search)
	var matched []core.Employee
	for _, emp := range s.employees {
		if search != "" && !containsFold(emp.FirstName, search) && !containsFold(emp.LastName, search) &&
			!containsFold(emp.Email, search) && !containsFold(emp.Position, search) {
			continue
		}
		if filter.Department != "" && emp.Department != filter.Department {
			continue
		}
		if filter.Status != "" && emp.Status != filter.Status {
			continue
		}
		matched = append(matched, emp)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return paginate(matched, page), len(matched), nil
}

func (s *CoreStore) GetEmployee(_ context.Context, id string) (core.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	emp, ok := s.employees[id]
	if !ok {
		return core.Employee{}, apperr.NotFound("employee")
	}
	return emp, nil
}

func (s *CoreStore) CreateEmployee(_ context.Context, emp core.Employee) (core.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emailTaken(emp.Email, "") {
		return core.Employee{}, apperr.Conflict("Employee with this email already exists")
	}
	now := s.clock.Tick()
	emp.ID = uuid.NewString()
	emp.Email = strings.ToLower(emp.Email)
	if emp.Skills == nil {
		emp.Skills = []string{}
	}
	emp.CreatedAt = now
	emp.UpdatedAt = now
	s.employees[emp.ID] = emp
	return emp, nil
}

func (s *CoreStore) UpdateEmployee(_ context.Context, emp core.Employee) (core.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.employees[emp.ID]
	if !ok {
		return core.Employee{}, apperr.NotFound("employee")
	}
	if s.emailTaken(emp.Email, emp.ID) {
		return core.Employee{}, apperr.Conflict("Employee with this email already exists")
	}
	emp.Email = strings.ToLower(emp.Email)
	if emp.Skills == nil {
		emp.Skills = []string{}
	}
	emp.CreatedAt = prev.CreatedAt
	emp.UpdatedAt = s.clock.Tick()
	s.employees[emp.ID] = emp
	return emp, nil
}

func (s *CoreStore) DeleteEmployee(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[id]; !ok {
		return apperr.NotFound("employee")
	}
	delete(s.employees, id)
	for depID, dep := range s.departments {
		if dep.ManagerID != nil && *dep.ManagerID == id {
			dep.ManagerID = nil
			s.departments[depID] = dep
		}
	}
	return nil
}

func (s *CoreStore) EmployeeStats(_ context.Context) (core.EmployeeStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := core.EmployeeStats{DepartmentStats: []core.DepartmentCount{}}
	counts := map[string]int{}
	var salaries float64
	for _, emp := range s.employees {
		stats.TotalEmployees++
		if emp.Status == core.EmployeeActive {
			stats.ActiveEmployees++
		}
		salaries += emp.Salary
		counts[emp.Department]++
	}
	if stats.TotalEmployees > 0 {
		stats.AvgSalary = salaries / float64(stats.TotalEmployees)
	}
	for dep, n := range counts {
		stats.DepartmentStats = append(stats.DepartmentStats, core.DepartmentCount{Department: dep, Count: n})
	}
	sort.Slice(stats.DepartmentStats, func(i, j int) bool {
		a, b := stats.DepartmentStats[i], stats.DepartmentStats[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Department < b.Department
	})
	return stats, nil
}

func (s *CoreStore) EmployeesInDepartment(_ context.Context, name string) ([]core.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Employee
	for _, emp := range s.employees {
		if emp.Department == name {
			out = append(out, emp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FirstName < out[j].FirstName })
	return out, nil
}

func (s *CoreStore) CountInDepartment(_ context.Context, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, emp := range s.employees {
		if emp.Department == name {
			n++
		}
	}
	return n, nil
}

func (s *CoreStore) ListDepartments(_ context.Context) ([]core.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Department, 0, len(s.departments))
	for _, dep := range s.departments {
		out = append(out, s.withManager(dep))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *CoreStore) GetDepartment(_ context.Context, id string) (core.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dep, ok := s.departments[id]
	if !ok {
		return core.Department{}, apperr.NotFound("department")
	}
	return s.withManager(dep), nil
}

func (s *CoreStore) CreateDepartment(_ context.Context, dep core.Department) (core.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.departmentNameTaken(dep.Name, "") {
		return core.Department{}, apperr.Conflict("Department with this name already exists")
	}
	now := s.clock.Tick()
	dep.ID = uuid.NewString()
	dep.Manager = nil
	dep.CreatedAt = now
	dep.UpdatedAt = now
	s.departments[dep.ID] = dep
	return s.withManager(dep), nil
}

func (s *CoreStore) UpdateDepartment(_ context.Context, dep core.Department) (core.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.departments[dep.ID]
	if !ok {
		return core.Department{}, apperr.NotFound("department")
	}
	if s.departmentNameTaken(dep.Name, dep.ID) {
		return core.Department{}, apperr.Conflict("Department with this name already exists")
	}
	dep.Manager = nil
	dep.CreatedAt = prev.CreatedAt
	dep.UpdatedAt = s.clock.Tick()
	s.departments[dep.ID] = dep
	return s.withManager(dep), nil
}

func (s *CoreStore) DeleteDepartment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.departments[id]; !ok {
		return apperr.NotFound("department")
	}
	delete(s.departments, id)
	return nil
}

func (s *CoreStore) emailTaken(email, exceptID string) bool {
	for id, emp := range s.employees {
		if id != exceptID && strings.EqualFold(emp.Email, email) {
			return true
		}
	}
	return false
}

func (s *CoreStore) departmentNameTaken(name, exceptID string) bool {
	for id, dep := range s.departments {
		if id != exceptID && dep.Name == name {
			return true
		}
	}
	return false
}

func (s *CoreStore) withManager(dep core.Department) core.Department {
	dep.Manager = nil
	if dep.ManagerID == nil {
		return dep
	}
	if m, ok := s.employees[*dep.ManagerID]; ok {
		dep.Manager = &core.ManagerRef{ID: m.ID, FirstName: m.FirstName, LastName: m.LastName, Email: m.Email}
	}
	return dep
}
