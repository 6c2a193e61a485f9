package core

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hrdesk/internal/domain/apperr"
	"hrdesk/internal/domain/listing"
	"hrdesk/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const employeeColumns = `id, first_name, last_name, email, phone, position, department, salary, hire_date,
       address, emergency_contact, skills, status, notes, created_at, updated_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	err := row.Scan(
		&emp.ID, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Phone, &emp.Position, &emp.Department,
		&emp.Salary, &emp.HireDate, &emp.Address, &emp.EmergencyContact, &emp.Skills, &emp.Status, &emp.Notes,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, apperr.NotFound("employee")
	}
	if emp.Skills == nil {
		emp.Skills = []string{}
	}
	return emp, err
}

func employeeFilterSQL(filter EmployeeFilter) *querier.Filter {
	f := &querier.Filter{}
	if search := strings.TrimSpace(filter.Search); search != "" {
		p := f.Arg(querier.Contains(search))
		f.Where("(first_name ILIKE " + p + " OR last_name ILIKE " + p + " OR email ILIKE " + p + " OR position ILIKE " + p + ")")
	}
	if filter.Department != "" {
		f.Where("department = " + f.Arg(filter.Department))
	}
	if filter.Status != "" {
		f.Where("status = " + f.Arg(filter.Status))
	}
	return f
}

func (s *Store) ListEmployees(ctx context.Context, filter EmployeeFilter, page listing.Page) ([]Employee, int, error) {
	f := employeeFilterSQL(filter)
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees"+f.SQL(), f.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + employeeColumns + " FROM employees" + f.SQL() +
		" ORDER BY created_at DESC LIMIT " + f.Arg(page.Limit) + " OFFSET " + f.Arg(page.Offset())
	rows, err := s.DB.Query(ctx, query, f.Args()...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, emp)
	}
	return out, total, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, id string) (Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Employee{}, apperr.NotFound("employee")
	}
	return scanEmployee(s.DB.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = $1", id))
}

func (s *Store) CreateEmployee(ctx context.Context, emp Employee) (Employee, error) {
	out, err := scanEmployee(s.DB.QueryRow(ctx, `
    INSERT INTO employees (first_name, last_name, email, phone, position, department, salary, hire_date,
      address, emergency_contact, skills, status, notes)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    RETURNING `+employeeColumns,
		emp.FirstName, emp.LastName, strings.ToLower(emp.Email), emp.Phone, emp.Position, emp.Department, emp.Salary,
		emp.HireDate, emp.Address, emp.EmergencyContact, skillsOrEmpty(emp.Skills), emp.Status, emp.Notes,
	))
	if isUniqueViolation(err) {
		return Employee{}, apperr.Conflict(msgEmailTaken)
	}
	return out, err
}

func (s *Store) UpdateEmployee(ctx context.Context, emp Employee) (Employee, error) {
	out, err := scanEmployee(s.DB.QueryRow(ctx, `
    UPDATE employees
    SET first_name = $1,
        last_name = $2,
        email = $3,
        phone = $4,
        position = $5,
        department = $6,
        salary = $7,
        hire_date = $8,
        address = $9,
        emergency_contact = $10,
        skills = $11,
        status = $12,
        notes = $13,
        updated_at = now()
    WHERE id = $14
    RETURNING `+employeeColumns,
		emp.FirstName, emp.LastName, strings.ToLower(emp.Email), emp.Phone, emp.Position, emp.Department, emp.Salary,
		emp.HireDate, emp.Address, emp.EmergencyContact, skillsOrEmpty(emp.Skills), emp.Status, emp.Notes, emp.ID,
	))
	if isUniqueViolation(err) {
		return Employee{}, apperr.Conflict(msgEmailTaken)
	}
	return out, err
}

func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.NotFound("employee")
	}
	tag, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("employee")
	}
	return nil
}

func (s *Store) EmployeeStats(ctx context.Context) (EmployeeStats, error) {
	stats := EmployeeStats{DepartmentStats: []DepartmentCount{}}
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1),
           COUNT(1) FILTER (WHERE status = 'active'),
           COALESCE(AVG(salary), 0)::float8
    FROM employees
  `).Scan(&stats.TotalEmployees, &stats.ActiveEmployees, &stats.AvgSalary)
	if err != nil {
		return EmployeeStats{}, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT department, COUNT(1)
    FROM employees
    GROUP BY department
    ORDER BY COUNT(1) DESC, department
  `)
	if err != nil {
		return EmployeeStats{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var dc DepartmentCount
		if err := rows.Scan(&dc.Department, &dc.Count); err != nil {
			return EmployeeStats{}, err
		}
		stats.DepartmentStats = append(stats.DepartmentStats, dc)
	}
	return stats, rows.Err()
}

func (s *Store) EmployeesInDepartment(ctx context.Context, name string) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+employeeColumns+" FROM employees WHERE department = $1 ORDER BY first_name", name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) CountInDepartment(ctx context.Context, name string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE department = $1", name).Scan(&count)
	return count, err
}

func skillsOrEmpty(skills []string) []string {
	if skills == nil {
		return []string{}
	}
	return skills
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
