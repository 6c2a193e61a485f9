package core

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"hrdesk/internal/domain/apperr"
)

const departmentSelect = `
    SELECT d.id, d.name, d.description, d.manager_id::text, d.budget::float8, d.location,
           d.established_date, d.status, d.created_at, d.updated_at,
           m.id::text, m.first_name, m.last_name, m.email
    FROM departments d
    LEFT JOIN employees m ON m.id = d.manager_id`

func scanDepartment(row pgx.Row) (Department, error) {
	var dep Department
	var managerID, managerFirst, managerLast, managerEmail *string
	err := row.Scan(
		&dep.ID, &dep.Name, &dep.Description, &dep.ManagerID, &dep.Budget, &dep.Location,
		&dep.EstablishedDate, &dep.Status, &dep.CreatedAt, &dep.UpdatedAt,
		&managerID, &managerFirst, &managerLast, &managerEmail,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Department{}, apperr.NotFound("department")
	}
	if err != nil {
		return Department{}, err
	}
	if managerID != nil {
		dep.Manager = &ManagerRef{ID: *managerID, FirstName: deref(managerFirst), LastName: deref(managerLast), Email: deref(managerEmail)}
	}
	return dep, nil
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, departmentSelect+" ORDER BY d.name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		dep, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, dep)
	}
	return out, rows.Err()
}

func (s *Store) GetDepartment(ctx context.Context, id string) (Department, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Department{}, apperr.NotFound("department")
	}
	return scanDepartment(s.DB.QueryRow(ctx, departmentSelect+" WHERE d.id = $1", id))
}

func (s *Store) CreateDepartment(ctx context.Context, dep Department) (Department, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO departments (name, description, manager_id, budget, location, established_date, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, dep.Name, dep.Description, dep.ManagerID, dep.Budget, dep.Location, dep.EstablishedDate, dep.Status).Scan(&id)
	if isUniqueViolation(err) {
		return Department{}, apperr.Conflict(msgDepartmentNameTaken)
	}
	if err != nil {
		return Department{}, err
	}
	return s.GetDepartment(ctx, id)
}

func (s *Store) UpdateDepartment(ctx context.Context, dep Department) (Department, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE departments
    SET name = $1,
        description = $2,
        manager_id = $3,
        budget = $4,
        location = $5,
        established_date = $6,
        status = $7,
        updated_at = now()
    WHERE id = $8
  `, dep.Name, dep.Description, dep.ManagerID, dep.Budget, dep.Location, dep.EstablishedDate, dep.Status, dep.ID)
	if isUniqueViolation(err) {
		return Department{}, apperr.Conflict(msgDepartmentNameTaken)
	}
	if err != nil {
		return Department{}, err
	}
	if tag.RowsAffected() == 0 {
		return Department{}, apperr.NotFound("department")
	}
	return s.GetDepartment(ctx, dep.ID)
}

func (s *Store) DeleteDepartment(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.NotFound("department")
	}
	tag, err := s.DB.Exec(ctx, "DELETE FROM departments WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("department")
	}
	return nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
