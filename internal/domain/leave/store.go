package leave

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

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

const columns = `id, employee_id, employee_name, department, leave_type, start_date, end_date, days,
       reason, status, applied_date, created_at, updated_at`

func scanLeave(row pgx.Row) (Leave, error) {
	var rec Leave
	err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.EmployeeName, &rec.Department, &rec.LeaveType,
		&rec.StartDate, &rec.EndDate, &rec.Days, &rec.Reason, &rec.Status, &rec.AppliedDate,
		&rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Leave{}, apperr.NotFound("leave request")
	}
	return rec, err
}

func (s *Store) List(ctx context.Context, filter Filter, page listing.Page) ([]Leave, int, error) {
	if filter.EmployeeID != "" {
		if _, err := uuid.Parse(filter.EmployeeID); err != nil {
			return nil, 0, nil
		}
	}
	f := &querier.Filter{}
	if filter.EmployeeID != "" {
		f.Where("employee_id = " + f.Arg(filter.EmployeeID))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		p := f.Arg(querier.Contains(search))
		f.Where("(employee_name ILIKE " + p + " OR department ILIKE " + p + ")")
	}
	if filter.Status != "" {
		f.Where("status = " + f.Arg(filter.Status))
	}
	if filter.LeaveType != "" {
		f.Where("leave_type = " + f.Arg(filter.LeaveType))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM leaves"+f.SQL(), f.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + columns + " FROM leaves" + f.SQL() +
		" ORDER BY start_date DESC, created_at DESC LIMIT " + f.Arg(page.Limit) + " OFFSET " + f.Arg(page.Offset())
	rows, err := s.DB.Query(ctx, query, f.Args()...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Leave
	for rows.Next() {
		rec, err := scanLeave(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	return out, total, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Leave, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Leave{}, apperr.NotFound("leave request")
	}
	return scanLeave(s.DB.QueryRow(ctx, "SELECT "+columns+" FROM leaves WHERE id = $1", id))
}

func (s *Store) Create(ctx context.Context, rec Leave) (Leave, error) {
	return scanLeave(s.DB.QueryRow(ctx, `
    INSERT INTO leaves (employee_id, employee_name, department, leave_type, start_date, end_date, days, reason, status, applied_date)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    RETURNING `+columns,
		rec.EmployeeID, rec.EmployeeName, rec.Department, rec.LeaveType, rec.StartDate, rec.EndDate,
		rec.Days, rec.Reason, rec.Status, rec.AppliedDate,
	))
}

// Update never touches employee_id, snapshots or applied_date.
func (s *Store) Update(ctx context.Context, rec Leave) (Leave, error) {
	return scanLeave(s.DB.QueryRow(ctx, `
    UPDATE leaves
    SET leave_type = $1,
        start_date = $2,
        end_date = $3,
        days = $4,
        reason = $5,
        status = $6,
        updated_at = now()
    WHERE id = $7
    RETURNING `+columns,
		rec.LeaveType, rec.StartDate, rec.EndDate, rec.Days, rec.Reason, rec.Status, rec.ID,
	))
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.NotFound("leave request")
	}
	tag, err := s.DB.Exec(ctx, "DELETE FROM leaves WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("leave request")
	}
	return nil
}
