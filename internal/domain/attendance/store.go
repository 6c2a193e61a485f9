package attendance

import (
	"context"
	"errors"
	"strings"
	"time"

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

const columns = "id, employee_id, employee_name, department, date, check_in, check_out, hours, status, notes, created_at, updated_at"

func scanAttendance(row pgx.Row) (Attendance, error) {
	var rec Attendance
	err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.EmployeeName, &rec.Department, &rec.Date,
		&rec.CheckIn, &rec.CheckOut, &rec.Hours, &rec.Status, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Attendance{}, apperr.NotFound("attendance record")
	}
	return rec, err
}

func (s *Store) List(ctx context.Context, filter Filter, page listing.Page) ([]Attendance, int, error) {
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
	if filter.Date != nil {
		f.Where("date = " + f.Arg(*filter.Date))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM attendance"+f.SQL(), f.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + columns + " FROM attendance" + f.SQL() +
		" ORDER BY date DESC, created_at DESC LIMIT " + f.Arg(page.Limit) + " OFFSET " + f.Arg(page.Offset())
	rows, err := s.DB.Query(ctx, query, f.Args()...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Attendance
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	return out, total, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Attendance, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Attendance{}, apperr.NotFound("attendance record")
	}
	return scanAttendance(s.DB.QueryRow(ctx, "SELECT "+columns+" FROM attendance WHERE id = $1", id))
}

func (s *Store) ExistsForDay(ctx context.Context, employeeID string, day time.Time) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM attendance WHERE employee_id = $1 AND date = $2)", employeeID, day).Scan(&exists)
	return exists, err
}

// Create relies on the (employee_id, date) unique index; a concurrent
// duplicate that slipped past ExistsForDay surfaces here as a conflict.
func (s *Store) Create(ctx context.Context, rec Attendance) (Attendance, error) {
	out, err := scanAttendance(s.DB.QueryRow(ctx, `
    INSERT INTO attendance (employee_id, employee_name, department, date, check_in, check_out, hours, status, notes)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING `+columns,
		rec.EmployeeID, rec.EmployeeName, rec.Department, rec.Date, rec.CheckIn, rec.CheckOut, rec.Hours, rec.Status, rec.Notes,
	))
	if isUniqueViolation(err) {
		return Attendance{}, apperr.Conflict(msgDuplicate)
	}
	return out, err
}

func (s *Store) Update(ctx context.Context, rec Attendance) (Attendance, error) {
	out, err := scanAttendance(s.DB.QueryRow(ctx, `
    UPDATE attendance
    SET date = $1,
        check_in = $2,
        check_out = $3,
        hours = $4,
        status = $5,
        notes = $6,
        updated_at = now()
    WHERE id = $7
    RETURNING `+columns,
		rec.Date, rec.CheckIn, rec.CheckOut, rec.Hours, rec.Status, rec.Notes, rec.ID,
	))
	if isUniqueViolation(err) {
		return Attendance{}, apperr.Conflict(msgDuplicate)
	}
	return out, err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.NotFound("attendance record")
	}
	tag, err := s.DB.Exec(ctx, "DELETE FROM attendance WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("attendance record")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
