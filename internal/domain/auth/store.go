package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hrdesk/internal/domain/apperr"
	"hrdesk/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const userColumns = "id, email, password_hash, role, employee_id, is_active, last_login, created_at, updated_at"

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.EmployeeID, &u.IsActive, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFound("user")
	}
	return u, err
}

func (s *Store) FindByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(s.DB.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", strings.ToLower(email)))
}

func (s *Store) GetByID(ctx context.Context, id string) (User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return User{}, apperr.NotFound("user")
	}
	return scanUser(s.DB.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
}

func (s *Store) Create(ctx context.Context, user User) (User, error) {
	out, err := scanUser(s.DB.QueryRow(ctx, `
    INSERT INTO users (email, password_hash, role, employee_id, is_active)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING `+userColumns,
		strings.ToLower(user.Email), user.PasswordHash, user.Role, user.EmployeeID, user.IsActive,
	))
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "employee") {
			return User{}, apperr.Conflict(msgEmployeeLinked)
		}
		return User{}, apperr.Conflict(msgEmailTaken)
	}
	return out, err
}

func (s *Store) EmployeeLinked(ctx context.Context, employeeID string) (bool, error) {
	var linked bool
	err := s.DB.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE employee_id = $1)", employeeID).Scan(&linked)
	return linked, err
}

func (s *Store) UpdateLastLogin(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET last_login = now() WHERE id = $1", id)
	return err
}
