package db

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

	"hrdesk/internal/domain/auth"
	"hrdesk/internal/domain/core"
	"hrdesk/internal/platform/config"
	"hrdesk/internal/platform/querier"
)

// Seed creates the bootstrap admin account and the default department set.
// It is safe to run on every start.
func Seed(ctx context.Context, db querier.Querier, cfg config.Config) error {
	if err := ensureDepartments(ctx, db, core.DepartmentCodes); err != nil {
		return err
	}
	created, err := ensureAdminUser(ctx, db, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	if err != nil {
		return err
	}
	if created {
		slog.Info("seeded admin user", "email", strings.ToLower(cfg.SeedAdminEmail))
	}
	return nil
}

func ensureDepartments(ctx context.Context, db querier.Querier, names []string) error {
	for _, name := range names {
		_, err := db.Exec(ctx, `
      INSERT INTO departments (name, description, status)
      VALUES ($1, $2, $3)
      ON CONFLICT (name) DO NOTHING
    `, name, name+" department", core.DepartmentActive)
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureAdminUser(ctx context.Context, db querier.Querier, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return false, nil
	}

	var id string
	err := db.QueryRow(ctx, "SELECT id FROM users WHERE lower(email) = $1", email).Scan(&id)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}

	_, err = db.Exec(ctx, "INSERT INTO users (email, password_hash, role, is_active) VALUES ($1, $2, $3, true)", email, hash, auth.RoleAdmin)
	if err != nil {
		return false, err
	}
	return true, nil
}
