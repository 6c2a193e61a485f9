package attendance_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdesk/internal/domain/apperr"
	"hrdesk/internal/domain/attendance"
	"hrdesk/internal/domain/core"
	"hrdesk/internal/platform/config"
	"hrdesk/internal/platform/db"
	"hrdesk/internal/testfixtures"
)

func TestPostgresUniqueDayUnderConcurrency(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := db.Connect(ctx, config.Config{DatabaseURL: dbURL})
	require.NoError(t, err)
	defer pool.Close()
	require.NoError(t, db.Migrate(ctx, pool, "../../../migrations"))

	coreStore := core.NewStore(pool)
	emp, err := coreStore.CreateEmployee(ctx, core.Employee{
		FirstName:  "Pg",
		LastName:   "Tester",
		Email:      uuid.NewString() + "@example.com",
		Phone:      "555-0100",
		Department: "CSE",
		Salary:     1000,
		HireDate:   time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC),
		Status:     core.EmployeeActive,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), "DELETE FROM attendance WHERE employee_id = $1", emp.ID)
		_, _ = pool.Exec(context.Background(), "DELETE FROM employees WHERE id = $1", emp.ID)
	})

	svc := attendance.NewService(attendance.NewStore(pool), core.NewService(coreStore))
	admin := testfixtures.Admin()

	const workers = 6
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.Create(ctx, admin, attendance.CreateInput{EmployeeID: emp.ID, Date: "2024-03-04"})
		}()
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, apperr.ErrConflict)
	}
	assert.Equal(t, 1, created)
}
