package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdesk/internal/domain/auth"
	"hrdesk/internal/platform/config"
	"hrdesk/internal/platform/logging"
	"hrdesk/internal/platform/metrics"
	"hrdesk/internal/testfixtures"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type harness struct {
	t      *testing.T
	env    *testfixtures.Env
	server *httptest.Server
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	frontend := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(frontend, "index.html"), []byte("<html>hrdesk</html>"), 0o644))

	env := testfixtures.NewEnv()
	app := &App{
		Config: config.Config{
			JWTSecret:          testfixtures.TokenSecret,
			JWTTTL:             time.Hour,
			Environment:        "test",
			FrontendDir:        frontend,
			MaxBodyBytes:       1 << 20,
			RateLimitPerMinute: 1000,
			MetricsEnabled:     true,
		},
		Build: BuildInfo{Version: "1.2.3", Commit: "abc123"},
		DB:    pingerFunc(func(context.Context) error { return nil }),
		Services: Services{
			Auth:        env.Auth,
			Core:        env.Employees,
			Attendance:  env.Attendance,
			Leave:       env.Leave,
			Payroll:     env.Payroll,
			Reports:     env.Reports,
			Idempotency: testfixtures.NewIdempotencyStore(),
		},
		Metrics: metrics.New(),
		Logger:  logging.NewWithWriter(io.Discard, "test", "error"),
	}
	srv := httptest.NewServer(app.Router())
	t.Cleanup(srv.Close)
	return &harness{t: t, env: env, server: srv}
}

func (h *harness) do(method, path, token string, body any, headers map[string]string) (*http.Response, envelope) {
	h.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, h.server.URL+path, reader)
	require.NoError(h.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	if len(raw) > 0 && resp.Header.Get("Content-Type") == "application/json" {
		require.NoError(h.t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestOperationalEndpoints(t *testing.T) {
	h := newHarness(t)

	resp, err := http.Get(h.server.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, err = http.Get(h.server.URL + "/readyz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := h.do(http.MethodGet, "/version", "", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	info := decodeData[map[string]any](t, body)
	assert.Equal(t, "1.2.3", info["gitVersion"])

	resp, body = h.do(http.MethodGet, "/metrics", "", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decodeData[metrics.Snapshot](t, body)
	assert.GreaterOrEqual(t, snap.RequestsTotal, uint64(3))
}

func TestReadyzReportsDatabaseFailure(t *testing.T) {
	app := &App{
		Config:  config.Config{MaxBodyBytes: 4096, RateLimitPerMinute: 10},
		DB:      pingerFunc(func(context.Context) error { return errors.New("down") }),
		Metrics: metrics.New(),
		Logger:  logging.NewWithWriter(io.Discard, "test", "error"),
	}
	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAPIRequiresAuthentication(t *testing.T) {
	h := newHarness(t)

	resp, body := h.do(http.MethodGet, "/api/v1/employees", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.NotNil(t, body.Error)
	assert.Equal(t, "unauthorized", body.Error.Code)

	resp, _ = h.do(http.MethodGet, "/api/v1/employees", "not-a-token", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = h.do(http.MethodGet, "/api/v1/nothing-here", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", body.Error.Code)
}

func TestSPAFallback(t *testing.T) {
	h := newHarness(t)
	resp, err := http.Get(h.server.URL + "/employees/42")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "hrdesk")
}

type session struct {
	Token string `json:"token"`
	User  struct {
		ID         string  `json:"id"`
		Role       string  `json:"role"`
		EmployeeID *string `json:"employeeId"`
		Employee   *struct {
			FirstName string `json:"firstName"`
		} `json:"employee"`
	} `json:"user"`
}

type leaveView struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employeeId"`
	Status     string `json:"status"`
	Days       int    `json:"days"`
}

func TestLeaveWorkflow(t *testing.T) {
	h := newHarness(t)
	ada := h.env.SeedEmployee(t, "Ada", "Lovelace", "CSE")
	h.env.SeedAccount(t, "admin@example.com", "secret1", auth.RoleAdmin, "")

	resp, body := h.do(http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email": "ada@example.com", "password": "secret1", "employeeId": ada.ID,
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	employee := decodeData[session](t, body)
	require.NotNil(t, employee.User.Employee)
	assert.Equal(t, "Ada", employee.User.Employee.FirstName)

	resp, body = h.do(http.MethodPost, "/api/v1/auth/signin", "", map[string]string{
		"email": "admin@example.com", "password": "secret1",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	admin := decodeData[session](t, body)
	assert.Equal(t, auth.RoleAdmin, admin.User.Role)

	resp, body = h.do(http.MethodGet, "/api/v1/auth/me", employee.Token, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decodeData[struct {
		ID string `json:"id"`
	}](t, body)
	assert.Equal(t, employee.User.ID, me.ID)

	request := map[string]string{
		"leaveType": "Annual Leave", "startDate": "2024-03-10", "endDate": "2024-03-12",
		"reason": "holiday", "status": "approved",
	}
	key := map[string]string{"Idempotency-Key": "leave-1"}
	resp, body = h.do(http.MethodPost, "/api/v1/leaves", employee.Token, request, key)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	filed := decodeData[leaveView](t, body)
	assert.Equal(t, "pending", filed.Status)
	assert.Equal(t, ada.ID, filed.EmployeeID)
	assert.Equal(t, 3, filed.Days)

	resp, body = h.do(http.MethodPost, "/api/v1/leaves", employee.Token, request, key)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "true", resp.Header.Get("Idempotent-Replayed"))
	assert.Equal(t, filed.ID, decodeData[leaveView](t, body).ID)

	request["reason"] = "something else"
	resp, body = h.do(http.MethodPost, "/api/v1/leaves", employee.Token, request, key)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "idempotency_conflict", body.Error.Code)

	resp, body = h.do(http.MethodPost, "/api/v1/leaves/"+filed.ID+"/status", employee.Token, map[string]string{"status": "approved"}, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "forbidden-role", body.Error.Details["reason"])

	resp, body = h.do(http.MethodPost, "/api/v1/leaves/"+filed.ID+"/status", admin.Token, map[string]string{"status": "approved"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "approved", decodeData[leaveView](t, body).Status)

	resp, body = h.do(http.MethodPut, "/api/v1/leaves/"+filed.ID, employee.Token, map[string]string{"reason": "late change"}, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "invalid-status-for-operation", body.Error.Details["reason"])

	resp, body = h.do(http.MethodGet, "/api/v1/dashboard", employee.Token, nil, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "forbidden", body.Error.Code)

	resp, body = h.do(http.MethodGet, "/api/v1/dashboard", admin.Token, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	dash := decodeData[map[string]any](t, body)
	assert.EqualValues(t, 0, dash["pendingLeaves"])
}

func TestValidationErrorsCarryFieldDetails(t *testing.T) {
	h := newHarness(t)
	h.env.SeedAccount(t, "admin@example.com", "secret1", auth.RoleAdmin, "")
	_, body := h.do(http.MethodPost, "/api/v1/auth/signin", "", map[string]string{
		"email": "admin@example.com", "password": "secret1",
	}, nil)
	admin := decodeData[session](t, body)

	resp, body := h.do(http.MethodPost, "/api/v1/attendance", admin.Token, map[string]string{"date": "yesterday"}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation_error", body.Error.Code)
	fields, ok := body.Error.Details["fields"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, fields)

	resp, body = h.do(http.MethodGet, "/api/v1/employees/not-a-uuid", admin.Token, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", body.Error.Code)
}

type fakePurger struct {
	before time.Time
	n      int64
}

func (f *fakePurger) Purge(_ context.Context, before time.Time) (int64, error) {
	f.before = before
	return f.n, nil
}

func TestPurgeJobReportsCutoff(t *testing.T) {
	target := &fakePurger{n: 7}
	cutoff := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	details, err := purgeJob(target, func() time.Time { return cutoff })(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cutoff, target.before)
	assert.Equal(t, map[string]any{"cutoff": cutoff, "deleted": int64(7)}, details)
}
