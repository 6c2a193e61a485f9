package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"hrdesk/internal/domain/attendance"
	"hrdesk/internal/domain/audit"
	"hrdesk/internal/domain/auth"
	"hrdesk/internal/domain/core"
	"hrdesk/internal/domain/leave"
	"hrdesk/internal/domain/payroll"
	"hrdesk/internal/domain/reports"
	"hrdesk/internal/platform/config"
	"hrdesk/internal/platform/crypto"
	"hrdesk/internal/platform/db"
	"hrdesk/internal/platform/email"
	"hrdesk/internal/platform/jobs"
	"hrdesk/internal/platform/logging"
	"hrdesk/internal/platform/metrics"
	"hrdesk/internal/transport/http/api"
	attendancehandler "hrdesk/internal/transport/http/handlers/attendance"
	authhandler "hrdesk/internal/transport/http/handlers/auth"
	corehandler "hrdesk/internal/transport/http/handlers/core"
	leavehandler "hrdesk/internal/transport/http/handlers/leave"
	payrollhandler "hrdesk/internal/transport/http/handlers/payroll"
	reportshandler "hrdesk/internal/transport/http/handlers/reports"
	"hrdesk/internal/transport/http/middleware"
)

// Pinger reports database readiness. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services is everything the router needs. Stores are already bound.
type Services struct {
	Auth        *auth.Service
	Core        *core.Service
	Attendance  *attendance.Service
	Leave       *leave.Service
	Payroll     *payroll.Service
	Reports     *reports.Service
	Audit       *audit.Service
	Idempotency middleware.IdempotencyBackend
}

type App struct {
	Config   config.Config
	Build    BuildInfo
	DB       Pinger
	Services Services
	Metrics  *metrics.Collector
	Logger   *slog.Logger
}

func Run(ctx context.Context, build BuildInfo) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(cfg.Environment, cfg.LogLevel)
	slog.SetDefault(logger)

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			return err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			return err
		}
	}

	cipher, err := crypto.New(cfg.DataEncryptionKey)
	if err != nil {
		return err
	}
	if !cipher.Configured() {
		slog.Warn("DATA_ENCRYPTION_KEY not set; bank accounts are stored in plain text")
	}

	jobCtx, stopJobs := context.WithCancel(ctx)
	runner := jobs.New(pool, 0)
	runner.Start(jobCtx)
	defer runner.Wait()
	defer stopJobs()

	coreSvc := core.NewService(core.NewStore(pool))
	leaveSvc := leave.NewService(leave.NewStore(pool), coreSvc)
	leaveSvc.Notifier = &email.LeaveNotifier{Mailer: email.New(cfg), Jobs: runner}
	idempotency := middleware.NewIdempotencyStore(pool)
	auditSvc := audit.New(pool)
	services := Services{
		Auth:        auth.NewService(auth.NewStore(pool), coreSvc, cfg.JWTSecret, cfg.JWTTTL, cfg.AllowSelfSignup),
		Core:        coreSvc,
		Attendance:  attendance.NewService(attendance.NewStore(pool), coreSvc),
		Leave:       leaveSvc,
		Payroll:     payroll.NewService(payroll.NewStore(pool, cipher), coreSvc, cfg.PayslipDir, cipher),
		Reports:     reports.NewService(reports.NewStore(pool), coreSvc.Store),
		Audit:       auditSvc,
		Idempotency: idempotency,
	}
	scheduleHousekeeping(jobCtx, runner, cfg, idempotency, auditSvc)

	app := &App{
		Config:   cfg,
		Build:    build,
		DB:       pool,
		Services: services,
		Metrics:  metrics.New(),
		Logger:   logger,
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("hrdesk server listening", "addr", cfg.Addr, "version", build.Version)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (a *App) Router() http.Handler {
	cfg := a.Config
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(a.Logger, a.Metrics))
	router.Use(chimw.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if a.DB == nil {
			http.Error(w, "db not configured", http.StatusServiceUnavailable)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.DB.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, BuildVersion(a.Build), middleware.GetRequestID(r.Context()))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, a.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	svc := a.Services
	var resolver middleware.PrincipalResolver
	if svc.Auth != nil {
		resolver = svc.Auth
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret, resolver))
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
		r.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))
		r.Use(middleware.Idempotency(svc.Idempotency))

		authhandler.NewHandler(svc.Auth, svc.Core, svc.Audit).RegisterRoutes(r)
		corehandler.NewHandler(svc.Core, svc.Audit).RegisterRoutes(r)
		attendancehandler.NewHandler(svc.Attendance, svc.Audit).RegisterRoutes(r)
		leavehandler.NewHandler(svc.Leave, svc.Audit).RegisterRoutes(r)
		payrollhandler.NewHandler(svc.Payroll, svc.Audit).RegisterRoutes(r)
		reportshandler.NewHandler(svc.Reports).RegisterRoutes(r)

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			api.Fail(w, http.StatusNotFound, "not_found", "route not found", middleware.GetRequestID(r.Context()))
		})
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})
	return router
}

type purger interface {
	Purge(ctx context.Context, before time.Time) (int64, error)
}

// scheduleHousekeeping expires stale idempotency keys and, when a retention
// period is configured, old audit events.
func scheduleHousekeeping(ctx context.Context, runner *jobs.Runner, cfg config.Config, keys, events purger) {
	runner.Every(ctx, jobs.JobIdempotencyPurge, cfg.HousekeepingInterval, purgeJob(keys, func() time.Time {
		return time.Now().Add(-cfg.IdempotencyTTL)
	}))
	if cfg.AuditRetentionDays > 0 {
		runner.Every(ctx, jobs.JobAuditRetention, cfg.HousekeepingInterval, purgeJob(events, func() time.Time {
			return time.Now().AddDate(0, 0, -cfg.AuditRetentionDays)
		}))
	}
}

func purgeJob(target purger, cutoff func() time.Time) jobs.Func {
	return func(ctx context.Context) (any, error) {
		before := cutoff()
		deleted, err := target.Purge(ctx, before)
		return map[string]any{"cutoff": before, "deleted": deleted}, err
	}
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, filepath.Clean("/"+r.URL.Path))
	info, err := os.Stat(path)
	if err == nil && !info.IsDir() {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if err == nil || os.IsNotExist(err) {
		index := filepath.Join(h.staticPath, h.indexPath)
		if _, statErr := os.Stat(index); statErr != nil {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, index)
		return
	}

	http.NotFound(w, r)
}
