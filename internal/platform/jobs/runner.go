// Package jobs runs background work on a single worker goroutine and
// records each run in job_runs when a database is attached.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"hrdesk/internal/platform/querier"
)

const (
	JobIdempotencyPurge = "idempotency_purge"
	JobAuditRetention   = "audit_retention"
	JobLeaveNotice      = "leave_notification"
)

const defaultQueueSize = 128

type Func func(ctx context.Context) (any, error)

type job struct {
	Type string
	Run  Func
}

type Runner struct {
	DB    querier.Querier
	queue chan job
	wg    sync.WaitGroup
}

// New builds a Runner. db may be nil, in which case runs are not recorded.
func New(db querier.Querier, queueSize int) *Runner {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Runner{DB: db, queue: make(chan job, queueSize)}
}

// Start launches the worker. It drains until ctx is cancelled.
func (r *Runner) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.worker(ctx)
	}()
}

// Wait blocks until every goroutine started by Start or Every has returned.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Enqueue schedules run without blocking. It reports false when the queue
// is full and the job was dropped.
func (r *Runner) Enqueue(jobType string, run Func) bool {
	select {
	case r.queue <- job{Type: jobType, Run: run}:
		return true
	default:
		slog.Warn("job queue full", "jobType", jobType)
		return false
	}
}

func (r *Runner) RunNow(ctx context.Context, jobType string, run Func) (any, error) {
	return r.runJob(ctx, job{Type: jobType, Run: run})
}

// Every enqueues run on each tick of interval until ctx is cancelled.
// A non-positive interval disables the schedule.
func (r *Runner) Every(ctx context.Context, jobType string, interval time.Duration, run Func) {
	if interval <= 0 {
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.Enqueue(jobType, run)
			}
		}
	}()
}

func (r *Runner) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-r.queue:
			if _, err := r.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (r *Runner) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if r.DB != nil {
		if err := r.DB.QueryRow(ctx, `
      INSERT INTO job_runs (job_type, status)
      VALUES ($1, $2)
      RETURNING id
    `, j.Type, "running").Scan(&runID); err != nil {
			slog.Warn("job run insert failed", "jobType", j.Type, "err", err)
		}
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	if runID == "" {
		return details, err
	}

	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if _, updErr := r.DB.Exec(ctx, `
    UPDATE job_runs
    SET status = $1, details_json = $2, completed_at = now()
    WHERE id = $3
  `, status, detailsJSON, runID); updErr != nil {
		slog.Warn("job run update failed", "err", updErr)
	}
	return details, err
}
