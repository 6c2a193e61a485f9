package metrics

import (
	"net/http"
	"sync/atomic"
	"time"
)

// Collector keeps process-wide request counters. The zero value is ready to
// use and a nil *Collector ignores every call.
type Collector struct {
	startedAt       time.Time
	totalRequests   atomic.Uint64
	clientErrors    atomic.Uint64
	serverErrors    atomic.Uint64
	denied          atomic.Uint64
	conflicts       atomic.Uint64
	rateLimited     atomic.Uint64
	totalDurationMs atomic.Uint64
}

type Snapshot struct {
	UptimeSeconds    int64   `json:"uptimeSeconds"`
	RequestsTotal    uint64  `json:"requestsTotal"`
	ClientErrors     uint64  `json:"clientErrorsTotal"`
	ErrorsTotal      uint64  `json:"errorsTotal"`
	DeniedTotal      uint64  `json:"deniedTotal"`
	ConflictsTotal   uint64  `json:"conflictsTotal"`
	RateLimitedTotal uint64  `json:"rateLimitedTotal"`
	AvgDurationMs    float64 `json:"avgDurationMs"`
	TotalDurationMs  uint64  `json:"totalDurationMs"`
}

func New() *Collector {
	return &Collector{startedAt: time.Now()}
}

func (c *Collector) Record(status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.totalRequests.Add(1)
	switch {
	case status >= 500:
		c.serverErrors.Add(1)
	case status >= 400:
		c.clientErrors.Add(1)
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		c.denied.Add(1)
	case http.StatusConflict:
		c.conflicts.Add(1)
	case http.StatusTooManyRequests:
		c.rateLimited.Add(1)
	}
	if ms := duration.Milliseconds(); ms > 0 {
		c.totalDurationMs.Add(uint64(ms))
	}
}

func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	total := c.totalRequests.Load()
	totalMs := c.totalDurationMs.Load()
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	var uptime int64
	if !c.startedAt.IsZero() {
		uptime = int64(time.Since(c.startedAt).Seconds())
	}
	return Snapshot{
		UptimeSeconds:    uptime,
		RequestsTotal:    total,
		ClientErrors:     c.clientErrors.Load(),
		ErrorsTotal:      c.serverErrors.Load(),
		DeniedTotal:      c.denied.Load(),
		ConflictsTotal:   c.conflicts.Load(),
		RateLimitedTotal: c.rateLimited.Load(),
		AvgDurationMs:    avg,
		TotalDurationMs:  totalMs,
	}
}
