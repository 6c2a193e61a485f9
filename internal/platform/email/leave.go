package email

import (
	"context"
	"fmt"
	"log/slog"

	"hrdesk/internal/domain/leave"
	"hrdesk/internal/platform/jobs"
)

// Enqueuer is satisfied by *jobs.Runner.
type Enqueuer interface {
	Enqueue(jobType string, run jobs.Func) bool
}

// LeaveNotifier mails the employee when a leave request changes status.
// Delivery goes through Jobs when set so the request path never waits on
// SMTP; without Jobs it sends inline and only logs failures.
type LeaveNotifier struct {
	Mailer Mailer
	Jobs   Enqueuer
}

func (n *LeaveNotifier) LeaveDecided(ctx context.Context, rec leave.Leave, to string) {
	subject, body := leaveMessage(rec)
	send := func(ctx context.Context) (any, error) {
		return map[string]string{"leaveId": rec.ID, "status": rec.Status}, n.Mailer.Send(ctx, to, subject, body)
	}
	if n.Jobs != nil {
		n.Jobs.Enqueue(jobs.JobLeaveNotice, send)
		return
	}
	if _, err := send(ctx); err != nil {
		slog.Warn("leave notification failed", "leaveId", rec.ID, "err", err)
	}
}

func leaveMessage(rec leave.Leave) (string, string) {
	subject := fmt.Sprintf("Your %s request is %s", rec.LeaveType, rec.Status)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour %s request for %s to %s (%d day(s)) is now %s.\n",
		rec.EmployeeName,
		rec.LeaveType,
		rec.StartDate.Format("2006-01-02"),
		rec.EndDate.Format("2006-01-02"),
		rec.Days,
		rec.Status,
	)
	return subject, body
}
