package email

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdesk/internal/domain/leave"
	"hrdesk/internal/platform/config"
	"hrdesk/internal/platform/jobs"
)

type sent struct {
	to, subject, body string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sent
	err  error
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sent{to: to, subject: subject, body: body})
	return m.err
}

type queue struct {
	types []string
	runs  []jobs.Func
}

func (q *queue) Enqueue(jobType string, run jobs.Func) bool {
	q.types = append(q.types, jobType)
	q.runs = append(q.runs, run)
	return true
}

func sampleLeave() leave.Leave {
	return leave.Leave{
		ID:           "l-1",
		EmployeeName: "Ada Lovelace",
		LeaveType:    "Annual Leave",
		StartDate:    time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC),
		Days:         3,
		Status:       leave.StatusApproved,
	}
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("hr@example.com", "ada@example.com", "Hi", "Body"))
	assert.True(t, strings.HasPrefix(msg, "From: hr@example.com\r\nTo: ada@example.com\r\nSubject: Hi\r\n"))
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\nBody"))
}

func TestNewFallsBackToNoop(t *testing.T) {
	_, ok := New(config.Config{EmailEnabled: true}).(noopMailer)
	assert.True(t, ok)
	_, ok = New(config.Config{SMTPHost: "smtp.example.com"}).(noopMailer)
	assert.True(t, ok)
	_, ok = New(config.Config{EmailEnabled: true, SMTPHost: "smtp.example.com"}).(*smtpMailer)
	assert.True(t, ok)
}

func TestLeaveNotifierSendsInline(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("smtp down")}
	n := &LeaveNotifier{Mailer: mailer}
	n.LeaveDecided(context.Background(), sampleLeave(), "ada@example.com")

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "ada@example.com", mailer.sent[0].to)
	assert.Equal(t, "Your Annual Leave request is approved", mailer.sent[0].subject)
	assert.Contains(t, mailer.sent[0].body, "2024-03-10 to 2024-03-12 (3 day(s))")
}

func TestLeaveNotifierEnqueues(t *testing.T) {
	mailer := &recordingMailer{}
	q := &queue{}
	n := &LeaveNotifier{Mailer: mailer, Jobs: q}
	n.LeaveDecided(context.Background(), sampleLeave(), "ada@example.com")

	require.Equal(t, []string{jobs.JobLeaveNotice}, q.types)
	assert.Empty(t, mailer.sent)

	details, err := q.runs[0](context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"leaveId": "l-1", "status": "approved"}, details)
	assert.Len(t, mailer.sent, 1)
}
