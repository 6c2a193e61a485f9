package audit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestNilServiceRecordsNothing(t *testing.T) {
	var svc *Service
	if err := svc.Record(context.Background(), "u", "leave.create", "leave", "id", "req", "127.0.0.1", nil, map[string]string{"a": "b"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestMarshalOptional(t *testing.T) {
	raw, err := marshalOptional(nil)
	if err != nil || raw != nil {
		t.Fatalf("expected nil payload, got %q %v", raw, err)
	}
	raw, err = marshalOptional(map[string]int{"days": 3})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"days":3}` {
		t.Fatalf("unexpected payload %s", raw)
	}
}

type execRecorder struct {
	sql  []string
	args [][]any
	tag  string
}

func (e *execRecorder) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	e.sql = append(e.sql, sql)
	e.args = append(e.args, args)
	return pgconn.NewCommandTag(e.tag), nil
}

func (e *execRecorder) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}

func (e *execRecorder) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func TestWriteInsertsEvent(t *testing.T) {
	db := &execRecorder{tag: "INSERT 0 1"}
	svc := New(db)
	err := svc.Record(context.Background(), "", "auth.signup", "user", "u-1", "req-1", "10.0.0.1", nil, map[string]string{"email": "a@b.c"})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(db.sql) != 1 || !strings.Contains(db.sql[0], "INSERT INTO audit_events") {
		t.Fatalf("unexpected statements %v", db.sql)
	}
	args := db.args[0]
	if args[0] != "" || args[1] != "auth.signup" || args[6] != "req-1" {
		t.Fatalf("unexpected args %v", args)
	}
	if before, _ := args[4].([]byte); before != nil {
		t.Fatalf("expected nil before payload, got %s", before)
	}
}

func TestPurgeReportsDeletedRows(t *testing.T) {
	db := &execRecorder{tag: "DELETE 4"}
	cutoff := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	n, err := New(db).Purge(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4 rows, got %d", n)
	}
	if db.args[0][0] != cutoff {
		t.Fatalf("unexpected cutoff %v", db.args[0][0])
	}
}
