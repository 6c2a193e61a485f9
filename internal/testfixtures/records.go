package testfixtures

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hrdesk/internal/domain/apperr"
	"hrdesk/internal/domain/attendance"
	"hrdesk/internal/domain/leave"
	"hrdesk/internal/domain/listing"
	"hrdesk/internal/domain/payroll"
)

// AttendanceStore enforces one record per employee and day inside its lock,
// the way the UNIQUE constraint does for concurrent inserts.
type AttendanceStore struct {
	mu      sync.Mutex
	clock   *Clock
	records map[string]attendance.Attendance
}

func NewAttendanceStore(clock *Clock) *AttendanceStore {
	return &AttendanceStore{clock: clock, records: map[string]attendance.Attendance{}}
}

func (s *AttendanceStore) List(_ context.Context, filter attendance.Filter, page listing.Page) ([]attendance.Attendance, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	search := strings.TrimSpace(filter.Search)
	var matched []attendance.Attendance
	for _, rec := range s.records {
		if filter.EmployeeID != "" && rec.EmployeeID != filter.EmployeeID {
			continue
		}
		if search != "" && !containsFold(rec.EmployeeName, search) && !containsFold(rec.Department, search) {
			continue
		}
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		if filter.Date != nil && !rec.Date.Equal(apperr.Day(*filter.Date)) {
			continue
		}
		matched = append(matched, rec)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, page), len(matched), nil
}

func (s *AttendanceStore) Get(_ context.Context, id string) (attendance.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return attendance.Attendance{}, apperr.NotFound("attendance record")
	}
	return rec, nil
}

func (s *AttendanceStore) ExistsForDay(_ context.Context, employeeID string, day time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.taken(employeeID, day, ""), nil
}

func (s *AttendanceStore) Create(_ context.Context, rec attendance.Attendance) (attendance.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.taken(rec.EmployeeID, rec.Date, "") {
		return attendance.Attendance{}, apperr.Conflict("Attendance record already exists for this employee and date")
	}
	now := s.clock.Tick()
	rec.ID = uuid.NewString()
	rec.Date = apperr.Day(rec.Date)
	rec.CreatedAt = now
	rec.UpdatedAt = now
	s.records[rec.ID] = rec
	return rec, nil
}

func (s *AttendanceStore) Update(_ context.Context, rec attendance.Attendance) (attendance.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.records[rec.ID]
	if !ok {
		return attendance.Attendance{}, apperr.NotFound("attendance record")
	}
	if s.taken(rec.EmployeeID, rec.Date, rec.ID) {
		return attendance.Attendance{}, apperr.Conflict("Attendance record already exists for this employee and date")
	}
	rec.Date = apperr.Day(rec.Date)
	rec.CreatedAt = prev.CreatedAt
	rec.UpdatedAt = s.clock.Tick()
	s.records[rec.ID] = rec
	return rec, nil
}

func (s *AttendanceStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return apperr.NotFound("attendance record")
	}
	delete(s.records, id)
	return nil
}

// DayCounts reports present-like and total records on day.
func (s *AttendanceStore) DayCounts(day time.Time) (present, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	day = apperr.Day(day)
	for _, rec := range s.records {
		if !rec.Date.Equal(day) {
			continue
		}
		total++
		switch rec.Status {
		case attendance.StatusPresent, attendance.StatusLate, attendance.StatusHalfDay:
			present++
		}
	}
	return present, total
}

func (s *AttendanceStore) taken(employeeID string, day time.Time, exceptID string) bool {
	day = apperr.Day(day)
	for id, rec := range s.records {
		if id != exceptID && rec.EmployeeID == employeeID && rec.Date.Equal(day) {
			return true
		}
	}
	return false
}

type LeaveStore struct {
	mu      sync.Mutex
	clock   *Clock
	records map[string]leave.Leave
}

func NewLeaveStore(clock *Clock) *LeaveStore {
	return &LeaveStore{clock: clock, records: map[string]leave.Leave{}}
}

func (s *LeaveStore) List(_ context.Context, filter leave.Filter, page listing.Page) ([]leave.Leave, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	search := strings.TrimSpace(filter.Search)
	var matched []leave.Leave
	for _, rec := range s.records {
		if filter.EmployeeID != "" && rec.EmployeeID != filter.EmployeeID {
			continue
		}
		if search != "" && !containsFold(rec.EmployeeName, search) && !containsFold(rec.Department, search) {
			continue
		}
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		if filter.LeaveType != "" && rec.LeaveType != filter.LeaveType {
			continue
		}
		matched = append(matched, rec)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].StartDate.Equal(matched[j].StartDate) {
			return matched[i].StartDate.After(matched[j].StartDate)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, page), len(matched), nil
}

func (s *LeaveStore) Get(_ context.Context, id string) (leave.Leave, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return leave.Leave{}, apperr.NotFound("leave request")
	}
	return rec, nil
}

func (s *LeaveStore) Create(_ context.Context, rec leave.Leave) (leave.Leave, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Tick()
	rec.ID = uuid.NewString()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	s.records[rec.ID] = rec
	return rec, nil
}

func (s *LeaveStore) Update(_ context.Context, rec leave.Leave) (leave.Leave, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.records[rec.ID]
	if !ok {
		return leave.Leave{}, apperr.NotFound("leave request")
	}
	rec.CreatedAt = prev.CreatedAt
	rec.UpdatedAt = s.clock.Tick()
	s.records[rec.ID] = rec
	return rec, nil
}

func (s *LeaveStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return apperr.NotFound("leave request")
	}
	delete(s.records, id)
	return nil
}

func (s *LeaveStore) CountStatus(status string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, rec := range s.records {
		if rec.Status == status {
			n++
		}
	}
	return n
}

type PayrollStore struct {
	mu      sync.Mutex
	clock   *Clock
	records map[string]payroll.Payroll
}

func NewPayrollStore(clock *Clock) *PayrollStore {
	return &PayrollStore{clock: clock, records: map[string]payroll.Payroll{}}
}

func (s *PayrollStore) List(_ context.Context, filter payroll.Filter, page listing.Page) ([]payroll.Payroll, int, error) {
	var from, to time.Time
	if filter.Month != "" {
		var err error
		if from, to, err = payroll.MonthRange(filter.Month); err != nil {
			return nil, 0, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	search := strings.TrimSpace(filter.Search)
	var matched []payroll.Payroll
	for _, rec := range s.records {
		if search != "" && !containsFold(rec.EmployeeName, search) && !containsFold(rec.Department, search) {
			continue
		}
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		if filter.Month != "" && (rec.PayDate.Before(from) || !rec.PayDate.Before(to)) {
			continue
		}
		matched = append(matched, rec)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].PayDate.Equal(matched[j].PayDate) {
			return matched[i].PayDate.After(matched[j].PayDate)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, page), len(matched), nil
}

func (s *PayrollStore) Get(_ context.Context, id string) (payroll.Payroll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return payroll.Payroll{}, apperr.NotFound("payroll record")
	}
	return rec, nil
}

func (s *PayrollStore) Create(_ context.Context, rec payroll.Payroll) (payroll.Payroll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Tick()
	rec.ID = uuid.NewString()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	s.records[rec.ID] = rec
	return rec, nil
}

func (s *PayrollStore) Update(_ context.Context, rec payroll.Payroll) (payroll.Payroll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.records[rec.ID]
	if !ok {
		return payroll.Payroll{}, apperr.NotFound("payroll record")
	}
	rec.CreatedAt = prev.CreatedAt
	rec.UpdatedAt = s.clock.Tick()
	s.records[rec.ID] = rec
	return rec, nil
}

func (s *PayrollStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return apperr.NotFound("payroll record")
	}
	delete(s.records, id)
	return nil
}

// Between sums net salary over pay dates in [from, to).
func (s *PayrollStore) Between(from, to time.Time) (int, decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	net := decimal.Zero
	for _, rec := range s.records {
		if rec.PayDate.Before(from) || !rec.PayDate.Before(to) {
			continue
		}
		n++
		net = net.Add(decimal.NewFromFloat(rec.NetSalary))
	}
	return n, net
}

// ReportsStore answers dashboard aggregates from the other in-memory stores.
type ReportsStore struct {
	Attendance *AttendanceStore
	Leaves     *LeaveStore
	Payroll    *PayrollStore
}

func (s *ReportsStore) AttendanceOn(_ context.Context, day time.Time) (int, int, error) {
	present, total := s.Attendance.DayCounts(day)
	return present, total, nil
}

func (s *ReportsStore) PendingLeaves(_ context.Context) (int, error) {
	return s.Leaves.CountStatus(leave.StatusPending), nil
}

func (s *ReportsStore) PayrollBetween(_ context.Context, from, to time.Time) (int, decimal.Decimal, error) {
	n, net := s.Payroll.Between(from, to)
	return n, net, nil
}
