package leave

import (
	"context"
	"strings"
	"time"

	"hrdesk/internal/domain/apperr"
	"hrdesk/internal/domain/auth"
	"hrdesk/internal/domain/listing"
)

type Service struct {
	Store     StoreAPI
	Employees EmployeeDirectory
	Notifier  Notifier
	Now       func() time.Time
}

func NewService(store StoreAPI, employees EmployeeDirectory) *Service {
	return &Service{Store: store, Employees: employees, Now: time.Now}
}

func (s *Service) List(ctx context.Context, p auth.Principal, filter Filter, page listing.Page) (listing.Result[Leave], error) {
	decision := auth.Decide(auth.Request{Principal: p, Record: auth.RecordLeave, Operation: auth.OpList})
	if err := decision.Err(); err != nil {
		return listing.Result[Leave]{}, err
	}
	if decision.Scope.EmployeeID != "" {
		filter.EmployeeID = decision.Scope.EmployeeID
	}
	if !decision.Scope.AllowSearch {
		filter.Search = ""
	}
	items, total, err := s.Store.List(ctx, filter, page)
	if err != nil {
		return listing.Result[Leave]{}, err
	}
	return listing.NewResult(items, total, page), nil
}

func (s *Service) Get(ctx context.Context, p auth.Principal, id string) (Leave, error) {
	rec, err := s.Store.Get(ctx, id)
	if err != nil {
		return Leave{}, err
	}
	if err := s.decide(p, auth.OpRead, rec, "").Err(); err != nil {
		return Leave{}, err
	}
	return rec, nil
}

// Create files a leave request. For employee principals the owner and the
// initial status come from the policy, not the payload.
func (s *Service) Create(ctx context.Context, p auth.Principal, in CreateInput) (Leave, error) {
	decision := auth.Decide(auth.Request{Principal: p, Record: auth.RecordLeave, Operation: auth.OpCreate})
	if err := decision.Err(); err != nil {
		return Leave{}, err
	}
	if decision.Scope.EmployeeID != "" {
		in.EmployeeID = decision.Scope.EmployeeID
	}

	v := apperr.NewValidator()
	if v.Required("employeeId", in.EmployeeID, "employee id is required") {
		v.UUID("employeeId", in.EmployeeID)
	}
	if v.Required("leaveType", in.LeaveType, "leave type is required") {
		v.Enum("leaveType", in.LeaveType, Types, reasonType)
	}
	var rec Leave
	if v.Required("startDate", in.StartDate, "start date is required") {
		rec.StartDate, _ = v.Date("startDate", in.StartDate)
	}
	if v.Required("endDate", in.EndDate, "end date is required") {
		rec.EndDate, _ = v.Date("endDate", in.EndDate)
	}
	v.DateOrder("startDate", rec.StartDate, "endDate", rec.EndDate)
	v.Required("reason", in.Reason, "reason is required")
	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = StatusPending
	}
	v.Enum("status", status, Statuses, reasonStatus)
	if err := v.Err(); err != nil {
		return Leave{}, err
	}
	if decision.ForcedStatus != "" {
		status = decision.ForcedStatus
	}

	snap, err := s.Employees.Snapshot(ctx, in.EmployeeID)
	if err != nil {
		return Leave{}, err
	}
	rec.EmployeeID = snap.EmployeeID
	rec.EmployeeName = snap.EmployeeName
	rec.Department = snap.Department
	rec.LeaveType = in.LeaveType
	rec.Days = ComputeDays(rec.StartDate, rec.EndDate)
	rec.Reason = strings.TrimSpace(in.Reason)
	rec.Status = status
	rec.AppliedDate = s.now()
	return s.Store.Create(ctx, rec)
}

func (s *Service) Update(ctx context.Context, p auth.Principal, id string, in UpdateInput) (Leave, error) {
	rec, err := s.Store.Get(ctx, id)
	if err != nil {
		return Leave{}, err
	}
	newStatus := ""
	if in.Status.HasValue() {
		newStatus = strings.TrimSpace(in.Status.Value)
	}
	decision := s.decide(p, auth.OpUpdate, rec, newStatus)
	if err := decision.Err(); err != nil {
		return Leave{}, err
	}
	for field, member := range map[string]bool{
		"leaveType": in.LeaveType.Set,
		"startDate": in.StartDate.Set,
		"endDate":   in.EndDate.Set,
		"reason":    in.Reason.Set,
		"status":    in.Status.Set,
	} {
		if member && !decision.FieldAllowed(field) {
			return Leave{}, auth.Decision{Reason: auth.DenyForbiddenRole}.Err()
		}
	}

	previous := rec.Status
	v := apperr.NewValidator()
	if apperr.Apply(v, "leaveType", in.LeaveType, &rec.LeaveType, true) {
		v.Enum("leaveType", rec.LeaveType, Types, reasonType)
		v.Required("leaveType", rec.LeaveType, "leave type is required")
	}
	datesChanged := false
	var raw string
	if apperr.Apply(v, "startDate", in.StartDate, &raw, true) {
		if parsed, ok := v.Date("startDate", raw); ok {
			rec.StartDate = parsed
			datesChanged = true
		}
	}
	if apperr.Apply(v, "endDate", in.EndDate, &raw, true) {
		if parsed, ok := v.Date("endDate", raw); ok {
			rec.EndDate = parsed
			datesChanged = true
		}
	}
	if datesChanged {
		v.DateOrder("startDate", rec.StartDate, "endDate", rec.EndDate)
	}
	if apperr.Apply(v, "reason", in.Reason, &rec.Reason, true) {
		rec.Reason = strings.TrimSpace(rec.Reason)
		v.Required("reason", rec.Reason, "reason is required")
	}
	if apperr.Apply(v, "status", in.Status, &rec.Status, true) {
		rec.Status = strings.TrimSpace(rec.Status)
		v.Required("status", rec.Status, "status is required")
		v.Enum("status", rec.Status, Statuses, reasonStatus)
	}
	if err := v.Err(); err != nil {
		return Leave{}, err
	}
	if datesChanged {
		rec.Days = ComputeDays(rec.StartDate, rec.EndDate)
	}
	out, err := s.Store.Update(ctx, rec)
	if err != nil {
		return Leave{}, err
	}
	if previous != out.Status {
		s.notify(ctx, out)
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, p auth.Principal, id string) (Leave, error) {
	rec, err := s.Store.Get(ctx, id)
	if err != nil {
		return Leave{}, err
	}
	if err := s.decide(p, auth.OpDelete, rec, "").Err(); err != nil {
		return Leave{}, err
	}
	if err := s.Store.Delete(ctx, id); err != nil {
		return Leave{}, err
	}
	return rec, nil
}

// TransitionStatus sets any enum status on any leave. No transition table
// is enforced; only who may write is restricted.
func (s *Service) TransitionStatus(ctx context.Context, p auth.Principal, id, status string) (Leave, error) {
	rec, err := s.Store.Get(ctx, id)
	if err != nil {
		return Leave{}, err
	}
	status = strings.TrimSpace(status)
	if err := s.decide(p, auth.OpTransition, rec, status).Err(); err != nil {
		return Leave{}, err
	}
	v := apperr.NewValidator()
	if v.Required("status", status, "status is required") {
		v.Enum("status", status, Statuses, reasonStatus)
	}
	if err := v.Err(); err != nil {
		return Leave{}, err
	}
	previous := rec.Status
	rec.Status = status
	out, err := s.Store.Update(ctx, rec)
	if err != nil {
		return Leave{}, err
	}
	if previous != status {
		s.notify(ctx, out)
	}
	return out, nil
}

func (s *Service) notify(ctx context.Context, rec Leave) {
	if s.Notifier == nil {
		return
	}
	snap, err := s.Employees.Snapshot(ctx, rec.EmployeeID)
	if err != nil || snap.Email == "" {
		return
	}
	s.Notifier.LeaveDecided(ctx, rec, snap.Email)
}

func (s *Service) decide(p auth.Principal, op auth.Operation, rec Leave, newStatus string) auth.Decision {
	return auth.Decide(auth.Request{
		Principal:     p,
		Record:        auth.RecordLeave,
		Operation:     op,
		OwnerID:       rec.EmployeeID,
		CurrentStatus: rec.Status,
		NewStatus:     newStatus,
	})
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}
