package attendance

import (
	"context"
	"strings"

	"hrdesk/internal/domain/apperr"
	"hrdesk/internal/domain/auth"
	"hrdesk/internal/domain/listing"
)

type Service struct {
	Store     StoreAPI
	Employees EmployeeDirectory
}

func NewService(store StoreAPI, employees EmployeeDirectory) *Service {
	return &Service{Store: store, Employees: employees}
}

func (s *Service) List(ctx context.Context, p auth.Principal, filter Filter, page listing.Page) (listing.Result[Attendance], error) {
	decision := auth.Decide(auth.Request{Principal: p, Record: auth.RecordAttendance, Operation: auth.OpList})
	if err := decision.Err(); err != nil {
		return listing.Result[Attendance]{}, err
	}
	if decision.Scope.EmployeeID != "" {
		filter.EmployeeID = decision.Scope.EmployeeID
	}
	if !decision.Scope.AllowSearch {
		filter.Search = ""
	}
	items, total, err := s.Store.List(ctx, filter, page)
	if err != nil {
		return listing.Result[Attendance]{}, err
	}
	return listing.NewResult(items, total, page), nil
}

func (s *Service) Get(ctx context.Context, p auth.Principal, id string) (Attendance, error) {
	rec, err := s.Store.Get(ctx, id)
	if err != nil {
		return Attendance{}, err
	}
	if err := s.decide(p, auth.OpRead, rec).Err(); err != nil {
		return Attendance{}, err
	}
	return rec, nil
}

func (s *Service) Create(ctx context.Context, p auth.Principal, in CreateInput) (Attendance, error) {
	if err := auth.Decide(auth.Request{Principal: p, Record: auth.RecordAttendance, Operation: auth.OpCreate}).Err(); err != nil {
		return Attendance{}, err
	}

	v := apperr.NewValidator()
	if v.Required("employeeId", in.EmployeeID, "employee id is required") {
		v.UUID("employeeId", in.EmployeeID)
	}
	var rec Attendance
	if v.Required("date", in.Date, "date is required") {
		rec.Date, _ = v.Date("date", in.Date)
	}
	checkIn := clock(v, "checkIn", in.CheckIn)
	checkOut := clock(v, "checkOut", in.CheckOut)
	rec.Status = StatusPresent
	if strings.TrimSpace(in.Status) != "" {
		rec.Status = strings.TrimSpace(in.Status)
	}
	v.Enum("status", rec.Status, Statuses, "must be one of present, absent, late, halfDay")
	if err := v.Err(); err != nil {
		return Attendance{}, err
	}

	snap, err := s.Employees.Snapshot(ctx, in.EmployeeID)
	if err != nil {
		return Attendance{}, err
	}
	exists, err := s.Store.ExistsForDay(ctx, snap.EmployeeID, rec.Date)
	if err != nil {
		return Attendance{}, err
	}
	if exists {
		return Attendance{}, apperr.Conflict(msgDuplicate)
	}

	rec.EmployeeID = snap.EmployeeID
	rec.EmployeeName = snap.EmployeeName
	rec.Department = snap.Department
	rec.CheckIn = clockString(checkIn)
	rec.CheckOut = clockString(checkOut)
	rec.Hours = ComputeHours(checkIn, checkOut)
	rec.Notes = in.Notes
	return s.Store.Create(ctx, rec)
}

func (s *Service) Update(ctx context.Context, p auth.Principal, id string, in UpdateInput) (Attendance, error) {
	rec, err := s.Store.Get(ctx, id)
	if err != nil {
		return Attendance{}, err
	}
	if err := s.decide(p, auth.OpUpdate, rec).Err(); err != nil {
		return Attendance{}, err
	}

	v := apperr.NewValidator()
	var date string
	if apperr.Apply(v, "date", in.Date, &date, true) {
		if parsed, ok := v.Date("date", date); ok {
			rec.Date = parsed
		}
	}
	checkIn := storedClock(rec.CheckIn)
	checkOut := storedClock(rec.CheckOut)
	if in.CheckIn.Set {
		checkIn = clock(v, "checkIn", in.CheckIn.Value)
	}
	if in.CheckOut.Set {
		checkOut = clock(v, "checkOut", in.CheckOut.Value)
	}
	if apperr.Apply(v, "status", in.Status, &rec.Status, true) {
		v.Required("status", rec.Status, "status is required")
		v.Enum("status", rec.Status, Statuses, "must be one of present, absent, late, halfDay")
	}
	apperr.Apply(v, "notes", in.Notes, &rec.Notes, false)
	if err := v.Err(); err != nil {
		return Attendance{}, err
	}

	rec.CheckIn = clockString(checkIn)
	rec.CheckOut = clockString(checkOut)
	rec.Hours = ComputeHours(checkIn, checkOut)
	return s.Store.Update(ctx, rec)
}

func (s *Service) Delete(ctx context.Context, p auth.Principal, id string) (Attendance, error) {
	rec, err := s.Store.Get(ctx, id)
	if err != nil {
		return Attendance{}, err
	}
	if err := s.decide(p, auth.OpDelete, rec).Err(); err != nil {
		return Attendance{}, err
	}
	if err := s.Store.Delete(ctx, id); err != nil {
		return Attendance{}, err
	}
	return rec, nil
}

func (s *Service) decide(p auth.Principal, op auth.Operation, rec Attendance) auth.Decision {
	return auth.Decide(auth.Request{
		Principal:     p,
		Record:        auth.RecordAttendance,
		Operation:     op,
		OwnerID:       rec.EmployeeID,
		CurrentStatus: rec.Status,
	})
}

// clock parses an optional time of day. Blank input means "not recorded".
func clock(v *apperr.Validator, field, raw string) *TimeOfDay {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parsed, err := ParseTimeOfDay(raw)
	if err != nil {
		v.Add(field, "must be a time in HH:MM format")
		return nil
	}
	return &parsed
}

func storedClock(value *string) *TimeOfDay {
	if value == nil {
		return nil
	}
	parsed, err := ParseTimeOfDay(*value)
	if err != nil {
		return nil
	}
	return &parsed
}

func clockString(t *TimeOfDay) *string {
	if t == nil {
		return nil
	}
	value := t.String()
	return &value
}
