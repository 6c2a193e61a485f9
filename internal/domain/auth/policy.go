package auth

import "hrdesk/internal/domain/apperr"

type RecordType string

const (
	RecordAttendance RecordType = "attendance"
	RecordLeave      RecordType = "leave"
	RecordPayroll    RecordType = "payroll"
	RecordEmployee   RecordType = "employee"
	RecordDepartment RecordType = "department"
	RecordReport     RecordType = "report"
)

type Operation string

const (
	OpList       Operation = "list"
	OpRead       Operation = "read"
	OpCreate     Operation = "create"
	OpUpdate     Operation = "update"
	OpDelete     Operation = "delete"
	OpTransition Operation = "transition-status"
)

type DenyReason string

const (
	DenyForbiddenRole DenyReason = "forbidden-role"
	DenyNotOwner      DenyReason = "not-owner"
	DenyInvalidStatus DenyReason = "invalid-status-for-operation"
)

func (r DenyReason) Message() string {
	switch r {
	case DenyNotOwner:
		return "Access denied. You can only access your own records."
	case DenyInvalidStatus:
		return "You can only modify pending leave requests."
	default:
		return "Access denied. Insufficient permissions."
	}
}

// pendingStatus mirrors leave.StatusPending; leave depends on this package.
const pendingStatus = "pending"

// Fields an employee may touch on their own pending leave request.
var employeeLeaveFields = []string{"leaveType", "startDate", "endDate", "reason", "status"}

type Request struct {
	Principal     Principal
	Record        RecordType
	Operation     Operation
	OwnerID       string
	CurrentStatus string
	NewStatus     string
}

// Scope narrows list queries. An empty EmployeeID means every record.
type Scope struct {
	EmployeeID  string
	AllowSearch bool
}

type Decision struct {
	Allowed      bool
	Reason       DenyReason
	Scope        Scope
	Fields       []string
	ForcedStatus string
}

func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return apperr.Forbidden(string(d.Reason), d.Reason.Message())
}

// FieldAllowed reports whether an update may touch name. A nil field list
// means the principal may update every field.
func (d Decision) FieldAllowed(name string) bool {
	if d.Fields == nil {
		return true
	}
	for _, f := range d.Fields {
		if f == name {
			return true
		}
	}
	return false
}

// Decide is the single authority on what a principal may do to a record.
// It is pure; callers load the record first and pass its owner and status.
func Decide(req Request) Decision {
	p := req.Principal
	switch p.Role {
	case RoleAdmin:
		return Decision{Allowed: true, Scope: Scope{AllowSearch: true}}
	case RoleEmployee:
	default:
		return deny(DenyForbiddenRole)
	}
	if p.EmployeeID == "" {
		return deny(DenyForbiddenRole)
	}

	switch req.Record {
	case RecordAttendance:
		return decideOwnAttendance(req)
	case RecordLeave:
		return decideOwnLeave(req)
	case RecordEmployee:
		return decideOwnProfile(req)
	default:
		return deny(DenyForbiddenRole)
	}
}

func decideOwnAttendance(req Request) Decision {
	switch req.Operation {
	case OpList:
		return ownScope(req.Principal)
	case OpRead:
		return ownerOnly(req)
	default:
		return deny(DenyForbiddenRole)
	}
}

func decideOwnLeave(req Request) Decision {
	switch req.Operation {
	case OpList:
		return ownScope(req.Principal)
	case OpRead:
		return ownerOnly(req)
	case OpCreate:
		d := ownScope(req.Principal)
		d.ForcedStatus = pendingStatus
		return d
	case OpUpdate:
		if req.OwnerID != req.Principal.EmployeeID {
			return deny(DenyNotOwner)
		}
		if req.CurrentStatus != pendingStatus {
			return deny(DenyInvalidStatus)
		}
		if req.NewStatus != "" && req.NewStatus != pendingStatus {
			return deny(DenyForbiddenRole)
		}
		d := ownScope(req.Principal)
		d.Fields = employeeLeaveFields
		return d
	case OpDelete:
		if req.OwnerID != req.Principal.EmployeeID {
			return deny(DenyNotOwner)
		}
		if req.CurrentStatus != pendingStatus {
			return deny(DenyInvalidStatus)
		}
		return ownScope(req.Principal)
	default:
		return deny(DenyForbiddenRole)
	}
}

func decideOwnProfile(req Request) Decision {
	if req.Operation != OpRead {
		return deny(DenyForbiddenRole)
	}
	return ownerOnly(req)
}

func ownerOnly(req Request) Decision {
	if req.OwnerID != req.Principal.EmployeeID {
		return deny(DenyNotOwner)
	}
	return ownScope(req.Principal)
}

func ownScope(p Principal) Decision {
	return Decision{Allowed: true, Scope: Scope{EmployeeID: p.EmployeeID}}
}

func deny(reason DenyReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}
