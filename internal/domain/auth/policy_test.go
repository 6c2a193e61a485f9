package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdesk/internal/domain/apperr"
)

var (
	admin    = Principal{UserID: "u-admin", Role: RoleAdmin}
	employee = Principal{UserID: "u-emp", Role: RoleEmployee, EmployeeID: "e1"}
)

func TestAdminIsAllowedEverything(t *testing.T) {
	records := []RecordType{RecordAttendance, RecordLeave, RecordPayroll, RecordEmployee, RecordDepartment, RecordReport}
	ops := []Operation{OpList, OpRead, OpCreate, OpUpdate, OpDelete, OpTransition}
	for _, rec := range records {
		for _, op := range ops {
			d := Decide(Request{Principal: admin, Record: rec, Operation: op, OwnerID: "e9", CurrentStatus: "approved"})
			assert.True(t, d.Allowed, "%s %s", rec, op)
			assert.Empty(t, d.Scope.EmployeeID)
			assert.True(t, d.Scope.AllowSearch)
		}
	}
}

func TestEmployeeListsAreScopedAndSearchDisabled(t *testing.T) {
	for _, rec := range []RecordType{RecordAttendance, RecordLeave} {
		d := Decide(Request{Principal: employee, Record: rec, Operation: OpList})
		require.True(t, d.Allowed)
		assert.Equal(t, "e1", d.Scope.EmployeeID)
		assert.False(t, d.Scope.AllowSearch)
	}
}

func TestEmployeeCannotMutateAttendance(t *testing.T) {
	for _, op := range []Operation{OpCreate, OpUpdate, OpDelete} {
		d := Decide(Request{Principal: employee, Record: RecordAttendance, Operation: op, OwnerID: "e1"})
		assert.False(t, d.Allowed)
		assert.Equal(t, DenyForbiddenRole, d.Reason)
	}
}

func TestEmployeeReadRequiresOwnership(t *testing.T) {
	for _, rec := range []RecordType{RecordAttendance, RecordLeave, RecordEmployee} {
		assert.True(t, Decide(Request{Principal: employee, Record: rec, Operation: OpRead, OwnerID: "e1"}).Allowed)
		d := Decide(Request{Principal: employee, Record: rec, Operation: OpRead, OwnerID: "e2"})
		assert.Equal(t, DenyNotOwner, d.Reason, string(rec))
	}
}

func TestEmployeeLeaveCreateForcesPending(t *testing.T) {
	d := Decide(Request{Principal: employee, Record: RecordLeave, Operation: OpCreate})
	require.True(t, d.Allowed)
	assert.Equal(t, "pending", d.ForcedStatus)
	assert.Equal(t, "e1", d.Scope.EmployeeID)
}

func TestEmployeeLeaveUpdateRules(t *testing.T) {
	base := Request{Principal: employee, Record: RecordLeave, Operation: OpUpdate, OwnerID: "e1", CurrentStatus: "pending"}

	d := Decide(base)
	require.True(t, d.Allowed)
	assert.True(t, d.FieldAllowed("reason"))
	assert.False(t, d.FieldAllowed("employeeId"))

	other := base
	other.OwnerID = "e2"
	for _, status := range []string{"pending", "approved", "rejected"} {
		other.CurrentStatus = status
		assert.Equal(t, DenyNotOwner, Decide(other).Reason)
	}

	approved := base
	approved.CurrentStatus = "approved"
	assert.Equal(t, DenyInvalidStatus, Decide(approved).Reason)

	selfApprove := base
	selfApprove.NewStatus = "approved"
	assert.Equal(t, DenyForbiddenRole, Decide(selfApprove).Reason)

	keepPending := base
	keepPending.NewStatus = "pending"
	assert.True(t, Decide(keepPending).Allowed)
}

func TestEmployeeLeaveDeleteRules(t *testing.T) {
	assert.True(t, Decide(Request{Principal: employee, Record: RecordLeave, Operation: OpDelete, OwnerID: "e1", CurrentStatus: "pending"}).Allowed)
	assert.Equal(t, DenyInvalidStatus, Decide(Request{Principal: employee, Record: RecordLeave, Operation: OpDelete, OwnerID: "e1", CurrentStatus: "rejected"}).Reason)
	assert.Equal(t, DenyNotOwner, Decide(Request{Principal: employee, Record: RecordLeave, Operation: OpDelete, OwnerID: "e2", CurrentStatus: "pending"}).Reason)
}

func TestEmployeeDeniedAdminOnlyRecords(t *testing.T) {
	for _, rec := range []RecordType{RecordPayroll, RecordDepartment, RecordReport} {
		for _, op := range []Operation{OpList, OpRead, OpCreate, OpUpdate, OpDelete, OpTransition} {
			d := Decide(Request{Principal: employee, Record: rec, Operation: op, OwnerID: "e1"})
			assert.Equal(t, DenyForbiddenRole, d.Reason, "%s %s", rec, op)
		}
	}
	assert.Equal(t, DenyForbiddenRole, Decide(Request{Principal: employee, Record: RecordLeave, Operation: OpTransition, OwnerID: "e1", CurrentStatus: "pending"}).Reason)
	assert.Equal(t, DenyForbiddenRole, Decide(Request{Principal: employee, Record: RecordEmployee, Operation: OpList}).Reason)
}

func TestUnlinkedOrUnknownPrincipalIsDenied(t *testing.T) {
	unlinked := Principal{UserID: "u2", Role: RoleEmployee}
	assert.Equal(t, DenyForbiddenRole, Decide(Request{Principal: unlinked, Record: RecordLeave, Operation: OpList}).Reason)

	stranger := Principal{UserID: "u3", Role: "auditor", EmployeeID: "e1"}
	assert.Equal(t, DenyForbiddenRole, Decide(Request{Principal: stranger, Record: RecordAttendance, Operation: OpRead, OwnerID: "e1"}).Reason)
}

func TestDecisionErrCarriesReason(t *testing.T) {
	err := Decide(Request{Principal: employee, Record: RecordPayroll, Operation: OpList}).Err()
	require.ErrorIs(t, err, apperr.ErrForbidden)
	reason, ok := apperr.ForbiddenReason(err)
	require.True(t, ok)
	assert.Equal(t, string(DenyForbiddenRole), reason)
	assert.NoError(t, Decide(Request{Principal: admin, Record: RecordPayroll, Operation: OpList}).Err())
}
