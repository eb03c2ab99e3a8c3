package core

// LeaveClass says whether a leave type is paid for payroll purposes.
type LeaveClass int

const (
	LeaveClassUnknown LeaveClass = iota
	LeaveClassPaid
	LeaveClassUnpaid
)

func (c LeaveClass) String() string {
	switch c {
	case LeaveClassPaid:
		return "paid"
	case LeaveClassUnpaid:
		return "unpaid"
	default:
		return "unknown"
	}
}

// leaveClasses is the single source of the paid/unpaid split. Both the
// per-day flags and the monthly leave counter read it through LeaveClassOf.
var leaveClasses = map[LeaveType]LeaveClass{
	LeaveVacation:  LeaveClassPaid,
	LeaveSick:      LeaveClassPaid,
	LeavePersonal:  LeaveClassUnpaid,
	LeaveUnpaid:    LeaveClassUnpaid,
	LeaveMaternity: LeaveClassUnpaid,
	LeavePaternity: LeaveClassUnpaid,
	LeaveOther:     LeaveClassUnpaid,
}

// LeaveClassOf returns the class of t, LeaveClassUnknown for unrecognised types.
func LeaveClassOf(t LeaveType) LeaveClass {
	return leaveClasses[t]
}

// IsKnownLeaveType reports whether t is one of the defined leave types.
func IsKnownLeaveType(t LeaveType) bool {
	_, ok := leaveClasses[t]
	return ok
}

// LeaveTypes lists every leave type in declaration order.
func LeaveTypes() []LeaveType {
	return []LeaveType{
		LeaveVacation, LeaveSick, LeavePersonal, LeaveUnpaid,
		LeaveMaternity, LeavePaternity, LeaveOther,
	}
}
