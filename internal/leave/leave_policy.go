package leave

const (
	TypePaid   = "PAID"
	TypeSick   = "SICK"
	TypeUnpaid = "UNPAID"
	TypeCasual = "CASUAL"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

// balanceColumns maps tracked leave types to their balance column on the
// users table. CASUAL leave is untracked and never touches a balance.
var balanceColumns = map[string]string{
	TypePaid:   "paid_leave",
	TypeSick:   "sick_leave",
	TypeUnpaid: "unpaid_leave",
}

// sufficiencyChecked lists the types whose balance must cover the
// requested days and may never go below zero. UNPAID starts at zero and
// is allowed to run negative; it records a debt of unpaid days taken.
var sufficiencyChecked = map[string]bool{
	TypePaid: true,
	TypeSick: true,
}

func trackedColumn(leaveType string) (string, bool) {
	col, ok := balanceColumns[leaveType]
	return col, ok
}

func isAllowedStatusTransition(current, target string) bool {
	switch current {
	case StatusPending:
		return target == StatusApproved || target == StatusRejected || target == StatusCancelled
	case StatusApproved:
		return target == StatusCancelled
	default:
		return false
	}
}
