package events

import "time"

const TopicLeaveDecided = "hr.leave.decided.v1"

// LeaveDecided is emitted when a leave request reaches a terminal
// decision: approved, rejected or cancelled.
type LeaveDecided struct {
	LeaveID      string    `json:"leave_id"`
	UserID       string    `json:"user_id"`
	LeaveType    string    `json:"leave_type"`
	Status       string    `json:"status"`
	NumberOfDays int       `json:"number_of_days"`
	DecidedBy    string    `json:"decided_by,omitempty"`
	DecidedAt    time.Time `json:"decided_at"`
}
