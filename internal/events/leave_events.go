package events

import "time"

const (
	LeaveLifecycleTopic = "hr.leave.lifecycle.v1"
	LeaveMessagesTopic  = "hr.leave.messages.v1"
)

const (
	LeaveSubmitted     = "leave_submitted"
	LeaveDecided       = "leave_decided"
	LeaveCancelled     = "leave_cancelled"
	LeaveStatusChanged = "leave_status_changed"
	LeaveMessagePosted = "leave_message_posted"
)

const AggregateLeaveRequest = "leave_request"

// LeaveEvent is the payload of every hr.leave.* message. EventID equals the
// outbox row id and is what consumers dedupe on.
type LeaveEvent struct {
	EventID        string    `json:"event_id"`
	EventType      string    `json:"event_type"`
	LeaveRequestID string    `json:"leave_request_id"`
	RequesterID    string    `json:"requester_id"`
	ActorID        string    `json:"actor_id"`
	Status         string    `json:"status"`
	LeaveType      string    `json:"leave_type"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	DaysCount      float64   `json:"days_count"`
	DecisionBy     string    `json:"decision_by,omitempty"`
	Comment        string    `json:"comment,omitempty"`
	MessageID      int64     `json:"message_id,omitempty"`
	Message        string    `json:"message,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func TopicFor(eventType string) string {
	if eventType == LeaveMessagePosted {
		return LeaveMessagesTopic
	}
	return LeaveLifecycleTopic
}
