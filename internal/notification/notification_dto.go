package notification

import "time"

type ListFilter struct {
	UnreadOnly bool `form:"unread"`
	Page       int  `form:"page"`
	PageSize   int  `form:"page_size"`
}

type NotificationResponse struct {
	ID            string     `json:"id"`
	EmployeeID    string     `json:"employee_id"`
	Kind          string     `json:"kind"`
	Title         string     `json:"title"`
	Body          string     `json:"body"`
	SourceEventID string     `json:"source_event_id"`
	Read          bool       `json:"read"`
	ReadAt        *time.Time `json:"read_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

func mapToResponse(n Notification) NotificationResponse {
	return NotificationResponse{
		ID:            n.ID.String(),
		EmployeeID:    n.EmployeeID.String(),
		Kind:          n.Kind,
		Title:         n.Title,
		Body:          n.Body,
		SourceEventID: n.SourceEventID,
		Read:          n.ReadAt != nil,
		ReadAt:        n.ReadAt,
		CreatedAt:     n.CreatedAt,
	}
}
