package enquiry

import "encoding/json"

type Status string

const (
	StatusNew        Status = "New"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
	StatusClosed     Status = "Closed"
)

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

type Enquiry struct {
	ID        string   `json:"_id"`
	Name      string   `json:"name"`
	Email     string   `json:"email,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Topic     string   `json:"topic,omitempty"`
	Message   string   `json:"message,omitempty"`
	Status    Status   `json:"status"`
	Priority  Priority `json:"priority"`
	Channel   string   `json:"channel,omitempty"`
	CreatedAt string   `json:"createdAt,omitempty"`
}

// Stats is passed through untouched; its shape belongs to the remote API.
type Stats = json.RawMessage
