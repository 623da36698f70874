package models

import "time"

// RequestStatus tracks the moderation state of a submitted event request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// Valid reports whether the status is one of the known values.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected:
		return true
	}
	return false
}

// Resolved reports whether moderation has already happened.
func (s RequestStatus) Resolved() bool {
	return s == RequestApproved || s == RequestRejected
}

// EventRequest is a public submission awaiting admin moderation. Approval
// promotes it into a published Event.
type EventRequest struct {
	ID            string        `db:"id" json:"id"`
	Name          string        `db:"name" json:"name"`
	Email         string        `db:"email" json:"email"`
	Phone         string        `db:"phone" json:"phone"`
	Description   string        `db:"description" json:"description"`
	StartDate     Date          `db:"start_date" json:"startDate"`
	EndDate       Date          `db:"end_date" json:"endDate"`
	StartTime     string        `db:"start_time" json:"startTime"`
	EndTime       string        `db:"end_time" json:"endTime"`
	Status        RequestStatus `db:"status" json:"status"`
	StatusMessage *string       `db:"status_message" json:"statusMessage,omitempty"`
	EventID       *string       `db:"event_id" json:"eventId,omitempty"`
	ResolvedBy    *string       `db:"resolved_by" json:"resolvedBy,omitempty"`
	ResolvedAt    *time.Time    `db:"resolved_at" json:"resolvedAt,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updatedAt"`
}

// EventRequestInput is the public submission payload. The form submits times
// in the 12-hour display form; the service normalizes them and derives the
// end date.
type EventRequestInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"max=32"`
	Description string `json:"description" validate:"max=5000"`
	StartDate   string `json:"startDate" validate:"required"`
	StartTime   string `json:"startTime" validate:"required"`
	EndTime     string `json:"endTime" validate:"required"`
}

// EventRequestUpdate is the partial edit payload for a pending request.
type EventRequestUpdate struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	StartDate   *string `json:"startDate,omitempty"`
	StartTime   *string `json:"startTime,omitempty"`
	EndTime     *string `json:"endTime,omitempty"`
}

// EventRequestStatusUpdate resolves a pending request.
type EventRequestStatusUpdate struct {
	Status        RequestStatus `json:"status" validate:"required"`
	StatusMessage *string       `json:"statusMessage,omitempty" validate:"omitempty,max=1000"`
}

// EventRequestFilter narrows down the moderation queue.
type EventRequestFilter struct {
	Status *RequestStatus
	Email  string
	Page   int
	Limit  int
}
