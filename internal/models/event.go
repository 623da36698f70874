package models

import "time"

// Event is a published calendar entry. StartTime and EndTime are always held
// in the canonical zero-padded 24-hour form; conversion to the 12-hour display
// form happens only at presentation boundaries.
type Event struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	StartDate   Date      `db:"start_date" json:"startDate"`
	EndDate     Date      `db:"end_date" json:"endDate"`
	StartTime   string    `db:"start_time" json:"startTime"`
	EndTime     string    `db:"end_time" json:"endTime"`
	Timezone    string    `db:"timezone" json:"timezone"`
	ImageURL    *string   `db:"image_url" json:"imageUrl,omitempty"`
	CreatedBy   string    `db:"created_by" json:"createdBy"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// EventInput is the create payload. Times may arrive in either the 24-hour
// or the 12-hour display form; the service normalizes them. The end date is
// always derived from the time pair and never submitted.
type EventInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	StartDate   string `json:"startDate" validate:"required"`
	StartTime   string `json:"startTime" validate:"required"`
	EndTime     string `json:"endTime" validate:"required"`
	Timezone    string `json:"timezone" validate:"max=64"`
}

// EventUpdate is the partial edit payload. Only the submitted fields are
// applied, one at a time, through the edit form transition.
type EventUpdate struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	StartDate   *string `json:"startDate,omitempty"`
	StartTime   *string `json:"startTime,omitempty"`
	EndTime     *string `json:"endTime,omitempty"`
	Timezone    *string `json:"timezone,omitempty" validate:"omitempty,max=64"`
}

// EventFilter narrows down the public event listing.
type EventFilter struct {
	From   *Date
	To     *Date
	Search string
	Page   int
	Limit  int
}
