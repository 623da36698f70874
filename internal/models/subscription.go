package models

import "time"

// Subscription is a newsletter signup captured by the public register form.
type Subscription struct {
	ID          string    `db:"id" json:"id"`
	FirstName   string    `db:"first_name" json:"firstName"`
	LastName    string    `db:"last_name" json:"lastName"`
	Email       string    `db:"email" json:"email"`
	CompanyName string    `db:"company_name" json:"companyName"`
	JobTitle    string    `db:"job_title" json:"jobTitle"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// SubscriptionInput is the public register form payload.
type SubscriptionInput struct {
	FirstName   string `json:"firstName" validate:"required,max=100"`
	LastName    string `json:"lastName" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email"`
	CompanyName string `json:"companyName" validate:"max=200"`
	JobTitle    string `json:"jobTitle" validate:"max=200"`
}

// SubscriptionFilter paginates and searches the subscriber roster.
type SubscriptionFilter struct {
	Search string
	Page   int
	Limit  int
}
