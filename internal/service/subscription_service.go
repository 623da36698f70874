package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/caymanbizevents/events-api/internal/models"
	appErrors "github.com/caymanbizevents/events-api/pkg/errors"
)

type subscriptionRepository interface {
	List(ctx context.Context, filter models.SubscriptionFilter) ([]models.Subscription, int, error)
	FindByEmail(ctx context.Context, email string) (*models.Subscription, error)
	Create(ctx context.Context, sub *models.Subscription) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

// SubscriptionList is the paginated roster payload.
type SubscriptionList struct {
	Subscriptions []models.Subscription `json:"subscriptions"`
	Meta          *models.PageMeta      `json:"meta"`
}

// SubscriptionService manages newsletter signups.
type SubscriptionService struct {
	repo      subscriptionRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubscriptionService constructs a SubscriptionService.
func NewSubscriptionService(repo subscriptionRepository, validate *validator.Validate, logger *zap.Logger) *SubscriptionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SubscriptionService{repo: repo, validator: validate, logger: logger}
}

// Create registers a new subscriber. Duplicate emails are rejected.
func (s *SubscriptionService) Create(ctx context.Context, input models.SubscriptionInput) (*models.Subscription, error) {
	// Canonicalize before validation so padded or mixed-case emails pass the
	// email tag and dedupe against the stored form.
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subscription payload")
	}

	email := input.Email
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subscription")
	}
	if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email is already subscribed")
	}

	sub := &models.Subscription{
		ID:          uuid.NewString(),
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		Email:       email,
		CompanyName: strings.TrimSpace(input.CompanyName),
		JobTitle:    strings.TrimSpace(input.JobTitle),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subscription")
	}
	return sub, nil
}

// List returns the paginated subscriber roster.
func (s *SubscriptionService) List(ctx context.Context, filter models.SubscriptionFilter) (*SubscriptionList, error) {
	subs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subscriptions")
	}
	return &SubscriptionList{Subscriptions: subs, Meta: models.NewPageMeta(filter.Page, filter.Limit, total)}, nil
}

// Delete removes a single subscriber.
func (s *SubscriptionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subscription")
	}
	return nil
}

// DeleteMany removes the selected subscribers and reports how many went away.
func (s *SubscriptionService) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "no subscription ids provided")
	}
	deleted, err := s.repo.DeleteMany(ctx, ids)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subscriptions")
	}
	return deleted, nil
}
