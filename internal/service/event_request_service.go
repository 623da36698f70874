package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/caymanbizevents/events-api/internal/models"
	"github.com/caymanbizevents/events-api/internal/schedule"
	appErrors "github.com/caymanbizevents/events-api/pkg/errors"
)

type eventRequestRepository interface {
	List(ctx context.Context, filter models.EventRequestFilter) ([]models.EventRequest, int, error)
	GetByID(ctx context.Context, id string) (*models.EventRequest, error)
	Create(ctx context.Context, request *models.EventRequest) error
	Update(ctx context.Context, request *models.EventRequest) error
	Delete(ctx context.Context, id string) error
}

type eventPromoter interface {
	Publish(ctx context.Context, event *models.Event) error
}

// EventRequestList is the paginated moderation queue payload.
type EventRequestList struct {
	Requests []models.EventRequest `json:"requests"`
	Meta     *models.PageMeta      `json:"meta"`
}

// EventRequestService handles public event submissions and their moderation.
// Approving a request promotes it into a published Event.
type EventRequestService struct {
	repo      eventRequestRepository
	events    eventPromoter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEventRequestService constructs an EventRequestService.
func NewEventRequestService(repo eventRequestRepository, events eventPromoter, validate *validator.Validate, logger *zap.Logger) *EventRequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &EventRequestService{repo: repo, events: events, validator: validate, logger: logger}
}

// Create records a public submission. Times arrive in either clock form and
// are stored canonically; the end date is derived from the time pair.
func (s *EventRequestService) Create(ctx context.Context, input models.EventRequestInput) (*models.EventRequest, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event request payload")
	}

	startDate, err := models.ParseDate(input.StartDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid start date")
	}

	form, err := schedule.NewForm(input.Name, input.Description, startDate.Time, input.StartTime, input.EndTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event time")
	}
	if err := form.Validate(); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidSchedule, "event must end after it starts")
	}

	now := time.Now().UTC()
	request := &models.EventRequest{
		ID:          uuid.NewString(),
		Name:        form.Name,
		Email:       input.Email,
		Phone:       input.Phone,
		Description: form.Description,
		StartDate:   models.DateOf(form.StartDate),
		EndDate:     models.DateOf(form.EndDate),
		StartTime:   form.StartTime,
		EndTime:     form.EndTime,
		Status:      models.RequestPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event request")
	}
	return request, nil
}

// List returns the moderation queue.
func (s *EventRequestService) List(ctx context.Context, filter models.EventRequestFilter) (*EventRequestList, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", *filter.Status))
	}

	requests, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list event requests")
	}
	return &EventRequestList{Requests: requests, Meta: models.NewPageMeta(filter.Page, filter.Limit, total)}, nil
}

// Get fetches a single request.
func (s *EventRequestService) Get(ctx context.Context, id string) (*models.EventRequest, error) {
	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event request")
	}
	return request, nil
}

// Update edits a pending request. Resolved requests are immutable.
func (s *EventRequestService) Update(ctx context.Context, id string, patch models.EventRequestUpdate) (*models.EventRequest, error) {
	if err := s.validator.Struct(patch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event request payload")
	}

	request, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.Status.Resolved() {
		return nil, appErrors.Clone(appErrors.ErrRequestResolved, "event request already resolved")
	}

	form, err := schedule.NewForm(request.Name, request.Description, request.StartDate.Time, request.StartTime, request.EndTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored request has invalid times")
	}

	edits := []struct {
		field schedule.Field
		value *string
	}{
		{schedule.FieldName, patch.Name},
		{schedule.FieldDescription, patch.Description},
		{schedule.FieldStartDate, patch.StartDate},
		{schedule.FieldStartTime, patch.StartTime},
		{schedule.FieldEndTime, patch.EndTime},
	}
	for _, edit := range edits {
		if edit.value == nil {
			continue
		}
		form, err = form.Apply(edit.field, *edit.value)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("invalid %s", edit.field))
		}
	}
	if err := form.Validate(); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidSchedule, "event must end after it starts")
	}

	request.Name = form.Name
	request.Description = form.Description
	request.StartDate = models.DateOf(form.StartDate)
	request.EndDate = models.DateOf(form.EndDate)
	request.StartTime = form.StartTime
	request.EndTime = form.EndTime
	if patch.Phone != nil {
		request.Phone = *patch.Phone
	}
	request.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event request")
	}
	return request, nil
}

// UpdateStatus resolves a pending request. Approval promotes it into a
// published Event carrying the normalized schedule.
func (s *EventRequestService) UpdateStatus(ctx context.Context, id string, update models.EventRequestStatusUpdate, resolvedBy string) (*models.EventRequest, error) {
	if err := s.validator.Struct(update); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	if !update.Status.Resolved() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("status must be %s or %s", models.RequestApproved, models.RequestRejected))
	}

	request, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.Status.Resolved() {
		return nil, appErrors.Clone(appErrors.ErrRequestResolved, "event request already resolved")
	}

	now := time.Now().UTC()
	if update.Status == models.RequestApproved {
		event := &models.Event{
			ID:          uuid.NewString(),
			Name:        request.Name,
			Description: request.Description,
			StartDate:   request.StartDate,
			EndDate:     request.EndDate,
			StartTime:   request.StartTime,
			EndTime:     request.EndTime,
			CreatedBy:   resolvedBy,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.events.Publish(ctx, event); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to publish approved event")
		}
		request.EventID = &event.ID
	}

	request.Status = update.Status
	request.StatusMessage = update.StatusMessage
	request.ResolvedBy = &resolvedBy
	request.ResolvedAt = &now
	request.UpdatedAt = now

	if err := s.repo.Update(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event request")
	}
	return request, nil
}

// Delete removes a request from the queue.
func (s *EventRequestService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete event request")
	}
	return nil
}
