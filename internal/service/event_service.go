package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/caymanbizevents/events-api/internal/models"
	"github.com/caymanbizevents/events-api/internal/schedule"
	appErrors "github.com/caymanbizevents/events-api/pkg/errors"
)

type eventRepository interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
}

type imageStorage interface {
	Save(filename string, data []byte) (string, error)
	Delete(filename string) error
}

// EventList is the paginated listing payload.
type EventList struct {
	Events []models.Event   `json:"events"`
	Meta   *models.PageMeta `json:"meta"`
}

// EventService manages published calendar events.
type EventService struct {
	repo      eventRepository
	cache     *CacheService
	images    imageStorage
	validator *validator.Validate
	logger    *zap.Logger
	publicURL string
}

// NewEventService constructs an EventService.
func NewEventService(repo eventRepository, cache *CacheService, images imageStorage, validate *validator.Validate, logger *zap.Logger, publicURL string) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &EventService{repo: repo, cache: cache, images: images, validator: validate, logger: logger, publicURL: publicURL}
}

// List returns events for the calendar, consulting the cache first.
func (s *EventService) List(ctx context.Context, filter models.EventFilter) (*EventList, error) {
	key := EventListKey(filter)
	var cached EventList
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	events, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}

	result := &EventList{Events: events, Meta: models.NewPageMeta(filter.Page, filter.Limit, total)}
	if err := s.cache.Set(ctx, key, result, 0); err != nil {
		s.logger.Warn("failed to cache event listing", zap.Error(err))
	}
	return result, nil
}

// Get fetches a single event.
func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	key := EventKey(id)
	var cached models.Event
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}

	if err := s.cache.Set(ctx, key, event, 0); err != nil {
		s.logger.Warn("failed to cache event", zap.Error(err))
	}
	return event, nil
}

// Create validates the input, normalizes the time pair and derives the end
// date before persisting.
func (s *EventService) Create(ctx context.Context, input models.EventInput, createdBy string) (*models.Event, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
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
	event := &models.Event{
		ID:          uuid.NewString(),
		Name:        form.Name,
		Description: form.Description,
		StartDate:   models.DateOf(form.StartDate),
		EndDate:     models.DateOf(form.EndDate),
		StartTime:   form.StartTime,
		EndTime:     form.EndTime,
		Timezone:    input.Timezone,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event")
	}

	s.invalidate(ctx, event.ID)
	return event, nil
}

// Publish persists an event whose schedule is already normalized, as produced
// by an approved event request, and drops the cached listings.
func (s *EventService) Publish(ctx context.Context, event *models.Event) error {
	if err := s.repo.Create(ctx, event); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to publish event")
	}
	s.invalidate(ctx, event.ID)
	return nil
}

// Update applies the submitted fields through the edit form transition so
// the end date stays derived from the time pair.
func (s *EventService) Update(ctx context.Context, id string, patch models.EventUpdate) (*models.Event, error) {
	if err := s.validator.Struct(patch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}

	form, err := schedule.NewForm(event.Name, event.Description, event.StartDate.Time, event.StartTime, event.EndTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored event has invalid times")
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

	event.Name = form.Name
	event.Description = form.Description
	event.StartDate = models.DateOf(form.StartDate)
	event.EndDate = models.DateOf(form.EndDate)
	event.StartTime = form.StartTime
	event.EndTime = form.EndTime
	if patch.Timezone != nil {
		event.Timezone = *patch.Timezone
	}
	event.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event")
	}

	s.invalidate(ctx, event.ID)
	return event, nil
}

// Delete removes an event and its uploaded image.
func (s *EventService) Delete(ctx context.Context, id string) error {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete event")
	}

	if event.ImageURL != nil && s.images != nil {
		if err := s.images.Delete(path.Base(*event.ImageURL)); err != nil {
			s.logger.Warn("failed to delete event image", zap.String("event_id", id), zap.Error(err))
		}
	}

	s.invalidate(ctx, id)
	return nil
}

// AttachImage stores an uploaded image and records its public URL.
func (s *EventService) AttachImage(ctx context.Context, id, filename string, data []byte) (*models.Event, error) {
	if s.images == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "image storage not configured")
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}

	ext := path.Ext(filename)
	stored := fmt.Sprintf("%s%s", event.ID, ext)
	if _, err := s.images.Save(stored, data); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store image")
	}

	imageURL := fmt.Sprintf("%s/uploads/%s", s.publicURL, stored)
	event.ImageURL = &imageURL
	event.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event")
	}

	s.invalidate(ctx, event.ID)
	return event, nil
}

// invalidate drops every cached entry under the events: prefix, which covers
// both listings and the single-event key.
func (s *EventService) invalidate(ctx context.Context, id string) {
	if err := s.cache.InvalidateEvents(ctx); err != nil {
		s.logger.Warn("failed to invalidate event cache", zap.String("event_id", id), zap.Error(err))
	}
}
