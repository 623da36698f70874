package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/caymanbizevents/events-api/internal/models"
	appErrors "github.com/caymanbizevents/events-api/pkg/errors"
)

type mockEventRepo struct {
	events  map[string]*models.Event
	listErr error
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[string]*models.Event)}
}

func (m *mockEventRepo) List(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	out := make([]models.Event, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, *e)
	}
	return out, len(out), nil
}

func (m *mockEventRepo) GetByID(ctx context.Context, id string) (*models.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *e
	return &clone, nil
}

func (m *mockEventRepo) Create(ctx context.Context, event *models.Event) error {
	m.events[event.ID] = event
	return nil
}

func (m *mockEventRepo) Update(ctx context.Context, event *models.Event) error {
	if _, ok := m.events[event.ID]; !ok {
		return sql.ErrNoRows
	}
	m.events[event.ID] = event
	return nil
}

func (m *mockEventRepo) Delete(ctx context.Context, id string) error {
	delete(m.events, id)
	return nil
}

type mockImageStorage struct {
	saved   map[string][]byte
	deleted []string
}

func (m *mockImageStorage) Save(filename string, data []byte) (string, error) {
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	m.saved[filename] = data
	return filename, nil
}

func (m *mockImageStorage) Delete(filename string) error {
	m.deleted = append(m.deleted, filename)
	return nil
}

func newEventService(repo *mockEventRepo) *EventService {
	return NewEventService(repo, nil, &mockImageStorage{}, validator.New(), zap.NewNop(), "https://api.example.com")
}

func TestEventServiceCreateNormalizesTimes(t *testing.T) {
	repo := newMockEventRepo()
	svc := newEventService(repo)

	event, err := svc.Create(context.Background(), models.EventInput{
		Name:      "Networking Mixer",
		StartDate: "2025-06-10",
		StartTime: "5:30 PM",
		EndTime:   "9:00 PM",
	}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "17:30", event.StartTime)
	assert.Equal(t, "21:00", event.EndTime)
	assert.Equal(t, "2025-06-10", event.StartDate.String())
	assert.Equal(t, "2025-06-10", event.EndDate.String())
	assert.Equal(t, "admin-1", event.CreatedBy)
}

func TestEventServiceCreateDerivesNextDayEnd(t *testing.T) {
	repo := newMockEventRepo()
	svc := newEventService(repo)

	event, err := svc.Create(context.Background(), models.EventInput{
		Name:      "Late Show",
		StartDate: "2025-06-10",
		StartTime: "23:00",
		EndTime:   "01:00",
	}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-10", event.StartDate.String())
	assert.Equal(t, "2025-06-11", event.EndDate.String())
}

func TestEventServiceCreateRejectsMalformedTime(t *testing.T) {
	repo := newMockEventRepo()
	svc := newEventService(repo)

	_, err := svc.Create(context.Background(), models.EventInput{
		Name:      "Broken",
		StartDate: "2025-06-10",
		StartTime: "25:00",
		EndTime:   "26:00",
	}, "admin-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestEventServiceCreateRejectsZeroDuration(t *testing.T) {
	repo := newMockEventRepo()
	svc := newEventService(repo)

	_, err := svc.Create(context.Background(), models.EventInput{
		Name:      "Instant",
		StartDate: "2025-06-10",
		StartTime: "10:00",
		EndTime:   "10:00",
	}, "admin-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidSchedule.Code, appErr.Code)
}

func TestEventServiceUpdateRollsEndDateAcrossMidnight(t *testing.T) {
	repo := newMockEventRepo()
	svc := newEventService(repo)

	event, err := svc.Create(context.Background(), models.EventInput{
		Name:      "Evening Gala",
		StartDate: "2025-06-10",
		StartTime: "20:00",
		EndTime:   "23:00",
	}, "admin-1")
	require.NoError(t, err)

	endTime := "1:00 AM"
	updated, err := svc.Update(context.Background(), event.ID, models.EventUpdate{EndTime: &endTime})
	require.NoError(t, err)
	assert.Equal(t, "01:00", updated.EndTime)
	assert.Equal(t, "2025-06-11", updated.EndDate.String())

	// Moving the end back before midnight restores the same-day end date.
	endTime = "22:30"
	updated, err = svc.Update(context.Background(), event.ID, models.EventUpdate{EndTime: &endTime})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-10", updated.EndDate.String())
}

func TestEventServiceUpdateNotFound(t *testing.T) {
	svc := newEventService(newMockEventRepo())

	name := "Renamed"
	_, err := svc.Update(context.Background(), "missing", models.EventUpdate{Name: &name})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestEventServiceDeleteRemovesImage(t *testing.T) {
	repo := newMockEventRepo()
	images := &mockImageStorage{}
	svc := NewEventService(repo, nil, images, validator.New(), zap.NewNop(), "https://api.example.com")

	event, err := svc.Create(context.Background(), models.EventInput{
		Name:      "With Banner",
		StartDate: "2025-06-10",
		StartTime: "09:00",
		EndTime:   "17:00",
	}, "admin-1")
	require.NoError(t, err)

	_, err = svc.AttachImage(context.Background(), event.ID, "banner.png", []byte("png-bytes"))
	require.NoError(t, err)
	stored, err := svc.Get(context.Background(), event.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ImageURL)
	assert.Contains(t, *stored.ImageURL, "/uploads/"+event.ID)

	require.NoError(t, svc.Delete(context.Background(), event.ID))
	assert.Len(t, images.deleted, 1)
	_, err = svc.Get(context.Background(), event.ID)
	require.Error(t, err)
}
