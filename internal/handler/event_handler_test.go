package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/caymanbizevents/events-api/internal/middleware"
	"github.com/caymanbizevents/events-api/internal/models"
	"github.com/caymanbizevents/events-api/internal/service"
	"github.com/caymanbizevents/events-api/pkg/response"
)

type eventRepoMock struct {
	events map[string]*models.Event
}

func newEventRepoMock() *eventRepoMock {
	return &eventRepoMock{events: make(map[string]*models.Event)}
}

func (m *eventRepoMock) List(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error) {
	out := make([]models.Event, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, *e)
	}
	return out, len(out), nil
}

func (m *eventRepoMock) GetByID(ctx context.Context, id string) (*models.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *e
	return &clone, nil
}

func (m *eventRepoMock) Create(ctx context.Context, event *models.Event) error {
	m.events[event.ID] = event
	return nil
}

func (m *eventRepoMock) Update(ctx context.Context, event *models.Event) error {
	m.events[event.ID] = event
	return nil
}

func (m *eventRepoMock) Delete(ctx context.Context, id string) error {
	delete(m.events, id)
	return nil
}

func withClaims(userID string, role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: userID, Role: role})
		c.Next()
	}
}

func newEventRouter(repo *eventRepoMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewEventService(repo, nil, nil, validator.New(), zap.NewNop(), "https://api.example.com")
	h := NewEventHandler(svc, 0)

	r := gin.New()
	r.GET("/event", h.List)
	r.GET("/event/:id", h.Get)

	admin := r.Group("/", withClaims("admin-1", models.RoleAdmin))
	admin.POST("/event", h.Create)
	admin.PATCH("/event/:id", h.Update)
	admin.DELETE("/event/:id", h.Delete)
	return r
}

func TestEventHandlerCreateAndList(t *testing.T) {
	repo := newEventRepoMock()
	router := newEventRouter(repo)

	body, _ := json.Marshal(models.EventInput{
		Name:      "Chamber Mixer",
		StartDate: "2025-06-10",
		StartTime: "5:30 PM",
		EndTime:   "9:00 PM",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/event", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Success bool         `json:"success"`
		Data    models.Event `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, created.Success)
	assert.Equal(t, "17:30", created.Data.StartTime)
	assert.Equal(t, "21:00", created.Data.EndTime)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/event?page=1&limit=10", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var listed struct {
		Success bool            `json:"success"`
		Data    []models.Event  `json:"data"`
		Meta    models.PageMeta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Data, 1)
	assert.Equal(t, 1, listed.Meta.Total)
	assert.Equal(t, 1, listed.Meta.TotalPages)
	assert.Equal(t, 10, listed.Meta.Limit)
}

func TestEventHandlerPatchRollsEndDate(t *testing.T) {
	repo := newEventRepoMock()
	router := newEventRouter(repo)

	body, _ := json.Marshal(models.EventInput{
		Name:      "Evening Gala",
		StartDate: "2025-06-10",
		StartTime: "20:00",
		EndTime:   "23:00",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/event", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data models.Event `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodPatch, "/event/"+created.Data.ID, bytes.NewReader([]byte(`{"endTime":"1:00 AM"}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var updated struct {
		Data models.Event `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "01:00", updated.Data.EndTime)
	assert.Equal(t, "2025-06-11", updated.Data.EndDate.String())
}

func TestEventHandlerGetNotFound(t *testing.T) {
	router := newEventRouter(newEventRepoMock())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/event/missing", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

func TestEventHandlerCreateRejectsBadTime(t *testing.T) {
	router := newEventRouter(newEventRepoMock())

	body, _ := json.Marshal(models.EventInput{
		Name:      "Broken",
		StartDate: "2025-06-10",
		StartTime: "13:00 PM",
		EndTime:   "14:00",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/event", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
