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

	"github.com/caymanbizevents/events-api/internal/models"
	"github.com/caymanbizevents/events-api/internal/service"
	"github.com/caymanbizevents/events-api/pkg/response"
)

type subscriptionRepoMock struct {
	subs map[string]*models.Subscription
}

func newSubscriptionRepoMock() *subscriptionRepoMock {
	return &subscriptionRepoMock{subs: make(map[string]*models.Subscription)}
}

func (m *subscriptionRepoMock) List(ctx context.Context, filter models.SubscriptionFilter) ([]models.Subscription, int, error) {
	out := make([]models.Subscription, 0, len(m.subs))
	for _, s := range m.subs {
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (m *subscriptionRepoMock) FindByEmail(ctx context.Context, email string) (*models.Subscription, error) {
	for _, s := range m.subs {
		if s.Email == email {
			clone := *s
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *subscriptionRepoMock) Create(ctx context.Context, sub *models.Subscription) error {
	m.subs[sub.ID] = sub
	return nil
}

func (m *subscriptionRepoMock) Delete(ctx context.Context, id string) error {
	delete(m.subs, id)
	return nil
}

func (m *subscriptionRepoMock) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	var deleted int64
	for _, id := range ids {
		if _, ok := m.subs[id]; ok {
			delete(m.subs, id)
			deleted++
		}
	}
	return deleted, nil
}

func newSubscriptionRouter(repo *subscriptionRepoMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewSubscriptionService(repo, validator.New(), zap.NewNop())
	h := NewSubscriptionHandler(svc)

	r := gin.New()
	r.POST("/subscription", h.Create)

	admin := r.Group("/", withClaims("admin-1", models.RoleAdmin))
	admin.GET("/subscription", h.List)
	admin.DELETE("/subscription", h.DeleteMany)
	admin.DELETE("/subscription/:id", h.Delete)
	return r
}

func TestSubscriptionHandlerCreateAndConflict(t *testing.T) {
	repo := newSubscriptionRepoMock()
	router := newSubscriptionRouter(repo)

	payload := []byte(`{"firstName":"Pat","lastName":"Ebanks","email":"pat@example.com","companyName":"Island Ventures","jobTitle":"Director"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/subscription", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodPost, "/subscription", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusConflict, w.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "CONFLICT", env.Code)
}

func TestSubscriptionHandlerDeleteMany(t *testing.T) {
	repo := newSubscriptionRepoMock()
	router := newSubscriptionRouter(repo)

	for _, email := range []string{"a@example.com", "b@example.com"} {
		body, _ := json.Marshal(models.SubscriptionInput{FirstName: "A", LastName: "B", Email: email})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/subscription", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	ids := make([]string, 0, 2)
	for id := range repo.subs {
		ids = append(ids, id)
	}
	body, _ := json.Marshal(gin.H{"ids": ids})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/subscription", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Data struct {
			Deleted int64 `json:"deleted"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.EqualValues(t, 2, result.Data.Deleted)
	assert.Empty(t, repo.subs)
}

func TestSubscriptionHandlerDeleteManyRequiresIDs(t *testing.T) {
	router := newSubscriptionRouter(newSubscriptionRepoMock())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/subscription", bytes.NewReader([]byte(`{"ids":[]}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
