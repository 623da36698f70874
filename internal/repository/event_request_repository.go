package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/caymanbizevents/events-api/internal/models"
)

// EventRequestRepository persists publicly submitted event requests.
type EventRequestRepository struct {
	db *sqlx.DB
}

// NewEventRequestRepository constructs the repository.
func NewEventRequestRepository(db *sqlx.DB) *EventRequestRepository {
	return &EventRequestRepository{db: db}
}

const requestColumns = "id, name, email, phone, description, start_date, end_date, start_time, end_time, status, status_message, event_id, resolved_by, resolved_at, created_at, updated_at"

// List returns event requests matching the filter plus the total count.
func (r *EventRequestRepository) List(ctx context.Context, filter models.EventRequestFilter) ([]models.EventRequest, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, string(*filter.Status))
	}
	if filter.Email != "" {
		where = append(where, fmt.Sprintf("email = $%d", len(args)+1))
		args = append(args, filter.Email)
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf("SELECT %s FROM event_requests WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		requestColumns, whereClause, limit, offset)
	var requests []models.EventRequest
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list event requests: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM event_requests WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count event requests: %w", err)
	}
	return requests, total, nil
}

// GetByID fetches a single event request.
func (r *EventRequestRepository) GetByID(ctx context.Context, id string) (*models.EventRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM event_requests WHERE id = $1", requestColumns)
	var request models.EventRequest
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		return nil, err
	}
	return &request, nil
}

// Create inserts a pending event request.
func (r *EventRequestRepository) Create(ctx context.Context, request *models.EventRequest) error {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	if request.Status == "" {
		request.Status = models.RequestPending
	}
	now := time.Now().UTC()
	if request.CreatedAt.IsZero() {
		request.CreatedAt = now
	}
	request.UpdatedAt = now
	const query = `INSERT INTO event_requests (id, name, email, phone, description, start_date, end_date, start_time, end_time, status, status_message, event_id, resolved_by, resolved_at, created_at, updated_at)
VALUES (:id, :name, :email, :phone, :description, :start_date, :end_date, :start_time, :end_time, :status, :status_message, :event_id, :resolved_by, :resolved_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, request); err != nil {
		return fmt.Errorf("create event request: %w", err)
	}
	return nil
}

// Update modifies a request's editable fields and moderation state.
func (r *EventRequestRepository) Update(ctx context.Context, request *models.EventRequest) error {
	request.UpdatedAt = time.Now().UTC()
	const query = `UPDATE event_requests SET name = :name, email = :email, phone = :phone, description = :description,
start_date = :start_date, end_date = :end_date, start_time = :start_time, end_time = :end_time,
status = :status, status_message = :status_message, event_id = :event_id, resolved_by = :resolved_by, resolved_at = :resolved_at, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, request); err != nil {
		return fmt.Errorf("update event request: %w", err)
	}
	return nil
}

// Delete removes a request.
func (r *EventRequestRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM event_requests WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete event request: %w", err)
	}
	return nil
}
