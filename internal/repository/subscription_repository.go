package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/caymanbizevents/events-api/internal/models"
)

// SubscriptionRepository persists newsletter signups.
type SubscriptionRepository struct {
	db *sqlx.DB
}

// NewSubscriptionRepository constructs the repository.
func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = "id, first_name, last_name, email, company_name, job_title, created_at"

// List returns subscriptions matching the filter plus the total count.
func (r *SubscriptionRepository) List(ctx context.Context, filter models.SubscriptionFilter) ([]models.Subscription, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR company_name ILIKE $%d)",
			len(args)+1, len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf("SELECT %s FROM subscriptions WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		subscriptionColumns, whereClause, limit, offset)
	var subs []models.Subscription
	if err := r.db.SelectContext(ctx, &subs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list subscriptions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM subscriptions WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count subscriptions: %w", err)
	}
	return subs, total, nil
}

// ListAll returns the full roster ordered by signup date, used by exports.
func (r *SubscriptionRepository) ListAll(ctx context.Context) ([]models.Subscription, error) {
	query := fmt.Sprintf("SELECT %s FROM subscriptions ORDER BY created_at ASC", subscriptionColumns)
	var subs []models.Subscription
	if err := r.db.SelectContext(ctx, &subs, query); err != nil {
		return nil, fmt.Errorf("list all subscriptions: %w", err)
	}
	return subs, nil
}

// FindByEmail returns a subscription by email.
func (r *SubscriptionRepository) FindByEmail(ctx context.Context, email string) (*models.Subscription, error) {
	query := fmt.Sprintf("SELECT %s FROM subscriptions WHERE email = $1 LIMIT 1", subscriptionColumns)
	var sub models.Subscription
	if err := r.db.GetContext(ctx, &sub, query, email); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Create inserts a subscription.
func (r *SubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO subscriptions (id, first_name, last_name, email, company_name, job_title, created_at)
VALUES (:id, :first_name, :last_name, :email, :company_name, :job_title, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, sub); err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}
	return nil
}

// Delete removes a single subscription.
func (r *SubscriptionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM subscriptions WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return nil
}

// DeleteMany removes the given subscriptions and reports how many matched.
func (r *SubscriptionRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM subscriptions WHERE id = ANY($1)", pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("delete subscriptions: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count subscription deletions: %w", err)
	}
	return affected, nil
}
