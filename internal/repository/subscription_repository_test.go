package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caymanbizevents/events-api/internal/models"
)

func TestListSubscriptions(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubscriptionRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "company_name", "job_title", "created_at"}).
		AddRow("1", "Ada", "Lovelace", "ada@example.com", "Analytical Engines", "Engineer", now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, first_name, last_name, email, company_name, job_title, created_at FROM subscriptions WHERE 1=1 ORDER BY created_at DESC LIMIT 10 OFFSET 0")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM subscriptions WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	subs, total, err := repo.List(context.Background(), models.SubscriptionFilter{})
	require.NoError(t, err)
	assert.Len(t, subs, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSubscription(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubscriptionRepository(db)

	mock.ExpectExec("INSERT INTO subscriptions").WillReturnResult(sqlmock.NewResult(1, 1))

	sub := &models.Subscription{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		CompanyName: "Analytical Engines",
		JobTitle:    "Engineer",
	}
	require.NoError(t, repo.Create(context.Background(), sub))
	assert.NotEmpty(t, sub.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteManySubscriptions(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubscriptionRepository(db)

	ids := []string{"1", "2"}
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM subscriptions WHERE id = ANY($1)")).
		WithArgs(pq.Array(ids)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	affected, err := repo.DeleteMany(context.Background(), ids)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteManySubscriptionsRowCountError(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubscriptionRepository(db)

	ids := []string{"1"}
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM subscriptions WHERE id = ANY($1)")).
		WithArgs(pq.Array(ids)).
		WillReturnResult(sqlmock.NewErrorResult(errors.New("driver does not report rows")))

	_, err := repo.DeleteMany(context.Background(), ids)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count subscription deletions")
	assert.NoError(t, mock.ExpectationsWereMet())
}
