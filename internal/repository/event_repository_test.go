package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caymanbizevents/events-api/internal/models"
)

func TestListEventsDefaults(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	now := time.Now()
	day := time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)
	listRows := sqlmock.NewRows([]string{"id", "name", "description", "start_date", "end_date", "start_time", "end_time", "timezone", "image_url", "created_by", "created_at", "updated_at"}).
		AddRow("1", "Business Mixer", "Networking", day, day, "18:00", "21:00", "America/Cayman", nil, "admin-1", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, description, start_date, end_date, start_time, end_time, timezone, image_url, created_by, created_at, updated_at FROM events WHERE 1=1 ORDER BY start_date ASC, start_time ASC LIMIT 10 OFFSET 0")).
		WillReturnRows(listRows)

	countRows := sqlmock.NewRows([]string{"count"}).AddRow(1)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM events WHERE 1=1")).WillReturnRows(countRows)

	events, total, err := repo.List(context.Background(), models.EventFilter{})
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "2025-05-15", events[0].StartDate.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListEventsDateWindow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	from := models.NewDate(2025, 5, 1)
	to := models.NewDate(2025, 5, 31)

	listRows := sqlmock.NewRows([]string{"id", "name", "description", "start_date", "end_date", "start_time", "end_time", "timezone", "image_url", "created_by", "created_at", "updated_at"})
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, description, start_date, end_date, start_time, end_time, timezone, image_url, created_by, created_at, updated_at FROM events WHERE 1=1 AND end_date >= $1 AND start_date <= $2 ORDER BY start_date ASC, start_time ASC LIMIT 10 OFFSET 0")).
		WithArgs(from.Time, to.Time).
		WillReturnRows(listRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM events WHERE 1=1 AND end_date >= $1 AND start_date <= $2")).
		WithArgs(from.Time, to.Time).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	events, total, err := repo.List(context.Background(), models.EventFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEvent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec("INSERT INTO events").WillReturnResult(sqlmock.NewResult(1, 1))

	event := &models.Event{
		Name:        "Business Mixer",
		Description: "Networking",
		StartDate:   models.NewDate(2025, 5, 15),
		EndDate:     models.NewDate(2025, 5, 15),
		StartTime:   "18:00",
		EndTime:     "21:00",
		Timezone:    "America/Cayman",
		CreatedBy:   "admin-1",
	}
	err := repo.Create(context.Background(), event)
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteEvent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM events WHERE id = $1")).
		WithArgs("1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
