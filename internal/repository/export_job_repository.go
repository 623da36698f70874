package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/caymanbizevents/events-api/internal/models"
)

// ExportJobRepository persists subscriber-export jobs.
type ExportJobRepository struct {
	db *sqlx.DB
}

// NewExportJobRepository constructs the repository.
func NewExportJobRepository(db *sqlx.DB) *ExportJobRepository {
	return &ExportJobRepository{db: db}
}

const exportJobColumns = "id, format, status, file_path, error, row_count, created_by, created_at, completed_at, expires_at"

// GetByID fetches an export job.
func (r *ExportJobRepository) GetByID(ctx context.Context, id string) (*models.ExportJob, error) {
	query := fmt.Sprintf("SELECT %s FROM export_jobs WHERE id = $1", exportJobColumns)
	var job models.ExportJob
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		return nil, err
	}
	return &job, nil
}

// Create inserts a pending job.
func (r *ExportJobRepository) Create(ctx context.Context, job *models.ExportJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = models.ExportPending
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO export_jobs (id, format, status, file_path, error, row_count, created_by, created_at, completed_at, expires_at)
VALUES (:id, :format, :status, :file_path, :error, :row_count, :created_by, :created_at, :completed_at, :expires_at)`
	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("create export job: %w", err)
	}
	return nil
}

// Update stores job progress and results.
func (r *ExportJobRepository) Update(ctx context.Context, job *models.ExportJob) error {
	const query = `UPDATE export_jobs SET status = :status, file_path = :file_path, error = :error, row_count = :row_count,
completed_at = :completed_at, expires_at = :expires_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("update export job: %w", err)
	}
	return nil
}

// DeleteExpired removes jobs whose download window has passed.
func (r *ExportJobRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM export_jobs WHERE expires_at IS NOT NULL AND expires_at < $1", now)
	if err != nil {
		return 0, fmt.Errorf("delete expired export jobs: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count expired export job deletions: %w", err)
	}
	return affected, nil
}
