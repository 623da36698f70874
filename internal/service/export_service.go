package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/caymanbizevents/events-api/internal/models"
	appErrors "github.com/caymanbizevents/events-api/pkg/errors"
	"github.com/caymanbizevents/events-api/pkg/export"
	"github.com/caymanbizevents/events-api/pkg/jobs"
)

type exportJobRepository interface {
	GetByID(ctx context.Context, id string) (*models.ExportJob, error)
	Create(ctx context.Context, job *models.ExportJob) error
	Update(ctx context.Context, job *models.ExportJob) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type subscriberLister interface {
	ListAll(ctx context.Context) ([]models.Subscription, error)
}

type exportStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type tokenSigner interface {
	Generate(jobID, relPath string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type xlsxRenderer interface {
	Render(data export.Dataset, sheet string) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportJobType identifies subscriber exports on the queue.
const ExportJobType = "subscriber-export"

var exportHeaders = []string{"First Name", "Last Name", "Email", "Company", "Job Title", "Subscribed"}

// ExportDownload carries an opened export file ready to stream.
type ExportDownload struct {
	File      *os.File
	Filename  string
	Format    models.ExportFormat
	ExpiresAt time.Time
}

// ExportConfig tunes subscriber export behaviour.
type ExportConfig struct {
	DownloadTTL     time.Duration
	CleanupInterval time.Duration
	MaxRetries      int
}

// ExportService renders the subscriber roster into downloadable files. Jobs
// run asynchronously on the queue; completed files are fetched through
// signed, expiring download tokens.
type ExportService struct {
	repo        exportJobRepository
	subscribers subscriberLister
	storage     exportStorage
	queue       jobDispatcher
	signer      tokenSigner
	csv         csvRenderer
	xlsx        xlsxRenderer
	pdf         pdfRenderer
	metrics     *MetricsService
	logger      *zap.Logger
	cfg         ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(repo exportJobRepository, subscribers subscriberLister, storage exportStorage, signer tokenSigner, metrics *MetricsService, logger *zap.Logger, cfg ExportConfig) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DownloadTTL <= 0 {
		cfg.DownloadTTL = 24 * time.Hour
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	return &ExportService{
		repo:        repo,
		subscribers: subscribers,
		storage:     storage,
		signer:      signer,
		csv:         export.NewCSVExporter(),
		xlsx:        export.NewXLSXExporter(),
		pdf:         export.NewPDFExporter(),
		metrics:     metrics,
		logger:      logger,
		cfg:         cfg,
	}
}

// SetQueue attaches the dispatcher once the queue exists. The queue handler
// is this service's Handle method, so construction happens in two steps.
func (s *ExportService) SetQueue(queue jobDispatcher) {
	s.queue = queue
}

// Enqueue records a pending export job and pushes it onto the queue.
func (s *ExportService) Enqueue(ctx context.Context, format models.ExportFormat, createdBy string) (*models.ExportJob, error) {
	if !format.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "export queue not running")
	}

	job := &models.ExportJob{
		Format:    format,
		Status:    models.ExportPending,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create export job")
	}

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: ExportJobType}); err != nil {
		msg := err.Error()
		job.Status = models.ExportFailed
		job.Error = &msg
		if updateErr := s.repo.Update(ctx, job); updateErr != nil {
			s.logger.Warn("failed to mark export job failed", zap.String("job_id", job.ID), zap.Error(updateErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export job")
	}
	return job, nil
}

// Get returns job status. Completed jobs carry a freshly signed download URL.
func (s *ExportService) Get(ctx context.Context, id string) (*models.ExportJob, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}

	if job.Status == models.ExportCompleted && job.FilePath != nil && s.signer != nil {
		token, _, err := s.signer.Generate(job.ID, *job.FilePath)
		if err != nil {
			s.logger.Warn("failed to sign download token", zap.String("job_id", job.ID), zap.Error(err))
		} else {
			url := "/exports/download?token=" + token
			job.DownloadURL = &url
		}
	}
	return job, nil
}

// Handle is the queue worker. It renders the roster and stores the result.
func (s *ExportService) Handle(ctx context.Context, queued jobs.Job) error {
	job, err := s.repo.GetByID(ctx, queued.ID)
	if err != nil {
		return fmt.Errorf("load export job %s: %w", queued.ID, err)
	}

	started := time.Now()
	job.Status = models.ExportRunning
	if err := s.repo.Update(ctx, job); err != nil {
		return fmt.Errorf("mark export job running: %w", err)
	}

	relPath, rows, renderErr := s.render(ctx, job)
	if renderErr != nil {
		if queued.Attempt >= s.cfg.MaxRetries {
			msg := renderErr.Error()
			now := time.Now().UTC()
			job.Status = models.ExportFailed
			job.Error = &msg
			job.CompletedAt = &now
			if err := s.repo.Update(ctx, job); err != nil {
				s.logger.Warn("failed to mark export job failed", zap.String("job_id", job.ID), zap.Error(err))
			}
			s.metrics.ObserveExportJob(string(job.Format), string(models.ExportFailed), time.Since(started))
		} else {
			job.Status = models.ExportPending
			if err := s.repo.Update(ctx, job); err != nil {
				s.logger.Warn("failed to requeue export job", zap.String("job_id", job.ID), zap.Error(err))
			}
		}
		return renderErr
	}

	now := time.Now().UTC()
	expires := now.Add(s.cfg.DownloadTTL)
	job.Status = models.ExportCompleted
	job.FilePath = &relPath
	job.RowCount = rows
	job.Error = nil
	job.CompletedAt = &now
	job.ExpiresAt = &expires
	if err := s.repo.Update(ctx, job); err != nil {
		return fmt.Errorf("mark export job completed: %w", err)
	}
	s.metrics.ObserveExportJob(string(job.Format), string(models.ExportCompleted), time.Since(started))
	s.logger.Info("subscriber export completed",
		zap.String("job_id", job.ID),
		zap.String("format", string(job.Format)),
		zap.Int("rows", rows))
	return nil
}

// ResolveDownload validates the token and opens the stored export file.
func (s *ExportService) ResolveDownload(ctx context.Context, token string) (*ExportDownload, error) {
	jobID, relPath, expiresAt, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}

	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}
	if job.Status != models.ExportCompleted || job.FilePath == nil || *job.FilePath != relPath {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "export not ready")
	}

	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export file")
	}
	return &ExportDownload{
		File:      file,
		Filename:  fmt.Sprintf("subscribers-%s.%s", job.CreatedAt.Format("2006-01-02"), job.Format),
		Format:    job.Format,
		ExpiresAt: expiresAt,
	}, nil
}

// StartCleanup boots a goroutine that purges expired jobs and files.
func (s *ExportService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.cleanupExpired(ctx)
			}
		}
	}()
}

func (s *ExportService) cleanupExpired(ctx context.Context) {
	deleted, err := s.repo.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Warn("export job cleanup failed", zap.Error(err))
	} else if deleted > 0 {
		s.logger.Info("purged expired export jobs", zap.Int64("count", deleted))
	}

	removed, err := s.storage.CleanupOlderThan(s.cfg.DownloadTTL)
	if err != nil {
		s.logger.Warn("export file cleanup failed", zap.Error(err))
	} else if len(removed) > 0 {
		s.logger.Info("purged expired export files", zap.Int("count", len(removed)))
	}
}

func (s *ExportService) render(ctx context.Context, job *models.ExportJob) (string, int, error) {
	subs, err := s.subscribers.ListAll(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("list subscribers: %w", err)
	}

	dataset := export.Dataset{Headers: exportHeaders, Rows: make([][]string, 0, len(subs))}
	for _, sub := range subs {
		dataset.Rows = append(dataset.Rows, []string{
			sub.FirstName,
			sub.LastName,
			sub.Email,
			sub.CompanyName,
			sub.JobTitle,
			sub.CreatedAt.Format("2006-01-02"),
		})
	}

	var payload []byte
	switch job.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatXLSX:
		payload, err = s.xlsx.Render(dataset, "Subscribers")
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, "Subscribers")
	default:
		err = fmt.Errorf("unsupported format %s", job.Format)
	}
	if err != nil {
		return "", 0, err
	}

	relPath, err := s.storage.Save(fmt.Sprintf("%s.%s", job.ID, job.Format), payload)
	if err != nil {
		return "", 0, fmt.Errorf("store export file: %w", err)
	}
	return relPath, len(dataset.Rows), nil
}
