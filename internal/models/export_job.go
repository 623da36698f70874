package models

import "time"

// ExportFormat selects the rendered file type for a subscriber export.
type ExportFormat string

const (
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
)

// Valid reports whether the format is supported.
func (f ExportFormat) Valid() bool {
	switch f {
	case ExportFormatXLSX, ExportFormatCSV, ExportFormatPDF:
		return true
	}
	return false
}

// ExportStatus tracks the lifecycle of an export job.
type ExportStatus string

const (
	ExportPending   ExportStatus = "pending"
	ExportRunning   ExportStatus = "running"
	ExportCompleted ExportStatus = "completed"
	ExportFailed    ExportStatus = "failed"
)

// ExportJob is an asynchronous subscriber-roster export.
type ExportJob struct {
	ID          string       `db:"id" json:"id"`
	Format      ExportFormat `db:"format" json:"format"`
	Status      ExportStatus `db:"status" json:"status"`
	FilePath    *string      `db:"file_path" json:"-"`
	DownloadURL *string      `db:"-" json:"downloadUrl,omitempty"`
	Error       *string      `db:"error" json:"error,omitempty"`
	RowCount    int          `db:"row_count" json:"rowCount"`
	CreatedBy   string       `db:"created_by" json:"createdBy"`
	CreatedAt   time.Time    `db:"created_at" json:"createdAt"`
	CompletedAt *time.Time   `db:"completed_at" json:"completedAt,omitempty"`
	ExpiresAt   *time.Time   `db:"expires_at" json:"expiresAt,omitempty"`
}
