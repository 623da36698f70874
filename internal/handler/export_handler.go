package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caymanbizevents/events-api/internal/models"
	"github.com/caymanbizevents/events-api/internal/service"
	appErrors "github.com/caymanbizevents/events-api/pkg/errors"
	"github.com/caymanbizevents/events-api/pkg/response"
)

var exportContentTypes = map[models.ExportFormat]string{
	models.ExportFormatCSV:  "text/csv",
	models.ExportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	models.ExportFormatPDF:  "application/pdf",
}

// ExportHandler wires HTTP endpoints to the export service.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Create godoc
// @Summary Start a subscriber export
// @Description Queue an asynchronous export of the subscriber roster
// @Tags Exports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body object true "Export format (xlsx, csv, pdf)"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /exports/subscriptions [post]
func (h *ExportHandler) Create(c *gin.Context) {
	var payload struct {
		Format models.ExportFormat `json:"format" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "format required"))
		return
	}

	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	job, err := h.service.Enqueue(c.Request.Context(), payload.Format, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// Get godoc
// @Summary Export job status
// @Description Poll a job; completed jobs include a signed download URL
// @Tags Exports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/{id} [get]
func (h *ExportHandler) Get(c *gin.Context) {
	job, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Download godoc
// @Summary Download a completed export
// @Description Stream the rendered file for a valid signed token
// @Tags Exports
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /exports/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token required"))
		return
	}

	download, err := h.service.ResolveDownload(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close() //nolint:errcheck

	contentType, ok := exportContentTypes[download.Format]
	if !ok {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
	c.Header("Content-Type", contentType)

	info, err := download.File.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat export file"))
		return
	}
	c.DataFromReader(http.StatusOK, info.Size(), contentType, download.File, nil)
}
