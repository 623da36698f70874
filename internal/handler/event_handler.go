package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/caymanbizevents/events-api/internal/models"
	"github.com/caymanbizevents/events-api/internal/service"
	appErrors "github.com/caymanbizevents/events-api/pkg/errors"
	"github.com/caymanbizevents/events-api/pkg/response"
)

// EventHandler wires HTTP endpoints to the event service.
type EventHandler struct {
	service       *service.EventService
	maxImageBytes int64
}

// NewEventHandler creates a new handler.
func NewEventHandler(svc *service.EventService, maxImageBytes int64) *EventHandler {
	if maxImageBytes <= 0 {
		maxImageBytes = 5 << 20
	}
	return &EventHandler{service: svc, maxImageBytes: maxImageBytes}
}

// List godoc
// @Summary List events
// @Description List published events for the calendar, optionally windowed by date
// @Tags Events
// @Produce json
// @Param from query string false "Window start (YYYY-MM-DD)"
// @Param to query string false "Window end (YYYY-MM-DD)"
// @Param search query string false "Name or description search"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /event [get]
func (h *EventHandler) List(c *gin.Context) {
	filter, err := parseEventFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list.Events, list.Meta)
}

// Get godoc
// @Summary Get an event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /event/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Create godoc
// @Summary Create an event
// @Description Create a published event. Times are accepted in 24-hour or 12-hour form; the end date is derived.
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.EventInput true "Event payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /event [post]
func (h *EventHandler) Create(c *gin.Context) {
	var input models.EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid event payload"))
		return
	}

	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	event, err := h.service.Create(c.Request.Context(), input, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// Update godoc
// @Summary Edit an event
// @Description Apply submitted fields one at a time; the end date stays derived from the time pair.
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param payload body models.EventUpdate true "Fields to update"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /event/{id} [patch]
func (h *EventHandler) Update(c *gin.Context) {
	var patch models.EventUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid event payload"))
		return
	}

	event, err := h.service.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Delete godoc
// @Summary Delete an event
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /event/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UploadImage godoc
// @Summary Attach an image to an event
// @Tags Events
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param image formData file true "Image file"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /event/{id}/image [post]
func (h *EventHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "image file required"))
		return
	}
	if fileHeader.Size > h.maxImageBytes {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "image exceeds maximum size"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(io.LimitReader(file, h.maxImageBytes+1))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	if int64(len(data)) > h.maxImageBytes {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "image exceeds maximum size"))
		return
	}

	event, err := h.service.AttachImage(c.Request.Context(), c.Param("id"), fileHeader.Filename, data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

func parseEventFilter(c *gin.Context) (models.EventFilter, error) {
	filter := models.EventFilter{
		Search: c.Query("search"),
		Page:   parseIntQuery(c, "page", 1),
		Limit:  parseIntQuery(c, "limit", 10),
	}
	if raw := c.Query("from"); raw != "" {
		from, err := models.ParseDate(raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "invalid from date")
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := models.ParseDate(raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "invalid to date")
		}
		filter.To = &to
	}
	return filter, nil
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
