package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caymanbizevents/events-api/internal/models"
	"github.com/caymanbizevents/events-api/internal/service"
	appErrors "github.com/caymanbizevents/events-api/pkg/errors"
	"github.com/caymanbizevents/events-api/pkg/response"
)

// EventRequestHandler wires HTTP endpoints to the event request service.
type EventRequestHandler struct {
	service *service.EventRequestService
}

// NewEventRequestHandler creates a new handler.
func NewEventRequestHandler(svc *service.EventRequestService) *EventRequestHandler {
	return &EventRequestHandler{service: svc}
}

// Create godoc
// @Summary Submit an event request
// @Description Public form submission. Times are accepted in 24-hour or 12-hour form; the end date is derived.
// @Tags EventRequests
// @Accept json
// @Produce json
// @Param payload body models.EventRequestInput true "Request payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /event-request [post]
func (h *EventRequestHandler) Create(c *gin.Context) {
	var input models.EventRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid event request payload"))
		return
	}

	request, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, request)
}

// List godoc
// @Summary List event requests
// @Description Moderation queue for the dashboard
// @Tags EventRequests
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (pending, approved, rejected)"
// @Param email query string false "Filter by submitter email"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /event-request [get]
func (h *EventRequestHandler) List(c *gin.Context) {
	filter := models.EventRequestFilter{
		Email: c.Query("email"),
		Page:  parseIntQuery(c, "page", 1),
		Limit: parseIntQuery(c, "limit", 10),
	}
	if raw := c.Query("status"); raw != "" {
		status := models.RequestStatus(raw)
		filter.Status = &status
	}

	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list.Requests, list.Meta)
}

// Get godoc
// @Summary Get an event request
// @Tags EventRequests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /event-request/{id} [get]
func (h *EventRequestHandler) Get(c *gin.Context) {
	request, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request, nil)
}

// Update godoc
// @Summary Edit a pending event request
// @Tags EventRequests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param payload body models.EventRequestUpdate true "Fields to update"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /event-request/{id} [patch]
func (h *EventRequestHandler) Update(c *gin.Context) {
	var patch models.EventRequestUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid event request payload"))
		return
	}

	request, err := h.service.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request, nil)
}

// UpdateStatus godoc
// @Summary Resolve an event request
// @Description Approve (publishing an event) or reject a pending request
// @Tags EventRequests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param payload body models.EventRequestStatusUpdate true "Resolution"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /event-request/{id}/status [patch]
func (h *EventRequestHandler) UpdateStatus(c *gin.Context) {
	var update models.EventRequestStatusUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	request, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), update, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request, nil)
}

// Delete godoc
// @Summary Delete an event request
// @Tags EventRequests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /event-request/{id} [delete]
func (h *EventRequestHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
