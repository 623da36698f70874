package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caymanbizevents/events-api/internal/models"
	"github.com/caymanbizevents/events-api/internal/service"
	appErrors "github.com/caymanbizevents/events-api/pkg/errors"
	"github.com/caymanbizevents/events-api/pkg/response"
)

// SubscriptionHandler wires HTTP endpoints to the subscription service.
type SubscriptionHandler struct {
	service *service.SubscriptionService
}

// NewSubscriptionHandler creates a new handler.
func NewSubscriptionHandler(svc *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: svc}
}

// Create godoc
// @Summary Subscribe to the newsletter
// @Description Public register form submission
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param payload body models.SubscriptionInput true "Subscription payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /subscription [post]
func (h *SubscriptionHandler) Create(c *gin.Context) {
	var input models.SubscriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid subscription payload"))
		return
	}

	sub, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sub)
}

// List godoc
// @Summary List subscribers
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name, email or company search"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /subscription [get]
func (h *SubscriptionHandler) List(c *gin.Context) {
	filter := models.SubscriptionFilter{
		Search: c.Query("search"),
		Page:   parseIntQuery(c, "page", 1),
		Limit:  parseIntQuery(c, "limit", 10),
	}

	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list.Subscriptions, list.Meta)
}

// Delete godoc
// @Summary Delete a subscriber
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subscription ID"
// @Success 204 {object} response.Envelope
// @Router /subscription/{id} [delete]
func (h *SubscriptionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteMany godoc
// @Summary Delete selected subscribers
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body object true "IDs to delete"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /subscription [delete]
func (h *SubscriptionHandler) DeleteMany(c *gin.Context) {
	var payload struct {
		IDs []string `json:"ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "ids required"))
		return
	}

	deleted, err := h.service.DeleteMany(c.Request.Context(), payload.IDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deleted": deleted}, nil)
}
