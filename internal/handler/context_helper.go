package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/caymanbizevents/events-api/internal/middleware"
	"github.com/caymanbizevents/events-api/internal/models"
)

// claimsFromContext returns the authenticated admin's token claims, or nil
// when the route was reached without the auth middleware.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*models.JWTClaims)
	return claims
}
