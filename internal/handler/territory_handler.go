package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/theophile-senechal/unlock-app/internal/auth"
	"github.com/theophile-senechal/unlock-app/internal/models"
	"github.com/theophile-senechal/unlock-app/internal/service"
	"github.com/theophile-senechal/unlock-app/pkg/response"
)

// TerritoryHandler handles HTTP requests for the territory views
type TerritoryHandler struct {
	service *service.TerritoryService
}

// NewTerritoryHandler creates a new territory handler
func NewTerritoryHandler(service *service.TerritoryService) *TerritoryHandler {
	return &TerritoryHandler{service: service}
}

// GetStatsHistory handles GET /api/stats_history
func (h *TerritoryHandler) GetStatsHistory(c *gin.Context) {
	session, ok := auth.SessionFrom(c)
	if !ok {
		response.Unauthorized(c, "Login required")
		return
	}

	var filter models.TerritoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	filter.Normalize()

	result, err := h.service.History(c.Request.Context(), session.Identity, session.AccessToken, filter)
	if err != nil {
		response.InternalError(c, "Failed to build conquest history")
		return
	}

	response.Success(c, result)
}

// GetActivities handles GET /api/activities
func (h *TerritoryHandler) GetActivities(c *gin.Context) {
	session, ok := auth.SessionFrom(c)
	if !ok {
		response.Unauthorized(c, "Login required")
		return
	}

	var filter models.TerritoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	filter.Normalize()

	result, err := h.service.Activities(c.Request.Context(), session.Identity, session.AccessToken, filter)
	if err != nil {
		response.InternalError(c, "Failed to build territory payload")
		return
	}

	response.Success(c, result)
}
