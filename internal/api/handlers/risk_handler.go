package handlers

import (
	"net/http"

	"github.com/apexracing/waypoint-backend/internal/api/middleware"
	"github.com/apexracing/waypoint-backend/internal/models"
	"github.com/apexracing/waypoint-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ============================================
// Risk Handler
// ============================================

type RiskHandler struct {
	riskService service.RiskService
}

// ListForProject retrieves all risks for a project
func (h *RiskHandler) ListForProject(c *gin.Context) {
	risks, err := h.riskService.ListForProject(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRiskResponses(risks))
}

// Create registers a new risk against a project
func (h *RiskHandler) Create(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}

	var req models.CreateRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	risk, err := h.riskService.Create(c.Request.Context(), user, req.ProjectID, req.Detail)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toRiskResponse(risk))
}

// Edit updates a risk's detail or resolved state
func (h *RiskHandler) Edit(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}

	var req models.EditRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	risk, err := h.riskService.Edit(c.Request.Context(), user, c.Param("id"), req.Detail, req.Resolved)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRiskResponse(risk))
}

// Delete removes a risk
func (h *RiskHandler) Delete(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}

	risk, err := h.riskService.Delete(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRiskResponse(risk))
}
