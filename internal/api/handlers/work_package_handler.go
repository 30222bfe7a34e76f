package handlers

import (
	"net/http"

	"github.com/apexracing/waypoint-backend/internal/api/middleware"
	"github.com/apexracing/waypoint-backend/internal/models"
	"github.com/apexracing/waypoint-backend/internal/service"
	"github.com/apexracing/waypoint-backend/internal/types"
	"github.com/gin-gonic/gin"
)

// ============================================
// Work Package Handler
// ============================================

type WorkPackageHandler struct {
	workPackageService service.WorkPackageService
}

// Get retrieves a single work package by WBS number
func (h *WorkPackageHandler) Get(c *gin.Context) {
	wbs, ok := parseWbsParam(c)
	if !ok {
		return
	}

	wp, err := h.workPackageService.GetSingle(c.Request.Context(), wbs)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toWorkPackageResponse(wp))
}

// Create creates a new work package under a project
func (h *WorkPackageHandler) Create(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}

	var req models.CreateWorkPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	projectWbs, err := types.ParseWbs(req.ProjectWbsNum)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wbs, err := h.workPackageService.Create(
		c.Request.Context(), user, projectWbs,
		req.Name, req.StartDate, req.Duration,
		req.ExpectedActivities, req.Deliverables,
	)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"wbsNum": wbs.String()})
}

// Edit updates a work package's details
func (h *WorkPackageHandler) Edit(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}
	wbs, ok := parseWbsParam(c)
	if !ok {
		return
	}

	var req models.EditWorkPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wp, err := h.workPackageService.Edit(c.Request.Context(), user, wbs, req.Name, req.StartDate, req.Duration)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toWorkPackageResponse(wp))
}

// Delete soft deletes a work package
func (h *WorkPackageHandler) Delete(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}
	wbs, ok := parseWbsParam(c)
	if !ok {
		return
	}

	wp, err := h.workPackageService.Delete(c.Request.Context(), user, wbs)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toWorkPackageResponse(wp))
}

// MarkComplete transitions the work package to complete
func (h *WorkPackageHandler) MarkComplete(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}
	wbs, ok := parseWbsParam(c)
	if !ok {
		return
	}

	wp, err := h.workPackageService.MarkComplete(c.Request.Context(), user, wbs)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toWorkPackageResponse(wp))
}

// CheckDescriptionBullet toggles a description bullet's checked state
func (h *WorkPackageHandler) CheckDescriptionBullet(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}

	bullet, err := h.workPackageService.CheckDescriptionBullet(c.Request.Context(), user, c.Param("bulletId"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBulletResponse(bullet))
}
