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
// Project Handler
// ============================================

type ProjectHandler struct {
	projectService service.ProjectService
}

// parseWbsParam parses the :wbsNum path parameter
func parseWbsParam(c *gin.Context) (types.WbsNumber, bool) {
	wbs, err := types.ParseWbs(c.Param("wbsNum"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return types.WbsNumber{}, false
	}
	return wbs, true
}

// List returns all projects
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projectService.GetAll(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response := make([]models.ProjectResponse, len(projects))
	for i, p := range projects {
		response[i] = toProjectResponse(p)
	}

	c.JSON(http.StatusOK, response)
}

// Get retrieves a single project by WBS number
func (h *ProjectHandler) Get(c *gin.Context) {
	wbs, ok := parseWbsParam(c)
	if !ok {
		return
	}

	project, err := h.projectService.GetSingle(c.Request.Context(), wbs)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProjectResponse(project))
}

// Create creates a new project
func (h *ProjectHandler) Create(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}

	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wbs, err := h.projectService.Create(c.Request.Context(), user, req.CarNumber, req.Name, req.Summary, req.TeamID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"wbsNum": wbs.String()})
}

// Edit updates a project's details
func (h *ProjectHandler) Edit(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}
	wbs, ok := parseWbsParam(c)
	if !ok {
		return
	}

	var req models.EditProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projectService.Edit(c.Request.Context(), user, wbs, req.Name, req.Summary, req.LeadID, req.ManagerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProjectResponse(project))
}

// SetTeam assigns the project to a team
func (h *ProjectHandler) SetTeam(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}
	wbs, ok := parseWbsParam(c)
	if !ok {
		return
	}

	var req models.SetProjectTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projectService.SetTeam(c.Request.Context(), user, wbs, req.TeamID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProjectResponse(project))
}

// Delete soft deletes a project and its work packages
func (h *ProjectHandler) Delete(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}
	wbs, ok := parseWbsParam(c)
	if !ok {
		return
	}

	project, err := h.projectService.Delete(c.Request.Context(), user, wbs)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProjectResponse(project))
}

// ToggleFavorite flips the project's favorite flag for the current user
func (h *ProjectHandler) ToggleFavorite(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}
	wbs, ok := parseWbsParam(c)
	if !ok {
		return
	}

	favorited, err := h.projectService.ToggleFavorite(c.Request.Context(), user, wbs)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorited": favorited})
}

// ListFavorites returns the current user's favorited projects
func (h *ProjectHandler) ListFavorites(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}

	projects, err := h.projectService.GetFavorites(c.Request.Context(), user)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProjectResponses(projects))
}
