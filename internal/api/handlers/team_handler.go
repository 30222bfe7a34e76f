package handlers

import (
	"net/http"

	"github.com/apexracing/waypoint-backend/internal/api/middleware"
	"github.com/apexracing/waypoint-backend/internal/models"
	"github.com/apexracing/waypoint-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ============================================
// Team Handler
// ============================================

type TeamHandler struct {
	teamService service.TeamService
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teamService service.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// List returns all teams
func (h *TeamHandler) List(c *gin.Context) {
	teams, err := h.teamService.GetAll(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response := make([]models.TeamResponse, len(teams))
	for i, t := range teams {
		response[i] = toTeamResponse(t)
	}

	c.JSON(http.StatusOK, response)
}

// Get retrieves a team by ID
func (h *TeamHandler) Get(c *gin.Context) {
	team, err := h.teamService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTeamResponse(team))
}

// SetMembers replaces the team's member roster
func (h *TeamHandler) SetMembers(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}

	var req models.SetTeamMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, err := h.teamService.SetMembers(c.Request.Context(), user, c.Param("id"), req.UserIDs)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTeamResponse(team))
}

// SetHead replaces the team's head
func (h *TeamHandler) SetHead(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}

	var req models.SetTeamHeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, err := h.teamService.SetHead(c.Request.Context(), user, c.Param("id"), req.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTeamResponse(team))
}

// EditDescription updates the team's description
func (h *TeamHandler) EditDescription(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}

	var req models.EditTeamDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, err := h.teamService.EditDescription(c.Request.Context(), user, c.Param("id"), req.Description)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTeamResponse(team))
}
