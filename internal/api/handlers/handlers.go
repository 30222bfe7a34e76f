package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/apexracing/waypoint-backend/internal/models"
	"github.com/apexracing/waypoint-backend/internal/repository"
	"github.com/apexracing/waypoint-backend/internal/service"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	Auth          *AuthHandler
	User          *UserHandler
	Team          *TeamHandler
	Project       *ProjectHandler
	WorkPackage   *WorkPackageHandler
	Risk          *RiskHandler
	Reimbursement *ReimbursementHandler
	Notification  *NotificationHandler
}

// NewHandlers creates all handlers
func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:          &AuthHandler{authService: services.Auth},
		User:          &UserHandler{userService: services.User},
		Team:          &TeamHandler{teamService: services.Team},
		Project:       &ProjectHandler{projectService: services.Project},
		WorkPackage:   &WorkPackageHandler{workPackageService: services.WorkPackage},
		Risk:          &RiskHandler{riskService: services.Risk},
		Reimbursement: &ReimbursementHandler{reimbursementService: services.Reimbursement},
		Notification:  &NotificationHandler{notificationService: services.Notification},
	}
}

// handleServiceError maps service errors to HTTP responses
func handleServiceError(c *gin.Context, err error) {
	var notFound *service.NotFoundError
	var deleted *service.DeletedError
	var accessDenied *service.AccessDeniedError
	var validation *service.ValidationError
	var downstream *service.DownstreamError

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &deleted):
		c.JSON(http.StatusBadRequest, gin.H{"error": deleted.Error()})
	case errors.As(err, &accessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": accessDenied.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.As(err, &downstream):
		c.JSON(http.StatusBadGateway, gin.H{"error": downstream.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, service.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// ============================================
// Response Mappers
// ============================================

func toUserResponse(u *repository.User) models.UserResponse {
	return models.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}

func toUserResponsePtr(u *repository.User) *models.UserResponse {
	if u == nil {
		return nil
	}
	resp := toUserResponse(u)
	return &resp
}

func toUserResponses(users []*repository.User) []models.UserResponse {
	resp := make([]models.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}
	return resp
}

func toTeamResponse(t *repository.Team) models.TeamResponse {
	return models.TeamResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Head:        toUserResponsePtr(t.Head),
		Leads:       toUserResponses(t.Leads),
		Members:     toUserResponses(t.Members),
		CreatedAt:   t.CreatedAt,
	}
}

func toBulletResponses(bullets []*repository.DescriptionBullet) []models.DescriptionBulletResponse {
	resp := make([]models.DescriptionBulletResponse, 0, len(bullets))
	for _, b := range bullets {
		if b.IsDeleted() {
			continue
		}
		resp = append(resp, toBulletResponse(b))
	}
	return resp
}

func toBulletResponse(b *repository.DescriptionBullet) models.DescriptionBulletResponse {
	return models.DescriptionBulletResponse{
		ID:              b.ID,
		Detail:          b.Detail,
		Type:            b.Type,
		DateTimeChecked: b.DateTimeChecked,
	}
}

func toProjectResponse(p *repository.Project) models.ProjectResponse {
	resp := models.ProjectResponse{
		ID:          p.ID,
		Summary:     p.Summary,
		TeamID:      p.TeamID,
		Goals:       toBulletResponses(p.Goals),
		Features:    toBulletResponses(p.Features),
		Constraints: toBulletResponses(p.Constraints),
	}
	if p.WbsElement != nil {
		resp.WbsNum = p.WbsElement.WbsNumber().String()
		resp.Name = p.WbsElement.Name
		resp.Status = p.WbsElement.Status
		resp.Lead = toUserResponsePtr(p.WbsElement.Lead)
		resp.Manager = toUserResponsePtr(p.WbsElement.Manager)
		resp.DateDeleted = p.WbsElement.DateDeleted
	}
	resp.WorkPackages = make([]models.WorkPackageResponse, 0, len(p.WorkPackages))
	for _, wp := range p.WorkPackages {
		resp.WorkPackages = append(resp.WorkPackages, toWorkPackageResponse(wp))
	}
	return resp
}

func toProjectResponses(projects []*repository.Project) []models.ProjectResponse {
	resp := make([]models.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		resp = append(resp, toProjectResponse(p))
	}
	return resp
}

func toWorkPackageResponse(wp *repository.WorkPackage) models.WorkPackageResponse {
	resp := models.WorkPackageResponse{
		ID:                 wp.ID,
		OrderInProject:     wp.OrderInProject,
		StartDate:          wp.StartDate,
		Duration:           wp.Duration,
		ExpectedActivities: toBulletResponses(wp.ExpectedActivities),
		Deliverables:       toBulletResponses(wp.Deliverables),
	}
	if wp.WbsElement != nil {
		resp.WbsNum = wp.WbsElement.WbsNumber().String()
		resp.Name = wp.WbsElement.Name
		resp.Status = wp.WbsElement.Status
		resp.DateDeleted = wp.WbsElement.DateDeleted
	}
	return resp
}

func toRiskResponse(r *repository.Risk) models.RiskResponse {
	return models.RiskResponse{
		ID:          r.ID,
		ProjectID:   r.ProjectID,
		Detail:      r.Detail,
		IsResolved:  r.IsResolved,
		ResolvedBy:  r.ResolvedByID,
		ResolvedAt:  r.ResolvedAt,
		CreatedBy:   r.CreatedByID,
		DateCreated: r.DateCreated,
	}
}

func toRiskResponses(risks []*repository.Risk) []models.RiskResponse {
	resp := make([]models.RiskResponse, 0, len(risks))
	for _, r := range risks {
		resp = append(resp, toRiskResponse(r))
	}
	return resp
}

func toVendorResponse(v *repository.Vendor) models.VendorResponse {
	return models.VendorResponse{ID: v.ID, Name: v.Name}
}

func toExpenseTypeResponse(e *repository.ExpenseType) models.ExpenseTypeResponse {
	return models.ExpenseTypeResponse{ID: e.ID, Name: e.Name, Code: e.Code, Allowed: e.Allowed}
}

func toReimbursementResponse(r *repository.ReimbursementRequest) models.ReimbursementResponse {
	resp := models.ReimbursementResponse{
		ID:            r.ID,
		SaboNumber:    r.SaboID,
		Recipient:     toUserResponsePtr(r.Recipient),
		Account:       r.Account,
		TotalCost:     r.TotalCost.String(),
		Status:        r.Status(),
		DateOfExpense: r.DateOfExpense,
		DateCreated:   r.DateCreated,
	}
	if r.Vendor != nil {
		vendor := toVendorResponse(r.Vendor)
		resp.Vendor = &vendor
	}
	if r.ExpenseType != nil {
		expenseType := toExpenseTypeResponse(r.ExpenseType)
		resp.ExpenseType = &expenseType
	}
	resp.Products = make([]models.ReimbursementProductResponse, 0, len(r.Products))
	for _, p := range r.Products {
		if p.DateDeleted != nil {
			continue
		}
		resp.Products = append(resp.Products, models.ReimbursementProductResponse{
			ID:   p.ID,
			Name: p.Name,
			Cost: p.Cost.String(),
		})
	}
	resp.Receipts = make([]models.ReceiptResponse, 0, len(r.Receipts))
	for _, receipt := range r.Receipts {
		if receipt.DateDeleted != nil {
			continue
		}
		resp.Receipts = append(resp.Receipts, models.ReceiptResponse{
			ID:     receipt.ID,
			Name:   receipt.Name,
			FileID: receipt.FileID,
		})
	}
	return resp
}

func toReimbursementResponses(requests []*repository.ReimbursementRequest) []models.ReimbursementResponse {
	resp := make([]models.ReimbursementResponse, 0, len(requests))
	for _, r := range requests {
		resp = append(resp, toReimbursementResponse(r))
	}
	return resp
}

func toNotificationResponse(n *repository.Notification) models.NotificationResponse {
	resp := models.NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
	if n.Data != nil {
		resp.Data = &n.Data
	}
	return resp
}
