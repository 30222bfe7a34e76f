package models

import "time"

// ============================================
// Auth DTOs
// ============================================

type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required,min=1"`
	LastName  string `json:"lastName" binding:"required,min=1"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// ============================================
// User DTOs
// ============================================

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	Avatar    *string   `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type UpdateUserRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ============================================
// Team DTOs
// ============================================

type TeamResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Head        *UserResponse  `json:"head,omitempty"`
	Leads       []UserResponse `json:"leads"`
	Members     []UserResponse `json:"members"`
	CreatedAt   time.Time      `json:"createdAt"`
}

type SetTeamMembersRequest struct {
	UserIDs []string `json:"userIds" binding:"required"`
}

type SetTeamHeadRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type EditTeamDescriptionRequest struct {
	Description string `json:"description"`
}

// ============================================
// Project DTOs
// ============================================

type ProjectResponse struct {
	ID           string                      `json:"id"`
	WbsNum       string                      `json:"wbsNum"`
	Name         string                      `json:"name"`
	Status       string                      `json:"status"`
	Summary      string                      `json:"summary"`
	Lead         *UserResponse               `json:"lead,omitempty"`
	Manager      *UserResponse               `json:"manager,omitempty"`
	TeamID       *string                     `json:"teamId,omitempty"`
	Goals        []DescriptionBulletResponse `json:"goals"`
	Features     []DescriptionBulletResponse `json:"features"`
	Constraints  []DescriptionBulletResponse `json:"otherConstraints"`
	WorkPackages []WorkPackageResponse       `json:"workPackages"`
	DateDeleted  *time.Time                  `json:"dateDeleted,omitempty"`
}

type CreateProjectRequest struct {
	CarNumber int     `json:"carNumber" binding:"min=0"`
	Name      string  `json:"name" binding:"required"`
	Summary   string  `json:"summary" binding:"required"`
	TeamID    *string `json:"teamId,omitempty"`
}

type EditProjectRequest struct {
	Name      string  `json:"name" binding:"required"`
	Summary   string  `json:"summary" binding:"required"`
	LeadID    *string `json:"leadId,omitempty"`
	ManagerID *string `json:"managerId,omitempty"`
}

type SetProjectTeamRequest struct {
	TeamID string `json:"teamId" binding:"required"`
}

// ============================================
// Work Package DTOs
// ============================================

type WorkPackageResponse struct {
	ID                 string                      `json:"id"`
	WbsNum             string                      `json:"wbsNum"`
	Name               string                      `json:"name"`
	Status             string                      `json:"status"`
	OrderInProject     int                         `json:"orderInProject"`
	StartDate          time.Time                   `json:"startDate"`
	Duration           int                         `json:"duration"`
	ExpectedActivities []DescriptionBulletResponse `json:"expectedActivities"`
	Deliverables       []DescriptionBulletResponse `json:"deliverables"`
	DateDeleted        *time.Time                  `json:"dateDeleted,omitempty"`
}

type CreateWorkPackageRequest struct {
	ProjectWbsNum      string    `json:"projectWbsNum" binding:"required"`
	Name               string    `json:"name" binding:"required"`
	StartDate          time.Time `json:"startDate" binding:"required"`
	Duration           int       `json:"duration" binding:"required,min=1"`
	ExpectedActivities []string  `json:"expectedActivities"`
	Deliverables       []string  `json:"deliverables"`
}

type EditWorkPackageRequest struct {
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"startDate" binding:"required"`
	Duration  int       `json:"duration" binding:"required,min=1"`
}

type DescriptionBulletResponse struct {
	ID              string     `json:"id"`
	Detail          string     `json:"detail"`
	Type            string     `json:"type"`
	DateTimeChecked *time.Time `json:"dateTimeChecked,omitempty"`
	CheckedBy       *UserResponse `json:"checkedBy,omitempty"`
}

// ============================================
// Risk DTOs
// ============================================

type RiskResponse struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	Detail      string     `json:"detail"`
	IsResolved  bool       `json:"isResolved"`
	ResolvedBy  *string    `json:"resolvedBy,omitempty"`
	ResolvedAt  *time.Time `json:"resolvedAt,omitempty"`
	CreatedBy   string     `json:"createdBy"`
	DateCreated time.Time  `json:"dateCreated"`
}

type CreateRiskRequest struct {
	ProjectID string `json:"projectId" binding:"required"`
	Detail    string `json:"detail" binding:"required"`
}

type EditRiskRequest struct {
	Detail   string `json:"detail" binding:"required"`
	Resolved bool   `json:"resolved"`
}

// ============================================
// Reimbursement DTOs
// ============================================

type ReimbursementProductRequest struct {
	Name   string `json:"name" binding:"required"`
	Cost   string `json:"cost" binding:"required"`
	WbsNum string `json:"wbsNum" binding:"required"`
}

type ReimbursementRequestBody struct {
	VendorID      string                        `json:"vendorId" binding:"required"`
	Account       string                        `json:"account" binding:"required"`
	ExpenseTypeID string                        `json:"expenseTypeId" binding:"required"`
	DateOfExpense time.Time                     `json:"dateOfExpense" binding:"required"`
	TotalCost     string                        `json:"totalCost" binding:"required"`
	Products      []ReimbursementProductRequest `json:"products" binding:"required"`
}

type SetSaboNumberRequest struct {
	SaboNumber int `json:"saboNumber" binding:"required,min=1"`
}

type ReimbursementProductResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Cost   string `json:"cost"`
	WbsNum string `json:"wbsNum,omitempty"`
}

type ReceiptResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	FileID string `json:"fileId"`
}

type ReimbursementResponse struct {
	ID            string                         `json:"id"`
	SaboNumber    *int                           `json:"saboNumber,omitempty"`
	Recipient     *UserResponse                  `json:"recipient,omitempty"`
	Vendor        *VendorResponse                `json:"vendor,omitempty"`
	Account       string                         `json:"account"`
	ExpenseType   *ExpenseTypeResponse           `json:"expenseType,omitempty"`
	TotalCost     string                         `json:"totalCost"`
	Status        string                         `json:"status"`
	DateOfExpense time.Time                      `json:"dateOfExpense"`
	DateCreated   time.Time                      `json:"dateCreated"`
	Products      []ReimbursementProductResponse `json:"products"`
	Receipts      []ReceiptResponse              `json:"receipts"`
}

type VendorResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CreateVendorRequest struct {
	Name string `json:"name" binding:"required"`
}

type ExpenseTypeResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Code    int    `json:"code"`
	Allowed bool   `json:"allowed"`
}

type ExpenseTypeRequest struct {
	Name    string `json:"name" binding:"required"`
	Code    int    `json:"code" binding:"required"`
	Allowed bool   `json:"allowed"`
}

// ============================================
// Notification DTOs
// ============================================

type NotificationCountResponse struct {
	Total  int `json:"total"`
	Unread int `json:"unread"`
}

type NotificationResponse struct {
	ID        string                  `json:"id"`
	UserID    string                  `json:"userId"`
	Type      string                  `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	Read      bool                    `json:"read"`
	Data      *map[string]interface{} `json:"data,omitempty"`
	CreatedAt time.Time               `json:"createdAt"`
}
