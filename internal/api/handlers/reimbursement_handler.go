package handlers

import (
	"fmt"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/apexracing/waypoint-backend/internal/api/middleware"
	"github.com/apexracing/waypoint-backend/internal/models"
	"github.com/apexracing/waypoint-backend/internal/service"
	"github.com/apexracing/waypoint-backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ============================================
// Reimbursement Handler
// ============================================

type ReimbursementHandler struct {
	reimbursementService service.ReimbursementService
}

func parseReimbursementInput(c *gin.Context) (service.ReimbursementInput, bool) {
	var body models.ReimbursementRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return service.ReimbursementInput{}, false
	}

	totalCost, err := decimal.NewFromString(body.TotalCost)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "totalCost is not a valid amount"})
		return service.ReimbursementInput{}, false
	}

	input := service.ReimbursementInput{
		VendorID:      body.VendorID,
		Account:       body.Account,
		ExpenseTypeID: body.ExpenseTypeID,
		DateOfExpense: body.DateOfExpense,
		TotalCost:     totalCost,
	}

	for _, p := range body.Products {
		cost, err := decimal.NewFromString(p.Cost)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product cost is not a valid amount"})
			return service.ReimbursementInput{}, false
		}
		wbs, err := types.ParseWbs(p.WbsNum)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return service.ReimbursementInput{}, false
		}
		input.Products = append(input.Products, service.ReimbursementProductInput{
			Name:   p.Name,
			Cost:   cost,
			WbsNum: wbs,
		})
	}

	return input, true
}

// Create submits a new reimbursement request
func (h *ReimbursementHandler) Create(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}
	input, ok := parseReimbursementInput(c)
	if !ok {
		return
	}

	request, err := h.reimbursementService.Create(c.Request.Context(), user, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toReimbursementResponse(request))
}

// List retrieves every reimbursement request (reviewers only)
func (h *ReimbursementHandler) List(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}

	requests, err := h.reimbursementService.GetAll(c.Request.Context(), user)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toReimbursementResponses(requests))
}

// ListOwn retrieves the current user's reimbursement requests
func (h *ReimbursementHandler) ListOwn(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}

	requests, err := h.reimbursementService.GetOwn(c.Request.Context(), user)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toReimbursementResponses(requests))
}

// Get retrieves a single reimbursement request
func (h *ReimbursementHandler) Get(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}

	request, err := h.reimbursementService.GetSingle(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toReimbursementResponse(request))
}

// Edit updates a pending reimbursement request
func (h *ReimbursementHandler) Edit(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}
	input, ok := parseReimbursementInput(c)
	if !ok {
		return
	}

	request, err := h.reimbursementService.Edit(c.Request.Context(), user, c.Param("id"), input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toReimbursementResponse(request))
}

// Delete soft deletes a reimbursement request
func (h *ReimbursementHandler) Delete(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}

	if err := h.reimbursementService.Delete(c.Request.Context(), user, c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reimbursement request deleted"})
}

// SetSaboNumber assigns a sabo number to a pending request
func (h *ReimbursementHandler) SetSaboNumber(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}

	var req models.SetSaboNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.reimbursementService.SetSaboNumber(c.Request.Context(), user, c.Param("id"), req.SaboNumber)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toReimbursementResponse(request))
}

// ListPendingAdvisor returns the requests waiting to be sent to the advisor
func (h *ReimbursementHandler) ListPendingAdvisor(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}

	requests, err := h.reimbursementService.GetPendingAdvisorList(c.Request.Context(), user)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toReimbursementResponses(requests))
}

// SendPendingAdvisorList emails the advisor and advances the listed requests
func (h *ReimbursementHandler) SendPendingAdvisorList(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}

	requests, err := h.reimbursementService.SendPendingAdvisorList(c.Request.Context(), user)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toReimbursementResponses(requests))
}

// Approve marks a request as approved by the advisor
func (h *ReimbursementHandler) Approve(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}

	request, err := h.reimbursementService.Approve(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toReimbursementResponse(request))
}

// MarkDelivered marks a request's funds as delivered
func (h *ReimbursementHandler) MarkDelivered(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}

	request, err := h.reimbursementService.MarkDelivered(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toReimbursementResponse(request))
}

// UploadReceipt attaches a receipt image to a request
func (h *ReimbursementHandler) UploadReceipt(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "receipt file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read receipt file"})
		return
	}
	defer file.Close()

	receipt, err := h.reimbursementService.UploadReceipt(c.Request.Context(), user, c.Param("id"), fileHeader.Filename, file)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.ReceiptResponse{
		ID:     receipt.ID,
		Name:   receipt.Name,
		FileID: receipt.FileID,
	})
}

// DownloadReceipt streams a stored receipt image back to the caller
func (h *ReimbursementHandler) DownloadReceipt(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}

	receipt, file, err := h.reimbursementService.DownloadReceipt(c.Request.Context(), user, c.Param("fileId"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	defer file.Close()

	contentType := mime.TypeByExtension(filepath.Ext(receipt.FileID))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, -1, contentType, file, map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", receipt.Name),
	})
}

// ============================================
// Vendors & Expense Types
// ============================================

// ListVendors retrieves all vendors
func (h *ReimbursementHandler) ListVendors(c *gin.Context) {
	vendors, err := h.reimbursementService.GetAllVendors(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	resp := make([]models.VendorResponse, 0, len(vendors))
	for _, v := range vendors {
		resp = append(resp, toVendorResponse(v))
	}
	c.JSON(http.StatusOK, resp)
}

// CreateVendor registers a new vendor
func (h *ReimbursementHandler) CreateVendor(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}

	var req models.CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vendor, err := h.reimbursementService.CreateVendor(c.Request.Context(), user, req.Name)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toVendorResponse(vendor))
}

// ListExpenseTypes retrieves all expense types
func (h *ReimbursementHandler) ListExpenseTypes(c *gin.Context) {
	expenseTypes, err := h.reimbursementService.GetAllExpenseTypes(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	resp := make([]models.ExpenseTypeResponse, 0, len(expenseTypes))
	for _, e := range expenseTypes {
		resp = append(resp, toExpenseTypeResponse(e))
	}
	c.JSON(http.StatusOK, resp)
}

// CreateExpenseType registers a new expense type
func (h *ReimbursementHandler) CreateExpenseType(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}

	var req models.ExpenseTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expenseType, err := h.reimbursementService.CreateExpenseType(c.Request.Context(), user, req.Name, req.Code, req.Allowed)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toExpenseTypeResponse(expenseType))
}

// EditExpenseType updates an expense type
func (h *ReimbursementHandler) EditExpenseType(c *gin.Context) {
	user, ok := middleware.RequireCurrentUser(c)
	if !ok {
		return
	}

	var req models.ExpenseTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expenseType, err := h.reimbursementService.EditExpenseType(c.Request.Context(), user, c.Param("id"), req.Name, req.Code, req.Allowed)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toExpenseTypeResponse(expenseType))
}
