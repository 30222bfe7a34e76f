package service

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/apexracing/waypoint-backend/internal/db"
	"github.com/apexracing/waypoint-backend/internal/email"
	"github.com/apexracing/waypoint-backend/internal/notification"
	"github.com/apexracing/waypoint-backend/internal/repository"
	"github.com/apexracing/waypoint-backend/internal/socket"
	"github.com/apexracing/waypoint-backend/internal/storage"
	"github.com/apexracing/waypoint-backend/internal/types"
)

// ============================================
// Reimbursement Service
// ============================================

const (
	AccountCash   = "CASH"
	AccountBudget = "BUDGET"

	vendorCacheKey      = "vendors:all"
	expenseTypeCacheKey = "expense_types:all"
	refCacheTTL         = time.Hour
)

// reimbursementTransitions is the set of allowed lifecycle moves. Deletion
// is handled separately: any non-terminal request can be deleted.
var reimbursementTransitions = map[[2]string]bool{
	{types.ReimbursementPending, types.ReimbursementSaboAssigned}:       true,
	{types.ReimbursementSaboAssigned, types.ReimbursementAdvisorReview}: true,
	{types.ReimbursementAdvisorReview, types.ReimbursementApproved}:     true,
	{types.ReimbursementApproved, types.ReimbursementDelivered}:         true,
}

func canTransition(from, to string) bool {
	return reimbursementTransitions[[2]string{from, to}]
}

func isTerminalReimbursement(status string) bool {
	return status == types.ReimbursementDelivered || status == types.ReimbursementDeleted
}

// ReimbursementProductInput is one line item of a request
type ReimbursementProductInput struct {
	Name   string
	Cost   decimal.Decimal
	WbsNum types.WbsNumber
}

// ReimbursementInput carries the user-editable fields of a request
type ReimbursementInput struct {
	VendorID      string
	Account       string
	ExpenseTypeID string
	DateOfExpense time.Time
	TotalCost     decimal.Decimal
	Products      []ReimbursementProductInput
}

// ReimbursementService defines reimbursement request operations
type ReimbursementService interface {
	Create(ctx context.Context, user *repository.User, input ReimbursementInput) (*repository.ReimbursementRequest, error)
	GetSingle(ctx context.Context, user *repository.User, id string) (*repository.ReimbursementRequest, error)
	GetAll(ctx context.Context, user *repository.User) ([]*repository.ReimbursementRequest, error)
	GetOwn(ctx context.Context, user *repository.User) ([]*repository.ReimbursementRequest, error)
	Edit(ctx context.Context, user *repository.User, id string, input ReimbursementInput) (*repository.ReimbursementRequest, error)
	Delete(ctx context.Context, user *repository.User, id string) error
	SetSaboNumber(ctx context.Context, user *repository.User, id string, saboNumber int) (*repository.ReimbursementRequest, error)
	// GetPendingAdvisorList returns every sabo-assigned request that has not
	// yet been sent to the advisor.
	GetPendingAdvisorList(ctx context.Context, user *repository.User) ([]*repository.ReimbursementRequest, error)
	// SendPendingAdvisorList emails the advisor every sabo-assigned request
	// that has not yet been sent, and moves those requests to advisor review.
	SendPendingAdvisorList(ctx context.Context, user *repository.User) ([]*repository.ReimbursementRequest, error)
	Approve(ctx context.Context, user *repository.User, id string) (*repository.ReimbursementRequest, error)
	MarkDelivered(ctx context.Context, user *repository.User, id string) (*repository.ReimbursementRequest, error)
	UploadReceipt(ctx context.Context, user *repository.User, requestID, fileName string, file io.Reader) (*repository.Receipt, error)
	// DownloadReceipt streams a stored receipt file. Visible to the
	// request's recipient and to reviewers, like the request itself.
	DownloadReceipt(ctx context.Context, user *repository.User, fileID string) (*repository.Receipt, io.ReadCloser, error)

	GetAllVendors(ctx context.Context) ([]*repository.Vendor, error)
	CreateVendor(ctx context.Context, user *repository.User, name string) (*repository.Vendor, error)
	GetAllExpenseTypes(ctx context.Context) ([]*repository.ExpenseType, error)
	CreateExpenseType(ctx context.Context, user *repository.User, name string, code int, allowed bool) (*repository.ExpenseType, error)
	EditExpenseType(ctx context.Context, user *repository.User, id, name string, code int, allowed bool) (*repository.ExpenseType, error)
}

type reimbursementService struct {
	reimbursementRepo repository.ReimbursementRepository
	projectRepo       repository.ProjectRepository
	permissions       PermissionService
	emailSvc          *email.Service
	receipts          storage.ReceiptStore
	cache             *db.RedisDB
	notifSvc          *notification.Service
	broadcaster       *socket.Broadcaster
}

// NewReimbursementService creates a new reimbursement service
func NewReimbursementService(
	reimbursementRepo repository.ReimbursementRepository,
	projectRepo repository.ProjectRepository,
	permissions PermissionService,
	emailSvc *email.Service,
	receipts storage.ReceiptStore,
	cache *db.RedisDB,
	notifSvc *notification.Service,
	broadcaster *socket.Broadcaster,
) ReimbursementService {
	return &reimbursementService{
		reimbursementRepo: reimbursementRepo,
		projectRepo:       projectRepo,
		permissions:       permissions,
		emailSvc:          emailSvc,
		receipts:          receipts,
		cache:             cache,
		notifSvc:          notifSvc,
		broadcaster:       broadcaster,
	}
}

// validateInput checks the user-editable fields of a request against the
// reference data and the charged WBS elements.
func (s *reimbursementService) validateInput(ctx context.Context, input ReimbursementInput) error {
	if input.Account != AccountCash && input.Account != AccountBudget {
		return NewValidation("%s is not a valid account", input.Account)
	}
	if len(input.Products) == 0 {
		return NewValidation("a reimbursement request must have at least one product")
	}

	vendor, err := s.reimbursementRepo.FindVendorByID(ctx, input.VendorID)
	if err != nil {
		return err
	}
	if vendor == nil {
		return NewNotFound("Vendor", input.VendorID)
	}

	expenseType, err := s.reimbursementRepo.FindExpenseTypeByID(ctx, input.ExpenseTypeID)
	if err != nil {
		return err
	}
	if expenseType == nil {
		return NewNotFound("Expense Type", input.ExpenseTypeID)
	}
	if !expenseType.Allowed {
		return NewValidation("expense type %s is not allowed", expenseType.Name)
	}

	sum := decimal.Zero
	for _, product := range input.Products {
		if err := product.WbsNum.Validate(); err != nil {
			return NewValidation("%s is not a valid WBS #", product.WbsNum.String())
		}
		element, err := s.projectRepo.FindWbsElement(ctx, product.WbsNum)
		if err != nil {
			return err
		}
		if element == nil {
			return NewNotFound("WBS Element", product.WbsNum.String())
		}
		if element.IsDeleted() {
			return NewDeleted("WBS Element", product.WbsNum.String())
		}
		sum = sum.Add(product.Cost)
	}
	if !sum.Equal(input.TotalCost) {
		return NewValidation("total cost %s does not equal the sum of product costs %s",
			input.TotalCost.String(), sum.String())
	}
	return nil
}

// productWbsElementID resolves the element id behind a product's WBS number.
// validateInput has already confirmed the element exists.
func (s *reimbursementService) productWbsElementID(ctx context.Context, wbs types.WbsNumber) (string, error) {
	element, err := s.projectRepo.FindWbsElement(ctx, wbs)
	if err != nil {
		return "", err
	}
	if element == nil {
		return "", NewNotFound("WBS Element", wbs.String())
	}
	return element.ID, nil
}

func (s *reimbursementService) Create(ctx context.Context, user *repository.User, input ReimbursementInput) (*repository.ReimbursementRequest, error) {
	if types.IsGuest(user.Role) {
		return nil, NewAccessDenied("guests cannot create reimbursement requests")
	}
	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}

	request := &repository.ReimbursementRequest{
		RecipientID:   user.ID,
		VendorID:      input.VendorID,
		Account:       input.Account,
		ExpenseTypeID: input.ExpenseTypeID,
		TotalCost:     input.TotalCost,
		DateOfExpense: input.DateOfExpense,
	}
	for _, product := range input.Products {
		elementID, err := s.productWbsElementID(ctx, product.WbsNum)
		if err != nil {
			return nil, err
		}
		request.Products = append(request.Products, &repository.ReimbursementProduct{
			Name:         product.Name,
			Cost:         product.Cost,
			WbsElementID: elementID,
		})
	}

	if err := s.reimbursementRepo.CreateRequest(ctx, request); err != nil {
		return nil, err
	}
	return s.reimbursementRepo.FindRequestByID(ctx, request.ID)
}

// requireRequest loads a live request or fails with the matching error
func (s *reimbursementService) requireRequest(ctx context.Context, id string) (*repository.ReimbursementRequest, error) {
	request, err := s.reimbursementRepo.FindRequestByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, NewNotFound("Reimbursement Request", id)
	}
	if request.IsDeleted() {
		return nil, NewDeleted("Reimbursement Request", id)
	}
	return request, nil
}

func (s *reimbursementService) GetSingle(ctx context.Context, user *repository.User, id string) (*repository.ReimbursementRequest, error) {
	request, err := s.requireRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.RecipientID != user.ID && !s.permissions.CanReviewReimbursements(user) {
		return nil, NewAccessDenied("you can only view your own reimbursement requests")
	}
	return request, nil
}

func (s *reimbursementService) GetAll(ctx context.Context, user *repository.User) ([]*repository.ReimbursementRequest, error) {
	if !s.permissions.CanReviewReimbursements(user) {
		return nil, NewAccessDenied("admin-only: view all reimbursement requests")
	}
	return s.reimbursementRepo.FindAllRequests(ctx)
}

func (s *reimbursementService) GetOwn(ctx context.Context, user *repository.User) ([]*repository.ReimbursementRequest, error) {
	return s.reimbursementRepo.FindRequestsByRecipient(ctx, user.ID)
}

func (s *reimbursementService) Edit(ctx context.Context, user *repository.User, id string, input ReimbursementInput) (*repository.ReimbursementRequest, error) {
	request, err := s.requireRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.permissions.CanEditReimbursement(user, request) {
		return nil, NewAccessDenied("only the recipient can edit a reimbursement request")
	}
	if request.Status() != types.ReimbursementPending {
		return nil, NewValidation("only pending reimbursement requests can be edited")
	}
	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}

	request.VendorID = input.VendorID
	request.Account = input.Account
	request.ExpenseTypeID = input.ExpenseTypeID
	request.TotalCost = input.TotalCost
	request.DateOfExpense = input.DateOfExpense
	request.Products = request.Products[:0]
	for _, product := range input.Products {
		elementID, err := s.productWbsElementID(ctx, product.WbsNum)
		if err != nil {
			return nil, err
		}
		request.Products = append(request.Products, &repository.ReimbursementProduct{
			ReimbursementRequestID: request.ID,
			Name:                   product.Name,
			Cost:                   product.Cost,
			WbsElementID:           elementID,
		})
	}

	if err := s.reimbursementRepo.UpdateRequest(ctx, request); err != nil {
		return nil, err
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastReimbursementUpdated(request.ID)
	}
	return s.reimbursementRepo.FindRequestByID(ctx, request.ID)
}

func (s *reimbursementService) Delete(ctx context.Context, user *repository.User, id string) error {
	request, err := s.requireRequest(ctx, id)
	if err != nil {
		return err
	}
	if !s.permissions.CanEditReimbursement(user, request) && !s.permissions.CanReviewReimbursements(user) {
		return NewAccessDenied("only the recipient can delete a reimbursement request")
	}
	if isTerminalReimbursement(request.Status()) {
		return NewValidation("a %s reimbursement request cannot be deleted", request.Status())
	}

	request.MarkDeleted(user.ID, time.Now())
	return s.reimbursementRepo.SoftDeleteRequest(ctx, request)
}

func (s *reimbursementService) SetSaboNumber(ctx context.Context, user *repository.User, id string, saboNumber int) (*repository.ReimbursementRequest, error) {
	if !s.permissions.CanReviewReimbursements(user) {
		return nil, NewAccessDenied("admin-only: assign sabo numbers")
	}
	request, err := s.requireRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canTransition(request.Status(), types.ReimbursementSaboAssigned) {
		return nil, NewValidation("a %s reimbursement request cannot be assigned a sabo number", request.Status())
	}

	if err := s.reimbursementRepo.SetSaboNumber(ctx, request.ID, saboNumber); err != nil {
		return nil, err
	}
	request.SaboID = &saboNumber

	s.notifyStatus(ctx, request)
	return request, nil
}

func (s *reimbursementService) GetPendingAdvisorList(ctx context.Context, user *repository.User) ([]*repository.ReimbursementRequest, error) {
	if !s.permissions.CanReviewReimbursements(user) {
		return nil, NewAccessDenied("admin-only: view the pending advisor list")
	}
	return s.reimbursementRepo.FindPendingAdvisor(ctx)
}

func (s *reimbursementService) SendPendingAdvisorList(ctx context.Context, user *repository.User) ([]*repository.ReimbursementRequest, error) {
	if !s.permissions.CanReviewReimbursements(user) {
		return nil, NewAccessDenied("admin-only: send the pending advisor list")
	}

	pending, err := s.reimbursementRepo.FindPendingAdvisor(ctx)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return nil, NewValidation("no reimbursement requests are waiting for advisor review")
	}

	saboNumbers := make([]int, 0, len(pending))
	ids := make([]string, 0, len(pending))
	for _, request := range pending {
		saboNumbers = append(saboNumbers, *request.SaboID)
		ids = append(ids, request.ID)
	}

	if err := s.emailSvc.SendPendingAdvisorList(saboNumbers); err != nil {
		return nil, NewDownstream("failed to email the advisor", err)
	}

	now := time.Now()
	if err := s.reimbursementRepo.MarkPendingAdvisor(ctx, ids, now); err != nil {
		return nil, err
	}
	for _, request := range pending {
		request.DatePendingAdvisor = &now
		s.notifyStatus(ctx, request)
	}
	return pending, nil
}

func (s *reimbursementService) Approve(ctx context.Context, user *repository.User, id string) (*repository.ReimbursementRequest, error) {
	if !s.permissions.CanReviewReimbursements(user) {
		return nil, NewAccessDenied("admin-only: approve reimbursement requests")
	}
	request, err := s.requireRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canTransition(request.Status(), types.ReimbursementApproved) {
		return nil, NewValidation("a %s reimbursement request cannot be approved", request.Status())
	}

	now := time.Now()
	if err := s.reimbursementRepo.Approve(ctx, request.ID, now); err != nil {
		return nil, err
	}
	request.DateApproved = &now

	s.notifyStatus(ctx, request)
	return request, nil
}

func (s *reimbursementService) MarkDelivered(ctx context.Context, user *repository.User, id string) (*repository.ReimbursementRequest, error) {
	request, err := s.requireRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.permissions.CanEditReimbursement(user, request) {
		return nil, NewAccessDenied("only the recipient can mark a reimbursement request delivered")
	}
	if !canTransition(request.Status(), types.ReimbursementDelivered) {
		return nil, NewValidation("a %s reimbursement request cannot be marked delivered", request.Status())
	}

	now := time.Now()
	if err := s.reimbursementRepo.MarkDelivered(ctx, request.ID, now); err != nil {
		return nil, err
	}
	request.DateDelivered = &now

	s.notifyStatus(ctx, request)
	return request, nil
}

func (s *reimbursementService) UploadReceipt(ctx context.Context, user *repository.User, requestID, fileName string, file io.Reader) (*repository.Receipt, error) {
	request, err := s.requireRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !s.permissions.CanEditReimbursement(user, request) && !s.permissions.CanReviewReimbursements(user) {
		return nil, NewAccessDenied("only the recipient can upload receipts")
	}

	fileID, err := s.receipts.Save(ctx, fileName, file)
	if err != nil {
		return nil, NewDownstream("failed to store the receipt", err)
	}

	receipt := &repository.Receipt{
		Name:                   fileName,
		FileID:                 fileID,
		ReimbursementRequestID: request.ID,
		CreatedByID:            user.ID,
	}
	if err := s.reimbursementRepo.AddReceipt(ctx, receipt); err != nil {
		// no row points at the file, remove it again
		s.receipts.Delete(ctx, fileID)
		return nil, err
	}
	return receipt, nil
}

func (s *reimbursementService) DownloadReceipt(ctx context.Context, user *repository.User, fileID string) (*repository.Receipt, io.ReadCloser, error) {
	receipt, err := s.reimbursementRepo.FindReceiptByFileID(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}
	if receipt == nil {
		return nil, nil, NewNotFound("Receipt", fileID)
	}

	request, err := s.requireRequest(ctx, receipt.ReimbursementRequestID)
	if err != nil {
		return nil, nil, err
	}
	if !s.permissions.CanEditReimbursement(user, request) && !s.permissions.CanReviewReimbursements(user) {
		return nil, nil, NewAccessDenied("you can only view receipts on your own reimbursement requests")
	}

	file, err := s.receipts.Open(ctx, receipt.FileID)
	if err != nil {
		return nil, nil, NewDownstream("failed to read the receipt file", err)
	}
	return receipt, file, nil
}

func (s *reimbursementService) notifyStatus(ctx context.Context, request *repository.ReimbursementRequest) {
	if s.notifSvc != nil {
		s.notifSvc.SendReimbursementStatusChanged(ctx, request.RecipientID, request.ID, request.Status())
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastReimbursementUpdated(request.ID)
	}
}

// ============================================
// Vendors and Expense Types
// ============================================

func (s *reimbursementService) GetAllVendors(ctx context.Context) ([]*repository.Vendor, error) {
	if s.cache != nil {
		var cached []*repository.Vendor
		if err := s.cache.GetCache(ctx, vendorCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	vendors, err := s.reimbursementRepo.FindAllVendors(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetCache(ctx, vendorCacheKey, vendors, refCacheTTL)
	}
	return vendors, nil
}

func (s *reimbursementService) CreateVendor(ctx context.Context, user *repository.User, name string) (*repository.Vendor, error) {
	if !s.permissions.CanReviewReimbursements(user) {
		return nil, NewAccessDenied("admin-only: create vendors")
	}
	if name == "" {
		return nil, NewValidation("vendor name must not be empty")
	}

	vendor := &repository.Vendor{Name: name}
	if err := s.reimbursementRepo.CreateVendor(ctx, vendor); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.InvalidateCache(ctx, vendorCacheKey)
	}
	return vendor, nil
}

func (s *reimbursementService) GetAllExpenseTypes(ctx context.Context) ([]*repository.ExpenseType, error) {
	if s.cache != nil {
		var cached []*repository.ExpenseType
		if err := s.cache.GetCache(ctx, expenseTypeCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	expenseTypes, err := s.reimbursementRepo.FindAllExpenseTypes(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetCache(ctx, expenseTypeCacheKey, expenseTypes, refCacheTTL)
	}
	return expenseTypes, nil
}

func (s *reimbursementService) CreateExpenseType(ctx context.Context, user *repository.User, name string, code int, allowed bool) (*repository.ExpenseType, error) {
	if !s.permissions.CanReviewReimbursements(user) {
		return nil, NewAccessDenied("admin-only: create expense types")
	}
	if name == "" {
		return nil, NewValidation("expense type name must not be empty")
	}

	expenseType := &repository.ExpenseType{Name: name, Code: code, Allowed: allowed}
	if err := s.reimbursementRepo.CreateExpenseType(ctx, expenseType); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.InvalidateCache(ctx, expenseTypeCacheKey)
	}
	return expenseType, nil
}

func (s *reimbursementService) EditExpenseType(ctx context.Context, user *repository.User, id, name string, code int, allowed bool) (*repository.ExpenseType, error) {
	if !s.permissions.CanReviewReimbursements(user) {
		return nil, NewAccessDenied("admin-only: edit expense types")
	}

	expenseType, err := s.reimbursementRepo.FindExpenseTypeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expenseType == nil {
		return nil, NewNotFound("Expense Type", id)
	}

	expenseType.Name = name
	expenseType.Code = code
	expenseType.Allowed = allowed
	if err := s.reimbursementRepo.UpdateExpenseType(ctx, expenseType); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.InvalidateCache(ctx, expenseTypeCacheKey)
	}
	return expenseType, nil
}
