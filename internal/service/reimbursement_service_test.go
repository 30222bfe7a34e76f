package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/apexracing/waypoint-backend/internal/repository"
	"github.com/apexracing/waypoint-backend/internal/types"
)

func newReimbursementService(reimbRepo *reimbursementRepoMock, projectRepo *projectRepoMock) ReimbursementService {
	return NewReimbursementService(reimbRepo, projectRepo, NewPermissionService(), nil, nil, nil, nil, nil)
}

func TestReimbursementTransitions(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{types.ReimbursementPending, types.ReimbursementSaboAssigned, true},
		{types.ReimbursementSaboAssigned, types.ReimbursementAdvisorReview, true},
		{types.ReimbursementAdvisorReview, types.ReimbursementApproved, true},
		{types.ReimbursementApproved, types.ReimbursementDelivered, true},
		{types.ReimbursementPending, types.ReimbursementApproved, false},
		{types.ReimbursementPending, types.ReimbursementDelivered, false},
		{types.ReimbursementApproved, types.ReimbursementSaboAssigned, false},
		{types.ReimbursementDelivered, types.ReimbursementApproved, false},
		{types.ReimbursementDeleted, types.ReimbursementSaboAssigned, false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, canTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestTerminalReimbursementStatuses(t *testing.T) {
	require.True(t, isTerminalReimbursement(types.ReimbursementDelivered))
	require.True(t, isTerminalReimbursement(types.ReimbursementDeleted))
	require.False(t, isTerminalReimbursement(types.ReimbursementPending))
	require.False(t, isTerminalReimbursement(types.ReimbursementApproved))
}

func TestCreateReimbursementDeniedForGuests(t *testing.T) {
	svc := newReimbursementService(&reimbursementRepoMock{}, &projectRepoMock{})
	guest := userWithRole("guest-1", types.RoleGuest)

	_, err := svc.Create(context.Background(), guest, ReimbursementInput{})

	var aerr *AccessDeniedError
	require.ErrorAs(t, err, &aerr)
}

func TestCreateReimbursementRejectsBadAccount(t *testing.T) {
	svc := newReimbursementService(&reimbursementRepoMock{}, &projectRepoMock{})
	member := userWithRole("member-1", types.RoleMember)

	_, err := svc.Create(context.Background(), member, ReimbursementInput{Account: "PETTY_CASH"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCreateReimbursementRequiresProducts(t *testing.T) {
	svc := newReimbursementService(&reimbursementRepoMock{}, &projectRepoMock{})
	member := userWithRole("member-1", types.RoleMember)

	_, err := svc.Create(context.Background(), member, ReimbursementInput{Account: AccountCash})
	require.EqualError(t, err, "a reimbursement request must have at least one product")
}

func TestCreateReimbursementRejectsDisallowedExpenseType(t *testing.T) {
	reimbRepo := &reimbursementRepoMock{}
	reimbRepo.On("FindVendorByID", mock.Anything, "vendor-1").
		Return(&repository.Vendor{ID: "vendor-1", Name: "McMaster-Carr"}, nil)
	reimbRepo.On("FindExpenseTypeByID", mock.Anything, "et-1").
		Return(&repository.ExpenseType{ID: "et-1", Name: "Travel", Code: 760, Allowed: false}, nil)

	svc := newReimbursementService(reimbRepo, &projectRepoMock{})
	member := userWithRole("member-1", types.RoleMember)

	_, err := svc.Create(context.Background(), member, ReimbursementInput{
		VendorID:      "vendor-1",
		Account:       AccountBudget,
		ExpenseTypeID: "et-1",
		TotalCost:     decimal.NewFromInt(10),
		Products: []ReimbursementProductInput{
			{Name: "flight", Cost: decimal.NewFromInt(10), WbsNum: types.WbsNumber{CarNumber: 1, ProjectNumber: 1}},
		},
	})
	require.EqualError(t, err, "expense type Travel is not allowed")
}

func TestCreateReimbursementRejectsTotalMismatch(t *testing.T) {
	wbs := types.WbsNumber{CarNumber: 1, ProjectNumber: 1}
	reimbRepo := &reimbursementRepoMock{}
	reimbRepo.On("FindVendorByID", mock.Anything, "vendor-1").
		Return(&repository.Vendor{ID: "vendor-1"}, nil)
	reimbRepo.On("FindExpenseTypeByID", mock.Anything, "et-1").
		Return(&repository.ExpenseType{ID: "et-1", Allowed: true}, nil)
	projectRepo := &projectRepoMock{}
	projectRepo.On("FindWbsElement", mock.Anything, wbs).
		Return(&repository.WbsElement{ID: "wbs-1"}, nil)

	svc := newReimbursementService(reimbRepo, projectRepo)
	member := userWithRole("member-1", types.RoleMember)

	_, err := svc.Create(context.Background(), member, ReimbursementInput{
		VendorID:      "vendor-1",
		Account:       AccountCash,
		ExpenseTypeID: "et-1",
		TotalCost:     decimal.RequireFromString("86.50"),
		Products: []ReimbursementProductInput{
			{Name: "foam", Cost: decimal.RequireFromString("62.00"), WbsNum: wbs},
			{Name: "adhesive", Cost: decimal.RequireFromString("24.00"), WbsNum: wbs},
		},
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func pendingRequest(recipientID string) *repository.ReimbursementRequest {
	return &repository.ReimbursementRequest{
		ID:          "req-1",
		RecipientID: recipientID,
		Account:     AccountCash,
		TotalCost:   decimal.RequireFromString("86.50"),
		DateCreated: time.Now().Add(-24 * time.Hour),
	}
}

func TestSetSaboNumberAdminOnly(t *testing.T) {
	svc := newReimbursementService(&reimbursementRepoMock{}, &projectRepoMock{})
	member := userWithRole("member-1", types.RoleMember)

	_, err := svc.SetSaboNumber(context.Background(), member, "req-1", 42)

	var aerr *AccessDeniedError
	require.ErrorAs(t, err, &aerr)
}

func TestSetSaboNumberOnPendingRequest(t *testing.T) {
	request := pendingRequest("member-1")
	reimbRepo := &reimbursementRepoMock{}
	reimbRepo.On("FindRequestByID", mock.Anything, "req-1").Return(request, nil)
	reimbRepo.On("SetSaboNumber", mock.Anything, "req-1", 42).Return(nil)

	svc := newReimbursementService(reimbRepo, &projectRepoMock{})
	admin := userWithRole("admin-1", types.RoleAdmin)

	updated, err := svc.SetSaboNumber(context.Background(), admin, "req-1", 42)
	require.NoError(t, err)
	require.Equal(t, 42, *updated.SaboID)
	require.Equal(t, types.ReimbursementSaboAssigned, updated.Status())
	reimbRepo.AssertExpectations(t)
}

func TestApproveRejectsPendingRequest(t *testing.T) {
	reimbRepo := &reimbursementRepoMock{}
	reimbRepo.On("FindRequestByID", mock.Anything, "req-1").Return(pendingRequest("member-1"), nil)

	svc := newReimbursementService(reimbRepo, &projectRepoMock{})
	admin := userWithRole("admin-1", types.RoleAdmin)

	_, err := svc.Approve(context.Background(), admin, "req-1")
	require.EqualError(t, err, "a PENDING reimbursement request cannot be approved")
}

func TestMarkDeliveredByRecipientAfterApproval(t *testing.T) {
	sabo := 42
	approvedAt := time.Now().Add(-time.Hour)
	advisorAt := time.Now().Add(-2 * time.Hour)
	request := pendingRequest("member-1")
	request.SaboID = &sabo
	request.DatePendingAdvisor = &advisorAt
	request.DateApproved = &approvedAt

	reimbRepo := &reimbursementRepoMock{}
	reimbRepo.On("FindRequestByID", mock.Anything, "req-1").Return(request, nil)
	reimbRepo.On("MarkDelivered", mock.Anything, "req-1", mock.Anything).Return(nil)

	svc := newReimbursementService(reimbRepo, &projectRepoMock{})
	recipient := userWithRole("member-1", types.RoleMember)

	delivered, err := svc.MarkDelivered(context.Background(), recipient, "req-1")
	require.NoError(t, err)
	require.Equal(t, types.ReimbursementDelivered, delivered.Status())
}

func TestDeleteRejectsDeliveredRequest(t *testing.T) {
	sabo := 42
	now := time.Now()
	request := pendingRequest("member-1")
	request.SaboID = &sabo
	request.DatePendingAdvisor = &now
	request.DateApproved = &now
	request.DateDelivered = &now

	reimbRepo := &reimbursementRepoMock{}
	reimbRepo.On("FindRequestByID", mock.Anything, "req-1").Return(request, nil)

	svc := newReimbursementService(reimbRepo, &projectRepoMock{})
	recipient := userWithRole("member-1", types.RoleMember)

	err := svc.Delete(context.Background(), recipient, "req-1")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestGetSingleHidesOthersRequests(t *testing.T) {
	reimbRepo := &reimbursementRepoMock{}
	reimbRepo.On("FindRequestByID", mock.Anything, "req-1").Return(pendingRequest("member-1"), nil)

	svc := newReimbursementService(reimbRepo, &projectRepoMock{})
	other := userWithRole("member-2", types.RoleMember)

	_, err := svc.GetSingle(context.Background(), other, "req-1")

	var aerr *AccessDeniedError
	require.ErrorAs(t, err, &aerr)
}

func newReceiptService(reimbRepo *reimbursementRepoMock, receipts *receiptStoreMock) ReimbursementService {
	return NewReimbursementService(reimbRepo, &projectRepoMock{}, NewPermissionService(), nil, receipts, nil, nil, nil)
}

func TestDownloadReceiptByRecipient(t *testing.T) {
	receipt := &repository.Receipt{
		ID:                     "receipt-1",
		Name:                   "brake-pads.pdf",
		FileID:                 "file-1.pdf",
		ReimbursementRequestID: "req-1",
		CreatedByID:            "member-1",
	}
	reimbRepo := &reimbursementRepoMock{}
	reimbRepo.On("FindReceiptByFileID", mock.Anything, "file-1.pdf").Return(receipt, nil)
	reimbRepo.On("FindRequestByID", mock.Anything, "req-1").Return(pendingRequest("member-1"), nil)

	receipts := &receiptStoreMock{}
	receipts.On("Open", mock.Anything, "file-1.pdf").Return(io.NopCloser(strings.NewReader("%PDF-1.4")), nil)

	svc := newReceiptService(reimbRepo, receipts)
	recipient := userWithRole("member-1", types.RoleMember)

	got, file, err := svc.DownloadReceipt(context.Background(), recipient, "file-1.pdf")
	require.NoError(t, err)
	defer file.Close()

	require.Equal(t, "brake-pads.pdf", got.Name)
	contents, err := io.ReadAll(file)
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.4", string(contents))
}

func TestDownloadReceiptHiddenFromOtherMembers(t *testing.T) {
	receipt := &repository.Receipt{
		ID:                     "receipt-1",
		FileID:                 "file-1.pdf",
		ReimbursementRequestID: "req-1",
	}
	reimbRepo := &reimbursementRepoMock{}
	reimbRepo.On("FindReceiptByFileID", mock.Anything, "file-1.pdf").Return(receipt, nil)
	reimbRepo.On("FindRequestByID", mock.Anything, "req-1").Return(pendingRequest("member-1"), nil)

	svc := newReceiptService(reimbRepo, &receiptStoreMock{})
	other := userWithRole("member-2", types.RoleMember)

	_, _, err := svc.DownloadReceipt(context.Background(), other, "file-1.pdf")

	var aerr *AccessDeniedError
	require.ErrorAs(t, err, &aerr)
}

func TestDownloadReceiptUnknownFile(t *testing.T) {
	reimbRepo := &reimbursementRepoMock{}
	reimbRepo.On("FindReceiptByFileID", mock.Anything, "missing.pdf").Return(nil, nil)

	svc := newReceiptService(reimbRepo, &receiptStoreMock{})
	recipient := userWithRole("member-1", types.RoleMember)

	_, _, err := svc.DownloadReceipt(context.Background(), recipient, "missing.pdf")

	var nerr *NotFoundError
	require.ErrorAs(t, err, &nerr)
}

func TestUploadReceiptRemovesFileWhenInsertFails(t *testing.T) {
	reimbRepo := &reimbursementRepoMock{}
	reimbRepo.On("FindRequestByID", mock.Anything, "req-1").Return(pendingRequest("member-1"), nil)
	reimbRepo.On("AddReceipt", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	receipts := &receiptStoreMock{}
	receipts.On("Save", mock.Anything, "brake-pads.pdf", mock.Anything).Return("file-1.pdf", nil)
	receipts.On("Delete", mock.Anything, "file-1.pdf").Return(nil)

	svc := newReceiptService(reimbRepo, receipts)
	recipient := userWithRole("member-1", types.RoleMember)

	_, err := svc.UploadReceipt(context.Background(), recipient, "req-1", "brake-pads.pdf", strings.NewReader("%PDF-1.4"))

	require.Error(t, err)
	receipts.AssertCalled(t, "Delete", mock.Anything, "file-1.pdf")
}
