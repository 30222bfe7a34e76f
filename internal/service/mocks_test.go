package service

import (
	"context"
	"io"
	"time"

	"github.com/apexracing/waypoint-backend/internal/repository"
	"github.com/apexracing/waypoint-backend/internal/storage"
	"github.com/apexracing/waypoint-backend/internal/types"
	"github.com/stretchr/testify/mock"
)

// ============================================
// Repository Mocks
// ============================================

// Mocks embed the repository interface so only the methods a test exercises
// need stubbing; calling an unstubbed method panics and fails the test.

type userRepoMock struct {
	mock.Mock
	repository.UserRepository
}

func (m *userRepoMock) FindByID(ctx context.Context, id string) (*repository.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.User), args.Error(1)
}

func (m *userRepoMock) FindByIDs(ctx context.Context, ids []string) ([]*repository.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.User), args.Error(1)
}

func (m *userRepoMock) UpdateRole(ctx context.Context, userID, role string) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

type teamRepoMock struct {
	mock.Mock
	repository.TeamRepository
}

func (m *teamRepoMock) FindByID(ctx context.Context, id string) (*repository.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Team), args.Error(1)
}

func (m *teamRepoMock) FindByHeadOrLead(ctx context.Context, userID, excludeTeamID string) (*repository.Team, error) {
	args := m.Called(ctx, userID, excludeTeamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Team), args.Error(1)
}

func (m *teamRepoMock) SetMembers(ctx context.Context, teamID string, userIDs []string) error {
	args := m.Called(ctx, teamID, userIDs)
	return args.Error(0)
}

func (m *teamRepoMock) SetHead(ctx context.Context, teamID, userID string) error {
	args := m.Called(ctx, teamID, userID)
	return args.Error(0)
}

func (m *teamRepoMock) UpdateDescription(ctx context.Context, teamID, description string) error {
	args := m.Called(ctx, teamID, description)
	return args.Error(0)
}

type projectRepoMock struct {
	mock.Mock
	repository.ProjectRepository
}

func (m *projectRepoMock) FindWbsElement(ctx context.Context, wbs types.WbsNumber) (*repository.WbsElement, error) {
	args := m.Called(ctx, wbs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.WbsElement), args.Error(1)
}

func (m *projectRepoMock) FindProjectByID(ctx context.Context, id string) (*repository.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Project), args.Error(1)
}

func (m *projectRepoMock) FindProjectByWbs(ctx context.Context, wbs types.WbsNumber) (*repository.Project, error) {
	args := m.Called(ctx, wbs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Project), args.Error(1)
}

func (m *projectRepoMock) SoftDeleteProject(ctx context.Context, projectID, deletedByID string, when time.Time) error {
	args := m.Called(ctx, projectID, deletedByID, when)
	return args.Error(0)
}

func (m *projectRepoMock) IsFavorite(ctx context.Context, userID, projectID string) (bool, error) {
	args := m.Called(ctx, userID, projectID)
	return args.Bool(0), args.Error(1)
}

func (m *projectRepoMock) SetFavorite(ctx context.Context, userID, projectID string, favorite bool) error {
	args := m.Called(ctx, userID, projectID, favorite)
	return args.Error(0)
}

type workPackageRepoMock struct {
	mock.Mock
	repository.WorkPackageRepository
}

func (m *workPackageRepoMock) FindByWbs(ctx context.Context, wbs types.WbsNumber) (*repository.WorkPackage, error) {
	args := m.Called(ctx, wbs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.WorkPackage), args.Error(1)
}

func (m *workPackageRepoMock) FindByID(ctx context.Context, id string) (*repository.WorkPackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.WorkPackage), args.Error(1)
}

func (m *workPackageRepoMock) Create(ctx context.Context, element *repository.WbsElement, workPackage *repository.WorkPackage) error {
	args := m.Called(ctx, element, workPackage)
	return args.Error(0)
}

func (m *workPackageRepoMock) UpdateStatus(ctx context.Context, wbsElementID, status string) error {
	args := m.Called(ctx, wbsElementID, status)
	return args.Error(0)
}

func (m *workPackageRepoMock) SoftDelete(ctx context.Context, wbsElementID, deletedByID string, when time.Time) error {
	args := m.Called(ctx, wbsElementID, deletedByID, when)
	return args.Error(0)
}

type bulletRepoMock struct {
	mock.Mock
	repository.DescriptionBulletRepository
}

func (m *bulletRepoMock) Create(ctx context.Context, bullet *repository.DescriptionBullet) error {
	args := m.Called(ctx, bullet)
	return args.Error(0)
}

func (m *bulletRepoMock) FindByID(ctx context.Context, id string) (*repository.DescriptionBullet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.DescriptionBullet), args.Error(1)
}

func (m *bulletRepoMock) SetChecked(ctx context.Context, id string, checkedByID *string, when *time.Time) error {
	args := m.Called(ctx, id, checkedByID, when)
	return args.Error(0)
}

type riskRepoMock struct {
	mock.Mock
	repository.RiskRepository
}

func (m *riskRepoMock) Create(ctx context.Context, risk *repository.Risk) error {
	args := m.Called(ctx, risk)
	return args.Error(0)
}

func (m *riskRepoMock) FindByID(ctx context.Context, id string) (*repository.Risk, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Risk), args.Error(1)
}

func (m *riskRepoMock) FindByProject(ctx context.Context, projectID string) ([]*repository.Risk, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Risk), args.Error(1)
}

func (m *riskRepoMock) Update(ctx context.Context, risk *repository.Risk) error {
	args := m.Called(ctx, risk)
	return args.Error(0)
}

func (m *riskRepoMock) SoftDelete(ctx context.Context, risk *repository.Risk) error {
	args := m.Called(ctx, risk)
	return args.Error(0)
}

type reimbursementRepoMock struct {
	mock.Mock
	repository.ReimbursementRepository
}

func (m *reimbursementRepoMock) FindVendorByID(ctx context.Context, id string) (*repository.Vendor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Vendor), args.Error(1)
}

func (m *reimbursementRepoMock) FindExpenseTypeByID(ctx context.Context, id string) (*repository.ExpenseType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ExpenseType), args.Error(1)
}

func (m *reimbursementRepoMock) FindRequestByID(ctx context.Context, id string) (*repository.ReimbursementRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ReimbursementRequest), args.Error(1)
}

func (m *reimbursementRepoMock) SetSaboNumber(ctx context.Context, requestID string, saboNumber int) error {
	args := m.Called(ctx, requestID, saboNumber)
	return args.Error(0)
}

func (m *reimbursementRepoMock) Approve(ctx context.Context, requestID string, when time.Time) error {
	args := m.Called(ctx, requestID, when)
	return args.Error(0)
}

func (m *reimbursementRepoMock) MarkDelivered(ctx context.Context, requestID string, when time.Time) error {
	args := m.Called(ctx, requestID, when)
	return args.Error(0)
}

func (m *reimbursementRepoMock) SoftDeleteRequest(ctx context.Context, request *repository.ReimbursementRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *reimbursementRepoMock) AddReceipt(ctx context.Context, receipt *repository.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *reimbursementRepoMock) FindReceiptByFileID(ctx context.Context, fileID string) (*repository.Receipt, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Receipt), args.Error(1)
}

type receiptStoreMock struct {
	mock.Mock
	storage.ReceiptStore
}

func (m *receiptStoreMock) Save(ctx context.Context, name string, contents io.Reader) (string, error) {
	args := m.Called(ctx, name, contents)
	return args.String(0), args.Error(1)
}

func (m *receiptStoreMock) Open(ctx context.Context, fileID string) (io.ReadCloser, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *receiptStoreMock) Delete(ctx context.Context, fileID string) error {
	args := m.Called(ctx, fileID)
	return args.Error(0)
}

// ============================================
// Fixtures
// ============================================

func strPtr(s string) *string { return &s }

func userWithRole(id, role string) *repository.User {
	return &repository.User{ID: id, Email: id + "@apexracing.edu", Role: role}
}
