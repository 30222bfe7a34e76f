package service

import (
	"context"
	"testing"
	"time"

	"github.com/apexracing/waypoint-backend/internal/repository"
	"github.com/apexracing/waypoint-backend/internal/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRiskService(riskRepo *riskRepoMock, projectRepo *projectRepoMock) RiskService {
	return NewRiskService(riskRepo, projectRepo, NewPermissionService(), nil, nil)
}

func openRisk(creatorID string) *repository.Risk {
	return &repository.Risk{
		ID:          "risk-1",
		ProjectID:   "project-1",
		Detail:      "attenuator foam supplier backordered",
		CreatedByID: creatorID,
	}
}

func attenuatorProject(leadID string) *repository.Project {
	return &repository.Project{
		ID: "project-1",
		WbsElement: &repository.WbsElement{
			ID:     "wbs-1",
			LeadID: &leadID,
		},
	}
}

func TestRiskEditResolvesWithMetadata(t *testing.T) {
	risk := openRisk("member-1")
	riskRepo := &riskRepoMock{}
	riskRepo.On("FindByID", mock.Anything, "risk-1").Return(risk, nil)
	riskRepo.On("Update", mock.Anything, risk).Return(nil)
	projectRepo := &projectRepoMock{}
	projectRepo.On("FindProjectByID", mock.Anything, "project-1").
		Return(attenuatorProject("lead-1"), nil)

	svc := newRiskService(riskRepo, projectRepo)
	lead := userWithRole("lead-1", types.RoleMember)

	updated, err := svc.Edit(context.Background(), lead, "risk-1", "supplier confirmed", true)
	require.NoError(t, err)
	require.True(t, updated.IsResolved)
	require.NotNil(t, updated.ResolvedByID)
	require.Equal(t, "lead-1", *updated.ResolvedByID)
	require.NotNil(t, updated.ResolvedAt)
	require.Equal(t, "supplier confirmed", updated.Detail)
}

func TestRiskEditUnresolveClearsMetadata(t *testing.T) {
	resolvedBy := "lead-1"
	resolvedAt := time.Now().Add(-time.Hour)
	risk := openRisk("member-1")
	risk.IsResolved = true
	risk.ResolvedByID = &resolvedBy
	risk.ResolvedAt = &resolvedAt

	riskRepo := &riskRepoMock{}
	riskRepo.On("FindByID", mock.Anything, "risk-1").Return(risk, nil)
	riskRepo.On("Update", mock.Anything, risk).Return(nil)
	projectRepo := &projectRepoMock{}
	projectRepo.On("FindProjectByID", mock.Anything, "project-1").
		Return(attenuatorProject("lead-1"), nil)

	svc := newRiskService(riskRepo, projectRepo)
	leadership := userWithRole("other", types.RoleLeadership)

	updated, err := svc.Edit(context.Background(), leadership, "risk-1", "reopened", false)
	require.NoError(t, err)
	require.False(t, updated.IsResolved)
	require.Nil(t, updated.ResolvedByID)
	require.Nil(t, updated.ResolvedAt)
}

func TestRiskEditSameStateKeepsMetadata(t *testing.T) {
	resolvedBy := "lead-1"
	resolvedAt := time.Now().Add(-time.Hour)
	risk := openRisk("member-1")
	risk.IsResolved = true
	risk.ResolvedByID = &resolvedBy
	risk.ResolvedAt = &resolvedAt

	riskRepo := &riskRepoMock{}
	riskRepo.On("FindByID", mock.Anything, "risk-1").Return(risk, nil)
	riskRepo.On("Update", mock.Anything, risk).Return(nil)
	projectRepo := &projectRepoMock{}
	projectRepo.On("FindProjectByID", mock.Anything, "project-1").
		Return(attenuatorProject("lead-1"), nil)

	svc := newRiskService(riskRepo, projectRepo)
	leadership := userWithRole("other", types.RoleLeadership)

	updated, err := svc.Edit(context.Background(), leadership, "risk-1", "still resolved", true)
	require.NoError(t, err)
	require.Equal(t, &resolvedBy, updated.ResolvedByID)
	require.Equal(t, &resolvedAt, updated.ResolvedAt)
}

func TestRiskEditDeniedForUnrelatedMember(t *testing.T) {
	riskRepo := &riskRepoMock{}
	riskRepo.On("FindByID", mock.Anything, "risk-1").Return(openRisk("member-1"), nil)
	projectRepo := &projectRepoMock{}
	projectRepo.On("FindProjectByID", mock.Anything, "project-1").
		Return(attenuatorProject("lead-1"), nil)

	svc := newRiskService(riskRepo, projectRepo)
	member := userWithRole("member-2", types.RoleMember)

	_, err := svc.Edit(context.Background(), member, "risk-1", "noted", true)

	var aerr *AccessDeniedError
	require.ErrorAs(t, err, &aerr)
}

func TestRiskEditRejectsDeleted(t *testing.T) {
	risk := openRisk("member-1")
	risk.MarkDeleted("admin-1", time.Now())
	riskRepo := &riskRepoMock{}
	riskRepo.On("FindByID", mock.Anything, "risk-1").Return(risk, nil)

	svc := newRiskService(riskRepo, &projectRepoMock{})
	admin := userWithRole("admin-1", types.RoleAdmin)

	_, err := svc.Edit(context.Background(), admin, "risk-1", "detail", true)

	var derr *DeletedError
	require.ErrorAs(t, err, &derr)
}

func TestRiskDeleteAllowsCreator(t *testing.T) {
	risk := openRisk("member-1")
	riskRepo := &riskRepoMock{}
	riskRepo.On("FindByID", mock.Anything, "risk-1").Return(risk, nil)
	riskRepo.On("SoftDelete", mock.Anything, risk).Return(nil)
	projectRepo := &projectRepoMock{}
	projectRepo.On("FindProjectByID", mock.Anything, "project-1").
		Return(attenuatorProject("lead-1"), nil)

	svc := newRiskService(riskRepo, projectRepo)
	creator := userWithRole("member-1", types.RoleMember)

	deleted, err := svc.Delete(context.Background(), creator, "risk-1")
	require.NoError(t, err)
	require.True(t, deleted.IsDeleted())
	require.Equal(t, "member-1", *deleted.DeletedByID)
	riskRepo.AssertExpectations(t)
}

func TestRiskDeleteDeniedForOtherMember(t *testing.T) {
	riskRepo := &riskRepoMock{}
	riskRepo.On("FindByID", mock.Anything, "risk-1").Return(openRisk("member-1"), nil)
	projectRepo := &projectRepoMock{}
	projectRepo.On("FindProjectByID", mock.Anything, "project-1").
		Return(attenuatorProject("lead-1"), nil)

	svc := newRiskService(riskRepo, projectRepo)
	member := userWithRole("member-2", types.RoleMember)

	_, err := svc.Delete(context.Background(), member, "risk-1")

	var aerr *AccessDeniedError
	require.ErrorAs(t, err, &aerr)
}

func TestRiskCreateProjectNotFound(t *testing.T) {
	projectRepo := &projectRepoMock{}
	projectRepo.On("FindProjectByID", mock.Anything, "nope").Return(nil, nil)

	svc := newRiskService(&riskRepoMock{}, projectRepo)
	member := userWithRole("member-1", types.RoleMember)

	_, err := svc.Create(context.Background(), member, "nope", "detail")

	var nferr *NotFoundError
	require.ErrorAs(t, err, &nferr)
}
