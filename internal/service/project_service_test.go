package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/apexracing/waypoint-backend/internal/repository"
	"github.com/apexracing/waypoint-backend/internal/types"
)

func newProjectService(projectRepo *projectRepoMock) ProjectService {
	return NewProjectService(projectRepo, &teamRepoMock{}, &userRepoMock{}, NewPermissionService(), nil)
}

func chassisProject() *repository.Project {
	return &repository.Project{
		ID: "project-1",
		WbsElement: &repository.WbsElement{
			ID:            "wbs-1",
			CarNumber:     1,
			ProjectNumber: 1,
		},
	}
}

func TestDeleteProjectRejectsWorkPackageWbs(t *testing.T) {
	// 1.1.1 points at a work package, no lookup should happen
	svc := newProjectService(&projectRepoMock{})
	admin := userWithRole("admin-1", types.RoleAdmin)

	_, err := svc.Delete(context.Background(), admin, types.WbsNumber{CarNumber: 1, ProjectNumber: 1, WorkPackageNumber: 1})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestDeleteProjectAdminOnly(t *testing.T) {
	svc := newProjectService(&projectRepoMock{})
	lead := userWithRole("lead-1", types.RoleLeadership)

	_, err := svc.Delete(context.Background(), lead, types.WbsNumber{CarNumber: 1, ProjectNumber: 1})

	var aerr *AccessDeniedError
	require.ErrorAs(t, err, &aerr)
}

func TestDeleteProjectTwice(t *testing.T) {
	wbs := types.WbsNumber{CarNumber: 1, ProjectNumber: 1}
	project := chassisProject()

	projectRepo := &projectRepoMock{}
	projectRepo.On("FindProjectByWbs", mock.Anything, wbs).Return(project, nil)
	projectRepo.On("SoftDeleteProject", mock.Anything, "project-1", "admin-1", mock.Anything).Return(nil)

	svc := newProjectService(projectRepo)
	admin := userWithRole("admin-1", types.RoleAdmin)

	deleted, err := svc.Delete(context.Background(), admin, wbs)
	require.NoError(t, err)
	require.True(t, deleted.WbsElement.IsDeleted())

	// the shared fixture now carries date_deleted, as a reload would
	_, err = svc.Delete(context.Background(), admin, wbs)

	var derr *DeletedError
	require.ErrorAs(t, err, &derr)
}

func TestToggleFavoriteUnknownProject(t *testing.T) {
	wbs := types.WbsNumber{CarNumber: 2, ProjectNumber: 9}

	projectRepo := &projectRepoMock{}
	projectRepo.On("FindProjectByWbs", mock.Anything, wbs).Return(nil, nil)

	svc := newProjectService(projectRepo)
	member := userWithRole("member-1", types.RoleMember)

	_, err := svc.ToggleFavorite(context.Background(), member, wbs)

	var nerr *NotFoundError
	require.ErrorAs(t, err, &nerr)
}

func TestToggleFavoriteRejectsWorkPackageWbs(t *testing.T) {
	// shape is validated before any lookup, so no repo stubs
	svc := newProjectService(&projectRepoMock{})
	member := userWithRole("member-1", types.RoleMember)

	_, err := svc.ToggleFavorite(context.Background(), member, types.WbsNumber{CarNumber: 1, ProjectNumber: 1, WorkPackageNumber: 2})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestToggleFavoriteFlipsState(t *testing.T) {
	wbs := types.WbsNumber{CarNumber: 1, ProjectNumber: 1}

	projectRepo := &projectRepoMock{}
	projectRepo.On("FindProjectByWbs", mock.Anything, wbs).Return(chassisProject(), nil)
	projectRepo.On("IsFavorite", mock.Anything, "member-1", "project-1").Return(true, nil)
	projectRepo.On("SetFavorite", mock.Anything, "member-1", "project-1", false).Return(nil)

	svc := newProjectService(projectRepo)
	member := userWithRole("member-1", types.RoleMember)

	favorite, err := svc.ToggleFavorite(context.Background(), member, wbs)
	require.NoError(t, err)
	require.False(t, favorite)
}
