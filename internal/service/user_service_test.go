package service

import (
	"context"
	"testing"

	"github.com/apexracing/waypoint-backend/internal/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUserService(userRepo *userRepoMock) UserService {
	return NewUserService(userRepo, NewPermissionService())
}

func TestUpdateRoleRejectsUnknownRole(t *testing.T) {
	svc := newUserService(&userRepoMock{})
	admin := userWithRole("admin-1", types.RoleAdmin)

	_, err := svc.UpdateRole(context.Background(), admin, "target-1", "SUPER_USER")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestUpdateRoleRejectsNonAdmins(t *testing.T) {
	svc := newUserService(&userRepoMock{})
	head := userWithRole("head-1", types.RoleHead)

	_, err := svc.UpdateRole(context.Background(), head, "target-1", types.RoleMember)

	var aerr *AccessDeniedError
	require.ErrorAs(t, err, &aerr)
}

func TestUpdateRoleRejectsPromotionAboveOwnRank(t *testing.T) {
	svc := newUserService(&userRepoMock{})
	admin := userWithRole("admin-1", types.RoleAdmin)

	_, err := svc.UpdateRole(context.Background(), admin, "target-1", types.RoleAppAdmin)

	var aerr *AccessDeniedError
	require.ErrorAs(t, err, &aerr)
}

func TestUpdateRoleRejectsSelfChange(t *testing.T) {
	svc := newUserService(&userRepoMock{})
	admin := userWithRole("admin-1", types.RoleAdmin)

	_, err := svc.UpdateRole(context.Background(), admin, "admin-1", types.RoleMember)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestUpdateRoleSuccess(t *testing.T) {
	userRepo := &userRepoMock{}
	target := userWithRole("target-1", types.RoleMember)
	userRepo.On("FindByID", mock.Anything, "target-1").Return(target, nil)
	userRepo.On("UpdateRole", mock.Anything, "target-1", types.RoleLeadership).Return(nil)

	svc := newUserService(userRepo)
	admin := userWithRole("admin-1", types.RoleAdmin)

	updated, err := svc.UpdateRole(context.Background(), admin, "target-1", types.RoleLeadership)
	require.NoError(t, err)
	require.Equal(t, types.RoleLeadership, updated.Role)
	userRepo.AssertExpectations(t)
}

func TestGetByIDNotFound(t *testing.T) {
	userRepo := &userRepoMock{}
	userRepo.On("FindByID", mock.Anything, "missing").Return(nil, nil)

	svc := newUserService(userRepo)

	_, err := svc.GetByID(context.Background(), "missing")

	var nferr *NotFoundError
	require.ErrorAs(t, err, &nferr)
}
