package service

import (
	"testing"

	"github.com/apexracing/waypoint-backend/internal/repository"
	"github.com/apexracing/waypoint-backend/internal/types"
	"github.com/stretchr/testify/require"
)

func projectLedBy(leadID, managerID string) *repository.Project {
	element := &repository.WbsElement{CarNumber: 1, ProjectNumber: 1}
	if leadID != "" {
		element.LeadID = strPtr(leadID)
	}
	if managerID != "" {
		element.ManagerID = strPtr(managerID)
	}
	return &repository.Project{WbsElement: element}
}

func TestCanEditRisk(t *testing.T) {
	perms := NewPermissionService()
	project := projectLedBy("lead-1", "manager-1")

	require.True(t, perms.CanEditRisk(userWithRole("x", types.RoleLeadership), project))
	require.True(t, perms.CanEditRisk(userWithRole("x", types.RoleAdmin), project))
	require.True(t, perms.CanEditRisk(userWithRole("lead-1", types.RoleMember), project))
	require.True(t, perms.CanEditRisk(userWithRole("manager-1", types.RoleMember), project))
	require.False(t, perms.CanEditRisk(userWithRole("x", types.RoleMember), project))
	require.False(t, perms.CanEditRisk(userWithRole("x", types.RoleGuest), project))
}

func TestCanDeleteRiskCreatorException(t *testing.T) {
	perms := NewPermissionService()
	project := projectLedBy("lead-1", "")
	risk := &repository.Risk{CreatedByID: "creator-1"}

	// the creator may always delete their own risk
	require.True(t, perms.CanDeleteRisk(userWithRole("creator-1", types.RoleGuest), risk, project))
	require.True(t, perms.CanDeleteRisk(userWithRole("lead-1", types.RoleMember), risk, project))
	require.False(t, perms.CanDeleteRisk(userWithRole("other", types.RoleMember), risk, project))
}

func TestCanManageTeam(t *testing.T) {
	perms := NewPermissionService()
	team := &repository.Team{HeadID: "head-1"}

	require.True(t, perms.CanManageTeam(userWithRole("x", types.RoleAdmin), team))
	require.True(t, perms.CanManageTeam(userWithRole("x", types.RoleAppAdmin), team))
	require.True(t, perms.CanManageTeam(userWithRole("head-1", types.RoleHead), team))
	require.False(t, perms.CanManageTeam(userWithRole("x", types.RoleHead), team))
	require.False(t, perms.CanManageTeam(userWithRole("x", types.RoleMember), team))
}

func TestAdminOnlyProjectActions(t *testing.T) {
	perms := NewPermissionService()

	for _, role := range []string{types.RoleAdmin, types.RoleAppAdmin} {
		require.True(t, perms.CanSetProjectTeam(userWithRole("x", role)), role)
		require.True(t, perms.CanDeleteProject(userWithRole("x", role)), role)
		require.True(t, perms.CanReviewReimbursements(userWithRole("x", role)), role)
	}
	for _, role := range []string{types.RoleHead, types.RoleLeadership, types.RoleMember, types.RoleGuest} {
		require.False(t, perms.CanSetProjectTeam(userWithRole("x", role)), role)
		require.False(t, perms.CanDeleteProject(userWithRole("x", role)), role)
		require.False(t, perms.CanReviewReimbursements(userWithRole("x", role)), role)
	}
}

func TestCanEditProject(t *testing.T) {
	perms := NewPermissionService()
	project := projectLedBy("lead-1", "manager-1")

	require.True(t, perms.CanEditProject(userWithRole("x", types.RoleLeadership), project))
	require.True(t, perms.CanEditProject(userWithRole("lead-1", types.RoleMember), project))
	require.True(t, perms.CanEditProject(userWithRole("manager-1", types.RoleGuest), project))
	require.False(t, perms.CanEditProject(userWithRole("x", types.RoleMember), project))
}

func TestCanCheckBullet(t *testing.T) {
	perms := NewPermissionService()
	element := &repository.WbsElement{LeadID: strPtr("lead-1"), ManagerID: strPtr("manager-1")}

	require.True(t, perms.CanCheckBullet(userWithRole("x", types.RoleLeadership), element))
	require.True(t, perms.CanCheckBullet(userWithRole("lead-1", types.RoleMember), element))
	require.True(t, perms.CanCheckBullet(userWithRole("manager-1", types.RoleMember), element))
	require.False(t, perms.CanCheckBullet(userWithRole("x", types.RoleMember), element))
	require.False(t, perms.CanCheckBullet(userWithRole("x", types.RoleMember), nil))
}

func TestCanEditReimbursement(t *testing.T) {
	perms := NewPermissionService()
	request := &repository.ReimbursementRequest{RecipientID: "recipient-1"}

	require.True(t, perms.CanEditReimbursement(userWithRole("recipient-1", types.RoleGuest), request))
	// even admins cannot edit someone else's request
	require.False(t, perms.CanEditReimbursement(userWithRole("x", types.RoleAppAdmin), request))
}

func TestCanUpdateRole(t *testing.T) {
	perms := NewPermissionService()

	admin := userWithRole("a", types.RoleAdmin)
	appAdmin := userWithRole("b", types.RoleAppAdmin)

	require.True(t, perms.CanUpdateRole(admin, types.RoleHead))
	require.True(t, perms.CanUpdateRole(admin, types.RoleAdmin))
	require.False(t, perms.CanUpdateRole(admin, types.RoleAppAdmin))
	require.True(t, perms.CanUpdateRole(appAdmin, types.RoleAppAdmin))
	require.False(t, perms.CanUpdateRole(userWithRole("c", types.RoleHead), types.RoleMember))
}
