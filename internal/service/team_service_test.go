package service

import (
	"context"
	"strings"
	"testing"

	"github.com/apexracing/waypoint-backend/internal/repository"
	"github.com/apexracing/waypoint-backend/internal/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTeamService(teamRepo *teamRepoMock, userRepo *userRepoMock) TeamService {
	return NewTeamService(teamRepo, userRepo, NewPermissionService(), nil, nil)
}

func chassisTeam() *repository.Team {
	return &repository.Team{
		ID:     "team-1",
		Name:   "Chassis",
		HeadID: "head-1",
		Leads:  []*repository.User{{ID: "lead-1"}},
	}
}

func TestSetMembersRequiresHeadOrAdmin(t *testing.T) {
	teamRepo := &teamRepoMock{}
	teamRepo.On("FindByID", mock.Anything, "team-1").Return(chassisTeam(), nil)

	svc := newTeamService(teamRepo, &userRepoMock{})
	member := userWithRole("member-1", types.RoleMember)

	_, err := svc.SetMembers(context.Background(), member, "team-1", []string{"u1"})

	var aerr *AccessDeniedError
	require.ErrorAs(t, err, &aerr)
}

func TestSetMembersRejectsUnknownUser(t *testing.T) {
	teamRepo := &teamRepoMock{}
	teamRepo.On("FindByID", mock.Anything, "team-1").Return(chassisTeam(), nil)
	userRepo := &userRepoMock{}
	userRepo.On("FindByIDs", mock.Anything, []string{"u1", "missing"}).
		Return([]*repository.User{{ID: "u1"}}, nil)

	svc := newTeamService(teamRepo, userRepo)
	admin := userWithRole("admin-1", types.RoleAdmin)

	_, err := svc.SetMembers(context.Background(), admin, "team-1", []string{"u1", "missing"})

	var nferr *NotFoundError
	require.ErrorAs(t, err, &nferr)
	require.Equal(t, "missing", nferr.ID)
}

func TestSetMembersRejectsHeadAsMember(t *testing.T) {
	teamRepo := &teamRepoMock{}
	teamRepo.On("FindByID", mock.Anything, "team-1").Return(chassisTeam(), nil)
	userRepo := &userRepoMock{}
	userRepo.On("FindByIDs", mock.Anything, []string{"head-1"}).
		Return([]*repository.User{{ID: "head-1"}}, nil)

	svc := newTeamService(teamRepo, userRepo)
	admin := userWithRole("admin-1", types.RoleAdmin)

	_, err := svc.SetMembers(context.Background(), admin, "team-1", []string{"head-1"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestSetMembersRejectsLeadAsMember(t *testing.T) {
	teamRepo := &teamRepoMock{}
	teamRepo.On("FindByID", mock.Anything, "team-1").Return(chassisTeam(), nil)
	userRepo := &userRepoMock{}
	userRepo.On("FindByIDs", mock.Anything, []string{"lead-1"}).
		Return([]*repository.User{{ID: "lead-1"}}, nil)

	svc := newTeamService(teamRepo, userRepo)
	admin := userWithRole("admin-1", types.RoleAdmin)

	_, err := svc.SetMembers(context.Background(), admin, "team-1", []string{"lead-1"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestSetMembersSuccessByTeamHead(t *testing.T) {
	team := chassisTeam()
	teamRepo := &teamRepoMock{}
	teamRepo.On("FindByID", mock.Anything, "team-1").Return(team, nil)
	teamRepo.On("SetMembers", mock.Anything, "team-1", []string{"u1", "u2"}).Return(nil)
	userRepo := &userRepoMock{}
	userRepo.On("FindByIDs", mock.Anything, []string{"u1", "u2"}).
		Return([]*repository.User{{ID: "u1"}, {ID: "u2"}}, nil)

	svc := newTeamService(teamRepo, userRepo)
	head := userWithRole("head-1", types.RoleHead)

	updated, err := svc.SetMembers(context.Background(), head, "team-1", []string{"u1", "u2"})
	require.NoError(t, err)
	require.NotNil(t, updated)
	teamRepo.AssertExpectations(t)
}

func TestSetMembersCollapsesRepeatedIDs(t *testing.T) {
	team := chassisTeam()
	teamRepo := &teamRepoMock{}
	teamRepo.On("FindByID", mock.Anything, "team-1").Return(team, nil)
	// only the deduplicated list may reach the repository
	teamRepo.On("SetMembers", mock.Anything, "team-1", []string{"u1", "u2"}).Return(nil)
	userRepo := &userRepoMock{}
	userRepo.On("FindByIDs", mock.Anything, []string{"u1", "u2"}).
		Return([]*repository.User{{ID: "u1"}, {ID: "u2"}}, nil)

	svc := newTeamService(teamRepo, userRepo)
	head := userWithRole("head-1", types.RoleHead)

	updated, err := svc.SetMembers(context.Background(), head, "team-1", []string{"u1", "u2", "u1", "u2"})
	require.NoError(t, err)
	require.NotNil(t, updated)
	teamRepo.AssertExpectations(t)
}

func TestSetHeadRequiresHeadRole(t *testing.T) {
	teamRepo := &teamRepoMock{}
	teamRepo.On("FindByID", mock.Anything, "team-1").Return(chassisTeam(), nil)
	userRepo := &userRepoMock{}
	userRepo.On("FindByID", mock.Anything, "candidate").
		Return(userWithRole("candidate", types.RoleLeadership), nil)

	svc := newTeamService(teamRepo, userRepo)
	admin := userWithRole("admin-1", types.RoleAdmin)

	_, err := svc.SetHead(context.Background(), admin, "team-1", "candidate")

	var aerr *AccessDeniedError
	require.ErrorAs(t, err, &aerr)
}

func TestSetHeadRejectsHeadOfAnotherTeam(t *testing.T) {
	teamRepo := &teamRepoMock{}
	teamRepo.On("FindByID", mock.Anything, "team-1").Return(chassisTeam(), nil)
	teamRepo.On("FindByHeadOrLead", mock.Anything, "candidate", "team-1").
		Return(&repository.Team{ID: "team-2"}, nil)
	userRepo := &userRepoMock{}
	userRepo.On("FindByID", mock.Anything, "candidate").
		Return(userWithRole("candidate", types.RoleHead), nil)

	svc := newTeamService(teamRepo, userRepo)
	admin := userWithRole("admin-1", types.RoleAdmin)

	_, err := svc.SetHead(context.Background(), admin, "team-1", "candidate")

	var aerr *AccessDeniedError
	require.ErrorAs(t, err, &aerr)
}

func TestEditDescriptionWordLimit(t *testing.T) {
	svc := newTeamService(&teamRepoMock{}, &userRepoMock{})
	admin := userWithRole("admin-1", types.RoleAdmin)

	long := strings.Repeat("word ", 301)
	_, err := svc.EditDescription(context.Background(), admin, "team-1", long)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestEditDescriptionSuccess(t *testing.T) {
	teamRepo := &teamRepoMock{}
	teamRepo.On("FindByID", mock.Anything, "team-1").Return(chassisTeam(), nil)
	teamRepo.On("UpdateDescription", mock.Anything, "team-1", "frame and suspension").Return(nil)

	svc := newTeamService(teamRepo, &userRepoMock{})
	head := userWithRole("head-1", types.RoleHead)

	_, err := svc.EditDescription(context.Background(), head, "team-1", "frame and suspension")
	require.NoError(t, err)
	teamRepo.AssertExpectations(t)
}
