package service

import (
	"context"
	"strings"

	"github.com/apexracing/waypoint-backend/internal/notification"
	"github.com/apexracing/waypoint-backend/internal/repository"
	"github.com/apexracing/waypoint-backend/internal/socket"
	"github.com/apexracing/waypoint-backend/internal/types"
)

// ============================================
// Team Service
// ============================================

const maxDescriptionWords = 300

// TeamService defines team operations
type TeamService interface {
	GetAll(ctx context.Context) ([]*repository.Team, error)
	GetByID(ctx context.Context, id string) (*repository.Team, error)
	SetMembers(ctx context.Context, submitter *repository.User, teamID string, userIDs []string) (*repository.Team, error)
	SetHead(ctx context.Context, submitter *repository.User, teamID, userID string) (*repository.Team, error)
	EditDescription(ctx context.Context, submitter *repository.User, teamID, description string) (*repository.Team, error)
}

type teamService struct {
	teamRepo    repository.TeamRepository
	userRepo    repository.UserRepository
	permissions PermissionService
	notifSvc    *notification.Service
	broadcaster *socket.Broadcaster
}

// NewTeamService creates a new team service
func NewTeamService(
	teamRepo repository.TeamRepository,
	userRepo repository.UserRepository,
	permissions PermissionService,
	notifSvc *notification.Service,
	broadcaster *socket.Broadcaster,
) TeamService {
	return &teamService{
		teamRepo:    teamRepo,
		userRepo:    userRepo,
		permissions: permissions,
		notifSvc:    notifSvc,
		broadcaster: broadcaster,
	}
}

func (s *teamService) GetAll(ctx context.Context) ([]*repository.Team, error) {
	return s.teamRepo.FindAll(ctx)
}

func (s *teamService) GetByID(ctx context.Context, id string) (*repository.Team, error) {
	team, err := s.teamRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, NewNotFound("Team", id)
	}
	return team, nil
}

// SetMembers replaces the team's member set. The whole update is rejected if
// any proposed member is the current head or a current lead.
func (s *teamService) SetMembers(ctx context.Context, submitter *repository.User, teamID string, userIDs []string) (*repository.Team, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, NewNotFound("Team", teamID)
	}
	if !s.permissions.CanManageTeam(submitter, team) {
		return nil, NewAccessDenied("you must be an admin or the team head to update the members")
	}

	// the members table keys on (team_id, user_id), repeated ids collapse
	userIDs = dedupe(userIDs)

	users, err := s.userRepo.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	if len(users) != len(userIDs) {
		return nil, NewNotFound("User", missingID(userIDs, users))
	}

	for _, userID := range userIDs {
		if userID == team.HeadID {
			return nil, NewValidation("team head cannot be a member")
		}
	}
	leadIDs := team.LeadIDs()
	for _, userID := range userIDs {
		for _, leadID := range leadIDs {
			if userID == leadID {
				return nil, NewValidation("team leads cannot be members")
			}
		}
	}

	if err := s.teamRepo.SetMembers(ctx, teamID, userIDs); err != nil {
		return nil, err
	}

	updated, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if s.notifSvc != nil {
		s.notifSvc.SendAddedToTeam(ctx, userIDs, team)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastTeamUpdated(teamID)
	}

	return updated, nil
}

// SetHead assigns a new head. The candidate must hold at least the head role
// and must not already head or lead a different team.
func (s *teamService) SetHead(ctx context.Context, submitter *repository.User, teamID, userID string) (*repository.Team, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, NewNotFound("Team", teamID)
	}
	if !s.permissions.CanManageTeam(submitter, team) {
		return nil, NewAccessDenied("you must be an admin or the team head to update the head")
	}

	newHead, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if newHead == nil {
		return nil, NewNotFound("User", userID)
	}
	if !types.IsHead(newHead.Role) {
		return nil, NewAccessDenied("the team head must be at least a head")
	}

	otherTeam, err := s.teamRepo.FindByHeadOrLead(ctx, userID, teamID)
	if err != nil {
		return nil, err
	}
	if otherTeam != nil {
		return nil, NewAccessDenied("the new team head must not be a head or lead of another team")
	}

	if err := s.teamRepo.SetHead(ctx, teamID, userID); err != nil {
		return nil, err
	}

	updated, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastTeamUpdated(teamID)
	}

	return updated, nil
}

func (s *teamService) EditDescription(ctx context.Context, submitter *repository.User, teamID, description string) (*repository.Team, error) {
	if len(strings.Fields(description)) > maxDescriptionWords {
		return nil, NewValidation("description must be less than %d words", maxDescriptionWords)
	}

	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, NewNotFound("Team", teamID)
	}
	if !s.permissions.CanManageTeam(submitter, team) {
		return nil, NewAccessDenied("you must be an admin or the team head to update the description")
	}

	if err := s.teamRepo.UpdateDescription(ctx, teamID, description); err != nil {
		return nil, err
	}

	updated, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastTeamUpdated(teamID)
	}

	return updated, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	var out []string
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// missingID returns the first requested id with no matching user
func missingID(ids []string, users []*repository.User) string {
	found := make(map[string]struct{}, len(users))
	for _, user := range users {
		found[user.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return id
		}
	}
	return ""
}
