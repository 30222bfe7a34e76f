package service

import (
	"context"
	"time"

	"github.com/apexracing/waypoint-backend/internal/repository"
	"github.com/apexracing/waypoint-backend/internal/socket"
	"github.com/apexracing/waypoint-backend/internal/types"
)

// ============================================
// Project Service
// ============================================

// ProjectService defines project operations
type ProjectService interface {
	GetAll(ctx context.Context) ([]*repository.Project, error)
	GetSingle(ctx context.Context, wbs types.WbsNumber) (*repository.Project, error)
	Create(ctx context.Context, user *repository.User, carNumber int, name, summary string, teamID *string) (types.WbsNumber, error)
	Edit(ctx context.Context, user *repository.User, wbs types.WbsNumber, name, summary string, leadID, managerID *string) (*repository.Project, error)
	SetTeam(ctx context.Context, user *repository.User, wbs types.WbsNumber, teamID string) (*repository.Project, error)
	Delete(ctx context.Context, user *repository.User, wbs types.WbsNumber) (*repository.Project, error)
	ToggleFavorite(ctx context.Context, user *repository.User, wbs types.WbsNumber) (bool, error)
	GetFavorites(ctx context.Context, user *repository.User) ([]*repository.Project, error)
}

type projectService struct {
	projectRepo repository.ProjectRepository
	teamRepo    repository.TeamRepository
	userRepo    repository.UserRepository
	permissions PermissionService
	broadcaster *socket.Broadcaster
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo repository.ProjectRepository,
	teamRepo repository.TeamRepository,
	userRepo repository.UserRepository,
	permissions PermissionService,
	broadcaster *socket.Broadcaster,
) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		teamRepo:    teamRepo,
		userRepo:    userRepo,
		permissions: permissions,
		broadcaster: broadcaster,
	}
}

// requireProjectWbs rejects WBS numbers that do not identify a project.
// Shape is checked before any lookup.
func requireProjectWbs(wbs types.WbsNumber) error {
	if !wbs.IsProject() {
		return NewValidation("%s is not a valid project WBS #", wbs.String())
	}
	return nil
}

func (s *projectService) GetAll(ctx context.Context) ([]*repository.Project, error) {
	return s.projectRepo.FindAllProjects(ctx)
}

func (s *projectService) GetSingle(ctx context.Context, wbs types.WbsNumber) (*repository.Project, error) {
	if err := requireProjectWbs(wbs); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindProjectByWbs(ctx, wbs)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, NewNotFound("Project", wbs.String())
	}
	if project.WbsElement != nil && project.WbsElement.IsDeleted() {
		return nil, NewDeleted("Project", project.ID)
	}
	return project, nil
}

func (s *projectService) Create(ctx context.Context, user *repository.User, carNumber int, name, summary string, teamID *string) (types.WbsNumber, error) {
	if types.IsGuest(user.Role) {
		return types.WbsNumber{}, NewAccessDenied("guests cannot create projects")
	}
	if teamID != nil {
		team, err := s.teamRepo.FindByID(ctx, *teamID)
		if err != nil {
			return types.WbsNumber{}, err
		}
		if team == nil {
			return types.WbsNumber{}, NewNotFound("Team", *teamID)
		}
	}

	highest, err := s.projectRepo.HighestProjectNumber(ctx, carNumber)
	if err != nil {
		return types.WbsNumber{}, err
	}

	element := &repository.WbsElement{
		CarNumber:     carNumber,
		ProjectNumber: highest + 1,
		Name:          name,
		Status:        types.WbsInactive,
	}
	project := &repository.Project{
		Summary: summary,
		TeamID:  teamID,
	}
	if err := s.projectRepo.CreateProject(ctx, element, project); err != nil {
		return types.WbsNumber{}, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastProjectCreated(project.ID)
	}

	return element.WbsNumber(), nil
}

func (s *projectService) Edit(ctx context.Context, user *repository.User, wbs types.WbsNumber, name, summary string, leadID, managerID *string) (*repository.Project, error) {
	project, err := s.GetSingle(ctx, wbs)
	if err != nil {
		return nil, err
	}
	if !s.permissions.CanEditProject(user, project) {
		return nil, NewAccessDenied("you do not have permission to edit this project")
	}

	project.Summary = summary
	project.WbsElement.Name = name
	project.WbsElement.LeadID = leadID
	project.WbsElement.ManagerID = managerID

	if err := s.projectRepo.UpdateProject(ctx, project); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastProjectUpdated(project.ID)
	}

	return project, nil
}

func (s *projectService) SetTeam(ctx context.Context, user *repository.User, wbs types.WbsNumber, teamID string) (*repository.Project, error) {
	project, err := s.GetSingle(ctx, wbs)
	if err != nil {
		return nil, err
	}

	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, NewNotFound("Team", teamID)
	}

	if !s.permissions.CanSetProjectTeam(user) {
		return nil, NewAccessDenied("admin-only: set project teams")
	}

	if err := s.projectRepo.SetProjectTeam(ctx, project.ID, &teamID); err != nil {
		return nil, err
	}
	project.TeamID = &teamID

	return project, nil
}

func (s *projectService) Delete(ctx context.Context, user *repository.User, wbs types.WbsNumber) (*repository.Project, error) {
	if err := requireProjectWbs(wbs); err != nil {
		return nil, err
	}
	if !s.permissions.CanDeleteProject(user) {
		return nil, NewAccessDenied("admin-only: delete projects")
	}

	project, err := s.projectRepo.FindProjectByWbs(ctx, wbs)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, NewNotFound("Project", wbs.String())
	}
	if project.WbsElement != nil && project.WbsElement.IsDeleted() {
		return nil, NewDeleted("Project", project.ID)
	}

	now := time.Now()
	if err := s.projectRepo.SoftDeleteProject(ctx, project.ID, user.ID, now); err != nil {
		return nil, err
	}
	project.WbsElement.MarkDeleted(user.ID, now)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastProjectDeleted(project.ID)
	}

	return project, nil
}

// ToggleFavorite flips the acting user's favorite flag for the project and
// returns the new state
func (s *projectService) ToggleFavorite(ctx context.Context, user *repository.User, wbs types.WbsNumber) (bool, error) {
	if err := requireProjectWbs(wbs); err != nil {
		return false, err
	}

	project, err := s.projectRepo.FindProjectByWbs(ctx, wbs)
	if err != nil {
		return false, err
	}
	if project == nil {
		return false, NewNotFound("Project", wbs.String())
	}

	favorite, err := s.projectRepo.IsFavorite(ctx, user.ID, project.ID)
	if err != nil {
		return false, err
	}
	if err := s.projectRepo.SetFavorite(ctx, user.ID, project.ID, !favorite); err != nil {
		return false, err
	}
	return !favorite, nil
}

func (s *projectService) GetFavorites(ctx context.Context, user *repository.User) ([]*repository.Project, error) {
	return s.projectRepo.FindFavoritesByUser(ctx, user.ID)
}
