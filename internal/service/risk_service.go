package service

import (
	"context"
	"time"

	"github.com/apexracing/waypoint-backend/internal/notification"
	"github.com/apexracing/waypoint-backend/internal/repository"
	"github.com/apexracing/waypoint-backend/internal/socket"
)

// ============================================
// Risk Service
// ============================================

// RiskService defines risk operations
type RiskService interface {
	Create(ctx context.Context, user *repository.User, projectID, detail string) (*repository.Risk, error)
	ListForProject(ctx context.Context, projectID string) ([]*repository.Risk, error)
	Edit(ctx context.Context, user *repository.User, riskID, detail string, resolved bool) (*repository.Risk, error)
	Delete(ctx context.Context, user *repository.User, riskID string) (*repository.Risk, error)
}

type riskService struct {
	riskRepo    repository.RiskRepository
	projectRepo repository.ProjectRepository
	permissions PermissionService
	notifSvc    *notification.Service
	broadcaster *socket.Broadcaster
}

// NewRiskService creates a new risk service
func NewRiskService(
	riskRepo repository.RiskRepository,
	projectRepo repository.ProjectRepository,
	permissions PermissionService,
	notifSvc *notification.Service,
	broadcaster *socket.Broadcaster,
) RiskService {
	return &riskService{
		riskRepo:    riskRepo,
		projectRepo: projectRepo,
		permissions: permissions,
		notifSvc:    notifSvc,
		broadcaster: broadcaster,
	}
}

// resolutionChange is the metadata update a (current, requested) resolution
// pair requires. Pairs absent from the table change nothing but the detail.
type resolutionChange struct {
	resolve   bool
	unresolve bool
}

var resolutionTable = map[[2]bool]resolutionChange{
	{false, true}: {resolve: true},
	{true, false}: {unresolve: true},
}

func (s *riskService) Create(ctx context.Context, user *repository.User, projectID, detail string) (*repository.Risk, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, NewNotFound("Project", projectID)
	}
	if project.WbsElement != nil && project.WbsElement.IsDeleted() {
		return nil, NewDeleted("Project", projectID)
	}

	risk := &repository.Risk{
		ProjectID:   projectID,
		Detail:      detail,
		CreatedByID: user.ID,
	}
	if err := s.riskRepo.Create(ctx, risk); err != nil {
		return nil, err
	}

	if s.notifSvc != nil && project.WbsElement != nil {
		s.notifSvc.SendRiskCreated(ctx, project.WbsElement, risk, user)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastRiskCreated(projectID, risk.ID)
	}

	return risk, nil
}

func (s *riskService) ListForProject(ctx context.Context, projectID string) ([]*repository.Risk, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, NewNotFound("Project", projectID)
	}
	return s.riskRepo.FindByProject(ctx, projectID)
}

func (s *riskService) Edit(ctx context.Context, user *repository.User, riskID, detail string, resolved bool) (*repository.Risk, error) {
	risk, err := s.riskRepo.FindByID(ctx, riskID)
	if err != nil {
		return nil, err
	}
	if risk == nil {
		return nil, NewNotFound("Risk", riskID)
	}
	if risk.IsDeleted() {
		return nil, NewDeleted("Risk", riskID)
	}

	project, err := s.projectRepo.FindProjectByID(ctx, risk.ProjectID)
	if err != nil {
		return nil, err
	}
	if !s.permissions.CanEditRisk(user, project) {
		return nil, NewAccessDenied("you do not have permission to edit this risk")
	}

	change := resolutionTable[[2]bool{risk.IsResolved, resolved}]
	switch {
	case change.resolve:
		now := time.Now()
		risk.ResolvedByID = &user.ID
		risk.ResolvedAt = &now
	case change.unresolve:
		risk.ResolvedByID = nil
		risk.ResolvedAt = nil
	}
	risk.IsResolved = resolved
	risk.Detail = detail

	if err := s.riskRepo.Update(ctx, risk); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastRiskUpdated(risk.ProjectID, risk.ID)
	}

	return risk, nil
}

func (s *riskService) Delete(ctx context.Context, user *repository.User, riskID string) (*repository.Risk, error) {
	risk, err := s.riskRepo.FindByID(ctx, riskID)
	if err != nil {
		return nil, err
	}
	if risk == nil {
		return nil, NewNotFound("Risk", riskID)
	}
	if risk.IsDeleted() {
		return nil, NewDeleted("Risk", riskID)
	}

	project, err := s.projectRepo.FindProjectByID(ctx, risk.ProjectID)
	if err != nil {
		return nil, err
	}
	if !s.permissions.CanDeleteRisk(user, risk, project) {
		return nil, NewAccessDenied("only the creator or a user with risk permissions can delete this risk")
	}

	risk.MarkDeleted(user.ID, time.Now())
	if err := s.riskRepo.SoftDelete(ctx, risk); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastRiskDeleted(risk.ProjectID, risk.ID)
	}

	return risk, nil
}
