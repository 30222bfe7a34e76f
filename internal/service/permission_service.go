package service

import (
	"github.com/apexracing/waypoint-backend/internal/repository"
	"github.com/apexracing/waypoint-backend/internal/types"
)

// ============================================
// Permission Evaluator
// ============================================

// PermissionService decides whether an actor may perform an action against a
// target entity, combining role rank, ownership and entity-specific
// exceptions. Every check returns a plain bool; callers translate false into
// an access-denied failure.
type PermissionService interface {
	// Risks: project leadership (wbs element lead/manager) or org-wide
	// leadership tier.
	CanEditRisk(user *repository.User, project *repository.Project) bool
	// Delete additionally allows the risk's creator (self-delete exception).
	CanDeleteRisk(user *repository.User, risk *repository.Risk, project *repository.Project) bool

	// Teams: admins or the current team head.
	CanManageTeam(user *repository.User, team *repository.Team) bool

	// Projects: team assignment and deletion are admin-only; edits are open
	// to leadership tier and the element's own lead/manager.
	CanSetProjectTeam(user *repository.User) bool
	CanDeleteProject(user *repository.User) bool
	CanEditProject(user *repository.User, project *repository.Project) bool

	// Work package checklist bullets: leadership tier or the owning element's
	// lead/manager.
	CanCheckBullet(user *repository.User, element *repository.WbsElement) bool

	// Reimbursements: finance review actions are admin-tier; editing is
	// reserved to the owning recipient.
	CanReviewReimbursements(user *repository.User) bool
	CanEditReimbursement(user *repository.User, request *repository.ReimbursementRequest) bool

	// Role updates: admins only, and never above the actor's own rank.
	CanUpdateRole(actor *repository.User, newRole string) bool
}

type permissionService struct{}

// NewPermissionService creates a new permission evaluator
func NewPermissionService() PermissionService {
	return &permissionService{}
}

// leadsProject reports whether the user is the lead or manager of the
// project's WBS element
func leadsProject(user *repository.User, project *repository.Project) bool {
	if project == nil || project.WbsElement == nil {
		return false
	}
	element := project.WbsElement
	if element.LeadID != nil && *element.LeadID == user.ID {
		return true
	}
	if element.ManagerID != nil && *element.ManagerID == user.ID {
		return true
	}
	return false
}

func (s *permissionService) CanEditRisk(user *repository.User, project *repository.Project) bool {
	return types.IsLeadership(user.Role) || leadsProject(user, project)
}

func (s *permissionService) CanDeleteRisk(user *repository.User, risk *repository.Risk, project *repository.Project) bool {
	if risk.CreatedByID == user.ID {
		return true
	}
	return s.CanEditRisk(user, project)
}

func (s *permissionService) CanManageTeam(user *repository.User, team *repository.Team) bool {
	return types.IsAdmin(user.Role) || user.ID == team.HeadID
}

func (s *permissionService) CanSetProjectTeam(user *repository.User) bool {
	return types.IsAdmin(user.Role)
}

func (s *permissionService) CanDeleteProject(user *repository.User) bool {
	return types.IsAdmin(user.Role)
}

func (s *permissionService) CanEditProject(user *repository.User, project *repository.Project) bool {
	return types.IsLeadership(user.Role) || leadsProject(user, project)
}

func (s *permissionService) CanCheckBullet(user *repository.User, element *repository.WbsElement) bool {
	if types.IsLeadership(user.Role) {
		return true
	}
	if element == nil {
		return false
	}
	if element.LeadID != nil && *element.LeadID == user.ID {
		return true
	}
	if element.ManagerID != nil && *element.ManagerID == user.ID {
		return true
	}
	return false
}

func (s *permissionService) CanReviewReimbursements(user *repository.User) bool {
	return types.IsAdmin(user.Role)
}

func (s *permissionService) CanEditReimbursement(user *repository.User, request *repository.ReimbursementRequest) bool {
	return request.RecipientID == user.ID
}

func (s *permissionService) CanUpdateRole(actor *repository.User, newRole string) bool {
	if !types.IsAdmin(actor.Role) {
		return false
	}
	return types.RoleRank(newRole) <= types.RoleRank(actor.Role)
}
