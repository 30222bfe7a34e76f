package service

import (
	"context"
	"time"

	"github.com/apexracing/waypoint-backend/internal/notification"
	"github.com/apexracing/waypoint-backend/internal/repository"
	"github.com/apexracing/waypoint-backend/internal/socket"
	"github.com/apexracing/waypoint-backend/internal/types"
)

// ============================================
// Work Package Service
// ============================================

// WorkPackageService defines work package operations
type WorkPackageService interface {
	GetSingle(ctx context.Context, wbs types.WbsNumber) (*repository.WorkPackage, error)
	Create(ctx context.Context, user *repository.User, projectWbs types.WbsNumber, name string, startDate time.Time, duration int, expectedActivities, deliverables []string) (types.WbsNumber, error)
	Edit(ctx context.Context, user *repository.User, wbs types.WbsNumber, name string, startDate time.Time, duration int) (*repository.WorkPackage, error)
	Delete(ctx context.Context, user *repository.User, wbs types.WbsNumber) (*repository.WorkPackage, error)
	// MarkComplete transitions the work package to complete. It fails unless
	// every non-deleted expected activity and deliverable has been checked;
	// the gate is re-evaluated on every attempt.
	MarkComplete(ctx context.Context, user *repository.User, wbs types.WbsNumber) (*repository.WorkPackage, error)
	// CheckDescriptionBullet toggles a bullet's checked state
	CheckDescriptionBullet(ctx context.Context, user *repository.User, bulletID string) (*repository.DescriptionBullet, error)
}

type workPackageService struct {
	workPackageRepo repository.WorkPackageRepository
	projectRepo     repository.ProjectRepository
	bulletRepo      repository.DescriptionBulletRepository
	permissions     PermissionService
	notifSvc        *notification.Service
	broadcaster     *socket.Broadcaster
}

// NewWorkPackageService creates a new work package service
func NewWorkPackageService(
	workPackageRepo repository.WorkPackageRepository,
	projectRepo repository.ProjectRepository,
	bulletRepo repository.DescriptionBulletRepository,
	permissions PermissionService,
	notifSvc *notification.Service,
	broadcaster *socket.Broadcaster,
) WorkPackageService {
	return &workPackageService{
		workPackageRepo: workPackageRepo,
		projectRepo:     projectRepo,
		bulletRepo:      bulletRepo,
		permissions:     permissions,
		notifSvc:        notifSvc,
		broadcaster:     broadcaster,
	}
}

// requireWorkPackageWbs rejects WBS numbers that do not identify a work
// package. Shape is checked before any lookup.
func requireWorkPackageWbs(wbs types.WbsNumber) error {
	if !wbs.IsWorkPackage() {
		return NewValidation("%s is not a valid work package WBS #", wbs.String())
	}
	return nil
}

func (s *workPackageService) GetSingle(ctx context.Context, wbs types.WbsNumber) (*repository.WorkPackage, error) {
	if err := requireWorkPackageWbs(wbs); err != nil {
		return nil, err
	}

	wp, err := s.workPackageRepo.FindByWbs(ctx, wbs)
	if err != nil {
		return nil, err
	}
	if wp == nil {
		return nil, NewNotFound("Work Package", wbs.String())
	}
	if wp.WbsElement != nil && wp.WbsElement.IsDeleted() {
		return nil, NewDeleted("Work Package", wp.ID)
	}
	return wp, nil
}

func (s *workPackageService) Create(ctx context.Context, user *repository.User, projectWbs types.WbsNumber, name string, startDate time.Time, duration int, expectedActivities, deliverables []string) (types.WbsNumber, error) {
	if types.IsGuest(user.Role) {
		return types.WbsNumber{}, NewAccessDenied("guests cannot create work packages")
	}
	if err := requireProjectWbs(projectWbs); err != nil {
		return types.WbsNumber{}, err
	}

	project, err := s.projectRepo.FindProjectByWbs(ctx, projectWbs)
	if err != nil {
		return types.WbsNumber{}, err
	}
	if project == nil {
		return types.WbsNumber{}, NewNotFound("Project", projectWbs.String())
	}
	if project.WbsElement != nil && project.WbsElement.IsDeleted() {
		return types.WbsNumber{}, NewDeleted("Project", project.ID)
	}

	// next work package number within the project
	highest := 0
	for _, existing := range project.WorkPackages {
		if existing.WbsElement != nil && existing.WbsElement.WorkPackageNumber > highest {
			highest = existing.WbsElement.WorkPackageNumber
		}
	}

	element := &repository.WbsElement{
		CarNumber:         projectWbs.CarNumber,
		ProjectNumber:     projectWbs.ProjectNumber,
		WorkPackageNumber: highest + 1,
		Name:              name,
		Status:            types.WbsInactive,
	}
	wp := &repository.WorkPackage{
		ProjectID:      project.ID,
		OrderInProject: len(project.WorkPackages) + 1,
		StartDate:      startDate,
		Duration:       duration,
	}
	if err := s.workPackageRepo.Create(ctx, element, wp); err != nil {
		return types.WbsNumber{}, err
	}

	for _, detail := range expectedActivities {
		bullet := &repository.DescriptionBullet{
			Detail:        detail,
			Type:          types.BulletExpectedActivity,
			WorkPackageID: &wp.ID,
		}
		if err := s.bulletRepo.Create(ctx, bullet); err != nil {
			return types.WbsNumber{}, err
		}
	}
	for _, detail := range deliverables {
		bullet := &repository.DescriptionBullet{
			Detail:        detail,
			Type:          types.BulletDeliverable,
			WorkPackageID: &wp.ID,
		}
		if err := s.bulletRepo.Create(ctx, bullet); err != nil {
			return types.WbsNumber{}, err
		}
	}

	return element.WbsNumber(), nil
}

func (s *workPackageService) Edit(ctx context.Context, user *repository.User, wbs types.WbsNumber, name string, startDate time.Time, duration int) (*repository.WorkPackage, error) {
	wp, err := s.GetSingle(ctx, wbs)
	if err != nil {
		return nil, err
	}
	if !s.permissions.CanCheckBullet(user, wp.WbsElement) {
		return nil, NewAccessDenied("you do not have permission to edit this work package")
	}

	wp.WbsElement.Name = name
	wp.StartDate = startDate
	wp.Duration = duration

	if err := s.workPackageRepo.Update(ctx, wp); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastWorkPackageUpdated(wp.ID)
	}

	return wp, nil
}

func (s *workPackageService) Delete(ctx context.Context, user *repository.User, wbs types.WbsNumber) (*repository.WorkPackage, error) {
	if err := requireWorkPackageWbs(wbs); err != nil {
		return nil, err
	}
	if !s.permissions.CanDeleteProject(user) {
		return nil, NewAccessDenied("admin-only: delete work packages")
	}

	wp, err := s.workPackageRepo.FindByWbs(ctx, wbs)
	if err != nil {
		return nil, err
	}
	if wp == nil {
		return nil, NewNotFound("Work Package", wbs.String())
	}
	if wp.WbsElement != nil && wp.WbsElement.IsDeleted() {
		return nil, NewDeleted("Work Package", wp.ID)
	}

	now := time.Now()
	if err := s.workPackageRepo.SoftDelete(ctx, wp.WbsElementID, user.ID, now); err != nil {
		return nil, err
	}
	wp.WbsElement.MarkDeleted(user.ID, now)

	return wp, nil
}

// uncheckedBullets reports whether any non-deleted bullet is unchecked
func uncheckedBullets(bullets []*repository.DescriptionBullet) bool {
	for _, bullet := range bullets {
		if !bullet.IsDeleted() && !bullet.IsChecked() {
			return true
		}
	}
	return false
}

func (s *workPackageService) MarkComplete(ctx context.Context, user *repository.User, wbs types.WbsNumber) (*repository.WorkPackage, error) {
	wp, err := s.GetSingle(ctx, wbs)
	if err != nil {
		return nil, err
	}
	if !s.permissions.CanCheckBullet(user, wp.WbsElement) {
		return nil, NewAccessDenied("you do not have permission to complete this work package")
	}

	if uncheckedBullets(wp.ExpectedActivities) {
		return nil, NewValidation("work package has unchecked expected activities")
	}
	if uncheckedBullets(wp.Deliverables) {
		return nil, NewValidation("work package has unchecked deliverables")
	}

	if err := s.workPackageRepo.UpdateStatus(ctx, wp.WbsElementID, types.WbsComplete); err != nil {
		return nil, err
	}
	wp.WbsElement.Status = types.WbsComplete

	if s.broadcaster != nil {
		s.broadcaster.BroadcastWorkPackageUpdated(wp.ID)
	}

	return wp, nil
}

func (s *workPackageService) CheckDescriptionBullet(ctx context.Context, user *repository.User, bulletID string) (*repository.DescriptionBullet, error) {
	bullet, err := s.bulletRepo.FindByID(ctx, bulletID)
	if err != nil {
		return nil, err
	}
	if bullet == nil {
		return nil, NewNotFound("Description Bullet", bulletID)
	}
	if bullet.IsDeleted() {
		return nil, NewDeleted("Description Bullet", bulletID)
	}
	if bullet.WorkPackageID == nil {
		return nil, NewValidation("description bullet does not belong to a work package")
	}

	wp, err := s.workPackageRepo.FindByID(ctx, *bullet.WorkPackageID)
	if err != nil {
		return nil, err
	}
	if wp == nil {
		return nil, NewNotFound("Work Package", *bullet.WorkPackageID)
	}
	if wp.WbsElement != nil && wp.WbsElement.IsDeleted() {
		return nil, NewDeleted("Work Package", wp.ID)
	}
	if !s.permissions.CanCheckBullet(user, wp.WbsElement) {
		return nil, NewAccessDenied("you do not have permission to check this description bullet")
	}

	if bullet.IsChecked() {
		bullet.DateTimeChecked = nil
		bullet.CheckedByID = nil
	} else {
		now := time.Now()
		bullet.DateTimeChecked = &now
		bullet.CheckedByID = &user.ID
	}
	if err := s.bulletRepo.SetChecked(ctx, bullet.ID, bullet.CheckedByID, bullet.DateTimeChecked); err != nil {
		return nil, err
	}

	return bullet, nil
}
