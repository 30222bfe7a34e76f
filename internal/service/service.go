package service

import (
	"errors"

	"github.com/apexracing/waypoint-backend/internal/config"
	"github.com/apexracing/waypoint-backend/internal/db"
	"github.com/apexracing/waypoint-backend/internal/email"
	"github.com/apexracing/waypoint-backend/internal/notification"
	"github.com/apexracing/waypoint-backend/internal/repository"
	"github.com/apexracing/waypoint-backend/internal/socket"
	"github.com/apexracing/waypoint-backend/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthorized       = errors.New("unauthorized")
)

// ============================================
// Services Container
// ============================================

type Services struct {
	Auth          AuthService
	User          UserService
	Team          TeamService
	Project       ProjectService
	WorkPackage   WorkPackageService
	Risk          RiskService
	Reimbursement ReimbursementService
	Notification  NotificationService
	Permission    PermissionService
	Broadcaster   *socket.Broadcaster
}

// ServiceDeps contains all dependencies needed to create services
type ServiceDeps struct {
	Config       *config.Config
	Repos        *repository.Repositories
	NotifSvc     *notification.Service
	EmailSvc     *email.Service
	ReceiptStore storage.ReceiptStore
	Cache        *db.RedisDB
	Broadcaster  *socket.Broadcaster
}

func NewServices(deps *ServiceDeps) *Services {
	// PermissionService first, the orchestrators depend on it
	permissionService := NewPermissionService()

	return &Services{
		Auth: NewAuthService(deps.Config, deps.Repos.UserRepo),
		User: NewUserService(deps.Repos.UserRepo, permissionService),
		Team: NewTeamService(
			deps.Repos.TeamRepo,
			deps.Repos.UserRepo,
			permissionService,
			deps.NotifSvc,
			deps.Broadcaster,
		),
		Project: NewProjectService(
			deps.Repos.ProjectRepo,
			deps.Repos.TeamRepo,
			deps.Repos.UserRepo,
			permissionService,
			deps.Broadcaster,
		),
		WorkPackage: NewWorkPackageService(
			deps.Repos.WorkPackageRepo,
			deps.Repos.ProjectRepo,
			deps.Repos.DescriptionBulletRepo,
			permissionService,
			deps.NotifSvc,
			deps.Broadcaster,
		),
		Risk: NewRiskService(
			deps.Repos.RiskRepo,
			deps.Repos.ProjectRepo,
			permissionService,
			deps.NotifSvc,
			deps.Broadcaster,
		),
		Reimbursement: NewReimbursementService(
			deps.Repos.ReimbursementRepo,
			deps.Repos.ProjectRepo,
			permissionService,
			deps.EmailSvc,
			deps.ReceiptStore,
			deps.Cache,
			deps.NotifSvc,
			deps.Broadcaster,
		),
		Notification: NewNotificationService(deps.Repos.NotificationRepo),
		Permission:   permissionService,
		Broadcaster:  deps.Broadcaster,
	}
}
