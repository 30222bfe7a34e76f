package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	UserRepo              UserRepository
	TeamRepo              TeamRepository
	ProjectRepo           ProjectRepository
	WorkPackageRepo       WorkPackageRepository
	DescriptionBulletRepo DescriptionBulletRepository
	RiskRepo              RiskRepository
	ReimbursementRepo     ReimbursementRepository
	NotificationRepo      NotificationRepository
}

func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepo:              NewUserRepository(pool),
		TeamRepo:              NewTeamRepository(pool),
		ProjectRepo:           NewProjectRepository(pool),
		WorkPackageRepo:       NewWorkPackageRepository(pool),
		DescriptionBulletRepo: NewDescriptionBulletRepository(pool),
		RiskRepo:              NewRiskRepository(pool),
		ReimbursementRepo:     NewReimbursementRepository(pool),
		NotificationRepo:      NewNotificationRepository(pool),
	}
}
