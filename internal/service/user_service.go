package service

import (
	"context"

	"github.com/apexracing/waypoint-backend/internal/repository"
	"github.com/apexracing/waypoint-backend/internal/types"
)

// ============================================
// User Service
// ============================================

type UserService interface {
	GetAll(ctx context.Context) ([]*repository.User, error)
	GetByID(ctx context.Context, id string) (*repository.User, error)
	GetByEmail(ctx context.Context, email string) (*repository.User, error)
	Update(ctx context.Context, id string, firstName, lastName, avatar *string) (*repository.User, error)
	// UpdateRole changes another user's role. Admin only, and never to a
	// role above the actor's own.
	UpdateRole(ctx context.Context, actor *repository.User, targetID, newRole string) (*repository.User, error)
}

type userService struct {
	userRepo    repository.UserRepository
	permissions PermissionService
}

func NewUserService(userRepo repository.UserRepository, permissions PermissionService) UserService {
	return &userService{userRepo: userRepo, permissions: permissions}
}

func (s *userService) GetAll(ctx context.Context) ([]*repository.User, error) {
	return s.userRepo.FindAll(ctx)
}

func (s *userService) GetByID(ctx context.Context, id string) (*repository.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NewNotFound("User", id)
	}
	return user, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NewNotFound("User", email)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id string, firstName, lastName, avatar *string) (*repository.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if firstName != nil {
		user.FirstName = *firstName
	}
	if lastName != nil {
		user.LastName = *lastName
	}
	if avatar != nil {
		user.Avatar = avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateRole(ctx context.Context, actor *repository.User, targetID, newRole string) (*repository.User, error) {
	if !types.IsValidRole(newRole) {
		return nil, NewValidation("%s is not a valid role", newRole)
	}
	if !s.permissions.CanUpdateRole(actor, newRole) {
		return nil, NewAccessDenied("you cannot promote users above your own role")
	}
	if actor.ID == targetID {
		return nil, NewValidation("you cannot change your own role")
	}

	target, err := s.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateRole(ctx, target.ID, newRole); err != nil {
		return nil, err
	}
	target.Role = newRole
	return target, nil
}
