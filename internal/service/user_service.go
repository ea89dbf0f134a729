package service

import (
	"context"

	dom "userapi/internal/domain"
	"userapi/internal/repo"
)

// UserService implements the user CRUD operations on top of a UserRepo.
// It keeps no state between calls; storage errors are returned unchanged.
type UserService struct {
	repo repo.UserRepo
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]dom.User, error) {
	return s.repo.FindAll(ctx)
}

// GetUserByID reports found=false with a nil error when no user has that id.
func (s *UserService) GetUserByID(ctx context.Context, id string) (dom.User, bool, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateUser persists u and returns it with its assigned id.
func (s *UserService) CreateUser(ctx context.Context, u dom.User) (dom.User, error) {
	return s.repo.Save(ctx, u)
}

// DeleteUserByID returns false without touching the store when id is absent.
func (s *UserService) DeleteUserByID(ctx context.Context, id string) (bool, error) {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateUserByID overwrites every mutable field of the stored user with the
// values in patch, empty ones included. patch.ID is ignored.
func (s *UserService) UpdateUserByID(ctx context.Context, id string, patch dom.User) (bool, error) {
	existing, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	existing.Name = patch.Name
	existing.Email = patch.Email
	existing.Phone = patch.Phone
	existing.Address = patch.Address
	if _, err := s.repo.Save(ctx, existing); err != nil {
		return false, err
	}
	return true, nil
}
