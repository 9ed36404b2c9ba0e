package services

import (
	"context"

	"billing-backend/internal/models"
)

type UserService struct {
	Repo UserStore
}

func NewUserService(repo UserStore) *UserService {
	return &UserService{Repo: repo}
}

// ListUsers returns all users
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.Repo.List(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	return s.Repo.Get(ctx, id)
}
