package service

import (
	"context"
	"errors"

	"github.com/Skotchmaster/expense_tracker/internal/repo"
	"github.com/Skotchmaster/expense_tracker/internal/transport"
)

type UserService struct {
	Repo *repo.GormRepo
}

func (s *UserService) Me(ctx context.Context, identity Identity) (*transport.UserInfo, error) {
	user, err := s.Repo.GetUserByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &transport.UserInfo{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		IsStaff:  user.IsAdmin,
	}, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]transport.UserListItem, error) {
	return s.Repo.ListUsers(ctx)
}
