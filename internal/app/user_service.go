package app

import (
	"context"

	"github.com/nyckye/keyshop/internal/clock"
	"github.com/nyckye/keyshop/internal/domain"
)

type UserRepository interface {
	EnsureUser(ctx context.Context, user domain.User) error
}

type UserService struct {
	repo  UserRepository
	clock clock.Clock
}

func NewUserService(repo UserRepository, clk clock.Clock) *UserService {
	return &UserService{
		repo:  repo,
		clock: clk,
	}
}

// Register records a user on first contact. Calling it again for the same id
// is a no-op; existing rows keep their original name and creation time.
func (s *UserService) Register(ctx context.Context, userID, name string) error {
	if userID == "" {
		return domain.ErrUserIDRequired
	}
	return s.repo.EnsureUser(ctx, domain.User{
		ID:        userID,
		Name:      name,
		CreatedAt: s.clock.Now(),
	})
}
