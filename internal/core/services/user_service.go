package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fanzoneapp/fanzone/internal/core/domain"
	"github.com/fanzoneapp/fanzone/internal/core/ports"
)

type UserService struct {
	repo ports.UserRepository
}

func NewUserService(repo ports.UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// RegisterTeam upgrades a user profile to an official team account, which
// allows it to create token-gated polls.
func (s *UserService) RegisterTeam(ctx context.Context, input ports.RegisterTeamInput) (*domain.User, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !strings.Contains(input.Email, "@") {
		return nil, &domain.ValidationError{Field: "email", Reason: "must be a valid address"}
	}

	user, err := s.repo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user.IsTeam {
		return user, nil
	}

	if err := s.repo.PromoteToTeam(ctx, input.UserID); err != nil {
		return nil, fmt.Errorf("failed to promote user to team: %w", err)
	}

	user.IsTeam = true
	user.DisplayName = input.Name
	return user, nil
}
