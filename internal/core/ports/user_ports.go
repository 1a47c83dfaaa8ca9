package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/fanzoneapp/fanzone/internal/core/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	PromoteToTeam(ctx context.Context, id uuid.UUID) error
}

type RegisterTeamInput struct {
	UserID uuid.UUID
	Name   string
	Email  string
}

type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	RegisterTeam(ctx context.Context, input RegisterTeamInput) (*domain.User, error)
}
