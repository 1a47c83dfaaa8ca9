package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/fanzoneapp/fanzone/internal/core/domain"
)

type PostRepository interface {
	Save(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	Recent(ctx context.Context, limit int) ([]*domain.Post, error)
	ToggleLike(ctx context.Context, postID, userID uuid.UUID) (int, error)
	AddRepost(ctx context.Context, postID, userID uuid.UUID) (int, error)
}

type CreatePostInput struct {
	AuthorID  uuid.UUID
	Content   string
	ImageURL  string
	Highlight bool
}

type PostService interface {
	Create(ctx context.Context, input CreatePostInput) (*domain.Post, error)
	Recent(ctx context.Context, limit int) ([]*domain.Post, error)
	Like(ctx context.Context, postID, userID uuid.UUID) (int, error)
	Repost(ctx context.Context, postID, userID uuid.UUID) (int, error)
}
