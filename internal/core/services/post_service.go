package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fanzoneapp/fanzone/internal/core/domain"
	"github.com/fanzoneapp/fanzone/internal/core/ports"
)

const maxPostLength = 2000

type postService struct {
	repo ports.PostRepository
}

func NewPostService(repo ports.PostRepository) ports.PostService {
	return &postService{
		repo: repo,
	}
}

func (s *postService) Create(ctx context.Context, input ports.CreatePostInput) (*domain.Post, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, &domain.ValidationError{Field: "content", Reason: "must not be empty"}
	}
	if len(content) > maxPostLength {
		return nil, &domain.ValidationError{Field: "content", Reason: "too long"}
	}

	post := &domain.Post{
		ID:        uuid.New(),
		AuthorID:  input.AuthorID,
		Content:   content,
		ImageURL:  input.ImageURL,
		Highlight: input.Highlight,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to save post: %w", err)
	}

	return post, nil
}

func (s *postService) Recent(ctx context.Context, limit int) ([]*domain.Post, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.repo.Recent(ctx, limit)
}

func (s *postService) Like(ctx context.Context, postID, userID uuid.UUID) (int, error) {
	return s.repo.ToggleLike(ctx, postID, userID)
}

func (s *postService) Repost(ctx context.Context, postID, userID uuid.UUID) (int, error) {
	return s.repo.AddRepost(ctx, postID, userID)
}
