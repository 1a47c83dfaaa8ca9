package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/fanzoneapp/fanzone/internal/core/domain"
	"github.com/fanzoneapp/fanzone/internal/core/ports"
)

type PostRepository struct {
	store *Store
}

var _ ports.PostRepository = (*PostRepository)(nil)

func clonePost(p *domain.Post) *domain.Post {
	cp := *p
	cp.Likes = append([]uuid.UUID(nil), p.Likes...)
	cp.Reposts = append([]uuid.UUID(nil), p.Reposts...)
	return &cp
}

func (r *PostRepository) Save(ctx context.Context, post *domain.Post) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.posts[post.ID] = clonePost(post)
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	post, ok := r.store.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return clonePost(post), nil
}

func (r *PostRepository) Recent(ctx context.Context, limit int) ([]*domain.Post, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	all := make([]*domain.Post, 0, len(r.store.posts))
	for _, post := range r.store.posts {
		all = append(all, clonePost(post))
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *PostRepository) ToggleLike(ctx context.Context, postID, userID uuid.UUID) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	post, ok := r.store.posts[postID]
	if !ok {
		return 0, domain.ErrPostNotFound
	}
	for i, id := range post.Likes {
		if id == userID {
			post.Likes = append(post.Likes[:i], post.Likes[i+1:]...)
			return len(post.Likes), nil
		}
	}
	post.Likes = append(post.Likes, userID)
	return len(post.Likes), nil
}

func (r *PostRepository) AddRepost(ctx context.Context, postID, userID uuid.UUID) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	post, ok := r.store.posts[postID]
	if !ok {
		return 0, domain.ErrPostNotFound
	}
	for _, id := range post.Reposts {
		if id == userID {
			return len(post.Reposts), nil
		}
	}
	post.Reposts = append(post.Reposts, userID)
	return len(post.Reposts), nil
}
