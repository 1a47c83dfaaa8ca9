package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/fanzoneapp/fanzone/internal/core/domain"
	"github.com/fanzoneapp/fanzone/internal/core/ports"
)

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) ports.PostRepository {
	return &postRepository{
		db: db,
	}
}

func (r *postRepository) Save(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO posts (id, author_id, content, image_url, highlight, likes, reposts)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		post.ID, post.AuthorID, post.Content, post.ImageURL, post.Highlight,
		uuidArray(post.Likes), uuidArray(post.Reposts),
	)
	if err != nil {
		return fmt.Errorf("failed to save post: %w", err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	query := `
		SELECT id, author_id, content, image_url, highlight, likes, reposts, created_at
		FROM posts
		WHERE id = $1
	`
	return r.scanPost(r.db.QueryRowContext(ctx, query, id))
}

func (r *postRepository) Recent(ctx context.Context, limit int) ([]*domain.Post, error) {
	query := `
		SELECT id, author_id, content, image_url, highlight, likes, reposts, created_at
		FROM posts
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent posts: %w", err)
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		var post domain.Post
		var likes, reposts pq.StringArray
		if err := rows.Scan(&post.ID, &post.AuthorID, &post.Content, &post.ImageURL, &post.Highlight, &likes, &reposts, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		post.Likes = parseUUIDs(likes)
		post.Reposts = parseUUIDs(reposts)
		posts = append(posts, &post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}
	return posts, nil
}

// ToggleLike flips the user's like inside one statement so concurrent likes
// do not lose updates.
func (r *postRepository) ToggleLike(ctx context.Context, postID, userID uuid.UUID) (int, error) {
	query := `
		UPDATE posts
		SET likes = CASE
			WHEN $2 = ANY(likes) THEN array_remove(likes, $2)
			ELSE array_append(likes, $2)
		END
		WHERE id = $1
		RETURNING cardinality(likes)
	`
	var count int
	err := r.db.QueryRowContext(ctx, query, postID, userID.String()).Scan(&count)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, domain.ErrPostNotFound
		}
		return 0, fmt.Errorf("failed to toggle like: %w", err)
	}
	return count, nil
}

func (r *postRepository) AddRepost(ctx context.Context, postID, userID uuid.UUID) (int, error) {
	query := `
		UPDATE posts
		SET reposts = CASE
			WHEN $2 = ANY(reposts) THEN reposts
			ELSE array_append(reposts, $2)
		END
		WHERE id = $1
		RETURNING cardinality(reposts)
	`
	var count int
	err := r.db.QueryRowContext(ctx, query, postID, userID.String()).Scan(&count)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, domain.ErrPostNotFound
		}
		return 0, fmt.Errorf("failed to add repost: %w", err)
	}
	return count, nil
}

func (r *postRepository) scanPost(row *sql.Row) (*domain.Post, error) {
	var post domain.Post
	var likes, reposts pq.StringArray
	err := row.Scan(&post.ID, &post.AuthorID, &post.Content, &post.ImageURL, &post.Highlight, &likes, &reposts, &post.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}
	post.Likes = parseUUIDs(likes)
	post.Reposts = parseUUIDs(reposts)
	return &post, nil
}

func uuidArray(ids []uuid.UUID) pq.StringArray {
	out := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func parseUUIDs(raw pq.StringArray) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}
