package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/fanzoneapp/fanzone/internal/core/domain"
	"github.com/fanzoneapp/fanzone/internal/core/ports"
)

// feedService composes trending polls, regular polls and posts into one
// ordered list of tagged feed items.
type feedService struct {
	polls ports.PollRepository
	posts ports.PostRepository
}

func NewFeedService(polls ports.PollRepository, posts ports.PostRepository) ports.FeedService {
	return &feedService{
		polls: polls,
		posts: posts,
	}
}

// Compose returns trending polls first, then everything else newest-first.
// Each poll item carries the viewer's vote state so the UI can disable the
// options the viewer already used.
func (s *feedService) Compose(ctx context.Context, viewerID uuid.UUID, limit int) ([]domain.FeedItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}

	trending, err := s.polls.ListTrending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list trending polls: %w", err)
	}

	regular, err := s.polls.List(ctx, limit, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}

	posts, err := s.posts.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	seen := make(map[uuid.UUID]bool, len(trending))
	head := make([]domain.FeedItem, 0, len(trending))
	for _, poll := range trending {
		item, err := s.pollItem(ctx, poll, viewerID)
		if err != nil {
			return nil, err
		}
		head = append(head, item)
		seen[poll.ID] = true
	}

	rest := make([]domain.FeedItem, 0, len(regular)+len(posts))
	for _, poll := range regular {
		if seen[poll.ID] {
			continue
		}
		item, err := s.pollItem(ctx, poll, viewerID)
		if err != nil {
			return nil, err
		}
		rest = append(rest, item)
	}
	for _, post := range posts {
		rest = append(rest, *post)
	}

	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].PostedAt().After(rest[j].PostedAt())
	})

	feed := append(head, rest...)
	if len(feed) > limit {
		feed = feed[:limit]
	}
	return feed, nil
}

func (s *feedService) pollItem(ctx context.Context, poll *domain.Poll, viewerID uuid.UUID) (domain.PollItem, error) {
	item := domain.PollItem{Poll: *poll}
	if viewerID == uuid.Nil {
		return item, nil
	}

	vote, err := s.polls.GetVote(ctx, poll.ID, viewerID)
	if err != nil {
		return domain.PollItem{}, fmt.Errorf("failed to fetch viewer vote: %w", err)
	}
	if vote != nil {
		item.UserVoted = true
		opt := vote.OptionID
		item.UserOption = &opt
	}
	return item, nil
}
