package domain

import (
	"time"

	"github.com/google/uuid"
)

// FeedKind tags the variants of a feed item so callers dispatch with an
// exhaustive switch instead of probing fields at runtime.
type FeedKind string

const (
	FeedKindPost      FeedKind = "post"
	FeedKindPoll      FeedKind = "poll"
	FeedKindHighlight FeedKind = "highlight"
)

// FeedItem is the tagged union over post, poll and highlight entries.
type FeedItem interface {
	Kind() FeedKind
	ItemID() uuid.UUID
	PostedAt() time.Time
}

type Post struct {
	ID        uuid.UUID   `json:"id"`
	AuthorID  uuid.UUID   `json:"author_id"`
	Content   string      `json:"content"`
	ImageURL  string      `json:"image_url,omitempty"`
	Likes     []uuid.UUID `json:"likes,omitempty"`
	Reposts   []uuid.UUID `json:"reposts,omitempty"`
	Highlight bool        `json:"highlight"`
	CreatedAt time.Time   `json:"created_at"`
}

func (p Post) Kind() FeedKind {
	if p.Highlight {
		return FeedKindHighlight
	}
	return FeedKindPost
}

func (p Post) ItemID() uuid.UUID   { return p.ID }
func (p Post) PostedAt() time.Time { return p.CreatedAt }
func (p Post) LikeCount() int      { return len(p.Likes) }
func (p Post) RepostCount() int    { return len(p.Reposts) }

// PollItem wraps a poll for feed display together with the viewer's local
// vote state. UserVoted/UserOption are the optimistic view and may be ahead
// of the authoritative store (see the feed sync policy).
type PollItem struct {
	Poll       Poll       `json:"poll"`
	UserVoted  bool       `json:"user_voted"`
	UserOption *uuid.UUID `json:"user_option,omitempty"`
}

func (p PollItem) Kind() FeedKind      { return FeedKindPoll }
func (p PollItem) ItemID() uuid.UUID   { return p.Poll.ID }
func (p PollItem) PostedAt() time.Time { return p.Poll.CreatedAt }
