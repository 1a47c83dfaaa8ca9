package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/fanzoneapp/fanzone/internal/core/domain"
)

type PollRepository interface {
	Save(ctx context.Context, poll *domain.Poll) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Poll, error)
	ListTrending(ctx context.Context) ([]*domain.Poll, error)
	SetTrending(ctx context.Context, pollID uuid.UUID, trending bool) error
	Close(ctx context.Context, pollID uuid.UUID) error

	// CastVote records the vote and increments the option and poll counters
	// as one atomic unit. It must fail with domain.ErrAlreadyVoted when a
	// vote for (pollID, vote.UserID) already exists, without mutating any
	// counter.
	CastVote(ctx context.Context, vote *domain.Vote) error
	HasVoted(ctx context.Context, pollID, userID uuid.UUID) (bool, error)
	GetVote(ctx context.Context, pollID, userID uuid.UUID) (*domain.Vote, error)
}

type CreatePollInput struct {
	Question       string
	Options        []string
	CreatorID      uuid.UUID
	CreatorName    string
	IsTeamCreator  bool
	RequiredTokens int64
	TTL            string // optional, e.g. "24h"
}

type PollService interface {
	Create(ctx context.Context, input CreatePollInput) (*domain.Poll, error)
	GetPoll(ctx context.Context, id string) (*domain.Poll, error)
	CastVote(ctx context.Context, pollID, userID, optionID uuid.UUID) (*domain.Vote, error)
	GetResults(ctx context.Context, pollID uuid.UUID) (*domain.PollResults, error)
	ListPolls(ctx context.Context, limit, offset int) ([]*domain.Poll, error)
}
