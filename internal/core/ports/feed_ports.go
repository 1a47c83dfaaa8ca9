package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/fanzoneapp/fanzone/internal/core/domain"
)

type FeedService interface {
	Compose(ctx context.Context, viewerID uuid.UUID, limit int) ([]domain.FeedItem, error)
}

// RemotePollAPI is the authoritative side of the feed sync policy: the
// collaborator operations served by the FanZone HTTP API.
type RemotePollAPI interface {
	CastVote(ctx context.Context, pollID uuid.UUID, optionIndex int, userID uuid.UUID) error
	CreatePoll(ctx context.Context, input CreatePollInput) (uuid.UUID, error)
	PollResults(ctx context.Context, pollID uuid.UUID) (*domain.PollResults, error)
}

// ConsistencyMode selects how a remote vote failure reconciles against the
// optimistic local view.
type ConsistencyMode int

const (
	// ModeOptimistic keeps the local vote flag on remote failure and
	// surfaces a soft unconfirmed notice. This mirrors the original app's
	// behavior: responsiveness over strict consistency.
	ModeOptimistic ConsistencyMode = iota
	// ModeStrict rolls the local flag back and propagates the error.
	ModeStrict
)

// VoteOutcome reports how an optimistic vote reconciled.
type VoteOutcome struct {
	Item domain.PollItem
	// Unconfirmed is set when the remote call failed but the local vote was
	// kept under ModeOptimistic. The vote may not be durably recorded.
	Unconfirmed bool
}

type FeedSyncService interface {
	// VoteOptimistic applies the vote to the local view first, then makes a
	// single remote attempt and reconciles per the configured mode.
	VoteOptimistic(ctx context.Context, pollID, optionID, userID uuid.UUID) (*VoteOutcome, error)
	LocalPoll(pollID uuid.UUID) (domain.PollItem, bool)
	TrackPoll(poll domain.Poll)
}
