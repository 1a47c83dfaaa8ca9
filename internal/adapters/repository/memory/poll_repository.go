package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/fanzoneapp/fanzone/internal/core/domain"
	"github.com/fanzoneapp/fanzone/internal/core/ports"
)

type PollRepository struct {
	store *Store
}

var _ ports.PollRepository = (*PollRepository)(nil)

func (r *PollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.polls[poll.ID] = clonePoll(poll)
	return nil
}

func (r *PollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	poll, ok := r.store.polls[id]
	if !ok {
		return nil, domain.ErrPollNotFound
	}
	return clonePoll(poll), nil
}

func (r *PollRepository) List(ctx context.Context, limit, offset int) ([]*domain.Poll, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	all := make([]*domain.Poll, 0, len(r.store.polls))
	for _, poll := range r.store.polls {
		all = append(all, poll)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}

	out := make([]*domain.Poll, 0, len(all))
	for _, poll := range all {
		out = append(out, clonePoll(poll))
	}
	return out, nil
}

func (r *PollRepository) ListTrending(ctx context.Context) ([]*domain.Poll, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*domain.Poll
	for _, poll := range r.store.polls {
		if poll.Trending {
			out = append(out, clonePoll(poll))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].TotalVotes > out[j].TotalVotes
	})
	return out, nil
}

func (r *PollRepository) SetTrending(ctx context.Context, pollID uuid.UUID, trending bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	poll, ok := r.store.polls[pollID]
	if !ok {
		return domain.ErrPollNotFound
	}
	poll.Trending = trending
	return nil
}

func (r *PollRepository) Close(ctx context.Context, pollID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	poll, ok := r.store.polls[pollID]
	if !ok {
		return domain.ErrPollNotFound
	}
	poll.Active = false
	return nil
}

// CastVote holds the store lock across the duplicate check and both counter
// increments, making the whole sequence one critical section.
func (r *PollRepository) CastVote(ctx context.Context, vote *domain.Vote) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	poll, ok := r.store.polls[vote.PollID]
	if !ok {
		return domain.ErrPollNotFound
	}

	key := voteKey{pollID: vote.PollID, userID: vote.UserID}
	if _, exists := r.store.votes[key]; exists {
		return domain.ErrAlreadyVoted
	}

	opt := poll.OptionByID(vote.OptionID)
	if opt == nil {
		return domain.ErrUnknownOption
	}

	opt.Votes++
	poll.TotalVotes++
	v := *vote
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	r.store.votes[key] = &v
	return nil
}

func (r *PollRepository) HasVoted(ctx context.Context, pollID, userID uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	_, ok := r.store.votes[voteKey{pollID: pollID, userID: userID}]
	return ok, nil
}

func (r *PollRepository) GetVote(ctx context.Context, pollID, userID uuid.UUID) (*domain.Vote, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	vote, ok := r.store.votes[voteKey{pollID: pollID, userID: userID}]
	if !ok {
		return nil, nil
	}
	v := *vote
	return &v, nil
}
