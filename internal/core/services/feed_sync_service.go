package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fanzoneapp/fanzone/internal/core/domain"
	"github.com/fanzoneapp/fanzone/internal/core/ports"
	"github.com/fanzoneapp/fanzone/internal/logger"
	"github.com/fanzoneapp/fanzone/internal/metrics"
)

// feedSyncService reconciles the optimistic in-memory poll view against the
// authoritative remote API. The vote is applied locally first so the UI never
// waits on the network; a single remote attempt follows, and the configured
// consistency mode decides what a failure does to the local state.
type feedSyncService struct {
	remote ports.RemotePollAPI
	mode   ports.ConsistencyMode
	log    *logger.Logger
	met    *metrics.Metrics

	mu    sync.Mutex
	polls map[uuid.UUID]domain.PollItem
}

func NewFeedSyncService(remote ports.RemotePollAPI, mode ports.ConsistencyMode, log *logger.Logger, met *metrics.Metrics) ports.FeedSyncService {
	return &feedSyncService{
		remote: remote,
		mode:   mode,
		log:    log,
		met:    met,
		polls:  make(map[uuid.UUID]domain.PollItem),
	}
}

func (s *feedSyncService) TrackPoll(poll domain.Poll) {
	// Copy the options so local count bumps never alias the caller's slice.
	opts := make([]domain.PollOption, len(poll.Options))
	copy(opts, poll.Options)
	poll.Options = opts

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.polls[poll.ID]; ok {
		// Keep the viewer's vote state when the poll is refreshed.
		s.polls[poll.ID] = domain.PollItem{Poll: poll, UserVoted: existing.UserVoted, UserOption: existing.UserOption}
		return
	}
	s.polls[poll.ID] = domain.PollItem{Poll: poll}
}

func (s *feedSyncService) LocalPoll(pollID uuid.UUID) (domain.PollItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.polls[pollID]
	return item, ok
}

func (s *feedSyncService) VoteOptimistic(ctx context.Context, pollID, optionID, userID uuid.UUID) (*ports.VoteOutcome, error) {
	s.mu.Lock()
	item, ok := s.polls[pollID]
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrPollNotFound
	}
	if item.UserVoted {
		s.mu.Unlock()
		return nil, domain.ErrAlreadyVoted
	}

	optionIndex := -1
	for i := range item.Poll.Options {
		if item.Poll.Options[i].ID == optionID {
			optionIndex = i
			break
		}
	}
	if optionIndex < 0 {
		s.mu.Unlock()
		return nil, domain.ErrUnknownOption
	}

	// Optimistic update: flag the vote and bump the locally known counts so
	// percentages recompute from them immediately.
	chosen := optionID
	item.UserVoted = true
	item.UserOption = &chosen
	item.Poll.Options[optionIndex].Votes++
	item.Poll.TotalVotes++
	s.polls[pollID] = item
	s.mu.Unlock()

	err := s.remote.CastVote(ctx, pollID, optionIndex, userID)
	if err == nil {
		// Remote agrees with the local view; nothing to merge.
		return &ports.VoteOutcome{Item: item}, nil
	}

	if s.mode == ports.ModeStrict {
		s.mu.Lock()
		rolled := s.polls[pollID]
		rolled.UserVoted = false
		rolled.UserOption = nil
		rolled.Poll.Options[optionIndex].Votes--
		rolled.Poll.TotalVotes--
		s.polls[pollID] = rolled
		s.mu.Unlock()
		return nil, err
	}

	// Optimistic mode: the local vote stays even though the remote call
	// failed. The caller gets a soft notice instead of a reverted vote.
	s.log.WithFields(logrus.Fields{
		"poll_id": pollID,
		"user_id": userID,
		"error":   err.Error(),
	}).Warn("vote kept locally, remote recording unconfirmed")
	if s.met != nil {
		s.met.UnconfirmedVotes.Inc()
	}

	return &ports.VoteOutcome{Item: item, Unconfirmed: true}, nil
}
