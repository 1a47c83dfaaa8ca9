package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fanzoneapp/fanzone/internal/core/domain"
	"github.com/fanzoneapp/fanzone/internal/core/ports"
	"github.com/fanzoneapp/fanzone/internal/logger"
	"github.com/fanzoneapp/fanzone/internal/metrics"
)

const (
	minPollOptions = 2
	maxPollOptions = 4
)

type pollService struct {
	repo  ports.PollRepository
	cache ports.ResultsCache // optional, may be nil
	log   *logger.Logger
	met   *metrics.Metrics
}

func NewPollService(repo ports.PollRepository, cache ports.ResultsCache, log *logger.Logger, met *metrics.Metrics) ports.PollService {
	return &pollService{
		repo:  repo,
		cache: cache,
		log:   log,
		met:   met,
	}
}

func (s *pollService) Create(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, &domain.ValidationError{Field: "question", Reason: "must not be empty"}
	}

	var texts []string
	for _, opt := range input.Options {
		if t := strings.TrimSpace(opt); t != "" {
			texts = append(texts, t)
		}
	}
	if len(texts) < minPollOptions {
		return nil, &domain.ValidationError{Field: "options", Reason: "at least two non-empty options are required"}
	}
	if len(texts) > maxPollOptions {
		return nil, &domain.ValidationError{Field: "options", Reason: "at most four options are allowed"}
	}

	if input.RequiredTokens < 0 {
		return nil, &domain.ValidationError{Field: "required_tokens", Reason: "must not be negative"}
	}
	if input.RequiredTokens > 0 && !input.IsTeamCreator {
		return nil, &domain.ValidationError{Field: "required_tokens", Reason: "only team accounts can create token-gated polls"}
	}

	var expiresAt *time.Time
	if input.TTL != "" {
		ttl, err := time.ParseDuration(input.TTL)
		if err != nil || ttl <= 0 {
			return nil, &domain.ValidationError{Field: "ttl", Reason: "must be a positive duration"}
		}
		t := time.Now().Add(ttl)
		expiresAt = &t
	}

	pollID := uuid.New()
	now := time.Now()

	poll := &domain.Poll{
		ID:       pollID,
		Question: question,
		Creator: domain.PollCreator{
			ID:     input.CreatorID,
			Name:   input.CreatorName,
			IsTeam: input.IsTeamCreator,
		},
		RequiredTokens: input.RequiredTokens,
		Active:         true,
		CreatedAt:      now,
		ExpiresAt:      expiresAt,
	}

	for _, text := range texts {
		poll.Options = append(poll.Options, domain.PollOption{
			ID:        uuid.New(),
			PollID:    pollID,
			Text:      text,
			CreatedAt: now,
		})
	}

	if err := s.repo.Save(ctx, poll); err != nil {
		return nil, fmt.Errorf("failed to save poll: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"poll_id": poll.ID,
		"creator": poll.Creator.ID,
		"gated":   poll.TokenGated(),
	}).Info("poll created")

	return poll, nil
}

func (s *pollService) GetPoll(ctx context.Context, id string) (*domain.Poll, error) {
	pollID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidPollID
	}

	return s.repo.GetByID(ctx, pollID)
}

// CastVote enforces the one-vote-per-user rule. The duplicate check and the
// counter increments happen inside the repository as one atomic unit, so two
// near-simultaneous calls by the same user cannot both land.
func (s *pollService) CastVote(ctx context.Context, pollID, userID, optionID uuid.UUID) (*domain.Vote, error) {
	poll, err := s.repo.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	if poll.Closed(time.Now()) {
		s.countRejection("closed")
		return nil, domain.ErrPollClosed
	}

	if poll.OptionByID(optionID) == nil {
		// Option ids come from the poll itself, so this is a consistency
		// fault rather than user error.
		s.log.WithFields(logrus.Fields{
			"poll_id":   pollID,
			"option_id": optionID,
		}).Error("vote for option not in poll")
		s.countRejection("unknown_option")
		return nil, domain.ErrUnknownOption
	}

	vote := &domain.Vote{
		ID:        uuid.New(),
		PollID:    pollID,
		OptionID:  optionID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}

	if err := s.repo.CastVote(ctx, vote); err != nil {
		if err == domain.ErrAlreadyVoted {
			s.countRejection("already_voted")
		}
		return nil, err
	}

	if s.met != nil {
		gated := "free"
		if poll.TokenGated() {
			gated = "gated"
		}
		s.met.VotesCast.WithLabelValues(gated).Inc()
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, pollID)
	}

	return vote, nil
}

// GetResults never mutates. Percentages are derived from counts on every
// read; the cache stores whole snapshots with a short TTL and is bypassed
// transparently when unavailable.
func (s *pollService) GetResults(ctx context.Context, pollID uuid.UUID) (*domain.PollResults, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, pollID); ok {
			return cached, nil
		}
	}

	poll, err := s.repo.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	results := poll.Results()
	if s.cache != nil {
		s.cache.Set(ctx, &results)
	}

	return &results, nil
}

func (s *pollService) ListPolls(ctx context.Context, limit, offset int) ([]*domain.Poll, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *pollService) countRejection(kind string) {
	if s.met != nil {
		s.met.LedgerFailures.WithLabelValues(kind).Inc()
	}
}
