package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fanzoneapp/fanzone/internal/core/ports"
)

// TrendingService re-evaluates which polls count as trending. It runs as a
// periodic job, not on the request path.
type TrendingService interface {
	AnalyzeTrending(ctx context.Context) error
}

type trendingService struct {
	polls ports.PollRepository

	minVotes    int64
	minVelocity float64 // votes per hour
}

func NewTrendingService(polls ports.PollRepository, minVotes int64, minVelocity float64) TrendingService {
	return &trendingService{
		polls:       polls,
		minVotes:    minVotes,
		minVelocity: minVelocity,
	}
}

// AnalyzeTrending marks polls whose vote velocity crosses the threshold and
// clears the flag on the ones that cooled down.
func (s *trendingService) AnalyzeTrending(ctx context.Context) error {
	polls, err := s.polls.List(ctx, 500, 0)
	if err != nil {
		return fmt.Errorf("failed to fetch polls: %w", err)
	}

	now := time.Now()

	var wg sync.WaitGroup
	errChan := make(chan error, len(polls))

	for _, poll := range polls {
		age := now.Sub(poll.CreatedAt).Hours()
		if age < 1 {
			age = 1
		}
		velocity := float64(poll.TotalVotes) / age
		trending := poll.TotalVotes >= s.minVotes && velocity >= s.minVelocity

		if trending == poll.Trending {
			continue
		}

		wg.Add(1)
		go func(pID [16]byte, flag bool) { // passing ID by value (uuid.UUID is [16]byte) to avoid closure issues
			defer wg.Done()
			if err := s.polls.SetTrending(ctx, pID, flag); err != nil {
				errChan <- fmt.Errorf("failed to update trending flag for poll %s: %w", pID, err)
			}
		}(poll.ID, trending)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return err
		}
	}

	return nil
}
