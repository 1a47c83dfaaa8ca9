// Package redis caches poll-results snapshots with a short TTL. Results are
// always recomputable from counts, so every cache failure is treated as a
// miss and never surfaced to callers.
package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/fanzoneapp/fanzone/internal/core/domain"
	"github.com/fanzoneapp/fanzone/internal/core/ports"
	"github.com/fanzoneapp/fanzone/internal/logger"
)

const resultsTTL = 30 * time.Second

type ResultsCache struct {
	client *redis.Client
	log    *logger.Logger
}

var _ ports.ResultsCache = (*ResultsCache)(nil)

func NewResultsCache(client *redis.Client, log *logger.Logger) *ResultsCache {
	return &ResultsCache{
		client: client,
		log:    log,
	}
}

func key(pollID uuid.UUID) string {
	return "poll:results:" + pollID.String()
}

func (c *ResultsCache) Get(ctx context.Context, pollID uuid.UUID) (*domain.PollResults, bool) {
	raw, err := c.client.Get(ctx, key(pollID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.WithField("poll_id", pollID).Warn("results cache read failed")
		}
		return nil, false
	}

	var results domain.PollResults
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, false
	}
	return &results, true
}

func (c *ResultsCache) Set(ctx context.Context, results *domain.PollResults) {
	raw, err := json.Marshal(results)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(results.PollID), raw, resultsTTL).Err(); err != nil {
		c.log.WithField("poll_id", results.PollID).Warn("results cache write failed")
	}
}

func (c *ResultsCache) Invalidate(ctx context.Context, pollID uuid.UUID) {
	if err := c.client.Del(ctx, key(pollID)).Err(); err != nil {
		c.log.WithField("poll_id", pollID).Warn("results cache invalidation failed")
	}
}
