package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/fanzoneapp/fanzone/internal/core/domain"
)

// ResultsCache holds short-lived poll-results snapshots. A miss or a cache
// failure is never an error for the caller; results are always recomputable
// from counts.
type ResultsCache interface {
	Get(ctx context.Context, pollID uuid.UUID) (*domain.PollResults, bool)
	Set(ctx context.Context, results *domain.PollResults)
	Invalidate(ctx context.Context, pollID uuid.UUID)
}
