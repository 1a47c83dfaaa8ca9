package ports

import (
	"context"

	"github.com/fanzoneapp/fanzone/internal/core/domain"
)

// SportsProvider is the read-only sports-data collaborator. It is used for
// display only; failures degrade to empty results rather than errors at the
// API surface.
type SportsProvider interface {
	Matches(ctx context.Context, competitionID int) ([]domain.Match, error)
	Standings(ctx context.Context, competitionID int) ([]domain.Standing, error)
	TopScorers(ctx context.Context, competitionID int) ([]domain.Scorer, error)
	Competitions(ctx context.Context) ([]domain.Competition, error)
}
