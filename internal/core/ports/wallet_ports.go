package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/fanzoneapp/fanzone/internal/core/domain"
)

type WalletRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)

	// Adjust applies delta to the balance and returns the new balance. A
	// debit that would drive the balance negative must fail with
	// *domain.InsufficientFundsError without mutating, enforced as a single
	// read-modify-write at the store.
	Adjust(ctx context.Context, userID uuid.UUID, delta int64) (int64, error)
}

// PayAndVoteResult is the confirmation returned to the UI: the vote that was
// recorded plus the balance after the debit.
type PayAndVoteResult struct {
	Vote       *domain.Vote
	NewBalance int64
	Charged    int64
}

type WalletService interface {
	Balance(ctx context.Context, userID uuid.UUID) (int64, error)
	Credit(ctx context.Context, userID uuid.UUID, amount int64) (int64, error)
	PayAndVote(ctx context.Context, userID, pollID, optionID uuid.UUID) (*PayAndVoteResult, error)
}
