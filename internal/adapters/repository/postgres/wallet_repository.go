package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/fanzoneapp/fanzone/internal/core/domain"
	"github.com/fanzoneapp/fanzone/internal/core/ports"
)

type walletRepository struct {
	db *sql.DB
}

func NewWalletRepository(db *sql.DB) ports.WalletRepository {
	return &walletRepository{
		db: db,
	}
}

func (r *walletRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	query := `
		SELECT user_id, balance, updated_at
		FROM wallets
		WHERE user_id = $1
	`
	var wallet domain.Wallet
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&wallet.UserID, &wallet.Balance, &wallet.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

// Adjust is a single conditional update: the WHERE clause enforces the
// non-negative balance invariant at the store, so concurrent debits cannot
// interleave a read-modify-write around it.
func (r *walletRepository) Adjust(ctx context.Context, userID uuid.UUID, delta int64) (int64, error) {
	query := `
		UPDATE wallets
		SET balance = balance + $2, updated_at = NOW()
		WHERE user_id = $1 AND balance + $2 >= 0
		RETURNING balance
	`
	var balance int64
	err := r.db.QueryRowContext(ctx, query, userID, delta).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to adjust wallet: %w", err)
	}

	// No row updated: either the wallet does not exist or the debit would
	// go negative. Re-read to tell the two apart.
	wallet, getErr := r.Get(ctx, userID)
	if getErr != nil {
		return 0, getErr
	}
	return 0, &domain.InsufficientFundsError{Required: -delta, Balance: wallet.Balance}
}
