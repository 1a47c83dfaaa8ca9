package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fanzoneapp/fanzone/internal/core/domain"
	"github.com/fanzoneapp/fanzone/internal/core/ports"
)

type WalletRepository struct {
	store *Store
}

var _ ports.WalletRepository = (*WalletRepository)(nil)

func (r *WalletRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	wallet, ok := r.store.wallets[userID]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	w := *wallet
	return &w, nil
}

// Adjust applies the delta under the store lock; a debit below zero is
// rejected before any mutation.
func (r *WalletRepository) Adjust(ctx context.Context, userID uuid.UUID, delta int64) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	wallet, ok := r.store.wallets[userID]
	if !ok {
		return 0, domain.ErrWalletNotFound
	}
	if wallet.Balance+delta < 0 {
		return 0, &domain.InsufficientFundsError{Required: -delta, Balance: wallet.Balance}
	}
	wallet.Balance += delta
	wallet.UpdatedAt = time.Now()
	return wallet.Balance, nil
}
