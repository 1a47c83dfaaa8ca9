package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fanzoneapp/fanzone/internal/core/domain"
	"github.com/fanzoneapp/fanzone/internal/core/ports"
	"github.com/fanzoneapp/fanzone/internal/logger"
	"github.com/fanzoneapp/fanzone/internal/metrics"
)

type walletService struct {
	wallets ports.WalletRepository
	polls   ports.PollRepository
	ledger  ports.PollService
	log     *logger.Logger
	met     *metrics.Metrics
}

func NewWalletService(wallets ports.WalletRepository, polls ports.PollRepository, ledger ports.PollService, log *logger.Logger, met *metrics.Metrics) ports.WalletService {
	return &walletService{
		wallets: wallets,
		polls:   polls,
		ledger:  ledger,
		log:     log,
		met:     met,
	}
}

func (s *walletService) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	wallet, err := s.wallets.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

func (s *walletService) Credit(ctx context.Context, userID uuid.UUID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, &domain.ValidationError{Field: "amount", Reason: "credit must be positive"}
	}
	return s.wallets.Adjust(ctx, userID, amount)
}

// PayAndVote gates a vote on a token-gated poll behind the balance check,
// debits, then casts the vote. A vote failure after the debit triggers a
// compensating credit so the wallet never stays debited without a recorded
// vote. Once started the sequence runs to completion: compensation uses a
// context detached from the caller's so cancellation cannot skip it.
func (s *walletService) PayAndVote(ctx context.Context, userID, pollID, optionID uuid.UUID) (*ports.PayAndVoteResult, error) {
	poll, err := s.polls.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	var required int64
	if poll.TokenGated() {
		required = poll.RequiredTokens
	}

	wallet, err := s.wallets.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wallet.Balance < required {
		if s.met != nil {
			s.met.LedgerFailures.WithLabelValues("insufficient_funds").Inc()
		}
		return nil, &domain.InsufficientFundsError{Required: required, Balance: wallet.Balance}
	}

	balance := wallet.Balance
	if required > 0 {
		// The store enforces non-negativity again, closing the race with a
		// concurrent debit between the read above and this update.
		balance, err = s.wallets.Adjust(ctx, userID, -required)
		if err != nil {
			return nil, err
		}
	}

	vote, err := s.ledger.CastVote(ctx, pollID, userID, optionID)
	if err != nil {
		if required > 0 {
			if compErr := s.compensate(ctx, userID, pollID, required, err); compErr != nil {
				return nil, compErr
			}
		}
		return nil, err
	}

	return &ports.PayAndVoteResult{
		Vote:       vote,
		NewBalance: balance,
		Charged:    required,
	}, nil
}

func (s *walletService) compensate(ctx context.Context, userID, pollID uuid.UUID, amount int64, voteErr error) error {
	_, err := s.wallets.Adjust(context.WithoutCancel(ctx), userID, amount)
	if err == nil {
		return nil
	}

	compErr := &domain.CompensationFailedError{
		UserID: userID,
		PollID: pollID,
		Amount: amount,
		Cause:  err,
		Reason: voteErr,
	}
	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"poll_id": pollID,
		"amount":  amount,
		"cause":   err.Error(),
	}).Error("wallet compensation failed, ledger and wallet are inconsistent")
	if s.met != nil {
		s.met.CompensationFailures.Inc()
	}
	return fmt.Errorf("pay-and-vote: %w", compErr)
}
