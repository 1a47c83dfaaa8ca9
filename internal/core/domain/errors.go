package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrPollNotFound   = errors.New("poll not found")
	ErrPostNotFound   = errors.New("post not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrWalletNotFound = errors.New("wallet not found")
	ErrInvalidPollID  = errors.New("invalid poll id")
	ErrAlreadyVoted   = errors.New("user has already voted on this poll")
	ErrPollClosed     = errors.New("poll is closed")
	ErrUnknownOption  = errors.New("option does not belong to this poll")
	ErrInternal       = errors.New("internal server error")
)

// ValidationError reports malformed input on poll or post creation. It is
// always resolved before any mutation happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// InsufficientFundsError carries the shortfall so callers can prompt a top-up.
type InsufficientFundsError struct {
	Required int64
	Balance  int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient balance: need %d, have %d", e.Required, e.Balance)
}

func (e *InsufficientFundsError) Shortfall() int64 {
	return e.Required - e.Balance
}

// CompensationFailedError is raised when a vote failed after the wallet was
// debited and the compensating credit also failed. The wallet and ledger are
// inconsistent at that point, so this is the highest-severity failure the
// system can produce.
type CompensationFailedError struct {
	UserID uuid.UUID
	PollID uuid.UUID
	Amount int64
	Cause  error // the failed credit
	Reason error // the vote failure that triggered compensation
}

func (e *CompensationFailedError) Error() string {
	return fmt.Sprintf("compensation of %d tokens for user %s on poll %s failed: %v (after vote failure: %v)",
		e.Amount, e.UserID, e.PollID, e.Cause, e.Reason)
}

func (e *CompensationFailedError) Unwrap() error {
	return e.Cause
}

// RemoteError wraps a transport-level failure talking to the authoritative
// API. It is kept distinct from the business-rule errors above: under the
// optimistic merge policy a RemoteError does not roll local state back.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %s failed: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
