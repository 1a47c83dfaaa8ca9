package domain

import (
	"time"

	"github.com/google/uuid"
)

// Wallet holds a user's CHZ token balance. The balance is a non-negative
// integer; any debit that would drive it below zero is rejected before the
// mutation happens.
type Wallet struct {
	UserID    uuid.UUID `json:"user_id"`
	Balance   int64     `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}
