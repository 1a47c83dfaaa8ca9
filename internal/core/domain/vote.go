package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vote is keyed by (PollID, UserID): at most one record ever exists per pair.
// A second vote by the same user is rejected, never overwritten.
type Vote struct {
	ID        uuid.UUID `json:"id"`
	PollID    uuid.UUID `json:"poll_id"`
	OptionID  uuid.UUID `json:"option_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
