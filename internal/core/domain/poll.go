package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type Poll struct {
	ID             uuid.UUID    `json:"id"`
	Question       string       `json:"question"`
	Options        []PollOption `json:"options"`
	TotalVotes     int64        `json:"total_votes"`
	RequiredTokens int64        `json:"required_tokens"`
	Creator        PollCreator  `json:"creator"`
	Trending       bool         `json:"trending"`
	Active         bool         `json:"active"`
	CreatedAt      time.Time    `json:"created_at"`
	ExpiresAt      *time.Time   `json:"expires_at,omitempty"`
}

type PollOption struct {
	ID        uuid.UUID `json:"id"`
	PollID    uuid.UUID `json:"poll_id"`
	Text      string    `json:"text"`
	Votes     int64     `json:"votes"`
	CreatedAt time.Time `json:"created_at"`
}

type PollCreator struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	IsTeam bool      `json:"is_team"`
}

// TokenGated reports whether voting on this poll costs tokens. Only team
// accounts may create gated polls; polls by regular users are always free.
func (p *Poll) TokenGated() bool {
	return p.Creator.IsTeam && p.RequiredTokens > 0
}

// Closed reports whether the poll no longer accepts votes at the given time.
func (p *Poll) Closed(now time.Time) bool {
	if !p.Active {
		return true
	}
	return p.ExpiresAt != nil && now.After(*p.ExpiresAt)
}

// OptionByID returns the option with the given id, or nil if it does not
// belong to this poll.
func (p *Poll) OptionByID(id uuid.UUID) *PollOption {
	for i := range p.Options {
		if p.Options[i].ID == id {
			return &p.Options[i]
		}
	}
	return nil
}

// PollResults is a read-only snapshot derived from vote counts. Percentages
// are recomputed on every read and never persisted, so counts remain the only
// authoritative figures.
type PollResults struct {
	PollID     uuid.UUID      `json:"poll_id"`
	Question   string         `json:"question"`
	TotalVotes int64          `json:"total_votes"`
	Options    []OptionResult `json:"options"`
}

type OptionResult struct {
	OptionID   uuid.UUID `json:"option_id"`
	Text       string    `json:"text"`
	Votes      int64     `json:"votes"`
	Percentage int       `json:"percentage"`
}

// Results derives the current snapshot from the poll's counts.
func (p *Poll) Results() PollResults {
	res := PollResults{
		PollID:     p.ID,
		Question:   p.Question,
		TotalVotes: p.TotalVotes,
		Options:    make([]OptionResult, 0, len(p.Options)),
	}
	for _, opt := range p.Options {
		res.Options = append(res.Options, OptionResult{
			OptionID:   opt.ID,
			Text:       opt.Text,
			Votes:      opt.Votes,
			Percentage: VotePercentage(opt.Votes, p.TotalVotes),
		})
	}
	return res
}

// VotePercentage rounds votes/total to the nearest whole percent, half up.
// Options are rounded independently, so a poll's percentages need not sum to
// exactly 100.
func VotePercentage(votes, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(votes) / float64(total) * 100))
}
