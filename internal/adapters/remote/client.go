// Package remote implements the authoritative poll API client used by the
// optimistic feed view. A single attempt is made per call; failures wrap
// into domain.RemoteError so callers can tell transport faults apart from
// business-rule rejections.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/fanzoneapp/fanzone/internal/core/domain"
	"github.com/fanzoneapp/fanzone/internal/core/ports"
)

type Client struct {
	baseURL string
	http    *http.Client
}

var _ ports.RemotePollAPI = (*Client)(nil)

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type voteRequest struct {
	PollID              string `json:"pollId"`
	SelectedOptionIndex int    `json:"selectedOptionIndex"`
	UID                 string `json:"uid"`
}

func (c *Client) CastVote(ctx context.Context, pollID uuid.UUID, optionIndex int, userID uuid.UUID) error {
	body := voteRequest{
		PollID:              pollID.String(),
		SelectedOptionIndex: optionIndex,
		UID:                 userID.String(),
	}
	return c.post(ctx, "/vote", body, nil)
}

type createPollRequest struct {
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	CreatedBy string   `json:"createdBy"`
	Premium   bool     `json:"premium"`
	TokenCost int64    `json:"tokenCost"`
}

type createPollResponse struct {
	ID string `json:"id"`
}

func (c *Client) CreatePoll(ctx context.Context, input ports.CreatePollInput) (uuid.UUID, error) {
	body := createPollRequest{
		Question:  input.Question,
		Options:   input.Options,
		CreatedBy: input.CreatorID.String(),
		Premium:   input.IsTeamCreator,
		TokenCost: input.RequiredTokens,
	}

	var resp createPollResponse
	if err := c.post(ctx, "/createPoll", body, &resp); err != nil {
		return uuid.Nil, err
	}

	id, err := uuid.Parse(resp.ID)
	if err != nil {
		return uuid.Nil, &domain.RemoteError{Op: "createPoll", Err: fmt.Errorf("bad poll id %q: %w", resp.ID, err)}
	}
	return id, nil
}

type pollResultsResponse struct {
	Title       string           `json:"title"`
	TotalVotes  int64            `json:"totalVotes"`
	Votes       map[string]int64 `json:"votes"`
	Percentages map[string]int   `json:"percentages"`
}

func (c *Client) PollResults(ctx context.Context, pollID uuid.UUID) (*domain.PollResults, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/getPollResults?pollId="+pollID.String(), nil)
	if err != nil {
		return nil, &domain.RemoteError{Op: "getPollResults", Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.RemoteError{Op: "getPollResults", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.RemoteError{Op: "getPollResults", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var raw pollResultsResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, &domain.RemoteError{Op: "getPollResults", Err: err}
	}

	results := &domain.PollResults{
		PollID:     pollID,
		Question:   raw.Title,
		TotalVotes: raw.TotalVotes,
	}
	for text, votes := range raw.Votes {
		results.Options = append(results.Options, domain.OptionResult{
			Text:       text,
			Votes:      votes,
			Percentage: domain.VotePercentage(votes, raw.TotalVotes),
		})
	}
	return results, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	op := path[1:]

	payload, err := json.Marshal(body)
	if err != nil {
		return &domain.RemoteError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return &domain.RemoteError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &domain.RemoteError{Op: op, Err: fmt.Errorf("status %d: %s", resp.StatusCode, msg)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &domain.RemoteError{Op: op, Err: err}
		}
	}
	return nil
}
