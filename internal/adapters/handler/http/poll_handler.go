package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/fanzoneapp/fanzone/internal/core/domain"
	"github.com/fanzoneapp/fanzone/internal/core/ports"
)

var validate = validator.New()

type PollHandler struct {
	polls   ports.PollService
	wallets ports.WalletService
	users   ports.UserService
}

func NewPollHandler(polls ports.PollService, wallets ports.WalletService, users ports.UserService) *PollHandler {
	return &PollHandler{
		polls:   polls,
		wallets: wallets,
		users:   users,
	}
}

type createPollRequest struct {
	Question       string   `json:"question" validate:"required"`
	Options        []string `json:"options" validate:"required,min=2,max=4"`
	RequiredTokens int64    `json:"required_tokens" validate:"gte=0"`
	TTL            string   `json:"ttl"`
}

func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	var req createPollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, &domain.ValidationError{Field: "body", Reason: err.Error()})
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	input := ports.CreatePollInput{
		Question:       req.Question,
		Options:        req.Options,
		CreatorID:      user.ID,
		CreatorName:    user.DisplayName,
		IsTeamCreator:  user.IsTeam,
		RequiredTokens: req.RequiredTokens,
		TTL:            req.TTL,
	}

	poll, err := h.polls.Create(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, poll)
}

func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	poll, err := h.polls.GetPoll(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, poll)
}

func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := h.polls.ListPolls(r.Context(), 20, 0)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, polls)
}

func (h *PollHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	pollID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, domain.ErrInvalidPollID)
		return
	}

	results, err := h.polls.GetResults(r.Context(), pollID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, results)
}

type voteRequest struct {
	OptionID uuid.UUID `json:"option_id" validate:"required"`
}

type voteResponse struct {
	Vote       *domain.Vote `json:"vote"`
	NewBalance int64        `json:"new_balance"`
	Charged    int64        `json:"charged"`
}

// VoteOnPoll votes through the wallet reconciler, so token-gated polls are
// charged and free polls pass through with no debit.
func (h *PollHandler) VoteOnPoll(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	pollID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, domain.ErrInvalidPollID)
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.OptionID == uuid.Nil {
		respondError(w, &domain.ValidationError{Field: "option_id", Reason: "must be set"})
		return
	}

	result, err := h.wallets.PayAndVote(r.Context(), userID, pollID, req.OptionID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, voteResponse{
		Vote:       result.Vote,
		NewBalance: result.NewBalance,
		Charged:    result.Charged,
	})
}
