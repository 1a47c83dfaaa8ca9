package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/fanzoneapp/fanzone/internal/core/domain"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			http.Error(w, "failed to encode response", http.StatusInternalServerError)
		}
	}
}

type errorBody struct {
	Error     string `json:"error"`
	Shortfall int64  `json:"shortfall,omitempty"`
}

// respondError maps the domain error taxonomy onto HTTP statuses. Business
// rejections carry their message; internal faults get a generic body.
func respondError(w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: vErr.Error()})
		return
	}

	var fundsErr *domain.InsufficientFundsError
	if errors.As(err, &fundsErr) {
		respondJSON(w, http.StatusPaymentRequired, errorBody{Error: fundsErr.Error(), Shortfall: fundsErr.Shortfall()})
		return
	}

	switch {
	case errors.Is(err, domain.ErrAlreadyVoted):
		respondJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrPollClosed):
		respondJSON(w, http.StatusGone, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrUnknownOption):
		respondJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidPollID):
		respondJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrPollNotFound),
		errors.Is(err, domain.ErrPostNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrWalletNotFound):
		respondJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	default:
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

func userFromContext(r *http.Request) (uuid.UUID, bool) {
	id, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	return id, ok
}
