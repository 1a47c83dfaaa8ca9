package http

import (
	"net/http"

	"github.com/fanzoneapp/fanzone/internal/core/ports"
)

type WalletHandler struct {
	service ports.WalletService
}

func NewWalletHandler(service ports.WalletService) *WalletHandler {
	return &WalletHandler{
		service: service,
	}
}

type balanceResponse struct {
	Balance int64 `json:"balance"`
}

func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	balance, err := h.service.Balance(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, balanceResponse{Balance: balance})
}
