package http

import (
	"net/http"
	"strconv"

	"github.com/fanzoneapp/fanzone/internal/core/domain"
	"github.com/fanzoneapp/fanzone/internal/core/ports"
)

type FeedHandler struct {
	service ports.FeedService
}

func NewFeedHandler(service ports.FeedService) *FeedHandler {
	return &FeedHandler{
		service: service,
	}
}

// feedEntry is the wire shape for one feed item; the kind tag tells clients
// which of the payload fields is set.
type feedEntry struct {
	Kind string           `json:"kind"`
	Post *domain.Post     `json:"post,omitempty"`
	Poll *domain.PollItem `json:"poll,omitempty"`
}

func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := userFromContext(r) // feed works unauthenticated, without vote state

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, err := h.service.Compose(r.Context(), viewerID, limit)
	if err != nil {
		respondError(w, err)
		return
	}

	entries := make([]feedEntry, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case domain.Post:
			entries = append(entries, feedEntry{Kind: string(v.Kind()), Post: &v})
		case domain.PollItem:
			entries = append(entries, feedEntry{Kind: string(v.Kind()), Poll: &v})
		}
	}

	respondJSON(w, http.StatusOK, entries)
}
