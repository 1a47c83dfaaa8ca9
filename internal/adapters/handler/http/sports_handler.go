package http

import (
	"net/http"
	"strconv"

	"github.com/fanzoneapp/fanzone/internal/core/ports"
)

// defaultCompetition is the Premier League id on the football-data API.
const defaultCompetition = 2021

type SportsHandler struct {
	provider ports.SportsProvider
}

func NewSportsHandler(provider ports.SportsProvider) *SportsHandler {
	return &SportsHandler{
		provider: provider,
	}
}

func (h *SportsHandler) competition(r *http.Request) int {
	id, err := strconv.Atoi(r.URL.Query().Get("competition"))
	if err != nil || id <= 0 {
		return defaultCompetition
	}
	return id
}

func (h *SportsHandler) GetMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := h.provider.Matches(r.Context(), h.competition(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, matches)
}

func (h *SportsHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	standings, err := h.provider.Standings(r.Context(), h.competition(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, standings)
}

func (h *SportsHandler) GetTopScorers(w http.ResponseWriter, r *http.Request) {
	scorers, err := h.provider.TopScorers(r.Context(), h.competition(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, scorers)
}

func (h *SportsHandler) GetCompetitions(w http.ResponseWriter, r *http.Request) {
	comps, err := h.provider.Competitions(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, comps)
}
