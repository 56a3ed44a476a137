package handlers

import (
	"net/http"
	"strconv"

	"mathclash/internal/models"
	"mathclash/internal/service"
)

// RankingHandler serves the best-score leaderboard
type RankingHandler struct {
	rankingService *service.RankingService
}

// NewRankingHandler creates a new ranking handler
func NewRankingHandler(rankingService *service.RankingService) *RankingHandler {
	return &RankingHandler{rankingService: rankingService}
}

// Top returns the leaderboard, best score first. An optional limit query
// parameter trims the list below the configured maximum.
func (h *RankingHandler) Top(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.rankingService.Top(r.Context(), limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}
	if entries == nil {
		entries = []models.RankingEntry{}
	}
	respondWithJSON(w, http.StatusOK, entries)
}
