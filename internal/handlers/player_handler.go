package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"mathclash/internal/security"
	"mathclash/internal/service"
)

// PlayerHandler serves profile and customization requests
type PlayerHandler struct {
	playerService *service.PlayerService
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(playerService *service.PlayerService) *PlayerHandler {
	return &PlayerHandler{playerService: playerService}
}

// GetProfile returns the authenticated player's profile
func (h *PlayerHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	player := PlayerFromContext(r.Context())
	respondWithJSON(w, http.StatusOK, player.Public())
}

type updateProfileRequest struct {
	Avatar     string `json:"avatar"`
	Difficulty string `json:"difficulty"`
	GameMode   string `json:"game_mode"`
}

// UpdateProfile applies the customization screen's choices. Omitted fields
// keep their stored values.
func (h *PlayerHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	player := PlayerFromContext(r.Context())

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, err)
		return
	}

	updated, err := h.playerService.UpdateProfile(player.ID, req.Avatar, req.Difficulty, req.GameMode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAvatar), errors.Is(err, service.ErrInvalidOption):
			respondWithError(w, http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, service.ErrPlayerNotFound):
			respondWithError(w, http.StatusNotFound, "Player not found", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, updated.Public())
}

// DeleteProfile removes the player and all associated data, then clears the
// session cookie.
func (h *PlayerHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	player := PlayerFromContext(r.Context())

	if err := h.playerService.DeleteAccount(player.ID); err != nil {
		if errors.Is(err, service.ErrPlayerNotFound) {
			respondWithError(w, http.StatusNotFound, "Player not found", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}

	http.SetCookie(w, security.DeleteSessionCookie(r))
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Avatars returns the selectable avatar catalog
func (h *PlayerHandler) Avatars(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.playerService.Avatars())
}
