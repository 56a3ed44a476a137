package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"mathclash/internal/game"
	"mathclash/internal/service"
)

// GameHandler serves the play-through endpoints
type GameHandler struct {
	gameService *service.GameService
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameService *service.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

type startGameRequest struct {
	Mode string `json:"mode"`
}

// Start begins a new game in the player's configured difficulty
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	player := PlayerFromContext(r.Context())

	var req startGameRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, err)
			return
		}
	}

	state, err := h.gameService.Start(player.ID, req.Mode)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMode) {
			respondWithError(w, http.StatusBadRequest, "Unknown game mode", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, gameView(state))
}

// Current returns the player's active game
func (h *GameHandler) Current(w http.ResponseWriter, r *http.Request) {
	player := PlayerFromContext(r.Context())

	state, err := h.gameService.Current(player.ID)
	if err != nil {
		h.respondGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, gameView(state))
}

type answerRequest struct {
	Answer int `json:"answer"`
}

// Answer submits an answer for the current question
func (h *GameHandler) Answer(w http.ResponseWriter, r *http.Request) {
	player := PlayerFromContext(r.Context())

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, err)
		return
	}

	result, state, err := h.gameService.Answer(player.ID, req.Answer)
	if err != nil {
		h.respondGameError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, AnswerView{
		Correct:       result.Correct,
		TimedOut:      result.TimedOut,
		PointsAwarded: result.PointsAwarded,
		CorrectAnswer: result.CorrectAnswer,
		Game:          gameView(state),
	})
}

// Pause freezes the active game's countdown
func (h *GameHandler) Pause(w http.ResponseWriter, r *http.Request) {
	player := PlayerFromContext(r.Context())

	state, err := h.gameService.Pause(player.ID)
	if err != nil {
		h.respondGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, gameView(state))
}

// Resume unfreezes a paused game
func (h *GameHandler) Resume(w http.ResponseWriter, r *http.Request) {
	player := PlayerFromContext(r.Context())

	state, err := h.gameService.Resume(player.ID)
	if err != nil {
		h.respondGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, gameView(state))
}

// History lists the player's finished games, newest first
func (h *GameHandler) History(w http.ResponseWriter, r *http.Request) {
	player := PlayerFromContext(r.Context())

	games, err := h.gameService.History(player.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}
	respondWithJSON(w, http.StatusOK, historyView(games))
}

// Quit abandons the active game without recording its score
func (h *GameHandler) Quit(w http.ResponseWriter, r *http.Request) {
	player := PlayerFromContext(r.Context())

	state, err := h.gameService.Quit(player.ID)
	if err != nil {
		h.respondGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, gameView(state))
}

func (h *GameHandler) respondGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNoActiveGame):
		respondWithError(w, http.StatusNotFound, "No active game", nil)
	case errors.Is(err, game.ErrGamePaused):
		respondWithError(w, http.StatusConflict, "Game is paused", nil)
	case errors.Is(err, game.ErrNotInProgress):
		respondWithError(w, http.StatusConflict, "Game is not in progress", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
	}
}
