package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"mathclash/internal/credentials"
	"mathclash/internal/models"
	"mathclash/internal/security"
	"mathclash/internal/service"
	"mathclash/internal/validation"
)

// AuthHandler handles registration, login and logout requests
type AuthHandler struct {
	authService *service.AuthService
	jwtSecret   []byte
	tokenTTL    time.Duration
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, jwtSecret []byte, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Age      int    `json:"age"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Player *models.Player `json:"player"`
	Token  string         `json:"token"`
}

// Register creates a new player profile and logs it straight in
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, err)
		return
	}

	player, session, err := h.authService.Register(req.Name, req.Username, req.Age, req.Password)
	if err != nil {
		var vErr validation.ValidationError
		switch {
		case errors.As(err, &vErr):
			respondWithError(w, http.StatusBadRequest, vErr.Error(), nil)
		case errors.Is(err, service.ErrUsernameTaken):
			respondWithError(w, http.StatusConflict, "Username already taken", nil)
		case errors.Is(err, service.ErrNameNotAllowed):
			respondWithError(w, http.StatusBadRequest, "That name is not allowed", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		}
		return
	}

	h.respondLoggedIn(w, r, http.StatusCreated, player, session)
}

// Login authenticates a player by username and password
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, err)
		return
	}

	player, session, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "Invalid username or password", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}

	h.respondLoggedIn(w, r, http.StatusOK, player, session)
}

// Logout ends the current session. Safe to call without one.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(security.SessionCookieName); err == nil {
		if err := h.authService.Logout(cookie.Value); err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
			return
		}
	}
	http.SetCookie(w, security.DeleteSessionCookie(r))
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// SuggestUsernames offers kid-friendly username ideas for the signup screen
func (h *AuthHandler) SuggestUsernames(w http.ResponseWriter, r *http.Request) {
	suggestions, err := credentials.SuggestUsernames(5)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}

func (h *AuthHandler) respondLoggedIn(w http.ResponseWriter, r *http.Request, status int, player *models.Player, session *models.Session) {
	token, err := security.SignToken(h.jwtSecret, player.ID, player.Username, h.tokenTTL)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}

	http.SetCookie(w, security.SessionCookie(r, session.ID, session.ExpiresAt))
	respondWithJSON(w, status, authResponse{
		Player: player.Public(),
		Token:  token,
	})
}
