package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"mathclash/internal/models"
	"mathclash/internal/security"
	"mathclash/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const PlayerContextKey ContextKey = "player"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	jwtSecret   []byte
	limiter     *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, jwtSecret []byte, limiter *security.RateLimiter) *Middleware {
	return &Middleware{
		authService: authService,
		jwtSecret:   jwtSecret,
		limiter:     limiter,
	}
}

// RequireAuth resolves the caller to a player, first from a bearer token and
// then from the session cookie, and rejects the request if neither works.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if player := m.playerFromBearer(r); player != nil {
			next(w, r.WithContext(context.WithValue(r.Context(), PlayerContextKey, player)))
			return
		}

		cookie, err := r.Cookie(security.SessionCookieName)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, nil)
			return
		}

		player, err := m.authService.ValidateSession(cookie.Value)
		if err != nil {
			// Clear the dead cookie so the client stops sending it
			http.SetCookie(w, security.DeleteSessionCookie(r))
			respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, nil)
			return
		}

		ctx := context.WithValue(r.Context(), PlayerContextKey, player)
		next(w, r.WithContext(ctx))
	}
}

func (m *Middleware) playerFromBearer(r *http.Request) *models.Player {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return nil
	}
	claims, err := security.ParseToken(m.jwtSecret, strings.TrimPrefix(auth, "Bearer "))
	if err != nil {
		return nil
	}
	player, err := m.authService.ValidatePlayer(claims.PlayerID)
	if err != nil {
		return nil
	}
	return player
}

// RateLimit rejects clients that exceed the per-IP request budget
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.limiter != nil && !m.limiter.Allow(security.GetClientIP(r)) {
			respondWithError(w, http.StatusTooManyRequests, ErrTooManyRequests, nil)
			return
		}
		next(w, r)
	}
}

// PlayerFromContext retrieves the authenticated player set by RequireAuth
func PlayerFromContext(ctx context.Context) *models.Player {
	player, _ := ctx.Value(PlayerContextKey).(*models.Player)
	return player
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s %v", security.GetClientIP(r), r.Method, r.URL.Path, time.Since(start))
	})
}
