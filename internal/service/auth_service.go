package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"mathclash/internal/models"
	"mathclash/internal/security"
	"mathclash/internal/validation"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrNameNotAllowed     = errors.New("name not allowed")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// PlayerStore is the persistence surface the auth service needs
type PlayerStore interface {
	GetPlayerByID(playerID int64) (*models.Player, error)
	GetPlayerByUsername(username string) (*models.Player, error)
	CreatePlayer(name, username string, age int, passwordHash string) (*models.Player, error)
	CreateSession(sessionID string, playerID int64, expiresAt time.Time) (*models.Session, error)
	GetSession(sessionID string) (*models.Session, error)
	DeleteSession(sessionID string) error
	DeleteExpiredSessions() error
	ScreenName(name string) (bool, error)
}

// AuthService handles registration, login and session validation
type AuthService struct {
	players         PlayerStore
	sessionDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(players PlayerStore, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		players:         players,
		sessionDuration: sessionDuration,
	}
}

// Register creates a new player profile and logs it in. The profile starts
// with the default avatar, easy difficulty and single-player mode.
func (s *AuthService) Register(name, username string, age int, password string) (*models.Player, *models.Session, error) {
	if err := validation.ValidateName(name); err != nil {
		return nil, nil, err
	}
	if err := validation.ValidateUsername(username); err != nil {
		return nil, nil, err
	}
	if err := validation.ValidateAge(age); err != nil {
		return nil, nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, nil, err
	}

	for _, candidate := range []string{name, username} {
		bad, err := s.players.ScreenName(candidate)
		if err != nil {
			// The filter is best effort; an empty table must not block signups
			log.Printf("Warning: name screening failed: %v", err)
			break
		}
		if bad {
			return nil, nil, ErrNameNotAllowed
		}
	}

	existing, err := s.players.GetPlayerByUsername(username)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check existing player: %w", err)
	}
	if existing != nil {
		return nil, nil, ErrUsernameTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	player, err := s.players.CreatePlayer(name, username, age, passwordHash)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create player: %w", err)
	}

	session, err := s.createSession(player.ID)
	if err != nil {
		return nil, nil, err
	}

	return player, session, nil
}

// Login authenticates a player by exact username match and creates a session
func (s *AuthService) Login(username, password string) (*models.Player, *models.Session, error) {
	player, err := s.players.GetPlayerByUsername(username)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, player.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.createSession(player.ID)
	if err != nil {
		return nil, nil, err
	}

	return player, session, nil
}

func (s *AuthService) createSession(playerID int64) (*models.Session, error) {
	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(s.sessionDuration)

	session, err := s.players.CreateSession(sessionID, playerID, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// ValidateSession resolves a session ID to its player. Expired sessions are
// deleted on sight.
func (s *AuthService) ValidateSession(sessionID string) (*models.Player, error) {
	session, err := s.players.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		if err := s.players.DeleteSession(sessionID); err != nil {
			log.Printf("Warning: failed to delete expired session: %v", err)
		}
		return nil, ErrSessionExpired
	}

	player, err := s.players.GetPlayerByID(session.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, ErrSessionNotFound
	}

	return player, nil
}

// ValidatePlayer resolves a token subject to its player. Tokens outlive
// account deletion, so the row may be gone.
func (s *AuthService) ValidatePlayer(playerID int64) (*models.Player, error) {
	player, err := s.players.GetPlayerByID(playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, ErrSessionNotFound
	}
	return player, nil
}

// Logout removes a session. Logging out an unknown session is not an error.
func (s *AuthService) Logout(sessionID string) error {
	if err := s.players.DeleteSession(sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes sessions past their expiry. Called
// periodically from the server.
func (s *AuthService) CleanupExpiredSessions() error {
	return s.players.DeleteExpiredSessions()
}
