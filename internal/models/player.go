package models

import "time"

// Difficulty tiers control number magnitude, operator set, timer length and
// question count for a game.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Game mode preferences selectable on the player profile
const (
	GameModeSingle = "single"
	GameModeMulti  = "multi"
)

// DefaultAvatar is assigned to players who never picked one
const DefaultAvatar = "/avatars/math-boy.png"

// Player represents a registered child profile in the system
type Player struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Age          int       `json:"age"`
	PasswordHash string    `json:"-"`
	Avatar       string    `json:"avatar"`
	Difficulty   string    `json:"difficulty"`
	GameMode     string    `json:"game_mode"`
	Score        int       `json:"score"`
	Level        int       `json:"level"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Public returns a copy of the player safe to hand to clients: the
// credential hash never leaves the auth layer.
func (p *Player) Public() *Player {
	clone := *p
	clone.PasswordHash = ""
	return &clone
}

// Session represents an authenticated session
type Session struct {
	ID        string
	PlayerID  int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// RankingEntry is one row of the best-score leaderboard
type RankingEntry struct {
	Rank     int    `json:"rank"`
	PlayerID int64  `json:"player_id"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Level    int    `json:"level"`
	Score    int    `json:"score"`
}

// AvatarOption is one entry of the stock avatar catalog
type AvatarOption struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Description string `json:"description"`
}
