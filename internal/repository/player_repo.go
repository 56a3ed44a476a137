package repository

import (
	"database/sql"
	"fmt"
	"time"

	"mathclash/internal/database"
	"mathclash/internal/models"
)

// PlayerRepository handles database operations for player profiles and
// their sessions
type PlayerRepository struct {
	db *database.DB
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *database.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// CreatePlayer creates a new player profile with the given defaults applied
func (r *PlayerRepository) CreatePlayer(name, username string, age int, passwordHash string) (*models.Player, error) {
	query := `
		INSERT INTO players (name, username, age, password_hash, avatar, difficulty, game_mode, score, level)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, 1)
	`
	id, err := r.db.ExecReturningID(query, name, username, age, passwordHash,
		models.DefaultAvatar, models.DifficultyEasy, models.GameModeSingle)
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return &models.Player{
		ID:           id,
		Name:         name,
		Username:     username,
		Age:          age,
		PasswordHash: passwordHash,
		Avatar:       models.DefaultAvatar,
		Difficulty:   models.DifficultyEasy,
		GameMode:     models.GameModeSingle,
		Score:        0,
		Level:        1,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}

const playerColumns = "id, name, username, age, password_hash, avatar, difficulty, game_mode, score, level, created_at, updated_at"

func scanPlayer(row *sql.Row) (*models.Player, error) {
	p := &models.Player{}
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Username,
		&p.Age,
		&p.PasswordHash,
		&p.Avatar,
		&p.Difficulty,
		&p.GameMode,
		&p.Score,
		&p.Level,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return p, nil
}

// GetPlayerByID retrieves a player by ID; returns nil without error when the
// player does not exist.
func (r *PlayerRepository) GetPlayerByID(playerID int64) (*models.Player, error) {
	query := "SELECT " + playerColumns + " FROM players WHERE id = ?"
	return scanPlayer(r.db.QueryRow(query, playerID))
}

// GetPlayerByUsername retrieves a player by username (case-sensitive exact
// match); returns nil without error when no such player exists.
func (r *PlayerRepository) GetPlayerByUsername(username string) (*models.Player, error) {
	query := "SELECT " + playerColumns + " FROM players WHERE username = ?"
	return scanPlayer(r.db.QueryRow(query, username))
}

// UpdateCustomization updates the profile fields the customization screen
// can change
func (r *PlayerRepository) UpdateCustomization(playerID int64, avatar, difficulty, gameMode string) error {
	query := `
		UPDATE players
		SET avatar = ?, difficulty = ?, game_mode = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(query, avatar, difficulty, gameMode, playerID)
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}
	return nil
}

// UpdateScore writes a player's best score and derived level
func (r *PlayerRepository) UpdateScore(playerID int64, score, level int) error {
	query := "UPDATE players SET score = ?, level = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	_, err := r.db.Exec(query, score, level, playerID)
	if err != nil {
		return fmt.Errorf("failed to update score: %w", err)
	}
	return nil
}

// DeletePlayerData removes a player profile together with its sessions and
// games in one transaction. The schema also cascades, but the explicit
// deletes keep the wipe visible and dialect-independent.
func (r *PlayerRepository) DeletePlayerData(playerID int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM sessions WHERE player_id = ?", playerID); err != nil {
		return fmt.Errorf("failed to delete player sessions: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM math_games WHERE player_id = ?", playerID); err != nil {
		return fmt.Errorf("failed to delete player games: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM players WHERE id = ?", playerID); err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// TopPlayers returns the ranking: players ordered by best score descending
func (r *PlayerRepository) TopPlayers(limit int) ([]models.RankingEntry, error) {
	query := `
		SELECT id, name, avatar, level, score
		FROM players
		ORDER BY score DESC, updated_at ASC
		LIMIT ?
	`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranking: %w", err)
	}
	defer rows.Close()

	var entries []models.RankingEntry
	rank := 0
	for rows.Next() {
		var e models.RankingEntry
		if err := rows.Scan(&e.PlayerID, &e.Name, &e.Avatar, &e.Level, &e.Score); err != nil {
			return nil, fmt.Errorf("failed to scan ranking entry: %w", err)
		}
		rank++
		e.Rank = rank
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// AllPlayers returns every player profile. Used to rebuild the ranking
// mirror and by the backup tool.
func (r *PlayerRepository) AllPlayers() ([]*models.Player, error) {
	query := "SELECT " + playerColumns + " FROM players ORDER BY id"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		p := &models.Player{}
		err := rows.Scan(&p.ID, &p.Name, &p.Username, &p.Age, &p.PasswordHash,
			&p.Avatar, &p.Difficulty, &p.GameMode, &p.Score, &p.Level,
			&p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}

	return players, rows.Err()
}

// CreateSession stores a new authenticated session
func (r *PlayerRepository) CreateSession(sessionID string, playerID int64, expiresAt time.Time) (*models.Session, error) {
	query := "INSERT INTO sessions (id, player_id, expires_at) VALUES (?, ?, ?)"
	_, err := r.db.Exec(query, sessionID, playerID, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &models.Session{
		ID:        sessionID,
		PlayerID:  playerID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}, nil
}

// GetSession retrieves a session by ID; nil without error when not found
func (r *PlayerRepository) GetSession(sessionID string) (*models.Session, error) {
	query := "SELECT id, player_id, expires_at, created_at FROM sessions WHERE id = ?"
	s := &models.Session{}
	err := r.db.QueryRow(query, sessionID).Scan(&s.ID, &s.PlayerID, &s.ExpiresAt, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// DeleteSession removes a session
func (r *PlayerRepository) DeleteSession(sessionID string) error {
	query := "DELETE FROM sessions WHERE id = ?"
	_, err := r.db.Exec(query, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes sessions past their expiry
func (r *PlayerRepository) DeleteExpiredSessions() error {
	query := "DELETE FROM sessions WHERE expires_at < CURRENT_TIMESTAMP"
	_, err := r.db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return nil
}

// ScreenName reports whether a chosen name trips the word filter
func (r *PlayerRepository) ScreenName(name string) (bool, error) {
	return r.db.ScreenName(name)
}
