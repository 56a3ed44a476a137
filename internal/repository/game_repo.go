package repository

import (
	"database/sql"
	"fmt"
	"time"

	"mathclash/internal/database"
	"mathclash/internal/models"
)

// GameRepository handles database operations for math game play-throughs
type GameRepository struct {
	db *database.DB
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *database.DB) *GameRepository {
	return &GameRepository{db: db}
}

// CreateGame persists a freshly started game and returns it with its ID set
func (r *GameRepository) CreateGame(g *models.MathGame) (*models.MathGame, error) {
	query := `
		INSERT INTO math_games (player_id, mode, difficulty, state, score, lives,
			question_index, total_questions, question_json, deadline, paused_at, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, g.PlayerID, g.Mode, g.Difficulty, g.State,
		g.Score, g.Lives, g.QuestionIndex, g.TotalQuestions, g.QuestionJSON,
		g.Deadline, g.PausedAt, g.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	g.ID = id
	return g, nil
}

const gameColumns = "id, player_id, mode, difficulty, state, score, lives, question_index, total_questions, question_json, deadline, paused_at, started_at, completed_at"

func scanGame(row *sql.Row) (*models.MathGame, error) {
	g := &models.MathGame{}
	err := row.Scan(
		&g.ID,
		&g.PlayerID,
		&g.Mode,
		&g.Difficulty,
		&g.State,
		&g.Score,
		&g.Lives,
		&g.QuestionIndex,
		&g.TotalQuestions,
		&g.QuestionJSON,
		&g.Deadline,
		&g.PausedAt,
		&g.StartedAt,
		&g.CompletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return g, nil
}

// GetActiveGame retrieves a player's in-progress or paused game, if any.
// A player has at most one active game; the newest wins if old rows linger.
func (r *GameRepository) GetActiveGame(playerID int64) (*models.MathGame, error) {
	query := "SELECT " + gameColumns + ` FROM math_games
		WHERE player_id = ? AND state IN (?, ?)
		ORDER BY started_at DESC LIMIT 1`
	return scanGame(r.db.QueryRow(query, playerID, models.GameInProgress, models.GamePaused))
}

// UpdateGame writes the mutable play state back after an answer, pause or
// resume
func (r *GameRepository) UpdateGame(g *models.MathGame) error {
	query := `
		UPDATE math_games
		SET state = ?, score = ?, lives = ?, question_index = ?,
			question_json = ?, deadline = ?, paused_at = ?, completed_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, g.State, g.Score, g.Lives, g.QuestionIndex,
		g.QuestionJSON, g.Deadline, g.PausedAt, g.CompletedAt, g.ID)
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}
	return nil
}

// AbandonActiveGames marks every active game of a player abandoned. Used
// when a new game starts or a stored row will not hydrate.
func (r *GameRepository) AbandonActiveGames(playerID int64, at time.Time) error {
	query := `
		UPDATE math_games
		SET state = ?, completed_at = ?
		WHERE player_id = ? AND state IN (?, ?)
	`
	_, err := r.db.Exec(query, models.GameAbandoned, at, playerID,
		models.GameInProgress, models.GamePaused)
	if err != nil {
		return fmt.Errorf("failed to abandon games: %w", err)
	}
	return nil
}

// GameHistory returns a player's finished games, newest first
func (r *GameRepository) GameHistory(playerID int64, limit int) ([]models.MathGame, error) {
	query := "SELECT " + gameColumns + ` FROM math_games
		WHERE player_id = ? AND state = ?
		ORDER BY started_at DESC LIMIT ?`
	rows, err := r.db.Query(query, playerID, models.GameFinished, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game history: %w", err)
	}
	defer rows.Close()

	var games []models.MathGame
	for rows.Next() {
		g := models.MathGame{}
		err := rows.Scan(&g.ID, &g.PlayerID, &g.Mode, &g.Difficulty, &g.State,
			&g.Score, &g.Lives, &g.QuestionIndex, &g.TotalQuestions, &g.QuestionJSON,
			&g.Deadline, &g.PausedAt, &g.StartedAt, &g.CompletedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, g)
	}

	return games, rows.Err()
}
