package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"mathclash/internal/database"
)

// BackupData is the complete portable backup structure. It is plain JSON so a
// dump taken against one database dialect restores into another.
type BackupData struct {
	Version    string         `json:"version"`
	ExportedAt time.Time      `json:"exported_at"`
	Players    []PlayerBackup `json:"players"`
	Games      []GameBackup   `json:"games"`
}

// PlayerBackup is one player profile in a backup
type PlayerBackup struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Age          int       `json:"age"`
	PasswordHash string    `json:"password_hash"`
	Avatar       string    `json:"avatar"`
	Difficulty   string    `json:"difficulty"`
	GameMode     string    `json:"game_mode"`
	Score        int       `json:"score"`
	Level        int       `json:"level"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GameBackup is one game record in a backup. Sessions are deliberately not
// exported; they are short-lived credentials.
type GameBackup struct {
	ID             int64      `json:"id"`
	PlayerID       int64      `json:"player_id"`
	Mode           string     `json:"mode"`
	Difficulty     string     `json:"difficulty"`
	State          string     `json:"state"`
	Score          int        `json:"score"`
	Lives          int        `json:"lives"`
	QuestionIndex  int        `json:"question_index"`
	TotalQuestions int        `json:"total_questions"`
	QuestionJSON   string     `json:"question_json"`
	Deadline       time.Time  `json:"deadline"`
	PausedAt       *time.Time `json:"paused_at"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export writes a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now(),
	}

	if err := s.exportPlayers(backup); err != nil {
		return fmt.Errorf("failed to export players: %w", err)
	}
	if err := s.exportGames(backup); err != nil {
		return fmt.Errorf("failed to export games: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Database exported successfully to %s", outputPath)
	log.Printf("Exported: %d players, %d games", len(backup.Players), len(backup.Games))
	return nil
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup stream
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	// Players first; games reference them
	if err := s.importPlayers(backup.Players); err != nil {
		return fmt.Errorf("failed to import players: %w", err)
	}
	if err := s.importGames(backup.Games); err != nil {
		return fmt.Errorf("failed to import games: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) exportPlayers(backup *BackupData) error {
	query := "SELECT id, name, username, age, password_hash, avatar, difficulty, game_mode, score, level, created_at, updated_at FROM players ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p PlayerBackup
		if err := rows.Scan(&p.ID, &p.Name, &p.Username, &p.Age, &p.PasswordHash, &p.Avatar, &p.Difficulty, &p.GameMode, &p.Score, &p.Level, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return err
		}
		backup.Players = append(backup.Players, p)
	}
	return rows.Err()
}

func (s *BackupService) exportGames(backup *BackupData) error {
	query := "SELECT id, player_id, mode, difficulty, state, score, lives, question_index, total_questions, question_json, deadline, paused_at, started_at, completed_at FROM math_games ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var g GameBackup
		var pausedAt, completedAt sql.NullTime
		if err := rows.Scan(&g.ID, &g.PlayerID, &g.Mode, &g.Difficulty, &g.State, &g.Score, &g.Lives, &g.QuestionIndex, &g.TotalQuestions, &g.QuestionJSON, &g.Deadline, &pausedAt, &g.StartedAt, &completedAt); err != nil {
			return err
		}
		if pausedAt.Valid {
			g.PausedAt = &pausedAt.Time
		}
		if completedAt.Valid {
			g.CompletedAt = &completedAt.Time
		}
		backup.Games = append(backup.Games, g)
	}
	return rows.Err()
}

func (s *BackupService) importPlayers(players []PlayerBackup) error {
	log.Printf("Importing %d players...", len(players))
	for _, p := range players {
		query := "INSERT INTO players (id, name, username, age, password_hash, avatar, difficulty, game_mode, score, level, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, p.ID, p.Name, p.Username, p.Age, p.PasswordHash, p.Avatar, p.Difficulty, p.GameMode, p.Score, p.Level, p.CreatedAt, p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import player %d: %w", p.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importGames(games []GameBackup) error {
	log.Printf("Importing %d games...", len(games))
	for _, g := range games {
		query := "INSERT INTO math_games (id, player_id, mode, difficulty, state, score, lives, question_index, total_questions, question_json, deadline, paused_at, started_at, completed_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, g.ID, g.PlayerID, g.Mode, g.Difficulty, g.State, g.Score, g.Lives, g.QuestionIndex, g.TotalQuestions, g.QuestionJSON, g.Deadline, g.PausedAt, g.StartedAt, g.CompletedAt)
		if err != nil {
			return fmt.Errorf("failed to import game %d: %w", g.ID, err)
		}
	}
	return nil
}
