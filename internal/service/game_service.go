package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"mathclash/internal/game"
	"mathclash/internal/models"
)

var (
	ErrNoActiveGame = errors.New("no active game")
	ErrInvalidMode  = errors.New("unknown game mode")
)

// GameStore is the persistence surface the game service needs
type GameStore interface {
	CreateGame(g *models.MathGame) (*models.MathGame, error)
	GetActiveGame(playerID int64) (*models.MathGame, error)
	UpdateGame(g *models.MathGame) error
	AbandonActiveGames(playerID int64, at time.Time) error
	GameHistory(playerID int64, limit int) ([]models.MathGame, error)
}

// historyLimit caps how many finished games the history endpoint returns
const historyLimit = 20

// PlayerGetter resolves a player's stored profile
type PlayerGetter interface {
	GetPlayerByID(playerID int64) (*models.Player, error)
}

// ScoreRecorder folds a finished game's score into a profile
type ScoreRecorder interface {
	RecordScore(playerID int64, sessionScore int) (*models.Player, error)
}

// GameState pairs a persisted game record with its live session
type GameState struct {
	Game    *models.MathGame
	Session *game.Session
}

// GameService drives play-throughs: it hydrates the question engine from
// storage, applies one operation and writes the state back.
type GameService struct {
	games   GameStore
	players PlayerGetter
	scores  ScoreRecorder
	presets map[string]game.Preset
}

// NewGameService creates a new game service. presets carries the configured
// tier overrides and may be nil.
func NewGameService(games GameStore, players PlayerGetter, scores ScoreRecorder, presets map[string]game.Preset) *GameService {
	return &GameService{
		games:   games,
		players: players,
		scores:  scores,
		presets: presets,
	}
}

func (s *GameService) presetFor(difficulty string) game.Preset {
	if p, ok := s.presets[difficulty]; ok {
		return p
	}
	return game.PresetFor(difficulty)
}

// Start begins a new game in the player's configured difficulty. Any game
// still active from a previous visit is abandoned first, so a player has at
// most one running game.
func (s *GameService) Start(playerID int64, mode string) (*GameState, error) {
	if mode == "" {
		mode = models.ModeQuiz
	}
	if mode != models.ModeQuiz && mode != models.ModeArrows {
		return nil, ErrInvalidMode
	}

	player, err := s.players.GetPlayerByID(playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}

	if err := s.games.AbandonActiveGames(playerID, time.Now()); err != nil {
		return nil, err
	}

	sess := game.NewSession(mode, player.Difficulty, game.WithPreset(s.presetFor(player.Difficulty)))
	if err := sess.Start(); err != nil {
		return nil, err
	}

	record := &models.MathGame{
		PlayerID:  playerID,
		StartedAt: time.Now(),
	}
	if err := sess.Snapshot(record); err != nil {
		return nil, err
	}

	record, err = s.games.CreateGame(record)
	if err != nil {
		return nil, err
	}

	return &GameState{Game: record, Session: sess}, nil
}

// Current returns the player's active game, hydrated. A row that no longer
// hydrates is abandoned rather than surfaced, so one corrupt record cannot
// wedge a player out of starting fresh.
func (s *GameService) Current(playerID int64) (*GameState, error) {
	record, err := s.games.GetActiveGame(playerID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrNoActiveGame
	}

	sess, err := game.Restore(record, game.WithPreset(s.presetFor(record.Difficulty)))
	if err != nil {
		log.Printf("Warning: discarding unreadable game %d for player %d: %v", record.ID, playerID, err)
		if abandonErr := s.games.AbandonActiveGames(playerID, time.Now()); abandonErr != nil {
			return nil, abandonErr
		}
		return nil, ErrNoActiveGame
	}
	return &GameState{Game: record, Session: sess}, nil
}

// Answer resolves one submission against the active game. When the game
// finishes, the score is folded into the player's profile; an abandoned or
// quit game never reaches that path.
func (s *GameService) Answer(playerID int64, value int) (*game.AnswerResult, *GameState, error) {
	state, err := s.Current(playerID)
	if err != nil {
		return nil, nil, err
	}

	result, err := state.Session.Answer(value)
	if err != nil {
		return nil, nil, err
	}

	if err := s.persist(state); err != nil {
		return nil, nil, err
	}

	if result.Finished {
		if _, err := s.scores.RecordScore(playerID, state.Session.Score); err != nil {
			// The game row is already final; a failed writeback must not
			// surface as a failed answer.
			log.Printf("Warning: failed to record score for player %d: %v", playerID, err)
		}
	}

	return result, state, nil
}

// Pause freezes the active game's countdown
func (s *GameService) Pause(playerID int64) (*GameState, error) {
	state, err := s.Current(playerID)
	if err != nil {
		return nil, err
	}
	if err := state.Session.Pause(); err != nil {
		return nil, err
	}
	if err := s.persist(state); err != nil {
		return nil, err
	}
	return state, nil
}

// Resume unfreezes a paused game, extending its deadline by the paused time
func (s *GameService) Resume(playerID int64) (*GameState, error) {
	state, err := s.Current(playerID)
	if err != nil {
		return nil, err
	}
	if err := state.Session.Resume(); err != nil {
		return nil, err
	}
	if err := s.persist(state); err != nil {
		return nil, err
	}
	return state, nil
}

// Quit abandons the active game. The run's score is discarded rather than
// recorded.
func (s *GameService) Quit(playerID int64) (*GameState, error) {
	state, err := s.Current(playerID)
	if err != nil {
		return nil, err
	}
	state.Session.Abandon()
	if err := s.persist(state); err != nil {
		return nil, err
	}
	return state, nil
}

// History returns the player's finished games, newest first
func (s *GameService) History(playerID int64) ([]models.MathGame, error) {
	return s.games.GameHistory(playerID, historyLimit)
}

func (s *GameService) persist(state *GameState) error {
	if err := state.Session.Snapshot(state.Game); err != nil {
		return err
	}
	if state.Session.Over() && state.Game.CompletedAt == nil {
		now := time.Now()
		state.Game.CompletedAt = &now
	}
	return s.games.UpdateGame(state.Game)
}
