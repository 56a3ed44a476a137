package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"mathclash/internal/game"
	"mathclash/internal/models"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrInvalidAvatar  = errors.New("unknown avatar")
	ErrInvalidOption  = errors.New("invalid customization option")
)

// The avatar catalog is fixed; profiles may only reference these images.
var avatarCatalog = []models.AvatarOption{
	{
		ID:          1,
		Name:        "Max",
		Image:       "/avatars/math-boy.png",
		Description: "The math whiz who loves cracking tough problems!",
	},
	{
		ID:          2,
		Name:        "Luna",
		Image:       "/avatars/math-girl.png",
		Description: "The number explorer who finds creative solutions!",
	},
	{
		ID:          3,
		Name:        "Robo Calc",
		Image:       "/avatars/math-robot.png",
		Description: "The robot that calculates everything in the blink of an eye!",
	},
	{
		ID:          4,
		Name:        "Professor Pi",
		Image:       "/avatars/math-teacher.png",
		Description: "The wise teacher who knows all the secrets of numbers!",
	},
}

// ProfileStore is the persistence surface the player service needs
type ProfileStore interface {
	GetPlayerByID(playerID int64) (*models.Player, error)
	UpdateCustomization(playerID int64, avatar, difficulty, gameMode string) error
	UpdateScore(playerID int64, score, level int) error
	DeletePlayerData(playerID int64) error
}

// RankingMirror is the optional cache the ranking is served from
type RankingMirror interface {
	RecordScore(ctx context.Context, p *models.Player) error
	RemovePlayer(ctx context.Context, playerID int64) error
}

// PlayerService handles profile customization, score writeback and account
// deletion
type PlayerService struct {
	players ProfileStore
	mirror  RankingMirror
}

// NewPlayerService creates a new player service. mirror may be nil when
// Redis is disabled.
func NewPlayerService(players ProfileStore, mirror RankingMirror) *PlayerService {
	return &PlayerService{
		players: players,
		mirror:  mirror,
	}
}

// Avatars returns the selectable avatar catalog
func (s *PlayerService) Avatars() []models.AvatarOption {
	return avatarCatalog
}

// ValidAvatar reports whether an image path belongs to the catalog
func ValidAvatar(image string) bool {
	for _, a := range avatarCatalog {
		if a.Image == image {
			return true
		}
	}
	return false
}

// GetProfile retrieves a player profile
func (s *PlayerService) GetProfile(playerID int64) (*models.Player, error) {
	player, err := s.players.GetPlayerByID(playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}
	return player, nil
}

// UpdateProfile applies the customization screen's choices. Empty fields keep
// their current value, so a partial update never clears anything.
func (s *PlayerService) UpdateProfile(playerID int64, avatar, difficulty, gameMode string) (*models.Player, error) {
	player, err := s.GetProfile(playerID)
	if err != nil {
		return nil, err
	}

	if avatar != "" {
		if !ValidAvatar(avatar) {
			return nil, ErrInvalidAvatar
		}
		player.Avatar = avatar
	}
	if difficulty != "" {
		if !game.ValidDifficulty(difficulty) {
			return nil, ErrInvalidOption
		}
		player.Difficulty = difficulty
	}
	if gameMode != "" {
		if gameMode != models.GameModeSingle && gameMode != models.GameModeMulti {
			return nil, ErrInvalidOption
		}
		player.GameMode = gameMode
	}

	if err := s.players.UpdateCustomization(playerID, player.Avatar, player.Difficulty, player.GameMode); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.mirrorScore(player)
	return player, nil
}

// RecordScore folds a finished game's score into the profile. The stored
// score only ever goes up; a worse run never overwrites a personal best.
func (s *PlayerService) RecordScore(playerID int64, sessionScore int) (*models.Player, error) {
	player, err := s.GetProfile(playerID)
	if err != nil {
		return nil, err
	}

	if sessionScore <= player.Score {
		return player, nil
	}

	player.Score = sessionScore
	player.Level = game.Level(sessionScore)
	if err := s.players.UpdateScore(playerID, player.Score, player.Level); err != nil {
		return nil, fmt.Errorf("failed to record score: %w", err)
	}

	s.mirrorScore(player)
	return player, nil
}

// DeleteAccount removes the player and everything tied to it: sessions,
// games, the profile row and the ranking entry.
func (s *PlayerService) DeleteAccount(playerID int64) error {
	if _, err := s.GetProfile(playerID); err != nil {
		return err
	}

	if err := s.players.DeletePlayerData(playerID); err != nil {
		return err
	}

	if s.mirror != nil {
		if err := s.mirror.RemovePlayer(context.Background(), playerID); err != nil {
			log.Printf("Warning: failed to remove player %d from ranking cache: %v", playerID, err)
		}
	}
	return nil
}

func (s *PlayerService) mirrorScore(player *models.Player) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.RecordScore(context.Background(), player); err != nil {
		log.Printf("Warning: failed to mirror score for player %d: %v", player.ID, err)
	}
}
