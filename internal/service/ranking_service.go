package service

import (
	"context"
	"fmt"
	"log"

	"mathclash/internal/models"
)

// RankingStore is the SQL side of the ranking
type RankingStore interface {
	TopPlayers(limit int) ([]models.RankingEntry, error)
	AllPlayers() ([]*models.Player, error)
}

// RankingCache is the Redis side: a sorted-set mirror of best scores
type RankingCache interface {
	TopPlayers(ctx context.Context, n int) ([]models.RankingEntry, error)
	Rebuild(ctx context.Context, players []*models.Player) error
}

// RankingService serves the top-players list. With a cache attached it reads
// from Redis and falls back to SQL; without one it reads SQL directly.
type RankingService struct {
	players RankingStore
	cache   RankingCache
	limit   int
}

// NewRankingService creates a new ranking service. cache may be nil.
func NewRankingService(players RankingStore, cache RankingCache, limit int) *RankingService {
	return &RankingService{
		players: players,
		cache:   cache,
		limit:   limit,
	}
}

// Top returns the ranking, best score first. limit values outside [1, max]
// collapse to the configured maximum.
func (s *RankingService) Top(ctx context.Context, limit int) ([]models.RankingEntry, error) {
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}

	if s.cache != nil {
		entries, err := s.cache.TopPlayers(ctx, limit)
		if err == nil && len(entries) > 0 {
			return entries, nil
		}
		if err != nil {
			log.Printf("Warning: ranking cache read failed, falling back to SQL: %v", err)
		}
	}

	entries, err := s.players.TopPlayers(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load ranking: %w", err)
	}
	return entries, nil
}

// WarmCache rebuilds the Redis mirror from SQL. Called once at startup so a
// cold cache catches up with stored scores.
func (s *RankingService) WarmCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	players, err := s.players.AllPlayers()
	if err != nil {
		return fmt.Errorf("failed to load players: %w", err)
	}
	return s.cache.Rebuild(ctx, players)
}
