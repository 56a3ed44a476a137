package leaderboard

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"mathclash/internal/config"
	"mathclash/internal/models"
)

const (
	rankingKey    = "mathclash:ranking"
	playerInfoKey = "mathclash:player:%d:info"
)

// Redis mirrors the players' best scores into a sorted set so the ranking
// endpoint does not hit SQL on every request. SQL remains the source of
// truth; the mirror is rebuilt whenever a score is recorded.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to Redis and verifies the connection
func NewRedis(cfg config.RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Redis{client: client}, nil
}

// Close releases the Redis connection
func (r *Redis) Close() error {
	return r.client.Close()
}

// RecordScore writes a player's best score into the sorted set and caches the
// display fields the ranking needs
func (r *Redis) RecordScore(ctx context.Context, p *models.Player) error {
	pipe := r.client.Pipeline()
	pipe.ZAdd(ctx, rankingKey, redis.Z{
		Score:  float64(p.Score),
		Member: strconv.FormatInt(p.ID, 10),
	})
	pipe.HSet(ctx, fmt.Sprintf(playerInfoKey, p.ID),
		"name", p.Name,
		"avatar", p.Avatar,
		"level", p.Level,
	)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record score: %w", err)
	}
	return nil
}

// RemovePlayer drops a deleted player from the ranking mirror
func (r *Redis) RemovePlayer(ctx context.Context, playerID int64) error {
	pipe := r.client.Pipeline()
	pipe.ZRem(ctx, rankingKey, strconv.FormatInt(playerID, 10))
	pipe.Del(ctx, fmt.Sprintf(playerInfoKey, playerID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to remove player: %w", err)
	}
	return nil
}

// TopPlayers returns the top n ranking entries, best score first
func (r *Redis) TopPlayers(ctx context.Context, n int) ([]models.RankingEntry, error) {
	results, err := r.client.ZRevRangeWithScores(ctx, rankingKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read ranking: %w", err)
	}

	entries := make([]models.RankingEntry, 0, len(results))
	for i, result := range results {
		playerID, err := strconv.ParseInt(result.Member.(string), 10, 64)
		if err != nil {
			continue
		}

		info, err := r.client.HGetAll(ctx, fmt.Sprintf(playerInfoKey, playerID)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read player info: %w", err)
		}
		level, _ := strconv.Atoi(info["level"])

		entries = append(entries, models.RankingEntry{
			Rank:     i + 1,
			PlayerID: playerID,
			Name:     info["name"],
			Avatar:   info["avatar"],
			Level:    level,
			Score:    int(result.Score),
		})
	}
	return entries, nil
}

// Rebuild replaces the mirror with the given entries. Called at startup so a
// cold Redis catches up with SQL.
func (r *Redis) Rebuild(ctx context.Context, players []*models.Player) error {
	pipe := r.client.Pipeline()
	pipe.Del(ctx, rankingKey)
	for _, p := range players {
		pipe.ZAdd(ctx, rankingKey, redis.Z{
			Score:  float64(p.Score),
			Member: strconv.FormatInt(p.ID, 10),
		})
		pipe.HSet(ctx, fmt.Sprintf(playerInfoKey, p.ID),
			"name", p.Name,
			"avatar", p.Avatar,
			"level", p.Level,
		)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to rebuild ranking: %w", err)
	}
	return nil
}
