package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	DatabaseType    string
	DatabaseURL     string
	DatabasePath    string
	MigrationsPath  string
	SessionDuration time.Duration
	JWTSecret       string
	RankingLimit    int

	Redis   RedisConfig
	Presets map[string]PresetConfig
}

// RedisConfig holds the optional redis leaderboard settings
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// PresetConfig overrides the timer/length table of one difficulty tier.
// The shipped defaults are the canonical table; deployments that want a
// flat 15s/10q table across tiers can set it here.
type PresetConfig struct {
	QuestionSeconds int `yaml:"question_seconds"`
	TotalQuestions  int `yaml:"total_questions"`
}

// fileConfig is the shape of the optional YAML config file
type fileConfig struct {
	Redis   RedisConfig             `yaml:"redis"`
	Presets map[string]PresetConfig `yaml:"presets"`
}

// Load reads configuration from environment variables with sensible
// defaults. A .env file is honored if present, and CONFIG_PATH may point at
// a YAML file carrying the redis and difficulty-preset sections.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:      getEnv("PORT", "8080"),
		DatabaseType:    getEnv("DB_TYPE", "sqlite"),
		DatabaseURL:     getEnv("DB_URL", ""),
		DatabasePath:    getEnv("DB_PATH", "./mathclash.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		SessionDuration: 24 * time.Hour,
		JWTSecret:       getEnv("JWT_SECRET", "mathclash-dev-secret"),
		RankingLimit:    getEnvInt("RANKING_LIMIT", 10),
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	// Env always wins over the file for redis settings
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Enabled = true
		cfg.Redis.Addr = addr
		cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
		cfg.Redis.DB = getEnvInt("REDIS_DB", 0)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand ${VAR} references before parsing
	data = []byte(os.ExpandEnv(string(data)))

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	c.Redis = fc.Redis
	c.Presets = fc.Presets
	return nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
