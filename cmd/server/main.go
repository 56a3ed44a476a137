package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mathclash/internal/config"
	"mathclash/internal/database"
	"mathclash/internal/game"
	"mathclash/internal/handlers"
	"mathclash/internal/leaderboard"
	"mathclash/internal/repository"
	"mathclash/internal/security"
	"mathclash/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Seed the name filter used at registration
	if err := db.SeedBadWords(); err != nil {
		log.Printf("Warning: Failed to seed name filter: %v", err)
	}

	// Initialize repositories
	playerRepo := repository.NewPlayerRepository(db)
	gameRepo := repository.NewGameRepository(db)

	// Optional redis ranking mirror
	var mirror *leaderboard.Redis
	if cfg.Redis.Enabled {
		mirror, err = leaderboard.NewRedis(cfg.Redis)
		if err != nil {
			log.Printf("Warning: Redis unavailable, ranking served from SQL: %v", err)
		} else {
			defer mirror.Close()
			log.Printf("Redis ranking mirror connected (%s)", cfg.Redis.Addr)
		}
	}

	// Initialize services
	authService := service.NewAuthService(playerRepo, cfg.SessionDuration)
	playerService := service.NewPlayerService(playerRepo, mirrorOrNil(mirror))
	gameService := service.NewGameService(gameRepo, playerRepo, playerService, buildPresets(cfg.Presets))
	rankingService := service.NewRankingService(playerRepo, cacheOrNil(mirror), cfg.RankingLimit)

	if mirror != nil {
		if err := rankingService.WarmCache(context.Background()); err != nil {
			log.Printf("Warning: Failed to warm ranking cache: %v", err)
		}
	}

	// Initialize handlers
	jwtSecret := []byte(cfg.JWTSecret)
	limiter := security.NewRateLimiter(20, time.Minute)
	middleware := handlers.NewMiddleware(authService, jwtSecret, limiter)
	authHandler := handlers.NewAuthHandler(authService, jwtSecret, cfg.SessionDuration)
	playerHandler := handlers.NewPlayerHandler(playerService)
	gameHandler := handlers.NewGameHandler(gameService)
	rankingHandler := handlers.NewRankingHandler(rankingService)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Public routes
	mux.HandleFunc("POST /api/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/usernames/suggest", authHandler.SuggestUsernames)
	mux.HandleFunc("GET /api/avatars", playerHandler.Avatars)
	mux.HandleFunc("GET /api/ranking", rankingHandler.Top)

	// Profile routes
	mux.HandleFunc("GET /api/profile", middleware.RequireAuth(playerHandler.GetProfile))
	mux.HandleFunc("POST /api/profile", middleware.RequireAuth(playerHandler.UpdateProfile))
	mux.HandleFunc("POST /api/profile/delete", middleware.RequireAuth(playerHandler.DeleteProfile))

	// Game routes
	mux.HandleFunc("POST /api/games/start", middleware.RequireAuth(gameHandler.Start))
	mux.HandleFunc("GET /api/games/current", middleware.RequireAuth(gameHandler.Current))
	mux.HandleFunc("POST /api/games/answer", middleware.RequireAuth(gameHandler.Answer))
	mux.HandleFunc("POST /api/games/pause", middleware.RequireAuth(gameHandler.Pause))
	mux.HandleFunc("POST /api/games/resume", middleware.RequireAuth(gameHandler.Resume))
	mux.HandleFunc("POST /api/games/quit", middleware.RequireAuth(gameHandler.Quit))
	mux.HandleFunc("GET /api/games/history", middleware.RequireAuth(gameHandler.History))

	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background session cleanup
	go cleanupExpiredSessions(authService)

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// cleanupExpiredSessions runs periodic cleanup of expired sessions
func cleanupExpiredSessions(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		} else {
			log.Println("Cleaned up expired sessions")
		}
	}
}

// buildPresets overlays the configured tier table onto the shipped defaults
func buildPresets(overrides map[string]config.PresetConfig) map[string]game.Preset {
	if len(overrides) == 0 {
		return nil
	}
	presets := make(map[string]game.Preset, len(overrides))
	for tier, o := range overrides {
		if !game.ValidDifficulty(tier) {
			log.Printf("Warning: ignoring preset for unknown difficulty %q", tier)
			continue
		}
		p := game.PresetFor(tier)
		if o.QuestionSeconds > 0 {
			p.QuestionTime = time.Duration(o.QuestionSeconds) * time.Second
		}
		if o.TotalQuestions > 0 {
			p.TotalQuestions = o.TotalQuestions
		}
		presets[tier] = p
	}
	return presets
}

// A nil *leaderboard.Redis must become a nil interface, not a typed nil.
func mirrorOrNil(m *leaderboard.Redis) service.RankingMirror {
	if m == nil {
		return nil
	}
	return m
}

func cacheOrNil(m *leaderboard.Redis) service.RankingCache {
	if m == nil {
		return nil
	}
	return m
}
