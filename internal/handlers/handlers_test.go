package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"mathclash/internal/models"
	"mathclash/internal/service"
)

const testJWTSecret = "handler-test-secret"

// fakeStore is an in-memory stand-in for the SQL repositories
type fakeStore struct {
	nextPlayerID int64
	nextGameID   int64
	players      map[int64]*models.Player
	sessions     map[string]*models.Session
	games        map[int64]*models.MathGame
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		players:  make(map[int64]*models.Player),
		sessions: make(map[string]*models.Session),
		games:    make(map[int64]*models.MathGame),
	}
}

func (f *fakeStore) GetPlayerByID(playerID int64) (*models.Player, error) {
	p, ok := f.players[playerID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) GetPlayerByUsername(username string) (*models.Player, error) {
	for _, p := range f.players {
		if p.Username == username {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreatePlayer(name, username string, age int, passwordHash string) (*models.Player, error) {
	f.nextPlayerID++
	p := &models.Player{
		ID:           f.nextPlayerID,
		Name:         name,
		Username:     username,
		Age:          age,
		PasswordHash: passwordHash,
		Avatar:       models.DefaultAvatar,
		Difficulty:   models.DifficultyEasy,
		GameMode:     models.GameModeSingle,
		Level:        1,
	}
	f.players[p.ID] = p
	cp := *p
	return &cp, nil
}

func (f *fakeStore) UpdateCustomization(playerID int64, avatar, difficulty, gameMode string) error {
	if p, ok := f.players[playerID]; ok {
		p.Avatar = avatar
		p.Difficulty = difficulty
		p.GameMode = gameMode
	}
	return nil
}

func (f *fakeStore) UpdateScore(playerID int64, score, level int) error {
	if p, ok := f.players[playerID]; ok {
		p.Score = score
		p.Level = level
	}
	return nil
}

func (f *fakeStore) DeletePlayerData(playerID int64) error {
	delete(f.players, playerID)
	f.DeletePlayerSessions(playerID)
	f.DeletePlayerGames(playerID)
	return nil
}

func (f *fakeStore) CreateSession(sessionID string, playerID int64, expiresAt time.Time) (*models.Session, error) {
	s := &models.Session{ID: sessionID, PlayerID: playerID, ExpiresAt: expiresAt}
	f.sessions[sessionID] = s
	cp := *s
	return &cp, nil
}

func (f *fakeStore) GetSession(sessionID string) (*models.Session, error) {
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStore) DeleteSession(sessionID string) error {
	delete(f.sessions, sessionID)
	return nil
}

func (f *fakeStore) DeletePlayerSessions(playerID int64) error {
	for id, s := range f.sessions {
		if s.PlayerID == playerID {
			delete(f.sessions, id)
		}
	}
	return nil
}

func (f *fakeStore) DeleteExpiredSessions() error { return nil }

func (f *fakeStore) ScreenName(name string) (bool, error) { return false, nil }

func (f *fakeStore) CreateGame(g *models.MathGame) (*models.MathGame, error) {
	f.nextGameID++
	g.ID = f.nextGameID
	cp := *g
	f.games[g.ID] = &cp
	return g, nil
}

func (f *fakeStore) GetActiveGame(playerID int64) (*models.MathGame, error) {
	var newest *models.MathGame
	for _, g := range f.games {
		if g.PlayerID != playerID || !g.IsActive() {
			continue
		}
		if newest == nil || g.StartedAt.After(newest.StartedAt) {
			newest = g
		}
	}
	if newest == nil {
		return nil, nil
	}
	cp := *newest
	return &cp, nil
}

func (f *fakeStore) UpdateGame(g *models.MathGame) error {
	cp := *g
	f.games[g.ID] = &cp
	return nil
}

func (f *fakeStore) AbandonActiveGames(playerID int64, at time.Time) error {
	for _, g := range f.games {
		if g.PlayerID == playerID && g.IsActive() {
			g.State = models.GameAbandoned
			completed := at
			g.CompletedAt = &completed
		}
	}
	return nil
}

func (f *fakeStore) GameHistory(playerID int64, limit int) ([]models.MathGame, error) {
	var games []models.MathGame
	for _, g := range f.games {
		if g.PlayerID == playerID && g.State == models.GameFinished {
			games = append(games, *g)
		}
	}
	sort.Slice(games, func(i, j int) bool {
		return games[i].StartedAt.After(games[j].StartedAt)
	})
	if len(games) > limit {
		games = games[:limit]
	}
	return games, nil
}

func (f *fakeStore) DeletePlayerGames(playerID int64) error {
	for id, g := range f.games {
		if g.PlayerID == playerID {
			delete(f.games, id)
		}
	}
	return nil
}

func (f *fakeStore) AllPlayers() ([]*models.Player, error) {
	players := make([]*models.Player, 0, len(f.players))
	for _, p := range f.players {
		players = append(players, p)
	}
	return players, nil
}

func (f *fakeStore) TopPlayers(limit int) ([]models.RankingEntry, error) {
	players, _ := f.AllPlayers()
	sort.SliceStable(players, func(i, j int) bool { return players[i].Score > players[j].Score })
	if len(players) > limit {
		players = players[:limit]
	}
	entries := make([]models.RankingEntry, len(players))
	for i, p := range players {
		entries[i] = models.RankingEntry{
			Rank:     i + 1,
			PlayerID: p.ID,
			Name:     p.Name,
			Avatar:   p.Avatar,
			Level:    p.Level,
			Score:    p.Score,
		}
	}
	return entries, nil
}

// newTestServer builds the API with in-memory storage behind it
func newTestServer(t *testing.T) (*httptest.Server, *fakeStore) {
	t.Helper()

	store := newFakeStore()
	authService := service.NewAuthService(store, time.Hour)
	playerService := service.NewPlayerService(store, nil)
	gameService := service.NewGameService(store, store, playerService, nil)
	rankingService := service.NewRankingService(store, nil, 10)

	secret := []byte(testJWTSecret)
	middleware := NewMiddleware(authService, secret, nil)
	authHandler := NewAuthHandler(authService, secret, time.Hour)
	playerHandler := NewPlayerHandler(playerService)
	gameHandler := NewGameHandler(gameService)
	rankingHandler := NewRankingHandler(rankingService)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/register", authHandler.Register)
	mux.HandleFunc("POST /api/login", authHandler.Login)
	mux.HandleFunc("POST /api/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/usernames/suggest", authHandler.SuggestUsernames)
	mux.HandleFunc("GET /api/profile", middleware.RequireAuth(playerHandler.GetProfile))
	mux.HandleFunc("POST /api/profile", middleware.RequireAuth(playerHandler.UpdateProfile))
	mux.HandleFunc("POST /api/profile/delete", middleware.RequireAuth(playerHandler.DeleteProfile))
	mux.HandleFunc("GET /api/avatars", playerHandler.Avatars)
	mux.HandleFunc("GET /api/ranking", rankingHandler.Top)
	mux.HandleFunc("POST /api/games/start", middleware.RequireAuth(gameHandler.Start))
	mux.HandleFunc("GET /api/games/current", middleware.RequireAuth(gameHandler.Current))
	mux.HandleFunc("POST /api/games/answer", middleware.RequireAuth(gameHandler.Answer))
	mux.HandleFunc("POST /api/games/pause", middleware.RequireAuth(gameHandler.Pause))
	mux.HandleFunc("POST /api/games/resume", middleware.RequireAuth(gameHandler.Resume))
	mux.HandleFunc("POST /api/games/quit", middleware.RequireAuth(gameHandler.Quit))
	mux.HandleFunc("GET /api/games/history", middleware.RequireAuth(gameHandler.History))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, store
}

func postJSON(t *testing.T, url string, body interface{}, token string) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func getJSON(t *testing.T, url, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, into interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// correctAnswerFromRecord pulls the server-side answer out of a persisted
// question, since API payloads never carry it
func correctAnswerFromRecord(t *testing.T, questionJSON string) int {
	t.Helper()
	var q models.Question
	if err := json.Unmarshal([]byte(questionJSON), &q); err != nil {
		t.Fatalf("decode stored question: %v", err)
	}
	return q.Answer
}

// register signs up a player and returns its bearer token
func register(t *testing.T, server *httptest.Server, username string) string {
	t.Helper()

	resp := postJSON(t, server.URL+"/api/register", map[string]interface{}{
		"name":     "Ana",
		"username": username,
		"age":      8,
		"password": "1234",
	}, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", resp.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
	}
	decode(t, resp, &body)
	if body.Token == "" {
		t.Fatal("register returned no token")
	}
	return body.Token
}
