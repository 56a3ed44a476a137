package service

import (
	"context"
	"sort"
	"time"

	"mathclash/internal/models"
)

// In-memory stores backing the service tests. They implement the same store
// interfaces the SQL repositories do.

type memStore struct {
	nextPlayerID int64
	nextGameID   int64
	players      map[int64]*models.Player
	sessions     map[string]*models.Session
	games        map[int64]*models.MathGame
	badWords     map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		players:  make(map[int64]*models.Player),
		sessions: make(map[string]*models.Session),
		games:    make(map[int64]*models.MathGame),
		badWords: make(map[string]bool),
	}
}

func (m *memStore) GetPlayerByID(playerID int64) (*models.Player, error) {
	p, ok := m.players[playerID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) GetPlayerByUsername(username string) (*models.Player, error) {
	for _, p := range m.players {
		if p.Username == username {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreatePlayer(name, username string, age int, passwordHash string) (*models.Player, error) {
	m.nextPlayerID++
	p := &models.Player{
		ID:           m.nextPlayerID,
		Name:         name,
		Username:     username,
		Age:          age,
		PasswordHash: passwordHash,
		Avatar:       models.DefaultAvatar,
		Difficulty:   models.DifficultyEasy,
		GameMode:     models.GameModeSingle,
		Level:        1,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.players[p.ID] = p
	cp := *p
	return &cp, nil
}

func (m *memStore) UpdateCustomization(playerID int64, avatar, difficulty, gameMode string) error {
	if p, ok := m.players[playerID]; ok {
		p.Avatar = avatar
		p.Difficulty = difficulty
		p.GameMode = gameMode
	}
	return nil
}

func (m *memStore) UpdateScore(playerID int64, score, level int) error {
	if p, ok := m.players[playerID]; ok {
		p.Score = score
		p.Level = level
	}
	return nil
}

func (m *memStore) DeletePlayerData(playerID int64) error {
	delete(m.players, playerID)
	m.DeletePlayerSessions(playerID)
	m.DeletePlayerGames(playerID)
	return nil
}

func (m *memStore) AllPlayers() ([]*models.Player, error) {
	var players []*models.Player
	for _, p := range m.players {
		cp := *p
		players = append(players, &cp)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players, nil
}

func (m *memStore) TopPlayers(limit int) ([]models.RankingEntry, error) {
	players, _ := m.AllPlayers()
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

func (m *memStore) CreateSession(sessionID string, playerID int64, expiresAt time.Time) (*models.Session, error) {
	s := &models.Session{
		ID:        sessionID,
		PlayerID:  playerID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	m.sessions[sessionID] = s
	cp := *s
	return &cp, nil
}

func (m *memStore) GetSession(sessionID string) (*models.Session, error) {
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memStore) DeleteSession(sessionID string) error {
	delete(m.sessions, sessionID)
	return nil
}

func (m *memStore) DeletePlayerSessions(playerID int64) error {
	for id, s := range m.sessions {
		if s.PlayerID == playerID {
			delete(m.sessions, id)
		}
	}
	return nil
}

func (m *memStore) DeleteExpiredSessions() error {
	for id, s := range m.sessions {
		if s.IsExpired() {
			delete(m.sessions, id)
		}
	}
	return nil
}

func (m *memStore) ScreenName(name string) (bool, error) {
	return m.badWords[name], nil
}

func (m *memStore) CreateGame(g *models.MathGame) (*models.MathGame, error) {
	m.nextGameID++
	g.ID = m.nextGameID
	cp := *g
	m.games[g.ID] = &cp
	return g, nil
}

func (m *memStore) GetActiveGame(playerID int64) (*models.MathGame, error) {
	var newest *models.MathGame
	for _, g := range m.games {
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

func (m *memStore) UpdateGame(g *models.MathGame) error {
	cp := *g
	m.games[g.ID] = &cp
	return nil
}

func (m *memStore) AbandonActiveGames(playerID int64, at time.Time) error {
	for _, g := range m.games {
		if g.PlayerID == playerID && g.IsActive() {
			g.State = models.GameAbandoned
			completed := at
			g.CompletedAt = &completed
		}
	}
	return nil
}

func (m *memStore) GameHistory(playerID int64, limit int) ([]models.MathGame, error) {
	var games []models.MathGame
	for _, g := range m.games {
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

func (m *memStore) DeletePlayerGames(playerID int64) error {
	for id, g := range m.games {
		if g.PlayerID == playerID {
			delete(m.games, id)
		}
	}
	return nil
}

// fakeMirror records ranking cache calls
type fakeMirror struct {
	recorded []int64
	removed  []int64
}

func (f *fakeMirror) RecordScore(ctx context.Context, p *models.Player) error {
	f.recorded = append(f.recorded, p.ID)
	return nil
}

func (f *fakeMirror) RemovePlayer(ctx context.Context, playerID int64) error {
	f.removed = append(f.removed, playerID)
	return nil
}
