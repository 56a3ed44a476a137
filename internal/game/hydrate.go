package game

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"mathclash/internal/models"
)

// Snapshot copies the session's play state onto a persistable record. The
// current question is serialized whole, answer included, so an interrupted
// game resumes with the same question; the answer column never reaches API
// payloads.
func (s *Session) Snapshot(g *models.MathGame) error {
	g.Mode = s.Mode
	g.Difficulty = s.Difficulty
	g.State = s.State
	g.Score = s.Score
	g.Lives = s.Lives
	g.QuestionIndex = s.QuestionIndex
	g.TotalQuestions = s.Preset.TotalQuestions
	g.Deadline = s.Deadline
	g.PausedAt = s.PausedAt

	if s.Current == nil {
		g.QuestionJSON = ""
		return nil
	}
	data, err := json.Marshal(s.Current)
	if err != nil {
		return fmt.Errorf("failed to serialize question: %w", err)
	}
	g.QuestionJSON = string(data)
	return nil
}

// Restore rebuilds a live session from a persisted record
func Restore(g *models.MathGame, opts ...Option) (*Session, error) {
	s := &Session{
		Mode:          g.Mode,
		Difficulty:    g.Difficulty,
		Preset:        PresetFor(g.Difficulty),
		State:         g.State,
		Score:         g.Score,
		Lives:         g.Lives,
		QuestionIndex: g.QuestionIndex,
		Deadline:      g.Deadline,
		PausedAt:      g.PausedAt,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.gen == nil {
		s.gen = NewGenerator(rand.New(rand.NewSource(time.Now().UnixNano())))
	}
	if g.TotalQuestions > 0 {
		s.Preset.TotalQuestions = g.TotalQuestions
	}

	if g.QuestionJSON != "" {
		var q models.Question
		if err := json.Unmarshal([]byte(g.QuestionJSON), &q); err != nil {
			return nil, fmt.Errorf("failed to restore question: %w", err)
		}
		s.Current = &q
	}
	return s, nil
}
