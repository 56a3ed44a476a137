package handlers

import (
	"time"

	"mathclash/internal/models"
	"mathclash/internal/service"
)

// QuestionView is the client-facing shape of a question. The correct answer
// stays server-side; only the operands and the shuffled options go out.
type QuestionView struct {
	ID       int    `json:"id"`
	Operand1 int    `json:"operand1"`
	Operand2 int    `json:"operand2"`
	Operator string `json:"operator"`
	Options  []int  `json:"options"`
}

// GameView is the client-facing shape of a play-through
type GameView struct {
	ID               int64         `json:"id"`
	Mode             string        `json:"mode"`
	Difficulty       string        `json:"difficulty"`
	State            string        `json:"state"`
	Score            int           `json:"score"`
	Lives            int           `json:"lives"`
	QuestionIndex    int           `json:"question_index"`
	TotalQuestions   int           `json:"total_questions"`
	RemainingSeconds int           `json:"remaining_seconds"`
	Question         *QuestionView `json:"question,omitempty"`
}

func questionView(q *models.Question) *QuestionView {
	if q == nil {
		return nil
	}
	return &QuestionView{
		ID:       q.ID,
		Operand1: q.Operand1,
		Operand2: q.Operand2,
		Operator: models.DisplayOperator(q.Operator),
		Options:  q.Options,
	}
}

func gameView(state *service.GameState) *GameView {
	return &GameView{
		ID:               state.Game.ID,
		Mode:             state.Game.Mode,
		Difficulty:       state.Game.Difficulty,
		State:            state.Game.State,
		Score:            state.Game.Score,
		Lives:            state.Game.Lives,
		QuestionIndex:    state.Game.QuestionIndex,
		TotalQuestions:   state.Game.TotalQuestions,
		RemainingSeconds: state.Session.Remaining(),
		Question:         questionView(state.Session.Current),
	}
}

// HistoryEntryView summarizes one finished play-through
type HistoryEntryView struct {
	ID          int64      `json:"id"`
	Mode        string     `json:"mode"`
	Difficulty  string     `json:"difficulty"`
	Score       int        `json:"score"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func historyView(games []models.MathGame) []HistoryEntryView {
	entries := make([]HistoryEntryView, 0, len(games))
	for _, g := range games {
		entries = append(entries, HistoryEntryView{
			ID:          g.ID,
			Mode:        g.Mode,
			Difficulty:  g.Difficulty,
			Score:       g.Score,
			StartedAt:   g.StartedAt,
			CompletedAt: g.CompletedAt,
		})
	}
	return entries
}

// AnswerView reports how a submission resolved alongside the next state
type AnswerView struct {
	Correct       bool      `json:"correct"`
	TimedOut      bool      `json:"timed_out"`
	PointsAwarded int       `json:"points_awarded"`
	CorrectAnswer int       `json:"correct_answer"`
	Game          *GameView `json:"game"`
}
