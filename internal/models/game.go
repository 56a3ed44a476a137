package models

import "time"

// Game variants sharing the same question/scoring engine
const (
	ModeQuiz   = "quiz"   // multiple-choice cards
	ModeArrows = "arrows" // arrow-shooting variant
)

// Game lifecycle states. Finished marks a genuine play-through (lives gone
// or all questions answered); Abandoned marks a quit or superseded run and
// stays out of the history.
const (
	GameNotStarted = "not_started"
	GameInProgress = "in_progress"
	GamePaused     = "paused"
	GameFinished   = "finished"
	GameAbandoned  = "abandoned"
)

// Arithmetic operators as stored; DisplayOperator maps to the symbols
// shown to kids.
const (
	OpAdd = "+"
	OpSub = "-"
	OpMul = "*"
	OpDiv = "/"
)

// DisplayOperator returns the presentation symbol for an operator
func DisplayOperator(op string) string {
	switch op {
	case OpMul:
		return "×"
	case OpDiv:
		return "÷"
	default:
		return op
	}
}

// Question is one arithmetic question with four answer options, exactly one
// of which equals Answer.
type Question struct {
	ID       int    `json:"id"`
	Operand1 int    `json:"operand1"`
	Operand2 int    `json:"operand2"`
	Operator string `json:"operator"`
	Answer   int    `json:"answer"`
	Options  []int  `json:"options"`
}

// MathGame is the persisted state of one play-through. The current question
// is stored serialized so an interrupted game can be resumed; the deadline
// replaces a ticking timer (an answer at or past the deadline resolves as a
// timeout).
type MathGame struct {
	ID             int64
	PlayerID       int64
	Mode           string
	Difficulty     string
	State          string
	Score          int
	Lives          int
	QuestionIndex  int
	TotalQuestions int
	QuestionJSON   string
	Deadline       time.Time
	PausedAt       *time.Time
	StartedAt      time.Time
	CompletedAt    *time.Time
}

// IsActive reports whether the game still accepts play operations
func (g *MathGame) IsActive() bool {
	return g.State == GameInProgress || g.State == GamePaused
}
