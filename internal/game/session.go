package game

import (
	"errors"
	"math/rand"
	"time"

	"mathclash/internal/models"
)

var (
	ErrNotInProgress  = errors.New("game is not in progress")
	ErrGamePaused     = errors.New("game is paused")
	ErrAlreadyStarted = errors.New("game already started")
)

// Session is one play-through: lives, score, the current question and its
// deadline. The countdown is deadline-based rather than a ticking goroutine:
// every answer is resolved against the clock at submission time, so there is
// no timer resource to cancel on pause, finish or abandon.
type Session struct {
	Mode          string
	Difficulty    string
	Preset        Preset
	State         string
	Score         int
	Lives         int
	QuestionIndex int
	Current       *models.Question
	Deadline      time.Time
	PausedAt      *time.Time

	gen *Generator
	now func() time.Time
}

// AnswerResult describes how one submission resolved
type AnswerResult struct {
	Correct       bool
	TimedOut      bool
	PointsAwarded int
	CorrectAnswer int
	LivesLeft     int
	Finished      bool
}

// Option configures a Session
type Option func(*Session)

// WithClock overrides the time source, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithRand overrides the random source, for deterministic question streams
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.gen = NewGenerator(rng) }
}

// WithPreset overrides the difficulty preset (configurable tier tables)
func WithPreset(p Preset) Option {
	return func(s *Session) { s.Preset = p }
}

// NewSession creates a fresh session in the NotStarted state
func NewSession(mode, difficulty string, opts ...Option) *Session {
	s := &Session{
		Mode:       mode,
		Difficulty: difficulty,
		Preset:     PresetFor(difficulty),
		State:      models.GameNotStarted,
		Lives:      StartingLives,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.gen == nil {
		s.gen = NewGenerator(rand.New(rand.NewSource(time.Now().UnixNano())))
	}
	return s
}

// Start resets the counters and deals the first question
func (s *Session) Start() error {
	if s.State != models.GameNotStarted {
		return ErrAlreadyStarted
	}
	s.Score = 0
	s.Lives = StartingLives
	s.QuestionIndex = 0
	s.State = models.GameInProgress
	s.nextQuestion()
	return nil
}

// Remaining returns the whole seconds left on the current question, never
// negative.
func (s *Session) Remaining() int {
	if s.Current == nil {
		return 0
	}
	ref := s.now()
	if s.PausedAt != nil {
		ref = *s.PausedAt
	}
	left := s.Deadline.Sub(ref)
	if left < 0 {
		return 0
	}
	return int(left / time.Second)
}

// Answer resolves a submission against the current question. A submission at
// or past the deadline is a forced-incorrect timeout regardless of its value.
// Correct answers earn base points plus half the remaining seconds, rounded
// down; wrong answers cost a life. The session transitions to Finished when
// lives run out or the question count is reached, otherwise the next question
// is dealt and the timer reset.
func (s *Session) Answer(value int) (*AnswerResult, error) {
	switch s.State {
	case models.GamePaused:
		return nil, ErrGamePaused
	case models.GameInProgress:
	default:
		return nil, ErrNotInProgress
	}

	remaining := s.Deadline.Sub(s.now())
	timedOut := remaining <= 0

	result := &AnswerResult{
		TimedOut:      timedOut,
		CorrectAnswer: s.Current.Answer,
	}

	if !timedOut && value == s.Current.Answer {
		result.Correct = true
		result.PointsAwarded = s.Preset.BasePoints + int(remaining/time.Second)/2
		s.Score += result.PointsAwarded
	} else {
		s.Lives--
	}
	result.LivesLeft = s.Lives

	if s.Lives == 0 || s.QuestionIndex+1 == s.Preset.TotalQuestions {
		s.finish()
		result.Finished = true
		return result, nil
	}

	s.QuestionIndex++
	s.nextQuestion()
	return result, nil
}

// Pause freezes the countdown; answers are rejected until Resume
func (s *Session) Pause() error {
	if s.State != models.GameInProgress {
		return ErrNotInProgress
	}
	pausedAt := s.now()
	s.PausedAt = &pausedAt
	s.State = models.GamePaused
	return nil
}

// Resume extends the deadline by the paused interval and unfreezes play
func (s *Session) Resume() error {
	if s.State != models.GamePaused {
		return ErrNotInProgress
	}
	s.Deadline = s.Deadline.Add(s.now().Sub(*s.PausedAt))
	s.PausedAt = nil
	s.State = models.GameInProgress
	return nil
}

// Abandon terminates the session without score writeback eligibility. The
// run lands in the Abandoned state, not Finished, so it never shows up as a
// genuine play-through.
func (s *Session) Abandon() {
	s.terminate(models.GameAbandoned)
}

// Finished reports whether the session completed a genuine play-through
func (s *Session) Finished() bool {
	return s.State == models.GameFinished
}

// Over reports whether the session reached any terminal state
func (s *Session) Over() bool {
	return s.State == models.GameFinished || s.State == models.GameAbandoned
}

func (s *Session) finish() {
	s.terminate(models.GameFinished)
}

func (s *Session) terminate(state string) {
	s.State = state
	s.Current = nil
	s.PausedAt = nil
}

func (s *Session) nextQuestion() {
	q := s.gen.Generate(s.QuestionIndex+1, s.Difficulty)
	s.Current = &q
	s.Deadline = s.now().Add(s.Preset.QuestionTime)
}
