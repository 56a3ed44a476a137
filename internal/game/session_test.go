package game

import (
	"math/rand"
	"testing"
	"time"

	"mathclash/internal/models"
)

// fakeClock is a manually advanced time source
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestSession(t *testing.T, difficulty string, clock *fakeClock) *Session {
	t.Helper()
	s := NewSession(models.ModeQuiz, difficulty,
		WithClock(clock.Now),
		WithRand(rand.New(rand.NewSource(5))),
	)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return s
}

func TestSessionStart(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, models.DifficultyEasy, clock)

	if s.State != models.GameInProgress {
		t.Errorf("state = %s, want %s", s.State, models.GameInProgress)
	}
	if s.Score != 0 || s.Lives != StartingLives || s.QuestionIndex != 0 {
		t.Errorf("fresh session not reset: score=%d lives=%d index=%d",
			s.Score, s.Lives, s.QuestionIndex)
	}
	if s.Current == nil {
		t.Fatal("no question dealt on start")
	}
	if got := s.Remaining(); got != 20 {
		t.Errorf("easy timer = %ds, want 20", got)
	}
	if err := s.Start(); err != ErrAlreadyStarted {
		t.Errorf("second Start() error = %v, want ErrAlreadyStarted", err)
	}
}

func TestCorrectAnswerScoresTimeBonus(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, models.DifficultyEasy, clock)

	// Answer question 1 with 18 seconds on the clock
	clock.Advance(2 * time.Second)
	result, err := s.Answer(s.Current.Answer)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	if !result.Correct {
		t.Error("correct answer reported incorrect")
	}
	// 10 base points + floor(18 * 0.5)
	if result.PointsAwarded != 19 {
		t.Errorf("points = %d, want 19", result.PointsAwarded)
	}
	if s.Score != 19 {
		t.Errorf("score = %d, want 19", s.Score)
	}
	if s.Lives != StartingLives {
		t.Errorf("lives = %d, want %d", s.Lives, StartingLives)
	}
	if s.QuestionIndex != 1 {
		t.Errorf("question index = %d, want 1", s.QuestionIndex)
	}
	if got := s.Remaining(); got != 20 {
		t.Errorf("timer not reset for next question: %ds", got)
	}
}

func TestWrongAnswerCostsLife(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, models.DifficultyMedium, clock)

	wrong := s.Current.Answer + 1
	result, err := s.Answer(wrong)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	if result.Correct {
		t.Error("wrong answer reported correct")
	}
	if result.PointsAwarded != 0 {
		t.Errorf("points = %d, want 0", result.PointsAwarded)
	}
	if s.Lives != StartingLives-1 {
		t.Errorf("lives = %d, want %d", s.Lives, StartingLives-1)
	}
}

func TestTimeoutIsForcedIncorrect(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, models.DifficultyEasy, clock)

	correct := s.Current.Answer
	clock.Advance(21 * time.Second)

	result, err := s.Answer(correct)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if !result.TimedOut {
		t.Error("expected timeout resolution")
	}
	if result.Correct {
		t.Error("a timed-out submission must not score even with the right value")
	}
	if s.Lives != StartingLives-1 {
		t.Errorf("lives = %d, want %d", s.Lives, StartingLives-1)
	}
}

func TestLivesExhaustionFinishes(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, models.DifficultyEasy, clock)

	var last *AnswerResult
	for i := 0; i < StartingLives; i++ {
		var err error
		last, err = s.Answer(s.Current.Answer + 1)
		if err != nil {
			t.Fatalf("Answer() error = %v", err)
		}
	}

	if !last.Finished {
		t.Error("session should finish when lives reach zero")
	}
	if s.Lives != 0 {
		t.Errorf("lives = %d, want 0", s.Lives)
	}
	if s.State != models.GameFinished {
		t.Errorf("state = %s, want %s", s.State, models.GameFinished)
	}
	if _, err := s.Answer(1); err != ErrNotInProgress {
		t.Errorf("answering a finished game: error = %v, want ErrNotInProgress", err)
	}
}

func TestAbandonIsNotAFinish(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, models.DifficultyEasy, clock)

	s.Abandon()

	if s.State != models.GameAbandoned {
		t.Errorf("state = %s, want %s", s.State, models.GameAbandoned)
	}
	if s.Finished() {
		t.Error("an abandoned session must not count as finished")
	}
	if !s.Over() {
		t.Error("an abandoned session is terminal")
	}
	if s.Current != nil {
		t.Error("abandoning should clear the current question")
	}
	if _, err := s.Answer(1); err != ErrNotInProgress {
		t.Errorf("answering an abandoned game: error = %v, want ErrNotInProgress", err)
	}
}

func TestQuestionCountFinishes(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, models.DifficultyEasy, clock)

	total := s.Preset.TotalQuestions
	var last *AnswerResult
	for i := 0; i < total; i++ {
		var err error
		last, err = s.Answer(s.Current.Answer)
		if err != nil {
			t.Fatalf("question %d: Answer() error = %v", i, err)
		}
	}

	if !last.Finished {
		t.Errorf("session should finish after %d questions", total)
	}
	if s.Lives != StartingLives {
		t.Errorf("lives = %d, want %d after a clean run", s.Lives, StartingLives)
	}
}

func TestPauseFreezesTimer(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, models.DifficultyEasy, clock)

	clock.Advance(5 * time.Second)
	if err := s.Pause(); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}

	if _, err := s.Answer(s.Current.Answer); err != ErrGamePaused {
		t.Errorf("answering while paused: error = %v, want ErrGamePaused", err)
	}

	// A long pause must not consume question time
	clock.Advance(10 * time.Minute)
	if got := s.Remaining(); got != 15 {
		t.Errorf("remaining while paused = %ds, want 15", got)
	}

	if err := s.Resume(); err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if got := s.Remaining(); got != 15 {
		t.Errorf("remaining after resume = %ds, want 15", got)
	}

	result, err := s.Answer(s.Current.Answer)
	if err != nil {
		t.Fatalf("Answer() after resume error = %v", err)
	}
	if result.TimedOut {
		t.Error("paused interval counted against the deadline")
	}
}

func TestDifficultyTimerAndLength(t *testing.T) {
	tests := []struct {
		difficulty    string
		wantSeconds   int
		wantQuestions int
	}{
		{models.DifficultyEasy, 20, 8},
		{models.DifficultyMedium, 15, 10},
		{models.DifficultyHard, 12, 12},
	}

	for _, tt := range tests {
		t.Run(tt.difficulty, func(t *testing.T) {
			clock := newFakeClock()
			s := newTestSession(t, tt.difficulty, clock)
			if got := s.Remaining(); got != tt.wantSeconds {
				t.Errorf("timer = %ds, want %d", got, tt.wantSeconds)
			}
			if s.Preset.TotalQuestions != tt.wantQuestions {
				t.Errorf("questions = %d, want %d", s.Preset.TotalQuestions, tt.wantQuestions)
			}
		})
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, models.DifficultyMedium, clock)

	if _, err := s.Answer(s.Current.Answer + 1); err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	var record models.MathGame
	if err := s.Snapshot(&record); err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	restored, err := Restore(&record, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	if restored.Score != s.Score || restored.Lives != s.Lives ||
		restored.QuestionIndex != s.QuestionIndex || restored.State != s.State {
		t.Errorf("restored state diverged: %+v vs %+v", restored, s)
	}
	if restored.Current == nil || restored.Current.Answer != s.Current.Answer {
		t.Error("current question not restored")
	}

	// The restored session must still resolve answers
	result, err := restored.Answer(restored.Current.Answer)
	if err != nil {
		t.Fatalf("restored Answer() error = %v", err)
	}
	if !result.Correct {
		t.Error("restored session rejected the correct answer")
	}
}
