package game

import (
	"time"

	"mathclash/internal/models"
)

// Preset bundles everything a difficulty tier controls: operand magnitude,
// operator set, per-question time, number of questions and base points for a
// correct answer.
type Preset struct {
	MaxOperand     int
	Operators      []string
	QuestionTime   time.Duration
	TotalQuestions int
	BasePoints     int
}

// StartingLives is the same for every tier
const StartingLives = 3

var defaultPresets = map[string]Preset{
	models.DifficultyEasy: {
		MaxOperand:     10,
		Operators:      []string{models.OpAdd, models.OpSub},
		QuestionTime:   20 * time.Second,
		TotalQuestions: 8,
		BasePoints:     10,
	},
	models.DifficultyMedium: {
		MaxOperand:     20,
		Operators:      []string{models.OpAdd, models.OpSub, models.OpMul, models.OpDiv},
		QuestionTime:   15 * time.Second,
		TotalQuestions: 10,
		BasePoints:     20,
	},
	models.DifficultyHard: {
		MaxOperand:     50,
		Operators:      []string{models.OpAdd, models.OpSub, models.OpMul, models.OpDiv},
		QuestionTime:   12 * time.Second,
		TotalQuestions: 12,
		BasePoints:     30,
	},
}

// PresetFor returns the preset for a difficulty tier, falling back to easy
// for unknown values.
func PresetFor(difficulty string) Preset {
	if p, ok := defaultPresets[difficulty]; ok {
		return p
	}
	return defaultPresets[models.DifficultyEasy]
}

// ValidDifficulty reports whether s names a known tier
func ValidDifficulty(s string) bool {
	_, ok := defaultPresets[s]
	return ok
}

// Level derives a player level from a best score
func Level(score int) int {
	return score/100 + 1
}
