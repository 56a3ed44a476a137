package game

import (
	"math/rand"

	"mathclash/internal/models"
)

// widenEvery is how many rejected distractor draws are tolerated before the
// perturbation range grows. Widening guarantees the option set always fills
// up, even for answers near zero where the initial range has too few valid
// candidates.
const widenEvery = 16

// Generator produces arithmetic questions. The rand source is injected so
// games can be replayed deterministically in tests.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator backed by the given source
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate builds one question for the tier. The result always satisfies:
// operands >= 1 and bounded by the tier, subtraction never goes negative,
// division is always exact, and Options holds 4 distinct values (the three
// distractors strictly positive) exactly one of which equals Answer.
func (g *Generator) Generate(id int, difficulty string) models.Question {
	preset := PresetFor(difficulty)

	n1 := g.rng.Intn(preset.MaxOperand) + 1
	n2 := g.rng.Intn(preset.MaxOperand) + 1
	op := preset.Operators[g.rng.Intn(len(preset.Operators))]

	if op == models.OpSub && n2 > n1 {
		n1, n2 = n2, n1
	}

	if op == models.OpDiv {
		// Rebuild the pair so the quotient is exact
		if n2 < 1 {
			n2 = 1
		}
		n1 = n2 * (g.rng.Intn(10) + 1)
	}

	answer := apply(op, n1, n2)

	return models.Question{
		ID:       id,
		Operand1: n1,
		Operand2: n2,
		Operator: op,
		Answer:   answer,
		Options:  g.buildOptions(op, answer),
	}
}

func apply(op string, a, b int) int {
	switch op {
	case models.OpAdd:
		return a + b
	case models.OpSub:
		return a - b
	case models.OpMul:
		return a * b
	default:
		return a / b
	}
}

// buildOptions collects three distractors around the answer and shuffles
// them in with it. Candidates must be positive, distinct from the answer and
// from each other; the draw range widens after repeated rejections so the
// loop always terminates.
func (g *Generator) buildOptions(op string, answer int) []int {
	options := []int{answer}
	attempts := 0
	width := 0

	for len(options) < 4 {
		candidate := g.distractor(op, answer, width)
		attempts++
		if attempts%widenEvery == 0 {
			width++
		}

		if candidate <= 0 || candidate == answer {
			continue
		}
		if contains(options, candidate) {
			continue
		}
		options = append(options, candidate)
	}

	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return options
}

// distractor draws one candidate wrong answer. Additive operators use a
// small symmetric offset, multiplication scales the noise with the answer,
// division stays tight around the small quotient.
func (g *Generator) distractor(op string, answer, width int) int {
	switch op {
	case models.OpMul:
		span := answer/2 + 1 + width*4
		return answer + g.rng.Intn(span) - answer/4 - width
	case models.OpDiv:
		return answer + g.rng.Intn(5+2*width) - (2 + width)
	default:
		return answer + g.rng.Intn(10+2*width) - (5 + width)
	}
}

func contains(values []int, v int) bool {
	for _, existing := range values {
		if existing == v {
			return true
		}
	}
	return false
}
