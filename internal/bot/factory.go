package bot

import (
	"fmt"
	"math/rand"
	"time"

	"boardroom/internal/catalog"
)

// NewBrain creates an AI brain for the given difficulty and personality. The
// rng is injectable so identical seeds reproduce identical decisions; nil
// falls back to a time-seeded source.
func NewBrain(difficulty Difficulty, personality Personality, eval catalog.Evaluator, rng *rand.Rand) (Brain, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	tuning := ForPersonality(personality)

	switch difficulty {
	case DifficultyBeginner:
		return &BeginnerBrain{rng: rng}, nil
	case DifficultySteady:
		return &SteadyBrain{eval: eval, rng: rng, tuning: tuning}, nil
	case DifficultySkilled:
		return &SkilledBrain{eval: eval, rng: rng, tuning: tuning}, nil
	case DifficultyExpert:
		return &ExpertBrain{eval: eval, rng: rng, tuning: tuning}, nil
	default:
		return nil, fmt.Errorf("unknown difficulty: %q", difficulty)
	}
}
