package bot

import (
	"errors"
	"math/rand"

	"boardroom/internal/domain"
)

// ErrEmptyHand is returned when a participant has no role cards to choose
// from.
var ErrEmptyHand = errors.New("participant has no role cards")

// BeginnerBrain picks cards uniformly at random, spends its golden card with
// a fixed low probability and never uses an MVP bonus.
type BeginnerBrain struct {
	rng *rand.Rand
}

func (b *BeginnerBrain) Decide(participant *domain.Participant, challenge *domain.ChallengeCard) (Decision, error) {
	if len(participant.RoleHand) == 0 {
		return Decision{}, ErrEmptyHand
	}

	decision := Decision{
		RoleCardID: participant.RoleHand[b.rng.Intn(len(participant.RoleHand))],
		Reasoning:  "picked on instinct",
	}
	if len(participant.SynergyHand) > 0 {
		decision.SynergyCardID = participant.SynergyHand[b.rng.Intn(len(participant.SynergyHand))]
	}
	if participant.HasGoldenCard && b.rng.Float64() < beginnerGoldenChance {
		decision.UseGoldenCard = true
		decision.Reasoning = "feeling lucky with the golden card"
	}
	decision.Confidence = 30 + b.rng.Intn(31) // 30-60
	return decision, nil
}
