package bot

import (
	"fmt"
	"math/rand"
	"sort"

	"boardroom/internal/catalog"
	"boardroom/internal/domain"
)

// SteadyBrain ranks candidates by evaluation score plus bounded random noise
// and picks uniformly among the top three, so it plays well without always
// playing best. Golden usage is a personality-dependent coin flip.
type SteadyBrain struct {
	eval   catalog.Evaluator
	rng    *rand.Rand
	tuning PersonalityTuning
}

type rankedCard struct {
	id    string
	score float64
}

func (b *SteadyBrain) Decide(participant *domain.Participant, challenge *domain.ChallengeCard) (Decision, error) {
	if len(participant.RoleHand) == 0 {
		return Decision{}, ErrEmptyHand
	}

	roles, err := b.rank(participant.RoleHand, challenge, b.eval.EvaluateRoleCard)
	if err != nil {
		return Decision{}, err
	}
	decision := Decision{RoleCardID: b.pickTop(roles)}

	if len(participant.SynergyHand) > 0 {
		synergies, err := b.rank(participant.SynergyHand, challenge, b.eval.EvaluateSynergyCard)
		if err != nil {
			return Decision{}, err
		}
		decision.SynergyCardID = b.pickTop(synergies)
	}

	if participant.HasGoldenCard && b.rng.Float64() < b.tuning.SteadyGoldenChance {
		decision.UseGoldenCard = true
	}
	decision.Confidence = 50 + b.rng.Intn(31) // 50-80
	decision.Reasoning = fmt.Sprintf("chose among the top %d evaluated cards", steadyTopPool)
	return decision, nil
}

// rank scores every card with jitter and orders best-first.
func (b *SteadyBrain) rank(hand []string, challenge *domain.ChallengeCard, evaluate func(string, *domain.ChallengeCard) (int, error)) ([]rankedCard, error) {
	ranked := make([]rankedCard, 0, len(hand))
	for _, id := range hand {
		score, err := evaluate(id, challenge)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, rankedCard{id: id, score: float64(score) + b.rng.Float64()*steadyNoise})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	return ranked, nil
}

func (b *SteadyBrain) pickTop(ranked []rankedCard) string {
	pool := steadyTopPool
	if len(ranked) < pool {
		pool = len(ranked)
	}
	return ranked[b.rng.Intn(pool)].id
}
