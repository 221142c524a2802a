package bot

import (
	"fmt"
	"math/rand"
	"sort"

	"boardroom/internal/catalog"
	"boardroom/internal/domain"
)

// SkilledBrain ranks candidates without jitter and usually plays its
// best-evaluated card, taking the runner-up a fifth of the time for role and
// synergy independently. It spends the golden card once the summed candidate
// score crosses a personality-dependent threshold.
type SkilledBrain struct {
	eval   catalog.Evaluator
	rng    *rand.Rand
	tuning PersonalityTuning
}

func (b *SkilledBrain) Decide(participant *domain.Participant, challenge *domain.ChallengeCard) (Decision, error) {
	if len(participant.RoleHand) == 0 {
		return Decision{}, ErrEmptyHand
	}

	roles, err := b.rank(participant.RoleHand, challenge, b.eval.EvaluateRoleCard)
	if err != nil {
		return Decision{}, err
	}
	rolePick := b.pickBestOrSecond(roles)

	decision := Decision{RoleCardID: rolePick.id}
	total := int(rolePick.score)

	if len(participant.SynergyHand) > 0 {
		synergies, err := b.rankSynergies(rolePick.id, participant.SynergyHand, challenge)
		if err != nil {
			return Decision{}, err
		}
		synergyPick := b.pickBestOrSecond(synergies)
		decision.SynergyCardID = synergyPick.id
		total += int(synergyPick.score)
	}

	if participant.HasGoldenCard && total >= b.tuning.SkilledGoldenThreshold {
		decision.UseGoldenCard = true
	}
	decision.Confidence = 70 + b.rng.Intn(21) // 70-90
	decision.Reasoning = fmt.Sprintf("evaluated selection scores %d against the challenge", total)
	return decision, nil
}

func (b *SkilledBrain) rank(hand []string, challenge *domain.ChallengeCard, evaluate func(string, *domain.ChallengeCard) (int, error)) ([]rankedCard, error) {
	ranked := make([]rankedCard, 0, len(hand))
	for _, id := range hand {
		score, err := evaluate(id, challenge)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, rankedCard{id: id, score: float64(score)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	return ranked, nil
}

// rankSynergies scores synergy candidates in the context of the chosen role
// card, so pair affinity influences the pick.
func (b *SkilledBrain) rankSynergies(roleID string, hand []string, challenge *domain.ChallengeCard) ([]rankedCard, error) {
	ranked := make([]rankedCard, 0, len(hand))
	for _, id := range hand {
		score, err := b.eval.EvaluateCombo(roleID, id, challenge)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, rankedCard{id: id, score: float64(score)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	return ranked, nil
}

func (b *SkilledBrain) pickBestOrSecond(ranked []rankedCard) rankedCard {
	if len(ranked) > 1 && b.rng.Float64() < skilledSecondBestChance {
		return ranked[1]
	}
	return ranked[0]
}
