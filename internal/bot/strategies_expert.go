package bot

import (
	"fmt"
	"math/rand"

	"boardroom/internal/catalog"
	"boardroom/internal/domain"
)

// ExpertBrain exhaustively evaluates every role/synergy pairing and keeps the
// strongest, comparing it against what the golden card would pay. Golden is
// spent only when the fixed bonus beats the best combo by a wide margin,
// after which personality perturbs the call.
type ExpertBrain struct {
	eval   catalog.Evaluator
	rng    *rand.Rand
	tuning PersonalityTuning
}

func (b *ExpertBrain) Decide(participant *domain.Participant, challenge *domain.ChallengeCard) (Decision, error) {
	if len(participant.RoleHand) == 0 {
		return Decision{}, ErrEmptyHand
	}

	bestScore := -1
	var bestRole, bestSynergy string
	for _, roleID := range participant.RoleHand {
		if len(participant.SynergyHand) == 0 {
			score, err := b.eval.EvaluateRoleCard(roleID, challenge)
			if err != nil {
				return Decision{}, err
			}
			if score > bestScore {
				bestScore, bestRole = score, roleID
			}
			continue
		}
		for _, synergyID := range participant.SynergyHand {
			score, err := b.eval.EvaluateCombo(roleID, synergyID, challenge)
			if err != nil {
				return Decision{}, err
			}
			if score > bestScore {
				bestScore, bestRole, bestSynergy = score, roleID, synergyID
			}
		}
	}

	// The golden payout is flat, so the best golden-adjusted outcome is the
	// bonus itself; it must beat the best combo by more than half again.
	useGolden := float64(domain.GoldenCardBonus) > float64(bestScore)*expertGoldenEdge
	if b.tuning.ExpertGoldenFloor > 0 && bestScore < b.tuning.ExpertGoldenFloor {
		useGolden = false
	}
	if b.tuning.ExpertForceGoldenChance > 0 && !useGolden && b.rng.Float64() < b.tuning.ExpertForceGoldenChance {
		useGolden = true
	}

	decision := Decision{
		RoleCardID:    bestRole,
		SynergyCardID: bestSynergy,
		UseGoldenCard: useGolden && participant.HasGoldenCard,
		Confidence:    95 + b.rng.Intn(4), // 95-98
		Reasoning:     fmt.Sprintf("best of %d combinations scored %d", len(participant.RoleHand)*max(1, len(participant.SynergyHand)), bestScore),
	}
	return decision, nil
}
