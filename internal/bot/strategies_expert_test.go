package bot

import (
	"testing"
)

func newExpert(seed int64, personality Personality) *ExpertBrain {
	return &ExpertBrain{eval: testEval(), rng: seededRng(seed), tuning: ForPersonality(personality)}
}

func weakEval() *stubEval {
	return &stubEval{
		roles:     map[string]int{"r1": 10, "r2": 8, "r3": 6, "r4": 4, "r5": 2},
		synergies: map[string]int{"s1": 4, "s2": 3, "s3": 2, "s4": 1},
	}
}

func TestExpertBrain_PicksBestCombination(t *testing.T) {
	brain := newExpert(51, PersonalityBalanced)
	participant := testParticipant(false)

	for i := 0; i < 20; i++ {
		decision, err := brain.Decide(participant, botChallenge)
		if err != nil {
			t.Fatalf("Decide failed: %v", err)
		}
		if decision.RoleCardID != "r1" || decision.SynergyCardID != "s1" {
			t.Fatalf("picked %s/%s, want r1/s1", decision.RoleCardID, decision.SynergyCardID)
		}
		if decision.Confidence < 95 || decision.Confidence > 98 {
			t.Fatalf("confidence = %d, want 95-98", decision.Confidence)
		}
	}
}

func TestExpertBrain_RoleOnlyHand(t *testing.T) {
	brain := newExpert(53, PersonalityBalanced)
	participant := testParticipant(false)
	participant.SynergyHand = nil

	decision, err := brain.Decide(participant, botChallenge)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if decision.RoleCardID != "r1" {
		t.Errorf("picked role %q, want r1", decision.RoleCardID)
	}
	if decision.SynergyCardID != "" {
		t.Errorf("picked synergy %q with an empty hand", decision.SynergyCardID)
	}
}

func TestExpertBrain_GoldenWhenBonusDominates(t *testing.T) {
	// Best combo is 14; the fixed golden bonus beats it by far more than the
	// required margin.
	brain := &ExpertBrain{eval: weakEval(), rng: seededRng(57), tuning: ForPersonality(PersonalityBalanced)}
	participant := testParticipant(true)

	decision, err := brain.Decide(participant, botChallenge)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if !decision.UseGoldenCard {
		t.Error("expected golden play when the bonus dominates the best combo")
	}
}

func TestExpertBrain_NoGoldenAgainstStrongCombo(t *testing.T) {
	// Best combo is 145; the bonus does not clear the margin.
	brain := newExpert(59, PersonalityBalanced)
	participant := testParticipant(true)

	decision, err := brain.Decide(participant, botChallenge)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if decision.UseGoldenCard {
		t.Error("golden spent against a strong combo")
	}
}

func TestExpertBrain_ConservativeFloorSuppressesGolden(t *testing.T) {
	// The bonus dominates, but the best combo sits under the conservative
	// floor, so the card is held back.
	brain := &ExpertBrain{eval: weakEval(), rng: seededRng(61), tuning: ForPersonality(PersonalityConservative)}
	participant := testParticipant(true)

	for i := 0; i < 50; i++ {
		decision, err := brain.Decide(participant, botChallenge)
		if err != nil {
			t.Fatalf("Decide failed: %v", err)
		}
		if decision.UseGoldenCard {
			t.Fatal("conservative expert spent golden under the floor")
		}
	}
}

func TestExpertBrain_AggressiveForceRate(t *testing.T) {
	// The comparison says hold, so every golden play comes from the forced
	// aggressive override.
	brain := newExpert(67, PersonalityAggressive)
	participant := testParticipant(true)

	golden := 0
	const trials = 2000
	for i := 0; i < trials; i++ {
		decision, err := brain.Decide(participant, botChallenge)
		if err != nil {
			t.Fatalf("Decide failed: %v", err)
		}
		if decision.UseGoldenCard {
			golden++
		}
	}
	rate := float64(golden) / trials
	if rate < 0.24 || rate > 0.36 {
		t.Errorf("forced golden rate = %.3f, want near 0.30", rate)
	}
}

func TestExpertBrain_NoGoldenWithoutCard(t *testing.T) {
	brain := &ExpertBrain{eval: weakEval(), rng: seededRng(71), tuning: ForPersonality(PersonalityBalanced)}
	participant := testParticipant(false)

	decision, err := brain.Decide(participant, botChallenge)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if decision.UseGoldenCard {
		t.Error("golden card used without holding one")
	}
}
