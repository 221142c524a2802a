package bot

import (
	"testing"
)

func newSteady(seed int64, personality Personality) *SteadyBrain {
	return &SteadyBrain{eval: testEval(), rng: seededRng(seed), tuning: ForPersonality(personality)}
}

func TestSteadyBrain_PicksAmongTopThree(t *testing.T) {
	// Role scores are separated by more than the jitter bound, so the top
	// three by jittered score are always r1, r2, r3.
	brain := newSteady(11, PersonalityBalanced)
	participant := testParticipant(false)

	topRoles := map[string]bool{"r1": true, "r2": true, "r3": true}
	topSynergies := map[string]bool{"s1": true, "s2": true, "s3": true}
	for i := 0; i < 100; i++ {
		decision, err := brain.Decide(participant, botChallenge)
		if err != nil {
			t.Fatalf("Decide failed: %v", err)
		}
		if !topRoles[decision.RoleCardID] {
			t.Fatalf("picked role %q outside the top three", decision.RoleCardID)
		}
		if !topSynergies[decision.SynergyCardID] {
			t.Fatalf("picked synergy %q outside the top three", decision.SynergyCardID)
		}
		if decision.Confidence < 50 || decision.Confidence > 80 {
			t.Fatalf("confidence = %d, want 50-80", decision.Confidence)
		}
	}
}

func TestSteadyBrain_SmallHand(t *testing.T) {
	brain := newSteady(3, PersonalityBalanced)
	participant := testParticipant(false)
	participant.RoleHand = []string{"r1"}
	participant.SynergyHand = nil

	decision, err := brain.Decide(participant, botChallenge)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if decision.RoleCardID != "r1" {
		t.Errorf("picked role %q, want r1", decision.RoleCardID)
	}
	if decision.SynergyCardID != "" {
		t.Errorf("picked synergy %q from an empty hand", decision.SynergyCardID)
	}
}

func TestSteadyBrain_GoldenRateFollowsPersonality(t *testing.T) {
	participant := testParticipant(true)
	const trials = 2000

	cases := []struct {
		personality Personality
		low, high   float64
	}{
		{PersonalityConservative, 0.34, 0.46},
		{PersonalityBalanced, 0.44, 0.56},
		{PersonalityAggressive, 0.54, 0.66},
	}
	for _, tc := range cases {
		brain := newSteady(17, tc.personality)
		golden := 0
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
		if rate < tc.low || rate > tc.high {
			t.Errorf("%s golden rate = %.3f, want within [%.2f, %.2f]", tc.personality, rate, tc.low, tc.high)
		}
	}
}

func TestSteadyBrain_Deterministic(t *testing.T) {
	participant := testParticipant(true)

	first, err := newSteady(23, PersonalityBalanced).Decide(participant, botChallenge)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	second, err := newSteady(23, PersonalityBalanced).Decide(participant, botChallenge)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if first != second {
		t.Errorf("same seed produced different decisions:\n%+v\n%+v", first, second)
	}
}
