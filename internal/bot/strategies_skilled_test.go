package bot

import (
	"testing"
)

func newSkilled(seed int64, personality Personality) *SkilledBrain {
	return &SkilledBrain{eval: testEval(), rng: seededRng(seed), tuning: ForPersonality(personality)}
}

func TestSkilledBrain_PicksBestOrSecond(t *testing.T) {
	brain := newSkilled(31, PersonalityBalanced)
	participant := testParticipant(false)

	sawBest, sawSecond := false, false
	for i := 0; i < 200; i++ {
		decision, err := brain.Decide(participant, botChallenge)
		if err != nil {
			t.Fatalf("Decide failed: %v", err)
		}
		switch decision.RoleCardID {
		case "r1":
			sawBest = true
		case "r2":
			sawSecond = true
		default:
			t.Fatalf("picked role %q, want r1 or r2", decision.RoleCardID)
		}
		if decision.SynergyCardID != "s1" && decision.SynergyCardID != "s2" {
			t.Fatalf("picked synergy %q, want s1 or s2", decision.SynergyCardID)
		}
		if decision.Confidence < 70 || decision.Confidence > 90 {
			t.Fatalf("confidence = %d, want 70-90", decision.Confidence)
		}
	}
	if !sawBest || !sawSecond {
		t.Errorf("expected both best and runner-up picks over 200 rounds (best=%v second=%v)", sawBest, sawSecond)
	}
}

func TestSkilledBrain_SecondBestRate(t *testing.T) {
	brain := newSkilled(37, PersonalityBalanced)
	participant := testParticipant(false)

	second := 0
	const trials = 2000
	for i := 0; i < trials; i++ {
		decision, err := brain.Decide(participant, botChallenge)
		if err != nil {
			t.Fatalf("Decide failed: %v", err)
		}
		if decision.RoleCardID == "r2" {
			second++
		}
	}
	rate := float64(second) / trials
	if rate < 0.15 || rate > 0.25 {
		t.Errorf("runner-up rate = %.3f, want near 0.20", rate)
	}
}

func TestSkilledBrain_GoldenOverThreshold(t *testing.T) {
	// Total candidate score is at least 195 here, above every personality
	// threshold, so the golden card always goes when held.
	brain := newSkilled(41, PersonalityConservative)
	participant := testParticipant(true)

	for i := 0; i < 50; i++ {
		decision, err := brain.Decide(participant, botChallenge)
		if err != nil {
			t.Fatalf("Decide failed: %v", err)
		}
		if !decision.UseGoldenCard {
			t.Fatal("golden card should be spent above the threshold")
		}
	}
}

func TestSkilledBrain_GoldenUnderThreshold(t *testing.T) {
	weak := &stubEval{
		roles:     map[string]int{"r1": 10, "r2": 5, "r3": 4, "r4": 3, "r5": 2},
		synergies: map[string]int{"s1": 4, "s2": 2, "s3": 1, "s4": 0},
	}
	brain := &SkilledBrain{eval: weak, rng: seededRng(43), tuning: ForPersonality(PersonalityAggressive)}
	participant := testParticipant(true)

	for i := 0; i < 50; i++ {
		decision, err := brain.Decide(participant, botChallenge)
		if err != nil {
			t.Fatalf("Decide failed: %v", err)
		}
		if decision.UseGoldenCard {
			t.Fatal("golden card spent below the threshold")
		}
	}
}
