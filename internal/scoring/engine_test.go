package scoring

import (
	"errors"
	"testing"

	"boardroom/internal/domain"
)

// stubEvaluator returns fixed numbers so the formula and rounding can be
// asserted exactly.
type stubEvaluator struct {
	roleScores    map[string]int
	synergyScores map[string]int
	synergyMult   float64
	csuiteMult    float64
	softMult      float64
}

func (s *stubEvaluator) EvaluateRoleCard(roleID string, _ *domain.ChallengeCard) (int, error) {
	score, ok := s.roleScores[roleID]
	if !ok {
		return 0, errors.New("unknown role card")
	}
	return score, nil
}

func (s *stubEvaluator) EvaluateSynergyCard(synergyID string, _ *domain.ChallengeCard) (int, error) {
	score, ok := s.synergyScores[synergyID]
	if !ok {
		return 0, errors.New("unknown synergy card")
	}
	return score, nil
}

func (s *stubEvaluator) EvaluateCombo(roleID, synergyID string, challenge *domain.ChallengeCard) (int, error) {
	role, err := s.EvaluateRoleCard(roleID, challenge)
	if err != nil {
		return 0, err
	}
	synergy, err := s.EvaluateSynergyCard(synergyID, challenge)
	if err != nil {
		return 0, err
	}
	return int(float64(role+synergy) * s.synergyMult), nil
}

func (s *stubEvaluator) SynergyMultiplier(_, _ string) (float64, error) { return s.synergyMult, nil }
func (s *stubEvaluator) CSuiteMultiplier(_ string) float64              { return s.csuiteMult }
func (s *stubEvaluator) SoftSkillsMultiplier(_, _ string, _ *domain.ChallengeCard) (float64, error) {
	return s.softMult, nil
}

func (s *stubEvaluator) IsRoleCard(id string) bool {
	_, ok := s.roleScores[id]
	return ok
}

func (s *stubEvaluator) IsSynergyCard(id string) bool {
	_, ok := s.synergyScores[id]
	return ok
}

func newStub() *stubEvaluator {
	return &stubEvaluator{
		roleScores:    map[string]int{"role_a": 80, "role_mvp": 95},
		synergyScores: map[string]int{"syn_a": 30, "syn_mvp": 45},
		synergyMult:   1.2,
		csuiteMult:    1.1,
		softMult:      1.25,
	}
}

var testChallenge = &domain.ChallengeCard{ID: "chal", Category: "finance"}

func TestScore_StandardFormula(t *testing.T) {
	engine := NewEngine(newStub())
	participant := &domain.Participant{ID: "p1", CSuiteRole: "ceo"}

	result, err := engine.Score(Selection{RoleCardID: "role_a", SynergyCardID: "syn_a", Special: domain.SpecialNone}, participant, testChallenge, 1)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	if result.BaseScore != 110 {
		t.Errorf("base score = %d, want 110", result.BaseScore)
	}
	// 110 * 1.2 * 1.1 * 1.25 = 181.5, rounds half away from zero to 182.
	if result.FinalScore != 182 {
		t.Errorf("final score = %d, want 182", result.FinalScore)
	}
}

func TestScore_Deterministic(t *testing.T) {
	engine := NewEngine(newStub())
	participant := &domain.Participant{ID: "p1", CSuiteRole: "cfo"}
	sel := Selection{RoleCardID: "role_a", SynergyCardID: "syn_a"}

	first, err := engine.Score(sel, participant, testChallenge, 2)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := engine.Score(sel, participant, testChallenge, 2)
		if err != nil {
			t.Fatalf("Score failed: %v", err)
		}
		if again != first {
			t.Fatalf("repeated scoring differs: %+v vs %+v", again, first)
		}
	}
}

func TestScore_RoleOnly(t *testing.T) {
	engine := NewEngine(newStub())
	participant := &domain.Participant{ID: "p1"}

	result, err := engine.Score(Selection{RoleCardID: "role_a"}, participant, testChallenge, 1)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if result.BaseScore != 80 {
		t.Errorf("base score = %d, want 80", result.BaseScore)
	}
}

func TestScore_GoldenIgnoresCards(t *testing.T) {
	engine := NewEngine(newStub())
	participant := &domain.Participant{ID: "p1", CSuiteRole: "ceo"}

	selections := []Selection{
		{Special: domain.SpecialGolden},
		{RoleCardID: "role_a", SynergyCardID: "syn_a", Special: domain.SpecialGolden},
		{RoleCardID: "does-not-exist", Special: domain.SpecialGolden},
	}
	for _, sel := range selections {
		result, err := engine.Score(sel, participant, testChallenge, 3)
		if err != nil {
			t.Fatalf("Score failed for %+v: %v", sel, err)
		}
		if result.FinalScore != domain.GoldenCardBonus {
			t.Errorf("golden final score = %d, want %d", result.FinalScore, domain.GoldenCardBonus)
		}
		if result.SynergyMultiplier != 1 || result.CSuiteMultiplier != 1 || result.SoftSkillsMultiplier != 1 {
			t.Errorf("golden play should record neutral multipliers, got %+v", result)
		}
	}
}

func TestScore_MVPSubstitutesRoleCard(t *testing.T) {
	engine := NewEngine(newStub())
	participant := &domain.Participant{ID: "p1"}

	result, err := engine.Score(Selection{
		RoleCardID:    "role_a",
		SynergyCardID: "syn_a",
		Special:       domain.SpecialMVP,
		MVP:           &domain.MVPSelection{CardID: "role_mvp"},
	}, participant, testChallenge, 4)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	if result.RoleCardID != "role_mvp" {
		t.Errorf("priced role card = %s, want role_mvp", result.RoleCardID)
	}
	if result.BaseScore != 125 {
		t.Errorf("base score = %d, want 125 (95 + 30)", result.BaseScore)
	}
}

func TestScore_MVPSubstitutesSynergyCard(t *testing.T) {
	engine := NewEngine(newStub())
	participant := &domain.Participant{ID: "p1"}

	result, err := engine.Score(Selection{
		RoleCardID:    "role_a",
		SynergyCardID: "syn_a",
		Special:       domain.SpecialMVP,
		MVP:           &domain.MVPSelection{CardID: "syn_mvp"},
	}, participant, testChallenge, 4)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	if result.SynergyCardID != "syn_mvp" {
		t.Errorf("priced synergy card = %s, want syn_mvp", result.SynergyCardID)
	}
	if result.RoleCardID != "role_a" {
		t.Errorf("role card should be untouched, got %s", result.RoleCardID)
	}
	if result.BaseScore != 125 {
		t.Errorf("base score = %d, want 125 (80 + 45)", result.BaseScore)
	}
}

func TestScore_MVPErrors(t *testing.T) {
	engine := NewEngine(newStub())
	participant := &domain.Participant{ID: "p1"}

	_, err := engine.Score(Selection{RoleCardID: "role_a", Special: domain.SpecialMVP}, participant, testChallenge, 2)
	if !errors.Is(err, ErrMVPSelectionMissing) {
		t.Errorf("missing selection error = %v, want ErrMVPSelectionMissing", err)
	}

	_, err = engine.Score(Selection{
		RoleCardID: "role_a",
		Special:    domain.SpecialMVP,
		MVP:        &domain.MVPSelection{CardID: "role_mvp", UsedInRound: 2},
	}, participant, testChallenge, 3)
	if !errors.Is(err, ErrMVPSelectionConsumed) {
		t.Errorf("consumed selection error = %v, want ErrMVPSelectionConsumed", err)
	}
}

func TestScore_ClampsNegative(t *testing.T) {
	stub := newStub()
	stub.roleScores["role_neg"] = -50
	engine := NewEngine(stub)
	participant := &domain.Participant{ID: "p1"}

	result, err := engine.Score(Selection{RoleCardID: "role_neg"}, participant, testChallenge, 1)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if result.FinalScore != 0 {
		t.Errorf("final score = %d, want 0", result.FinalScore)
	}
}
