package catalog

import (
	"testing"

	"boardroom/internal/domain"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := New(
		[]RoleCard{
			{ID: "role_a", Title: "Closer", Category: "finance", Power: 60, SoftSkills: []string{"negotiation", "analytics"}},
			{ID: "role_b", Title: "Builder", Category: "operations", Power: 50, SoftSkills: []string{"process-design"}},
		},
		[]SynergyCard{
			{ID: "syn_a", Name: "War Chest", Category: "capital", Power: 30, SoftSkills: []string{"resilience"}},
			{ID: "syn_b", Name: "Retro", Category: "culture", Power: 20, SoftSkills: []string{"empathy"}},
		},
		[]domain.ChallengeCard{
			{ID: "chal_a", Title: "Buyout", Category: "finance", RequiredSkills: []string{"negotiation", "resilience"}},
		},
		map[string]map[string]float64{
			"finance": {"capital": 1.3},
		},
		map[string]float64{"ceo": 1.1},
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func TestEvaluateRoleCard(t *testing.T) {
	c := testCatalog(t)
	challenge, _ := c.Challenge("chal_a")

	// 60 power + 10 for negotiation + 15 category match.
	score, err := c.EvaluateRoleCard("role_a", challenge)
	if err != nil {
		t.Fatalf("EvaluateRoleCard failed: %v", err)
	}
	if score != 85 {
		t.Errorf("role_a score = %d, want 85", score)
	}

	// 50 power, no skill or category match.
	score, err = c.EvaluateRoleCard("role_b", challenge)
	if err != nil {
		t.Fatalf("EvaluateRoleCard failed: %v", err)
	}
	if score != 50 {
		t.Errorf("role_b score = %d, want 50", score)
	}

	if _, err := c.EvaluateRoleCard("missing", challenge); err == nil {
		t.Error("expected error for unknown role card")
	}
}

func TestEvaluateSynergyCard(t *testing.T) {
	c := testCatalog(t)
	challenge, _ := c.Challenge("chal_a")

	// 30 power + 10 for resilience.
	score, err := c.EvaluateSynergyCard("syn_a", challenge)
	if err != nil {
		t.Fatalf("EvaluateSynergyCard failed: %v", err)
	}
	if score != 40 {
		t.Errorf("syn_a score = %d, want 40", score)
	}
}

func TestEvaluateCombo(t *testing.T) {
	c := testCatalog(t)
	challenge, _ := c.Challenge("chal_a")

	// (85 + 40) * 1.3 = 162.5, truncated to 162.
	score, err := c.EvaluateCombo("role_a", "syn_a", challenge)
	if err != nil {
		t.Fatalf("EvaluateCombo failed: %v", err)
	}
	if score != 162 {
		t.Errorf("combo score = %d, want 162", score)
	}
}

func TestSynergyMultiplier(t *testing.T) {
	c := testCatalog(t)

	m, err := c.SynergyMultiplier("role_a", "syn_a")
	if err != nil {
		t.Fatalf("SynergyMultiplier failed: %v", err)
	}
	if m != 1.3 {
		t.Errorf("finance/capital multiplier = %v, want 1.3", m)
	}

	// Pairing absent from the matrix is neutral.
	m, err = c.SynergyMultiplier("role_b", "syn_b")
	if err != nil {
		t.Fatalf("SynergyMultiplier failed: %v", err)
	}
	if m != 1.0 {
		t.Errorf("unmapped pairing multiplier = %v, want 1.0", m)
	}

	// Playing without a synergy card is neutral.
	m, err = c.SynergyMultiplier("role_a", "")
	if err != nil {
		t.Fatalf("SynergyMultiplier failed: %v", err)
	}
	if m != 1.0 {
		t.Errorf("no-synergy multiplier = %v, want 1.0", m)
	}
}

func TestCSuiteMultiplier(t *testing.T) {
	c := testCatalog(t)

	if m := c.CSuiteMultiplier("ceo"); m != 1.1 {
		t.Errorf("ceo multiplier = %v, want 1.1", m)
	}
	if m := c.CSuiteMultiplier("intern"); m != 1.0 {
		t.Errorf("unknown role multiplier = %v, want 1.0", m)
	}
}

func TestSoftSkillsMultiplier(t *testing.T) {
	c := testCatalog(t)
	challenge, _ := c.Challenge("chal_a")

	// role_a offers negotiation, syn_a offers resilience: full coverage.
	m, err := c.SoftSkillsMultiplier("role_a", "syn_a", challenge)
	if err != nil {
		t.Fatalf("SoftSkillsMultiplier failed: %v", err)
	}
	if m != 1.5 {
		t.Errorf("full coverage multiplier = %v, want 1.5", m)
	}

	// role_a alone covers 1 of 2 required skills.
	m, err = c.SoftSkillsMultiplier("role_a", "", challenge)
	if err != nil {
		t.Fatalf("SoftSkillsMultiplier failed: %v", err)
	}
	if m != 1.25 {
		t.Errorf("half coverage multiplier = %v, want 1.25", m)
	}

	// role_b covers nothing.
	m, err = c.SoftSkillsMultiplier("role_b", "", challenge)
	if err != nil {
		t.Fatalf("SoftSkillsMultiplier failed: %v", err)
	}
	if m != 1.0 {
		t.Errorf("no coverage multiplier = %v, want 1.0", m)
	}
}

func TestCardKindLookups(t *testing.T) {
	c := testCatalog(t)

	if !c.IsRoleCard("role_a") || c.IsRoleCard("syn_a") {
		t.Error("IsRoleCard misclassified a card")
	}
	if !c.IsSynergyCard("syn_a") || c.IsSynergyCard("role_a") {
		t.Error("IsSynergyCard misclassified a card")
	}
}

func TestNewRejectsEmptyCatalog(t *testing.T) {
	if _, err := New(nil, nil, nil, nil, nil); err == nil {
		t.Error("expected error for empty catalog")
	}
}

func TestNewRejectsMissingChallenges(t *testing.T) {
	// A session draws one challenge per round, so a catalog without any
	// cannot start a game.
	roles := []RoleCard{{ID: "role_a", Title: "Closer", Category: "finance", Power: 60}}
	synergies := []SynergyCard{{ID: "syn_a", Name: "War Chest", Category: "capital", Power: 30}}
	if _, err := New(roles, synergies, nil, nil, nil); err == nil {
		t.Error("expected error for catalog without challenge cards")
	}
}
