package catalog

import (
	"fmt"

	"boardroom/internal/domain"
)

// Evaluator scores cards against a challenge card. The scoring engine uses it
// to price locked-in selections and the AI strategies reuse it to rank
// candidate selections; both see the same numbers.
type Evaluator interface {
	EvaluateRoleCard(roleID string, challenge *domain.ChallengeCard) (int, error)
	EvaluateSynergyCard(synergyID string, challenge *domain.ChallengeCard) (int, error)
	EvaluateCombo(roleID, synergyID string, challenge *domain.ChallengeCard) (int, error)

	SynergyMultiplier(roleID, synergyID string) (float64, error)
	CSuiteMultiplier(role string) float64
	SoftSkillsMultiplier(roleID, synergyID string, challenge *domain.ChallengeCard) (float64, error)

	IsRoleCard(id string) bool
	IsSynergyCard(id string) bool
}

const (
	skillMatchBonus     = 10
	categoryMatchBonus  = 15
	softSkillsFullBonus = 0.5 // multiplier climbs from 1.0 to 1.5 with full tag coverage
)

// EvaluateRoleCard scores a role card against a challenge: the card's power,
// plus a bonus per required soft skill the card carries, plus a category
// affinity bonus.
func (c *Catalog) EvaluateRoleCard(roleID string, challenge *domain.ChallengeCard) (int, error) {
	card, ok := c.roles[roleID]
	if !ok {
		return 0, fmt.Errorf("unknown role card %q", roleID)
	}
	return evaluateCard(card.Power, card.Category, card.SoftSkills, challenge), nil
}

// EvaluateSynergyCard scores a synergy card against a challenge with the same
// shape as role evaluation.
func (c *Catalog) EvaluateSynergyCard(synergyID string, challenge *domain.ChallengeCard) (int, error) {
	card, ok := c.synergies[synergyID]
	if !ok {
		return 0, fmt.Errorf("unknown synergy card %q", synergyID)
	}
	return evaluateCard(card.Power, card.Category, card.SoftSkills, challenge), nil
}

// EvaluateCombo scores a role/synergy pairing: the summed card evaluations
// scaled by the pair's affinity multiplier. Used for ranking candidates, not
// for round scoring.
func (c *Catalog) EvaluateCombo(roleID, synergyID string, challenge *domain.ChallengeCard) (int, error) {
	roleScore, err := c.EvaluateRoleCard(roleID, challenge)
	if err != nil {
		return 0, err
	}
	synergyScore, err := c.EvaluateSynergyCard(synergyID, challenge)
	if err != nil {
		return 0, err
	}
	affinity, err := c.SynergyMultiplier(roleID, synergyID)
	if err != nil {
		return 0, err
	}
	return int(float64(roleScore+synergyScore) * affinity), nil
}

// SynergyMultiplier looks up the role/synergy affinity from the soft-skills
// matrix. Pairings absent from the matrix are neutral.
func (c *Catalog) SynergyMultiplier(roleID, synergyID string) (float64, error) {
	role, ok := c.roles[roleID]
	if !ok {
		return 0, fmt.Errorf("unknown role card %q", roleID)
	}
	if synergyID == "" {
		return 1.0, nil
	}
	synergy, ok := c.synergies[synergyID]
	if !ok {
		return 0, fmt.Errorf("unknown synergy card %q", synergyID)
	}
	if row, ok := c.matrix[role.Category]; ok {
		if m, ok := row[synergy.Category]; ok {
			return m, nil
		}
	}
	return 1.0, nil
}

// CSuiteMultiplier returns the multiplier for a participant's standing
// C-suite role choice, neutral when the role is unknown.
func (c *Catalog) CSuiteMultiplier(role string) float64 {
	if m, ok := c.csuite[role]; ok {
		return m
	}
	return 1.0
}

// SoftSkillsMultiplier measures how well the chosen cards' combined soft
// skill tags cover the challenge's required tags, scaling linearly from 1.0
// (no coverage) to 1.5 (full coverage).
func (c *Catalog) SoftSkillsMultiplier(roleID, synergyID string, challenge *domain.ChallengeCard) (float64, error) {
	if len(challenge.RequiredSkills) == 0 {
		return 1.0, nil
	}

	offered := make(map[string]bool)
	if roleID != "" {
		card, ok := c.roles[roleID]
		if !ok {
			return 0, fmt.Errorf("unknown role card %q", roleID)
		}
		for _, skill := range card.SoftSkills {
			offered[skill] = true
		}
	}
	if synergyID != "" {
		card, ok := c.synergies[synergyID]
		if !ok {
			return 0, fmt.Errorf("unknown synergy card %q", synergyID)
		}
		for _, skill := range card.SoftSkills {
			offered[skill] = true
		}
	}

	matched := 0
	for _, skill := range challenge.RequiredSkills {
		if offered[skill] {
			matched++
		}
	}
	coverage := float64(matched) / float64(len(challenge.RequiredSkills))
	return 1.0 + softSkillsFullBonus*coverage, nil
}

func evaluateCard(power int, category string, skills []string, challenge *domain.ChallengeCard) int {
	score := power
	required := make(map[string]bool, len(challenge.RequiredSkills))
	for _, skill := range challenge.RequiredSkills {
		required[skill] = true
	}
	for _, skill := range skills {
		if required[skill] {
			score += skillMatchBonus
		}
	}
	if category != "" && category == challenge.Category {
		score += categoryMatchBonus
	}
	return score
}
