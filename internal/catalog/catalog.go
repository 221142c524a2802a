package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"boardroom/internal/domain"
)

// RoleCard is a playable leadership-role card.
type RoleCard struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Category   string   `json:"category"`
	Power      int      `json:"power"`
	SoftSkills []string `json:"soft_skills"`
}

// SynergyCard is a playable support card combined with a role card.
type SynergyCard struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Category   string   `json:"category"`
	Power      int      `json:"power"`
	SoftSkills []string `json:"soft_skills"`
}

// catalogFile is the on-disk shape of the card catalog.
type catalogFile struct {
	RoleCards      []RoleCard             `json:"role_cards"`
	SynergyCards   []SynergyCard          `json:"synergy_cards"`
	ChallengeCards []domain.ChallengeCard `json:"challenge_cards"`

	// SoftSkillsMatrix maps role category -> synergy category -> the combo
	// affinity multiplier applied to a round's base score.
	SoftSkillsMatrix map[string]map[string]float64 `json:"soft_skills_matrix"`

	// CSuiteMultipliers maps a participant's standing C-suite role choice to
	// its score multiplier.
	CSuiteMultipliers map[string]float64 `json:"c_suite_multipliers"`
}

// Catalog is the read-only card catalog. It is constructed once at module
// init and passed explicitly to every consumer; all lookups are deterministic
// over the loaded data.
type Catalog struct {
	roles      map[string]RoleCard
	synergies  map[string]SynergyCard
	challenges map[string]domain.ChallengeCard

	roleIDs      []string
	synergyIDs   []string
	challengeIDs []string

	matrix map[string]map[string]float64
	csuite map[string]float64
}

// Load reads a card catalog from the given JSON path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read card catalog: %w", err)
	}

	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal card catalog: %w", err)
	}
	return New(file.RoleCards, file.SynergyCards, file.ChallengeCards, file.SoftSkillsMatrix, file.CSuiteMultipliers)
}

// New builds a catalog from in-memory card data. Tests use this directly.
func New(roles []RoleCard, synergies []SynergyCard, challenges []domain.ChallengeCard, matrix map[string]map[string]float64, csuite map[string]float64) (*Catalog, error) {
	if len(roles) == 0 || len(synergies) == 0 || len(challenges) == 0 {
		return nil, fmt.Errorf("card catalog needs at least one role, synergy and challenge card")
	}

	c := &Catalog{
		roles:      make(map[string]RoleCard, len(roles)),
		synergies:  make(map[string]SynergyCard, len(synergies)),
		challenges: make(map[string]domain.ChallengeCard, len(challenges)),
		matrix:     matrix,
		csuite:     csuite,
	}
	for _, card := range roles {
		c.roles[card.ID] = card
		c.roleIDs = append(c.roleIDs, card.ID)
	}
	for _, card := range synergies {
		c.synergies[card.ID] = card
		c.synergyIDs = append(c.synergyIDs, card.ID)
	}
	for _, card := range challenges {
		c.challenges[card.ID] = card
		c.challengeIDs = append(c.challengeIDs, card.ID)
	}
	return c, nil
}

// Challenge returns the challenge card for the given id.
func (c *Catalog) Challenge(id string) (*domain.ChallengeCard, bool) {
	card, ok := c.challenges[id]
	if !ok {
		return nil, false
	}
	return &card, true
}

// IsRoleCard reports whether the id belongs to a role card.
func (c *Catalog) IsRoleCard(id string) bool {
	_, ok := c.roles[id]
	return ok
}

// IsSynergyCard reports whether the id belongs to a synergy card.
func (c *Catalog) IsSynergyCard(id string) bool {
	_, ok := c.synergies[id]
	return ok
}

// RoleCardIDs returns the role card ids in catalog order.
func (c *Catalog) RoleCardIDs() []string {
	return append([]string{}, c.roleIDs...)
}

// SynergyCardIDs returns the synergy card ids in catalog order.
func (c *Catalog) SynergyCardIDs() []string {
	return append([]string{}, c.synergyIDs...)
}

// ChallengeCardIDs returns the challenge card ids in catalog order.
func (c *Catalog) ChallengeCardIDs() []string {
	return append([]string{}, c.challengeIDs...)
}
