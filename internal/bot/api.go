package bot

import (
	"boardroom/internal/domain"
)

// Decision represents the selection an AI participant intends to lock in. It
// flows through the same submit path as a human action; the scoring engine
// still prices it independently.
type Decision struct {
	RoleCardID    string
	SynergyCardID string
	UseGoldenCard bool
	UseMVPBonus   bool
	Confidence    int // percent
	Reasoning     string
}

// Brain is the interface all AI difficulty strategies implement.
type Brain interface {
	Decide(participant *domain.Participant, challenge *domain.ChallengeCard) (Decision, error)
}

// Difficulty selects which decision policy a brain runs.
type Difficulty string

const (
	DifficultyBeginner Difficulty = "beginner"
	DifficultySteady   Difficulty = "steady"
	DifficultySkilled  Difficulty = "skilled"
	DifficultyExpert   Difficulty = "expert"
)

// Personality biases golden-card usage on top of a difficulty. It never
// changes which cards are eligible.
type Personality string

const (
	PersonalityConservative Personality = "conservative"
	PersonalityBalanced     Personality = "balanced"
	PersonalityAggressive   Personality = "aggressive"
)
