package bot

import (
	"math/rand"

	"boardroom/internal/catalog"
	"boardroom/internal/domain"
)

// Agent pairs an AI identity with the brain that plays for it.
type Agent struct {
	ID    string
	Name  string
	Brain Brain
}

// NewAgent builds an agent for the identity, wiring the evaluator and rng
// into a brain of the identity's difficulty and personality.
func NewAgent(identity Identity, eval catalog.Evaluator, rng *rand.Rand) (*Agent, error) {
	brain, err := NewBrain(identity.Difficulty, identity.Personality, eval, rng)
	if err != nil {
		return nil, err
	}
	return &Agent{
		ID:    identity.UserID,
		Name:  identity.DisplayName,
		Brain: brain,
	}, nil
}

// Act asks the agent to choose its lock-in for the round.
func (a *Agent) Act(participant *domain.Participant, challenge *domain.ChallengeCard) (Decision, error) {
	return a.Brain.Decide(participant, challenge)
}
