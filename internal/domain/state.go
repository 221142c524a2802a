package domain

import "time"

// SessionStatus represents the lifecycle stage of a game session.
type SessionStatus string

const (
	// SessionPending is the pre-game state before the first round opens.
	SessionPending SessionStatus = "pending"
	// SessionActive is the scored-rounds state.
	SessionActive SessionStatus = "active"
	// SessionFinished is the state after round 5 has been scored.
	SessionFinished SessionStatus = "finished"
)

const (
	// TotalRounds is the fixed number of scored rounds per session.
	TotalRounds = 5
	// MVPWindowFirst and MVPWindowLast bound the rounds after which an MVP
	// card may be earmarked.
	MVPWindowFirst = 1
	MVPWindowLast  = 4
	// GoldenCardBonus is the fixed score awarded by a golden-card lock-in,
	// independent of any card evaluation.
	GoldenCardBonus = 120
)

// ParticipantType distinguishes human seats from AI-controlled seats.
type ParticipantType string

const (
	ParticipantHuman ParticipantType = "human"
	ParticipantAI    ParticipantType = "ai"
)

// ConnectionStatus tracks whether a participant's client is reachable.
type ConnectionStatus string

const (
	Connected    ConnectionStatus = "connected"
	Disconnected ConnectionStatus = "disconnected"
)

// SpecialCardType marks the one-shot modifier applied to a lock-in.
type SpecialCardType string

const (
	SpecialNone   SpecialCardType = "none"
	SpecialGolden SpecialCardType = "golden"
	SpecialMVP    SpecialCardType = "mvp"
)

// GameSession holds the authoritative lifecycle state for one 5-round match
// inside a perpetual room. Only the state machine mutates it.
type GameSession struct {
	ID           string        `json:"id"`
	RoomID       string        `json:"room_id"`
	Status       SessionStatus `json:"status"`
	CurrentRound int           `json:"current_round"` // 1..TotalRounds while active

	// ChallengeCards are the challenge card ids drawn for rounds 1..5 at
	// session start, indexed by round-1.
	ChallengeCards []string `json:"challenge_cards"`

	CreatedAt time.Time `json:"created_at"`
}

// CurrentChallengeID returns the challenge card id for the current round, or
// an empty string when the session is not in a scored round.
func (s *GameSession) CurrentChallengeID() string {
	if s.CurrentRound < 1 || s.CurrentRound > len(s.ChallengeCards) {
		return ""
	}
	return s.ChallengeCards[s.CurrentRound-1]
}

// Participant holds the per-seat state for a session member.
type Participant struct {
	ID            string           `json:"id"`
	SessionID     string           `json:"session_id"`
	Type          ParticipantType  `json:"type"`
	DisplayName   string           `json:"display_name"`
	CSuiteRole    string           `json:"c_suite_role"`
	RoleHand      []string         `json:"role_hand"`
	SynergyHand   []string         `json:"synergy_hand"`
	HasGoldenCard bool             `json:"has_golden_card"`
	TotalScore    int              `json:"total_score"`
	Connection    ConnectionStatus `json:"connection"`
}

// HoldsRoleCard reports whether the card id is in the participant's role hand.
func (p *Participant) HoldsRoleCard(cardID string) bool {
	return containsCard(p.RoleHand, cardID)
}

// HoldsSynergyCard reports whether the card id is in the participant's
// synergy hand.
func (p *Participant) HoldsSynergyCard(cardID string) bool {
	return containsCard(p.SynergyHand, cardID)
}

// HoldsCard reports whether the card id is in either hand.
func (p *Participant) HoldsCard(cardID string) bool {
	return p.HoldsRoleCard(cardID) || p.HoldsSynergyCard(cardID)
}

func containsCard(hand []string, cardID string) bool {
	for _, id := range hand {
		if id == cardID {
			return true
		}
	}
	return false
}

// ChallengeCard defines the matching criteria a round's selections are scored
// against. Immutable once referenced by a round.
type ChallengeCard struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Category       string   `json:"category"`
	RequiredSkills []string `json:"required_skills"`
}

// RoundPlay records one participant's scored lock-in for one round. At most
// one exists per (session, participant, round).
type RoundPlay struct {
	ID            string          `json:"id"`
	SessionID     string          `json:"session_id"`
	ParticipantID string          `json:"participant_id"`
	Round         int             `json:"round"`
	RoleCardID    string          `json:"role_card_id,omitempty"` // empty only on a golden play
	SynergyCardID string          `json:"synergy_card_id,omitempty"`
	SpecialCard   SpecialCardType `json:"special_card"`

	BaseScore            int     `json:"base_score"`
	SynergyMultiplier    float64 `json:"synergy_multiplier"`
	CSuiteMultiplier     float64 `json:"c_suite_multiplier"`
	SoftSkillsMultiplier float64 `json:"soft_skills_multiplier"`
	FinalScore           int     `json:"final_score"`

	LockedInAt time.Time `json:"locked_in_at"`
}

// MVPSelection earmarks a card after one round for replay in a later round.
// UsedInRound is zero until a lock-in consumes the selection.
type MVPSelection struct {
	ID                 string `json:"id"`
	SessionID          string `json:"session_id"`
	ParticipantID      string `json:"participant_id"`
	SelectedAfterRound int    `json:"selected_after_round"` // 1..MVPWindowLast
	CardID             string `json:"card_id"`
	UsedInRound        int    `json:"used_in_round,omitempty"`
}

// Consumed reports whether the selection has already been spent by a lock-in.
func (m *MVPSelection) Consumed() bool {
	return m.UsedInRound != 0
}
