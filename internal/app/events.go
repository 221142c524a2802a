package app

import "boardroom/internal/domain"

// EventKind identifies emitted game events for transport dispatch.
type EventKind string

const (
	EventSessionStarted    EventKind = "session_started"
	EventHandDealt         EventKind = "hand_dealt"
	EventChallengeRevealed EventKind = "challenge_revealed"
	EventLockedIn          EventKind = "locked_in"
	EventMVPSelected       EventKind = "mvp_selected"
	EventRoundAdvanced     EventKind = "round_advanced"
	EventSessionFinished   EventKind = "session_finished"
)

// Event is a game event with optional targeted recipients. Events are emitted
// only after the backing state has been committed; publishing them is the
// transport layer's concern and its failures never undo recorded state.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // participant ids; empty means broadcast
}

type SessionStartedPayload struct {
	SessionID    string   `json:"session_id"`
	Participants []string `json:"participants"`
	Round        int      `json:"round"`
}

type HandDealtPayload struct {
	ParticipantID string   `json:"participant_id"`
	RoleHand      []string `json:"role_hand"`
	SynergyHand   []string `json:"synergy_hand"`
}

type ChallengeRevealedPayload struct {
	Round     int                   `json:"round"`
	Challenge *domain.ChallengeCard `json:"challenge"`
}

type LockedInPayload struct {
	ParticipantID string                 `json:"participant_id"`
	Round         int                    `json:"round"`
	SpecialCard   domain.SpecialCardType `json:"special_card"`
	FinalScore    int                    `json:"final_score"`
	TotalScore    int                    `json:"total_score"`
}

type MVPSelectedPayload struct {
	ParticipantID string `json:"participant_id"`
	AfterRound    int    `json:"after_round"`
	CardID        string `json:"card_id"`
}

type RoundAdvancedPayload struct {
	Round  int  `json:"round"`
	Forced bool `json:"forced"`
}

type SessionFinishedPayload struct {
	SessionID string            `json:"session_id"`
	Standings []domain.Standing `json:"standings"`
}
