package app

// MinParticipants defines the minimum number of seats required to start a
// session. Keep this centralized so tests or local runs can adjust the rule
// without touching multiple call sites.
const MinParticipants = 2

const (
	// RoleHandSize and SynergyHandSize are the cards dealt to each
	// participant at session start.
	RoleHandSize    = 5
	SynergyHandSize = 4
)
