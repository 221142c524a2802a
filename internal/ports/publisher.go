package ports

// Publisher announces game events to a room's observers. Delivery is
// best-effort: implementations may drop messages, and callers must never let
// a publish failure roll back recorded state.
type Publisher interface {
	// Publish fans the payload out to the room, or to the named recipients
	// only when recipients is non-empty.
	Publish(roomID, event string, payload []byte, recipients []string) error
}
