package nakama

import (
	"boardroom/internal/app"
	"boardroom/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

var _ ports.Publisher = (*dispatcherPublisher)(nil)

// eventOpCodes maps game events to the wire op codes clients listen on.
var eventOpCodes = map[string]int64{
	string(app.EventSessionStarted):    OpSessionStarted,
	string(app.EventHandDealt):         OpHandDealt,
	string(app.EventChallengeRevealed): OpChallengeRevealed,
	string(app.EventLockedIn):          OpLockedIn,
	string(app.EventMVPSelected):       OpMVPSelected,
	string(app.EventRoundAdvanced):     OpRoundAdvanced,
	string(app.EventSessionFinished):   OpSessionFinished,
}

// dispatcherPublisher implements ports.Publisher over the match dispatcher.
// Delivery is best-effort; the match handler logs failures and moves on.
type dispatcherPublisher struct {
	dispatcher runtime.MatchDispatcher
	presences  map[string]runtime.Presence
}

func (p *dispatcherPublisher) Publish(roomID, event string, payload []byte, recipients []string) error {
	opCode, ok := eventOpCodes[event]
	if !ok {
		return nil
	}

	var targets []runtime.Presence
	if len(recipients) > 0 {
		for _, id := range recipients {
			if presence, ok := p.presences[id]; ok {
				targets = append(targets, presence)
			}
		}
		// Every intended recipient is offline or AI-controlled; a fallback
		// broadcast would leak targeted payloads such as dealt hands.
		if len(targets) == 0 {
			return nil
		}
	}
	return p.dispatcher.BroadcastMessage(opCode, payload, targets, nil, true)
}
