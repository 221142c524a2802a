package app

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"boardroom/internal/catalog"
	"boardroom/internal/domain"
	"boardroom/internal/ports"
	"boardroom/internal/scoring"

	"github.com/google/uuid"
)

// Service owns the session/round state machine. It validates every action,
// delegates pricing to the scoring engine, commits through the store port and
// returns events for the transport layer to publish.
type Service struct {
	store  ports.GameStore
	cards  *catalog.Catalog
	engine *scoring.Engine
	rng    *rand.Rand
	now    func() time.Time
}

// NewService constructs a Service with the provided rng or a time-seeded
// default.
func NewService(store ports.GameStore, cards *catalog.Catalog, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		store:  store,
		cards:  cards,
		engine: scoring.NewEngine(cards),
		rng:    rng,
		now:    time.Now,
	}
}

// Seat describes one participant joining a new session.
type Seat struct {
	ParticipantID string
	DisplayName   string
	Type          domain.ParticipantType
	CSuiteRole    string
}

// StartSession creates an active session for the room, deals role and synergy
// hands from the catalog decks and draws the challenge cards for all five
// rounds.
func (s *Service) StartSession(ctx context.Context, roomID string, seats []Seat) (*domain.GameSession, []Event, error) {
	if len(seats) < MinParticipants {
		return nil, nil, newValidationError("too-few-participants", "need at least %d, got %d", MinParticipants, len(seats))
	}

	session := &domain.GameSession{
		ID:             uuid.NewString(),
		RoomID:         roomID,
		Status:         domain.SessionActive,
		CurrentRound:   1,
		ChallengeCards: s.drawChallenges(),
		CreatedAt:      s.now(),
	}

	roleDeck := s.shuffled(s.cards.RoleCardIDs())
	synergyDeck := s.shuffled(s.cards.SynergyCardIDs())

	participants := make([]*domain.Participant, 0, len(seats))
	participantIDs := make([]string, 0, len(seats))
	events := make([]Event, 0, len(seats)+2)
	for i, seat := range seats {
		p := &domain.Participant{
			ID:            seat.ParticipantID,
			SessionID:     session.ID,
			Type:          seat.Type,
			DisplayName:   seat.DisplayName,
			CSuiteRole:    seat.CSuiteRole,
			RoleHand:      deal(roleDeck, i, RoleHandSize),
			SynergyHand:   deal(synergyDeck, i, SynergyHandSize),
			HasGoldenCard: true,
			Connection:    domain.Connected,
		}
		participants = append(participants, p)
		participantIDs = append(participantIDs, p.ID)

		events = append(events, Event{
			Kind: EventHandDealt,
			Payload: HandDealtPayload{
				ParticipantID: p.ID,
				RoleHand:      p.RoleHand,
				SynergyHand:   p.SynergyHand,
			},
			Recipients: []string{p.ID},
		})
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, nil, &PersistenceError{Op: "create session", Err: err}
	}
	if err := s.store.CreateParticipants(ctx, participants); err != nil {
		return nil, nil, &PersistenceError{Op: "create participants", Err: err}
	}

	events = append(events, Event{
		Kind: EventSessionStarted,
		Payload: SessionStartedPayload{
			SessionID:    session.ID,
			Participants: participantIDs,
			Round:        session.CurrentRound,
		},
	})
	if ev, ok := s.challengeRevealed(session); ok {
		events = append(events, ev)
	}

	return session, events, nil
}

// SubmitLockIn finalizes a participant's card selection for the current
// round. It scores the selection, commits the round play, score increment,
// any MVP consumption and any round advance as one unit, and emits the
// resulting events. AI and human lock-ins share this path.
func (s *Service) SubmitLockIn(ctx context.Context, sessionID, participantID, roleCardID, synergyCardID string, special domain.SpecialCardType) ([]Event, error) {
	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionActive {
		return nil, newValidationError(ReasonNotActive, "session is %s", session.Status)
	}
	participant, err := s.getParticipant(ctx, sessionID, participantID)
	if err != nil {
		return nil, err
	}

	plays, err := s.store.ListRoundPlays(ctx, sessionID, session.CurrentRound)
	if err != nil {
		return nil, &PersistenceError{Op: "list round plays", Err: err}
	}
	for _, play := range plays {
		if play.ParticipantID == participantID {
			return nil, newValidationError(ReasonAlreadyLockedIn, "round %d", session.CurrentRound)
		}
	}

	sel := scoring.Selection{
		RoleCardID:    roleCardID,
		SynergyCardID: synergyCardID,
		Special:       special,
	}
	if err := s.validateSelection(ctx, session, participant, &sel); err != nil {
		return nil, err
	}

	challengeID := session.CurrentChallengeID()
	challenge, ok := s.cards.Challenge(challengeID)
	if !ok {
		return nil, &NotFoundError{Entity: "challenge card", ID: challengeID}
	}

	result, err := s.engine.Score(sel, participant, challenge, session.CurrentRound)
	if err != nil {
		if errors.Is(err, scoring.ErrMVPSelectionConsumed) {
			return nil, newValidationError(ReasonMVPCardConsumed, "selection %s", sel.MVP.ID)
		}
		return nil, newValidationError(ReasonCardNotInHand, "%v", err)
	}

	play := &domain.RoundPlay{
		ID:                   uuid.NewString(),
		SessionID:            sessionID,
		ParticipantID:        participantID,
		Round:                session.CurrentRound,
		RoleCardID:           result.RoleCardID,
		SynergyCardID:        result.SynergyCardID,
		SpecialCard:          special,
		BaseScore:            result.BaseScore,
		SynergyMultiplier:    result.SynergyMultiplier,
		CSuiteMultiplier:     result.CSuiteMultiplier,
		SoftSkillsMultiplier: result.SoftSkillsMultiplier,
		FinalScore:           result.FinalScore,
		LockedInAt:           s.now(),
	}

	updated := *participant
	updated.TotalScore += result.FinalScore
	if special == domain.SpecialGolden {
		updated.HasGoldenCard = false
	}

	var consumed *domain.MVPSelection
	if sel.MVP != nil {
		c := *sel.MVP
		c.UsedInRound = session.CurrentRound
		consumed = &c
	}

	participants, err := s.store.ListParticipants(ctx, sessionID)
	if err != nil {
		return nil, &PersistenceError{Op: "list participants", Err: err}
	}

	// This play completes the round when every participant has one.
	var advanced *domain.GameSession
	if len(plays)+1 >= len(participants) {
		next := *session
		advanceSession(&next)
		advanced = &next
	}

	commit := ports.LockInCommit{
		Play:        play,
		Participant: &updated,
		MVP:         consumed,
		Session:     advanced,
	}
	if err := s.store.CommitLockIn(ctx, commit); err != nil {
		if errors.Is(err, ports.ErrDuplicatePlay) {
			return nil, &ConflictError{SessionID: sessionID, ParticipantID: participantID, Round: session.CurrentRound}
		}
		return nil, &PersistenceError{Op: "commit lock-in", Err: err}
	}

	events := []Event{{
		Kind: EventLockedIn,
		Payload: LockedInPayload{
			ParticipantID: participantID,
			Round:         session.CurrentRound,
			SpecialCard:   special,
			FinalScore:    result.FinalScore,
			TotalScore:    updated.TotalScore,
		},
	}}
	if advanced != nil {
		// Standings must reflect the score committed above.
		for i, p := range participants {
			if p.ID == updated.ID {
				participants[i] = &updated
			}
		}
		events = append(events, s.advanceEvents(advanced, participants, false)...)
	}
	return events, nil
}

// SelectMVP earmarks a card from either hand for replay in a later round.
// Re-selection before use overwrites the pending record; a card any earlier
// lock-in already consumed is rejected.
func (s *Service) SelectMVP(ctx context.Context, sessionID, participantID, mvpCardID string, afterRound int) ([]Event, error) {
	if afterRound < domain.MVPWindowFirst || afterRound > domain.MVPWindowLast {
		return nil, newValidationError(ReasonMVPRoundOutOfRange, "after round %d", afterRound)
	}
	if _, err := s.getSession(ctx, sessionID); err != nil {
		return nil, err
	}
	participant, err := s.getParticipant(ctx, sessionID, participantID)
	if err != nil {
		return nil, err
	}
	if !participant.HoldsCard(mvpCardID) {
		return nil, newValidationError(ReasonCardNotInHand, "card %s", mvpCardID)
	}

	selections, err := s.store.ListMVPSelections(ctx, sessionID, participantID)
	if err != nil {
		return nil, &PersistenceError{Op: "list mvp selections", Err: err}
	}

	selection := &domain.MVPSelection{
		ID:                 uuid.NewString(),
		SessionID:          sessionID,
		ParticipantID:      participantID,
		SelectedAfterRound: afterRound,
		CardID:             mvpCardID,
	}
	for _, existing := range selections {
		if existing.Consumed() {
			if existing.CardID == mvpCardID {
				return nil, newValidationError(ReasonMVPCardConsumed, "card %s used in round %d", mvpCardID, existing.UsedInRound)
			}
			if existing.SelectedAfterRound == afterRound {
				return nil, newValidationError(ReasonMVPCardConsumed, "selection for round %d already used", afterRound)
			}
			continue
		}
		if existing.SelectedAfterRound == afterRound {
			// Idempotent upsert keeps the record, swaps the card.
			selection.ID = existing.ID
		}
	}

	if err := s.store.UpsertMVPSelection(ctx, selection); err != nil {
		return nil, &PersistenceError{Op: "upsert mvp selection", Err: err}
	}

	return []Event{{
		Kind: EventMVPSelected,
		Payload: MVPSelectedPayload{
			ParticipantID: participantID,
			AfterRound:    afterRound,
			CardID:        mvpCardID,
		},
	}}, nil
}

// ForceAdvance moves an active session to the next round (or finishes it)
// without waiting for the remaining participants. The surrounding scheduler
// calls this when the round timeout elapses.
func (s *Service) ForceAdvance(ctx context.Context, sessionID string) ([]Event, error) {
	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionActive {
		return nil, newValidationError(ReasonNotActive, "session is %s", session.Status)
	}

	next := *session
	advanceSession(&next)
	if err := s.store.UpdateSession(ctx, &next); err != nil {
		return nil, &PersistenceError{Op: "update session", Err: err}
	}

	participants, err := s.store.ListParticipants(ctx, sessionID)
	if err != nil {
		return nil, &PersistenceError{Op: "list participants", Err: err}
	}
	return s.advanceEvents(&next, participants, true), nil
}

// Leaderboard returns tie-aware standings enriched with whether each
// participant has locked in for the current round.
func (s *Service) Leaderboard(ctx context.Context, sessionID string) ([]domain.Standing, error) {
	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	participants, err := s.store.ListParticipants(ctx, sessionID)
	if err != nil {
		return nil, &PersistenceError{Op: "list participants", Err: err}
	}

	lockedIn := make(map[string]bool)
	if session.Status == domain.SessionActive {
		plays, err := s.store.ListRoundPlays(ctx, sessionID, session.CurrentRound)
		if err != nil {
			return nil, &PersistenceError{Op: "list round plays", Err: err}
		}
		for _, play := range plays {
			lockedIn[play.ParticipantID] = true
		}
	}
	return domain.ComputeStandings(participants, lockedIn), nil
}

// validateSelection enforces the hand-membership and special-card
// preconditions, resolving the MVP selection when one is being consumed.
func (s *Service) validateSelection(ctx context.Context, session *domain.GameSession, participant *domain.Participant, sel *scoring.Selection) error {
	if sel.SynergyCardID != "" && !participant.HoldsSynergyCard(sel.SynergyCardID) {
		return newValidationError(ReasonCardNotInHand, "synergy card %s", sel.SynergyCardID)
	}

	switch sel.Special {
	case domain.SpecialGolden:
		if !participant.HasGoldenCard {
			return newValidationError(ReasonGoldenUnavailable, "participant %s", participant.ID)
		}
		if sel.RoleCardID != "" && !participant.HoldsRoleCard(sel.RoleCardID) {
			return newValidationError(ReasonCardNotInHand, "role card %s", sel.RoleCardID)
		}
		return nil

	case domain.SpecialMVP:
		mvp, err := s.resolveMVP(ctx, session, participant.ID)
		if err != nil {
			return err
		}
		sel.MVP = mvp
		if s.cards.IsRoleCard(mvp.CardID) {
			// The earmarked card fills the role slot; a supplied role card
			// is allowed but must still be real.
			if sel.RoleCardID != "" && !participant.HoldsRoleCard(sel.RoleCardID) {
				return newValidationError(ReasonCardNotInHand, "role card %s", sel.RoleCardID)
			}
			return nil
		}
		fallthrough

	default:
		if sel.RoleCardID == "" {
			return newValidationError(ReasonRoleCardRequired, "special card %s", sel.Special)
		}
		if !participant.HoldsRoleCard(sel.RoleCardID) {
			return newValidationError(ReasonCardNotInHand, "role card %s", sel.RoleCardID)
		}
		return nil
	}
}

// resolveMVP finds the participant's pending selection eligible for the
// current round: unconsumed, earmarked after an earlier round, latest first.
func (s *Service) resolveMVP(ctx context.Context, session *domain.GameSession, participantID string) (*domain.MVPSelection, error) {
	selections, err := s.store.ListMVPSelections(ctx, session.ID, participantID)
	if err != nil {
		return nil, &PersistenceError{Op: "list mvp selections", Err: err}
	}

	var best *domain.MVPSelection
	sawConsumed := false
	for _, selection := range selections {
		if selection.SelectedAfterRound >= session.CurrentRound {
			continue
		}
		if selection.Consumed() {
			sawConsumed = true
			continue
		}
		if best == nil || selection.SelectedAfterRound > best.SelectedAfterRound {
			best = selection
		}
	}
	if best == nil {
		if sawConsumed {
			return nil, newValidationError(ReasonMVPCardConsumed, "all eligible selections already used")
		}
		return nil, newValidationError(ReasonMVPUnavailable, "round %d", session.CurrentRound)
	}
	return best, nil
}

func (s *Service) getSession(ctx context.Context, sessionID string) (*domain.GameSession, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, &NotFoundError{Entity: "session", ID: sessionID}
	}
	if err != nil {
		return nil, &PersistenceError{Op: "get session", Err: err}
	}
	return session, nil
}

func (s *Service) getParticipant(ctx context.Context, sessionID, participantID string) (*domain.Participant, error) {
	participant, err := s.store.GetParticipant(ctx, sessionID, participantID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, &NotFoundError{Entity: "participant", ID: participantID}
	}
	if err != nil {
		return nil, &PersistenceError{Op: "get participant", Err: err}
	}
	return participant, nil
}

// advanceEvents emits the round-advanced or session-finished events for an
// already-persisted session transition.
func (s *Service) advanceEvents(session *domain.GameSession, participants []*domain.Participant, forced bool) []Event {
	if session.Status == domain.SessionFinished {
		return []Event{{
			Kind: EventSessionFinished,
			Payload: SessionFinishedPayload{
				SessionID: session.ID,
				Standings: domain.ComputeStandings(participants, nil),
			},
		}}
	}

	events := []Event{{
		Kind:    EventRoundAdvanced,
		Payload: RoundAdvancedPayload{Round: session.CurrentRound, Forced: forced},
	}}
	if ev, ok := s.challengeRevealed(session); ok {
		events = append(events, ev)
	}
	return events
}

func (s *Service) challengeRevealed(session *domain.GameSession) (Event, bool) {
	challenge, ok := s.cards.Challenge(session.CurrentChallengeID())
	if !ok {
		return Event{}, false
	}
	return Event{
		Kind:    EventChallengeRevealed,
		Payload: ChallengeRevealedPayload{Round: session.CurrentRound, Challenge: challenge},
	}, true
}

// advanceSession applies the active[r] -> active[r+1] transition, or
// active[5] -> finished after the last round.
func advanceSession(session *domain.GameSession) {
	if session.CurrentRound >= domain.TotalRounds {
		session.Status = domain.SessionFinished
		return
	}
	session.CurrentRound++
}

// drawChallenges picks one challenge card per round from the catalog,
// shuffled, repeating only when the catalog has fewer than five.
func (s *Service) drawChallenges() []string {
	ids := s.shuffled(s.cards.ChallengeCardIDs())
	drawn := make([]string, domain.TotalRounds)
	for i := range drawn {
		drawn[i] = ids[i%len(ids)]
	}
	return drawn
}

func (s *Service) shuffled(ids []string) []string {
	s.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	return ids
}

// deal hands the seat its slice of the shuffled deck, cycling when the deck
// is smaller than the table needs.
func deal(deck []string, seat, size int) []string {
	hand := make([]string, size)
	for i := range hand {
		hand[i] = deck[(seat*size+i)%len(deck)]
	}
	return hand
}
