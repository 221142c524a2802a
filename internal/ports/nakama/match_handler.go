package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math/rand"

	"boardroom/internal/app"
	"boardroom/internal/bot"
	"boardroom/internal/catalog"
	"boardroom/internal/config"
	"boardroom/internal/domain"
	"boardroom/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the authoritative runtime state for one perpetual room.
type MatchState struct {
	RoomID string `json:"room_id"`

	// SessionID is the running game session, empty while the room idles in
	// the lobby between sessions.
	SessionID      string `json:"session_id"`
	CurrentRound   int    `json:"current_round"`
	RoundStartTick int64  `json:"round_start_tick"`

	Seats       []string                    `json:"seats"` // participant ids, "" means empty
	OwnerID     string                      `json:"owner_id"`
	CSuiteRoles map[string]string           `json:"c_suite_roles"`
	Tick        int64                       `json:"tick"`
	Presences   map[string]runtime.Presence `json:"-"`

	App   *app.Service          `json:"-"`
	Store ports.GameStore       `json:"-"`
	Bots  map[string]*bot.Agent `json:"-"`

	// BotActAt schedules each AI seat's lock-in tick for the current round;
	// a negative value means the seat already acted this round.
	BotActAt     map[string]int64 `json:"-"`
	LastSoloTick int64            `json:"last_solo_tick"`

	Cfg config.GameConfig `json:"-"`
}

func (ms *MatchState) openSeatCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) humanCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !bot.IsBot(seat) {
			count++
		}
	}
	return count
}

func (ms *MatchState) firstHumanSeat() int {
	for i, seat := range ms.Seats {
		if seat != "" && !bot.IsBot(seat) {
			return i
		}
	}
	return -1
}

// roomLabel is the advertised match label used by find_room queries.
type roomLabel struct {
	Open  int    `json:"open"`
	Phase string `json:"phase"`
}

func (ms *MatchState) label() string {
	phase := "lobby"
	if ms.SessionID != "" {
		phase = "playing"
	}
	data, _ := json.Marshal(roomLabel{Open: ms.openSeatCount(), Phase: phase})
	return string(data)
}

// Wire payloads for client messages.
type lockInRequest struct {
	RoleCardID    string `json:"role_card_id"`
	SynergyCardID string `json:"synergy_card_id"`
	SpecialCard   string `json:"special_card"`
}

type selectMVPRequest struct {
	CardID     string `json:"card_id"`
	AfterRound int    `json:"after_round"`
}

type gameErrorEvent struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type roomStateEvent struct {
	Seats     []string          `json:"seats"`
	OwnerID   string            `json:"owner_id"`
	SessionID string            `json:"session_id"`
	Round     int               `json:"round"`
	Names     map[string]string `json:"names"`
}

type matchHandler struct {
	cards *catalog.Catalog
}

func newMatchHandler(cards *catalog.Catalog) *matchHandler {
	return &matchHandler{cards: cards}
}

// MatchInit is called when the room is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	cfg := config.GetGameConfig()

	roomID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	store := NewStorageStore(nk)
	state := &MatchState{
		RoomID:      roomID,
		Seats:       make([]string, cfg.MaxSeats),
		CSuiteRoles: make(map[string]string),
		Presences:   make(map[string]runtime.Presence),
		Store:       store,
		App:         app.NewService(store, mh.cards, nil),
		Bots:        make(map[string]*bot.Agent),
		BotActAt:    make(map[string]int64),
		Cfg:         cfg,
	}

	logger.Debug("MatchInit: room %s ready with %d seats.", roomID, cfg.MaxSeats)
	return state, 1, state.label()
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Allow join if there is an empty seat OR an AI seat to replace while
	// the room is idle between sessions.
	if matchState.openSeatCount() <= 0 {
		hasBot := false
		if matchState.SessionID == "" {
			for _, seat := range matchState.Seats {
				if bot.IsBot(seat) {
					hasBot = true
					break
				}
			}
		}
		if !hasBot {
			return state, false, "room full"
		}
	}

	if role, ok := metadata["c_suite_role"]; ok && role != "" {
		matchState.CSuiteRoles[presence.GetUserId()] = role
	}
	return matchState, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		assigned := false
		for i, seat := range matchState.Seats {
			if seat == "" {
				matchState.Seats[i] = p.GetUserId()
				assigned = true
				break
			}
		}
		if !assigned && matchState.SessionID == "" {
			for i, seat := range matchState.Seats {
				if bot.IsBot(seat) {
					logger.Info("MatchJoin: replacing AI %s with %s in seat %d", seat, p.GetUserId(), i)
					delete(matchState.Bots, seat)
					delete(matchState.BotActAt, seat)
					matchState.Seats[i] = p.GetUserId()
					assigned = true
					break
				}
			}
		}
		if !assigned {
			logger.Warn("MatchJoin: user %s joined but no seat was available.", p.GetUserId())
		}
	}

	if matchState.OwnerID == "" || bot.IsBot(matchState.OwnerID) {
		if seat := matchState.firstHumanSeat(); seat >= 0 {
			matchState.OwnerID = matchState.Seats[seat]
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastRoomState(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())
		delete(matchState.CSuiteRoles, p.GetUserId())

		// Seats stay occupied while a session is running so the scored
		// rounds keep their expected participant set; the leaver is simply
		// no longer reachable.
		if matchState.SessionID == "" {
			for i, seat := range matchState.Seats {
				if seat == p.GetUserId() {
					matchState.Seats[i] = ""
					break
				}
			}
		}
	}

	if seat := matchState.firstHumanSeat(); seat >= 0 {
		matchState.OwnerID = matchState.Seats[seat]
	} else {
		logger.Info("MatchLeave: terminating room with no humans.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}
	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartSession:
			mh.handleStartSession(ctx, matchState, dispatcher, logger, msg)
		case OpLockIn:
			mh.handleLockIn(ctx, matchState, dispatcher, logger, msg)
		case OpSelectMVP:
			mh.handleSelectMVP(ctx, matchState, dispatcher, logger, msg)
		case OpLeaderboardRequest:
			mh.handleLeaderboard(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: unknown opcode received: %d", msg.GetOpCode())
		}
	}

	mh.processBots(ctx, matchState, dispatcher, logger)
	mh.checkRoundTimeout(ctx, matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) handleStartSession(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if senderID != state.OwnerID {
		logger.Warn("StartSession: user %s tried to start but is not owner (%s)", senderID, state.OwnerID)
		mh.sendError(state, dispatcher, logger, senderID, 403, "not-owner", "only the room owner can start a session")
		return
	}
	if state.SessionID != "" {
		mh.sendError(state, dispatcher, logger, senderID, 400, "session-running", "a session is already in progress")
		return
	}

	var seats []app.Seat
	for _, userID := range state.Seats {
		if userID == "" {
			continue
		}
		seats = append(seats, mh.seatFor(state, userID))
	}

	session, events, err := state.App.StartSession(ctx, state.RoomID, seats)
	if err != nil {
		logger.Error("StartSession: %v", err)
		code, reason, message := errorResponse(err)
		mh.sendError(state, dispatcher, logger, senderID, code, reason, message)
		return
	}

	state.SessionID = session.ID
	state.CurrentRound = session.CurrentRound
	state.RoundStartTick = state.Tick
	state.BotActAt = make(map[string]int64)

	mh.updateLabel(state, dispatcher, logger)
	mh.publishEvents(state, dispatcher, logger, events)
	logger.Info("StartSession: session %s started with %d participants.", session.ID, len(seats))
}

func (mh *matchHandler) seatFor(state *MatchState, userID string) app.Seat {
	if bot.IsBot(userID) {
		identity, ok := bot.GetIdentityByID(userID)
		if !ok {
			identity = bot.Identity{UserID: userID, DisplayName: userID}
		}
		return app.Seat{
			ParticipantID: userID,
			DisplayName:   identity.DisplayName,
			Type:          domain.ParticipantAI,
			CSuiteRole:    identity.CSuiteRole,
		}
	}

	displayName := userID
	if p, ok := state.Presences[userID]; ok && p.GetUsername() != "" {
		displayName = p.GetUsername()
	}
	return app.Seat{
		ParticipantID: userID,
		DisplayName:   displayName,
		Type:          domain.ParticipantHuman,
		CSuiteRole:    state.CSuiteRoles[userID],
	}
}

func (mh *matchHandler) handleLockIn(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.SessionID == "" {
		mh.sendError(state, dispatcher, logger, senderID, 400, app.ReasonNotActive, "no session in progress")
		return
	}

	var request lockInRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("handleLockIn: invalid payload from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, "bad-request", "malformed lock-in payload")
		return
	}

	special := domain.SpecialCardType(request.SpecialCard)
	if special == "" {
		special = domain.SpecialNone
	}

	events, err := state.App.SubmitLockIn(ctx, state.SessionID, senderID, request.RoleCardID, request.SynergyCardID, special)
	if err != nil {
		var conflict *app.ConflictError
		if errors.As(err, &conflict) {
			// Same answer as already-locked-in for the client, logged apart
			// so storage races stay visible.
			logger.Warn("handleLockIn: lock-in race for %s round %d", conflict.ParticipantID, conflict.Round)
			mh.sendError(state, dispatcher, logger, senderID, 400, app.ReasonAlreadyLockedIn, conflict.Error())
			return
		}
		code, reason, message := errorResponse(err)
		if code >= 500 {
			logger.Error("handleLockIn: %v", err)
		} else {
			logger.Warn("handleLockIn: user %s rejected: %v", senderID, err)
		}
		mh.sendError(state, dispatcher, logger, senderID, code, reason, message)
		return
	}

	mh.publishEvents(state, dispatcher, logger, events)
}

func (mh *matchHandler) handleSelectMVP(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.SessionID == "" {
		mh.sendError(state, dispatcher, logger, senderID, 400, app.ReasonNotActive, "no session in progress")
		return
	}

	var request selectMVPRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("handleSelectMVP: invalid payload from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, "bad-request", "malformed mvp payload")
		return
	}

	events, err := state.App.SelectMVP(ctx, state.SessionID, senderID, request.CardID, request.AfterRound)
	if err != nil {
		code, reason, message := errorResponse(err)
		if code >= 500 {
			logger.Error("handleSelectMVP: %v", err)
		}
		mh.sendError(state, dispatcher, logger, senderID, code, reason, message)
		return
	}

	mh.publishEvents(state, dispatcher, logger, events)
}

func (mh *matchHandler) handleLeaderboard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.SessionID == "" {
		mh.sendError(state, dispatcher, logger, senderID, 400, app.ReasonNotActive, "no session in progress")
		return
	}

	standings, err := state.App.Leaderboard(ctx, state.SessionID)
	if err != nil {
		code, reason, message := errorResponse(err)
		mh.sendError(state, dispatcher, logger, senderID, code, reason, message)
		return
	}

	payload, err := json.Marshal(standings)
	if err != nil {
		logger.Error("handleLeaderboard: marshal failed: %v", err)
		return
	}
	presence, ok := state.Presences[senderID]
	if !ok {
		return
	}
	if err := dispatcher.BroadcastMessage(OpLeaderboardState, payload, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Warn("handleLeaderboard: send failed: %v", err)
	}
}

// processBots fills lonely lobbies with AI opponents and submits their
// lock-ins through the same path humans use.
func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.SessionID == "" {
		mh.autoFillSeats(state, dispatcher, logger)
		return
	}

	for _, userID := range state.Seats {
		if userID == "" || !bot.IsBot(userID) {
			continue
		}
		actAt, scheduled := state.BotActAt[userID]
		if actAt < 0 {
			continue // already acted this round
		}
		if !scheduled || actAt == 0 {
			delay := rand.Intn(state.Cfg.BotMaxDelaySeconds-state.Cfg.BotMinDelaySeconds+1) + state.Cfg.BotMinDelaySeconds
			state.BotActAt[userID] = state.Tick + int64(delay)
			continue
		}
		if state.Tick < actAt {
			continue
		}
		state.BotActAt[userID] = -1

		agent, ok := state.Bots[userID]
		if !ok {
			identity, found := bot.GetIdentityByID(userID)
			if !found {
				identity = bot.Identity{UserID: userID, DisplayName: userID, Difficulty: bot.DifficultySteady}
			}
			var err error
			agent, err = bot.NewAgent(identity, mh.cards, nil)
			if err != nil {
				logger.Error("processBots: failed to create fallback agent: %v", err)
				continue
			}
			state.Bots[userID] = agent
		}

		mh.submitBotLockIn(ctx, state, dispatcher, logger, agent)
	}
}

func (mh *matchHandler) autoFillSeats(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Cfg.BotAutoFillDelaySeconds <= 0 || state.humanCount() != 1 {
		state.LastSoloTick = 0
		return
	}
	if state.LastSoloTick == 0 {
		state.LastSoloTick = state.Tick
		logger.Debug("processBots: single player detected, starting auto-fill timer.")
		return
	}
	if state.Tick-state.LastSoloTick < int64(state.Cfg.BotAutoFillDelaySeconds) {
		return
	}
	state.LastSoloTick = 0

	added := false
	for i, seat := range state.Seats {
		if seat != "" {
			continue
		}
		identity := bot.GetIdentity(i)
		agent, err := bot.NewAgent(identity, mh.cards, nil)
		if err != nil {
			logger.Error("processBots: failed to create agent for %s: %v", identity.UserID, err)
			continue
		}
		state.Seats[i] = identity.UserID
		state.Bots[identity.UserID] = agent
		logger.Info("processBots: added AI %s (%s) to seat %d", identity.DisplayName, identity.UserID, i)
		added = true
	}
	if added {
		mh.updateLabel(state, dispatcher, logger)
		mh.broadcastRoomState(state, dispatcher, logger)
	}
}

func (mh *matchHandler) submitBotLockIn(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, agent *bot.Agent) {
	session, err := state.Store.GetSession(ctx, state.SessionID)
	if err != nil {
		logger.Error("processBots: failed to load session %s: %v", state.SessionID, err)
		return
	}
	participant, err := state.Store.GetParticipant(ctx, state.SessionID, agent.ID)
	if err != nil {
		logger.Error("processBots: failed to load participant %s: %v", agent.ID, err)
		return
	}
	challenge, ok := mh.cards.Challenge(session.CurrentChallengeID())
	if !ok {
		logger.Error("processBots: no challenge for round %d", session.CurrentRound)
		return
	}

	decision, err := agent.Act(participant, challenge)
	if err != nil {
		logger.Error("processBots: AI %s failed to decide: %v", agent.ID, err)
		return
	}

	special := domain.SpecialNone
	switch {
	case decision.UseGoldenCard:
		special = domain.SpecialGolden
	case decision.UseMVPBonus:
		special = domain.SpecialMVP
	}

	events, err := state.App.SubmitLockIn(ctx, state.SessionID, agent.ID, decision.RoleCardID, decision.SynergyCardID, special)
	if err != nil {
		var vErr *app.ValidationError
		if errors.As(err, &vErr) {
			logger.Debug("processBots: AI %s lock-in rejected: %v", agent.ID, err)
			return
		}
		logger.Error("processBots: AI %s lock-in failed: %v", agent.ID, err)
		return
	}

	logger.Debug("processBots: AI %s locked in round %d (confidence %d%%, %s)", agent.ID, session.CurrentRound, decision.Confidence, decision.Reasoning)
	mh.publishEvents(state, dispatcher, logger, events)
}

// checkRoundTimeout force-advances the session when the configured round
// timeout elapses before every participant locked in.
func (mh *matchHandler) checkRoundTimeout(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.SessionID == "" || state.Cfg.RoundTimeoutSeconds <= 0 {
		return
	}
	if state.Tick-state.RoundStartTick < int64(state.Cfg.RoundTimeoutSeconds) {
		return
	}

	logger.Info("checkRoundTimeout: round %d timed out, forcing advance.", state.CurrentRound)
	events, err := state.App.ForceAdvance(ctx, state.SessionID)
	if err != nil {
		logger.Error("checkRoundTimeout: force advance failed: %v", err)
		state.RoundStartTick = state.Tick // avoid hammering the store every tick
		return
	}
	mh.publishEvents(state, dispatcher, logger, events)
}

// publishEvents announces service events through the publisher contract and
// tracks the round/session transitions they carry. Publish failures are
// logged and swallowed; the state they describe is already committed.
func (mh *matchHandler) publishEvents(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	publisher := &dispatcherPublisher{dispatcher: dispatcher, presences: state.Presences}

	for _, ev := range events {
		payload, err := json.Marshal(ev.Payload)
		if err != nil {
			logger.Error("publishEvents: failed to marshal %s: %v", ev.Kind, err)
			continue
		}
		if err := publisher.Publish(state.RoomID, string(ev.Kind), payload, ev.Recipients); err != nil {
			logger.Warn("publishEvents: broadcast of %s failed: %v", ev.Kind, err)
		}

		switch ev.Kind {
		case app.EventRoundAdvanced:
			if p, ok := ev.Payload.(app.RoundAdvancedPayload); ok {
				state.CurrentRound = p.Round
			}
			state.RoundStartTick = state.Tick
			state.BotActAt = make(map[string]int64)
		case app.EventSessionFinished:
			state.SessionID = ""
			state.CurrentRound = 0
			state.BotActAt = make(map[string]int64)
			mh.updateLabel(state, dispatcher, logger)
		}
	}
}

// sendError sends a game error event to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, reason, message string) {
	payload, err := json.Marshal(gameErrorEvent{Code: code, Reason: reason, Message: message})
	if err != nil {
		logger.Error("sendError: marshal failed: %v", err)
		return
	}
	presence, ok := state.Presences[userID]
	if !ok {
		return
	}
	if err := dispatcher.BroadcastMessage(OpGameError, payload, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Warn("sendError: send to %s failed: %v", userID, err)
	}
}

func (mh *matchHandler) broadcastRoomState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	names := make(map[string]string)
	for _, userID := range state.Seats {
		if userID == "" {
			continue
		}
		if p, ok := state.Presences[userID]; ok && p.GetUsername() != "" {
			names[userID] = p.GetUsername()
		} else if identity, ok := bot.GetIdentityByID(userID); ok {
			names[userID] = identity.DisplayName
		} else {
			names[userID] = userID
		}
	}

	payload, err := json.Marshal(roomStateEvent{
		Seats:     state.Seats,
		OwnerID:   state.OwnerID,
		SessionID: state.SessionID,
		Round:     state.CurrentRound,
		Names:     names,
	})
	if err != nil {
		logger.Error("broadcastRoomState: marshal failed: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpRoomState, payload, nil, nil, true); err != nil {
		logger.Warn("broadcastRoomState: broadcast failed: %v", err)
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if err := dispatcher.MatchLabelUpdate(state.label()); err != nil {
		logger.Error("updateLabel: failed to update: %v", err)
	}
}

// errorResponse maps a service error onto a wire code and reason.
func errorResponse(err error) (int, string, string) {
	var vErr *app.ValidationError
	if errors.As(err, &vErr) {
		return 400, vErr.Reason, vErr.Error()
	}
	var nfErr *app.NotFoundError
	if errors.As(err, &nfErr) {
		return 404, "not-found", nfErr.Error()
	}
	var cErr *app.ConflictError
	if errors.As(err, &cErr) {
		return 400, app.ReasonAlreadyLockedIn, cErr.Error()
	}
	return 500, "internal", "internal error"
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: room terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
