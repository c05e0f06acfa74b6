package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"trisect/internal/app"
	"trisect/internal/bot"
	"trisect/internal/config"
	"trisect/internal/domain"
	"trisect/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the authoritative runtime state for one room. Nakama
// runs every callback for a match on that match's own goroutine, so all
// room state below is accessed serially.
type MatchState struct {
	RoomName string
	RoomType domain.RoomType

	Members   []string // connection ids in join order
	Presences map[string]runtime.Presence

	// ReadyAnnounced guards the readiness broadcast: it fires the instant
	// membership first equals capacity and not again until a leave resets it.
	ReadyAnnounced bool

	Round *domain.Round
	Tick  int64

	App       *app.Service
	Directory ports.Directory

	// Automated opponent scheduling (cpu rooms only). CPUActAt is the tick
	// the pending move resolves at; zero means none is pending.
	CPU           *bot.Agent
	CPUDelayTicks int64
	CPUActAt      int64
	CPUBaseValue  int64

	StartValueMin int64
	StartValueMax int64
}

func (ms *MatchState) capacity() int {
	return domain.Capacity(ms.RoomType)
}

func (ms *MatchState) cpuID() string {
	if ms.CPU != nil {
		return ms.CPU.ID
	}
	return ""
}

// presencesExcept returns the connected presences other than the given id.
func (ms *MatchState) presencesExcept(userID string) []runtime.Presence {
	out := make([]runtime.Presence, 0, len(ms.Presences))
	for uid, p := range ms.Presences {
		if uid != userID {
			out = append(out, p)
		}
	}
	return out
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the room's match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	roomName, _ := params["room"].(string)
	roomTypeParam, _ := params["type"].(string)
	roomType := domain.RoomType(roomTypeParam)

	if roomName == "" || !roomType.Valid() {
		logger.Error("MatchInit: invalid room params: room=%q type=%q", roomName, roomTypeParam)
		return nil, 0, ""
	}

	cfg := config.GetGameConfig()
	delayMillis := cfg.CPUMoveDelayMillis
	strategy := cfg.BotStrategy
	startMin := cfg.StartValueMin
	startMax := cfg.StartValueMax

	// Environment overrides, read the same way regardless of config file.
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if val, ok := env["trisect_cpu_delay_ms"]; ok {
			if i, err := strconv.Atoi(val); err == nil {
				delayMillis = i
			}
		}
		if val, ok := env["trisect_bot_strategy"]; ok {
			strategy = val
		}
		if val, ok := env["trisect_start_value_min"]; ok {
			if i, err := strconv.ParseInt(val, 10, 64); err == nil {
				startMin = i
			}
		}
		if val, ok := env["trisect_start_value_max"]; ok {
			if i, err := strconv.ParseInt(val, 10, 64); err == nil {
				startMax = i
			}
		}
	}

	tickRate := cfg.TickRate
	if tickRate < 1 || tickRate > 60 {
		tickRate = 10
	}

	state := &MatchState{
		RoomName:      roomName,
		RoomType:      roomType,
		Presences:     make(map[string]runtime.Presence),
		App:           app.NewService(nil),
		Directory:     NewStorageDirectory(nk),
		StartValueMin: startMin,
		StartValueMax: startMax,
	}

	if roomType == domain.RoomTypeCPU {
		agent, err := bot.NewAgent(strategy, nil)
		if err != nil {
			logger.Warn("MatchInit: %v, falling back to random strategy", err)
			agent, err = bot.NewAgent(bot.StrategyRandom, nil)
			if err != nil {
				logger.Error("MatchInit: failed to create automated opponent: %v", err)
				return nil, 0, ""
			}
		}
		state.CPU = agent
		state.CPUDelayTicks = delayTicks(delayMillis, tickRate)
	}

	labelBytes, err := json.Marshal(matchLabel{
		Open: state.capacity(),
		Game: GameName,
		Room: roomName,
		Type: string(roomType),
	})
	if err != nil {
		logger.Error("MatchInit: failed to marshal label: %v", err)
		return nil, 0, ""
	}

	return state, tickRate, string(labelBytes)
}

// delayTicks converts a millisecond delay to whole ticks, rounding up so
// the automated move never resolves early.
func delayTicks(millis, tickRate int) int64 {
	ticks := (int64(millis)*int64(tickRate) + 999) / 1000
	if ticks < 1 {
		ticks = 1
	}
	return ticks
}

// MatchJoinAttempt enforces room capacity and performs the directory write.
// A failed write denies the join, so only the joining connection observes
// the failure.
func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	s, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	if _, joined := s.Presences[presence.GetUserId()]; joined {
		return s, false, "already joined"
	}
	if len(s.Members) >= s.capacity() {
		return s, false, "room full"
	}

	if err := s.Directory.AssignRoom(ctx, s.RoomName, presence.GetUserId(), string(s.RoomType)); err != nil {
		logger.Warn("MatchJoinAttempt: directory assign failed for %s: %v", presence.GetUserId(), err)
		return s, false, "directory unavailable"
	}

	return s, true, ""
}

// MatchJoin runs strictly after the transport subscription completes, which
// is what makes the readiness check below observe an up-to-date membership.
func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	s, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		uid := p.GetUserId()
		if _, joined := s.Presences[uid]; joined {
			s.Presences[uid] = p
			continue
		}

		s.Presences[uid] = p
		s.Members = append(s.Members, uid)

		mh.send(dispatcher, logger, OpMessage, messageEvent{
			User:    p.GetUsername(),
			Message: fmt.Sprintf("welcome to room %s", s.RoomName),
			Room:    s.RoomName,
		}, []runtime.Presence{p})

		// No human peer to notify in an automated-opponent room.
		if s.RoomType != domain.RoomTypeCPU {
			mh.send(dispatcher, logger, OpMessage, messageEvent{
				User:    p.GetUsername(),
				Message: fmt.Sprintf("has joined %s", s.RoomName),
				Room:    s.RoomName,
			}, s.presencesExcept(uid))
		}
	}

	if !s.ReadyAnnounced && len(s.Members) == s.capacity() {
		s.ReadyAnnounced = true
		mh.send(dispatcher, logger, OpOnReady, onReadyEvent{State: true}, nil)
	}

	mh.updateLabel(s, dispatcher, logger)
	return s
}

// MatchLeave covers both abrupt disconnects and kicks after an explicit
// leave. The directory record gates the cleanup so a leave followed by a
// disconnect produces a single not-ready broadcast.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	s, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		uid := p.GetUserId()
		delete(s.Presences, uid)
		for i, m := range s.Members {
			if m == uid {
				s.Members = append(s.Members[:i], s.Members[i+1:]...)
				break
			}
		}

		rec, err := s.Directory.GetUserDetail(ctx, uid)
		if err != nil {
			logger.Error("MatchLeave: directory lookup failed for %s: %v", uid, err)
		}
		if rec != nil && rec.Room == s.RoomName {
			// The leaver is no longer reachable; notify the rest.
			mh.send(dispatcher, logger, OpOnReady, onReadyEvent{State: false}, s.presencesExcept(uid))
			if err := s.Directory.RemoveUserFromRoom(ctx, uid); err != nil {
				logger.Error("MatchLeave: directory remove failed for %s: %v", uid, err)
			}
		}

		s.ReadyAnnounced = false
		s.Round = nil
		s.CPUActAt = 0
	}

	if len(s.Members) == 0 {
		logger.Info("MatchLeave: room %s is empty, terminating", s.RoomName)
		return nil
	}

	mh.updateLabel(s, dispatcher, logger)
	return s
}

// MatchLoop processes in-room messages and drives the automated opponent.
func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	s, ok := state.(*MatchState)
	if !ok {
		return state
	}

	s.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpLetsPlay:
			mh.handleLetsPlay(s, dispatcher, logger, msg)
		case OpSendNumber:
			mh.handleSendNumber(ctx, s, dispatcher, logger, msg)
		case OpLeaveRoom:
			mh.handleLeaveRoom(ctx, s, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: unknown opcode received: %d", msg.GetOpCode())
		}
	}

	mh.processPendingCPUMove(s, dispatcher, logger)

	return s
}

func (mh *matchHandler) handleLetsPlay(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	// Starting a round supersedes any pending automated move.
	s.CPUActAt = 0

	round, events, err := s.App.StartRound(s.Members, s.StartValueMin, s.StartValueMax)
	if err != nil {
		mh.sendError(s, dispatcher, logger, msg.GetUserId(), err.Error())
		return
	}

	s.Round = round
	for _, ev := range events {
		mh.broadcastEvent(s, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleSendNumber(ctx context.Context, s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	var req sendNumberRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("handleSendNumber: invalid payload from %s: %v", msg.GetUserId(), err)
		mh.sendError(s, dispatcher, logger, msg.GetUserId(), "invalid payload")
		return
	}

	displayName := msg.GetUsername()
	rec, err := s.Directory.GetUserDetail(ctx, msg.GetUserId())
	if err != nil {
		logger.Error("handleSendNumber: directory lookup failed for %s: %v", msg.GetUserId(), err)
		mh.sendError(s, dispatcher, logger, msg.GetUserId(), "directory unavailable")
		return
	}
	if rec != nil && rec.DisplayName != "" {
		displayName = rec.DisplayName
	}

	mover := app.Mover{ID: msg.GetUserId(), DisplayName: displayName}
	events, result, err := s.App.SubmitNumber(s.Round, s.Members, s.cpuID(), mover, req.Number, req.SelectedNumber)
	if err != nil {
		mh.sendError(s, dispatcher, logger, msg.GetUserId(), err.Error())
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(s, dispatcher, logger, ev)
	}

	// A human move in a cpu room schedules exactly one automated reply,
	// unless the move already ended the round. The delay window is not
	// cancellable and never stacks.
	if s.CPU != nil && !domain.IsOver(result) && s.CPUActAt == 0 {
		s.CPUActAt = s.Tick + s.CPUDelayTicks
		s.CPUBaseValue = result
	}
}

// processPendingCPUMove resolves the automated opponent's delayed move once
// its tick is due. The round may have been cleared or finished inside the
// window; the pending move is then dropped.
func (mh *matchHandler) processPendingCPUMove(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if s.CPUActAt == 0 || s.Tick < s.CPUActAt {
		return
	}
	s.CPUActAt = 0

	if s.CPU == nil || s.Round == nil || s.Round.Phase != domain.PhasePlaying {
		return
	}
	if len(s.Members) == 0 {
		return
	}

	humanID := s.Members[0]
	delta := s.CPU.Play(s.CPUBaseValue)

	events, _, err := s.App.ResolveAutoMove(s.Round, humanID, s.CPU.Name, s.CPUBaseValue, delta)
	if err != nil {
		logger.Error("processPendingCPUMove: %v", err)
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(s, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleLeaveRoom(ctx context.Context, s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	uid := msg.GetUserId()

	rec, err := s.Directory.GetUserDetail(ctx, uid)
	if err != nil {
		logger.Error("handleLeaveRoom: directory lookup failed for %s: %v", uid, err)
		mh.sendError(s, dispatcher, logger, uid, "directory unavailable")
		return
	}

	if rec != nil && rec.Room == s.RoomName {
		mh.send(dispatcher, logger, OpOnReady, onReadyEvent{State: false}, nil)
		if err := s.Directory.RemoveUserFromRoom(ctx, uid); err != nil {
			logger.Error("handleLeaveRoom: directory remove failed for %s: %v", uid, err)
			mh.sendError(s, dispatcher, logger, uid, "directory unavailable")
		}
	}

	// Unsubscribe the connection; MatchLeave finds the directory already
	// cleared and skips a second not-ready broadcast.
	if p, ok := s.Presences[uid]; ok {
		if err := dispatcher.MatchKick([]runtime.Presence{p}); err != nil {
			logger.Error("handleLeaveRoom: kick failed for %s: %v", uid, err)
		}
	}
}

// broadcastEvent converts an app event to its wire payload and dispatches it.
func (mh *matchHandler) broadcastEvent(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64
	var payload any

	switch ev.Kind {
	case app.EventRandomNumber:
		opCode = OpRandomNumber
		p := ev.Payload.(app.RandomNumberPayload)
		wire := randomNumberEvent{Number: p.Number, IsFirst: p.IsFirst}
		if !p.IsFirst {
			selected := p.SelectedNumber
			correct := p.IsCorrectResult
			wire.User = p.User
			wire.SelectedNumber = &selected
			wire.IsCorrectResult = &correct
		}
		payload = wire
	case app.EventTurn:
		opCode = OpActivateTurn
		p := ev.Payload.(app.TurnPayload)
		payload = activateTurnEvent{User: p.User, State: string(p.State)}
	case app.EventGameOver:
		opCode = OpGameOver
		p := ev.Payload.(app.GameOverPayload)
		payload = gameOverEvent{User: p.User, IsOver: p.IsOver}
	default:
		logger.Warn("broadcastEvent: unknown event kind: %v", ev.Kind)
		return
	}

	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := s.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
		// Intended recipients that are not connected (the automated
		// opponent) must not widen into a room broadcast.
		if len(recipients) == 0 {
			return
		}
	}

	mh.send(dispatcher, logger, opCode, payload, recipients)
}

// sendError emits a non-fatal error event to a single connection.
func (mh *matchHandler) sendError(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID, message string) {
	p, ok := s.Presences[userID]
	if !ok {
		logger.Warn("sendError: presence not found for %s", userID)
		return
	}
	mh.send(dispatcher, logger, OpError, errorEvent{Message: message}, []runtime.Presence{p})
}

// send marshals and broadcasts a wire payload. nil presences means the whole
// room; an empty non-nil list means nobody and is skipped.
func (mh *matchHandler) send(dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, payload any, presences []runtime.Presence) {
	if presences != nil && len(presences) == 0 {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("send: failed to marshal payload for opcode %d: %v", opCode, err)
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, data, presences, nil, true); err != nil {
		logger.Error("send: broadcast failed for opcode %d: %v", opCode, err)
	}
}

func (mh *matchHandler) updateLabel(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	labelBytes, err := json.Marshal(matchLabel{
		Open: s.capacity() - len(s.Members),
		Game: GameName,
		Room: s.RoomName,
		Type: string(s.RoomType),
	})
	if err != nil {
		logger.Error("updateLabel: failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("updateLabel: failed to update: %v", err)
	}
}

// MatchTerminate runs on match shutdown.
func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: room match terminated")
	return state
}

// MatchSignal handles out-of-band signals; unused.
func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
