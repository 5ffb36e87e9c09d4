package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"voidreach-server/internal/domain"
	"voidreach-server/internal/engine/handlers"
	"voidreach-server/internal/engine/handlers/admin"
	"voidreach-server/internal/engine/handlers/commands"
	"voidreach-server/internal/infrastructure/storage"
	"voidreach-server/internal/network"
	"voidreach-server/pkg/api"
	"voidreach-server/pkg/galaxy"
	"voidreach-server/pkg/logger"
	"voidreach-server/pkg/utils"
)

// GameService - верхний уровень движка: реестр сессий, маршрутизация
// клиентских действий и рассылка через Hub. Одна сессия = один Runtime.
type GameService struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*Runtime
	byCode   map[string]domain.SessionID

	// members: игрок -> его сессия (игрок может быть только в одной).
	members map[domain.PlayerID]domain.SessionID

	Hub *network.Broadcaster

	registry  map[domain.CommandKind]handlers.Handler
	cheats    map[string]admin.CheatFunc
	generator galaxy.Generator
	minor     MinorFactionEngine

	journals  *storage.JournalService
	journalMu sync.Mutex
	open      map[domain.SessionID]*storage.Journal

	cfg Config
	log *logrus.Entry
}

func NewService(cfg Config) *GameService {
	if cfg.BattleOrderWindow <= 0 {
		cfg.BattleOrderWindow = NewConfig().BattleOrderWindow
	}
	var journals *storage.JournalService
	if cfg.JournalDir != "" {
		journals = storage.NewJournalService(cfg.JournalDir)
	}
	return &GameService{
		sessions:  make(map[domain.SessionID]*Runtime),
		byCode:    make(map[string]domain.SessionID),
		members:   make(map[domain.PlayerID]domain.SessionID),
		Hub:       network.NewBroadcaster(),
		registry:  commands.Registry(),
		cheats:    admin.Registry(),
		generator: galaxy.DefaultGenerator{},
		minor:     DefaultMinorFactions{},
		journals:  journals,
		open:      make(map[domain.SessionID]*storage.Journal),
		cfg:       cfg,
		log:       logger.WithComponent("service"),
	}
}

// SetGenerator подменяет генератор галактики (тесты, сценарные карты).
func (s *GameService) SetGenerator(gen galaxy.Generator) { s.generator = gen }

// SetMinorFactions подменяет движок малых фракций.
func (s *GameService) SetMinorFactions(m MinorFactionEngine) { s.minor = m }

// --- Маршрутизация клиентских действий ---

// ProcessCommand принимает команду от внешнего мира (WebSocket).
// Ответ уходит отправителю через Hub.
func (s *GameService) ProcessCommand(playerID domain.PlayerID, cmd api.ClientCommand) {
	msg, err := s.dispatch(playerID, cmd)
	if err != nil {
		s.Hub.SendTo(playerID, api.ServerMessage{Type: "ERROR", Error: err.Error()})
		return
	}
	if msg != nil {
		s.Hub.SendTo(playerID, *msg)
	}
}

func (s *GameService) dispatch(playerID domain.PlayerID, cmd api.ClientCommand) (*api.ServerMessage, error) {
	switch cmd.Action {
	case "CREATE_SESSION":
		return s.handleCreate(playerID, cmd.Payload)
	case "JOIN_SESSION":
		return s.handleJoin(playerID, cmd.Payload)
	case "SELECT_RACE":
		return s.handleSelectRace(playerID, cmd.Payload)
	case "READY":
		return s.handleReady(playerID, cmd.Payload)
	case "START_SESSION":
		return s.handleStart(playerID)
	case "SUBMIT_ORDERS":
		return s.handleSubmitOrders(playerID, cmd.Payload)
	case "WITHDRAW_ORDERS":
		return s.handleWithdrawOrders(playerID)
	case "BATTLE_ORDER":
		return s.handleBattleOrder(playerID, cmd.Payload)
	case "PAUSE_SESSION":
		return s.handlePause(playerID, true)
	case "RESUME_SESSION":
		return s.handlePause(playerID, false)
	case "LEAVE_SESSION":
		return s.handleLeave(playerID)
	case "ABANDON_SESSION":
		return s.handleAbandon(playerID)
	case "SESSION_STATE":
		return s.handleState(playerID)
	}
	return nil, fmt.Errorf("unknown action %q", cmd.Action)
}

// InSession сообщает, состоит ли игрок в какой-либо сессии.
// Используется хендшейком: вернувшемуся игроку сразу уходит снимок сессии.
func (s *GameService) InSession(playerID domain.PlayerID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.members[playerID]
	return ok
}

// SetConnected помечает игрока онлайн/оффлайн в его слоте.
// Отключение не выкидывает из партии: слот ждет переподключения.
func (s *GameService) SetConnected(playerID domain.PlayerID, connected bool) {
	rt, err := s.runtimeOf(playerID)
	if err != nil {
		return
	}
	rt.mu.Lock()
	if slot, ok := rt.session.Slots[playerID]; ok {
		slot.Connected = connected
	}
	rt.mu.Unlock()
}

func (s *GameService) runtimeOf(playerID domain.PlayerID) (*Runtime, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sessionID, ok := s.members[playerID]
	if !ok {
		return nil, errors.New("player is not in a session")
	}
	rt, ok := s.sessions[sessionID]
	if !ok {
		return nil, errors.New("session no longer exists")
	}
	return rt, nil
}

// --- Лобби ---

func (s *GameService) handleCreate(playerID domain.PlayerID, raw json.RawMessage) (*api.ServerMessage, error) {
	var p api.CreateSessionPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	if err := api.ValidateStruct(p); err != nil {
		return nil, err
	}

	settings := domain.DefaultSettings()
	if p.GalaxySize > 0 {
		settings.GalaxySize = p.GalaxySize
	}
	if p.MinPlayers > 0 {
		settings.MinPlayers = p.MinPlayers
	}
	if p.MaxPlayers > 0 {
		settings.MaxPlayers = p.MaxPlayers
	}

	seed := s.cfg.Seed
	if seed == 0 {
		seed = utils.NewSeed()
	}

	s.mu.Lock()
	if old, ok := s.members[playerID]; ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("already in session %s, leave it first", old)
	}

	// Код вступления выводится из зерна: один и тот же сид дает один код.
	joinCode := utils.NewJoinCode(utils.NewRand(utils.SubSeed(seed, "join-code")))
	for {
		if _, taken := s.byCode[joinCode]; !taken {
			break
		}
		joinCode = utils.NewJoinCode(utils.NewRand(utils.NewSeed()))
	}

	session := domain.NewSession(joinCode, seed, settings)
	rt := newRuntime(s, session)
	s.sessions[session.ID] = rt
	s.byCode[joinCode] = session.ID
	s.mu.Unlock()

	if err := rt.Join(playerID, p.Name); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.members[playerID] = session.ID
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"session":   session.ID,
		"join_code": joinCode,
	}).Info("🪐 Session created")

	return s.lobbyMessage(rt), nil
}

func (s *GameService) handleJoin(playerID domain.PlayerID, raw json.RawMessage) (*api.ServerMessage, error) {
	var p api.JoinSessionPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	if err := api.ValidateStruct(p); err != nil {
		return nil, err
	}

	s.mu.RLock()
	sessionID, ok := s.byCode[p.JoinCode]
	rt := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok || rt == nil {
		return nil, errors.New("no session with this join code")
	}

	if err := rt.Join(playerID, p.Name); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.members[playerID] = sessionID
	s.mu.Unlock()

	s.broadcastLobby(rt)
	return nil, nil
}

func (s *GameService) handleSelectRace(playerID domain.PlayerID, raw json.RawMessage) (*api.ServerMessage, error) {
	var p api.SelectRacePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	if _, ok := galaxy.RaceByName(p.Race); !ok {
		return nil, fmt.Errorf("unknown race %q", p.Race)
	}

	rt, err := s.runtimeOf(playerID)
	if err != nil {
		return nil, err
	}
	if err := rt.SelectRace(playerID, p.Race); err != nil {
		return nil, err
	}
	s.broadcastLobby(rt)
	return nil, nil
}

func (s *GameService) handleReady(playerID domain.PlayerID, raw json.RawMessage) (*api.ServerMessage, error) {
	var p api.ReadyPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}

	rt, err := s.runtimeOf(playerID)
	if err != nil {
		return nil, err
	}
	if err := rt.SetReady(playerID, p.Ready); err != nil {
		return nil, err
	}
	s.broadcastLobby(rt)
	return nil, nil
}

func (s *GameService) handleStart(playerID domain.PlayerID) (*api.ServerMessage, error) {
	rt, err := s.runtimeOf(playerID)
	if err != nil {
		return nil, err
	}
	if err := rt.Start(); err != nil {
		return nil, err
	}

	// Каждому игроку уходит его персональный срез галактики.
	session := rt.Session()
	for id := range session.Slots {
		s.Hub.SendTo(id, api.ServerMessage{
			Type:    "LOBBY",
			Session: BuildSessionView(session),
			Galaxy:  BuildGalaxyView(session, session.Slots[id].FactionID),
		})
	}
	return nil, nil
}

func (s *GameService) handlePause(playerID domain.PlayerID, pause bool) (*api.ServerMessage, error) {
	rt, err := s.runtimeOf(playerID)
	if err != nil {
		return nil, err
	}
	if pause {
		err = rt.Pause()
	} else {
		err = rt.Resume()
	}
	if err != nil {
		return nil, err
	}
	s.broadcastLobby(rt)
	return nil, nil
}

func (s *GameService) handleLeave(playerID domain.PlayerID) (*api.ServerMessage, error) {
	rt, err := s.runtimeOf(playerID)
	if err != nil {
		return nil, err
	}
	if err := rt.Leave(playerID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.members, playerID)
	s.mu.Unlock()

	s.broadcastLobby(rt)
	return &api.ServerMessage{Type: "INFO", Info: "You left the session"}, nil
}

func (s *GameService) handleAbandon(playerID domain.PlayerID) (*api.ServerMessage, error) {
	rt, err := s.runtimeOf(playerID)
	if err != nil {
		return nil, err
	}
	if err := rt.Abandon(); err != nil {
		return nil, err
	}
	s.broadcastLobby(rt)
	return nil, nil
}

func (s *GameService) handleState(playerID domain.PlayerID) (*api.ServerMessage, error) {
	rt, err := s.runtimeOf(playerID)
	if err != nil {
		return nil, err
	}
	session := rt.Session()
	slot := session.Slots[playerID]
	msg := &api.ServerMessage{
		Type:    "LOBBY",
		Session: BuildSessionView(session),
	}
	if slot != nil && slot.FactionID != "" {
		msg.Galaxy = BuildGalaxyView(session, slot.FactionID)
	}
	return msg, nil
}

// --- Приказы ---

func (s *GameService) handleSubmitOrders(playerID domain.PlayerID, raw json.RawMessage) (*api.ServerMessage, error) {
	var p api.SubmitOrdersPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	if err := api.ValidateStruct(p); err != nil {
		return nil, err
	}

	rt, err := s.runtimeOf(playerID)
	if err != nil {
		return nil, err
	}
	accepted, rejected, err := rt.SubmitOrders(playerID, p)
	if err != nil {
		return nil, err
	}
	return &api.ServerMessage{
		Type:     "ORDERS_ACK",
		Accepted: accepted,
		Rejected: rejected,
	}, nil
}

func (s *GameService) handleWithdrawOrders(playerID domain.PlayerID) (*api.ServerMessage, error) {
	rt, err := s.runtimeOf(playerID)
	if err != nil {
		return nil, err
	}
	if err := rt.WithdrawOrders(playerID); err != nil {
		return nil, err
	}
	return &api.ServerMessage{Type: "INFO", Info: "Orders withdrawn"}, nil
}

func (s *GameService) handleBattleOrder(playerID domain.PlayerID, raw json.RawMessage) (*api.ServerMessage, error) {
	var p api.BattleOrderPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	if err := api.ValidateStruct(p); err != nil {
		return nil, err
	}

	rt, err := s.runtimeOf(playerID)
	if err != nil {
		return nil, err
	}
	return nil, rt.SubmitBattleOrder(playerID, p)
}

// --- Админка ---

// ProcessAdminCommand применяет операторскую команду к сессии по коду.
// Вызывается только из административной поверхности (debug HTTP).
func (s *GameService) ProcessAdminCommand(joinCode, action string, payload json.RawMessage) (string, error) {
	s.mu.RLock()
	sessionID, ok := s.byCode[joinCode]
	rt := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok || rt == nil {
		return "", errors.New("no session with this join code")
	}

	if action == "ADMIN_SKIP_TURNS" {
		return s.adminSkipTurns(rt, payload)
	}

	cheat, ok := s.cheats[action]
	if !ok {
		return "", fmt.Errorf("unknown admin action %q", action)
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.resolving {
		return "", errors.New("turn is being resolved")
	}
	rng := utils.NewRand(utils.SubSeed(rt.session.Seed, fmt.Sprintf("admin-%d", rt.session.Turn)))
	return cheat(rt.session, payload, rng)
}

// adminSkipTurns досдает пустые пакеты и гонит обсчет N раз.
func (s *GameService) adminSkipTurns(rt *Runtime, raw json.RawMessage) (string, error) {
	var p api.AdminSkipTurnsPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return "", fmt.Errorf("unmarshal payload: %w", err)
	}
	if err := api.ValidateStruct(p); err != nil {
		return "", err
	}

	for i := 0; i < p.Turns; i++ {
		rt.mu.Lock()
		if rt.session.State != domain.SessionRunning {
			rt.mu.Unlock()
			return fmt.Sprintf("stopped after %d turns (session %s)", i, rt.session.State), nil
		}
		for id, slot := range rt.session.Slots {
			if slot.IsAI {
				continue
			}
			if _, ok := rt.session.PendingOrders[id]; !ok {
				rt.session.PendingOrders[id] = &domain.TurnOrders{PlayerID: id}
			}
		}
		rt.mu.Unlock()
		rt.ResolveTurn()
	}
	return fmt.Sprintf("skipped %d turns, session now at turn %d", p.Turns, rt.Session().Turn), nil
}

// --- Снапшоты для отладочной поверхности ---

// SessionSummary - сводка по сессии для /debug/sessions.
type SessionSummary struct {
	ID       string `json:"id"`
	JoinCode string `json:"join_code"`
	State    string `json:"state"`
	Turn     int    `json:"turn"`
	Players  int    `json:"players"`
	Systems  int    `json:"systems"`
	Fleets   int    `json:"fleets"`
}

// Summaries возвращает сводки всех сессий.
func (s *GameService) Summaries() []SessionSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]SessionSummary, 0, len(s.sessions))
	for _, rt := range s.sessions {
		session := rt.Session()
		result = append(result, SessionSummary{
			ID:       session.ID.String(),
			JoinCode: session.JoinCode,
			State:    session.State.String(),
			Turn:     session.Turn,
			Players:  len(session.Slots),
			Systems:  len(session.Systems),
			Fleets:   len(session.Fleets),
		})
	}
	return result
}

// SessionByCode возвращает сессию по коду вступления (для отладки).
func (s *GameService) SessionByCode(joinCode string) *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.byCode[joinCode]; ok {
		if rt, ok := s.sessions[id]; ok {
			return rt.Session()
		}
	}
	return nil
}

// --- Рассылка ---

func (s *GameService) lobbyMessage(rt *Runtime) *api.ServerMessage {
	return &api.ServerMessage{
		Type:    "LOBBY",
		Session: BuildSessionView(rt.Session()),
	}
}

func (s *GameService) broadcastLobby(rt *Runtime) {
	session := rt.Session()
	msg := api.ServerMessage{
		Type:    "LOBBY",
		Session: BuildSessionView(session),
	}
	for id := range session.Slots {
		s.Hub.SendTo(id, msg)
	}
}

// broadcastTurnResult рассылает каждому игроку его персональный срез
// результата и галактики (туман войны).
func (s *GameService) broadcastTurnResult(session *domain.Session, result *domain.TurnResult) {
	for id, slot := range session.Slots {
		if slot.IsAI || slot.FactionID == "" {
			continue
		}
		s.Hub.SendTo(id, api.ServerMessage{
			Type:   "TURN_RESULT",
			Result: BuildTurnResultView(session, slot.FactionID, result),
			Galaxy: BuildGalaxyView(session, slot.FactionID),
		})
	}
}

func (s *GameService) broadcastError(session *domain.Session, text string) {
	for id, slot := range session.Slots {
		if slot.IsAI {
			continue
		}
		s.Hub.SendTo(id, api.ServerMessage{Type: "ERROR", Error: text})
	}
}
