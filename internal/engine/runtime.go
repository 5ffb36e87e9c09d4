package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"voidreach-server/internal/domain"
	"voidreach-server/internal/engine/handlers"
	"voidreach-server/internal/systems"
	"voidreach-server/pkg/api"
)

// Runtime - исполнение одной сессии: прием пакетов, дедлайн хода,
// запуск конвейера и рассылка результатов. Вся мутация сессии идет
// через мьютекс рантайма.
type Runtime struct {
	mu      sync.Mutex
	session *domain.Session

	svc      *GameService
	pipeline *Pipeline

	// battleOrders - почтовые ящики живых приказов по фракциям.
	// Заполняются из сокетных горутин, вычитываются окном между раундами.
	battleOrders map[domain.FactionID]chan domain.MidBattleOrder

	// resolving блокирует подачу пакетов и лобби-операции на время обсчета.
	resolving bool

	deadline *time.Timer

	log *logrus.Entry
}

func newRuntime(svc *GameService, session *domain.Session) *Runtime {
	rt := &Runtime{
		session:      session,
		svc:          svc,
		battleOrders: make(map[domain.FactionID]chan domain.MidBattleOrder),
		log:          svc.log.WithField("session", session.ID),
	}
	rt.pipeline = NewPipeline(svc.registry, svc.minor, rt)
	return rt
}

// Session возвращает снимок указателя на сессию (для чтения вьюх).
func (rt *Runtime) Session() *domain.Session {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.session
}

// --- Лобби ---

func (rt *Runtime) Join(playerID domain.PlayerID, name string) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	s := rt.session
	if s.State != domain.SessionLobby {
		return errors.New("session is not accepting players")
	}
	if len(s.Slots) >= s.Settings.MaxPlayers {
		return errors.New("session is full")
	}
	if _, ok := s.Slots[playerID]; ok {
		return nil // Повторный вход в то же лобби
	}

	s.Slots[playerID] = &domain.PlayerSlot{
		PlayerID:  playerID,
		Name:      name,
		Connected: true,
	}
	rt.log.WithField("player", playerID).Info("Player joined lobby")
	return nil
}

func (rt *Runtime) SelectRace(playerID domain.PlayerID, race string) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.session.State != domain.SessionLobby {
		return errors.New("race can only be selected in the lobby")
	}
	slot, ok := rt.session.Slots[playerID]
	if !ok {
		return errors.New("player is not in this session")
	}
	slot.Race = race
	slot.Ready = false // Смена расы снимает готовность
	return nil
}

func (rt *Runtime) SetReady(playerID domain.PlayerID, ready bool) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.session.State != domain.SessionLobby {
		return errors.New("readiness can only change in the lobby")
	}
	slot, ok := rt.session.Slots[playerID]
	if !ok {
		return errors.New("player is not in this session")
	}
	if ready && slot.Race == "" {
		return errors.New("select a race before readying up")
	}
	slot.Ready = ready
	return nil
}

// Start переводит лобби в игру: Lobby -> Starting -> Running.
// Провал генерации откатывает сессию обратно в лобби.
func (rt *Runtime) Start() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	s := rt.session
	if !s.CanStart() {
		return errors.New("session cannot start: all slots must be ready with races selected")
	}
	if err := s.TransitionTo(domain.SessionStarting); err != nil {
		return err
	}

	if err := SetupGalaxy(s, rt.svc.generator); err != nil {
		rt.log.WithError(err).Error("Galaxy setup failed, returning to lobby")
		if terr := s.TransitionTo(domain.SessionLobby); terr != nil {
			return terr
		}
		return err
	}

	if err := s.TransitionTo(domain.SessionRunning); err != nil {
		return err
	}

	rt.armDeadlineLocked()
	rt.log.Infof("🚀 Session started: %d systems, %d factions", len(s.Systems), len(s.Factions))
	return nil
}

func (rt *Runtime) Pause() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if err := rt.session.TransitionTo(domain.SessionPaused); err != nil {
		return err
	}
	rt.stopDeadlineLocked()
	return nil
}

func (rt *Runtime) Resume() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if err := rt.session.TransitionTo(domain.SessionRunning); err != nil {
		return err
	}
	rt.armDeadlineLocked()
	return nil
}

func (rt *Runtime) Abandon() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if err := rt.session.TransitionTo(domain.SessionAbandoned); err != nil {
		return err
	}
	rt.stopDeadlineLocked()
	rt.svc.closeJournal(rt.session.ID)
	return nil
}

// Leave освобождает слот игрока. В лобби слот исчезает; в идущей партии
// слот передается автопилоту, чтобы не блокировать коммит хода. Когда
// уходит последний человек, сессия бросается.
func (rt *Runtime) Leave(playerID domain.PlayerID) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	s := rt.session
	slot, ok := s.Slots[playerID]
	if !ok {
		return errors.New("player is not in this session")
	}

	switch s.State {
	case domain.SessionLobby:
		delete(s.Slots, playerID)
	case domain.SessionRunning, domain.SessionPaused:
		slot.IsAI = true
		slot.Connected = false
		delete(s.PendingOrders, playerID)
	default:
		return errors.New("session cannot be left right now")
	}

	if len(s.HumanSlots()) == 0 {
		if err := s.TransitionTo(domain.SessionAbandoned); err != nil {
			return err
		}
		rt.stopDeadlineLocked()
		rt.svc.closeJournal(s.ID)
		rt.log.Info("Last player left, session abandoned")
		return nil
	}

	// Уход мог быть последним недостающим пакетом хода.
	if s.State == domain.SessionRunning && !rt.resolving && s.AllOrdersIn() {
		go rt.ResolveTurn()
	}
	rt.log.WithField("player", playerID).Info("Player left the session")
	return nil
}

// --- Прием пакетов ---

// SubmitOrders принимает пакет приказов игрока. Каждая команда проходит
// спекулятивную валидацию против текущего состояния: кривые отклоняются
// сразу с причиной, валидные принимаются. Повторная подача заменяет
// предыдущий пакет целиком.
func (rt *Runtime) SubmitOrders(playerID domain.PlayerID, payload api.SubmitOrdersPayload) (int, []api.RejectionView, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	s := rt.session
	if s.State != domain.SessionRunning {
		return 0, nil, errors.New("session is not running")
	}
	if rt.resolving {
		return 0, nil, errors.New("turn is being resolved, try again shortly")
	}

	faction := s.FactionOf(playerID)
	if faction == nil {
		return 0, nil, errors.New("player has no faction in this session")
	}

	view := systems.ComputeView(s, faction.ID)
	hctx := handlers.Context{
		Session:  s,
		Faction:  faction,
		PlayerID: playerID,
		View:     view,
	}

	batch := &domain.TurnOrders{
		PlayerID:    playerID,
		SubmittedAt: time.Now(),
	}
	var rejected []api.RejectionView

	for seq, entry := range payload.Commands {
		kind := domain.ParseCommandKind(entry.Kind)
		if kind == domain.CommandUnknown {
			rejected = append(rejected, api.RejectionView{Kind: entry.Kind, Reason: "Unknown command kind"})
			continue
		}
		handler := rt.svc.registry[kind]
		if handler.Validate != nil {
			if err := handler.Validate(hctx, entry.Payload); err != nil {
				verr := domain.AsValidation(kind, err)
				rejected = append(rejected, api.RejectionView{Kind: entry.Kind, Reason: verr.Reason})
				continue
			}
		}
		batch.Commands = append(batch.Commands, domain.Command{
			Kind:     kind,
			PlayerID: playerID,
			Seq:      seq,
			Payload:  entry.Payload,
		})
	}

	s.PendingOrders[playerID] = batch

	if s.AllOrdersIn() {
		go rt.ResolveTurn()
	}
	return len(batch.Commands), rejected, nil
}

// WithdrawOrders отзывает сданный пакет, пока ход не начал обсчитываться.
func (rt *Runtime) WithdrawOrders(playerID domain.PlayerID) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.resolving {
		return errors.New("turn is already being resolved")
	}
	if _, ok := rt.session.PendingOrders[playerID]; !ok {
		return errors.New("no orders submitted this turn")
	}
	delete(rt.session.PendingOrders, playerID)
	return nil
}

// --- Обсчет хода ---

// ResolveTurn запускает конвейер. Работает на глубокой копии; исходная
// сессия подменяется только успешным результатом, поэтому упавший ход
// можно обсчитать повторно без побочных эффектов.
func (rt *Runtime) ResolveTurn() {
	rt.mu.Lock()
	if rt.resolving || rt.session.State != domain.SessionRunning {
		rt.mu.Unlock()
		return
	}
	rt.resolving = true
	rt.stopDeadlineLocked()
	rt.openBattleMailboxesLocked()
	current := rt.session
	rt.mu.Unlock()

	next, result, err := rt.pipeline.ResolveTurn(current)

	rt.mu.Lock()
	rt.resolving = false
	if err != nil {
		rt.mu.Unlock()
		rt.log.WithError(err).Error("Turn resolution failed, state not committed")
		rt.svc.broadcastError(current, "Turn could not be resolved, please resubmit orders")
		return
	}

	rt.session = next
	rt.svc.journalTurn(next, current.PendingOrders)
	if next.State == domain.SessionRunning {
		rt.armDeadlineLocked()
	} else if next.State == domain.SessionFinished {
		rt.svc.closeJournal(next.ID)
	}
	rt.mu.Unlock()

	rt.svc.broadcastTurnResult(next, result)
}

// --- Дедлайн хода (TimeModeTimed) ---

func (rt *Runtime) armDeadlineLocked() {
	if rt.session.Settings.TimeMode != domain.TimeModeTimed {
		return
	}
	rt.stopDeadlineLocked()
	rt.deadline = time.AfterFunc(rt.session.Settings.TurnDeadline, rt.onDeadline)
}

func (rt *Runtime) stopDeadlineLocked() {
	if rt.deadline != nil {
		rt.deadline.Stop()
		rt.deadline = nil
	}
}

// onDeadline досдает пустые пакеты за опоздавших и запускает обсчет.
func (rt *Runtime) onDeadline() {
	rt.mu.Lock()
	s := rt.session
	if s.State != domain.SessionRunning || rt.resolving {
		rt.mu.Unlock()
		return
	}
	for id, slot := range s.Slots {
		if slot.IsAI {
			continue
		}
		if _, ok := s.PendingOrders[id]; !ok {
			s.PendingOrders[id] = &domain.TurnOrders{PlayerID: id, SubmittedAt: time.Now()}
		}
	}
	rt.mu.Unlock()

	rt.log.Info("⏰ Turn deadline reached, resolving with submitted orders")
	rt.ResolveTurn()
}

// --- Живые приказы в бою ---

func (rt *Runtime) openBattleMailboxesLocked() {
	rt.battleOrders = make(map[domain.FactionID]chan domain.MidBattleOrder)
	for id := range rt.session.Factions {
		rt.battleOrders[id] = make(chan domain.MidBattleOrder, 1)
	}
}

// SubmitBattleOrder принимает живой приказ от игрока во время обсчета.
// Приказ падает в ящик фракции и будет вычитан окном между раундами.
func (rt *Runtime) SubmitBattleOrder(playerID domain.PlayerID, p api.BattleOrderPayload) error {
	rt.mu.Lock()
	s := rt.session
	if !rt.resolving {
		rt.mu.Unlock()
		return errors.New("no battle is awaiting orders")
	}
	faction := s.FactionOf(playerID)
	if faction == nil {
		rt.mu.Unlock()
		return errors.New("player has no faction in this session")
	}
	box, ok := rt.battleOrders[faction.ID]
	rt.mu.Unlock()
	if !ok {
		return errors.New("no battle is awaiting orders")
	}

	order, err := parseBattleOrder(p)
	if err != nil {
		return err
	}

	select {
	case box <- *order:
		return nil
	default:
		return errors.New("an order is already pending for this battle")
	}
}

func parseBattleOrder(p api.BattleOrderPayload) (*domain.MidBattleOrder, error) {
	kind, ok := domain.ParseMidBattleOrderKind(p.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown battle order %q", p.Kind)
	}

	order := &domain.MidBattleOrder{Kind: kind}

	switch kind {
	case domain.OrderChangeFormation:
		formation, ok := domain.ParseFormation(p.Formation)
		if !ok {
			return nil, fmt.Errorf("unknown formation %q", p.Formation)
		}
		order.Formation = formation
	case domain.OrderChangeTargeting, domain.OrderFocusFire:
		for _, t := range p.Targeting {
			priority, ok := domain.ParseTargetPriority(t)
			if !ok {
				return nil, fmt.Errorf("unknown target priority %q", t)
			}
			order.Targeting = append(order.Targeting, priority)
		}
		if len(order.Targeting) == 0 {
			return nil, errors.New("targeting list is empty")
		}
	}
	return order, nil
}

// LinkFor реализует BattleLinkProvider: на каждый бой рантайм выдает линк,
// который шлет подключенным игрокам стороны BATTLE_PROMPT и ждет ответ
// в пределах окна.
func (rt *Runtime) LinkFor(sys *domain.System, attacker, defender *domain.Fleet) systems.CommanderLink {
	return &battleLink{
		rt:       rt,
		systemID: sys.ID,
		fleets:   [2]*domain.Fleet{attacker, defender},
	}
}

type battleLink struct {
	rt       *Runtime
	systemID domain.SystemID
	fleets   [2]*domain.Fleet
}

// sideAudience возвращает подключенных игроков фракции стороны.
func (l *battleLink) sideAudience(side systems.Side) (domain.FactionID, []domain.PlayerID) {
	factionID := l.fleets[side].OwnerID

	var players []domain.PlayerID
	l.rt.mu.Lock()
	for id, slot := range l.rt.session.Slots {
		if slot.FactionID == factionID && !slot.IsAI && l.rt.svc.Hub.HasSubscriber(id) {
			players = append(players, id)
		}
	}
	l.rt.mu.Unlock()
	return factionID, players
}

func (l *battleLink) NextOrder(side systems.Side, snap systems.RoundSnapshot) *domain.MidBattleOrder {
	factionID, players := l.sideAudience(side)
	if len(players) == 0 {
		return nil // Некому приказывать: бой идет на доктринах
	}

	prompt := api.ServerMessage{
		Type: "BATTLE_PROMPT",
		Battle: &api.BattlePromptView{
			SystemID:         l.systemID.String(),
			FleetID:          string(l.fleets[side].ID),
			Round:            snap.Round,
			OwnLossPercent:   snap.OwnLossPercent,
			EnemyLossPercent: snap.EnemyLossPercent,
			Disorder:         snap.Disorder,
		},
	}
	for _, id := range players {
		l.rt.svc.Hub.SendTo(id, prompt)
	}

	l.rt.mu.Lock()
	box := l.rt.battleOrders[factionID]
	l.rt.mu.Unlock()
	if box == nil {
		return nil
	}

	select {
	case order := <-box:
		return &order
	case <-time.After(l.rt.svc.cfg.BattleOrderWindow):
		return nil
	}
}

func (l *battleLink) OrderResult(side systems.Side, receipt systems.OrderReceipt) {
	_, players := l.sideAudience(side)

	msg := api.ServerMessage{Type: "INFO"}
	switch {
	case receipt.Ignored:
		msg.Info = "Order ignored: the fleet is in complete disarray"
	case receipt.Applied:
		msg.Info = fmt.Sprintf("Order acknowledged (+%d disorder, now %d)", receipt.DisorderAdded, receipt.Disorder)
	}
	for _, id := range players {
		l.rt.svc.Hub.SendTo(id, msg)
	}
}
