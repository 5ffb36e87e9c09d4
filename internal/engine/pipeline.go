package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"

	"voidreach-server/internal/domain"
	"voidreach-server/internal/engine/handlers"
	"voidreach-server/internal/systems"
	"voidreach-server/pkg/logger"
	"voidreach-server/pkg/utils"
)

// BattleLinkProvider выдает канал живых приказов для конкретного боя.
// Оркестратор (Runtime) подставляет сюда линк к подключенным игрокам;
// в оффлайн-обсчетах используется NoLinks.
type BattleLinkProvider interface {
	LinkFor(sys *domain.System, attacker, defender *domain.Fleet) systems.CommanderLink
}

// NoLinks - провайдер без живых приказов (боты, тесты, пропуск ходов).
type NoLinks struct{}

func (NoLinks) LinkFor(*domain.System, *domain.Fleet, *domain.Fleet) systems.CommanderLink {
	return systems.NoIntervention{}
}

// Pipeline - конвейер обсчета хода. Фазы идут в жестком порядке:
// движение -> бой -> производство -> исследования -> экономика ->
// события -> проверка победы. Команды игроков исполняются внутри
// "своих" фаз по корзинам, поэтому глобальный порядок корзин неубывающий.
type Pipeline struct {
	registry map[domain.CommandKind]handlers.Handler
	minor    MinorFactionEngine
	links    BattleLinkProvider

	log *logrus.Entry
}

func NewPipeline(registry map[domain.CommandKind]handlers.Handler, minor MinorFactionEngine, links BattleLinkProvider) *Pipeline {
	if minor == nil {
		minor = DefaultMinorFactions{}
	}
	if links == nil {
		links = NoLinks{}
	}
	return &Pipeline{
		registry: registry,
		minor:    minor,
		links:    links,
		log:      logger.WithComponent("pipeline"),
	}
}

// turnContext - рабочее состояние одного обсчета.
type turnContext struct {
	s      *domain.Session
	rng    *rand.Rand
	queue  *OrderQueue
	result *domain.TurnResult
}

// ResolveTurn обсчитывает ход на глубокой копии сессии.
//
// Возвращает копию с примененным ходом и его результат. Исходная сессия
// не трогается: при FatalError вызывающий просто продолжает жить со старым
// состоянием, и повторный вызов с теми же пакетами дает тот же результат
// (вся случайность выводится из зерна сессии и номера хода).
func (p *Pipeline) ResolveTurn(s *domain.Session) (next *domain.Session, result *domain.TurnResult, err error) {
	clone := s.Clone()
	turn := clone.Turn + 1

	ctx := &turnContext{
		s:      clone,
		rng:    utils.NewRand(utils.SubSeed(clone.Seed, fmt.Sprintf("turn-%d", turn))),
		queue:  BuildOrderQueue(clone.PendingOrders),
		result: &domain.TurnResult{Turn: turn},
	}

	phases := []struct {
		name string
		run  func(*turnContext) error
	}{
		{"movement", p.phaseMovement},
		{"combat", p.phaseCombat},
		{"production", p.phaseProduction},
		{"research", p.phaseResearch},
		{"economy", p.phaseEconomy},
		{"events", p.phaseEvents},
		{"victory", p.phaseVictory},
	}

	for _, phase := range phases {
		if err := p.runPhase(phase.name, phase.run, ctx); err != nil {
			return nil, nil, err
		}
	}

	clone.Turn = turn
	clone.History = append(clone.History, ctx.result)
	clone.PendingOrders = make(map[domain.PlayerID]*domain.TurnOrders)

	p.log.WithFields(logrus.Fields{
		"session": clone.ID,
		"turn":    turn,
	}).Info("Turn resolved")

	return clone, ctx.result, nil
}

// runPhase исполняет фазу, конвертируя панику в FatalError.
func (p *Pipeline) runPhase(name string, run func(*turnContext) error, ctx *turnContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.log.WithField("phase", name).Errorf("phase panicked: %v", r)
			err = &domain.FatalError{Phase: name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if err := run(ctx); err != nil {
		return &domain.FatalError{Phase: name, Err: err}
	}
	return nil
}

// runBucket исполняет все команды корзины. Отказы валидации и исполнения
// НЕ фатальны: команда отклоняется с причиной, остальные живут.
func (p *Pipeline) runBucket(ctx *turnContext, bucket domain.PriorityBucket) {
	for _, cmd := range ctx.queue.PopBucket(bucket) {
		p.runCommand(ctx, cmd)
	}
}

func (p *Pipeline) runCommand(ctx *turnContext, cmd domain.Command) {
	reject := func(err error) {
		verr := domain.AsValidation(cmd.Kind, err)
		ctx.result.Rejected = append(ctx.result.Rejected, domain.RejectedCommand{
			PlayerID: cmd.PlayerID,
			Kind:     verr.Kind,
			Reason:   verr.Reason,
		})
	}

	handler, ok := p.registry[cmd.Kind]
	if !ok {
		reject(errors.New("Unknown command"))
		return
	}
	faction := ctx.s.FactionOf(cmd.PlayerID)
	if faction == nil {
		reject(errors.New("Player has no faction"))
		return
	}

	hctx := handlers.Context{
		Session:  ctx.s,
		Faction:  faction,
		PlayerID: cmd.PlayerID,
		View:     systems.ComputeView(ctx.s, faction.ID),
		Rand:     ctx.rng,
	}

	// Повторная валидация перед исполнением: состояние могло измениться
	// с момента спекулятивной проверки при подаче пакета.
	if handler.Validate != nil {
		if err := handler.Validate(hctx, cmd.Payload); err != nil {
			reject(err)
			return
		}
	}

	res, err := handler.Execute(hctx, cmd.Payload)
	if err != nil {
		reject(err)
		return
	}

	if res.Msg != "" {
		kind := res.MsgType
		if kind == "" {
			kind = "INFO"
		}
		ctx.result.Notifications = append(ctx.result.Notifications, domain.Notification{
			Audience: faction.ID,
			Text:     res.Msg,
			Kind:     kind,
		})
	}
	if res.Broadcast != "" {
		ctx.result.Notifications = append(ctx.result.Notifications, domain.Notification{
			Text: res.Broadcast,
			Kind: "EVENT",
		})
	}
}

// --- ФАЗА ДВИЖЕНИЯ ---

func (p *Pipeline) phaseMovement(ctx *turnContext) error {
	p.runBucket(ctx, domain.BucketFleet)

	for _, fleet := range sortedFleets(ctx.s) {
		res := systems.AdvanceFleet(fleet)
		if !res.Moved {
			continue
		}
		ctx.result.Movements = append(ctx.result.Movements, domain.MovementRecord{
			FleetID:  fleet.ID,
			OwnerID:  fleet.OwnerID,
			FromID:   res.FromID,
			ToID:     res.ToID,
			Progress: res.Progress,
			Arrived:  res.Arrived,
		})
	}
	return nil
}

// --- ФАЗА БОЯ ---

func (p *Pipeline) phaseCombat(ctx *turnContext) error {
	for _, sys := range sortedSystems(ctx.s) {
		p.resolveSystemCombat(ctx, sys)
	}
	return nil
}

// resolveSystemCombat сталкивает враждебные флоты, оказавшиеся в одной
// системе. Атакующим считается прибывший позже (по порядку id при
// одновременном прибытии). Бои идут попарно; одна и та же пара не
// сталкивается дважды за фазу, а успешно отступивший флот выходит из
// боев до конца хода.
func (p *Pipeline) resolveSystemCombat(ctx *turnContext, sys *domain.System) {
	disengaged := make(map[domain.FleetID]bool)
	fought := make(map[[2]domain.FleetID]bool)

	for {
		attacker, defender := p.findHostilePair(ctx.s, sys, disengaged, fought)
		if attacker == nil {
			return
		}
		fought[pairKey(attacker.ID, defender.ID)] = true

		link := p.links.LinkFor(sys, attacker, defender)
		record := systems.NewEncounter(sys, attacker, defender, ctx.rng, link).Resolve()
		ctx.result.Combats = append(ctx.result.Combats, *record)

		switch record.Outcome {
		case domain.OutcomeAttackerRetreat:
			disengaged[attacker.ID] = true
		case domain.OutcomeDefenderRetreat:
			disengaged[defender.ID] = true
		}

		p.cleanupFleet(ctx, attacker)
		p.cleanupFleet(ctx, defender)
	}
}

func pairKey(a, b domain.FleetID) [2]domain.FleetID {
	if b < a {
		a, b = b, a
	}
	return [2]domain.FleetID{a, b}
}

// findHostilePair возвращает первую враждебную пару флотов в системе
// (детерминированно по id), пропуская отступившие флоты и уже
// отыгранные пары. Защитником считается флот владельца системы,
// если он в паре.
func (p *Pipeline) findHostilePair(s *domain.Session, sys *domain.System, disengaged map[domain.FleetID]bool, fought map[[2]domain.FleetID]bool) (*domain.Fleet, *domain.Fleet) {
	fleets := s.FleetsIn(sys.ID)
	sort.Slice(fleets, func(i, j int) bool { return fleets[i].ID < fleets[j].ID })

	for i := 0; i < len(fleets); i++ {
		for j := i + 1; j < len(fleets); j++ {
			a, b := fleets[i], fleets[j]
			if disengaged[a.ID] || disengaged[b.ID] {
				continue
			}
			if fought[pairKey(a.ID, b.ID)] {
				continue
			}
			if !p.hostile(s, a, b) {
				continue
			}
			// Флот фракции-владельца системы обороняется.
			if sys.OwnerID != "" && b.OwnerID == sys.OwnerID {
				return a, b
			}
			return b, a
		}
	}
	return nil, nil
}

// hostile: война между владельцами, либо агрессивная стойка хотя бы одной
// из сторон при ненейтральном пересечении.
func (p *Pipeline) hostile(s *domain.Session, a, b *domain.Fleet) bool {
	if a.OwnerID == b.OwnerID {
		return false
	}
	fa, fb := s.Factions[a.OwnerID], s.Factions[b.OwnerID]
	if fa == nil || fb == nil {
		return false
	}
	if fa.RelationTo(fb.ID) == domain.RelationWar {
		return true
	}
	return a.Stance == domain.StanceAggressive || b.Stance == domain.StanceAggressive
}

func (p *Pipeline) cleanupFleet(ctx *turnContext, fleet *domain.Fleet) {
	if len(fleet.AliveShips()) > 0 {
		return
	}
	ctx.s.RemoveFleet(fleet.ID)
	ctx.result.Notifications = append(ctx.result.Notifications, domain.Notification{
		Audience: fleet.OwnerID,
		Text:     fmt.Sprintf("Fleet %s was destroyed in battle", fleet.Name),
		Kind:     "COMBAT",
	})
}

// --- Детерминированные обходы арен ---

func sortedFleets(s *domain.Session) []*domain.Fleet {
	fleets := make([]*domain.Fleet, 0, len(s.Fleets))
	for _, f := range s.Fleets {
		fleets = append(fleets, f)
	}
	sort.Slice(fleets, func(i, j int) bool { return fleets[i].ID < fleets[j].ID })
	return fleets
}

func sortedSystems(s *domain.Session) []*domain.System {
	list := make([]*domain.System, 0, len(s.Systems))
	for _, sys := range s.Systems {
		list = append(list, sys)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func sortedColonies(s *domain.Session) []*domain.Colony {
	list := make([]*domain.Colony, 0, len(s.Colonies))
	for _, c := range s.Colonies {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func sortedFactions(s *domain.Session) []*domain.Faction {
	list := make([]*domain.Faction, 0, len(s.Factions))
	for _, f := range s.Factions {
		list = append(list, f)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}
