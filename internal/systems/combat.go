package systems

import (
	"math/rand"

	"voidreach-server/internal/domain"
	"voidreach-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Side - сторона боя.
type Side uint8

const (
	SideAttacker Side = iota
	SideDefender
)

func (s Side) String() string {
	if s == SideDefender {
		return "DEFENDER"
	}
	return "ATTACKER"
}

// RoundSnapshot - то, что командир видит между раундами.
type RoundSnapshot struct {
	Round            int
	OwnLossPercent   int
	EnemyLossPercent int
	Disorder         int
}

// OrderReceipt - синхронный ответ на живой приказ. Возвращается вызывающему
// ДО начала следующего раунда.
type OrderReceipt struct {
	Applied       bool
	Ignored       bool // Disorder достиг потолка: приказ проигнорирован
	DisorderAdded int
	Disorder      int
}

// CommanderLink - канал живых приказов в идущий бой. Резолвер опрашивает его
// строго между раундами; это единственное блокирующее окно запрос/ответ,
// которое оркестратор открывает наружу во время атомарного обсчета хода.
type CommanderLink interface {
	// NextOrder возвращает приказ стороны или nil (не вмешиваться).
	NextOrder(side Side, snap RoundSnapshot) *domain.MidBattleOrder
	// OrderResult доставляет квитанцию отправителю приказа.
	OrderResult(side Side, receipt OrderReceipt)
}

// NoIntervention - заглушка CommanderLink: никто не вмешивается.
type NoIntervention struct{}

func (NoIntervention) NextOrder(Side, RoundSnapshot) *domain.MidBattleOrder { return nil }
func (NoIntervention) OrderResult(Side, OrderReceipt)                      {}

// force - состояние одной стороны внутри боя.
type force struct {
	side  Side
	fleet *domain.Fleet

	// Текущее (последнее валидное) состояние доктрины. Живые приказы мутируют
	// эти поля; сама доктрина флота не трогается.
	formation domain.Formation
	targeting []domain.TargetPriority
	retreat   domain.RetreatCondition

	conditional []domain.ConditionalOrder
	firedOnce   map[int]bool

	disorder        int
	orderChanges    int
	lastChangeRound int // -1, пока приказов не было

	startHull int
	damage    map[domain.ShipID]int

	retreatIntent bool
	retreated     bool
}

func newForce(side Side, fleet *domain.Fleet) *force {
	doctrine := fleet.Doctrine.Normalized()
	return &force{
		side:            side,
		fleet:           fleet,
		formation:       doctrine.Formation,
		targeting:       append([]domain.TargetPriority(nil), doctrine.Targeting...),
		retreat:         doctrine.Retreat,
		conditional:     doctrine.Conditional,
		firedOnce:       make(map[int]bool),
		lastChangeRound: -1,
		startHull:       fleet.TotalHull(),
		damage:          make(map[domain.ShipID]int),
	}
}

// lossPercent - потери стороны в процентах от стартовых корпусов.
func (f *force) lossPercent() int {
	if f.startHull == 0 {
		return 100
	}
	lost := f.startHull - f.fleet.TotalHull()
	return lost * 100 / f.startHull
}

func (f *force) destroyed() bool {
	return len(f.fleet.AliveShips()) == 0
}

// applyOrder переводит текущее состояние доктрины в заявленное приказом.
func (f *force) applyOrder(order *domain.MidBattleOrder) {
	switch order.Kind {
	case domain.OrderChangeFormation:
		f.formation = order.Formation
	case domain.OrderChangeTargeting, domain.OrderFocusFire:
		if len(order.Targeting) > 0 {
			f.targeting = append([]domain.TargetPriority(nil), order.Targeting...)
		}
	case domain.OrderWithdraw:
		f.retreatIntent = true
	}
}

// Encounter - эфемерное состояние одного боя. Создается, когда враждебные
// флоты оказались в одной системе в фазе боя; уничтожается после резолва.
type Encounter struct {
	System  *domain.System
	terrain TerrainModifiers

	attacker *force
	defender *force

	round int
	rng   *rand.Rand
	link  CommanderLink

	log *logrus.Entry
}

// NewEncounter собирает бой двух флотов в системе.
// link == nil означает бой без живого вмешательства.
func NewEncounter(sys *domain.System, attacker, defender *domain.Fleet, rng *rand.Rand, link CommanderLink) *Encounter {
	if link == nil {
		link = NoIntervention{}
	}
	return &Encounter{
		System:   sys,
		terrain:  ComputeTerrain(sys),
		attacker: newForce(SideAttacker, attacker),
		defender: newForce(SideDefender, defender),
		rng:      rng,
		link:     link,
		log: logger.Log.WithFields(logrus.Fields{
			"component": "combat_system",
			"system_id": sys.ID,
			"attacker":  attacker.ID,
			"defender":  defender.ID,
		}),
	}
}

// Resolve ведет бой раунд за раундом до развязки.
func (e *Encounter) Resolve() *domain.CombatRecord {
	e.log.Info("Encounter started.")

	outcome := domain.OutcomeStalemate

	for e.round = 1; e.round <= domain.CombatStalemateRounds; e.round++ {
		// 1. Межраундовое окно: сначала натренированные условные приказы
		// (ноль беспорядка), затем живые приказы командиров.
		e.fireConditionalOrders(e.attacker, e.defender)
		e.fireConditionalOrders(e.defender, e.attacker)
		e.pollCommander(e.attacker, e.defender)
		e.pollCommander(e.defender, e.attacker)

		// 2. Попытки отступления (предзаявленные условия и приказ Withdraw).
		if done, result := e.checkRetreats(); done {
			outcome = result
			goto Resolved
		}

		// 3. Обмен огнем. Урон накапливается и применяется одновременно,
		// чтобы ни одна сторона не получала преимущество первого хода.
		e.exchangeFire()

		// 4. Проверка уничтожения.
		if done, result := e.checkDestruction(); done {
			outcome = result
			goto Resolved
		}
	}
	// Лимит раундов исчерпан - ничья.
	e.round = domain.CombatStalemateRounds

Resolved:
	record := e.buildRecord(outcome)
	e.log.WithFields(logrus.Fields{
		"outcome": record.Outcome,
		"rounds":  record.Rounds,
	}).Info("Encounter resolved.")
	return record
}

// fireConditionalOrders проверяет триггеры доктрины стороны.
// Экипаж отрабатывал эти сценарии до боя: срабатывание БЕСПЛАТНО по беспорядку.
func (e *Encounter) fireConditionalOrders(own, enemy *force) {
	for i := range own.conditional {
		cond := &own.conditional[i]
		if !cond.Repeatable && own.firedOnce[i] {
			continue
		}
		if !e.triggerFires(cond, own, enemy) {
			continue
		}
		own.firedOnce[i] = true
		own.applyOrder(&cond.Order)
		e.log.WithFields(logrus.Fields{
			"side":   own.side.String(),
			"round":  e.round,
			"metric": cond.Metric,
			"order":  cond.Order.Kind.String(),
		}).Debug("Conditional order fired (no disorder).")
	}
}

func (e *Encounter) triggerFires(cond *domain.ConditionalOrder, own, enemy *force) bool {
	var value int
	switch cond.Metric {
	case domain.MetricOwnLossPercent:
		value = own.lossPercent()
	case domain.MetricEnemyLossPercent:
		value = enemy.lossPercent()
	case domain.MetricRound:
		value = e.round
	case domain.MetricDisorder:
		value = own.disorder
	default:
		return false
	}

	switch cond.Compare {
	case domain.CompareAtMost:
		return value <= cond.Threshold
	default: // CompareAtLeast
		return value >= cond.Threshold
	}
}

// pollCommander опрашивает живой канал приказов стороны.
func (e *Encounter) pollCommander(own, enemy *force) {
	snap := RoundSnapshot{
		Round:            e.round,
		OwnLossPercent:   own.lossPercent(),
		EnemyLossPercent: enemy.lossPercent(),
		Disorder:         own.disorder,
	}

	order := e.link.NextOrder(own.side, snap)
	if order == nil {
		return
	}

	// Потолок достигнут: приказы игнорируются, флот воюет на последней
	// валидной доктрине. Это спроектированное вырожденное состояние, не ошибка.
	if own.disorder >= domain.DisorderMax {
		e.link.OrderResult(own.side, OrderReceipt{
			Ignored:  true,
			Disorder: own.disorder,
		})
		return
	}

	roundsSinceLast := e.round // До первого приказа: "давно"
	if own.lastChangeRound >= 0 {
		// Окно приказов открывается между раундами: смена в окнах двух
		// соседних раундов не дает экипажу ни одного полного раунда на
		// перестроение.
		roundsSinceLast = e.round - own.lastChangeRound - 1
	}

	cost := OrderDisorderCost(
		own.fleet.CommanderPresent,
		roundsSinceLast,
		own.orderChanges,
		own.fleet.Drill,
	)
	own.disorder = AddDisorder(own.disorder, cost)
	own.orderChanges++
	own.lastChangeRound = e.round

	own.applyOrder(order)

	e.log.WithFields(logrus.Fields{
		"side":     own.side.String(),
		"round":    e.round,
		"order":    order.Kind.String(),
		"cost":     cost,
		"disorder": own.disorder,
	}).Info("Manual battle order applied.")

	e.link.OrderResult(own.side, OrderReceipt{
		Applied:       true,
		DisorderAdded: cost,
		Disorder:      own.disorder,
	})
}

// checkRetreats проверяет условия отступления обеих сторон и бросает
// кубик на уход (местность меняет шанс успеть разорвать контакт).
func (e *Encounter) checkRetreats() (bool, domain.CombatOutcome) {
	e.tryRetreat(e.attacker)
	e.tryRetreat(e.defender)

	switch {
	case e.attacker.retreated && e.defender.retreated:
		return true, domain.OutcomeStalemate
	case e.attacker.retreated:
		return true, domain.OutcomeAttackerRetreat
	case e.defender.retreated:
		return true, domain.OutcomeDefenderRetreat
	}
	return false, domain.OutcomeStalemate
}

func (e *Encounter) tryRetreat(f *force) {
	if f.retreated || !e.wantsRetreat(f) {
		return
	}

	chance := 60 + e.terrain.Flee
	chance = clampPercent(chance)

	if e.rng.Intn(100) < chance {
		f.retreated = true
		e.log.WithFields(logrus.Fields{
			"side":  f.side.String(),
			"round": e.round,
		}).Info("Force disengaged.")
	}
	// Не ушли - деремся дальше, попытка повторится в следующем раунде.
}

func (e *Encounter) wantsRetreat(f *force) bool {
	if f.retreatIntent {
		return true
	}
	switch f.retreat.Kind {
	case domain.RetreatOnLossPercent:
		return f.lossPercent() >= f.retreat.Threshold
	case domain.RetreatOnHullPercent:
		return 100-f.lossPercent() <= f.retreat.Threshold
	}
	return false
}

// exchangeFire считает урон обеих сторон за раунд и применяет одновремено.
func (e *Encounter) exchangeFire() {
	pendingA := e.computeVolley(e.attacker, e.defender)
	pendingB := e.computeVolley(e.defender, e.attacker)

	applyVolley(e.defender, pendingA)
	applyVolley(e.attacker, pendingB)
}

// computeVolley - залп одной стороны: по каждому живому кораблю выбор цели
// по приоритетам доктрины, бросок на попадание, расчет урона.
func (e *Encounter) computeVolley(own, enemy *force) map[domain.ShipID]int {
	pending := make(map[domain.ShipID]int)

	targets := OrderTargets(own.targeting, enemy.fleet.AliveShips())
	if len(targets) == 0 {
		return pending
	}

	outputFactor := DisorderOutputFactor(own.disorder)
	ownMods := formationMods(own.formation)
	enemyMods := formationMods(enemy.formation)
	matchup := formationMatchupBonus(own.formation, enemy.formation)

	targetIdx := 0
	for _, ship := range own.fleet.AliveShips() {
		// Цели разбираются по порядку приоритета; добитые в этом же залпе
		// цели пропускаем (учитываем уже накопленный урон).
		for targetIdx < len(targets) {
			t := targets[targetIdx]
			if t.Hull-pending[t.ID] > 0 {
				break
			}
			targetIdx++
		}
		if targetIdx >= len(targets) {
			break
		}
		target := targets[targetIdx]

		hitChance := ship.Accuracy + ownMods.accuracy + e.terrain.Accuracy -
			target.Evasion - enemyMods.evasion - e.terrain.Evasion
		hitChance = clampPercent(hitChance)

		if e.rng.Intn(100) >= hitChance {
			continue
		}

		damage := ship.Attack + matchup - target.Defense/2
		if damage < 1 {
			damage = 1
		}
		damage = int(float64(damage) * outputFactor)
		if damage < 1 {
			damage = 1
		}
		pending[target.ID] += damage
	}
	return pending
}

// applyVolley применяет накопленный урон к кораблям стороны.
func applyVolley(f *force, pending map[domain.ShipID]int) {
	for _, ship := range f.fleet.Ships {
		dmg, ok := pending[ship.ID]
		if !ok || ship.IsDestroyed() {
			continue
		}
		ship.Hull -= dmg
		if ship.Hull < 0 {
			dmg += ship.Hull // Не засчитываем оверкилл в отчет
			ship.Hull = 0
		}
		f.damage[ship.ID] += dmg
	}
}

func (e *Encounter) checkDestruction() (bool, domain.CombatOutcome) {
	attackerDead := e.attacker.destroyed()
	defenderDead := e.defender.destroyed()

	switch {
	case attackerDead && defenderDead:
		return true, domain.OutcomeMutualDestruction
	case attackerDead:
		return true, domain.OutcomeDefenderVictory
	case defenderDead:
		return true, domain.OutcomeAttackerVictory
	}
	return false, domain.OutcomeStalemate
}

func (e *Encounter) buildRecord(outcome domain.CombatOutcome) *domain.CombatRecord {
	record := &domain.CombatRecord{
		SystemID:         e.System.ID,
		AttackerID:       e.attacker.fleet.OwnerID,
		DefenderID:       e.defender.fleet.OwnerID,
		Outcome:          outcome,
		Rounds:           e.round,
		AttackerDisorder: e.attacker.disorder,
		DefenderDisorder: e.defender.disorder,
		AttackerFleet:    e.attacker.fleet.ID,
		DefenderFleet:    e.defender.fleet.ID,
	}
	record.Damage = append(record.Damage, collectDamage(e.attacker)...)
	record.Damage = append(record.Damage, collectDamage(e.defender)...)
	return record
}

func collectDamage(f *force) []domain.ShipDamage {
	var list []domain.ShipDamage
	for _, ship := range f.fleet.Ships {
		dmg, ok := f.damage[ship.ID]
		if !ok {
			continue
		}
		list = append(list, domain.ShipDamage{
			ShipID:    ship.ID,
			FleetID:   f.fleet.ID,
			Damage:    dmg,
			Destroyed: ship.IsDestroyed(),
		})
	}
	return list
}

// Disorder возвращает текущий беспорядок стороны (для отчетов и тестов).
func (e *Encounter) Disorder(side Side) int {
	if side == SideDefender {
		return e.defender.disorder
	}
	return e.attacker.disorder
}

func clampPercent(v int) int {
	if v < 5 {
		return 5
	}
	if v > 95 {
		return 95
	}
	return v
}
