package systems

import (
	"reflect"
	"testing"

	"voidreach-server/internal/domain"
	"voidreach-server/pkg/utils"
)

func makeShip(id string, attack, defense, hull int) *domain.Ship {
	return &domain.Ship{
		ID:       domain.ShipID(id),
		Class:    domain.ShipClassEscort,
		Hull:     hull,
		MaxHull:  hull,
		Attack:   attack,
		Defense:  defense,
		Accuracy: 80,
		Threat:   attack,
	}
}

func makeFleet(id, owner string, ships ...*domain.Ship) *domain.Fleet {
	return &domain.Fleet{
		ID:       domain.FleetID(id),
		Name:     id,
		OwnerID:  domain.FactionID(owner),
		SystemID: "contested",
		Ships:    ships,
	}
}

func battleground() *domain.System {
	return &domain.System{ID: "contested", Name: "Contested"}
}

// Two identical fleets with no doctrine must not produce a guaranteed
// one-sided result across seeds.
func TestEqualFleetsNeverOneSided(t *testing.T) {
	attackerWins := 0
	defenderWins := 0
	total := 40

	for seed := 0; seed < total; seed++ {
		a := makeFleet("fa", "red",
			makeShip("a1", 20, 10, 100), makeShip("a2", 20, 10, 100))
		d := makeFleet("fd", "blue",
			makeShip("d1", 20, 10, 100), makeShip("d2", 20, 10, 100))

		rng := utils.NewRand(int64(seed))
		record := NewEncounter(battleground(), a, d, rng, nil).Resolve()

		switch record.Outcome {
		case domain.OutcomeAttackerVictory:
			attackerWins++
		case domain.OutcomeDefenderVictory:
			defenderWins++
		}
	}

	if attackerWins == total {
		t.Errorf("Attacker won all %d battles of a mirror matchup", total)
	}
	if defenderWins == total {
		t.Errorf("Defender won all %d battles of a mirror matchup", total)
	}
}

func TestEncounterDeterministic(t *testing.T) {
	resolve := func() *domain.CombatRecord {
		a := makeFleet("fa", "red",
			makeShip("a1", 25, 5, 120), makeShip("a2", 15, 10, 90))
		d := makeFleet("fd", "blue",
			makeShip("d1", 20, 10, 100), makeShip("d2", 20, 0, 110))
		rng := utils.NewRand(utils.SubSeed(777, "battle"))
		return NewEncounter(battleground(), a, d, rng, nil).Resolve()
	}

	first := resolve()
	second := resolve()

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Same seed produced different battle records:\n%+v\n%+v", first, second)
	}
}

// A declared retreat condition fires automatically and costs zero disorder,
// even without a commander aboard.
func TestDeclaredRetreatCostsNoDisorder(t *testing.T) {
	retreats := 0
	total := 20

	for seed := 0; seed < total; seed++ {
		a := makeFleet("fa", "red",
			makeShip("a1", 40, 0, 500), makeShip("a2", 40, 0, 500))
		d := makeFleet("fd", "blue",
			makeShip("d1", 1, 0, 300), makeShip("d2", 1, 0, 300))
		d.Doctrine = &domain.BattleDoctrine{
			Formation: domain.FormationScreen,
			Targeting: []domain.TargetPriority{domain.TargetWeakest},
			Retreat:   domain.RetreatCondition{Kind: domain.RetreatOnLossPercent, Threshold: 50},
		}
		d.CommanderPresent = false

		rng := utils.NewRand(int64(seed))
		record := NewEncounter(battleground(), a, d, rng, nil).Resolve()

		if record.Outcome != domain.OutcomeDefenderRetreat {
			continue
		}
		retreats++
		if record.DefenderDisorder != 0 {
			t.Errorf("seed %d: automatic retreat added disorder %d", seed, record.DefenderDisorder)
		}
		if d.TotalHull() >= 600 {
			t.Errorf("seed %d: defender retreated without taking losses", seed)
		}
	}

	// The outgunned side should disengage in the vast majority of runs.
	if retreats < total*3/4 {
		t.Errorf("Expected the retreat condition to fire in most battles, got %d of %d", retreats, total)
	}
}

// Conditional orders were drilled before the battle: firing one is free.
func TestConditionalOrderCostsNoDisorder(t *testing.T) {
	a := makeFleet("fa", "red", makeShip("a1", 1, 100, 500))
	a.Doctrine = &domain.BattleDoctrine{
		Formation: domain.FormationLine,
		Targeting: []domain.TargetPriority{domain.TargetWeakest},
		Conditional: []domain.ConditionalOrder{{
			Metric:    domain.MetricRound,
			Compare:   domain.CompareAtLeast,
			Threshold: 2,
			Order: domain.MidBattleOrder{
				Kind:      domain.OrderChangeFormation,
				Formation: domain.FormationSphere,
			},
		}},
	}
	d := makeFleet("fd", "blue", makeShip("d1", 1, 100, 500))

	rng := utils.NewRand(42)
	record := NewEncounter(battleground(), a, d, rng, nil).Resolve()

	if record.AttackerDisorder != 0 {
		t.Errorf("Conditional order added disorder %d", record.AttackerDisorder)
	}
	// Harmless ships grind to the round cap.
	if record.Outcome != domain.OutcomeStalemate {
		t.Errorf("Expected STALEMATE, got %s", record.Outcome)
	}
	if record.Rounds != domain.CombatStalemateRounds {
		t.Errorf("Expected battle to run %d rounds, got %d", domain.CombatStalemateRounds, record.Rounds)
	}
}

// spammingLink issues a formation change for one side every round and
// collects the receipts.
type spammingLink struct {
	side     Side
	receipts []OrderReceipt
}

func (l *spammingLink) NextOrder(side Side, snap RoundSnapshot) *domain.MidBattleOrder {
	if side != l.side {
		return nil
	}
	return &domain.MidBattleOrder{Kind: domain.OrderChangeFormation, Formation: domain.FormationWedge}
}

func (l *spammingLink) OrderResult(side Side, r OrderReceipt) {
	if side == l.side {
		l.receipts = append(l.receipts, r)
	}
}

func TestManualOrdersAccumulateDisorder(t *testing.T) {
	a := makeFleet("fa", "red", makeShip("a1", 1, 100, 500))
	a.CommanderPresent = false
	d := makeFleet("fd", "blue", makeShip("d1", 1, 100, 500))

	link := &spammingLink{side: SideAttacker}
	rng := utils.NewRand(7)
	record := NewEncounter(battleground(), a, d, rng, link).Resolve()

	if len(link.receipts) < 3 {
		t.Fatalf("Expected at least 3 receipts, got %d", len(link.receipts))
	}

	// No commander, drill 0: 40 for the first order; the second lands in the
	// very next round window (zero full rounds in between), so it pays the
	// rapid-change surcharge on top of the per-change escalation, then the
	// hard cap at 100.
	wantCosts := []int{40, 65}
	wantDisorder := []int{40, 100}
	for i := range wantCosts {
		r := link.receipts[i]
		if !r.Applied {
			t.Fatalf("Receipt %d: expected order to apply, got %+v", i, r)
		}
		if r.DisorderAdded != wantCosts[i] || r.Disorder != wantDisorder[i] {
			t.Errorf("Receipt %d: expected cost %d / disorder %d, got %d / %d",
				i, wantCosts[i], wantDisorder[i], r.DisorderAdded, r.Disorder)
		}
	}

	// At the cap further orders are ignored, the fleet keeps fighting on the
	// last valid doctrine.
	third := link.receipts[2]
	if !third.Ignored || third.Disorder != domain.DisorderMax {
		t.Errorf("Expected ignored receipt at the cap, got %+v", third)
	}

	if record.AttackerDisorder != domain.DisorderMax {
		t.Errorf("Expected attacker to end at disorder %d, got %d", domain.DisorderMax, record.AttackerDisorder)
	}
	if record.DefenderDisorder != 0 {
		t.Errorf("Silent defender gained disorder %d", record.DefenderDisorder)
	}
}

// pacedLink issues a formation change only in the listed round windows.
type pacedLink struct {
	side     Side
	rounds   map[int]bool
	receipts []OrderReceipt
}

func (l *pacedLink) NextOrder(side Side, snap RoundSnapshot) *domain.MidBattleOrder {
	if side != l.side || !l.rounds[snap.Round] {
		return nil
	}
	return &domain.MidBattleOrder{Kind: domain.OrderChangeFormation, Formation: domain.FormationWedge}
}

func (l *pacedLink) OrderResult(side Side, r OrderReceipt) {
	if side == l.side {
		l.receipts = append(l.receipts, r)
	}
}

// Two orders in adjacent round windows leave the crew no full round to settle
// and pay the rapid-change surcharge; the same second order three rounds later
// does not.
func TestRapidOrderSurcharge(t *testing.T) {
	run := func(rounds ...int) []OrderReceipt {
		a := makeFleet("fa", "red", makeShip("a1", 1, 100, 500))
		a.CommanderPresent = true
		d := makeFleet("fd", "blue", makeShip("d1", 1, 100, 500))

		link := &pacedLink{side: SideAttacker, rounds: map[int]bool{}}
		for _, r := range rounds {
			link.rounds[r] = true
		}
		NewEncounter(battleground(), a, d, utils.NewRand(7), link).Resolve()
		return link.receipts
	}

	rapid := run(1, 2)
	if len(rapid) != 2 {
		t.Fatalf("Expected 2 receipts for back-to-back orders, got %d", len(rapid))
	}
	// Commander aboard, drill 0: base 15, +20 rapid, +5 prior change.
	if rapid[1].DisorderAdded != 40 {
		t.Errorf("Back-to-back order cost %d, expected 40 with the surcharge", rapid[1].DisorderAdded)
	}

	paced := run(1, 4)
	if len(paced) != 2 {
		t.Fatalf("Expected 2 receipts for paced orders, got %d", len(paced))
	}
	if paced[1].DisorderAdded != 20 {
		t.Errorf("Paced order cost %d, expected 20 without the surcharge", paced[1].DisorderAdded)
	}
}

func TestDecisiveOutcomes(t *testing.T) {
	// Glass cannons: any landed volley kills, damage applies simultaneously.
	for seed := int64(0); seed < 10; seed++ {
		af := makeFleet("fa", "red", makeShip("a1", 500, 0, 10))
		df := makeFleet("fd", "blue", makeShip("d1", 500, 0, 10))
		record := NewEncounter(battleground(), af, df, utils.NewRand(seed), nil).Resolve()
		switch record.Outcome {
		case domain.OutcomeMutualDestruction, domain.OutcomeAttackerVictory, domain.OutcomeDefenderVictory:
		default:
			t.Errorf("seed %d: expected a decisive outcome, got %s", seed, record.Outcome)
		}
	}
}
