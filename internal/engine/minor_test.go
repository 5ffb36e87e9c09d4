package engine

import (
	"reflect"
	"testing"

	"voidreach-server/internal/domain"
	"voidreach-server/pkg/utils"
)

func TestMinorFactionsDeterministic(t *testing.T) {
	plan := func() []MinorOperation {
		s := runningSession()
		// Push the raid chance up so the plan is rarely empty.
		s.Factions["red"].Reputation = -100
		s.Factions["blue"].Reputation = -100
		return DefaultMinorFactions{}.PlanOperations(s, utils.NewRand(99))
	}

	first := plan()
	second := plan()

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Same rng produced different plans:\n%+v\n%+v", first, second)
	}
}

func TestReputationShiftsMinorBehavior(t *testing.T) {
	// Across many seeds a hated faction must see more raids than a loved one.
	count := func(reputation int) (raids, boons int) {
		for seed := int64(0); seed < 300; seed++ {
			s := runningSession()
			s.Factions["red"].Reputation = reputation
			delete(s.Colonies, "col-blue")
			for _, op := range (DefaultMinorFactions{}).PlanOperations(s, utils.NewRand(seed)) {
				switch op.Kind {
				case MinorRaid:
					raids++
				case MinorTradeBoon:
					boons++
				}
			}
		}
		return raids, boons
	}

	hatedRaids, _ := count(-100)
	_, lovedBoons := count(100)
	lovedRaids, _ := count(100)

	if hatedRaids <= lovedRaids {
		t.Errorf("Reputation -100 produced %d raids, +100 produced %d", hatedRaids, lovedRaids)
	}
	if lovedBoons == 0 {
		t.Error("High reputation never produced a trade boon across 300 seeds")
	}
}

func TestMinorRaidNeverBankrupts(t *testing.T) {
	s := runningSession()
	s.Factions["red"].Treasury[domain.ResourceCredits] = 5

	p := testPipeline()
	ctx := &turnContext{s: s, result: &domain.TurnResult{}}
	p.applyMinorOperation(ctx, MinorOperation{Kind: MinorRaid, ColonyID: "col-red", Strength: 70})

	if got := s.Factions["red"].Resource(domain.ResourceCredits); got != 0 {
		t.Errorf("Raid must clamp the treasury at zero, got %d", got)
	}
	if s.Colonies["col-red"].Population != 9 {
		t.Errorf("Raid must cost one population, got %d", s.Colonies["col-red"].Population)
	}
	if len(ctx.result.Notifications) != 1 || ctx.result.Notifications[0].Audience != "red" {
		t.Errorf("Raid must notify the owner only, got %+v", ctx.result.Notifications)
	}
}

func TestMinorOperationOnGoneColonyIsDropped(t *testing.T) {
	s := runningSession()
	p := testPipeline()
	ctx := &turnContext{s: s, result: &domain.TurnResult{}}

	p.applyMinorOperation(ctx, MinorOperation{Kind: MinorTradeBoon, ColonyID: "ghost", Strength: 50})

	if len(ctx.result.Notifications) != 0 {
		t.Errorf("Operation on a missing colony must be silent, got %+v", ctx.result.Notifications)
	}
}
