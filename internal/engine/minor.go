package engine

import (
	"fmt"
	"math/rand"
	"sort"

	"voidreach-server/internal/domain"
)

// MinorOperationKind - закрытый набор операций малых фракций. Движок малых
// фракций подключается снаружи, но может предлагать только операции из
// этого списка: произвольные мутации состояния ему недоступны.
type MinorOperationKind uint8

const (
	// MinorRaid - рейд по колонии: потеря кредитов и населения.
	MinorRaid MinorOperationKind = iota
	// MinorTradeBoon - торговый караван: разовая прибавка кредитов.
	MinorTradeBoon
	// MinorMigration - приток мигрантов: рост населения колонии.
	MinorMigration
)

func (k MinorOperationKind) String() string {
	switch k {
	case MinorTradeBoon:
		return "TRADE_BOON"
	case MinorMigration:
		return "MIGRATION"
	default:
		return "RAID"
	}
}

// MinorOperation - одна операция малой фракции против (или в пользу)
// колонии игровой фракции.
type MinorOperation struct {
	Kind     MinorOperationKind
	ColonyID domain.ColonyID
	Strength int // Масштаб эффекта
}

// MinorFactionEngine планирует операции малых фракций на ход. Реализация
// обязана быть детерминированной относительно переданного генератора.
type MinorFactionEngine interface {
	PlanOperations(s *domain.Session, rng *rand.Rand) []MinorOperation
}

// DefaultMinorFactions - встроенный движок: репутация фракции двигает
// баланс между рейдами и торговыми караванами на ее границах.
type DefaultMinorFactions struct{}

func (DefaultMinorFactions) PlanOperations(s *domain.Session, rng *rand.Rand) []MinorOperation {
	var ops []MinorOperation

	for _, colony := range minorSortedColonies(s) {
		faction := s.Factions[colony.OwnerID]
		if faction == nil || faction.Eliminated {
			continue
		}

		roll := rng.Intn(100)

		// Репутация сдвигает порог: -50 репутации дает +10% к шансу рейда,
		// +50 дает +10% к шансу каравана.
		raidChance := 5 - faction.Reputation/5
		boonChance := 5 + faction.Reputation/5

		switch {
		case roll < raidChance:
			ops = append(ops, MinorOperation{
				Kind:     MinorRaid,
				ColonyID: colony.ID,
				Strength: 20 + rng.Intn(60),
			})
		case roll < raidChance+boonChance:
			ops = append(ops, MinorOperation{
				Kind:     MinorTradeBoon,
				ColonyID: colony.ID,
				Strength: 30 + rng.Intn(90),
			})
		case roll < raidChance+boonChance+3:
			ops = append(ops, MinorOperation{
				Kind:     MinorMigration,
				ColonyID: colony.ID,
				Strength: 1 + rng.Intn(3),
			})
		}
	}
	return ops
}

func minorSortedColonies(s *domain.Session) []*domain.Colony {
	list := make([]*domain.Colony, 0, len(s.Colonies))
	for _, c := range s.Colonies {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// applyMinorOperation применяет операцию к состоянию. Операции с целью,
// исчезнувшей к моменту применения, тихо выбрасываются.
func (p *Pipeline) applyMinorOperation(ctx *turnContext, op MinorOperation) {
	colony, ok := ctx.s.Colonies[op.ColonyID]
	if !ok {
		return
	}
	faction := ctx.s.Factions[colony.OwnerID]
	if faction == nil {
		return
	}

	notify := func(text string) {
		ctx.result.Notifications = append(ctx.result.Notifications, domain.Notification{
			Audience: faction.ID,
			Text:     text,
			Kind:     "EVENT",
		})
	}

	switch op.Kind {
	case MinorRaid:
		faction.Spend(map[domain.ResourceKind]int{domain.ResourceCredits: op.Strength})
		if colony.Population > 1 {
			colony.Population--
		}
		faction.Reputation -= 2
		notify(fmt.Sprintf("Raiders struck a colony: %d credits lost", op.Strength))

	case MinorTradeBoon:
		faction.Credit(domain.ResourceCredits, op.Strength)
		faction.Reputation++
		notify(fmt.Sprintf("A trade convoy arrived: %d credits earned", op.Strength))

	case MinorMigration:
		colony.Population += op.Strength
		notify(fmt.Sprintf("Migrants settled on a colony: population +%d", op.Strength))
	}
}
