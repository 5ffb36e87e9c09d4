package systems

import (
	"sort"

	"voidreach-server/internal/domain"
)

// classOf сопоставляет класс корабля категории целей доктрины.
var classOf = map[domain.ShipClass]domain.TargetPriority{
	domain.ShipClassCapital: domain.TargetCapitals,
	domain.ShipClassEscort:  domain.TargetEscorts,
	domain.ShipClassCarrier: domain.TargetCarriers,
	domain.ShipClassSupport: domain.TargetSupports,
	domain.ShipClassScout:   domain.TargetEscorts, // Разведчики числятся эскортом
}

// OrderTargets выстраивает вражеские корабли в порядок обстрела по списку
// приоритетов доктрины. Ничьи внутри одного приоритета решаются по наибольшей
// текущей угрозе (Threat), затем по наименьшему остатку корпуса.
func OrderTargets(priorities []domain.TargetPriority, enemies []*domain.Ship) []*domain.Ship {
	if len(enemies) == 0 {
		return nil
	}

	ordered := make([]*domain.Ship, 0, len(enemies))
	assigned := make(map[domain.ShipID]bool, len(enemies))

	appendTied := func(ships []*domain.Ship) {
		sort.SliceStable(ships, func(i, j int) bool {
			if ships[i].Threat != ships[j].Threat {
				return ships[i].Threat > ships[j].Threat
			}
			return ships[i].Hull < ships[j].Hull
		})
		for _, s := range ships {
			if !assigned[s.ID] {
				assigned[s.ID] = true
				ordered = append(ordered, s)
			}
		}
	}

	for _, priority := range priorities {
		var bucket []*domain.Ship

		switch priority {
		case domain.TargetWeakest:
			// Специальные приоритеты сортируют всех оставшихся.
			bucket = remaining(enemies, assigned)
			sort.SliceStable(bucket, func(i, j int) bool {
				return bucket[i].Hull < bucket[j].Hull
			})
			for _, s := range bucket {
				assigned[s.ID] = true
				ordered = append(ordered, s)
			}
			continue
		case domain.TargetStrongest:
			bucket = remaining(enemies, assigned)
			sort.SliceStable(bucket, func(i, j int) bool {
				return bucket[i].Threat > bucket[j].Threat
			})
			for _, s := range bucket {
				assigned[s.ID] = true
				ordered = append(ordered, s)
			}
			continue
		}

		for _, s := range enemies {
			if !assigned[s.ID] && classOf[s.Class] == priority {
				bucket = append(bucket, s)
			}
		}
		appendTied(bucket)
	}

	// Корабли вне заявленных приоритетов дострелваются последними,
	// в том же порядке ничьих.
	appendTied(remaining(enemies, assigned))

	return ordered
}

func remaining(enemies []*domain.Ship, assigned map[domain.ShipID]bool) []*domain.Ship {
	var rest []*domain.Ship
	for _, s := range enemies {
		if !assigned[s.ID] {
			rest = append(rest, s)
		}
	}
	return rest
}

// formMods - поправки построения к бою.
type formMods struct {
	accuracy int
	evasion  int
}

func formationMods(f domain.Formation) formMods {
	switch f {
	case domain.FormationWedge:
		return formMods{accuracy: 5, evasion: -5}
	case domain.FormationSphere:
		return formMods{accuracy: -5, evasion: 10}
	case domain.FormationScreen:
		return formMods{evasion: 5}
	default: // FormationLine
		return formMods{accuracy: 5}
	}
}

// formationMatchupBonus - кольцо преимуществ построений:
// клин ломает линию, линия прошивает завесу, завеса душит сферу,
// сфера обволакивает клин. Преимущество дает плоский бонус к урону.
func formationMatchupBonus(own, enemy domain.Formation) int {
	advantage := map[domain.Formation]domain.Formation{
		domain.FormationWedge:  domain.FormationLine,
		domain.FormationLine:   domain.FormationScreen,
		domain.FormationScreen: domain.FormationSphere,
		domain.FormationSphere: domain.FormationWedge,
	}
	if advantage[own] == enemy {
		return 3
	}
	return 0
}
