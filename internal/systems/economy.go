package systems

import "voidreach-server/internal/domain"

// FactionEconomy - доходы и расходы одной фракции за ход.
type FactionEconomy struct {
	Income   map[domain.ResourceKind]int
	Expenses map[domain.ResourceKind]int
}

// ComputeEconomy считает экономику фракции, НЕ меняя состояния.
// Доход: производство колоний, масштабированное налоговой политикой.
// Расход: содержание флотов.
func ComputeEconomy(s *domain.Session, factionID domain.FactionID) FactionEconomy {
	eco := FactionEconomy{
		Income:   make(map[domain.ResourceKind]int),
		Expenses: make(map[domain.ResourceKind]int),
	}

	faction := s.Factions[factionID]
	if faction == nil {
		return eco
	}

	// Налог 0..50% конвертируется в множитель дохода 50..100%:
	// низкие налоги оставляют продукцию населению.
	taxFactor := 50 + faction.TaxPolicy
	for _, colony := range s.Colonies {
		if colony.OwnerID != factionID {
			continue
		}
		for kind, amount := range colony.Production {
			eco.Income[kind] += amount * taxFactor / 100
		}
	}

	for _, fleet := range s.Fleets {
		if fleet.OwnerID != factionID {
			continue
		}
		if upkeep := fleet.Upkeep(); upkeep > 0 {
			eco.Expenses[domain.ResourceCredits] += upkeep
		}
	}

	return eco
}

// ApplyEconomy применяет чистую дельту к казне и приводит ее к инварианту
// неотрицательности. Казна после экономической фазы НИКОГДА не уходит
// в минус, даже если расходы превысили доход.
func ApplyEconomy(faction *domain.Faction, eco FactionEconomy) {
	for kind, amount := range eco.Income {
		faction.Credit(kind, amount)
	}
	for kind, amount := range eco.Expenses {
		faction.Credit(kind, -amount)
	}
	faction.ClampTreasury()
}
