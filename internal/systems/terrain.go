package systems

import "voidreach-server/internal/domain"

// TerrainModifiers - симметричные поправки местности к бою.
// Применяются к ОБЕИМ сторонам одинаково: туманность мешает целиться всем.
type TerrainModifiers struct {
	Accuracy int // Поправка к шансу попадания, п.п.
	Evasion  int // Поправка к уклонению, п.п.
	Flee     int // Поправка к шансу успешного отступления, п.п.
}

// ComputeTerrain сводит особенности системы в один набор модификаторов.
func ComputeTerrain(sys *domain.System) TerrainModifiers {
	var mods TerrainModifiers
	if sys == nil {
		return mods
	}
	for _, feature := range sys.Terrain {
		switch feature {
		case domain.TerrainNebula:
			// Сенсоры слепнут: целиться тяжело, прятаться легко.
			mods.Accuracy -= 15
			mods.Evasion += 10
			mods.Flee += 15
		case domain.TerrainStarProximity:
			// Засветка и гравитация: уходить тяжело.
			mods.Accuracy -= 5
			mods.Flee -= 20
		case domain.TerrainAsteroidField:
			mods.Evasion += 15
			mods.Accuracy -= 10
			mods.Flee -= 10
		case domain.TerrainWormhole:
			// Рядом червоточина - всегда есть куда нырнуть.
			mods.Flee += 30
		}
	}
	return mods
}
