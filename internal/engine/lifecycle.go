package engine

import (
	"fmt"
	"sort"

	"voidreach-server/internal/domain"
	"voidreach-server/pkg/galaxy"
)

// SetupGalaxy разворачивает стартовое состояние для всех слотов сессии:
// карту, фракции, домашние колонии и стартовые флоты. Вызывается в
// состоянии Starting; ошибка означает откат сессии в лобби.
func SetupGalaxy(s *domain.Session, gen galaxy.Generator) error {
	slots := sortedSlots(s)

	m, err := gen.Generate(galaxy.Config{
		Size:    s.Settings.GalaxySize,
		Players: len(slots),
		Seed:    s.Seed,
	})
	if err != nil {
		return fmt.Errorf("galaxy generation: %w", err)
	}

	s.Systems = m.Systems

	for i, slot := range slots {
		preset, ok := galaxy.RaceByName(slot.Race)
		if !ok {
			return fmt.Errorf("slot %s has unknown race %q", slot.PlayerID, slot.Race)
		}
		home := s.Systems[m.Starts[i]]
		spawnFaction(s, slot, preset, home)
	}
	return nil
}

// sortedSlots - слоты в детерминированном порядке (по id игрока):
// раздача стартовых позиций не зависит от порядка итерации мапы.
func sortedSlots(s *domain.Session) []*domain.PlayerSlot {
	slots := make([]*domain.PlayerSlot, 0, len(s.Slots))
	for _, slot := range s.Slots {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].PlayerID < slots[j].PlayerID })
	return slots
}

func spawnFaction(s *domain.Session, slot *domain.PlayerSlot, preset *galaxy.RacePreset, home *domain.System) {
	faction := &domain.Faction{
		ID:         domain.FactionID(domain.NewID()),
		Name:       fmt.Sprintf("%s of %s", preset.Name, slot.Name),
		Race:       preset.Name,
		LeaderID:   slot.PlayerID,
		Government: preset.Government,
		Treasury:   make(map[domain.ResourceKind]int),
	}
	for kind, amount := range preset.StartingTreasury {
		faction.Treasury[kind] = amount
	}
	s.Factions[faction.ID] = faction
	slot.FactionID = faction.ID

	home.OwnerID = faction.ID

	colony := &domain.Colony{
		ID:          domain.ColonyID(domain.NewID()),
		OwnerID:     faction.ID,
		SystemID:    home.ID,
		Population:  10,
		Production:  make(map[domain.ResourceKind]int),
		SensorRange: preset.SensorRange,
	}
	for kind, amount := range preset.ColonyProduction {
		colony.Production[kind] = amount
	}
	s.Colonies[colony.ID] = colony
	home.ColonyID = colony.ID

	fleet := &domain.Fleet{
		ID:               domain.FleetID(domain.NewID()),
		Name:             fmt.Sprintf("%s Home Fleet", slot.Name),
		OwnerID:          faction.ID,
		SystemID:         home.ID,
		Speed:            galaxy.FleetSpeedDefault,
		CommanderPresent: true,
	}
	for _, designName := range preset.StartingDesigns {
		if design, ok := galaxy.DesignByName(designName); ok {
			fleet.Ships = append(fleet.Ships, design.NewShip())
		}
	}
	s.Fleets[fleet.ID] = fleet
}
