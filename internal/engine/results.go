package engine

import (
	"sort"

	"voidreach-server/internal/domain"
	"voidreach-server/internal/systems"
	"voidreach-server/pkg/api"
)

// Сборка персональных срезов для клиента. Точные цифры чужих активов
// наружу не уходят никогда: чужие флоты показываются полосой силы и
// уверенностью, чужая экономика и производство не показываются вовсе.

// BuildSessionView собирает снимок сессии для лобби и статусных запросов.
func BuildSessionView(s *domain.Session) *api.SessionView {
	view := &api.SessionView{
		ID:       s.ID.String(),
		JoinCode: s.JoinCode,
		State:    s.State.String(),
		Turn:     s.Turn,
		CanStart: s.CanStart(),
	}
	if s.Winner != "" {
		if winner, ok := s.Factions[s.Winner]; ok {
			view.Winner = winner.Name
		}
	}

	for _, slot := range s.Slots {
		view.Slots = append(view.Slots, api.SlotView{
			PlayerID: slot.PlayerID.String(),
			Name:     slot.Name,
			Race:     slot.Race,
			Ready:    slot.Ready,
			IsAI:     slot.IsAI,
		})
	}
	sort.Slice(view.Slots, func(a, b int) bool { return view.Slots[a].PlayerID < view.Slots[b].PlayerID })
	return view
}

// BuildTurnResultView фильтрует результат хода туманом войны наблюдателя.
func BuildTurnResultView(s *domain.Session, factionID domain.FactionID, result *domain.TurnResult) *api.TurnResultView {
	if result == nil {
		return nil
	}
	view := systems.ComputeView(s, factionID)

	out := &api.TurnResultView{Turn: result.Turn}

	// Перелеты: свои всегда, чужие только если точка прибытия в покрытии
	// и сам флот сейчас обнаружен.
	for _, m := range result.Movements {
		if m.OwnerID != factionID {
			if view.Systems[m.ToID] < systems.DetailVisible {
				continue
			}
			if _, seen := view.Fleets[m.FleetID]; !seen {
				continue
			}
		}
		out.Movements = append(out.Movements, api.MovementView{
			FleetID:  string(m.FleetID),
			FromID:   m.FromID.String(),
			ToID:     m.ToID.String(),
			Progress: m.Progress,
			Arrived:  m.Arrived,
		})
	}

	// Бои: участнику - детальный отчет, стороннему наблюдателю видимой
	// системы - только итог.
	for i := range result.Combats {
		c := &result.Combats[i]
		participant := c.AttackerID == factionID || c.DefenderID == factionID
		if !participant && view.Systems[c.SystemID] < systems.DetailVisible {
			continue
		}

		cv := api.CombatView{
			SystemID: c.SystemID.String(),
			Attacker: factionName(s, c.AttackerID),
			Defender: factionName(s, c.DefenderID),
			Outcome:  string(c.Outcome),
			Rounds:   c.Rounds,
		}
		if participant {
			ownFleet := c.AttackerFleet
			cv.Disorder = c.AttackerDisorder
			if c.DefenderID == factionID {
				ownFleet = c.DefenderFleet
				cv.Disorder = c.DefenderDisorder
			}
			for _, d := range c.Damage {
				if d.FleetID == ownFleet {
					cv.OwnDamage = append(cv.OwnDamage, api.ShipDamageView{
						ShipID:    string(d.ShipID),
						Damage:    d.Damage,
						Destroyed: d.Destroyed,
					})
				} else if d.Destroyed {
					cv.EnemyLost++
				}
			}
		}
		out.Combats = append(out.Combats, cv)
	}

	// Производство и исследования: только свои.
	for _, p := range result.Production {
		if p.OwnerID != factionID {
			continue
		}
		out.Production = append(out.Production, api.ProductionView{
			ColonyID:   p.ColonyID.String(),
			Kind:       string(p.Kind),
			DesignName: p.DesignName,
		})
	}
	for _, r := range result.Research {
		if r.FactionID == factionID {
			out.Research = append(out.Research, r.Technology)
		}
	}

	// Экономика: итог своей фракции + текущая казна.
	for _, e := range result.Economy {
		if e.FactionID != factionID {
			continue
		}
		ev := &api.EconomyView{
			Income:   resourceMap(e.Income),
			Expenses: resourceMap(e.Expenses),
		}
		if faction, ok := s.Factions[factionID]; ok {
			ev.Treasury = resourceMap(faction.Treasury)
		}
		out.Economy = ev
		break
	}

	for _, n := range result.Notifications {
		if n.Audience == "" || n.Audience == factionID {
			out.Notifications = append(out.Notifications, n.Text)
		}
	}

	if result.Winner != "" {
		out.Winner = factionName(s, result.Winner)
	}
	return out
}

// BuildGalaxyView собирает персональный срез галактики: системы по уровню
// знания и флоты (свои точно, чужие полосой силы). Устаревшие наблюдения
// из памяти фракции попадают в срез, пока уверенность не упала в ноль.
func BuildGalaxyView(s *domain.Session, factionID domain.FactionID) *api.GalaxyView {
	view := systems.ComputeView(s, factionID)
	out := &api.GalaxyView{
		Systems: []api.SystemView{},
		Fleets:  []api.FleetView{},
	}

	for _, sys := range sortedSystems(s) {
		detail := view.Systems[sys.ID]
		if detail == systems.DetailNone {
			continue
		}
		sv := api.SystemView{
			ID:     sys.ID.String(),
			Name:   sys.Name,
			X:      sys.Pos.X,
			Y:      sys.Pos.Y,
			Detail: detail.String(),
		}
		// Владелец, связность и особенности раскрываются только в покрытии.
		if detail >= systems.DetailVisible {
			sv.OwnerID = sys.OwnerID.String()
			for _, adj := range sys.Adjacent {
				sv.Adjacent = append(sv.Adjacent, adj.String())
			}
			for _, t := range sys.Terrain {
				sv.Terrain = append(sv.Terrain, t.String())
			}
		}
		out.Systems = append(out.Systems, sv)
	}

	// Свои флоты: полная детализация.
	for _, fleet := range sortedFleets(s) {
		if fleet.OwnerID != factionID {
			continue
		}
		out.Fleets = append(out.Fleets, api.FleetView{
			ID:       string(fleet.ID),
			OwnerID:  fleet.OwnerID.String(),
			SystemID: fleet.SystemID.String(),
			Own:      true,
			Ships:    len(fleet.AliveShips()),
			Strength: fleet.Strength(),
			Stance:   fleet.Stance.String(),
			Drill:    fleet.Drill,
		})
	}

	// Чужие флоты: свежие наблюдения поверх устаревшей памяти.
	reported := make(map[domain.FleetID]bool)
	for _, sighting := range sortedSightings(view.Fleets) {
		reported[sighting.FleetID] = true
		out.Fleets = append(out.Fleets, foreignFleetView(sighting, 100))
	}
	for _, sighting := range sortedSightings(s.Intel[factionID]) {
		if reported[sighting.FleetID] {
			continue
		}
		conf := sighting.Confidence(s.Turn)
		if conf <= 0 {
			continue
		}
		out.Fleets = append(out.Fleets, foreignFleetView(sighting, conf))
	}

	return out
}

func foreignFleetView(sighting *domain.Sighting, confidence int) api.FleetView {
	return api.FleetView{
		ID:                string(sighting.FleetID),
		OwnerID:           sighting.OwnerID.String(),
		SystemID:          sighting.SystemID.String(),
		EstimatedStrength: string(sighting.Band),
		Confidence:        confidence,
	}
}

func factionName(s *domain.Session, id domain.FactionID) string {
	if f, ok := s.Factions[id]; ok {
		return f.Name
	}
	return string(id)
}

func resourceMap(m map[domain.ResourceKind]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}

func sortedSightings(m map[domain.FleetID]*domain.Sighting) []*domain.Sighting {
	list := make([]*domain.Sighting, 0, len(m))
	for _, s := range m {
		list = append(list, s)
	}
	sort.Slice(list, func(a, b int) bool { return list[a].FleetID < list[b].FleetID })
	return list
}
