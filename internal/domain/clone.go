package domain

// Clone делает глубокую копию сессии. Конвейер хода работает на копии и
// подменяет оригинал только после успешного завершения: упавший ход не
// оставляет за собой полуприменённого состояния.
//
// История и сданные пакеты копируются по ссылке: они неизменяемые.
func (s *Session) Clone() *Session {
	clone := &Session{
		ID:        s.ID,
		JoinCode:  s.JoinCode,
		State:     s.State,
		Settings:  s.Settings,
		Seed:      s.Seed,
		Turn:      s.Turn,
		Winner:    s.Winner,
		CreatedAt: s.CreatedAt,

		Slots:         make(map[PlayerID]*PlayerSlot, len(s.Slots)),
		Factions:      make(map[FactionID]*Faction, len(s.Factions)),
		Systems:       make(map[SystemID]*System, len(s.Systems)),
		Fleets:        make(map[FleetID]*Fleet, len(s.Fleets)),
		Colonies:      make(map[ColonyID]*Colony, len(s.Colonies)),
		PendingOrders: s.PendingOrders,
		History:       s.History,
		Intel:         make(map[FactionID]map[FleetID]*Sighting, len(s.Intel)),
	}

	clone.Settings.Victory = append([]VictoryCondition(nil), s.Settings.Victory...)

	for id, slot := range s.Slots {
		c := *slot
		clone.Slots[id] = &c
	}

	for id, faction := range s.Factions {
		clone.Factions[id] = faction.clone()
	}

	for id, sys := range s.Systems {
		c := *sys
		c.Adjacent = append([]SystemID(nil), sys.Adjacent...)
		c.Terrain = append([]TerrainFeature(nil), sys.Terrain...)
		clone.Systems[id] = &c
	}

	for id, fleet := range s.Fleets {
		clone.Fleets[id] = fleet.clone()
	}

	for id, colony := range s.Colonies {
		clone.Colonies[id] = colony.clone()
	}

	for factionID, sightings := range s.Intel {
		m := make(map[FleetID]*Sighting, len(sightings))
		for fleetID, sighting := range sightings {
			c := *sighting
			m[fleetID] = &c
		}
		clone.Intel[factionID] = m
	}

	return clone
}

func (f *Faction) clone() *Faction {
	c := *f
	c.Treasury = cloneResourceMap(f.Treasury)
	c.Technologies = append([]string(nil), f.Technologies...)
	if f.Research != nil {
		r := *f.Research
		c.Research = &r
	}
	if f.Relations != nil {
		c.Relations = make(map[FactionID]Relation, len(f.Relations))
		for id, rel := range f.Relations {
			c.Relations[id] = rel
		}
	}
	if f.Houses != nil {
		c.Houses = make(map[HouseID]*House, len(f.Houses))
		for id, house := range f.Houses {
			h := *house
			h.Members = append([]PlayerID(nil), house.Members...)
			if house.Seats != nil {
				h.Seats = make(map[string]PlayerID, len(house.Seats))
				for seat, player := range house.Seats {
					h.Seats[seat] = player
				}
			}
			c.Houses[id] = &h
		}
	}
	return &c
}

func (f *Fleet) clone() *Fleet {
	c := *f
	c.Ships = make([]*Ship, len(f.Ships))
	for i, ship := range f.Ships {
		s := *ship
		c.Ships[i] = &s
	}
	if f.Doctrine != nil {
		d := *f.Doctrine
		d.Targeting = append([]TargetPriority(nil), f.Doctrine.Targeting...)
		d.Conditional = append([]ConditionalOrder(nil), f.Doctrine.Conditional...)
		c.Doctrine = &d
	}
	return &c
}

func (col *Colony) clone() *Colony {
	c := *col
	c.Production = cloneResourceMap(col.Production)
	c.Buildings = append([]string(nil), col.Buildings...)
	c.BuildQueue = make([]*BuildItem, len(col.BuildQueue))
	for i, item := range col.BuildQueue {
		b := *item
		b.Cost = cloneResourceMap(item.Cost)
		c.BuildQueue[i] = &b
	}
	return &c
}

func cloneResourceMap(m map[ResourceKind]int) map[ResourceKind]int {
	if m == nil {
		return nil
	}
	c := make(map[ResourceKind]int, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
