package systems

import (
	"voidreach-server/internal/domain"
)

// Detail - уровень знания наблюдателя о сущности.
type Detail uint8

const (
	// DetailNone - сущность не существует для наблюдателя.
	DetailNone Detail = iota
	// DetailKnown - известен только факт существования (смежность с владением).
	DetailKnown
	// DetailVisible - сущность в активном сенсорном покрытии.
	DetailVisible
	// DetailOwned - собственный актив: полная детализация.
	DetailOwned
)

func (d Detail) String() string {
	switch d {
	case DetailKnown:
		return "KNOWN"
	case DetailVisible:
		return "VISIBLE"
	case DetailOwned:
		return "OWNED"
	default:
		return "NONE"
	}
}

// View - срез знаний одной фракции о мире. Вычисляется заново каждый раз;
// "память" об устаревших наблюдениях живет в Session.Intel.
type View struct {
	FactionID domain.FactionID

	Systems map[domain.SystemID]Detail

	// Fleets - чужие флоты, обнаруженные СЕЙЧАС (свои сюда не входят).
	Fleets map[domain.FleetID]*domain.Sighting
}

// SystemDetail возвращает уровень знания о системе.
func (v *View) SystemDetail(id domain.SystemID) Detail {
	return v.Systems[id]
}

// CanReference сообщает, может ли команда фракции легально ссылаться на
// систему. Достаточно знать о ее существовании.
func (v *View) CanReference(id domain.SystemID) bool {
	return v.Systems[id] >= DetailKnown
}

// ComputeView строит срез тумана войны для фракции.
//
// Система видима, если: принадлежит фракции, смежна с ее системой, или
// попадает в сенсорное покрытие флота/колонии фракции. Скрытые (cloaked)
// флоты исключаются из обнаружения, если у наблюдателя в системе нет
// подходящего контр-обнаружения.
func ComputeView(s *domain.Session, factionID domain.FactionID) *View {
	view := &View{
		FactionID: factionID,
		Systems:   make(map[domain.SystemID]Detail),
		Fleets:    make(map[domain.FleetID]*domain.Sighting),
	}

	// 1. Собственные системы: полная детализация.
	for id, sys := range s.Systems {
		if sys.OwnerID == factionID {
			view.Systems[id] = DetailOwned
		}
	}

	// 2. Смежность: о соседях владений известен факт существования.
	for id, sys := range s.Systems {
		if view.Systems[id] != DetailOwned {
			continue
		}
		for _, adj := range sys.Adjacent {
			if view.Systems[adj] < DetailKnown {
				view.Systems[adj] = DetailKnown
			}
		}
	}

	// 3. Сенсорное покрытие колоний.
	for _, colony := range s.Colonies {
		if colony.OwnerID != factionID {
			continue
		}
		reach := colony.SensorRange
		if reach <= 0 {
			reach = domain.SensorRangeDefault
		}
		markCovered(s, view, colony.SystemID, reach)
	}

	// 4. Сенсорное покрытие флотов (включая флоты в перелете: сенсоры
	// смотрят из системы отправления, пока прыжок не завершен).
	for _, fleet := range s.Fleets {
		if fleet.OwnerID != factionID {
			continue
		}
		markCovered(s, view, fleet.SystemID, fleet.SensorRange())
	}

	// 5. Обнаружение чужих флотов в покрытых системах.
	counterDetection := bestCounterDetection(s, factionID)
	for id, fleet := range s.Fleets {
		if fleet.OwnerID == factionID || fleet.InTransit() {
			continue
		}
		if view.Systems[fleet.SystemID] < DetailVisible {
			continue
		}
		if fleet.Stance == domain.StanceCloaked {
			// Скрытый флот виден только при контр-обнаружении не слабее
			// его собственных сенсоров.
			if counterDetection[fleet.SystemID] < fleet.SensorRange() {
				continue
			}
		}
		view.Fleets[id] = &domain.Sighting{
			FleetID:  id,
			OwnerID:  fleet.OwnerID,
			SystemID: fleet.SystemID,
			Band:     StrengthBand(fleet.Strength()),
			SeenTurn: s.Turn,
		}
	}

	return view
}

// markCovered помечает системы в радиусе reach прыжков от origin как
// DetailVisible (BFS по графу гиперлиний).
func markCovered(s *domain.Session, view *View, origin domain.SystemID, reach int) {
	if _, ok := s.Systems[origin]; !ok {
		return
	}

	type hop struct {
		id   domain.SystemID
		dist int
	}
	queue := []hop{{origin, 0}}
	seen := map[domain.SystemID]bool{origin: true}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if view.Systems[cur.id] < DetailVisible {
			view.Systems[cur.id] = maxDetail(view.Systems[cur.id], DetailVisible)
		}

		if cur.dist >= reach {
			continue
		}
		sys := s.Systems[cur.id]
		if sys == nil {
			continue
		}
		for _, adj := range sys.Adjacent {
			if !seen[adj] {
				seen[adj] = true
				queue = append(queue, hop{adj, cur.dist + 1})
			}
		}
	}
}

func maxDetail(a, b Detail) Detail {
	if a > b {
		return a
	}
	return b
}

// bestCounterDetection - лучшее контр-обнаружение фракции по системам
// (считаются флоты фракции, стоящие в системе).
func bestCounterDetection(s *domain.Session, factionID domain.FactionID) map[domain.SystemID]int {
	best := make(map[domain.SystemID]int)
	for _, fleet := range s.Fleets {
		if fleet.OwnerID != factionID || fleet.InTransit() {
			continue
		}
		cd := fleet.CounterDetection()
		if cd > best[fleet.SystemID] {
			best[fleet.SystemID] = cd
		}
	}
	return best
}

// StrengthBand переводит точную силу флота в оценочную полосу.
func StrengthBand(strength int) domain.StrengthBand {
	switch {
	case strength < 50:
		return domain.BandTrivial
	case strength < 200:
		return domain.BandModerate
	case strength < 600:
		return domain.BandStrong
	default:
		return domain.BandOverwhelming
	}
}

// RecordSightings записывает свежие наблюдения в память фракции.
// Вызывается пайплайном после фазы движения, чтобы отчеты хода опирались
// на актуальную разведку.
func RecordSightings(s *domain.Session, factionID domain.FactionID, view *View) {
	if s.Intel[factionID] == nil {
		s.Intel[factionID] = make(map[domain.FleetID]*domain.Sighting)
	}
	for id, sighting := range view.Fleets {
		s.Intel[factionID][id] = sighting
	}
	// Наблюдения уничтоженных флотов чистим: нечего помнить.
	for id := range s.Intel[factionID] {
		if _, alive := s.Fleets[id]; !alive {
			delete(s.Intel[factionID], id)
		}
	}
}
