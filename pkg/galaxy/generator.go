// Package galaxy генерирует звездную карту и держит статические каталоги
// (дизайны кораблей, здания, технологии, расовые пресеты).
package galaxy

import (
	"fmt"
	"math/rand"

	"voidreach-server/internal/domain"
	"voidreach-server/pkg/utils"
)

// Config - параметры генерации. Seed полностью определяет результат:
// одинаковый Config дает побайтно одинаковую карту.
type Config struct {
	Size    int   // Число систем
	Players int   // Число стартовых позиций
	Seed    int64 // Мастер-зерно сессии
}

// Map - результат генерации: граф систем и стартовые позиции игроков.
type Map struct {
	Systems map[domain.SystemID]*domain.System
	Starts  []domain.SystemID
}

// Generator строит карту по конфигурации.
type Generator interface {
	Generate(cfg Config) (*Map, error)
}

// DefaultGenerator - встроенный генератор: связный граф соседств по
// близости координат, равномерный разброс терраина, стартовые позиции
// разведены по графу максимально далеко друг от друга.
type DefaultGenerator struct{}

func (DefaultGenerator) Generate(cfg Config) (*Map, error) {
	if cfg.Players < 1 {
		return nil, fmt.Errorf("galaxy needs at least one start, got %d", cfg.Players)
	}
	if cfg.Size < cfg.Players*2 {
		return nil, fmt.Errorf("galaxy of %d systems is too small for %d players", cfg.Size, cfg.Players)
	}

	rng := utils.NewRand(utils.SubSeed(cfg.Seed, "galaxy"))

	m := &Map{Systems: make(map[domain.SystemID]*domain.System, cfg.Size)}
	ordered := make([]*domain.System, 0, cfg.Size)

	// Системы раскидываются по квадрату со стороной ~4*sqrt(Size),
	// без совпадающих координат.
	side := 4
	for side*side < cfg.Size*16 {
		side++
	}
	taken := make(map[domain.Position]bool)
	for i := 0; i < cfg.Size; i++ {
		var pos domain.Position
		for {
			pos = domain.Position{X: rng.Intn(side), Y: rng.Intn(side)}
			if !taken[pos] {
				taken[pos] = true
				break
			}
		}
		sys := &domain.System{
			ID:      domain.SystemID(domain.NewID()),
			Name:    systemName(rng),
			Pos:     pos,
			Terrain: rollTerrain(rng),
		}
		m.Systems[sys.ID] = sys
		ordered = append(ordered, sys)
	}

	connect(ordered, rng)

	m.Starts = pickStarts(m.Systems, ordered, cfg.Players)

	// Стартовые системы всегда чистый космос: терраин не должен
	// наказывать за оборону родной системы с первого хода.
	for _, id := range m.Starts {
		m.Systems[id].Terrain = nil
	}

	return m, nil
}

// connect строит ненаправленный связный граф: цепочка по порядку генерации
// гарантирует связность, поверх нее каждая система тянется к 1-2 ближайшим
// по координатам соседям.
func connect(ordered []*domain.System, rng *rand.Rand) {
	link := func(a, b *domain.System) {
		if a == b || a.IsAdjacent(b.ID) {
			return
		}
		a.Adjacent = append(a.Adjacent, b.ID)
		b.Adjacent = append(b.Adjacent, a.ID)
	}

	for i := 1; i < len(ordered); i++ {
		link(ordered[i-1], ordered[i])
	}

	for _, sys := range ordered {
		extra := 1 + rng.Intn(2)
		for n := 0; n < extra; n++ {
			if nearest := nearestUnlinked(sys, ordered); nearest != nil {
				link(sys, nearest)
			}
		}
	}
}

func nearestUnlinked(sys *domain.System, ordered []*domain.System) *domain.System {
	var best *domain.System
	bestDist := int(^uint(0) >> 1)
	for _, other := range ordered {
		if other == sys || sys.IsAdjacent(other.ID) {
			continue
		}
		dx := sys.Pos.X - other.Pos.X
		dy := sys.Pos.Y - other.Pos.Y
		dist := dx*dx + dy*dy
		if dist < bestDist {
			bestDist = dist
			best = other
		}
	}
	return best
}

// rollTerrain назначает системе 0-2 особенности.
func rollTerrain(rng *rand.Rand) []domain.TerrainFeature {
	pool := []domain.TerrainFeature{
		domain.TerrainNebula,
		domain.TerrainStarProximity,
		domain.TerrainAsteroidField,
		domain.TerrainWormhole,
	}
	var features []domain.TerrainFeature
	for _, f := range pool {
		if rng.Intn(100) < 15 {
			features = append(features, f)
		}
		if len(features) == 2 {
			break
		}
	}
	return features
}

// pickStarts разводит стартовые позиции жадно по BFS-дистанции:
// первая - детерминированно первая сгенерированная, каждая следующая -
// самая далекая от уже выбранных.
func pickStarts(systems map[domain.SystemID]*domain.System, ordered []*domain.System, players int) []domain.SystemID {
	starts := []domain.SystemID{ordered[0].ID}

	for len(starts) < players {
		var best domain.SystemID
		bestDist := -1
		for _, sys := range ordered {
			if contains(starts, sys.ID) {
				continue
			}
			dist := minDistance(systems, sys.ID, starts)
			if dist > bestDist {
				bestDist = dist
				best = sys.ID
			}
		}
		starts = append(starts, best)
	}
	return starts
}

func contains(ids []domain.SystemID, id domain.SystemID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// minDistance - кратчайшая BFS-дистанция от from до ближайшей из targets.
func minDistance(systems map[domain.SystemID]*domain.System, from domain.SystemID, targets []domain.SystemID) int {
	type hop struct {
		id   domain.SystemID
		dist int
	}
	queue := []hop{{from, 0}}
	seen := map[domain.SystemID]bool{from: true}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if contains(targets, cur.id) {
			return cur.dist
		}
		sys := systems[cur.id]
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
	return len(systems) // Несвязно - считаем максимально далеким
}

var namePrefixes = []string{
	"Al", "Be", "Cygn", "Den", "Eri", "Fom", "Gli", "Hyd",
	"Ix", "Kep", "Lyr", "Mir", "Nov", "Oph", "Pol", "Rig",
	"Sir", "Tau", "Ur", "Veg", "Wez", "Xi", "Yil", "Zos",
}

var nameSuffixes = []string{
	"a", "ar", "eth", "ia", "ion", "is", "on", "os", "ul", "um", "une", "yx",
}

func systemName(rng *rand.Rand) string {
	name := namePrefixes[rng.Intn(len(namePrefixes))] + nameSuffixes[rng.Intn(len(nameSuffixes))]
	if rng.Intn(100) < 30 {
		name = fmt.Sprintf("%s %s", name, []string{"Prime", "Minor", "Majoris", "Secundus"}[rng.Intn(4)])
	}
	return name
}
