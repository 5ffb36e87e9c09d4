// Package admin содержит операторские команды, обходящие обычную валидацию
// и фазовый конвейер. Доступны только через отладочную/админскую поверхность,
// применяются к сессии немедленно.
package admin

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"voidreach-server/internal/domain"
	"voidreach-server/internal/systems"
	"voidreach-server/pkg/api"
	"voidreach-server/pkg/galaxy"
	"voidreach-server/pkg/logger"
)

// log берет компонентный логгер лениво: пакет инициализируется раньше,
// чем main успевает вызвать logger.Init.
func log() *logrus.Entry {
	return logger.WithComponent("admin")
}

// CheatFunc применяет одну админ-команду к сессии и возвращает человеческое
// описание сделанного.
type CheatFunc func(s *domain.Session, raw json.RawMessage, rng *rand.Rand) (string, error)

// Registry - таблица админ-команд по имени действия.
func Registry() map[string]CheatFunc {
	return map[string]CheatFunc{
		"ADMIN_SPAWN_FLEET":     SpawnFleet,
		"ADMIN_GRANT_RESOURCES": GrantResources,
		"ADMIN_TELEPORT_FLEET":  TeleportFleet,
		"ADMIN_FORCE_COMBAT":    ForceCombat,
	}
}

func decode[T any](raw json.RawMessage) (T, error) {
	var payload T
	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, fmt.Errorf("unmarshal payload: %w", err)
	}
	if err := api.ValidateStruct(payload); err != nil {
		return payload, err
	}
	return payload, nil
}

// SpawnFleet создает флот из N кораблей указанного дизайна. Ресурсы не
// списываются.
func SpawnFleet(s *domain.Session, raw json.RawMessage, _ *rand.Rand) (string, error) {
	p, err := decode[api.AdminSpawnFleetPayload](raw)
	if err != nil {
		return "", err
	}

	faction, ok := s.Factions[domain.FactionID(p.FactionID)]
	if !ok {
		return "", errors.New("faction not found")
	}
	sys, ok := s.Systems[domain.SystemID(p.SystemID)]
	if !ok {
		return "", errors.New("system not found")
	}

	designName := p.Design
	if designName == "" {
		designName = galaxy.DefaultDesignName
	}
	design, ok := galaxy.DesignByName(designName)
	if !ok {
		return "", fmt.Errorf("unknown design %q", designName)
	}
	count := p.Count
	if count == 0 {
		count = 1
	}

	fleet := &domain.Fleet{
		ID:               domain.FleetID(domain.NewID()),
		Name:             fmt.Sprintf("%s Task Force", faction.Name),
		OwnerID:          faction.ID,
		SystemID:         sys.ID,
		Speed:            galaxy.FleetSpeedDefault,
		CommanderPresent: true,
	}
	for i := 0; i < count; i++ {
		fleet.Ships = append(fleet.Ships, design.NewShip())
	}
	s.Fleets[fleet.ID] = fleet

	log().WithField("fleet", fleet.ID).Infof("🛠 spawned %d x %s for %s at %s", count, design.Name, faction.Name, sys.Name)
	return fmt.Sprintf("spawned fleet %s (%d x %s)", fleet.ID, count, design.Name), nil
}

// GrantResources зачисляет (или списывает, при отрицательной сумме) ресурс.
func GrantResources(s *domain.Session, raw json.RawMessage, _ *rand.Rand) (string, error) {
	p, err := decode[api.AdminGrantPayload](raw)
	if err != nil {
		return "", err
	}

	faction, ok := s.Factions[domain.FactionID(p.FactionID)]
	if !ok {
		return "", errors.New("faction not found")
	}

	kind := domain.ResourceKind(p.Resource)
	switch kind {
	case domain.ResourceCredits, domain.ResourceMinerals, domain.ResourceFuel, domain.ResourceScience:
	default:
		return "", fmt.Errorf("unknown resource %q", p.Resource)
	}

	faction.Credit(kind, p.Amount)
	faction.ClampTreasury()

	log().Infof("🛠 granted %d %s to %s", p.Amount, kind, faction.Name)
	return fmt.Sprintf("treasury of %s: %s = %d", faction.Name, kind, faction.Resource(kind)), nil
}

// TeleportFleet мгновенно переносит флот, сбрасывая перелет.
func TeleportFleet(s *domain.Session, raw json.RawMessage, _ *rand.Rand) (string, error) {
	p, err := decode[api.AdminTeleportPayload](raw)
	if err != nil {
		return "", err
	}

	fleet, ok := s.Fleets[domain.FleetID(p.FleetID)]
	if !ok {
		return "", errors.New("fleet not found")
	}
	sys, ok := s.Systems[domain.SystemID(p.SystemID)]
	if !ok {
		return "", errors.New("system not found")
	}

	fleet.SystemID = sys.ID
	fleet.DestinationID = ""
	fleet.Progress = 0

	log().Infof("🛠 teleported fleet %s to %s", fleet.Name, sys.Name)
	return fmt.Sprintf("fleet %s now at %s", fleet.Name, sys.Name), nil
}

// ForceCombat немедленно сталкивает два флота без живых приказов.
// Результат дописывается в историю сессии отдельной записью текущего хода.
func ForceCombat(s *domain.Session, raw json.RawMessage, rng *rand.Rand) (string, error) {
	p, err := decode[api.AdminForceCombatPayload](raw)
	if err != nil {
		return "", err
	}

	attacker, ok := s.Fleets[domain.FleetID(p.FleetA)]
	if !ok {
		return "", errors.New("attacking fleet not found")
	}
	defender, ok := s.Fleets[domain.FleetID(p.FleetB)]
	if !ok {
		return "", errors.New("defending fleet not found")
	}
	if attacker.OwnerID == defender.OwnerID {
		return "", errors.New("fleets belong to the same faction")
	}

	sys := s.Systems[defender.SystemID]
	if sys == nil {
		return "", errors.New("defender is not in a known system")
	}

	record := systems.NewEncounter(sys, attacker, defender, rng, systems.NoIntervention{}).Resolve()
	cleanupDestroyed(s, attacker)
	cleanupDestroyed(s, defender)

	log().Infof("🛠 forced combat at %s: %s after %d rounds", sys.Name, record.Outcome, record.Rounds)
	return fmt.Sprintf("combat at %s: %s (%d rounds)", sys.Name, record.Outcome, record.Rounds), nil
}

func cleanupDestroyed(s *domain.Session, fleet *domain.Fleet) {
	if len(fleet.AliveShips()) == 0 {
		s.RemoveFleet(fleet.ID)
	}
}
