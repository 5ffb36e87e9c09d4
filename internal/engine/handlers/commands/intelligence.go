package commands

import (
	"errors"
	"fmt"

	"voidreach-server/internal/domain"
	"voidreach-server/internal/engine/handlers"
	"voidreach-server/internal/systems"
	"voidreach-server/pkg/api"
)

// --- SCOUT_SYSTEM ---
//
// Сенсорный прогон: флот, не сходя с места, просвечивает соседнюю систему
// и записывает наблюдения в разведпамять фракции. В отличие от перелета
// данные появляются сразу, но флот остается на виду у противника.

var ValidateScoutSystem = handlers.WithPayloadValidate(func(ctx handlers.Context, p api.ScoutPayload) error {
	fleet, err := ownFleet(ctx, p.FleetID)
	if err != nil {
		return err
	}
	if fleet.InTransit() {
		return errors.New("Fleet cannot scout while in transit")
	}

	target := domain.SystemID(p.TargetSystemID)
	if _, ok := ctx.Session.Systems[target]; !ok || !ctx.View.CanReference(target) {
		return errors.New("Target system not found")
	}
	current := ctx.Session.Systems[fleet.SystemID]
	if current == nil || !current.IsAdjacent(target) {
		return errors.New("Target system is out of sensor sweep range")
	}
	return nil
})

var ExecuteScoutSystem = handlers.WithPayload(func(ctx handlers.Context, p api.ScoutPayload) (handlers.Result, error) {
	fleet, err := ownFleet(ctx, p.FleetID)
	if err != nil {
		return handlers.Result{}, err
	}
	target := domain.SystemID(p.TargetSystemID)
	if _, ok := ctx.Session.Systems[target]; !ok {
		return handlers.Result{}, errors.New("Target system not found")
	}

	counter := fleet.CounterDetection()
	spotted := 0

	intel := ctx.Session.Intel[ctx.Faction.ID]
	if intel == nil {
		intel = make(map[domain.FleetID]*domain.Sighting)
		ctx.Session.Intel[ctx.Faction.ID] = intel
	}

	for id, other := range ctx.Session.Fleets {
		if other.OwnerID == ctx.Faction.ID || other.InTransit() || other.SystemID != target {
			continue
		}
		if other.Stance == domain.StanceCloaked && counter < other.SensorRange() {
			continue
		}
		intel[id] = &domain.Sighting{
			FleetID:  id,
			OwnerID:  other.OwnerID,
			SystemID: other.SystemID,
			Band:     systems.StrengthBand(other.Strength()),
			SeenTurn: ctx.Session.Turn,
		}
		spotted++
	}

	return handlers.Result{
		Msg:     fmt.Sprintf("Sensor sweep of %s complete: %d contacts", ctx.Session.Systems[target].Name, spotted),
		MsgType: "INFO",
	}, nil
})
