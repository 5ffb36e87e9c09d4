package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"voidreach-server/internal/domain"
	"voidreach-server/internal/engine/handlers"
	"voidreach-server/internal/systems"
	"voidreach-server/pkg/api"
)

// ownFleet возвращает флот игрока. Чужой или несуществующий флот дает одну
// и ту же причину отказа: туман войны не должен подтверждать существование
// чужих флотов через текст ошибки.
func ownFleet(ctx handlers.Context, id string) (*domain.Fleet, error) {
	fleet, ok := ctx.Session.Fleets[domain.FleetID(id)]
	if !ok || fleet.OwnerID != ctx.Faction.ID {
		return nil, errors.New("Fleet not found")
	}
	return fleet, nil
}

// ownColony - то же для колоний.
func ownColony(ctx handlers.Context, id string) (*domain.Colony, error) {
	colony, ok := ctx.Session.Colonies[domain.ColonyID(id)]
	if !ok || colony.OwnerID != ctx.Faction.ID {
		return nil, errors.New("Colony not found")
	}
	return colony, nil
}

// --- MOVE_FLEET ---

var ValidateMoveFleet = handlers.WithPayloadValidate(func(ctx handlers.Context, p api.MoveFleetPayload) error {
	fleet, err := ownFleet(ctx, p.FleetID)
	if err != nil {
		return err
	}
	if fleet.InTransit() {
		return errors.New("Fleet is already in transit")
	}

	target := domain.SystemID(p.TargetSystemID)
	if _, ok := ctx.Session.Systems[target]; !ok || !ctx.View.CanReference(target) {
		// Неизвестная фракции система "не существует" для ее команд.
		return errors.New("Target system not found")
	}

	current := ctx.Session.Systems[fleet.SystemID]
	if current == nil || !current.IsAdjacent(target) {
		return errors.New("Target system is not reachable from the fleet's position")
	}
	return nil
})

var ExecuteMoveFleet = handlers.WithPayload(func(ctx handlers.Context, p api.MoveFleetPayload) (handlers.Result, error) {
	fleet, err := ownFleet(ctx, p.FleetID)
	if err != nil {
		return handlers.Result{}, err
	}
	target := domain.SystemID(p.TargetSystemID)
	sys, ok := ctx.Session.Systems[target]
	if !ok {
		return handlers.Result{}, errors.New("Target system not found")
	}
	systems.BeginTransit(fleet, target)
	return handlers.Result{
		Msg:     fmt.Sprintf("Fleet %s is en route to %s", fleet.Name, sys.Name),
		MsgType: "INFO",
	}, nil
})

// --- SET_FLEET_STANCE ---

func parseStance(s string) (domain.FleetStance, error) {
	switch s {
	case "NEUTRAL":
		return domain.StanceNeutral, nil
	case "AGGRESSIVE":
		return domain.StanceAggressive, nil
	case "DEFENSIVE":
		return domain.StanceDefensive, nil
	case "CLOAKED":
		return domain.StanceCloaked, nil
	}
	return domain.StanceNeutral, fmt.Errorf("unknown stance %q", s)
}

var ValidateSetStance = handlers.WithPayloadValidate(func(ctx handlers.Context, p api.FleetStancePayload) error {
	fleet, err := ownFleet(ctx, p.FleetID)
	if err != nil {
		return err
	}
	stance, err := parseStance(p.Stance)
	if err != nil {
		return err
	}
	if stance == domain.StanceCloaked && fleet.CounterDetection() == 0 {
		// Скрытность требует хотя бы одного корабля с маскировочным
		// оборудованием (contra-detection rating дублирует его наличие).
		return errors.New("Fleet has no cloaking-capable ships")
	}
	return nil
})

var ExecuteSetStance = handlers.WithPayload(func(ctx handlers.Context, p api.FleetStancePayload) (handlers.Result, error) {
	fleet, err := ownFleet(ctx, p.FleetID)
	if err != nil {
		return handlers.Result{}, err
	}
	stance, err := parseStance(p.Stance)
	if err != nil {
		return handlers.Result{}, err
	}
	fleet.Stance = stance
	return handlers.EmptyResult(), nil
})

// --- SET_DOCTRINE ---

var ValidateSetDoctrine = handlers.WithPayloadValidate(func(ctx handlers.Context, p api.DoctrinePayload) error {
	if _, err := ownFleet(ctx, p.FleetID); err != nil {
		return err
	}
	var doctrine domain.BattleDoctrine
	if err := json.Unmarshal(p.Doctrine, &doctrine); err != nil {
		return fmt.Errorf("malformed doctrine: %w", err)
	}
	// Семантически кривая доктрина (пустые цели, порог вне границ) тут
	// НЕ отклоняется: в бою ее молча заменит дефолтная (Normalized).
	return nil
})

var ExecuteSetDoctrine = handlers.WithPayload(func(ctx handlers.Context, p api.DoctrinePayload) (handlers.Result, error) {
	fleet, err := ownFleet(ctx, p.FleetID)
	if err != nil {
		return handlers.Result{}, err
	}
	var doctrine domain.BattleDoctrine
	if err := json.Unmarshal(p.Doctrine, &doctrine); err != nil {
		return handlers.Result{}, fmt.Errorf("malformed doctrine: %w", err)
	}
	fleet.Doctrine = &doctrine
	return handlers.EmptyResult(), nil
})

// --- TRAIN_FLEET ---

// trainCost - стоимость одного цикла учений.
var trainCost = map[domain.ResourceKind]int{domain.ResourceCredits: 50}

var ValidateTrainFleet = handlers.WithPayloadValidate(func(ctx handlers.Context, p api.TrainFleetPayload) error {
	fleet, err := ownFleet(ctx, p.FleetID)
	if err != nil {
		return err
	}
	if fleet.InTransit() {
		return errors.New("Fleet cannot train while in transit")
	}
	if fleet.Drill >= domain.DrillMax {
		return errors.New("Fleet is already fully drilled")
	}
	if !ctx.Faction.CanAfford(trainCost) {
		return errors.New("Not enough credits for training")
	}
	return nil
})

var ExecuteTrainFleet = handlers.WithPayload(func(ctx handlers.Context, p api.TrainFleetPayload) (handlers.Result, error) {
	fleet, err := ownFleet(ctx, p.FleetID)
	if err != nil {
		return handlers.Result{}, err
	}
	if !ctx.Faction.CanAfford(trainCost) {
		return handlers.Result{}, errors.New("Not enough credits for training")
	}
	ctx.Faction.Spend(trainCost)
	fleet.Drill += domain.DrillPerTraining
	if fleet.Drill > domain.DrillMax {
		fleet.Drill = domain.DrillMax
	}
	return handlers.Result{
		Msg:     fmt.Sprintf("Fleet %s completed drills (%d/%d)", fleet.Name, fleet.Drill, domain.DrillMax),
		MsgType: "INFO",
	}, nil
})

// --- MERGE_FLEETS ---

var ValidateMergeFleets = handlers.WithPayloadValidate(func(ctx handlers.Context, p api.MergeFleetsPayload) error {
	if p.SourceFleetID == p.TargetFleetID {
		return errors.New("Cannot merge a fleet into itself")
	}
	source, err := ownFleet(ctx, p.SourceFleetID)
	if err != nil {
		return err
	}
	target, err := ownFleet(ctx, p.TargetFleetID)
	if err != nil {
		return err
	}
	if source.InTransit() || target.InTransit() {
		return errors.New("Both fleets must be stationary to merge")
	}
	if source.SystemID != target.SystemID {
		return errors.New("Fleets must be in the same system to merge")
	}
	return nil
})

var ExecuteMergeFleets = handlers.WithPayload(func(ctx handlers.Context, p api.MergeFleetsPayload) (handlers.Result, error) {
	source, err := ownFleet(ctx, p.SourceFleetID)
	if err != nil {
		return handlers.Result{}, err
	}
	target, err := ownFleet(ctx, p.TargetFleetID)
	if err != nil {
		return handlers.Result{}, err
	}
	if source.SystemID != target.SystemID || source.InTransit() || target.InTransit() {
		return handlers.Result{}, errors.New("Fleets must be in the same system to merge")
	}

	target.Ships = append(target.Ships, source.Ships...)
	// Смешанный экипаж теряет слаженность: выучка падает до худшей из двух.
	if source.Drill < target.Drill {
		target.Drill = source.Drill
	}
	target.CommanderPresent = target.CommanderPresent || source.CommanderPresent
	ctx.Session.RemoveFleet(source.ID)

	return handlers.Result{
		Msg:     fmt.Sprintf("Fleet %s absorbed into %s", source.Name, target.Name),
		MsgType: "INFO",
	}, nil
})

// --- SPLIT_FLEET ---

var ValidateSplitFleet = handlers.WithPayloadValidate(func(ctx handlers.Context, p api.SplitFleetPayload) error {
	fleet, err := ownFleet(ctx, p.FleetID)
	if err != nil {
		return err
	}
	if fleet.InTransit() {
		return errors.New("Fleet cannot split while in transit")
	}
	if len(p.ShipIDs) >= len(fleet.AliveShips()) {
		return errors.New("Cannot split away every ship in the fleet")
	}
	owned := make(map[domain.ShipID]bool, len(fleet.Ships))
	for _, s := range fleet.Ships {
		owned[s.ID] = true
	}
	for _, id := range p.ShipIDs {
		if !owned[domain.ShipID(id)] {
			return errors.New("Ship not found in fleet")
		}
	}
	return nil
})

var ExecuteSplitFleet = handlers.WithPayload(func(ctx handlers.Context, p api.SplitFleetPayload) (handlers.Result, error) {
	fleet, err := ownFleet(ctx, p.FleetID)
	if err != nil {
		return handlers.Result{}, err
	}

	moving := make(map[domain.ShipID]bool, len(p.ShipIDs))
	for _, id := range p.ShipIDs {
		moving[domain.ShipID(id)] = true
	}

	var kept, split []*domain.Ship
	for _, s := range fleet.Ships {
		if moving[s.ID] {
			split = append(split, s)
		} else {
			kept = append(kept, s)
		}
	}
	if len(split) == 0 || len(kept) == 0 {
		return handlers.Result{}, errors.New("Cannot split away every ship in the fleet")
	}

	fleet.Ships = kept
	detachment := &domain.Fleet{
		ID:       domain.FleetID(domain.NewID()),
		Name:     fleet.Name + " Detachment",
		OwnerID:  fleet.OwnerID,
		SystemID: fleet.SystemID,
		Speed:    fleet.Speed,
		Stance:   fleet.Stance,
		Ships:    split,
		Drill:    fleet.Drill,
		// Командир остается с основным составом.
		CommanderPresent: false,
	}
	ctx.Session.Fleets[detachment.ID] = detachment

	return handlers.Result{
		Msg:     fmt.Sprintf("Detachment of %d ships split from %s", len(split), fleet.Name),
		MsgType: "INFO",
	}, nil
})
