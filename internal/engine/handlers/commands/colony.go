package commands

import (
	"errors"
	"fmt"

	"voidreach-server/internal/domain"
	"voidreach-server/internal/engine/handlers"
	"voidreach-server/pkg/api"
	"voidreach-server/pkg/galaxy"
)

// --- BUILD_SHIP ---

var ValidateBuildShip = handlers.WithPayloadValidate(func(ctx handlers.Context, p api.BuildShipPayload) error {
	if _, err := ownColony(ctx, p.ColonyID); err != nil {
		return err
	}
	design, ok := galaxy.DesignByName(p.DesignName)
	if !ok {
		return errors.New("Unknown ship design")
	}
	if design.Technology != "" && !ctx.Faction.HasTechnology(design.Technology) {
		return fmt.Errorf("Design %s requires technology %s", design.Name, design.Technology)
	}
	if !ctx.Faction.CanAfford(design.Cost) {
		return errors.New("Not enough resources")
	}
	return nil
})

var ExecuteBuildShip = handlers.WithPayload(func(ctx handlers.Context, p api.BuildShipPayload) (handlers.Result, error) {
	colony, err := ownColony(ctx, p.ColonyID)
	if err != nil {
		return handlers.Result{}, err
	}
	design, ok := galaxy.DesignByName(p.DesignName)
	if !ok {
		return handlers.Result{}, errors.New("Unknown ship design")
	}
	if !ctx.Faction.CanAfford(design.Cost) {
		return handlers.Result{}, errors.New("Not enough resources")
	}

	// Стоимость списывается при постановке в очередь; отмена возвращает ее.
	ctx.Faction.Spend(design.Cost)
	colony.BuildQueue = append(colony.BuildQueue, &domain.BuildItem{
		ID:         domain.NewID(),
		Kind:       domain.BuildShipItem,
		DesignName: design.Name,
		TurnsLeft:  design.BuildTurns,
		Cost:       design.Cost,
	})

	return handlers.Result{
		Msg:     fmt.Sprintf("%s queued at colony (%d turns)", design.Name, design.BuildTurns),
		MsgType: "INFO",
	}, nil
})

// --- BUILD_STRUCTURE ---

var ValidateBuildStructure = handlers.WithPayloadValidate(func(ctx handlers.Context, p api.BuildStructurePayload) error {
	colony, err := ownColony(ctx, p.ColonyID)
	if err != nil {
		return err
	}
	spec, ok := galaxy.StructureByName(p.Structure)
	if !ok {
		return errors.New("Unknown structure")
	}
	for _, built := range colony.Buildings {
		if built == spec.Name {
			return errors.New("Structure already built")
		}
	}
	for _, item := range colony.BuildQueue {
		if item.Kind == domain.BuildStructureItem && item.DesignName == spec.Name {
			return errors.New("Structure already queued")
		}
	}
	if !ctx.Faction.CanAfford(spec.Cost) {
		return errors.New("Not enough resources")
	}
	return nil
})

var ExecuteBuildStructure = handlers.WithPayload(func(ctx handlers.Context, p api.BuildStructurePayload) (handlers.Result, error) {
	colony, err := ownColony(ctx, p.ColonyID)
	if err != nil {
		return handlers.Result{}, err
	}
	spec, ok := galaxy.StructureByName(p.Structure)
	if !ok {
		return handlers.Result{}, errors.New("Unknown structure")
	}
	if !ctx.Faction.CanAfford(spec.Cost) {
		return handlers.Result{}, errors.New("Not enough resources")
	}

	ctx.Faction.Spend(spec.Cost)
	colony.BuildQueue = append(colony.BuildQueue, &domain.BuildItem{
		ID:         domain.NewID(),
		Kind:       domain.BuildStructureItem,
		DesignName: spec.Name,
		TurnsLeft:  spec.BuildTurns,
		Cost:       spec.Cost,
	})

	return handlers.Result{
		Msg:     fmt.Sprintf("%s queued at colony (%d turns)", spec.Name, spec.BuildTurns),
		MsgType: "INFO",
	}, nil
})

// --- CANCEL_BUILD ---

var ValidateCancelBuild = handlers.WithPayloadValidate(func(ctx handlers.Context, p api.CancelBuildPayload) error {
	colony, err := ownColony(ctx, p.ColonyID)
	if err != nil {
		return err
	}
	for _, item := range colony.BuildQueue {
		if item.ID == p.ItemID {
			return nil
		}
	}
	return errors.New("Build item not found")
})

var ExecuteCancelBuild = handlers.WithPayload(func(ctx handlers.Context, p api.CancelBuildPayload) (handlers.Result, error) {
	colony, err := ownColony(ctx, p.ColonyID)
	if err != nil {
		return handlers.Result{}, err
	}
	for i, item := range colony.BuildQueue {
		if item.ID != p.ItemID {
			continue
		}
		// Полный возврат: прогресс постройки ресурсов не сжигает.
		for kind, amount := range item.Cost {
			ctx.Faction.Credit(kind, amount)
		}
		colony.BuildQueue = append(colony.BuildQueue[:i], colony.BuildQueue[i+1:]...)
		return handlers.Result{
			Msg:     fmt.Sprintf("Cancelled %s, resources refunded", item.DesignName),
			MsgType: "INFO",
		}, nil
	}
	return handlers.Result{}, errors.New("Build item not found")
})
