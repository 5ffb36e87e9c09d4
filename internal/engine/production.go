package engine

import (
	"fmt"

	"voidreach-server/internal/domain"
	"voidreach-server/internal/systems"
	"voidreach-server/pkg/galaxy"
)

// --- ФАЗА ПРОИЗВОДСТВА ---

func (p *Pipeline) phaseProduction(ctx *turnContext) error {
	p.runBucket(ctx, domain.BucketColony)

	for _, colony := range sortedColonies(ctx.s) {
		p.advanceBuildQueue(ctx, colony)
	}
	return nil
}

// advanceBuildQueue продвигает только головной элемент очереди:
// колония строит одну вещь за раз.
func (p *Pipeline) advanceBuildQueue(ctx *turnContext, colony *domain.Colony) {
	if len(colony.BuildQueue) == 0 {
		return
	}

	item := colony.BuildQueue[0]
	item.TurnsLeft--
	if item.TurnsLeft > 0 {
		return
	}

	colony.BuildQueue = colony.BuildQueue[1:]

	switch item.Kind {
	case domain.BuildShipItem:
		p.deliverShip(ctx, colony, item)
	case domain.BuildStructureItem:
		p.deliverStructure(ctx, colony, item)
	}

	ctx.result.Production = append(ctx.result.Production, domain.ProductionRecord{
		ColonyID:   colony.ID,
		OwnerID:    colony.OwnerID,
		Kind:       item.Kind,
		DesignName: item.DesignName,
	})
}

// dropBuildItem выбрасывает элемент очереди, предусловие которого нарушено:
// ход продолжается, владелец получает уведомление.
func (p *Pipeline) dropBuildItem(ctx *turnContext, colony *domain.Colony, detail, playerText string) {
	perr := &domain.PreconditionError{Phase: "production", Detail: detail}
	p.log.WithField("colony", colony.ID).Warn(perr.Error())

	ctx.result.Notifications = append(ctx.result.Notifications, domain.Notification{
		Audience: colony.OwnerID,
		Text:     playerText,
		Kind:     "ERROR",
	})
}

// deliverShip вводит построенный корабль в строй: вливается в стоящий в
// системе флот владельца, либо формирует новый.
func (p *Pipeline) deliverShip(ctx *turnContext, colony *domain.Colony, item *domain.BuildItem) {
	design, ok := galaxy.DesignByName(item.DesignName)
	if !ok {
		// Дизайн исчез из каталога между постановкой и сдачей - элемент
		// тихо выбрасывается с уведомлением (предусловие шага нарушено).
		p.dropBuildItem(ctx, colony, fmt.Sprintf("ship design %q missing from catalog", item.DesignName),
			fmt.Sprintf("Shipyard order %q could not be completed", item.DesignName))
		return
	}

	ship := design.NewShip()
	for _, fleet := range sortedFleets(ctx.s) {
		if fleet.OwnerID == colony.OwnerID && fleet.SystemID == colony.SystemID && !fleet.InTransit() {
			fleet.Ships = append(fleet.Ships, ship)
			return
		}
	}

	fleet := &domain.Fleet{
		ID:               domain.FleetID(domain.NewID()),
		Name:             fmt.Sprintf("%s Squadron", design.Name),
		OwnerID:          colony.OwnerID,
		SystemID:         colony.SystemID,
		Speed:            galaxy.FleetSpeedDefault,
		Ships:            []*domain.Ship{ship},
		CommanderPresent: true,
	}
	ctx.s.Fleets[fleet.ID] = fleet
}

func (p *Pipeline) deliverStructure(ctx *turnContext, colony *domain.Colony, item *domain.BuildItem) {
	spec, ok := galaxy.StructureByName(item.DesignName)
	if !ok {
		p.dropBuildItem(ctx, colony, fmt.Sprintf("structure %q missing from catalog", item.DesignName),
			fmt.Sprintf("Construction order %q could not be completed", item.DesignName))
		return
	}

	colony.Buildings = append(colony.Buildings, spec.Name)
	colony.SensorRange += spec.SensorBonus
	for kind, amount := range spec.Production {
		if colony.Production == nil {
			colony.Production = make(map[domain.ResourceKind]int)
		}
		colony.Production[kind] += amount
	}
}

// --- ФАЗА ИССЛЕДОВАНИЙ ---

func (p *Pipeline) phaseResearch(ctx *turnContext) error {
	p.runBucket(ctx, domain.BucketEmpire)

	for _, faction := range sortedFactions(ctx.s) {
		if faction.Eliminated || faction.Research == nil {
			continue
		}

		// Очки науки этого хода уходят в активный проект.
		eco := systems.ComputeEconomy(ctx.s, faction.ID)
		points := eco.Income[domain.ResourceScience]
		if points <= 0 {
			continue
		}

		faction.Research.Remaining -= points
		if faction.Research.Remaining > 0 {
			continue
		}

		tech := faction.Research.Technology
		faction.Technologies = append(faction.Technologies, tech)
		faction.Research = nil

		ctx.result.Research = append(ctx.result.Research, domain.ResearchRecord{
			FactionID:  faction.ID,
			Technology: tech,
		})
		ctx.result.Notifications = append(ctx.result.Notifications, domain.Notification{
			Audience: faction.ID,
			Text:     fmt.Sprintf("Research complete: %s", tech),
			Kind:     "INFO",
		})
	}
	return nil
}

// --- ЭКОНОМИЧЕСКАЯ ФАЗА ---

func (p *Pipeline) phaseEconomy(ctx *turnContext) error {
	for _, faction := range sortedFactions(ctx.s) {
		if faction.Eliminated {
			continue
		}

		eco := systems.ComputeEconomy(ctx.s, faction.ID)
		systems.ApplyEconomy(faction, eco)

		// Наука не копится в казне: она уже потрачена фазой исследований.
		delete(faction.Treasury, domain.ResourceScience)

		ctx.result.Economy = append(ctx.result.Economy, domain.EconomyDelta{
			FactionID: faction.ID,
			Income:    eco.Income,
			Expenses:  eco.Expenses,
		})

		p.growColonies(ctx, faction)
	}
	return nil
}

// growColonies - простой прирост населения, придушенный налогами.
func (p *Pipeline) growColonies(ctx *turnContext, faction *domain.Faction) {
	for _, colony := range sortedColonies(ctx.s) {
		if colony.OwnerID != faction.ID {
			continue
		}
		growth := 2 - faction.TaxPolicy/25
		if growth > 0 {
			colony.Population += growth
		}
	}
}
