package commands

import (
	"errors"
	"fmt"

	"voidreach-server/internal/domain"
	"voidreach-server/internal/engine/handlers"
	"voidreach-server/pkg/api"
)

// otherFaction возвращает живую чужую фракцию по id из payload.
func otherFaction(ctx handlers.Context, id string) (*domain.Faction, error) {
	target, ok := ctx.Session.Factions[domain.FactionID(id)]
	if !ok {
		return nil, errors.New("Faction not found")
	}
	if target.ID == ctx.Faction.ID {
		return nil, errors.New("Cannot target own faction")
	}
	if target.Eliminated {
		return nil, errors.New("Faction has been eliminated")
	}
	return target, nil
}

// --- DECLARE_WAR ---

var ValidateDeclareWar = handlers.WithPayloadValidate(func(ctx handlers.Context, p api.DiplomacyPayload) error {
	target, err := otherFaction(ctx, p.TargetFactionID)
	if err != nil {
		return err
	}
	if ctx.Faction.RelationTo(target.ID) == domain.RelationWar {
		return errors.New("Already at war")
	}
	return nil
})

var ExecuteDeclareWar = handlers.WithPayload(func(ctx handlers.Context, p api.DiplomacyPayload) (handlers.Result, error) {
	target, err := otherFaction(ctx, p.TargetFactionID)
	if err != nil {
		return handlers.Result{}, err
	}

	ctx.Faction.SetRelation(target.ID, domain.RelationWar)
	target.SetRelation(ctx.Faction.ID, domain.RelationWar)
	// Агрессия портит репутацию у малых фракций.
	ctx.Faction.Reputation -= 10

	return handlers.Result{
		Msg:       fmt.Sprintf("War declared on %s", target.Name),
		MsgType:   "DIPLOMACY",
		Broadcast: fmt.Sprintf("%s has declared war on %s", ctx.Faction.Name, target.Name),
	}, nil
})

// --- PROPOSE_PEACE ---

var ValidateProposePeace = handlers.WithPayloadValidate(func(ctx handlers.Context, p api.DiplomacyPayload) error {
	target, err := otherFaction(ctx, p.TargetFactionID)
	if err != nil {
		return err
	}
	if ctx.Faction.RelationTo(target.ID) != domain.RelationWar {
		return errors.New("Not at war with this faction")
	}
	return nil
})

var ExecuteProposePeace = handlers.WithPayload(func(ctx handlers.Context, p api.DiplomacyPayload) (handlers.Result, error) {
	target, err := otherFaction(ctx, p.TargetFactionID)
	if err != nil {
		return handlers.Result{}, err
	}
	if ctx.Faction.RelationTo(target.ID) != domain.RelationWar {
		return handlers.Result{}, errors.New("Not at war with this faction")
	}

	// Белый мир вступает в силу немедленно: обе стороны в нейтралитет.
	ctx.Faction.SetRelation(target.ID, domain.RelationNeutral)
	target.SetRelation(ctx.Faction.ID, domain.RelationNeutral)
	ctx.Faction.Reputation += 5

	return handlers.Result{
		Msg:       fmt.Sprintf("Peace concluded with %s", target.Name),
		MsgType:   "DIPLOMACY",
		Broadcast: fmt.Sprintf("%s and %s have concluded peace", ctx.Faction.Name, target.Name),
	}, nil
})

// --- OFFER_TRADE ---

var ValidateOfferTrade = handlers.WithPayloadValidate(func(ctx handlers.Context, p api.DiplomacyPayload) error {
	target, err := otherFaction(ctx, p.TargetFactionID)
	if err != nil {
		return err
	}
	switch ctx.Faction.RelationTo(target.ID) {
	case domain.RelationWar:
		return errors.New("Cannot trade while at war")
	case domain.RelationTrade:
		return errors.New("Trade agreement already in place")
	}
	return nil
})

var ExecuteOfferTrade = handlers.WithPayload(func(ctx handlers.Context, p api.DiplomacyPayload) (handlers.Result, error) {
	target, err := otherFaction(ctx, p.TargetFactionID)
	if err != nil {
		return handlers.Result{}, err
	}
	if ctx.Faction.RelationTo(target.ID) == domain.RelationWar {
		return handlers.Result{}, errors.New("Cannot trade while at war")
	}

	ctx.Faction.SetRelation(target.ID, domain.RelationTrade)
	target.SetRelation(ctx.Faction.ID, domain.RelationTrade)

	return handlers.Result{
		Msg:     fmt.Sprintf("Trade agreement established with %s", target.Name),
		MsgType: "DIPLOMACY",
	}, nil
})
