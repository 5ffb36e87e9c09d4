package commands

import (
	"errors"
	"fmt"

	"voidreach-server/internal/domain"
	"voidreach-server/internal/engine/handlers"
	"voidreach-server/pkg/api"
)

func parseCharter(s string) (domain.GovernmentKind, error) {
	switch domain.GovernmentKind(s) {
	case domain.GovernmentAutocracy, domain.GovernmentCouncil,
		domain.GovernmentFederation, domain.GovernmentSyndicate:
		return domain.GovernmentKind(s), nil
	}
	return "", fmt.Errorf("unknown charter %q", s)
}

// --- FOUND_HOUSE ---

var ValidateFoundHouse = handlers.WithPayloadValidate(func(ctx handlers.Context, p api.FoundHousePayload) error {
	if _, err := parseCharter(p.Charter); err != nil {
		return err
	}
	for _, house := range ctx.Faction.Houses {
		if house.Name == p.Name {
			return errors.New("House with this name already exists")
		}
		for _, member := range house.Members {
			if member == ctx.PlayerID {
				return errors.New("Player already belongs to a house")
			}
		}
	}
	return nil
})

var ExecuteFoundHouse = handlers.WithPayload(func(ctx handlers.Context, p api.FoundHousePayload) (handlers.Result, error) {
	charter, err := parseCharter(p.Charter)
	if err != nil {
		return handlers.Result{}, err
	}

	house := &domain.House{
		ID:      domain.HouseID(domain.NewID()),
		Name:    p.Name,
		Members: []domain.PlayerID{ctx.PlayerID},
		Charter: charter,
		Seats:   map[string]domain.PlayerID{"patriarch": ctx.PlayerID},
	}
	if ctx.Faction.Houses == nil {
		ctx.Faction.Houses = make(map[domain.HouseID]*domain.House)
	}
	ctx.Faction.Houses[house.ID] = house

	return handlers.Result{
		Msg:     fmt.Sprintf("House %s founded under %s charter", house.Name, charter),
		MsgType: "EVENT",
	}, nil
})

// --- ASSIGN_HOUSE_SEAT ---

var ValidateAssignSeat = handlers.WithPayloadValidate(func(ctx handlers.Context, p api.HouseSeatPayload) error {
	house, ok := ctx.Faction.Houses[domain.HouseID(p.HouseID)]
	if !ok {
		return errors.New("House not found")
	}
	// Распоряжаться креслами может только патриарх дома.
	if house.Seats["patriarch"] != ctx.PlayerID {
		return errors.New("Only the house patriarch may assign seats")
	}
	if _, ok := ctx.Session.Slots[domain.PlayerID(p.PlayerID)]; !ok {
		return errors.New("Player not found in session")
	}
	return nil
})

var ExecuteAssignSeat = handlers.WithPayload(func(ctx handlers.Context, p api.HouseSeatPayload) (handlers.Result, error) {
	house, ok := ctx.Faction.Houses[domain.HouseID(p.HouseID)]
	if !ok {
		return handlers.Result{}, errors.New("House not found")
	}

	target := domain.PlayerID(p.PlayerID)
	if house.Seats == nil {
		house.Seats = make(map[string]domain.PlayerID)
	}
	house.Seats[p.Seat] = target

	// Назначение в дом автоматически делает игрока его членом.
	isMember := false
	for _, m := range house.Members {
		if m == target {
			isMember = true
			break
		}
	}
	if !isMember {
		house.Members = append(house.Members, target)
	}

	return handlers.Result{
		Msg:     fmt.Sprintf("Seat %q of house %s assigned", p.Seat, house.Name),
		MsgType: "EVENT",
	}, nil
})
