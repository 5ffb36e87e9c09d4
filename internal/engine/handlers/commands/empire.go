package commands

import (
	"errors"
	"fmt"

	"voidreach-server/internal/domain"
	"voidreach-server/internal/engine/handlers"
	"voidreach-server/pkg/api"
	"voidreach-server/pkg/galaxy"
)

// --- START_RESEARCH ---

var ValidateStartResearch = handlers.WithPayloadValidate(func(ctx handlers.Context, p api.ResearchPayload) error {
	tech, ok := galaxy.TechnologyByName(p.Technology)
	if !ok {
		return errors.New("Unknown technology")
	}
	if ctx.Faction.HasTechnology(tech.Name) {
		return errors.New("Technology already researched")
	}
	for _, prereq := range tech.Prereq {
		if !ctx.Faction.HasTechnology(prereq) {
			return fmt.Errorf("Technology requires %s", prereq)
		}
	}
	return nil
})

var ExecuteStartResearch = handlers.WithPayload(func(ctx handlers.Context, p api.ResearchPayload) (handlers.Result, error) {
	tech, ok := galaxy.TechnologyByName(p.Technology)
	if !ok {
		return handlers.Result{}, errors.New("Unknown technology")
	}

	// Смена проекта посреди исследования легальна: накопленный прогресс
	// старого проекта сгорает.
	ctx.Faction.Research = &domain.ResearchProject{
		Technology: tech.Name,
		Remaining:  tech.Cost,
	}
	return handlers.Result{
		Msg:     fmt.Sprintf("Research started: %s (%d points)", tech.Name, tech.Cost),
		MsgType: "INFO",
	}, nil
})

// --- SET_TAX_POLICY ---

var ValidateSetTaxPolicy = handlers.WithPayloadValidate(func(ctx handlers.Context, p api.TaxPolicyPayload) error {
	if p.Percent < domain.TaxPolicyMin || p.Percent > domain.TaxPolicyMax {
		return fmt.Errorf("Tax policy must be between %d and %d percent", domain.TaxPolicyMin, domain.TaxPolicyMax)
	}
	return nil
})

var ExecuteSetTaxPolicy = handlers.WithPayload(func(ctx handlers.Context, p api.TaxPolicyPayload) (handlers.Result, error) {
	ctx.Faction.TaxPolicy = p.Percent
	return handlers.Result{
		Msg:     fmt.Sprintf("Tax policy set to %d%%", p.Percent),
		MsgType: "INFO",
	}, nil
})
