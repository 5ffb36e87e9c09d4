package systems

import (
	"testing"

	"voidreach-server/internal/domain"
)

func economySession() (*domain.Session, *domain.Faction) {
	faction := &domain.Faction{
		ID:       "red",
		Name:     "Red",
		Treasury: map[domain.ResourceKind]int{domain.ResourceCredits: 100},
	}
	s := domain.NewSession("NOVA-0001", 1, domain.DefaultSettings())
	s.Factions[faction.ID] = faction
	s.Colonies["c1"] = &domain.Colony{
		ID:       "c1",
		OwnerID:  faction.ID,
		SystemID: "alpha",
		Production: map[domain.ResourceKind]int{
			domain.ResourceCredits: 100,
		},
	}
	return s, faction
}

func TestComputeEconomyTaxScaling(t *testing.T) {
	s, faction := economySession()

	// Tax 0..50 maps to a 50..100% cut of colony production.
	faction.TaxPolicy = 0
	eco := ComputeEconomy(s, faction.ID)
	if got := eco.Income[domain.ResourceCredits]; got != 50 {
		t.Errorf("Expected income 50 at zero tax, got %d", got)
	}

	faction.TaxPolicy = 50
	eco = ComputeEconomy(s, faction.ID)
	if got := eco.Income[domain.ResourceCredits]; got != 100 {
		t.Errorf("Expected income 100 at max tax, got %d", got)
	}
}

func TestComputeEconomyFleetUpkeep(t *testing.T) {
	s, faction := economySession()
	s.Fleets["f1"] = &domain.Fleet{
		ID:      "f1",
		OwnerID: faction.ID,
		Ships: []*domain.Ship{
			{ID: "s1", Hull: 10, MaxHull: 10, Upkeep: 7},
			{ID: "s2", Hull: 10, MaxHull: 10, Upkeep: 3},
			{ID: "s3", Hull: 0, MaxHull: 10, Upkeep: 100}, // wreck, no upkeep
		},
	}

	eco := ComputeEconomy(s, faction.ID)
	if got := eco.Expenses[domain.ResourceCredits]; got != 10 {
		t.Errorf("Expected upkeep 10, got %d", got)
	}
}

func TestApplyEconomyNeverBankrupts(t *testing.T) {
	faction := &domain.Faction{
		ID:       "red",
		Treasury: map[domain.ResourceKind]int{domain.ResourceCredits: 20},
	}
	eco := FactionEconomy{
		Income:   map[domain.ResourceKind]int{domain.ResourceCredits: 5},
		Expenses: map[domain.ResourceKind]int{domain.ResourceCredits: 500},
	}

	ApplyEconomy(faction, eco)

	if got := faction.Resource(domain.ResourceCredits); got != 0 {
		t.Errorf("Treasury must clamp at zero, got %d", got)
	}
}
