package admin

import (
	"encoding/json"
	"math/rand"
	"strings"
	"testing"

	"voidreach-server/internal/domain"
)

func adminSession() *domain.Session {
	s := domain.NewSession("NOVA-4242", 7, domain.DefaultSettings())
	s.Factions["red"] = &domain.Faction{
		ID:   "red",
		Name: "Terran Accord",
		Treasury: map[domain.ResourceKind]int{
			domain.ResourceCredits: 100,
		},
	}
	s.Factions["blue"] = &domain.Faction{ID: "blue", Name: "Vor Dominion"}
	s.Systems["alpha"] = &domain.System{ID: "alpha", Name: "Alpha", Adjacent: []domain.SystemID{"beta"}}
	s.Systems["beta"] = &domain.System{ID: "beta", Name: "Beta", Adjacent: []domain.SystemID{"alpha"}}
	return s
}

func payload(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return raw
}

// Using the component logger from an admin command must not require any
// global setup beyond what TestMain does for every other package.
func TestSpawnFleetCreatesFleet(t *testing.T) {
	s := adminSession()
	raw := payload(t, map[string]any{"factionId": "red", "systemId": "alpha", "count": 3})

	msg, err := SpawnFleet(s, raw, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if !strings.Contains(msg, "3 x Corvette") {
		t.Errorf("message = %q, want default design and count", msg)
	}
	if len(s.Fleets) != 1 {
		t.Fatalf("fleet count = %d, want 1", len(s.Fleets))
	}
	for _, fleet := range s.Fleets {
		if fleet.OwnerID != "red" || fleet.SystemID != "alpha" {
			t.Errorf("fleet placed as %+v", fleet)
		}
		if len(fleet.Ships) != 3 {
			t.Errorf("ship count = %d, want 3", len(fleet.Ships))
		}
	}
}

func TestSpawnFleetRejectsUnknownReferences(t *testing.T) {
	s := adminSession()

	raw := payload(t, map[string]any{"factionId": "green", "systemId": "alpha"})
	if _, err := SpawnFleet(s, raw, rand.New(rand.NewSource(1))); err == nil {
		t.Error("expected error for unknown faction")
	}

	raw = payload(t, map[string]any{"factionId": "red", "systemId": "omega"})
	if _, err := SpawnFleet(s, raw, rand.New(rand.NewSource(1))); err == nil {
		t.Error("expected error for unknown system")
	}
}

func TestGrantResourcesClampsAtZero(t *testing.T) {
	s := adminSession()

	raw := payload(t, map[string]any{"factionId": "red", "resource": "credits", "amount": -500})
	if _, err := GrantResources(s, raw, nil); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if got := s.Factions["red"].Resource(domain.ResourceCredits); got != 0 {
		t.Errorf("credits = %d, want clamp to 0", got)
	}

	raw = payload(t, map[string]any{"factionId": "red", "resource": "plutonium", "amount": 5})
	if _, err := GrantResources(s, raw, nil); err == nil {
		t.Error("expected error for unknown resource")
	}
}

func TestTeleportFleetResetsTransit(t *testing.T) {
	s := adminSession()
	s.Fleets["f1"] = &domain.Fleet{
		ID:            "f1",
		Name:          "Wanderer",
		OwnerID:       "red",
		SystemID:      "alpha",
		DestinationID: "beta",
		Progress:      0.5,
	}

	raw := payload(t, map[string]any{"fleetId": "f1", "systemId": "beta"})
	if _, err := TeleportFleet(s, raw, nil); err != nil {
		t.Fatalf("teleport: %v", err)
	}
	fleet := s.Fleets["f1"]
	if fleet.SystemID != "beta" {
		t.Errorf("system = %s, want beta", fleet.SystemID)
	}
	if fleet.DestinationID != "" || fleet.Progress != 0 {
		t.Errorf("transit not reset: dest=%q progress=%v", fleet.DestinationID, fleet.Progress)
	}
}

func TestForceCombatRejectsSameOwner(t *testing.T) {
	s := adminSession()
	s.Fleets["f1"] = &domain.Fleet{ID: "f1", OwnerID: "red", SystemID: "alpha"}
	s.Fleets["f2"] = &domain.Fleet{ID: "f2", OwnerID: "red", SystemID: "alpha"}

	raw := payload(t, map[string]any{"fleetA": "f1", "fleetB": "f2"})
	if _, err := ForceCombat(s, raw, rand.New(rand.NewSource(1))); err == nil {
		t.Error("expected error for fleets of one faction")
	}
}
