package systems

import (
	"testing"

	"voidreach-server/internal/domain"
)

func TestAdvanceFleetIdleDoesNothing(t *testing.T) {
	fleet := &domain.Fleet{ID: "f1", SystemID: "alpha", Speed: 0.5}

	res := AdvanceFleet(fleet)

	if res.Moved {
		t.Error("Idle fleet reported movement")
	}
	if fleet.SystemID != "alpha" {
		t.Errorf("Idle fleet changed system to %s", fleet.SystemID)
	}
}

func TestAdvanceFleetArrivesOverTwoTurns(t *testing.T) {
	fleet := &domain.Fleet{ID: "f1", SystemID: "alpha", Speed: 0.5}
	BeginTransit(fleet, "beta")

	first := AdvanceFleet(fleet)
	if !first.Moved || first.Arrived {
		t.Fatalf("Expected progress without arrival, got %+v", first)
	}
	if first.Progress != 0.5 {
		t.Errorf("Expected progress 0.5, got %f", first.Progress)
	}
	if fleet.SystemID != "alpha" {
		t.Errorf("Fleet in transit must stay referenced to origin, got %s", fleet.SystemID)
	}

	second := AdvanceFleet(fleet)
	if !second.Arrived {
		t.Fatalf("Expected arrival on second turn, got %+v", second)
	}
	if fleet.SystemID != "beta" {
		t.Errorf("Expected fleet in beta, got %s", fleet.SystemID)
	}
	if fleet.InTransit() || fleet.Progress != 0 {
		t.Errorf("Arrival must reset transit state, got dest=%s progress=%f",
			fleet.DestinationID, fleet.Progress)
	}
}

func TestBeginTransitResetsProgress(t *testing.T) {
	fleet := &domain.Fleet{ID: "f1", SystemID: "alpha", Speed: 1.0, Progress: 0.7}

	BeginTransit(fleet, "gamma")

	if fleet.DestinationID != "gamma" || fleet.Progress != 0 {
		t.Errorf("Expected fresh transit to gamma, got dest=%s progress=%f",
			fleet.DestinationID, fleet.Progress)
	}

	res := AdvanceFleet(fleet)
	if !res.Arrived {
		t.Errorf("Speed 1.0 must arrive in one turn, got %+v", res)
	}
}
