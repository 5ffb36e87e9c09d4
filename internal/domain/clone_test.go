package domain

import "testing"

func TestCloneIsolatesMutations(t *testing.T) {
	s := NewSession("NOVA-0100", 5, DefaultSettings())
	s.Factions["red"] = &Faction{
		ID:       "red",
		Name:     "Red",
		Treasury: map[ResourceKind]int{ResourceCredits: 100},
		Relations: map[FactionID]Relation{
			"blue": RelationWar,
		},
	}
	s.Systems["a"] = &System{ID: "a", Adjacent: []SystemID{"b"}}
	s.Fleets["f1"] = &Fleet{
		ID: "f1", OwnerID: "red", SystemID: "a",
		Ships: []*Ship{{ID: "s1", Hull: 100, MaxHull: 100}},
	}
	s.Colonies["c1"] = &Colony{
		ID: "c1", OwnerID: "red", SystemID: "a",
		Production: map[ResourceKind]int{ResourceCredits: 40},
		BuildQueue: []*BuildItem{{Kind: BuildShipItem, DesignName: "Corvette", TurnsLeft: 3}},
	}
	s.Intel["red"] = map[FleetID]*Sighting{
		"fx": {FleetID: "fx", SeenTurn: 1},
	}

	clone := s.Clone()

	clone.Turn = 99
	clone.Factions["red"].Treasury[ResourceCredits] = 0
	clone.Factions["red"].SetRelation("blue", RelationNeutral)
	clone.Fleets["f1"].Ships[0].Hull = 1
	clone.Systems["a"].Adjacent[0] = "z"
	clone.Colonies["c1"].BuildQueue[0].TurnsLeft = 0
	clone.Intel["red"]["fx"].SeenTurn = 50

	if s.Turn != 0 {
		t.Errorf("Original turn mutated to %d", s.Turn)
	}
	if got := s.Factions["red"].Resource(ResourceCredits); got != 100 {
		t.Errorf("Original treasury mutated to %d", got)
	}
	if got := s.Factions["red"].RelationTo("blue"); got != RelationWar {
		t.Errorf("Original relations mutated to %v", got)
	}
	if got := s.Fleets["f1"].Ships[0].Hull; got != 100 {
		t.Errorf("Original ship hull mutated to %d", got)
	}
	if got := s.Systems["a"].Adjacent[0]; got != "b" {
		t.Errorf("Original adjacency mutated to %s", got)
	}
	if got := s.Colonies["c1"].BuildQueue[0].TurnsLeft; got != 3 {
		t.Errorf("Original build queue mutated to %d", got)
	}
	if got := s.Intel["red"]["fx"].SeenTurn; got != 1 {
		t.Errorf("Original intel mutated to turn %d", got)
	}
}

func TestCloneKeepsIdentity(t *testing.T) {
	s := NewSession("NOVA-0101", 9, DefaultSettings())
	s.PendingOrders["p1"] = &TurnOrders{PlayerID: "p1"}

	clone := s.Clone()

	if clone.ID != s.ID || clone.JoinCode != s.JoinCode || clone.Seed != s.Seed {
		t.Error("Clone must preserve session identity")
	}
	// Submitted batches are immutable and shared by reference.
	if clone.PendingOrders["p1"] != s.PendingOrders["p1"] {
		t.Error("Pending orders are expected to be shared, not copied")
	}
}
