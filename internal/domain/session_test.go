package domain

import "testing"

func lobbySession() *Session {
	s := NewSession("NOVA-0042", 123, DefaultSettings())
	s.Slots["p1"] = &PlayerSlot{PlayerID: "p1", Name: "Alice", Race: "terran", Ready: true}
	s.Slots["p2"] = &PlayerSlot{PlayerID: "p2", Name: "Bob", Race: "voidborn", Ready: true}
	return s
}

func TestSessionTransitions(t *testing.T) {
	s := lobbySession()

	if err := s.TransitionTo(SessionStarting); err != nil {
		t.Fatalf("Lobby -> Starting must be legal: %v", err)
	}
	// Failed setup rolls back to the lobby, the only allowed backward edge.
	if err := s.TransitionTo(SessionLobby); err != nil {
		t.Fatalf("Starting -> Lobby must be legal: %v", err)
	}

	if err := s.TransitionTo(SessionRunning); err == nil {
		t.Error("Lobby -> Running must be rejected")
	}

	s.State = SessionRunning
	if err := s.TransitionTo(SessionPaused); err != nil {
		t.Fatalf("Running -> Paused must be legal: %v", err)
	}
	if err := s.TransitionTo(SessionRunning); err != nil {
		t.Fatalf("Paused -> Running must be legal: %v", err)
	}

	s.State = SessionFinished
	if err := s.TransitionTo(SessionRunning); err == nil {
		t.Error("Finished is terminal, no transition may leave it")
	}

	s.State = SessionAbandoned
	if err := s.TransitionTo(SessionLobby); err == nil {
		t.Error("Abandoned is terminal, no transition may leave it")
	}
}

func TestCanStart(t *testing.T) {
	s := lobbySession()
	if !s.CanStart() {
		t.Fatal("Two ready players with races must be allowed to start")
	}

	s.Slots["p2"].Ready = false
	if s.CanStart() {
		t.Error("Unready slot must block the start")
	}
	s.Slots["p2"].Ready = true

	s.Slots["p2"].Race = ""
	if s.CanStart() {
		t.Error("Slot without a race must block the start")
	}
	s.Slots["p2"].Race = "voidborn"

	delete(s.Slots, "p2")
	if s.CanStart() {
		t.Error("One player is below the minimum")
	}
}

func TestAllOrdersIn(t *testing.T) {
	s := lobbySession()
	s.Slots["bot"] = &PlayerSlot{PlayerID: "bot", Name: "Drone", Race: "terran", Ready: true, IsAI: true}

	if s.AllOrdersIn() {
		t.Fatal("No orders submitted yet")
	}

	s.PendingOrders["p1"] = &TurnOrders{PlayerID: "p1"}
	if s.AllOrdersIn() {
		t.Fatal("One human batch is still missing")
	}

	// AI slots never block the turn.
	s.PendingOrders["p2"] = &TurnOrders{PlayerID: "p2"}
	if !s.AllOrdersIn() {
		t.Error("Both human batches are in, AI must not block")
	}
}

func TestControlledShare(t *testing.T) {
	s := lobbySession()
	for _, id := range []SystemID{"a", "b", "c", "d"} {
		s.Systems[id] = &System{ID: id}
	}
	s.Systems["a"].OwnerID = "red"
	s.Systems["b"].OwnerID = "red"
	s.Systems["c"].OwnerID = "red"

	if got := s.ControlledShare("red"); got != 75 {
		t.Errorf("Expected 75%%, got %d%%", got)
	}
	if got := s.ControlledShare("blue"); got != 0 {
		t.Errorf("Expected 0%% for blue, got %d%%", got)
	}
}

func TestFleetsInSkipsTransit(t *testing.T) {
	s := lobbySession()
	s.Fleets["f1"] = &Fleet{ID: "f1", SystemID: "a"}
	s.Fleets["f2"] = &Fleet{ID: "f2", SystemID: "a", DestinationID: "b", Progress: 0.5}

	fleets := s.FleetsIn("a")
	if len(fleets) != 1 || fleets[0].ID != "f1" {
		t.Errorf("Expected only the parked fleet, got %d fleets", len(fleets))
	}
}
