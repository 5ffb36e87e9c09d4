package engine

import (
	"testing"

	"voidreach-server/internal/domain"
)

// Domination fires on the turn the share first reaches the threshold,
// never before.
func TestDominationThresholdIsExact(t *testing.T) {
	s := runningSession()
	// Four systems, threshold 75%: three systems is exactly 75%.
	s.Systems["beta"].OwnerID = "red"

	if _, _, ok := EvaluateVictory(s); ok {
		t.Fatal("50% control must not win at threshold 75")
	}

	s.Systems["gamma"].OwnerID = "red"
	winner, kind, ok := EvaluateVictory(s)
	if !ok {
		t.Fatal("75% control must trigger domination")
	}
	if winner != "red" || kind != domain.VictoryDomination {
		t.Errorf("Expected red domination, got %s by %s", winner, kind)
	}
}

func TestDominationEndsTheSession(t *testing.T) {
	s := runningSession()
	s.Systems["beta"].OwnerID = "red"
	s.Systems["gamma"].OwnerID = "red"

	next, result, err := testPipeline().ResolveTurn(s)
	if err != nil {
		t.Fatalf("ResolveTurn failed: %v", err)
	}

	if result.Winner != "red" || result.VictoryBy != domain.VictoryDomination {
		t.Errorf("Expected red domination in the result, got %s by %s", result.Winner, result.VictoryBy)
	}
	if next.State != domain.SessionFinished {
		t.Errorf("Session must finish on victory, state is %v", next.State)
	}
	if next.Winner != "red" {
		t.Errorf("Session winner not recorded, got %q", next.Winner)
	}
}

func TestEliminationVictory(t *testing.T) {
	s := runningSession()
	// Blue loses everything: last faction standing wins.
	delete(s.Colonies, "col-blue")
	delete(s.Fleets, "fleet-blue")

	next, result, err := testPipeline().ResolveTurn(s)
	if err != nil {
		t.Fatalf("ResolveTurn failed: %v", err)
	}

	if !next.Factions["blue"].Eliminated {
		t.Fatal("Assetless faction must be eliminated")
	}
	if result.Winner != "red" || result.VictoryBy != domain.VictoryElimination {
		t.Errorf("Expected red by elimination, got %s by %s", result.Winner, result.VictoryBy)
	}
}

func TestVictoryTieBreaksBySmallerID(t *testing.T) {
	s := runningSession()
	// Both factions hold 2 of 4 systems with the threshold lowered to 50.
	s.Settings.Victory = []domain.VictoryCondition{{Kind: domain.VictoryDomination, Threshold: 50}}
	s.Systems["beta"].OwnerID = "red"
	s.Systems["gamma"].OwnerID = "blue"

	winner, _, ok := EvaluateVictory(s)
	if !ok {
		t.Fatal("Both factions satisfy the condition")
	}
	if winner != "blue" {
		t.Errorf("Tie must break toward the smaller faction id, got %s", winner)
	}
}

func TestEconomicVictory(t *testing.T) {
	s := runningSession()
	s.Settings.Victory = []domain.VictoryCondition{{Kind: domain.VictoryEconomic, Threshold: 10000}}

	if _, _, ok := EvaluateVictory(s); ok {
		t.Fatal("Nobody has 10000 credits yet")
	}

	s.Factions["blue"].Credit(domain.ResourceCredits, 10000)
	winner, kind, ok := EvaluateVictory(s)
	if !ok || winner != "blue" || kind != domain.VictoryEconomic {
		t.Errorf("Expected blue economic victory, got %s by %s (%v)", winner, kind, ok)
	}
}

func TestNoVictoryForEliminatedFaction(t *testing.T) {
	s := runningSession()
	s.Settings.Victory = []domain.VictoryCondition{{Kind: domain.VictoryDomination, Threshold: 50}}
	s.Systems["beta"].OwnerID = "red"
	s.Factions["red"].Eliminated = true

	if winner, _, ok := EvaluateVictory(s); ok {
		t.Errorf("Eliminated faction cannot win, got %s", winner)
	}
}
