package systems

import (
	"testing"

	"voidreach-server/internal/domain"
)

// chainSession builds alpha - beta - gamma - delta with a red colony in alpha.
func chainSession(colonySensor int) *domain.Session {
	s := domain.NewSession("NOVA-0002", 1, domain.DefaultSettings())

	link := func(a, b domain.SystemID) {
		s.Systems[a].Adjacent = append(s.Systems[a].Adjacent, b)
		s.Systems[b].Adjacent = append(s.Systems[b].Adjacent, a)
	}
	for _, id := range []domain.SystemID{"alpha", "beta", "gamma", "delta"} {
		s.Systems[id] = &domain.System{ID: id, Name: string(id)}
	}
	link("alpha", "beta")
	link("beta", "gamma")
	link("gamma", "delta")

	s.Factions["red"] = &domain.Faction{ID: "red", Name: "Red"}
	s.Factions["blue"] = &domain.Faction{ID: "blue", Name: "Blue"}

	s.Systems["alpha"].OwnerID = "red"
	s.Colonies["c1"] = &domain.Colony{
		ID:          "c1",
		OwnerID:     "red",
		SystemID:    "alpha",
		SensorRange: colonySensor,
	}
	return s
}

func TestComputeViewDetailLevels(t *testing.T) {
	s := chainSession(1)

	view := ComputeView(s, "red")

	if got := view.SystemDetail("alpha"); got != DetailOwned {
		t.Errorf("Expected alpha OWNED, got %s", got)
	}
	// Beta is both adjacent and inside sensor reach: coverage wins.
	if got := view.SystemDetail("beta"); got != DetailVisible {
		t.Errorf("Expected beta VISIBLE, got %s", got)
	}
	if got := view.SystemDetail("gamma"); got != DetailNone {
		t.Errorf("Expected gamma NONE, got %s", got)
	}
	if view.CanReference("gamma") {
		t.Error("Commands must not legally reference an unknown system")
	}
	if !view.CanReference("beta") {
		t.Error("Known systems are legal command targets")
	}
}

func TestComputeViewAdjacencyIsKnownOnly(t *testing.T) {
	s := chainSession(1)
	// No colony sensors: only ownership and adjacency remain.
	delete(s.Colonies, "c1")

	view := ComputeView(s, "red")

	if got := view.SystemDetail("beta"); got != DetailKnown {
		t.Errorf("Expected beta KNOWN via adjacency, got %s", got)
	}
}

func TestComputeViewSensorReach(t *testing.T) {
	s := chainSession(2)

	view := ComputeView(s, "red")

	if got := view.SystemDetail("gamma"); got != DetailVisible {
		t.Errorf("Expected gamma VISIBLE with sensor range 2, got %s", got)
	}
	if got := view.SystemDetail("delta"); got != DetailNone {
		t.Errorf("Expected delta outside reach, got %s", got)
	}
}

func TestComputeViewDetectsForeignFleet(t *testing.T) {
	s := chainSession(1)
	s.Fleets["fb"] = &domain.Fleet{
		ID: "fb", OwnerID: "blue", SystemID: "beta",
		Ships: []*domain.Ship{{ID: "b1", Hull: 100, Attack: 30, Defense: 30}},
	}

	view := ComputeView(s, "red")

	sighting, ok := view.Fleets["fb"]
	if !ok {
		t.Fatal("Expected foreign fleet in beta to be detected")
	}
	if sighting.Band != domain.BandModerate {
		t.Errorf("Expected MODERATE band, got %s", sighting.Band)
	}
	if sighting.SystemID != "beta" || sighting.OwnerID != "blue" {
		t.Errorf("Sighting carries wrong identity: %+v", sighting)
	}

	// Own fleets never show up as sightings.
	s.Fleets["fr"] = &domain.Fleet{ID: "fr", OwnerID: "red", SystemID: "beta"}
	view = ComputeView(s, "red")
	if _, ok := view.Fleets["fr"]; ok {
		t.Error("Own fleet listed as a sighting")
	}
}

func TestComputeViewCloakedFleet(t *testing.T) {
	s := chainSession(1)
	s.Fleets["fb"] = &domain.Fleet{
		ID: "fb", OwnerID: "blue", SystemID: "beta",
		Stance: domain.StanceCloaked,
		Ships:  []*domain.Ship{{ID: "b1", Hull: 100, SensorRating: 2}},
	}

	// Covered system, but nothing counter-detects on site.
	view := ComputeView(s, "red")
	if _, ok := view.Fleets["fb"]; ok {
		t.Fatal("Cloaked fleet detected without counter-detection")
	}

	// A picket with matching counter-detection in the same system reveals it.
	s.Fleets["fr"] = &domain.Fleet{
		ID: "fr", OwnerID: "red", SystemID: "beta",
		Ships: []*domain.Ship{{ID: "r1", Hull: 50, CounterDetection: 2}},
	}
	view = ComputeView(s, "red")
	if _, ok := view.Fleets["fb"]; !ok {
		t.Error("Expected counter-detection to reveal the cloaked fleet")
	}
}

func TestStrengthBands(t *testing.T) {
	cases := []struct {
		strength int
		want     domain.StrengthBand
	}{
		{0, domain.BandTrivial},
		{49, domain.BandTrivial},
		{50, domain.BandModerate},
		{199, domain.BandModerate},
		{200, domain.BandStrong},
		{599, domain.BandStrong},
		{600, domain.BandOverwhelming},
	}
	for _, tc := range cases {
		if got := StrengthBand(tc.strength); got != tc.want {
			t.Errorf("StrengthBand(%d): expected %s, got %s", tc.strength, tc.want, got)
		}
	}
}

func TestRecordSightingsPrunesDeadFleets(t *testing.T) {
	s := chainSession(1)
	s.Fleets["fb"] = &domain.Fleet{
		ID: "fb", OwnerID: "blue", SystemID: "beta",
		Ships: []*domain.Ship{{ID: "b1", Hull: 100}},
	}

	view := ComputeView(s, "red")
	RecordSightings(s, "red", view)
	if _, ok := s.Intel["red"]["fb"]; !ok {
		t.Fatal("Fresh sighting not recorded")
	}

	// The fleet dies; its memory goes with it.
	s.RemoveFleet("fb")
	RecordSightings(s, "red", ComputeView(s, "red"))
	if _, ok := s.Intel["red"]["fb"]; ok {
		t.Error("Dead fleet still present in intel memory")
	}
}

func TestSightingConfidenceDecay(t *testing.T) {
	sighting := &domain.Sighting{FleetID: "fb", SeenTurn: 10}

	if got := sighting.Confidence(10); got != 100 {
		t.Errorf("Fresh sighting: expected 100, got %d", got)
	}
	if got := sighting.Confidence(12); got != 100-2*domain.ConfidenceDecayPerTurn {
		t.Errorf("Two turns old: got %d", got)
	}
	if got := sighting.Confidence(1000); got != 0 {
		t.Errorf("Ancient sighting must clamp at zero, got %d", got)
	}
}
