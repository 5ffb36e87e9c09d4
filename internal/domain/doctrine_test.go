package domain

import "testing"

func TestDoctrineNormalizedFallback(t *testing.T) {
	var nilDoctrine *BattleDoctrine
	if got := nilDoctrine.Normalized(); got.Retreat.Kind != RetreatNever || len(got.Targeting) == 0 {
		t.Errorf("Nil doctrine must normalize to the default, got %+v", got)
	}

	// Empty targeting list cannot fight: fall back.
	empty := &BattleDoctrine{Formation: FormationWedge}
	if got := empty.Normalized(); len(got.Targeting) == 0 || got.Formation == FormationWedge {
		t.Errorf("Empty targeting must be replaced with the default, got %+v", got)
	}

	// Retreat threshold outside 0..100 is a configuration error: fall back,
	// never crash the battle.
	broken := &BattleDoctrine{
		Targeting: []TargetPriority{TargetWeakest},
		Retreat:   RetreatCondition{Kind: RetreatOnLossPercent, Threshold: 250},
	}
	if got := broken.Normalized(); got.Retreat.Kind != RetreatNever {
		t.Errorf("Broken retreat threshold must fall back, got %+v", got)
	}
}

func TestDoctrineNormalizedKeepsValid(t *testing.T) {
	valid := &BattleDoctrine{
		Formation: FormationScreen,
		Targeting: []TargetPriority{TargetCapitals, TargetWeakest},
		Retreat:   RetreatCondition{Kind: RetreatOnHullPercent, Threshold: 30},
	}
	if got := valid.Normalized(); got != valid {
		t.Error("Valid doctrine must pass through unchanged")
	}
}

func TestParseFormation(t *testing.T) {
	if f, ok := ParseFormation("wedge"); !ok || f != FormationWedge {
		t.Errorf("Expected case-insensitive WEDGE, got %v %v", f, ok)
	}
	if _, ok := ParseFormation("phalanx"); ok {
		t.Error("Unknown formation must not parse")
	}
}
