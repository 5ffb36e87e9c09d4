package utils

import (
	"regexp"
	"testing"
)

func TestStringToSeedStable(t *testing.T) {
	if StringToSeed("voidreach") != StringToSeed("voidreach") {
		t.Error("Same string produced different seeds")
	}
	if StringToSeed("alpha") == StringToSeed("beta") {
		t.Error("Different strings collided")
	}
	if StringToSeed("anything") < 0 {
		t.Error("Seeds must be non-negative")
	}
}

func TestSubSeedIsolatesSubsystems(t *testing.T) {
	master := int64(123456789)

	if SubSeed(master, "turn-1") != SubSeed(master, "turn-1") {
		t.Error("Same master and label produced different seeds")
	}
	if SubSeed(master, "turn-1") == SubSeed(master, "turn-2") {
		t.Error("Different labels must produce different seeds")
	}
	if SubSeed(master, "galaxy") == SubSeed(master+1, "galaxy") {
		t.Error("Different masters must produce different seeds")
	}
}

func TestNewRandDeterministic(t *testing.T) {
	a := NewRand(77)
	b := NewRand(77)
	for i := 0; i < 100; i++ {
		if a.Intn(1000) != b.Intn(1000) {
			t.Fatal("Same seed diverged")
		}
	}
}

func TestNewJoinCodeFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z]+-\d{4}$`)
	rng := NewRand(5)
	for i := 0; i < 50; i++ {
		code := NewJoinCode(rng)
		if !pattern.MatchString(code) {
			t.Errorf("Join code %q does not match WORD-NNNN", code)
		}
	}
}

func TestNewSeedNonNegative(t *testing.T) {
	for i := 0; i < 10; i++ {
		if NewSeed() < 0 {
			t.Fatal("NewSeed must be non-negative")
		}
	}
}
