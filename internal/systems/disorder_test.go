package systems

import (
	"testing"

	"voidreach-server/internal/domain"
)

func TestOrderDisorderCost(t *testing.T) {
	cases := []struct {
		name             string
		commanderPresent bool
		roundsSinceLast  int
		priorChanges     int
		drill            int
		want             int
	}{
		{"base order with commander", true, 3, 0, 0, 15},
		{"no commander on flagship", false, 3, 0, 0, 40},
		{"rapid back-to-back change", true, 0, 0, 0, 35},
		{"third change this battle", true, 3, 2, 0, 25},
		{"everything stacked", false, 0, 2, 0, 70},
		{"full drill discounts 20", false, 3, 0, 100, 20},
		{"half drill discounts 10", true, 3, 0, 50, 5},
		{"drill never goes negative", true, 3, 0, 100, 0},
	}

	for _, tc := range cases {
		got := OrderDisorderCost(tc.commanderPresent, tc.roundsSinceLast, tc.priorChanges, tc.drill)
		if got != tc.want {
			t.Errorf("%s: expected cost %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestAddDisorderCaps(t *testing.T) {
	if got := AddDisorder(0, 40); got != 40 {
		t.Errorf("Expected 40, got %d", got)
	}
	if got := AddDisorder(85, 50); got != domain.DisorderMax {
		t.Errorf("Expected cap at %d, got %d", domain.DisorderMax, got)
	}
	if got := AddDisorder(domain.DisorderMax, 1); got != domain.DisorderMax {
		t.Errorf("Disorder must not exceed the cap, got %d", got)
	}

	// Monotonic within a battle: adding never decreases the value.
	current := 0
	for i := 0; i < 10; i++ {
		next := AddDisorder(current, 17)
		if next < current {
			t.Fatalf("Disorder decreased from %d to %d", current, next)
		}
		current = next
	}
}

func TestDisorderOutputFactor(t *testing.T) {
	if got := DisorderOutputFactor(0); got != 1.0 {
		t.Errorf("Expected full output at zero disorder, got %f", got)
	}
	if got := DisorderOutputFactor(domain.DisorderMax); got != 0.5 {
		t.Errorf("Expected half output at the cap, got %f", got)
	}
	if got := DisorderOutputFactor(50); got != 0.75 {
		t.Errorf("Expected 0.75 at disorder 50, got %f", got)
	}
	// Above the cap the degradation stays capped too.
	if got := DisorderOutputFactor(500); got != 0.5 {
		t.Errorf("Expected clamp at 0.5, got %f", got)
	}
}
