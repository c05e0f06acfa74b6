package bot

import (
	"math/rand"
	"testing"
)

func TestRandomBrainStaysInRange(t *testing.T) {
	brain := NewRandomBrain(rand.New(rand.NewSource(42)))

	seen := make(map[int64]int)
	for i := 0; i < 1000; i++ {
		d := brain.ChooseDelta(1999)
		if d < -1 || d > 1 {
			t.Fatalf("delta %d outside {-1, 0, 1}", d)
		}
		seen[d]++
	}

	for _, d := range []int64{-1, 0, 1} {
		if seen[d] == 0 {
			t.Fatalf("delta %d never drawn in 1000 picks", d)
		}
	}
}

func TestSolverBrainPicksDivisibleDelta(t *testing.T) {
	brain := NewSolverBrain(rand.New(rand.NewSource(42)))

	tests := []struct {
		value int64
		want  int64
	}{
		{value: 1999, want: -1}, // 1998 % 3 == 0
		{value: 2000, want: 1},  // 2001 % 3 == 0
		{value: 2001, want: 0},
		{value: 667, want: -1},
	}

	for _, tt := range tests {
		if got := brain.ChooseDelta(tt.value); got != tt.want {
			t.Fatalf("ChooseDelta(%d) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestNewAgent(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	a, err := NewAgent("", rng)
	if err != nil {
		t.Fatalf("default agent error: %v", err)
	}
	if a.Name != DisplayName {
		t.Fatalf("agent name = %q, want %q", a.Name, DisplayName)
	}
	if !IsBot(a.ID) {
		t.Fatalf("agent id %q not recognized as bot", a.ID)
	}

	b, err := NewAgent(StrategySolver, rng)
	if err != nil {
		t.Fatalf("solver agent error: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("agent ids should be unique, both %q", a.ID)
	}

	if _, err := NewAgent("psychic", rng); err == nil {
		t.Fatalf("expected error for unknown strategy")
	}
}

func TestIsBot(t *testing.T) {
	if IsBot("user-1") {
		t.Fatalf("human id reported as bot")
	}
	if !IsBot("cpu:af51") {
		t.Fatalf("cpu id not reported as bot")
	}
}
