package app

import (
	"errors"
	"math/rand"
	"testing"

	"trisect/internal/domain"
)

func TestStartRoundEmitsFirstNumberAndTurn(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	svc := NewService(rng)

	round, evs, err := svc.StartRound([]string{"u1", "u2"}, 1999, 9999)
	if err != nil {
		t.Fatalf("start round error: %v", err)
	}
	if round.Phase != domain.PhasePlaying {
		t.Fatalf("phase = %s, want playing", round.Phase)
	}
	if round.CurrentTurn != "u1" {
		t.Fatalf("current turn = %s, want u1", round.CurrentTurn)
	}
	if len(evs) != 2 {
		t.Fatalf("events = %d, want 2", len(evs))
	}

	first := evs[0].Payload.(RandomNumberPayload)
	if !first.IsFirst {
		t.Fatalf("opening broadcast should be tagged first")
	}
	if first.User != "" {
		t.Fatalf("opening broadcast carries no mover, got %q", first.User)
	}
	if first.Number < 1999 || first.Number > 9999 {
		t.Fatalf("start value %d outside [1999, 9999]", first.Number)
	}

	turn := evs[1].Payload.(TurnPayload)
	if turn.User != "u1" || turn.State != domain.TurnPlay {
		t.Fatalf("first turn = %+v, want u1/play", turn)
	}
}

func TestStartRoundRequiresMembers(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(1)))
	if _, _, err := svc.StartRound(nil, 1999, 9999); !errors.Is(err, ErrNoMembers) {
		t.Fatalf("err = %v, want ErrNoMembers", err)
	}
	if _, _, err := svc.StartRound([]string{"u1"}, 10, 5); !errors.Is(err, ErrBadStartRange) {
		t.Fatalf("err = %v, want ErrBadStartRange", err)
	}
}

func TestSubmitNumberCorrectMove(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(7)))
	round := &domain.Round{Phase: domain.PhasePlaying, CurrentTurn: "u1"}
	members := []string{"u1", "u2"}

	evs, result, err := svc.SubmitNumber(round, members, "", Mover{ID: "u1", DisplayName: "Alice"}, 1999, 2)
	if err != nil {
		t.Fatalf("submit error: %v", err)
	}
	if result != 667 {
		t.Fatalf("result = %d, want 667", result)
	}
	if len(evs) != 3 {
		t.Fatalf("events = %d, want 3", len(evs))
	}

	num := evs[0].Payload.(RandomNumberPayload)
	if num.Number != 667 || num.User != "Alice" || num.SelectedNumber != 2 || !num.IsCorrectResult || num.IsFirst {
		t.Fatalf("number payload unexpected: %+v", num)
	}

	wait := evs[1].Payload.(TurnPayload)
	if wait.User != "u1" || wait.State != domain.TurnWait {
		t.Fatalf("wait handoff unexpected: %+v", wait)
	}

	play := evs[2].Payload.(TurnPayload)
	if play.User != "u2" || play.State != domain.TurnPlay {
		t.Fatalf("play handoff unexpected: %+v", play)
	}
	if round.CurrentTurn != "u2" {
		t.Fatalf("current turn = %s, want u2", round.CurrentTurn)
	}
}

func TestSubmitNumberIncorrectMoveKeepsValue(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(7)))
	round := &domain.Round{Phase: domain.PhasePlaying, CurrentTurn: "u1"}

	evs, result, err := svc.SubmitNumber(round, []string{"u1", "u2"}, "", Mover{ID: "u1", DisplayName: "Alice"}, 1999, 1)
	if err != nil {
		t.Fatalf("submit error: %v", err)
	}
	if result != 1999 {
		t.Fatalf("result = %d, want 1999", result)
	}

	num := evs[0].Payload.(RandomNumberPayload)
	if num.IsCorrectResult {
		t.Fatalf("move made no progress, correctness flag should be false")
	}
	// An incorrect move still hands the turn over.
	if round.CurrentTurn != "u2" {
		t.Fatalf("current turn = %s, want u2", round.CurrentTurn)
	}
}

func TestSubmitNumberGameOver(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(7)))
	round := &domain.Round{Phase: domain.PhasePlaying, CurrentTurn: "u1"}

	evs, result, err := svc.SubmitNumber(round, []string{"u1", "u2"}, "", Mover{ID: "u1", DisplayName: "Alice"}, 2, 1)
	if err != nil {
		t.Fatalf("submit error: %v", err)
	}
	if result != 1 {
		t.Fatalf("result = %d, want 1", result)
	}
	if round.Phase != domain.PhaseOver {
		t.Fatalf("phase = %s, want over", round.Phase)
	}

	foundOver := false
	for _, ev := range evs {
		if ev.Kind == EventGameOver {
			foundOver = true
			p := ev.Payload.(GameOverPayload)
			if p.User != "Alice" || !p.IsOver {
				t.Fatalf("game over payload unexpected: %+v", p)
			}
		}
	}
	if !foundOver {
		t.Fatalf("expected game over event")
	}

	// The round is terminal: no further moves are accepted.
	if _, _, err := svc.SubmitNumber(round, []string{"u1", "u2"}, "", Mover{ID: "u2"}, 1, 0); !errors.Is(err, ErrRoundOver) {
		t.Fatalf("err = %v, want ErrRoundOver", err)
	}
}

func TestSubmitNumberGuards(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(7)))

	if _, _, err := svc.SubmitNumber(nil, []string{"u1"}, "", Mover{ID: "u1"}, 10, 0); !errors.Is(err, ErrRoundNotActive) {
		t.Fatalf("nil round err = %v, want ErrRoundNotActive", err)
	}

	round := &domain.Round{Phase: domain.PhasePlaying, CurrentTurn: "u2"}
	if _, _, err := svc.SubmitNumber(round, []string{"u1", "u2"}, "", Mover{ID: "u1"}, 10, 0); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("out of turn err = %v, want ErrNotYourTurn", err)
	}
}

func TestSubmitNumberHandsTurnToAutomatedSlot(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(7)))
	round := &domain.Round{Phase: domain.PhasePlaying, CurrentTurn: "u1"}

	_, _, err := svc.SubmitNumber(round, []string{"u1"}, "cpu:1", Mover{ID: "u1", DisplayName: "Alice"}, 1999, 2)
	if err != nil {
		t.Fatalf("submit error: %v", err)
	}
	if round.CurrentTurn != "cpu:1" {
		t.Fatalf("current turn = %s, want cpu:1", round.CurrentTurn)
	}
}

func TestResolveAutoMove(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(7)))
	round := &domain.Round{Phase: domain.PhasePlaying, CurrentTurn: "cpu:1"}

	evs, result, err := svc.ResolveAutoMove(round, "u1", "CPU", 667, -1)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if result != 222 {
		t.Fatalf("result = %d, want 222", result)
	}
	if round.CurrentTurn != "u1" {
		t.Fatalf("current turn = %s, want u1", round.CurrentTurn)
	}

	num := evs[0].Payload.(RandomNumberPayload)
	if num.User != "CPU" || num.SelectedNumber != -1 || !num.IsCorrectResult {
		t.Fatalf("cpu number payload unexpected: %+v", num)
	}

	play := evs[1].Payload.(TurnPayload)
	if play.User != "u1" || play.State != domain.TurnPlay {
		t.Fatalf("handoff back to human unexpected: %+v", play)
	}
}

func TestResolveAutoMoveGameOver(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(7)))
	round := &domain.Round{Phase: domain.PhasePlaying, CurrentTurn: "cpu:1"}

	evs, result, err := svc.ResolveAutoMove(round, "u1", "CPU", 2, 1)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if result != 1 {
		t.Fatalf("result = %d, want 1", result)
	}
	if round.Phase != domain.PhaseOver {
		t.Fatalf("phase = %s, want over", round.Phase)
	}

	last := evs[len(evs)-1]
	if last.Kind != EventGameOver {
		t.Fatalf("last event = %s, want game over", last.Kind)
	}
	if p := last.Payload.(GameOverPayload); p.User != "CPU" {
		t.Fatalf("game over user = %s, want CPU", p.User)
	}
}

func TestResolveAutoMoveRequiresActiveRound(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(7)))
	round := &domain.Round{Phase: domain.PhaseOver}

	if _, _, err := svc.ResolveAutoMove(round, "u1", "CPU", 2, 1); !errors.Is(err, ErrRoundNotActive) {
		t.Fatalf("err = %v, want ErrRoundNotActive", err)
	}
}

func TestNextMover(t *testing.T) {
	tests := []struct {
		name    string
		members []string
		mover   string
		cpuID   string
		want    string
	}{
		{name: "pair hands to other", members: []string{"u1", "u2"}, mover: "u1", want: "u2"},
		{name: "pair hands back", members: []string{"u1", "u2"}, mover: "u2", want: "u1"},
		{name: "solo hands to automated slot", members: []string{"u1"}, mover: "u1", cpuID: "cpu:1", want: "cpu:1"},
		{name: "solo without opponent keeps mover", members: []string{"u1"}, mover: "u1", want: "u1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextMover(tt.members, tt.mover, tt.cpuID); got != tt.want {
				t.Fatalf("NextMover() = %s, want %s", got, tt.want)
			}
		})
	}
}
