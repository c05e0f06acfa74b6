package app

import (
	"errors"
	"math/rand"
	"time"

	"trisect/internal/domain"
)

// Service contains convergence game use-cases operating on round state.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with the provided rng or a time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var (
	ErrNoMembers      = errors.New("room has no members")
	ErrRoundNotActive = errors.New("no active round")
	ErrRoundOver      = errors.New("round is over")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrBadStartRange  = errors.New("invalid start value range")
)

// Mover identifies the participant submitting a move.
type Mover struct {
	ID          string // connection id
	DisplayName string
}

// StartRound opens a new round for the room. It draws the first value
// uniformly from [minValue, maxValue] and authorizes the member observed
// first in join order, with no wait counterpart.
func (s *Service) StartRound(members []string, minValue, maxValue int64) (*domain.Round, []Event, error) {
	if len(members) == 0 {
		return nil, nil, ErrNoMembers
	}
	if maxValue < minValue {
		return nil, nil, ErrBadStartRange
	}

	first := members[0]
	round := &domain.Round{
		Phase:       domain.PhasePlaying,
		CurrentTurn: first,
	}

	events := []Event{
		{
			Kind: EventRandomNumber,
			Payload: RandomNumberPayload{
				Number:  s.randomBetween(minValue, maxValue),
				IsFirst: true,
			},
		},
		{
			Kind:    EventTurn,
			Payload: TurnPayload{User: first, State: domain.TurnPlay},
		},
	}

	return round, events, nil
}

// SubmitNumber resolves a human move. previous is the value the move message
// carried and delta the mover's chosen contribution; the round itself never
// stores the value between moves. cpuID is the automated opponent id for
// cpu rooms, empty otherwise. It returns the resulting value alongside the
// events so callers can schedule an automated reply.
func (s *Service) SubmitNumber(round *domain.Round, members []string, cpuID string, mover Mover, previous, delta int64) ([]Event, int64, error) {
	if round == nil || round.Phase == domain.PhaseIdle {
		return nil, 0, ErrRoundNotActive
	}
	if round.Phase == domain.PhaseOver {
		return nil, 0, ErrRoundOver
	}
	if round.CurrentTurn != mover.ID {
		return nil, 0, ErrNotYourTurn
	}

	result := domain.ApplyMove(previous, delta)
	events := []Event{
		{
			Kind: EventRandomNumber,
			Payload: RandomNumberPayload{
				Number:          result,
				User:            mover.DisplayName,
				SelectedNumber:  delta,
				IsCorrectResult: domain.IsCorrect(previous, delta),
			},
		},
		{
			Kind:    EventTurn,
			Payload: TurnPayload{User: mover.ID, State: domain.TurnWait},
		},
	}

	if domain.IsOver(result) {
		round.Phase = domain.PhaseOver
		events = append(events, Event{
			Kind:    EventGameOver,
			Payload: GameOverPayload{User: mover.DisplayName, IsOver: true},
		})
	}

	next := NextMover(members, mover.ID, cpuID)
	round.CurrentTurn = next
	events = append(events, Event{
		Kind:    EventTurn,
		Payload: TurnPayload{User: next, State: domain.TurnPlay},
	})

	return events, result, nil
}

// ResolveAutoMove resolves the automated opponent's delayed move against the
// human's resulting value and hands the turn back to the human.
func (s *Service) ResolveAutoMove(round *domain.Round, humanID, cpuName string, previous, delta int64) ([]Event, int64, error) {
	if round == nil || round.Phase != domain.PhasePlaying {
		return nil, 0, ErrRoundNotActive
	}

	result := domain.ApplyMove(previous, delta)
	events := []Event{
		{
			Kind: EventRandomNumber,
			Payload: RandomNumberPayload{
				Number:          result,
				User:            cpuName,
				SelectedNumber:  delta,
				IsCorrectResult: domain.IsCorrect(previous, delta),
			},
		},
		{
			Kind:    EventTurn,
			Payload: TurnPayload{User: humanID, State: domain.TurnPlay},
		},
	}

	round.CurrentTurn = humanID
	if domain.IsOver(result) {
		round.Phase = domain.PhaseOver
		events = append(events, Event{
			Kind:    EventGameOver,
			Payload: GameOverPayload{User: cpuName, IsOver: true},
		})
	}

	return events, result, nil
}

// randomBetween draws uniformly from [min, max], inclusive on both ends.
func (s *Service) randomBetween(min, max int64) int64 {
	return min + s.rng.Int63n(max-min+1)
}
