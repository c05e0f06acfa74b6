package app

import "trisect/internal/domain"

// EventKind identifies emitted game events for transport dispatch.
type EventKind string

const (
	EventRandomNumber EventKind = "random_number"
	EventTurn         EventKind = "activate_turn"
	EventGameOver     EventKind = "game_over"
)

// Event is a game event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // connection ids; empty means broadcast to the room
}

// RandomNumberPayload carries a round value broadcast. For the opening
// broadcast of a round only Number and IsFirst are meaningful.
type RandomNumberPayload struct {
	Number          int64
	IsFirst         bool
	User            string // mover display name, or "CPU"
	SelectedNumber  int64  // the delta the mover chose
	IsCorrectResult bool
}

// TurnPayload hands the turn to (or away from) a participant.
type TurnPayload struct {
	User  string // connection id or automated opponent id
	State domain.TurnState
}

// GameOverPayload names the mover whose move produced the terminal value.
type GameOverPayload struct {
	User   string // mover display name, or "CPU"
	IsOver bool
}
