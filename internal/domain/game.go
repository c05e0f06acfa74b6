package domain

// Phase represents the lifecycle stage of a convergence round.
type Phase string

const (
	// PhaseIdle is the state before any round has been started.
	PhaseIdle Phase = "idle"
	// PhasePlaying is the active state where moves are accepted.
	PhasePlaying Phase = "playing"
	// PhaseOver is the state after the value reached the terminal 1.
	PhaseOver Phase = "over"
)

// RoomType selects the opponent kind and derives room capacity.
type RoomType string

const (
	// RoomTypePVP is a two-human room.
	RoomTypePVP RoomType = "pvp"
	// RoomTypeCPU is a one-human room whose second slot is the automated
	// opponent. The opponent occupies no connection slot.
	RoomTypeCPU RoomType = "cpu"
)

// Valid reports whether the room type is one of the supported kinds.
func (rt RoomType) Valid() bool {
	return rt == RoomTypePVP || rt == RoomTypeCPU
}

// Capacity returns the connection capacity for a room type.
func Capacity(rt RoomType) int {
	if rt == RoomTypeCPU {
		return 1
	}
	return 2
}

// TurnState tags a turn handoff for its addressee.
type TurnState string

const (
	TurnWait TurnState = "wait"
	TurnPlay TurnState = "play"
)

// Default range the first value of a round is drawn from, inclusive.
const (
	StartValueMin int64 = 1999
	StartValueMax int64 = 9999
)

// Round holds per-room round state. The current value itself is not stored
// here; every move message carries the prior value and the chosen delta.
type Round struct {
	Phase       Phase
	CurrentTurn string // connection id (or automated opponent id) allowed to move
}

// ApplyMove applies the convergence transformation: if value+delta is
// divisible by three the new value is the third of the sum, otherwise the
// value is unchanged and the move made no progress.
func ApplyMove(value, delta int64) int64 {
	sum := value + delta
	if sum%3 == 0 {
		return sum / 3
	}
	return value
}

// IsCorrect reports whether a move advanced the round, using the literal
// result-versus-prior-value comparison of the wire contract. Note the
// degenerate case: a divisible sum whose third equals the prior value is
// still reported incorrect.
func IsCorrect(value, delta int64) bool {
	return ApplyMove(value, delta) != value
}

// IsOver reports whether the value is the terminal 1.
func IsOver(value int64) bool {
	return value == 1
}
