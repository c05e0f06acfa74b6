package bot

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// idPrefix marks generated automated opponent identities. The opponent
// occupies no connection slot, so the id never collides with a session id.
const idPrefix = "cpu:"

// DisplayName is the public name every automated opponent plays under.
const DisplayName = "CPU"

// Strategy names accepted by NewAgent.
const (
	StrategyRandom = "random"
	StrategySolver = "solver"
)

// Agent is an automated opponent bound to one room.
type Agent struct {
	ID   string
	Name string

	brain Brain
}

// NewAgent creates an agent with a generated identity and the named
// strategy. An empty strategy selects the uniform random default. rng may
// be nil to use a time-seeded default.
func NewAgent(strategy string, rng *rand.Rand) (*Agent, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	var brain Brain
	switch strategy {
	case "", StrategyRandom:
		brain = NewRandomBrain(rng)
	case StrategySolver:
		brain = NewSolverBrain(rng)
	default:
		return nil, fmt.Errorf("unknown bot strategy %q", strategy)
	}

	return &Agent{
		ID:    idPrefix + uuid.NewString(),
		Name:  DisplayName,
		brain: brain,
	}, nil
}

// Play chooses the agent's delta for the given current value.
func (a *Agent) Play(value int64) int64 {
	return a.brain.ChooseDelta(value)
}

// IsBot reports whether the given user id represents an automated opponent.
func IsBot(userID string) bool {
	return strings.HasPrefix(userID, idPrefix)
}
