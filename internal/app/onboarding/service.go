package onboarding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"trisect/internal/ports"
)

// Result captures the onboarding outcome.
type Result struct {
	// DisplayName is the name the identity was registered under.
	DisplayName string
}

// Service registers freshly authenticated identities in the session directory.
type Service struct {
	directory ports.Directory
	rng       *rand.Rand
}

// NewService constructs an onboarding service.
// directory must be non-nil; rng may be nil to use a time-seeded default.
func NewService(directory ports.Directory, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		directory: directory,
		rng:       rng,
	}
}

// OnboardNewUser creates the directory record for a session identity.
// displayName is used as provided; a blank name gets a generated friendly
// name. Returns the registered name and an error when the directory write
// fails.
func (s *Service) OnboardNewUser(ctx context.Context, userID, displayName string) (Result, error) {
	if s.directory == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}

	name := displayName
	if name == "" {
		name = s.generateFriendlyName()
	}

	if err := s.directory.CreateUser(ctx, userID, name); err != nil {
		return Result{}, fmt.Errorf("failed to register user: %w", err)
	}

	return Result{DisplayName: name}, nil
}

func (s *Service) generateFriendlyName() string {
	adjectives := []string{"Happy", "Shiny", "Brave", "Clever", "Swift", "Calm", "Mighty", "Witty", "Sly", "Wild"}
	nouns := []string{"Panda", "Tiger", "Eagle", "Dolphin", "Wolf", "Otter", "Falcon", "Bear", "Fox", "Lion"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
