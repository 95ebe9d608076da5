package onboarding

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"blitztactics/internal/domain"
	"blitztactics/internal/ports"
)

// Result captures non-fatal onboarding outcomes.
type Result struct {
	// ProfileUpdateErr is set when the profile update failed but onboarding continued.
	ProfileUpdateErr error
	// RecordCreated is false when the player record already existed.
	RecordCreated bool
}

// Service handles post-auth onboarding for new users.
type Service struct {
	accounts       ports.AccountPort
	players        ports.PlayerStore
	initialRanking int
	rng            *rand.Rand
}

// NewService constructs an onboarding service with required ports.
// accounts/players must be non-nil; rng may be nil to use a time-seeded default.
func NewService(accounts ports.AccountPort, players ports.PlayerStore, initialRanking int, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		accounts:       accounts,
		players:        players,
		initialRanking: initialRanking,
		rng:            rng,
	}
}

// OnboardNewUser gives a newly created account a display name and its player record.
// An existing player record is not an error, so retried hooks are harmless.
func (s *Service) OnboardNewUser(ctx context.Context, userID string) (Result, error) {
	if s.accounts == nil || s.players == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}

	result := Result{}
	displayName := s.generateFriendlyName()
	if err := s.accounts.UpdateDisplayName(ctx, userID, displayName, displayName); err != nil {
		// Profile updates are best-effort; the player record is what gameplay needs.
		result.ProfileUpdateErr = err
	}

	_, err := s.players.CreatePlayer(ctx, userID, s.initialRanking)
	switch {
	case err == nil:
		result.RecordCreated = true
	case errors.Is(err, domain.ErrAlreadyExists):
	default:
		return result, fmt.Errorf("failed to create player record: %w", err)
	}

	return result, nil
}

func (s *Service) generateFriendlyName() string {
	adjectives := []string{"Blazing", "Arcane", "Brave", "Clever", "Swift", "Frozen", "Mighty", "Shadow", "Iron", "Wild"}
	nouns := []string{"Dragon", "Golem", "Wizard", "Knight", "Wolf", "Phoenix", "Falcon", "Titan", "Fox", "Warden"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
