package ports

import "context"

// RewardGrant is a single currency credit for a player.
type RewardGrant struct {
	UserID   string
	Amount   int64
	Metadata map[string]interface{}
}

// EconomyPort credits match rewards to player wallets.
type EconomyPort interface {
	// GrantRewards applies every grant. Zero amounts are skipped.
	GrantRewards(ctx context.Context, grants []RewardGrant) error
}

// AccountPort updates public account profile fields.
type AccountPort interface {
	// UpdateDisplayName sets username and display name for userID.
	UpdateDisplayName(ctx context.Context, userID, username, displayName string) error
}
