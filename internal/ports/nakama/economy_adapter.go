package nakama

import (
	"context"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"

	"blitztactics/internal/ports"
)

const walletCurrency = "gold"

// NakamaEconomyAdapter implements ports.EconomyPort using Nakama's wallet system.
type NakamaEconomyAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaEconomyAdapter creates a new economy adapter.
func NewNakamaEconomyAdapter(nk runtime.NakamaModule) *NakamaEconomyAdapter {
	return &NakamaEconomyAdapter{
		nk: nk,
	}
}

// GrantRewards credits each grant to the player's wallet and records it in the ledger.
func (a *NakamaEconomyAdapter) GrantRewards(ctx context.Context, grants []ports.RewardGrant) error {
	for _, grant := range grants {
		if grant.Amount == 0 {
			continue
		}

		changes := map[string]int64{
			walletCurrency: grant.Amount,
		}

		_, _, err := a.nk.WalletUpdate(ctx, grant.UserID, changes, grant.Metadata, true)
		if err != nil {
			return fmt.Errorf("failed to update wallet for user %s: %w", grant.UserID, err)
		}
	}
	return nil
}

var _ ports.EconomyPort = (*NakamaEconomyAdapter)(nil)
