package nakama

import (
	"context"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"

	"blitztactics/internal/ports"
)

// NakamaAccountAdapter implements ports.AccountPort on top of Nakama accounts.
// Onboarding uses it to give a freshly registered device account a readable
// name before the first match is offered.
type NakamaAccountAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaAccountAdapter creates a new account adapter.
func NewNakamaAccountAdapter(nk runtime.NakamaModule) *NakamaAccountAdapter {
	return &NakamaAccountAdapter{nk: nk}
}

// UpdateDisplayName sets the username and display name of userID.
//
// Nakama treats empty strings as "leave unchanged", so timezone, location,
// language and avatar keep whatever the client stored. Metadata is passed as
// nil for the same reason.
func (a *NakamaAccountAdapter) UpdateDisplayName(ctx context.Context, userID, username, displayName string) error {
	if err := a.nk.AccountUpdateId(ctx, userID, username, nil, displayName, "", "", "", ""); err != nil {
		return fmt.Errorf("failed to update account %s: %w", userID, err)
	}
	return nil
}

var _ ports.AccountPort = (*NakamaAccountAdapter)(nil)
