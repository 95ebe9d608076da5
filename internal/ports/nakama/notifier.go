package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"

	"blitztactics/internal/domain"
	"blitztactics/internal/ports"
)

// NakamaNotifier delivers events as persistent Nakama notifications.
// All notifications of one call go out in a single batch, in event order.
type NakamaNotifier struct {
	nk runtime.NakamaModule
}

// NewNakamaNotifier creates a new notifier.
func NewNakamaNotifier(nk runtime.NakamaModule) *NakamaNotifier {
	return &NakamaNotifier{nk: nk}
}

func (n *NakamaNotifier) Notify(ctx context.Context, events []domain.Event) error {
	batch := make([]*runtime.NotificationSend, 0, len(events)*2)
	for _, ev := range events {
		content, err := eventContent(ev)
		if err != nil {
			return err
		}
		code, ok := notificationCodes[ev.Kind]
		if !ok {
			return fmt.Errorf("no notification code for event %s", ev.Kind)
		}
		for _, userID := range ev.Recipients {
			batch = append(batch, &runtime.NotificationSend{
				UserID:     userID,
				Subject:    string(ev.Kind),
				Content:    content,
				Code:       code,
				Persistent: true,
			})
		}
	}
	if len(batch) == 0 {
		return nil
	}
	if err := n.nk.NotificationsSend(ctx, batch); err != nil {
		return fmt.Errorf("failed to send %d notifications: %w", len(batch), err)
	}
	return nil
}

// eventContent turns a typed payload into the map Nakama expects.
func eventContent(ev domain.Event) (map[string]interface{}, error) {
	data, err := json.Marshal(ev.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", ev.Kind, err)
	}
	content := map[string]interface{}{}
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("failed to convert %s payload: %w", ev.Kind, err)
	}
	return content, nil
}

var _ ports.Notifier = (*NakamaNotifier)(nil)
