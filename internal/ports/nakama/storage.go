package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
)

// maxCASRetries bounds read-modify-write loops on versioned storage objects.
const maxCASRetries = 8

// readObject loads one storage object into dst. found is false when it does not exist.
func readObject(ctx context.Context, nk runtime.NakamaModule, collection, key, userID string, dst interface{}) (version string, found bool, err error) {
	objects, err := nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: collection,
		Key:        key,
		UserID:     userID,
	}})
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s/%s: %w", collection, key, err)
	}
	if len(objects) == 0 {
		return "", false, nil
	}
	if err := json.Unmarshal([]byte(objects[0].Value), dst); err != nil {
		return "", false, fmt.Errorf("failed to decode %s/%s: %w", collection, key, err)
	}
	return objects[0].Version, true, nil
}

// newWrite builds a storage write. version "*" only creates, "" writes unconditionally,
// anything else must match the stored version.
func newWrite(collection, key, userID string, value interface{}, version string, permRead int) (*runtime.StorageWrite, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s/%s: %w", collection, key, err)
	}
	return &runtime.StorageWrite{
		Collection:      collection,
		Key:             key,
		UserID:          userID,
		Value:           string(data),
		Version:         version,
		PermissionRead:  permRead,
		PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
	}, nil
}

func isVersionConflict(err error) bool {
	return errors.Is(err, runtime.ErrStorageRejectedVersion)
}

type counterValue struct {
	Value int64 `json:"value"`
}

// incrementCounter adds one to a system-owned counter with optimistic concurrency.
func incrementCounter(ctx context.Context, nk runtime.NakamaModule, key string) (int64, error) {
	for attempt := 0; attempt < maxCASRetries; attempt++ {
		var c counterValue
		version, found, err := readObject(ctx, nk, collectionCounters, key, systemUserID, &c)
		if err != nil {
			return 0, err
		}
		if !found {
			version = "*"
		}
		c.Value++
		w, err := newWrite(collectionCounters, key, systemUserID, c, version, runtime.STORAGE_PERMISSION_NO_READ)
		if err != nil {
			return 0, err
		}
		if _, err := nk.StorageWrite(ctx, []*runtime.StorageWrite{w}); err != nil {
			if isVersionConflict(err) {
				continue
			}
			return 0, fmt.Errorf("failed to write counter %s: %w", key, err)
		}
		return c.Value, nil
	}
	return 0, fmt.Errorf("counter %s: too much contention", key)
}

func readCounter(ctx context.Context, nk runtime.NakamaModule, key string) (int64, error) {
	var c counterValue
	if _, _, err := readObject(ctx, nk, collectionCounters, key, systemUserID, &c); err != nil {
		return 0, err
	}
	return c.Value, nil
}
