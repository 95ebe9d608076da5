package nakama

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type objectID struct {
	collection, key, userID string
}

// fakeNakama implements the parts of runtime.NakamaModule the adapters use.
// Storage writes and deletes honour versions and apply a batch all or nothing.
type fakeNakama struct {
	runtime.NakamaModule

	mu            sync.Mutex
	nextVersion   int
	objects       map[objectID]*api.StorageObject
	notifications []*runtime.NotificationSend
	wallets       map[string]map[string]int64
	displayNames  map[string]string
	notifyErr     error
	accountErr    error
}

func newFakeNakama() *fakeNakama {
	return &fakeNakama{
		objects:      make(map[objectID]*api.StorageObject),
		wallets:      make(map[string]map[string]int64),
		displayNames: make(map[string]string),
	}
}

func (f *fakeNakama) StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*api.StorageObject
	for _, r := range reads {
		if obj, ok := f.objects[objectID{r.Collection, r.Key, r.UserID}]; ok {
			cp := *obj
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeNakama) StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range writes {
		existing, exists := f.objects[objectID{w.Collection, w.Key, w.UserID}]
		switch {
		case w.Version == "*" && exists:
			return nil, runtime.ErrStorageRejectedVersion
		case w.Version != "" && w.Version != "*" && (!exists || existing.Version != w.Version):
			return nil, runtime.ErrStorageRejectedVersion
		}
	}
	acks := make([]*api.StorageObjectAck, 0, len(writes))
	for _, w := range writes {
		f.nextVersion++
		version := fmt.Sprintf("v%d", f.nextVersion)
		f.objects[objectID{w.Collection, w.Key, w.UserID}] = &api.StorageObject{
			Collection:      w.Collection,
			Key:             w.Key,
			UserId:          w.UserID,
			Value:           w.Value,
			Version:         version,
			PermissionRead:  int32(w.PermissionRead),
			PermissionWrite: int32(w.PermissionWrite),
		}
		acks = append(acks, &api.StorageObjectAck{Collection: w.Collection, Key: w.Key, UserId: w.UserID, Version: version})
	}
	return acks, nil
}

func (f *fakeNakama) StorageDelete(ctx context.Context, deletes []*runtime.StorageDelete) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range deletes {
		existing, exists := f.objects[objectID{d.Collection, d.Key, d.UserID}]
		if d.Version != "" && (!exists || existing.Version != d.Version) {
			return runtime.ErrStorageRejectedVersion
		}
	}
	for _, d := range deletes {
		delete(f.objects, objectID{d.Collection, d.Key, d.UserID})
	}
	return nil
}

func (f *fakeNakama) NotificationsSend(ctx context.Context, notifications []*runtime.NotificationSend) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.notifyErr != nil {
		return f.notifyErr
	}
	f.notifications = append(f.notifications, notifications...)
	return nil
}

func (f *fakeNakama) WalletUpdate(ctx context.Context, userID string, changeset map[string]int64, metadata map[string]interface{}, updateLedger bool) (map[string]int64, map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.wallets[userID]; !ok {
		f.wallets[userID] = make(map[string]int64)
	}
	prev := make(map[string]int64)
	for k, v := range f.wallets[userID] {
		prev[k] = v
	}
	for k, v := range changeset {
		f.wallets[userID][k] += v
	}
	return f.wallets[userID], prev, nil
}

func (f *fakeNakama) AccountUpdateId(ctx context.Context, userID, username string, metadata map[string]interface{}, displayName, timezone, location, langTag, avatarUrl string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.accountErr != nil {
		return f.accountErr
	}
	f.displayNames[userID] = displayName
	return nil
}

func (f *fakeNakama) notificationCodes() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, 0, len(f.notifications))
	for _, n := range f.notifications {
		out = append(out, n.Code)
	}
	return out
}

type authHook = func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, out *api.Session, in *api.AuthenticateDeviceRequest) error

// fakeInitializer records registrations.
type fakeInitializer struct {
	runtime.Initializer
	rpcs map[string]rpcFunc
	hook authHook
}

func (f *fakeInitializer) RegisterRpc(id string, fn func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error)) error {
	if f.rpcs == nil {
		f.rpcs = make(map[string]rpcFunc)
	}
	f.rpcs[id] = fn
	return nil
}

func (f *fakeInitializer) RegisterAfterAuthenticateDevice(fn func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, out *api.Session, in *api.AuthenticateDeviceRequest) error) error {
	f.hook = fn
	return nil
}
