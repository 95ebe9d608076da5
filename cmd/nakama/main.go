package main

import (
	"context"
	"database/sql"

	"blitztactics/internal/ports/nakama"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule is the plugin entry point Nakama looks up; it delegates to the nakama adapter package.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	return nakama.InitModule(ctx, logger, db, nk, initializer)
}
