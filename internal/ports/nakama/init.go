package nakama

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/heroiclabs/nakama-common/runtime"

	"blitztactics/internal/app"
	"blitztactics/internal/app/onboarding"
	"blitztactics/internal/config"
	"blitztactics/internal/domain"
	"blitztactics/internal/ports"
	"blitztactics/internal/store/memory"
	"blitztactics/internal/store/redisstore"
	"blitztactics/internal/store/sqlstore"
)

const defaultConfigPath = "data/game_config.json"

// InitModule wires stores, the coordinator, RPCs and auth hooks for the Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	cfg, err := loadConfig(logger, env)
	if err != nil {
		return err
	}

	players, matches, games, err := buildStores(ctx, logger, db, nk, cfg)
	if err != nil {
		return err
	}

	coord, err := app.NewCoordinator(app.Deps{
		Engine:   app.NewEngine(cfg, domain.StarterCatalog(), nil),
		Players:  players,
		Matches:  matches,
		Games:    games,
		Notifier: NewNakamaNotifier(nk),
		Economy:  NewNakamaEconomyAdapter(nk),
		AI:       ports.NoopAI{},
		Config:   cfg,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	handlers := &rpcHandlers{coord: coord}
	if err := handlers.RegisterRPCs(initializer); err != nil {
		return err
	}

	hooks := &authHooks{
		onboarding: onboarding.NewService(NewNakamaAccountAdapter(nk), players, cfg.InitialRanking, nil),
	}
	if err := initializer.RegisterAfterAuthenticateDevice(hooks.AfterAuthenticateDevice); err != nil {
		return err
	}

	logger.Info("Blitz Tactics Go module loaded (players=%s, matches=%s).", cfg.PlayerStore, cfg.MatchStore)
	return nil
}

// loadConfig reads the config file named by blitz_config_path, then applies env overrides.
// A missing file falls back to the defaults.
func loadConfig(logger runtime.Logger, env map[string]string) (config.GameConfig, error) {
	path := env["blitz_config_path"]
	if path == "" {
		path = defaultConfigPath
	}
	if err := config.LoadGameConfig(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return config.GameConfig{}, err
		}
		logger.Warn("Game config %s not found, using defaults.", path)
	}
	cfg := config.GetGameConfig()
	if err := cfg.ApplyEnv(env); err != nil {
		logger.Warn("Ignoring invalid game config override: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return config.GameConfig{}, fmt.Errorf("invalid game config: %w", err)
	}
	return cfg, nil
}

func buildStores(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, cfg config.GameConfig) (ports.PlayerStore, ports.MatchStore, ports.GamesCounter, error) {
	var players ports.PlayerStore
	switch cfg.PlayerStore {
	case config.StorePlayersSQL:
		s, err := sqlstore.Open(db)
		if err != nil {
			return nil, nil, nil, err
		}
		players = s
	case config.StoreMemory:
		logger.Warn("Player records are kept in memory and will not survive a restart.")
		players = memory.NewPlayerStore()
	default:
		players = NewNakamaPlayerAdapter(nk)
	}

	var matches ports.MatchStore
	var games ports.GamesCounter
	switch cfg.MatchStore {
	case config.StoreMatchesRedis:
		s, err := redisstore.Dial(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return nil, nil, nil, err
		}
		matches, games = s, s
	case config.StoreMemory:
		logger.Warn("Matches are kept in memory; run a single Nakama node.")
		s := memory.NewMatchStore()
		matches, games = s, &memory.GamesCounter{}
	default:
		s := NewNakamaMatchAdapter(nk)
		matches, games = s, s
	}
	return players, matches, gamesCounterFor(cfg, players, games), nil
}

// gamesCounterFor keeps the games counter next to the player records when they
// live in SQL, so finalized results and the total commit to the same database.
func gamesCounterFor(cfg config.GameConfig, players ports.PlayerStore, fallback ports.GamesCounter) ports.GamesCounter {
	if cfg.PlayerStore != config.StorePlayersSQL {
		return fallback
	}
	if counter, ok := players.(ports.GamesCounter); ok {
		return counter
	}
	return fallback
}
