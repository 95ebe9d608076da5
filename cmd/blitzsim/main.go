// Command blitzsim plays scripted matches between two autopilot players
// through the same coordinator the Nakama module uses.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"blitztactics/internal/app"
	"blitztactics/internal/config"
	"blitztactics/internal/domain"
	"blitztactics/internal/logging"
	"blitztactics/internal/ports"
	"blitztactics/internal/store/memory"
	"blitztactics/internal/store/redisstore"
	"blitztactics/internal/store/sqlstore"
)

const maxTurns = 100

func main() {
	configPath := flag.String("config", "data/game_config.json", "game config file")
	matches := flag.Int("matches", 1, "number of matches to play")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		color.Yellow("No .env file found, reading environment variables directly")
	}

	logger, err := logging.NewConsole(*verbose)
	if err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}

	err = run(context.Background(), logger, *configPath, *matches)
	if err != nil {
		logger.Error("blitzsim: %v", err)
	}
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *logging.ZapLogger, configPath string, matches int) error {
	cfg, err := config.ReadFile(configPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := cfg.ApplyEnv(blitzEnv(os.Environ())); err != nil {
		logger.Warn("Ignoring invalid game config override: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid game config: %w", err)
	}

	players, matchStore, games, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}

	pilot := &autopilot{}
	coord, err := app.NewCoordinator(app.Deps{
		Engine:   app.NewEngine(cfg, domain.StarterCatalog(), nil),
		Players:  players,
		Matches:  matchStore,
		Games:    games,
		Notifier: newConsoleNotifier(os.Stdout),
		AI:       pilot,
		Config:   cfg,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	pilot.coord = coord

	a, b := uuid.NewString(), uuid.NewString()
	for _, owner := range []string{a, b} {
		if _, err := coord.CreatePlayerProfile(ctx, owner); err != nil {
			return err
		}
	}

	for i := 0; i < matches; i++ {
		first, second := a, b
		if i%2 == 1 {
			first, second = b, a
		}
		if err := playMatch(ctx, coord, first, second); err != nil {
			return err
		}
	}

	for _, owner := range []string{a, b} {
		rec, err := coord.GetPlayerStats(ctx, owner)
		if err != nil {
			return err
		}
		color.Cyan("%s  wins=%d losses=%d ranking=%d", short(owner), rec.Wins, rec.Losses, rec.Ranking)
	}
	total, err := coord.GetTotalGamesPlayed(ctx)
	if err != nil {
		return err
	}
	color.Cyan("games played: %d", total)
	return nil
}

// playMatch lets the autopilot take turns until the match is finalized.
func playMatch(ctx context.Context, coord *app.Coordinator, a, b string) error {
	if _, err := coord.CreateMatch(ctx, a, b); err != nil {
		return err
	}
	for turn := 0; turn < maxTurns; turn++ {
		m, err := coord.GetActiveMatch(ctx, a)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		actor := m.Player(m.ActingSide()).Owner
		if err := coord.RequestAIMove(ctx, actor); err != nil {
			return err
		}
	}
	return fmt.Errorf("match between %s and %s did not finish in %d turns", short(a), short(b), maxTurns)
}

func openStores(ctx context.Context, cfg config.GameConfig) (ports.PlayerStore, ports.MatchStore, ports.GamesCounter, error) {
	var players ports.PlayerStore = memory.NewPlayerStore()
	var games ports.GamesCounter = &memory.GamesCounter{}
	if cfg.PlayerStore == config.StorePlayersSQL {
		s, err := sqlstore.OpenDSN(os.Getenv("BLITZ_DSN"))
		if err != nil {
			return nil, nil, nil, err
		}
		players, games = s, s
	}

	if cfg.MatchStore == config.StoreMatchesRedis {
		s, err := redisstore.Dial(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return nil, nil, nil, err
		}
		if cfg.PlayerStore != config.StorePlayersSQL {
			games = s
		}
		return players, s, games, nil
	}
	return players, memory.NewMatchStore(), games, nil
}

// blitzEnv maps BLITZ_* process variables to the blitz_* keys of the runtime env.
func blitzEnv(environ []string) map[string]string {
	env := make(map[string]string)
	for _, kv := range environ {
		key, val, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, "BLITZ_") {
			continue
		}
		env[strings.ToLower(key)] = val
	}
	return env
}

func short(owner string) string {
	if len(owner) > 8 {
		return owner[:8]
	}
	return owner
}
