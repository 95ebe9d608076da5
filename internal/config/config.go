package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
)

const (
	StorePlayersNakama = "nakama"
	StorePlayersSQL    = "sql"
	StoreMatchesNakama = "nakama"
	StoreMatchesRedis  = "redis"
	StoreMemory        = "memory"
)

// GameConfig holds match rules and backend selection.
type GameConfig struct {
	StartingHealth    int `json:"starting_health"`
	StartingMana      int `json:"starting_mana"`
	MaxMana           int `json:"max_mana"`
	ManaGrowthPerTurn int `json:"mana_growth_per_turn"`
	OpeningHandSize   int `json:"opening_hand_size"`
	DrawPerTurn       int `json:"draw_per_turn"`
	InitialRanking    int `json:"initial_ranking"`
	WinRankingDelta   int `json:"win_ranking_delta"`
	LossRankingDelta  int `json:"loss_ranking_delta"`

	// WinRewardGold is credited to the winner's wallet on finalization. Zero disables it.
	WinRewardGold int64 `json:"win_reward_gold"`

	PlayerStore string `json:"player_store"`
	MatchStore  string `json:"match_store"`
	RedisAddr   string `json:"redis_addr"`
	RedisDB     int    `json:"redis_db"`
}

// Default returns the built-in rules.
func Default() GameConfig {
	return GameConfig{
		StartingHealth:    20,
		StartingMana:      3,
		MaxMana:           10,
		ManaGrowthPerTurn: 1,
		OpeningHandSize:   4,
		DrawPerTurn:       1,
		InitialRanking:    1000,
		WinRankingDelta:   25,
		LossRankingDelta:  15,
		PlayerStore:       StorePlayersNakama,
		MatchStore:        StoreMatchesNakama,
		RedisAddr:         "127.0.0.1:6379",
	}
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from path once. Fields missing
// from the file keep their default values.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		c, err := ReadFile(path)
		if err != nil {
			loadErr = err
			return
		}
		cfg = &c
	})
	return loadErr
}

// ReadFile parses a config file on top of Default without touching the global config.
func ReadFile(path string) (GameConfig, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("failed to read game config: %w", err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	return c, nil
}

// GetGameConfig returns the loaded configuration, or the defaults when nothing was loaded.
func GetGameConfig() GameConfig {
	if cfg == nil {
		return Default()
	}
	return *cfg
}

// ApplyEnv overrides fields from blitz_* keys, as found in the Nakama runtime env.
// Malformed numbers are reported and leave the field untouched.
func (c *GameConfig) ApplyEnv(env map[string]string) error {
	ints := map[string]*int{
		"blitz_starting_health":      &c.StartingHealth,
		"blitz_starting_mana":        &c.StartingMana,
		"blitz_max_mana":             &c.MaxMana,
		"blitz_mana_growth_per_turn": &c.ManaGrowthPerTurn,
		"blitz_opening_hand_size":    &c.OpeningHandSize,
		"blitz_draw_per_turn":        &c.DrawPerTurn,
		"blitz_initial_ranking":      &c.InitialRanking,
		"blitz_win_ranking_delta":    &c.WinRankingDelta,
		"blitz_loss_ranking_delta":   &c.LossRankingDelta,
		"blitz_redis_db":             &c.RedisDB,
	}
	var firstErr error
	for key, dst := range ints {
		val, ok := env[key]
		if !ok {
			continue
		}
		i, err := strconv.Atoi(val)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("invalid %s %q: %w", key, val, err)
			}
			continue
		}
		*dst = i
	}
	if val, ok := env["blitz_win_reward_gold"]; ok {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			c.WinRewardGold = i
		} else if firstErr == nil {
			firstErr = fmt.Errorf("invalid blitz_win_reward_gold %q: %w", val, err)
		}
	}
	if val, ok := env["blitz_player_store"]; ok && val != "" {
		c.PlayerStore = val
	}
	if val, ok := env["blitz_match_store"]; ok && val != "" {
		c.MatchStore = val
	}
	if val, ok := env["blitz_redis_addr"]; ok && val != "" {
		c.RedisAddr = val
	}
	return firstErr
}

// Validate checks that the rules can produce a playable match.
func (c GameConfig) Validate() error {
	if c.StartingHealth <= 0 {
		return fmt.Errorf("starting_health must be positive, got %d", c.StartingHealth)
	}
	if c.StartingMana < 0 || c.MaxMana < c.StartingMana {
		return fmt.Errorf("mana settings invalid: starting=%d max=%d", c.StartingMana, c.MaxMana)
	}
	if c.OpeningHandSize < 0 || c.DrawPerTurn < 0 || c.ManaGrowthPerTurn < 0 {
		return fmt.Errorf("hand and growth settings must not be negative")
	}
	if c.WinRankingDelta < 0 || c.LossRankingDelta < 0 || c.WinRewardGold < 0 {
		return fmt.Errorf("ranking deltas and rewards must not be negative")
	}
	switch c.PlayerStore {
	case StorePlayersNakama, StorePlayersSQL, StoreMemory:
	default:
		return fmt.Errorf("unknown player_store %q", c.PlayerStore)
	}
	switch c.MatchStore {
	case StoreMatchesNakama, StoreMatchesRedis, StoreMemory:
	default:
		return fmt.Errorf("unknown match_store %q", c.MatchStore)
	}
	return nil
}
