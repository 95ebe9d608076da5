// Package redisstore keeps active matches in Redis so several Nakama nodes can
// share them. Every key carries the {blitz} hash tag so multi-key transactions
// stay in one cluster slot.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"blitztactics/internal/domain"
	"blitztactics/internal/ports"
)

const (
	keyNextMatchID = "{blitz}:next_match_id"
	keyGamesPlayed = "{blitz}:games_played"

	maxTxRetries = 16
)

func matchKey(id int64) string     { return "{blitz}:match:" + strconv.FormatInt(id, 10) }
func indexKey(owner string) string { return "{blitz}:player_match:" + owner }

// Store implements ports.MatchStore and ports.GamesCounter.
type Store struct {
	rdb redis.UniversalClient
}

var (
	_ ports.MatchStore   = (*Store)(nil)
	_ ports.GamesCounter = (*Store)(nil)
)

func New(rdb redis.UniversalClient) *Store {
	return &Store{rdb: rdb}
}

// Dial connects to a single Redis node and checks it answers.
func Dial(ctx context.Context, addr string, db int) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
	}
	return New(rdb), nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.rdb.Close()
}

func (s *Store) CreateMatch(ctx context.Context, sideA, sideB string, initial *domain.Match) (*domain.Match, error) {
	var created *domain.Match
	txf := func(tx *redis.Tx) error {
		for _, owner := range []string{sideA, sideB} {
			id, err := tx.Get(ctx, indexKey(owner)).Result()
			if err == nil {
				return fmt.Errorf("player %s in match %s: %w", owner, id, domain.ErrPlayerAlreadyInMatch)
			}
			if !errors.Is(err, redis.Nil) {
				return err
			}
		}

		id, err := tx.Incr(ctx, keyNextMatchID).Result()
		if err != nil {
			return err
		}
		m := initial.Clone()
		m.ID = id
		data, err := json.Marshal(m)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, matchKey(id), data, 0)
			pipe.Set(ctx, indexKey(sideA), id, 0)
			pipe.Set(ctx, indexKey(sideB), id, 0)
			return nil
		})
		if err == nil {
			created = m
		}
		return err
	}

	if err := s.watch(ctx, txf, indexKey(sideA), indexKey(sideB)); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	return created, nil
}

func (s *Store) GetMatchForPlayer(ctx context.Context, owner string) (*domain.Match, error) {
	id, err := s.rdb.Get(ctx, indexKey(owner)).Int64()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("active match for %s: %w", owner, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read match index for %s: %w", owner, err)
	}
	return s.getMatch(ctx, id)
}

func (s *Store) getMatch(ctx context.Context, id int64) (*domain.Match, error) {
	data, err := s.rdb.Get(ctx, matchKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("match %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read match %d: %w", id, err)
	}
	var m domain.Match
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode match %d: %w", id, err)
	}
	return &m, nil
}

// UpdateMatch writes m under WATCH on the match key once the stored revision is
// confirmed to be m.Revision. A concurrent commit aborts the MULTI and is
// reported as a stale update rather than retried.
func (s *Store) UpdateMatch(ctx context.Context, m *domain.Match) error {
	next := m.Clone()
	next.Revision++
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode match %d: %w", m.ID, err)
	}

	key := matchKey(m.ID)
	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("match %d: %w", m.ID, domain.ErrNotFound)
		}
		if err != nil {
			return err
		}
		var stored domain.Match
		if err := json.Unmarshal(raw, &stored); err != nil {
			return fmt.Errorf("failed to decode match %d: %w", m.ID, err)
		}
		if stored.Revision != m.Revision {
			return fmt.Errorf("match %d at revision %d, update from %d: %w", m.ID, stored.Revision, m.Revision, domain.ErrStaleMatch)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SetXX(ctx, key, data, 0)
			return nil
		})
		return err
	}

	err = s.rdb.Watch(ctx, txf, key)
	switch {
	case errors.Is(err, redis.TxFailedErr):
		return fmt.Errorf("match %d: %w", m.ID, domain.ErrStaleMatch)
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrStaleMatch):
		return err
	case err != nil:
		return fmt.Errorf("failed to write match %d: %w", m.ID, err)
	}
	m.Revision = next.Revision
	return nil
}

// EndMatch deletes the match and the index entries still pointing at it in one MULTI.
func (s *Store) EndMatch(ctx context.Context, matchID int64) error {
	m, err := s.getMatch(ctx, matchID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	keys := []string{matchKey(matchID)}
	for _, owner := range m.Participants() {
		keys = append(keys, indexKey(owner))
	}

	txf := func(tx *redis.Tx) error {
		del := []string{matchKey(matchID)}
		for _, owner := range m.Participants() {
			id, err := tx.Get(ctx, indexKey(owner)).Int64()
			if errors.Is(err, redis.Nil) {
				continue
			}
			if err != nil {
				return err
			}
			if id == matchID {
				del = append(del, indexKey(owner))
			}
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, del...)
			return nil
		})
		return err
	}
	if err := s.watch(ctx, txf, keys...); err != nil {
		return fmt.Errorf("failed to end match %d: %w", matchID, err)
	}
	return nil
}

func (s *Store) IncrementGamesPlayed(ctx context.Context) (int64, error) {
	n, err := s.rdb.Incr(ctx, keyGamesPlayed).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment games played: %w", err)
	}
	return n, nil
}

func (s *Store) GamesPlayed(ctx context.Context) (int64, error) {
	n, err := s.rdb.Get(ctx, keyGamesPlayed).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read games played: %w", err)
	}
	return n, nil
}

// watch runs txf under WATCH on keys, retrying when a watched key changed.
func (s *Store) watch(ctx context.Context, txf func(*redis.Tx) error, keys ...string) error {
	for i := 0; i < maxTxRetries; i++ {
		err := s.rdb.Watch(ctx, txf, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("gave up after %d attempts: %w", maxTxRetries, redis.TxFailedErr)
}
