// Package sqlstore keeps player records in Postgres through gorm. Inside Nakama
// it shares the server's own database connection.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"blitztactics/internal/domain"
	"blitztactics/internal/ports"
)

const gamesPlayedCounter = "games_played"

type playerRow struct {
	Owner        string `gorm:"primaryKey"`
	Wins         int    `gorm:"not null;default:0"`
	Losses       int    `gorm:"not null;default:0"`
	Draws        int    `gorm:"not null;default:0"`
	Ranking      int    `gorm:"not null"`
	TotalMatches int    `gorm:"not null;default:0"`
	OwnedCards   []int  `gorm:"serializer:json;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (playerRow) TableName() string { return "blitz_players" }

func (r playerRow) record() *domain.PlayerRecord {
	return &domain.PlayerRecord{
		Owner:        r.Owner,
		Wins:         r.Wins,
		Losses:       r.Losses,
		Draws:        r.Draws,
		Ranking:      r.Ranking,
		TotalMatches: r.TotalMatches,
		OwnedCards:   append([]int(nil), r.OwnedCards...),
	}
}

type counterRow struct {
	Name  string `gorm:"primaryKey"`
	Value int64  `gorm:"not null;default:0"`
}

func (counterRow) TableName() string { return "blitz_counters" }

// Store implements ports.PlayerStore and ports.GamesCounter.
type Store struct {
	db *gorm.DB
}

var (
	_ ports.PlayerStore  = (*Store)(nil)
	_ ports.GamesCounter = (*Store)(nil)
)

// Open wraps an existing connection, such as the *sql.DB Nakama hands to InitModule,
// and migrates the tables.
func Open(conn *sql.DB) (*Store, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm on shared connection: %w", err)
	}
	return New(db)
}

// OpenDSN connects to dsn and migrates the tables.
func OpenDSN(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return New(db)
}

// New migrates the tables on db and returns a Store.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&playerRow{}, &counterRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate blitz tables: %w", err)
	}
	return &Store{db: db}, nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	}
}

func (s *Store) CreatePlayer(ctx context.Context, owner string, initialRanking int) (*domain.PlayerRecord, error) {
	rec := domain.NewPlayerRecord(owner, initialRanking)
	row := playerRow{
		Owner:      rec.Owner,
		Ranking:    rec.Ranking,
		OwnedCards: rec.OwnedCards,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("player %s: %w", owner, domain.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to insert player %s: %w", owner, err)
	}
	return row.record(), nil
}

func (s *Store) GetStats(ctx context.Context, owner string) (*domain.PlayerRecord, error) {
	var row playerRow
	err := s.db.WithContext(ctx).Where("owner = ?", owner).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("player %s: %w", owner, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load player %s: %w", owner, err)
	}
	return row.record(), nil
}

// RecordWin updates the counters in one statement; a missing row matches nothing.
func (s *Store) RecordWin(ctx context.Context, owner string, delta int) error {
	err := s.db.WithContext(ctx).Model(&playerRow{}).Where("owner = ?", owner).Updates(map[string]interface{}{
		"wins":          gorm.Expr("wins + 1"),
		"total_matches": gorm.Expr("total_matches + 1"),
		"ranking":       gorm.Expr("ranking + ?", delta),
	}).Error
	if err != nil {
		return fmt.Errorf("failed to record win for %s: %w", owner, err)
	}
	return nil
}

// RecordLoss updates the counters in one statement, flooring ranking at zero.
func (s *Store) RecordLoss(ctx context.Context, owner string, delta int) error {
	err := s.db.WithContext(ctx).Model(&playerRow{}).Where("owner = ?", owner).Updates(map[string]interface{}{
		"losses":        gorm.Expr("losses + 1"),
		"total_matches": gorm.Expr("total_matches + 1"),
		"ranking":       gorm.Expr("GREATEST(ranking - ?, 0)", delta),
	}).Error
	if err != nil {
		return fmt.Errorf("failed to record loss for %s: %w", owner, err)
	}
	return nil
}

func (s *Store) GrantCard(ctx context.Context, owner string, cardID int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row playerRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("owner = ?", owner).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("player %s: %w", owner, domain.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to lock player %s: %w", owner, err)
		}
		rec := row.record()
		if !rec.GrantCard(cardID) {
			return nil
		}
		row.OwnedCards = rec.OwnedCards
		if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("failed to save cards for %s: %w", owner, err)
		}
		return nil
	})
}

func (s *Store) IncrementGamesPlayed(ctx context.Context) (int64, error) {
	var out counterRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"value": gorm.Expr("blitz_counters.value + 1")}),
		}).Create(&counterRow{Name: gamesPlayedCounter, Value: 1}).Error
		if err != nil {
			return err
		}
		return tx.Where("name = ?", gamesPlayedCounter).First(&out).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to increment games played: %w", err)
	}
	return out.Value, nil
}

func (s *Store) GamesPlayed(ctx context.Context) (int64, error) {
	var row counterRow
	err := s.db.WithContext(ctx).Where("name = ?", gamesPlayedCounter).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read games played: %w", err)
	}
	return row.Value, nil
}
