// Package store persists finished match results to postgres.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mazelabs/maze-referee/internal/referee"
)

// MatchResult is one finished match's outcome.
type MatchResult struct {
	ID         uint   `gorm:"primaryKey"`
	Code       string `gorm:"index"`
	Winners    string
	Losers     string
	Cheaters   string
	Rounds     int
	FinishedAt time.Time
}

// Store writes match outcomes through a gorm connection. It satisfies
// session.ResultSink.
type Store struct {
	db *gorm.DB
}

// Open connects to postgres and migrates the results table.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := db.AutoMigrate(&MatchResult{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) SaveResult(ctx context.Context, code string, result referee.GameResult) error {
	row := MatchResult{
		Code:       code,
		Winners:    strings.Join(result.Winners, ","),
		Losers:     strings.Join(result.Losers, ","),
		Cheaters:   strings.Join(result.Cheaters, ","),
		Rounds:     result.Rounds,
		FinishedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("save result for %s: %w", code, err)
	}
	return nil
}
