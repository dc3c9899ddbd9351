// Package config loads server settings from the environment, with a .env
// file picked up when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server's runtime settings.
type Config struct {
	Port int // HTTP listen port

	BoardRows      int           // rows of a generated board
	BoardCols      int           // columns of a generated board
	PlayersWant    int           // participants a match waits for by default
	ExtraGoals     int           // additional treasures queued beyond one per player
	MaxRounds      int           // round cap before the match is scored as-is
	MoveTimeout    time.Duration // per-call budget for a participant response
	ShutdownGrace  time.Duration // drain window on SIGTERM
	DatabaseURL    string        // postgres DSN; empty disables persistence
	LogDevelopment bool          // human-readable logs instead of JSON
}

// Load reads the environment, falling back to defaults for anything unset.
func Load() (Config, error) {
	// A missing .env file is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Port:           8080,
		BoardRows:      7,
		BoardCols:      7,
		PlayersWant:    2,
		ExtraGoals:     0,
		MaxRounds:      1000,
		MoveTimeout:    4 * time.Second,
		ShutdownGrace:  10 * time.Second,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		LogDevelopment: os.Getenv("LOG_DEV") == "true",
	}

	var err error
	if cfg.Port, err = intEnv("PORT", cfg.Port); err != nil {
		return Config{}, err
	}
	if cfg.BoardRows, err = intEnv("BOARD_ROWS", cfg.BoardRows); err != nil {
		return Config{}, err
	}
	if cfg.BoardCols, err = intEnv("BOARD_COLS", cfg.BoardCols); err != nil {
		return Config{}, err
	}
	if cfg.PlayersWant, err = intEnv("PLAYERS_PER_MATCH", cfg.PlayersWant); err != nil {
		return Config{}, err
	}
	if cfg.ExtraGoals, err = intEnv("EXTRA_GOALS", cfg.ExtraGoals); err != nil {
		return Config{}, err
	}
	if cfg.MaxRounds, err = intEnv("MAX_ROUNDS", cfg.MaxRounds); err != nil {
		return Config{}, err
	}
	if cfg.MoveTimeout, err = durationEnv("MOVE_TIMEOUT", cfg.MoveTimeout); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownGrace, err = durationEnv("SHUTDOWN_GRACE", cfg.ShutdownGrace); err != nil {
		return Config{}, err
	}

	if cfg.BoardRows < 2 || cfg.BoardCols < 2 {
		return Config{}, fmt.Errorf("board must be at least 2x2, got %dx%d", cfg.BoardRows, cfg.BoardCols)
	}
	if cfg.PlayersWant < 1 {
		return Config{}, fmt.Errorf("PLAYERS_PER_MATCH must be positive, got %d", cfg.PlayersWant)
	}
	return cfg, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("environment variable %s must be an integer: %w", key, err)
	}
	return v, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("environment variable %s must be a duration: %w", key, err)
	}
	return v, nil
}
