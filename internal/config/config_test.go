package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("default port: %d", cfg.Port)
	}
	if cfg.BoardRows != 7 || cfg.BoardCols != 7 {
		t.Fatalf("default board: %dx%d", cfg.BoardRows, cfg.BoardCols)
	}
	if cfg.MoveTimeout != 4*time.Second {
		t.Fatalf("default move timeout: %v", cfg.MoveTimeout)
	}
	if cfg.MaxRounds != 1000 {
		t.Fatalf("default round cap: %d", cfg.MaxRounds)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BOARD_ROWS", "9")
	t.Setenv("PLAYERS_PER_MATCH", "4")
	t.Setenv("MOVE_TIMEOUT", "250ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9090 || cfg.BoardRows != 9 || cfg.PlayersWant != 4 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.MoveTimeout != 250*time.Millisecond {
		t.Fatalf("move timeout: %v", cfg.MoveTimeout)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		key, value string
	}{
		{"PORT", "not-a-number"},
		{"MOVE_TIMEOUT", "fast"},
		{"BOARD_ROWS", "1"},
		{"PLAYERS_PER_MATCH", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected an error for %s=%s", tc.key, tc.value)
			}
		})
	}
}
