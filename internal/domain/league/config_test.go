package league

import (
	"errors"
	"testing"

	"github.com/qpfl/league-core/internal/domain/player"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name: "starters exceed roster",
			mutate: func(c *Config) {
				c.StarterSlots[player.PositionQuarterback] = 4
			},
		},
		{
			name: "playoff week overlaps",
			mutate: func(c *Config) {
				c.PlayoffWeeks = []int{15, 16}
			},
		},
		{
			name: "duplicate seed",
			mutate: func(c *Config) {
				c.PlayoffStructure[1].Seeds = []int{4, 5}
			},
		},
		{
			name: "fixture unknown team",
			mutate: func(c *Config) {
				c.Schedule = []Fixture{{Week: 1, Home: "GSA", Away: "XXX"}}
			},
		},
		{
			name: "self fixture",
			mutate: func(c *Config) {
				c.Schedule = []Fixture{{Week: 1, Home: "GSA", Away: "gsa"}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestTradeWindowOpen(t *testing.T) {
	cfg := DefaultConfig()

	cases := map[int]bool{1: true, 11: true, 12: false, 15: false, 17: false, 18: true}
	for week, want := range cases {
		if got := cfg.TradeWindowOpen(week); got != want {
			t.Fatalf("week %d: open=%v want=%v", week, got, want)
		}
	}

	cfg.PlayoffWeeks = nil
	if cfg.LastSeasonWeek() != 15 {
		t.Fatalf("unexpected last week without playoffs: %d", cfg.LastSeasonWeek())
	}
	if !cfg.TradeWindowOpen(16) {
		t.Fatalf("expected window open after a season with no playoffs")
	}
}

func TestCanonicalTeam(t *testing.T) {
	cfg := DefaultConfig()
	got, err := cfg.CanonicalTeam(" s/t ")
	if err != nil || got != "S/T" {
		t.Fatalf("unexpected canonical team: %q %v", got, err)
	}
	if _, err := cfg.CanonicalTeam("NOPE"); !errors.Is(err, ErrUnknownTeam) {
		t.Fatalf("expected ErrUnknownTeam, got %v", err)
	}
}
