package scoring

import (
	"math"
	"testing"

	"github.com/qpfl/league-core/internal/domain/league"
	"github.com/qpfl/league-core/internal/domain/player"
)

func starter(name string, pts float64, breakdown Breakdown) PlayerScore {
	return PlayerScore{Name: name, Position: player.PositionWideReceiver, Starter: true, Found: true, Points: pts, Breakdown: breakdown}
}

func TestValidateScores(t *testing.T) {
	cfg := league.DefaultConfig()

	tests := []struct {
		name         string
		team         TeamScore
		wantErrors   int
		wantWarnings int
	}{
		{
			name:         "clean week",
			team:         TeamScore{Team: "GSA", Total: 12, Starters: []PlayerScore{starter("A", 12, Breakdown{"receiving_yards": 12})}},
			wantErrors:   0,
			wantWarnings: 0,
		},
		{
			name:         "player out of range",
			team:         TeamScore{Team: "GSA", Total: 120, Starters: []PlayerScore{starter("A", 120, Breakdown{"receiving_yards": 120})}},
			wantWarnings: 1,
		},
		{
			name:         "negative team total",
			team:         TeamScore{Team: "GSA", Total: -3, Starters: []PlayerScore{starter("A", -3, Breakdown{"turnovers": -3})}},
			wantWarnings: 1,
		},
		{
			name:         "breakdown mismatch",
			team:         TeamScore{Team: "GSA", Total: 10, Starters: []PlayerScore{starter("A", 10, Breakdown{"receiving_yards": 9.5})}},
			wantWarnings: 1,
		},
		{
			name:       "nan player",
			team:       TeamScore{Team: "GSA", Total: 0, Starters: []PlayerScore{starter("A", math.NaN(), Breakdown{})}},
			wantErrors: 1,
		},
		{
			name:       "infinite total",
			team:       TeamScore{Team: "GSA", Total: math.Inf(1)},
			wantErrors: 1,
		},
		{
			name:         "average per starter alarm",
			team:         TeamScore{Team: "GSA", Total: 600},
			wantWarnings: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := ValidateScores(WeekScores{Season: 2025, Week: 1, Teams: []TeamScore{tt.team}}, cfg)
			if len(report.Errors) != tt.wantErrors {
				t.Fatalf("errors=%v want=%d", report.Errors, tt.wantErrors)
			}
			if len(report.Warnings) != tt.wantWarnings {
				t.Fatalf("warnings=%v want=%d", report.Warnings, tt.wantWarnings)
			}
			if report.OK() != (tt.wantErrors == 0) {
				t.Fatalf("unexpected OK()=%v", report.OK())
			}
		})
	}
}
