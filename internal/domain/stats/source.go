package stats

import (
	"context"

	"github.com/qpfl/league-core/internal/domain/player"
	"github.com/qpfl/league-core/internal/domain/scoring"
)

// GameResult is an NFL team's final score for a week.
type GameResult struct {
	Team          string `json:"team"`
	Opponent      string `json:"opponent"`
	PointsFor     int    `json:"points_for"`
	PointsAllowed int    `json:"points_allowed"`
}

// Source supplies raw weekly statistics. A missing row is reported with
// found=false and a nil error.
type Source interface {
	PlayerStats(ctx context.Context, name, nflTeam string, pos player.Position, season, week int) (scoring.RawStats, bool, error)
	TeamGameResult(ctx context.Context, nflTeam string, season, week int) (GameResult, bool, error)
}
