package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/qpfl/league-core/internal/domain/player"
	"github.com/qpfl/league-core/internal/domain/scoring"
	"github.com/qpfl/league-core/internal/domain/stats"
	statsmock "github.com/qpfl/league-core/internal/mocks/domain/stats"
	"github.com/qpfl/league-core/internal/platform/resilience"
)

func TestStatsSource_CachesFoundAndMissingRows(t *testing.T) {
	next := statsmock.NewSource(t)
	next.
		On("PlayerStats", mock.Anything, "Josh Allen", "BUF", player.PositionQuarterback, 2025, 1).
		Return(scoring.RawStats{PassingTDs: 3}, true, nil).
		Once()
	next.
		On("TeamGameResult", mock.Anything, "NYJ", 2025, 1).
		Return(stats.GameResult{}, false, nil).
		Once()

	source := NewStatsSource(next, time.Minute, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		raw, found, err := source.PlayerStats(ctx, "Josh Allen", "BUF", player.PositionQuarterback, 2025, 1)
		if err != nil || !found || raw.PassingTDs != 3 {
			t.Fatalf("call %d: raw=%+v found=%v err=%v", i, raw, found, err)
		}
		_, found, err = source.TeamGameResult(ctx, "nyj", 2025, 1)
		if err != nil || found {
			t.Fatalf("call %d: expected cached miss, found=%v err=%v", i, found, err)
		}
	}
}

func TestStatsSource_TeamSpellingsShareOneLoad(t *testing.T) {
	next := statsmock.NewSource(t)
	next.
		On("PlayerStats", mock.Anything, "Josh Allen", "BUF", player.PositionQuarterback, 2025, 4).
		Return(scoring.RawStats{PassingYards: 300}, true, nil).
		Once()

	source := NewStatsSource(next, time.Minute, nil)
	ctx := context.Background()

	for _, team := range []string{"buf", " BUF", "Buf"} {
		raw, found, err := source.PlayerStats(ctx, "Josh Allen", team, player.PositionQuarterback, 2025, 4)
		if err != nil || !found || raw.PassingYards != 300 {
			t.Fatalf("team %q: raw=%+v found=%v err=%v", team, raw, found, err)
		}
	}
}

func TestStatsSource_InvalidateReloadsWeek(t *testing.T) {
	next := statsmock.NewSource(t)
	next.
		On("TeamGameResult", mock.Anything, "BUF", 2025, 2).
		Return(stats.GameResult{Team: "BUF", PointsFor: 20}, true, nil).
		Twice()

	source := NewStatsSource(next, time.Minute, nil)
	ctx := context.Background()

	if _, _, err := source.TeamGameResult(ctx, "BUF", 2025, 2); err != nil {
		t.Fatalf("first load: %v", err)
	}
	source.Invalidate(ctx, 2025, 2)
	if _, _, err := source.TeamGameResult(ctx, "BUF", 2025, 2); err != nil {
		t.Fatalf("reload: %v", err)
	}
}

func TestStatsSource_FailuresOpenBreaker(t *testing.T) {
	next := statsmock.NewSource(t)
	next.
		On("TeamGameResult", mock.Anything, "BUF", 2025, 3).
		Return(stats.GameResult{}, false, errors.New("feed down")).
		Twice()

	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Hour,
		HalfOpenMaxReq:   1,
	})
	source := NewStatsSource(next, time.Minute, breaker)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, _, err := source.TeamGameResult(ctx, "BUF", 2025, 3); err == nil {
			t.Fatalf("call %d: expected feed error", i)
		}
	}

	_, _, err := source.TeamGameResult(ctx, "BUF", 2025, 3)
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected open breaker, got %v", err)
	}
}
