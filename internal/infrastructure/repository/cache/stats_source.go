package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/qpfl/league-core/internal/domain/player"
	"github.com/qpfl/league-core/internal/domain/scoring"
	"github.com/qpfl/league-core/internal/domain/stats"
	basecache "github.com/qpfl/league-core/internal/platform/cache"
	"github.com/qpfl/league-core/internal/platform/resilience"
)

// StatsSource memoizes a stats.Source for a TTL and guards it with a circuit
// breaker. Missing rows are cached like found ones; errors are not.
type StatsSource struct {
	next    stats.Source
	players *basecache.Store[cachedPlayerStats]
	games   *basecache.Store[cachedGameResult]
	breaker *resilience.CircuitBreaker
}

type cachedPlayerStats struct {
	value  scoring.RawStats
	exists bool
}

type cachedGameResult struct {
	value  stats.GameResult
	exists bool
}

func NewStatsSource(next stats.Source, ttl time.Duration, breaker *resilience.CircuitBreaker) *StatsSource {
	if breaker == nil {
		breaker = resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig())
	}
	return &StatsSource{
		next:    next,
		players: basecache.NewStore[cachedPlayerStats](ttl),
		games:   basecache.NewStore[cachedGameResult](ttl),
		breaker: breaker,
	}
}

func (s *StatsSource) PlayerStats(ctx context.Context, name, nflTeam string, pos player.Position, season, week int) (scoring.RawStats, bool, error) {
	nflTeam = player.NormalizeTeam(nflTeam)
	key := weekKey("player", season, week) + ":" + string(pos) + ":" + strings.ToLower(name) + ":" + nflTeam
	v, err := s.players.GetOrLoad(ctx, key, func(ctx context.Context) (cachedPlayerStats, error) {
		var out cachedPlayerStats
		err := s.breaker.Do(func() error {
			value, exists, err := s.next.PlayerStats(ctx, name, nflTeam, pos, season, week)
			out = cachedPlayerStats{value: value, exists: exists}
			return err
		}, nil)
		return out, err
	})
	if err != nil {
		return scoring.RawStats{}, false, err
	}
	return v.value, v.exists, nil
}

func (s *StatsSource) TeamGameResult(ctx context.Context, nflTeam string, season, week int) (stats.GameResult, bool, error) {
	nflTeam = player.NormalizeTeam(nflTeam)
	key := weekKey("game", season, week) + ":" + nflTeam
	v, err := s.games.GetOrLoad(ctx, key, func(ctx context.Context) (cachedGameResult, error) {
		var out cachedGameResult
		err := s.breaker.Do(func() error {
			value, exists, err := s.next.TeamGameResult(ctx, nflTeam, season, week)
			out = cachedGameResult{value: value, exists: exists}
			return err
		}, nil)
		return out, err
	})
	if err != nil {
		return stats.GameResult{}, false, err
	}
	return v.value, v.exists, nil
}

// Invalidate drops every cached row for a week, e.g. after stat corrections.
func (s *StatsSource) Invalidate(ctx context.Context, season, week int) {
	s.players.DeletePrefix(ctx, weekKey("player", season, week)+":")
	s.games.DeletePrefix(ctx, weekKey("game", season, week)+":")
}

func weekKey(kind string, season, week int) string {
	return kind + ":" + strconv.Itoa(season) + ":" + strconv.Itoa(week)
}
