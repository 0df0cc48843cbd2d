package statsfeed

import (
	"context"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/qpfl/league-core/internal/domain/player"
	"github.com/qpfl/league-core/internal/domain/scoring"
	"github.com/qpfl/league-core/internal/domain/stats"
	"github.com/qpfl/league-core/internal/platform/logging"
	"github.com/qpfl/league-core/internal/platform/resilience"
)

// Snapshot is one week of stats, as served by a Fetcher.
type Snapshot struct {
	Season  int                `json:"season"`
	Week    int                `json:"week"`
	Players []PlayerRow        `json:"players"`
	Games   []stats.GameResult `json:"games"`
}

type PlayerRow struct {
	Name     string           `json:"name"`
	Team     string           `json:"team"`
	Position string           `json:"position"`
	Stats    scoring.RawStats `json:"stats"`
}

// Source serves player and team stats from weekly snapshots. Each week is
// fetched once and indexed by normalized name and team.
type Source struct {
	fetcher Fetcher
	logger  *logging.Logger

	mu     sync.RWMutex
	weeks  map[string]*weekIndex
	flight resilience.SingleFlight[*weekIndex]
}

type weekIndex struct {
	byName map[string][]PlayerRow
	byUnit map[string]scoring.RawStats
	games  map[string]stats.GameResult
}

func NewSource(fetcher Fetcher, logger *logging.Logger) *Source {
	return &Source{
		fetcher: fetcher,
		logger:  logging.OrDefault(logger).Named("statsfeed"),
		weeks:   make(map[string]*weekIndex),
	}
}

func (s *Source) PlayerStats(ctx context.Context, name, nflTeam string, pos player.Position, season, week int) (scoring.RawStats, bool, error) {
	idx, err := s.load(ctx, season, week)
	if err != nil {
		return scoring.RawStats{}, false, err
	}

	// Team units are keyed by franchise, whatever the roster calls them.
	if pos == player.PositionDefense || pos == player.PositionOffensiveLine {
		raw, ok := idx.byUnit[unitKey(pos, nflTeam)]
		return raw, ok, nil
	}

	rows := idx.byName[nameKey(pos, name)]
	switch len(rows) {
	case 0:
		return scoring.RawStats{}, false, nil
	case 1:
		return rows[0].Stats, true, nil
	}

	team := player.NormalizeTeam(nflTeam)
	for _, row := range rows {
		if player.NormalizeTeam(row.Team) == team {
			return row.Stats, true, nil
		}
	}
	s.logger.WarnContext(ctx, "ambiguous player name in snapshot", "name", name, "team", nflTeam, "candidates", len(rows))
	return scoring.RawStats{}, false, nil
}

func (s *Source) TeamGameResult(ctx context.Context, nflTeam string, season, week int) (stats.GameResult, bool, error) {
	idx, err := s.load(ctx, season, week)
	if err != nil {
		return stats.GameResult{}, false, err
	}
	game, ok := idx.games[player.NormalizeTeam(nflTeam)]
	return game, ok, nil
}

func (s *Source) load(ctx context.Context, season, week int) (*weekIndex, error) {
	key := fmt.Sprintf("%d/%d", season, week)

	s.mu.RLock()
	idx, ok := s.weeks[key]
	s.mu.RUnlock()
	if ok {
		return idx, nil
	}

	idx, err, _ := s.flight.Do(key, func() (*weekIndex, error) {
		data, location, err := s.fetcher.Fetch(ctx, season, week)
		if err != nil {
			return nil, err
		}
		var snap Snapshot
		if err := sonic.Unmarshal(data, &snap); err != nil {
			return nil, crerr.Wrapf(err, "decode stats snapshot %s", location)
		}
		if snap.Season != 0 && (snap.Season != season || snap.Week != week) {
			return nil, crerr.Newf("stats snapshot %s holds season %d week %d", location, snap.Season, snap.Week)
		}

		built := s.index(ctx, snap)
		s.mu.Lock()
		s.weeks[key] = built
		s.mu.Unlock()

		s.logger.InfoContext(ctx, "stats snapshot loaded", "location", location, "players", len(snap.Players), "games", len(snap.Games))
		return built, nil
	})
	return idx, err
}

func (s *Source) index(ctx context.Context, snap Snapshot) *weekIndex {
	idx := &weekIndex{
		byName: make(map[string][]PlayerRow, len(snap.Players)),
		byUnit: make(map[string]scoring.RawStats),
		games:  make(map[string]stats.GameResult, len(snap.Games)),
	}
	for _, row := range snap.Players {
		pos, err := player.ParsePosition(row.Position)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping snapshot row", "name", row.Name, "position", row.Position)
			continue
		}
		if pos == player.PositionDefense || pos == player.PositionOffensiveLine {
			idx.byUnit[unitKey(pos, row.Team)] = row.Stats
			continue
		}
		key := nameKey(pos, row.Name)
		idx.byName[key] = append(idx.byName[key], row)
	}
	for _, game := range snap.Games {
		game.Team = player.NormalizeTeam(game.Team)
		game.Opponent = player.NormalizeTeam(game.Opponent)
		idx.games[game.Team] = game
	}
	return idx
}

func nameKey(pos player.Position, name string) string {
	return string(pos) + "|" + player.NormalizeName(name)
}

func unitKey(pos player.Position, team string) string {
	return string(pos) + "|" + player.NormalizeTeam(team)
}
