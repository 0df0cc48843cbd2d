package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/qpfl/league-core/internal/domain/document"
	"github.com/qpfl/league-core/internal/domain/league"
	"github.com/qpfl/league-core/internal/domain/scoring"
	"github.com/qpfl/league-core/internal/domain/standing"
	"github.com/qpfl/league-core/internal/platform/logging"
)

const standingsLoadConcurrency = 4

// StandingsReport is the rebuilt table for a season up to a given week.
type StandingsReport struct {
	Season      int                   `json:"season"`
	ThroughWeek int                   `json:"through_week"`
	Standings   []standing.Standing   `json:"standings"`
	Results     []standing.WeekResult `json:"results"`
	Unplayed    []league.Fixture      `json:"unplayed,omitempty"`
	Playoffs    []standing.Bracket    `json:"playoffs,omitempty"`
}

type StandingsService struct {
	cfg    league.Config
	store  document.Store
	logger *logging.Logger
}

func NewStandingsService(cfg league.Config, store document.Store, logger *logging.Logger) *StandingsService {
	return &StandingsService{
		cfg:    cfg,
		store:  store,
		logger: logging.OrDefault(logger).Named("standings"),
	}
}

// Compute ranks every configured team from already-decided week results.
func (s *StandingsService) Compute(results []standing.WeekResult) []standing.Standing {
	return standing.Compute(results, s.cfg.Teams)
}

// Rebuild folds every recorded regular-season week up to throughWeek into
// standings and seeds the playoff brackets. Weeks with no recorded scores are skipped.
func (s *StandingsService) Rebuild(ctx context.Context, season, throughWeek int) (StandingsReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Rebuild", attribute.Int("through_week", throughWeek))
	var err error
	defer func() { endSpan(span, err) }()

	if season == 0 {
		season = s.cfg.CurrentSeason
	}
	if throughWeek <= 0 || throughWeek > s.cfg.RegularSeasonWeeks {
		throughWeek = s.cfg.RegularSeasonWeeks
	}

	var weeks []scoring.WeekScores
	if weeks, err = s.loadWeeks(ctx, season, throughWeek); err != nil {
		return StandingsReport{}, err
	}

	report := StandingsReport{Season: season, ThroughWeek: throughWeek, Results: []standing.WeekResult{}}
	for _, week := range weeks {
		result, unplayed := standing.BuildWeekResult(week.Week, s.cfg.FixturesForWeek(week.Week), week.Totals())
		report.Results = append(report.Results, result)
		report.Unplayed = append(report.Unplayed, unplayed...)
	}
	for _, fixture := range report.Unplayed {
		s.logger.WarnContext(ctx, "fixture has no recorded result", "week", fixture.Week, "home", fixture.Home, "away", fixture.Away)
	}

	report.Standings = s.Compute(report.Results)
	if len(s.cfg.PlayoffStructure) > 0 {
		if report.Playoffs, err = standing.SeedPlayoffs(report.Standings, s.cfg.PlayoffStructure); err != nil {
			err = validationf("%v", err)
			return StandingsReport{}, err
		}
	}

	s.logger.InfoContext(ctx, "standings rebuilt", "season", season, "through_week", throughWeek, "weeks_recorded", len(weeks))
	return report, nil
}

// loadWeeks reads the recorded score documents for weeks 1..throughWeek concurrently.
func (s *StandingsService) loadWeeks(ctx context.Context, season, throughWeek int) ([]scoring.WeekScores, error) {
	type loaded struct {
		scores scoring.WeekScores
		found  bool
	}

	p := pool.NewWithResults[loaded]().
		WithContext(ctx).
		WithMaxGoroutines(standingsLoadConcurrency)
	for week := 1; week <= throughWeek; week++ {
		p.Go(func(ctx context.Context) (loaded, error) {
			scores, _, exists, err := loadDocument(ctx, s.store, document.ScoresKey(season, week), func() scoring.WeekScores {
				return scoring.WeekScores{Season: season, Week: week}
			})
			if err != nil {
				return loaded{}, fmt.Errorf("load week %d: %w", week, err)
			}
			return loaded{scores: scores, found: exists}, nil
		})
	}

	rows, err := p.Wait()
	if err != nil {
		return nil, err
	}

	out := make([]scoring.WeekScores, 0, len(rows))
	for _, row := range rows {
		if row.found {
			out = append(out, row.scores)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out, nil
}
