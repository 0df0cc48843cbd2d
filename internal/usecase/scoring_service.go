package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/qpfl/league-core/internal/domain/document"
	"github.com/qpfl/league-core/internal/domain/league"
	"github.com/qpfl/league-core/internal/domain/ledger"
	"github.com/qpfl/league-core/internal/domain/lineup"
	"github.com/qpfl/league-core/internal/domain/player"
	"github.com/qpfl/league-core/internal/domain/roster"
	"github.com/qpfl/league-core/internal/domain/scoring"
	"github.com/qpfl/league-core/internal/domain/stats"
	"github.com/qpfl/league-core/internal/platform/logging"
	"github.com/qpfl/league-core/internal/platform/resilience"
)

const defaultScoringWorkers = 4

// TeamLineup pairs a team's roster with the lineup to score.
type TeamLineup struct {
	Roster roster.Roster
	Lineup lineup.Lineup
}

type ScoreWeekInput struct {
	Season int `validate:"omitempty,gte=1990"`
	Week   int `validate:"gte=1"`
	Teams  []TeamLineup
	// IncludeBench also scores active non-starters. Bench points never count.
	IncludeBench bool
}

type RecordWeekResult struct {
	Scores   scoring.WeekScores `json:"scores"`
	Warnings []scoring.Issue    `json:"warnings,omitempty"`
}

type ScoringService struct {
	cfg     league.Config
	source  stats.Source
	commits committer
	workers int
	logger  *logging.Logger
}

func NewScoringService(
	cfg league.Config,
	store document.Store,
	source stats.Source,
	workers int,
	retry resilience.RetryPolicy,
	logger *logging.Logger,
) *ScoringService {
	if workers <= 0 {
		workers = defaultScoringWorkers
	}
	logger = logging.OrDefault(logger).Named("scoring")
	return &ScoringService{
		cfg:     cfg,
		source:  source,
		commits: newCommitter(store, retry, logger),
		workers: workers,
		logger:  logger,
	}
}

func (s *ScoringService) season(season int) int {
	if season == 0 {
		return s.cfg.CurrentSeason
	}
	return season
}

// ScoreWeek scores every given team. Teams are scored in parallel; the output is
// sorted by team so repeated runs over the same stats encode identically.
func (s *ScoringService) ScoreWeek(ctx context.Context, input ScoreWeekInput) (scoring.WeekScores, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ScoreWeek",
		attribute.Int("week", input.Week), attribute.Int("teams", len(input.Teams)))
	var err error
	defer func() { endSpan(span, err) }()

	if err = validateInput(ctx, input); err != nil {
		return scoring.WeekScores{}, err
	}
	season := s.season(input.Season)

	teams := make([]scoring.TeamScore, len(input.Teams))
	var (
		mu       sync.Mutex
		firstErr error
	)
	setErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	pool, err := ants.NewPool(min(s.workers, max(len(input.Teams), 1)))
	if err != nil {
		return scoring.WeekScores{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for idx, team := range input.Teams {
		workers.Add(1)
		if err = pool.Submit(func() {
			defer workers.Done()
			if ctx.Err() != nil {
				setErr(ctx.Err())
				return
			}
			scored, err := s.scoreTeam(ctx, season, input.Week, team, input.IncludeBench)
			if err != nil {
				setErr(err)
				return
			}
			teams[idx] = scored
		}); err != nil {
			workers.Done()
			workers.Wait()
			return scoring.WeekScores{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	workers.Wait()

	if firstErr != nil {
		err = firstErr
		return scoring.WeekScores{}, err
	}

	sort.SliceStable(teams, func(i, j int) bool { return teams[i].Team < teams[j].Team })
	return scoring.WeekScores{Season: season, Week: input.Week, Teams: teams}, nil
}

// ScoreStoredWeek scores the lineups stored for a week against the current ledger rosters.
func (s *ScoringService) ScoreStoredWeek(ctx context.Context, season, week int, includeBench bool) (scoring.WeekScores, error) {
	input, err := s.loadWeek(ctx, s.season(season), week)
	if err != nil {
		return scoring.WeekScores{}, err
	}
	input.IncludeBench = includeBench
	return s.ScoreWeek(ctx, input)
}

// ScoreAndRecordWeek scores a stored week, sanity-checks the result, persists the
// scores document and closes the week's lineups.
func (s *ScoringService) ScoreAndRecordWeek(ctx context.Context, season, week int) (RecordWeekResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ScoreAndRecordWeek", attribute.Int("week", week))
	var err error
	defer func() { endSpan(span, err) }()

	season = s.season(season)

	var scores scoring.WeekScores
	if scores, err = s.ScoreStoredWeek(ctx, season, week, true); err != nil {
		return RecordWeekResult{}, err
	}

	report := scoring.ValidateScores(scores, s.cfg)
	for _, issue := range report.Warnings {
		s.logger.WarnContext(ctx, "score sanity warning", "team", issue.Team, "player", issue.Player, "message", issue.Message)
	}
	if !report.OK() {
		messages := make([]string, 0, len(report.Errors))
		for _, issue := range report.Errors {
			messages = append(messages, issue.Message)
		}
		err = fmt.Errorf("%w: week %d scores: %s", ErrIntegrity, week, strings.Join(messages, "; "))
		s.logger.ErrorContext(ctx, "refusing to record scores", "season", season, "week", week, "error", err)
		return RecordWeekResult{}, err
	}

	_, err = commitDocument(ctx, s.commits, document.ScoresKey(season, week), func() scoring.WeekScores {
		return scoring.WeekScores{Season: season, Week: week}
	}, func(doc *scoring.WeekScores, _ bool) (struct{}, error) {
		*doc = scores
		return struct{}{}, nil
	})
	if err != nil {
		return RecordWeekResult{}, err
	}

	_, err = commitDocument(ctx, s.commits, document.LineupsKey(season, week), func() lineup.WeekLineups {
		return lineup.NewWeek(season, week)
	}, func(doc *lineup.WeekLineups, _ bool) (struct{}, error) {
		doc.Finalized = true
		return struct{}{}, nil
	})
	if err != nil {
		return RecordWeekResult{}, err
	}

	s.logger.InfoContext(ctx, "week scores recorded", "season", season, "week", week, "teams", len(scores.Teams), "warnings", len(report.Warnings))
	return RecordWeekResult{Scores: scores, Warnings: report.Warnings}, nil
}

// GetRecorded returns the persisted scores for a week.
func (s *ScoringService) GetRecorded(ctx context.Context, season, week int) (scoring.WeekScores, error) {
	season = s.season(season)
	scores, _, exists, err := loadDocument(ctx, s.commits.store, document.ScoresKey(season, week), func() scoring.WeekScores {
		return scoring.WeekScores{Season: season, Week: week}
	})
	if err != nil {
		return scoring.WeekScores{}, err
	}
	if !exists {
		return scoring.WeekScores{}, fmt.Errorf("%w: no recorded scores for season %d week %d", ErrNotFound, season, week)
	}
	return scores, nil
}

func (s *ScoringService) loadWeek(ctx context.Context, season, week int) (ScoreWeekInput, error) {
	state, _, exists, err := loadDocument(ctx, s.commits.store, document.LedgerKey(season), func() ledger.State {
		return ledger.New(season)
	})
	if err != nil {
		return ScoreWeekInput{}, err
	}
	if !exists {
		return ScoreWeekInput{}, fmt.Errorf("%w: season %d ledger is not initialized", ErrNotFound, season)
	}

	lineups, _, exists, err := loadDocument(ctx, s.commits.store, document.LineupsKey(season, week), func() lineup.WeekLineups {
		return lineup.NewWeek(season, week)
	})
	if err != nil {
		return ScoreWeekInput{}, err
	}
	if !exists {
		return ScoreWeekInput{}, fmt.Errorf("%w: no lineups submitted for season %d week %d", ErrNotFound, season, week)
	}

	input := ScoreWeekInput{Season: season, Week: week}
	for _, r := range state.RosterList() {
		l, ok := lineups.Lineups[r.Team]
		if !ok {
			s.logger.WarnContext(ctx, "team has no lineup, scoring zero", "team", r.Team, "week", week)
			l = lineup.Lineup{Team: r.Team, Week: week}
		}
		input.Teams = append(input.Teams, TeamLineup{Roster: r, Lineup: l})
	}
	return input, nil
}

func (s *ScoringService) scoreTeam(ctx context.Context, season, week int, team TeamLineup, includeBench bool) (scoring.TeamScore, error) {
	name := team.Lineup.Team
	if name == "" {
		name = team.Roster.Team
	}
	out := scoring.TeamScore{Team: name, Starters: []scoring.PlayerScore{}}

	for _, ref := range team.Lineup.StarterRefs() {
		item, err := s.scorePlayer(ctx, ref, nflTeamOf(team.Roster, ref), season, week)
		if err != nil {
			return scoring.TeamScore{}, err
		}
		item.Starter = true
		out.Starters = append(out.Starters, item)
	}
	out.Total = scoring.TeamTotal(out.Starters)

	if includeBench {
		for _, p := range team.Roster.ActivePlayers() {
			if team.Lineup.IsStarter(p.Ref()) {
				continue
			}
			item, err := s.scorePlayer(ctx, p.Ref(), p.NFLTeam, season, week)
			if err != nil {
				return scoring.TeamScore{}, err
			}
			out.Bench = append(out.Bench, item)
		}
	}
	return out, nil
}

func (s *ScoringService) scorePlayer(ctx context.Context, ref player.Ref, nflTeam string, season, week int) (scoring.PlayerScore, error) {
	item := scoring.PlayerScore{
		Name:      ref.Name,
		Position:  ref.Position,
		NFLTeam:   nflTeam,
		Breakdown: scoring.Breakdown{},
	}

	raw, found, err := s.rawStats(ctx, ref, nflTeam, season, week)
	if err != nil {
		return scoring.PlayerScore{}, fmt.Errorf("%w: stats for %s: %v", ErrDependencyUnavailable, ref, err)
	}
	if !found {
		item.Notes = []string{"no stats found"}
		return item, nil
	}

	result, err := scoring.Score(ref.Position, raw)
	if err != nil {
		return scoring.PlayerScore{}, fmt.Errorf("%w: %s: %v", ErrIntegrity, ref, err)
	}
	item.Found = true
	item.Points = result.Points
	item.Breakdown = result.Breakdown
	item.Notes = result.Notes
	item.Stats = &raw
	return item, nil
}

// rawStats assembles the stat line for one player. Head coaches only need the
// game result; D/ST lines take points scored and allowed from it.
func (s *ScoringService) rawStats(ctx context.Context, ref player.Ref, nflTeam string, season, week int) (scoring.RawStats, bool, error) {
	switch ref.Position {
	case player.PositionHeadCoach:
		game, found, err := s.source.TeamGameResult(ctx, nflTeam, season, week)
		if err != nil || !found {
			return scoring.RawStats{}, false, err
		}
		return scoring.RawStats{PointsScored: game.PointsFor, PointsAllowed: game.PointsAllowed}, true, nil

	case player.PositionDefense:
		raw, _, err := s.source.PlayerStats(ctx, ref.Name, nflTeam, ref.Position, season, week)
		if err != nil {
			return scoring.RawStats{}, false, err
		}
		game, found, err := s.source.TeamGameResult(ctx, nflTeam, season, week)
		if err != nil || !found {
			return scoring.RawStats{}, false, err
		}
		raw.PointsScored = game.PointsFor
		raw.PointsAllowed = game.PointsAllowed
		return raw, true, nil

	default:
		return s.source.PlayerStats(ctx, ref.Name, nflTeam, ref.Position, season, week)
	}
}

func nflTeamOf(r roster.Roster, ref player.Ref) string {
	if p, ok := r.FindActive(ref); ok {
		return p.NFLTeam
	}
	if p, ok := r.FindTaxi(ref); ok {
		return p.NFLTeam
	}
	return ""
}
