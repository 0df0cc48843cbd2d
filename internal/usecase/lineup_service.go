package usecase

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/qpfl/league-core/internal/domain/document"
	"github.com/qpfl/league-core/internal/domain/league"
	"github.com/qpfl/league-core/internal/domain/ledger"
	"github.com/qpfl/league-core/internal/domain/lineup"
	"github.com/qpfl/league-core/internal/domain/player"
	"github.com/qpfl/league-core/internal/domain/roster"
	"github.com/qpfl/league-core/internal/platform/logging"
	"github.com/qpfl/league-core/internal/platform/resilience"
)

type SubmitLineupInput struct {
	Season   int                          `validate:"omitempty,gte=1990"`
	Week     int                          `validate:"gte=1"`
	Team     string                       `validate:"required"`
	Starters map[player.Position][]string `validate:"required"`
	// Lock adds players to the locked set; locked players can no longer be swapped.
	Lock    []player.Ref `validate:"dive"`
	Comment string       `validate:"max=500"`
}

type SubmitLineupResult struct {
	Lineup   lineup.Lineup     `json:"lineup"`
	Warnings roster.Violations `json:"warnings,omitempty"`
}

type LineupService struct {
	cfg     league.Config
	commits committer
	logger  *logging.Logger
	now     func() time.Time
}

func NewLineupService(cfg league.Config, store document.Store, retry resilience.RetryPolicy, logger *logging.Logger) *LineupService {
	logger = logging.OrDefault(logger).Named("lineup")
	return &LineupService{
		cfg:     cfg,
		commits: newCommitter(store, retry, logger),
		logger:  logger,
		now:     time.Now,
	}
}

func (s *LineupService) season(season int) int {
	if season == 0 {
		return s.cfg.CurrentSeason
	}
	return season
}

// Get returns the lineups document for a week. A week nobody has submitted for
// yields an empty document.
func (s *LineupService) Get(ctx context.Context, season, week int) (lineup.WeekLineups, error) {
	season = s.season(season)
	doc, _, _, err := loadDocument(ctx, s.commits.store, document.LineupsKey(season, week), func() lineup.WeekLineups {
		return lineup.NewWeek(season, week)
	})
	return doc, err
}

// Submit replaces a team's lineup for the week, carrying locked starters forward.
// Hard violations reject the submission. A short lineup is accepted with warnings.
func (s *LineupService) Submit(ctx context.Context, input SubmitLineupInput) (SubmitLineupResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.Submit",
		attribute.String("team", input.Team), attribute.Int("week", input.Week))
	var err error
	defer func() { endSpan(span, err) }()

	if err = validateInput(ctx, input); err != nil {
		return SubmitLineupResult{}, err
	}
	var team string
	if team, err = s.cfg.CanonicalTeam(input.Team); err != nil {
		err = validationf("%v", err)
		return SubmitLineupResult{}, err
	}
	season := s.season(input.Season)

	var result SubmitLineupResult
	result, err = commitDocument(ctx, s.commits, document.LineupsKey(season, input.Week), func() lineup.WeekLineups {
		return lineup.NewWeek(season, input.Week)
	}, func(week *lineup.WeekLineups, _ bool) (SubmitLineupResult, error) {
		if week.Finalized {
			return SubmitLineupResult{}, validationf("week %d is finalized, lineups are closed", input.Week)
		}

		state, _, exists, err := loadDocument(ctx, s.commits.store, document.LedgerKey(season), func() ledger.State {
			return ledger.New(season)
		})
		if err != nil {
			return SubmitLineupResult{}, err
		}
		if !exists {
			return SubmitLineupResult{}, fmt.Errorf("%w: season %d ledger is not initialized", ErrNotFound, season)
		}
		r, ok := state.Roster(team)
		if !ok {
			return SubmitLineupResult{}, validationf("%s has no roster in season %d", team, season)
		}

		if week.Lineups == nil {
			week.Lineups = make(map[string]lineup.Lineup)
		}
		next := lineup.Lineup{
			Team:     team,
			Week:     input.Week,
			Starters: input.Starters,
			Locked:   input.Lock,
			Comment:  input.Comment,
		}
		merged := lineup.MergeLocked(week.Lineups[team], next)
		merged.Team = team
		merged.Week = input.Week
		merged.SubmittedAt = s.now().UTC()

		violations := lineup.ValidateLineup(merged, r, s.cfg)
		if hard := violations.Hard(); len(hard) > 0 {
			return SubmitLineupResult{}, violationErr(hard)
		}

		week.Lineups[team] = merged
		return SubmitLineupResult{Lineup: merged, Warnings: violations.Warnings()}, nil
	})
	if err != nil {
		return SubmitLineupResult{}, err
	}

	if len(result.Warnings) > 0 {
		s.logger.WarnContext(ctx, "lineup submitted with warnings", "team", team, "week", input.Week, "warnings", result.Warnings.Error())
	} else {
		s.logger.InfoContext(ctx, "lineup submitted", "team", team, "week", input.Week)
	}
	return result, nil
}
