package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/qpfl/league-core/internal/domain/document"
	"github.com/qpfl/league-core/internal/domain/draftpick"
	"github.com/qpfl/league-core/internal/domain/league"
	"github.com/qpfl/league-core/internal/domain/ledger"
	"github.com/qpfl/league-core/internal/domain/player"
	"github.com/qpfl/league-core/internal/domain/roster"
	"github.com/qpfl/league-core/internal/domain/trade"
	"github.com/qpfl/league-core/internal/domain/transaction"
	"github.com/qpfl/league-core/internal/platform/id"
	"github.com/qpfl/league-core/internal/platform/logging"
	"github.com/qpfl/league-core/internal/platform/resilience"
)

const tradeIDAttempts = 5

type InitSeasonInput struct {
	Season     int                   `json:"season" validate:"omitempty,gte=1990"`
	Rosters    []roster.Roster       `json:"rosters" validate:"required,min=1"`
	FAPool     []player.Player       `json:"fa_pool"`
	DraftPicks []draftpick.DraftPick `json:"draft_picks"`
}

type ProposeTradeInput struct {
	Season         int          `validate:"omitempty,gte=1990"`
	Proposer       string       `validate:"required"`
	Partner        string       `validate:"required"`
	GivePlayers    []player.Ref `validate:"dive"`
	GivePicks      []string     `validate:"dive,required"`
	ReceivePlayers []player.Ref `validate:"dive"`
	ReceivePicks   []string     `validate:"dive,required"`
	Week           int          `validate:"gte=1"`
}

type RespondTradeInput struct {
	Season    int    `validate:"omitempty,gte=1990"`
	TradeID   string `validate:"required"`
	Responder string `validate:"required"`
	Accept    bool
	// Week stamps the transaction log entry; defaults to the proposal week.
	Week int `validate:"gte=0"`
}

type CancelTradeInput struct {
	Season    int    `validate:"omitempty,gte=1990"`
	TradeID   string `validate:"required"`
	Requester string `validate:"required"`
}

type ActivationInput struct {
	Season   int        `validate:"omitempty,gte=1990"`
	Team     string     `validate:"required"`
	Activate player.Ref `validate:"required"`
	Release  player.Ref `validate:"required"`
	Week     int        `validate:"gte=1"`
}

type ActivationResult struct {
	Entry  transaction.Entry `json:"entry"`
	Roster roster.Roster     `json:"roster"`
}

// LedgerService runs roster transactions against the season ledger document.
type LedgerService struct {
	cfg     league.Config
	commits committer
	ids     id.Generator
	logger  *logging.Logger
	now     func() time.Time
}

func NewLedgerService(
	cfg league.Config,
	store document.Store,
	ids id.Generator,
	retry resilience.RetryPolicy,
	logger *logging.Logger,
) *LedgerService {
	if ids == nil {
		ids = id.NewShortUUIDGenerator(8)
	}
	logger = logging.OrDefault(logger).Named("ledger")
	return &LedgerService{
		cfg:     cfg,
		commits: newCommitter(store, retry, logger),
		ids:     ids,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *LedgerService) season(season int) int {
	if season == 0 {
		return s.cfg.CurrentSeason
	}
	return season
}

func emptyLedger(season int) func() ledger.State {
	return func() ledger.State { return ledger.New(season) }
}

// Get returns the current ledger and the version it was read at.
func (s *LedgerService) Get(ctx context.Context, season int) (ledger.State, int64, error) {
	season = s.season(season)
	state, version, exists, err := loadDocument(ctx, s.commits.store, document.LedgerKey(season), emptyLedger(season))
	if err != nil {
		return ledger.State{}, 0, err
	}
	if !exists {
		return ledger.State{}, 0, fmt.Errorf("%w: season %d ledger is not initialized", ErrNotFound, season)
	}
	return state, version, nil
}

// Validate re-checks every roster and league-wide ownership.
func (s *LedgerService) Validate(ctx context.Context, season int) (roster.Violations, error) {
	state, _, err := s.Get(ctx, season)
	if err != nil {
		return nil, err
	}
	return state.Validate(s.cfg), nil
}

// InitSeason creates the season ledger. It fails with a conflict if one exists.
func (s *LedgerService) InitSeason(ctx context.Context, input InitSeasonInput) (ledger.State, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LedgerService.InitSeason")
	var err error
	defer func() { endSpan(span, err) }()

	if err = validateInput(ctx, input); err != nil {
		return ledger.State{}, err
	}
	season := s.season(input.Season)

	var initial ledger.State
	initial, err = s.buildInitialState(season, input)
	if err != nil {
		return ledger.State{}, err
	}

	_, err = commitDocument(ctx, s.commits, document.LedgerKey(season), emptyLedger(season), func(state *ledger.State, exists bool) (struct{}, error) {
		if exists {
			return struct{}{}, fmt.Errorf("%w: season %d ledger already exists", ErrConflict, season)
		}
		*state = initial.Clone()
		return struct{}{}, nil
	})
	if err != nil {
		return ledger.State{}, err
	}

	s.logger.InfoContext(ctx, "season initialized", "season", season, "teams", len(initial.Rosters), "fa_pool", len(initial.FAPool))
	return initial, nil
}

func (s *LedgerService) buildInitialState(season int, input InitSeasonInput) (ledger.State, error) {
	state := ledger.New(season)

	for _, r := range input.Rosters {
		team, err := s.cfg.CanonicalTeam(r.Team)
		if err != nil {
			return ledger.State{}, validationf("%v", err)
		}
		if _, dup := state.Rosters[team]; dup {
			return ledger.State{}, fmt.Errorf("%w: roster for %s given twice", ErrInvalidInput, team)
		}

		next := roster.New(team)
		for _, p := range r.ActivePlayers() {
			if err := p.Validate(); err != nil {
				return ledger.State{}, fmt.Errorf("%w: %s: %v", ErrInvalidInput, team, err)
			}
			next.AddActive(p)
		}
		for _, p := range r.Taxi {
			if err := p.Validate(); err != nil {
				return ledger.State{}, fmt.Errorf("%w: %s: %v", ErrInvalidInput, team, err)
			}
			next.AddTaxi(p)
		}
		state.PutRoster(next)
	}
	for _, team := range s.cfg.Teams {
		if _, ok := state.Rosters[team]; !ok {
			state.PutRoster(roster.New(team))
		}
	}

	for _, p := range input.FAPool {
		if err := p.Validate(); err != nil {
			return ledger.State{}, fmt.Errorf("%w: fa pool: %v", ErrInvalidInput, err)
		}
		p.Status = player.StatusFAPool
		state.FAPool = append(state.FAPool, p)
	}

	seenPicks := make(map[string]struct{}, len(input.DraftPicks))
	for _, pick := range input.DraftPicks {
		original, err := s.cfg.CanonicalTeam(pick.OriginalTeam)
		if err != nil {
			return ledger.State{}, validationf("draft pick %s: %v", pick.ID(), err)
		}
		pick.OriginalTeam = original
		if pick.CurrentOwner == "" {
			pick.CurrentOwner = original
		}
		if pick.CurrentOwner, err = s.cfg.CanonicalTeam(pick.CurrentOwner); err != nil {
			return ledger.State{}, validationf("draft pick %s: %v", pick.ID(), err)
		}
		if pick.Round < 1 {
			return ledger.State{}, fmt.Errorf("%w: draft pick %s has no round", ErrInvalidInput, pick.ID())
		}
		if _, dup := seenPicks[pick.ID()]; dup {
			return ledger.State{}, validationf("draft pick %s listed twice", pick.ID())
		}
		seenPicks[pick.ID()] = struct{}{}
		state.DraftPicks = append(state.DraftPicks, pick)
	}

	if vs := state.Validate(s.cfg).Hard(); len(vs) > 0 {
		return ledger.State{}, violationErr(vs)
	}
	return state, nil
}

// ProposeTrade records a pending trade. Rosters are not touched until acceptance.
func (s *LedgerService) ProposeTrade(ctx context.Context, input ProposeTradeInput) (trade.Trade, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LedgerService.ProposeTrade",
		attribute.String("proposer", input.Proposer), attribute.String("partner", input.Partner))
	var err error
	defer func() { endSpan(span, err) }()

	if err = validateInput(ctx, input); err != nil {
		return trade.Trade{}, err
	}
	season := s.season(input.Season)

	var proposer, partner string
	if proposer, err = s.cfg.CanonicalTeam(input.Proposer); err != nil {
		err = validationf("%v", err)
		return trade.Trade{}, err
	}
	if partner, err = s.cfg.CanonicalTeam(input.Partner); err != nil {
		err = validationf("%v", err)
		return trade.Trade{}, err
	}
	if proposer == partner {
		err = validationf("%s cannot trade with itself", proposer)
		return trade.Trade{}, err
	}
	if !s.cfg.TradeWindowOpen(input.Week) {
		err = validationf("trade window closed: week %d is on or after the trade deadline (week %d)", input.Week, s.cfg.TradeDeadlineWeek)
		return trade.Trade{}, err
	}

	gives := trade.Assets{Players: input.GivePlayers, Picks: input.GivePicks}.Clone()
	receives := trade.Assets{Players: input.ReceivePlayers, Picks: input.ReceivePicks}.Clone()
	if gives.Empty() && receives.Empty() {
		err = validationf("trade must give or receive at least one player or pick")
		return trade.Trade{}, err
	}
	if err = checkAssetsWellFormed(gives, receives); err != nil {
		return trade.Trade{}, err
	}

	var proposed trade.Trade
	proposed, err = commitDocument(ctx, s.commits, document.LedgerKey(season), emptyLedger(season), func(state *ledger.State, exists bool) (trade.Trade, error) {
		if !exists {
			return trade.Trade{}, fmt.Errorf("%w: season %d ledger is not initialized", ErrNotFound, season)
		}

		problems := append(assetProblems(*state, proposer, gives), assetProblems(*state, partner, receives)...)
		if len(problems) > 0 {
			return trade.Trade{}, validationf("%s", strings.Join(problems, "; "))
		}

		tradeID, err := id.Unique(s.ids, tradeIDAttempts, func(candidate string) bool {
			return state.TradeIndex(candidate) >= 0
		})
		if err != nil {
			return trade.Trade{}, fmt.Errorf("generate trade id: %w", err)
		}

		t := trade.Trade{
			ID:               tradeID,
			Season:           season,
			Week:             input.Week,
			Proposer:         proposer,
			Partner:          partner,
			ProposerGives:    gives,
			ProposerReceives: receives,
			Status:           trade.StatusPending,
			ProposedAt:       s.now().UTC(),
		}
		state.Trades = append(state.Trades, t)
		return t, nil
	})
	if err != nil {
		return trade.Trade{}, err
	}

	s.logger.InfoContext(ctx, "trade proposed",
		"trade_id", proposed.ID, "proposer", proposer, "partner", partner,
		"gives", gives.String(), "receives", receives.String(), "week", input.Week)
	return proposed, nil
}

// RespondTrade accepts or rejects a pending trade on behalf of the partner.
// A stale reference on accept is a validation error and the trade stays pending.
func (s *LedgerService) RespondTrade(ctx context.Context, input RespondTradeInput) (trade.Trade, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LedgerService.RespondTrade",
		attribute.String("trade_id", input.TradeID), attribute.Bool("accept", input.Accept))
	var err error
	defer func() { endSpan(span, err) }()

	if err = validateInput(ctx, input); err != nil {
		return trade.Trade{}, err
	}
	season := s.season(input.Season)

	var resolved trade.Trade
	resolved, err = commitDocument(ctx, s.commits, document.LedgerKey(season), emptyLedger(season), func(state *ledger.State, exists bool) (trade.Trade, error) {
		if !exists {
			return trade.Trade{}, fmt.Errorf("%w: season %d ledger is not initialized", ErrNotFound, season)
		}
		idx := state.TradeIndex(input.TradeID)
		if idx < 0 {
			return trade.Trade{}, validationf("trade %s not found", input.TradeID)
		}

		t := state.Trades[idx].Clone()
		now := s.now()
		if !input.Accept {
			if err := t.Reject(input.Responder, now); err != nil {
				return trade.Trade{}, tradeTransitionErr(err)
			}
			state.Trades[idx] = t
			return t, nil
		}

		if err := t.Accept(input.Responder, now); err != nil {
			return trade.Trade{}, tradeTransitionErr(err)
		}

		problems := append(assetProblems(*state, t.Proposer, t.ProposerGives), assetProblems(*state, t.Partner, t.ProposerReceives)...)
		if len(problems) > 0 {
			return trade.Trade{}, validationf("trade %s is stale and remains pending: %s", t.ID, strings.Join(problems, "; "))
		}

		before := state.Validate(s.cfg)
		executeTrade(state, t)
		if introduced := state.Validate(s.cfg).Introduced(before); len(introduced) > 0 {
			return trade.Trade{}, violationErr(introduced)
		}

		week := input.Week
		if week == 0 {
			week = t.Week
		}
		state.Append(transaction.NewTrade(t, week, now))
		state.Trades[idx] = t
		return t, nil
	})
	if err != nil {
		return trade.Trade{}, err
	}

	s.logger.InfoContext(ctx, "trade resolved", "trade_id", resolved.ID, "status", resolved.Status, "by", resolved.ResolvedBy)
	return resolved, nil
}

// CancelTrade withdraws a pending trade on behalf of the proposer.
func (s *LedgerService) CancelTrade(ctx context.Context, input CancelTradeInput) (trade.Trade, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LedgerService.CancelTrade", attribute.String("trade_id", input.TradeID))
	var err error
	defer func() { endSpan(span, err) }()

	if err = validateInput(ctx, input); err != nil {
		return trade.Trade{}, err
	}
	season := s.season(input.Season)

	var cancelled trade.Trade
	cancelled, err = commitDocument(ctx, s.commits, document.LedgerKey(season), emptyLedger(season), func(state *ledger.State, exists bool) (trade.Trade, error) {
		if !exists {
			return trade.Trade{}, fmt.Errorf("%w: season %d ledger is not initialized", ErrNotFound, season)
		}
		idx := state.TradeIndex(input.TradeID)
		if idx < 0 {
			return trade.Trade{}, validationf("trade %s not found", input.TradeID)
		}
		t := state.Trades[idx].Clone()
		if err := t.Cancel(input.Requester, s.now()); err != nil {
			return trade.Trade{}, tradeTransitionErr(err)
		}
		state.Trades[idx] = t
		return t, nil
	})
	if err != nil {
		return trade.Trade{}, err
	}

	s.logger.InfoContext(ctx, "trade cancelled", "trade_id", cancelled.ID, "by", cancelled.ResolvedBy)
	return cancelled, nil
}

// ActivateFromTaxi promotes a taxi player and releases an active player at the same position.
func (s *LedgerService) ActivateFromTaxi(ctx context.Context, input ActivationInput) (ActivationResult, error) {
	return s.activate(ctx, "usecase.LedgerService.ActivateFromTaxi", input, func(state *ledger.State, r *roster.Roster) (player.Player, error) {
		activated, ok := r.RemoveTaxi(input.Activate)
		if !ok {
			return player.Player{}, validationf("%s is not on %s's taxi squad", input.Activate, r.Team)
		}
		return activated, nil
	}, transaction.NewTaxiActivation)
}

// ActivateFromFAPool claims a free agent and releases an active player at the same position.
func (s *LedgerService) ActivateFromFAPool(ctx context.Context, input ActivationInput) (ActivationResult, error) {
	return s.activate(ctx, "usecase.LedgerService.ActivateFromFAPool", input, func(state *ledger.State, r *roster.Roster) (player.Player, error) {
		if owner, owned := state.OwnerOf(input.Activate); owned {
			return player.Player{}, validationf("%s has already been claimed by %s", input.Activate, owner)
		}
		added, ok := state.RemoveFA(input.Activate)
		if !ok {
			return player.Player{}, validationf("%s is not available in the FA pool", input.Activate)
		}
		return added, nil
	}, transaction.NewFAActivation)
}

type entryBuilder func(team string, in, out player.Player, season, week int, at time.Time) transaction.Entry

func (s *LedgerService) activate(
	ctx context.Context,
	spanName string,
	input ActivationInput,
	take func(state *ledger.State, r *roster.Roster) (player.Player, error),
	newEntry entryBuilder,
) (ActivationResult, error) {
	ctx, span := startUsecaseSpan(ctx, spanName, attribute.String("team", input.Team))
	var err error
	defer func() { endSpan(span, err) }()

	if err = validateInput(ctx, input); err != nil {
		return ActivationResult{}, err
	}
	if input.Activate.Position != input.Release.Position {
		err = validationf("activated player %s and released player %s must play the same position", input.Activate, input.Release)
		return ActivationResult{}, err
	}
	var team string
	if team, err = s.cfg.CanonicalTeam(input.Team); err != nil {
		err = validationf("%v", err)
		return ActivationResult{}, err
	}
	season := s.season(input.Season)

	var result ActivationResult
	result, err = commitDocument(ctx, s.commits, document.LedgerKey(season), emptyLedger(season), func(state *ledger.State, exists bool) (ActivationResult, error) {
		if !exists {
			return ActivationResult{}, fmt.Errorf("%w: season %d ledger is not initialized", ErrNotFound, season)
		}
		r, ok := state.Roster(team)
		if !ok {
			return ActivationResult{}, validationf("%s has no roster in season %d", team, season)
		}
		if _, ok := r.FindActive(input.Release); !ok {
			return ActivationResult{}, validationf("%s is not on %s's active roster", input.Release, team)
		}

		before := state.Validate(s.cfg)
		r = r.Clone()

		incoming, err := take(state, &r)
		if err != nil {
			return ActivationResult{}, err
		}
		released, _ := r.RemoveActive(input.Release)
		r.AddActive(incoming)
		state.PutRoster(r)
		state.Release(released)

		if introduced := state.Validate(s.cfg).Introduced(before); len(introduced) > 0 {
			return ActivationResult{}, violationErr(introduced)
		}

		incoming.Status = player.StatusActive
		released.Status = player.StatusDropped
		entry := newEntry(team, incoming, released, season, input.Week, s.now())
		state.Append(entry)
		return ActivationResult{Entry: entry, Roster: r}, nil
	})
	if err != nil {
		return ActivationResult{}, err
	}

	s.logger.InfoContext(ctx, "player activated",
		"type", result.Entry.Type, "team", team, "in", input.Activate.String(), "out", input.Release.String(), "week", input.Week)
	return result, nil
}

func checkAssetsWellFormed(sides ...trade.Assets) error {
	seenPlayers := make(map[string]struct{})
	seenPicks := make(map[string]struct{})
	for _, side := range sides {
		for _, ref := range side.Players {
			if !ref.Position.Valid() {
				return fmt.Errorf("%w: %s has unknown position", ErrInvalidInput, ref)
			}
			if _, dup := seenPlayers[ref.Key()]; dup {
				return validationf("%s is listed more than once", ref)
			}
			seenPlayers[ref.Key()] = struct{}{}
		}
		for _, pick := range side.Picks {
			year, round, original, err := draftpick.ParseID(pick)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			key := strings.ToUpper(draftpick.FormatID(year, round, original))
			if _, dup := seenPicks[key]; dup {
				return validationf("draft pick %s is listed more than once", pick)
			}
			seenPicks[key] = struct{}{}
		}
	}
	return nil
}

// assetProblems lists every player or pick in assets that team no longer holds.
func assetProblems(state ledger.State, team string, assets trade.Assets) []string {
	problems := make([]string, 0)
	r, ok := state.Roster(team)
	for _, ref := range assets.Players {
		if !ok || !r.Owns(ref) {
			problems = append(problems, fmt.Sprintf("%s is not on %s's roster", ref, team))
		}
	}
	for _, pickID := range assets.Picks {
		idx := state.PickIndex(pickID)
		if idx < 0 {
			problems = append(problems, fmt.Sprintf("draft pick %s does not exist", pickID))
			continue
		}
		if owner := state.DraftPicks[idx].CurrentOwner; !strings.EqualFold(owner, team) {
			problems = append(problems, fmt.Sprintf("draft pick %s is owned by %s, not %s", pickID, owner, team))
		}
	}
	return problems
}

func executeTrade(state *ledger.State, t trade.Trade) {
	from, _ := state.Roster(t.Proposer)
	to, _ := state.Roster(t.Partner)
	from, to = from.Clone(), to.Clone()

	for _, ref := range t.ProposerGives.Players {
		if p, ok := from.Remove(ref); ok {
			to.AddActive(p)
		}
	}
	for _, ref := range t.ProposerReceives.Players {
		if p, ok := to.Remove(ref); ok {
			from.AddActive(p)
		}
	}
	state.PutRoster(from)
	state.PutRoster(to)

	for _, pickID := range t.ProposerGives.Picks {
		if idx := state.PickIndex(pickID); idx >= 0 {
			state.DraftPicks[idx].CurrentOwner = t.Partner
		}
	}
	for _, pickID := range t.ProposerReceives.Picks {
		if idx := state.PickIndex(pickID); idx >= 0 {
			state.DraftPicks[idx].CurrentOwner = t.Proposer
		}
	}
}

func tradeTransitionErr(err error) error {
	switch {
	case errors.Is(err, trade.ErrNotPending):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, trade.ErrNotPartner), errors.Is(err, trade.ErrNotProposer):
		return fmt.Errorf("%w: %w", ErrValidation, err)
	default:
		return err
	}
}
