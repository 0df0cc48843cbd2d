package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/qpfl/league-core/internal/domain/document"
	"github.com/qpfl/league-core/internal/domain/draftpick"
	"github.com/qpfl/league-core/internal/domain/league"
	"github.com/qpfl/league-core/internal/domain/ledger"
	"github.com/qpfl/league-core/internal/domain/player"
	"github.com/qpfl/league-core/internal/domain/roster"
	"github.com/qpfl/league-core/internal/domain/trade"
	"github.com/qpfl/league-core/internal/domain/transaction"
	"github.com/qpfl/league-core/internal/infrastructure/repository/memory"
	documentmock "github.com/qpfl/league-core/internal/mocks/domain/document"
	"github.com/qpfl/league-core/internal/platform/logging"
	"github.com/qpfl/league-core/internal/platform/resilience"
)

var fastRetry = resilience.RetryPolicy{MaxAttempts: 3, Step: time.Millisecond}

var ledgerTestNow = time.Date(2025, time.November, 2, 15, 4, 5, 0, time.UTC)

func ref(name string, pos player.Position) player.Ref {
	return player.Ref{Name: name, Position: pos}
}

func seededRosters() []roster.Roster {
	gsa := roster.New("GSA")
	gsa.AddActive(player.Player{Name: "Josh Allen", NFLTeam: "BUF", Position: player.PositionQuarterback})
	gsa.AddActive(player.Player{Name: "Saquon Barkley", NFLTeam: "PHI", Position: player.PositionRunningBack})
	gsa.AddActive(player.Player{Name: "Ja'Marr Chase", NFLTeam: "CIN", Position: player.PositionWideReceiver})
	gsa.AddTaxi(player.Player{Name: "Jalen Milroe", NFLTeam: "SEA", Position: player.PositionQuarterback})

	cgk := roster.New("CGK")
	cgk.AddActive(player.Player{Name: "Lamar Jackson", NFLTeam: "BAL", Position: player.PositionQuarterback})
	cgk.AddActive(player.Player{Name: "Derrick Henry", NFLTeam: "BAL", Position: player.PositionRunningBack})
	cgk.AddActive(player.Player{Name: "Justin Jefferson", NFLTeam: "MIN", Position: player.PositionWideReceiver})

	return []roster.Roster{gsa, cgk}
}

func newSeededLedger(t *testing.T) (*LedgerService, *memory.DocumentStore) {
	t.Helper()

	store := memory.NewDocumentStore()
	service := NewLedgerService(league.DefaultConfig(), store, nil, fastRetry, logging.NewNop())
	service.now = func() time.Time { return ledgerTestNow }

	_, err := service.InitSeason(context.Background(), InitSeasonInput{
		Rosters: seededRosters(),
		FAPool: []player.Player{
			{Name: "Sam Darnold", NFLTeam: "SEA", Position: player.PositionQuarterback},
			{Name: "Tony Pollard", NFLTeam: "TEN", Position: player.PositionRunningBack},
		},
		DraftPicks: []draftpick.DraftPick{
			{Year: 2026, Round: 1, OriginalTeam: "GSA"},
			{Year: 2026, Round: 1, OriginalTeam: "CGK"},
		},
	})
	if err != nil {
		t.Fatalf("init season: %v", err)
	}
	return service, store
}

func mustLedger(t *testing.T, service *LedgerService) (ledger.State, int64) {
	t.Helper()
	state, version, err := service.Get(context.Background(), 0)
	if err != nil {
		t.Fatalf("get ledger: %v", err)
	}
	return state, version
}

func TestLedgerService_InitSeason_CreateOnly(t *testing.T) {
	t.Parallel()

	service, _ := newSeededLedger(t)
	state, version := mustLedger(t, service)
	if version != 1 {
		t.Fatalf("unexpected version: %d", version)
	}
	if len(state.Rosters) != len(league.DefaultConfig().Teams) {
		t.Fatalf("every configured team should get a roster, got %d", len(state.Rosters))
	}
	if state.DraftPicks[0].CurrentOwner != "GSA" {
		t.Fatalf("pick owner should default to original team: %+v", state.DraftPicks[0])
	}

	_, err := service.InitSeason(context.Background(), InitSeasonInput{Rosters: seededRosters()})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on second init, got %v", err)
	}
}

func TestLedgerService_InitSeason_RejectsPlayerOnTwoTeams(t *testing.T) {
	t.Parallel()

	rosters := seededRosters()
	rosters[1].AddActive(player.Player{Name: "Josh Allen", NFLTeam: "BUF", Position: player.PositionQuarterback})

	service := NewLedgerService(league.DefaultConfig(), memory.NewDocumentStore(), nil, fastRetry, logging.NewNop())
	_, err := service.InitSeason(context.Background(), InitSeasonInput{Rosters: rosters})
	if !errors.Is(err, ErrIntegrity) {
		t.Fatalf("expected ErrIntegrity, got %v", err)
	}
	var vErr *ViolationError
	if !errors.As(err, &vErr) || vErr.Violations[0].Code != roster.CodePlayerOnMultipleTeam {
		t.Fatalf("expected player_on_multiple_teams violation, got %v", err)
	}
}

func TestLedgerService_ProposeTrade_Deadline(t *testing.T) {
	t.Parallel()

	service, _ := newSeededLedger(t)
	input := ProposeTradeInput{
		Proposer:       "GSA",
		Partner:        "CGK",
		GivePlayers:    []player.Ref{ref("Josh Allen", player.PositionQuarterback)},
		ReceivePlayers: []player.Ref{ref("Lamar Jackson", player.PositionQuarterback)},
		Week:           12,
	}

	_, err := service.ProposeTrade(context.Background(), input)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation at the deadline, got %v", err)
	}
	state, _ := mustLedger(t, service)
	if len(state.Trades) != 0 {
		t.Fatalf("rejected proposal should not be recorded")
	}

	input.Week = 11
	proposed, err := service.ProposeTrade(context.Background(), input)
	if err != nil {
		t.Fatalf("propose before deadline: %v", err)
	}
	if proposed.Status != trade.StatusPending || len(proposed.ID) != 8 {
		t.Fatalf("unexpected trade: %+v", proposed)
	}
	if !proposed.ProposedAt.Equal(ledgerTestNow) {
		t.Fatalf("unexpected proposed_at: %v", proposed.ProposedAt)
	}

	state, _ = mustLedger(t, service)
	if len(state.Trades) != 1 || state.Trades[0].ID != proposed.ID {
		t.Fatalf("pending trade not stored: %+v", state.Trades)
	}
	if gsa, _ := state.Roster("GSA"); !gsa.Owns(ref("Josh Allen", player.PositionQuarterback)) {
		t.Fatalf("proposal must not move players")
	}
}

func TestLedgerService_ProposeTrade_RejectsBadInput(t *testing.T) {
	t.Parallel()

	service, _ := newSeededLedger(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input ProposeTradeInput
		want  error
	}{
		{
			name:  "missing week",
			input: ProposeTradeInput{Proposer: "GSA", Partner: "CGK", GivePicks: []string{"2026-R1-GSA"}},
			want:  ErrInvalidInput,
		},
		{
			name:  "self trade",
			input: ProposeTradeInput{Proposer: "GSA", Partner: "gsa", GivePicks: []string{"2026-R1-GSA"}, Week: 3},
			want:  ErrValidation,
		},
		{
			name:  "empty trade",
			input: ProposeTradeInput{Proposer: "GSA", Partner: "CGK", Week: 3},
			want:  ErrValidation,
		},
		{
			name:  "malformed pick",
			input: ProposeTradeInput{Proposer: "GSA", Partner: "CGK", GivePicks: []string{"first-rounder"}, Week: 3},
			want:  ErrInvalidInput,
		},
		{
			name:  "player not owned",
			input: ProposeTradeInput{Proposer: "GSA", Partner: "CGK", GivePlayers: []player.Ref{ref("Lamar Jackson", player.PositionQuarterback)}, Week: 3},
			want:  ErrValidation,
		},
		{
			name:  "pick owned by partner",
			input: ProposeTradeInput{Proposer: "GSA", Partner: "CGK", GivePicks: []string{"2026-R1-CGK"}, Week: 3},
			want:  ErrValidation,
		},
		{
			name:  "unknown team",
			input: ProposeTradeInput{Proposer: "GSA", Partner: "XYZ", GivePicks: []string{"2026-R1-GSA"}, Week: 3},
			want:  ErrValidation,
		},
	}

	for _, tc := range tests {
		_, err := service.ProposeTrade(ctx, tc.input)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestLedgerService_RespondTrade_AcceptMovesAssets(t *testing.T) {
	t.Parallel()

	service, _ := newSeededLedger(t)
	ctx := context.Background()

	proposed, err := service.ProposeTrade(ctx, ProposeTradeInput{
		Proposer:       "GSA",
		Partner:        "CGK",
		GivePlayers:    []player.Ref{ref("Josh Allen", player.PositionQuarterback)},
		GivePicks:      []string{"2026-R1-GSA"},
		ReceivePlayers: []player.Ref{ref("Derrick Henry", player.PositionRunningBack)},
		Week:           5,
	})
	if err != nil {
		t.Fatalf("propose: %v", err)
	}

	if _, err := service.RespondTrade(ctx, RespondTradeInput{TradeID: proposed.ID, Responder: "GSA", Accept: true}); !errors.Is(err, ErrValidation) {
		t.Fatalf("proposer must not accept, got %v", err)
	}

	accepted, err := service.RespondTrade(ctx, RespondTradeInput{TradeID: proposed.ID, Responder: "CGK", Accept: true, Week: 6})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != trade.StatusAccepted || accepted.ResolvedBy != "CGK" || accepted.ResolvedAt == nil {
		t.Fatalf("unexpected accepted trade: %+v", accepted)
	}

	state, _ := mustLedger(t, service)
	gsa, _ := state.Roster("GSA")
	cgk, _ := state.Roster("CGK")
	if gsa.Owns(ref("Josh Allen", player.PositionQuarterback)) || !cgk.Owns(ref("Josh Allen", player.PositionQuarterback)) {
		t.Fatalf("Josh Allen should move to CGK")
	}
	if !gsa.Owns(ref("Derrick Henry", player.PositionRunningBack)) || cgk.Owns(ref("Derrick Henry", player.PositionRunningBack)) {
		t.Fatalf("Derrick Henry should move to GSA")
	}
	if owner := state.DraftPicks[state.PickIndex("2026-R1-GSA")].CurrentOwner; owner != "CGK" {
		t.Fatalf("pick owner should be CGK, got %s", owner)
	}

	if len(state.Transactions) != 1 {
		t.Fatalf("expected one transaction entry, got %d", len(state.Transactions))
	}
	entry := state.Transactions[0]
	if entry.Type != transaction.TypeTrade || entry.TradeID != proposed.ID || entry.Week != 6 || entry.Timestamp != "2025-11-02T15:04:05" {
		t.Fatalf("unexpected trade entry: %+v", entry)
	}

	_, err = service.RespondTrade(ctx, RespondTradeInput{TradeID: proposed.ID, Responder: "CGK", Accept: false})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("responding to an accepted trade should conflict, got %v", err)
	}
}

func TestLedgerService_RespondTrade_StaleReferenceStaysPending(t *testing.T) {
	t.Parallel()

	service, _ := newSeededLedger(t)
	ctx := context.Background()

	proposed, err := service.ProposeTrade(ctx, ProposeTradeInput{
		Proposer:       "GSA",
		Partner:        "CGK",
		GivePlayers:    []player.Ref{ref("Josh Allen", player.PositionQuarterback)},
		ReceivePlayers: []player.Ref{ref("Lamar Jackson", player.PositionQuarterback)},
		Week:           4,
	})
	if err != nil {
		t.Fatalf("propose: %v", err)
	}

	_, err = service.ActivateFromFAPool(ctx, ActivationInput{
		Team:     "GSA",
		Activate: ref("Sam Darnold", player.PositionQuarterback),
		Release:  ref("Josh Allen", player.PositionQuarterback),
		Week:     4,
	})
	if err != nil {
		t.Fatalf("fa activation: %v", err)
	}
	_, before := mustLedger(t, service)

	_, err = service.RespondTrade(ctx, RespondTradeInput{TradeID: proposed.ID, Responder: "CGK", Accept: true})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for stale trade, got %v", err)
	}

	state, after := mustLedger(t, service)
	if after != before {
		t.Fatalf("stale accept must not write: version %d -> %d", before, after)
	}
	if state.Trades[0].Status != trade.StatusPending {
		t.Fatalf("stale trade should stay pending, got %s", state.Trades[0].Status)
	}
	if cgk, _ := state.Roster("CGK"); !cgk.Owns(ref("Lamar Jackson", player.PositionQuarterback)) {
		t.Fatalf("CGK roster should be unchanged")
	}
}

func TestLedgerService_CancelTrade(t *testing.T) {
	t.Parallel()

	service, _ := newSeededLedger(t)
	ctx := context.Background()

	proposed, err := service.ProposeTrade(ctx, ProposeTradeInput{Proposer: "GSA", Partner: "CGK", GivePicks: []string{"2026-R1-GSA"}, Week: 2})
	if err != nil {
		t.Fatalf("propose: %v", err)
	}

	if _, err := service.CancelTrade(ctx, CancelTradeInput{TradeID: proposed.ID, Requester: "CGK"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("partner must not cancel, got %v", err)
	}
	cancelled, err := service.CancelTrade(ctx, CancelTradeInput{TradeID: proposed.ID, Requester: "GSA"})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != trade.StatusCancelled {
		t.Fatalf("unexpected status: %s", cancelled.Status)
	}
	if _, err := service.CancelTrade(ctx, CancelTradeInput{TradeID: "deadbeef", Requester: "GSA"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown trade should be a validation error, got %v", err)
	}
}

func TestLedgerService_RespondAndCancelRace_OneTerminalState(t *testing.T) {
	t.Parallel()

	service, _ := newSeededLedger(t)
	ctx := context.Background()

	proposed, err := service.ProposeTrade(ctx, ProposeTradeInput{
		Proposer:       "GSA",
		Partner:        "CGK",
		GivePlayers:    []player.Ref{ref("Ja'Marr Chase", player.PositionWideReceiver)},
		ReceivePlayers: []player.Ref{ref("Justin Jefferson", player.PositionWideReceiver)},
		Week:           7,
	})
	if err != nil {
		t.Fatalf("propose: %v", err)
	}

	var (
		wg        sync.WaitGroup
		start     = make(chan struct{})
		acceptErr error
		cancelErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		<-start
		_, acceptErr = service.RespondTrade(ctx, RespondTradeInput{TradeID: proposed.ID, Responder: "CGK", Accept: true})
	}()
	go func() {
		defer wg.Done()
		<-start
		_, cancelErr = service.CancelTrade(ctx, CancelTradeInput{TradeID: proposed.ID, Requester: "GSA"})
	}()
	close(start)
	wg.Wait()

	if (acceptErr == nil) == (cancelErr == nil) {
		t.Fatalf("exactly one call must win: accept=%v cancel=%v", acceptErr, cancelErr)
	}

	state, _ := mustLedger(t, service)
	final := state.Trades[0].Status
	switch {
	case acceptErr == nil:
		if final != trade.StatusAccepted || !errors.Is(cancelErr, ErrConflict) {
			t.Fatalf("accept won but status=%s cancelErr=%v", final, cancelErr)
		}
		if len(state.Transactions) != 1 {
			t.Fatalf("accepted trade should be logged once")
		}
	default:
		if final != trade.StatusCancelled || !errors.Is(acceptErr, ErrConflict) {
			t.Fatalf("cancel won but status=%s acceptErr=%v", final, acceptErr)
		}
		if len(state.Transactions) != 0 {
			t.Fatalf("cancelled trade must not be logged")
		}
	}
}

func TestLedgerService_ActivateFromTaxi(t *testing.T) {
	t.Parallel()

	service, _ := newSeededLedger(t)

	result, err := service.ActivateFromTaxi(context.Background(), ActivationInput{
		Team:     "gsa",
		Activate: ref("Jalen Milroe", player.PositionQuarterback),
		Release:  ref("Josh Allen", player.PositionQuarterback),
		Week:     9,
	})
	if err != nil {
		t.Fatalf("activate: %v", err)
	}

	entry := result.Entry
	if entry.Type != transaction.TypeTaxiActivation || entry.Team != "GSA" || entry.Week != 9 || entry.Season != 2025 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.Activated != "Jalen Milroe" || entry.Released != "Josh Allen" || entry.Position != player.PositionQuarterback {
		t.Fatalf("unexpected entry players: %+v", entry)
	}

	state, _ := mustLedger(t, service)
	gsa, _ := state.Roster("GSA")
	if _, ok := gsa.FindActive(ref("Jalen Milroe", player.PositionQuarterback)); !ok {
		t.Fatalf("taxi player should be active")
	}
	if len(gsa.Taxi) != 0 || gsa.Owns(ref("Josh Allen", player.PositionQuarterback)) {
		t.Fatalf("unexpected roster after activation: %+v", gsa)
	}
	if len(state.Released) != 1 || state.Released[0].Name != "Josh Allen" {
		t.Fatalf("released player should be recorded: %+v", state.Released)
	}
}

func TestLedgerService_ActivateFromFAPool_ReleaseNotOnRoster(t *testing.T) {
	t.Parallel()

	service, _ := newSeededLedger(t)
	before, version := mustLedger(t, service)

	_, err := service.ActivateFromFAPool(context.Background(), ActivationInput{
		Team:     "GSA",
		Activate: ref("Tony Pollard", player.PositionRunningBack),
		Release:  ref("Derrick Henry", player.PositionRunningBack),
		Week:     3,
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	after, afterVersion := mustLedger(t, service)
	if afterVersion != version {
		t.Fatalf("failed activation must not write")
	}
	gsaBefore, _ := before.Roster("GSA")
	gsaAfter, _ := after.Roster("GSA")
	if len(gsaAfter.ActivePlayers()) != len(gsaBefore.ActivePlayers()) || len(after.FAPool) != 2 {
		t.Fatalf("roster or pool changed after failed activation")
	}
}

func TestLedgerService_ActivateFromFAPool_Rules(t *testing.T) {
	t.Parallel()

	service, _ := newSeededLedger(t)
	ctx := context.Background()

	_, err := service.ActivateFromFAPool(ctx, ActivationInput{
		Team: "GSA", Activate: ref("Tony Pollard", player.PositionRunningBack), Release: ref("Josh Allen", player.PositionQuarterback), Week: 3,
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("position mismatch should fail validation, got %v", err)
	}

	_, err = service.ActivateFromFAPool(ctx, ActivationInput{
		Team: "GSA", Activate: ref("Lamar Jackson", player.PositionQuarterback), Release: ref("Josh Allen", player.PositionQuarterback), Week: 3,
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("claimed player should fail validation, got %v", err)
	}

	result, err := service.ActivateFromFAPool(ctx, ActivationInput{
		Team: "GSA", Activate: ref("Tony Pollard", player.PositionRunningBack), Release: ref("Saquon Barkley", player.PositionRunningBack), Week: 3,
	})
	if err != nil {
		t.Fatalf("fa activation: %v", err)
	}
	if result.Entry.Type != transaction.TypeFAActivation || result.Entry.Added != "Tony Pollard" {
		t.Fatalf("unexpected entry: %+v", result.Entry)
	}

	state, _ := mustLedger(t, service)
	if state.FAIndex(ref("Tony Pollard", player.PositionRunningBack)) >= 0 {
		t.Fatalf("claimed player should leave the FA pool")
	}
}

func TestLedgerService_CommitGivesUpAfterRepeatedConflicts(t *testing.T) {
	t.Parallel()

	state := ledger.New(2025)
	state.Trades = append(state.Trades, trade.Trade{
		ID:            "abcd1234",
		Season:        2025,
		Week:          3,
		Proposer:      "GSA",
		Partner:       "CGK",
		ProposerGives: trade.Assets{Picks: []string{"2026-R1-GSA"}},
		Status:        trade.StatusPending,
	})
	payload, err := document.Encode(state)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	store := documentmock.NewStore(t)
	store.
		On("Read", mock.Anything, "league/2025").
		Return(document.Document{Key: "league/2025", Value: payload, Version: 4}, nil).
		Times(3)
	store.
		On("WriteIfVersion", mock.Anything, "league/2025", mock.Anything, int64(4)).
		Return(int64(5), document.ErrVersionConflict).
		Times(3)

	service := NewLedgerService(league.DefaultConfig(), store, nil, fastRetry, logging.NewNop())
	_, err = service.CancelTrade(context.Background(), CancelTradeInput{TradeID: "abcd1234", Requester: "GSA"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict after exhausting retries, got %v", err)
	}
}

func TestLedgerService_GetMissingSeason(t *testing.T) {
	t.Parallel()

	service := NewLedgerService(league.DefaultConfig(), memory.NewDocumentStore(), nil, fastRetry, logging.NewNop())
	if _, _, err := service.Get(context.Background(), 2030); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLedgerService_SequenceKeepsOwnershipInvariants(t *testing.T) {
	t.Parallel()

	service, _ := newSeededLedger(t)
	ctx := context.Background()
	cfg := league.DefaultConfig()

	acceptTrade := func(input ProposeTradeInput) {
		t.Helper()
		proposed, err := service.ProposeTrade(ctx, input)
		if err != nil {
			t.Fatalf("propose %s->%s: %v", input.Proposer, input.Partner, err)
		}
		if _, err := service.RespondTrade(ctx, RespondTradeInput{TradeID: proposed.ID, Responder: input.Partner, Accept: true}); err != nil {
			t.Fatalf("accept %s: %v", proposed.ID, err)
		}
	}
	activate := func(fn func(context.Context, ActivationInput) (ActivationResult, error), input ActivationInput) {
		t.Helper()
		if _, err := fn(ctx, input); err != nil {
			t.Fatalf("activate %s for %s: %v", input.Activate, input.Team, err)
		}
	}

	activate(service.ActivateFromTaxi, ActivationInput{
		Team: "GSA", Activate: ref("Jalen Milroe", player.PositionQuarterback), Release: ref("Josh Allen", player.PositionQuarterback), Week: 2,
	})
	acceptTrade(ProposeTradeInput{
		Proposer:       "GSA",
		Partner:        "CGK",
		GivePlayers:    []player.Ref{ref("Jalen Milroe", player.PositionQuarterback)},
		GivePicks:      []string{"2026-R1-GSA"},
		ReceivePlayers: []player.Ref{ref("Lamar Jackson", player.PositionQuarterback)},
		Week:           3,
	})
	acceptTrade(ProposeTradeInput{
		Proposer:       "CGK",
		Partner:        "GSA",
		GivePlayers:    []player.Ref{ref("Derrick Henry", player.PositionRunningBack)},
		ReceivePlayers: []player.Ref{ref("Saquon Barkley", player.PositionRunningBack)},
		Week:           4,
	})
	activate(service.ActivateFromFAPool, ActivationInput{
		Team: "CGK", Activate: ref("Sam Darnold", player.PositionQuarterback), Release: ref("Jalen Milroe", player.PositionQuarterback), Week: 5,
	})
	activate(service.ActivateFromFAPool, ActivationInput{
		Team: "GSA", Activate: ref("Tony Pollard", player.PositionRunningBack), Release: ref("Derrick Henry", player.PositionRunningBack), Week: 5,
	})

	state, _ := mustLedger(t, service)
	if len(state.Transactions) != 5 {
		t.Fatalf("expected five logged transactions, got %d", len(state.Transactions))
	}

	for _, v := range state.Validate(cfg) {
		switch v.Code {
		case roster.CodeDuplicatePlayer, roster.CodeActiveAndTaxi, roster.CodePlayerOnMultipleTeam:
			t.Fatalf("ownership invariant broken: %+v", v)
		}
	}

	holders := make(map[string][]string)
	for _, r := range state.RosterList() {
		for _, p := range r.Players() {
			name := player.NormalizeName(p.Name)
			holders[name] = append(holders[name], r.Team+"/"+string(p.Status))
		}
	}
	for _, p := range state.FAPool {
		name := player.NormalizeName(p.Name)
		holders[name] = append(holders[name], "fa_pool")
	}
	for name, where := range holders {
		if len(where) != 1 {
			t.Fatalf("%s is held %d times: %v", name, len(where), where)
		}
	}

	for _, name := range []string{"Josh Allen", "Jalen Milroe", "Derrick Henry"} {
		if where, ok := holders[player.NormalizeName(name)]; ok {
			t.Fatalf("released player %s still held by %v", name, where)
		}
	}
	gsa, _ := state.Roster("GSA")
	cgk, _ := state.Roster("CGK")
	if !gsa.Owns(ref("Lamar Jackson", player.PositionQuarterback)) || !gsa.Owns(ref("Tony Pollard", player.PositionRunningBack)) {
		t.Fatalf("unexpected GSA roster: %+v", gsa)
	}
	if !cgk.Owns(ref("Sam Darnold", player.PositionQuarterback)) || !cgk.Owns(ref("Saquon Barkley", player.PositionRunningBack)) {
		t.Fatalf("unexpected CGK roster: %+v", cgk)
	}
	if owner := state.DraftPicks[state.PickIndex("2026-R1-GSA")].CurrentOwner; owner != "CGK" {
		t.Fatalf("pick should belong to CGK, got %s", owner)
	}
}
