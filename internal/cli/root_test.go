package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"

	"github.com/qpfl/league-core/internal/app"
	"github.com/qpfl/league-core/internal/config"
	"github.com/qpfl/league-core/internal/domain/league"
	"github.com/qpfl/league-core/internal/domain/player"
	"github.com/qpfl/league-core/internal/domain/roster"
	"github.com/qpfl/league-core/internal/domain/scoring"
	"github.com/qpfl/league-core/internal/domain/stats"
	"github.com/qpfl/league-core/internal/infrastructure/repository/memory"
	"github.com/qpfl/league-core/internal/platform/logging"
	"github.com/qpfl/league-core/internal/usecase"
)

const initSeasonFile = `{
  "rosters": [
    {"team": "GSA", "active": {
      "QB": [{"name": "Josh Allen", "nfl_team": "BUF", "position": "QB"}],
      "RB": [{"name": "Saquon Barkley", "nfl_team": "PHI", "position": "RB"}]
    }, "taxi": [{"name": "Jalen Milroe", "nfl_team": "SEA", "position": "QB"}]},
    {"team": "CGK", "active": {
      "QB": [{"name": "Lamar Jackson", "nfl_team": "BAL", "position": "QB"}]
    }, "taxi": []}
  ],
  "fa_pool": [{"name": "Sam Darnold", "nfl_team": "SEA", "position": "QB"}],
  "draft_picks": []
}`

type staticStats struct{}

func (staticStats) PlayerStats(_ context.Context, name, _ string, pos player.Position, _, _ int) (scoring.RawStats, bool, error) {
	if name == "Josh Allen" && pos == player.PositionQuarterback {
		return scoring.RawStats{PassingYards: 250, PassingTDs: 2, PassingInterceptions: 1}, true, nil
	}
	return scoring.RawStats{}, false, nil
}

func (staticStats) TeamGameResult(context.Context, string, int, int) (stats.GameResult, bool, error) {
	return stats.GameResult{}, false, nil
}

type harness struct {
	t   *testing.T
	env *env
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg := config.Config{ScoringWorkers: 2, CommitMaxAttempts: 3}
	a := app.Wire(cfg, league.DefaultConfig(), memory.NewDocumentStore(), staticStats{}, logging.NewNop())
	return &harness{t: t, env: &env{app: a, logger: logging.NewNop()}}
}

func (h *harness) run(args ...string) (string, string, error) {
	h.t.Helper()

	var stdout, stderr bytes.Buffer
	h.env.stdout = &stdout
	h.env.stderr = &stderr

	root := newRootCmd(h.env)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()

	out, _, err := h.run(args...)
	if err != nil {
		h.t.Fatalf("qpfl %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func (h *harness) initSeason() {
	h.t.Helper()

	path := filepath.Join(h.t.TempDir(), "rosters.json")
	if err := os.WriteFile(path, []byte(initSeasonFile), 0o600); err != nil {
		h.t.Fatalf("write rosters file: %v", err)
	}
	out := h.mustRun("init-season", "-f", path)
	if !strings.Contains(out, "season 2025 initialized") {
		h.t.Fatalf("unexpected init output: %q", out)
	}
}

func TestRootCmd_InitSeasonTwiceConflicts(t *testing.T) {
	h := newHarness(t)
	h.initSeason()

	path := filepath.Join(t.TempDir(), "rosters.json")
	if err := os.WriteFile(path, []byte(initSeasonFile), 0o600); err != nil {
		t.Fatalf("write rosters file: %v", err)
	}
	_, _, err := h.run("init-season", "-f", path)
	if ExitCode(err) != 3 {
		t.Fatalf("expected conflict exit code, got %d (%v)", ExitCode(err), err)
	}
}

func TestRootCmd_RosterShowJSON(t *testing.T) {
	h := newHarness(t)
	h.initSeason()

	out := h.mustRun("-o", "json", "roster", "show", "GSA")

	var got roster.Roster
	if err := sonic.UnmarshalString(out, &got); err != nil {
		t.Fatalf("decode roster: %v\n%s", err, out)
	}
	if got.Team != "GSA" || len(got.Active[player.PositionQuarterback]) != 1 || len(got.Taxi) != 1 {
		t.Fatalf("unexpected roster: %+v", got)
	}

	_, _, err := h.run("roster", "show", "NOPE")
	if ExitCode(err) != 4 {
		t.Fatalf("unknown team should be not_found, got %d (%v)", ExitCode(err), err)
	}
}

func TestRootCmd_LineupThenScore(t *testing.T) {
	h := newHarness(t)
	h.initSeason()

	out := h.mustRun("lineup", "submit", "--team", "GSA", "--week", "1", "--starter", "QB:Josh Allen")
	if !strings.Contains(out, "Josh Allen") || !strings.Contains(out, "warning:") {
		t.Fatalf("unexpected lineup output: %q", out)
	}

	out = h.mustRun("score", "--week", "1", "--detail")
	if !strings.Contains(out, "GSA") || !strings.Contains(out, "20.00") {
		t.Fatalf("unexpected score output: %q", out)
	}

	out = h.mustRun("-o", "json", "score", "--week", "1", "--record")
	var scores scoring.WeekScores
	if err := sonic.UnmarshalString(out, &scores); err != nil {
		t.Fatalf("decode scores: %v\n%s", err, out)
	}
	if scores.Totals()["GSA"] != 20 {
		t.Fatalf("unexpected recorded totals: %v", scores.Totals())
	}

	_, _, err := h.run("lineup", "submit", "--team", "GSA", "--week", "1", "--starter", "QB:Josh Allen")
	if ExitCode(err) != 2 {
		t.Fatalf("finalized week should reject lineups, got %d (%v)", ExitCode(err), err)
	}
}

func TestRootCmd_InvalidInput(t *testing.T) {
	h := newHarness(t)

	tests := [][]string{
		{"lineup", "submit", "--team", "GSA", "--week", "0"},
		{"lineup", "submit", "--team", "GSA", "--week", "1", "--starter", "Josh Allen"},
		{"fa", "activate", "--team", "GSA", "--player", "QB:Sam Darnold", "--release", "nope", "--week", "2"},
	}

	for _, args := range tests {
		_, _, err := h.run(args...)
		if ExitCode(err) != 64 {
			t.Fatalf("%v: expected invalid input exit code, got %d (%v)", args, ExitCode(err), err)
		}
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: nil, want: 0},
		{err: fmt.Errorf("wrapped: %w", usecase.ErrValidation), want: 2},
		{err: usecase.ErrConflict, want: 3},
		{err: usecase.ErrNotFound, want: 4},
		{err: usecase.ErrIntegrity, want: 5},
		{err: usecase.ErrDependencyUnavailable, want: 6},
		{err: usecase.ErrInvalidInput, want: 64},
		{err: errors.New("boom"), want: 1},
	}

	for _, tc := range tests {
		if got := ExitCode(tc.err); got != tc.want {
			t.Fatalf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestReportErrorJSON(t *testing.T) {
	var stderr bytes.Buffer
	e := &env{stderr: &stderr, opts: rootOptions{output: FormatJSON}}

	e.reportError(fmt.Errorf("%w: team XYZ", usecase.ErrNotFound))

	var got map[string]errorReport
	if err := sonic.Unmarshal(stderr.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, stderr.String())
	}
	if got["error"].Kind != usecase.KindNotFound || !strings.Contains(got["error"].Message, "XYZ") {
		t.Fatalf("unexpected report: %+v", got)
	}
}
