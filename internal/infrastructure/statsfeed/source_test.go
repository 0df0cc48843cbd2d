package statsfeed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/qpfl/league-core/internal/domain/player"
	"github.com/qpfl/league-core/internal/platform/logging"
)

const weekOneSnapshot = `{
  "season": 2025,
  "week": 1,
  "players": [
    {"name": "Ja'Marr Chase", "team": "CIN", "position": "WR", "stats": {"receiving_yards": 120, "receiving_tds": 1}},
    {"name": "Josh Allen", "team": "BUF", "position": "QB", "stats": {"passing_yards": 300, "passing_tds": 3}},
    {"name": "Josh Allen", "team": "JAX", "position": "QB", "stats": {"passing_yards": 5}},
    {"name": "Rams D/ST", "team": "LA", "position": "DST", "stats": {"def_interceptions": 2}},
    {"name": "Mystery", "team": "NYJ", "position": "LB", "stats": {}}
  ],
  "games": [
    {"team": "LA", "opponent": "SF", "points_for": 24, "points_allowed": 17}
  ]
}`

func writeSnapshot(t *testing.T, dir string, season, week int, body string) string {
	t.Helper()

	path := SnapshotPath(dir, season, week)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	return path
}

func TestSource_PlayerStats(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, 2025, 1, weekOneSnapshot)

	source := NewSource(NewDirFetcher(dir), logging.NewNop())
	ctx := context.Background()

	tests := []struct {
		name      string
		player    string
		team      string
		pos       player.Position
		wantFound bool
		wantYards float64
	}{
		{name: "punctuation insensitive", player: "JaMarr Chase", team: "CIN", pos: player.PositionWideReceiver, wantFound: true, wantYards: 120},
		{name: "same name picks team", player: "Josh Allen", team: "BUF", pos: player.PositionQuarterback, wantFound: true, wantYards: 300},
		{name: "same name other team", player: "Josh Allen", team: "JAC", pos: player.PositionQuarterback, wantFound: true, wantYards: 5},
		{name: "ambiguous without team", player: "Josh Allen", team: "MIA", pos: player.PositionQuarterback},
		{name: "wrong position", player: "Ja'Marr Chase", team: "CIN", pos: player.PositionRunningBack},
		{name: "absent", player: "Nobody", team: "CIN", pos: player.PositionWideReceiver},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw, found, err := source.PlayerStats(ctx, tc.player, tc.team, tc.pos, 2025, 1)
			if err != nil {
				t.Fatalf("player stats: %v", err)
			}
			if found != tc.wantFound {
				t.Fatalf("found=%v want %v", found, tc.wantFound)
			}
			yards := raw.ReceivingYards + raw.PassingYards
			if yards != tc.wantYards {
				t.Fatalf("yards=%v want %v", yards, tc.wantYards)
			}
		})
	}
}

func TestSource_TeamUnitsAndGames(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, 2025, 1, weekOneSnapshot)

	source := NewSource(NewDirFetcher(dir), logging.NewNop())
	ctx := context.Background()

	raw, found, err := source.PlayerStats(ctx, "Los Angeles Rams", "LAR", player.PositionDefense, 2025, 1)
	if err != nil || !found || raw.DefInterceptions != 2 {
		t.Fatalf("unexpected D/ST row: %+v found=%v err=%v", raw, found, err)
	}

	game, found, err := source.TeamGameResult(ctx, "LAR", 2025, 1)
	if err != nil || !found || game.PointsFor != 24 || game.PointsAllowed != 17 {
		t.Fatalf("unexpected game: %+v found=%v err=%v", game, found, err)
	}

	if _, found, err := source.TeamGameResult(ctx, "BUF", 2025, 1); err != nil || found {
		t.Fatalf("BUF did not play: found=%v err=%v", found, err)
	}
}

func TestSource_ReadsSnapshotOnce(t *testing.T) {
	dir := t.TempDir()
	path := writeSnapshot(t, dir, 2025, 1, weekOneSnapshot)

	source := NewSource(NewDirFetcher(dir), logging.NewNop())
	ctx := context.Background()

	if _, _, err := source.TeamGameResult(ctx, "LA", 2025, 1); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, found, err := source.TeamGameResult(ctx, "LA", 2025, 1); err != nil || !found {
		t.Fatalf("indexed week should be served from memory: found=%v err=%v", found, err)
	}
}

func TestSource_MissingOrMismatchedSnapshot(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, 2025, 2, `{"season": 2025, "week": 3}`)

	source := NewSource(NewDirFetcher(dir), logging.NewNop())
	ctx := context.Background()

	if _, _, err := source.PlayerStats(ctx, "Josh Allen", "BUF", player.PositionQuarterback, 2025, 9); err == nil {
		t.Fatalf("expected error for missing snapshot")
	}
	if _, _, err := source.TeamGameResult(ctx, "BUF", 2025, 2); err == nil {
		t.Fatalf("expected error for mismatched snapshot")
	}
}
