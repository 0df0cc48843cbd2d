package roster

import (
	"testing"

	"github.com/qpfl/league-core/internal/domain/league"
	"github.com/qpfl/league-core/internal/domain/player"
)

func qb(name string) player.Player {
	return player.Player{Name: name, NFLTeam: "KC", Position: player.PositionQuarterback}
}

func wr(name string) player.Player {
	return player.Player{Name: name, NFLTeam: "CIN", Position: player.PositionWideReceiver}
}

func codes(vs Violations) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Code)
	}
	return out
}

func TestValidateRoster(t *testing.T) {
	cfg := league.DefaultConfig()

	tests := []struct {
		name  string
		build func() Roster
		want  []string
	}{
		{
			name: "valid roster",
			build: func() Roster {
				r := New("GSA")
				r.AddActive(qb("Patrick Mahomes"))
				r.AddActive(wr("Ja'Marr Chase"))
				r.AddTaxi(wr("Rome Odunze"))
				return r
			},
			want: nil,
		},
		{
			name: "too many quarterbacks",
			build: func() Roster {
				r := New("GSA")
				for _, name := range []string{"A", "B", "C", "D"} {
					r.AddActive(qb(name))
				}
				return r
			},
			want: []string{CodeRosterSlotsExceeded},
		},
		{
			name: "taxi overflow",
			build: func() Roster {
				r := New("GSA")
				for _, name := range []string{"A", "B", "C", "D", "E"} {
					r.AddTaxi(wr(name))
				}
				return r
			},
			want: []string{CodeTaxiSlotsExceeded},
		},
		{
			name: "duplicate across positions",
			build: func() Roster {
				r := New("GSA")
				r.AddActive(qb("Taysom Hill"))
				te := player.Player{Name: "Taysom Hill", NFLTeam: "NO", Position: player.PositionTightEnd}
				r.AddActive(te)
				return r
			},
			want: []string{CodeDuplicatePlayer},
		},
		{
			name: "active and taxi",
			build: func() Roster {
				r := New("GSA")
				r.AddActive(wr("Marvin Harrison Jr."))
				r.AddTaxi(wr("Marvin Harrison"))
				return r
			},
			want: []string{CodeActiveAndTaxi},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := codes(ValidateRoster(tt.build(), cfg))
			if len(got) != len(tt.want) {
				t.Fatalf("violations=%v want=%v", got, tt.want)
			}
			for idx := range got {
				if got[idx] != tt.want[idx] {
					t.Fatalf("violations=%v want=%v", got, tt.want)
				}
			}
		})
	}
}

func TestValidateLeagueRosters(t *testing.T) {
	a := New("GSA")
	a.AddActive(qb("Josh Allen"))
	b := New("CGK")
	b.AddTaxi(qb("josh allen"))
	c := New("RPA")
	c.AddActive(wr("Josh Allen"))

	got := ValidateLeagueRosters([]Roster{a, b, c})
	if len(got) != 2 {
		t.Fatalf("expected two violations, got %v", got)
	}
	for i, team := range []string{"CGK", "RPA"} {
		if !got[i].IsIntegrity() || got[i].Team != team {
			t.Fatalf("violation %d: unexpected %+v", i, got[i])
		}
	}
}

func TestValidateLeagueRostersSameTeamTwiceIsNotCrossTeam(t *testing.T) {
	a := New("GSA")
	a.AddActive(qb("Josh Allen"))
	a.AddTaxi(qb("Josh Allen"))
	b := New("CGK")
	b.AddActive(wr("Justin Jefferson"))

	if got := ValidateLeagueRosters([]Roster{a, b}); len(got) != 0 {
		t.Fatalf("one team listing a player twice is a roster violation, not a league one: %v", got)
	}
}

func TestViolationsIntroduced(t *testing.T) {
	before := Violations{{Code: CodeRosterSlotsExceeded, Team: "GSA", Position: player.PositionQuarterback}}
	after := Violations{
		{Code: CodeRosterSlotsExceeded, Team: "GSA", Position: player.PositionQuarterback},
		{Code: CodeDuplicatePlayer, Team: "GSA", Position: player.PositionWideReceiver, Player: "X"},
	}
	got := after.Introduced(before)
	if len(got) != 1 || got[0].Code != CodeDuplicatePlayer {
		t.Fatalf("unexpected introduced violations: %v", got)
	}
}

func TestRosterMutationsDoNotAlias(t *testing.T) {
	r := New("GSA")
	r.AddActive(qb("Patrick Mahomes"))
	clone := r.Clone()

	if _, ok := clone.RemoveActive(player.Ref{Name: "patrick mahomes", Position: player.PositionQuarterback}); !ok {
		t.Fatalf("expected player removed from clone")
	}
	if _, ok := r.FindActive(player.Ref{Name: "Patrick Mahomes", Position: player.PositionQuarterback}); !ok {
		t.Fatalf("original roster must be unchanged")
	}
}
