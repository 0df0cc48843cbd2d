package ledger

import (
	"slices"
	"sort"
	"strings"

	"github.com/qpfl/league-core/internal/domain/draftpick"
	"github.com/qpfl/league-core/internal/domain/league"
	"github.com/qpfl/league-core/internal/domain/player"
	"github.com/qpfl/league-core/internal/domain/roster"
	"github.com/qpfl/league-core/internal/domain/trade"
	"github.com/qpfl/league-core/internal/domain/transaction"
)

// State is the season ledger document. Every transaction replaces it whole
// with a single conditional write.
type State struct {
	Season       int                      `json:"season"`
	Rosters      map[string]roster.Roster `json:"rosters"`
	FAPool       []player.Player          `json:"fa_pool"`
	Released     []player.Player          `json:"released"`
	DraftPicks   []draftpick.DraftPick    `json:"draft_picks"`
	Trades       []trade.Trade            `json:"trades"`
	Transactions []transaction.Entry      `json:"transactions"`
}

func New(season int) State {
	return State{
		Season:       season,
		Rosters:      make(map[string]roster.Roster),
		FAPool:       []player.Player{},
		Released:     []player.Player{},
		DraftPicks:   []draftpick.DraftPick{},
		Trades:       []trade.Trade{},
		Transactions: []transaction.Entry{},
	}
}

func (s State) Clone() State {
	out := State{
		Season:       s.Season,
		Rosters:      make(map[string]roster.Roster, len(s.Rosters)),
		FAPool:       slices.Clone(s.FAPool),
		Released:     slices.Clone(s.Released),
		DraftPicks:   slices.Clone(s.DraftPicks),
		Trades:       make([]trade.Trade, 0, len(s.Trades)),
		Transactions: slices.Clone(s.Transactions),
	}
	for team, r := range s.Rosters {
		out.Rosters[team] = r.Clone()
	}
	for _, t := range s.Trades {
		out.Trades = append(out.Trades, t.Clone())
	}
	if out.FAPool == nil {
		out.FAPool = []player.Player{}
	}
	if out.Released == nil {
		out.Released = []player.Player{}
	}
	if out.DraftPicks == nil {
		out.DraftPicks = []draftpick.DraftPick{}
	}
	if out.Transactions == nil {
		out.Transactions = []transaction.Entry{}
	}
	return out
}

// Roster looks up a team's roster by abbreviation, case-insensitively.
func (s State) Roster(team string) (roster.Roster, bool) {
	if r, ok := s.Rosters[team]; ok {
		return r, true
	}
	for key, r := range s.Rosters {
		if strings.EqualFold(key, team) {
			return r, true
		}
	}
	return roster.Roster{}, false
}

func (s *State) PutRoster(r roster.Roster) {
	if s.Rosters == nil {
		s.Rosters = make(map[string]roster.Roster)
	}
	s.Rosters[r.Team] = r
}

// RosterList returns rosters ordered by team abbreviation.
func (s State) RosterList() []roster.Roster {
	teams := make([]string, 0, len(s.Rosters))
	for team := range s.Rosters {
		teams = append(teams, team)
	}
	sort.Strings(teams)

	out := make([]roster.Roster, 0, len(teams))
	for _, team := range teams {
		out = append(out, s.Rosters[team])
	}
	return out
}

// OwnerOf returns the team holding ref anywhere on its roster.
func (s State) OwnerOf(ref player.Ref) (string, bool) {
	for _, r := range s.RosterList() {
		if r.Owns(ref) {
			return r.Team, true
		}
	}
	return "", false
}

func (s State) TradeIndex(id string) int {
	for idx, t := range s.Trades {
		if t.ID == id {
			return idx
		}
	}
	return -1
}

func (s State) PickIndex(id string) int {
	year, round, original, err := draftpick.ParseID(id)
	if err != nil {
		return -1
	}
	for idx, p := range s.DraftPicks {
		if p.Year == year && p.Round == round && strings.EqualFold(p.OriginalTeam, original) {
			return idx
		}
	}
	return -1
}

func (s State) FAIndex(ref player.Ref) int {
	for idx, p := range s.FAPool {
		if p.Ref().Matches(ref) {
			return idx
		}
	}
	return -1
}

// RemoveFA claims a player from the free-agent pool.
func (s *State) RemoveFA(ref player.Ref) (player.Player, bool) {
	idx := s.FAIndex(ref)
	if idx < 0 {
		return player.Player{}, false
	}
	out := s.FAPool[idx]
	s.FAPool = slices.Delete(slices.Clone(s.FAPool), idx, idx+1)
	return out, true
}

func (s *State) Release(p player.Player) {
	p.Status = player.StatusDropped
	s.Released = append(slices.Clone(s.Released), p)
}

func (s *State) Append(entry transaction.Entry) {
	s.Transactions = append(slices.Clone(s.Transactions), entry)
}

// Validate runs every roster rule plus the league-wide ownership check.
func (s State) Validate(cfg league.Config) roster.Violations {
	rosters := s.RosterList()
	out := make(roster.Violations, 0)
	for _, r := range rosters {
		out = append(out, roster.ValidateRoster(r, cfg)...)
	}
	return append(out, roster.ValidateLeagueRosters(rosters)...)
}
