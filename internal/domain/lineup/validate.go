package lineup

import (
	"fmt"

	"github.com/qpfl/league-core/internal/domain/league"
	"github.com/qpfl/league-core/internal/domain/player"
	"github.com/qpfl/league-core/internal/domain/roster"
)

// ValidateLineup checks starter counts and eligibility against the team's roster.
// Short positions are reported with CodeMissingStarter, which callers treat as a warning.
func ValidateLineup(l Lineup, r roster.Roster, cfg league.Config) roster.Violations {
	out := make(roster.Violations, 0)

	positions := make(map[player.Position]struct{})
	for pos := range cfg.StarterSlots {
		positions[pos] = struct{}{}
	}
	for pos := range l.Starters {
		positions[pos] = struct{}{}
	}

	seen := make(map[string]player.Position)
	for _, pos := range player.SortedPositions(positions) {
		names := l.Starters[pos]
		required := cfg.StarterSlots[pos]

		switch {
		case len(names) < required:
			out = append(out, violation(roster.CodeMissingStarter, l.Team, pos, "",
				"%s starts %d of %d required %s", l.Team, len(names), required, pos))
		case len(names) > required:
			out = append(out, violation(roster.CodeTooManyStarters, l.Team, pos, "",
				"%s starts %d %s, exactly %d allowed", l.Team, len(names), pos, required))
		}

		for _, name := range names {
			key := player.NormalizeName(name)
			if pos.IsTeamUnit() {
				key = player.Ref{Name: name, Position: pos}.Key()
			}
			if prev, ok := seen[key]; ok {
				out = append(out, violation(roster.CodeDuplicateStarter, l.Team, pos, name,
					"%s starts %s at both %s and %s", l.Team, name, prev, pos))
				continue
			}
			seen[key] = pos

			ref := player.Ref{Name: name, Position: pos}
			if _, ok := r.FindActive(ref); ok {
				continue
			}
			if _, ok := r.FindTaxi(ref); ok {
				out = append(out, violation(roster.CodeStarterOnTaxi, l.Team, pos, name,
					"%s cannot start %s (%s) from the taxi squad", l.Team, name, pos))
				continue
			}
			out = append(out, violation(roster.CodeStarterNotOnRoster, l.Team, pos, name,
				"%s (%s) is not on %s's active roster", name, pos, l.Team))
		}
	}

	return out
}

func violation(code, team string, pos player.Position, name, format string, args ...any) roster.Violation {
	return roster.Violation{
		Code:     code,
		Team:     team,
		Position: pos,
		Player:   name,
		Message:  fmt.Sprintf(format, args...),
	}
}
