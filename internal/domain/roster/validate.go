package roster

import (
	"sort"

	"github.com/qpfl/league-core/internal/domain/league"
	"github.com/qpfl/league-core/internal/domain/player"
)

// ValidateRoster checks one team's roster against the configured slot limits.
func ValidateRoster(r Roster, cfg league.Config) Violations {
	out := make(Violations, 0)

	for _, pos := range player.SortedPositions(r.Active) {
		players := r.Active[pos]
		limit := cfg.RosterSlots[pos]
		if len(players) > limit {
			out = append(out, newViolation(CodeRosterSlotsExceeded, r.Team, pos, "",
				"%s has %d %s players, limit is %d", r.Team, len(players), pos, limit))
		}
		for _, item := range players {
			if item.Position != pos {
				out = append(out, newViolation(CodePositionMismatch, r.Team, pos, item.Name,
					"%s lists %s (%s) under %s", r.Team, item.Name, item.Position, pos))
			}
		}
	}

	if len(r.Taxi) > cfg.TaxiSlots {
		out = append(out, newViolation(CodeTaxiSlotsExceeded, r.Team, "", "",
			"%s has %d taxi players, limit is %d", r.Team, len(r.Taxi), cfg.TaxiSlots))
	}

	activeNames := make(map[string]player.Position)
	for _, item := range r.ActivePlayers() {
		name := identity(item.Ref())
		if prev, ok := activeNames[name]; ok {
			out = append(out, newViolation(CodeDuplicatePlayer, r.Team, item.Position, item.Name,
				"%s lists %s more than once (%s and %s)", r.Team, item.Name, prev, item.Position))
			continue
		}
		activeNames[name] = item.Position
	}

	taxiNames := make(map[string]struct{})
	for _, item := range r.Taxi {
		name := identity(item.Ref())
		if _, ok := activeNames[name]; ok {
			out = append(out, newViolation(CodeActiveAndTaxi, r.Team, item.Position, item.Name,
				"%s has %s on both the active roster and the taxi squad", r.Team, item.Name))
			continue
		}
		if _, ok := taxiNames[name]; ok {
			out = append(out, newViolation(CodeDuplicatePlayer, r.Team, item.Position, item.Name,
				"%s lists %s on the taxi squad more than once", r.Team, item.Name))
			continue
		}
		taxiNames[name] = struct{}{}
	}

	return out
}

// ValidateLeagueRosters reports every player held by more than one team.
func ValidateLeagueRosters(rosters []Roster) Violations {
	owners := make(map[string][]string)
	names := make(map[string]player.Player)
	for _, r := range rosters {
		seen := make(map[string]struct{})
		for _, item := range r.Players() {
			key := identity(item.Ref())
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			if _, ok := names[key]; !ok {
				names[key] = item
			}
			owners[key] = append(owners[key], r.Team)
		}
	}

	keys := make([]string, 0, len(owners))
	for key, teams := range owners {
		if len(teams) > 1 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	out := make(Violations, 0, len(keys))
	for _, key := range keys {
		item := names[key]
		teams := owners[key]
		for _, team := range teams[1:] {
			out = append(out, newViolation(CodePlayerOnMultipleTeam, team, item.Position, item.Name,
				"%s (%s) is rostered by both %s and %s", item.Name, item.Position, teams[0], team))
		}
	}
	return out
}

// identity collapses individual players across positions. Team units share the
// team's name between D/ST and OL, so they keep the position in their identity.
func identity(ref player.Ref) string {
	if ref.Position.IsTeamUnit() {
		return ref.Key()
	}
	return player.NormalizeName(ref.Name)
}
