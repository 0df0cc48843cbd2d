package lineup

import (
	"slices"
	"time"

	"github.com/qpfl/league-core/internal/domain/player"
)

// Lineup is one team's declared starters for a week.
type Lineup struct {
	Team        string                       `json:"team"`
	Week        int                          `json:"week"`
	Starters    map[player.Position][]string `json:"starters"`
	Locked      []player.Ref                 `json:"locked,omitempty"`
	Comment     string                       `json:"comment,omitempty"`
	SubmittedAt time.Time                    `json:"submitted_at"`
}

// WeekLineups is the per-week document holding every team's lineup.
type WeekLineups struct {
	Season    int               `json:"season"`
	Week      int               `json:"week"`
	Finalized bool              `json:"finalized"`
	Lineups   map[string]Lineup `json:"lineups"`
}

func NewWeek(season, week int) WeekLineups {
	return WeekLineups{Season: season, Week: week, Lineups: make(map[string]Lineup)}
}

func (l Lineup) IsLocked(ref player.Ref) bool {
	for _, item := range l.Locked {
		if item.Matches(ref) {
			return true
		}
	}
	return false
}

// StarterRefs lists starters in position display order.
func (l Lineup) StarterRefs() []player.Ref {
	out := make([]player.Ref, 0)
	for _, pos := range player.SortedPositions(l.Starters) {
		for _, name := range l.Starters[pos] {
			out = append(out, player.Ref{Name: name, Position: pos})
		}
	}
	return out
}

func (l Lineup) IsStarter(ref player.Ref) bool {
	for _, name := range l.Starters[ref.Position] {
		if player.NormalizeName(name) == player.NormalizeName(ref.Name) {
			return true
		}
	}
	return false
}

func (l Lineup) Clone() Lineup {
	out := l
	out.Starters = make(map[player.Position][]string, len(l.Starters))
	for pos, names := range l.Starters {
		out.Starters[pos] = slices.Clone(names)
	}
	out.Locked = slices.Clone(l.Locked)
	return out
}

// MergeLocked applies next on top of current. Players locked in current keep
// their previous starter or bench status. Players locked for the first time
// by next take the status next gives them.
func MergeLocked(current, next Lineup) Lineup {
	locked := slices.Clone(current.Locked)
	for _, ref := range next.Locked {
		if !current.IsLocked(ref) {
			locked = append(locked, ref)
		}
	}

	merged := next.Clone()
	merged.Locked = locked
	merged.Starters = make(map[player.Position][]string)

	positions := make(map[player.Position]struct{})
	for pos := range current.Starters {
		positions[pos] = struct{}{}
	}
	for pos := range next.Starters {
		positions[pos] = struct{}{}
	}

	for pos := range positions {
		names := make([]string, 0, len(next.Starters[pos]))
		for _, name := range current.Starters[pos] {
			if current.IsLocked(player.Ref{Name: name, Position: pos}) {
				names = append(names, name)
			}
		}
		for _, name := range next.Starters[pos] {
			if !current.IsLocked(player.Ref{Name: name, Position: pos}) {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			merged.Starters[pos] = names
		}
	}

	return merged
}
