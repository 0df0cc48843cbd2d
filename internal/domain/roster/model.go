package roster

import (
	"slices"

	"github.com/qpfl/league-core/internal/domain/player"
)

// Roster is one fantasy team's owned players, split into active and taxi.
type Roster struct {
	Team   string                              `json:"team"`
	Active map[player.Position][]player.Player `json:"active"`
	Taxi   []player.Player                     `json:"taxi"`
}

func New(team string) Roster {
	return Roster{
		Team:   team,
		Active: make(map[player.Position][]player.Player),
		Taxi:   []player.Player{},
	}
}

func (r Roster) Clone() Roster {
	out := Roster{
		Team:   r.Team,
		Active: make(map[player.Position][]player.Player, len(r.Active)),
		Taxi:   slices.Clone(r.Taxi),
	}
	if out.Taxi == nil {
		out.Taxi = []player.Player{}
	}
	for pos, players := range r.Active {
		out.Active[pos] = slices.Clone(players)
	}
	return out
}

// FindActive returns the active player matching ref.
func (r Roster) FindActive(ref player.Ref) (player.Player, bool) {
	for _, item := range r.Active[ref.Position] {
		if item.Ref().Matches(ref) {
			return item, true
		}
	}
	return player.Player{}, false
}

func (r Roster) FindTaxi(ref player.Ref) (player.Player, bool) {
	for _, item := range r.Taxi {
		if item.Ref().Matches(ref) {
			return item, true
		}
	}
	return player.Player{}, false
}

// Owns reports whether ref is anywhere on the roster.
func (r Roster) Owns(ref player.Ref) bool {
	if _, ok := r.FindActive(ref); ok {
		return true
	}
	_, ok := r.FindTaxi(ref)
	return ok
}

// RemoveActive takes ref off the active roster.
func (r *Roster) RemoveActive(ref player.Ref) (player.Player, bool) {
	players := r.Active[ref.Position]
	for idx, item := range players {
		if item.Ref().Matches(ref) {
			r.Active[ref.Position] = slices.Delete(slices.Clone(players), idx, idx+1)
			return item, true
		}
	}
	return player.Player{}, false
}

func (r *Roster) RemoveTaxi(ref player.Ref) (player.Player, bool) {
	for idx, item := range r.Taxi {
		if item.Ref().Matches(ref) {
			r.Taxi = slices.Delete(slices.Clone(r.Taxi), idx, idx+1)
			return item, true
		}
	}
	return player.Player{}, false
}

// Remove takes ref off the roster wherever it sits.
func (r *Roster) Remove(ref player.Ref) (player.Player, bool) {
	if item, ok := r.RemoveActive(ref); ok {
		return item, true
	}
	return r.RemoveTaxi(ref)
}

func (r *Roster) AddActive(p player.Player) {
	if r.Active == nil {
		r.Active = make(map[player.Position][]player.Player)
	}
	p.Status = player.StatusActive
	r.Active[p.Position] = append(slices.Clone(r.Active[p.Position]), p)
}

func (r *Roster) AddTaxi(p player.Player) {
	p.Status = player.StatusTaxi
	r.Taxi = append(slices.Clone(r.Taxi), p)
}

// ActivePlayers lists active players in position display order.
func (r Roster) ActivePlayers() []player.Player {
	out := make([]player.Player, 0)
	for _, pos := range player.Positions {
		out = append(out, r.Active[pos]...)
	}
	for pos, players := range r.Active {
		if !pos.Valid() {
			out = append(out, players...)
		}
	}
	return out
}

// Players lists every rostered player, active first.
func (r Roster) Players() []player.Player {
	return append(r.ActivePlayers(), r.Taxi...)
}
