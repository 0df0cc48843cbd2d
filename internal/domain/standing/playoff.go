package standing

import (
	"fmt"
	"slices"
	"sort"

	"github.com/qpfl/league-core/internal/domain/league"
)

type Seed struct {
	Seed int    `json:"seed"`
	Team string `json:"team"`
}

type Pairing struct {
	High Seed `json:"high"`
	Low  Seed `json:"low"`
}

// Bracket is a seeded playoff bracket with its first-round pairings.
type Bracket struct {
	Name     string    `json:"name"`
	Seeds    []Seed    `json:"seeds"`
	Pairings []Pairing `json:"pairings"`
}

// SeedPlayoffs places ranked standings into the configured brackets. Brackets
// are ordered by their best seed and each pairs its highest remaining seed
// against its lowest (1v4 and 2v3 for a four-team bracket).
func SeedPlayoffs(standings []Standing, structure []league.Bracket) ([]Bracket, error) {
	byRank := make(map[int]string, len(standings))
	for _, item := range standings {
		byRank[item.Rank] = item.Team
	}

	ordered := slices.Clone(structure)
	sort.SliceStable(ordered, func(i, j int) bool {
		return slices.Min(ordered[i].Seeds) < slices.Min(ordered[j].Seeds)
	})

	out := make([]Bracket, 0, len(ordered))
	for _, cfg := range ordered {
		seeds := slices.Clone(cfg.Seeds)
		slices.Sort(seeds)

		bracket := Bracket{Name: cfg.Name, Seeds: make([]Seed, 0, len(seeds))}
		for _, seed := range seeds {
			team, ok := byRank[seed]
			if !ok {
				return nil, fmt.Errorf("bracket %s needs seed %d but only %d teams are ranked", cfg.Name, seed, len(standings))
			}
			bracket.Seeds = append(bracket.Seeds, Seed{Seed: seed, Team: team})
		}
		for lo, hi := 0, len(bracket.Seeds)-1; lo < hi; lo, hi = lo+1, hi-1 {
			bracket.Pairings = append(bracket.Pairings, Pairing{High: bracket.Seeds[lo], Low: bracket.Seeds[hi]})
		}
		out = append(out, bracket)
	}
	return out, nil
}
