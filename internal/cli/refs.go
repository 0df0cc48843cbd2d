package cli

import (
	"fmt"
	"strings"

	"github.com/qpfl/league-core/internal/domain/player"
)

// parseRef reads a player reference written as "POS:Name", e.g. "QB:Josh Allen".
func parseRef(raw string) (player.Ref, error) {
	pos, name, ok := strings.Cut(raw, ":")
	if !ok || strings.TrimSpace(name) == "" {
		return player.Ref{}, fmt.Errorf("player %q must be written as POS:Name", raw)
	}
	position, err := player.ParsePosition(pos)
	if err != nil {
		return player.Ref{}, err
	}
	return player.Ref{Name: strings.TrimSpace(name), Position: position}, nil
}

func parseRefs(raw []string) ([]player.Ref, error) {
	out := make([]player.Ref, 0, len(raw))
	for _, item := range raw {
		ref, err := parseRef(item)
		if err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, nil
}

func startersFromRefs(refs []player.Ref) map[player.Position][]string {
	out := make(map[player.Position][]string)
	for _, ref := range refs {
		out[ref.Position] = append(out[ref.Position], ref.Name)
	}
	return out
}
