package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/qpfl/league-core/internal/domain/player"
	"github.com/qpfl/league-core/internal/domain/roster"
	"github.com/qpfl/league-core/internal/usecase"
)

func newInitSeasonCmd(e *env) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "init-season",
		Short: "Create the season ledger from a rosters file",
		Long: `Create the season ledger document. The file holds the initial rosters, free-agent
pool and draft picks:

  {"rosters": [...], "fa_pool": [...], "draft_picks": [...]}

Fails with a conflict when the season already has a ledger.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("%w: read %s: %v", usecase.ErrInvalidInput, file, err)
			}
			var input usecase.InitSeasonInput
			if err := sonic.Unmarshal(data, &input); err != nil {
				return fmt.Errorf("%w: decode %s: %v", usecase.ErrInvalidInput, file, err)
			}
			if e.opts.season != 0 {
				input.Season = e.opts.season
			}

			state, err := e.app.Ledger.InitSeason(cmd.Context(), input)
			if err != nil {
				return err
			}

			out := e.out()
			return out.Print(state, func(o *Output) error {
				return o.Line("season %d initialized: %d rosters, %d free agents, %d draft picks",
					state.Season, len(state.Rosters), len(state.FAPool), len(state.DraftPicks))
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Initial rosters JSON file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newValidateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check every roster against the league rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			violations, err := e.app.Ledger.Validate(cmd.Context(), e.opts.season)
			if err != nil {
				return err
			}

			out := e.out()
			if err := out.Print(violations, func(o *Output) error {
				if len(violations) == 0 {
					return o.Line("all rosters valid")
				}
				return o.Table([]string{"TEAM", "CODE", "PLAYER", "MESSAGE"}, violationRows(violations))
			}); err != nil {
				return err
			}

			if hard := violations.Hard(); len(hard) > 0 {
				return fmt.Errorf("%w: %d roster violations", usecase.ErrValidation, len(hard))
			}
			return nil
		},
	}
}

func newRosterCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Roster commands",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show <team>",
		Short: "Show a team's active roster and taxi squad",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, _, err := e.app.Ledger.Get(cmd.Context(), e.opts.season)
			if err != nil {
				return err
			}
			r, ok := state.Roster(args[0])
			if !ok {
				return fmt.Errorf("%w: no roster for %s", usecase.ErrNotFound, args[0])
			}

			out := e.out()
			return out.Print(r, func(o *Output) error {
				return o.Table([]string{"POS", "PLAYER", "NFL", "STATUS"}, rosterRows(r))
			})
		},
	})
	return cmd
}

func rosterRows(r roster.Roster) [][]string {
	rows := make([][]string, 0)
	for _, pos := range player.SortedPositions(r.Active) {
		for _, p := range r.Active[pos] {
			rows = append(rows, []string{string(pos), p.Name, p.NFLTeam, string(player.StatusActive)})
		}
	}
	for _, p := range r.Taxi {
		rows = append(rows, []string{string(p.Position), p.Name, p.NFLTeam, string(player.StatusTaxi)})
	}
	return rows
}

func violationRows(vs roster.Violations) [][]string {
	rows := make([][]string, 0, len(vs))
	for _, v := range vs {
		rows = append(rows, []string{v.Team, v.Code, v.Player, v.Message})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })
	return rows
}

func assetsLine(players []player.Ref, picks []string) string {
	parts := make([]string, 0, len(players)+len(picks))
	for _, p := range players {
		parts = append(parts, p.String())
	}
	parts = append(parts, picks...)
	if len(parts) == 0 {
		return "nothing"
	}
	return strings.Join(parts, ", ")
}
