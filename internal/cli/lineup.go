package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qpfl/league-core/internal/domain/lineup"
	"github.com/qpfl/league-core/internal/domain/player"
	"github.com/qpfl/league-core/internal/usecase"
)

func newLineupCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lineup",
		Short: "Weekly lineup commands",
	}

	cmd.AddCommand(newLineupSubmitCmd(e))
	cmd.AddCommand(newLineupShowCmd(e))

	return cmd
}

func newLineupSubmitCmd(e *env) *cobra.Command {
	var (
		team     string
		week     int
		starters []string
		locks    []string
		comment  string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Set a team's starters for a week",
		Example: `  qpfl lineup submit --team GSA --week 3 \
    --starter "QB:Josh Allen" --starter "RB:Saquon Barkley" --lock "QB:Josh Allen"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireWeek(week); err != nil {
				return err
			}
			refs, err := parseRefs(starters)
			if err != nil {
				return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
			}
			locked, err := parseRefs(locks)
			if err != nil {
				return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
			}

			result, err := e.app.Lineups.Submit(cmd.Context(), usecase.SubmitLineupInput{
				Season:   e.opts.season,
				Week:     week,
				Team:     team,
				Starters: startersFromRefs(refs),
				Lock:     locked,
				Comment:  comment,
			})
			if err != nil {
				return err
			}

			return e.out().Print(result, func(o *Output) error {
				if err := o.Table([]string{"POS", "STARTERS"}, starterRows(result.Lineup)); err != nil {
					return err
				}
				for _, w := range result.Warnings {
					if err := o.Line("warning: %s", w.Message); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&team, "team", "", "Team submitting the lineup")
	cmd.Flags().IntVar(&week, "week", 0, "NFL week")
	cmd.Flags().StringArrayVar(&starters, "starter", nil, "Starter as POS:Name (repeatable)")
	cmd.Flags().StringArrayVar(&locks, "lock", nil, "Starter whose game has kicked off, as POS:Name (repeatable)")
	cmd.Flags().StringVar(&comment, "comment", "", "Free-text comment shown with the lineup")
	_ = cmd.MarkFlagRequired("team")
	_ = cmd.MarkFlagRequired("week")

	return cmd
}

func newLineupShowCmd(e *env) *cobra.Command {
	var week int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show every submitted lineup for a week",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireWeek(week); err != nil {
				return err
			}
			lineups, err := e.app.Lineups.Get(cmd.Context(), e.opts.season, week)
			if err != nil {
				return err
			}

			return e.out().Print(lineups, func(o *Output) error {
				state := "open"
				if lineups.Finalized {
					state = "finalized"
				}
				if err := o.Line("season %d week %d (%s)", lineups.Season, lineups.Week, state); err != nil {
					return err
				}

				teams := make([]string, 0, len(lineups.Lineups))
				for team := range lineups.Lineups {
					teams = append(teams, team)
				}
				sort.Strings(teams)

				rows := make([][]string, 0, len(teams))
				for _, team := range teams {
					lu := lineups.Lineups[team]
					for _, row := range starterRows(lu) {
						rows = append(rows, append([]string{team}, row...))
					}
				}
				return o.Table([]string{"TEAM", "POS", "STARTERS"}, rows)
			})
		},
	}

	cmd.Flags().IntVar(&week, "week", 0, "NFL week")
	_ = cmd.MarkFlagRequired("week")

	return cmd
}

func starterRows(lu lineup.Lineup) [][]string {
	rows := make([][]string, 0, len(lu.Starters))
	for _, pos := range player.SortedPositions(lu.Starters) {
		rows = append(rows, []string{string(pos), strings.Join(lu.Starters[pos], ", ")})
	}
	return rows
}
