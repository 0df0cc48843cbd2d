package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/qpfl/league-core/internal/domain/standing"
)

func newStandingsCmd(e *env) *cobra.Command {
	var through int

	cmd := &cobra.Command{
		Use:   "standings",
		Short: "Rebuild standings and playoff seeding from recorded weeks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := e.app.Standings.Rebuild(cmd.Context(), e.opts.season, through)
			if err != nil {
				return err
			}

			return e.out().Print(report, func(o *Output) error {
				if err := o.Line("season %d through week %d", report.Season, report.ThroughWeek); err != nil {
					return err
				}
				if err := o.Table([]string{"RANK", "TEAM", "W", "L", "T", "PCT", "PF", "PA"}, standingRows(report.Standings)); err != nil {
					return err
				}
				for _, f := range report.Unplayed {
					if err := o.Line("unplayed: week %d %s vs %s", f.Week, f.Home, f.Away); err != nil {
						return err
					}
				}
				for _, bracket := range report.Playoffs {
					if err := o.Line("%s:", bracket.Name); err != nil {
						return err
					}
					for _, p := range bracket.Pairings {
						if err := o.Line("  (%d) %s vs (%d) %s", p.High.Seed, p.High.Team, p.Low.Seed, p.Low.Team); err != nil {
							return err
						}
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&through, "through", 0, "Last regular-season week to include (default: all)")

	return cmd
}

func standingRows(standings []standing.Standing) [][]string {
	rows := make([][]string, 0, len(standings))
	for _, s := range standings {
		rows = append(rows, []string{
			strconv.Itoa(s.Rank),
			s.Team,
			strconv.Itoa(s.Wins),
			strconv.Itoa(s.Losses),
			strconv.Itoa(s.Ties),
			winPct(s),
			formatPoints(s.PointsFor),
			formatPoints(s.PointsAgainst),
		})
	}
	return rows
}

func winPct(s standing.Standing) string {
	pct := s.WinPct()
	out := fmt.Sprintf("%.3f", pct)
	if pct < 1 {
		out = out[1:]
	}
	return out
}
