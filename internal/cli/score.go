package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/qpfl/league-core/internal/domain/scoring"
)

func newScoreCmd(e *env) *cobra.Command {
	var (
		week   int
		record bool
		bench  bool
		detail bool
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a week from the stored lineups and the stats feed",
		Long: `Score every team's submitted lineup for a week.

Without --record the scores are computed and printed only. With --record the
week is finalized: the scores document is written and further lineup
submissions for that week are rejected.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireWeek(week); err != nil {
				return err
			}

			var (
				scores   scoring.WeekScores
				warnings []scoring.Issue
			)
			if record {
				result, err := e.app.Scoring.ScoreAndRecordWeek(cmd.Context(), e.opts.season, week)
				if err != nil {
					return err
				}
				scores, warnings = result.Scores, result.Warnings
			} else {
				var err error
				if scores, err = e.app.Scoring.ScoreStoredWeek(cmd.Context(), e.opts.season, week, bench); err != nil {
					return err
				}
			}

			return e.out().Print(scores, func(o *Output) error {
				if err := o.Table([]string{"TEAM", "TOTAL"}, totalRows(scores)); err != nil {
					return err
				}
				if detail {
					for _, team := range scores.Teams {
						if err := o.Line(""); err != nil {
							return err
						}
						if err := o.Line("%s  %s", team.Team, formatPoints(team.Total)); err != nil {
							return err
						}
						if err := o.Table([]string{"", "POS", "PLAYER", "NFL", "PTS", "NOTES"}, playerRows(team, bench)); err != nil {
							return err
						}
					}
				}
				for _, w := range warnings {
					if err := o.Line("warning: %s %s: %s", w.Team, w.Player, w.Message); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&week, "week", 0, "NFL week to score")
	cmd.Flags().BoolVar(&record, "record", false, "Persist the scores and finalize the week")
	cmd.Flags().BoolVar(&bench, "bench", false, "Also score bench players (never counted)")
	cmd.Flags().BoolVar(&detail, "detail", false, "Print per-player lines")
	cmd.MarkFlagsMutuallyExclusive("record", "bench")
	_ = cmd.MarkFlagRequired("week")

	return cmd
}

func totalRows(scores scoring.WeekScores) [][]string {
	rows := make([][]string, 0, len(scores.Teams))
	for _, team := range scores.Teams {
		rows = append(rows, []string{team.Team, formatPoints(team.Total)})
	}
	return rows
}

func playerRows(team scoring.TeamScore, bench bool) [][]string {
	rows := make([][]string, 0, len(team.Starters)+len(team.Bench))
	for _, item := range team.Starters {
		rows = append(rows, playerRow("*", item))
	}
	if bench {
		for _, item := range team.Bench {
			rows = append(rows, playerRow("", item))
		}
	}
	return rows
}

func playerRow(marker string, item scoring.PlayerScore) []string {
	return []string{marker, string(item.Position), item.Name, item.NFLTeam, formatPoints(item.Points), strings.Join(item.Notes, "; ")}
}
