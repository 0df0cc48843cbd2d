package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/qpfl/league-core/internal/app"
	"github.com/qpfl/league-core/internal/config"
	"github.com/qpfl/league-core/internal/observability"
	"github.com/qpfl/league-core/internal/platform/logging"
	"github.com/qpfl/league-core/internal/usecase"
)

const skipAppAnnotation = "qpfl/skip-app"

type rootOptions struct {
	output       string
	season       int
	leagueConfig string
	storeBackend string
	verbose      bool
}

// env carries what every command needs once the root pre-run has finished.
type env struct {
	stdout io.Writer
	stderr io.Writer
	opts   rootOptions

	cfg     config.Config
	logger  *logging.Logger
	app     *app.App
	cleanup []func(context.Context) error
}

func (e *env) out() *Output {
	return NewOutput(e.opts.output, e.stdout)
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&env{stdout: os.Stdout, stderr: os.Stderr})
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:   "qpfl",
		Short: "Scoring engine and transaction ledger for the QPFL fantasy league",
		Long: `qpfl scores fantasy weeks from raw NFL stats and runs roster transactions
(trades, taxi activations, free-agent pickups, lineups) against the season ledger.

Every write is an optimistic read-modify-write on a versioned document, retried
on conflict. The document store is chosen with STORE_BACKEND.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&e.opts.output, "output", "o", FormatText, "Output format: text, json")
	root.PersistentFlags().IntVar(&e.opts.season, "season", 0, "Season (default: current_season from the league config)")
	root.PersistentFlags().StringVar(&e.opts.leagueConfig, "league-config", "", "League config JSON file (env: LEAGUE_CONFIG_PATH)")
	root.PersistentFlags().StringVar(&e.opts.storeBackend, "store", "", "Document store: memory, postgres, redis (env: STORE_BACKEND)")
	root.PersistentFlags().BoolVarP(&e.opts.verbose, "verbose", "v", false, "Debug logging")

	root.AddCommand(newInitSeasonCmd(e))
	root.AddCommand(newValidateCmd(e))
	root.AddCommand(newRosterCmd(e))
	root.AddCommand(newTradeCmd(e))
	root.AddCommand(newTaxiCmd(e))
	root.AddCommand(newFACmd(e))
	root.AddCommand(newLineupCmd(e))
	root.AddCommand(newScoreCmd(e))
	root.AddCommand(newStandingsCmd(e))
	root.AddCommand(newMigrateCmd(e))

	return root
}

func (e *env) setup(cmd *cobra.Command) error {
	if e.app != nil {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if e.opts.leagueConfig != "" {
		cfg.LeagueConfigPath = e.opts.leagueConfig
	}
	if e.opts.storeBackend != "" {
		cfg.StoreBackend = e.opts.storeBackend
	}
	e.cfg = cfg

	level := cfg.LogLevel
	if e.opts.verbose {
		level = logging.LevelDebug
	}
	e.logger = logging.NewJSON(level)
	logging.SetDefault(e.logger)
	e.cleanup = append(e.cleanup, func(context.Context) error { _ = e.logger.Sync(); return nil })

	if skipsApp(cmd) {
		return nil
	}

	shutdown, err := observability.Start(cfg, e.logger)
	if err != nil {
		return err
	}
	e.cleanup = append(e.cleanup, shutdown)

	a, err := app.New(cmd.Context(), cfg, e.logger)
	if err != nil {
		return err
	}
	e.app = a
	e.cleanup = append(e.cleanup, func(context.Context) error { return a.Close() })
	return nil
}

func (e *env) teardown(ctx context.Context) error {
	var errs []error
	for i := len(e.cleanup) - 1; i >= 0; i-- {
		if err := e.cleanup[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	e.cleanup = nil
	return errors.Join(errs...)
}

func skipsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipAppAnnotation] == "true" {
			return true
		}
	}
	return false
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	e := &env{stdout: os.Stdout, stderr: os.Stderr}
	root := newRootCmd(e)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := root.ExecuteContext(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if cerr := e.teardown(shutdownCtx); cerr != nil && e.logger != nil {
		e.logger.Error("shutdown failed", "error", cerr)
	}

	if err != nil {
		e.reportError(err)
		return ExitCode(err)
	}
	return 0
}

// ExitCode maps an error to a distinct exit status per error kind.
func ExitCode(err error) int {
	switch usecase.KindOf(err) {
	case usecase.KindNone:
		return 0
	case usecase.KindValidation:
		return 2
	case usecase.KindConflict:
		return 3
	case usecase.KindNotFound:
		return 4
	case usecase.KindIntegrity:
		return 5
	case usecase.KindUnavailable:
		return 6
	case usecase.KindInvalidInput:
		return 64
	default:
		return 1
	}
}

type errorReport struct {
	Kind       usecase.Kind `json:"kind"`
	Message    string       `json:"message"`
	Violations any          `json:"violations,omitempty"`
}

func (e *env) reportError(err error) {
	report := errorReport{Kind: usecase.KindOf(err), Message: err.Error()}
	var vErr *usecase.ViolationError
	if errors.As(err, &vErr) {
		report.Violations = vErr.Violations
	}

	out := NewOutput(e.opts.output, e.stderr)
	if out.JSON() {
		_ = out.PrintJSON(map[string]errorReport{"error": report})
		return
	}

	_ = out.Line("error (%s): %s", report.Kind, report.Message)
	if vErr != nil {
		for _, v := range vErr.Violations {
			_ = out.Line("  - [%s] %s", v.Code, v.Message)
		}
	}
}

func requireWeek(week int) error {
	if week < 1 {
		return fmt.Errorf("%w: --week must be >= 1", usecase.ErrInvalidInput)
	}
	return nil
}
