package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/spf13/cobra"

	"github.com/qpfl/league-core/db"
	"github.com/qpfl/league-core/internal/app"
	"github.com/qpfl/league-core/internal/usecase"
)

const migrationsDirEnv = "MIGRATIONS_DIR"

func newMigrateCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the postgres documents table schema",
		Long: `Apply or roll back the documents table migrations against DB_URL.

Migrations are embedded in the binary. Set MIGRATIONS_DIR to run them from a
directory instead.`,
		Annotations: map[string]string{skipAppAnnotation: "true"},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return e.withMigrator(func(m *migrate.Migrate) error {
				if err := ignoreNoChange(m.Up()); err != nil {
					return err
				}
				return e.out().Line("migrations applied")
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default 1 step)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			steps, err := parseSteps(args)
			if err != nil {
				return err
			}
			return e.withMigrator(func(m *migrate.Migrate) error {
				if err := ignoreNoChange(m.Steps(-steps)); err != nil {
					return err
				}
				return e.out().Line("rolled back %d migration(s)", steps)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return e.withMigrator(func(m *migrate.Migrate) error {
				version, dirty, err := m.Version()
				if errors.Is(err, migrate.ErrNilVersion) {
					return e.out().Print(map[string]any{"version": nil, "dirty": false}, func(o *Output) error {
						return o.Line("version: none")
					})
				}
				if err != nil {
					return fmt.Errorf("read version: %w", err)
				}
				return e.out().Print(map[string]any{"version": version, "dirty": dirty}, func(o *Output) error {
					return o.Line("version: %d (dirty: %t)", version, dirty)
				})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "force <version>",
		Short: "Set the schema version without running migrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			version, err := parseVersion(args[0])
			if err != nil {
				return err
			}
			return e.withMigrator(func(m *migrate.Migrate) error {
				if err := m.Force(version); err != nil {
					return fmt.Errorf("force version %d: %w", version, err)
				}
				return e.out().Line("forced version to %d", version)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "goto <version>",
		Short: "Migrate up or down to a target version",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			target, err := parseTarget(args[0])
			if err != nil {
				return err
			}
			return e.withMigrator(func(m *migrate.Migrate) error {
				if err := ignoreNoChange(m.Migrate(target)); err != nil {
					return err
				}
				return e.out().Line("migrated to version %d", target)
			})
		},
	})

	return cmd
}

func (e *env) withMigrator(fn func(*migrate.Migrate) error) error {
	dbURL := strings.TrimSpace(e.cfg.DBURL)
	if dbURL == "" {
		return fmt.Errorf("%w: DB_URL is required", usecase.ErrInvalidInput)
	}
	dbURL = app.NormalizeDBURL(dbURL, e.cfg.DBDisablePreparedBinary)

	m, err := newMigrator(os.Getenv(migrationsDirEnv), dbURL)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil && e.logger != nil {
			e.logger.Warn("close migration source", "error", srcErr)
		}
		if dbErr != nil && e.logger != nil {
			e.logger.Warn("close migration db", "error", dbErr)
		}
	}()

	return fn(m)
}

func newMigrator(dir, dbURL string) (*migrate.Migrate, error) {
	dir = strings.TrimSpace(dir)
	if dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		return migrate.New("file://"+filepath.ToSlash(abs), dbURL)
	}

	source, err := iofs.New(db.Migrations, db.MigrationsDir)
	if err != nil {
		return nil, err
	}
	return migrate.NewWithSourceInstance("iofs", source, dbURL)
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}

	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid down steps %q", usecase.ErrInvalidInput, args[0])
	}
	if steps <= 0 {
		return 0, fmt.Errorf("%w: down steps must be > 0", usecase.ErrInvalidInput)
	}

	return steps, nil
}

func parseVersion(raw string) (int, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid version %q", usecase.ErrInvalidInput, raw)
	}
	if value < 0 {
		return 0, fmt.Errorf("%w: version must be >= 0", usecase.ErrInvalidInput)
	}
	if value > int64(^uint(0)>>1) {
		return 0, fmt.Errorf("%w: version is too large for this platform", usecase.ErrInvalidInput)
	}

	return int(value), nil
}

func parseTarget(raw string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid target version %q", usecase.ErrInvalidInput, raw)
	}
	return uint(value), nil
}
