package app

import (
	"context"
	"net/url"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/qpfl/league-core/internal/config"
	"github.com/qpfl/league-core/internal/platform/logging"
)

const maxTracedStatementLen = 512

// NormalizeDBURL adds disable_prepared_binary_result=yes for poolers that
// cannot handle binary results of prepared statements. An explicit value in
// the URL wins.
func NormalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	if query.Has("disable_prepared_binary_result") {
		return raw
	}
	query.Set("disable_prepared_binary_result", "yes")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// databaseName reads the database from a URL (postgres://.../name) or a
// key/value DSN (dbname=name).
func databaseName(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	if parsed, err := url.Parse(dsn); err == nil && parsed.Scheme != "" {
		return strings.Trim(parsed.Path, "/ ")
	}
	for _, field := range strings.Fields(dsn) {
		if key, value, ok := strings.Cut(field, "="); ok && key == "dbname" {
			return strings.Trim(value, `"'`)
		}
	}
	return ""
}

// traceStatement is the span form of a SQL statement: whitespace collapsed,
// length capped.
func traceStatement(query string) string {
	out := strings.Join(strings.Fields(query), " ")
	if len(out) > maxTracedStatementLen {
		out = out[:maxTracedStatementLen] + "..."
	}
	return out
}

func openPostgres(ctx context.Context, cfg config.Config, logger *logging.Logger) (*sqlx.DB, error) {
	dsn := NormalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	name := databaseName(dsn)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBName(name),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithQueryFormatter(traceStatement),
		otelsql.WithAttributes(attribute.String("qpfl.documents_table", cfg.DocumentsTable)),
	)
	if err != nil {
		return nil, crerr.Wrap(err, "open postgres")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, crerr.Wrapf(err, "ping postgres %s", name)
	}

	logger.Info("document store ready", "backend", config.StorePostgres, "db_name", name, "table", cfg.DocumentsTable)
	return db, nil
}
