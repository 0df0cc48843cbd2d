package postgres

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/qpfl/league-core/internal/domain/document"
	qb "github.com/qpfl/league-core/internal/platform/querybuilder"
)

const DefaultDocumentsTable = "documents"

type documentTableModel struct {
	Key       string    `db:"key"`
	Value     []byte    `db:"value"`
	Version   int64     `db:"version"`
	UpdatedAt time.Time `db:"updated_at,readonly"`
}

// DocumentStore persists versioned documents in a single key/value table.
// Conditional writes rely on the version column, so concurrent writers never
// need a row lock.
type DocumentStore struct {
	db    *sqlx.DB
	table string
}

func NewDocumentStore(db *sqlx.DB, table string) *DocumentStore {
	if table == "" {
		table = DefaultDocumentsTable
	}
	return &DocumentStore{db: db, table: table}
}

func (s *DocumentStore) Read(ctx context.Context, key string) (document.Document, error) {
	query, args, err := readDocumentQuery(s.table, key)
	if err != nil {
		return document.Document{}, crerr.Wrap(err, "build read document query")
	}

	var row documentTableModel
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return document.Document{}, crerr.Wrapf(document.ErrNotFound, "document %s", key)
		}
		return document.Document{}, crerr.Wrapf(err, "read document %s", key)
	}

	return document.Document{Key: row.Key, Value: row.Value, Version: row.Version}, nil
}

func (s *DocumentStore) WriteIfVersion(ctx context.Context, key string, value []byte, expected int64) (int64, error) {
	if expected < 0 {
		return 0, crerr.Newf("negative expected version %d for %s", expected, key)
	}
	if len(value) == 0 {
		return 0, crerr.Newf("empty value for %s", key)
	}

	var (
		query string
		args  []any
		err   error
	)
	if expected == 0 {
		query, args, err = createDocumentQuery(s.table, key, value)
	} else {
		query, args, err = updateDocumentQuery(s.table, key, value, expected)
	}
	if err != nil {
		return 0, crerr.Wrap(err, "build write document query")
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, crerr.Wrapf(err, "write document %s", key)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, crerr.Wrapf(err, "rows affected for %s", key)
	}
	if affected == 0 {
		return 0, crerr.Wrapf(document.ErrVersionConflict, "document %s expected version %d", key, expected)
	}
	return expected + 1, nil
}

func readDocumentQuery(table, key string) (string, []any, error) {
	cols, err := qb.Columns(documentTableModel{})
	if err != nil {
		return "", nil, err
	}
	return qb.Select(append(cols, "updated_at")...).
		From(table).
		Where(qb.Eq("key", key)).
		ToSQL()
}

// createDocumentQuery inserts version 1 and does nothing when the key exists,
// which the caller reads as zero rows affected.
func createDocumentQuery(table, key string, value []byte) (string, []any, error) {
	return qb.InsertModel(table, documentTableModel{Key: key, Value: value, Version: 1}, "ON CONFLICT (key) DO NOTHING")
}

func updateDocumentQuery(table, key string, value []byte, expected int64) (string, []any, error) {
	return qb.Update(table).
		Set("value", value).
		SetExpr("version", "version + 1").
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("key", key),
			qb.Eq("version", expected),
		).
		ToSQL()
}
