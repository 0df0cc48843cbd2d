package document

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrVersionConflict = errors.New("document version conflict")
)

// Document is a stored value and the version it was read at.
// Version 0 means the key does not exist yet.
type Document struct {
	Key     string
	Value   []byte
	Version int64
}

// Store is a key-value store with conditional writes. WriteIfVersion succeeds
// only when the stored version equals expected, where expected 0 means create.
// On mismatch it returns ErrVersionConflict and leaves the stored value alone.
type Store interface {
	Read(ctx context.Context, key string) (Document, error)
	WriteIfVersion(ctx context.Context, key string, value []byte, expected int64) (int64, error)
}

func LedgerKey(season int) string {
	return fmt.Sprintf("league/%d", season)
}

func LineupsKey(season, week int) string {
	return fmt.Sprintf("lineups/%d/week_%d", season, week)
}

func ScoresKey(season, week int) string {
	return fmt.Sprintf("scores/%d/week_%d", season, week)
}
