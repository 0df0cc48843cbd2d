package statsfeed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	crerr "github.com/cockroachdb/errors"
)

// Fetcher returns the raw snapshot JSON for a week plus a label for logs.
type Fetcher interface {
	Fetch(ctx context.Context, season, week int) ([]byte, string, error)
}

// DirFetcher reads snapshots laid out as {dir}/{season}/week_{n}.json.
type DirFetcher struct {
	dir string
}

func NewDirFetcher(dir string) DirFetcher {
	return DirFetcher{dir: dir}
}

func SnapshotPath(dir string, season, week int) string {
	return filepath.Join(dir, fmt.Sprint(season), fmt.Sprintf("week_%d.json", week))
}

func (f DirFetcher) Fetch(_ context.Context, season, week int) ([]byte, string, error) {
	path := SnapshotPath(f.dir, season, week)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, crerr.Wrapf(err, "read stats snapshot %s", path)
	}
	return data, path, nil
}
