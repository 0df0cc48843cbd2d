package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/qpfl/league-core/internal/domain/document"
	"github.com/qpfl/league-core/internal/platform/logging"
	"github.com/qpfl/league-core/internal/platform/resilience"
)

// committer applies read-modify-write mutations to one document under
// optimistic concurrency.
type committer struct {
	store  document.Store
	retry  resilience.RetryPolicy
	logger *logging.Logger
}

func newCommitter(store document.Store, retry resilience.RetryPolicy, logger *logging.Logger) committer {
	return committer{
		store:  store,
		retry:  resilience.NormalizeRetryPolicy(retry),
		logger: logging.OrDefault(logger),
	}
}

// commitDocument re-reads key on every attempt, hands the decoded state to apply,
// and writes the whole result conditioned on the version it read. Only version
// conflicts are retried; any error from apply aborts without writing.
func commitDocument[S any, R any](
	ctx context.Context,
	c committer,
	key string,
	empty func() S,
	apply func(state *S, exists bool) (R, error),
) (R, error) {
	result, err := resilience.Retry(ctx, c.retry, func(attempt int) (R, error) {
		var zero R

		state, version, exists, err := loadDocument(ctx, c.store, key, empty)
		if err != nil {
			return zero, resilience.Permanent(err)
		}

		out, err := apply(&state, exists)
		if err != nil {
			return zero, resilience.Permanent(err)
		}

		payload, err := document.Encode(state)
		if err != nil {
			return zero, resilience.Permanent(fmt.Errorf("encode %s: %w", key, err))
		}

		if _, err := c.store.WriteIfVersion(ctx, key, payload, version); err != nil {
			if errors.Is(err, document.ErrVersionConflict) {
				return zero, err
			}
			return zero, resilience.Permanent(fmt.Errorf("%w: write %s: %v", ErrDependencyUnavailable, key, err))
		}
		if attempt > 1 {
			c.logger.InfoContext(ctx, "commit succeeded after retry", "key", key, "attempt", attempt)
		}
		return out, nil
	}, func(err error, attempt int, wait time.Duration) {
		c.logger.WarnContext(ctx, "commit conflict, retrying", "key", key, "attempt", attempt, "wait", wait, "error", err)
	})
	if err == nil {
		return result, nil
	}

	if errors.Is(err, document.ErrVersionConflict) {
		c.logger.ErrorContext(ctx, "commit retries exhausted", "key", key, "attempts", c.retry.MaxAttempts)
		return result, fmt.Errorf("%w: %s changed concurrently %d times, giving up", ErrConflict, key, c.retry.MaxAttempts)
	}
	return result, err
}

// loadDocument reads and decodes key. A missing key yields empty() and exists=false.
func loadDocument[S any](ctx context.Context, store document.Store, key string, empty func() S) (S, int64, bool, error) {
	state := empty()

	doc, err := store.Read(ctx, key)
	if errors.Is(err, document.ErrNotFound) {
		return state, 0, false, nil
	}
	if err != nil {
		return state, 0, false, fmt.Errorf("%w: read %s: %v", ErrDependencyUnavailable, key, err)
	}

	if err := document.Decode(doc.Value, &state); err != nil {
		return state, 0, false, fmt.Errorf("%w: decode %s: %v", ErrIntegrity, key, err)
	}
	return state, doc.Version, true, nil
}
