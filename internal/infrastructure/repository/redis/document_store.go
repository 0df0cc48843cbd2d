package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"

	"github.com/qpfl/league-core/internal/domain/document"
)

const (
	fieldValue   = "value"
	fieldVersion = "version"
)

// DocumentStore keeps each document in a hash holding its value and version.
// Writes WATCH the hash so a concurrent writer aborts the transaction.
type DocumentStore struct {
	client *redis.Client
	prefix string
}

// New connects to the Redis instance at url and verifies it with a PING.
func New(url, prefix string) (*DocumentStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, crerr.Wrap(err, "parse redis url")
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, crerr.Wrap(err, "ping redis")
	}
	return NewWithClient(client, prefix), nil
}

func NewWithClient(client *redis.Client, prefix string) *DocumentStore {
	return &DocumentStore{client: client, prefix: prefix}
}

func (s *DocumentStore) Close() error {
	return s.client.Close()
}

func (s *DocumentStore) Read(ctx context.Context, key string) (document.Document, error) {
	fields, err := s.client.HGetAll(ctx, s.prefix+key).Result()
	if err != nil {
		return document.Document{}, crerr.Wrapf(err, "read document %s", key)
	}
	if len(fields) == 0 {
		return document.Document{}, crerr.Wrapf(document.ErrNotFound, "document %s", key)
	}

	version, err := strconv.ParseInt(fields[fieldVersion], 10, 64)
	if err != nil {
		return document.Document{}, crerr.Wrapf(err, "parse version of %s", key)
	}
	return document.Document{Key: key, Value: []byte(fields[fieldValue]), Version: version}, nil
}

func (s *DocumentStore) WriteIfVersion(ctx context.Context, key string, value []byte, expected int64) (int64, error) {
	if expected < 0 {
		return 0, crerr.Newf("negative expected version %d for %s", expected, key)
	}

	hashKey := s.prefix + key
	next := expected + 1
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, hashKey, fieldVersion).Int64()
		switch {
		case errors.Is(err, redis.Nil):
			current = 0
		case err != nil:
			return err
		}
		if current != expected {
			return document.ErrVersionConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, hashKey, fieldValue, value, fieldVersion, next)
			return nil
		})
		return err
	}, hashKey)

	switch {
	case err == nil:
		return next, nil
	case errors.Is(err, document.ErrVersionConflict), errors.Is(err, redis.TxFailedErr):
		return 0, crerr.Wrapf(document.ErrVersionConflict, "document %s expected version %d", key, expected)
	default:
		return 0, crerr.Wrapf(err, "write document %s", key)
	}
}
