package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix    = "quest:"
	redisFieldData    = "data"
	redisFieldVersion = "version"
)

// RedisStore keeps each document in a hash {data, version}. Commits WATCH
// every key of the read set and apply writes in MULTI/EXEC, so a concurrent
// write between the version check and EXEC aborts the commit.
type RedisStore struct {
	client *redis.Client
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// OpenRedis creates a Redis client and pings it to validate the connection.
func OpenRedis(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("empty redis addr")
	}
	c := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return &RedisStore{client: c}, nil
}

// NewRedisStore wraps an existing client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(key Key) string {
	return redisKeyPrefix + key.String()
}

// Get loads one document
func (s *RedisStore) Get(ctx context.Context, key Key) (Document, error) {
	fields, err := s.client.HGetAll(ctx, redisKey(key)).Result()
	if err != nil {
		return Document{}, fmt.Errorf("%w: get %s: %v", ErrQuery, key, err)
	}
	return decodeRedisDocument(key, fields)
}

func decodeRedisDocument(key Key, fields map[string]string) (Document, error) {
	if len(fields) == 0 {
		return Document{Key: key}, nil
	}
	version, err := strconv.ParseInt(fields[redisFieldVersion], 10, 64)
	if err != nil {
		return Document{}, fmt.Errorf("%w: bad version on %s: %v", ErrQuery, key, err)
	}
	return Document{Key: key, Data: []byte(fields[redisFieldData]), Version: version}, nil
}

// Commit checks versions under WATCH and applies writes atomically
func (s *RedisStore) Commit(ctx context.Context, reads []Document, writes []Write) error {
	expected, err := expectedVersions(reads, writes)
	if err != nil {
		return err
	}

	watched := make([]string, 0, len(expected))
	for key := range expected {
		watched = append(watched, redisKey(key))
	}

	txf := func(tx *redis.Tx) error {
		for key, version := range expected {
			current, err := tx.HGet(ctx, redisKey(key), redisFieldVersion).Int64()
			if errors.Is(err, redis.Nil) {
				current = 0
			} else if err != nil {
				return fmt.Errorf("%w: read version %s: %v", ErrQuery, key, err)
			}
			if current != version {
				return ErrConflict
			}
		}

		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, w := range writes {
				pipe.HSet(ctx, redisKey(w.Key),
					redisFieldData, w.Data,
					redisFieldVersion, expected[w.Key]+1,
				)
			}
			return nil
		})
		return err
	}

	err = s.client.Watch(ctx, txf, watched...)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrConflict):
		return err
	case errors.Is(err, redis.TxFailedErr):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		return fmt.Errorf("%w: commit: %v", ErrQuery, err)
	}
}

// Close closes the underlying client
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
