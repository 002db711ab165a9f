package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis-backed Store for deployments that already run Redis
// alongside the application. Each record is written under a token key plus a
// user index key so GetByUser stays a point lookup.
//
// Redis key TTLs are set to twice the session lifetime as a backstop only:
// the manager's expiry predicate remains authoritative, so a record is still
// observable (and reported as expired, not absent) at exactly its lifetime.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedisStore creates a Store over the given client. prefix namespaces
// every key.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ca"
	}
	return &RedisStore{
		redis:  client,
		prefix: prefix,
	}
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + ":s:" + sessionID
}

func (s *RedisStore) userKey(userID string) string {
	return s.prefix + ":u:" + userID
}

func (s *RedisStore) backstopTTL(sess *Session) time.Duration {
	ttl := 2 * sess.TTL
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return ttl
}

// Put writes the record and its user index entry in one MULTI/EXEC. A put
// for a user who already holds a session also deletes the superseded token
// key in the same transaction, so the replaced session stops resolving by
// id the moment the new one lands. The user index key is watched; a rival
// put racing on the same user aborts the transaction and Put retries.
func (s *RedisStore) Put(ctx context.Context, sess *Session) error {
	data, err := Encode(sess)
	if err != nil {
		return err
	}

	backstop := s.backstopTTL(sess)
	userKey := s.userKey(sess.UserID)

	put := func(tx *redis.Tx) error {
		prev, err := tx.Get(ctx, userKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if prev != "" && prev != sess.ID {
				pipe.Del(ctx, s.key(prev))
			}
			pipe.Set(ctx, s.key(sess.ID), data, backstop)
			pipe.Set(ctx, userKey, sess.ID, backstop)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < 3; attempt++ {
		err = s.redis.Watch(ctx, put, userKey)
		if err == nil {
			return nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}

// GetByID fetches and decodes a record without filtering on expiry.
func (s *RedisStore) GetByID(ctx context.Context, sessionID string) (*Session, error) {
	data, err := s.redis.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	sess, err := Decode(data)
	if err != nil {
		return nil, err
	}
	sess.ID = sessionID

	return sess, nil
}

// GetByUser resolves the user index entry and fetches the record it points
// at. A dangling index entry (record already gone) reads as ErrNotFound.
func (s *RedisStore) GetByUser(ctx context.Context, userID string) (*Session, error) {
	sessionID, err := s.redis.Get(ctx, s.userKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return s.GetByID(ctx, sessionID)
}

// Delete removes the record and, when it still owns the user index entry,
// the index entry too. The index check-then-delete is not atomic; a rival
// login that replaced the index entry in between keeps its own entry. The
// stray case is bounded by the key backstop TTL.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	sess, err := s.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	if err := s.redis.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	owner, err := s.redis.Get(ctx, s.userKey(sess.UserID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if owner == sessionID {
		if err := s.redis.Del(ctx, s.userKey(sess.UserID)).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
	}

	return nil
}

// DeleteExpired scans the session keyspace and removes every record expired
// at now. The scan is O(n) over live sessions; it runs on the sweeper's
// cadence, never on the request path.
func (s *RedisStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	pattern := s.prefix + ":s:*"
	keyPrefixLen := len(s.prefix) + len(":s:")

	var (
		cursor  uint64
		deleted int64
	)

	for {
		keys, next, err := s.redis.Scan(ctx, cursor, pattern, 500).Result()
		if err != nil {
			return deleted, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}

		for _, key := range keys {
			sessionID := key[keyPrefixLen:]
			sess, err := s.GetByID(ctx, sessionID)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return deleted, err
			}
			if !sess.Expired(now) {
				continue
			}
			if err := s.Delete(ctx, sessionID); err != nil {
				return deleted, err
			}
			deleted++
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return deleted, nil
}

// Ping verifies Redis availability.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// Close is a no-op; the caller owns the Redis client lifecycle.
func (s *RedisStore) Close() error {
	return nil
}
