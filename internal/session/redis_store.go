package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions as JSON strings with a TTL matching the
// session's expiry.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "museum:session"
	}
	return &RedisStore{rdb: rdb, prefix: prefix, now: time.Now}
}

func (s *RedisStore) key(sid string) string { return s.prefix + ":" + sid }

func (s *RedisStore) Create(ctx context.Context, d Data) (string, error) {
	ttl := d.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return "", errors.New("session already expired")
	}
	payload, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	sid := uuid.NewString()
	if err := s.rdb.Set(ctx, s.key(sid), payload, ttl).Err(); err != nil {
		return "", err
	}
	return sid, nil
}

func (s *RedisStore) Get(ctx context.Context, sid string) (Data, error) {
	raw, err := s.rdb.Get(ctx, s.key(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Data{}, ErrNotFound
	}
	if err != nil {
		return Data{}, err
	}
	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return Data{}, err
	}
	if !d.ExpiresAt.After(s.now()) {
		return Data{}, ErrNotFound
	}
	return d, nil
}

func (s *RedisStore) Delete(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, s.key(sid)).Err()
}
