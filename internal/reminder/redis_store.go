package reminder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the encoded list under a single Redis key with no expiry.
type RedisStore struct {
	rdb *redis.Client
	key string
}

// NewRedisStore connects to addr and checks the connection.
func NewRedisStore(addr, password string, db int, key string) (*RedisStore, error) {
	if key == "" {
		key = DefaultKey
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{rdb: rdb, key: key}, nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisStore) Load(ctx context.Context) []Reminder {
	b, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []Reminder{}
	}
	if err != nil {
		log.Printf("[reminder] Failed to read %q from redis, starting empty: %v", s.key, err)
		return []Reminder{}
	}

	reminders, err := Decode(b)
	if err != nil {
		log.Printf("[reminder] Failed to parse stored reminders, starting empty: %v", err)
		return []Reminder{}
	}
	return reminders
}

func (s *RedisStore) Save(ctx context.Context, reminders []Reminder) error {
	data, err := Encode(reminders)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save reminders: %w", err)
	}
	return nil
}
