package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/voltcrew/voltcrewdesigns/pkg/config"
)

type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(config *config.Config) *RedisStore {
	return &RedisStore{
		Client: redis.NewClient(&redis.Options{
			Addr: config.RedisAddr,
			DB:   config.RedisDB,
		}),
	}
}

func (s *RedisStore) GetCart(session string) ([]CartEntry, error) {
	res, err := s.Client.Get(context.Background(), cartKey(session)).Result()
	if errors.Is(err, redis.Nil) {
		return []CartEntry{}, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []CartEntry
	if err := json.Unmarshal([]byte(res), &entries); err != nil {
		return nil, fmt.Errorf("invalid cart format in the storage: %w", err)
	}
	if entries == nil {
		entries = []CartEntry{}
	}

	return entries, nil
}

func (s *RedisStore) SetCart(session string, entries []CartEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("could not marshal cart: %w", err)
	}

	return s.Client.Set(context.Background(), cartKey(session), data, 0).Err()
}

func (s *RedisStore) ClearCart(session string) error {
	return s.Client.Del(context.Background(), cartKey(session)).Err()
}
