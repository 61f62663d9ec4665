// Package redisstore persists carts as Redis hashes, one per user.
package redisstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aryanwebd35/food-factory/models"
	"github.com/aryanwebd35/food-factory/repositories"
	"github.com/redis/go-redis/v9"
)

// decrementScript lowers a quantity by one but never below zero.
var decrementScript = redis.NewScript(`
local current = tonumber(redis.call('HGET', KEYS[1], ARGV[1]) or '0')
if current > 0 then
	return redis.call('HINCRBY', KEYS[1], ARGV[1], -1)
end
return 0
`)

type CartStore struct {
	client *redis.Client
	prefix string
}

func NewCartStore(client *redis.Client, prefix string) *CartStore {
	if prefix == "" {
		prefix = "cart"
	}
	return &CartStore{client: client, prefix: prefix}
}

func (s *CartStore) key(userID string) string {
	return fmt.Sprintf("%s:%s", s.prefix, userID)
}

func (s *CartStore) GetCart(ctx context.Context, userID string) (models.CartData, error) {
	values, err := s.client.HGetAll(ctx, s.key(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	cart := make(models.CartData, len(values))
	for itemID, raw := range values {
		qty, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity for item %s: %w", itemID, err)
		}
		cart[itemID] = qty
	}
	return cart, nil
}

func (s *CartStore) Increment(ctx context.Context, userID, itemID string) error {
	if err := s.client.HIncrBy(ctx, s.key(userID), itemID, 1).Err(); err != nil {
		return fmt.Errorf("increment cart item: %w", err)
	}
	return nil
}

func (s *CartStore) Decrement(ctx context.Context, userID, itemID string) error {
	if err := decrementScript.Run(ctx, s.client, []string{s.key(userID)}, itemID).Err(); err != nil {
		return fmt.Errorf("decrement cart item: %w", err)
	}
	return nil
}

func (s *CartStore) Replace(ctx context.Context, userID string, cart models.CartData) error {
	key := s.key(userID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(cart) > 0 {
			fields := make(map[string]interface{}, len(cart))
			for itemID, qty := range cart {
				fields[itemID] = qty
			}
			pipe.HSet(ctx, key, fields)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace cart: %w", err)
	}
	return nil
}

var _ repositories.CartRepository = (*CartStore)(nil)
