package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sangkips/tablepos-api/internal/domain/cart"
)

// CartStore keeps each terminal's cart as a JSON snapshot with a sliding TTL.
type CartStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewCartStore creates a Redis cart store. A zero ttl uses TTLCart.
func NewCartStore(rdb redis.Cmdable, ttl time.Duration) *CartStore {
	if ttl <= 0 {
		ttl = TTLCart
	}
	return &CartStore{rdb: rdb, ttl: ttl}
}

func (s *CartStore) Load(ctx context.Context, terminalID string) (*cart.Cart, error) {
	raw, err := s.rdb.Get(ctx, cartKey(terminalID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart %s: %w", terminalID, err)
	}
	return decodeCart(raw)
}

func (s *CartStore) Save(ctx context.Context, terminalID string, c *cart.Cart) error {
	raw, err := encodeCart(c)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, cartKey(terminalID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save cart %s: %w", terminalID, err)
	}
	return nil
}

func (s *CartStore) Delete(ctx context.Context, terminalID string) error {
	if err := s.rdb.Del(ctx, cartKey(terminalID)).Err(); err != nil {
		return fmt.Errorf("delete cart %s: %w", terminalID, err)
	}
	return nil
}

func cartKey(terminalID string) string {
	return fmt.Sprintf(KeyCart, terminalID)
}

func encodeCart(c *cart.Cart) ([]byte, error) {
	raw, err := json.Marshal(c.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("encode cart: %w", err)
	}
	return raw, nil
}

func decodeCart(raw []byte) (*cart.Cart, error) {
	var snap cart.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return cart.Restore(snap), nil
}
