package memory

import (
	"context"
	"sync"

	"github.com/sangkips/tablepos-api/internal/domain/cart"
)

// CartStore keeps cart snapshots per terminal.
type CartStore struct {
	mu    sync.Mutex
	carts map[string]cart.Snapshot
}

// NewCartStore creates an empty cart store.
func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string]cart.Snapshot)}
}

func (s *CartStore) Load(_ context.Context, terminalID string) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.carts[terminalID]
	if !ok {
		return cart.New(), nil
	}
	return cart.Restore(snap), nil
}

func (s *CartStore) Save(_ context.Context, terminalID string, c *cart.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[terminalID] = c.Snapshot()
	return nil
}

func (s *CartStore) Delete(_ context.Context, terminalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, terminalID)
	return nil
}
