package memory

import (
	"context"
	"sync"
	"time"

	"github.com/sangkips/tablepos-api/internal/domain/entity"
)

// IdempotencyRepository keeps processed request keys per terminal.
type IdempotencyRepository struct {
	mu   sync.Mutex
	keys map[string]entity.IdempotencyKey
}

// NewIdempotencyRepository creates an empty idempotency store.
func NewIdempotencyRepository() *IdempotencyRepository {
	return &IdempotencyRepository{keys: make(map[string]entity.IdempotencyKey)}
}

func (r *IdempotencyRepository) GetByKey(_ context.Context, key, terminalID string) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ikey, ok := r.keys[terminalID+"\x00"+key]
	if !ok {
		return nil, nil
	}
	return &ikey, nil
}

func (r *IdempotencyRepository) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[ikey.TerminalID+"\x00"+ikey.Key] = *ikey
	return nil
}

func (r *IdempotencyRepository) DeleteExpired(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for k, v := range r.keys {
		if now.After(v.ExpiresAt) {
			delete(r.keys, k)
		}
	}
	return nil
}
