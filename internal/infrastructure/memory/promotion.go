package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sangkips/tablepos-api/internal/domain/entity"
)

// PromotionRepository keeps promotion rules in a map keyed by code.
type PromotionRepository struct {
	mu    sync.RWMutex
	rules map[string]entity.PromotionRule
	now   func() time.Time
}

// NewPromotionRepository creates an empty rule store.
func NewPromotionRepository() *PromotionRepository {
	return &PromotionRepository{rules: make(map[string]entity.PromotionRule), now: time.Now}
}

func (r *PromotionRepository) GetByCode(_ context.Context, code string) (*entity.PromotionRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[code]
	if !ok {
		return nil, nil
	}
	return &rule, nil
}

func (r *PromotionRepository) List(_ context.Context) ([]entity.PromotionRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(entity.PromotionRule) bool { return true }), nil
}

func (r *PromotionRepository) ListActive(_ context.Context, at time.Time) ([]entity.PromotionRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(rule entity.PromotionRule) bool { return rule.IsLive(at) }), nil
}

func (r *PromotionRepository) Save(_ context.Context, rule *entity.PromotionRule) (*entity.PromotionRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *rule
	now := r.now()
	if prev, ok := r.rules[rule.Code]; ok {
		stored.CreatedAt = prev.CreatedAt
	} else if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	r.rules[rule.Code] = stored
	return &stored, nil
}

func (r *PromotionRepository) Delete(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rules, code)
	return nil
}

func (r *PromotionRepository) sorted(keep func(entity.PromotionRule) bool) []entity.PromotionRule {
	out := make([]entity.PromotionRule, 0, len(r.rules))
	for _, rule := range r.rules {
		if keep(rule) {
			out = append(out, rule)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
