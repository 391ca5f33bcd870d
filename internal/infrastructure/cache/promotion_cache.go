package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/promotion"
	domainRepo "github.com/sangkips/tablepos-api/internal/domain/repository"
	"go.uber.org/zap"
)

// cachedRule is the cache form of a rule. Rules are stored through their
// wire definition so the tagged reward survives JSON.
type cachedRule struct {
	Definition promotion.Definition `json:"definition"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// PromotionRepository caches the active rule set in front of another PromotionRepository.
// Writes go to the inner store and drop the cached set.
type PromotionRepository struct {
	domainRepo.PromotionRepository
	rdb redis.Cmdable
	ttl time.Duration
	log *zap.Logger
}

// NewPromotionRepository wraps inner with a read-through cache. A zero ttl uses TTLPromotions.
func NewPromotionRepository(inner domainRepo.PromotionRepository, rdb redis.Cmdable, ttl time.Duration, log *zap.Logger) *PromotionRepository {
	if ttl <= 0 {
		ttl = TTLPromotions
	}
	return &PromotionRepository{PromotionRepository: inner, rdb: rdb, ttl: ttl, log: log}
}

// ListActive serves the cached active set, filtered to the rules live at the given time.
// Cache failures fall back to the inner store.
func (r *PromotionRepository) ListActive(ctx context.Context, at time.Time) ([]entity.PromotionRule, error) {
	rules, err := r.activeSet(ctx)
	if err != nil {
		return nil, err
	}
	live := make([]entity.PromotionRule, 0, len(rules))
	for _, rule := range rules {
		if rule.IsLive(at) {
			live = append(live, rule)
		}
	}
	return live, nil
}

func (r *PromotionRepository) Save(ctx context.Context, rule *entity.PromotionRule) (*entity.PromotionRule, error) {
	stored, err := r.PromotionRepository.Save(ctx, rule)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return stored, nil
}

func (r *PromotionRepository) Delete(ctx context.Context, code string) error {
	if err := r.PromotionRepository.Delete(ctx, code); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *PromotionRepository) activeSet(ctx context.Context) ([]entity.PromotionRule, error) {
	raw, err := r.rdb.Get(ctx, KeyActivePromotions).Bytes()
	switch {
	case err == nil:
		rules, decodeErr := decodeRules(raw)
		if decodeErr == nil {
			return rules, nil
		}
		r.log.Warn("dropping unreadable promotion cache", zap.Error(decodeErr))
	case !errors.Is(err, redis.Nil):
		r.log.Warn("promotion cache read failed", zap.Error(err))
	}

	all, err := r.PromotionRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]entity.PromotionRule, 0, len(all))
	for _, rule := range all {
		if rule.Active {
			active = append(active, rule)
		}
	}

	if raw, err := encodeRules(active); err == nil {
		if err := r.rdb.Set(ctx, KeyActivePromotions, raw, r.ttl).Err(); err != nil {
			r.log.Warn("promotion cache write failed", zap.Error(err))
		}
	}
	return active, nil
}

func (r *PromotionRepository) invalidate(ctx context.Context) {
	if err := r.rdb.Del(ctx, KeyActivePromotions).Err(); err != nil {
		r.log.Warn("promotion cache invalidation failed", zap.Error(err))
	}
}

func encodeRules(rules []entity.PromotionRule) ([]byte, error) {
	cached := make([]cachedRule, len(rules))
	for i := range rules {
		cached[i] = cachedRule{
			Definition: promotion.FromRule(&rules[i]),
			CreatedAt:  rules[i].CreatedAt,
			UpdatedAt:  rules[i].UpdatedAt,
		}
	}
	return json.Marshal(cached)
}

func decodeRules(raw []byte) ([]entity.PromotionRule, error) {
	var cached []cachedRule
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, err
	}
	rules := make([]entity.PromotionRule, 0, len(cached))
	for _, c := range cached {
		rule, err := c.Definition.ToRule()
		if err != nil {
			return nil, fmt.Errorf("cached rule %s: %w", c.Definition.Code, err)
		}
		rule.CreatedAt = c.CreatedAt
		rule.UpdatedAt = c.UpdatedAt
		rules = append(rules, *rule)
	}
	return rules, nil
}
