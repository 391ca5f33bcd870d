package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/tablepos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/tablepos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type promotionRepository struct {
	db *gorm.DB
}

// NewPromotionRepository creates a new promotion repository
func NewPromotionRepository(db *gorm.DB) domainRepo.PromotionRepository {
	return &promotionRepository{db: db}
}

func (r *promotionRepository) GetByCode(ctx context.Context, code string) (*entity.PromotionRule, error) {
	var rec entity.PromotionRecord
	err := r.db.WithContext(ctx).First(&rec, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec.Rule(), nil
}

func (r *promotionRepository) List(ctx context.Context) ([]entity.PromotionRule, error) {
	var recs []entity.PromotionRecord
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	return toRules(recs), nil
}

func (r *promotionRepository) ListActive(ctx context.Context, at time.Time) ([]entity.PromotionRule, error) {
	var recs []entity.PromotionRecord
	err := r.db.WithContext(ctx).
		Scopes(LiveAt(at)).
		Order("code ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return toRules(recs), nil
}

func (r *promotionRepository) Save(ctx context.Context, rule *entity.PromotionRule) (*entity.PromotionRule, error) {
	rec := entity.NewPromotionRecord(rule)
	now := time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	err := upsertPromotion(r.db.WithContext(ctx), rec).Error
	if err != nil {
		return nil, err
	}
	return r.GetByCode(ctx, rule.Code)
}

func (r *promotionRepository) Delete(ctx context.Context, code string) error {
	return r.db.WithContext(ctx).Delete(&entity.PromotionRecord{}, "code = ?", code).Error
}

func toRules(recs []entity.PromotionRecord) []entity.PromotionRule {
	rules := make([]entity.PromotionRule, len(recs))
	for i := range recs {
		rules[i] = *recs[i].Rule()
	}
	return rules
}
