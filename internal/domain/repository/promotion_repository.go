package repository

import (
	"context"
	"time"

	"github.com/sangkips/tablepos-api/internal/domain/entity"
)

// PromotionRepository stores promotion rules keyed by their normalized code
type PromotionRepository interface {
	// GetByCode returns the rule for a normalized code, or nil when it does not exist
	GetByCode(ctx context.Context, code string) (*entity.PromotionRule, error)
	List(ctx context.Context) ([]entity.PromotionRule, error)
	// ListActive returns the rules that are live at the given time
	ListActive(ctx context.Context, at time.Time) ([]entity.PromotionRule, error)
	// Save inserts or replaces a rule and returns the stored version
	Save(ctx context.Context, rule *entity.PromotionRule) (*entity.PromotionRule, error)
	Delete(ctx context.Context, code string) error
}
