package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/promotion"
	"github.com/sangkips/tablepos-api/internal/domain/repository"
	"github.com/sangkips/tablepos-api/pkg/apperror"
	"go.uber.org/zap"
)

// PromotionService manages promotion rules and evaluates codes against orders
type PromotionService struct {
	promoRepo   repository.PromotionRepository
	catalogRepo repository.CatalogRepository
	log         *zap.Logger
	now         func() time.Time
}

// NewPromotionService creates a new promotion service
func NewPromotionService(
	promoRepo repository.PromotionRepository,
	catalogRepo repository.CatalogRepository,
	log *zap.Logger,
) *PromotionService {
	return &PromotionService{
		promoRepo:   promoRepo,
		catalogRepo: catalogRepo,
		log:         log,
		now:         time.Now,
	}
}

// Save validates a rule definition, drops the fields that do not belong to its type
// and stores it, replacing any rule with the same code
func (s *PromotionService) Save(ctx context.Context, def promotion.Definition) (*entity.PromotionRule, error) {
	rule, err := def.ToRule()
	if err != nil {
		var verr *promotion.ValidationError
		if errors.As(err, &verr) {
			return nil, validationError(verr)
		}
		return nil, err
	}

	stored, err := s.promoRepo.Save(ctx, rule)
	if err != nil {
		return nil, fmt.Errorf("save promotion %s: %w", rule.Code, err)
	}

	s.log.Info("promotion saved",
		zap.String("code", stored.Code),
		zap.String("type", stored.Type().String()),
		zap.Bool("active", stored.Active),
	)
	return stored, nil
}

// List returns every stored rule, live or not
func (s *PromotionService) List(ctx context.Context) ([]entity.PromotionRule, error) {
	return s.promoRepo.List(ctx)
}

// Get returns the rule for a code
func (s *PromotionService) Get(ctx context.Context, code string) (*entity.PromotionRule, error) {
	rule, err := s.promoRepo.GetByCode(ctx, promotion.NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, apperror.NewNotFoundError("Promotion")
	}
	return rule, nil
}

// Delete removes the rule for a code
func (s *PromotionService) Delete(ctx context.Context, code string) error {
	rule, err := s.Get(ctx, code)
	if err != nil {
		return err
	}
	if err := s.promoRepo.Delete(ctx, rule.Code); err != nil {
		return fmt.Errorf("delete promotion %s: %w", rule.Code, err)
	}
	s.log.Info("promotion deleted", zap.String("code", rule.Code))
	return nil
}

// Evaluate scores a code against priced order lines using the rules live right now.
// Unknown codes and unmet thresholds come back as an invalid result, not an error.
func (s *PromotionService) Evaluate(ctx context.Context, items []entity.LineItem, code string) (entity.PromotionResult, error) {
	now := s.now()
	rules, err := s.promoRepo.ListActive(ctx, now)
	if err != nil {
		return entity.PromotionResult{}, fmt.Errorf("load promotions: %w", err)
	}

	catalog, err := catalogFor(ctx, s.catalogRepo, items, rules)
	if err != nil {
		return entity.PromotionResult{}, err
	}

	return promotion.Evaluate(items, code, rules, catalog, now), nil
}

// Apply prices the requested items from the catalog and evaluates code against them
func (s *PromotionService) Apply(ctx context.Context, code string, inputs []ItemInput) (entity.PromotionResult, error) {
	items, err := resolveItems(ctx, s.catalogRepo, inputs)
	if err != nil {
		return entity.PromotionResult{}, err
	}
	return s.Evaluate(ctx, items, code)
}

func validationError(verr *promotion.ValidationError) *apperror.AppError {
	fields := make([]apperror.FieldError, len(verr.Fields))
	for i, f := range verr.Fields {
		fields[i] = apperror.FieldError{Field: f.Field, Message: f.Message}
	}
	return apperror.NewValidationError(fields)
}
