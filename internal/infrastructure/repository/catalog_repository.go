package repository

import (
	"context"
	"errors"

	"github.com/sangkips/tablepos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/tablepos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) domainRepo.CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Scopes(ActiveProducts).
		Preload("Variants").
		First(&product, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *catalogRepository) GetByCodes(ctx context.Context, codes []string) ([]entity.Product, error) {
	var products []entity.Product
	if len(codes) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("code IN ?", codes).
		Find(&products).Error
	return products, err
}
