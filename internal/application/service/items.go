package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sangkips/tablepos-api/internal/domain/cart"
	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/promotion"
	"github.com/sangkips/tablepos-api/internal/domain/repository"
	"github.com/sangkips/tablepos-api/pkg/apperror"
)

// ItemInput identifies a catalog product and variant to put on an order
type ItemInput struct {
	ProductCode string
	VariantID   string
	Quantity    int
}

// lineItem prices a catalog product at its current price.
// An empty variant id selects the base product.
func lineItem(product *entity.Product, variantID string) (entity.LineItem, error) {
	item := entity.LineItem{
		ProductCode: product.Code,
		ProductName: product.Name,
		UnitPrice:   product.Price,
	}

	variantID = strings.TrimSpace(variantID)
	if variantID == "" || variantID == entity.BaseVariant {
		return item, nil
	}

	variant, ok := product.Variant(variantID)
	if !ok {
		return entity.LineItem{}, apperror.NewNotFoundError(fmt.Sprintf("Variant %s of product %s", variantID, product.Code))
	}
	item.VariantID = variant.ID
	item.VariantName = variant.Name
	item.UnitPrice = variant.Price
	return item, nil
}

// resolveItems prices the inputs from the catalog and merges lines sharing a product and variant.
func resolveItems(ctx context.Context, catalogRepo repository.CatalogRepository, inputs []ItemInput) ([]entity.LineItem, error) {
	codes := make([]string, 0, len(inputs))
	for _, in := range inputs {
		codes = append(codes, strings.TrimSpace(in.ProductCode))
	}

	products, err := catalogRepo.GetByCodes(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	byCode := make(map[string]*entity.Product, len(products))
	for i := range products {
		if products[i].Active {
			byCode[products[i].Code] = &products[i]
		}
	}

	c := cart.New()
	for _, in := range inputs {
		code := strings.TrimSpace(in.ProductCode)
		product, ok := byCode[code]
		if !ok {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", code))
		}
		item, err := lineItem(product, in.VariantID)
		if err != nil {
			return nil, err
		}
		c.Add(item, in.Quantity)
	}
	return c.Items(), nil
}

// catalogFor loads the catalog entries the evaluator may consult: the cart's products
// and every product a rule scopes to or rewards.
func catalogFor(ctx context.Context, catalogRepo repository.CatalogRepository, items []entity.LineItem, rules []entity.PromotionRule) (promotion.CatalogSnapshot, error) {
	seen := make(map[string]bool)
	var codes []string
	add := func(code string) {
		if code != "" && !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	for _, it := range items {
		add(it.ProductCode)
	}
	for _, r := range rules {
		add(r.Trigger.ProductCode)
		if reward, ok := r.Reward.(entity.ItemFreeReward); ok {
			add(reward.RewardProductCode)
		}
	}

	products, err := catalogRepo.GetByCodes(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return promotion.NewCatalogSnapshot(products), nil
}

// keyedMutex serializes work per key. A key's entry lives only while someone holds
// or waits for it.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

// Lock locks key and returns its unlock function.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &refMutex{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
