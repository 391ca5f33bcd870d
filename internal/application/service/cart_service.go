package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sangkips/tablepos-api/internal/domain/cart"
	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/invoice"
	"github.com/sangkips/tablepos-api/internal/domain/kitchen"
	"github.com/sangkips/tablepos-api/internal/domain/repository"
	"github.com/sangkips/tablepos-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartService runs the open cart of each terminal.
// Calls for the same terminal are serialized.
type CartService struct {
	store       repository.CartStore
	catalogRepo repository.CatalogRepository
	promotions  *PromotionService
	sales       *SaleService
	locks       *keyedMutex
	log         *zap.Logger
	now         func() time.Time
}

// NewCartService creates a new cart service
func NewCartService(
	store repository.CartStore,
	catalogRepo repository.CatalogRepository,
	promotions *PromotionService,
	sales *SaleService,
	log *zap.Logger,
) *CartService {
	return &CartService{
		store:       store,
		catalogRepo: catalogRepo,
		promotions:  promotions,
		sales:       sales,
		locks:       newKeyedMutex(),
		log:         log,
		now:         time.Now,
	}
}

// CartView is the cart with its applied promotion and a totals preview
type CartView struct {
	Items      []entity.LineItem       `json:"items"`
	Revision   uint64                  `json:"revision"`
	Promotion  *entity.PromotionResult `json:"promotion,omitempty"`
	FreeItems  []entity.FreeItem       `json:"free_items"`
	SubTotal   decimal.Decimal         `json:"sub_total"`
	Discount   decimal.Decimal         `json:"discount"`
	Tax        decimal.Decimal         `json:"tax"`
	RoundOff   decimal.Decimal         `json:"round_off"`
	GrandTotal decimal.Decimal         `json:"grand_total"`
}

// AddItemInput represents an add-to-cart request
type AddItemInput struct {
	ProductCode string
	VariantID   string
	Quantity    int
}

// CheckoutInput represents a checkout request
type CheckoutInput struct {
	PaymentMode   string
	InvoicePrefix string
}

// Get returns the terminal's cart
func (s *CartService) Get(ctx context.Context, terminalID string) (*CartView, error) {
	c, err := s.store.Load(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	return s.view(c), nil
}

// AddItem prices a catalog product at its current price and merges it into the cart
func (s *CartService) AddItem(ctx context.Context, terminalID string, input *AddItemInput) (*CartView, error) {
	code := strings.TrimSpace(input.ProductCode)
	product, err := s.catalogRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("load product %s: %w", code, err)
	}
	if product == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", code))
	}
	item, err := lineItem(product, input.VariantID)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, terminalID, func(c *cart.Cart) {
		c.Add(item, input.Quantity)
	})
}

// Increment adds one unit to a cart line
func (s *CartService) Increment(ctx context.Context, terminalID, key string) (*CartView, error) {
	return s.mutate(ctx, terminalID, func(c *cart.Cart) { c.Increment(key) })
}

// Decrement removes one unit from a cart line, keeping at least one
func (s *CartService) Decrement(ctx context.Context, terminalID, key string) (*CartView, error) {
	return s.mutate(ctx, terminalID, func(c *cart.Cart) { c.Decrement(key) })
}

// Remove deletes a cart line
func (s *CartService) Remove(ctx context.Context, terminalID, key string) (*CartView, error) {
	return s.mutate(ctx, terminalID, func(c *cart.Cart) { c.Remove(key) })
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context, terminalID string) (*CartView, error) {
	return s.mutate(ctx, terminalID, func(c *cart.Cart) { c.Clear() })
}

// ApplyPromotion evaluates code against the cart. A valid result is bound to the
// current cart revision; any earlier promotion is dropped either way.
func (s *CartService) ApplyPromotion(ctx context.Context, terminalID, code string) (*entity.PromotionResult, *CartView, error) {
	unlock := s.locks.Lock(terminalID)
	defer unlock()

	c, err := s.store.Load(ctx, terminalID)
	if err != nil {
		return nil, nil, err
	}

	result, err := s.promotions.Evaluate(ctx, c.Items(), code)
	if err != nil {
		return nil, nil, err
	}

	c.ClearPromotion()
	if result.Valid {
		c.ApplyPromotion(result)
	}
	if err := s.store.Save(ctx, terminalID, c); err != nil {
		return nil, nil, err
	}
	return &result, s.view(c), nil
}

// ClearPromotion drops the applied promotion
func (s *CartService) ClearPromotion(ctx context.Context, terminalID string) (*CartView, error) {
	unlock := s.locks.Lock(terminalID)
	defer unlock()

	c, err := s.store.Load(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	c.ClearPromotion()
	if err := s.store.Save(ctx, terminalID, c); err != nil {
		return nil, err
	}
	return s.view(c), nil
}

// KitchenPreview projects the live cart into a kitchen ticket before payment
func (s *CartService) KitchenPreview(ctx context.Context, terminalID string) (*entity.KitchenTicket, error) {
	c, err := s.store.Load(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	items := c.Items()
	if applied := c.AppliedPromotion(); applied != nil {
		items = append(items, freeLines(applied.FreeItems)...)
	}
	return kitchen.Ticket("", s.now().UTC(), items), nil
}

// Checkout finalizes the cart into a sale and empties it.
// The applied code is evaluated again against the cart being charged.
func (s *CartService) Checkout(ctx context.Context, terminalID string, input *CheckoutInput) (*entity.Invoice, error) {
	unlock := s.locks.Lock(terminalID)
	defer unlock()

	c, err := s.store.Load(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, apperror.NewBadRequestError("Cart is empty")
	}

	var code string
	if applied := c.AppliedPromotion(); applied != nil {
		code = applied.Code
	}

	inv, err := s.sales.Finalize(ctx, &FinalizeInput{
		TerminalID:    terminalID,
		Items:         c.Items(),
		PromoCode:     code,
		PaymentMode:   input.PaymentMode,
		InvoicePrefix: input.InvoicePrefix,
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, terminalID); err != nil {
		s.log.Error("clear cart after checkout",
			zap.String("terminal_id", terminalID),
			zap.String("invoice_no", inv.InvoiceNo),
			zap.Error(err),
		)
	}
	return inv, nil
}

func (s *CartService) mutate(ctx context.Context, terminalID string, fn func(c *cart.Cart)) (*CartView, error) {
	unlock := s.locks.Lock(terminalID)
	defer unlock()

	c, err := s.store.Load(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	fn(c)
	if err := s.store.Save(ctx, terminalID, c); err != nil {
		return nil, err
	}
	return s.view(c), nil
}

func (s *CartService) view(c *cart.Cart) *CartView {
	v := &CartView{
		Items:      c.Items(),
		Revision:   c.Revision(),
		Promotion:  c.AppliedPromotion(),
		FreeItems:  []entity.FreeItem{},
		SubTotal:   decimal.Zero,
		Discount:   decimal.Zero,
		Tax:        decimal.Zero,
		RoundOff:   decimal.Zero,
		GrandTotal: decimal.Zero,
	}
	if c.IsEmpty() {
		return v
	}

	inv, err := invoice.Assemble(v.Items, v.Promotion, "", s.sales.Tax())
	if err != nil {
		return v
	}
	if v.Promotion != nil {
		v.FreeItems = v.Promotion.FreeItems
	}
	v.SubTotal = inv.SubTotal
	v.Discount = inv.DiscountTotal
	v.Tax = inv.TaxTotal
	v.RoundOff = inv.RoundOff
	v.GrandTotal = inv.GrandTotal
	return v
}

func freeLines(free []entity.FreeItem) []entity.LineItem {
	lines := make([]entity.LineItem, len(free))
	for i, f := range free {
		lines[i] = entity.LineItem{
			ProductCode: f.ProductCode,
			ProductName: f.Name,
			UnitPrice:   decimal.Zero,
			Quantity:    f.Quantity,
			Free:        true,
		}
	}
	return lines
}
