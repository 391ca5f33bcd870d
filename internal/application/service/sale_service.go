package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/enum"
	"github.com/sangkips/tablepos-api/internal/domain/event"
	"github.com/sangkips/tablepos-api/internal/domain/invoice"
	"github.com/sangkips/tablepos-api/internal/domain/kitchen"
	"github.com/sangkips/tablepos-api/internal/domain/repository"
	"github.com/sangkips/tablepos-api/pkg/apperror"
	"github.com/sangkips/tablepos-api/pkg/pagination"
	"github.com/sangkips/tablepos-api/pkg/utils"
	"go.uber.org/zap"
)

// DefaultSaleListSize is the page size of the open receipts list.
const DefaultSaleListSize = 200

// SaleSettings holds the sale defaults read from configuration
type SaleSettings struct {
	InvoicePrefix      string
	DefaultPaymentMode string
	Producer           string // service name stamped on events
}

// SaleService finalizes, lists and cancels sales
type SaleService struct {
	invoiceRepo repository.InvoiceRepository
	catalogRepo repository.CatalogRepository
	promotions  *PromotionService
	publisher   event.Publisher
	tax         invoice.TaxPolicy
	settings    SaleSettings
	log         *zap.Logger
	now         func() time.Time
}

// NewSaleService creates a new sale service
func NewSaleService(
	invoiceRepo repository.InvoiceRepository,
	catalogRepo repository.CatalogRepository,
	promotions *PromotionService,
	publisher event.Publisher,
	tax invoice.TaxPolicy,
	settings SaleSettings,
	log *zap.Logger,
) *SaleService {
	if tax == nil {
		tax = invoice.ZeroTax{}
	}
	settings.InvoicePrefix = utils.NormalizePrefix(settings.InvoicePrefix)
	if strings.TrimSpace(settings.DefaultPaymentMode) == "" {
		settings.DefaultPaymentMode = invoice.DefaultPaymentMode
	}
	return &SaleService{
		invoiceRepo: invoiceRepo,
		catalogRepo: catalogRepo,
		promotions:  promotions,
		publisher:   publisher,
		tax:         tax,
		settings:    settings,
		log:         log,
		now:         time.Now,
	}
}

// CreateSaleInput represents a stateless sale request
type CreateSaleInput struct {
	TerminalID    string
	Items         []ItemInput
	PromoCode     string
	PaymentMode   string
	InvoicePrefix string
}

// FinalizeInput is an already priced order ready to be invoiced
type FinalizeInput struct {
	TerminalID    string
	Items         []entity.LineItem
	PromoCode     string
	PaymentMode   string
	InvoicePrefix string
}

// SaleFilter represents the sale listing filters
type SaleFilter struct {
	Status     *enum.InvoiceStatus
	AllStatus  bool
	TerminalID string
	StartDate  *time.Time
	EndDate    *time.Time
	Pagination *pagination.PaginationParams
}

// CreateSale prices the items from the catalog and finalizes them in one step
func (s *SaleService) CreateSale(ctx context.Context, input *CreateSaleInput) (*entity.Invoice, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Cart is empty")
	}
	items, err := resolveItems(ctx, s.catalogRepo, input.Items)
	if err != nil {
		return nil, err
	}
	return s.Finalize(ctx, &FinalizeInput{
		TerminalID:    input.TerminalID,
		Items:         items,
		PromoCode:     input.PromoCode,
		PaymentMode:   input.PaymentMode,
		InvoicePrefix: input.InvoicePrefix,
	})
}

// Finalize re-evaluates the promotion code against the lines being charged,
// assembles the invoice, numbers it and stores it
func (s *SaleService) Finalize(ctx context.Context, input *FinalizeInput) (*entity.Invoice, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Cart is empty")
	}

	var promo *entity.PromotionResult
	if code := strings.TrimSpace(input.PromoCode); code != "" {
		result, err := s.promotions.Evaluate(ctx, input.Items, code)
		if err != nil {
			return nil, err
		}
		if !result.Valid {
			s.log.Info("promotion dropped at checkout",
				zap.String("code", result.Code),
				zap.String("reason", result.Message),
			)
		}
		promo = &result
	}

	paymentMode := input.PaymentMode
	if strings.TrimSpace(paymentMode) == "" {
		paymentMode = s.settings.DefaultPaymentMode
	}

	inv, err := invoice.Assemble(input.Items, promo, paymentMode, s.tax)
	if errors.Is(err, invoice.ErrEmptyCart) {
		return nil, apperror.NewBadRequestError("Cart is empty")
	}
	if err != nil {
		return nil, err
	}

	prefix := s.settings.InvoicePrefix
	if strings.TrimSpace(input.InvoicePrefix) != "" {
		prefix = utils.NormalizePrefix(input.InvoicePrefix)
	}
	invoiceNo, err := s.invoiceRepo.NextInvoiceNo(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("reserve invoice number: %w", err)
	}

	inv.InvoiceNo = invoiceNo
	inv.TerminalID = input.TerminalID
	inv.IssuedAt = s.now().UTC()

	if err := s.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("store invoice %s: %w", invoiceNo, err)
	}

	s.log.Info("sale created",
		zap.String("invoice_no", inv.InvoiceNo),
		zap.String("terminal_id", inv.TerminalID),
		zap.String("promo_code", inv.PromoCode),
		zap.String("grand_total", inv.GrandTotal.StringFixed(2)),
	)

	env, err := event.SaleCreated(s.settings.Producer, inv, kitchen.ForInvoice(inv))
	s.publish(ctx, env, err)

	return inv, nil
}

// GetSale retrieves a sale by invoice number, whatever its status
func (s *SaleService) GetSale(ctx context.Context, invoiceNo string) (*entity.Invoice, error) {
	inv, err := s.invoiceRepo.GetByInvoiceNo(ctx, strings.TrimSpace(invoiceNo))
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return inv, nil
}

// ListSales lists sales newest first. Without a status filter only open (Created)
// sales are listed, 200 per page.
func (s *SaleService) ListSales(ctx context.Context, filter *SaleFilter) ([]entity.Invoice, *pagination.Pagination, error) {
	params := filter.Pagination
	if params == nil {
		params = &pagination.PaginationParams{}
	}
	params.ValidateWithDefault(DefaultSaleListSize)

	status := filter.Status
	if status == nil && !filter.AllStatus {
		created := enum.InvoiceStatusCreated
		status = &created
	}

	invoices, total, err := s.invoiceRepo.List(ctx, &repository.InvoiceFilterParams{
		Pagination: params,
		Status:     status,
		TerminalID: filter.TerminalID,
		StartDate:  filter.StartDate,
		EndDate:    filter.EndDate,
	})
	if err != nil {
		return nil, nil, err
	}

	return invoices, pagination.NewPagination(params.Page, params.PerPage, total), nil
}

// CancelSale moves a Created sale to Cancelled with a reason
func (s *SaleService) CancelSale(ctx context.Context, invoiceNo, reason string) (*entity.Invoice, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "reason", Message: "is required"},
		})
	}

	inv, err := s.invoiceRepo.Cancel(ctx, strings.TrimSpace(invoiceNo), reason, s.now().UTC())
	switch {
	case errors.Is(err, invoice.ErrAlreadyCancelled):
		return nil, apperror.NewConflictError("Invoice already cancelled")
	case errors.Is(err, invoice.ErrCancelReasonNeeded):
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "reason", Message: "is required"},
		})
	case err != nil:
		return nil, fmt.Errorf("cancel invoice %s: %w", invoiceNo, err)
	case inv == nil:
		return nil, apperror.NewNotFoundError("Invoice")
	}

	s.log.Info("sale cancelled",
		zap.String("invoice_no", inv.InvoiceNo),
		zap.String("reason", inv.CancelReason),
	)

	env, err := event.SaleCancelled(s.settings.Producer, inv)
	s.publish(ctx, env, err)

	return inv, nil
}

// KitchenTicket returns the kitchen projection of a stored sale
func (s *SaleService) KitchenTicket(ctx context.Context, invoiceNo string) (*entity.KitchenTicket, error) {
	inv, err := s.GetSale(ctx, invoiceNo)
	if err != nil {
		return nil, err
	}
	return kitchen.ForInvoice(inv), nil
}

// Tax returns the configured tax policy.
func (s *SaleService) Tax() invoice.TaxPolicy {
	return s.tax
}

// publish sends an event without failing the sale.
func (s *SaleService) publish(ctx context.Context, env event.Envelope, buildErr error) {
	if buildErr != nil {
		s.log.Error("build sale event", zap.Error(buildErr))
		return
	}
	if err := s.publisher.Publish(ctx, env); err != nil {
		s.log.Warn("publish sale event",
			zap.String("event_type", env.EventType),
			zap.String("invoice_no", env.CorrelationID),
			zap.Error(err),
		)
	}
}
