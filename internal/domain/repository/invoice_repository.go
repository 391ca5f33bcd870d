package repository

import (
	"context"
	"time"

	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/enum"
	"github.com/sangkips/tablepos-api/pkg/pagination"
)

// InvoiceRepository stores finalized sales
type InvoiceRepository interface {
	// NextInvoiceNo reserves the next number for a prefix, e.g. "ANN-000124"
	NextInvoiceNo(ctx context.Context, prefix string) (string, error)
	// Create stores the invoice together with its items
	Create(ctx context.Context, invoice *entity.Invoice) error
	// GetByInvoiceNo returns the invoice with its items, or nil when it does not exist
	GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Invoice, error)
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	// Cancel applies the cancellation and returns the updated invoice.
	// It returns nil, nil when the invoice does not exist.
	Cancel(ctx context.Context, invoiceNo, reason string, at time.Time) (*entity.Invoice, error)
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.InvoiceStatus
	TerminalID string
	StartDate  *time.Time
	EndDate    *time.Time
}
