package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/invoice"
	domainRepo "github.com/sangkips/tablepos-api/internal/domain/repository"
	"github.com/sangkips/tablepos-api/pkg/pagination"
	"github.com/sangkips/tablepos-api/pkg/utils"
)

// InvoiceRepository keeps invoices in insertion order.
type InvoiceRepository struct {
	mu        sync.Mutex
	sequences map[string]int64
	invoices  []*entity.Invoice
	byNo      map[string]*entity.Invoice
}

// NewInvoiceRepository creates an empty invoice store.
func NewInvoiceRepository() *InvoiceRepository {
	return &InvoiceRepository{
		sequences: make(map[string]int64),
		byNo:      make(map[string]*entity.Invoice),
	}
}

func (r *InvoiceRepository) NextInvoiceNo(_ context.Context, prefix string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prefix = utils.NormalizePrefix(prefix)
	r.sequences[prefix]++
	return utils.FormatInvoiceNo(prefix, r.sequences[prefix]), nil
}

func (r *InvoiceRepository) Create(_ context.Context, inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byNo[inv.InvoiceNo]; exists {
		return fmt.Errorf("invoice %s already exists", inv.InvoiceNo)
	}
	stored := cloneInvoice(inv)
	r.invoices = append(r.invoices, stored)
	r.byNo[inv.InvoiceNo] = stored
	return nil
}

func (r *InvoiceRepository) GetByInvoiceNo(_ context.Context, invoiceNo string) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.byNo[invoiceNo]
	if !ok {
		return nil, nil
	}
	return cloneInvoice(inv), nil
}

func (r *InvoiceRepository) List(_ context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.Invoice
	for _, inv := range r.invoices {
		if params.Status != nil && inv.Status != *params.Status {
			continue
		}
		if params.TerminalID != "" && inv.TerminalID != params.TerminalID {
			continue
		}
		if params.StartDate != nil && inv.IssuedAt.Before(*params.StartDate) {
			continue
		}
		if params.EndDate != nil && inv.IssuedAt.After(*params.EndDate) {
			continue
		}
		matched = append(matched, inv)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].IssuedAt.After(matched[j].IssuedAt)
	})

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()
	total := int64(len(matched))
	start := params.Pagination.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + params.Pagination.PerPage
	if end > len(matched) {
		end = len(matched)
	}

	out := make([]entity.Invoice, 0, end-start)
	for _, inv := range matched[start:end] {
		out = append(out, *cloneInvoice(inv))
	}
	return out, total, nil
}

func (r *InvoiceRepository) Cancel(_ context.Context, invoiceNo, reason string, at time.Time) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.byNo[invoiceNo]
	if !ok {
		return nil, nil
	}
	if err := invoice.Cancel(inv, reason, at); err != nil {
		return nil, err
	}
	return cloneInvoice(inv), nil
}

func cloneInvoice(inv *entity.Invoice) *entity.Invoice {
	c := *inv
	c.Items = append([]entity.InvoiceItem(nil), inv.Items...)
	c.PromoBreakdown = append([]entity.BreakdownLine(nil), inv.PromoBreakdown...)
	if inv.CancelledAt != nil {
		at := *inv.CancelledAt
		c.CancelledAt = &at
	}
	return &c
}
