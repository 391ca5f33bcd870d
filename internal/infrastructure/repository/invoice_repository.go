package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/invoice"
	domainRepo "github.com/sangkips/tablepos-api/internal/domain/repository"
	"github.com/sangkips/tablepos-api/pkg/pagination"
	"github.com/sangkips/tablepos-api/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) NextInvoiceNo(ctx context.Context, prefix string) (string, error) {
	prefix = utils.NormalizePrefix(prefix)
	var next int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureSequence(tx, prefix).Error; err != nil {
			return err
		}

		var seq entity.InvoiceSequence
		if err := lockSequence(tx, prefix, &seq).Error; err != nil {
			return err
		}

		next = seq.LastValue + 1
		return tx.Model(&entity.InvoiceSequence{}).
			Where("prefix = ?", prefix).
			Update("last_value", next).Error
	})
	if err != nil {
		return "", err
	}
	return utils.FormatInvoiceNo(prefix, next), nil
}

func (r *invoiceRepository) Create(ctx context.Context, inv *entity.Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *invoiceRepository) GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Invoice, error) {
	return r.getByInvoiceNo(r.db.WithContext(ctx), invoiceNo)
}

func (r *invoiceRepository) getByInvoiceNo(db *gorm.DB, invoiceNo string) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&inv, "invoice_no = ?", invoiceNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &inv, err
}

func (r *invoiceRepository) List(ctx context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Invoice{})

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.TerminalID != "" {
		query = query.Where("terminal_id = ?", params.TerminalID)
	}

	if params.StartDate != nil {
		query = query.Where("issued_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("issued_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("issued_at DESC, invoice_no DESC").
		Find(&invoices).Error

	return invoices, total, err
}

func (r *invoiceRepository) Cancel(ctx context.Context, invoiceNo, reason string, at time.Time) (*entity.Invoice, error) {
	var out *entity.Invoice

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := r.getByInvoiceNo(tx.Clauses(clause.Locking{Strength: "UPDATE"}), invoiceNo)
		if err != nil || inv == nil {
			return err
		}

		if err := invoice.Cancel(inv, reason, at); err != nil {
			return err
		}

		if err := markCancelled(tx, inv).Error; err != nil {
			return err
		}
		out = inv
		return nil
	})

	return out, err
}
