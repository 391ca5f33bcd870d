package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/event"
	"github.com/sangkips/tablepos-api/internal/domain/invoice"
	"github.com/sangkips/tablepos-api/internal/domain/promotion"
	"github.com/sangkips/tablepos-api/internal/infrastructure/memory"
	"github.com/sangkips/tablepos-api/pkg/printer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2026, 5, 4, 13, 30, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Envelope
}

func (p *recordingPublisher) Publish(_ context.Context, env event.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, env)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType
	}
	return out
}

type fixture struct {
	invoices       *memory.InvoiceRepository
	publisher      *recordingPublisher
	receiptPrinter *printer.MemoryPrinter
	kitchenPrinter *printer.MemoryPrinter
	promotions     *PromotionService
	sales          *SaleService
	carts          *CartService
	printers       *PrinterService
}

func testCatalog() []entity.Product {
	return []entity.Product{
		{Code: "101", Name: "Masala Dosa", Category: "Breakfast", Price: decimal.NewFromInt(10), Active: true},
		{
			Code: "102", Name: "Idli", Category: "Breakfast", Price: decimal.NewFromInt(6), Active: true,
			Variants: []entity.ProductVariant{
				{ID: "2pc", ProductCode: "102", Name: "2 pc", Price: decimal.NewFromInt(6)},
				{ID: "4pc", ProductCode: "102", Name: "4 pc", Price: decimal.NewFromInt(11)},
			},
		},
		{Code: "500", Name: "Gulab Jamun", Category: "Desserts", Price: decimal.NewFromInt(4), Active: true},
	}
}

func newFixture(t *testing.T, taxRate float64) *fixture {
	t.Helper()
	log := zap.NewNop()

	catalog := memory.NewCatalogRepository(testCatalog()...)
	f := &fixture{
		invoices:       memory.NewInvoiceRepository(),
		publisher:      &recordingPublisher{},
		receiptPrinter: printer.NewMemoryPrinter(),
		kitchenPrinter: printer.NewMemoryPrinter(),
	}

	f.promotions = NewPromotionService(memory.NewPromotionRepository(), catalog, log)
	f.promotions.now = func() time.Time { return testNow }

	f.sales = NewSaleService(f.invoices, catalog, f.promotions, f.publisher, invoice.NewTaxPolicy(taxRate),
		SaleSettings{InvoicePrefix: "ANN", Producer: "tablepos-api"}, log)
	f.sales.now = func() time.Time { return testNow }

	f.carts = NewCartService(memory.NewCartStore(), catalog, f.promotions, f.sales, log)
	f.carts.now = func() time.Time { return testNow }

	f.printers = NewPrinterService(f.receiptPrinter, f.kitchenPrinter, f.sales, PrinterSettings{
		ReceiptType:  "memory",
		ReceiptWidth: printer.Width58mm,
		KitchenType:  "memory",
		KitchenWidth: printer.Width80mm,
		Header:       entity.ReceiptHeader{StoreName: "Annapoorna"},
	}, log)
	return f
}

func (f *fixture) saveRule(t *testing.T, def promotion.Definition) {
	t.Helper()
	_, err := f.promotions.Save(context.Background(), def)
	require.NoError(t, err)
}

func intPtr(n int) *int { return &n }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func percentRule(code, percent string) promotion.Definition {
	return promotion.Definition{
		Code:    code,
		Type:    "PERCENT",
		Trigger: promotion.TriggerDefinition{Kind: "ANY"},
		Reward:  promotion.RewardDefinition{Percent: decPtr(percent)},
	}
}

func bogoRule(code, productCode string) promotion.Definition {
	return promotion.Definition{
		Code:    code,
		Type:    "BOGO",
		Trigger: promotion.TriggerDefinition{Kind: "PRODUCT", ProductCode: productCode, MinQty: intPtr(2)},
		Reward:  promotion.RewardDefinition{BuyQty: intPtr(1), GetQty: intPtr(1)},
	}
}

func itemFreeRule(code, productCode, rewardCode string, minQty int) promotion.Definition {
	return promotion.Definition{
		Code:    code,
		Type:    "ITEM_FREE",
		Trigger: promotion.TriggerDefinition{Kind: "PRODUCT", ProductCode: productCode, MinQty: intPtr(minQty)},
		Reward:  promotion.RewardDefinition{RewardProductCode: rewardCode, RewardQty: intPtr(1)},
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
