package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/enum"
	"github.com/sangkips/tablepos-api/internal/domain/kitchen"
	"github.com/sangkips/tablepos-api/pkg/printer"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PrinterSettings describes the cashier and kitchen printers
type PrinterSettings struct {
	ReceiptType  string
	ReceiptWidth int
	KitchenType  string
	KitchenWidth int
	Header       entity.ReceiptHeader
}

// PrinterService handles receipt and kitchen ticket formatting and thermal printing.
type PrinterService struct {
	receipt  printer.Printer
	kitchen  printer.Printer
	sales    *SaleService
	settings PrinterSettings
	log      *zap.Logger
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	receiptPrinter printer.Printer,
	kitchenPrinter printer.Printer,
	sales *SaleService,
	settings PrinterSettings,
	log *zap.Logger,
) *PrinterService {
	if settings.ReceiptWidth <= 0 {
		settings.ReceiptWidth = printer.Width58mm
	}
	if settings.KitchenWidth <= 0 {
		settings.KitchenWidth = printer.Width80mm
	}
	return &PrinterService{
		receipt:  receiptPrinter,
		kitchen:  kitchenPrinter,
		sales:    sales,
		settings: settings,
		log:      log,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// PrintersStatus reports both printers.
type PrintersStatus struct {
	Receipt *PrinterStatus `json:"receipt"`
	Kitchen *PrinterStatus `json:"kitchen"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrintersStatus {
	return &PrintersStatus{
		Receipt: status(s.receipt, s.settings.ReceiptType),
		Kitchen: status(s.kitchen, s.settings.KitchenType),
	}
}

func status(p printer.Printer, printerType string) *PrinterStatus {
	return &PrinterStatus{
		Configured: printerType != "none" && printerType != "",
		Connected:  p.IsConnected(),
		Type:       printerType,
	}
}

// TestPrint sends a test page to the cashier printer.
// Returns the receipt data so the handler can return it as JSON when printer is disabled.
func (s *PrinterService) TestPrint() (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{
			StoreName: "PRINTER TEST",
			Address:   s.settings.Header.Address,
			Phone:     s.settings.Header.Phone,
		},
		InvoiceNo:   "TEST-000000",
		Date:        time.Now().Format("2006-01-02 15:04"),
		PaymentType: "Cash",
		Status:      enum.InvoiceStatusCreated.String(),
		Items: []entity.ReceiptItem{
			{Name: "Test Item 1", Quantity: 1, UnitPrice: decimal.NewFromInt(10), Total: decimal.NewFromInt(10)},
			{Name: "Test Item 2", Quantity: 2, UnitPrice: decimal.NewFromInt(5), Total: decimal.NewFromInt(10)},
		},
		SubTotal: decimal.NewFromInt(20),
		Total:    decimal.NewFromInt(20),
	}

	data := FormatReceipt(receipt, s.settings.ReceiptWidth)
	if err := s.receipt.Print(data); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}

	return receipt, nil
}

// PrintReceipt fetches a sale and prints its customer receipt.
func (s *PrinterService) PrintReceipt(ctx context.Context, invoiceNo string) (*entity.Receipt, error) {
	inv, err := s.sales.GetSale(ctx, invoiceNo)
	if err != nil {
		return nil, err
	}

	receipt := BuildReceipt(inv, s.settings.Header)
	data := FormatReceipt(receipt, s.settings.ReceiptWidth)
	if err := s.receipt.Print(data); err != nil {
		s.log.Error("receipt print failed", zap.String("invoice_no", inv.InvoiceNo), zap.Error(err))
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}

	return receipt, nil
}

// PrintKitchenTicket fetches a sale and prints its KOT on the kitchen printer.
func (s *PrinterService) PrintKitchenTicket(ctx context.Context, invoiceNo string) (*entity.KitchenTicket, error) {
	inv, err := s.sales.GetSale(ctx, invoiceNo)
	if err != nil {
		return nil, err
	}

	ticket := kitchen.ForInvoice(inv)
	data := FormatKitchenTicket(ticket, s.settings.KitchenWidth)
	if err := s.kitchen.Print(data); err != nil {
		s.log.Error("kitchen ticket print failed", zap.String("invoice_no", inv.InvoiceNo), zap.Error(err))
		return ticket, fmt.Errorf("failed to print kitchen ticket: %w", err)
	}

	return ticket, nil
}

// BuildReceipt composes the printable view of an invoice.
func BuildReceipt(inv *entity.Invoice, header entity.ReceiptHeader) *entity.Receipt {
	receipt := &entity.Receipt{
		Header:         header,
		InvoiceNo:      inv.InvoiceNo,
		Date:           inv.IssuedAt.Format("2006-01-02 15:04"),
		PaymentType:    inv.PaymentMode,
		Status:         inv.Status.String(),
		CancelReason:   inv.CancelReason,
		SubTotal:       inv.SubTotal,
		Discount:       inv.DiscountTotal,
		PromoCode:      inv.PromoCode,
		PromoBreakdown: inv.PromoBreakdown,
		Tax:            inv.TaxTotal,
		Total:          inv.GrandTotal,
	}
	if inv.ShowRoundOff() {
		roundOff := inv.RoundOff
		receipt.RoundOff = &roundOff
	}

	for _, it := range inv.LineItems() {
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:      it.DisplayName(),
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Total:     it.Total(),
			Free:      it.Free,
		})
	}
	return receipt
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.TaxID != "" {
		doc.TextF("Tax ID: %s", r.Header.TaxID)
	}

	if r.Status == enum.InvoiceStatusCancelled.String() {
		doc.SetBold(true).
			Text("*** CANCELLED ***").
			SetBold(false)
		if r.CancelReason != "" {
			doc.Text(r.CancelReason)
		}
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	// Invoice info
	doc.KeyValue("Invoice:", r.InvoiceNo).
		KeyValue("Date:", r.Date)

	if r.PaymentType != "" {
		doc.KeyValue("Payment:", r.PaymentType)
	}

	doc.Separator('-')

	// Items
	for _, item := range r.Items {
		if item.Free {
			doc.ItemLine(item.Quantity, item.Name, "(FREE)")
			continue
		}
		doc.ItemLine(item.Quantity, item.Name, money(item.Total))
		if item.Quantity > 1 {
			doc.TextF("  @ %s each", money(item.UnitPrice))
		}
	}

	doc.Separator('-')

	// Totals
	doc.KeyValue("Subtotal:", money(r.SubTotal))
	if r.PromoCode != "" {
		doc.KeyValue(fmt.Sprintf("Promo %s:", r.PromoCode), "-"+money(r.Discount))
		for _, line := range r.PromoBreakdown {
			value := ""
			if line.Amount != nil {
				value = money(*line.Amount)
			}
			doc.Bullet(line.Label, value)
		}
	}
	if r.Tax.IsPositive() {
		doc.KeyValue("Tax:", money(r.Tax))
	}
	if r.RoundOff != nil {
		doc.KeyValue("Round off:", money(*r.RoundOff))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", money(r.Total)).
		SetBold(false)

	doc.Separator('-')

	// Footer
	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you! Visit again").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

// FormatKitchenTicket converts a KOT into ESC/POS bytes. No prices are printed.
func FormatKitchenTicket(t *entity.KitchenTicket, width int) []byte {
	doc := printer.NewDocument(width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text("KOT").
		SetFontSize(printer.FontNormal).
		SetBold(false).
		SetAlign(printer.AlignLeft).
		Separator('-')

	if t.InvoiceNo != "" {
		doc.KeyValue("Invoice:", t.InvoiceNo)
	}
	doc.KeyValue("Date:", t.IssuedAt.Format("2006-01-02 15:04")).
		Separator('-')

	doc.SetFontSize(printer.FontTall)
	for _, line := range t.Lines {
		name := line.ProductName
		if line.VariantName != "" {
			name = fmt.Sprintf("%s (%s)", name, line.VariantName)
		}
		doc.TextF("%d x %s", line.Quantity, name)
	}
	doc.SetFontSize(printer.FontNormal).
		Separator('-').
		KeyValue("Items:", fmt.Sprintf("%d", t.TotalQuantity()))

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
