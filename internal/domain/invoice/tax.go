package invoice

import "github.com/shopspring/decimal"

// TaxPolicy computes the tax owed on a sale.
type TaxPolicy interface {
	Tax(subTotal, discountTotal decimal.Decimal) decimal.Decimal
}

// ZeroTax charges no tax.
type ZeroTax struct{}

// Tax implements TaxPolicy.
func (ZeroTax) Tax(_, _ decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}

// FlatRate charges Rate percent on the discounted subtotal.
type FlatRate struct {
	Rate decimal.Decimal
}

// Tax implements TaxPolicy.
func (f FlatRate) Tax(subTotal, discountTotal decimal.Decimal) decimal.Decimal {
	taxable := subTotal.Sub(discountTotal)
	if taxable.IsNegative() {
		return decimal.Zero
	}
	return taxable.Mul(f.Rate).Div(decimal.NewFromInt(100)).Round(2)
}

// NewTaxPolicy returns ZeroTax for a non-positive rate and FlatRate otherwise.
func NewTaxPolicy(ratePercent float64) TaxPolicy {
	if ratePercent <= 0 {
		return ZeroTax{}
	}
	return FlatRate{Rate: decimal.NewFromFloat(ratePercent)}
}
