package promotion

import (
	"fmt"
	"sort"
	"time"

	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Result messages shown to the cashier.
const (
	MessageInvalidCode   = "Invalid code"
	MessageMinimumNotMet = "Minimum not met"
	MessageApplied       = "Promotion applied"
)

// Find returns the live rule matching code, comparing codes case-insensitively.
func Find(code string, rules []entity.PromotionRule, now time.Time) (*entity.PromotionRule, bool) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, false
	}
	for i := range rules {
		if NormalizeCode(rules[i].Code) == code && rules[i].IsLive(now) {
			return &rules[i], true
		}
	}
	return nil, false
}

// Evaluate scores code against the cart lines. It never modifies items or rules,
// and repeated calls with the same inputs return equal results.
func Evaluate(items []entity.LineItem, code string, rules []entity.PromotionRule, catalog Catalog, now time.Time) entity.PromotionResult {
	rule, ok := Find(code, rules, now)
	if !ok || rule.Reward == nil {
		return invalid(NormalizeCode(code), MessageInvalidCode)
	}

	m := match(items, rule.Trigger, catalog)

	switch reward := rule.Reward.(type) {
	case entity.PercentReward:
		return evaluatePercent(rule, reward, m)
	case entity.AmountReward:
		return evaluateAmount(rule, reward, m)
	case entity.BogoReward:
		return evaluateBogo(rule, reward, m)
	case entity.ItemFreeReward:
		return evaluateItemFree(rule, reward, m, catalog)
	default:
		return invalid(rule.Code, MessageInvalidCode)
	}
}

// matched holds the cart lines within a trigger's scope.
type matched struct {
	lines    []entity.LineItem
	qty      int
	subtotal decimal.Decimal
}

func match(items []entity.LineItem, trigger entity.Trigger, catalog Catalog) matched {
	m := matched{subtotal: decimal.Zero}
	for _, it := range items {
		if it.Free || !inScope(it, trigger, catalog) {
			continue
		}
		m.lines = append(m.lines, it)
		m.qty += it.Quantity
		m.subtotal = m.subtotal.Add(it.Total())
	}
	return m
}

func inScope(it entity.LineItem, trigger entity.Trigger, catalog Catalog) bool {
	switch trigger.Kind {
	case enum.TriggerKindProduct:
		return it.ProductCode == trigger.ProductCode
	case enum.TriggerKindCategory:
		return inCategory(catalog, it.ProductCode, trigger.CategoryName)
	default:
		return true
	}
}

func evaluatePercent(rule *entity.PromotionRule, reward entity.PercentReward, m matched) entity.PromotionResult {
	if m.subtotal.LessThan(rule.Trigger.MinPurchase) {
		return invalid(rule.Code, MessageMinimumNotMet)
	}
	discount := round2(m.subtotal.Mul(reward.Percent).Div(hundred))
	if reward.MaxDiscount != nil && discount.GreaterThan(*reward.MaxDiscount) {
		discount = *reward.MaxDiscount
	}
	label := fmt.Sprintf("%s%% off", reward.Percent.String())
	if reward.MaxDiscount != nil {
		label = fmt.Sprintf("%s (max %s)", label, reward.MaxDiscount.StringFixed(2))
	}
	return applied(rule.Code, discount, entity.BreakdownLine{Label: label, Amount: amountPtr(discount)})
}

func evaluateAmount(rule *entity.PromotionRule, reward entity.AmountReward, m matched) entity.PromotionResult {
	if m.subtotal.LessThan(rule.Trigger.MinPurchase) {
		return invalid(rule.Code, MessageMinimumNotMet)
	}
	discount := decimal.Min(reward.Amount, m.subtotal)
	label := fmt.Sprintf("Flat %s off", reward.Amount.StringFixed(2))
	return applied(rule.Code, discount, entity.BreakdownLine{Label: label, Amount: amountPtr(discount)})
}

func evaluateBogo(rule *entity.PromotionRule, reward entity.BogoReward, m matched) entity.PromotionResult {
	if m.qty < rule.Trigger.MinQty {
		return invalid(rule.Code, MessageMinimumNotMet)
	}
	sets := m.qty / (reward.BuyQty + reward.GetQty)
	freeQty := sets * reward.GetQty
	if freeQty == 0 {
		return invalid(rule.Code, MessageMinimumNotMet)
	}

	discount := cheapestUnits(m.lines, freeQty)
	label := fmt.Sprintf("Buy %d Get %d free (%d free)", reward.BuyQty, reward.GetQty, freeQty)
	return applied(rule.Code, discount, entity.BreakdownLine{Label: label, Amount: amountPtr(discount)})
}

// cheapestUnits sums the prices of the n cheapest units, keeping cart order between equal prices.
func cheapestUnits(lines []entity.LineItem, n int) decimal.Decimal {
	ordered := make([]entity.LineItem, len(lines))
	copy(ordered, lines)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].UnitPrice.LessThan(ordered[j].UnitPrice)
	})

	total := decimal.Zero
	for _, l := range ordered {
		if n == 0 {
			break
		}
		take := l.Quantity
		if take > n {
			take = n
		}
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(take))))
		n -= take
	}
	return total
}

func evaluateItemFree(rule *entity.PromotionRule, reward entity.ItemFreeReward, m matched, catalog Catalog) entity.PromotionResult {
	if m.qty == 0 || m.qty < rule.Trigger.MinQty {
		return invalid(rule.Code, MessageMinimumNotMet)
	}

	units := reward.RewardQty
	if rule.Trigger.MinQty > 0 {
		units = (m.qty / rule.Trigger.MinQty) * reward.RewardQty
	}

	name := reward.RewardProductCode
	var value *decimal.Decimal
	if catalog != nil {
		if e, ok := catalog.Lookup(reward.RewardProductCode); ok {
			name = e.Name
			value = amountPtr(e.Price.Mul(decimal.NewFromInt(int64(units))))
		}
	}

	res := applied(rule.Code, decimal.Zero, entity.BreakdownLine{
		Label:  fmt.Sprintf("Free %s x%d", name, units),
		Amount: value,
	})
	res.FreeItems = append(res.FreeItems, entity.FreeItem{
		ProductCode: reward.RewardProductCode,
		Name:        name,
		Quantity:    units,
	})
	return res
}

func applied(code string, discount decimal.Decimal, line entity.BreakdownLine) entity.PromotionResult {
	return entity.PromotionResult{
		Valid:          true,
		Message:        MessageApplied,
		Code:           code,
		DiscountAmount: discount,
		Breakdown:      []entity.BreakdownLine{line},
		FreeItems:      []entity.FreeItem{},
	}
}

func invalid(code, message string) entity.PromotionResult {
	return entity.PromotionResult{
		Valid:          false,
		Message:        message,
		Code:           code,
		DiscountAmount: decimal.Zero,
		Breakdown:      []entity.BreakdownLine{},
		FreeItems:      []entity.FreeItem{},
	}
}

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func amountPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
