// Package promotion validates promotion rules and evaluates them against a cart.
package promotion

import (
	"strings"
	"time"

	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// RewardTypeDiscount is the wire reward type shared by PERCENT and AMOUNT rules.
const RewardTypeDiscount = "DISCOUNT"

// Column widths of the promotions table.
const (
	MaxCodeLength     = 50
	MaxCategoryLength = 100
	MaxNoteLength     = 255
)

var hundred = decimal.NewFromInt(100)

// NormalizeCode upper-cases and trims a promotion code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Definition is the flat wire form of a rule as the admin screen submits it.
// Fields that do not belong to Type are ignored by ToRule and omitted by FromRule.
type Definition struct {
	Code    string            `json:"code"`
	Type    string            `json:"type"`
	Active  *bool             `json:"active,omitempty"`
	StartAt *time.Time        `json:"start_at,omitempty"`
	EndAt   *time.Time        `json:"end_at,omitempty"`
	Note    string            `json:"note,omitempty"`
	Trigger TriggerDefinition `json:"trigger"`
	Reward  RewardDefinition  `json:"reward"`
}

// TriggerDefinition is the wire form of a trigger.
type TriggerDefinition struct {
	Kind         string           `json:"kind"`
	ProductCode  string           `json:"product_code,omitempty"`
	CategoryName string           `json:"category_name,omitempty"`
	MinQty       *int             `json:"min_qty,omitempty"`
	MinPurchase  *decimal.Decimal `json:"min_purchase,omitempty"`
}

// RewardDefinition is the wire form of a reward.
type RewardDefinition struct {
	Type              string           `json:"type,omitempty"`
	Percent           *decimal.Decimal `json:"percent,omitempty"`
	MaxDiscount       *decimal.Decimal `json:"max_discount,omitempty"`
	Amount            *decimal.Decimal `json:"amount,omitempty"`
	BuyQty            *int             `json:"buy_qty,omitempty"`
	GetQty            *int             `json:"get_qty,omitempty"`
	RewardProductCode string           `json:"reward_product_code,omitempty"`
	RewardQty         *int             `json:"reward_qty,omitempty"`
}

// ToRule validates the definition and builds a typed rule.
// All problems are reported together in a *ValidationError.
func (d Definition) ToRule() (*entity.PromotionRule, error) {
	v := &ValidationError{}

	code := NormalizeCode(d.Code)
	if code == "" {
		v.add("code", "is required")
	}
	v.maxLength("code", code, MaxCodeLength)
	v.maxLength("note", strings.TrimSpace(d.Note), MaxNoteLength)

	promoType, err := enum.ParsePromotionType(d.Type)
	if err != nil {
		v.add("type", "must be one of PERCENT, AMOUNT, BOGO, ITEM_FREE")
	}

	trigger := d.buildTrigger(v, promoType, err == nil)

	var reward entity.Reward
	if err == nil {
		reward = d.buildReward(v, promoType)
	}

	if d.StartAt != nil && d.EndAt != nil && d.EndAt.Before(*d.StartAt) {
		v.add("end_at", "must not be before start_at")
	}

	if v.HasErrors() {
		return nil, v
	}

	active := true
	if d.Active != nil {
		active = *d.Active
	}

	return &entity.PromotionRule{
		Code:    code,
		Active:  active,
		StartAt: utcPtr(d.StartAt),
		EndAt:   utcPtr(d.EndAt),
		Note:    strings.TrimSpace(d.Note),
		Trigger: trigger,
		Reward:  reward,
	}, nil
}

func (d Definition) buildTrigger(v *ValidationError, promoType enum.PromotionType, typeKnown bool) entity.Trigger {
	kind, err := enum.ParseTriggerKind(d.Trigger.Kind)
	if err != nil {
		v.add("trigger.kind", "must be one of ANY, PRODUCT, CATEGORY")
	}

	t := entity.Trigger{Kind: kind, MinPurchase: decimal.Zero}
	switch kind {
	case enum.TriggerKindProduct:
		t.ProductCode = strings.TrimSpace(d.Trigger.ProductCode)
		if t.ProductCode == "" {
			v.add("trigger.product_code", "is required for PRODUCT triggers")
		}
		v.maxLength("trigger.product_code", t.ProductCode, MaxCodeLength)
	case enum.TriggerKindCategory:
		t.CategoryName = strings.TrimSpace(d.Trigger.CategoryName)
		if t.CategoryName == "" {
			v.add("trigger.category_name", "is required for CATEGORY triggers")
		}
		v.maxLength("trigger.category_name", t.CategoryName, MaxCategoryLength)
	}

	if !typeKnown {
		return t
	}

	if promoType.IsDiscount() {
		if d.Trigger.MinPurchase != nil {
			if d.Trigger.MinPurchase.IsNegative() {
				v.add("trigger.min_purchase", "must not be negative")
			}
			t.MinPurchase = *d.Trigger.MinPurchase
		}
		return t
	}

	t.MinQty = 1
	if d.Trigger.MinQty != nil {
		if *d.Trigger.MinQty < 0 {
			v.add("trigger.min_qty", "must not be negative")
		}
		t.MinQty = *d.Trigger.MinQty
	}
	return t
}

func (d Definition) buildReward(v *ValidationError, promoType enum.PromotionType) entity.Reward {
	r := d.Reward
	switch promoType {
	case enum.PromotionTypePercent:
		reward := entity.PercentReward{}
		if r.Percent == nil || !r.Percent.IsPositive() || r.Percent.GreaterThan(hundred) {
			v.add("reward.percent", "must be greater than 0 and at most 100")
		} else {
			reward.Percent = *r.Percent
		}
		if r.MaxDiscount != nil {
			if r.MaxDiscount.IsNegative() {
				v.add("reward.max_discount", "must not be negative")
			}
			maxDiscount := *r.MaxDiscount
			reward.MaxDiscount = &maxDiscount
		}
		return reward

	case enum.PromotionTypeAmount:
		if r.Amount == nil || r.Amount.IsNegative() {
			v.add("reward.amount", "is required and must not be negative")
			return entity.AmountReward{}
		}
		return entity.AmountReward{Amount: *r.Amount}

	case enum.PromotionTypeBogo:
		reward := entity.BogoReward{BuyQty: intOr(r.BuyQty, 0), GetQty: intOr(r.GetQty, 0)}
		if reward.BuyQty < 1 {
			v.add("reward.buy_qty", "must be at least 1")
		}
		if reward.GetQty < 1 {
			v.add("reward.get_qty", "must be at least 1")
		}
		return reward

	default:
		reward := entity.ItemFreeReward{
			RewardProductCode: strings.TrimSpace(r.RewardProductCode),
			RewardQty:         intOr(r.RewardQty, 1),
		}
		if reward.RewardProductCode == "" {
			v.add("reward.reward_product_code", "is required for ITEM_FREE rules")
		}
		v.maxLength("reward.reward_product_code", reward.RewardProductCode, MaxCodeLength)
		if reward.RewardQty < 1 {
			v.add("reward.reward_qty", "must be at least 1")
		}
		return reward
	}
}

// FromRule renders a rule in its wire form, carrying only the fields of its type.
func FromRule(rule *entity.PromotionRule) Definition {
	active := rule.Active
	d := Definition{
		Code:    rule.Code,
		Type:    rule.Type().String(),
		Active:  &active,
		StartAt: rule.StartAt,
		EndAt:   rule.EndAt,
		Note:    rule.Note,
		Trigger: TriggerDefinition{Kind: rule.Trigger.Kind.String()},
	}

	switch rule.Trigger.Kind {
	case enum.TriggerKindProduct:
		d.Trigger.ProductCode = rule.Trigger.ProductCode
	case enum.TriggerKindCategory:
		d.Trigger.CategoryName = rule.Trigger.CategoryName
	}

	if rule.Type().IsDiscount() {
		minPurchase := rule.Trigger.MinPurchase
		d.Trigger.MinPurchase = &minPurchase
		d.Reward.Type = RewardTypeDiscount
	} else {
		minQty := rule.Trigger.MinQty
		d.Trigger.MinQty = &minQty
		d.Reward.Type = rule.Type().String()
	}

	switch r := rule.Reward.(type) {
	case entity.PercentReward:
		percent := r.Percent
		d.Reward.Percent = &percent
		d.Reward.MaxDiscount = r.MaxDiscount
	case entity.AmountReward:
		amount := r.Amount
		d.Reward.Amount = &amount
	case entity.BogoReward:
		d.Reward.BuyQty = &r.BuyQty
		d.Reward.GetQty = &r.GetQty
	case entity.ItemFreeReward:
		d.Reward.RewardProductCode = r.RewardProductCode
		d.Reward.RewardQty = &r.RewardQty
	}

	return d
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
