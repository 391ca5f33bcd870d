package entity

import (
	"time"

	"github.com/sangkips/tablepos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// PromotionRecord is the flat table row of a promotion rule.
// Reward columns that do not belong to Type are left NULL.
type PromotionRecord struct {
	Code    string             `gorm:"size:50;primary_key"`
	Type    enum.PromotionType `gorm:"size:20;not null"`
	Active  bool               `gorm:"not null;index"`
	StartAt *time.Time
	EndAt   *time.Time
	Note    string `gorm:"size:255"`

	TriggerKind         enum.TriggerKind `gorm:"size:20;not null"`
	TriggerProductCode  *string          `gorm:"size:50"`
	TriggerCategoryName *string          `gorm:"size:100"`
	MinQty              *int
	MinPurchase         decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`

	Percent           *decimal.Decimal `gorm:"type:numeric(5,2)"`
	MaxDiscount       *decimal.Decimal `gorm:"type:numeric(12,2)"`
	Amount            *decimal.Decimal `gorm:"type:numeric(12,2)"`
	BuyQty            *int
	GetQty            *int
	RewardProductCode *string `gorm:"size:50"`
	RewardQty         *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for the PromotionRecord model
func (PromotionRecord) TableName() string {
	return "promotions"
}

// NewPromotionRecord flattens a rule into its table row.
func NewPromotionRecord(rule *PromotionRule) *PromotionRecord {
	rec := &PromotionRecord{
		Code:        rule.Code,
		Type:        rule.Type(),
		Active:      rule.Active,
		StartAt:     rule.StartAt,
		EndAt:       rule.EndAt,
		Note:        rule.Note,
		TriggerKind: rule.Trigger.Kind,
		MinPurchase: rule.Trigger.MinPurchase,
		CreatedAt:   rule.CreatedAt,
		UpdatedAt:   rule.UpdatedAt,
	}
	if rule.Trigger.ProductCode != "" {
		rec.TriggerProductCode = &rule.Trigger.ProductCode
	}
	if rule.Trigger.CategoryName != "" {
		rec.TriggerCategoryName = &rule.Trigger.CategoryName
	}
	if rule.Trigger.MinQty > 0 {
		minQty := rule.Trigger.MinQty
		rec.MinQty = &minQty
	}

	switch r := rule.Reward.(type) {
	case PercentReward:
		rec.Percent = &r.Percent
		rec.MaxDiscount = r.MaxDiscount
	case AmountReward:
		rec.Amount = &r.Amount
	case BogoReward:
		rec.BuyQty = &r.BuyQty
		rec.GetQty = &r.GetQty
	case ItemFreeReward:
		rec.RewardProductCode = &r.RewardProductCode
		rec.RewardQty = &r.RewardQty
	}
	return rec
}

// Rule rebuilds the typed rule from the row.
func (p *PromotionRecord) Rule() *PromotionRule {
	rule := &PromotionRule{
		Code:      p.Code,
		Active:    p.Active,
		StartAt:   p.StartAt,
		EndAt:     p.EndAt,
		Note:      p.Note,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Trigger: Trigger{
			Kind:         p.TriggerKind,
			ProductCode:  deref(p.TriggerProductCode),
			CategoryName: deref(p.TriggerCategoryName),
			MinQty:       derefInt(p.MinQty),
			MinPurchase:  p.MinPurchase,
		},
	}

	switch p.Type {
	case enum.PromotionTypePercent:
		reward := PercentReward{MaxDiscount: p.MaxDiscount}
		if p.Percent != nil {
			reward.Percent = *p.Percent
		}
		rule.Reward = reward
	case enum.PromotionTypeAmount:
		reward := AmountReward{}
		if p.Amount != nil {
			reward.Amount = *p.Amount
		}
		rule.Reward = reward
	case enum.PromotionTypeBogo:
		rule.Reward = BogoReward{BuyQty: derefInt(p.BuyQty), GetQty: derefInt(p.GetQty)}
	case enum.PromotionTypeItemFree:
		rule.Reward = ItemFreeReward{RewardProductCode: deref(p.RewardProductCode), RewardQty: derefInt(p.RewardQty)}
	}
	return rule
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
