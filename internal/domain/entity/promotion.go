package entity

import (
	"time"

	"github.com/sangkips/tablepos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Trigger is the scope and threshold a cart must satisfy for a promotion to apply.
// MinPurchase is only meaningful for discount rewards, MinQty only for item rewards.
type Trigger struct {
	Kind         enum.TriggerKind `json:"kind"`
	ProductCode  string           `json:"product_code,omitempty"`
	CategoryName string           `json:"category_name,omitempty"`
	MinQty       int              `json:"min_qty,omitempty"`
	MinPurchase  decimal.Decimal  `json:"min_purchase"`
}

// Reward is the benefit a promotion grants. Its concrete type determines the promotion type,
// so a rule can never carry reward fields belonging to another type.
type Reward interface {
	Type() enum.PromotionType
	isReward()
}

// PercentReward takes a percentage off the matched subtotal.
type PercentReward struct {
	Percent     decimal.Decimal  `json:"percent"`
	MaxDiscount *decimal.Decimal `json:"max_discount,omitempty"`
}

// AmountReward takes a flat amount off the matched subtotal.
type AmountReward struct {
	Amount decimal.Decimal `json:"amount"`
}

// BogoReward makes GetQty units free for every BuyQty+GetQty matched units.
type BogoReward struct {
	BuyQty int `json:"buy_qty"`
	GetQty int `json:"get_qty"`
}

// ItemFreeReward adds RewardQty units of a reward product at no charge.
type ItemFreeReward struct {
	RewardProductCode string `json:"reward_product_code"`
	RewardQty         int    `json:"reward_qty"`
}

func (PercentReward) Type() enum.PromotionType  { return enum.PromotionTypePercent }
func (AmountReward) Type() enum.PromotionType   { return enum.PromotionTypeAmount }
func (BogoReward) Type() enum.PromotionType     { return enum.PromotionTypeBogo }
func (ItemFreeReward) Type() enum.PromotionType { return enum.PromotionTypeItemFree }

func (PercentReward) isReward()  {}
func (AmountReward) isReward()   {}
func (BogoReward) isReward()     {}
func (ItemFreeReward) isReward() {}

// PromotionRule is a validated, normalized promotion definition.
type PromotionRule struct {
	Code      string     `json:"code"`
	Active    bool       `json:"active"`
	StartAt   *time.Time `json:"start_at,omitempty"`
	EndAt     *time.Time `json:"end_at,omitempty"`
	Note      string     `json:"note,omitempty"`
	Trigger   Trigger    `json:"trigger"`
	Reward    Reward     `json:"reward"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Type returns the promotion type implied by the reward.
func (r *PromotionRule) Type() enum.PromotionType {
	return r.Reward.Type()
}

// IsLive reports whether the rule is active and at is within [StartAt, EndAt].
func (r *PromotionRule) IsLive(at time.Time) bool {
	if !r.Active {
		return false
	}
	if r.StartAt != nil && at.Before(*r.StartAt) {
		return false
	}
	if r.EndAt != nil && at.After(*r.EndAt) {
		return false
	}
	return true
}
