package cache

import (
	"testing"
	"time"

	"github.com/sangkips/tablepos-api/internal/domain/cart"
	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleCodecKeepsRewardType(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC)
	rules := []entity.PromotionRule{
		{
			Code:      "BOGO11",
			Active:    true,
			EndAt:     &end,
			Trigger:   entity.Trigger{Kind: enum.TriggerKindProduct, ProductCode: "101", MinQty: 1, MinPurchase: decimal.Zero},
			Reward:    entity.BogoReward{BuyQty: 1, GetQty: 1},
			CreatedAt: created,
			UpdatedAt: created,
		},
		{
			Code:    "FLAT5",
			Active:  true,
			Trigger: entity.Trigger{Kind: enum.TriggerKindCategory, CategoryName: "Breakfast", MinPurchase: decimal.NewFromInt(20)},
			Reward:  entity.AmountReward{Amount: decimal.NewFromInt(5)},
		},
	}

	raw, err := encodeRules(rules)
	require.NoError(t, err)
	back, err := decodeRules(raw)
	require.NoError(t, err)

	require.Len(t, back, 2)
	assert.Equal(t, entity.BogoReward{BuyQty: 1, GetQty: 1}, back[0].Reward)
	assert.Equal(t, created, back[0].CreatedAt)
	require.NotNil(t, back[0].EndAt)
	assert.True(t, back[0].EndAt.Equal(end))
	assert.Equal(t, "Breakfast", back[1].Trigger.CategoryName)
	amount, ok := back[1].Reward.(entity.AmountReward)
	require.True(t, ok)
	assert.True(t, amount.Amount.Equal(decimal.NewFromInt(5)))
}

func TestDecodeRulesRejectsGarbage(t *testing.T) {
	_, err := decodeRules([]byte(`{"not":"a list"}`))
	assert.Error(t, err)

	_, err = decodeRules([]byte(`[{"definition":{"code":"X","type":"CASHBACK"}}]`))
	assert.Error(t, err)
}

func TestCartCodecKeepsAppliedPromotion(t *testing.T) {
	c := cart.New()
	c.Add(entity.LineItem{ProductCode: "102", ProductName: "Idli", VariantID: "4pc", VariantName: "4 pc", UnitPrice: decimal.NewFromInt(11)}, 2)
	c.ApplyPromotion(entity.PromotionResult{Valid: true, Code: "SAVE10", DiscountAmount: decimal.RequireFromString("2.2")})

	raw, err := encodeCart(c)
	require.NoError(t, err)
	back, err := decodeCart(raw)
	require.NoError(t, err)

	assert.Equal(t, c.Revision(), back.Revision())
	item, ok := back.Get(entity.IdentityKey("102", "4pc"))
	require.True(t, ok)
	assert.Equal(t, 2, item.Quantity)
	require.NotNil(t, back.AppliedPromotion())
	assert.True(t, back.AppliedPromotion().DiscountAmount.Equal(decimal.RequireFromString("2.2")))
}

func TestCartKey(t *testing.T) {
	assert.Equal(t, "pos:cart:T1", cartKey("T1"))
}
