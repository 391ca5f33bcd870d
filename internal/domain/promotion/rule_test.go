package promotion

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intp(i int) *int { return &i }

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "SAVE10", NormalizeCode("  save10 "))
	assert.Equal(t, "", NormalizeCode("   "))
}

func TestToRulePrunesFieldsOfOtherTypes(t *testing.T) {
	d := Definition{
		Code: " tea10 ",
		Type: "percent",
		Trigger: TriggerDefinition{
			Kind:         "PRODUCT",
			ProductCode:  "101",
			CategoryName: "Drinks",
			MinQty:       intp(4),
			MinPurchase:  dec("50"),
		},
		Reward: RewardDefinition{
			Percent:           dec("10"),
			MaxDiscount:       dec("25"),
			Amount:            dec("99"),
			BuyQty:            intp(1),
			GetQty:            intp(1),
			RewardProductCode: "500",
		},
	}

	rule, err := d.ToRule()
	require.NoError(t, err)

	assert.Equal(t, "TEA10", rule.Code)
	assert.True(t, rule.Active)
	assert.Equal(t, enum.PromotionTypePercent, rule.Type())
	assert.Equal(t, "", rule.Trigger.CategoryName)
	assert.Equal(t, 0, rule.Trigger.MinQty)
	assert.True(t, rule.Trigger.MinPurchase.Equal(decimal.NewFromInt(50)))

	reward, ok := rule.Reward.(entity.PercentReward)
	require.True(t, ok)
	assert.True(t, reward.Percent.Equal(decimal.NewFromInt(10)))
	require.NotNil(t, reward.MaxDiscount)
	assert.True(t, reward.MaxDiscount.Equal(decimal.NewFromInt(25)))
}

func TestToRuleItemRewardsGateOnQuantity(t *testing.T) {
	d := Definition{
		Code:    "FREEDESSERT",
		Type:    "ITEM_FREE",
		Trigger: TriggerDefinition{Kind: "CATEGORY", CategoryName: "Mains", MinPurchase: dec("100")},
		Reward:  RewardDefinition{RewardProductCode: "500", Percent: dec("10")},
	}

	rule, err := d.ToRule()
	require.NoError(t, err)

	assert.Equal(t, 1, rule.Trigger.MinQty, "min qty defaults to 1")
	assert.True(t, rule.Trigger.MinPurchase.IsZero())
	assert.Equal(t, entity.ItemFreeReward{RewardProductCode: "500", RewardQty: 1}, rule.Reward)
}

func TestToRuleRejectsMalformedDefinitions(t *testing.T) {
	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)

	tests := []struct {
		name   string
		def    Definition
		fields []string
	}{
		{
			name:   "missing code and unknown type",
			def:    Definition{Type: "CASHBACK"},
			fields: []string{"code", "type"},
		},
		{
			name:   "item free without reward product",
			def:    Definition{Code: "X", Type: "ITEM_FREE", Reward: RewardDefinition{RewardQty: intp(0)}},
			fields: []string{"reward.reward_product_code", "reward.reward_qty"},
		},
		{
			name:   "percent out of range",
			def:    Definition{Code: "X", Type: "PERCENT", Reward: RewardDefinition{Percent: dec("120")}},
			fields: []string{"reward.percent"},
		},
		{
			name:   "zero percent",
			def:    Definition{Code: "X", Type: "PERCENT", Reward: RewardDefinition{Percent: dec("0")}},
			fields: []string{"reward.percent"},
		},
		{
			name:   "negative amount and min purchase",
			def:    Definition{Code: "X", Type: "AMOUNT", Trigger: TriggerDefinition{MinPurchase: dec("-1")}, Reward: RewardDefinition{Amount: dec("-5")}},
			fields: []string{"trigger.min_purchase", "reward.amount"},
		},
		{
			name:   "bogo without quantities",
			def:    Definition{Code: "X", Type: "BOGO"},
			fields: []string{"reward.buy_qty", "reward.get_qty"},
		},
		{
			name:   "product trigger without product",
			def:    Definition{Code: "X", Type: "BOGO", Trigger: TriggerDefinition{Kind: "PRODUCT"}, Reward: RewardDefinition{BuyQty: intp(1), GetQty: intp(1)}},
			fields: []string{"trigger.product_code"},
		},
		{
			name:   "category trigger without category",
			def:    Definition{Code: "X", Type: "AMOUNT", Trigger: TriggerDefinition{Kind: "CATEGORY"}, Reward: RewardDefinition{Amount: dec("5")}},
			fields: []string{"trigger.category_name"},
		},
		{
			name: "values wider than their columns",
			def: Definition{
				Code:    strings.Repeat("C", MaxCodeLength+1),
				Type:    "ITEM_FREE",
				Note:    strings.Repeat("n", MaxNoteLength+1),
				Trigger: TriggerDefinition{Kind: "CATEGORY", CategoryName: strings.Repeat("k", MaxCategoryLength+1)},
				Reward:  RewardDefinition{RewardProductCode: strings.Repeat("9", MaxCodeLength+1)},
			},
			fields: []string{"code", "note", "trigger.category_name", "reward.reward_product_code"},
		},
		{
			name:   "window ends before it starts",
			def:    Definition{Code: "X", Type: "AMOUNT", StartAt: &start, EndAt: &end, Reward: RewardDefinition{Amount: dec("5")}},
			fields: []string{"end_at"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := tt.def.ToRule()
			require.Error(t, err)
			assert.Nil(t, rule)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			got := make([]string, len(verr.Fields))
			for i, f := range verr.Fields {
				got[i] = f.Field
			}
			assert.ElementsMatch(t, tt.fields, got)
		})
	}
}

func TestFromRuleOmitsForeignFields(t *testing.T) {
	rule, err := Definition{
		Code:    "bogo",
		Type:    "BOGO",
		Trigger: TriggerDefinition{Kind: "PRODUCT", ProductCode: "101", MinQty: intp(2)},
		Reward:  RewardDefinition{BuyQty: intp(1), GetQty: intp(1)},
	}.ToRule()
	require.NoError(t, err)

	raw, err := json.Marshal(FromRule(rule))
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(raw, &wire))

	trigger := wire["trigger"].(map[string]any)
	reward := wire["reward"].(map[string]any)
	assert.Equal(t, "PRODUCT", trigger["kind"])
	assert.Equal(t, "101", trigger["product_code"])
	assert.EqualValues(t, 2, trigger["min_qty"])
	assert.NotContains(t, trigger, "min_purchase")
	assert.NotContains(t, trigger, "category_name")
	assert.Equal(t, "BOGO", reward["type"])
	assert.NotContains(t, reward, "percent")
	assert.NotContains(t, reward, "amount")
	assert.NotContains(t, reward, "reward_product_code")
}

func TestFromRuleDiscountRewardType(t *testing.T) {
	rule, err := Definition{Code: "flat5", Type: "AMOUNT", Reward: RewardDefinition{Amount: dec("5")}}.ToRule()
	require.NoError(t, err)

	d := FromRule(rule)
	assert.Equal(t, RewardTypeDiscount, d.Reward.Type)
	require.NotNil(t, d.Trigger.MinPurchase)
	assert.Nil(t, d.Trigger.MinQty)

	again, err := d.ToRule()
	require.NoError(t, err)
	assert.Equal(t, rule.Reward, again.Reward)
}

func TestIsLiveInclusiveBounds(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 1, 17, 0, 0, 0, time.UTC)
	rule := entity.PromotionRule{Code: "HAPPY", Active: true, StartAt: &start, EndAt: &end, Reward: entity.AmountReward{}}

	assert.True(t, rule.IsLive(start))
	assert.True(t, rule.IsLive(end))
	assert.False(t, rule.IsLive(start.Add(-time.Second)))
	assert.False(t, rule.IsLive(end.Add(time.Second)))

	rule.Active = false
	assert.False(t, rule.IsLive(start.Add(time.Hour)))
}
