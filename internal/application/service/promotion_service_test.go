package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/promotion"
	"github.com/sangkips/tablepos-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromotionSaveRejectsMalformedRule(t *testing.T) {
	f := newFixture(t, 0)

	_, err := f.promotions.Save(context.Background(), promotion.Definition{
		Code: "BROKEN",
		Type: "PERCENT",
		Reward: promotion.RewardDefinition{
			Percent: decPtr("150"),
		},
	})

	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
	require.NotEmpty(t, appErr.Errors)
	assert.Equal(t, "reward.percent", appErr.Errors[0].Field)
}

func TestPromotionSavePrunesForeignFields(t *testing.T) {
	f := newFixture(t, 0)
	def := percentRule(" save10 ", "10")
	def.Reward.BuyQty = intPtr(3)
	def.Reward.RewardProductCode = "500"

	stored, err := f.promotions.Save(context.Background(), def)
	require.NoError(t, err)

	assert.Equal(t, "SAVE10", stored.Code)
	_, isPercent := stored.Reward.(entity.PercentReward)
	assert.True(t, isPercent)

	wire := promotion.FromRule(stored)
	assert.Nil(t, wire.Reward.BuyQty)
	assert.Empty(t, wire.Reward.RewardProductCode)
}

func TestPromotionGetAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	f.saveRule(t, percentRule("SAVE10", "10"))

	rule, err := f.promotions.Get(ctx, "save10")
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", rule.Code)

	require.NoError(t, f.promotions.Delete(ctx, "SAVE10"))

	_, err = f.promotions.Get(ctx, "SAVE10")
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)

	err = f.promotions.Delete(ctx, "SAVE10")
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestPromotionApplyScenarios(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	f.saveRule(t, percentRule("SAVE10", "10"))
	f.saveRule(t, bogoRule("BOGO", "101"))
	f.saveRule(t, itemFreeRule("SWEET", "101", "500", 2))

	minSpend := percentRule("BIG50", "10")
	minSpend.Trigger.MinPurchase = decPtr("50")
	f.saveRule(t, minSpend)

	t.Run("percent", func(t *testing.T) {
		res, err := f.promotions.Apply(ctx, "save10", []ItemInput{{ProductCode: "101", Quantity: 3}})
		require.NoError(t, err)
		assert.True(t, res.Valid)
		assert.True(t, res.DiscountAmount.Equal(dec("3.00")))
	})

	t.Run("bogo", func(t *testing.T) {
		res, err := f.promotions.Apply(ctx, "BOGO", []ItemInput{{ProductCode: "101", Quantity: 4}})
		require.NoError(t, err)
		assert.True(t, res.Valid)
		assert.True(t, res.DiscountAmount.Equal(dec("20")))
		assert.Empty(t, res.FreeItems)
	})

	t.Run("item free", func(t *testing.T) {
		res, err := f.promotions.Apply(ctx, "SWEET", []ItemInput{{ProductCode: "101", Quantity: 4}})
		require.NoError(t, err)
		require.True(t, res.Valid)
		assert.True(t, res.DiscountAmount.IsZero())
		require.Len(t, res.FreeItems, 1)
		assert.Equal(t, entity.FreeItem{ProductCode: "500", Name: "Gulab Jamun", Quantity: 2}, res.FreeItems[0])
	})

	t.Run("empty cart under minimum", func(t *testing.T) {
		res, err := f.promotions.Apply(ctx, "BIG50", nil)
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Equal(t, promotion.MessageMinimumNotMet, res.Message)
		assert.True(t, res.DiscountAmount.IsZero())
	})

	t.Run("unknown code", func(t *testing.T) {
		res, err := f.promotions.Apply(ctx, "NOPE", []ItemInput{{ProductCode: "101", Quantity: 1}})
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Equal(t, promotion.MessageInvalidCode, res.Message)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := f.promotions.Apply(ctx, "SAVE10", []ItemInput{{ProductCode: "999", Quantity: 1}})
		assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
	})
}

func TestPromotionOutsideWindowIsInvalid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)

	expired := percentRule("OLD", "10")
	end := testNow.Add(-time.Hour)
	expired.EndAt = &end
	f.saveRule(t, expired)

	res, err := f.promotions.Apply(ctx, "OLD", []ItemInput{{ProductCode: "101", Quantity: 1}})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, promotion.MessageInvalidCode, res.Message)
}
