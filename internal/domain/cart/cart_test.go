package cart

import (
	"testing"

	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tea() entity.LineItem {
	return entity.LineItem{ProductCode: "101", ProductName: "Tea", UnitPrice: decimal.NewFromInt(10)}
}

func coffee(variantID, variantName string, price int64) entity.LineItem {
	return entity.LineItem{
		ProductCode: "102",
		ProductName: "Coffee",
		VariantID:   variantID,
		VariantName: variantName,
		UnitPrice:   decimal.NewFromInt(price),
	}
}

func TestAddMergesByIdentityKey(t *testing.T) {
	c := New()
	c.Add(tea(), 2)
	c.Add(tea(), 3)

	require.Equal(t, 1, c.Len())
	line, ok := c.Get("101:base")
	require.True(t, ok)
	assert.Equal(t, 5, line.Quantity)
}

func TestAddKeepsVariantsApart(t *testing.T) {
	c := New()
	c.Add(coffee("s", "Small", 20), 1)
	c.Add(coffee("l", "Large", 30), 1)
	c.Add(coffee("s", "Small", 20), 1)

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "102:s", items[0].Key())
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "102:l", items[1].Key())
}

func TestAddClampsQuantity(t *testing.T) {
	c := New()
	c.Add(tea(), 0)
	c.Add(tea(), -4)

	line, _ := c.Get("101:base")
	assert.Equal(t, 2, line.Quantity)
}

func TestAddKeepsPriceCapturedAtFirstAdd(t *testing.T) {
	c := New()
	c.Add(tea(), 1)
	repriced := tea()
	repriced.UnitPrice = decimal.NewFromInt(99)
	c.Add(repriced, 1)

	line, _ := c.Get("101:base")
	assert.True(t, line.UnitPrice.Equal(decimal.NewFromInt(10)))
}

func TestDecrementFloorsAtOne(t *testing.T) {
	c := New()
	c.Add(tea(), 2)
	for i := 0; i < 5; i++ {
		c.Decrement("101:base")
	}

	line, ok := c.Get("101:base")
	require.True(t, ok)
	assert.Equal(t, 1, line.Quantity)
}

func TestIncrementAndRemove(t *testing.T) {
	c := New()
	c.Add(tea(), 1)
	c.Increment("101:base")
	line, _ := c.Get("101:base")
	assert.Equal(t, 2, line.Quantity)

	c.Remove("101:base")
	assert.True(t, c.IsEmpty())
}

func TestUnknownKeyIsNoop(t *testing.T) {
	c := New()
	c.Add(tea(), 1)
	c.Remove("101:base")

	c.Increment("101:base")
	c.Decrement("101:base")
	c.Remove("101:base")
	assert.True(t, c.IsEmpty())
}

func TestClear(t *testing.T) {
	c := New()
	c.Add(tea(), 3)
	c.Add(coffee("s", "Small", 20), 1)
	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.True(t, c.Subtotal().IsZero())
}

func TestItemsReturnsCopy(t *testing.T) {
	c := New()
	c.Add(tea(), 1)
	items := c.Items()
	items[0].Quantity = 42

	line, _ := c.Get("101:base")
	assert.Equal(t, 1, line.Quantity)
}

func TestSubtotal(t *testing.T) {
	c := New()
	c.Add(tea(), 3)
	c.Add(coffee("l", "Large", 30), 2)

	assert.Equal(t, "90", c.Subtotal().String())
}

func TestMutationInvalidatesAppliedPromotion(t *testing.T) {
	mutations := map[string]func(c *Cart){
		"add":       func(c *Cart) { c.Add(tea(), 1) },
		"increment": func(c *Cart) { c.Increment("101:base") },
		"decrement": func(c *Cart) { c.Decrement("101:base") },
		"remove":    func(c *Cart) { c.Remove("101:base") },
		"clear":     func(c *Cart) { c.Clear() },
		"noop":      func(c *Cart) { c.Increment("missing:base") },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			c := New()
			c.Add(tea(), 3)
			c.ApplyPromotion(entity.PromotionResult{Valid: true, Code: "TEN", DiscountAmount: decimal.NewFromInt(3)})
			require.NotNil(t, c.AppliedPromotion())

			mutate(c)
			assert.Nil(t, c.AppliedPromotion())
		})
	}
}

func TestSnapshotRoundTripKeepsPromotionForSameRevision(t *testing.T) {
	c := New()
	c.Add(tea(), 3)
	c.ApplyPromotion(entity.PromotionResult{Valid: true, Code: "TEN", DiscountAmount: decimal.NewFromInt(3)})

	restored := Restore(c.Snapshot())
	assert.Equal(t, c.Revision(), restored.Revision())
	require.NotNil(t, restored.AppliedPromotion())
	assert.Equal(t, "TEN", restored.AppliedPromotion().Code)
	assert.Equal(t, c.Items(), restored.Items())
}

func TestRestoreDropsStalePromotion(t *testing.T) {
	s := Snapshot{
		Items:    []entity.LineItem{{ProductCode: "101", ProductName: "Tea", UnitPrice: decimal.NewFromInt(10), Quantity: 1}},
		Revision: 4,
		Applied:  &AppliedPromotion{Revision: 3, Result: entity.PromotionResult{Valid: true, Code: "OLD"}},
	}

	assert.Nil(t, Restore(s).AppliedPromotion())
}
