package cart

import (
	"testing"

	"pizzeria-backend/internal/catalog"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func margherita() catalog.Pizza {
	return catalog.Pizza{
		ID:      "pz1",
		Name:    "Margherita",
		Pricing: catalog.NewTieredPricing(decimal.NewFromInt(999), decimal.NewFromInt(1299), decimal.NewFromInt(1599)),
	}
}

func topping(id string, price int64) catalog.Topping {
	return catalog.Topping{ID: id, Name: id, Price: decimal.NewFromInt(price), IsAvailable: true}
}

func line(t *testing.T, size catalog.Size, extras ...catalog.Topping) LineItem {
	t.Helper()
	li, err := NewLineItem(margherita(), size, extras)
	require.NoError(t, err)
	return li
}

func TestLineItemID_OrderIndependent(t *testing.T) {
	perms := [][]string{
		{"a", "b", "c"},
		{"c", "b", "a"},
		{"b", "a", "c"},
		{"c", "a", "b"},
	}
	want := LineItemID("pz1", catalog.SizeLarge, perms[0])
	for _, p := range perms[1:] {
		assert.Equal(t, want, LineItemID("pz1", catalog.SizeLarge, p))
	}
	assert.Equal(t, "pz1-Large-a-b-c", want)
	assert.Equal(t, "pz1-Small-", LineItemID("pz1", catalog.SizeSmall, nil))
}

func TestLineItemID_DoesNotReorderInput(t *testing.T) {
	ids := []string{"b", "a"}
	LineItemID("pz1", catalog.SizeSmall, ids)
	assert.Equal(t, []string{"b", "a"}, ids)
}

func TestNewLineItem(t *testing.T) {
	li := line(t, catalog.SizeLarge, topping("t2", 150), topping("t1", 200))

	assert.Equal(t, "1949.00", li.FinalPrice.StringFixed(2))
	assert.Equal(t, 1, li.Quantity)
	assert.Equal(t, "pz1-Large-t1-t2", li.CartItemID)
	require.Len(t, li.Extras, 2)
	assert.Equal(t, "t1", li.Extras[0].ID)
}

func TestCart_AddMergesSameConfiguration(t *testing.T) {
	c := New("u1")

	c.Add(line(t, catalog.SizeMedium))
	c.Add(line(t, catalog.SizeMedium))
	c.Add(line(t, catalog.SizeLarge))

	require.Len(t, c.Items, 2)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.Equal(t, "1299", c.Items[0].FinalPrice.String())
	assert.Equal(t, 1, c.Items[1].Quantity)
	assert.Equal(t, "1599", c.Items[1].FinalPrice.String())
	assert.Equal(t, 3, c.Count())
	assert.Equal(t, "4197", c.Total().String())
}

func TestCart_AddIgnoresIncomingPriceOnMerge(t *testing.T) {
	c := New("u1")
	first := line(t, catalog.SizeSmall)
	c.Add(first)

	stale := first
	stale.FinalPrice = decimal.NewFromInt(1)
	stale.Quantity = 7
	c.Add(stale)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.True(t, c.Items[0].FinalPrice.Equal(first.FinalPrice))
}

func TestCart_AddWithDifferentExtraOrderMerges(t *testing.T) {
	c := New("u1")
	c.Add(line(t, catalog.SizeSmall, topping("x", 100), topping("y", 50)))
	c.Add(line(t, catalog.SizeSmall, topping("y", 50), topping("x", 100)))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
}

func TestCart_RemoveAndUpdateQuantity(t *testing.T) {
	c := New("u1")
	li := line(t, catalog.SizeMedium)
	c.Add(li)

	c.Remove("missing")
	assert.Len(t, c.Items, 1)

	c.UpdateQuantity(li.CartItemID, 4)
	assert.Equal(t, 4, c.Count())
	assert.Equal(t, "5196", c.Total().String())

	c.UpdateQuantity("missing", 3)
	assert.Equal(t, 4, c.Count())

	c.UpdateQuantity(li.CartItemID, 0)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.Count())
	assert.True(t, c.Total().IsZero())
}

func TestCart_UpdateQuantityNegativeRemoves(t *testing.T) {
	c := New("u1")
	li := line(t, catalog.SizeMedium)
	c.Add(li)

	c.UpdateQuantity(li.CartItemID, -3)

	assert.True(t, c.IsEmpty())
}

func TestCart_TotalMatchesSumOfLines(t *testing.T) {
	c := New("u1")
	small := line(t, catalog.SizeSmall)
	large := line(t, catalog.SizeLarge, topping("t1", 200))

	ops := []func(){
		func() { c.Add(small) },
		func() { c.Add(large) },
		func() { c.Add(small) },
		func() { c.UpdateQuantity(large.CartItemID, 3) },
		func() { c.Remove(small.CartItemID) },
		func() { c.Add(small) },
		func() { c.UpdateQuantity(small.CartItemID, 0) },
		func() { c.Clear() },
		func() { c.Add(large) },
	}
	for i, op := range ops {
		op()
		sum := decimal.Zero
		count := 0
		for _, li := range c.Items {
			sum = sum.Add(li.FinalPrice.Mul(decimal.NewFromInt(int64(li.Quantity))))
			count += li.Quantity
		}
		assert.True(t, sum.Equal(c.Total()), "step %d", i)
		assert.Equal(t, count, c.Count(), "step %d", i)
	}
}

func TestCart_CloneIsDeep(t *testing.T) {
	c := New("u1")
	c.Add(line(t, catalog.SizeSmall, topping("t1", 200)))

	cp := c.Clone()
	cp.Items[0].Quantity = 9
	cp.Items[0].Extras[0].Name = "changed"

	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.Equal(t, "t1", c.Items[0].Extras[0].Name)
}

func TestCart_DeductLeavesUnorderedLines(t *testing.T) {
	c := New("u1")
	c.Add(line(t, catalog.SizeSmall))
	c.Add(line(t, catalog.SizeSmall))
	ordered := c.Clone().Items

	c.Add(line(t, catalog.SizeLarge))
	c.Add(line(t, catalog.SizeSmall))

	c.Deduct(ordered)

	require.Len(t, c.Items, 2)
	assert.Equal(t, catalog.SizeSmall, c.Items[0].Size)
	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.Equal(t, catalog.SizeLarge, c.Items[1].Size)

	c.Deduct(c.Clone().Items)
	assert.True(t, c.IsEmpty())

	c.Deduct(ordered)
	assert.True(t, c.IsEmpty())
}
