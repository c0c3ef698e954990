package orders

import (
	"errors"
	"testing"
	"time"

	"pizzeria-backend/internal/apperr"
	"pizzeria-backend/internal/cart"
	"pizzeria-backend/internal/catalog"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

func filledCart(t *testing.T) *cart.Cart {
	t.Helper()
	p := catalog.Pizza{
		ID:      "pz1",
		Name:    "Margherita",
		Image:   "m.jpg",
		Pricing: catalog.NewTieredPricing(decimal.NewFromInt(999), decimal.NewFromInt(1299), decimal.NewFromInt(1599)),
	}
	cheese := catalog.Topping{ID: "t1", Name: "Cheese", Price: decimal.NewFromInt(200), IsAvailable: true}

	c := cart.New("u1")
	medium, err := cart.NewLineItem(p, catalog.SizeMedium, nil)
	require.NoError(t, err)
	large, err := cart.NewLineItem(p, catalog.SizeLarge, []catalog.Topping{cheese})
	require.NoError(t, err)
	c.Add(medium)
	c.Add(medium)
	c.Add(large)
	return c
}

func TestBuildOrder(t *testing.T) {
	c := filledCart(t)
	addr := ShippingAddress{Address: " 1 Main St ", City: "Lahore", PostalCode: "54000", Country: "PK"}

	o, err := BuildOrder(c, addr, "cash", "u1", DefaultDeliveryFee, testNow)

	require.NoError(t, err)
	assert.Equal(t, "u1", o.UserID)
	assert.Equal(t, PaymentCash, o.PaymentMethod)
	assert.Equal(t, "1 Main St", o.ShippingAddress.Address)
	require.Len(t, o.Items, 2)
	assert.Equal(t, 2, o.Items[0].Quantity)
	assert.Equal(t, "Margherita", o.Items[0].Name)
	assert.Equal(t, "m.jpg", o.Items[0].Image)
	assert.Equal(t, "4397.00", o.ItemsPrice.StringFixed(2))
	assert.Equal(t, "4597.00", o.TotalPrice.StringFixed(2))
	assert.Equal(t, StatusPending, o.Status())
	assert.Equal(t, testNow, o.CreatedAt)
}

func TestBuildOrder_SnapshotsByValue(t *testing.T) {
	c := filledCart(t)
	o, err := BuildOrder(c, ShippingAddress{}, "Online", "u1", DefaultDeliveryFee, testNow)
	require.NoError(t, err)

	c.Items[0].FinalPrice = decimal.NewFromInt(1)
	c.Items[0].Name = "Renamed"
	c.Items[1].Extras[0].Price = decimal.NewFromInt(9999)
	c.Clear()

	assert.Equal(t, "Margherita", o.Items[0].Name)
	assert.Equal(t, "1299", o.Items[0].Price.String())
	assert.Equal(t, "200", o.Items[1].Extras[0].Price.String())
	assert.Equal(t, "4597.00", o.TotalPrice.StringFixed(2))
}

func TestBuildOrder_Preconditions(t *testing.T) {
	tests := []struct {
		name    string
		cart    *cart.Cart
		payment string
		userID  string
		want    error
	}{
		{"no user", filledCart(t), "Cash", "", apperr.ErrAuthenticationRequired},
		{"blank user", filledCart(t), "Cash", "  ", apperr.ErrAuthenticationRequired},
		{"empty cart", cart.New("u1"), "Cash", "u1", apperr.ErrEmptyCart},
		{"nil cart", nil, "Cash", "u1", apperr.ErrEmptyCart},
		{"bad payment", filledCart(t), "Cheque", "u1", apperr.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildOrder(tt.cart, ShippingAddress{}, tt.payment, tt.userID, DefaultDeliveryFee, testNow)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestOrder_DueForDelivery(t *testing.T) {
	window := 30 * time.Minute
	old := Order{CreatedAt: testNow.Add(-31 * time.Minute)}
	fresh := Order{CreatedAt: testNow.Add(-10 * time.Minute)}
	done := Order{CreatedAt: testNow.Add(-2 * time.Hour), IsDelivered: true}

	assert.True(t, old.DueForDelivery(testNow, window))
	assert.False(t, fresh.DueForDelivery(testNow, window))
	assert.False(t, done.DueForDelivery(testNow, window))
	assert.Equal(t, StatusDelivered, done.Status())
}
