package orders

import (
	"strings"
	"time"

	"pizzeria-backend/internal/apperr"
	"pizzeria-backend/internal/cart"
	"pizzeria-backend/internal/catalog"

	"github.com/shopspring/decimal"
)

var DefaultDeliveryFee = decimal.NewFromInt(200)

// BuildOrder turns a cart into an unsaved order. Lines are copied by value so
// later catalog or cart changes never reach the order.
func BuildOrder(c *cart.Cart, shipping ShippingAddress, payment, userID string, fee decimal.Decimal, now time.Time) (*Order, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.AuthenticationRequired("Please log in to place an order")
	}
	if c == nil || c.IsEmpty() {
		return nil, apperr.EmptyCart()
	}
	method, err := ParsePaymentMethod(payment)
	if err != nil {
		return nil, err
	}

	items := make([]OrderItem, 0, len(c.Items))
	subtotal := decimal.Zero
	for _, li := range c.Items {
		if li.Quantity < 1 {
			continue
		}
		items = append(items, OrderItem{
			Name:     li.Name,
			Price:    li.FinalPrice,
			Quantity: li.Quantity,
			Image:    li.Image,
			Size:     li.Size,
			Extras:   append([]catalog.ToppingRef(nil), li.Extras...),
		})
		subtotal = subtotal.Add(li.Subtotal())
	}
	if len(items) == 0 {
		return nil, apperr.EmptyCart()
	}

	return &Order{
		UserID: userID,
		Items:  items,
		ShippingAddress: ShippingAddress{
			Address:    strings.TrimSpace(shipping.Address),
			City:       strings.TrimSpace(shipping.City),
			PostalCode: strings.TrimSpace(shipping.PostalCode),
			Country:    strings.TrimSpace(shipping.Country),
		},
		PaymentMethod: method,
		ItemsPrice:    subtotal.Round(2),
		DeliveryFee:   fee,
		TotalPrice:    subtotal.Add(fee).Round(2),
		CreatedAt:     now.UTC(),
	}, nil
}
