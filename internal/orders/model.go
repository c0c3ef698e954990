package orders

import (
	"strings"
	"time"

	"pizzeria-backend/internal/apperr"
	"pizzeria-backend/internal/catalog"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "Cash"
	PaymentOnline PaymentMethod = "Online"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	for _, m := range []PaymentMethod{PaymentCash, PaymentOnline} {
		if strings.EqualFold(strings.TrimSpace(s), string(m)) {
			return m, nil
		}
	}
	return "", apperr.Validation("payment method must be Cash or Online")
}

type Status string

const (
	StatusPending   Status = "Pending"
	StatusDelivered Status = "Delivered"
)

type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// OrderItem is a cart line frozen at checkout time.
type OrderItem struct {
	Name     string               `json:"name"`
	Price    decimal.Decimal      `json:"price"`
	Quantity int                  `json:"quantity"`
	Image    string               `json:"image,omitempty"`
	Size     catalog.Size         `json:"size,omitempty"`
	Extras   []catalog.ToppingRef `json:"extras,omitempty"`
}

// Customer is the owning user's display data, attached on admin listings.
type Customer struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Order struct {
	ID              string          `json:"_id"`
	UserID          string          `json:"userId"`
	User            *Customer       `json:"user,omitempty"`
	Items           []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	ItemsPrice      decimal.Decimal `json:"itemsPrice"`
	DeliveryFee     decimal.Decimal `json:"deliveryFee"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	IsDelivered     bool            `json:"isDelivered"`
	CreatedAt       time.Time       `json:"createdAt"`
}

func (o *Order) Status() Status {
	if o.IsDelivered {
		return StatusDelivered
	}
	return StatusPending
}

// DueForDelivery reports whether a pending order has outlived the delivery window.
func (o *Order) DueForDelivery(now time.Time, window time.Duration) bool {
	return !o.IsDelivered && o.CreatedAt.Before(now.Add(-window))
}
