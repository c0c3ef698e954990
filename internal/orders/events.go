package orders

import "github.com/shopspring/decimal"

const (
	TopicOrderCreated = "order.created"
	EventOrderCreated = "OrderCreated"
)

// PartitionKey keeps all events of one order on one partition.
func PartitionKey(orderID string) []byte { return []byte(orderID) }

type ItemPrice struct {
	Name     string          `json:"name"`
	Size     string          `json:"size,omitempty"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type OrderCreatedPayload struct {
	OrderID       string          `json:"order_id"`
	UserID        string          `json:"user_id"`
	Items         []ItemPrice     `json:"items"`
	PaymentMethod string          `json:"payment_method"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

func createdPayload(o *Order) OrderCreatedPayload {
	items := make([]ItemPrice, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, ItemPrice{Name: it.Name, Size: string(it.Size), Quantity: it.Quantity, Price: it.Price})
	}
	return OrderCreatedPayload{
		OrderID:       o.ID,
		UserID:        o.UserID,
		Items:         items,
		PaymentMethod: string(o.PaymentMethod),
		TotalPrice:    o.TotalPrice,
	}
}
