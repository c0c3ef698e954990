package admin

import (
	"fmt"
	"strings"

	"pizzeria-backend/internal/orders"

	"github.com/tealeg/xlsx"
)

var orderColumns = []string{
	"Order ID", "Customer", "Email", "Items", "Payment", "Address", "City",
	"Postal Code", "Country", "Items Price", "Delivery Fee", "Total", "Status", "Created At",
}

func ordersWorkbook(list []orders.Order) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, err
	}

	header := sheet.AddRow()
	for _, h := range orderColumns {
		header.AddCell().SetValue(h)
	}

	for _, o := range list {
		name, email := "", ""
		if o.User != nil {
			name, email = o.User.Name, o.User.Email
		}
		row := sheet.AddRow()
		row.AddCell().SetValue(o.ID)
		row.AddCell().SetValue(name)
		row.AddCell().SetValue(email)
		row.AddCell().SetValue(itemSummary(o.Items))
		row.AddCell().SetValue(string(o.PaymentMethod))
		row.AddCell().SetValue(o.ShippingAddress.Address)
		row.AddCell().SetValue(o.ShippingAddress.City)
		row.AddCell().SetValue(o.ShippingAddress.PostalCode)
		row.AddCell().SetValue(o.ShippingAddress.Country)
		row.AddCell().SetValue(o.ItemsPrice.StringFixed(2))
		row.AddCell().SetValue(o.DeliveryFee.StringFixed(2))
		row.AddCell().SetValue(o.TotalPrice.StringFixed(2))
		row.AddCell().SetValue(string(o.Status()))
		row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return file, nil
}

func itemSummary(items []orders.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		label := it.Name
		if it.Size != "" {
			label += " (" + string(it.Size) + ")"
		}
		parts = append(parts, fmt.Sprintf("%dx %s", it.Quantity, label))
	}
	return strings.Join(parts, ", ")
}
