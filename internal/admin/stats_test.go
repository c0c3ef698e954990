package admin_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"pizzeria-backend/internal/admin"
	"pizzeria-backend/internal/catalog"
	"pizzeria-backend/internal/catalog/catalogtest"
	"pizzeria-backend/internal/orders"
	"pizzeria-backend/internal/orders/orderstest"
	"pizzeria-backend/internal/users"
	"pizzeria-backend/internal/users/userstest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"
)

var now = time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

func setup(t *testing.T) (*admin.Service, *orderstest.Repository) {
	t.Helper()
	cat := catalogtest.New()
	for _, p := range catalog.DefaultPizzas()[:3] {
		cat.AddPizza(p)
	}
	people := userstest.New()
	alice := people.Insert(users.User{Name: "Alice", Email: "alice@example.com", CreatedAt: now})
	people.Insert(users.User{Name: "Bob", Email: "bob@example.com", CreatedAt: now})

	repo := orderstest.New()
	repo.Customers[alice.ID] = orders.Customer{ID: alice.ID, Name: "Alice", Email: "alice@example.com"}
	repo.Insert(orders.Order{
		UserID:        alice.ID,
		Items:         []orders.OrderItem{{Name: "Margherita Supreme", Size: catalog.SizeLarge, Price: decimal.NewFromInt(1799), Quantity: 2}},
		PaymentMethod: orders.PaymentCash,
		ItemsPrice:    decimal.NewFromInt(3598),
		DeliveryFee:   decimal.NewFromInt(200),
		TotalPrice:    decimal.NewFromInt(3798),
		CreatedAt:     now.Add(-time.Hour),
	})
	repo.Insert(orders.Order{
		UserID:     alice.ID,
		Items:      []orders.OrderItem{{Name: "BBQ Chicken", Price: decimal.RequireFromString("1399.50"), Quantity: 1}},
		TotalPrice: decimal.RequireFromString("1599.50"),
		CreatedAt:  now.Add(-time.Minute),
	})

	svc := orders.NewService(repo, nil, zap.NewNop(), orders.Options{Now: func() time.Time { return now }})
	return admin.NewService(people, catalog.NewService(cat, zap.NewNop()), svc, zap.NewNop()), repo
}

func TestStats(t *testing.T) {
	svc, _ := setup(t)

	st, err := svc.Stats(context.Background())

	require.NoError(t, err)
	assert.EqualValues(t, 2, st.Users)
	assert.EqualValues(t, 2, st.Orders)
	assert.EqualValues(t, 3, st.Products)
	assert.Equal(t, "5397.50", st.Revenue.StringFixed(2))
}

func TestExportOrders(t *testing.T) {
	svc, _ := setup(t)
	var buf bytes.Buffer

	require.NoError(t, svc.ExportOrders(context.Background(), &buf))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	rows := file.Sheets[0].Rows
	require.Len(t, rows, 3)
	assert.Equal(t, "Order ID", rows[0].Cells[0].Value)

	newest := rows[1].Cells
	assert.Equal(t, "1x BBQ Chicken", newest[3].Value)
	assert.Equal(t, "Pending", newest[12].Value)

	oldest := rows[2].Cells
	assert.Equal(t, "Alice", oldest[1].Value)
	assert.Equal(t, "2x Margherita Supreme (Large)", oldest[3].Value)
	assert.Equal(t, "3798.00", oldest[11].Value)
	assert.Equal(t, "Delivered", oldest[12].Value)
}
