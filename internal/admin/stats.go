package admin

import (
	"context"
	"io"

	"pizzeria-backend/internal/orders"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type UserCounter interface {
	Count(ctx context.Context) (int64, error)
}

type PizzaCounter interface {
	CountPizzas(ctx context.Context) (int64, error)
}

type OrderSource interface {
	Count(ctx context.Context) (int64, error)
	Revenue(ctx context.Context) (decimal.Decimal, error)
	ListAll(ctx context.Context) ([]orders.Order, error)
}

type Stats struct {
	Users    int64           `json:"users"`
	Orders   int64           `json:"orders"`
	Products int64           `json:"products"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type Service struct {
	users  UserCounter
	pizzas PizzaCounter
	orders OrderSource
	logger *zap.Logger
}

func NewService(users UserCounter, pizzas PizzaCounter, orders OrderSource, logger *zap.Logger) *Service {
	return &Service{users: users, pizzas: pizzas, orders: orders, logger: logger}
}

// Stats reads the dashboard counters. Revenue is the sum of stored order totals.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	var err error
	if st.Users, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if st.Orders, err = s.orders.Count(ctx); err != nil {
		return nil, err
	}
	if st.Products, err = s.pizzas.CountPizzas(ctx); err != nil {
		return nil, err
	}
	if st.Revenue, err = s.orders.Revenue(ctx); err != nil {
		return nil, err
	}
	return &st, nil
}

// ExportOrders writes every order, newest first, as an xlsx workbook.
func (s *Service) ExportOrders(ctx context.Context, w io.Writer) error {
	list, err := s.orders.ListAll(ctx)
	if err != nil {
		return err
	}
	file, err := ordersWorkbook(list)
	if err != nil {
		return err
	}
	if err := file.Write(w); err != nil {
		return err
	}
	s.logger.Info("orders exported", zap.Int("count", len(list)))
	return nil
}
