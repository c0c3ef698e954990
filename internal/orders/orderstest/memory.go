// Package orderstest provides an in-memory orders.Repository for tests.
package orderstest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"pizzeria-backend/internal/apperr"
	"pizzeria-backend/internal/orders"

	"github.com/shopspring/decimal"
)

type Repository struct {
	mu     sync.Mutex
	seq    int
	orders []orders.Order

	// Customers is joined onto orders when a query asks for it.
	Customers map[string]orders.Customer
	// CreateErr, when set, fails every Create without storing anything.
	CreateErr error
	// Sweeps counts MarkDelivered calls.
	Sweeps int
}

func New() *Repository {
	return &Repository{Customers: map[string]orders.Customer{}}
}

// Insert stores o as is, keeping its CreatedAt and delivery flag.
func (r *Repository) Insert(o orders.Order) orders.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	o.ID = fmt.Sprintf("or%04d", r.seq)
	r.orders = append(r.orders, o)
	return o
}

func (r *Repository) Create(ctx context.Context, o *orders.Order) error {
	if r.CreateErr != nil {
		return r.CreateErr
	}
	stored := r.Insert(*o)
	o.ID = stored.ID
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*orders.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ID == id {
			o := o
			return &o, nil
		}
	}
	return nil, apperr.NotFound("Order")
}

func (r *Repository) MarkDelivered(ctx context.Context, userID string, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sweeps++
	var n int64
	for i := range r.orders {
		o := &r.orders[i]
		if userID != "" && o.UserID != userID {
			continue
		}
		if !o.IsDelivered && o.CreatedAt.Before(before) {
			o.IsDelivered = true
			n++
		}
	}
	return n, nil
}

func (r *Repository) List(ctx context.Context, q orders.Query) ([]orders.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []orders.Order{}
	for _, o := range r.orders {
		if q.UserID != "" && o.UserID != q.UserID {
			continue
		}
		if q.WithCustomer {
			if c, ok := r.Customers[o.UserID]; ok {
				c := c
				o.User = &c
			}
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.orders)), nil
}

func (r *Repository) Revenue(ctx context.Context) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, o := range r.orders {
		total = total.Add(o.TotalPrice)
	}
	return total, nil
}
