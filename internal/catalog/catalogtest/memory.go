// Package catalogtest provides an in-memory catalog.Repository for tests.
package catalogtest

import (
	"context"
	"fmt"
	"sync"

	"pizzeria-backend/internal/apperr"
	"pizzeria-backend/internal/catalog"
)

type Repository struct {
	mu       sync.Mutex
	seq      int
	pizzas   []catalog.Pizza
	toppings []catalog.Topping

	// ToppingsErr, when set, is returned by every topping read.
	ToppingsErr error
}

func New() *Repository {
	return &Repository{}
}

func (r *Repository) nextID(prefix string) string {
	r.seq++
	return fmt.Sprintf("%s%04d", prefix, r.seq)
}

// AddPizza stores p and returns it with an id assigned.
func (r *Repository) AddPizza(p catalog.Pizza) catalog.Pizza {
	_ = r.CreatePizza(context.Background(), &p)
	return p
}

func (r *Repository) AddTopping(t catalog.Topping) catalog.Topping {
	_ = r.CreateTopping(context.Background(), &t)
	return t
}

func (r *Repository) ListPizzas(ctx context.Context) ([]catalog.Pizza, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]catalog.Pizza(nil), r.pizzas...), nil
}

func (r *Repository) GetPizza(ctx context.Context, id string) (*catalog.Pizza, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.pizzas {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, apperr.NotFound("Pizza")
}

func (r *Repository) CreatePizza(ctx context.Context, p *catalog.Pizza) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextID("pz")
	r.pizzas = append(r.pizzas, *p)
	return nil
}

func (r *Repository) CreatePizzas(ctx context.Context, ps []catalog.Pizza) error {
	for i := range ps {
		if err := r.CreatePizza(ctx, &ps[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) UpdatePizza(ctx context.Context, p *catalog.Pizza) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.pizzas {
		if r.pizzas[i].ID == p.ID {
			r.pizzas[i] = *p
			return nil
		}
	}
	return apperr.NotFound("Pizza")
}

func (r *Repository) DeletePizza(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.pizzas {
		if r.pizzas[i].ID == id {
			r.pizzas = append(r.pizzas[:i], r.pizzas[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Pizza")
}

func (r *Repository) CountPizzas(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.pizzas)), nil
}

func (r *Repository) ListToppings(ctx context.Context) ([]catalog.Topping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ToppingsErr != nil {
		return nil, r.ToppingsErr
	}
	return append([]catalog.Topping(nil), r.toppings...), nil
}

func (r *Repository) FindToppings(ctx context.Context, ids []string) ([]catalog.Topping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ToppingsErr != nil {
		return nil, r.ToppingsErr
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []catalog.Topping
	for _, t := range r.toppings {
		if want[t.ID] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *Repository) CreateTopping(ctx context.Context, t *catalog.Topping) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = r.nextID("tp")
	r.toppings = append(r.toppings, *t)
	return nil
}

func (r *Repository) CreateToppings(ctx context.Context, ts []catalog.Topping) error {
	for i := range ts {
		if err := r.CreateTopping(ctx, &ts[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) CountToppings(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.toppings)), nil
}
