package catalog

import (
	"context"
	"strings"

	"pizzeria-backend/internal/apperr"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// PriceTable is the admin-facing shape of tiered pricing.
type PriceTable struct {
	Small  decimal.Decimal `json:"small"`
	Medium decimal.Decimal `json:"medium"`
	Large  decimal.Decimal `json:"large"`
}

type PizzaInput struct {
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Prices       *PriceTable      `json:"prices"`
	Price        *decimal.Decimal `json:"price"`
	Image        string           `json:"image"`
	Category     string           `json:"category"`
	Rating       float64          `json:"rating"`
	IsNewArrival bool             `json:"isNewArrival"`
}

// Pizza validates the input and builds the catalog item it describes.
func (in PizzaInput) Pizza() (Pizza, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Pizza{}, apperr.Validation("name is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return Pizza{}, apperr.Validation("description is required")
	}
	category, err := ParseCategory(in.Category)
	if err != nil {
		return Pizza{}, err
	}
	if in.Rating < 0 || in.Rating > 5 {
		return Pizza{}, apperr.Validation("rating must be between 0 and 5")
	}

	var pricing Pricing
	switch {
	case in.Prices != nil:
		for _, p := range []decimal.Decimal{in.Prices.Small, in.Prices.Medium, in.Prices.Large} {
			if !p.IsPositive() {
				return Pizza{}, apperr.Validation("prices must be positive")
			}
		}
		pricing = NewTieredPricing(in.Prices.Small, in.Prices.Medium, in.Prices.Large)
	case in.Price != nil:
		if !in.Price.IsPositive() {
			return Pizza{}, apperr.Validation("price must be positive")
		}
		pricing = LegacyPricing{Price: *in.Price}
	default:
		return Pizza{}, apperr.Validation("prices are required")
	}

	return Pizza{
		Name:         name,
		Description:  strings.TrimSpace(in.Description),
		Pricing:      pricing,
		Image:        in.Image,
		Category:     category,
		Rating:       in.Rating,
		IsNewArrival: in.IsNewArrival,
	}, nil
}

type ToppingInput struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable *bool           `json:"isAvailable"`
}

func (in ToppingInput) Topping() (Topping, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Topping{}, apperr.Validation("name is required")
	}
	if in.Price.IsNegative() {
		return Topping{}, apperr.Validation("price cannot be negative")
	}
	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}
	return Topping{Name: name, Price: in.Price, IsAvailable: available}, nil
}

func (s *Service) ListPizzas(ctx context.Context) ([]Pizza, error) {
	return s.repo.ListPizzas(ctx)
}

func (s *Service) GetPizza(ctx context.Context, id string) (*Pizza, error) {
	return s.repo.GetPizza(ctx, id)
}

func (s *Service) AddPizza(ctx context.Context, in PizzaInput) (*Pizza, error) {
	p, err := in.Pizza()
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreatePizza(ctx, &p); err != nil {
		return nil, err
	}
	s.logger.Info("pizza added", zap.String("pizza_id", p.ID), zap.String("name", p.Name))
	return &p, nil
}

func (s *Service) UpdatePizza(ctx context.Context, id string, in PizzaInput) (*Pizza, error) {
	p, err := in.Pizza()
	if err != nil {
		return nil, err
	}
	p.ID = id
	if err := s.repo.UpdatePizza(ctx, &p); err != nil {
		return nil, err
	}
	s.logger.Info("pizza updated", zap.String("pizza_id", id))
	return &p, nil
}

func (s *Service) DeletePizza(ctx context.Context, id string) error {
	if err := s.repo.DeletePizza(ctx, id); err != nil {
		return err
	}
	s.logger.Info("pizza deleted", zap.String("pizza_id", id))
	return nil
}

func (s *Service) CountPizzas(ctx context.Context) (int64, error) {
	return s.repo.CountPizzas(ctx)
}

func (s *Service) ListToppings(ctx context.Context) ([]Topping, error) {
	return s.repo.ListToppings(ctx)
}

func (s *Service) AddTopping(ctx context.Context, in ToppingInput) (*Topping, error) {
	t, err := in.Topping()
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateTopping(ctx, &t); err != nil {
		return nil, err
	}
	s.logger.Info("topping added", zap.String("topping_id", t.ID), zap.String("name", t.Name))
	return &t, nil
}

// Toppings resolves selected extra ids, in the order given. Unknown or
// unavailable toppings are rejected.
func (s *Service) Toppings(ctx context.Context, ids []string) ([]Topping, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := s.repo.FindToppings(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]Topping, len(found))
	for _, t := range found {
		byID[t.ID] = t
	}
	out := make([]Topping, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		t, ok := byID[id]
		if !ok {
			return nil, apperr.Validation("unknown topping %q", id)
		}
		if !t.IsAvailable {
			return nil, apperr.Validation("topping %q is not available", t.Name)
		}
		if t.Unpriced {
			return nil, apperr.Configuration("topping %q has no valid price", t.Name)
		}
		out = append(out, t)
	}
	return out, nil
}

type Menu struct {
	Pizzas   []Pizza   `json:"pizzas"`
	Toppings []Topping `json:"toppings"`
}

// Menu lists pizzas and toppings. A failed topping read is logged and
// served as an empty extras list rather than failing the whole menu.
func (s *Service) Menu(ctx context.Context) (*Menu, error) {
	pizzas, err := s.repo.ListPizzas(ctx)
	if err != nil {
		return nil, err
	}
	toppings, err := s.repo.ListToppings(ctx)
	if err != nil {
		s.logger.Warn("toppings unavailable, serving menu without extras", zap.Error(err))
		toppings = []Topping{}
	}
	if pizzas == nil {
		pizzas = []Pizza{}
	}
	if toppings == nil {
		toppings = []Topping{}
	}
	return &Menu{Pizzas: pizzas, Toppings: toppings}, nil
}

// Quote prices a configuration without touching any cart.
func (s *Service) Quote(ctx context.Context, pizzaID, size string, extraIDs []string) (decimal.Decimal, error) {
	pizza, err := s.repo.GetPizza(ctx, pizzaID)
	if err != nil {
		return decimal.Zero, err
	}
	sz, err := RequestedSize(size)
	if err != nil {
		return decimal.Zero, err
	}
	extras, err := s.Toppings(ctx, extraIDs)
	if err != nil {
		return decimal.Zero, err
	}
	return ComputeLinePrice(*pizza, sz, extras)
}
