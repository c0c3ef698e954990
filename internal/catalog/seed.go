package catalog

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func tiered(small, medium, large int64) TieredPricing {
	return NewTieredPricing(decimal.NewFromInt(small), decimal.NewFromInt(medium), decimal.NewFromInt(large))
}

// DefaultPizzas is the starter menu inserted into an empty catalog.
func DefaultPizzas() []Pizza {
	return []Pizza{
		{
			Name:         "Margherita Supreme",
			Description:  "Classic tomato sauce, fresh mozzarella, basil, and extra virgin olive oil.",
			Pricing:      tiered(999, 1299, 1599),
			Image:        "https://images.unsplash.com/photo-1574071318508-1cdbab80d002",
			Category:     CategoryVegetarian,
			Rating:       4.8,
			IsNewArrival: true,
		},
		{
			Name:        "Pepperoni Feast",
			Description: "Double pepperoni, mozzarella, and our signature tomato sauce.",
			Pricing:     tiered(1199, 1499, 1799),
			Image:       "https://images.unsplash.com/photo-1628840042765-356cda07504e",
			Category:    CategoryMeat,
			Rating:      4.9,
		},
		{
			Name:        "BBQ Chicken",
			Description: "Grilled chicken, red onions, cilantro, and tangy BBQ sauce.",
			Pricing:     tiered(1399, 1699, 1999),
			Image:       "https://images.unsplash.com/photo-1565299624946-b28f40a0ae38",
			Category:    CategoryChicken,
			Rating:      4.7,
		},
		{
			Name:        "Veggie Paradise",
			Description: "Bell peppers, onions, mushrooms, olives, and spinach.",
			Pricing:     tiered(1099, 1399, 1699),
			Image:       "https://images.unsplash.com/photo-1513104890138-7c749659a591",
			Category:    CategoryVegetarian,
			Rating:      4.6,
		},
		{
			Name:         "Hawaiian Sunset",
			Description:  "Ham, pineapple, bacon, and extra cheese.",
			Pricing:      tiered(1249, 1549, 1849),
			Image:        "https://images.unsplash.com/photo-1565299585323-38d6b0865b47",
			Category:     CategoryMeat,
			Rating:       4.5,
			IsNewArrival: true,
		},
		{
			Name:         "Spicy Diablo",
			Description:  "Chorizo, jalapeños, chili flakes, and hot sauce.",
			Pricing:      tiered(1299, 1599, 1899),
			Image:        "https://images.unsplash.com/photo-1604382354936-07c5d9983bd3",
			Category:     CategorySpicy,
			Rating:       4.8,
			IsNewArrival: true,
		},
	}
}

func DefaultToppings() []Topping {
	t := func(name string, price int64) Topping {
		return Topping{Name: name, Price: decimal.NewFromInt(price), IsAvailable: true}
	}
	return []Topping{
		t("Extra Cheese", 200),
		t("Pepperoni", 250),
		t("Mushrooms", 150),
		t("Black Olives", 150),
		t("Red Onions", 100),
		t("Jalapeños", 150),
	}
}

// SeedPizzas fills an empty menu and returns the current one either way.
func (s *Service) SeedPizzas(ctx context.Context) ([]Pizza, error) {
	n, err := s.repo.CountPizzas(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return s.repo.ListPizzas(ctx)
	}
	pizzas := DefaultPizzas()
	if err := s.repo.CreatePizzas(ctx, pizzas); err != nil {
		return nil, err
	}
	s.logger.Info("menu seeded", zap.Int("pizzas", len(pizzas)))
	return pizzas, nil
}

func (s *Service) SeedToppings(ctx context.Context) error {
	n, err := s.repo.CountToppings(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	toppings := DefaultToppings()
	if err := s.repo.CreateToppings(ctx, toppings); err != nil {
		return err
	}
	s.logger.Info("toppings seeded", zap.Int("toppings", len(toppings)))
	return nil
}
