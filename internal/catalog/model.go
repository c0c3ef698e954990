package catalog

import (
	"encoding/json"
	"strings"

	"pizzeria-backend/internal/apperr"

	"github.com/shopspring/decimal"
)

type Size string

const (
	SizeSmall  Size = "Small"
	SizeMedium Size = "Medium"
	SizeLarge  Size = "Large"
)

var Sizes = []Size{SizeSmall, SizeMedium, SizeLarge}

// ParseSize accepts "large", "Large", "LARGE".
func ParseSize(s string) (Size, error) {
	for _, size := range Sizes {
		if strings.EqualFold(strings.TrimSpace(s), string(size)) {
			return size, nil
		}
	}
	return "", apperr.Configuration("unknown size %q", s)
}

// RequestedSize parses a size chosen by a customer; a bad value is the
// caller's mistake, not a catalog misconfiguration.
func RequestedSize(s string) (Size, error) {
	size, err := ParseSize(s)
	if err != nil {
		return "", apperr.Validation("size must be one of Small, Medium, Large")
	}
	return size, nil
}

func (s Size) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

type Category string

const (
	CategoryVegetarian Category = "Vegetarian"
	CategoryMeat       Category = "Meat"
	CategoryChicken    Category = "Chicken"
	CategorySpicy      Category = "Spicy"
	CategorySpecialty  Category = "Specialty"
)

var Categories = []Category{CategoryVegetarian, CategoryMeat, CategoryChicken, CategorySpicy, CategorySpecialty}

func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, nil
		}
	}
	return "", apperr.Validation("unknown category %q", s)
}

// Pizza is a purchasable menu item. Pricing is resolved from the stored
// document once, when the pizza is read.
type Pizza struct {
	ID           string   `json:"_id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Pricing      Pricing  `json:"-"`
	Image        string   `json:"image"`
	Category     Category `json:"category"`
	Rating       float64  `json:"rating"`
	IsNewArrival bool     `json:"isNewArrival"`
}

type Topping struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable bool            `json:"isAvailable"`
	// Unpriced marks a stored topping whose price is missing or not numeric.
	Unpriced bool `json:"-"`
}

// ToppingRef is the copy of a topping carried by cart lines and orders.
type ToppingRef struct {
	ID    string          `json:"_id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

func (t Topping) Ref() ToppingRef {
	return ToppingRef{ID: t.ID, Name: t.Name, Price: t.Price}
}

// MarshalJSON emits tiered pricing as "prices" and legacy pricing as "price",
// the two shapes the storefront understands.
func (p Pizza) MarshalJSON() ([]byte, error) {
	type alias Pizza
	out := struct {
		alias
		Prices map[string]decimal.Decimal `json:"prices,omitempty"`
		Price  *decimal.Decimal           `json:"price,omitempty"`
	}{alias: alias(p)}
	switch pr := p.Pricing.(type) {
	case TieredPricing:
		out.Prices = pr.Table()
	case LegacyPricing:
		price := pr.Price
		out.Price = &price
	}
	return json.Marshal(out)
}
