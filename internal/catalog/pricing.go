package catalog

import (
	"pizzeria-backend/internal/apperr"

	"github.com/shopspring/decimal"
)

// Pricing is either TieredPricing or LegacyPricing.
type Pricing interface {
	// BasePrice returns the unrounded price of one pizza of the given size.
	BasePrice(size Size) (decimal.Decimal, error)
	isPricing()
}

// TieredPricing stores an absolute price per size. A size absent from the
// map had a missing or non-numeric value in the catalog document.
type TieredPricing struct {
	Prices map[Size]decimal.Decimal
}

func NewTieredPricing(small, medium, large decimal.Decimal) TieredPricing {
	return TieredPricing{Prices: map[Size]decimal.Decimal{
		SizeSmall:  small,
		SizeMedium: medium,
		SizeLarge:  large,
	}}
}

func (TieredPricing) isPricing() {}

func (p TieredPricing) BasePrice(size Size) (decimal.Decimal, error) {
	if !size.Valid() {
		return decimal.Zero, apperr.Configuration("unknown size %q", size)
	}
	price, ok := p.Prices[size]
	if !ok {
		return decimal.Zero, apperr.Configuration("no %s price configured", size)
	}
	return price, nil
}

// Table keys prices by the lowercase size names used in stored documents.
func (p TieredPricing) Table() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(p.Prices))
	for size, price := range p.Prices {
		out[SizeKey(size)] = price
	}
	return out
}

// Size multipliers applied to a single legacy price.
var (
	multiplierSmall  = decimal.RequireFromString("0.8")
	multiplierMedium = decimal.NewFromInt(1)
	multiplierLarge  = decimal.RequireFromString("1.2")
)

func SizeMultiplier(size Size) (decimal.Decimal, error) {
	switch size {
	case SizeSmall:
		return multiplierSmall, nil
	case SizeMedium:
		return multiplierMedium, nil
	case SizeLarge:
		return multiplierLarge, nil
	default:
		return decimal.Zero, apperr.Configuration("unknown size %q", size)
	}
}

// LegacyPricing is a single base price scaled by the size multiplier.
type LegacyPricing struct {
	Price decimal.Decimal
}

func (LegacyPricing) isPricing() {}

func (p LegacyPricing) BasePrice(size Size) (decimal.Decimal, error) {
	m, err := SizeMultiplier(size)
	if err != nil {
		return decimal.Zero, err
	}
	return p.Price.Mul(m), nil
}

// ComputeLinePrice prices one unit of pizza at size with one of each extra,
// rounded half-up to two decimal places.
func ComputeLinePrice(pizza Pizza, size Size, extras []Topping) (decimal.Decimal, error) {
	if pizza.Pricing == nil {
		return decimal.Zero, apperr.Configuration("pizza %q has no pricing", pizza.Name)
	}
	base, err := pizza.Pricing.BasePrice(size)
	if err != nil {
		return decimal.Zero, err
	}
	total := base
	for _, t := range extras {
		if t.Unpriced {
			return decimal.Zero, apperr.Configuration("topping %q has no valid price", t.Name)
		}
		total = total.Add(t.Price)
	}
	return total.Round(2), nil
}

// SizeKey is the document key for a size.
func SizeKey(size Size) string {
	switch size {
	case SizeSmall:
		return "small"
	case SizeMedium:
		return "medium"
	case SizeLarge:
		return "large"
	}
	return string(size)
}
