package cart

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"pizzeria-backend/internal/catalog"

	"github.com/shopspring/decimal"
)

// LineItem is one configured pizza in a cart, priced per unit.
type LineItem struct {
	CartItemID string               `json:"cartItemId"`
	PizzaID    string               `json:"pizzaId"`
	Name       string               `json:"name"`
	Image      string               `json:"image"`
	Size       catalog.Size         `json:"selectedSize"`
	Extras     []catalog.ToppingRef `json:"selectedExtras"`
	FinalPrice decimal.Decimal      `json:"finalPrice"`
	Quantity   int                  `json:"quantity"`
}

// LineItemID derives the cart key of a configuration. Extra ids are sorted,
// so the same toppings picked in any order give the same key.
func LineItemID(pizzaID string, size catalog.Size, extraIDs []string) string {
	ids := append([]string(nil), extraIDs...)
	sort.Strings(ids)
	return fmt.Sprintf("%s-%s-%s", pizzaID, size, strings.Join(ids, "-"))
}

// NewLineItem prices a pizza configuration and returns a line of quantity 1.
func NewLineItem(p catalog.Pizza, size catalog.Size, extras []catalog.Topping) (LineItem, error) {
	price, err := catalog.ComputeLinePrice(p, size, extras)
	if err != nil {
		return LineItem{}, err
	}
	refs := make([]catalog.ToppingRef, 0, len(extras))
	for _, t := range extras {
		refs = append(refs, t.Ref())
	}
	sort.SliceStable(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })

	item := LineItem{
		PizzaID:    p.ID,
		Name:       p.Name,
		Image:      p.Image,
		Size:       size,
		Extras:     refs,
		FinalPrice: price,
		Quantity:   1,
	}
	item.CartItemID = item.Key()
	return item, nil
}

// Key recomputes the cart key from the configuration fields.
func (li LineItem) Key() string {
	ids := make([]string, 0, len(li.Extras))
	for _, e := range li.Extras {
		ids = append(ids, e.ID)
	}
	return LineItemID(li.PizzaID, li.Size, ids)
}

func (li LineItem) Subtotal() decimal.Decimal {
	return li.FinalPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart is the ordered list of lines owned by one user.
type Cart struct {
	UserID    string     `json:"userId"`
	Items     []LineItem `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func New(userID string) *Cart {
	return &Cart{UserID: userID, Items: []LineItem{}}
}

// Add merges item into the cart by key. An existing line gains one unit and
// keeps its own price; otherwise item is appended with quantity 1.
func (c *Cart) Add(item LineItem) {
	id := item.Key()
	for i := range c.Items {
		if c.Items[i].CartItemID == id {
			c.Items[i].Quantity++
			return
		}
	}
	item.CartItemID = id
	item.Quantity = 1
	c.Items = append(c.Items, item)
}

// Remove deletes the line with the given id. Removing an absent line is a no-op.
func (c *Cart) Remove(cartItemID string) {
	for i := range c.Items {
		if c.Items[i].CartItemID == cartItemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the quantity of a line; n < 1 removes it.
func (c *Cart) UpdateQuantity(cartItemID string, n int) {
	if n < 1 {
		c.Remove(cartItemID)
		return
	}
	for i := range c.Items {
		if c.Items[i].CartItemID == cartItemID {
			c.Items[i].Quantity = n
			return
		}
	}
}

// Deduct takes ordered lines out of the cart: each matching line loses the
// ordered quantity and is removed once nothing is left. Lines the order never
// saw stay as they are.
func (c *Cart) Deduct(ordered []LineItem) {
	for _, o := range ordered {
		for i := range c.Items {
			if c.Items[i].CartItemID != o.CartItemID {
				continue
			}
			c.UpdateQuantity(o.CartItemID, c.Items[i].Quantity-o.Quantity)
			break
		}
	}
}

func (c *Cart) Clear() {
	c.Items = []LineItem{}
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, li := range c.Items {
		total = total.Add(li.Subtotal())
	}
	return total
}

func (c *Cart) Count() int {
	n := 0
	for _, li := range c.Items {
		n += li.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) Line(cartItemID string) (LineItem, bool) {
	for _, li := range c.Items {
		if li.CartItemID == cartItemID {
			return li, true
		}
	}
	return LineItem{}, false
}

// Clone returns a deep copy safe to hand out while the original keeps changing.
func (c *Cart) Clone() *Cart {
	out := &Cart{UserID: c.UserID, UpdatedAt: c.UpdatedAt, Items: make([]LineItem, len(c.Items))}
	for i, li := range c.Items {
		li.Extras = append([]catalog.ToppingRef(nil), li.Extras...)
		out.Items[i] = li
	}
	return out
}
