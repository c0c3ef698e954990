package features

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"pizzeria-backend/internal/apperr"
	"pizzeria-backend/internal/cart"
	"pizzeria-backend/internal/catalog"
	"pizzeria-backend/internal/catalog/catalogtest"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type cartTestContext struct {
	repo     *catalogtest.Repository
	svc      *cart.Service
	sess     *cart.Session
	pizzas   map[string]catalog.Pizza
	toppings map[string]catalog.Topping
	price    decimal.Decimal
	err      error
}

func (c *cartTestContext) reset() {
	c.repo = catalogtest.New()
	c.svc = cart.NewService(cart.NewMemoryStore(), catalog.NewService(c.repo, zap.NewNop()), zap.NewNop())
	c.sess = nil
	c.pizzas = map[string]catalog.Pizza{}
	c.toppings = map[string]catalog.Topping{}
	c.price = decimal.Zero
	c.err = nil
}

func (c *cartTestContext) aPizzaPriced(name string, small, medium, large int) error {
	c.pizzas[name] = c.repo.AddPizza(catalog.Pizza{
		Name:     name,
		Pricing:  catalog.NewTieredPricing(decimal.NewFromInt(int64(small)), decimal.NewFromInt(int64(medium)), decimal.NewFromInt(int64(large))),
		Category: catalog.CategoryVegetarian,
	})
	return nil
}

func (c *cartTestContext) aToppingPriced(name string, price int) error {
	c.toppings[name] = c.repo.AddTopping(catalog.Topping{Name: name, Price: decimal.NewFromInt(int64(price)), IsAvailable: true})
	return nil
}

func (c *cartTestContext) iAmSignedInAs(userID string) error {
	sess, err := c.svc.Open(context.Background(), userID)
	if err != nil {
		return err
	}
	c.sess = sess
	return nil
}

func (c *cartTestContext) request(pizza, size, extras string) (cart.AddRequest, error) {
	p, ok := c.pizzas[pizza]
	if !ok {
		return cart.AddRequest{}, fmt.Errorf("unknown pizza %q", pizza)
	}
	req := cart.AddRequest{PizzaID: p.ID, Size: size}
	for _, name := range strings.Split(extras, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		t, ok := c.toppings[name]
		if !ok {
			return cart.AddRequest{}, fmt.Errorf("unknown topping %q", name)
		}
		req.Extras = append(req.Extras, t.ID)
	}
	return req, nil
}

func (c *cartTestContext) iPriceWithExtras(pizza, size, extras string) error {
	req, err := c.request(pizza, size, extras)
	if err != nil {
		return err
	}
	li, err := c.svc.Configure(context.Background(), req)
	if err != nil {
		return err
	}
	c.price = li.FinalPrice
	return nil
}

func (c *cartTestContext) add(pizza, size, extras string) error {
	req, err := c.request(pizza, size, extras)
	if err != nil {
		return err
	}
	li, err := c.svc.Configure(context.Background(), req)
	if err != nil {
		return err
	}
	_, err = c.sess.Add(context.Background(), li)
	return err
}

func (c *cartTestContext) iAddWithExtras(pizza, size, extras string) error {
	return c.add(pizza, size, extras)
}

func (c *cartTestContext) iAddWithNoExtras(pizza, size string) error {
	return c.add(pizza, size, "")
}

func (c *cartTestContext) lineBySize(size string) (cart.LineItem, error) {
	for _, li := range c.sess.Cart().Items {
		if strings.EqualFold(string(li.Size), size) {
			return li, nil
		}
	}
	return cart.LineItem{}, fmt.Errorf("no %s line in cart", size)
}

func (c *cartTestContext) iSetTheLineQuantityTo(size string, n int) error {
	li, err := c.lineBySize(size)
	if err != nil {
		return err
	}
	_, err = c.sess.UpdateQuantity(context.Background(), li.CartItemID, n)
	return err
}

func (c *cartTestContext) iRemoveLine(id string) error {
	_, err := c.sess.Remove(context.Background(), id)
	return err
}

func (c *cartTestContext) iSwitchTo(userID string) error {
	return c.sess.Switch(context.Background(), userID)
}

func (c *cartTestContext) iLogOut() error {
	c.sess.Close()
	return nil
}

func (c *cartTestContext) addingFailsWithStatus(pizza, size, status string) error {
	err := c.add(pizza, size, "")
	if err == nil {
		return fmt.Errorf("expected %s, add succeeded", status)
	}
	if got := apperr.KindOf(err).String(); got != status {
		return fmt.Errorf("expected status %s, got %s (%v)", status, got, err)
	}
	return nil
}

func (c *cartTestContext) theLinePriceIs(want string) error {
	if got := c.price.StringFixed(2); got != want {
		return fmt.Errorf("expected line price %s, got %s", want, got)
	}
	return nil
}

func (c *cartTestContext) theCartHasLines(n int) error {
	if got := len(c.sess.Cart().Items); got != n {
		return fmt.Errorf("expected %d lines, got %d", n, got)
	}
	return nil
}

func (c *cartTestContext) theLineHasQuantityAt(size string, qty int, price string) error {
	li, err := c.lineBySize(size)
	if err != nil {
		return err
	}
	if li.Quantity != qty {
		return fmt.Errorf("expected quantity %d, got %d", qty, li.Quantity)
	}
	if got := li.FinalPrice.StringFixed(2); got != price {
		return fmt.Errorf("expected price %s, got %s", price, got)
	}
	return nil
}

func (c *cartTestContext) theCartTotalIs(want string) error {
	if got := c.sess.Total().StringFixed(2); got != want {
		return fmt.Errorf("expected total %s, got %s", want, got)
	}
	return nil
}

func (c *cartTestContext) theCartCountIs(n int) error {
	if got := c.sess.Count(); got != n {
		return fmt.Errorf("expected count %d, got %d", n, got)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a pizza "([^"]*)" priced (\d+), (\d+) and (\d+)$`, tc.aPizzaPriced)
	ctx.Step(`^a topping "([^"]*)" priced (\d+)$`, tc.aToppingPriced)
	ctx.Step(`^I am signed in as "([^"]*)"$`, tc.iAmSignedInAs)

	// When steps
	ctx.Step(`^I price "([^"]*)" size "([^"]*)" with extras "([^"]*)"$`, tc.iPriceWithExtras)
	ctx.Step(`^I add "([^"]*)" size "([^"]*)" with extras "([^"]*)"$`, tc.iAddWithExtras)
	ctx.Step(`^I add "([^"]*)" size "([^"]*)" with no extras$`, tc.iAddWithNoExtras)
	ctx.Step(`^I set the "([^"]*)" line quantity to (-?\d+)$`, tc.iSetTheLineQuantityTo)
	ctx.Step(`^I remove line "([^"]*)"$`, tc.iRemoveLine)
	ctx.Step(`^I switch to "([^"]*)"$`, tc.iSwitchTo)
	ctx.Step(`^I log out$`, tc.iLogOut)

	// Then steps
	ctx.Step(`^the line price is "([^"]*)"$`, tc.theLinePriceIs)
	ctx.Step(`^the cart has (\d+) lines$`, tc.theCartHasLines)
	ctx.Step(`^the "([^"]*)" line has quantity (\d+) at "([^"]*)"$`, tc.theLineHasQuantityAt)
	ctx.Step(`^the cart total is "([^"]*)"$`, tc.theCartTotalIs)
	ctx.Step(`^the cart count is (\d+)$`, tc.theCartCountIs)
	ctx.Step(`^adding "([^"]*)" size "([^"]*)" fails with status "([^"]*)"$`, tc.addingFailsWithStatus)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"cart.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
