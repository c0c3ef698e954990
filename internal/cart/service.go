package cart

import (
	"context"
	"strings"

	"pizzeria-backend/internal/apperr"
	"pizzeria-backend/internal/catalog"

	"go.uber.org/zap"
)

// Catalog is the slice of the catalog service a cart needs to price lines.
type Catalog interface {
	GetPizza(ctx context.Context, id string) (*catalog.Pizza, error)
	Toppings(ctx context.Context, ids []string) ([]catalog.Topping, error)
}

type Service struct {
	store   Store
	catalog Catalog
	logger  *zap.Logger
}

func NewService(store Store, cat Catalog, logger *zap.Logger) *Service {
	return &Service{store: store, catalog: cat, logger: logger}
}

type AddRequest struct {
	PizzaID string   `json:"pizzaId"`
	Size    string   `json:"selectedSize"`
	Extras  []string `json:"selectedExtras"`
}

// Configure prices a pizza configuration against the current catalog.
func (s *Service) Configure(ctx context.Context, req AddRequest) (LineItem, error) {
	if strings.TrimSpace(req.PizzaID) == "" {
		return LineItem{}, apperr.Validation("pizzaId is required")
	}
	size, err := catalog.RequestedSize(req.Size)
	if err != nil {
		return LineItem{}, err
	}
	pizza, err := s.catalog.GetPizza(ctx, req.PizzaID)
	if err != nil {
		return LineItem{}, err
	}
	extras, err := s.catalog.Toppings(ctx, req.Extras)
	if err != nil {
		return LineItem{}, err
	}
	return NewLineItem(*pizza, size, extras)
}

// Open binds a session to userID and loads its persisted cart. An empty
// userID opens an anonymous session with an empty, read-only cart.
func (s *Service) Open(ctx context.Context, userID string) (*Session, error) {
	sess := &Session{store: s.store, logger: s.logger, view: New("")}
	if err := sess.Switch(ctx, userID); err != nil {
		return nil, err
	}
	return sess, nil
}

// Forget drops the persisted cart of an account that no longer exists.
func (s *Service) Forget(ctx context.Context, userID string) error {
	if err := s.store.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("cart removed", zap.String("user_id", userID))
	return nil
}
