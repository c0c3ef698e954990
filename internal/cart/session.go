package cart

import (
	"context"
	"sync"

	"pizzeria-backend/internal/apperr"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Session is the active cart view of one identity. Every mutation goes
// through the store and the view is replaced with what was persisted.
type Session struct {
	mu     sync.Mutex
	store  Store
	logger *zap.Logger
	userID string
	view   *Cart
}

func (s *Session) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

func (s *Session) Authenticated() bool {
	return s.UserID() != ""
}

// Cart returns a copy of the current view.
func (s *Session) Cart() *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Clone()
}

func (s *Session) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Total()
}

func (s *Session) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Count()
}

// Switch rebinds the session to another identity. The previous user's items
// never carry over; an empty userID leaves an anonymous, empty view.
func (s *Session) Switch(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if userID == "" {
		s.userID, s.view = "", New("")
		return nil
	}
	c, err := s.store.Get(ctx, userID)
	if err != nil {
		return err
	}
	s.userID, s.view = userID, c
	return nil
}

// Close ends the session. The persisted cart is left untouched.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID, s.view = "", New("")
}

func (s *Session) Add(ctx context.Context, item LineItem) (*Cart, error) {
	return s.mutate(ctx, "add", func(c *Cart) error {
		c.Add(item)
		return nil
	})
}

func (s *Session) Remove(ctx context.Context, cartItemID string) (*Cart, error) {
	return s.mutate(ctx, "remove", func(c *Cart) error {
		c.Remove(cartItemID)
		return nil
	})
}

func (s *Session) UpdateQuantity(ctx context.Context, cartItemID string, n int) (*Cart, error) {
	return s.mutate(ctx, "update quantity", func(c *Cart) error {
		c.UpdateQuantity(cartItemID, n)
		return nil
	})
}

func (s *Session) Clear(ctx context.Context) (*Cart, error) {
	return s.mutate(ctx, "clear", func(c *Cart) error {
		c.Clear()
		return nil
	})
}

// Deduct removes lines that have been ordered, leaving anything added since.
func (s *Session) Deduct(ctx context.Context, ordered []LineItem) (*Cart, error) {
	return s.mutate(ctx, "deduct", func(c *Cart) error {
		c.Deduct(ordered)
		return nil
	})
}

func (s *Session) mutate(ctx context.Context, op string, fn func(c *Cart) error) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID == "" {
		return nil, apperr.AuthenticationRequired("Please log in to use the cart")
	}
	c, err := s.store.Update(ctx, s.userID, fn)
	if err != nil {
		s.logger.Error("cart update failed", zap.String("op", op), zap.String("user_id", s.userID), zap.Error(err))
		return nil, err
	}
	s.view = c
	return c.Clone(), nil
}
