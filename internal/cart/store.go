package cart

import (
	"context"
	"sync"
	"time"
)

// Store persists one cart blob per user. Update is a single read-modify-write:
// fn mutates the loaded cart and the result is saved only if fn returns nil.
type Store interface {
	Get(ctx context.Context, userID string) (*Cart, error)
	Update(ctx context.Context, userID string, fn func(c *Cart) error) (*Cart, error)
	Delete(ctx context.Context, userID string) error
}

// MemoryStore keeps carts in process memory. Used by tests and CART_STORE=memory.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string]*Cart
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: map[string]*Cart{}, now: time.Now}
}

func (s *MemoryStore) Get(ctx context.Context, userID string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[userID]; ok {
		return c.Clone(), nil
	}
	return New(userID), nil
}

func (s *MemoryStore) Update(ctx context.Context, userID string, fn func(c *Cart) error) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := New(userID)
	if existing, ok := s.carts[userID]; ok {
		c = existing.Clone()
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	c.UpdatedAt = s.now()
	s.carts[userID] = c.Clone()
	return c, nil
}

// Delete drops a user's persisted cart, as when the account is removed.
func (s *MemoryStore) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}
