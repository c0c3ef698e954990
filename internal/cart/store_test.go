package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"pizzeria-backend/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_UpdateIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.now = func() time.Time { return time.Unix(1700000000, 0) }

	_, err := s.Update(ctx, "u1", func(c *Cart) error {
		c.Add(line(t, catalog.SizeSmall))
		return nil
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = s.Update(ctx, "u1", func(c *Cart) error {
		c.Clear()
		return boom
	})
	assert.ErrorIs(t, err, boom)

	c, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Count())
	assert.Equal(t, int64(1700000000), c.UpdatedAt.Unix())
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.Update(ctx, "u1", func(c *Cart) error {
		c.Add(line(t, catalog.SizeSmall))
		return nil
	})
	require.NoError(t, err)

	c, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	c.Clear()

	again, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Count())
}

func TestMemoryStore_UnknownUserIsEmpty(t *testing.T) {
	c, err := NewMemoryStore().Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, "nobody", c.UserID)
	assert.NotNil(t, c.Items)
	assert.True(t, c.IsEmpty())
}
