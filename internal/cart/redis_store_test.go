package cart

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"pizzeria-backend/internal/apperr"
	"pizzeria-backend/internal/catalog"
	"pizzeria-backend/internal/redisx"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	s := NewRedisStore(rdb, time.Hour)
	s.now = func() time.Time { return time.Unix(1700000000, 0).UTC() }
	return s, mr, rdb
}

func TestRedisStore_UpdatePersistsWithTTL(t *testing.T) {
	ctx := context.Background()
	s, mr, _ := newRedisStore(t)

	c, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	_, err = s.Update(ctx, "u1", func(c *Cart) error {
		c.Add(line(t, catalog.SizeSmall))
		c.Add(line(t, catalog.SizeSmall))
		return nil
	})
	require.NoError(t, err)

	c, err = s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", c.UserID)
	assert.Equal(t, 2, c.Count())
	assert.Equal(t, int64(1700000000), c.UpdatedAt.Unix())
	assert.Equal(t, time.Hour, mr.TTL(redisx.CartKey("u1")))
}

func TestRedisStore_FailedUpdateWritesNothing(t *testing.T) {
	ctx := context.Background()
	s, mr, _ := newRedisStore(t)
	boom := errors.New("boom")

	_, err := s.Update(ctx, "u1", func(c *Cart) error {
		c.Add(line(t, catalog.SizeLarge))
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists(redisx.CartKey("u1")))

	_, err = s.Update(ctx, "u1", func(c *Cart) error {
		return apperr.Validation("nope")
	})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestRedisStore_ConflictingWriterIsReplayed(t *testing.T) {
	ctx := context.Background()
	s, _, rdb := newRedisStore(t)
	other := redis.NewClient(&redis.Options{Addr: rdb.Options().Addr})
	t.Cleanup(func() { _ = other.Close() })

	calls := 0
	out, err := s.Update(ctx, "u1", func(c *Cart) error {
		calls++
		if calls == 1 {
			concurrent := New("u1")
			concurrent.Add(line(t, catalog.SizeLarge))
			b, err := json.Marshal(concurrent)
			require.NoError(t, err)
			require.NoError(t, other.Set(ctx, redisx.CartKey("u1"), b, 0).Err())
		}
		c.Add(line(t, catalog.SizeSmall))
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	require.Len(t, out.Items, 2)
	assert.Equal(t, catalog.SizeLarge, out.Items[0].Size)
	assert.Equal(t, catalog.SizeSmall, out.Items[1].Size)

	stored, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Count())
}

func TestRedisStore_GivesUpUnderContention(t *testing.T) {
	ctx := context.Background()
	s, _, rdb := newRedisStore(t)
	other := redis.NewClient(&redis.Options{Addr: rdb.Options().Addr})
	t.Cleanup(func() { _ = other.Close() })

	calls := 0
	_, err := s.Update(ctx, "u1", func(c *Cart) error {
		calls++
		require.NoError(t, other.Set(ctx, redisx.CartKey("u1"), `{"userId":"u1","items":[]}`, 0).Err())
		c.Add(line(t, catalog.SizeSmall))
		return nil
	})

	assert.True(t, errors.Is(err, apperr.ErrPersistence))
	assert.Equal(t, maxUpdateAttempts, calls)
}

func TestRedisStore_Delete(t *testing.T) {
	ctx := context.Background()
	s, mr, _ := newRedisStore(t)
	_, err := s.Update(ctx, "u1", func(c *Cart) error {
		c.Add(line(t, catalog.SizeMedium))
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "u1"))

	assert.False(t, mr.Exists(redisx.CartKey("u1")))
	c, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}
