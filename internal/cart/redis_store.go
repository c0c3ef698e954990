package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"pizzeria-backend/internal/apperr"
	"pizzeria-backend/internal/redisx"

	"github.com/redis/go-redis/v9"
)

const maxUpdateAttempts = 5

// RedisStore keeps each cart as a JSON blob under cart:{userID}. Update runs
// inside WATCH so a concurrent write aborts and replays the transaction.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = redisx.TTLCart
	}
	return &RedisStore{rdb: rdb, ttl: ttl, now: time.Now}
}

func (s *RedisStore) Get(ctx context.Context, userID string) (*Cart, error) {
	c, err := load(ctx, s.rdb, userID)
	if err != nil {
		return nil, apperr.Persistence("read cart", err)
	}
	return c, nil
}

func (s *RedisStore) Update(ctx context.Context, userID string, fn func(c *Cart) error) (*Cart, error) {
	key := redisx.CartKey(userID)
	var out *Cart
	txf := func(tx *redis.Tx) error {
		c, err := load(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		c.UpdatedAt = s.now()
		b, err := json.Marshal(c)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, s.ttl)
			return nil
		})
		if err == nil {
			out = c
		}
		return err
	}

	for i := 0; i < maxUpdateAttempts; i++ {
		err := s.rdb.Watch(ctx, txf, key)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperr.Persistence("write cart", err)
	}
	return nil, apperr.Persistence("write cart", errors.New("too much contention"))
}

// Delete drops a user's cart blob.
func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := s.rdb.Del(ctx, redisx.CartKey(userID)).Err(); err != nil {
		return apperr.Persistence("delete cart", err)
	}
	return nil
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func load(ctx context.Context, r getter, userID string) (*Cart, error) {
	b, err := r.Get(ctx, redisx.CartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(userID), nil
	}
	if err != nil {
		return nil, err
	}
	c := New(userID)
	if err := json.Unmarshal(b, c); err != nil {
		return nil, err
	}
	if c.Items == nil {
		c.Items = []LineItem{}
	}
	c.UserID = userID
	return c, nil
}
