package pending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "oauth_state:",
		now:    time.Now,
	}
}

func (r *RedisStore) key(state string) string {
	return r.prefix + state
}

func (r *RedisStore) Save(ctx context.Context, a Authorization) error {
	if err := validate(a); err != nil {
		return err
	}

	ttl := a.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return errors.New("pending: expires_at must be in the future")
	}

	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("pending: failed to marshal: %w", err)
	}

	return r.client.Set(ctx, r.key(a.State), data, ttl).Err()
}

// Consume reads and deletes in one GETDEL so concurrent callbacks with
// the same state cannot both succeed.
func (r *RedisStore) Consume(ctx context.Context, state string) (*Authorization, error) {
	val, err := r.client.GetDel(ctx, r.key(state)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pending: consume: %w", err)
	}

	var a Authorization
	if err := json.Unmarshal(val, &a); err != nil {
		return nil, fmt.Errorf("pending: failed to unmarshal: %w", err)
	}

	if !r.now().Before(a.ExpiresAt) {
		return nil, ErrExpired
	}
	return &a, nil
}
