//go:build integration

package session

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

type RedisStoreSuite struct {
	suite.Suite
	container *tcredis.RedisContainer
	client    *redis.Client
	store     *RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	s.Require().NoError(err)
	s.container = container

	addr, err := container.ConnectionString(ctx)
	s.Require().NoError(err)

	opts, err := redis.ParseURL(addr)
	s.Require().NoError(err)

	s.client = redis.NewClient(opts)
	s.store = NewRedisStore(s.client)
}

func (s *RedisStoreSuite) TearDownSuite() {
	_ = s.client.Close()
	_ = s.container.Terminate(context.Background())
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.client.FlushAll(context.Background()).Err())
}

func (s *RedisStoreSuite) TestCreateGetDelete() {
	ctx := context.Background()
	sess := Session{
		ID:         "sid",
		IdentityID: "42",
		CreatedAt:  time.Now(),
		ExpiresAt:  time.Now().Add(time.Hour),
	}

	s.Require().NoError(s.store.Create(ctx, sess))

	got, err := s.store.Get(ctx, "sid")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("42", got.IdentityID)

	ttl, err := s.client.TTL(ctx, "session:sid").Result()
	s.Require().NoError(err)
	s.Greater(ttl, 59*time.Minute)

	s.Require().NoError(s.store.Delete(ctx, "sid"))
	got, err = s.store.Get(ctx, "sid")
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *RedisStoreSuite) TestCreateRejectsPastExpiry() {
	err := s.store.Create(context.Background(), Session{
		ID:         "sid",
		IdentityID: "42",
		ExpiresAt:  time.Now().Add(-time.Second),
	})
	s.Require().Error(err)
}

func (s *RedisStoreSuite) TestGetMissing() {
	got, err := s.store.Get(context.Background(), "nope")
	s.Require().NoError(err)
	s.Nil(got)
}
