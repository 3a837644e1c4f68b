//go:build integration

package redis

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestNew_ConnectsAndReportsHealth(t *testing.T) {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	c, err := New(ctx, strings.TrimPrefix(uri, "redis://"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.NoError(t, c.Health(ctx))
}

func TestNew_UnreachableFails(t *testing.T) {
	_, err := New(context.Background(), "127.0.0.1:1", "")
	assert.Error(t, err)
}
