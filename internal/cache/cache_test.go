package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewFromRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()})), mr
}

func TestClient_SetGetDelete(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	mr.FastForward(2 * time.Minute)
	got, _ = c.Get(ctx, "k")
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, c.Delete(ctx, "k"))
	assert.False(t, mr.Exists("k"))
}

func TestClient_JSON(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	type payload struct{ Name string }
	require.NoError(t, c.SetJSON(ctx, "p", payload{Name: "Margherita"}, time.Minute))

	var out payload
	assert.True(t, c.GetJSON(ctx, "p", &out))
	assert.Equal(t, "Margherita", out.Name)

	require.NoError(t, mr.Set("bad", "{not json"))
	assert.False(t, c.GetJSON(ctx, "bad", &out))
	assert.False(t, c.GetJSON(ctx, "missing", &out))
}

func TestClient_FailSafeWhenRedisDown(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()
	mr.Close()

	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.Error(t, c.Ping(ctx))
}

func TestClient_NilIsSafe(t *testing.T) {
	var c *Client
	got, err := c.Get(context.Background(), "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Set(context.Background(), "k", nil, 0))
	assert.Nil(t, c.Redis())
}
