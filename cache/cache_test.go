package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)

	client, err := NewClient(&Config{Addr: srv.Addr()})
	require.NoError(t, err)

	t.Cleanup(func() { _ = client.Close() })

	return client, srv
}

func TestNewClient(t *testing.T) {
	t.Run("connects and pings", func(t *testing.T) {
		client, _ := newTestClient(t)
		assert.NoError(t, client.Ping(context.Background()))
	})

	t.Run("unreachable server", func(t *testing.T) {
		_, err := NewClient(&Config{Addr: "localhost:1"})
		assert.Error(t, err)
	})
}

func TestClient_GetSetJSON(t *testing.T) {
	client, srv := newTestClient(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	t.Run("miss returns false without error", func(t *testing.T) {
		var out payload
		hit, err := client.GetJSON(ctx, "absent", &out)
		require.NoError(t, err)
		assert.False(t, hit)
	})

	t.Run("round trip", func(t *testing.T) {
		in := payload{Name: "Ada", Email: "ada@example.com"}
		require.NoError(t, client.SetJSON(ctx, AllUsersKey, in, time.Minute))

		var out payload
		hit, err := client.GetJSON(ctx, AllUsersKey, &out)
		require.NoError(t, err)
		assert.True(t, hit)
		assert.Equal(t, in, out)
	})

	t.Run("zero ttl falls back to default", func(t *testing.T) {
		require.NoError(t, client.SetJSON(ctx, "ttl-check", payload{}, 0))
		assert.Equal(t, DefaultTTL, srv.TTL("ttl-check"))
	})

	t.Run("expired entry is a miss", func(t *testing.T) {
		require.NoError(t, client.SetJSON(ctx, "short-lived", payload{Name: "Ada"}, time.Minute))
		srv.FastForward(2 * time.Minute)

		var out payload
		hit, err := client.GetJSON(ctx, "short-lived", &out)
		require.NoError(t, err)
		assert.False(t, hit)
	})

	t.Run("corrupt entry surfaces a decode error", func(t *testing.T) {
		srv.Set("corrupt", "{not json")

		var out payload
		_, err := client.GetJSON(ctx, "corrupt", &out)
		assert.Error(t, err)
	})
}

func TestClient_Delete(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.SetJSON(ctx, AllUsersKey, map[string]string{"k": "v"}, time.Minute))
	require.NoError(t, client.Delete(ctx, AllUsersKey))

	var out map[string]string
	hit, err := client.GetJSON(ctx, AllUsersKey, &out)
	require.NoError(t, err)
	assert.False(t, hit)

	// deleting again is a no-op
	assert.NoError(t, client.Delete(ctx, AllUsersKey))
}
