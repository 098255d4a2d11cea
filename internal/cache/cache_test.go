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

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

type cachedThing struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestGetSetJSON(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	t.Run("miss returns false", func(t *testing.T) {
		var dest cachedThing
		found, err := GetJSON(ctx, "missing", &dest)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("round trip", func(t *testing.T) {
		require.NoError(t, SetJSON(ctx, "thing", cachedThing{Name: "a", Count: 2}, time.Minute))

		var dest cachedThing
		found, err := GetJSON(ctx, "thing", &dest)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "a", dest.Name)
		assert.Equal(t, 2, dest.Count)
	})
}

func TestGetJSONWithoutClient(t *testing.T) {
	SetClient(nil)

	var dest cachedThing
	found, err := GetJSON(context.Background(), "anything", &dest)
	require.NoError(t, err)
	assert.False(t, found)

	// Writes are silently skipped too.
	assert.NoError(t, SetJSON(context.Background(), "anything", dest, time.Minute))
}

func TestAside(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *cachedThing) func() error {
		return func() error {
			calls++
			dest.Name = "fetched"
			return nil
		}
	}

	var first cachedThing
	require.NoError(t, Aside(ctx, "aside-key", &first, time.Minute, fetch(&first)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "fetched", first.Name)

	// Second read is served from cache; fetch is not called again.
	var second cachedThing
	require.NoError(t, Aside(ctx, "aside-key", &second, time.Minute, fetch(&second)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "fetched", second.Name)
}

func TestInvalidateThread(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, ThreadKey("t1"), cachedThing{Name: "thread"}, time.Minute))
	require.NoError(t, SetJSON(ctx, ThreadListKey("new", 1), cachedThing{Name: "list"}, time.Minute))

	InvalidateThread(ctx, "t1")

	assert.False(t, mr.Exists(ThreadKey("t1")))
	assert.False(t, mr.Exists(ThreadListKey("new", 1)))
}
