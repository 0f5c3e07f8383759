package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EdmundsEcho/data-join-oauth/pkg/session"
)

func newRedisStore(t *testing.T) (*session.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return session.NewRedisStore(client), mr
}

func sampleRecord() session.Record {
	return session.Record{
		Flow:      session.FlowDrive,
		Provider:  "dropbox",
		Verifier:  "verifier-1",
		CSRF:      "csrf-1",
		ProjectID: "11111111-1111-1111-1111-111111111111",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// testStoreContract exercises the behavior every backend must share.
func testStoreContract(t *testing.T, store session.Store) {
	ctx := context.Background()

	t.Run("put then get", func(t *testing.T) {
		key, err := store.Put(ctx, sampleRecord(), time.Minute)
		require.NoError(t, err)
		assert.NotEmpty(t, key)

		got, err := store.Get(ctx, key)
		require.NoError(t, err)
		want := sampleRecord()
		want.Key = key
		assert.Equal(t, want, *got)
	})

	t.Run("keys are unique per attempt", func(t *testing.T) {
		k1, err := store.Put(ctx, sampleRecord(), time.Minute)
		require.NoError(t, err)
		k2, err := store.Put(ctx, sampleRecord(), time.Minute)
		require.NoError(t, err)
		assert.NotEqual(t, k1, k2)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(t, err, session.ErrNotFound)
		_, err = store.Get(ctx, "")
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		key, err := store.Put(ctx, sampleRecord(), time.Minute)
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, key))
		require.NoError(t, store.Delete(ctx, key))
		_, err = store.Get(ctx, key)
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("ttl is required", func(t *testing.T) {
		_, err := store.Put(ctx, sampleRecord(), 0)
		assert.ErrorIs(t, err, session.ErrInvalidRecord)
	})
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Close() })
	testStoreContract(t, store)

	t.Run("expired records are gone", func(t *testing.T) {
		key, err := store.Put(context.Background(), sampleRecord(), 20*time.Millisecond)
		require.NoError(t, err)

		time.Sleep(40 * time.Millisecond)
		_, err = store.Get(context.Background(), key)
		assert.ErrorIs(t, err, session.ErrNotFound)
	})
}

func TestMemoryStoreCleanup(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore(10 * time.Millisecond)
	_, err := store.Put(context.Background(), sampleRecord(), 5*time.Millisecond)
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 10*time.Millisecond)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}

func TestRedisStore(t *testing.T) {
	t.Parallel()

	store, mr := newRedisStore(t)
	testStoreContract(t, store)

	t.Run("records carry the prefix and ttl", func(t *testing.T) {
		key, err := store.Put(context.Background(), sampleRecord(), time.Minute)
		require.NoError(t, err)

		assert.True(t, mr.Exists(session.RedisKeyPrefix+key))
		assert.Equal(t, time.Minute, mr.TTL(session.RedisKeyPrefix+key))
		raw, err := mr.Get(session.RedisKeyPrefix + key)
		require.NoError(t, err)
		assert.Contains(t, raw, `"verifier":"verifier-1"`)
		assert.NotContains(t, raw, `"Key"`)
	})

	t.Run("expired records are gone", func(t *testing.T) {
		key, err := store.Put(context.Background(), sampleRecord(), time.Minute)
		require.NoError(t, err)

		mr.FastForward(2 * time.Minute)
		_, err = store.Get(context.Background(), key)
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("corrupt record", func(t *testing.T) {
		require.NoError(t, mr.Set(session.RedisKeyPrefix+"bad", "{not json"))
		_, err := store.Get(context.Background(), "bad")
		assert.ErrorIs(t, err, session.ErrInvalidRecord)
	})

	t.Run("server down", func(t *testing.T) {
		down, downMR := newRedisStore(t)
		downMR.Close()

		_, err := down.Get(context.Background(), "k")
		require.Error(t, err)
		assert.NotErrorIs(t, err, session.ErrNotFound)
	})
}
