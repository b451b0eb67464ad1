package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns a fresh instance of every KV implementation.
func backends(t *testing.T) map[string]KV {
	t.Helper()

	file, err := NewFile(t.TempDir())
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "")
	t.Cleanup(func() { rdb.Close() })

	return map[string]KV{
		BackendMemory: NewMemory(),
		BackendFile:   file,
		BackendSQLite: openTestSQLite(t),
		BackendRedis:  rdb,
	}
}

func TestKV_Conformance(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := kv.Get(ctx, KeyState)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, kv.Set(ctx, KeyState, []byte(`{"a":1}`)))
			got, err := kv.Get(ctx, KeyState)
			require.NoError(t, err)
			assert.Equal(t, `{"a":1}`, string(got))

			// Set replaces the whole value.
			require.NoError(t, kv.Set(ctx, KeyState, []byte(`{}`)))
			got, err = kv.Get(ctx, KeyState)
			require.NoError(t, err)
			assert.Equal(t, `{}`, string(got))

			// Keys are independent.
			require.NoError(t, kv.Set(ctx, KeyShowCounts, []byte(`{"1":2}`)))
			got, err = kv.Get(ctx, KeyState)
			require.NoError(t, err)
			assert.Equal(t, `{}`, string(got))

			require.NoError(t, kv.Delete(ctx, KeyState))
			_, err = kv.Get(ctx, KeyState)
			assert.ErrorIs(t, err, ErrNotFound)

			// Deleting again is fine.
			require.NoError(t, kv.Delete(ctx, KeyState))

			assert.ErrorIs(t, kv.Set(ctx, "../escape", []byte("x")), ErrInvalidKey)
			assert.ErrorIs(t, kv.Set(ctx, "", []byte("x")), ErrInvalidKey)
		})
	}
}

func TestMemory_CopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	buf := []byte("abc")
	require.NoError(t, m.Set(ctx, KeyState, buf))
	buf[0] = 'x'

	got, err := m.Get(ctx, KeyState)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[0] = 'y'
	again, err := m.Get(ctx, KeyState)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestRedis_UsesPrefix(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	r, err := NewRedis(ctx, "redis://"+mr.Addr(), "test:")
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.Set(ctx, KeyWrongCounts, []byte(`{"7":1}`)))
	v, err := mr.Get("test:" + KeyWrongCounts)
	require.NoError(t, err)
	assert.Equal(t, `{"7":1}`, v)
	assert.Zero(t, mr.TTL("test:"+KeyWrongCounts))
}

func TestOpenKV(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		kv, err := OpenKV(ctx, Options{Backend: BackendMemory})
		require.NoError(t, err)
		assert.IsType(t, &Memory{}, kv)
	})

	t.Run("file", func(t *testing.T) {
		kv, err := OpenKV(ctx, Options{Backend: BackendFile, StateDir: t.TempDir()})
		require.NoError(t, err)
		assert.IsType(t, &File{}, kv)
	})

	t.Run("file without dir", func(t *testing.T) {
		kv, err := OpenKV(ctx, Options{Backend: BackendFile})
		require.Error(t, err)
		assert.Nil(t, kv)
	})

	t.Run("redis unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		kv, err := OpenKV(ctx, Options{Backend: BackendRedis, RedisURL: "redis://" + addr})
		require.Error(t, err)
		assert.Nil(t, kv)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := OpenKV(ctx, Options{Backend: "etcd"})
		assert.ErrorContains(t, err, `unknown storage backend "etcd"`)
	})
}
