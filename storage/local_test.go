package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	t.Run("put then get", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "cover_1.png", []byte("data"), MIMETypePNG))

		got, err := store.Get(ctx, "cover_1.png")
		require.NoError(t, err)
		assert.Equal(t, []byte("data"), got)
	})

	t.Run("put replaces", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "cover_2.png", []byte("old"), MIMETypePNG))
		require.NoError(t, store.Put(ctx, "cover_2.png", []byte("new"), MIMETypePNG))

		got, err := store.Get(ctx, "cover_2.png")
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), got)
	})

	t.Run("missing object", func(t *testing.T) {
		_, err := store.Get(ctx, "nope.png")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "cover_3.png", []byte("x"), MIMETypePNG))
		require.NoError(t, store.Delete(ctx, "cover_3.png"))
		require.NoError(t, store.Delete(ctx, "cover_3.png"))

		_, err := store.Get(ctx, "cover_3.png")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("rejects traversal", func(t *testing.T) {
		for _, name := range []string{"../secret", "a/b.png", `..\x`, "", ".."} {
			assert.ErrorIs(t, store.Put(ctx, name, []byte("x"), ""), ErrInvalidName, name)
			_, err := store.Get(ctx, name)
			assert.ErrorIs(t, err, ErrInvalidName, name)
		}
	})
}
