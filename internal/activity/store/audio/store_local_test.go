package audio

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		ref, err := store.Put(ctx, make([]byte, 1234))
		require.NoError(t, err)

		size, err := store.Size(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, int64(1234), size)

		require.NoError(t, store.Delete(ctx, ref))
		_, err = store.Size(ctx, ref)
		assert.Error(t, err)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		ref, err := store.Put(ctx, []byte("blob"))
		require.NoError(t, err)
		require.NoError(t, store.Delete(ctx, ref))
		assert.NoError(t, store.Delete(ctx, ref))
		assert.NoError(t, store.Delete(ctx, "never-existed"))
	})
}
