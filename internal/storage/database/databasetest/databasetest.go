// Package databasetest checks a database.DB implementation against the
// behavior the snapshot store relies on.
package databasetest

import (
	"context"
	"testing"

	"github.com/LeJamon/goPyth/internal/storage/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises open, a fresh database per subtest.
func Run(t *testing.T, open func(t *testing.T) database.DB) {
	ctx := context.Background()

	t.Run("read write delete", func(t *testing.T) {
		db := open(t)
		defer db.Close()

		_, err := db.Read(ctx, []byte("a"))
		assert.ErrorIs(t, err, database.ErrKeyNotFound)

		require.NoError(t, db.Write(ctx, []byte("a"), []byte("1")))
		got, err := db.Read(ctx, []byte("a"))
		require.NoError(t, err)
		assert.Equal(t, []byte("1"), got)

		ok, err := db.Has(ctx, []byte("a"))
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, db.Delete(ctx, []byte("a")))
		ok, err = db.Has(ctx, []byte("a"))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("batch", func(t *testing.T) {
		db := open(t)
		defer db.Close()

		require.NoError(t, db.Write(ctx, []byte("gone"), []byte("x")))
		require.NoError(t, db.Batch(ctx, []database.BatchOperation{
			{Type: database.BatchPut, Key: []byte("k1"), Value: []byte("v1")},
			{Type: database.BatchPut, Key: []byte("k2"), Value: []byte("v2")},
			{Type: database.BatchDelete, Key: []byte("gone")},
		}))

		got, err := db.Read(ctx, []byte("k2"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), got)

		_, err = db.Read(ctx, []byte("gone"))
		assert.ErrorIs(t, err, database.ErrKeyNotFound)

		err = db.Batch(ctx, []database.BatchOperation{{Type: database.BatchOpType(9), Key: []byte("k")}})
		assert.ErrorIs(t, err, database.ErrUnknownBatchOp)
	})

	t.Run("iterator range", func(t *testing.T) {
		db := open(t)
		defer db.Close()

		for _, k := range []string{"a", "b1", "b2", "b3", "c"} {
			require.NoError(t, db.Write(ctx, []byte(k), []byte("v"+k)))
		}

		it, err := db.Iterator(ctx, []byte("b"), []byte("c"))
		require.NoError(t, err)

		var keys, values []string
		for it.Next() {
			keys = append(keys, string(it.Key()))
			values = append(values, string(it.Value()))
		}
		require.NoError(t, it.Error())
		require.NoError(t, it.Close())

		assert.Equal(t, []string{"b1", "b2", "b3"}, keys)
		assert.Equal(t, []string{"vb1", "vb2", "vb3"}, values)

		it, err = db.Iterator(ctx, nil, nil)
		require.NoError(t, err)
		n := 0
		for it.Next() {
			n++
		}
		require.NoError(t, it.Close())
		assert.Equal(t, 5, n)
	})

	t.Run("closed", func(t *testing.T) {
		db := open(t)
		require.NoError(t, db.Close())
		require.NoError(t, db.Close())

		_, err := db.Read(ctx, []byte("a"))
		assert.ErrorIs(t, err, database.ErrDBClosed)
		assert.ErrorIs(t, db.Write(ctx, []byte("a"), nil), database.ErrDBClosed)
		_, err = db.Iterator(ctx, nil, nil)
		assert.ErrorIs(t, err, database.ErrDBClosed)
	})
}
