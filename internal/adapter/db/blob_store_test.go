package db

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"taskkeeper/internal/core/ports"
)

func setupTestBlobStore(t *testing.T) *BlobStore {
	t.Helper()

	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	// Each new connection to :memory: opens a separate empty database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	store := NewBlobStore(db)
	require.NoError(t, store.EnsureSchema(context.Background()))
	return store
}

func TestBlobStore_GetMissingKey(t *testing.T) {
	store := setupTestBlobStore(t)

	_, err := store.Get(context.Background(), "@tasks")

	require.ErrorIs(t, err, ports.ErrBlobNotFound)
}

func TestBlobStore_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	store := setupTestBlobStore(t)

	require.NoError(t, store.Set(ctx, "@tasks", []byte(`[1]`)))
	require.NoError(t, store.Set(ctx, "@tasks", []byte(`[1,2]`)))

	value, err := store.Get(ctx, "@tasks")
	require.NoError(t, err)
	require.Equal(t, `[1,2]`, string(value))

	var rows int
	require.NoError(t, store.db.Get(&rows, "SELECT COUNT(*) FROM kv_store"))
	require.Equal(t, 1, rows)
}

func TestBlobStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := setupTestBlobStore(t)
	require.NoError(t, store.Set(ctx, "@tasks", []byte(`[]`)))

	require.NoError(t, store.Delete(ctx, "@tasks"))
	require.NoError(t, store.Delete(ctx, "@tasks"))

	_, err := store.Get(ctx, "@tasks")
	require.ErrorIs(t, err, ports.ErrBlobNotFound)
	require.NoError(t, store.Ping(ctx))
}
