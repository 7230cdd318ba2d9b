package store

import (
	"context"
	"testing"

	"github.com/sicko7947/restddb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBadgerStore(t *testing.T) *BadgerStore {
	t.Helper()

	store, err := NewBadgerStore(BadgerOptions{InMemory: true}, testTables...)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func TestBadgerStore_Contract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) restddb.Store {
		return newTestBadgerStore(t)
	})
}

func TestBadgerStore_Persists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewBadgerStore(BadgerOptions{Path: dir}, testTables...)
	require.NoError(t, err)
	require.NoError(t, store.PutItem(ctx, "items", restddb.Item{"id": "a", "n": 3}, restddb.NoCondition))
	require.NoError(t, store.Close())

	reopened, err := NewBadgerStore(BadgerOptions{Path: dir}, testTables...)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetItem(ctx, "items", restddb.Id{"id": "a"}, nil)
	require.NoError(t, err)
	// Values round-trip through JSON
	assert.Equal(t, restddb.Item{"id": "a", "n": float64(3)}, got)
}

func TestBadgerStore_TablesAreSeparate(t *testing.T) {
	store, err := NewBadgerStore(BadgerOptions{InMemory: true},
		TableDefinition{Name: "a", KeySchema: restddb.KeySchema{"id"}},
		TableDefinition{Name: "b", KeySchema: restddb.KeySchema{"id"}},
	)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.PutItem(ctx, "a", restddb.Item{"id": "1"}, restddb.NoCondition))

	got, err := store.GetItem(ctx, "b", restddb.Id{"id": "1"}, nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}
