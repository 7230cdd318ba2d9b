package store

import (
	"context"
	"testing"

	"github.com/sicko7947/restddb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMemoryStore(t *testing.T) {
	store := NewMemoryStore(testTables...)
	require.NotNil(t, store)

	// Verify it implements the interface
	var _ restddb.Store = store
}

func TestMemoryStore_Contract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) restddb.Store {
		return NewMemoryStore(testTables...)
	})
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := NewMemoryStore(testTables...)
	ctx := context.Background()

	item := restddb.Item{"id": "a", "tags": []any{"x"}}
	require.NoError(t, store.PutItem(ctx, "items", item, restddb.NoCondition))

	// Mutating the written or returned item must not reach the stored row
	item["tags"].([]any)[0] = "mutated"

	got, err := store.GetItem(ctx, "items", restddb.Id{"id": "a"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "x", got["tags"].([]any)[0])

	got["tags"].([]any)[0] = "mutated"

	again, err := store.GetItem(ctx, "items", restddb.Id{"id": "a"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "x", again["tags"].([]any)[0])
}

func TestMemoryStore_Len(t *testing.T) {
	store := NewMemoryStore(testTables...)
	ctx := context.Background()

	assert.Equal(t, 0, store.Len("items"))
	assert.Equal(t, 0, store.Len("missing"))

	require.NoError(t, store.PutItem(ctx, "items", restddb.Item{"id": "a"}, restddb.NoCondition))
	require.NoError(t, store.PutItem(ctx, "items", restddb.Item{"id": "b"}, restddb.NoCondition))
	assert.Equal(t, 2, store.Len("items"))
}
