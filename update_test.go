package restddb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdateExpression(t *testing.T) {
	update, err := BuildUpdateExpression(Item{
		"key3": true,
		"key1": 1,
		"key2": "two",
	})
	require.NoError(t, err)

	assert.Equal(t, "SET key1 = :key1,key2 = :key2,key3 = :key3", update.Expression)
	assert.Equal(t, map[string]any{
		":key1": 1,
		":key2": "two",
		":key3": true,
	}, update.Values)
}

func TestBuildUpdateExpression_MixedValues(t *testing.T) {
	update, err := BuildUpdateExpression(Item{
		"key1": "v1",
		"key2": 123,
		"key3": map[string]any{"a": "b"},
	})
	require.NoError(t, err)

	assert.Equal(t, "SET key1 = :key1,key2 = :key2,key3 = :key3", update.Expression)
	assert.Equal(t, map[string]any{
		":key1": "v1",
		":key2": 123,
		":key3": map[string]any{"a": "b"},
	}, update.Values)
}

func TestBuildUpdateExpression_SingleAttribute(t *testing.T) {
	update, err := BuildUpdateExpression(Item{"status": "done"})
	require.NoError(t, err)

	assert.Equal(t, "SET status = :status", update.Expression)
	assert.Equal(t, map[string]any{":status": "done"}, update.Values)
}

func TestBuildUpdateExpression_NestedValuesBoundWholesale(t *testing.T) {
	nested := map[string]any{"a": []any{1, 2}}
	update, err := BuildUpdateExpression(Item{"meta": nested})
	require.NoError(t, err)

	assert.Equal(t, nested, update.Values[":meta"])
}

func TestBuildUpdateExpression_Errors(t *testing.T) {
	_, err := BuildUpdateExpression(nil)
	assert.ErrorIs(t, err, ErrEmptyUpdate)

	_, err = BuildUpdateExpression(Item{})
	assert.ErrorIs(t, err, ErrEmptyUpdate)

	for _, name := range []string{"a-b", "a b", "a.b", ""} {
		_, err := BuildUpdateExpression(Item{name: 1})
		assert.Error(t, err, "name %q", name)
	}
}

func TestBindingKey(t *testing.T) {
	assert.Equal(t, ":key1", BindingKey("key1"))
}
