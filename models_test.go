package restddb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateId(t *testing.T) {
	schema := KeySchema{"pk", "sk"}

	tests := []struct {
		name    string
		id      Id
		wantErr bool
	}{
		{name: "exact match", id: Id{"pk": "a", "sk": 1}},
		{name: "missing sort key", id: Id{"pk": "a"}, wantErr: true},
		{name: "nil value", id: Id{"pk": "a", "sk": nil}, wantErr: true},
		{name: "extra attribute", id: Id{"pk": "a", "sk": 1, "name": "x"}, wantErr: true},
		{name: "wrong attribute", id: Id{"id": "a", "sk": 1}, wantErr: true},
		{name: "empty", id: Id{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateId(schema, tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewItem_IdWins(t *testing.T) {
	item := NewItem(Id{"id": "a"}, Item{"id": "b", "name": "x"})

	assert.Equal(t, Item{"id": "a", "name": "x"}, item)
	assert.Equal(t, Item{"id": "a"}, NewItem(Id{"id": "a"}, nil))
}

func TestWithoutKeys(t *testing.T) {
	schema := KeySchema{"id"}
	data := Item{"id": "a", "name": "x"}

	assert.Equal(t, Item{"name": "x"}, WithoutKeys(schema, data))
	assert.Equal(t, Item{"id": "a", "name": "x"}, data)
	assert.Empty(t, WithoutKeys(schema, Item{"id": "a"}))
}

func TestKeySchema(t *testing.T) {
	schema := KeySchema{"pk", "sk"}

	assert.True(t, schema.Contains("sk"))
	assert.False(t, schema.Contains("v"))
	assert.Equal(t, "[pk,sk]", schema.String())
}
