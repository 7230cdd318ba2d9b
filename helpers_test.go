package restddb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneItem(t *testing.T) {
	original := Item{
		"id":   "a",
		"tags": []any{"x", "y"},
		"meta": map[string]any{"n": 1.0},
		"raw":  []byte("abc"),
	}

	clone := CloneItem(original)
	assert.Equal(t, original, clone)

	clone["tags"].([]any)[0] = "z"
	clone["meta"].(map[string]any)["n"] = 2.0
	clone["raw"].([]byte)[0] = 'z'

	assert.Equal(t, "x", original["tags"].([]any)[0])
	assert.Equal(t, 1.0, original["meta"].(map[string]any)["n"])
	assert.Equal(t, []byte("abc"), original["raw"])

	assert.Nil(t, CloneItem(nil))
}

func TestProject(t *testing.T) {
	item := Item{"id": "a", "sk": 1, "name": "x"}

	assert.Equal(t, Item{"id": "a", "sk": 1}, Project(item, []string{"id", "sk", "missing"}))
	assert.Equal(t, item, Project(item, nil))
}
