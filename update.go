package restddb

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
)

// ErrEmptyUpdate is returned when there is nothing to set
var ErrEmptyUpdate = errors.New("update expression requires at least one attribute")

var attributeNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// UpdateExpression is a generic "set all of these attributes" instruction
// and the value bindings it refers to
type UpdateExpression struct {
	Expression string
	Values     map[string]any
}

// BindingKey derives the value placeholder of an attribute
func BindingKey(name string) string {
	return ":" + name
}

// BuildUpdateExpression turns a flat attribute map into a SET expression.
// Attributes are visited in ascending name order so that the output is
// reproducible. Nested values are bound wholesale.
func BuildUpdateExpression(attrs Item) (UpdateExpression, error) {
	if len(attrs) == 0 {
		return UpdateExpression{}, ErrEmptyUpdate
	}

	names := slices.Sorted(maps.Keys(attrs))
	clauses := make([]string, 0, len(names))
	values := make(map[string]any, len(names))

	for _, name := range names {
		if !attributeNamePattern.MatchString(name) {
			return UpdateExpression{}, fmt.Errorf("invalid attribute name %q", name)
		}

		key := BindingKey(name)
		clauses = append(clauses, name+" = "+key)
		values[key] = attrs[name]
	}

	return UpdateExpression{
		Expression: "SET " + strings.Join(clauses, ","),
		Values:     values,
	}, nil
}
